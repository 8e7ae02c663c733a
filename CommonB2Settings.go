package box2d

import (
	"math"
)

// @file
// Settings that can be overriden for your application
//

func B2Assert(a bool) {
	if !a {
		panic("B2Assert")
	}
}

const B2_maxFloat = math.MaxFloat64

// Single precision machine epsilon. The solver and the geometry routines
// were tuned against this tolerance, so it is kept even in float64.
const B2_epsilon = 1.1920929e-7
const B2_pi = math.Pi

const B2_nullIndex = -1

const B2_huge = 100000.0 * B2_lengthUnitsPerMeter

// Tunable Constants

// You can use this to change the length scale used by your game.
// For example for inches you could use 39.4.
const B2_lengthUnitsPerMeter = 1.0

// The maximum number of vertices on a convex polygon. You cannot increase
// this too much because the polygon is stored by value in shapes and proxies.
const B2_maxPolygonVertices = 8

// The maximum number of simultaneous worlds that can be allocated
const B2_maxWorlds = 128

// The maximum number of workers a world will use.
const B2_maxWorkers = 64

// Number of colors in the constraint graph. Constraints that do not fit
// in a color go to the overflow and are solved single threaded.
const B2_graphColorCount = 12

// A small length used as a collision and constraint tolerance. Usually it is
// chosen to be numerically significant, but visually insignificant.
const B2_linearSlop = 0.005 * B2_lengthUnitsPerMeter

// A small angle used as a collision and constraint tolerance.
const B2_angularSlop = 2.0 / 180.0 * B2_pi

// The radius of the polygon/edge shape skin.
const B2_polygonRadius = 2.0 * B2_linearSlop

// Contacts are created speculatively within this distance.
const B2_speculativeDistance = 4.0 * B2_linearSlop

// The fattening margin of the broad-phase AABBs. Larger values produce fewer
// tree updates at the cost of more pair candidates.
const B2_aabbMargin = 0.1 * B2_lengthUnitsPerMeter

// The maximum number of contact points between two convex shapes.
const B2_maxManifoldPoints = 2

// Maximum number of iterations of the GJK loop.
const B2_maxGJKIterations = 20

// Maximum number of iterations of the time of impact outer loop.
const B2_maxTOIIterations = 20

// The maximum rotation of a body per time step. This limit is very large and
// is used to prevent numerical problems.
const B2_maxRotation = 0.25 * B2_pi

// The maximum translation of a body per time step, in meters.
const B2_maxTranslation = 4.0 * B2_lengthUnitsPerMeter

// The time that a body must be still before it will go to sleep.
const B2_timeToSleep = 0.5

// A body cannot sleep if its linear velocity is above this tolerance.
const B2_linearSleepTolerance = 0.05 * B2_lengthUnitsPerMeter

// A body cannot sleep if its angular velocity is above this tolerance.
const B2_angularSleepTolerance = 2.0 / 180.0 * B2_pi

// Used to detect bad values. Positions greater than about 16km will have
// precision problems, so 100km as a limit should be fine in all cases.
const B2_hugeVelocity = 4.0 * B2_lengthUnitsPerMeter * B2_huge

// Stack size used for tree traversal and rebuilds.
const B2_treeStackSize = 1024

// Tree rotations are a local optimization applied after each insertion.
const B2_treeRotate = true

// Use binned surface area heuristic partitioning instead of the median split
// during tree rebuilds.
var B2_treeSAHSplit = false

// Number of bins used by the surface area heuristic partitioner.
const B2_treeBinCount = 64

// Forces every constraint into the overflow. Useful when comparing the
// colored solver against the serial one.
var B2_forceOverflow = false

// Default category and mask bits.
const B2_defaultCategoryBits uint32 = 0x00000001
const B2_defaultMaskBits uint32 = 0xFFFFFFFF

// Enables expensive structural checks of islands and the constraint graph.
var B2_validate = false
