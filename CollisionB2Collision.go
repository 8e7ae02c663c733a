package box2d

import (
	"math"
)

///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
// B2Collision.h
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////

const B2_nullFeature uint8 = math.MaxUint8

// Contact ids encode the features that intersect to form the contact point,
// so a point can be matched exactly across time steps for warm starting.
// The high byte is the feature on shape A and the low byte the feature on shape B.
func B2MakeId(a, b int) uint16 {
	return uint16(uint8(a))<<8 | uint16(uint8(b))
}

// A manifold point is a contact point belonging to a contact
// manifold. It holds details related to the geometry and dynamics
// of the contact points.
// Note: the impulses are used for internal caching and may not
// provide reliable contact forces, especially for high speed collisions.
type B2ManifoldPoint struct {
	// world coordinates
	Point B2Vec2

	// Location of the contact point relative to bodyA's origin in world space
	// When used internally to the solver this is relative to the center of mass.
	AnchorA B2Vec2

	// Location of the contact point relative to bodyB's origin in world space
	AnchorB B2Vec2

	// the separation of the contact point, negative if penetrating
	Separation float64

	NormalImpulse    float64 // the non-penetration impulse
	TangentImpulse   float64 // the friction impulse
	MaxNormalImpulse float64 // the maximum normal impulse applied during sub-stepping

	// Relative normal velocity pre-solve. Used for hit events. If the normal
	// impulse is zero then there was no hit. Negative means shapes are approaching.
	NormalVelocity float64

	Id        uint16 // uniquely identifies a contact point between two shapes
	Persisted bool   // did this contact point exist the previous step?
}

// A contact manifold describes the contact points between colliding shapes
type B2Manifold struct {
	Points     [B2_maxManifoldPoints]B2ManifoldPoint // the points of contact
	Normal     B2Vec2                                // world vector pointing from A to B
	PointCount int                                   // the number of manifold points
}

var B2PointState = struct {
	B2_nullState    uint8 // point does not exist
	B2_addState     uint8 // point was added in the update
	B2_persistState uint8 // point persisted across the update
	B2_removeState  uint8 // point was removed in the update
}{
	B2_nullState:    0,
	B2_addState:     1,
	B2_persistState: 2,
	B2_removeState:  3,
}

// Low level ray-cast input data
type B2RayCastInput struct {
	Origin      B2Vec2 // start point of the ray cast
	Translation B2Vec2 // translation of the ray cast
	MaxFraction float64
}

func MakeB2RayCastInput(origin, translation B2Vec2, maxFraction float64) B2RayCastInput {
	return B2RayCastInput{
		Origin:      origin,
		Translation: translation,
		MaxFraction: maxFraction,
	}
}

// Low level shape cast input in generic form. This allows casting an arbitrary point
// cloud wrap with a radius. For example, a circle is a single point with a non-zero radius.
// A capsule is two points with a non-zero radius. A box is four points with a zero radius.
type B2ShapeCastInput struct {
	Points      [B2_maxPolygonVertices]B2Vec2 // A point cloud to cast
	Count       int                           // The number of points
	Radius      float64                       // The radius around the point cloud
	Translation B2Vec2                        // The translation of the shape cast
	MaxFraction float64                       // The maximum fraction of the translation to consider, typically 1
}

func MakeB2ShapeCastInput() B2ShapeCastInput {
	return B2ShapeCastInput{MaxFraction: 1.0}
}

// Low level ray-cast or shape-cast output data
type B2CastOutput struct {
	Normal     B2Vec2  // The surface normal at the hit point
	Point      B2Vec2  // The surface hit point
	Fraction   float64 // The fraction of the input translation at collision
	Iterations int     // The number of iterations used
	Hit        bool    // Did the cast hit?
}

// This holds the mass data computed for a shape.
type B2MassData struct {
	/// The mass of the shape, usually in kilograms.
	Mass float64

	/// The position of the shape's centroid relative to the shape's origin.
	Center B2Vec2

	/// The rotational inertia of the shape about the local origin.
	RotationalInertia float64
}

// An axis aligned bounding box.
type B2AABB struct {
	LowerBound B2Vec2 // the lower vertex
	UpperBound B2Vec2 // the upper vertex
}

func MakeB2AABB(lower, upper B2Vec2) B2AABB {
	return B2AABB{
		LowerBound: lower,
		UpperBound: upper,
	}
}

// Get the center of the AABB.
func (bb B2AABB) GetCenter() B2Vec2 {
	return MakeB2Vec2(
		0.5*(bb.LowerBound.X+bb.UpperBound.X),
		0.5*(bb.LowerBound.Y+bb.UpperBound.Y),
	)
}

// Get the extents of the AABB (half-widths).
func (bb B2AABB) GetExtents() B2Vec2 {
	return MakeB2Vec2(
		0.5*(bb.UpperBound.X-bb.LowerBound.X),
		0.5*(bb.UpperBound.Y-bb.LowerBound.Y),
	)
}

// Get the perimeter length
func (bb B2AABB) GetPerimeter() float64 {
	wx := bb.UpperBound.X - bb.LowerBound.X
	wy := bb.UpperBound.Y - bb.LowerBound.Y
	return 2.0 * (wx + wy)
}

// Does this aabb contain the provided AABB.
func (bb B2AABB) Contains(aabb B2AABB) bool {
	return (bb.LowerBound.X <= aabb.LowerBound.X &&
		bb.LowerBound.Y <= aabb.LowerBound.Y &&
		aabb.UpperBound.X <= bb.UpperBound.X &&
		aabb.UpperBound.Y <= bb.UpperBound.Y)
}

func (bb B2AABB) IsValid() bool {
	d := B2Vec2Sub(bb.UpperBound, bb.LowerBound)
	valid := d.X >= 0.0 && d.Y >= 0.0
	valid = valid && bb.LowerBound.IsValid() && bb.UpperBound.IsValid()
	return valid
}

// Union of two AABBs
func B2AABBUnion(a, b B2AABB) B2AABB {
	return B2AABB{
		LowerBound: MakeB2Vec2(math.Min(a.LowerBound.X, b.LowerBound.X), math.Min(a.LowerBound.Y, b.LowerBound.Y)),
		UpperBound: MakeB2Vec2(math.Max(a.UpperBound.X, b.UpperBound.X), math.Max(a.UpperBound.Y, b.UpperBound.Y)),
	}
}

func B2TestOverlapBoundingBoxes(a, b B2AABB) bool {
	if b.LowerBound.X > a.UpperBound.X || b.LowerBound.Y > a.UpperBound.Y {
		return false
	}

	if a.LowerBound.X > b.UpperBound.X || a.LowerBound.Y > b.UpperBound.Y {
		return false
	}

	return true
}

// Enlarge a to contain b
// @return true if the AABB grew
func B2EnlargeAABB(a *B2AABB, b B2AABB) bool {
	changed := false
	if b.LowerBound.X < a.LowerBound.X {
		a.LowerBound.X = b.LowerBound.X
		changed = true
	}

	if b.LowerBound.Y < a.LowerBound.Y {
		a.LowerBound.Y = b.LowerBound.Y
		changed = true
	}

	if a.UpperBound.X < b.UpperBound.X {
		a.UpperBound.X = b.UpperBound.X
		changed = true
	}

	if a.UpperBound.Y < b.UpperBound.Y {
		a.UpperBound.Y = b.UpperBound.Y
		changed = true
	}

	return changed
}

// Convex hull used for polygon collision
type B2Hull struct {
	Points [B2_maxPolygonVertices]B2Vec2
	Count  int
}

///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
// B2Collision.cpp
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////

// Compare the point ids of two manifolds. state1 describes the points of the
// old manifold and state2 the points of the new one.
func B2GetPointStates(state1 *[B2_maxManifoldPoints]uint8, state2 *[B2_maxManifoldPoints]uint8, manifold1 *B2Manifold, manifold2 *B2Manifold) {

	for i := 0; i < B2_maxManifoldPoints; i++ {
		state1[i] = B2PointState.B2_nullState
		state2[i] = B2PointState.B2_nullState
	}

	// Detect persists and removes.
	for i := 0; i < manifold1.PointCount; i++ {
		id := manifold1.Points[i].Id

		state1[i] = B2PointState.B2_removeState

		for j := 0; j < manifold2.PointCount; j++ {
			if manifold2.Points[j].Id == id {
				state1[i] = B2PointState.B2_persistState
				break
			}
		}
	}

	// Detect persists and adds.
	for i := 0; i < manifold2.PointCount; i++ {
		id := manifold2.Points[i].Id

		state2[i] = B2PointState.B2_addState

		for j := 0; j < manifold1.PointCount; j++ {
			if manifold1.Points[j].Id == id {
				state2[i] = B2PointState.B2_persistState
				break
			}
		}
	}
}

// From Real-time Collision Detection, p179.
func (bb B2AABB) RayCast(p1, p2 B2Vec2) B2CastOutput {
	// Radius not handled
	output := B2CastOutput{}

	tmin := -B2_maxFloat
	tmax := B2_maxFloat

	p := p1
	d := B2Vec2Sub(p2, p1)
	absD := B2Vec2Abs(d)

	normal := B2Vec2_zero

	// x-coordinate
	if absD.X < B2_epsilon {
		// parallel
		if p.X < bb.LowerBound.X || bb.UpperBound.X < p.X {
			return output
		}
	} else {
		inv_d := 1.0 / d.X
		t1 := (bb.LowerBound.X - p.X) * inv_d
		t2 := (bb.UpperBound.X - p.X) * inv_d

		// Sign of the normal vector.
		s := -1.0

		if t1 > t2 {
			t1, t2 = t2, t1
			s = 1.0
		}

		// Push the min up
		if t1 > tmin {
			normal.Y = 0.0
			normal.X = s
			tmin = t1
		}

		// Pull the max down
		tmax = math.Min(tmax, t2)

		if tmin > tmax {
			return output
		}
	}

	// y-coordinate
	if absD.Y < B2_epsilon {
		// parallel
		if p.Y < bb.LowerBound.Y || bb.UpperBound.Y < p.Y {
			return output
		}
	} else {
		inv_d := 1.0 / d.Y
		t1 := (bb.LowerBound.Y - p.Y) * inv_d
		t2 := (bb.UpperBound.Y - p.Y) * inv_d

		// Sign of the normal vector.
		s := -1.0

		if t1 > t2 {
			t1, t2 = t2, t1
			s = 1.0
		}

		// Push the min up
		if t1 > tmin {
			normal.X = 0.0
			normal.Y = s
			tmin = t1
		}

		// Pull the max down
		tmax = math.Min(tmax, t2)

		if tmin > tmax {
			return output
		}
	}

	// Does the ray start inside the box?
	// Does the ray intersect beyond the max fraction?
	if tmin < 0.0 || 1.0 < tmin {
		return output
	}

	// Intersection.
	output.Fraction = tmin
	output.Normal = normal
	output.Point = B2Vec2Lerp(p1, p2, tmin)
	output.Hit = true
	return output
}

// quickhull recursion
func b2RecurseHull(p1 B2Vec2, p2 B2Vec2, ps []B2Vec2) B2Hull {
	var hull B2Hull
	hull.Count = 0

	if len(ps) == 0 {
		return hull
	}

	// create an edge vector pointing from p1 to p2
	e := B2Vec2Normalize(B2Vec2Sub(p2, p1))

	// discard points left of e and find point furthest to the right of e
	var rightPoints [B2_maxPolygonVertices]B2Vec2
	rightCount := 0

	bestIndex := 0
	bestDistance := B2Vec2Cross(B2Vec2Sub(ps[bestIndex], p1), e)
	if bestDistance > 0.0 {
		rightPoints[rightCount] = ps[bestIndex]
		rightCount++
	}

	for i := 1; i < len(ps); i++ {
		distance := B2Vec2Cross(B2Vec2Sub(ps[i], p1), e)
		if distance > bestDistance {
			bestIndex = i
			bestDistance = distance
		}

		if distance > 0.0 {
			rightPoints[rightCount] = ps[i]
			rightCount++
		}
	}

	if bestDistance < 2.0*B2_linearSlop {
		return hull
	}

	bestPoint := ps[bestIndex]

	// compute hull to the right of p1-bestPoint
	hull1 := b2RecurseHull(p1, bestPoint, rightPoints[:rightCount])

	// compute hull to the right of bestPoint-p2
	hull2 := b2RecurseHull(bestPoint, p2, rightPoints[:rightCount])

	// stich together hulls
	for i := 0; i < hull1.Count; i++ {
		hull.Points[hull.Count] = hull1.Points[i]
		hull.Count++
	}

	hull.Points[hull.Count] = bestPoint
	hull.Count++

	for i := 0; i < hull2.Count; i++ {
		hull.Points[hull.Count] = hull2.Points[i]
		hull.Count++
	}

	B2Assert(hull.Count < B2_maxPolygonVertices)

	return hull
}

// Compute the convex hull of a set of points. Returns an empty hull if it fails.
// Some failure cases:
// - all points very close together
// - all points on a line
// - less than 3 points
// - more than B2_maxPolygonVertices points
// This welds close points and removes collinear points.
//
// quickhull algorithm
// - merges vertices based on B2_linearSlop
// - removes collinear points using B2_linearSlop
// - returns an empty hull if it fails
func B2ComputeHull(points []B2Vec2) B2Hull {
	var hull B2Hull
	hull.Count = 0

	count := len(points)
	if count < 3 || count > B2_maxPolygonVertices {
		// check your data
		return hull
	}

	aabb := B2AABB{
		LowerBound: MakeB2Vec2(B2_maxFloat, B2_maxFloat),
		UpperBound: MakeB2Vec2(-B2_maxFloat, -B2_maxFloat),
	}

	// Perform aggressive point welding. First point always remains.
	// Also compute the bounding box for later.
	var ps [B2_maxPolygonVertices]B2Vec2
	n := 0
	linearSlop := B2_linearSlop
	tolSqr := 16.0 * linearSlop * linearSlop
	for i := 0; i < count; i++ {
		aabb.LowerBound = B2Vec2Min(aabb.LowerBound, points[i])
		aabb.UpperBound = B2Vec2Max(aabb.UpperBound, points[i])

		vi := points[i]

		unique := true
		for j := 0; j < i; j++ {
			vj := points[j]

			distSqr := B2Vec2DistanceSquared(vi, vj)
			if distSqr < tolSqr {
				unique = false
				break
			}
		}

		if unique {
			ps[n] = vi
			n++
		}
	}

	if n < 3 {
		// all points very close together, check your data and check your scale
		return hull
	}

	// Find an extreme point as the first point on the hull
	c := aabb.GetCenter()
	f1 := 0
	dsq1 := B2Vec2DistanceSquared(c, ps[f1])
	for i := 1; i < n; i++ {
		dsq := B2Vec2DistanceSquared(c, ps[i])
		if dsq > dsq1 {
			f1 = i
			dsq1 = dsq
		}
	}

	// remove p1 from working set
	p1 := ps[f1]
	ps[f1] = ps[n-1]
	n = n - 1

	f2 := 0
	dsq2 := B2Vec2DistanceSquared(p1, ps[f2])
	for i := 1; i < n; i++ {
		dsq := B2Vec2DistanceSquared(p1, ps[i])
		if dsq > dsq2 {
			f2 = i
			dsq2 = dsq
		}
	}

	// remove p2 from working set
	p2 := ps[f2]
	ps[f2] = ps[n-1]
	n = n - 1

	// split the points into points that are left and right of the line p1-p2.
	var rightPoints [B2_maxPolygonVertices - 2]B2Vec2
	rightCount := 0

	var leftPoints [B2_maxPolygonVertices - 2]B2Vec2
	leftCount := 0

	e := B2Vec2Normalize(B2Vec2Sub(p2, p1))

	for i := 0; i < n; i++ {
		d := B2Vec2Cross(B2Vec2Sub(ps[i], p1), e)

		// slop used here to skip points that are very close to the line p1-p2
		if d >= 2.0*linearSlop {
			rightPoints[rightCount] = ps[i]
			rightCount++
		} else if d <= -2.0*linearSlop {
			leftPoints[leftCount] = ps[i]
			leftCount++
		}
	}

	// compute hulls on right and left
	hull1 := b2RecurseHull(p1, p2, rightPoints[:rightCount])
	hull2 := b2RecurseHull(p2, p1, leftPoints[:leftCount])

	if hull1.Count == 0 && hull2.Count == 0 {
		// all points collinear
		return hull
	}

	// stitch hulls together, preserving CCW winding order
	hull.Points[hull.Count] = p1
	hull.Count++

	for i := 0; i < hull1.Count; i++ {
		hull.Points[hull.Count] = hull1.Points[i]
		hull.Count++
	}

	hull.Points[hull.Count] = p2
	hull.Count++

	for i := 0; i < hull2.Count; i++ {
		hull.Points[hull.Count] = hull2.Points[i]
		hull.Count++
	}

	B2Assert(hull.Count <= B2_maxPolygonVertices)

	// merge collinear
	searching := true
	for searching && hull.Count > 2 {
		searching = false

		for i := 0; i < hull.Count; i++ {
			i1 := i
			i2 := (i + 1) % hull.Count
			i3 := (i + 2) % hull.Count

			s1 := hull.Points[i1]
			s2 := hull.Points[i2]
			s3 := hull.Points[i3]

			// unit edge vector for s1-s3
			r := B2Vec2Normalize(B2Vec2Sub(s3, s1))

			distance := B2Vec2Cross(B2Vec2Sub(s2, s1), r)
			if distance <= 2.0*linearSlop {
				// remove midpoint from hull
				for j := i2; j < hull.Count-1; j++ {
					hull.Points[j] = hull.Points[j+1]
				}
				hull.Count -= 1

				// continue searching for collinear points
				searching = true

				break
			}
		}
	}

	if hull.Count < 3 {
		// all points collinear, shouldn't be reached since this was validated above
		hull.Count = 0
	}

	return hull
}

// This determines if a hull is valid. Checks for:
// - convexity
// - collinear points
// This is expensive and should not be called at runtime.
func B2ValidateHull(hull *B2Hull) bool {
	if hull.Count < 3 || B2_maxPolygonVertices < hull.Count {
		return false
	}

	// test that every point is behind every edge
	for i := 0; i < hull.Count; i++ {
		// create an edge vector
		i1 := i
		i2 := 0
		if i < hull.Count-1 {
			i2 = i1 + 1
		}
		p := hull.Points[i1]
		e := B2Vec2Normalize(B2Vec2Sub(hull.Points[i2], p))

		for j := 0; j < hull.Count; j++ {
			// skip points that subtend the current edge
			if j == i1 || j == i2 {
				continue
			}

			distance := B2Vec2Cross(B2Vec2Sub(hull.Points[j], p), e)
			if distance >= 0.0 {
				return false
			}
		}
	}

	// test for collinear points
	linearSlop := B2_linearSlop
	for i := 0; i < hull.Count; i++ {
		i1 := i
		i2 := (i + 1) % hull.Count
		i3 := (i + 2) % hull.Count

		p1 := hull.Points[i1]
		p2 := hull.Points[i2]
		p3 := hull.Points[i3]

		e := B2Vec2Normalize(B2Vec2Sub(p3, p1))

		distance := B2Vec2Cross(B2Vec2Sub(p2, p1), e)
		if distance <= linearSlop {
			// p1-p2-p3 are collinear
			return false
		}
	}

	return true
}
