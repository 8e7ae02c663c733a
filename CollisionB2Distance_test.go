package box2d_test

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"testing"

	box2d "github.com/Alexander-r/box2d.go/v3"
)

func makeRandomPolygon(g *lcg) (box2d.B2Polygon, bool) {
	var points [box2d.B2_maxPolygonVertices]box2d.B2Vec2
	for i := range points {
		points[i] = g.vec(-1.0, 1.0)
	}

	hull := box2d.B2ComputeHull(points[:])
	if hull.Count < 3 {
		return box2d.B2Polygon{}, false
	}

	return box2d.B2MakePolygon(hull, 0.0), true
}

// Exact distance between two separated convex polygons from their edges.
func bruteForceDistance(polyA box2d.B2Polygon, xfA box2d.B2Transform, polyB box2d.B2Polygon, xfB box2d.B2Transform) float64 {
	best := math.MaxFloat64
	for i := 0; i < polyA.Count; i++ {
		a1 := box2d.B2TransformVec2Mul(xfA, polyA.Vertices[i])
		a2 := box2d.B2TransformVec2Mul(xfA, polyA.Vertices[(i+1)%polyA.Count])

		for j := 0; j < polyB.Count; j++ {
			b1 := box2d.B2TransformVec2Mul(xfB, polyB.Vertices[j])
			b2 := box2d.B2TransformVec2Mul(xfB, polyB.Vertices[(j+1)%polyB.Count])

			result := box2d.B2SegmentDistance(a1, a2, b1, b2)
			best = math.Min(best, result.DistanceSquared)
		}
	}
	return math.Sqrt(best)
}

func TestGJKMatchesBruteForce(t *testing.T) {
	g := &lcg{state: 11}

	checked := 0
	for checked < 200 {
		polyA, okA := makeRandomPolygon(g)
		polyB, okB := makeRandomPolygon(g)
		if okA == false || okB == false {
			continue
		}

		xfA := box2d.MakeB2TransformByPositionAndRotation(g.vec(-1.0, 1.0), box2d.MakeB2RotFromAngle(g.float(-math.Pi, math.Pi)))
		xfB := box2d.MakeB2TransformByPositionAndRotation(
			box2d.MakeB2Vec2(g.float(3.0, 6.0), g.float(-2.0, 2.0)),
			box2d.MakeB2RotFromAngle(g.float(-math.Pi, math.Pi)))

		input := box2d.B2DistanceInput{
			ProxyA:     box2d.B2MakeProxy(polyA.Vertices[:polyA.Count], 0.0),
			ProxyB:     box2d.B2MakeProxy(polyB.Vertices[:polyB.Count], 0.0),
			TransformA: xfA,
			TransformB: xfB,
			UseRadii:   false,
		}
		cache := box2d.B2DistanceCache{}
		output := box2d.B2ShapeDistance(&cache, input, nil)

		expected := bruteForceDistance(polyA, xfA, polyB, xfB)
		if math.Abs(output.Distance-expected) > 1e-4 {
			t.Fatalf("case %d: gjk distance %.6f, brute force %.6f", checked, output.Distance, expected)
		}

		// Witness points are consistent with the distance
		witness := box2d.B2Vec2Distance(output.PointA, output.PointB)
		if math.Abs(witness-output.Distance) > 1e-4 {
			t.Fatalf("case %d: witness distance %.6f, distance %.6f", checked, witness, output.Distance)
		}

		checked++
	}
}

func makeBoxSweep(from box2d.B2Vec2, to box2d.B2Vec2) box2d.B2Sweep {
	return box2d.B2Sweep{
		LocalCenter: box2d.B2Vec2_zero,
		C1:          from,
		C2:          to,
		Q1:          box2d.B2Rot_identity,
		Q2:          box2d.B2Rot_identity,
	}
}

func TestTimeOfImpact(t *testing.T) {
	box := box2d.B2MakeBox(0.5, 0.5)
	proxy := box2d.B2MakeProxy(box.Vertices[:box.Count], box.Radius)

	still := makeBoxSweep(box2d.B2Vec2_zero, box2d.B2Vec2_zero)

	approach := box2d.B2TimeOfImpact(box2d.B2TOIInput{
		ProxyA: proxy,
		ProxyB: proxy,
		SweepA: still,
		SweepB: makeBoxSweep(box2d.MakeB2Vec2(-5.0, 0.0), box2d.MakeB2Vec2(5.0, 0.0)),
		TMax:   1.0,
	})

	leave := box2d.B2TimeOfImpact(box2d.B2TOIInput{
		ProxyA: proxy,
		ProxyB: proxy,
		SweepA: still,
		SweepB: makeBoxSweep(box2d.MakeB2Vec2(-5.0, 0.0), box2d.MakeB2Vec2(-10.0, 0.0)),
		TMax:   1.0,
	})

	current := fmt.Sprintf("approach state = %d, t = %.2f\nleave state = %d, t = %.2f\n",
		approach.State, approach.T, leave.State, leave.T)
	expected := fmt.Sprintf("approach state = %d, t = 0.40\nleave state = %d, t = 1.00\n",
		box2d.B2TOIOutputState.E_hit, box2d.B2TOIOutputState.E_separated)

	checkMatch(t, expected, current)
}

func formatManifold(m box2d.B2Manifold, flip bool) string {
	normal := m.Normal
	if flip {
		normal = box2d.B2Vec2Neg(normal)
	}

	points := make([]box2d.B2ManifoldPoint, m.PointCount)
	copy(points, m.Points[:m.PointCount])
	sort.Slice(points, func(i, j int) bool { return points[i].Point.X < points[j].Point.X })

	var sb strings.Builder
	fmt.Fprintf(&sb, "count = %d, normal = (%.3f, %.3f)\n", m.PointCount, round3(normal.X), round3(normal.Y))
	for _, mp := range points {
		fmt.Fprintf(&sb, "point = (%.3f, %.3f), separation = %.3f\n", round3(mp.Point.X), round3(mp.Point.Y), round3(mp.Separation))
	}
	return sb.String()
}

func TestManifoldSymmetry(t *testing.T) {
	ground := box2d.B2MakeBox(1.0, 1.0)
	block := box2d.B2MakeBox(0.5, 0.5)

	xfA := box2d.MakeB2Transform()
	xfB := box2d.MakeB2TransformByPositionAndRotation(box2d.MakeB2Vec2(0.2, 1.49), box2d.MakeB2RotFromAngle(0.05))

	ab := box2d.B2CollidePolygons(ground, xfA, block, xfB, nil)
	ba := box2d.B2CollidePolygons(block, xfB, ground, xfA, nil)

	if ab.PointCount != 2 {
		t.Fatalf("expected a two point manifold, got %d", ab.PointCount)
	}

	checkMatch(t, formatManifold(ab, false), formatManifold(ba, true))

	circle := box2d.B2Circle{Center: box2d.B2Vec2_zero, Radius: 0.5}
	xfC := box2d.MakeB2TransformByPositionAndRotation(box2d.MakeB2Vec2(0.3, 1.45), box2d.B2Rot_identity)

	pc := box2d.B2CollidePolygonAndCircle(ground, xfA, circle, xfC)
	if pc.PointCount != 1 || pc.Normal.Y < 0.99 {
		t.Fatalf("polygon and circle: %s", formatManifold(pc, false))
	}

	capsule := box2d.B2Capsule{Center1: box2d.MakeB2Vec2(-0.5, 0.0), Center2: box2d.MakeB2Vec2(0.5, 0.0), Radius: 0.25}
	xfD := box2d.MakeB2TransformByPositionAndRotation(box2d.MakeB2Vec2(0.0, 1.2), box2d.B2Rot_identity)
	capsulePolygon := box2d.B2MakeCapsule(capsule.Center1, capsule.Center2, capsule.Radius)

	pd := box2d.B2CollidePolygonAndCapsule(ground, xfA, capsule, xfD, nil)
	dp := box2d.B2CollidePolygons(capsulePolygon, xfD, ground, xfA, nil)
	checkMatch(t, formatManifold(pd, false), formatManifold(dp, true))
}

func TestTimeOfImpactTargetSeparation(t *testing.T) {
	proxy := box2d.B2MakeProxy([]box2d.B2Vec2{box2d.B2Vec2_zero}, 0.5)

	input := box2d.B2TOIInput{
		ProxyA: proxy,
		ProxyB: proxy,
		SweepA: makeBoxSweep(box2d.B2Vec2_zero, box2d.B2Vec2_zero),
		SweepB: makeBoxSweep(box2d.MakeB2Vec2(-5.0, 0.0), box2d.MakeB2Vec2(5.0, 0.0)),
		TMax:   1.0,
	}

	output := box2d.B2TimeOfImpact(input)
	if output.State != box2d.B2TOIOutputState.E_hit {
		t.Fatalf("state %d, expected a hit", output.State)
	}

	// The rounded surfaces are one slop apart at the time of impact
	var cache box2d.B2DistanceCache
	distance := box2d.B2ShapeDistance(&cache, box2d.B2DistanceInput{
		ProxyA:     proxy,
		ProxyB:     proxy,
		TransformA: input.SweepA.GetTransform(output.T),
		TransformB: input.SweepB.GetTransform(output.T),
		UseRadii:   true,
	}, nil)

	if math.Abs(distance.Distance-box2d.B2_linearSlop) > 0.25*box2d.B2_linearSlop {
		t.Fatalf("separation %.6f at t = %.6f, expected %.6f", distance.Distance, output.T, box2d.B2_linearSlop)
	}

	// Touching would be at t = 0.4
	if output.T >= 0.4 || output.T < 0.399 {
		t.Fatalf("time of impact %.6f", output.T)
	}
}

func TestRoundedPolygonsSeparatedCores(t *testing.T) {
	boxA := box2d.B2MakeRoundedBox(0.5, 0.5, 0.1)
	boxB := box2d.B2MakeRoundedBox(0.5, 0.5, 0.1)
	xfA := box2d.MakeB2Transform()

	// Face to face with the cores 0.21 apart
	xfB := box2d.MakeB2TransformByPositionAndRotation(box2d.MakeB2Vec2(0.0, 1.21), box2d.B2Rot_identity)

	var cache box2d.B2DistanceCache
	face := box2d.B2CollidePolygons(boxA, xfA, boxB, xfB, &cache)
	current := fmt.Sprintf("cache = %d\n", cache.Count) + formatManifold(face, false)

	// The cached simplex warm starts the next query and gives the same manifold
	warm := box2d.B2CollidePolygons(boxA, xfA, boxB, xfB, &cache)
	current += fmt.Sprintf("cache = %d\n", cache.Count) + formatManifold(warm, false)

	expected := "cache = 2\n" +
		"count = 2, normal = (0.000, 1.000)\n" +
		"point = (-0.500, 0.605), separation = 0.010\n" +
		"point = (0.500, 0.605), separation = 0.010\n" +
		"cache = 2\n" +
		"count = 2, normal = (0.000, 1.000)\n" +
		"point = (-0.500, 0.605), separation = 0.010\n" +
		"point = (0.500, 0.605), separation = 0.010\n"
	checkMatch(t, expected, current)

	var flippedCache box2d.B2DistanceCache
	flipped := box2d.B2CollidePolygons(boxB, xfB, boxA, xfA, &flippedCache)
	checkMatch(t, formatManifold(face, false), formatManifold(flipped, true))

	// Corner to corner: the rounded shapes overlap but the cores do not
	xfC := box2d.MakeB2TransformByPositionAndRotation(box2d.MakeB2Vec2(1.05, 1.05), box2d.B2Rot_identity)

	cache = box2d.B2DistanceCache{}
	corner := box2d.B2CollidePolygons(boxA, xfA, boxB, xfC, &cache)
	current = fmt.Sprintf("cache = %d\n", cache.Count) + formatManifold(corner, false)

	expected = "cache = 1\n" +
		"count = 1, normal = (0.707, 0.707)\n" +
		"point = (0.525, 0.525), separation = -0.129\n"
	checkMatch(t, expected, current)

	// Beyond the speculative distance there is no manifold
	xfFar := box2d.MakeB2TransformByPositionAndRotation(box2d.MakeB2Vec2(0.0, 1.5), box2d.B2Rot_identity)
	if far := box2d.B2CollidePolygons(boxA, xfA, boxB, xfFar, &cache); far.PointCount != 0 {
		t.Fatalf("separated polygons produced %d points", far.PointCount)
	}
}

func TestPointStates(t *testing.T) {
	ground := box2d.B2MakeBox(1.0, 1.0)
	block := box2d.B2MakeBox(0.5, 0.5)

	xfA := box2d.MakeB2Transform()
	xf1 := box2d.MakeB2TransformByPositionAndRotation(box2d.MakeB2Vec2(0.2, 1.49), box2d.B2Rot_identity)
	xf2 := box2d.MakeB2TransformByPositionAndRotation(box2d.MakeB2Vec2(0.21, 1.495), box2d.B2Rot_identity)

	m1 := box2d.B2CollidePolygons(ground, xfA, block, xf1, nil)
	m2 := box2d.B2CollidePolygons(ground, xfA, block, xf2, nil)
	var empty box2d.B2Manifold

	var state1, state2 [box2d.B2_maxManifoldPoints]uint8
	box2d.B2GetPointStates(&state1, &state2, &m1, &m2)
	current := fmt.Sprintf("%v %v", state1, state2)

	box2d.B2GetPointStates(&state1, &state2, &m2, &empty)
	current += fmt.Sprintf(" | %v %v", state1, state2)

	checkMatch(t, "[2 2] [2 2] | [3 3] [0 0]", current)
}

func TestClassifyNormal(t *testing.T) {
	makeSegment := func(ghost1 box2d.B2Vec2) box2d.B2SmoothSegment {
		return box2d.B2SmoothSegment{
			Ghost1:  ghost1,
			Segment: box2d.B2Segment{Point1: box2d.MakeB2Vec2(0.0, 0.0), Point2: box2d.MakeB2Vec2(1.0, 0.0)},
			Ghost2:  box2d.MakeB2Vec2(2.0, 0.0),
			ChainId: 0,
		}
	}

	convex := box2d.B2MakeSmoothSegmentParams(makeSegment(box2d.MakeB2Vec2(-1.0, 1.0)))
	flat := box2d.B2MakeSmoothSegmentParams(makeSegment(box2d.MakeB2Vec2(-1.0, 0.0)))

	current := fmt.Sprintf("%d %d %d\n",
		box2d.B2ClassifyNormal(convex, box2d.MakeB2Vec2(-0.6, -0.8)),
		box2d.B2ClassifyNormal(convex, box2d.MakeB2Vec2(-0.8, 0.6)),
		box2d.B2ClassifyNormal(flat, box2d.MakeB2Vec2(-0.6, -0.8)))

	expected := fmt.Sprintf("%d %d %d\n",
		box2d.B2NormalType.E_normalAdmit,
		box2d.B2NormalType.E_normalSkip,
		box2d.B2NormalType.E_normalSnap)

	checkMatch(t, expected, current)
}
