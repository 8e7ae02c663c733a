package box2d

import (
	"math"
)

///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
// B2TimeOfImpact.h
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////

/// Input parameters for b2TimeOfImpact
type B2TOIInput struct {
	ProxyA B2DistanceProxy // The proxy for shape A
	ProxyB B2DistanceProxy // The proxy for shape B
	SweepA B2Sweep         // The movement of shape A
	SweepB B2Sweep         // The movement of shape B

	// Defines the sweep interval [0, tMax]
	TMax float64
}

var B2TOIOutputState = struct {
	E_unknown    uint8
	E_failed     uint8
	E_overlapped uint8
	E_hit        uint8
	E_separated  uint8
}{
	E_unknown:    0,
	E_failed:     1,
	E_overlapped: 2,
	E_hit:        3,
	E_separated:  4,
}

/// Output parameters for b2TimeOfImpact.
type B2TOIOutput struct {
	State uint8   // The type of result
	T     float64 // The time of the collision
}

///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
// B2TimeOfImpact.cpp
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////

var b2SeparationFunction_Type = struct {
	E_points uint8
	E_faceA  uint8
	E_faceB  uint8
}{
	E_points: 0,
	E_faceA:  1,
	E_faceB:  2,
}

type b2SeparationFunction struct {
	proxyA     *B2DistanceProxy
	proxyB     *B2DistanceProxy
	sweepA     B2Sweep
	sweepB     B2Sweep
	localPoint B2Vec2
	axis       B2Vec2
	kind       uint8
}

func b2MakeSeparationFunction(cache *B2DistanceCache, proxyA *B2DistanceProxy, sweepA B2Sweep, proxyB *B2DistanceProxy, sweepB B2Sweep, t1 float64) b2SeparationFunction {
	var f b2SeparationFunction

	f.proxyA = proxyA
	f.proxyB = proxyB
	count := int(cache.Count)
	B2Assert(0 < count && count < 3)

	f.sweepA = sweepA
	f.sweepB = sweepB

	xfA := sweepA.GetTransform(t1)
	xfB := sweepB.GetTransform(t1)

	if count == 1 {
		f.kind = b2SeparationFunction_Type.E_points
		localPointA := proxyA.Points[cache.IndexA[0]]
		localPointB := proxyB.Points[cache.IndexB[0]]
		pointA := B2TransformVec2Mul(xfA, localPointA)
		pointB := B2TransformVec2Mul(xfB, localPointB)
		f.axis = B2Vec2Normalize(B2Vec2Sub(pointB, pointA))
		f.localPoint = B2Vec2_zero
		return f
	}

	if cache.IndexA[0] == cache.IndexA[1] {
		// Two points on B and one on A.
		f.kind = b2SeparationFunction_Type.E_faceB
		localPointB1 := proxyB.Points[cache.IndexB[0]]
		localPointB2 := proxyB.Points[cache.IndexB[1]]

		f.axis = B2Vec2Normalize(B2Vec2CrossVectorScalar(B2Vec2Sub(localPointB2, localPointB1), 1.0))
		normal := B2RotVec2Mul(xfB.Q, f.axis)

		f.localPoint = MakeB2Vec2(0.5*(localPointB1.X+localPointB2.X), 0.5*(localPointB1.Y+localPointB2.Y))
		pointB := B2TransformVec2Mul(xfB, f.localPoint)

		localPointA := proxyA.Points[cache.IndexA[0]]
		pointA := B2TransformVec2Mul(xfA, localPointA)

		s := B2Vec2Dot(B2Vec2Sub(pointA, pointB), normal)
		if s < 0.0 {
			f.axis = B2Vec2Neg(f.axis)
		}
		return f
	}

	// Two points on A and one or two points on B.
	f.kind = b2SeparationFunction_Type.E_faceA
	localPointA1 := proxyA.Points[cache.IndexA[0]]
	localPointA2 := proxyA.Points[cache.IndexA[1]]

	f.axis = B2Vec2Normalize(B2Vec2CrossVectorScalar(B2Vec2Sub(localPointA2, localPointA1), 1.0))
	normal := B2RotVec2Mul(xfA.Q, f.axis)

	f.localPoint = MakeB2Vec2(0.5*(localPointA1.X+localPointA2.X), 0.5*(localPointA1.Y+localPointA2.Y))
	pointA := B2TransformVec2Mul(xfA, f.localPoint)

	localPointB := proxyB.Points[cache.IndexB[0]]
	pointB := B2TransformVec2Mul(xfB, localPointB)

	s := B2Vec2Dot(B2Vec2Sub(pointB, pointA), normal)
	if s < 0.0 {
		f.axis = B2Vec2Neg(f.axis)
	}
	return f
}

func (f *b2SeparationFunction) findMinSeparation(indexA *int, indexB *int, t float64) float64 {
	xfA := f.sweepA.GetTransform(t)
	xfB := f.sweepB.GetTransform(t)

	switch f.kind {
	case b2SeparationFunction_Type.E_points:
		axisA := B2RotVec2MulT(xfA.Q, f.axis)
		axisB := B2RotVec2MulT(xfB.Q, B2Vec2Neg(f.axis))

		*indexA = b2FindSupport(f.proxyA, axisA)
		*indexB = b2FindSupport(f.proxyB, axisB)

		localPointA := f.proxyA.Points[*indexA]
		localPointB := f.proxyB.Points[*indexB]

		pointA := B2TransformVec2Mul(xfA, localPointA)
		pointB := B2TransformVec2Mul(xfB, localPointB)

		return B2Vec2Dot(B2Vec2Sub(pointB, pointA), f.axis)

	case b2SeparationFunction_Type.E_faceA:
		normal := B2RotVec2Mul(xfA.Q, f.axis)
		pointA := B2TransformVec2Mul(xfA, f.localPoint)

		axisB := B2RotVec2MulT(xfB.Q, B2Vec2Neg(normal))

		*indexA = -1
		*indexB = b2FindSupport(f.proxyB, axisB)

		localPointB := f.proxyB.Points[*indexB]
		pointB := B2TransformVec2Mul(xfB, localPointB)

		return B2Vec2Dot(B2Vec2Sub(pointB, pointA), normal)

	case b2SeparationFunction_Type.E_faceB:
		normal := B2RotVec2Mul(xfB.Q, f.axis)
		pointB := B2TransformVec2Mul(xfB, f.localPoint)

		axisA := B2RotVec2MulT(xfA.Q, B2Vec2Neg(normal))

		*indexB = -1
		*indexA = b2FindSupport(f.proxyA, axisA)

		localPointA := f.proxyA.Points[*indexA]
		pointA := B2TransformVec2Mul(xfA, localPointA)

		return B2Vec2Dot(B2Vec2Sub(pointA, pointB), normal)

	default:
		B2Assert(false)
		*indexA = -1
		*indexB = -1
		return 0.0
	}
}

func (f *b2SeparationFunction) evaluate(indexA int, indexB int, t float64) float64 {
	xfA := f.sweepA.GetTransform(t)
	xfB := f.sweepB.GetTransform(t)

	switch f.kind {
	case b2SeparationFunction_Type.E_points:
		localPointA := f.proxyA.Points[indexA]
		localPointB := f.proxyB.Points[indexB]

		pointA := B2TransformVec2Mul(xfA, localPointA)
		pointB := B2TransformVec2Mul(xfB, localPointB)

		return B2Vec2Dot(B2Vec2Sub(pointB, pointA), f.axis)

	case b2SeparationFunction_Type.E_faceA:
		normal := B2RotVec2Mul(xfA.Q, f.axis)
		pointA := B2TransformVec2Mul(xfA, f.localPoint)

		localPointB := f.proxyB.Points[indexB]
		pointB := B2TransformVec2Mul(xfB, localPointB)

		return B2Vec2Dot(B2Vec2Sub(pointB, pointA), normal)

	case b2SeparationFunction_Type.E_faceB:
		normal := B2RotVec2Mul(xfB.Q, f.axis)
		pointB := B2TransformVec2Mul(xfB, f.localPoint)

		localPointA := f.proxyA.Points[indexA]
		pointA := B2TransformVec2Mul(xfA, localPointA)

		return B2Vec2Dot(B2Vec2Sub(pointA, pointB), normal)

	default:
		B2Assert(false)
		return 0.0
	}
}

/// Compute the upper bound on time before two shapes penetrate. Time is represented as
/// a fraction between [0,tMax]. This uses a swept separating axis and may miss some intermediate,
/// non-tunneling collisions. If you change the time interval, you should call this function
/// again.
/// CCD via the local separating axis method. This seeks progression
/// by computing the largest time at which separation is maintained.
func B2TimeOfImpact(input B2TOIInput) B2TOIOutput {
	output := B2TOIOutput{
		State: B2TOIOutputState.E_unknown,
		T:     input.TMax,
	}

	sweepA := input.SweepA
	sweepB := input.SweepB
	B2Assert(sweepA.Q1.IsNormalized() && sweepA.Q2.IsNormalized())
	B2Assert(sweepB.Q1.IsNormalized() && sweepB.Q2.IsNormalized())

	proxyA := &input.ProxyA
	proxyB := &input.ProxyB

	tMax := input.TMax

	// Stop with the rounded surfaces one slop apart so the speculative contact
	// takes over on the next step
	totalRadius := proxyA.Radius + proxyB.Radius
	target := math.Max(B2_linearSlop, totalRadius+B2_linearSlop)
	tolerance := 0.25 * B2_linearSlop
	B2Assert(target > tolerance)

	t1 := 0.0
	iter := 0

	// Prepare input for distance query.
	cache := B2DistanceCache{}
	distanceInput := B2DistanceInput{
		ProxyA:   input.ProxyA,
		ProxyB:   input.ProxyB,
		UseRadii: false,
	}

	// The outer loop progressively attempts to compute new separating axes.
	// This loop terminates when an axis is repeated (no progress is made).
	for {
		xfA := sweepA.GetTransform(t1)
		xfB := sweepB.GetTransform(t1)

		// Get the distance between shapes. We can also use the results
		// to get a separating axis.
		distanceInput.TransformA = xfA
		distanceInput.TransformB = xfB
		distanceOutput := B2ShapeDistance(&cache, distanceInput, nil)

		// If the shapes are overlapped, we give up on continuous collision.
		if distanceOutput.Distance <= 0.0 {
			// Failure!
			output.State = B2TOIOutputState.E_overlapped
			output.T = 0.0
			break
		}

		if distanceOutput.Distance < target+tolerance {
			// Victory!
			output.State = B2TOIOutputState.E_hit
			output.T = t1
			break
		}

		// Initialize the separating axis.
		fcn := b2MakeSeparationFunction(&cache, proxyA, sweepA, proxyB, sweepB, t1)

		// Compute the TOI on the separating axis. We do this by successively
		// resolving the deepest point. This loop is bounded by the number of vertices.
		done := false
		t2 := tMax
		pushBackIter := 0
		for {
			// Find the deepest point at t2. Store the witness point indices.
			var indexA, indexB int
			s2 := fcn.findMinSeparation(&indexA, &indexB, t2)

			// Is the final configuration separated?
			if s2 > target+tolerance {
				// Victory!
				output.State = B2TOIOutputState.E_separated
				output.T = tMax
				done = true
				break
			}

			// Has the separation reached tolerance?
			if s2 > target-tolerance {
				// Advance the sweeps
				t1 = t2
				break
			}

			// Compute the initial separation of the witness points.
			s1 := fcn.evaluate(indexA, indexB, t1)

			// Check for initial overlap. This might happen if the root finder
			// runs out of iterations.
			if s1 < target-tolerance {
				output.State = B2TOIOutputState.E_failed
				output.T = t1
				done = true
				break
			}

			// Check for touching
			if s1 <= target+tolerance {
				// Victory! t1 should hold the TOI (could be 0.0).
				output.State = B2TOIOutputState.E_hit
				output.T = t1
				done = true
				break
			}

			// Compute 1D root of: f(x) - target = 0
			rootIterCount := 0
			a1 := t1
			a2 := t2
			for {
				// Use a mix of the secant rule and bisection.
				var t float64
				if (rootIterCount & 1) != 0 {
					// Secant rule to improve convergence.
					t = a1 + (target-s1)*(a2-a1)/(s2-s1)
				} else {
					// Bisection to guarantee progress.
					t = 0.5 * (a1 + a2)
				}

				rootIterCount++

				s := fcn.evaluate(indexA, indexB, t)

				if math.Abs(s-target) < tolerance {
					// t2 holds a tentative value for t1
					t2 = t
					break
				}

				// Ensure we continue to bracket the root.
				if s > target {
					a1 = t
					s1 = s
				} else {
					a2 = t
					s2 = s
				}

				if rootIterCount == 50 {
					break
				}
			}

			pushBackIter++

			if pushBackIter == B2_maxPolygonVertices {
				break
			}
		}

		iter++

		if done {
			break
		}

		if iter == B2_maxTOIIterations {
			// Root finder got stuck. Semi-victory.
			output.State = B2TOIOutputState.E_failed
			output.T = t1
			break
		}
	}

	return output
}
