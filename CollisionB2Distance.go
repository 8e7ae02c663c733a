package box2d

import (
	"math"
)

///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
// B2Distance.h
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////

/// Result of computing the distance between two line segments
type B2SegmentDistanceResult struct {
	Closest1        B2Vec2  // The closest point on the first segment
	Closest2        B2Vec2  // The closest point on the second segment
	Fraction1       float64 // The barycentric coordinate on the first segment
	Fraction2       float64 // The barycentric coordinate on the second segment
	DistanceSquared float64 // The squared distance between the closest points
}

/// A distance proxy is used by the GJK algorithm.
/// It encapsulates any shape.
type B2DistanceProxy struct {
	Points [B2_maxPolygonVertices]B2Vec2 // The point cloud
	Count  int                           // The number of points
	Radius float64                       // The external radius of the point cloud
}

/// Used to warm start b2Distance.
/// Set count to zero on first call.
type B2DistanceCache struct {
	Count  uint16   // The number of stored simplex points
	IndexA [3]uint8 // The cached simplex indices on shape A
	IndexB [3]uint8 // The cached simplex indices on shape B
}

var B2_emptyDistanceCache = B2DistanceCache{}

/// Input for b2Distance.
/// You have to option to use the shape radii
/// in the computation. Even
type B2DistanceInput struct {
	ProxyA     B2DistanceProxy // The proxy for shape A
	ProxyB     B2DistanceProxy // The proxy for shape B
	TransformA B2Transform     // The world transform for shape A
	TransformB B2Transform     // The world transform for shape B
	UseRadii   bool            // Should the proxy radius be considered?
}

/// Output for b2Distance.
type B2DistanceOutput struct {
	PointA       B2Vec2 ///< closest point on shapeA
	PointB       B2Vec2 ///< closest point on shapeB
	Distance     float64
	Iterations   int ///< number of GJK iterations used
	SimplexCount int ///< the number of simplexes stored in the simplex array
}

/// Simplex vertex for debugging the GJK algorithm
type B2SimplexVertex struct {
	WA     B2Vec2  ///< support point in proxyA
	WB     B2Vec2  ///< support point in proxyB
	W      B2Vec2  ///< wB - wA
	A      float64 ///< barycentric coordinate for closest point
	IndexA int     ///< wA index
	IndexB int     ///< wB index
}

/// Simplex from the GJK algorithm
type B2Simplex struct {
	V1, V2, V3 B2SimplexVertex ///< vertices
	Count      int             ///< number of valid vertices
}

/// Input parameters for b2ShapeCast
type B2ShapeCastPairInput struct {
	ProxyA       B2DistanceProxy // The proxy for shape A
	ProxyB       B2DistanceProxy // The proxy for shape B
	TransformA   B2Transform     // The world transform for shape A
	TransformB   B2Transform     // The world transform for shape B
	TranslationB B2Vec2          // The translation of shape B
	MaxFraction  float64         // The fraction of the translation to consider, typically 1
}

///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
// B2Distance.cpp
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////

/// Compute the distance between two line segments, clamping at the end points if needed.
/// Follows Ericson 5.1.9 Closest Points of Two Line Segments
func B2SegmentDistance(p1 B2Vec2, q1 B2Vec2, p2 B2Vec2, q2 B2Vec2) B2SegmentDistanceResult {
	result := B2SegmentDistanceResult{}

	d1 := B2Vec2Sub(q1, p1)
	d2 := B2Vec2Sub(q2, p2)
	r := B2Vec2Sub(p1, p2)
	dd1 := B2Vec2Dot(d1, d1)
	dd2 := B2Vec2Dot(d2, d2)
	rd1 := B2Vec2Dot(r, d1)
	rd2 := B2Vec2Dot(r, d2)

	epsSqr := B2_epsilon * B2_epsilon

	if dd1 < epsSqr || dd2 < epsSqr {
		// Handle all degeneracies
		if dd1 >= epsSqr {
			// Segment 2 is degenerate
			result.Fraction1 = B2Clamp(-rd1/dd1, 0.0, 1.0)
			result.Fraction2 = 0.0
		} else if dd2 >= epsSqr {
			// Segment 1 is degenerate
			result.Fraction1 = 0.0
			result.Fraction2 = B2Clamp(rd2/dd2, 0.0, 1.0)
		} else {
			result.Fraction1 = 0.0
			result.Fraction2 = 0.0
		}
	} else {
		// Non-degenerate segments
		d12 := B2Vec2Dot(d1, d2)

		denom := dd1*dd2 - d12*d12

		// Fraction on segment 1
		f1 := 0.0
		if denom != 0.0 {
			// not parallel
			f1 = B2Clamp((d12*rd2-rd1*dd2)/denom, 0.0, 1.0)
		}

		// Compute point on segment 2 closest to p1 + f1 * d1
		f2 := (d12*f1 + rd2) / dd2

		// Clamping of segment 2 requires a do over on segment 1
		if f2 < 0.0 {
			f2 = 0.0
			f1 = B2Clamp(-rd1/dd1, 0.0, 1.0)
		} else if f2 > 1.0 {
			f2 = 1.0
			f1 = B2Clamp((d12-rd1)/dd1, 0.0, 1.0)
		}

		result.Fraction1 = f1
		result.Fraction2 = f2
	}

	result.Closest1 = B2Vec2MulAdd(p1, result.Fraction1, d1)
	result.Closest2 = B2Vec2MulAdd(p2, result.Fraction2, d2)
	result.DistanceSquared = B2Vec2DistanceSquared(result.Closest1, result.Closest2)
	return result
}

/// Make a proxy for use in GJK and related functions.
func B2MakeProxy(vertices []B2Vec2, radius float64) B2DistanceProxy {
	count := B2Min(len(vertices), B2_maxPolygonVertices)

	var proxy B2DistanceProxy
	for i := 0; i < count; i++ {
		proxy.Points[i] = vertices[i]
	}
	proxy.Count = count
	proxy.Radius = radius
	return proxy
}

func b2Weight2(a1 float64, w1 B2Vec2, a2 float64, w2 B2Vec2) B2Vec2 {
	return MakeB2Vec2(a1*w1.X+a2*w2.X, a1*w1.Y+a2*w2.Y)
}

func b2Weight3(a1 float64, w1 B2Vec2, a2 float64, w2 B2Vec2, a3 float64, w3 B2Vec2) B2Vec2 {
	return MakeB2Vec2(a1*w1.X+a2*w2.X+a3*w3.X, a1*w1.Y+a2*w2.Y+a3*w3.Y)
}

func b2FindSupport(proxy *B2DistanceProxy, direction B2Vec2) int {
	bestIndex := 0
	bestValue := B2Vec2Dot(proxy.Points[0], direction)
	for i := 1; i < proxy.Count; i++ {
		value := B2Vec2Dot(proxy.Points[i], direction)
		if value > bestValue {
			bestIndex = i
			bestValue = value
		}
	}

	return bestIndex
}

func b2MakeSimplexFromCache(cache *B2DistanceCache, proxyA *B2DistanceProxy, transformA B2Transform, proxyB *B2DistanceProxy, transformB B2Transform) B2Simplex {
	B2Assert(cache.Count <= 3)
	var s B2Simplex

	// Copy data from cache.
	s.Count = int(cache.Count)

	vertices := [3]*B2SimplexVertex{&s.V1, &s.V2, &s.V3}
	for i := 0; i < s.Count; i++ {
		v := vertices[i]
		v.IndexA = int(cache.IndexA[i])
		v.IndexB = int(cache.IndexB[i])
		wALocal := proxyA.Points[v.IndexA]
		wBLocal := proxyB.Points[v.IndexB]
		v.WA = B2TransformVec2Mul(transformA, wALocal)
		v.WB = B2TransformVec2Mul(transformB, wBLocal)
		v.W = B2Vec2Sub(v.WB, v.WA)

		// invalid
		v.A = -1.0
	}

	// If the cache is empty or invalid ...
	if s.Count == 0 {
		v := &s.V1
		v.IndexA = 0
		v.IndexB = 0
		wALocal := proxyA.Points[0]
		wBLocal := proxyB.Points[0]
		v.WA = B2TransformVec2Mul(transformA, wALocal)
		v.WB = B2TransformVec2Mul(transformB, wBLocal)
		v.W = B2Vec2Sub(v.WB, v.WA)
		v.A = 1.0
		s.Count = 1
	}

	return s
}

func b2MakeSimplexCache(cache *B2DistanceCache, simplex *B2Simplex) {
	cache.Count = uint16(simplex.Count)
	vertices := [3]*B2SimplexVertex{&simplex.V1, &simplex.V2, &simplex.V3}
	for i := 0; i < simplex.Count; i++ {
		cache.IndexA[i] = uint8(vertices[i].IndexA)
		cache.IndexB[i] = uint8(vertices[i].IndexB)
	}
}

func b2ComputeSimplexSearchDirection(simplex *B2Simplex) B2Vec2 {
	switch simplex.Count {
	case 1:
		return B2Vec2Neg(simplex.V1.W)

	case 2:
		e12 := B2Vec2Sub(simplex.V2.W, simplex.V1.W)
		sgn := B2Vec2Cross(e12, B2Vec2Neg(simplex.V1.W))
		if sgn > 0.0 {
			// Origin is left of e12.
			return B2LeftPerp(e12)
		}

		// Origin is right of e12.
		return B2RightPerp(e12)

	default:
		B2Assert(false)
		return B2Vec2_zero
	}
}

func b2ComputeSimplexClosestPoint(s *B2Simplex) B2Vec2 {
	switch s.Count {
	case 0:
		B2Assert(false)
		return B2Vec2_zero

	case 1:
		return s.V1.W

	case 2:
		return b2Weight2(s.V1.A, s.V1.W, s.V2.A, s.V2.W)

	case 3:
		return B2Vec2_zero

	default:
		B2Assert(false)
		return B2Vec2_zero
	}
}

func b2ComputeSimplexWitnessPoints(a *B2Vec2, b *B2Vec2, s *B2Simplex) {
	switch s.Count {
	case 0:
		B2Assert(false)

	case 1:
		*a = s.V1.WA
		*b = s.V1.WB

	case 2:
		*a = b2Weight2(s.V1.A, s.V1.WA, s.V2.A, s.V2.WA)
		*b = b2Weight2(s.V1.A, s.V1.WB, s.V2.A, s.V2.WB)

	case 3:
		*a = b2Weight3(s.V1.A, s.V1.WA, s.V2.A, s.V2.WA, s.V3.A, s.V3.WA)
		// The origin is inside the triangle so both witness points coincide
		*b = *a

	default:
		B2Assert(false)
	}
}

// Solve a line segment using barycentric coordinates.
//
// p = a1 * w1 + a2 * w2
// a1 + a2 = 1
//
// The vector from the origin to the closest point on the line is
// perpendicular to the line.
// e12 = w2 - w1
// dot(p, e) = 0
// a1 * dot(w1, e) + a2 * dot(w2, e) = 0
//
// 2-by-2 linear system
// [1      1     ][a1] = [1]
// [w1.e12 w2.e12][a2] = [0]
//
// Define
// d12_1 =  dot(w2, e12)
// d12_2 = -dot(w1, e12)
// d12 = d12_1 + d12_2
//
// Solution
// a1 = d12_1 / d12
// a2 = d12_2 / d12
//
// returns a vector that points towards the origin
func b2SolveSimplex2(s *B2Simplex) {
	w1 := s.V1.W
	w2 := s.V2.W
	e12 := B2Vec2Sub(w2, w1)

	// w1 region
	d12_2 := -B2Vec2Dot(w1, e12)
	if d12_2 <= 0.0 {
		// a2 <= 0, so we clamp it to 0
		s.V1.A = 1.0
		s.Count = 1
		return
	}

	// w2 region
	d12_1 := B2Vec2Dot(w2, e12)
	if d12_1 <= 0.0 {
		// a1 <= 0, so we clamp it to 0
		s.V2.A = 1.0
		s.Count = 1
		s.V1 = s.V2
		return
	}

	// Must be in e12 region.
	inv_d12 := 1.0 / (d12_1 + d12_2)
	s.V1.A = d12_1 * inv_d12
	s.V2.A = d12_2 * inv_d12
	s.Count = 2
}

// Possible regions:
// - points[2]
// - edge points[0]-points[2]
// - edge points[1]-points[2]
// - inside the triangle
func b2SolveSimplex3(s *B2Simplex) {
	w1 := s.V1.W
	w2 := s.V2.W
	w3 := s.V3.W

	// Edge12
	// [1      1     ][a1] = [1]
	// [w1.e12 w2.e12][a2] = [0]
	// a3 = 0
	e12 := B2Vec2Sub(w2, w1)
	w1e12 := B2Vec2Dot(w1, e12)
	w2e12 := B2Vec2Dot(w2, e12)
	d12_1 := w2e12
	d12_2 := -w1e12

	// Edge13
	// [1      1     ][a1] = [1]
	// [w1.e13 w3.e13][a3] = [0]
	// a2 = 0
	e13 := B2Vec2Sub(w3, w1)
	w1e13 := B2Vec2Dot(w1, e13)
	w3e13 := B2Vec2Dot(w3, e13)
	d13_1 := w3e13
	d13_2 := -w1e13

	// Edge23
	// [1      1     ][a2] = [1]
	// [w2.e23 w3.e23][a3] = [0]
	// a1 = 0
	e23 := B2Vec2Sub(w3, w2)
	w2e23 := B2Vec2Dot(w2, e23)
	w3e23 := B2Vec2Dot(w3, e23)
	d23_1 := w3e23
	d23_2 := -w2e23

	// Triangle123
	n123 := B2Vec2Cross(e12, e13)

	d123_1 := n123 * B2Vec2Cross(w2, w3)
	d123_2 := n123 * B2Vec2Cross(w3, w1)
	d123_3 := n123 * B2Vec2Cross(w1, w2)

	// w1 region
	if d12_2 <= 0.0 && d13_2 <= 0.0 {
		s.V1.A = 1.0
		s.Count = 1
		return
	}

	// e12
	if d12_1 > 0.0 && d12_2 > 0.0 && d123_3 <= 0.0 {
		inv_d12 := 1.0 / (d12_1 + d12_2)
		s.V1.A = d12_1 * inv_d12
		s.V2.A = d12_2 * inv_d12
		s.Count = 2
		return
	}

	// e13
	if d13_1 > 0.0 && d13_2 > 0.0 && d123_2 <= 0.0 {
		inv_d13 := 1.0 / (d13_1 + d13_2)
		s.V1.A = d13_1 * inv_d13
		s.V3.A = d13_2 * inv_d13
		s.Count = 2
		s.V2 = s.V3
		return
	}

	// w2 region
	if d12_1 <= 0.0 && d23_2 <= 0.0 {
		s.V2.A = 1.0
		s.Count = 1
		s.V1 = s.V2
		return
	}

	// w3 region
	if d13_1 <= 0.0 && d23_1 <= 0.0 {
		s.V3.A = 1.0
		s.Count = 1
		s.V1 = s.V3
		return
	}

	// e23
	if d23_1 > 0.0 && d23_2 > 0.0 && d123_1 <= 0.0 {
		inv_d23 := 1.0 / (d23_1 + d23_2)
		s.V2.A = d23_1 * inv_d23
		s.V3.A = d23_2 * inv_d23
		s.Count = 2
		s.V1 = s.V3
		return
	}

	// Must be in triangle123
	inv_d123 := 1.0 / (d123_1 + d123_2 + d123_3)
	s.V1.A = d123_1 * inv_d123
	s.V2.A = d123_2 * inv_d123
	s.V3.A = d123_3 * inv_d123
	s.Count = 3
}

/// Compute the closest points between two shapes represented as point clouds.
/// The cache is input/output. On the first call set cache.Count to zero.
/// The simplexes slice is optional and receives the simplex history for debugging.
func B2ShapeDistance(cache *B2DistanceCache, input B2DistanceInput, simplexes []B2Simplex) B2DistanceOutput {
	output := B2DistanceOutput{}

	proxyA := &input.ProxyA
	proxyB := &input.ProxyB

	transformA := input.TransformA
	transformB := input.TransformB

	// Initialize the simplex.
	simplex := b2MakeSimplexFromCache(cache, proxyA, transformA, proxyB, transformB)

	simplexIndex := 0
	if simplexIndex < len(simplexes) {
		simplexes[simplexIndex] = simplex
		simplexIndex++
	}

	// Get simplex vertices as an array.
	vertices := [3]*B2SimplexVertex{&simplex.V1, &simplex.V2, &simplex.V3}

	// These store the vertices of the last simplex so that we
	// can check for duplicates and prevent cycling.
	var saveA, saveB [3]int

	// Main iteration loop.
	iter := 0
	for iter < B2_maxGJKIterations {
		// Copy simplex so we can identify duplicates.
		saveCount := simplex.Count
		for i := 0; i < saveCount; i++ {
			saveA[i] = vertices[i].IndexA
			saveB[i] = vertices[i].IndexB
		}

		switch simplex.Count {
		case 1:
		case 2:
			b2SolveSimplex2(&simplex)
		case 3:
			b2SolveSimplex3(&simplex)
		default:
			B2Assert(false)
		}

		// If we have 3 points, then the origin is in the corresponding triangle.
		if simplex.Count == 3 {
			break
		}

		if simplexIndex < len(simplexes) {
			simplexes[simplexIndex] = simplex
			simplexIndex++
		}

		// Get search direction.
		d := b2ComputeSimplexSearchDirection(&simplex)

		// Ensure the search direction is numerically fit.
		if B2Vec2Dot(d, d) < B2_epsilon*B2_epsilon {
			// The origin is probably contained by a line segment
			// or triangle. Thus the shapes are overlapped.

			// We can't return zero here even though there may be overlap.
			// In case the simplex is a point, segment, or triangle it is difficult
			// to determine if the origin is contained in the CSO or very close to it.
			break
		}

		// Compute a tentative new simplex vertex using support points.
		// support = support(b, d) - support(a, -d)
		vertex := vertices[simplex.Count]
		vertex.IndexA = b2FindSupport(proxyA, B2RotVec2MulT(transformA.Q, B2Vec2Neg(d)))
		vertex.WA = B2TransformVec2Mul(transformA, proxyA.Points[vertex.IndexA])
		vertex.IndexB = b2FindSupport(proxyB, B2RotVec2MulT(transformB.Q, d))
		vertex.WB = B2TransformVec2Mul(transformB, proxyB.Points[vertex.IndexB])
		vertex.W = B2Vec2Sub(vertex.WB, vertex.WA)

		// Iteration count is equated to the number of support point calls.
		iter++

		// Check for duplicate support points. This is the main termination criteria.
		duplicate := false
		for i := 0; i < saveCount; i++ {
			if vertex.IndexA == saveA[i] && vertex.IndexB == saveB[i] {
				duplicate = true
				break
			}
		}

		// If we found a duplicate support point we must exit to avoid cycling.
		if duplicate {
			break
		}

		// New vertex is ok and needed.
		simplex.Count++
	}

	if simplexIndex < len(simplexes) {
		simplexes[simplexIndex] = simplex
		simplexIndex++
	}

	// Prepare output
	b2ComputeSimplexWitnessPoints(&output.PointA, &output.PointB, &simplex)
	output.Distance = B2Vec2Distance(output.PointA, output.PointB)
	output.Iterations = iter
	output.SimplexCount = simplexIndex

	// Cache the simplex
	b2MakeSimplexCache(cache, &simplex)

	// Apply radii if requested
	if input.UseRadii {
		if output.Distance < B2_epsilon {
			// Shapes are too close to safely compute normal
			p := MakeB2Vec2(0.5*(output.PointA.X+output.PointB.X), 0.5*(output.PointA.Y+output.PointB.Y))
			output.PointA = p
			output.PointB = p
			output.Distance = 0.0
		} else {
			// Keep closest points on perimeter even if overlapped, this way
			// the points move smoothly.
			rA := proxyA.Radius
			rB := proxyB.Radius
			output.Distance = math.Max(0.0, output.Distance-rA-rB)
			normal := B2Vec2Normalize(B2Vec2Sub(output.PointB, output.PointA))
			output.PointA = B2Vec2MulAdd(output.PointA, rA, normal)
			output.PointB = B2Vec2MulSub(output.PointB, rB, normal)
		}
	}

	return output
}

/// Perform a linear shape cast of shape B moving and shape A fixed. Determines the hit point, normal, and translation fraction.
/// GJK-raycast
/// Algorithm by Gino van den Bergen.
/// "Smooth Mesh Contacts with GJK" in Game Physics Pearls. 2010
/// Initial overlap is reported as a miss.
func B2ShapeCast(input B2ShapeCastPairInput) B2CastOutput {
	output := B2CastOutput{}
	output.Fraction = input.MaxFraction

	proxyA := input.ProxyA

	xfA := input.TransformA
	xfB := input.TransformB
	xf := B2TransformMulT(xfA, xfB)

	// Put proxyB in proxyA's frame to reduce round-off error
	var proxyB B2DistanceProxy
	proxyB.Count = input.ProxyB.Count
	proxyB.Radius = input.ProxyB.Radius
	for i := 0; i < proxyB.Count; i++ {
		proxyB.Points[i] = B2TransformVec2Mul(xf, input.ProxyB.Points[i])
	}

	radius := proxyA.Radius + proxyB.Radius

	r := B2RotVec2Mul(xf.Q, input.TranslationB)
	lambda := 0.0
	maxFraction := input.MaxFraction

	// Initial simplex
	var simplex B2Simplex
	simplex.Count = 0

	// Get simplex vertices as an array.
	vertices := [3]*B2SimplexVertex{&simplex.V1, &simplex.V2, &simplex.V3}

	// Get support point in -r direction
	indexA := b2FindSupport(&proxyA, B2Vec2Neg(r))
	wA := proxyA.Points[indexA]
	indexB := b2FindSupport(&proxyB, r)
	wB := proxyB.Points[indexB]
	v := B2Vec2Sub(wA, wB)

	// Sigma is the target distance between proxies
	sigma := math.Max(B2_linearSlop, radius-B2_linearSlop)

	// Main iteration loop.
	tolerance := 0.5 * B2_linearSlop
	iteration := 0
	for iteration < B2_maxGJKIterations && v.Length() > sigma+tolerance {
		B2Assert(simplex.Count < 3)

		output.Iterations++

		// Support in direction -v (A - B)
		indexA = b2FindSupport(&proxyA, B2Vec2Neg(v))
		wA = proxyA.Points[indexA]
		indexB = b2FindSupport(&proxyB, v)
		wB = proxyB.Points[indexB]
		p := B2Vec2Sub(wA, wB)

		// -v is a normal at p, normalize to work with sigma
		v = B2Vec2Normalize(v)

		// Intersect ray with plane
		vp := B2Vec2Dot(v, p)
		vr := B2Vec2Dot(v, r)
		if vp-sigma > lambda*vr {
			if vr <= 0.0 {
				// miss
				return output
			}

			lambda = (vp - sigma) / vr
			if lambda > maxFraction {
				// too far
				return output
			}

			// reset the simplex
			simplex.Count = 0
		}

		// Reverse simplex since it works with B - A.
		// Shift by lambda * r because we want the closest point to the current clip point.
		// Note that the support point p is not shifted because we want the plane equation
		// to be formed in unshifted space.
		vertex := vertices[simplex.Count]
		vertex.IndexA = indexB
		vertex.WA = MakeB2Vec2(wB.X+lambda*r.X, wB.Y+lambda*r.Y)
		vertex.IndexB = indexA
		vertex.WB = wA
		vertex.W = B2Vec2Sub(vertex.WB, vertex.WA)
		vertex.A = 1.0
		simplex.Count++

		switch simplex.Count {
		case 1:
		case 2:
			b2SolveSimplex2(&simplex)
		case 3:
			b2SolveSimplex3(&simplex)
		default:
			B2Assert(false)
		}

		// If we have 3 points, then the origin is in the corresponding triangle.
		if simplex.Count == 3 {
			// Overlap
			return output
		}

		// Get search direction.
		v = b2ComputeSimplexClosestPoint(&simplex)

		// Iteration count is equated to the number of support point calls.
		iteration++
	}

	if iteration == 0 || lambda == 0.0 {
		// Initial overlap
		return output
	}

	// Prepare output
	var pointA, pointB B2Vec2
	b2ComputeSimplexWitnessPoints(&pointB, &pointA, &simplex)

	n := B2Vec2Normalize(B2Vec2Neg(v))
	point := MakeB2Vec2(pointA.X+proxyA.Radius*n.X, pointA.Y+proxyA.Radius*n.Y)

	output.Point = B2TransformVec2Mul(xfA, point)
	output.Normal = B2RotVec2Mul(xfA.Q, n)
	output.Fraction = lambda
	output.Iterations = iteration
	output.Hit = true
	return output
}

/// Overlap test for two proxies. The proxies are considered overlapping when
/// their rounded surfaces are within a few linear slops of each other.
func B2TestOverlap(proxyA B2DistanceProxy, xfA B2Transform, proxyB B2DistanceProxy, xfB B2Transform, cache *B2DistanceCache) bool {
	input := B2DistanceInput{
		ProxyA:     proxyA,
		ProxyB:     proxyB,
		TransformA: xfA,
		TransformB: xfB,
		UseRadii:   true,
	}

	output := B2ShapeDistance(cache, input, nil)
	return output.Distance < 10.0*B2_linearSlop
}
