package box2d

import (
	"math"
)

///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
// B2Geometry.h
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////

// A solid circle
type B2Circle struct {
	Center B2Vec2 // The local center
	Radius float64
}

// A solid capsule can be viewed as two semicircles connected
// by a rectangle.
type B2Capsule struct {
	Center1 B2Vec2 // Local center of the first semicircle
	Center2 B2Vec2 // Local center of the second semicircle
	Radius  float64
}

// A line segment with two-sided collision.
type B2Segment struct {
	Point1 B2Vec2
	Point2 B2Vec2
}

// A smooth line segment with one-sided collision. Only collides on the right side.
// Several of these are generated for a chain shape.
// ghost1 -> point1 -> point2 -> ghost2
type B2SmoothSegment struct {
	Ghost1  B2Vec2    // The tail ghost vertex
	Segment B2Segment // The line segment
	Ghost2  B2Vec2    // The head ghost vertex
	ChainId int32     // The owning chain shape index (internal usage only)
}

// Validate ray cast input data (NaN, etc)
func B2IsValidRay(input B2RayCastInput) bool {
	return input.Origin.IsValid() && input.Translation.IsValid() &&
		B2IsValid(input.MaxFraction) && 0.0 <= input.MaxFraction && input.MaxFraction < B2_huge
}

///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
// B2Geometry.cpp
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////

func B2ComputeCircleMass(shape B2Circle, density float64) B2MassData {
	rr := shape.Radius * shape.Radius

	var massData B2MassData
	massData.Mass = density * B2_pi * rr
	massData.Center = shape.Center

	// inertia about the local origin
	massData.RotationalInertia = massData.Mass * (0.5*rr + B2Vec2Dot(shape.Center, shape.Center))

	return massData
}

func B2ComputeCapsuleMass(shape B2Capsule, density float64) B2MassData {
	radius := shape.Radius
	rr := radius * radius
	p1 := shape.Center1
	p2 := shape.Center2
	length := B2Vec2Distance(p1, p2)
	ll := length * length

	circleMass := density * (B2_pi * rr)
	boxMass := density * (2.0 * radius * length)

	var massData B2MassData
	massData.Mass = circleMass + boxMass
	massData.Center = B2Vec2Lerp(p1, p2, 0.5)

	// two offset half circles, both halves add up to full circle and each half is offset by half length
	// semicircle centroid = 4 r / 3 pi
	// Need to apply parallel-axis theorem twice:
	// 1. shift semicircle centroid to origin
	// 2. shift semicircle to box end
	// m * ((h + lc)^2 - lc^2) = m * (h^2 + 2 * h * lc)
	// See = https://en.wikipedia.org/wiki/Parallel_axis_theorem
	// I verified this formula by computing stacked capsule inertia in Blender.

	lc := 4.0 * radius / (3.0 * B2_pi)
	h := 0.5 * length

	circleInertia := circleMass * (0.5*rr + h*h + 2.0*h*lc)
	boxInertia := boxMass * (4.0*rr + ll) / 12.0
	massData.RotationalInertia = circleInertia + boxInertia

	// shift to center of mass
	massData.RotationalInertia += massData.Mass * B2Vec2Dot(massData.Center, massData.Center)

	return massData
}

func B2ComputeCircleAABB(shape B2Circle, xf B2Transform) B2AABB {
	p := B2TransformVec2Mul(xf, shape.Center)
	r := shape.Radius

	return B2AABB{
		LowerBound: MakeB2Vec2(p.X-r, p.Y-r),
		UpperBound: MakeB2Vec2(p.X+r, p.Y+r),
	}
}

func B2ComputeCapsuleAABB(shape B2Capsule, xf B2Transform) B2AABB {
	v1 := B2TransformVec2Mul(xf, shape.Center1)
	v2 := B2TransformVec2Mul(xf, shape.Center2)

	r := MakeB2Vec2(shape.Radius, shape.Radius)
	lower := B2Vec2Sub(B2Vec2Min(v1, v2), r)
	upper := B2Vec2Add(B2Vec2Max(v1, v2), r)

	return B2AABB{LowerBound: lower, UpperBound: upper}
}

func B2ComputeSegmentAABB(shape B2Segment, xf B2Transform) B2AABB {
	v1 := B2TransformVec2Mul(xf, shape.Point1)
	v2 := B2TransformVec2Mul(xf, shape.Point2)

	return B2AABB{LowerBound: B2Vec2Min(v1, v2), UpperBound: B2Vec2Max(v1, v2)}
}

// Test a point for overlap with a circle in local space
func B2PointInCircle(point B2Vec2, shape B2Circle) bool {
	center := shape.Center
	return B2Vec2DistanceSquared(point, center) <= shape.Radius*shape.Radius
}

// Test a point for overlap with a capsule in local space
func B2PointInCapsule(point B2Vec2, shape B2Capsule) bool {
	rr := shape.Radius * shape.Radius
	p1 := shape.Center1
	p2 := shape.Center2

	d := B2Vec2Sub(p2, p1)
	dd := B2Vec2Dot(d, d)
	if dd == 0.0 {
		// Capsule is really a circle
		return B2Vec2DistanceSquared(point, p1) <= rr
	}

	// Get closest point on capsule segment
	// c = p1 + t * d
	// dot(point - c, d) = 0
	// dot(point - p1 - t * d, d) = 0
	// t = dot(point - p1, d) / dot(d, d)
	t := B2Vec2Dot(B2Vec2Sub(point, p1), d) / dd
	t = B2Clamp(t, 0.0, 1.0)
	c := B2Vec2MulAdd(p1, t, d)

	// Is query point within radius around closest point?
	return B2Vec2DistanceSquared(point, c) <= rr
}

// Precision Improvements for Ray / Sphere Intersection - Ray Tracing Gems 2019
func B2RayCastCircle(input B2RayCastInput, shape B2Circle) B2CastOutput {
	B2Assert(B2IsValidRay(input))

	p := shape.Center

	output := B2CastOutput{}

	// Shift ray so circle center is the origin
	s := B2Vec2Sub(input.Origin, p)

	length, d := B2GetLengthAndNormalize(input.Translation)
	if length == 0.0 {
		// zero length ray
		return output
	}

	// Find closest point on ray to origin

	// solve: dot(s + t * d, d) = 0
	t := -B2Vec2Dot(s, d)

	// c is the closest point on the line to the origin
	c := B2Vec2MulAdd(s, t, d)

	cc := B2Vec2Dot(c, c)
	r := shape.Radius
	rr := r * r

	if cc > rr {
		// closest point is outside the circle
		return output
	}

	// Pythagoras
	h := math.Sqrt(rr - cc)

	fraction := t - h

	if fraction < 0.0 || input.MaxFraction*length < fraction {
		// outside the range of the ray segment
		return output
	}

	// hit point relative to center
	hitPoint := B2Vec2MulAdd(s, fraction, d)

	output.Fraction = fraction / length
	output.Normal = B2Vec2Normalize(hitPoint)
	output.Point = B2Vec2MulAdd(p, shape.Radius, output.Normal)
	output.Hit = true

	return output
}

func B2RayCastCapsule(input B2RayCastInput, shape B2Capsule) B2CastOutput {
	B2Assert(B2IsValidRay(input))

	output := B2CastOutput{}

	v1 := shape.Center1
	v2 := shape.Center2

	e := B2Vec2Sub(v2, v1)

	capsuleLength, a := B2GetLengthAndNormalize(e)

	if capsuleLength < B2_epsilon {
		// Capsule is really a circle
		circle := B2Circle{Center: v1, Radius: shape.Radius}
		return B2RayCastCircle(input, circle)
	}

	p1 := input.Origin
	d := input.Translation

	// Ray from capsule start to ray start
	q := B2Vec2Sub(p1, v1)
	qa := B2Vec2Dot(q, a)

	// Vector to ray start that is perpendicular to capsule axis
	qp := B2Vec2MulAdd(q, -qa, a)

	radius := shape.Radius

	// Does the ray start within the infinite length capsule?
	if B2Vec2Dot(qp, qp) < radius*radius {
		if qa < 0.0 {
			// start point behind capsule segment
			circle := B2Circle{Center: v1, Radius: shape.Radius}
			return B2RayCastCircle(input, circle)
		}

		if qa > capsuleLength {
			// start point ahead of capsule segment
			circle := B2Circle{Center: v2, Radius: shape.Radius}
			return B2RayCastCircle(input, circle)
		}

		// ray starts inside capsule -> no hit
		return output
	}

	// Perpendicular to capsule axis, pointing right
	n := MakeB2Vec2(a.Y, -a.X)

	rayLength, u := B2GetLengthAndNormalize(d)

	// Intersect ray with infinite length capsule
	// v1 + radius * n + s1 * a = p1 + s2 * u
	// v1 - radius * n + s1 * a = p1 + s2 * u

	// s1 * a - s2 * u = b
	// b = q + radius * n
	// b = q - radius * n

	// Cramer's rule [a -u]
	den := -a.X*u.Y + u.X*a.Y
	if -B2_epsilon < den && den < B2_epsilon {
		// Ray is parallel to capsule and outside infinite length capsule
		return output
	}

	b1 := B2Vec2MulSub(q, radius, n)
	b2 := B2Vec2MulAdd(q, radius, n)

	invDen := 1.0 / den

	// Cramer's rule [a b1]
	s21 := (a.X*b1.Y - b1.X*a.Y) * invDen

	// Cramer's rule [a b2]
	s22 := (a.X*b2.Y - b2.X*a.Y) * invDen

	var s2 float64
	var b B2Vec2
	if s21 < s22 {
		s2 = s21
		b = b1
	} else {
		s2 = s22
		b = b2
		n = B2Vec2Neg(n)
	}

	if s2 < 0.0 || input.MaxFraction*rayLength < s2 {
		return output
	}

	// Cramer's rule [b -u]
	s1 := (-b.X*u.Y + u.X*b.Y) * invDen

	if s1 < 0.0 {
		// ray passes behind capsule segment (v1)
		circle := B2Circle{Center: v1, Radius: shape.Radius}
		return B2RayCastCircle(input, circle)
	} else if capsuleLength < s1 {
		// ray passes ahead of capsule segment (v2)
		circle := B2Circle{Center: v2, Radius: shape.Radius}
		return B2RayCastCircle(input, circle)
	}

	// ray hits capsule side
	output.Fraction = s2 / rayLength
	output.Point = B2Vec2MulAdd(B2Vec2Lerp(v1, v2, s1/capsuleLength), radius, n)
	output.Normal = n
	output.Hit = true
	return output
}

// Ray vs line segment. A one sided segment ignores rays that start on its left side.
func B2RayCastSegment(input B2RayCastInput, shape B2Segment, oneSided bool) B2CastOutput {
	output := B2CastOutput{}

	if oneSided {
		// Skip left-side collision
		offset := B2Vec2Cross(B2Vec2Sub(input.Origin, shape.Point1), B2Vec2Sub(shape.Point2, shape.Point1))
		if offset < 0.0 {
			return output
		}
	}

	// Put the ray into the edge's frame of reference.
	p1 := input.Origin
	d := input.Translation

	v1 := shape.Point1
	v2 := shape.Point2
	e := B2Vec2Sub(v2, v1)

	length, eUnit := B2GetLengthAndNormalize(e)
	if length == 0.0 {
		return output
	}

	// Normal points to the right, looking from v1 towards v2
	normal := B2RightPerp(eUnit)

	// Intersect ray with infinite segment using normal
	// Similar to intersecting a ray with an infinite plane
	// p = p1 + t * d
	// dot(normal, p - v1) = 0
	// dot(normal, p1 - v1) + t * dot(normal, d) = 0
	numerator := B2Vec2Dot(normal, B2Vec2Sub(v1, p1))
	denominator := B2Vec2Dot(normal, d)

	if denominator == 0.0 {
		// parallel
		return output
	}

	t := numerator / denominator
	if t < 0.0 || input.MaxFraction < t {
		// out of ray range
		return output
	}

	// Intersection point on infinite segment
	p := B2Vec2MulAdd(p1, t, d)

	// Compute position of p along segment
	// p = v1 + s * e
	// s = dot(p - v1, e) / dot(e, e)

	s := B2Vec2Dot(B2Vec2Sub(p, v1), eUnit)
	if s < 0.0 || length < s {
		// out of segment range
		return output
	}

	if numerator > 0.0 {
		normal = B2Vec2Neg(normal)
	}

	output.Fraction = t
	output.Point = B2Vec2MulAdd(p1, t, d)
	output.Normal = normal
	output.Hit = true

	return output
}

func B2ShapeCastCircle(input B2ShapeCastInput, shape B2Circle) B2CastOutput {
	pairInput := B2ShapeCastPairInput{
		ProxyA:       B2MakeProxy([]B2Vec2{shape.Center}, shape.Radius),
		ProxyB:       B2MakeProxy(input.Points[:input.Count], input.Radius),
		TransformA:   B2Transform_identity,
		TransformB:   B2Transform_identity,
		TranslationB: input.Translation,
		MaxFraction:  input.MaxFraction,
	}

	return B2ShapeCast(pairInput)
}

func B2ShapeCastCapsule(input B2ShapeCastInput, shape B2Capsule) B2CastOutput {
	pairInput := B2ShapeCastPairInput{
		ProxyA:       B2MakeProxy([]B2Vec2{shape.Center1, shape.Center2}, shape.Radius),
		ProxyB:       B2MakeProxy(input.Points[:input.Count], input.Radius),
		TransformA:   B2Transform_identity,
		TransformB:   B2Transform_identity,
		TranslationB: input.Translation,
		MaxFraction:  input.MaxFraction,
	}

	return B2ShapeCast(pairInput)
}

func B2ShapeCastSegment(input B2ShapeCastInput, shape B2Segment) B2CastOutput {
	pairInput := B2ShapeCastPairInput{
		ProxyA:       B2MakeProxy([]B2Vec2{shape.Point1, shape.Point2}, 0.0),
		ProxyB:       B2MakeProxy(input.Points[:input.Count], input.Radius),
		TransformA:   B2Transform_identity,
		TransformB:   B2Transform_identity,
		TranslationB: input.Translation,
		MaxFraction:  input.MaxFraction,
	}

	return B2ShapeCast(pairInput)
}
