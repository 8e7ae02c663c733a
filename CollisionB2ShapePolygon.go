package box2d

import (
	"math"
)

// A solid convex polygon. It is assumed that the interior of the polygon is to
// the left of each edge.
// Polygons have a maximum number of vertices equal to B2_maxPolygonVertices.
// In most cases you should not need many vertices for a convex polygon.
// A polygon may be rounded by a radius. A polygon with two vertices is a
// capsule in disguise and is only built internally by the collision routines.
type B2Polygon struct {
	Vertices [B2_maxPolygonVertices]B2Vec2
	Normals  [B2_maxPolygonVertices]B2Vec2
	Centroid B2Vec2
	Radius   float64
	Count    int
}

func (poly *B2Polygon) GetVertex(index int) B2Vec2 {
	B2Assert(0 <= index && index < poly.Count)
	return poly.Vertices[index]
}

///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
// B2PolygonShape.cpp
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////

func B2ComputePolygonCentroid(vertices []B2Vec2) B2Vec2 {
	count := len(vertices)
	B2Assert(count >= 3)

	center := MakeB2Vec2(0, 0)
	area := 0.0

	// Get a reference point for forming triangles.
	// Use the first vertex to reduce round-off errors.
	origin := vertices[0]

	inv3 := 1.0 / 3.0

	for i := 1; i < count-1; i++ {
		// Triangle edges
		e1 := B2Vec2Sub(vertices[i], origin)
		e2 := B2Vec2Sub(vertices[i+1], origin)
		a := 0.5 * B2Vec2Cross(e1, e2)

		// Area weighted centroid
		center = B2Vec2MulAdd(center, a*inv3, B2Vec2Add(e1, e2))
		area += a
	}

	B2Assert(area > B2_epsilon)
	invArea := 1.0 / area
	center.X *= invArea
	center.Y *= invArea

	// Restore offset
	return B2Vec2Add(origin, center)
}

// Make a convex polygon from a convex hull. This will assert if the hull is not valid.
func B2MakePolygon(hull B2Hull, radius float64) B2Polygon {
	B2Assert(B2ValidateHull(&hull))

	if hull.Count < 3 {
		// Handle a bad hull when assertions are disabled
		return B2MakeSquare(0.5)
	}

	var shape B2Polygon
	shape.Count = hull.Count
	shape.Radius = radius

	// Copy vertices
	for i := 0; i < shape.Count; i++ {
		shape.Vertices[i] = hull.Points[i]
	}

	// Compute normals. Ensure the edges have non-zero length.
	for i := 0; i < shape.Count; i++ {
		i1 := i
		i2 := 0
		if i+1 < shape.Count {
			i2 = i + 1
		}
		edge := B2Vec2Sub(shape.Vertices[i2], shape.Vertices[i1])
		B2Assert(B2Vec2Dot(edge, edge) > B2_epsilon*B2_epsilon)
		shape.Normals[i] = B2Vec2Normalize(B2Vec2CrossVectorScalar(edge, 1.0))
	}

	shape.Centroid = B2ComputePolygonCentroid(shape.Vertices[:shape.Count])

	return shape
}

// Make an offset convex polygon from a convex hull. This will assert if the hull is not valid.
func B2MakeOffsetPolygon(hull B2Hull, radius float64, transform B2Transform) B2Polygon {
	B2Assert(B2ValidateHull(&hull))

	if hull.Count < 3 {
		// Handle a bad hull when assertions are disabled
		return B2MakeSquare(0.5)
	}

	var shape B2Polygon
	shape.Count = hull.Count
	shape.Radius = radius

	// Copy vertices
	for i := 0; i < shape.Count; i++ {
		shape.Vertices[i] = B2TransformVec2Mul(transform, hull.Points[i])
	}

	// Compute normals. Ensure the edges have non-zero length.
	for i := 0; i < shape.Count; i++ {
		i1 := i
		i2 := 0
		if i+1 < shape.Count {
			i2 = i + 1
		}
		edge := B2Vec2Sub(shape.Vertices[i2], shape.Vertices[i1])
		B2Assert(B2Vec2Dot(edge, edge) > B2_epsilon*B2_epsilon)
		shape.Normals[i] = B2Vec2Normalize(B2Vec2CrossVectorScalar(edge, 1.0))
	}

	shape.Centroid = B2ComputePolygonCentroid(shape.Vertices[:shape.Count])

	return shape
}

// Make a square polygon, bypassing the need for a convex hull.
func B2MakeSquare(h float64) B2Polygon {
	return B2MakeBox(h, h)
}

// Make a box (rectangle) polygon, bypassing the need for a convex hull.
func B2MakeBox(hx float64, hy float64) B2Polygon {
	B2Assert(B2IsValid(hx) && hx > 0.0)
	B2Assert(B2IsValid(hy) && hy > 0.0)

	var shape B2Polygon
	shape.Count = 4
	shape.Vertices[0].Set(-hx, -hy)
	shape.Vertices[1].Set(hx, -hy)
	shape.Vertices[2].Set(hx, hy)
	shape.Vertices[3].Set(-hx, hy)
	shape.Normals[0].Set(0.0, -1.0)
	shape.Normals[1].Set(1.0, 0.0)
	shape.Normals[2].Set(0.0, 1.0)
	shape.Normals[3].Set(-1.0, 0.0)
	shape.Radius = 0.0
	shape.Centroid = B2Vec2_zero
	return shape
}

// Make a rounded box, bypassing the need for a convex hull.
func B2MakeRoundedBox(hx float64, hy float64, radius float64) B2Polygon {
	shape := B2MakeBox(hx, hy)
	shape.Radius = radius
	return shape
}

// Make an offset box, bypassing the need for a convex hull.
func B2MakeOffsetBox(hx float64, hy float64, center B2Vec2, angle float64) B2Polygon {
	xf := MakeB2TransformByPositionAndRotation(center, MakeB2RotFromAngle(angle))

	var shape B2Polygon
	shape.Count = 4
	shape.Vertices[0] = B2TransformVec2Mul(xf, MakeB2Vec2(-hx, -hy))
	shape.Vertices[1] = B2TransformVec2Mul(xf, MakeB2Vec2(hx, -hy))
	shape.Vertices[2] = B2TransformVec2Mul(xf, MakeB2Vec2(hx, hy))
	shape.Vertices[3] = B2TransformVec2Mul(xf, MakeB2Vec2(-hx, hy))
	shape.Normals[0] = B2RotVec2Mul(xf.Q, MakeB2Vec2(0.0, -1.0))
	shape.Normals[1] = B2RotVec2Mul(xf.Q, MakeB2Vec2(1.0, 0.0))
	shape.Normals[2] = B2RotVec2Mul(xf.Q, MakeB2Vec2(0.0, 1.0))
	shape.Normals[3] = B2RotVec2Mul(xf.Q, MakeB2Vec2(-1.0, 0.0))
	shape.Radius = 0.0
	shape.Centroid = center
	return shape
}

// Make a capsule as a two vertex rounded polygon. Used by the collision
// routines so capsules and segments can share the polygon clipper.
func B2MakeCapsule(p1 B2Vec2, p2 B2Vec2, radius float64) B2Polygon {
	var shape B2Polygon
	shape.Vertices[0] = p1
	shape.Vertices[1] = p2
	shape.Centroid = B2Vec2Lerp(p1, p2, 0.5)

	d := B2Vec2Sub(p2, p1)
	B2Assert(d.LengthSquared() > B2_epsilon)
	axis := B2Vec2Normalize(d)
	normal := B2RightPerp(axis)

	shape.Normals[0] = normal
	shape.Normals[1] = B2Vec2Neg(normal)
	shape.Count = 2
	shape.Radius = radius

	return shape
}

// Transform a polygon. This is useful for transferring a shape from one body to another.
func B2TransformPolygon(transform B2Transform, polygon B2Polygon) B2Polygon {
	p := polygon

	for i := 0; i < p.Count; i++ {
		p.Vertices[i] = B2TransformVec2Mul(transform, p.Vertices[i])
		p.Normals[i] = B2RotVec2Mul(transform.Q, p.Normals[i])
	}

	p.Centroid = B2TransformVec2Mul(transform, p.Centroid)

	return p
}

func B2ComputePolygonMass(shape B2Polygon, density float64) B2MassData {
	// Polygon mass, centroid, and inertia.
	// Let rho be the polygon density in mass per unit area.
	// Then:
	// mass = rho * int(dA)
	// centroid.x = (1/mass) * rho * int(x * dA)
	// centroid.y = (1/mass) * rho * int(y * dA)
	// I = rho * int((x*x + y*y) * dA)
	//
	// We can compute these integrals by summing all the integrals
	// for each triangle of the polygon. To evaluate the integral
	// for a single triangle, we make a change of variables to
	// the (u,v) coordinates of the triangle:
	// x = x0 + e1x * u + e2x * v
	// y = y0 + e1y * u + e2y * v
	// where 0 <= u && 0 <= v && u + v <= 1.
	//
	// We integrate u from [0,1-v] and then v from [0,1].
	// We also need to use the Jacobian of the transformation:
	// D = cross(e1, e2)
	//
	// Simplification: triangle centroid = (1/3) * (p1 + p2 + p3)
	//
	// The rest of the derivation is handled by computer algebra.

	B2Assert(shape.Count > 0)

	if shape.Count == 1 {
		circle := B2Circle{Center: shape.Vertices[0], Radius: shape.Radius}
		return B2ComputeCircleMass(circle, density)
	}

	if shape.Count == 2 {
		capsule := B2Capsule{Center1: shape.Vertices[0], Center2: shape.Vertices[1], Radius: shape.Radius}
		return B2ComputeCapsuleMass(capsule, density)
	}

	var vertices [B2_maxPolygonVertices]B2Vec2
	count := shape.Count
	radius := shape.Radius

	if radius > 0.0 {
		// Approximate mass of rounded polygons by pushing out the vertices.
		sqrt2 := 1.412
		for i := 0; i < count; i++ {
			j := i - 1
			if i == 0 {
				j = count - 1
			}
			n1 := shape.Normals[j]
			n2 := shape.Normals[i]

			mid := B2Vec2Normalize(B2Vec2Add(n1, n2))
			vertices[i] = B2Vec2MulAdd(shape.Vertices[i], sqrt2*radius, mid)
		}
	} else {
		for i := 0; i < count; i++ {
			vertices[i] = shape.Vertices[i]
		}
	}

	center := MakeB2Vec2(0, 0)
	area := 0.0
	rotationalInertia := 0.0

	// Get a reference point for forming triangles.
	// Use the first vertex to reduce round-off errors.
	r := vertices[0]

	inv3 := 1.0 / 3.0

	for i := 1; i < count-1; i++ {
		// Triangle edges
		e1 := B2Vec2Sub(vertices[i], r)
		e2 := B2Vec2Sub(vertices[i+1], r)

		D := B2Vec2Cross(e1, e2)

		triangleArea := 0.5 * D
		area += triangleArea

		// Area weighted centroid, r at origin
		center = B2Vec2MulAdd(center, triangleArea*inv3, B2Vec2Add(e1, e2))

		ex1 := e1.X
		ey1 := e1.Y
		ex2 := e2.X
		ey2 := e2.Y

		intx2 := ex1*ex1 + ex2*ex1 + ex2*ex2
		inty2 := ey1*ey1 + ey2*ey1 + ey2*ey2

		rotationalInertia += (0.25 * inv3 * D) * (intx2 + inty2)
	}

	var massData B2MassData

	// Total mass
	massData.Mass = density * area

	// Center of mass, shift back from origin at r
	B2Assert(area > B2_epsilon)
	invArea := 1.0 / area
	center.X *= invArea
	center.Y *= invArea
	massData.Center = B2Vec2Add(r, center)

	// Inertia tensor relative to the local origin (point s).
	massData.RotationalInertia = density * rotationalInertia

	// Shift to center of mass then to original body origin.
	massData.RotationalInertia += massData.Mass * (B2Vec2Dot(massData.Center, massData.Center) - B2Vec2Dot(center, center))

	return massData
}

func B2ComputePolygonAABB(shape B2Polygon, xf B2Transform) B2AABB {
	B2Assert(shape.Count > 0)
	lower := B2TransformVec2Mul(xf, shape.Vertices[0])
	upper := lower

	for i := 1; i < shape.Count; i++ {
		v := B2TransformVec2Mul(xf, shape.Vertices[i])
		lower = B2Vec2Min(lower, v)
		upper = B2Vec2Max(upper, v)
	}

	r := MakeB2Vec2(shape.Radius, shape.Radius)
	lower = B2Vec2Sub(lower, r)
	upper = B2Vec2Add(upper, r)

	return B2AABB{LowerBound: lower, UpperBound: upper}
}

// Test a point for overlap with a convex polygon in local space
func B2PointInPolygon(point B2Vec2, shape B2Polygon) bool {
	input := B2DistanceInput{
		ProxyA:     B2MakeProxy(shape.Vertices[:shape.Count], 0.0),
		ProxyB:     B2MakeProxy([]B2Vec2{point}, 0.0),
		TransformA: B2Transform_identity,
		TransformB: B2Transform_identity,
		UseRadii:   false,
	}

	cache := B2DistanceCache{}
	output := B2ShapeDistance(&cache, input, nil)

	return output.Distance <= shape.Radius
}

// Ray cast versus polygon in shape local space. Initial overlap is treated as a miss.
// @note because the polygon is solid, rays that start inside do not hit because the normal is
// not defined.
func B2RayCastPolygon(input B2RayCastInput, shape B2Polygon) B2CastOutput {
	B2Assert(B2IsValidRay(input))

	if shape.Radius == 0.0 {
		// Put the ray into the polygon's frame of reference.
		p1 := input.Origin
		d := input.Translation

		lower := 0.0
		upper := input.MaxFraction

		index := -1

		output := B2CastOutput{}

		for i := 0; i < shape.Count; i++ {
			// p = p1 + a * d
			// dot(normal, p - v) = 0
			// dot(normal, p1 - v) + a * dot(normal, d) = 0
			numerator := B2Vec2Dot(shape.Normals[i], B2Vec2Sub(shape.Vertices[i], p1))
			denominator := B2Vec2Dot(shape.Normals[i], d)

			if denominator == 0.0 {
				if numerator < 0.0 {
					return output
				}
			} else {
				// Note: we want this predicate without division:
				// lower < numerator / denominator, where denominator < 0
				// Since denominator < 0, we have to flip the inequality:
				// lower < numerator / denominator <==> denominator * lower > numerator.
				if denominator < 0.0 && numerator < lower*denominator {
					// Increase lower.
					// The segment enters this half-space.
					lower = numerator / denominator
					index = i
				} else if denominator > 0.0 && numerator < upper*denominator {
					// Decrease upper.
					// The segment exits this half-space.
					upper = numerator / denominator
				}
			}

			if upper < lower {
				return output
			}
		}

		B2Assert(0.0 <= lower && lower <= input.MaxFraction)

		if index >= 0 {
			output.Fraction = lower
			output.Normal = shape.Normals[index]
			output.Point = B2Vec2MulAdd(p1, lower, d)
			output.Hit = true
		}

		return output
	}

	// Rounded polygons are cast as a point against the rounded hull
	castInput := B2ShapeCastPairInput{
		ProxyA:       B2MakeProxy(shape.Vertices[:shape.Count], shape.Radius),
		ProxyB:       B2MakeProxy([]B2Vec2{input.Origin}, 0.0),
		TransformA:   B2Transform_identity,
		TransformB:   B2Transform_identity,
		TranslationB: input.Translation,
		MaxFraction:  input.MaxFraction,
	}
	return B2ShapeCast(castInput)
}

// Shape cast versus a convex polygon. Initial overlap is treated as a miss.
func B2ShapeCastPolygon(input B2ShapeCastInput, shape B2Polygon) B2CastOutput {
	pairInput := B2ShapeCastPairInput{
		ProxyA:       B2MakeProxy(shape.Vertices[:shape.Count], shape.Radius),
		ProxyB:       B2MakeProxy(input.Points[:input.Count], input.Radius),
		TransformA:   B2Transform_identity,
		TransformB:   B2Transform_identity,
		TranslationB: input.Translation,
		MaxFraction:  input.MaxFraction,
	}

	return B2ShapeCast(pairInput)
}

// Largest distance from the centroid to the surface. Used for the body extents.
func b2ComputePolygonExtent(shape B2Polygon, localCenter B2Vec2) float64 {
	extentSqr := 0.0
	for i := 0; i < shape.Count; i++ {
		extentSqr = math.Max(extentSqr, B2Vec2DistanceSquared(shape.Vertices[i], localCenter))
	}
	return math.Sqrt(extentSqr) + shape.Radius
}

func B2ValidatePolygon(shape B2Polygon) bool {
	if shape.Count < 3 || B2_maxPolygonVertices < shape.Count {
		return false
	}

	var hull B2Hull
	for i := 0; i < shape.Count; i++ {
		hull.Points[i] = shape.Vertices[i]
	}

	hull.Count = shape.Count

	return B2ValidateHull(&hull)
}
