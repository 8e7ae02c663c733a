package box2d

// Manifold routines compute everything in the frame of shape A and rotate the
// result back into world space at the end. Anchors are relative to the body
// origins; the contact update shifts them to the centers of mass.

// Fill in the world quantities of a single point computed in the frame of A.
func b2FinishManifoldPoint(mp *B2ManifoldPoint, localAnchor B2Vec2, xfA B2Transform, xfB B2Transform) {
	mp.AnchorA = B2RotVec2Mul(xfA.Q, localAnchor)
	mp.AnchorB = B2Vec2Add(mp.AnchorA, B2Vec2Sub(xfA.P, xfB.P))
	mp.Point = B2Vec2Add(mp.AnchorA, xfA.P)
}

/// Compute the contact manifold between two circles
func B2CollideCircles(circleA B2Circle, xfA B2Transform, circleB B2Circle, xfB B2Transform) B2Manifold {
	manifold := B2Manifold{}

	xf := B2TransformMulT(xfA, xfB)

	pointA := circleA.Center
	pointB := B2TransformVec2Mul(xf, circleB.Center)

	distance, normal := B2GetLengthAndNormalize(B2Vec2Sub(pointB, pointA))

	radiusA := circleA.Radius
	radiusB := circleB.Radius

	separation := distance - radiusA - radiusB
	if separation > B2_speculativeDistance {
		return manifold
	}

	cA := B2Vec2MulAdd(pointA, radiusA, normal)
	cB := B2Vec2MulAdd(pointB, -radiusB, normal)
	contact := B2Vec2Lerp(cA, cB, 0.5)
	manifold.Normal = B2RotVec2Mul(xfA.Q, normal)

	mp := &manifold.Points[0]
	b2FinishManifoldPoint(mp, contact, xfA, xfB)
	mp.Separation = separation
	mp.Id = 0
	manifold.PointCount = 1
	return manifold
}

/// Compute the contact manifold between a capsule and circle
func B2CollideCapsuleAndCircle(capsuleA B2Capsule, xfA B2Transform, circleB B2Circle, xfB B2Transform) B2Manifold {
	manifold := B2Manifold{}

	xf := B2TransformMulT(xfA, xfB)

	// Compute circle position in the frame of the capsule.
	pB := B2TransformVec2Mul(xf, circleB.Center)

	// Compute closest point
	p1 := capsuleA.Center1
	p2 := capsuleA.Center2

	e := B2Vec2Sub(p2, p1)

	// dot(p - pA, e) = 0
	// pA = p1 + s1 * e
	// s1 = dot(p - p1, e)
	var pA B2Vec2
	s1 := B2Vec2Dot(B2Vec2Sub(pB, p1), e)
	s2 := B2Vec2Dot(B2Vec2Sub(p2, pB), e)
	if s1 < 0.0 {
		// p1 region
		pA = p1
	} else if s2 < 0.0 {
		// p2 region
		pA = p2
	} else {
		// circle between p1 and p2
		s := s1 / B2Vec2Dot(e, e)
		pA = B2Vec2MulAdd(p1, s, e)
	}

	distance, normal := B2GetLengthAndNormalize(B2Vec2Sub(pB, pA))

	radiusA := capsuleA.Radius
	radiusB := circleB.Radius
	separation := distance - radiusA - radiusB
	if separation > B2_speculativeDistance {
		return manifold
	}

	cA := B2Vec2MulAdd(pA, radiusA, normal)
	cB := B2Vec2MulAdd(pB, -radiusB, normal)
	contact := B2Vec2Lerp(cA, cB, 0.5)
	manifold.Normal = B2RotVec2Mul(xfA.Q, normal)

	mp := &manifold.Points[0]
	b2FinishManifoldPoint(mp, contact, xfA, xfB)
	mp.Separation = separation
	mp.Id = 0
	manifold.PointCount = 1
	return manifold
}

/// Compute the contact manifold between a polygon and a circle
func B2CollidePolygonAndCircle(polygonA B2Polygon, xfA B2Transform, circleB B2Circle, xfB B2Transform) B2Manifold {
	manifold := B2Manifold{}
	speculativeDistance := B2_speculativeDistance

	xf := B2TransformMulT(xfA, xfB)

	// Compute circle position in the frame of the polygon.
	c := B2TransformVec2Mul(xf, circleB.Center)
	radiusA := polygonA.Radius
	radiusB := circleB.Radius
	radius := radiusA + radiusB

	// Find the min separating edge.
	normalIndex := 0
	separation := -B2_maxFloat
	vertexCount := polygonA.Count
	vertices := polygonA.Vertices
	normals := polygonA.Normals

	for i := 0; i < vertexCount; i++ {
		s := B2Vec2Dot(normals[i], B2Vec2Sub(c, vertices[i]))
		if s > separation {
			separation = s
			normalIndex = i
		}
	}

	if separation-radius > speculativeDistance {
		return manifold
	}

	// Vertices of the reference edge.
	vertIndex1 := normalIndex
	vertIndex2 := 0
	if vertIndex1+1 < vertexCount {
		vertIndex2 = vertIndex1 + 1
	}
	v1 := vertices[vertIndex1]
	v2 := vertices[vertIndex2]

	// Compute barycentric coordinates
	u1 := B2Vec2Dot(B2Vec2Sub(c, v1), B2Vec2Sub(v2, v1))
	u2 := B2Vec2Dot(B2Vec2Sub(c, v2), B2Vec2Sub(v1, v2))

	if u1 < 0.0 && separation > B2_epsilon {
		// Circle center is closest to v1 and safely outside the polygon
		normal := B2Vec2Normalize(B2Vec2Sub(c, v1))
		separation = B2Vec2Dot(B2Vec2Sub(c, v1), normal)
		if separation-radius > speculativeDistance {
			return manifold
		}

		cA := B2Vec2MulAdd(v1, radiusA, normal)
		cB := B2Vec2MulSub(c, radiusB, normal)
		contactA := B2Vec2Lerp(cA, cB, 0.5)

		manifold.Normal = B2RotVec2Mul(xfA.Q, normal)
		mp := &manifold.Points[0]
		b2FinishManifoldPoint(mp, contactA, xfA, xfB)
		mp.Separation = B2Vec2Dot(B2Vec2Sub(cB, cA), normal)
		mp.Id = 0
		manifold.PointCount = 1
		return manifold
	} else if u2 < 0.0 && separation > B2_epsilon {
		// Circle center is closest to v2 and safely outside the polygon
		normal := B2Vec2Normalize(B2Vec2Sub(c, v2))
		separation = B2Vec2Dot(B2Vec2Sub(c, v2), normal)
		if separation-radius > speculativeDistance {
			return manifold
		}

		cA := B2Vec2MulAdd(v2, radiusA, normal)
		cB := B2Vec2MulSub(c, radiusB, normal)
		contactA := B2Vec2Lerp(cA, cB, 0.5)

		manifold.Normal = B2RotVec2Mul(xfA.Q, normal)
		mp := &manifold.Points[0]
		b2FinishManifoldPoint(mp, contactA, xfA, xfB)
		mp.Separation = B2Vec2Dot(B2Vec2Sub(cB, cA), normal)
		mp.Id = 0
		manifold.PointCount = 1
		return manifold
	}

	// Circle center is between v1 and v2. Center may be inside polygon
	normal := normals[normalIndex]
	manifold.Normal = B2RotVec2Mul(xfA.Q, normal)

	// cA is the projection of the circle center onto to the reference edge
	cA := B2Vec2MulAdd(c, radiusA-B2Vec2Dot(B2Vec2Sub(c, v1), normal), normal)

	// cB is the deepest point on the circle with respect to the reference edge
	cB := B2Vec2MulSub(c, radiusB, normal)

	contactA := B2Vec2Lerp(cA, cB, 0.5)

	// The contact point is the midpoint in world space
	mp := &manifold.Points[0]
	b2FinishManifoldPoint(mp, contactA, xfA, xfB)
	mp.Separation = separation - radius
	mp.Id = 0
	manifold.PointCount = 1
	return manifold
}

/// Compute the contact manifold between a segment and a circle
func B2CollideSegmentAndCircle(segmentA B2Segment, xfA B2Transform, circleB B2Circle, xfB B2Transform) B2Manifold {
	capsuleA := B2Capsule{Center1: segmentA.Point1, Center2: segmentA.Point2, Radius: 0.0}
	return B2CollideCapsuleAndCircle(capsuleA, xfA, circleB, xfB)
}

/// Compute the contact manifold between a smooth segment and a circle.
/// The circle only collides with the right side and the ghost vertices
/// keep it from catching on internal vertices.
func B2CollideSmoothSegmentAndCircle(segmentA B2SmoothSegment, xfA B2Transform, circleB B2Circle, xfB B2Transform) B2Manifold {
	manifold := B2Manifold{}

	xf := B2TransformMulT(xfA, xfB)

	// Compute circle in frame of segment
	pB := B2TransformVec2Mul(xf, circleB.Center)

	p1 := segmentA.Segment.Point1
	p2 := segmentA.Segment.Point2
	e := B2Vec2Sub(p2, p1)

	// Normal points to the right
	offset := B2Vec2Dot(B2RightPerp(e), B2Vec2Sub(pB, p1))
	if offset < 0.0 {
		// collision is one-sided
		return manifold
	}

	// Barycentric coordinates
	u := B2Vec2Dot(e, B2Vec2Sub(p2, pB))
	v := B2Vec2Dot(e, B2Vec2Sub(pB, p1))

	var pA B2Vec2

	if v <= 0.0 {
		// Behind point1?
		// Is pB in the Voronoi region of the previous edge?
		prevEdge := B2Vec2Sub(p1, segmentA.Ghost1)
		uPrev := B2Vec2Dot(prevEdge, B2Vec2Sub(pB, p1))
		if uPrev <= 0.0 {
			return manifold
		}

		pA = p1
	} else if u <= 0.0 {
		// Ahead of point2?
		nextEdge := B2Vec2Sub(segmentA.Ghost2, p2)
		vNext := B2Vec2Dot(nextEdge, B2Vec2Sub(pB, p2))

		// Is pB in the Voronoi region of the next edge?
		if vNext > 0.0 {
			return manifold
		}

		pA = p2
	} else {
		ee := B2Vec2Dot(e, e)
		pA = MakeB2Vec2(u*p1.X+v*p2.X, u*p1.Y+v*p2.Y)
		if ee > 0.0 {
			pA = B2Vec2MulScalar(1.0/ee, pA)
		} else {
			pA = p1
		}
	}

	distance, normal := B2GetLengthAndNormalize(B2Vec2Sub(pB, pA))

	radius := circleB.Radius
	separation := distance - radius
	if separation > B2_speculativeDistance {
		return manifold
	}

	cA := pA
	cB := B2Vec2MulAdd(pB, -radius, normal)
	contact := B2Vec2Lerp(cA, cB, 0.5)

	manifold.Normal = B2RotVec2Mul(xfA.Q, normal)

	mp := &manifold.Points[0]
	b2FinishManifoldPoint(mp, contact, xfA, xfB)
	mp.Separation = separation
	mp.Id = 0
	manifold.PointCount = 1
	return manifold
}
