package box2d

import (
	"math"
)

// Polygon clipper
// Used to compute contact points when there are potentially two contact points.
func b2ClipPolygons(polyA *B2Polygon, polyB *B2Polygon, edgeA int, edgeB int, flip bool) B2Manifold {
	manifold := B2Manifold{}

	// reference polygon
	var poly1 *B2Polygon
	var i11, i12 int

	// incident polygon
	var poly2 *B2Polygon
	var i21, i22 int

	if flip {
		poly1 = polyB
		poly2 = polyA
		i11 = edgeB
		i12 = 0
		if edgeB+1 < polyB.Count {
			i12 = edgeB + 1
		}
		i21 = edgeA
		i22 = 0
		if edgeA+1 < polyA.Count {
			i22 = edgeA + 1
		}
	} else {
		poly1 = polyA
		poly2 = polyB
		i11 = edgeA
		i12 = 0
		if edgeA+1 < polyA.Count {
			i12 = edgeA + 1
		}
		i21 = edgeB
		i22 = 0
		if edgeB+1 < polyB.Count {
			i22 = edgeB + 1
		}
	}

	normal := poly1.Normals[i11]

	// Reference edge vertices
	v11 := poly1.Vertices[i11]
	v12 := poly1.Vertices[i12]

	// Incident edge vertices
	v21 := poly2.Vertices[i21]
	v22 := poly2.Vertices[i22]

	tangent := B2Vec2CrossScalarVector(1.0, normal)

	lower1 := 0.0
	upper1 := B2Vec2Dot(B2Vec2Sub(v12, v11), tangent)

	// Incident edge points opposite of tangent due to CCW winding
	upper2 := B2Vec2Dot(B2Vec2Sub(v21, v11), tangent)
	lower2 := B2Vec2Dot(B2Vec2Sub(v22, v11), tangent)

	var vLower B2Vec2
	if lower2 < lower1 && upper2-lower2 > B2_epsilon {
		vLower = B2Vec2Lerp(v22, v21, (lower1-lower2)/(upper2-lower2))
	} else {
		vLower = v22
	}

	var vUpper B2Vec2
	if upper2 > upper1 && upper2-lower2 > B2_epsilon {
		vUpper = B2Vec2Lerp(v22, v21, (upper1-lower2)/(upper2-lower2))
	} else {
		vUpper = v21
	}

	separationLower := B2Vec2Dot(B2Vec2Sub(vLower, v11), normal)
	separationUpper := B2Vec2Dot(B2Vec2Sub(vUpper, v11), normal)

	r1 := poly1.Radius
	r2 := poly2.Radius

	// put contact points at midpoint, accounting for polygon radius
	vLower = B2Vec2MulAdd(vLower, 0.5*(r1-r2-separationLower), normal)
	vUpper = B2Vec2MulAdd(vUpper, 0.5*(r1-r2-separationUpper), normal)

	radius := r1 + r2

	if flip == false {
		manifold.Normal = normal

		if separationLower-radius <= B2_speculativeDistance {
			cp := &manifold.Points[manifold.PointCount]
			cp.AnchorA = vLower
			cp.Separation = separationLower - radius
			cp.Id = B2MakeId(i11, i22)
			manifold.PointCount++
		}

		if separationUpper-radius <= B2_speculativeDistance {
			cp := &manifold.Points[manifold.PointCount]
			cp.AnchorA = vUpper
			cp.Separation = separationUpper - radius
			cp.Id = B2MakeId(i12, i21)
			manifold.PointCount++
		}
	} else {
		manifold.Normal = B2Vec2Neg(normal)

		if separationUpper-radius <= B2_speculativeDistance {
			cp := &manifold.Points[manifold.PointCount]
			cp.AnchorA = vUpper
			cp.Separation = separationUpper - radius
			cp.Id = B2MakeId(i21, i12)
			manifold.PointCount++
		}

		if separationLower-radius <= B2_speculativeDistance {
			cp := &manifold.Points[manifold.PointCount]
			cp.AnchorA = vLower
			cp.Separation = separationLower - radius
			cp.Id = B2MakeId(i22, i11)
			manifold.PointCount++
		}
	}

	return manifold
}

// Find the max separation between poly1 and poly2 using edge normals from poly1.
func b2FindMaxSeparation(edgeIndex *int, poly1 *B2Polygon, poly2 *B2Polygon) float64 {
	count1 := poly1.Count
	count2 := poly2.Count
	n1s := &poly1.Normals
	v1s := &poly1.Vertices
	v2s := &poly2.Vertices

	bestIndex := 0
	maxSeparation := -B2_maxFloat
	for i := 0; i < count1; i++ {
		// Get poly1 normal in frame2.
		n := n1s[i]
		v1 := v1s[i]

		// Find the deepest point for normal i.
		si := B2_maxFloat
		for j := 0; j < count2; j++ {
			sij := B2Vec2Dot(n, B2Vec2Sub(v2s[j], v1))
			if sij < si {
				si = sij
			}
		}

		if si > maxSeparation {
			maxSeparation = si
			bestIndex = i
		}
	}

	*edgeIndex = bestIndex
	return maxSeparation
}

// Find the edge of poly whose normal is most anti-parallel to the reference normal.
func b2FindIncidentEdge(poly *B2Polygon, referenceNormal B2Vec2) int {
	edge := 0
	minDot := B2_maxFloat
	for i := 0; i < poly.Count; i++ {
		dot := B2Vec2Dot(referenceNormal, poly.Normals[i])
		if dot < minDot {
			minDot = dot
			edge = i
		}
	}
	return edge
}

// Edge of poly spanned by two cached simplex vertices, or -1 if the vertices are
// not adjacent. A two vertex polygon has both edges between the same vertices, so
// the edge facing the other shape wins.
func b2CachedEdge(poly *B2Polygon, i1 int, i2 int, towardOther B2Vec2) int {
	n := poly.Count
	forward := (i1+1)%n == i2
	backward := (i2+1)%n == i1

	switch {
	case forward && backward:
		if B2Vec2Dot(poly.Normals[i1], towardOther) >= B2Vec2Dot(poly.Normals[i2], towardOther) {
			return i1
		}
		return i2
	case forward:
		return i1
	case backward:
		return i2
	}
	return -1
}

// Separating axis test on polygons that are already in the same local frame.
// Used when GJK reports the cores touching or overlapping.
//
// compute edge separation using the separating axis test (SAT)
// if separation > speculation distance
//
//	return
//
// find reference and incident edge
// if separation >= 0.1 * linearSlop
//
//	compute closest points between reference and incident edge
//	if vertices are closest
//	   single vertex-vertex contact
//	else
//	   clip edges
//	end
//
// else
//
//	clip edges
//
// end
func b2PolygonSAT(polyA *B2Polygon, polyB *B2Polygon) B2Manifold {
	edgeA := 0
	separationA := b2FindMaxSeparation(&edgeA, polyA, polyB)

	edgeB := 0
	separationB := b2FindMaxSeparation(&edgeB, polyB, polyA)

	radius := polyA.Radius + polyB.Radius

	if separationA > B2_speculativeDistance+radius || separationB > B2_speculativeDistance+radius {
		return B2Manifold{}
	}

	// Find incident edge
	var flip bool
	if separationB > separationA+0.1*B2_linearSlop {
		flip = true
		edgeA = b2FindIncidentEdge(polyA, polyB.Normals[edgeB])
	} else {
		flip = false
		edgeB = b2FindIncidentEdge(polyB, polyA.Normals[edgeA])
	}

	var manifold B2Manifold

	// Using slop here to ensure vertex-vertex normal vectors can be safely normalized.
	if math.Max(separationA, separationB) > 0.1*B2_linearSlop {
		// find reference edge using SAT
		i11 := edgeA
		i12 := 0
		if edgeA+1 < polyA.Count {
			i12 = edgeA + 1
		}
		i21 := edgeB
		i22 := 0
		if edgeB+1 < polyB.Count {
			i22 = edgeB + 1
		}

		v11 := polyA.Vertices[i11]
		v12 := polyA.Vertices[i12]
		v21 := polyB.Vertices[i21]
		v22 := polyB.Vertices[i22]

		result := B2SegmentDistance(v11, v12, v21, v22)

		vertexCase := true
		var v1, v2 B2Vec2
		var id uint16
		if result.Fraction1 == 0.0 && result.Fraction2 == 0.0 {
			v1, v2, id = v11, v21, B2MakeId(i11, i21)
		} else if result.Fraction1 == 0.0 && result.Fraction2 == 1.0 {
			v1, v2, id = v11, v22, B2MakeId(i11, i22)
		} else if result.Fraction1 == 1.0 && result.Fraction2 == 0.0 {
			v1, v2, id = v12, v21, B2MakeId(i12, i21)
		} else if result.Fraction1 == 1.0 && result.Fraction2 == 1.0 {
			v1, v2, id = v12, v22, B2MakeId(i12, i22)
		} else {
			vertexCase = false
		}

		if vertexCase {
			// polygons are disjoint and the closest features are two vertices
			distance := math.Sqrt(result.DistanceSquared)
			if distance > B2_speculativeDistance+radius {
				return manifold
			}

			normal := B2Vec2Normalize(B2Vec2Sub(v2, v1))

			c1 := B2Vec2MulAdd(v1, polyA.Radius, normal)
			c2 := B2Vec2MulAdd(v2, -polyB.Radius, normal)

			manifold.Normal = normal
			mp := &manifold.Points[0]
			mp.AnchorA = B2Vec2Lerp(c1, c2, 0.5)
			mp.Separation = distance - radius
			mp.Id = id
			manifold.PointCount = 1
		} else {
			// Edge region
			manifold = b2ClipPolygons(polyA, polyB, edgeA, edgeB, flip)
		}
	} else {
		// Polygons overlap
		manifold = b2ClipPolygons(polyA, polyB, edgeA, edgeB, flip)
	}

	return manifold
}

// Due to speculation, every polygon is rounded.
// GJK on the polygon cores runs first, warm started by the cache. Separated cores
// use the cached simplex directly: one point on each side is a vertex-vertex
// contact, two points on a side name the reference edge for clipping. Touching
// or overlapping cores fall back to b2PolygonSAT.
func B2CollidePolygons(polygonA B2Polygon, xfA B2Transform, polygonB B2Polygon, xfB B2Transform, cache *B2DistanceCache) B2Manifold {
	origin := polygonA.Vertices[0]

	// Shift polyA to origin
	// pw = q * pb + p
	// pw = q * (pbs + origin) + p
	// pw = q * pbs + (p + q * origin)
	sfA := B2Transform{P: B2Vec2Add(xfA.P, B2RotVec2Mul(xfA.Q, origin)), Q: xfA.Q}
	xf := B2TransformMulT(sfA, xfB)

	// Shift polyA to origin, in polyA's frame
	localPolyA := polygonA
	for i := 0; i < localPolyA.Count; i++ {
		// Shift all vertices so the shape has a vertex at the origin
		localPolyA.Vertices[i] = B2Vec2Sub(localPolyA.Vertices[i], origin)
	}

	// Put polyB in polyA's frame to reduce round-off error
	var localPolyB B2Polygon
	localPolyB.Count = polygonB.Count
	localPolyB.Radius = polygonB.Radius
	for i := 0; i < localPolyB.Count; i++ {
		localPolyB.Vertices[i] = B2TransformVec2Mul(xf, polygonB.Vertices[i])
		localPolyB.Normals[i] = B2RotVec2Mul(xf.Q, polygonB.Normals[i])
	}

	if cache == nil {
		cache = &B2DistanceCache{}
	}

	input := B2DistanceInput{
		ProxyA:     B2MakeProxy(localPolyA.Vertices[:localPolyA.Count], 0.0),
		ProxyB:     B2MakeProxy(localPolyB.Vertices[:localPolyB.Count], 0.0),
		TransformA: B2Transform_identity,
		TransformB: B2Transform_identity,
		UseRadii:   false,
	}

	output := B2ShapeDistance(cache, input, nil)

	radius := localPolyA.Radius + localPolyB.Radius
	if output.Distance > B2_speculativeDistance+radius {
		return B2Manifold{}
	}

	var manifold B2Manifold

	if output.Distance < 0.1*B2_linearSlop || cache.Count == 3 {
		// distance is near zero, the normal is not reliable
		manifold = b2PolygonSAT(&localPolyA, &localPolyB)
	} else if cache.Count == 1 {
		// vertex-vertex collision
		pA := output.PointA
		pB := output.PointB
		normal := B2Vec2Normalize(B2Vec2Sub(pB, pA))

		c1 := B2Vec2MulAdd(pA, localPolyA.Radius, normal)
		c2 := B2Vec2MulAdd(pB, -localPolyB.Radius, normal)

		manifold.Normal = normal
		mp := &manifold.Points[0]
		mp.AnchorA = B2Vec2Lerp(c1, c2, 0.5)
		mp.Separation = output.Distance - radius
		mp.Id = B2MakeId(int(cache.IndexA[0]), int(cache.IndexB[0]))
		manifold.PointCount = 1
	} else {
		// vertex-edge collision
		B2Assert(cache.Count == 2)

		var flip bool
		edgeA, edgeB := -1, -1
		if cache.IndexA[0] == cache.IndexA[1] {
			// 1 point on A, expect 2 points on B
			flip = true
			edgeB = b2CachedEdge(&localPolyB, int(cache.IndexB[0]), int(cache.IndexB[1]), B2Vec2Sub(output.PointA, output.PointB))
			if edgeB != -1 {
				edgeA = b2FindIncidentEdge(&localPolyA, localPolyB.Normals[edgeB])
			}
		} else {
			// 2 points on A, 1 or 2 points on B
			flip = false
			edgeA = b2CachedEdge(&localPolyA, int(cache.IndexA[0]), int(cache.IndexA[1]), B2Vec2Sub(output.PointB, output.PointA))
			if edgeA != -1 {
				edgeB = b2FindIncidentEdge(&localPolyB, localPolyA.Normals[edgeA])
			}
		}

		if edgeA == -1 || edgeB == -1 {
			manifold = b2PolygonSAT(&localPolyA, &localPolyB)
		} else {
			manifold = b2ClipPolygons(&localPolyA, &localPolyB, edgeA, edgeB, flip)
		}
	}

	manifold.Normal = B2RotVec2Mul(xfA.Q, manifold.Normal)
	for i := 0; i < manifold.PointCount; i++ {
		mp := &manifold.Points[i]

		// anchor points relative to shape origin in world space
		mp.AnchorA = B2RotVec2Mul(xfA.Q, B2Vec2Add(mp.AnchorA, origin))
		mp.AnchorB = B2Vec2Add(mp.AnchorA, B2Vec2Sub(xfA.P, xfB.P))
		mp.Point = B2Vec2Add(xfA.P, mp.AnchorA)
	}

	return manifold
}

/// Compute the contact manifold between two capsules
func B2CollideCapsules(capsuleA B2Capsule, xfA B2Transform, capsuleB B2Capsule, xfB B2Transform, cache *B2DistanceCache) B2Manifold {
	polyA := B2MakeCapsule(capsuleA.Center1, capsuleA.Center2, capsuleA.Radius)
	polyB := B2MakeCapsule(capsuleB.Center1, capsuleB.Center2, capsuleB.Radius)
	return B2CollidePolygons(polyA, xfA, polyB, xfB, cache)
}

/// Compute the contact manifold between a segment and a capsule
func B2CollideSegmentAndCapsule(segmentA B2Segment, xfA B2Transform, capsuleB B2Capsule, xfB B2Transform, cache *B2DistanceCache) B2Manifold {
	polyA := B2MakeCapsule(segmentA.Point1, segmentA.Point2, 0.0)
	polyB := B2MakeCapsule(capsuleB.Center1, capsuleB.Center2, capsuleB.Radius)
	return B2CollidePolygons(polyA, xfA, polyB, xfB, cache)
}

/// Compute the contact manifold between a polygon and capsule
func B2CollidePolygonAndCapsule(polygonA B2Polygon, xfA B2Transform, capsuleB B2Capsule, xfB B2Transform, cache *B2DistanceCache) B2Manifold {
	polyB := B2MakeCapsule(capsuleB.Center1, capsuleB.Center2, capsuleB.Radius)
	return B2CollidePolygons(polygonA, xfA, polyB, xfB, cache)
}

/// Compute the contact manifold between a segment and a polygon
func B2CollideSegmentAndPolygon(segmentA B2Segment, xfA B2Transform, polygonB B2Polygon, xfB B2Transform, cache *B2DistanceCache) B2Manifold {
	polyA := B2MakeCapsule(segmentA.Point1, segmentA.Point2, 0.0)
	return B2CollidePolygons(polyA, xfA, polygonB, xfB, cache)
}
