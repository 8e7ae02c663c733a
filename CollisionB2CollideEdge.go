package box2d

// Smooth segment collision. A smooth segment is one link of a chain and
// carries its neighbours as ghost vertices. The ghosts are used to reject
// normals that would make a shape catch on an internal vertex.
// See https://box2d.org/posts/2020/06/ghost-collisions/

var B2NormalType = struct {
	// This means the normal points in a direction that is non-smooth relative to a convex vertex and should be skipped
	E_normalSkip uint8

	// This means the normal points in a direction that is smooth relative to a convex vertex and should be used for collision
	E_normalAdmit uint8

	// This means the normal is in a region of a concave vertex and should be snapped to the segment normal
	E_normalSnap uint8
}{
	E_normalSkip:  0,
	E_normalAdmit: 1,
	E_normalSnap:  2,
}

type B2SmoothSegmentParams struct {
	Edge1   B2Vec2
	Normal0 B2Vec2
	Normal2 B2Vec2
	Convex1 bool
	Convex2 bool
}

// Build the Gauss map parameters of a smooth segment in its local frame.
func B2MakeSmoothSegmentParams(segment B2SmoothSegment) B2SmoothSegmentParams {
	const convexTol = 0.01

	p1 := segment.Segment.Point1
	p2 := segment.Segment.Point2

	var params B2SmoothSegmentParams
	params.Edge1 = B2Vec2Normalize(B2Vec2Sub(p2, p1))

	edge0 := B2Vec2Normalize(B2Vec2Sub(p1, segment.Ghost1))
	params.Normal0 = B2RightPerp(edge0)
	params.Convex1 = B2Vec2Cross(edge0, params.Edge1) >= convexTol

	edge2 := B2Vec2Normalize(B2Vec2Sub(segment.Ghost2, p2))
	params.Normal2 = B2RightPerp(edge2)
	params.Convex2 = B2Vec2Cross(params.Edge1, edge2) >= convexTol

	return params
}

// Evaluate Gauss map
func B2ClassifyNormal(params B2SmoothSegmentParams, normal B2Vec2) uint8 {
	const sinTol = 0.01

	if B2Vec2Dot(normal, params.Edge1) <= 0.0 {
		// Normal points towards the segment tail
		if params.Convex1 {
			if B2Vec2Cross(normal, params.Normal0) > sinTol {
				return B2NormalType.E_normalSkip
			}

			return B2NormalType.E_normalAdmit
		}

		return B2NormalType.E_normalSnap
	}

	// Normal points towards segment head
	if params.Convex2 {
		if B2Vec2Cross(params.Normal2, normal) > sinTol {
			return B2NormalType.E_normalSkip
		}

		return B2NormalType.E_normalAdmit
	}

	return B2NormalType.E_normalSnap
}

// This is called for capsule versus capsule and smooth segment versus polygon.
// Segment a is the reference face and segment b is the incident face.
func b2ClipSegments(a1 B2Vec2, a2 B2Vec2, b1 B2Vec2, b2 B2Vec2, normal B2Vec2, ra float64, rb float64, id1 uint16, id2 uint16) B2Manifold {
	manifold := B2Manifold{}

	tangent := B2LeftPerp(normal)

	// Barycentric coordinates of each point relative to a1 along tangent
	lower1 := 0.0
	upper1 := B2Vec2Dot(B2Vec2Sub(a2, a1), tangent)

	// Incident edge points opposite of tangent due to CCW winding
	upper2 := B2Vec2Dot(B2Vec2Sub(b1, a1), tangent)
	lower2 := B2Vec2Dot(B2Vec2Sub(b2, a1), tangent)

	// Do segments overlap?
	if upper2 < lower1 || upper1 < lower2 {
		return manifold
	}

	var vLower B2Vec2
	if lower2 < lower1 && upper2-lower2 > B2_epsilon {
		vLower = B2Vec2Lerp(b2, b1, (lower1-lower2)/(upper2-lower2))
	} else {
		vLower = b2
	}

	var vUpper B2Vec2
	if upper2 > upper1 && upper2-lower2 > B2_epsilon {
		vUpper = B2Vec2Lerp(b2, b1, (upper1-lower2)/(upper2-lower2))
	} else {
		vUpper = b1
	}

	separationLower := B2Vec2Dot(B2Vec2Sub(vLower, a1), normal)
	separationUpper := B2Vec2Dot(B2Vec2Sub(vUpper, a1), normal)

	// put contact points at midpoint, accounting for capsule radius
	vLower = B2Vec2MulAdd(vLower, 0.5*(ra-rb-separationLower), normal)
	vUpper = B2Vec2MulAdd(vUpper, 0.5*(ra-rb-separationUpper), normal)

	radius := ra + rb

	manifold.Normal = normal
	{
		cp := &manifold.Points[0]
		cp.AnchorA = vLower
		cp.Separation = separationLower - radius
		cp.Id = id1
	}

	{
		cp := &manifold.Points[1]
		cp.AnchorA = vUpper
		cp.Separation = separationUpper - radius
		cp.Id = id2
	}

	manifold.PointCount = 2

	return manifold
}

// Rotate a manifold computed in the frame of A into world space.
func b2TransformSegmentManifold(manifold *B2Manifold, localNormal B2Vec2, xfA B2Transform, xfB B2Transform) {
	manifold.Normal = B2RotVec2Mul(xfA.Q, localNormal)
	for i := 0; i < manifold.PointCount; i++ {
		b2FinishManifoldPoint(&manifold.Points[i], manifold.Points[i].AnchorA, xfA, xfB)
	}
}

/// Compute the contact manifold between a smooth segment and a rounded polygon.
/// The cache warm starts the distance query across steps.
func B2CollideSmoothSegmentAndPolygon(segmentA B2SmoothSegment, xfA B2Transform, polygonB B2Polygon, xfB B2Transform, cache *B2DistanceCache) B2Manifold {
	manifold := B2Manifold{}

	xf := B2TransformMulT(xfA, xfB)

	centroidB := B2TransformVec2Mul(xf, polygonB.Centroid)
	radiusB := polygonB.Radius

	p1 := segmentA.Segment.Point1
	p2 := segmentA.Segment.Point2

	smoothParams := B2MakeSmoothSegmentParams(segmentA)

	// Normal points to the right
	normal1 := B2RightPerp(smoothParams.Edge1)
	behind1 := B2Vec2Dot(normal1, B2Vec2Sub(centroidB, p1)) < 0.0
	behind0 := true
	behind2 := true
	if smoothParams.Convex1 {
		behind0 = B2Vec2Dot(smoothParams.Normal0, B2Vec2Sub(centroidB, p1)) < 0.0
	}

	if smoothParams.Convex2 {
		behind2 = B2Vec2Dot(smoothParams.Normal2, B2Vec2Sub(centroidB, p2)) < 0.0
	}

	if behind1 && behind0 && behind2 {
		// one-sided collision
		return manifold
	}

	// Get polygonB in frameA
	count := polygonB.Count
	var vertices [B2_maxPolygonVertices]B2Vec2
	var normals [B2_maxPolygonVertices]B2Vec2
	for i := 0; i < count; i++ {
		vertices[i] = B2TransformVec2Mul(xf, polygonB.Vertices[i])
		normals[i] = B2RotVec2Mul(xf.Q, polygonB.Normals[i])
	}

	// Distance doesn't work correctly with partial polygons
	input := B2DistanceInput{
		ProxyA:     B2MakeProxy([]B2Vec2{p1, p2}, 0.0),
		ProxyB:     B2MakeProxy(vertices[:count], 0.0),
		TransformA: B2Transform_identity,
		TransformB: B2Transform_identity,
		UseRadii:   false,
	}

	output := B2ShapeDistance(cache, input, nil)

	if output.Distance > radiusB+B2_speculativeDistance {
		return manifold
	}

	// Snap concave normals for partial polygon
	n0 := normal1
	if smoothParams.Convex1 {
		n0 = smoothParams.Normal0
	}
	n2 := normal1
	if smoothParams.Convex2 {
		n2 = smoothParams.Normal2
	}

	// Index of incident vertex on polygon
	incidentIndex := -1
	incidentNormal := -1

	if behind1 == false && output.Distance > 0.1*B2_linearSlop {
		// The closest features may be two vertices or an edge and a vertex even when there should
		// be two points of contact

		if cache.Count == 1 {
			// vertex-vertex collision
			pA := output.PointA
			pB := output.PointB

			normal := B2Vec2Normalize(B2Vec2Sub(pB, pA))

			kind := B2ClassifyNormal(smoothParams, normal)
			if kind == B2NormalType.E_normalSkip {
				return manifold
			}

			if kind == B2NormalType.E_normalAdmit {
				manifold.Normal = B2RotVec2Mul(xfA.Q, normal)
				mp := &manifold.Points[0]
				b2FinishManifoldPoint(mp, pA, xfA, xfB)
				mp.Separation = output.Distance - radiusB
				mp.Id = B2MakeId(int(cache.IndexA[0]), int(cache.IndexB[0]))
				manifold.PointCount = 1
				return manifold
			}

			// fall through b2_normalSnap
			incidentIndex = int(cache.IndexB[0])
		} else {
			// vertex-edge collision
			B2Assert(cache.Count == 2)

			ia1 := cache.IndexA[0]
			ia2 := cache.IndexA[1]
			ib1 := int(cache.IndexB[0])
			ib2 := int(cache.IndexB[1])

			if ia1 == ia2 {
				// 1 point on A, expect 2 points on B
				B2Assert(ib1 != ib2)

				// Find polygon normal most aligned with vector between closest points.
				// This effectively sorts ib1 and ib2
				normalB := B2Vec2Sub(output.PointA, output.PointB)
				dot1 := B2Vec2Dot(normalB, normals[ib1])
				dot2 := B2Vec2Dot(normalB, normals[ib2])
				ib := ib2
				if dot1 > dot2 {
					ib = ib1
				}

				// Use accurate normal
				normalB = normals[ib]

				kind := B2ClassifyNormal(smoothParams, B2Vec2Neg(normalB))
				if kind == B2NormalType.E_normalSkip {
					return manifold
				}

				if kind == B2NormalType.E_normalAdmit {
					// Get polygon edge associated with normal
					ib1 = ib
					ib2 = 0
					if ib < count-1 {
						ib2 = ib + 1
					}

					b1 := vertices[ib1]
					b2 := vertices[ib2]

					// Find incident segment vertex
					dot1 = B2Vec2Dot(normalB, B2Vec2Sub(p1, b1))
					dot2 = B2Vec2Dot(normalB, B2Vec2Sub(p2, b1))

					if dot1 < dot2 {
						if B2Vec2Dot(n0, normalB) < B2Vec2Dot(normal1, normalB) {
							// Neighbor is incident
							return manifold
						}
					} else {
						if B2Vec2Dot(n2, normalB) < B2Vec2Dot(normal1, normalB) {
							// Neighbor is incident
							return manifold
						}
					}

					manifold = b2ClipSegments(b1, b2, p1, p2, normalB, radiusB, 0.0, B2MakeId(ib1, 1), B2MakeId(ib2, 0))
					b2TransformSegmentManifold(&manifold, B2Vec2Neg(normalB), xfA, xfB)
					return manifold
				}

				// fall through b2_normalSnap
				incidentNormal = ib
			} else {
				// Get index of incident polygonB vertex
				dot1 := B2Vec2Dot(normal1, B2Vec2Sub(vertices[ib1], p1))
				dot2 := B2Vec2Dot(normal1, B2Vec2Sub(vertices[ib2], p2))
				if dot1 < dot2 {
					incidentIndex = ib1
				} else {
					incidentIndex = ib2
				}
			}
		}
	} else {
		// SAT edge normal
		edgeSeparation := B2_maxFloat

		for i := 0; i < count; i++ {
			s := B2Vec2Dot(normal1, B2Vec2Sub(vertices[i], p1))
			if s < edgeSeparation {
				edgeSeparation = s
				incidentIndex = i
			}
		}

		// Check convex neighbor for edge separation
		if smoothParams.Convex1 {
			s0 := B2_maxFloat

			for i := 0; i < count; i++ {
				s := B2Vec2Dot(smoothParams.Normal0, B2Vec2Sub(vertices[i], p1))
				if s < s0 {
					s0 = s
				}
			}

			if s0 > edgeSeparation {
				edgeSeparation = s0

				// Indicate neighbor owns edge separation
				incidentIndex = -1
			}
		}

		// Check convex neighbor for edge separation
		if smoothParams.Convex2 {
			s2 := B2_maxFloat

			for i := 0; i < count; i++ {
				s := B2Vec2Dot(smoothParams.Normal2, B2Vec2Sub(vertices[i], p2))
				if s < s2 {
					s2 = s
				}
			}

			if s2 > edgeSeparation {
				edgeSeparation = s2

				// Indicate neighbor owns edge separation
				incidentIndex = -1
			}
		}

		// SAT polygon normals
		polygonSeparation := -B2_maxFloat
		referenceIndex := -1

		for i := 0; i < count; i++ {
			n := normals[i]

			kind := B2ClassifyNormal(smoothParams, B2Vec2Neg(n))
			if kind != B2NormalType.E_normalAdmit {
				continue
			}

			p := vertices[i]
			s := B2Min(B2Vec2Dot(n, B2Vec2Sub(p2, p)), B2Vec2Dot(n, B2Vec2Sub(p1, p)))

			if s > polygonSeparation {
				polygonSeparation = s
				referenceIndex = i
			}
		}

		if polygonSeparation > edgeSeparation {
			ia1 := referenceIndex
			ia2 := 0
			if ia1 < count-1 {
				ia2 = ia1 + 1
			}
			a1 := vertices[ia1]
			a2 := vertices[ia2]

			n := normals[ia1]

			dot1 := B2Vec2Dot(n, B2Vec2Sub(p1, a1))
			dot2 := B2Vec2Dot(n, B2Vec2Sub(p2, a1))

			if dot1 < dot2 {
				if B2Vec2Dot(n0, n) < B2Vec2Dot(normal1, n) {
					// Neighbor is incident
					return manifold
				}
			} else {
				if B2Vec2Dot(n2, n) < B2Vec2Dot(normal1, n) {
					// Neighbor is incident
					return manifold
				}
			}

			manifold = b2ClipSegments(a1, a2, p1, p2, n, radiusB, 0.0, B2MakeId(ia1, 1), B2MakeId(ia2, 0))
			b2TransformSegmentManifold(&manifold, B2Vec2Neg(n), xfA, xfB)
			return manifold
		}

		if incidentIndex == -1 {
			// neighboring segment is the separating axis
			return manifold
		}

		// fall through segment normal axis
	}

	B2Assert(incidentNormal != -1 || incidentIndex != -1)

	// Segment normal

	// Find incident polygon normal: normal adjacent to deepest vertex that is most anti-parallel to segment normal
	var b1, b2 B2Vec2
	var ib1, ib2 int

	if incidentNormal != -1 {
		ib1 = incidentNormal
		ib2 = 0
		if ib1 < count-1 {
			ib2 = ib1 + 1
		}
		b1 = vertices[ib1]
		b2 = vertices[ib2]
	} else {
		i2 := incidentIndex
		i1 := count - 1
		if i2 > 0 {
			i1 = i2 - 1
		}
		d1 := B2Vec2Dot(normal1, normals[i1])
		d2 := B2Vec2Dot(normal1, normals[i2])
		if d1 < d2 {
			ib1 = i1
			ib2 = i2
		} else {
			ib1 = i2
			ib2 = 0
			if i2 < count-1 {
				ib2 = i2 + 1
			}
		}
		b1 = vertices[ib1]
		b2 = vertices[ib2]
	}

	manifold = b2ClipSegments(p1, p2, b1, b2, normal1, 0.0, radiusB, B2MakeId(0, ib2), B2MakeId(1, ib1))
	b2TransformSegmentManifold(&manifold, manifold.Normal, xfA, xfB)
	return manifold
}

/// Compute the contact manifold between a smooth segment and a capsule
func B2CollideSmoothSegmentAndCapsule(segmentA B2SmoothSegment, xfA B2Transform, capsuleB B2Capsule, xfB B2Transform, cache *B2DistanceCache) B2Manifold {
	polyB := B2MakeCapsule(capsuleB.Center1, capsuleB.Center2, capsuleB.Radius)
	return B2CollideSmoothSegmentAndPolygon(segmentA, xfA, polyB, xfB, cache)
}
