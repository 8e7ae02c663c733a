package box2d

///////////////////////////////////////////////////////////////////////////////
// World queries. Queries read the broad-phase trees and are rejected while
// the world is stepping.
///////////////////////////////////////////////////////////////////////////////

/// Overlap test for all shapes that *potentially* overlap the provided AABB
func B2World_QueryAABB(worldId B2WorldId, aabb B2AABB, filter B2QueryFilter, fcn B2OverlapResultFcn, context any) error {
	world, err := b2GetMutableWorld(worldId)
	if err != nil {
		return err
	}

	if aabb.IsValid() == false {
		return ErrInvalidDef
	}

	for i := 0; i < B2_bodyTypeCount; i++ {
		proceed := true
		world.broadPhase.Trees[i].Query(aabb, filter.MaskBits, func(proxyId int32, shapeId int32) bool {
			shape := world.shapes.Get(shapeId)
			if b2ShouldQueryShape(shape.Filter, filter) == false {
				return true
			}

			proceed = fcn(b2MakeShapeId(world, shapeId), context)
			return proceed
		})

		if proceed == false {
			break
		}
	}

	return nil
}

// Exact overlap test of a world space proxy against the shapes in the trees.
func b2OverlapProxy(world *b2World, proxy B2DistanceProxy, aabb B2AABB, filter B2QueryFilter, fcn B2OverlapResultFcn, context any) {
	for i := 0; i < B2_bodyTypeCount; i++ {
		proceed := true
		world.broadPhase.Trees[i].Query(aabb, filter.MaskBits, func(proxyId int32, shapeId int32) bool {
			shape := world.shapes.Get(shapeId)
			if b2ShouldQueryShape(shape.Filter, filter) == false {
				return true
			}

			input := B2DistanceInput{
				ProxyA:     b2MakeShapeDistanceProxy(shape),
				ProxyB:     proxy,
				TransformA: b2GetBodyTransform(world, shape.BodyId),
				TransformB: B2Transform_identity,
				UseRadii:   true,
			}

			cache := B2DistanceCache{}
			output := B2ShapeDistance(&cache, input, nil)
			if output.Distance > 0.0 {
				return true
			}

			proceed = fcn(b2MakeShapeId(world, shapeId), context)
			return proceed
		})

		if proceed == false {
			return
		}
	}
}

/// Overlap test for all shapes that overlap the provided circle
func B2World_OverlapCircle(worldId B2WorldId, circle B2Circle, transform B2Transform, filter B2QueryFilter, fcn B2OverlapResultFcn, context any) error {
	world, err := b2GetMutableWorld(worldId)
	if err != nil {
		return err
	}

	if transform.P.IsValid() == false || transform.Q.IsValid() == false || B2IsValid(circle.Radius) == false {
		return ErrInvalidDef
	}

	center := B2TransformVec2Mul(transform, circle.Center)
	proxy := B2MakeProxy([]B2Vec2{center}, circle.Radius)
	aabb := B2ComputeCircleAABB(circle, transform)
	b2OverlapProxy(world, proxy, aabb, filter, fcn, context)
	return nil
}

/// Overlap test for all shapes that overlap the provided capsule
func B2World_OverlapCapsule(worldId B2WorldId, capsule B2Capsule, transform B2Transform, filter B2QueryFilter, fcn B2OverlapResultFcn, context any) error {
	world, err := b2GetMutableWorld(worldId)
	if err != nil {
		return err
	}

	if transform.P.IsValid() == false || transform.Q.IsValid() == false || B2IsValid(capsule.Radius) == false {
		return ErrInvalidDef
	}

	p1 := B2TransformVec2Mul(transform, capsule.Center1)
	p2 := B2TransformVec2Mul(transform, capsule.Center2)
	proxy := B2MakeProxy([]B2Vec2{p1, p2}, capsule.Radius)
	aabb := B2ComputeCapsuleAABB(capsule, transform)
	b2OverlapProxy(world, proxy, aabb, filter, fcn, context)
	return nil
}

/// Overlap test for all shapes that overlap the provided polygon
func B2World_OverlapPolygon(worldId B2WorldId, polygon B2Polygon, transform B2Transform, filter B2QueryFilter, fcn B2OverlapResultFcn, context any) error {
	world, err := b2GetMutableWorld(worldId)
	if err != nil {
		return err
	}

	if transform.P.IsValid() == false || transform.Q.IsValid() == false || polygon.Count < 1 {
		return ErrInvalidDef
	}

	var points [B2_maxPolygonVertices]B2Vec2
	for i := 0; i < polygon.Count; i++ {
		points[i] = B2TransformVec2Mul(transform, polygon.Vertices[i])
	}

	proxy := B2MakeProxy(points[:polygon.Count], polygon.Radius)
	aabb := B2ComputePolygonAABB(polygon, transform)
	b2OverlapProxy(world, proxy, aabb, filter, fcn, context)
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// Ray casts
///////////////////////////////////////////////////////////////////////////////

/// Cast a ray into the world to collect shapes in the path of the ray.
/// Your callback function controls whether you get the closest point, any point, or n-points.
/// The ray-cast ignores shapes that contain the starting point.
/// @note The callback function may receive shapes in any order
/// @param worldId The world to cast the ray against
/// @param origin The start point of the ray
/// @param translation The translation of the ray from the start point to the end point
/// @param filter Contains bit flags to filter unwanted shapes from the results
/// @param fcn A user implemented callback function
/// @param context A user context that is passed along to the callback function
func B2World_RayCast(worldId B2WorldId, origin B2Vec2, translation B2Vec2, filter B2QueryFilter, fcn B2CastResultFcn, context any) error {
	world, err := b2GetMutableWorld(worldId)
	if err != nil {
		return err
	}

	input := B2RayCastInput{Origin: origin, Translation: translation, MaxFraction: 1.0}
	if B2IsValidRay(input) == false {
		return ErrInvalidDef
	}

	fraction := 1.0
	callback := func(input *B2RayCastInput, proxyId int32, shapeId int32) float64 {
		shape := world.shapes.Get(shapeId)
		if shape.IsSensor || b2ShouldQueryShape(shape.Filter, filter) == false {
			return input.MaxFraction
		}

		transform := b2GetBodyTransform(world, shape.BodyId)
		output := b2RayCastShape(*input, shape, transform)
		if output.Hit == false {
			return input.MaxFraction
		}

		value := fcn(b2MakeShapeId(world, shapeId), output.Point, output.Normal, output.Fraction, context)

		// The user may return -1 to skip this shape
		if 0.0 <= value && value <= 1.0 {
			fraction = value
		}
		return value
	}

	for i := 0; i < B2_bodyTypeCount; i++ {
		world.broadPhase.Trees[i].RayCast(input, filter.MaskBits, callback)

		if fraction == 0.0 {
			return nil
		}

		input.MaxFraction = fraction
	}

	return nil
}

/// Cast a ray into the world to collect the closest hit. This is a convenience function.
/// This is less general than B2World_RayCast() and does not allow for custom filtering.
func B2World_RayCastClosest(worldId B2WorldId, origin B2Vec2, translation B2Vec2, filter B2QueryFilter) (B2RayResult, error) {
	var result B2RayResult

	err := B2World_RayCast(worldId, origin, translation, filter, func(shapeId B2ShapeId, point B2Vec2, normal B2Vec2, fraction float64, context any) float64 {
		result = B2RayResult{
			ShapeId:  shapeId,
			Point:    point,
			Normal:   normal,
			Fraction: fraction,
			Hit:      true,
		}
		return fraction
	}, nil)

	return result, err
}

///////////////////////////////////////////////////////////////////////////////
// Shape casts
///////////////////////////////////////////////////////////////////////////////

func b2ShapeCastWorld(world *b2World, input B2ShapeCastInput, filter B2QueryFilter, fcn B2CastResultFcn, context any) {
	fraction := 1.0
	callback := func(input *B2ShapeCastInput, proxyId int32, shapeId int32) float64 {
		shape := world.shapes.Get(shapeId)
		if shape.IsSensor || b2ShouldQueryShape(shape.Filter, filter) == false {
			return input.MaxFraction
		}

		transform := b2GetBodyTransform(world, shape.BodyId)
		output := b2ShapeCastShape(*input, shape, transform)
		if output.Hit == false {
			return input.MaxFraction
		}

		value := fcn(b2MakeShapeId(world, shapeId), output.Point, output.Normal, output.Fraction, context)
		if 0.0 <= value && value <= 1.0 {
			fraction = value
		}
		return value
	}

	for i := 0; i < B2_bodyTypeCount; i++ {
		world.broadPhase.Trees[i].ShapeCast(input, filter.MaskBits, callback)

		if fraction == 0.0 {
			return
		}

		input.MaxFraction = fraction
	}
}

/// Cast a circle through the world. Similar to a ray-cast except that a circle is cast instead of a point.
func B2World_CastCircle(worldId B2WorldId, circle B2Circle, originTransform B2Transform, translation B2Vec2, filter B2QueryFilter, fcn B2CastResultFcn, context any) error {
	world, err := b2GetMutableWorld(worldId)
	if err != nil {
		return err
	}

	if originTransform.P.IsValid() == false || originTransform.Q.IsValid() == false || translation.IsValid() == false {
		return ErrInvalidDef
	}

	input := MakeB2ShapeCastInput()
	input.Points[0] = B2TransformVec2Mul(originTransform, circle.Center)
	input.Count = 1
	input.Radius = circle.Radius
	input.Translation = translation

	b2ShapeCastWorld(world, input, filter, fcn, context)
	return nil
}

/// Cast a capsule through the world. Similar to a ray-cast except that a capsule is cast instead of a point.
func B2World_CastCapsule(worldId B2WorldId, capsule B2Capsule, originTransform B2Transform, translation B2Vec2, filter B2QueryFilter, fcn B2CastResultFcn, context any) error {
	world, err := b2GetMutableWorld(worldId)
	if err != nil {
		return err
	}

	if originTransform.P.IsValid() == false || originTransform.Q.IsValid() == false || translation.IsValid() == false {
		return ErrInvalidDef
	}

	input := MakeB2ShapeCastInput()
	input.Points[0] = B2TransformVec2Mul(originTransform, capsule.Center1)
	input.Points[1] = B2TransformVec2Mul(originTransform, capsule.Center2)
	input.Count = 2
	input.Radius = capsule.Radius
	input.Translation = translation

	b2ShapeCastWorld(world, input, filter, fcn, context)
	return nil
}

/// Cast a polygon through the world. Similar to a ray-cast except that a polygon is cast instead of a point.
func B2World_CastPolygon(worldId B2WorldId, polygon B2Polygon, originTransform B2Transform, translation B2Vec2, filter B2QueryFilter, fcn B2CastResultFcn, context any) error {
	world, err := b2GetMutableWorld(worldId)
	if err != nil {
		return err
	}

	if originTransform.P.IsValid() == false || originTransform.Q.IsValid() == false || translation.IsValid() == false || polygon.Count < 1 {
		return ErrInvalidDef
	}

	input := MakeB2ShapeCastInput()
	for i := 0; i < polygon.Count; i++ {
		input.Points[i] = B2TransformVec2Mul(originTransform, polygon.Vertices[i])
	}
	input.Count = polygon.Count
	input.Radius = polygon.Radius
	input.Translation = translation

	b2ShapeCastWorld(world, input, filter, fcn, context)
	return nil
}
