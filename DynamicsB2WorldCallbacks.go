package box2d

/// This is used to filter collision on shapes. It affects shape-vs-shape collision
/// and shape-versus-query collision (such as B2World_CastRay).
type B2Filter struct {
	/// The collision category bits. Normally you would just set one bit. The category bits should
	/// represent your application object types.
	CategoryBits uint32

	/// The collision mask bits. This states the categories that this
	/// shape would accept for collision.
	MaskBits uint32

	/// Collision groups allow a certain group of objects to never collide (negative)
	/// or always collide (positive). A group index of zero has no effect. Non-zero group filtering
	/// always wins against the mask bits.
	GroupIndex int32
}

func B2DefaultFilter() B2Filter {
	return B2Filter{
		CategoryBits: B2_defaultCategoryBits,
		MaskBits:     B2_defaultMaskBits,
		GroupIndex:   0,
	}
}

/// The query filter is used to filter collisions between queries and shapes. For example,
/// you may want a ray-cast representing a projectile to hit players and the static environment
/// but not debris.
type B2QueryFilter struct {
	/// The collision category bits of this query. Normally you would just set one bit.
	CategoryBits uint32

	/// The collision mask bits. This states the shape categories that this
	/// query would accept for collision.
	MaskBits uint32
}

func B2DefaultQueryFilter() B2QueryFilter {
	return B2QueryFilter{
		CategoryBits: B2_defaultCategoryBits,
		MaskBits:     B2_defaultMaskBits,
	}
}

// Return true if contact calculations should be performed between these two shapes.
// If you implement your own collision filter you may want to build from this implementation.
func B2ShouldShapesCollide(filterA B2Filter, filterB B2Filter) bool {
	if filterA.GroupIndex == filterB.GroupIndex && filterA.GroupIndex != 0 {
		return filterA.GroupIndex > 0
	}

	return (filterA.MaskBits&filterB.CategoryBits) != 0 && (filterA.CategoryBits&filterB.MaskBits) != 0
}

func b2ShouldQueryShape(shapeFilter B2Filter, queryFilter B2QueryFilter) bool {
	return (shapeFilter.CategoryBits&queryFilter.MaskBits) != 0 && (shapeFilter.MaskBits&queryFilter.CategoryBits) != 0
}

/// Prototype for a contact filter callback.
/// This is called when a contact pair is considered for collision. This allows you to
/// perform custom logic to prevent collision between shapes. This is only called if
/// one of the two shapes has custom filtering enabled. See B2ShapeDef.
/// Notes:
/// - this function must be thread-safe
/// - this is only called if one of the two shapes has enabled custom filtering
/// - this is called only for awake dynamic bodies
/// Return false if you want to disable the collision
/// @warning Do not attempt to modify the world inside this callback
type B2CustomFilterFcn func(shapeIdA B2ShapeId, shapeIdB B2ShapeId, context any) bool

/// Prototype for a pre-solve callback.
/// This is called after a contact is updated. This allows you to inspect a
/// contact before it goes to the solver. If you are careful, you can modify the
/// contact manifold (e.g. modify the normal).
/// Notes:
/// - this function must be thread-safe
/// - this is only called if the shape has enabled pre-solve events
/// - this is called only for awake dynamic bodies
/// - this is not called for sensors
/// - the supplied manifold has impulse values from the previous step
/// Return false if you want to disable the contact this step
/// @warning Do not attempt to modify the world inside this callback
type B2PreSolveFcn func(shapeIdA B2ShapeId, shapeIdB B2ShapeId, manifold *B2Manifold, context any) bool

/// Prototype callback for overlap queries.
/// Called for each shape found in the query.
/// @return false to terminate the query.
type B2OverlapResultFcn func(shapeId B2ShapeId, context any) bool

/// Prototype callback for ray casts.
/// Called for each shape found in the query. You control how the ray cast
/// proceeds by returning a float:
/// return -1: ignore this shape and continue
/// return 0: terminate the ray cast
/// return fraction: clip the ray to this point
/// return 1: don't clip the ray and continue
/// @param shapeId the shape hit by the ray
/// @param point the point of initial intersection
/// @param normal the normal vector at the point of intersection
/// @param fraction the fraction along the ray at the point of intersection
/// @param context the user context
/// @return -1 to filter, 0 to terminate, fraction to clip the ray for closest hit, 1 to continue
type B2CastResultFcn func(shapeId B2ShapeId, point B2Vec2, normal B2Vec2, fraction float64, context any) float64

/// Result from B2World_RayCastClosest
type B2RayResult struct {
	ShapeId  B2ShapeId
	Point    B2Vec2
	Normal   B2Vec2
	Fraction float64
	Hit      bool
}

///////////////////////////////////////////////////////////////////////////////
// Events. The event arrays are owned by the world and are only valid until
// the next call to B2World_Step.
///////////////////////////////////////////////////////////////////////////////

/// A begin touch event is generated when a shape starts to overlap a sensor shape.
type B2SensorBeginTouchEvent struct {
	SensorShapeId  B2ShapeId
	VisitorShapeId B2ShapeId
}

/// An end touch event is generated when a shape stops overlapping a sensor shape.
type B2SensorEndTouchEvent struct {
	SensorShapeId  B2ShapeId
	VisitorShapeId B2ShapeId
}

/// Sensor events are buffered in the Box2D world and are available
/// as begin/end overlap event arrays after the time step is complete.
/// Note: these may become invalid if bodies and/or shapes are destroyed
type B2SensorEvents struct {
	BeginEvents []B2SensorBeginTouchEvent
	EndEvents   []B2SensorEndTouchEvent
}

/// A begin touch event is generated when two shapes begin touching.
type B2ContactBeginTouchEvent struct {
	ShapeIdA B2ShapeId
	ShapeIdB B2ShapeId
}

/// An end touch event is generated when two shapes stop touching.
type B2ContactEndTouchEvent struct {
	ShapeIdA B2ShapeId
	ShapeIdB B2ShapeId
}

/// A hit touch event is generated when two shapes collide with a speed faster than the hit speed threshold.
type B2ContactHitEvent struct {
	ShapeIdA B2ShapeId
	ShapeIdB B2ShapeId

	/// Point where the shapes hit
	Point B2Vec2

	/// Normal vector pointing from shape A to shape B
	Normal B2Vec2

	/// The speed the shapes are approaching. Always positive. Typically in meters per second.
	ApproachSpeed float64
}

/// Contact events are buffered in the Box2D world and are available
/// as event arrays after the time step is complete.
/// Note: these may become invalid if bodies and/or shapes are destroyed
type B2ContactEvents struct {
	BeginEvents []B2ContactBeginTouchEvent
	EndEvents   []B2ContactEndTouchEvent
	HitEvents   []B2ContactHitEvent
}

/// Body move events triggered when a body moves.
/// Triggered when a body moves due to simulation. Not reported for bodies moved by the user.
/// This also has a flag to indicate that the body went to sleep so the application can also
/// sleep that actor/entity/object associated with the body.
/// On the other hand if the flag does not indicate the body went to sleep then the application
/// can treat the actor/entity/object associated with the body as awake.
type B2BodyMoveEvent struct {
	Transform  B2Transform
	BodyId     B2BodyId
	UserData   any
	FellAsleep bool
}

/// Body events are buffered in the Box2D world and are available
/// as event arrays after the time step is complete.
type B2BodyEvents struct {
	MoveEvents []B2BodyMoveEvent
}

/// The contact data for two shapes. By convention the manifold normal points
/// from shape A to shape B.
type B2ContactData struct {
	ShapeIdA B2ShapeId
	ShapeIdB B2ShapeId
	Manifold B2Manifold
}
