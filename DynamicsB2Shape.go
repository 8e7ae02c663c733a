package box2d

import (
	"fmt"
	"math"
)

/// Shape type
var B2ShapeType = struct {
	E_circleShape        uint8
	E_capsuleShape       uint8
	E_segmentShape       uint8
	E_polygonShape       uint8
	E_smoothSegmentShape uint8
}{
	E_circleShape:        0,
	E_capsuleShape:       1,
	E_segmentShape:       2,
	E_polygonShape:       3,
	E_smoothSegmentShape: 4,
}

const B2_shapeTypeCount = 5

/// Used to create a shape.
/// This is a temporary object used to bundle shape creation parameters. You may use
/// the same shape definition to create multiple shapes.
type B2ShapeDef struct {
	/// Use this to store application specific shape data.
	UserData any

	/// The Coulomb (dry) friction coefficient, usually in the range [0,1].
	Friction float64

	/// The restitution (bounce) usually in the range [0,1].
	Restitution float64

	/// The density, usually in kg/m^2.
	Density float64

	/// Collision filtering data.
	Filter B2Filter

	/// Enable custom filtering. Only one of the two shapes needs to enable custom filtering.
	EnableCustomFiltering bool

	/// A sensor shape generates overlap events but never generates a collision response.
	IsSensor bool

	/// Enable sensor events for this shape. Only applies to kinematic and dynamic bodies. Ignored for sensors.
	EnableSensorEvents bool

	/// Enable contact events for this shape. Only applies to kinematic and dynamic bodies. Ignored for sensors.
	EnableContactEvents bool

	/// Enable hit events for this shape. Only applies to kinematic and dynamic bodies. Ignored for sensors.
	EnableHitEvents bool

	/// Enable pre-solve contact events for this shape. Only applies to dynamic bodies. These are expensive
	/// and must be carefully handled due to multithreading. Ignored for sensors.
	EnablePreSolveEvents bool

	/// Normally shapes on static bodies don't invoke contact creation when they are added to the world. This overrides
	/// that behavior and causes contact creation. This significantly slows down static body creation which can be important
	/// when there are many static shapes.
	ForceContactCreation bool
}

/// Use this to initialize your shape definition
func B2DefaultShapeDef() B2ShapeDef {
	return B2ShapeDef{
		Friction:            0.6,
		Density:             1.0,
		Filter:              B2DefaultFilter(),
		EnableSensorEvents:  true,
		EnableContactEvents: true,
	}
}

func MakeB2ShapeDef() B2ShapeDef {
	return B2DefaultShapeDef()
}

type b2Shape struct {
	Id          int32
	BodyId      int32
	PrevShapeId int32
	NextShapeId int32
	Type        uint8
	Density     float64
	Friction    float64
	Restitution float64

	AABB          B2AABB
	FatAABB       B2AABB
	LocalCentroid B2Vec2
	ProxyKey      int32

	Filter   B2Filter
	UserData any

	IsSensor              bool
	EnableSensorEvents    bool
	EnableContactEvents   bool
	EnableHitEvents       bool
	EnablePreSolveEvents  bool
	EnableCustomFiltering bool
	EnlargedAABB          bool
	IsFast                bool

	// Geometry, selected by Type
	Capsule       B2Capsule
	Circle        B2Circle
	Polygon       B2Polygon
	Segment       B2Segment
	SmoothSegment B2SmoothSegment
}

type b2ShapeExtent struct {
	MinExtent float64
	MaxExtent float64
}

///////////////////////////////////////////////////////////////////////////////
// Id helpers
///////////////////////////////////////////////////////////////////////////////

func b2MakeShapeId(world *b2World, shapeId int32) B2ShapeId {
	return B2ShapeId{Index1: shapeId + 1, World0: world.worldId, WorldRevision: world.revision, Revision: world.shapes.Revision(shapeId)}
}

func b2IsShapeIdValid(world *b2World, id B2ShapeId) bool {
	if world == nil || world.revision != id.WorldRevision {
		return false
	}
	return world.shapes.Valid(id.Index1-1, id.Revision)
}

func b2GetShape(world *b2World, shapeId B2ShapeId) *b2Shape {
	B2Assert(b2IsShapeIdValid(world, shapeId))
	return world.shapes.Get(shapeId.Index1 - 1)
}

func b2GetMutableShape(shapeId B2ShapeId) (*b2World, *b2Shape, error) {
	world := b2GetWorld(shapeId.World0)
	if world == nil {
		return nil, nil, fmt.Errorf("shape %d: %w", shapeId.Index1, ErrInvalidId)
	}

	if world.locked {
		return nil, nil, ErrWorldLocked
	}

	if b2IsShapeIdValid(world, shapeId) == false {
		return nil, nil, fmt.Errorf("shape %d: %w", shapeId.Index1, ErrInvalidId)
	}

	return world, world.shapes.Get(shapeId.Index1 - 1), nil
}

///////////////////////////////////////////////////////////////////////////////
// Geometry dispatch
///////////////////////////////////////////////////////////////////////////////

func b2ComputeShapeAABB(shape *b2Shape, xf B2Transform) B2AABB {
	switch shape.Type {
	case B2ShapeType.E_capsuleShape:
		return B2ComputeCapsuleAABB(shape.Capsule, xf)
	case B2ShapeType.E_circleShape:
		return B2ComputeCircleAABB(shape.Circle, xf)
	case B2ShapeType.E_polygonShape:
		return B2ComputePolygonAABB(shape.Polygon, xf)
	case B2ShapeType.E_segmentShape:
		return B2ComputeSegmentAABB(shape.Segment, xf)
	case B2ShapeType.E_smoothSegmentShape:
		return B2ComputeSmoothSegmentAABB(shape.SmoothSegment, xf)
	default:
		B2Assert(false)
		return MakeB2AABB(xf.P, xf.P)
	}
}

func b2GetShapeCentroid(shape *b2Shape) B2Vec2 {
	switch shape.Type {
	case B2ShapeType.E_capsuleShape:
		return B2Vec2Lerp(shape.Capsule.Center1, shape.Capsule.Center2, 0.5)
	case B2ShapeType.E_circleShape:
		return shape.Circle.Center
	case B2ShapeType.E_polygonShape:
		return shape.Polygon.Centroid
	case B2ShapeType.E_segmentShape:
		return B2Vec2Lerp(shape.Segment.Point1, shape.Segment.Point2, 0.5)
	case B2ShapeType.E_smoothSegmentShape:
		return B2Vec2Lerp(shape.SmoothSegment.Segment.Point1, shape.SmoothSegment.Segment.Point2, 0.5)
	default:
		return B2Vec2_zero
	}
}

func b2ComputeShapeMass(shape *b2Shape) B2MassData {
	switch shape.Type {
	case B2ShapeType.E_capsuleShape:
		return B2ComputeCapsuleMass(shape.Capsule, shape.Density)
	case B2ShapeType.E_circleShape:
		return B2ComputeCircleMass(shape.Circle, shape.Density)
	case B2ShapeType.E_polygonShape:
		return B2ComputePolygonMass(shape.Polygon, shape.Density)
	default:
		return B2MassData{}
	}
}

// Inner and outer radius about the body center of mass.
func b2ComputeShapeExtent(shape *b2Shape, localCenter B2Vec2) b2ShapeExtent {
	var extent b2ShapeExtent

	switch shape.Type {
	case B2ShapeType.E_capsuleShape:
		radius := shape.Capsule.Radius
		extent.MinExtent = radius
		c1 := B2Vec2Sub(shape.Capsule.Center1, localCenter)
		c2 := B2Vec2Sub(shape.Capsule.Center2, localCenter)
		extent.MaxExtent = math.Sqrt(math.Max(c1.LengthSquared(), c2.LengthSquared())) + radius

	case B2ShapeType.E_circleShape:
		radius := shape.Circle.Radius
		extent.MinExtent = radius
		extent.MaxExtent = B2Vec2Sub(shape.Circle.Center, localCenter).Length() + radius

	case B2ShapeType.E_polygonShape:
		poly := &shape.Polygon
		minExtent := B2_huge
		for i := 0; i < poly.Count; i++ {
			planeOffset := B2Vec2Dot(poly.Normals[i], B2Vec2Sub(poly.Vertices[i], poly.Centroid))
			minExtent = math.Min(minExtent, planeOffset)
		}
		extent.MinExtent = minExtent + poly.Radius
		extent.MaxExtent = b2ComputePolygonExtent(*poly, localCenter)

	case B2ShapeType.E_segmentShape:
		extent.MinExtent = 0.0
		c1 := B2Vec2Sub(shape.Segment.Point1, localCenter)
		c2 := B2Vec2Sub(shape.Segment.Point2, localCenter)
		extent.MaxExtent = math.Sqrt(math.Max(c1.LengthSquared(), c2.LengthSquared()))

	case B2ShapeType.E_smoothSegmentShape:
		extent.MinExtent = 0.0
		c1 := B2Vec2Sub(shape.SmoothSegment.Segment.Point1, localCenter)
		c2 := B2Vec2Sub(shape.SmoothSegment.Segment.Point2, localCenter)
		extent.MaxExtent = math.Sqrt(math.Max(c1.LengthSquared(), c2.LengthSquared()))
	}

	return extent
}

func b2MakeShapeDistanceProxy(shape *b2Shape) B2DistanceProxy {
	switch shape.Type {
	case B2ShapeType.E_capsuleShape:
		return B2MakeProxy([]B2Vec2{shape.Capsule.Center1, shape.Capsule.Center2}, shape.Capsule.Radius)
	case B2ShapeType.E_circleShape:
		return B2MakeProxy([]B2Vec2{shape.Circle.Center}, shape.Circle.Radius)
	case B2ShapeType.E_polygonShape:
		return B2MakeProxy(shape.Polygon.Vertices[:shape.Polygon.Count], shape.Polygon.Radius)
	case B2ShapeType.E_segmentShape:
		return B2MakeProxy([]B2Vec2{shape.Segment.Point1, shape.Segment.Point2}, 0.0)
	case B2ShapeType.E_smoothSegmentShape:
		return B2MakeProxy([]B2Vec2{shape.SmoothSegment.Segment.Point1, shape.SmoothSegment.Segment.Point2}, 0.0)
	default:
		B2Assert(false)
		return B2DistanceProxy{}
	}
}

// Ray cast in world space against a shape with the given transform.
func b2RayCastShape(input B2RayCastInput, shape *b2Shape, xf B2Transform) B2CastOutput {
	localInput := input
	localInput.Origin = B2TransformVec2MulT(xf, input.Origin)
	localInput.Translation = B2RotVec2MulT(xf.Q, input.Translation)

	var output B2CastOutput
	switch shape.Type {
	case B2ShapeType.E_capsuleShape:
		output = B2RayCastCapsule(localInput, shape.Capsule)
	case B2ShapeType.E_circleShape:
		output = B2RayCastCircle(localInput, shape.Circle)
	case B2ShapeType.E_polygonShape:
		output = B2RayCastPolygon(localInput, shape.Polygon)
	case B2ShapeType.E_segmentShape:
		output = B2RayCastSegment(localInput, shape.Segment, false)
	case B2ShapeType.E_smoothSegmentShape:
		output = B2RayCastSmoothSegment(localInput, shape.SmoothSegment)
	default:
		return output
	}

	output.Point = B2TransformVec2Mul(xf, output.Point)
	output.Normal = B2RotVec2Mul(xf.Q, output.Normal)
	return output
}

// Shape cast in world space against a shape with the given transform.
func b2ShapeCastShape(input B2ShapeCastInput, shape *b2Shape, xf B2Transform) B2CastOutput {
	localInput := input
	for i := 0; i < localInput.Count; i++ {
		localInput.Points[i] = B2TransformVec2MulT(xf, input.Points[i])
	}
	localInput.Translation = B2RotVec2MulT(xf.Q, input.Translation)

	var output B2CastOutput
	switch shape.Type {
	case B2ShapeType.E_capsuleShape:
		output = B2ShapeCastCapsule(localInput, shape.Capsule)
	case B2ShapeType.E_circleShape:
		output = B2ShapeCastCircle(localInput, shape.Circle)
	case B2ShapeType.E_polygonShape:
		output = B2ShapeCastPolygon(localInput, shape.Polygon)
	case B2ShapeType.E_segmentShape:
		output = B2ShapeCastSegment(localInput, shape.Segment)
	case B2ShapeType.E_smoothSegmentShape:
		output = B2ShapeCastSegment(localInput, shape.SmoothSegment.Segment)
	default:
		return output
	}

	output.Point = B2TransformVec2Mul(xf, output.Point)
	output.Normal = B2RotVec2Mul(xf.Q, output.Normal)
	return output
}

///////////////////////////////////////////////////////////////////////////////
// Broad-phase proxies
///////////////////////////////////////////////////////////////////////////////

func b2CreateShapeProxy(shape *b2Shape, bp *B2BroadPhase, bodyType uint8, transform B2Transform, forcePairCreation bool) {
	B2Assert(shape.ProxyKey == B2_nullIndex)

	// Create proxies in the broad-phase.
	shape.AABB = b2ComputeShapeAABB(shape, transform)

	// Smaller margin for static nodes that move infrequently
	margin := B2_aabbMargin
	if bodyType == B2BodyType.E_staticBody {
		margin = B2_speculativeDistance
	}

	shape.FatAABB = MakeB2AABB(
		MakeB2Vec2(shape.AABB.LowerBound.X-margin, shape.AABB.LowerBound.Y-margin),
		MakeB2Vec2(shape.AABB.UpperBound.X+margin, shape.AABB.UpperBound.Y+margin),
	)

	shape.ProxyKey = bp.CreateProxy(shape.FatAABB, shape.Filter.CategoryBits, shape.Id, bodyType, forcePairCreation)
	B2Assert(B2ProxyType(shape.ProxyKey) < B2_bodyTypeCount)
}

func b2DestroyShapeProxy(shape *b2Shape, bp *B2BroadPhase) {
	if shape.ProxyKey != B2_nullIndex {
		bp.DestroyProxy(shape.ProxyKey)
		shape.ProxyKey = B2_nullIndex
	}
}

// Destroy the contacts of a shape and refresh its proxy so new pairs are found.
func b2ResetProxy(world *b2World, shape *b2Shape, wakeBodies bool, destroyProxy bool) {
	body := world.bodies.Get(shape.BodyId)
	shapeId := shape.Id

	contactKey := body.HeadContactKey
	for contactKey != B2_nullIndex {
		contactId := contactKey >> 1
		edgeIndex := contactKey & 1

		contact := world.contacts.Get(contactId)
		contactKey = contact.Edges[edgeIndex].NextKey

		if contact.ShapeIdA == shapeId || contact.ShapeIdB == shapeId {
			b2DestroyContact(world, contact, wakeBodies)
		}
	}

	if shape.ProxyKey == B2_nullIndex {
		return
	}

	proxyType := B2ProxyType(shape.ProxyKey)
	if destroyProxy {
		b2DestroyShapeProxy(shape, &world.broadPhase)
		forcePairCreation := true
		b2CreateShapeProxy(shape, &world.broadPhase, proxyType, body.Transform, forcePairCreation)
	} else {
		world.broadPhase.BufferMove(shape.ProxyKey)
	}
}

///////////////////////////////////////////////////////////////////////////////
// Lifetime
///////////////////////////////////////////////////////////////////////////////

func b2CreateShapeInternal(world *b2World, body *b2Body, transform B2Transform, def *B2ShapeDef, shapeType uint8, setGeometry func(shape *b2Shape)) *b2Shape {
	shapeId, _ := world.shapes.Allocate()
	shape := world.shapes.Get(shapeId)

	*shape = b2Shape{
		Id:                    shapeId,
		BodyId:                body.Id,
		PrevShapeId:           B2_nullIndex,
		NextShapeId:           B2_nullIndex,
		Type:                  shapeType,
		Density:               def.Density,
		Friction:              def.Friction,
		Restitution:           def.Restitution,
		ProxyKey:              B2_nullIndex,
		Filter:                def.Filter,
		UserData:              def.UserData,
		IsSensor:              def.IsSensor,
		EnableSensorEvents:    def.EnableSensorEvents,
		EnableContactEvents:   def.EnableContactEvents,
		EnableHitEvents:       def.EnableHitEvents,
		EnablePreSolveEvents:  def.EnablePreSolveEvents,
		EnableCustomFiltering: def.EnableCustomFiltering,
	}
	setGeometry(shape)
	shape.LocalCentroid = b2GetShapeCentroid(shape)

	if body.IsEnabled {
		forcePairCreation := def.ForceContactCreation || def.IsSensor
		b2CreateShapeProxy(shape, &world.broadPhase, body.Type, transform, forcePairCreation)
	} else {
		shape.AABB = b2ComputeShapeAABB(shape, transform)
		shape.FatAABB = shape.AABB
	}

	// Add to shape doubly linked list
	if body.HeadShapeId != B2_nullIndex {
		headShape := world.shapes.Get(body.HeadShapeId)
		headShape.PrevShapeId = shapeId
	}

	shape.NextShapeId = body.HeadShapeId
	body.HeadShapeId = shapeId
	body.ShapeCount += 1

	return shape
}

func b2CreateShape(bodyId B2BodyId, def *B2ShapeDef, shapeType uint8, setGeometry func(shape *b2Shape)) (B2ShapeId, error) {
	world, body, err := b2GetMutableBody(bodyId)
	if err != nil {
		return B2_nullShapeId, err
	}

	if B2IsValid(def.Density) == false || def.Density < 0.0 || B2IsValid(def.Friction) == false || def.Friction < 0.0 ||
		B2IsValid(def.Restitution) == false || def.Restitution < 0.0 {
		return B2_nullShapeId, fmt.Errorf("shape def: %w", ErrInvalidDef)
	}

	shape := b2CreateShapeInternal(world, body, body.Transform, def, shapeType, setGeometry)

	if body.AutomaticMass {
		b2UpdateBodyMassData(world, body)
	}

	return b2MakeShapeId(world, shape.Id), nil
}

/// Create a circle shape and attach it to a body. The shape definition and geometry are fully cloned.
/// Contacts are not created until the next time step.
///	@return the shape id for accessing the shape
func B2CreateCircleShape(bodyId B2BodyId, def *B2ShapeDef, circle *B2Circle) (B2ShapeId, error) {
	if circle.Center.IsValid() == false || B2IsValid(circle.Radius) == false || circle.Radius <= 0.0 {
		return B2_nullShapeId, fmt.Errorf("circle: %w", ErrDegenerateGeometry)
	}
	return b2CreateShape(bodyId, def, B2ShapeType.E_circleShape, func(shape *b2Shape) { shape.Circle = *circle })
}

/// Create a capsule shape and attach it to a body. A capsule with nearly coincident
/// centers is created as a circle.
func B2CreateCapsuleShape(bodyId B2BodyId, def *B2ShapeDef, capsule *B2Capsule) (B2ShapeId, error) {
	if B2IsValid(capsule.Radius) == false || capsule.Radius <= 0.0 {
		return B2_nullShapeId, fmt.Errorf("capsule: %w", ErrDegenerateGeometry)
	}

	lengthSqr := B2Vec2DistanceSquared(capsule.Center1, capsule.Center2)
	if lengthSqr <= B2_linearSlop*B2_linearSlop {
		circle := B2Circle{Center: B2Vec2Lerp(capsule.Center1, capsule.Center2, 0.5), Radius: capsule.Radius}
		return B2CreateCircleShape(bodyId, def, &circle)
	}

	return b2CreateShape(bodyId, def, B2ShapeType.E_capsuleShape, func(shape *b2Shape) { shape.Capsule = *capsule })
}

/// Create a polygon shape and attach it to a body.
func B2CreatePolygonShape(bodyId B2BodyId, def *B2ShapeDef, polygon *B2Polygon) (B2ShapeId, error) {
	if B2IsValid(polygon.Radius) == false || polygon.Radius < 0.0 || polygon.Count < 3 {
		return B2_nullShapeId, fmt.Errorf("polygon: %w", ErrDegenerateGeometry)
	}
	return b2CreateShape(bodyId, def, B2ShapeType.E_polygonShape, func(shape *b2Shape) { shape.Polygon = *polygon })
}

/// Create a line segment shape and attach it to a body.
func B2CreateSegmentShape(bodyId B2BodyId, def *B2ShapeDef, segment *B2Segment) (B2ShapeId, error) {
	lengthSqr := B2Vec2DistanceSquared(segment.Point1, segment.Point2)
	if lengthSqr <= B2_linearSlop*B2_linearSlop {
		return B2_nullShapeId, fmt.Errorf("segment: %w", ErrDegenerateGeometry)
	}
	return b2CreateShape(bodyId, def, B2ShapeType.E_segmentShape, func(shape *b2Shape) { shape.Segment = *segment })
}

// Unlink the shape from its body, destroy its contacts and proxy and free it.
func b2DestroyShapeInternal(world *b2World, shape *b2Shape, body *b2Body, wakeBodies bool) {
	shapeId := shape.Id

	// Remove the shape from the body's doubly linked list.
	if shape.PrevShapeId != B2_nullIndex {
		world.shapes.Get(shape.PrevShapeId).NextShapeId = shape.NextShapeId
	}

	if shape.NextShapeId != B2_nullIndex {
		world.shapes.Get(shape.NextShapeId).PrevShapeId = shape.PrevShapeId
	}

	if shapeId == body.HeadShapeId {
		body.HeadShapeId = shape.NextShapeId
	}

	body.ShapeCount -= 1

	// Remove from broad-phase.
	b2DestroyShapeProxy(shape, &world.broadPhase)

	// Destroy any contacts associated with the shape.
	contactKey := body.HeadContactKey
	for contactKey != B2_nullIndex {
		contactId := contactKey >> 1
		edgeIndex := contactKey & 1

		contact := world.contacts.Get(contactId)
		contactKey = contact.Edges[edgeIndex].NextKey

		if contact.ShapeIdA == shapeId || contact.ShapeIdB == shapeId {
			b2DestroyContact(world, contact, wakeBodies)
		}
	}

	world.shapes.Free(shapeId)
}

/// Destroy a shape
func B2DestroyShape(shapeId B2ShapeId) error {
	world, shape, err := b2GetMutableShape(shapeId)
	if err != nil {
		return err
	}

	if shape.Type == B2ShapeType.E_smoothSegmentShape {
		return fmt.Errorf("shape %d is owned by a chain: %w", shapeId.Index1, ErrInvalidId)
	}

	// Need to wake bodies because this might be a static body
	wakeBodies := true

	body := world.bodies.Get(shape.BodyId)
	b2DestroyShapeInternal(world, shape, body, wakeBodies)

	if body.AutomaticMass {
		b2UpdateBodyMassData(world, body)
	}

	return nil
}

/// Shape identifier validation. Provides validation for up to 64K allocations.
func B2Shape_IsValid(id B2ShapeId) bool {
	return b2IsShapeIdValid(b2GetWorld(id.World0), id)
}

///////////////////////////////////////////////////////////////////////////////
// Shape API
///////////////////////////////////////////////////////////////////////////////

/// Get the type of a shape
func B2Shape_GetType(shapeId B2ShapeId) uint8 {
	world := b2GetWorld(shapeId.World0)
	return b2GetShape(world, shapeId).Type
}

/// Get the id of the body that a shape is attached to
func B2Shape_GetBody(shapeId B2ShapeId) B2BodyId {
	world := b2GetWorld(shapeId.World0)
	return b2MakeBodyId(world, b2GetShape(world, shapeId).BodyId)
}

/// Set the user data for a shape
func B2Shape_SetUserData(shapeId B2ShapeId, userData any) {
	world := b2GetWorld(shapeId.World0)
	b2GetShape(world, shapeId).UserData = userData
}

/// Get the user data for a shape. This is useful when you get a shape id
/// from an event or query.
func B2Shape_GetUserData(shapeId B2ShapeId) any {
	world := b2GetWorld(shapeId.World0)
	return b2GetShape(world, shapeId).UserData
}

/// Returns true If the shape is a sensor
func B2Shape_IsSensor(shapeId B2ShapeId) bool {
	world := b2GetWorld(shapeId.World0)
	return b2GetShape(world, shapeId).IsSensor
}

/// Test a point for overlap with a shape
func B2Shape_TestPoint(shapeId B2ShapeId, point B2Vec2) bool {
	world := b2GetWorld(shapeId.World0)
	shape := b2GetShape(world, shapeId)

	transform := b2GetBodyTransform(world, shape.BodyId)
	localPoint := B2TransformVec2MulT(transform, point)

	switch shape.Type {
	case B2ShapeType.E_capsuleShape:
		return B2PointInCapsule(localPoint, shape.Capsule)
	case B2ShapeType.E_circleShape:
		return B2PointInCircle(localPoint, shape.Circle)
	case B2ShapeType.E_polygonShape:
		return B2PointInPolygon(localPoint, shape.Polygon)
	default:
		return false
	}
}

/// Ray cast a shape directly
func B2Shape_RayCast(shapeId B2ShapeId, origin B2Vec2, translation B2Vec2) B2CastOutput {
	world := b2GetWorld(shapeId.World0)
	shape := b2GetShape(world, shapeId)

	transform := b2GetBodyTransform(world, shape.BodyId)
	input := MakeB2RayCastInput(origin, translation, 1.0)
	return b2RayCastShape(input, shape, transform)
}

/// Set the mass density of a shape, typically in kg/m^2.
/// This will not update the mass properties on the parent body.
func B2Shape_SetDensity(shapeId B2ShapeId, density float64) error {
	_, shape, err := b2GetMutableShape(shapeId)
	if err != nil {
		return err
	}

	if B2IsValid(density) == false || density < 0.0 {
		return fmt.Errorf("density: %w", ErrInvalidDef)
	}

	shape.Density = density
	return nil
}

/// Get the density of a shape, typically in kg/m^2
func B2Shape_GetDensity(shapeId B2ShapeId) float64 {
	world := b2GetWorld(shapeId.World0)
	return b2GetShape(world, shapeId).Density
}

/// Set the friction on a shape
func B2Shape_SetFriction(shapeId B2ShapeId, friction float64) error {
	_, shape, err := b2GetMutableShape(shapeId)
	if err != nil {
		return err
	}

	if B2IsValid(friction) == false || friction < 0.0 {
		return fmt.Errorf("friction: %w", ErrInvalidDef)
	}

	shape.Friction = friction
	return nil
}

/// Get the friction of a shape
func B2Shape_GetFriction(shapeId B2ShapeId) float64 {
	world := b2GetWorld(shapeId.World0)
	return b2GetShape(world, shapeId).Friction
}

/// Set the shape restitution (bounciness)
func B2Shape_SetRestitution(shapeId B2ShapeId, restitution float64) error {
	_, shape, err := b2GetMutableShape(shapeId)
	if err != nil {
		return err
	}

	if B2IsValid(restitution) == false || restitution < 0.0 {
		return fmt.Errorf("restitution: %w", ErrInvalidDef)
	}

	shape.Restitution = restitution
	return nil
}

/// Get the shape restitution
func B2Shape_GetRestitution(shapeId B2ShapeId) float64 {
	world := b2GetWorld(shapeId.World0)
	return b2GetShape(world, shapeId).Restitution
}

/// Get the shape filter
func B2Shape_GetFilter(shapeId B2ShapeId) B2Filter {
	world := b2GetWorld(shapeId.World0)
	return b2GetShape(world, shapeId).Filter
}

/// Set the current filter. This is almost as expensive as recreating the shape.
func B2Shape_SetFilter(shapeId B2ShapeId, filter B2Filter) error {
	world, shape, err := b2GetMutableShape(shapeId)
	if err != nil {
		return err
	}

	if filter.MaskBits == shape.Filter.MaskBits && filter.CategoryBits == shape.Filter.CategoryBits &&
		filter.GroupIndex == shape.Filter.GroupIndex {
		return nil
	}

	// If the category bits change, I need to destroy the proxy because it affects the tree sorting.
	destroyProxy := filter.CategoryBits != shape.Filter.CategoryBits

	shape.Filter = filter

	// need to wake bodies because a filter change may destroy contacts
	wakeBodies := true
	b2ResetProxy(world, shape, wakeBodies, destroyProxy)
	return nil
}

/// Enable sensor events for this shape. Only applies to kinematic and dynamic bodies. Ignored for sensors.
func B2Shape_EnableSensorEvents(shapeId B2ShapeId, flag bool) error {
	_, shape, err := b2GetMutableShape(shapeId)
	if err != nil {
		return err
	}

	shape.EnableSensorEvents = flag
	return nil
}

/// Returns true if sensor events are enabled
func B2Shape_AreSensorEventsEnabled(shapeId B2ShapeId) bool {
	world := b2GetWorld(shapeId.World0)
	return b2GetShape(world, shapeId).EnableSensorEvents
}

/// Enable contact events for this shape. Only applies to kinematic and dynamic bodies. Ignored for sensors.
func B2Shape_EnableContactEvents(shapeId B2ShapeId, flag bool) error {
	_, shape, err := b2GetMutableShape(shapeId)
	if err != nil {
		return err
	}

	shape.EnableContactEvents = flag
	return nil
}

/// Returns true if contact events are enabled
func B2Shape_AreContactEventsEnabled(shapeId B2ShapeId) bool {
	world := b2GetWorld(shapeId.World0)
	return b2GetShape(world, shapeId).EnableContactEvents
}

/// Enable pre-solve contact events for this shape. Only applies to dynamic bodies. These are expensive
/// and must be carefully handled due to multithreading. Ignored for sensors.
func B2Shape_EnablePreSolveEvents(shapeId B2ShapeId, flag bool) error {
	_, shape, err := b2GetMutableShape(shapeId)
	if err != nil {
		return err
	}

	shape.EnablePreSolveEvents = flag
	return nil
}

/// Returns true if pre-solve events are enabled
func B2Shape_ArePreSolveEventsEnabled(shapeId B2ShapeId) bool {
	world := b2GetWorld(shapeId.World0)
	return b2GetShape(world, shapeId).EnablePreSolveEvents
}

/// Enable contact hit events for this shape. Ignored for sensors.
func B2Shape_EnableHitEvents(shapeId B2ShapeId, flag bool) error {
	_, shape, err := b2GetMutableShape(shapeId)
	if err != nil {
		return err
	}

	shape.EnableHitEvents = flag
	return nil
}

/// Returns true if hit events are enabled
func B2Shape_AreHitEventsEnabled(shapeId B2ShapeId) bool {
	world := b2GetWorld(shapeId.World0)
	return b2GetShape(world, shapeId).EnableHitEvents
}

/// Get a copy of the shape's circle. Asserts the type is correct.
func B2Shape_GetCircle(shapeId B2ShapeId) B2Circle {
	world := b2GetWorld(shapeId.World0)
	shape := b2GetShape(world, shapeId)
	B2Assert(shape.Type == B2ShapeType.E_circleShape)
	return shape.Circle
}

/// Get a copy of the shape's line segment. Asserts the type is correct.
func B2Shape_GetSegment(shapeId B2ShapeId) B2Segment {
	world := b2GetWorld(shapeId.World0)
	shape := b2GetShape(world, shapeId)
	B2Assert(shape.Type == B2ShapeType.E_segmentShape)
	return shape.Segment
}

/// Get a copy of the shape's smooth line segment. These come from chain shapes.
/// Asserts the type is correct.
func B2Shape_GetSmoothSegment(shapeId B2ShapeId) B2SmoothSegment {
	world := b2GetWorld(shapeId.World0)
	shape := b2GetShape(world, shapeId)
	B2Assert(shape.Type == B2ShapeType.E_smoothSegmentShape)
	return shape.SmoothSegment
}

/// Get a copy of the shape's capsule. Asserts the type is correct.
func B2Shape_GetCapsule(shapeId B2ShapeId) B2Capsule {
	world := b2GetWorld(shapeId.World0)
	shape := b2GetShape(world, shapeId)
	B2Assert(shape.Type == B2ShapeType.E_capsuleShape)
	return shape.Capsule
}

/// Get a copy of the shape's convex polygon. Asserts the type is correct.
func B2Shape_GetPolygon(shapeId B2ShapeId) B2Polygon {
	world := b2GetWorld(shapeId.World0)
	shape := b2GetShape(world, shapeId)
	B2Assert(shape.Type == B2ShapeType.E_polygonShape)
	return shape.Polygon
}

func b2SetShapeGeometry(shapeId B2ShapeId, shapeType uint8, setGeometry func(shape *b2Shape)) error {
	world, shape, err := b2GetMutableShape(shapeId)
	if err != nil {
		return err
	}

	if shape.Type == B2ShapeType.E_smoothSegmentShape {
		return fmt.Errorf("shape %d is owned by a chain: %w", shapeId.Index1, ErrInvalidId)
	}

	shape.Type = shapeType
	setGeometry(shape)
	shape.LocalCentroid = b2GetShapeCentroid(shape)

	// need to wake bodies so they can react to the shape change
	wakeBodies := true
	destroyProxy := true
	b2ResetProxy(world, shape, wakeBodies, destroyProxy)

	body := world.bodies.Get(shape.BodyId)
	if body.AutomaticMass {
		b2UpdateBodyMassData(world, body)
	}
	return nil
}

/// Allows you to change a shape to be a circle or update the current circle.
/// This does not modify the mass properties.
func B2Shape_SetCircle(shapeId B2ShapeId, circle B2Circle) error {
	return b2SetShapeGeometry(shapeId, B2ShapeType.E_circleShape, func(shape *b2Shape) { shape.Circle = circle })
}

/// Allows you to change a shape to be a capsule or update the current capsule.
func B2Shape_SetCapsule(shapeId B2ShapeId, capsule B2Capsule) error {
	return b2SetShapeGeometry(shapeId, B2ShapeType.E_capsuleShape, func(shape *b2Shape) { shape.Capsule = capsule })
}

/// Allows you to change a shape to be a segment or update the current segment.
func B2Shape_SetSegment(shapeId B2ShapeId, segment B2Segment) error {
	return b2SetShapeGeometry(shapeId, B2ShapeType.E_segmentShape, func(shape *b2Shape) { shape.Segment = segment })
}

/// Allows you to change a shape to be a polygon or update the current polygon.
func B2Shape_SetPolygon(shapeId B2ShapeId, polygon B2Polygon) error {
	return b2SetShapeGeometry(shapeId, B2ShapeType.E_polygonShape, func(shape *b2Shape) { shape.Polygon = polygon })
}

/// Get the parent chain id if the shape type is a smooth segment, otherwise
/// returns the null id.
func B2Shape_GetParentChain(shapeId B2ShapeId) B2ChainId {
	world := b2GetWorld(shapeId.World0)
	shape := b2GetShape(world, shapeId)
	if shape.Type == B2ShapeType.E_smoothSegmentShape && shape.SmoothSegment.ChainId != B2_nullIndex {
		return b2MakeChainId(world, shape.SmoothSegment.ChainId)
	}
	return B2_nullChainId
}

/// Get the maximum capacity required for retrieving all the touching contacts on a shape
func B2Shape_GetContactCapacity(shapeId B2ShapeId) int {
	world := b2GetWorld(shapeId.World0)
	shape := b2GetShape(world, shapeId)
	if shape.IsSensor {
		return 0
	}

	// Conservative and fast
	return world.bodies.Get(shape.BodyId).ContactCount
}

/// Get the touching contact data for a shape. The provided shapeId will be either shapeIdA or shapeIdB on the contact data.
func B2Shape_GetContactData(shapeId B2ShapeId) []B2ContactData {
	world := b2GetWorld(shapeId.World0)
	shape := b2GetShape(world, shapeId)
	if shape.IsSensor {
		return nil
	}

	body := world.bodies.Get(shape.BodyId)

	var contactData []B2ContactData
	contactKey := body.HeadContactKey
	for contactKey != B2_nullIndex {
		contactId := contactKey >> 1
		edgeIndex := contactKey & 1
		contact := world.contacts.Get(contactId)

		// Does contact involve this shape and is it touching?
		if (contact.ShapeIdA == shape.Id || contact.ShapeIdB == shape.Id) &&
			contact.Flags&B2ContactFlags.E_touchingFlag != 0 {
			contactData = append(contactData, B2ContactData{
				ShapeIdA: b2MakeShapeId(world, contact.ShapeIdA),
				ShapeIdB: b2MakeShapeId(world, contact.ShapeIdB),
				Manifold: contact.Manifold,
			})
		}

		contactKey = contact.Edges[edgeIndex].NextKey
	}

	return contactData
}

/// Get the current world AABB
func B2Shape_GetAABB(shapeId B2ShapeId) B2AABB {
	world := b2GetWorld(shapeId.World0)
	return b2GetShape(world, shapeId).AABB
}

/// Get the closest point on a shape to a target point. Target and result are in world space.
func B2Shape_GetClosestPoint(shapeId B2ShapeId, target B2Vec2) B2Vec2 {
	world := b2GetWorld(shapeId.World0)
	shape := b2GetShape(world, shapeId)
	transform := b2GetBodyTransform(world, shape.BodyId)

	input := B2DistanceInput{
		ProxyA:     b2MakeShapeDistanceProxy(shape),
		ProxyB:     B2MakeProxy([]B2Vec2{target}, 0.0),
		TransformA: transform,
		TransformB: B2Transform_identity,
		UseRadii:   true,
	}

	cache := B2DistanceCache{}
	output := B2ShapeDistance(&cache, input, nil)
	return output.PointA
}
