package box2d

import (
	"fmt"
	"math"
)

/// The body type.
/// static: zero mass, zero velocity, may be manually moved
/// kinematic: zero mass, non-zero velocity set by user, moved by solver
/// dynamic: positive mass, non-zero velocity determined by forces, moved by solver
var B2BodyType = struct {
	E_staticBody    uint8
	E_kinematicBody uint8
	E_dynamicBody   uint8
}{
	E_staticBody:    0,
	E_kinematicBody: 1,
	E_dynamicBody:   2,
}

// Number of body types. Also the number of broad-phase trees.
const B2_bodyTypeCount = 3

/// A body definition holds all the data needed to construct a rigid body.
/// You can safely re-use body definitions. Shapes are added to a body after construction.
type B2BodyDef struct {
	/// The body type: static, kinematic, or dynamic.
	Type uint8

	/// The initial world position of the body. Bodies should be created with the desired position.
	/// @note Creating bodies at the origin and then moving them nearly doubles the cost of body creation, especially
	/// if the body is moved after shapes have been added.
	Position B2Vec2

	/// The initial world angle of the body in radians.
	Angle float64

	/// The initial linear velocity of the body's origin. Typically in meters per second.
	LinearVelocity B2Vec2

	/// The initial angular velocity of the body. Radians per second.
	AngularVelocity float64

	/// Linear damping is use to reduce the linear velocity. The damping parameter
	/// can be larger than 1 but the damping effect becomes sensitive to the
	/// time step when the damping parameter is large.
	LinearDamping float64

	/// Angular damping is use to reduce the angular velocity. The damping parameter
	/// can be larger than 1 but the damping effect becomes sensitive to the
	/// time step when the damping parameter is large.
	AngularDamping float64

	/// Scale the gravity applied to this body. Non-dimensional.
	GravityScale float64

	/// Sleep velocity threshold, default 0.05 meter per second
	SleepThreshold float64

	/// Use this to store application specific body data.
	UserData any

	/// Set this flag to false if this body should never fall asleep.
	EnableSleep bool

	/// Is this body initially awake or sleeping?
	IsAwake bool

	/// Should this body be prevented from rotating? Useful for characters.
	FixedRotation bool

	/// Treat this body as high speed object that performs continuous collision detection
	/// against dynamic and kinematic bodies, but not other bullet bodies.
	IsBullet bool

	/// Used to disable a body. A disabled body does not move or collide.
	IsEnabled bool

	/// Automatically compute mass and related properties on this body from shapes.
	/// Triggers whenever a shape is add/removed/changed. Default is true.
	AutomaticMass bool
}

/// Use this to initialize your body definition
func B2DefaultBodyDef() B2BodyDef {
	return B2BodyDef{
		Type:           B2BodyType.E_staticBody,
		GravityScale:   1.0,
		SleepThreshold: 0.05 * B2_lengthUnitsPerMeter,
		EnableSleep:    true,
		IsAwake:        true,
		IsEnabled:      true,
		AutomaticMass:  true,
	}
}

func MakeB2BodyDef() B2BodyDef {
	return B2DefaultBodyDef()
}

// Body mass data cached for the solver. Static and kinematic bodies keep zero mass.
type b2Body struct {
	UserData any

	Type uint8

	// Transform of the body origin
	Transform B2Transform

	// Center of mass position in world space
	Center B2Vec2

	// Previous rotation and center of mass for continuous collision
	Rotation0 B2Rot
	Center0   B2Vec2

	// Location of center of mass relative to the body origin
	LocalCenter B2Vec2

	Force  B2Vec2
	Torque float64

	LinearVelocity  B2Vec2
	AngularVelocity float64

	LinearDamping  float64
	AngularDamping float64
	GravityScale   float64

	Mass    float64
	InvMass float64

	// Rotational inertia about the center of mass.
	Inertia    float64
	InvInertia float64

	MinExtent float64
	MaxExtent float64

	SleepThreshold float64
	SleepTime      float64

	// Doubly-linked lists keyed by contactId<<1|edgeIndex and jointId<<1|edgeIndex
	HeadContactKey int32
	ContactCount   int

	HeadShapeId int32
	ShapeCount  int

	HeadChainId int32

	HeadJointKey int32
	JointCount   int

	// All dynamic bodies are in an island. Static and kinematic bodies are not.
	IslandId   int32
	IslandPrev int32
	IslandNext int32

	// Index into the awake body array, B2_nullIndex when asleep, disabled or static.
	AwakeIndex int32

	// Index of the move event written this step
	BodyMoveIndex int32

	Id int32

	EnableSleep   bool
	FixedRotation bool
	IsBullet      bool
	IsEnabled     bool
	IsFast        bool
	IsSpeedCapped bool
	IsMarked      bool
	AutomaticMass bool
}

///////////////////////////////////////////////////////////////////////////////
// Id helpers
///////////////////////////////////////////////////////////////////////////////

func b2MakeBodyId(world *b2World, bodyId int32) B2BodyId {
	return B2BodyId{Index1: bodyId + 1, World0: world.worldId, WorldRevision: world.revision, Revision: world.bodies.Revision(bodyId)}
}

func b2IsBodyIdValid(world *b2World, id B2BodyId) bool {
	if world == nil || world.revision != id.WorldRevision {
		return false
	}
	return world.bodies.Valid(id.Index1-1, id.Revision)
}

// Getters assert on stale ids.
func b2GetBodyFullId(world *b2World, bodyId B2BodyId) *b2Body {
	B2Assert(b2IsBodyIdValid(world, bodyId))
	return world.bodies.Get(bodyId.Index1 - 1)
}

// Mutators report stale ids and locked worlds as errors.
func b2GetMutableBody(bodyId B2BodyId) (*b2World, *b2Body, error) {
	world := b2GetWorld(bodyId.World0)
	if world == nil {
		return nil, nil, fmt.Errorf("body %d: %w", bodyId.Index1, ErrInvalidId)
	}

	if world.locked {
		return nil, nil, ErrWorldLocked
	}

	if b2IsBodyIdValid(world, bodyId) == false {
		return nil, nil, fmt.Errorf("body %d: %w", bodyId.Index1, ErrInvalidId)
	}

	return world, world.bodies.Get(bodyId.Index1 - 1), nil
}

func b2GetBodyTransform(world *b2World, bodyId int32) B2Transform {
	return world.bodies.Get(bodyId).Transform
}

///////////////////////////////////////////////////////////////////////////////
// Awake set
///////////////////////////////////////////////////////////////////////////////

func (world *b2World) addAwakeBody(body *b2Body) {
	B2Assert(body.AwakeIndex == B2_nullIndex)
	body.AwakeIndex = int32(len(world.awakeBodies))
	world.awakeBodies = append(world.awakeBodies, body.Id)
}

func (world *b2World) removeAwakeBody(body *b2Body) {
	index := body.AwakeIndex
	B2Assert(index != B2_nullIndex)

	last := int32(len(world.awakeBodies) - 1)
	if index != last {
		movedId := world.awakeBodies[last]
		world.awakeBodies[index] = movedId
		world.bodies.Get(movedId).AwakeIndex = index
	}
	world.awakeBodies = world.awakeBodies[:last]
	body.AwakeIndex = B2_nullIndex
}

///////////////////////////////////////////////////////////////////////////////
// Lifetime
///////////////////////////////////////////////////////////////////////////////

/// Create a rigid body given a definition. No reference to the definition is retained. So you can create the definition
/// on the stack and pass it as a pointer.
func B2CreateBody(worldId B2WorldId, def *B2BodyDef) (B2BodyId, error) {
	world := b2GetWorldFromId(worldId)
	if world == nil {
		return B2_nullBodyId, ErrInvalidId
	}

	if world.locked {
		return B2_nullBodyId, ErrWorldLocked
	}

	if def.Position.IsValid() == false || B2IsValid(def.Angle) == false || def.LinearVelocity.IsValid() == false ||
		B2IsValid(def.AngularVelocity) == false || def.LinearDamping < 0.0 || def.AngularDamping < 0.0 ||
		B2IsValid(def.GravityScale) == false || def.Type >= B2_bodyTypeCount {
		return B2_nullBodyId, fmt.Errorf("body def: %w", ErrInvalidDef)
	}

	bodyId, _ := world.bodies.Allocate()
	body := world.bodies.Get(bodyId)

	rotation := MakeB2RotFromAngle(def.Angle)

	*body = b2Body{
		UserData:        def.UserData,
		Type:            def.Type,
		Transform:       MakeB2TransformByPositionAndRotation(def.Position, rotation),
		Center:          def.Position,
		Rotation0:       rotation,
		Center0:         def.Position,
		LinearVelocity:  def.LinearVelocity,
		AngularVelocity: def.AngularVelocity,
		LinearDamping:   def.LinearDamping,
		AngularDamping:  def.AngularDamping,
		GravityScale:    def.GravityScale,
		MinExtent:       B2_huge,
		MaxExtent:       0.0,
		SleepThreshold:  def.SleepThreshold,
		HeadContactKey:  B2_nullIndex,
		HeadShapeId:     B2_nullIndex,
		HeadChainId:     B2_nullIndex,
		HeadJointKey:    B2_nullIndex,
		IslandId:        B2_nullIndex,
		IslandPrev:      B2_nullIndex,
		IslandNext:      B2_nullIndex,
		AwakeIndex:      B2_nullIndex,
		BodyMoveIndex:   B2_nullIndex,
		Id:              bodyId,
		EnableSleep:     def.EnableSleep,
		FixedRotation:   def.FixedRotation,
		IsBullet:        def.IsBullet,
		IsEnabled:       def.IsEnabled,
		AutomaticMass:   def.AutomaticMass,
	}

	if body.IsEnabled && body.Type != B2BodyType.E_staticBody {
		world.addAwakeBody(body)

		if body.Type == B2BodyType.E_dynamicBody {
			b2CreateIslandForBody(world, body)

			if def.IsAwake == false && def.EnableSleep {
				b2TrySleepIsland(world, body.IslandId)
			}
		}
	}

	return b2MakeBodyId(world, bodyId), nil
}

// Destroy every contact attached to the body.
func b2DestroyBodyContacts(world *b2World, body *b2Body, wakeBodies bool) {
	edgeKey := body.HeadContactKey
	for edgeKey != B2_nullIndex {
		contactId := edgeKey >> 1
		edgeIndex := edgeKey & 1

		contact := world.contacts.Get(contactId)
		edgeKey = contact.Edges[edgeIndex].NextKey
		b2DestroyContact(world, contact, wakeBodies)
	}

	B2Assert(body.HeadContactKey == B2_nullIndex)
	B2Assert(body.ContactCount == 0)
}

/// Destroy a rigid body given an id. This destroys all shapes and joints attached to the body.
/// Do not keep references to the associated shapes and joints.
func B2DestroyBody(bodyId B2BodyId) error {
	world, body, err := b2GetMutableBody(bodyId)
	if err != nil {
		return err
	}

	// Wake bodies attached to this body, even if this body is static.
	wakeBodies := true

	// Destroy the attached joints
	edgeKey := body.HeadJointKey
	for edgeKey != B2_nullIndex {
		jointId := edgeKey >> 1
		edgeIndex := edgeKey & 1

		joint := world.joints.Get(jointId)
		edgeKey = joint.Edges[edgeIndex].NextKey

		// Careful because this modifies the list being traversed
		b2DestroyJointInternal(world, joint, wakeBodies)
	}

	// Destroy all contacts attached to this body.
	b2DestroyBodyContacts(world, body, wakeBodies)

	// Destroy the attached shapes and their broad-phase proxies.
	shapeId := body.HeadShapeId
	for shapeId != B2_nullIndex {
		shape := world.shapes.Get(shapeId)
		if shape.ProxyKey != B2_nullIndex {
			b2DestroyShapeProxy(shape, &world.broadPhase)
		}
		shapeId = shape.NextShapeId
		world.shapes.Free(shape.Id)
	}

	// Destroy the attached chains. The associated shapes have already been destroyed above.
	chainId := body.HeadChainId
	for chainId != B2_nullIndex {
		chain := world.chains.Get(chainId)
		chainId = chain.NextChainId
		world.chains.Free(chain.Id)
	}

	b2RemoveBodyFromIsland(world, body)

	if body.AwakeIndex != B2_nullIndex {
		world.removeAwakeBody(body)
	}

	world.bodies.Free(body.Id)
	return nil
}

/// Body identifier validation. Provides validation for up to 64K allocations.
func B2Body_IsValid(id B2BodyId) bool {
	return b2IsBodyIdValid(b2GetWorld(id.World0), id)
}

///////////////////////////////////////////////////////////////////////////////
// Mass
///////////////////////////////////////////////////////////////////////////////

// Recompute mass, center of mass, rotational inertia and extents from the shapes.
func b2UpdateBodyMassData(world *b2World, body *b2Body) {
	body.Mass = 0.0
	body.InvMass = 0.0
	body.Inertia = 0.0
	body.InvInertia = 0.0
	body.LocalCenter = B2Vec2_zero
	body.MinExtent = B2_huge
	body.MaxExtent = 0.0

	// Static and kinematic sims have zero mass.
	if body.Type != B2BodyType.E_dynamicBody {
		body.Center = body.Transform.P
		body.Center0 = body.Center

		// Need extents for kinematic bodies for sleeping to work correctly.
		if body.Type == B2BodyType.E_kinematicBody {
			shapeId := body.HeadShapeId
			for shapeId != B2_nullIndex {
				s := world.shapes.Get(shapeId)
				extent := b2ComputeShapeExtent(s, B2Vec2_zero)
				body.MinExtent = math.Min(body.MinExtent, extent.MinExtent)
				body.MaxExtent = math.Max(body.MaxExtent, extent.MaxExtent)
				shapeId = s.NextShapeId
			}
		}

		return
	}

	// Accumulate mass over all shapes.
	rotationalInertia := 0.0
	localCenter := B2Vec2_zero
	shapeId := body.HeadShapeId
	for shapeId != B2_nullIndex {
		s := world.shapes.Get(shapeId)
		shapeId = s.NextShapeId

		if s.Density == 0.0 {
			continue
		}

		massData := b2ComputeShapeMass(s)
		body.Mass += massData.Mass
		localCenter = B2Vec2MulAdd(localCenter, massData.Mass, massData.Center)
		rotationalInertia += massData.RotationalInertia
	}

	// Compute center of mass.
	if body.Mass > 0.0 {
		body.InvMass = 1.0 / body.Mass
		localCenter = B2Vec2MulScalar(body.InvMass, localCenter)
	}

	if rotationalInertia > 0.0 && body.FixedRotation == false {
		// Center the inertia about the center of mass.
		rotationalInertia -= body.Mass * B2Vec2Dot(localCenter, localCenter)
		B2Assert(rotationalInertia > 0.0)
		body.Inertia = rotationalInertia
		body.InvInertia = 1.0 / rotationalInertia
	} else {
		body.Inertia = 0.0
		body.InvInertia = 0.0
	}

	// Move center of mass.
	oldCenter := body.Center
	body.LocalCenter = localCenter
	body.Center = B2TransformVec2Mul(body.Transform, body.LocalCenter)
	body.Center0 = body.Center

	// Update center of mass velocity.
	deltaLinear := B2Vec2CrossScalarVector(body.AngularVelocity, B2Vec2Sub(body.Center, oldCenter))
	body.LinearVelocity = B2Vec2Add(body.LinearVelocity, deltaLinear)

	// Compute body extents relative to center of mass
	shapeId = body.HeadShapeId
	for shapeId != B2_nullIndex {
		s := world.shapes.Get(shapeId)
		extent := b2ComputeShapeExtent(s, localCenter)
		body.MinExtent = math.Min(body.MinExtent, extent.MinExtent)
		body.MaxExtent = math.Max(body.MaxExtent, extent.MaxExtent)
		shapeId = s.NextShapeId
	}
}

///////////////////////////////////////////////////////////////////////////////
// Waking and filtering
///////////////////////////////////////////////////////////////////////////////

// Wake the island of a sleeping body. Returns true if the body was sleeping.
func b2WakeBody(world *b2World, body *b2Body) bool {
	if body.IslandId == B2_nullIndex {
		return false
	}

	island := world.islands.Get(body.IslandId)
	if island.AwakeIndex != B2_nullIndex {
		return false
	}

	b2WakeIsland(world, body.IslandId)
	return true
}

// Wake the islands touching or jointed to a kinematic body. A kinematic
// body that starts moving must not leave the bodies it rests against asleep.
func b2WakeTouchingIslands(world *b2World, body *b2Body) {
	contactKey := body.HeadContactKey
	for contactKey != B2_nullIndex {
		contactId := contactKey >> 1
		edgeIndex := contactKey & 1
		contact := world.contacts.Get(contactId)
		contactKey = contact.Edges[edgeIndex].NextKey

		if contact.Flags&B2ContactFlags.E_touchingFlag == 0 {
			continue
		}

		other := world.bodies.Get(contact.Edges[edgeIndex^1].BodyId)
		b2WakeBody(world, other)
	}

	jointKey := body.HeadJointKey
	for jointKey != B2_nullIndex {
		jointId := jointKey >> 1
		edgeIndex := jointKey & 1
		joint := world.joints.Get(jointId)
		jointKey = joint.Edges[edgeIndex].NextKey

		other := world.bodies.Get(joint.Edges[edgeIndex^1].BodyId)
		b2WakeBody(world, other)
	}
}

// Joints with collideConnected false prevent contacts between their bodies.
// Walks the shorter joint list.
func b2ShouldBodiesCollide(world *b2World, bodyA *b2Body, bodyB *b2Body) bool {
	if bodyA.Type != B2BodyType.E_dynamicBody && bodyB.Type != B2BodyType.E_dynamicBody {
		return false
	}

	var jointKey int32
	var otherBodyId int32
	if bodyA.JointCount < bodyB.JointCount {
		jointKey = bodyA.HeadJointKey
		otherBodyId = bodyB.Id
	} else {
		jointKey = bodyB.HeadJointKey
		otherBodyId = bodyA.Id
	}

	for jointKey != B2_nullIndex {
		jointId := jointKey >> 1
		edgeIndex := jointKey & 1
		otherEdgeIndex := edgeIndex ^ 1

		joint := world.joints.Get(jointId)
		if joint.CollideConnected == false && joint.Edges[otherEdgeIndex].BodyId == otherBodyId {
			return false
		}

		jointKey = joint.Edges[edgeIndex].NextKey
	}

	return true
}

///////////////////////////////////////////////////////////////////////////////
// Body API
///////////////////////////////////////////////////////////////////////////////

/// Get the body type: static, kinematic, or dynamic
func B2Body_GetType(bodyId B2BodyId) uint8 {
	world := b2GetWorld(bodyId.World0)
	return b2GetBodyFullId(world, bodyId).Type
}

/// Change the body type. This is an expensive operation. This automatically updates the mass
/// properties regardless of the automatic mass setting.
func B2Body_SetType(bodyId B2BodyId, bodyType uint8) error {
	world, body, err := b2GetMutableBody(bodyId)
	if err != nil {
		return err
	}

	if bodyType >= B2_bodyTypeCount {
		return fmt.Errorf("body type %d: %w", bodyType, ErrInvalidDef)
	}

	if body.Type == bodyType {
		return nil
	}

	if body.IsEnabled == false {
		// Disabled bodies are not in the broad-phase or the solver.
		body.Type = bodyType
		b2UpdateBodyMassData(world, body)
		return nil
	}

	// Relink all joints after the type change
	b2DetachBodyJoints(world, body, true)

	// Destroy all contacts and wake touching bodies. New contacts are created
	// from the re-inserted proxies.
	b2DestroyBodyContacts(world, body, true)
	b2WakeBody(world, body)

	b2RemoveBodyFromIsland(world, body)
	if body.AwakeIndex != B2_nullIndex {
		world.removeAwakeBody(body)
	}

	body.Type = bodyType

	// Move the shape proxies into the tree of the new body type
	shapeId := body.HeadShapeId
	for shapeId != B2_nullIndex {
		shape := world.shapes.Get(shapeId)
		shapeId = shape.NextShapeId
		b2DestroyShapeProxy(shape, &world.broadPhase)
		forcePairCreation := true
		b2CreateShapeProxy(shape, &world.broadPhase, bodyType, body.Transform, forcePairCreation)
	}

	if bodyType != B2BodyType.E_staticBody {
		body.SleepTime = 0.0
		world.addAwakeBody(body)
	} else {
		body.LinearVelocity = B2Vec2_zero
		body.AngularVelocity = 0.0
	}

	if bodyType == B2BodyType.E_dynamicBody {
		b2CreateIslandForBody(world, body)
	}

	b2AttachBodyJoints(world, body)
	b2UpdateBodyMassData(world, body)
	return nil
}

/// Set the user data for a body
func B2Body_SetUserData(bodyId B2BodyId, userData any) {
	world := b2GetWorld(bodyId.World0)
	b2GetBodyFullId(world, bodyId).UserData = userData
}

/// Get the user data stored in a body
func B2Body_GetUserData(bodyId B2BodyId) any {
	world := b2GetWorld(bodyId.World0)
	return b2GetBodyFullId(world, bodyId).UserData
}

/// Get the world position of a body. This is the location of the body origin.
func B2Body_GetPosition(bodyId B2BodyId) B2Vec2 {
	world := b2GetWorld(bodyId.World0)
	return b2GetBodyFullId(world, bodyId).Transform.P
}

/// Get the world rotation of a body as a cosine/sine pair (complex number)
func B2Body_GetRotation(bodyId B2BodyId) B2Rot {
	world := b2GetWorld(bodyId.World0)
	return b2GetBodyFullId(world, bodyId).Transform.Q
}

/// Get the body angle in radians in the range [-pi, pi]
func B2Body_GetAngle(bodyId B2BodyId) float64 {
	return B2Body_GetRotation(bodyId).GetAngle()
}

/// Get the world transform of a body.
func B2Body_GetTransform(bodyId B2BodyId) B2Transform {
	world := b2GetWorld(bodyId.World0)
	return b2GetBodyFullId(world, bodyId).Transform
}

/// Set the world transform of a body. This acts as a teleport and is fairly expensive.
/// @note Generally you should create a body with then intended transform.
func B2Body_SetTransform(bodyId B2BodyId, position B2Vec2, angle float64) error {
	world, body, err := b2GetMutableBody(bodyId)
	if err != nil {
		return err
	}

	if position.IsValid() == false || B2IsValid(angle) == false {
		return fmt.Errorf("transform: %w", ErrInvalidDef)
	}

	body.Transform = MakeB2TransformByPositionAndRotation(position, MakeB2RotFromAngle(angle))
	body.Center = B2TransformVec2Mul(body.Transform, body.LocalCenter)
	body.Rotation0 = body.Transform.Q
	body.Center0 = body.Center

	if body.IsEnabled == false {
		return nil
	}

	margin := B2_aabbMargin
	if body.Type == B2BodyType.E_staticBody {
		margin = B2_speculativeDistance
	}

	shapeId := body.HeadShapeId
	for shapeId != B2_nullIndex {
		shape := world.shapes.Get(shapeId)
		aabb := b2ComputeShapeAABB(shape, body.Transform)
		aabb.LowerBound = B2Vec2Sub(aabb.LowerBound, MakeB2Vec2(B2_speculativeDistance, B2_speculativeDistance))
		aabb.UpperBound = B2Vec2Add(aabb.UpperBound, MakeB2Vec2(B2_speculativeDistance, B2_speculativeDistance))
		shape.AABB = aabb

		if shape.FatAABB.Contains(aabb) == false {
			shape.FatAABB = MakeB2AABB(
				B2Vec2Sub(aabb.LowerBound, MakeB2Vec2(margin, margin)),
				B2Vec2Add(aabb.UpperBound, MakeB2Vec2(margin, margin)),
			)

			// They body could be disabled
			if shape.ProxyKey != B2_nullIndex {
				world.broadPhase.MoveProxy(shape.ProxyKey, shape.FatAABB)
			}
		}

		shapeId = shape.NextShapeId
	}

	if body.Type == B2BodyType.E_kinematicBody {
		b2WakeTouchingIslands(world, body)
	}

	return nil
}

/// Get a local point on a body given a world point
func B2Body_GetLocalPoint(bodyId B2BodyId, worldPoint B2Vec2) B2Vec2 {
	return B2TransformVec2MulT(B2Body_GetTransform(bodyId), worldPoint)
}

/// Get a world point on a body given a local point
func B2Body_GetWorldPoint(bodyId B2BodyId, localPoint B2Vec2) B2Vec2 {
	return B2TransformVec2Mul(B2Body_GetTransform(bodyId), localPoint)
}

/// Get a local vector on a body given a world vector
func B2Body_GetLocalVector(bodyId B2BodyId, worldVector B2Vec2) B2Vec2 {
	return B2RotVec2MulT(B2Body_GetRotation(bodyId), worldVector)
}

/// Get a world vector on a body given a local vector
func B2Body_GetWorldVector(bodyId B2BodyId, localVector B2Vec2) B2Vec2 {
	return B2RotVec2Mul(B2Body_GetRotation(bodyId), localVector)
}

/// Get the linear velocity of a body's center of mass. Typically in meters per second.
func B2Body_GetLinearVelocity(bodyId B2BodyId) B2Vec2 {
	world := b2GetWorld(bodyId.World0)
	return b2GetBodyFullId(world, bodyId).LinearVelocity
}

/// Get the angular velocity of a body in radians per second
func B2Body_GetAngularVelocity(bodyId B2BodyId) float64 {
	world := b2GetWorld(bodyId.World0)
	return b2GetBodyFullId(world, bodyId).AngularVelocity
}

/// Set the linear velocity of a body. Typically in meters per second.
func B2Body_SetLinearVelocity(bodyId B2BodyId, linearVelocity B2Vec2) error {
	world, body, err := b2GetMutableBody(bodyId)
	if err != nil {
		return err
	}

	if body.Type == B2BodyType.E_staticBody {
		return nil
	}

	if linearVelocity.LengthSquared() > 0.0 {
		b2WakeBody(world, body)
		if body.Type == B2BodyType.E_kinematicBody {
			b2WakeTouchingIslands(world, body)
		}
	}

	// Sleeping bodies keep zero velocity
	if body.AwakeIndex == B2_nullIndex {
		return nil
	}

	body.LinearVelocity = linearVelocity
	return nil
}

/// Set the angular velocity of a body in radians per second
func B2Body_SetAngularVelocity(bodyId B2BodyId, angularVelocity float64) error {
	world, body, err := b2GetMutableBody(bodyId)
	if err != nil {
		return err
	}

	if body.Type == B2BodyType.E_staticBody || body.FixedRotation {
		return nil
	}

	if angularVelocity != 0.0 {
		b2WakeBody(world, body)
		if body.Type == B2BodyType.E_kinematicBody {
			b2WakeTouchingIslands(world, body)
		}
	}

	if body.AwakeIndex == B2_nullIndex {
		return nil
	}

	body.AngularVelocity = angularVelocity
	return nil
}

/// Apply a force at a world point. If the force is not applied at the center of mass,
/// it will generate a torque and affect the angular velocity. This optionally wakes up the body.
/// The force is ignored if the body is not awake.
func B2Body_ApplyForce(bodyId B2BodyId, force B2Vec2, point B2Vec2, wake bool) error {
	world, body, err := b2GetMutableBody(bodyId)
	if err != nil {
		return err
	}

	if body.Type != B2BodyType.E_dynamicBody {
		return nil
	}

	if wake {
		b2WakeBody(world, body)
	}

	if body.AwakeIndex != B2_nullIndex {
		body.Force = B2Vec2Add(body.Force, force)
		body.Torque += B2Vec2Cross(B2Vec2Sub(point, body.Center), force)
	}
	return nil
}

/// Apply a force to the center of mass. This optionally wakes up the body.
func B2Body_ApplyForceToCenter(bodyId B2BodyId, force B2Vec2, wake bool) error {
	world, body, err := b2GetMutableBody(bodyId)
	if err != nil {
		return err
	}

	if body.Type != B2BodyType.E_dynamicBody {
		return nil
	}

	if wake {
		b2WakeBody(world, body)
	}

	if body.AwakeIndex != B2_nullIndex {
		body.Force = B2Vec2Add(body.Force, force)
	}
	return nil
}

/// Apply a torque. This affects the angular velocity without affecting the linear velocity.
func B2Body_ApplyTorque(bodyId B2BodyId, torque float64, wake bool) error {
	world, body, err := b2GetMutableBody(bodyId)
	if err != nil {
		return err
	}

	if body.Type != B2BodyType.E_dynamicBody {
		return nil
	}

	if wake {
		b2WakeBody(world, body)
	}

	if body.AwakeIndex != B2_nullIndex {
		body.Torque += torque
	}
	return nil
}

/// Apply an impulse at a point. This immediately modifies the velocity.
/// It also modifies the angular velocity if the point of application
/// is not at the center of mass. This optionally wakes the body.
func B2Body_ApplyLinearImpulse(bodyId B2BodyId, impulse B2Vec2, point B2Vec2, wake bool) error {
	world, body, err := b2GetMutableBody(bodyId)
	if err != nil {
		return err
	}

	if body.Type != B2BodyType.E_dynamicBody {
		return nil
	}

	if wake {
		b2WakeBody(world, body)
	}

	if body.AwakeIndex != B2_nullIndex {
		body.LinearVelocity = B2Vec2MulAdd(body.LinearVelocity, body.InvMass, impulse)
		body.AngularVelocity += body.InvInertia * B2Vec2Cross(B2Vec2Sub(point, body.Center), impulse)
	}
	return nil
}

/// Apply an impulse to the center of mass. This immediately modifies the velocity.
func B2Body_ApplyLinearImpulseToCenter(bodyId B2BodyId, impulse B2Vec2, wake bool) error {
	world, body, err := b2GetMutableBody(bodyId)
	if err != nil {
		return err
	}

	if body.Type != B2BodyType.E_dynamicBody {
		return nil
	}

	if wake {
		b2WakeBody(world, body)
	}

	if body.AwakeIndex != B2_nullIndex {
		body.LinearVelocity = B2Vec2MulAdd(body.LinearVelocity, body.InvMass, impulse)
	}
	return nil
}

/// Apply an angular impulse. In units of kg*m*m/s
func B2Body_ApplyAngularImpulse(bodyId B2BodyId, impulse float64, wake bool) error {
	world, body, err := b2GetMutableBody(bodyId)
	if err != nil {
		return err
	}

	if body.Type != B2BodyType.E_dynamicBody {
		return nil
	}

	if wake {
		b2WakeBody(world, body)
	}

	if body.AwakeIndex != B2_nullIndex {
		body.AngularVelocity += body.InvInertia * impulse
	}
	return nil
}

/// Get the mass of the body, typically in kilograms
func B2Body_GetMass(bodyId B2BodyId) float64 {
	world := b2GetWorld(bodyId.World0)
	return b2GetBodyFullId(world, bodyId).Mass
}

/// Get the rotational inertia of the body about the center of mass, typically in kg*m^2
func B2Body_GetRotationalInertia(bodyId B2BodyId) float64 {
	world := b2GetWorld(bodyId.World0)
	return b2GetBodyFullId(world, bodyId).Inertia
}

/// Get the center of mass position of the body in local space
func B2Body_GetLocalCenterOfMass(bodyId B2BodyId) B2Vec2 {
	world := b2GetWorld(bodyId.World0)
	return b2GetBodyFullId(world, bodyId).LocalCenter
}

/// Get the center of mass position of the body in world space
func B2Body_GetWorldCenterOfMass(bodyId B2BodyId) B2Vec2 {
	world := b2GetWorld(bodyId.World0)
	return b2GetBodyFullId(world, bodyId).Center
}

/// Get the mass data for a body. The rotational inertia is about the body origin.
func B2Body_GetMassData(bodyId B2BodyId) B2MassData {
	world := b2GetWorld(bodyId.World0)
	body := b2GetBodyFullId(world, bodyId)
	return B2MassData{
		Mass:              body.Mass,
		Center:            body.LocalCenter,
		RotationalInertia: body.Inertia + body.Mass*B2Vec2Dot(body.LocalCenter, body.LocalCenter),
	}
}

/// Override the body's mass properties. Normally this is computed automatically using the
/// shape geometry and density. This information is lost if a shape is added or removed or if the
/// body type changes. The rotational inertia is about the body origin.
func B2Body_SetMassData(bodyId B2BodyId, massData B2MassData) error {
	_, body, err := b2GetMutableBody(bodyId)
	if err != nil {
		return err
	}

	if B2IsValid(massData.Mass) == false || massData.Mass < 0.0 || massData.Center.IsValid() == false ||
		B2IsValid(massData.RotationalInertia) == false || massData.RotationalInertia < 0.0 {
		return fmt.Errorf("mass data: %w", ErrInvalidDef)
	}

	if body.Type != B2BodyType.E_dynamicBody {
		return nil
	}

	body.Mass = massData.Mass
	body.Inertia = massData.RotationalInertia
	body.LocalCenter = massData.Center

	body.InvMass = 0.0
	if body.Mass > 0.0 {
		body.InvMass = 1.0 / body.Mass
	}

	// Shift the inertia to the center of mass
	body.Inertia -= body.Mass * B2Vec2Dot(body.LocalCenter, body.LocalCenter)
	body.InvInertia = 0.0
	if body.Inertia > 0.0 && body.FixedRotation == false {
		body.InvInertia = 1.0 / body.Inertia
	} else {
		body.Inertia = 0.0
	}

	// Move center of mass.
	oldCenter := body.Center
	body.Center = B2TransformVec2Mul(body.Transform, body.LocalCenter)
	body.Center0 = body.Center

	// Update center of mass velocity.
	deltaLinear := B2Vec2CrossScalarVector(body.AngularVelocity, B2Vec2Sub(body.Center, oldCenter))
	body.LinearVelocity = B2Vec2Add(body.LinearVelocity, deltaLinear)
	return nil
}

/// This update the mass properties to the sum of the mass properties of the shapes.
/// This normally does not need to be called unless you called SetMassData to override
/// the mass and you later want to reset the mass.
/// You may also use this when automatic mass computation has been disabled.
func B2Body_ApplyMassFromShapes(bodyId B2BodyId) error {
	world, body, err := b2GetMutableBody(bodyId)
	if err != nil {
		return err
	}

	b2UpdateBodyMassData(world, body)
	return nil
}

/// Set the automatic mass setting.
func B2Body_SetAutomaticMass(bodyId B2BodyId, automaticMass bool) error {
	_, body, err := b2GetMutableBody(bodyId)
	if err != nil {
		return err
	}

	body.AutomaticMass = automaticMass
	return nil
}

func B2Body_GetAutomaticMass(bodyId B2BodyId) bool {
	world := b2GetWorld(bodyId.World0)
	return b2GetBodyFullId(world, bodyId).AutomaticMass
}

/// Adjust the linear damping. Normally this is set in b2BodyDef before creation.
func B2Body_SetLinearDamping(bodyId B2BodyId, linearDamping float64) error {
	_, body, err := b2GetMutableBody(bodyId)
	if err != nil {
		return err
	}

	if B2IsValid(linearDamping) == false || linearDamping < 0.0 {
		return fmt.Errorf("linear damping: %w", ErrInvalidDef)
	}

	body.LinearDamping = linearDamping
	return nil
}

func B2Body_GetLinearDamping(bodyId B2BodyId) float64 {
	world := b2GetWorld(bodyId.World0)
	return b2GetBodyFullId(world, bodyId).LinearDamping
}

/// Adjust the angular damping. Normally this is set in b2BodyDef before creation.
func B2Body_SetAngularDamping(bodyId B2BodyId, angularDamping float64) error {
	_, body, err := b2GetMutableBody(bodyId)
	if err != nil {
		return err
	}

	if B2IsValid(angularDamping) == false || angularDamping < 0.0 {
		return fmt.Errorf("angular damping: %w", ErrInvalidDef)
	}

	body.AngularDamping = angularDamping
	return nil
}

func B2Body_GetAngularDamping(bodyId B2BodyId) float64 {
	world := b2GetWorld(bodyId.World0)
	return b2GetBodyFullId(world, bodyId).AngularDamping
}

/// Adjust the gravity scale. Normally this is set in b2BodyDef before creation.
func B2Body_SetGravityScale(bodyId B2BodyId, gravityScale float64) error {
	_, body, err := b2GetMutableBody(bodyId)
	if err != nil {
		return err
	}

	if B2IsValid(gravityScale) == false {
		return fmt.Errorf("gravity scale: %w", ErrInvalidDef)
	}

	body.GravityScale = gravityScale
	return nil
}

func B2Body_GetGravityScale(bodyId B2BodyId) float64 {
	world := b2GetWorld(bodyId.World0)
	return b2GetBodyFullId(world, bodyId).GravityScale
}

/// @return true if this body is awake
func B2Body_IsAwake(bodyId B2BodyId) bool {
	world := b2GetWorld(bodyId.World0)
	return b2GetBodyFullId(world, bodyId).AwakeIndex != B2_nullIndex
}

/// Wake a body from sleep. This wakes the entire island the body is touching.
/// @warning Putting a body to sleep will put the entire island of bodies touching this body to sleep,
/// which can be expensive and possibly unintuitive.
func B2Body_SetAwake(bodyId B2BodyId, awake bool) error {
	world, body, err := b2GetMutableBody(bodyId)
	if err != nil {
		return err
	}

	if awake {
		b2WakeBody(world, body)
		return nil
	}

	if body.IslandId == B2_nullIndex || body.AwakeIndex == B2_nullIndex {
		return nil
	}

	island := world.islands.Get(body.IslandId)
	if island.ConstraintRemoveCount > 0 {
		// Must split the island before it can sleep. The body ends up in one of the pieces.
		b2SplitIsland(world, body.IslandId)
	}

	b2TrySleepIsland(world, body.IslandId)
	return nil
}

/// Enable or disable sleeping for this body. If sleeping is disabled the body will wake.
func B2Body_EnableSleep(bodyId B2BodyId, enableSleep bool) error {
	world, body, err := b2GetMutableBody(bodyId)
	if err != nil {
		return err
	}

	body.EnableSleep = enableSleep
	if enableSleep == false {
		b2WakeBody(world, body)
	}
	return nil
}

/// Returns true if sleeping is enabled for this body
func B2Body_IsSleepEnabled(bodyId B2BodyId) bool {
	world := b2GetWorld(bodyId.World0)
	return b2GetBodyFullId(world, bodyId).EnableSleep
}

/// Set the sleep threshold, typically in meters per second
func B2Body_SetSleepThreshold(bodyId B2BodyId, sleepThreshold float64) error {
	_, body, err := b2GetMutableBody(bodyId)
	if err != nil {
		return err
	}

	body.SleepThreshold = sleepThreshold
	return nil
}

/// Get the sleep threshold, typically in meters per second.
func B2Body_GetSleepThreshold(bodyId B2BodyId) float64 {
	world := b2GetWorld(bodyId.World0)
	return b2GetBodyFullId(world, bodyId).SleepThreshold
}

/// Returns true if this body is enabled
func B2Body_IsEnabled(bodyId B2BodyId) bool {
	world := b2GetWorld(bodyId.World0)
	return b2GetBodyFullId(world, bodyId).IsEnabled
}

/// Disable a body by removing it completely from the simulation. This is expensive.
func B2Body_Disable(bodyId B2BodyId) error {
	world, body, err := b2GetMutableBody(bodyId)
	if err != nil {
		return err
	}

	if body.IsEnabled == false {
		return nil
	}

	// Joints connected to a disabled body are not simulated
	b2DetachBodyJoints(world, body, true)

	// Destroy contacts and wake bodies touching this body. This avoid floating bodies.
	b2DestroyBodyContacts(world, body, true)

	b2RemoveBodyFromIsland(world, body)
	if body.AwakeIndex != B2_nullIndex {
		world.removeAwakeBody(body)
	}

	// Remove shapes from broad-phase
	shapeId := body.HeadShapeId
	for shapeId != B2_nullIndex {
		shape := world.shapes.Get(shapeId)
		shapeId = shape.NextShapeId
		b2DestroyShapeProxy(shape, &world.broadPhase)
	}

	body.IsEnabled = false
	return nil
}

/// Enable a body by adding it to the simulation. This is expensive.
func B2Body_Enable(bodyId B2BodyId) error {
	world, body, err := b2GetMutableBody(bodyId)
	if err != nil {
		return err
	}

	if body.IsEnabled {
		return nil
	}

	body.IsEnabled = true

	// Add shapes to broad-phase
	forcePairCreation := true
	shapeId := body.HeadShapeId
	for shapeId != B2_nullIndex {
		shape := world.shapes.Get(shapeId)
		shapeId = shape.NextShapeId
		b2CreateShapeProxy(shape, &world.broadPhase, body.Type, body.Transform, forcePairCreation)
	}

	if body.Type != B2BodyType.E_staticBody {
		body.SleepTime = 0.0
		world.addAwakeBody(body)
	}

	if body.Type == B2BodyType.E_dynamicBody {
		b2CreateIslandForBody(world, body)
	}

	b2AttachBodyJoints(world, body)
	return nil
}

/// Set this body to have fixed rotation. This causes the mass to be reset in all cases.
func B2Body_SetFixedRotation(bodyId B2BodyId, flag bool) error {
	world, body, err := b2GetMutableBody(bodyId)
	if err != nil {
		return err
	}

	if body.FixedRotation == flag {
		return nil
	}

	body.FixedRotation = flag
	body.AngularVelocity = 0.0
	b2UpdateBodyMassData(world, body)
	return nil
}

/// Does this body have fixed rotation?
func B2Body_IsFixedRotation(bodyId B2BodyId) bool {
	world := b2GetWorld(bodyId.World0)
	return b2GetBodyFullId(world, bodyId).FixedRotation
}

/// Set this body to be a bullet. A bullet does continuous collision detection
/// against dynamic bodies (but not other bullets).
func B2Body_SetBullet(bodyId B2BodyId, flag bool) error {
	_, body, err := b2GetMutableBody(bodyId)
	if err != nil {
		return err
	}

	body.IsBullet = flag
	return nil
}

/// Is this body a bullet?
func B2Body_IsBullet(bodyId B2BodyId) bool {
	world := b2GetWorld(bodyId.World0)
	return b2GetBodyFullId(world, bodyId).IsBullet
}

/// Get the number of shapes on this body
func B2Body_GetShapeCount(bodyId B2BodyId) int {
	world := b2GetWorld(bodyId.World0)
	return b2GetBodyFullId(world, bodyId).ShapeCount
}

/// Get the shape ids for all shapes on this body, in list order.
func B2Body_GetShapes(bodyId B2BodyId) []B2ShapeId {
	world := b2GetWorld(bodyId.World0)
	body := b2GetBodyFullId(world, bodyId)

	shapeIds := make([]B2ShapeId, 0, body.ShapeCount)
	shapeId := body.HeadShapeId
	for shapeId != B2_nullIndex {
		shape := world.shapes.Get(shapeId)
		shapeIds = append(shapeIds, b2MakeShapeId(world, shapeId))
		shapeId = shape.NextShapeId
	}
	return shapeIds
}

/// Get the number of joints on this body
func B2Body_GetJointCount(bodyId B2BodyId) int {
	world := b2GetWorld(bodyId.World0)
	return b2GetBodyFullId(world, bodyId).JointCount
}

/// Get the joint ids for all joints on this body
func B2Body_GetJoints(bodyId B2BodyId) []B2JointId {
	world := b2GetWorld(bodyId.World0)
	body := b2GetBodyFullId(world, bodyId)

	jointIds := make([]B2JointId, 0, body.JointCount)
	jointKey := body.HeadJointKey
	for jointKey != B2_nullIndex {
		jointId := jointKey >> 1
		edgeIndex := jointKey & 1
		joint := world.joints.Get(jointId)
		jointIds = append(jointIds, b2MakeJointId(world, jointId))
		jointKey = joint.Edges[edgeIndex].NextKey
	}
	return jointIds
}

/// Get the maximum capacity required for retrieving all the touching contacts on a body
func B2Body_GetContactCapacity(bodyId B2BodyId) int {
	world := b2GetWorld(bodyId.World0)
	return b2GetBodyFullId(world, bodyId).ContactCount
}

/// Get the touching contact data for a body
func B2Body_GetContactData(bodyId B2BodyId) []B2ContactData {
	world := b2GetWorld(bodyId.World0)
	body := b2GetBodyFullId(world, bodyId)

	var contactData []B2ContactData
	contactKey := body.HeadContactKey
	for contactKey != B2_nullIndex {
		contactId := contactKey >> 1
		edgeIndex := contactKey & 1
		contact := world.contacts.Get(contactId)

		// Is contact touching?
		if contact.Flags&B2ContactFlags.E_touchingFlag != 0 && contact.Flags&B2ContactFlags.E_sensorFlag == 0 {
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

/// Get the current world AABB that contains all the attached shapes. Note that this may not encompass the body origin.
/// If there are no shapes attached then the returned AABB is empty and centered on the body origin.
func B2Body_ComputeAABB(bodyId B2BodyId) B2AABB {
	world := b2GetWorld(bodyId.World0)
	body := b2GetBodyFullId(world, bodyId)

	if body.HeadShapeId == B2_nullIndex {
		return MakeB2AABB(body.Transform.P, body.Transform.P)
	}

	shape := world.shapes.Get(body.HeadShapeId)
	aabb := shape.AABB
	for shape.NextShapeId != B2_nullIndex {
		shape = world.shapes.Get(shape.NextShapeId)
		aabb = B2AABBUnion(aabb, shape.AABB)
	}
	return aabb
}
