package box2d

import (
	"fmt"
)

var B2JointType = struct {
	E_distanceJoint  uint8
	E_motorJoint     uint8
	E_mouseJoint     uint8
	E_prismaticJoint uint8
	E_revoluteJoint  uint8
	E_weldJoint      uint8
	E_wheelJoint     uint8
}{
	E_distanceJoint:  0,
	E_motorJoint:     1,
	E_mouseJoint:     2,
	E_prismaticJoint: 3,
	E_revoluteJoint:  4,
	E_weldJoint:      5,
	E_wheelJoint:     6,
}

/// Joint definitions are used to construct joints. Every concrete joint
/// definition embeds this.
type B2JointDef struct {
	/// The first attached body.
	BodyIdA B2BodyId

	/// The second attached body.
	BodyIdB B2BodyId

	/// Set this flag to true if the attached bodies should collide.
	CollideConnected bool

	/// User data pointer
	UserData any
}

// A joint edge connects a joint to one of its bodies. The edges of a body form a
// doubly linked list keyed by jointId<<1|edgeIndex.
type b2JointEdge struct {
	BodyId  int32
	PrevKey int32
	NextKey int32
}

type b2Joint struct {
	UserData any

	Type uint8

	JointId int32

	Edges [2]b2JointEdge

	IslandId   int32
	IslandPrev int32
	IslandNext int32

	// Constraint graph color and index in the color, B2_nullIndex when not simulated
	ColorIndex int32
	LocalIndex int32

	// Anchors relative to the body origins
	LocalOriginAnchorA B2Vec2
	LocalOriginAnchorB B2Vec2

	// Solver temp, written by b2PrepareJoint
	InvMassA, InvMassB float64
	InvIA, InvIB       float64

	// Awake indices of the bodies or B2_nullIndex
	IndexA int32
	IndexB int32

	// Anchors relative to the centers of mass in world frame
	AnchorA B2Vec2
	AnchorB B2Vec2

	// Center of mass of B minus center of mass of A
	DeltaCenter B2Vec2

	CollideConnected bool
	IsMarked         bool

	Distance  b2DistanceJoint
	Motor     b2MotorJoint
	Mouse     b2MouseJoint
	Prismatic b2PrismaticJoint
	Revolute  b2RevoluteJoint
	Weld      b2WeldJoint
	Wheel     b2WheelJoint
}

///////////////////////////////////////////////////////////////////////////////
// Id helpers
///////////////////////////////////////////////////////////////////////////////

func b2MakeJointId(world *b2World, jointId int32) B2JointId {
	return B2JointId{Index1: jointId + 1, World0: world.worldId, WorldRevision: world.revision, Revision: world.joints.Revision(jointId)}
}

func b2IsJointIdValid(world *b2World, id B2JointId) bool {
	if world == nil || world.revision != id.WorldRevision {
		return false
	}
	return world.joints.Valid(id.Index1-1, id.Revision)
}

func b2GetJointFullId(world *b2World, jointId B2JointId) *b2Joint {
	B2Assert(b2IsJointIdValid(world, jointId))
	return world.joints.Get(jointId.Index1 - 1)
}

// Getters assert on stale ids and on a joint of the wrong type.
func b2GetJointOfType(jointId B2JointId, jointType uint8) (*b2World, *b2Joint) {
	world := b2GetWorld(jointId.World0)
	joint := b2GetJointFullId(world, jointId)
	B2Assert(joint.Type == jointType)
	return world, joint
}

// Mutators report stale ids, wrong joint types and locked worlds as errors.
func b2GetMutableJoint(jointId B2JointId, jointType uint8) (*b2World, *b2Joint, error) {
	world := b2GetWorld(jointId.World0)
	if world == nil {
		return nil, nil, fmt.Errorf("joint %d: %w", jointId.Index1, ErrInvalidId)
	}

	if world.locked {
		return nil, nil, ErrWorldLocked
	}

	if b2IsJointIdValid(world, jointId) == false {
		return nil, nil, fmt.Errorf("joint %d: %w", jointId.Index1, ErrInvalidId)
	}

	joint := world.joints.Get(jointId.Index1 - 1)
	if joint.Type != jointType {
		return nil, nil, fmt.Errorf("joint %d has type %d, expected %d: %w", jointId.Index1, joint.Type, jointType, ErrInvalidId)
	}

	return world, joint, nil
}

func b2GetJointBodies(world *b2World, joint *b2Joint) (*b2Body, *b2Body) {
	return world.bodies.Get(joint.Edges[0].BodyId), world.bodies.Get(joint.Edges[1].BodyId)
}

///////////////////////////////////////////////////////////////////////////////
// Lifetime
///////////////////////////////////////////////////////////////////////////////

// Resolve the world and bodies of a joint definition.
func b2ValidateJointDef(worldId B2WorldId, def *B2JointDef) (*b2World, *b2Body, *b2Body, error) {
	world := b2GetWorldFromId(worldId)
	if world == nil {
		return nil, nil, nil, ErrInvalidId
	}

	if world.locked {
		return nil, nil, nil, ErrWorldLocked
	}

	if def.BodyIdA.World0 != world.worldId || b2IsBodyIdValid(world, def.BodyIdA) == false {
		return nil, nil, nil, fmt.Errorf("joint body A %d: %w", def.BodyIdA.Index1, ErrInvalidId)
	}

	if def.BodyIdB.World0 != world.worldId || b2IsBodyIdValid(world, def.BodyIdB) == false {
		return nil, nil, nil, fmt.Errorf("joint body B %d: %w", def.BodyIdB.Index1, ErrInvalidId)
	}

	if def.BodyIdA.Index1 == def.BodyIdB.Index1 {
		return nil, nil, nil, fmt.Errorf("joint connects body %d to itself: %w", def.BodyIdA.Index1, ErrInvalidDef)
	}

	return world, world.bodies.Get(def.BodyIdA.Index1 - 1), world.bodies.Get(def.BodyIdB.Index1 - 1), nil
}

// Destroy the contacts between two bodies. Used when a joint disables collision.
func b2DestroyContactsBetweenBodies(world *b2World, bodyA *b2Body, bodyB *b2Body) {
	var contactKey int32
	var otherBodyId int32

	// use the smaller of the two contact lists
	if bodyA.ContactCount < bodyB.ContactCount {
		contactKey = bodyA.HeadContactKey
		otherBodyId = bodyB.Id
	} else {
		contactKey = bodyB.HeadContactKey
		otherBodyId = bodyA.Id
	}

	for contactKey != B2_nullIndex {
		contactId := contactKey >> 1
		edgeIndex := contactKey & 1

		contact := world.contacts.Get(contactId)
		contactKey = contact.Edges[edgeIndex].NextKey

		otherEdgeIndex := edgeIndex ^ 1
		if contact.Edges[otherEdgeIndex].BodyId == otherBodyId {
			// Careful, this removes the contact from the current doubly linked list
			b2DestroyContact(world, contact, false)
		}
	}

	b2ValidateSolverSets(world)
}

func b2CreateJointInternal(world *b2World, bodyA *b2Body, bodyB *b2Body, def *B2JointDef, jointType uint8, setup func(joint *b2Joint)) B2JointId {
	jointId, _ := world.joints.Allocate()
	joint := world.joints.Get(jointId)

	*joint = b2Joint{
		UserData:         def.UserData,
		Type:             jointType,
		JointId:          jointId,
		IslandId:         B2_nullIndex,
		IslandPrev:       B2_nullIndex,
		IslandNext:       B2_nullIndex,
		ColorIndex:       B2_nullIndex,
		LocalIndex:       B2_nullIndex,
		IndexA:           B2_nullIndex,
		IndexB:           B2_nullIndex,
		CollideConnected: def.CollideConnected,
	}

	setup(joint)

	// Doubly linked list on bodyA
	{
		joint.Edges[0].BodyId = bodyA.Id
		joint.Edges[0].PrevKey = B2_nullIndex
		joint.Edges[0].NextKey = bodyA.HeadJointKey

		keyA := (jointId << 1) | 0
		if bodyA.HeadJointKey != B2_nullIndex {
			jointA := world.joints.Get(bodyA.HeadJointKey >> 1)
			jointA.Edges[bodyA.HeadJointKey&1].PrevKey = keyA
		}
		bodyA.HeadJointKey = keyA
		bodyA.JointCount += 1
	}

	// Doubly linked list on bodyB
	{
		joint.Edges[1].BodyId = bodyB.Id
		joint.Edges[1].PrevKey = B2_nullIndex
		joint.Edges[1].NextKey = bodyB.HeadJointKey

		keyB := (jointId << 1) | 1
		if bodyB.HeadJointKey != B2_nullIndex {
			jointB := world.joints.Get(bodyB.HeadJointKey >> 1)
			jointB.Edges[bodyB.HeadJointKey&1].PrevKey = keyB
		}
		bodyB.HeadJointKey = keyB
		bodyB.JointCount += 1
	}

	b2AttachJoint(world, joint, true)

	// If the joint prevents collisions, then destroy all contacts between attached bodies
	if def.CollideConnected == false {
		b2DestroyContactsBetweenBodies(world, bodyA, bodyB)
	}

	return b2MakeJointId(world, jointId)
}

// A joint takes part in the simulation when at least one body is dynamic and both
// bodies are enabled.
func b2ShouldSimulateJoint(bodyA *b2Body, bodyB *b2Body) bool {
	if bodyA.IsEnabled == false || bodyB.IsEnabled == false {
		return false
	}
	return bodyA.Type == B2BodyType.E_dynamicBody || bodyB.Type == B2BodyType.E_dynamicBody
}

// Link the joint into the island graph and, if its island is awake, into the constraint graph.
func b2AttachJoint(world *b2World, joint *b2Joint, mergeIslands bool) {
	bodyA, bodyB := b2GetJointBodies(world, joint)
	if joint.IslandId != B2_nullIndex || b2ShouldSimulateJoint(bodyA, bodyB) == false {
		return
	}

	b2LinkJoint(world, joint, mergeIslands)
	if mergeIslands {
		b2AddJointToGraphIfAwake(world, joint)
	}
}

func b2AddJointToGraphIfAwake(world *b2World, joint *b2Joint) {
	if joint.IslandId == B2_nullIndex || joint.ColorIndex != B2_nullIndex {
		return
	}

	island := world.islands.Get(b2FindRootIsland(world, joint.IslandId))
	if island.AwakeIndex != B2_nullIndex {
		b2CreateJointInGraph(world, joint)
	}
}

// Remove the joint from the constraint graph and the island graph. The body lists are kept.
func b2DetachJoint(world *b2World, joint *b2Joint) {
	bodyA, bodyB := b2GetJointBodies(world, joint)

	if joint.ColorIndex != B2_nullIndex {
		b2RemoveJointFromGraph(world, bodyA, bodyB, joint)
	}

	if joint.IslandId != B2_nullIndex {
		b2UnlinkJoint(world, joint)
	}
}

// Used when a body is disabled or changes type.
func b2DetachBodyJoints(world *b2World, body *b2Body, wakeBodies bool) {
	jointKey := body.HeadJointKey
	for jointKey != B2_nullIndex {
		jointId := jointKey >> 1
		edgeIndex := jointKey & 1

		joint := world.joints.Get(jointId)
		jointKey = joint.Edges[edgeIndex].NextKey

		if wakeBodies {
			bodyA, bodyB := b2GetJointBodies(world, joint)
			b2WakeBody(world, bodyA)
			b2WakeBody(world, bodyB)
		}

		b2DetachJoint(world, joint)
	}
}

// Used when a body is enabled or changes type. Islands are merged once after all joints are linked.
func b2AttachBodyJoints(world *b2World, body *b2Body) {
	jointKey := body.HeadJointKey
	for jointKey != B2_nullIndex {
		jointId := jointKey >> 1
		edgeIndex := jointKey & 1

		joint := world.joints.Get(jointId)
		jointKey = joint.Edges[edgeIndex].NextKey

		b2AttachJoint(world, joint, false)
	}

	b2MergeAwakeIslands(world)

	jointKey = body.HeadJointKey
	for jointKey != B2_nullIndex {
		joint := world.joints.Get(jointKey >> 1)
		jointKey = joint.Edges[jointKey&1].NextKey
		b2AddJointToGraphIfAwake(world, joint)
	}
}

func b2DestroyJointInternal(world *b2World, joint *b2Joint, wakeBodies bool) {
	edgeA := joint.Edges[0]
	edgeB := joint.Edges[1]

	bodyA := world.bodies.Get(edgeA.BodyId)
	bodyB := world.bodies.Get(edgeB.BodyId)

	// Remove from body A
	if edgeA.PrevKey != B2_nullIndex {
		prevJoint := world.joints.Get(edgeA.PrevKey >> 1)
		prevJoint.Edges[edgeA.PrevKey&1].NextKey = edgeA.NextKey
	}

	if edgeA.NextKey != B2_nullIndex {
		nextJoint := world.joints.Get(edgeA.NextKey >> 1)
		nextJoint.Edges[edgeA.NextKey&1].PrevKey = edgeA.PrevKey
	}

	jointId := joint.JointId

	edgeKeyA := (jointId << 1) | 0
	if bodyA.HeadJointKey == edgeKeyA {
		bodyA.HeadJointKey = edgeA.NextKey
	}

	bodyA.JointCount -= 1

	// Remove from body B
	if edgeB.PrevKey != B2_nullIndex {
		prevJoint := world.joints.Get(edgeB.PrevKey >> 1)
		prevJoint.Edges[edgeB.PrevKey&1].NextKey = edgeB.NextKey
	}

	if edgeB.NextKey != B2_nullIndex {
		nextJoint := world.joints.Get(edgeB.NextKey >> 1)
		nextJoint.Edges[edgeB.NextKey&1].PrevKey = edgeB.PrevKey
	}

	edgeKeyB := (jointId << 1) | 1
	if bodyB.HeadJointKey == edgeKeyB {
		bodyB.HeadJointKey = edgeB.NextKey
	}

	bodyB.JointCount -= 1

	b2DetachJoint(world, joint)

	world.joints.Free(jointId)

	if wakeBodies {
		b2WakeBody(world, bodyA)
		b2WakeBody(world, bodyB)
	}

	b2ValidateSolverSets(world)
}

/// Destroy a joint
func B2DestroyJoint(jointId B2JointId) error {
	world := b2GetWorld(jointId.World0)
	if world == nil {
		return fmt.Errorf("joint %d: %w", jointId.Index1, ErrInvalidId)
	}

	if world.locked {
		return ErrWorldLocked
	}

	if b2IsJointIdValid(world, jointId) == false {
		return fmt.Errorf("joint %d: %w", jointId.Index1, ErrInvalidId)
	}

	b2DestroyJointInternal(world, world.joints.Get(jointId.Index1-1), true)
	return nil
}

/// Joint identifier validation. Provides validation for up to 64K allocations.
func B2Joint_IsValid(id B2JointId) bool {
	return b2IsJointIdValid(b2GetWorld(id.World0), id)
}

/// Get the joint type
func B2Joint_GetType(jointId B2JointId) uint8 {
	world := b2GetWorld(jointId.World0)
	return b2GetJointFullId(world, jointId).Type
}

/// Get body A on a joint
func B2Joint_GetBodyA(jointId B2JointId) B2BodyId {
	world := b2GetWorld(jointId.World0)
	joint := b2GetJointFullId(world, jointId)
	return b2MakeBodyId(world, joint.Edges[0].BodyId)
}

/// Get body B on a joint
func B2Joint_GetBodyB(jointId B2JointId) B2BodyId {
	world := b2GetWorld(jointId.World0)
	joint := b2GetJointFullId(world, jointId)
	return b2MakeBodyId(world, joint.Edges[1].BodyId)
}

/// Get local anchor on body A
func B2Joint_GetLocalAnchorA(jointId B2JointId) B2Vec2 {
	world := b2GetWorld(jointId.World0)
	return b2GetJointFullId(world, jointId).LocalOriginAnchorA
}

/// Get local anchor on body B
func B2Joint_GetLocalAnchorB(jointId B2JointId) B2Vec2 {
	world := b2GetWorld(jointId.World0)
	return b2GetJointFullId(world, jointId).LocalOriginAnchorB
}

/// Toggle collision between connected bodies
func B2Joint_SetCollideConnected(jointId B2JointId, shouldCollide bool) error {
	world := b2GetWorld(jointId.World0)
	if world == nil || b2IsJointIdValid(world, jointId) == false {
		return fmt.Errorf("joint %d: %w", jointId.Index1, ErrInvalidId)
	}

	if world.locked {
		return ErrWorldLocked
	}

	joint := world.joints.Get(jointId.Index1 - 1)
	if joint.CollideConnected == shouldCollide {
		return nil
	}

	joint.CollideConnected = shouldCollide

	bodyA, bodyB := b2GetJointBodies(world, joint)
	if shouldCollide {
		// need to tell the broad-phase to look for new pairs for one of the
		// two bodies. Pick the one with the fewest shapes.
		body := bodyA
		if bodyB.ShapeCount < bodyA.ShapeCount {
			body = bodyB
		}

		shapeId := body.HeadShapeId
		for shapeId != B2_nullIndex {
			shape := world.shapes.Get(shapeId)
			if shape.ProxyKey != B2_nullIndex {
				world.broadPhase.BufferMove(shape.ProxyKey)
			}
			shapeId = shape.NextShapeId
		}
	} else {
		b2DestroyContactsBetweenBodies(world, bodyA, bodyB)
	}

	return nil
}

/// Is collision allowed between connected bodies?
func B2Joint_GetCollideConnected(jointId B2JointId) bool {
	world := b2GetWorld(jointId.World0)
	return b2GetJointFullId(world, jointId).CollideConnected
}

/// Set the user data on a joint
func B2Joint_SetUserData(jointId B2JointId, userData any) {
	world := b2GetWorld(jointId.World0)
	b2GetJointFullId(world, jointId).UserData = userData
}

/// Get the user data on a joint
func B2Joint_GetUserData(jointId B2JointId) any {
	world := b2GetWorld(jointId.World0)
	return b2GetJointFullId(world, jointId).UserData
}

/// Wake the bodies connect to this joint
func B2Joint_WakeBodies(jointId B2JointId) error {
	world := b2GetWorld(jointId.World0)
	if world == nil || b2IsJointIdValid(world, jointId) == false {
		return fmt.Errorf("joint %d: %w", jointId.Index1, ErrInvalidId)
	}

	if world.locked {
		return ErrWorldLocked
	}

	b2WakeJoint(world, world.joints.Get(jointId.Index1-1))
	return nil
}

// Joint setters wake both bodies so a sleeping island sees the change.
func b2WakeJoint(world *b2World, base *b2Joint) {
	bodyA, bodyB := b2GetJointBodies(world, base)
	b2WakeBody(world, bodyA)
	b2WakeBody(world, bodyB)
}

/// Get the current constraint force for this joint. Usually in Newtons.
func B2Joint_GetConstraintForce(jointId B2JointId) B2Vec2 {
	world := b2GetWorld(jointId.World0)
	joint := b2GetJointFullId(world, jointId)

	switch joint.Type {
	case B2JointType.E_distanceJoint:
		return b2GetDistanceJointForce(world, joint)
	case B2JointType.E_motorJoint:
		return b2GetMotorJointForce(world, joint)
	case B2JointType.E_mouseJoint:
		return b2GetMouseJointForce(world, joint)
	case B2JointType.E_prismaticJoint:
		return b2GetPrismaticJointForce(world, joint)
	case B2JointType.E_revoluteJoint:
		return b2GetRevoluteJointForce(world, joint)
	case B2JointType.E_weldJoint:
		return b2GetWeldJointForce(world, joint)
	case B2JointType.E_wheelJoint:
		return b2GetWheelJointForce(world, joint)
	default:
		B2Assert(false)
		return B2Vec2_zero
	}
}

/// Get the current constraint torque for this joint. Usually in Newton * meters.
func B2Joint_GetConstraintTorque(jointId B2JointId) float64 {
	world := b2GetWorld(jointId.World0)
	joint := b2GetJointFullId(world, jointId)

	switch joint.Type {
	case B2JointType.E_distanceJoint:
		return 0.0
	case B2JointType.E_motorJoint:
		return world.inv_h * joint.Motor.AngularImpulse
	case B2JointType.E_mouseJoint:
		return world.inv_h * joint.Mouse.AngularImpulse
	case B2JointType.E_prismaticJoint:
		return world.inv_h * joint.Prismatic.Impulse.Y
	case B2JointType.E_revoluteJoint:
		return b2GetRevoluteJointTorque(world, joint)
	case B2JointType.E_weldJoint:
		return world.inv_h * joint.Weld.AngularImpulse
	case B2JointType.E_wheelJoint:
		return world.inv_h * joint.Wheel.MotorImpulse
	default:
		B2Assert(false)
		return 0.0
	}
}

///////////////////////////////////////////////////////////////////////////////
// Solver dispatch
///////////////////////////////////////////////////////////////////////////////

// Compute the solver temporaries shared by every joint type, then the
// type specific ones.
func b2PrepareJoint(joint *b2Joint, context *b2StepContext) {
	world := context.world
	bodyA, bodyB := b2GetJointBodies(world, joint)

	joint.InvMassA = bodyA.InvMass
	joint.InvIA = bodyA.InvInertia
	joint.InvMassB = bodyB.InvMass
	joint.InvIB = bodyB.InvInertia

	joint.IndexA = bodyA.AwakeIndex
	joint.IndexB = bodyB.AwakeIndex

	joint.AnchorA = B2RotVec2Mul(bodyA.Transform.Q, B2Vec2Sub(joint.LocalOriginAnchorA, bodyA.LocalCenter))
	joint.AnchorB = B2RotVec2Mul(bodyB.Transform.Q, B2Vec2Sub(joint.LocalOriginAnchorB, bodyB.LocalCenter))
	joint.DeltaCenter = B2Vec2Sub(bodyB.Center, bodyA.Center)

	switch joint.Type {
	case B2JointType.E_distanceJoint:
		b2PrepareDistanceJoint(joint, context)
	case B2JointType.E_motorJoint:
		b2PrepareMotorJoint(joint, context, bodyA, bodyB)
	case B2JointType.E_mouseJoint:
		b2PrepareMouseJoint(joint, context, bodyB)
	case B2JointType.E_prismaticJoint:
		b2PreparePrismaticJoint(joint, context, bodyA, bodyB)
	case B2JointType.E_revoluteJoint:
		b2PrepareRevoluteJoint(joint, context, bodyA, bodyB)
	case B2JointType.E_weldJoint:
		b2PrepareWeldJoint(joint, context, bodyA, bodyB)
	case B2JointType.E_wheelJoint:
		b2PrepareWheelJoint(joint, context)
	default:
		B2Assert(false)
	}
}

func b2WarmStartJoint(joint *b2Joint, context *b2StepContext) {
	var dummyA, dummyB b2BodyState
	stateA := context.getState(joint.IndexA, &dummyA)
	stateB := context.getState(joint.IndexB, &dummyB)

	switch joint.Type {
	case B2JointType.E_distanceJoint:
		b2WarmStartDistanceJoint(joint, stateA, stateB)
	case B2JointType.E_motorJoint:
		b2WarmStartMotorJoint(joint, stateA, stateB)
	case B2JointType.E_mouseJoint:
		b2WarmStartMouseJoint(joint, stateB)
	case B2JointType.E_prismaticJoint:
		b2WarmStartPrismaticJoint(joint, stateA, stateB)
	case B2JointType.E_revoluteJoint:
		b2WarmStartRevoluteJoint(joint, stateA, stateB)
	case B2JointType.E_weldJoint:
		b2WarmStartWeldJoint(joint, stateA, stateB)
	case B2JointType.E_wheelJoint:
		b2WarmStartWheelJoint(joint, stateA, stateB)
	default:
		B2Assert(false)
	}
}

func b2SolveJoint(joint *b2Joint, context *b2StepContext, useBias bool) {
	var dummyA, dummyB b2BodyState
	stateA := context.getState(joint.IndexA, &dummyA)
	stateB := context.getState(joint.IndexB, &dummyB)

	switch joint.Type {
	case B2JointType.E_distanceJoint:
		b2SolveDistanceJoint(joint, context, stateA, stateB, useBias)
	case B2JointType.E_motorJoint:
		b2SolveMotorJoint(joint, context, stateA, stateB)
	case B2JointType.E_mouseJoint:
		b2SolveMouseJoint(joint, context, stateB)
	case B2JointType.E_prismaticJoint:
		b2SolvePrismaticJoint(joint, context, stateA, stateB, useBias)
	case B2JointType.E_revoluteJoint:
		b2SolveRevoluteJoint(joint, context, stateA, stateB, useBias)
	case B2JointType.E_weldJoint:
		b2SolveWeldJoint(joint, context, stateA, stateB, useBias)
	case B2JointType.E_wheelJoint:
		b2SolveWheelJoint(joint, context, stateA, stateB, useBias)
	default:
		B2Assert(false)
	}
}

// Shared soft limit and point solve helpers.

// Soft coefficients for a speculative one sided limit with position error C.
func b2LimitSoftness(C float64, context *b2StepContext, useBias bool) (bias, massScale, impulseScale float64) {
	massScale = 1.0
	if C > 0.0 {
		// speculation
		bias = C * context.inv_h
	} else if useBias {
		bias = context.jointSoftness.BiasRate * C
		massScale = context.jointSoftness.MassScale
		impulseScale = context.jointSoftness.ImpulseScale
	}
	return bias, massScale, impulseScale
}

// Effective mass matrix of a point to point constraint.
func b2PointMassMatrix(mA, mB, iA, iB float64, rA, rB B2Vec2) B2Mat22 {
	return MakeB2Mat22FromScalars(
		mA+mB+rA.Y*rA.Y*iA+rB.Y*rB.Y*iB, -rA.Y*rA.X*iA-rB.Y*rB.X*iB,
		-rA.Y*rA.X*iA-rB.Y*rB.X*iB, mA+mB+rA.X*rA.X*iA+rB.X*rB.X*iB,
	)
}

func b2InverseMass(k float64) float64 {
	if k > 0.0 {
		return 1.0 / k
	}
	return 0.0
}

// Apply a linear impulse at the anchors along with extra angular impulses.
func b2ApplyJointImpulse(mA, mB, iA, iB float64, vA, vB *B2Vec2, wA, wB *float64, P B2Vec2, LA, LB float64) {
	*vA = B2Vec2MulSub(*vA, mA, P)
	*wA -= iA * LA
	*vB = B2Vec2MulAdd(*vB, mB, P)
	*wB += iB * LB
}
