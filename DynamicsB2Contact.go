package box2d

import (
	"math"
)

/// Flags stored in b2Contact.Flags
var B2ContactFlags = struct {
	// Set when the shapes are touching.
	E_touchingFlag uint32

	// One of the shapes is a sensor
	E_sensorFlag uint32

	// This contact wants sensor events
	E_enableSensorEvents uint32

	// This contact wants contact events
	E_enableContactEvents uint32

	// This contact wants hit events
	E_enableHitEvents uint32

	// This contact wants pre-solve events
	E_enablePreSolveEvents uint32
}{
	E_touchingFlag:         0x00000001,
	E_sensorFlag:           0x00000002,
	E_enableSensorEvents:   0x00000004,
	E_enableContactEvents:  0x00000008,
	E_enableHitEvents:      0x00000010,
	E_enablePreSolveEvents: 0x00000020,
}

// Transitions found by the narrow phase, consumed serially at the end of collide.
var b2ContactSimFlags = struct {
	E_disjoint        uint32
	E_startedTouching uint32
	E_stoppedTouching uint32
}{
	E_disjoint:        0x00000001,
	E_startedTouching: 0x00000002,
	E_stoppedTouching: 0x00000004,
}

// A contact edge is used to connect bodies and contacts together
// in a contact graph where each body is a node and each contact
// is an edge. A contact edge belongs to a doubly linked list
// maintained in each attached body. Each contact has two contact
// edges, one for each attached body.
type b2ContactEdge struct {
	BodyId  int32
	PrevKey int32
	NextKey int32
}

// The class manages contact between two shapes. A contact exists for each overlapping
// AABB in the broad-phase (except if filtered). Therefore a contact object may exist
// that has no contact points.
type b2Contact struct {
	Flags    uint32
	SimFlags uint32

	ShapeIdA int32
	ShapeIdB int32

	Edges [2]b2ContactEdge

	// A contact only belongs to an island if touching, otherwise B2_nullIndex.
	IslandId   int32
	IslandPrev int32
	IslandNext int32

	// Graph color, B2_nullIndex when not in the constraint graph
	ColorIndex int32

	// Index within the color's contact array
	LocalIndex int32

	ContactId int32

	Manifold B2Manifold

	// Mixed friction and restitution
	Friction    float64
	Restitution float64

	Cache B2DistanceCache

	IsMarked bool
}

type b2ManifoldFcn func(shapeA *b2Shape, xfA B2Transform, shapeB *b2Shape, xfB B2Transform, cache *B2DistanceCache) B2Manifold

type b2ContactRegister struct {
	fcn     b2ManifoldFcn
	primary bool
}

var b2_registers = b2InitializeRegisters()

func b2AddType(registers *[B2_shapeTypeCount][B2_shapeTypeCount]b2ContactRegister, fcn b2ManifoldFcn, type1 uint8, type2 uint8) {
	B2Assert(type1 < B2_shapeTypeCount)
	B2Assert(type2 < B2_shapeTypeCount)

	registers[type1][type2].fcn = fcn
	registers[type1][type2].primary = true

	if type1 != type2 {
		registers[type2][type1].fcn = fcn
		registers[type2][type1].primary = false
	}
}

// Shape A of a contact always has the type registered first, so one manifold
// function covers both orders.
func b2InitializeRegisters() [B2_shapeTypeCount][B2_shapeTypeCount]b2ContactRegister {
	var registers [B2_shapeTypeCount][B2_shapeTypeCount]b2ContactRegister

	b2AddType(&registers, func(shapeA *b2Shape, xfA B2Transform, shapeB *b2Shape, xfB B2Transform, cache *B2DistanceCache) B2Manifold {
		return B2CollideCircles(shapeA.Circle, xfA, shapeB.Circle, xfB)
	}, B2ShapeType.E_circleShape, B2ShapeType.E_circleShape)

	b2AddType(&registers, func(shapeA *b2Shape, xfA B2Transform, shapeB *b2Shape, xfB B2Transform, cache *B2DistanceCache) B2Manifold {
		return B2CollideCapsuleAndCircle(shapeA.Capsule, xfA, shapeB.Circle, xfB)
	}, B2ShapeType.E_capsuleShape, B2ShapeType.E_circleShape)

	b2AddType(&registers, func(shapeA *b2Shape, xfA B2Transform, shapeB *b2Shape, xfB B2Transform, cache *B2DistanceCache) B2Manifold {
		return B2CollideCapsules(shapeA.Capsule, xfA, shapeB.Capsule, xfB, cache)
	}, B2ShapeType.E_capsuleShape, B2ShapeType.E_capsuleShape)

	b2AddType(&registers, func(shapeA *b2Shape, xfA B2Transform, shapeB *b2Shape, xfB B2Transform, cache *B2DistanceCache) B2Manifold {
		return B2CollidePolygonAndCircle(shapeA.Polygon, xfA, shapeB.Circle, xfB)
	}, B2ShapeType.E_polygonShape, B2ShapeType.E_circleShape)

	b2AddType(&registers, func(shapeA *b2Shape, xfA B2Transform, shapeB *b2Shape, xfB B2Transform, cache *B2DistanceCache) B2Manifold {
		return B2CollidePolygonAndCapsule(shapeA.Polygon, xfA, shapeB.Capsule, xfB, cache)
	}, B2ShapeType.E_polygonShape, B2ShapeType.E_capsuleShape)

	b2AddType(&registers, func(shapeA *b2Shape, xfA B2Transform, shapeB *b2Shape, xfB B2Transform, cache *B2DistanceCache) B2Manifold {
		return B2CollidePolygons(shapeA.Polygon, xfA, shapeB.Polygon, xfB, cache)
	}, B2ShapeType.E_polygonShape, B2ShapeType.E_polygonShape)

	b2AddType(&registers, func(shapeA *b2Shape, xfA B2Transform, shapeB *b2Shape, xfB B2Transform, cache *B2DistanceCache) B2Manifold {
		return B2CollideSegmentAndCircle(shapeA.Segment, xfA, shapeB.Circle, xfB)
	}, B2ShapeType.E_segmentShape, B2ShapeType.E_circleShape)

	b2AddType(&registers, func(shapeA *b2Shape, xfA B2Transform, shapeB *b2Shape, xfB B2Transform, cache *B2DistanceCache) B2Manifold {
		return B2CollideSegmentAndCapsule(shapeA.Segment, xfA, shapeB.Capsule, xfB, cache)
	}, B2ShapeType.E_segmentShape, B2ShapeType.E_capsuleShape)

	b2AddType(&registers, func(shapeA *b2Shape, xfA B2Transform, shapeB *b2Shape, xfB B2Transform, cache *B2DistanceCache) B2Manifold {
		return B2CollideSegmentAndPolygon(shapeA.Segment, xfA, shapeB.Polygon, xfB, cache)
	}, B2ShapeType.E_segmentShape, B2ShapeType.E_polygonShape)

	b2AddType(&registers, func(shapeA *b2Shape, xfA B2Transform, shapeB *b2Shape, xfB B2Transform, cache *B2DistanceCache) B2Manifold {
		return B2CollideSmoothSegmentAndCircle(shapeA.SmoothSegment, xfA, shapeB.Circle, xfB)
	}, B2ShapeType.E_smoothSegmentShape, B2ShapeType.E_circleShape)

	b2AddType(&registers, func(shapeA *b2Shape, xfA B2Transform, shapeB *b2Shape, xfB B2Transform, cache *B2DistanceCache) B2Manifold {
		return B2CollideSmoothSegmentAndCapsule(shapeA.SmoothSegment, xfA, shapeB.Capsule, xfB, cache)
	}, B2ShapeType.E_smoothSegmentShape, B2ShapeType.E_capsuleShape)

	b2AddType(&registers, func(shapeA *b2Shape, xfA B2Transform, shapeB *b2Shape, xfB B2Transform, cache *B2DistanceCache) B2Manifold {
		return B2CollideSmoothSegmentAndPolygon(shapeA.SmoothSegment, xfA, shapeB.Polygon, xfB, cache)
	}, B2ShapeType.E_smoothSegmentShape, B2ShapeType.E_polygonShape)

	return registers
}

/// Friction mixing law. The idea is to allow either shape to drive the friction to zero.
/// For example, anything slides on ice.
func B2MixFriction(friction1, friction2 float64) float64 {
	return math.Sqrt(friction1 * friction2)
}

/// Restitution mixing law. The idea is allow for anything to bounce off an inelastic surface.
/// For example, a superball bounces on anything.
func B2MixRestitution(restitution1, restitution2 float64) float64 {
	return math.Max(restitution1, restitution2)
}

// Create a contact for a new broad-phase pair. Returns false if the shape
// types never collide, in which case the pair is not remembered.
func b2CreateContact(world *b2World, shapeA *b2Shape, shapeB *b2Shape) bool {
	type1 := shapeA.Type
	type2 := shapeB.Type

	if b2_registers[type1][type2].fcn == nil {
		// For example, no segment vs segment collision
		return false
	}

	if b2_registers[type1][type2].primary == false {
		// flip order
		return b2CreateContact(world, shapeB, shapeA)
	}

	bodyA := world.bodies.Get(shapeA.BodyId)
	bodyB := world.bodies.Get(shapeB.BodyId)

	contactId, _ := world.contacts.Allocate()
	contact := world.contacts.Get(contactId)

	var flags uint32
	if shapeA.IsSensor || shapeB.IsSensor {
		flags |= B2ContactFlags.E_sensorFlag
	}

	if shapeA.EnableSensorEvents || shapeB.EnableSensorEvents {
		flags |= B2ContactFlags.E_enableSensorEvents
	}

	if shapeA.EnableContactEvents || shapeB.EnableContactEvents {
		flags |= B2ContactFlags.E_enableContactEvents
	}

	*contact = b2Contact{
		Flags:       flags,
		ShapeIdA:    shapeA.Id,
		ShapeIdB:    shapeB.Id,
		IslandId:    B2_nullIndex,
		IslandPrev:  B2_nullIndex,
		IslandNext:  B2_nullIndex,
		ColorIndex:  B2_nullIndex,
		LocalIndex:  B2_nullIndex,
		ContactId:   contactId,
		Friction:    B2MixFriction(shapeA.Friction, shapeB.Friction),
		Restitution: B2MixRestitution(shapeA.Restitution, shapeB.Restitution),
	}

	// Connect to body A
	{
		contact.Edges[0].BodyId = shapeA.BodyId
		contact.Edges[0].PrevKey = B2_nullIndex
		contact.Edges[0].NextKey = bodyA.HeadContactKey

		keyA := (contactId << 1) | 0
		headContactKey := bodyA.HeadContactKey
		if headContactKey != B2_nullIndex {
			headContact := world.contacts.Get(headContactKey >> 1)
			headContact.Edges[headContactKey&1].PrevKey = keyA
		}
		bodyA.HeadContactKey = keyA
		bodyA.ContactCount += 1
	}

	// Connect to body B
	{
		contact.Edges[1].BodyId = shapeB.BodyId
		contact.Edges[1].PrevKey = B2_nullIndex
		contact.Edges[1].NextKey = bodyB.HeadContactKey

		keyB := (contactId << 1) | 1
		headContactKey := bodyB.HeadContactKey
		if headContactKey != B2_nullIndex {
			headContact := world.contacts.Get(headContactKey >> 1)
			headContact.Edges[headContactKey&1].PrevKey = keyB
		}
		bodyB.HeadContactKey = keyB
		bodyB.ContactCount += 1
	}

	return true
}

// Destroy a contact. A touching contact reports an end event if events are enabled.
func b2DestroyContact(world *b2World, contact *b2Contact, wakeBodies bool) {
	world.broadPhase.RemovePair(contact.ShapeIdA, contact.ShapeIdB)

	flags := contact.Flags
	if flags&B2ContactFlags.E_touchingFlag != 0 {
		if flags&B2ContactFlags.E_sensorFlag != 0 {
			if flags&B2ContactFlags.E_enableSensorEvents != 0 {
				b2PushSensorEndEvents(world, contact)
			}
		} else if flags&B2ContactFlags.E_enableContactEvents != 0 {
			world.contactEndArray = append(world.contactEndArray, B2ContactEndTouchEvent{
				ShapeIdA: b2MakeShapeId(world, contact.ShapeIdA),
				ShapeIdB: b2MakeShapeId(world, contact.ShapeIdB),
			})
		}
	}

	edgeA := contact.Edges[0]
	edgeB := contact.Edges[1]

	bodyIdA := edgeA.BodyId
	bodyIdB := edgeB.BodyId
	bodyA := world.bodies.Get(bodyIdA)
	bodyB := world.bodies.Get(bodyIdB)

	// Remove from body A
	if edgeA.PrevKey != B2_nullIndex {
		prevContact := world.contacts.Get(edgeA.PrevKey >> 1)
		prevContact.Edges[edgeA.PrevKey&1].NextKey = edgeA.NextKey
	}

	if edgeA.NextKey != B2_nullIndex {
		nextContact := world.contacts.Get(edgeA.NextKey >> 1)
		nextContact.Edges[edgeA.NextKey&1].PrevKey = edgeA.PrevKey
	}

	contactId := contact.ContactId

	edgeKeyA := (contactId << 1) | 0
	if bodyA.HeadContactKey == edgeKeyA {
		bodyA.HeadContactKey = edgeA.NextKey
	}

	bodyA.ContactCount -= 1

	// Remove from body B
	if edgeB.PrevKey != B2_nullIndex {
		prevContact := world.contacts.Get(edgeB.PrevKey >> 1)
		prevContact.Edges[edgeB.PrevKey&1].NextKey = edgeB.NextKey
	}

	if edgeB.NextKey != B2_nullIndex {
		nextContact := world.contacts.Get(edgeB.NextKey >> 1)
		nextContact.Edges[edgeB.NextKey&1].PrevKey = edgeB.PrevKey
	}

	edgeKeyB := (contactId << 1) | 1
	if bodyB.HeadContactKey == edgeKeyB {
		bodyB.HeadContactKey = edgeB.NextKey
	}

	bodyB.ContactCount -= 1

	// Remove contact from the island and the constraint graph that own it
	if contact.IslandId != B2_nullIndex {
		b2UnlinkContact(world, contact)
	}

	if contact.ColorIndex != B2_nullIndex {
		b2RemoveContactFromGraph(world, bodyA, bodyB, contact)
	}

	world.contacts.Free(contactId)

	if wakeBodies {
		b2WakeBody(world, bodyA)
		b2WakeBody(world, bodyB)
	}
}

func b2PushSensorBeginEvents(world *b2World, contact *b2Contact) {
	shapeA := world.shapes.Get(contact.ShapeIdA)
	shapeB := world.shapes.Get(contact.ShapeIdB)
	shapeIdA := b2MakeShapeId(world, contact.ShapeIdA)
	shapeIdB := b2MakeShapeId(world, contact.ShapeIdB)

	if shapeA.IsSensor {
		world.sensorBeginArray = append(world.sensorBeginArray, B2SensorBeginTouchEvent{SensorShapeId: shapeIdA, VisitorShapeId: shapeIdB})
	}

	if shapeB.IsSensor {
		world.sensorBeginArray = append(world.sensorBeginArray, B2SensorBeginTouchEvent{SensorShapeId: shapeIdB, VisitorShapeId: shapeIdA})
	}
}

func b2PushSensorEndEvents(world *b2World, contact *b2Contact) {
	shapeA := world.shapes.Get(contact.ShapeIdA)
	shapeB := world.shapes.Get(contact.ShapeIdB)
	shapeIdA := b2MakeShapeId(world, contact.ShapeIdA)
	shapeIdB := b2MakeShapeId(world, contact.ShapeIdB)

	if shapeA.IsSensor {
		world.sensorEndArray = append(world.sensorEndArray, B2SensorEndTouchEvent{SensorShapeId: shapeIdA, VisitorShapeId: shapeIdB})
	}

	if shapeB.IsSensor {
		world.sensorEndArray = append(world.sensorEndArray, B2SensorEndTouchEvent{SensorShapeId: shapeIdB, VisitorShapeId: shapeIdA})
	}
}

// Update the contact manifold and touching status. Also used by sensors.
// Returns true if the shapes are touching. Runs on worker tasks, so it
// only writes to the contact itself.
func b2UpdateContact(world *b2World, contact *b2Contact, shapeA *b2Shape, transformA B2Transform, centerOffsetA B2Vec2,
	shapeB *b2Shape, transformB B2Transform, centerOffsetB B2Vec2) bool {

	if contact.Flags&B2ContactFlags.E_sensorFlag != 0 {
		// Sensors don't need a manifold
		proxyA := b2MakeShapeDistanceProxy(shapeA)
		proxyB := b2MakeShapeDistanceProxy(shapeB)
		return B2TestOverlap(proxyA, transformA, proxyB, transformB, &contact.Cache)
	}

	oldManifold := contact.Manifold

	fcn := b2_registers[shapeA.Type][shapeB.Type].fcn
	contact.Manifold = fcn(shapeA, transformA, shapeB, transformB, &contact.Cache)

	// Keep these updated in case the values on the shapes are modified
	contact.Friction = B2MixFriction(shapeA.Friction, shapeB.Friction)
	contact.Restitution = B2MixRestitution(shapeA.Restitution, shapeB.Restitution)

	pointCount := contact.Manifold.PointCount
	touching := pointCount > 0

	if touching && world.preSolveFcn != nil && (shapeA.EnablePreSolveEvents || shapeB.EnablePreSolveEvents) {
		shapeIdA := b2MakeShapeId(world, shapeA.Id)
		shapeIdB := b2MakeShapeId(world, shapeB.Id)

		// this call assumes thread safety
		touching = world.preSolveFcn(shapeIdA, shapeIdB, &contact.Manifold, world.preSolveContext)
		if touching == false {
			// disable contact
			contact.Manifold.PointCount = 0
			pointCount = 0
		}
	}

	if shapeA.EnableHitEvents || shapeB.EnableHitEvents {
		contact.Flags |= B2ContactFlags.E_enableHitEvents
	} else {
		contact.Flags &= ^B2ContactFlags.E_enableHitEvents
	}

	// Match old contact ids to new contact ids and copy the
	// stored impulses to warm start the solver.
	for i := 0; i < pointCount; i++ {
		mp2 := &contact.Manifold.Points[i]

		// shift anchors to be center of mass relative
		mp2.AnchorA = B2Vec2Sub(mp2.AnchorA, centerOffsetA)
		mp2.AnchorB = B2Vec2Sub(mp2.AnchorB, centerOffsetB)

		mp2.NormalImpulse = 0.0
		mp2.TangentImpulse = 0.0
		mp2.Persisted = false

		id2 := mp2.Id

		for j := 0; j < oldManifold.PointCount; j++ {
			mp1 := &oldManifold.Points[j]

			if mp1.Id == id2 {
				mp2.NormalImpulse = mp1.NormalImpulse
				mp2.TangentImpulse = mp1.TangentImpulse
				mp2.Persisted = true
				break
			}
		}
	}

	return touching
}
