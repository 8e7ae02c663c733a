package box2d

import (
	"math"
	"time"

	"golang.org/x/exp/slices"
)

// Per worker scratch. Workers never write to shared state during a task; they
// record what changed here and the step merges the results serially.
type b2TaskContext struct {
	// Contacts whose touching state changed, by contact id
	contactStateBitSet B2BitSet

	// Awake bodies whose shapes need a broad-phase enlargement, by awake index
	enlargedBodyBitSet B2BitSet

	// Islands that must stay awake, by awake island index
	awakeIslandBitSet B2BitSet

	// Sleepiest island that needs splitting before it can sleep
	splitIslandId  int32
	splitSleepTime float64
}

func (world *b2World) taskContext(workerIndex int) *b2TaskContext {
	B2Assert(0 <= workerIndex && workerIndex < len(world.taskContexts))
	return &world.taskContexts[workerIndex]
}

// Run fn over [0, itemCount) on the world scheduler and wait for it.
func (world *b2World) runTask(itemCount int, minRange int, fn func(startIndex int, endIndex int, workerIndex int)) {
	if itemCount == 0 {
		return
	}

	task := func(startIndex int, endIndex int, workerIndex int, context any) {
		fn(startIndex, endIndex, workerIndex)
	}

	handle := world.scheduler.EnqueueTask(task, itemCount, minRange, nil)
	if handle != nil {
		world.scheduler.FinishTask(handle)
	}
}

func b2ElapsedMilliseconds(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}

///////////////////////////////////////////////////////////////////////////////
// Broad-phase pairs
///////////////////////////////////////////////////////////////////////////////

// Pair filter used by the broad-phase queries. Runs on worker tasks.
func b2PairQueryFilter(world *b2World) B2BroadPhasePairFilter {
	return func(shapeIndexA int32, shapeIndexB int32) bool {
		shapeA := world.shapes.Get(shapeIndexA)
		shapeB := world.shapes.Get(shapeIndexB)

		// Are the shapes on the same body?
		if shapeA.BodyId == shapeB.BodyId {
			return false
		}

		if B2ShouldShapesCollide(shapeA.Filter, shapeB.Filter) == false {
			return false
		}

		// Sensors don't collide with other sensors
		if shapeA.IsSensor && shapeB.IsSensor {
			return false
		}

		// Does a joint override collision? Is at least one body dynamic?
		bodyA := world.bodies.Get(shapeA.BodyId)
		bodyB := world.bodies.Get(shapeB.BodyId)
		if b2ShouldBodiesCollide(world, bodyA, bodyB) == false {
			return false
		}

		// Custom user filtering
		if world.customFilterFcn != nil && (shapeA.EnableCustomFiltering || shapeB.EnableCustomFiltering) {
			shapeIdA := b2MakeShapeId(world, shapeIndexA)
			shapeIdB := b2MakeShapeId(world, shapeIndexB)
			if world.customFilterFcn(shapeIdA, shapeIdB, world.customFilterContext) == false {
				return false
			}
		}

		return true
	}
}

// Find new pairs for moved proxies and create their contacts.
func b2UpdateBroadPhasePairs(world *b2World) {
	addPair := func(shapeIndexA int32, shapeIndexB int32) bool {
		shapeA := world.shapes.Get(shapeIndexA)
		shapeB := world.shapes.Get(shapeIndexB)
		return b2CreateContact(world, shapeA, shapeB)
	}

	world.broadPhase.UpdatePairs(world.scheduler, b2PairQueryFilter(world), addPair)
}

///////////////////////////////////////////////////////////////////////////////
// Narrow phase
///////////////////////////////////////////////////////////////////////////////

// A contact is simulated when at least one of its bodies is awake. Contacts
// between sleeping bodies and static bodies keep their last state.
func b2IsContactAwake(world *b2World, contact *b2Contact) bool {
	bodyA := world.bodies.Get(contact.Edges[0].BodyId)
	bodyB := world.bodies.Get(contact.Edges[1].BodyId)
	return bodyA.AwakeIndex != B2_nullIndex || bodyB.AwakeIndex != B2_nullIndex
}

func b2CollideTask(world *b2World, startIndex int, endIndex int, workerIndex int) {
	taskContext := world.taskContext(workerIndex)
	contactIds := world.contactIdArray

	for i := startIndex; i < endIndex; i++ {
		contactId := contactIds[i]
		contact := world.contacts.Get(contactId)

		shapeA := world.shapes.Get(contact.ShapeIdA)
		shapeB := world.shapes.Get(contact.ShapeIdB)

		// Do proxies still overlap?
		overlap := B2TestOverlapBoundingBoxes(shapeA.FatAABB, shapeB.FatAABB)
		if overlap == false {
			contact.SimFlags |= b2ContactSimFlags.E_disjoint
			taskContext.contactStateBitSet.SetBit(int(contactId))
			continue
		}

		wasTouching := contact.Flags&B2ContactFlags.E_touchingFlag != 0

		bodyA := world.bodies.Get(shapeA.BodyId)
		bodyB := world.bodies.Get(shapeB.BodyId)

		transformA := bodyA.Transform
		transformB := bodyB.Transform
		centerOffsetA := B2RotVec2Mul(transformA.Q, bodyA.LocalCenter)
		centerOffsetB := B2RotVec2Mul(transformB.Q, bodyB.LocalCenter)

		// This updates solid contacts and sensors
		touching := b2UpdateContact(world, contact, shapeA, transformA, centerOffsetA, shapeB, transformB, centerOffsetB)

		if touching && wasTouching == false {
			contact.SimFlags |= b2ContactSimFlags.E_startedTouching
			taskContext.contactStateBitSet.SetBit(int(contactId))
		} else if touching == false && wasTouching {
			contact.SimFlags |= b2ContactSimFlags.E_stoppedTouching
			taskContext.contactStateBitSet.SetBit(int(contactId))
		}
	}
}

// Update the broad-phase pairs and every awake contact, then apply the
// touching transitions serially in contact id order.
func b2Collide(world *b2World) {
	// Tasks that can be done in parallel with the narrow-phase.
	pairTimer := time.Now()
	b2UpdateBroadPhasePairs(world)
	world.profile.Pairs = b2ElapsedMilliseconds(pairTimer)

	// The pairs are final, so the dynamic and kinematic trees can be rebuilt
	// while the narrow phase and the solver run. Finished in b2Solve before
	// any proxy is enlarged.
	B2Assert(world.treeTask == nil)
	world.treeTask = world.scheduler.EnqueueTask(b2RebuildTreesTask, 1, 1, world)

	collideTimer := time.Now()

	world.contactIdArray = world.contactIdArray[:0]
	world.contacts.ForEach(func(contactId int32, contact *b2Contact) {
		if b2IsContactAwake(world, contact) {
			world.contactIdArray = append(world.contactIdArray, contactId)
		}
	})

	contactCapacity := world.contacts.Capacity()
	for i := range world.taskContexts {
		world.taskContexts[i].contactStateBitSet.SetBitCountAndClear(contactCapacity)
	}

	world.runTask(len(world.contactIdArray), 64, func(startIndex int, endIndex int, workerIndex int) {
		b2CollideTask(world, startIndex, endIndex, workerIndex)
	})

	// Gather bits for all contacts that have changed state
	bitSet := &world.taskContexts[0].contactStateBitSet
	for i := 1; i < len(world.taskContexts); i++ {
		bitSet.InPlaceUnion(world.taskContexts[i].contactStateBitSet)
	}

	// Process contact state changes. Iterate over set bits
	bitSet.ForEach(func(bitIndex int) {
		contactId := int32(bitIndex)
		contact := world.contacts.Get(contactId)

		flags := contact.Flags
		simFlags := contact.SimFlags
		contact.SimFlags = 0

		if simFlags&b2ContactSimFlags.E_disjoint != 0 {
			// Bounding boxes no longer overlap
			b2DestroyContact(world, contact, false)
		} else if simFlags&b2ContactSimFlags.E_startedTouching != 0 {
			contact.Flags |= B2ContactFlags.E_touchingFlag

			if flags&B2ContactFlags.E_sensorFlag != 0 {
				// Contact is a sensor
				if flags&B2ContactFlags.E_enableSensorEvents != 0 {
					b2PushSensorBeginEvents(world, contact)
				}
			} else {
				// Link first because this wakes colliding bodies and ensures the body sims are in the correct place.
				if flags&B2ContactFlags.E_enableContactEvents != 0 {
					world.contactBeginArray = append(world.contactBeginArray, B2ContactBeginTouchEvent{
						ShapeIdA: b2MakeShapeId(world, contact.ShapeIdA),
						ShapeIdB: b2MakeShapeId(world, contact.ShapeIdB),
					})
				}

				b2LinkContact(world, contact)
				b2AddContactToGraph(world, contact)
			}
		} else if simFlags&b2ContactSimFlags.E_stoppedTouching != 0 {
			contact.Flags &^= B2ContactFlags.E_touchingFlag

			if flags&B2ContactFlags.E_sensorFlag != 0 {
				if flags&B2ContactFlags.E_enableSensorEvents != 0 {
					b2PushSensorEndEvents(world, contact)
				}
			} else {
				if flags&B2ContactFlags.E_enableContactEvents != 0 {
					world.contactEndArray = append(world.contactEndArray, B2ContactEndTouchEvent{
						ShapeIdA: b2MakeShapeId(world, contact.ShapeIdA),
						ShapeIdB: b2MakeShapeId(world, contact.ShapeIdB),
					})
				}

				b2UnlinkContact(world, contact)
				if contact.ColorIndex != B2_nullIndex {
					bodyA := world.bodies.Get(contact.Edges[0].BodyId)
					bodyB := world.bodies.Get(contact.Edges[1].BodyId)
					b2RemoveContactFromGraph(world, bodyA, bodyB, contact)
				}
			}
		}
	})

	b2ValidateSolverSets(world)

	world.profile.Collide = b2ElapsedMilliseconds(collideTimer)
}

///////////////////////////////////////////////////////////////////////////////
// Solver stages
///////////////////////////////////////////////////////////////////////////////

func b2IntegrateVelocitiesTask(context *b2StepContext, startIndex int, endIndex int) {
	world := context.world
	gravity := world.gravity
	h := context.h
	maxLinearSpeed := context.maxLinearVelocity
	maxAngularSpeed := B2_maxRotation * context.inv_dt
	maxLinearSquared := maxLinearSpeed * maxLinearSpeed
	maxAngularSquared := maxAngularSpeed * maxAngularSpeed

	for i := startIndex; i < endIndex; i++ {
		body := world.bodies.Get(world.awakeBodies[i])
		state := &context.states[i]

		v := state.LinearVelocity
		w := state.AngularVelocity

		// Apply forces, torque, gravity and damping.
		// Differential equation: dv/dt + c * v = 0
		// Solution: v(t) = v0 * exp(-c * t)
		// Time step: v(t + dt) = v0 * exp(-c * (t + dt)) = v0 * exp(-c * t) * exp(-c * dt) = v(t) * exp(-c * dt)
		// v2 = exp(-c * dt) * v1
		// Pade approximation:
		// v2 = v1 * 1 / (1 + c * dt)
		linearDamping := 1.0 / (1.0 + h*body.LinearDamping)
		angularDamping := 1.0 / (1.0 + h*body.AngularDamping)

		// Gravity scale will not apply if the mass is zero
		linearVelocityDelta := B2Vec2MulScalar(h*body.InvMass, B2Vec2MulAdd(body.Force, body.Mass*body.GravityScale, gravity))
		angularVelocityDelta := h * body.InvInertia * body.Torque

		v = B2Vec2MulAdd(linearVelocityDelta, linearDamping, v)
		w = angularVelocityDelta + angularDamping*w

		// Clamp to max linear speed
		if B2Vec2Dot(v, v) > maxLinearSquared {
			ratio := maxLinearSpeed / v.Length()
			v = B2Vec2MulScalar(ratio, v)
			body.IsSpeedCapped = true
		}

		// Clamp to max angular speed
		if w*w > maxAngularSquared && body.IsBullet == false {
			ratio := maxAngularSpeed / math.Abs(w)
			w *= ratio
			body.IsSpeedCapped = true
		}

		state.LinearVelocity = v
		state.AngularVelocity = w
	}
}

func b2IntegratePositionsTask(context *b2StepContext, startIndex int, endIndex int) {
	h := context.h

	for i := startIndex; i < endIndex; i++ {
		state := &context.states[i]
		state.DeltaRotation = B2IntegrateRotation(state.DeltaRotation, h*state.AngularVelocity)
		state.DeltaPosition = B2Vec2MulAdd(state.DeltaPosition, h, state.LinearVelocity)
	}
}

type b2SolverStage uint8

const (
	b2_stagePrepareJoints b2SolverStage = iota
	b2_stagePrepareContacts
	b2_stageIntegrateVelocities
	b2_stageWarmStart
	b2_stageSolve
	b2_stageIntegratePositions
	b2_stageRelax
	b2_stageRestitution
	b2_stageStoreImpulses
)

// Joints of one color. Runs on worker tasks, joints of a color share no dynamic body.
func b2JointsTask(context *b2StepContext, stage b2SolverStage, colorIndex int, startIndex int, endIndex int) {
	world := context.world
	jointIds := context.jointIds[colorIndex]

	for i := startIndex; i < endIndex; i++ {
		joint := world.joints.Get(jointIds[i])

		switch stage {
		case b2_stagePrepareJoints:
			b2PrepareJoint(joint, context)
		case b2_stageWarmStart:
			b2WarmStartJoint(joint, context)
		case b2_stageSolve:
			b2SolveJoint(joint, context, true)
		case b2_stageRelax:
			b2SolveJoint(joint, context, false)
		default:
			B2Assert(false)
		}
	}
}

func b2ContactsTask(context *b2StepContext, stage b2SolverStage, colorIndex int, startIndex int, endIndex int) {
	switch stage {
	case b2_stagePrepareContacts:
		b2PrepareContacts(context, colorIndex, startIndex, endIndex)
	case b2_stageWarmStart:
		b2WarmStartContacts(context, colorIndex, startIndex, endIndex)
	case b2_stageSolve:
		b2SolveContacts(context, colorIndex, startIndex, endIndex, true)
	case b2_stageRelax:
		b2SolveContacts(context, colorIndex, startIndex, endIndex, false)
	case b2_stageRestitution:
		b2ApplyRestitution(context, colorIndex, startIndex, endIndex)
	case b2_stageStoreImpulses:
		b2StoreImpulses(context, colorIndex, startIndex, endIndex)
	default:
		B2Assert(false)
	}
}

// Execute a stage over every color. The overflow constraints are solved
// first on the calling goroutine. Each color is a parallel-for that is joined
// before the next color starts because colors share bodies.
func b2ExecuteStage(context *b2StepContext, stage b2SolverStage) {
	world := context.world

	switch stage {
	case b2_stageIntegrateVelocities:
		world.runTask(len(context.states), 64, func(startIndex int, endIndex int, workerIndex int) {
			b2IntegrateVelocitiesTask(context, startIndex, endIndex)
		})
		return

	case b2_stageIntegratePositions:
		world.runTask(len(context.states), 64, func(startIndex int, endIndex int, workerIndex int) {
			b2IntegratePositionsTask(context, startIndex, endIndex)
		})
		return
	}

	withJoints := stage == b2_stagePrepareJoints || stage == b2_stageWarmStart || stage == b2_stageSolve || stage == b2_stageRelax
	withContacts := stage != b2_stagePrepareJoints

	// Overflow
	if withJoints {
		b2JointsTask(context, stage, B2_overflowIndex, 0, len(context.jointIds[B2_overflowIndex]))
	}
	if withContacts {
		b2ContactsTask(context, stage, B2_overflowIndex, 0, len(context.contactConstraints[B2_overflowIndex]))
	}

	for colorIndex := 0; colorIndex < B2_graphColorCount; colorIndex++ {
		if withJoints {
			world.runTask(len(context.jointIds[colorIndex]), 16, func(startIndex int, endIndex int, workerIndex int) {
				b2JointsTask(context, stage, colorIndex, startIndex, endIndex)
			})
		}

		if withContacts {
			world.runTask(len(context.contactConstraints[colorIndex]), 32, func(startIndex int, endIndex int, workerIndex int) {
				b2ContactsTask(context, stage, colorIndex, startIndex, endIndex)
			})
		}
	}
}

// Sub-stepping soft step. Each sub-step integrates velocities, warm starts,
// solves with bias, integrates positions and relaxes without bias.
// Restitution and impulse storage run once at the end.
func b2SolverStep(context *b2StepContext) {
	prepareTimer := time.Now()
	b2ExecuteStage(context, b2_stagePrepareJoints)
	b2ExecuteStage(context, b2_stagePrepareContacts)
	context.world.profile.PrepareStages = b2ElapsedMilliseconds(prepareTimer)

	solveTimer := time.Now()
	for i := 0; i < context.subStepCount; i++ {
		b2ExecuteStage(context, b2_stageIntegrateVelocities)
		b2ExecuteStage(context, b2_stageWarmStart)
		b2ExecuteStage(context, b2_stageSolve)
		b2ExecuteStage(context, b2_stageIntegratePositions)
		for j := 0; j < context.relaxIterations; j++ {
			b2ExecuteStage(context, b2_stageRelax)
		}
	}

	b2ExecuteStage(context, b2_stageRestitution)
	b2ExecuteStage(context, b2_stageStoreImpulses)
	context.world.profile.SolveConstraints = b2ElapsedMilliseconds(solveTimer)
}

///////////////////////////////////////////////////////////////////////////////
// Continuous collision
///////////////////////////////////////////////////////////////////////////////

func b2MakeBodySweep(body *b2Body) B2Sweep {
	return B2Sweep{
		LocalCenter: body.LocalCenter,
		C1:          body.Center0,
		C2:          body.Center,
		Q1:          body.Rotation0,
		Q2:          body.Transform.Q,
	}
}

type b2ContinuousContext struct {
	world     *b2World
	fastBody  *b2Body
	fastShape *b2Shape
	centroid1 B2Vec2
	centroid2 B2Vec2
	sweep     B2Sweep
	fraction  float64
}

// Tree query callback for the time of impact of the fast shape against one shape.
func (context *b2ContinuousContext) queryCallback(proxyId int32, shapeId int32) bool {
	world := context.world
	fastShape := context.fastShape
	fastBody := context.fastBody

	// Skip same shape
	if shapeId == fastShape.Id {
		return true
	}

	shape := world.shapes.Get(shapeId)

	// Skip same body
	if shape.BodyId == fastShape.BodyId {
		return true
	}

	// Skip sensors
	if shape.IsSensor {
		return true
	}

	// Skip filtered shapes
	if B2ShouldShapesCollide(fastShape.Filter, shape.Filter) == false {
		return true
	}

	body := world.bodies.Get(shape.BodyId)

	// Skip bullets
	if body.IsBullet {
		return true
	}

	// Skip filtered bodies
	if b2ShouldBodiesCollide(world, fastBody, body) == false {
		return true
	}

	// Custom user filtering
	if world.customFilterFcn != nil && (shape.EnableCustomFiltering || fastShape.EnableCustomFiltering) {
		shapeIdA := b2MakeShapeId(world, shape.Id)
		shapeIdB := b2MakeShapeId(world, fastShape.Id)
		if world.customFilterFcn(shapeIdA, shapeIdB, world.customFilterContext) == false {
			return true
		}
	}

	// Prevent pausing on smooth segments early. Only the front side of a chain
	// segment stops the fast shape.
	if shape.Type == B2ShapeType.E_smoothSegmentShape {
		transform := body.Transform
		p1 := B2TransformVec2Mul(transform, shape.SmoothSegment.Segment.Point1)
		p2 := B2TransformVec2Mul(transform, shape.SmoothSegment.Segment.Point2)
		e := B2Vec2Sub(p2, p1)
		c1 := context.centroid1
		c2 := context.centroid2
		offset1 := B2Vec2Cross(B2Vec2Sub(c1, p1), e)
		offset2 := B2Vec2Cross(B2Vec2Sub(c2, p1), e)
		if offset1 < 0.0 || offset2 > 0.0 {
			// Started behind or finished in front
			return true
		}
	}

	input := B2TOIInput{
		ProxyA: b2MakeShapeDistanceProxy(shape),
		ProxyB: b2MakeShapeDistanceProxy(fastShape),
		SweepA: b2MakeBodySweep(body),
		SweepB: context.sweep,
		TMax:   context.fraction,
	}

	hitFraction := context.fraction
	didHit := false
	output := B2TimeOfImpact(input)
	if 0.0 < output.T && output.T < context.fraction {
		hitFraction = output.T
		didHit = true
	} else if output.T == 0.0 {
		// fallback to TOI of a small circle around the fast shape centroid
		centroid := b2GetShapeCentroid(fastShape)
		input.ProxyB = B2MakeProxy([]B2Vec2{centroid}, B2_speculativeDistance)
		output = B2TimeOfImpact(input)
		if 0.0 < output.T && output.T < context.fraction {
			hitFraction = output.T
			didHit = true
		}
	}

	if didHit {
		context.fraction = hitFraction
	}

	// Continue query
	return true
}

func b2FattenAABB(aabb B2AABB, margin float64) B2AABB {
	return MakeB2AABB(
		MakeB2Vec2(aabb.LowerBound.X-margin, aabb.LowerBound.Y-margin),
		MakeB2Vec2(aabb.UpperBound.X+margin, aabb.UpperBound.Y+margin),
	)
}

// Sweep a fast body against static shapes, and for bullets also against
// kinematic and non-bullet dynamic shapes. The body is moved back to the
// first time of impact. Returns true if a shape AABB needs enlargement.
func b2SolveContinuous(world *b2World, body *b2Body) bool {
	sweep := b2MakeBodySweep(body)

	xf1 := B2Transform{Q: sweep.Q1, P: B2Vec2Sub(sweep.C1, B2RotVec2Mul(sweep.Q1, sweep.LocalCenter))}
	xf2 := B2Transform{Q: sweep.Q2, P: B2Vec2Sub(sweep.C2, B2RotVec2Mul(sweep.Q2, sweep.LocalCenter))}

	staticTree := &world.broadPhase.Trees[B2BodyType.E_staticBody]
	kinematicTree := &world.broadPhase.Trees[B2BodyType.E_kinematicBody]
	dynamicTree := &world.broadPhase.Trees[B2BodyType.E_dynamicBody]

	context := b2ContinuousContext{
		world:    world,
		fastBody: body,
		sweep:    sweep,
		fraction: 1.0,
	}

	isBullet := body.IsBullet

	shapeId := body.HeadShapeId
	for shapeId != B2_nullIndex {
		fastShape := world.shapes.Get(shapeId)
		shapeId = fastShape.NextShapeId

		// Clear flag (keep set on body)
		fastShape.IsFast = false

		context.fastShape = fastShape
		context.centroid1 = B2TransformVec2Mul(xf1, fastShape.LocalCentroid)
		context.centroid2 = B2TransformVec2Mul(xf2, fastShape.LocalCentroid)

		box1 := fastShape.AABB
		box2 := b2ComputeShapeAABB(fastShape, xf2)
		box := B2AABBUnion(box1, box2)

		// Store this to avoid double computation in the case there is no impact event
		fastShape.AABB = box2

		// No continuous collision for sensors (but still need the updated bounds)
		if fastShape.IsSensor {
			continue
		}

		staticTree.Query(box, B2_defaultMaskBits, context.queryCallback)

		if isBullet {
			kinematicTree.Query(box, B2_defaultMaskBits, context.queryCallback)
			dynamicTree.Query(box, B2_defaultMaskBits, context.queryCallback)
		}
	}

	enlargeAABB := false

	if context.fraction < 1.0 {
		// Handle time of impact event
		q := B2NLerp(sweep.Q1, sweep.Q2, context.fraction)
		c := B2Vec2Lerp(sweep.C1, sweep.C2, context.fraction)
		origin := B2Vec2Sub(c, B2RotVec2Mul(q, sweep.LocalCenter))

		// Prepare AABBs for broad-phase.
		// Even though a body is fast, it may not move much. So the AABB may not need enlargement.
		transform := B2Transform{P: origin, Q: q}
		body.Transform = transform
		body.Center = c
		body.Rotation0 = q
		body.Center0 = c

		shapeId = body.HeadShapeId
		for shapeId != B2_nullIndex {
			shape := world.shapes.Get(shapeId)

			// Must recompute aabb at the interpolated transform
			aabb := b2FattenAABB(b2ComputeShapeAABB(shape, transform), B2_speculativeDistance)
			shape.AABB = aabb

			if shape.FatAABB.Contains(aabb) == false {
				shape.FatAABB = b2FattenAABB(aabb, B2_aabbMargin)
				shape.EnlargedAABB = true
				enlargeAABB = true
			}

			shapeId = shape.NextShapeId
		}
	} else {
		// No time of impact event

		// Advance body
		body.Rotation0 = body.Transform.Q
		body.Center0 = body.Center

		shapeId = body.HeadShapeId
		for shapeId != B2_nullIndex {
			shape := world.shapes.Get(shapeId)

			// shape.AABB is still valid from above
			if shape.FatAABB.Contains(shape.AABB) == false {
				shape.FatAABB = b2FattenAABB(shape.AABB, B2_aabbMargin)
				shape.EnlargedAABB = true
				enlargeAABB = true
			}

			shapeId = shape.NextShapeId
		}
	}

	return enlargeAABB
}

///////////////////////////////////////////////////////////////////////////////
// Finalize
///////////////////////////////////////////////////////////////////////////////

// Write the solver state back to the bodies, run sleep timers, continuous
// collision for non-bullets and shape bounds. Indexed by awake index.
func b2FinalizeBodiesTask(context *b2StepContext, startIndex int, endIndex int, workerIndex int) {
	world := context.world
	taskContext := world.taskContext(workerIndex)

	timeStep := context.dt
	invTimeStep := context.inv_dt

	enableSleep := world.enableSleep
	enableContinuous := world.enableContinuous

	speculativeDistance := B2_speculativeDistance
	aabbMargin := B2_aabbMargin

	for i := startIndex; i < endIndex; i++ {
		state := &context.states[i]
		body := world.bodies.Get(world.awakeBodies[i])

		v := state.LinearVelocity
		w := state.AngularVelocity

		B2Assert(v.IsValid())
		B2Assert(B2IsValid(w))

		body.Center = B2Vec2Add(body.Center, state.DeltaPosition)
		body.Transform.Q = B2NormalizeRot(B2RotMul(state.DeltaRotation, body.Transform.Q))

		// Use the velocity of the farthest point on the body to account for rotation.
		maxVelocity := v.Length() + math.Abs(w)*body.MaxExtent

		// Sleep needs to observe position correction movement because other position correction in the constraint
		// graph may be pushing the body.
		maxDeltaPosition := state.DeltaPosition.Length() + math.Abs(state.DeltaRotation.S)*body.MaxExtent

		// Position correction is not as important for sleep as true velocity.
		positionSleepFactor := 0.5
		sleepVelocity := math.Max(maxVelocity, positionSleepFactor*invTimeStep*maxDeltaPosition)

		// reset state deltas
		state.DeltaPosition = B2Vec2_zero
		state.DeltaRotation = B2Rot_identity

		body.Transform.P = B2Vec2Sub(body.Center, B2RotVec2Mul(body.Transform.Q, body.LocalCenter))
		body.LinearVelocity = v
		body.AngularVelocity = w

		// Each awake body owns the move event at its awake index
		world.bodyMoveEventArray[i] = B2BodyMoveEvent{
			Transform:  body.Transform,
			BodyId:     b2MakeBodyId(world, body.Id),
			UserData:   body.UserData,
			FellAsleep: false,
		}
		body.BodyMoveIndex = int32(i)

		// reset applied force and torque
		body.Force = B2Vec2_zero
		body.Torque = 0.0

		body.IsFast = false
		isBullet := body.IsBullet

		if enableSleep == false || body.EnableSleep == false || sleepVelocity > body.SleepThreshold {
			// Body is not sleepy
			body.SleepTime = 0.0

			const saftetyFactor = 0.5
			if body.Type == B2BodyType.E_dynamicBody && (enableContinuous || isBullet) &&
				maxVelocity*timeStep > saftetyFactor*body.MinExtent {
				// This flag is only retained for debug draw
				body.IsFast = true

				// Store in fast array for the continuous collision stage
				// This is deterministic because the order of the fast bodies doesn't matter
				if isBullet {
					context.bulletMutex.Lock()
					context.bulletBodies = append(context.bulletBodies, int32(i))
					context.bulletMutex.Unlock()
				} else {
					// Solve continuous collision against static shapes right away
					if b2SolveContinuous(world, body) {
						taskContext.enlargedBodyBitSet.SetBit(i)
					}
				}
			} else {
				// Body is safe to advance
				body.Center0 = body.Center
				body.Rotation0 = body.Transform.Q
			}
		} else {
			// Body is safe to advance
			body.Center0 = body.Center
			body.Rotation0 = body.Transform.Q
			body.SleepTime += timeStep
		}

		body.IsSpeedCapped = false

		if body.IslandId != B2_nullIndex {
			// Any single body in an island can keep it awake
			island := world.islands.Get(body.IslandId)
			if body.SleepTime < B2_timeToSleep {
				// keep the island awake
				taskContext.awakeIslandBitSet.SetBit(int(island.AwakeIndex))
			} else if island.ConstraintRemoveCount > 0 {
				// body wants to sleep but its island needs splitting first
				if b2IsBetterSplitCandidate(body.IslandId, body.SleepTime, taskContext.splitIslandId, taskContext.splitSleepTime) {
					// pick the sleepiest candidate
					taskContext.splitIslandId = body.IslandId
					taskContext.splitSleepTime = body.SleepTime
				}
			}
		} else if body.Type == B2BodyType.E_kinematicBody && body.SleepTime < B2_timeToSleep {
			// A moving kinematic body keeps the islands it touches awake
			b2MarkTouchingIslandsAwake(world, body, taskContext)
		}

		// Update shapes AABBs
		if body.IsFast {
			// For fast non-bullet bodies the AABB has already been updated in b2SolveContinuous
			// For fast bullet bodies the AABB will be updated at a later stage
			if isBullet {
				taskContext.enlargedBodyBitSet.SetBit(i)
			}
			continue
		}

		transform := body.Transform
		enlargeAABB := false
		shapeId := body.HeadShapeId
		for shapeId != B2_nullIndex {
			shape := world.shapes.Get(shapeId)

			aabb := b2FattenAABB(b2ComputeShapeAABB(shape, transform), speculativeDistance)
			shape.AABB = aabb

			B2Assert(shape.EnlargedAABB == false)

			if shape.FatAABB.Contains(aabb) == false {
				shape.FatAABB = b2FattenAABB(aabb, aabbMargin)
				shape.EnlargedAABB = true
				enlargeAABB = true
			}

			shapeId = shape.NextShapeId
		}

		if enlargeAABB {
			taskContext.enlargedBodyBitSet.SetBit(i)
		}
	}
}

// Reads islands only, so it is safe on worker tasks.
func b2MarkTouchingIslandsAwake(world *b2World, body *b2Body, taskContext *b2TaskContext) {
	contactKey := body.HeadContactKey
	for contactKey != B2_nullIndex {
		contactId := contactKey >> 1
		edgeIndex := contactKey & 1
		contact := world.contacts.Get(contactId)
		contactKey = contact.Edges[edgeIndex].NextKey

		if contact.Flags&B2ContactFlags.E_touchingFlag == 0 || contact.IslandId == B2_nullIndex {
			continue
		}

		island := world.islands.Get(contact.IslandId)
		if island.AwakeIndex != B2_nullIndex {
			taskContext.awakeIslandBitSet.SetBit(int(island.AwakeIndex))
		}
	}
}

// Enlarge the proxies of the shapes flagged by finalize or continuous collision.
func b2EnlargeBodyProxies(world *b2World, body *b2Body) {
	bp := &world.broadPhase

	shapeId := body.HeadShapeId
	for shapeId != B2_nullIndex {
		shape := world.shapes.Get(shapeId)

		if shape.EnlargedAABB {
			bp.EnlargeProxy(shape.ProxyKey, shape.FatAABB)
			shape.EnlargedAABB = false
		} else if body.IsFast && body.IsBullet {
			// Shape is fast. Its aabb will be enlarged in continuous collision.
			bp.BufferMove(shape.ProxyKey)
		}

		shapeId = shape.NextShapeId
	}
}

///////////////////////////////////////////////////////////////////////////////
// Solve
///////////////////////////////////////////////////////////////////////////////

// Solve the awake constraints, integrate, run continuous collision and
// put quiet islands to sleep.
func b2Solve(world *b2World, context *b2StepContext) {
	world.stepIndex++

	// Merge islands
	b2MergeAwakeIslands(world)

	solveTimer := time.Now()

	awakeBodyCount := len(world.awakeBodies)
	if awakeBodyCount == 0 {
		// Nothing to simulate, however the tree rebuild must be finished.
		b2FinishTreeTask(world)
		world.profile.Solve = b2ElapsedMilliseconds(solveTimer)
		return
	}

	// Solver state for every awake body, seeded with the body velocities
	if cap(world.bodyStates) < awakeBodyCount {
		world.bodyStates = make([]b2BodyState, awakeBodyCount)
	}
	states := world.bodyStates[:awakeBodyCount]
	for i, bodyId := range world.awakeBodies {
		body := world.bodies.Get(bodyId)
		states[i] = b2BodyState{
			LinearVelocity:  body.LinearVelocity,
			AngularVelocity: body.AngularVelocity,
			DeltaRotation:   B2Rot_identity,
		}
	}
	context.states = states

	// Solver scratch per graph color
	graph := &world.constraintGraph
	for i := 0; i < B2_graphColorCount+1; i++ {
		color := &graph.Colors[i]
		contactCount := len(color.ContactIds)
		if cap(world.contactConstraints[i]) < contactCount {
			world.contactConstraints[i] = make([]b2ContactConstraint, contactCount)
		}
		context.contactConstraints[i] = world.contactConstraints[i][:contactCount]
		context.jointIds[i] = color.JointIds
	}

	// Prepare buffers for continuous collision (fast bodies)
	context.bulletBodies = context.bulletBodies[:0]

	if cap(world.bodyMoveEventArray) < awakeBodyCount {
		world.bodyMoveEventArray = make([]B2BodyMoveEvent, awakeBodyCount)
	}
	world.bodyMoveEventArray = world.bodyMoveEventArray[:awakeBodyCount]

	awakeIslandCount := len(world.awakeIslands)
	for i := range world.taskContexts {
		taskContext := &world.taskContexts[i]
		taskContext.enlargedBodyBitSet.SetBitCountAndClear(awakeBodyCount)
		taskContext.awakeIslandBitSet.SetBitCountAndClear(awakeIslandCount)
		taskContext.splitIslandId = B2_nullIndex
		taskContext.splitSleepTime = 0.0
	}

	// Solve constraints
	b2SolverStep(context)

	// Finalize bodies.
	finalizeTimer := time.Now()
	world.runTask(awakeBodyCount, 64, func(startIndex int, endIndex int, workerIndex int) {
		b2FinalizeBodiesTask(context, startIndex, endIndex, workerIndex)
	})
	world.profile.Finalize = b2ElapsedMilliseconds(finalizeTimer)

	// Report hit events after the impulses have been stored
	b2GatherHitEvents(world, context)

	world.profile.Solve = b2ElapsedMilliseconds(solveTimer)

	broadphaseTimer := time.Now()

	// The rebuild must be complete before touching the broad-phase.
	b2FinishTreeTask(world)

	// Gather bits for all awake bodies that have enlarged AABBs
	enlargedBodyBitSet := &world.taskContexts[0].enlargedBodyBitSet
	for i := 1; i < len(world.taskContexts); i++ {
		enlargedBodyBitSet.InPlaceUnion(world.taskContexts[i].enlargedBodyBitSet)
	}

	// Enlarge broad-phase proxies and build move array
	// Apply shape AABB changes to broad-phase. This also create the move array which must be
	// in deterministic order. I'm tracking bodies because the number of shape ids can be huge.
	enlargedBodyBitSet.ForEach(func(awakeIndex int) {
		body := world.bodies.Get(world.awakeBodies[awakeIndex])
		b2EnlargeBodyProxies(world, body)
	})

	b2ValidateBroadPhase(world)

	world.profile.Broadphase = b2ElapsedMilliseconds(broadphaseTimer)

	continuousTimer := time.Now()

	// Parallel continuous collision for bullets. Sorted so the move buffer
	// order does not depend on the scheduler.
	bulletBodies := context.bulletBodies
	if len(bulletBodies) > 0 {
		slices.Sort(bulletBodies)

		enlarged := make([]bool, len(bulletBodies))
		world.runTask(len(bulletBodies), 8, func(startIndex int, endIndex int, workerIndex int) {
			for i := startIndex; i < endIndex; i++ {
				body := world.bodies.Get(world.awakeBodies[bulletBodies[i]])
				enlarged[i] = b2SolveContinuous(world, body)
			}
		})

		// Serially enlarge broad-phase proxies for fast movers
		for i, awakeIndex := range bulletBodies {
			if enlarged[i] == false {
				continue
			}

			body := world.bodies.Get(world.awakeBodies[awakeIndex])
			shapeId := body.HeadShapeId
			for shapeId != B2_nullIndex {
				shape := world.shapes.Get(shapeId)
				if shape.EnlargedAABB {
					world.broadPhase.EnlargeProxy(shape.ProxyKey, shape.FatAABB)
					shape.EnlargedAABB = false
				}
				shapeId = shape.NextShapeId
			}
		}
	}

	// The fast flag only lives for one step
	for _, awakeIndex := range bulletBodies {
		world.bodies.Get(world.awakeBodies[awakeIndex]).IsFast = false
	}

	world.profile.Continuous = b2ElapsedMilliseconds(continuousTimer)

	// Island sleeping
	// This must be done last because putting islands to sleep invalidates the enlarged body bits.
	sleepTimer := time.Now()
	if world.enableSleep {
		// Collect split island candidate for the next time step. No need to split if sleeping is disabled.
		splitIslandId := b2SelectSplitCandidate(world)

		awakeIslandBitSet := &world.taskContexts[0].awakeIslandBitSet
		for i := 1; i < len(world.taskContexts); i++ {
			awakeIslandBitSet.InPlaceUnion(world.taskContexts[i].awakeIslandBitSet)
		}

		// Need to process in reverse because this moves islands to sleeping solver sets.
		for islandIndex := len(world.awakeIslands) - 1; islandIndex >= 0; islandIndex-- {
			if awakeIslandBitSet.GetBit(islandIndex) {
				// this island is still awake
				continue
			}

			islandId := world.awakeIslands[islandIndex]
			b2TrySleepIsland(world, islandId)
		}

		b2ValidateSolverSets(world)
		world.profile.SleepIslands = b2ElapsedMilliseconds(sleepTimer)

		// Split the sleepiest island so it can sleep next step
		splitTimer := time.Now()
		if splitIslandId != B2_nullIndex && world.islands.IsAllocated(splitIslandId) {
			b2SplitIsland(world, splitIslandId)
			b2ValidateSolverSets(world)
		}
		world.profile.SplitIslands = b2ElapsedMilliseconds(splitTimer)
	}
}

// Partial rebuild of the dynamic and kinematic trees. Only touches tree nodes,
// so it is safe alongside the collide and solver tasks. The worker index is
// unused.
func b2RebuildTreesTask(startIndex int, endIndex int, workerIndex int, context any) {
	world := context.(*b2World)
	world.broadPhase.RebuildTrees()
}

func b2FinishTreeTask(world *b2World) {
	if world.treeTask != nil {
		world.scheduler.FinishTask(world.treeTask)
		world.treeTask = nil
	}
}

// Orders split candidates by sleep time, then by the lower island id, so the
// choice does not depend on how the bodies were split into task ranges.
func b2IsBetterSplitCandidate(islandId int32, sleepTime float64, bestIslandId int32, bestSleepTime float64) bool {
	if bestIslandId == B2_nullIndex || sleepTime > bestSleepTime {
		return true
	}
	return sleepTime == bestSleepTime && islandId < bestIslandId
}

func b2SelectSplitCandidate(world *b2World) int32 {
	splitIslandId := int32(B2_nullIndex)
	splitSleepTime := 0.0
	for i := range world.taskContexts {
		taskContext := &world.taskContexts[i]
		if taskContext.splitIslandId == B2_nullIndex {
			continue
		}

		if b2IsBetterSplitCandidate(taskContext.splitIslandId, taskContext.splitSleepTime, splitIslandId, splitSleepTime) {
			splitIslandId = taskContext.splitIslandId
			splitSleepTime = taskContext.splitSleepTime
		}
	}
	return splitIslandId
}

func b2ValidateBroadPhase(world *b2World) {
	if B2_validate == false {
		return
	}
	world.broadPhase.Validate()
}

// Contact hit events for touching contacts that were hit faster than the threshold.
func b2GatherHitEvents(world *b2World, context *b2StepContext) {
	threshold := world.hitEventThreshold
	graph := &world.constraintGraph

	for i := 0; i < B2_graphColorCount+1; i++ {
		for _, contactId := range graph.Colors[i].ContactIds {
			contact := world.contacts.Get(contactId)
			if contact.Flags&B2ContactFlags.E_enableHitEvents == 0 {
				continue
			}

			event := B2ContactHitEvent{ApproachSpeed: threshold}
			hit := false

			for k := 0; k < contact.Manifold.PointCount; k++ {
				mp := &contact.Manifold.Points[k]
				approachSpeed := -mp.NormalVelocity

				// Need to check max impulse because the point may be speculative and not colliding
				if approachSpeed > event.ApproachSpeed && mp.MaxNormalImpulse > 0.0 {
					event.ApproachSpeed = approachSpeed
					event.Point = mp.Point
					hit = true
				}
			}

			if hit {
				event.Normal = contact.Manifold.Normal
				event.ShapeIdA = b2MakeShapeId(world, contact.ShapeIdA)
				event.ShapeIdB = b2MakeShapeId(world, contact.ShapeIdB)
				world.contactHitArray = append(world.contactHitArray, event)
			}
		}
	}
}
