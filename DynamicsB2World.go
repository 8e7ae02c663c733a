package box2d

import (
	"fmt"
	"io"
	"sync"
	"time"
)

/// World definition used to create a simulation world.
/// Must be initialized using B2DefaultWorldDef().
type B2WorldDef struct {
	/// Gravity vector. Box2D has no up-vector defined.
	Gravity B2Vec2 `yaml:"gravity"`

	/// Restitution velocity threshold, usually in m/s. Collisions above this
	/// speed have restitution applied (will bounce).
	RestitutionThreshold float64 `yaml:"restitutionThreshold"`

	/// This parameter controls how fast overlap is resolved and has units of meters per second
	ContactPushoutVelocity float64 `yaml:"contactPushoutVelocity"`

	/// Threshold velocity for hit events. Usually meters per second.
	HitEventThreshold float64 `yaml:"hitEventThreshold"`

	/// Contact stiffness. Cycles per second.
	ContactHertz float64 `yaml:"contactHertz"`

	/// Contact bounciness. Non-dimensional.
	ContactDampingRatio float64 `yaml:"contactDampingRatio"`

	/// Joint stiffness. Cycles per second.
	JointHertz float64 `yaml:"jointHertz"`

	/// Joint bounciness. Non-dimensional.
	JointDampingRatio float64 `yaml:"jointDampingRatio"`

	/// Maximum linear velocity. Usually meters per second.
	MaximumLinearVelocity float64 `yaml:"maximumLinearVelocity"`

	/// Can bodies go to sleep to improve performance
	EnableSleep bool `yaml:"enableSleep"`

	/// Enable continuous collision
	EnableContinuous bool `yaml:"enableContinuous"`

	/// Initial capacities. These grow on demand.
	BodyCapacity    int `yaml:"bodyCapacity"`
	ShapeCapacity   int `yaml:"shapeCapacity"`
	ContactCapacity int `yaml:"contactCapacity"`
	JointCapacity   int `yaml:"jointCapacity"`

	/// Number of workers used when Scheduler is nil. One or less runs the
	/// step on the calling goroutine.
	WorkerCount int `yaml:"workerCount"`

	/// Optional task scheduler. Takes precedence over WorkerCount.
	Scheduler B2TaskScheduler `yaml:"-"`
}

/// Use this to initialize your world definition
func B2DefaultWorldDef() B2WorldDef {
	return B2WorldDef{
		Gravity:                MakeB2Vec2(0.0, -10.0),
		HitEventThreshold:      1.0 * B2_lengthUnitsPerMeter,
		RestitutionThreshold:   1.0 * B2_lengthUnitsPerMeter,
		ContactHertz:           30.0,
		ContactDampingRatio:    10.0,
		JointHertz:             60.0,
		JointDampingRatio:      2.0,
		ContactPushoutVelocity: 3.0 * B2_lengthUnitsPerMeter,
		MaximumLinearVelocity:  400.0 * B2_lengthUnitsPerMeter,
		EnableSleep:            true,
		EnableContinuous:       true,
		WorkerCount:            1,
	}
}

func (def *B2WorldDef) validate() error {
	if def.Gravity.IsValid() == false {
		return fmt.Errorf("world def gravity: %w", ErrInvalidDef)
	}

	if B2IsValid(def.RestitutionThreshold) == false || def.RestitutionThreshold < 0.0 ||
		B2IsValid(def.ContactPushoutVelocity) == false || def.ContactPushoutVelocity < 0.0 ||
		B2IsValid(def.HitEventThreshold) == false || def.HitEventThreshold < 0.0 {
		return fmt.Errorf("world def thresholds: %w", ErrInvalidDef)
	}

	if B2IsValid(def.ContactHertz) == false || def.ContactHertz < 0.0 ||
		B2IsValid(def.ContactDampingRatio) == false || def.ContactDampingRatio < 0.0 ||
		B2IsValid(def.JointHertz) == false || def.JointHertz < 0.0 ||
		B2IsValid(def.JointDampingRatio) == false || def.JointDampingRatio < 0.0 {
		return fmt.Errorf("world def softness: %w", ErrInvalidDef)
	}

	if B2IsValid(def.MaximumLinearVelocity) == false || def.MaximumLinearVelocity <= 0.0 {
		return fmt.Errorf("world def maximum linear velocity %g: %w", def.MaximumLinearVelocity, ErrInvalidDef)
	}

	if def.BodyCapacity < 0 || def.ShapeCapacity < 0 || def.ContactCapacity < 0 || def.JointCapacity < 0 {
		return fmt.Errorf("world def capacities: %w", ErrInvalidDef)
	}

	return nil
}

///////////////////////////////////////////////////////////////////////////////
// World
///////////////////////////////////////////////////////////////////////////////

type b2World struct {
	worldId  uint16
	revision uint16

	// Set while B2World_Step runs. Mutating calls return ErrWorldLocked.
	locked bool

	bodies   B2Pool[b2Body]
	shapes   B2Pool[b2Shape]
	chains   B2Pool[b2ChainShape]
	contacts B2Pool[b2Contact]
	joints   B2Pool[b2Joint]
	islands  B2Pool[b2Island]

	// Body ids by awake index
	awakeBodies []int32

	// Island ids by awake index
	awakeIslands []int32

	broadPhase      B2BroadPhase
	constraintGraph b2ConstraintGraph

	// Events, valid until the next step
	sensorBeginArray   []B2SensorBeginTouchEvent
	sensorEndArray     []B2SensorEndTouchEvent
	contactBeginArray  []B2ContactBeginTouchEvent
	contactEndArray    []B2ContactEndTouchEvent
	contactHitArray    []B2ContactHitEvent
	bodyMoveEventArray []B2BodyMoveEvent

	preSolveFcn         B2PreSolveFcn
	preSolveContext     any
	customFilterFcn     B2CustomFilterFcn
	customFilterContext any

	// Inverse sub-step and inverse step of the last step
	inv_h  float64
	inv_dt float64

	gravity                B2Vec2
	hitEventThreshold      float64
	restitutionThreshold   float64
	maxLinearVelocity      float64
	contactPushoutVelocity float64
	contactHertz           float64
	contactDampingRatio    float64
	jointHertz             float64
	jointDampingRatio      float64

	enableSleep        bool
	enableContinuous   bool
	enableWarmStarting bool

	scheduler    B2TaskScheduler
	taskContexts []b2TaskContext

	// Tree rebuild enqueued in b2Collide and finished in b2Solve
	treeTask B2TaskHandle

	// Step scratch reused across steps
	contactIdArray     []int32
	bodyStates         []b2BodyState
	contactConstraints [B2_graphColorCount + 1][]b2ContactConstraint

	profile   B2Profile
	stepIndex uint64
}

///////////////////////////////////////////////////////////////////////////////
// Registry
///////////////////////////////////////////////////////////////////////////////

var (
	b2WorldsMutex    sync.RWMutex
	b2Worlds         [B2_maxWorlds]*b2World
	b2WorldRevisions [B2_maxWorlds]uint16
)

// Returns the world in the slot or nil.
func b2GetWorld(world0 uint16) *b2World {
	if int(world0) >= B2_maxWorlds {
		return nil
	}

	b2WorldsMutex.RLock()
	defer b2WorldsMutex.RUnlock()
	return b2Worlds[world0]
}

func b2GetWorldFromId(id B2WorldId) *b2World {
	if id.Index1 == 0 || int(id.Index1) > B2_maxWorlds {
		return nil
	}

	world := b2GetWorld(id.Index1 - 1)
	if world == nil || world.revision != id.Revision {
		return nil
	}

	return world
}

// Returns the world if it can be mutated.
func b2GetMutableWorld(id B2WorldId) (*b2World, error) {
	world := b2GetWorldFromId(id)
	if world == nil {
		return nil, fmt.Errorf("world %d: %w", id.Index1, ErrInvalidId)
	}

	if world.locked {
		return nil, ErrWorldLocked
	}

	return world, nil
}

// Worker count reported by schedulers that know it.
type b2WorkerCounter interface {
	WorkerCount() int
}

/// Create a world for rigid body simulation. A world contains bodies, shapes, and constraints. You make create
/// up to 128 worlds. Each world is completely independent and may be simulated in parallel.
/// @return the world id.
func B2CreateWorld(def *B2WorldDef) (B2WorldId, error) {
	if err := def.validate(); err != nil {
		return B2_nullWorldId, err
	}

	scheduler := def.Scheduler
	workerCount := B2Clamp(def.WorkerCount, 1, B2_maxWorkers)
	if scheduler == nil {
		if workerCount > 1 {
			scheduler = NewB2WorkerScheduler(workerCount)
		} else {
			scheduler = MakeB2SerialScheduler()
		}
	}

	// A custom scheduler that does not report its worker count may pass any
	// worker index below B2_maxWorkers.
	if counter, ok := scheduler.(b2WorkerCounter); ok {
		workerCount = B2Clamp(counter.WorkerCount(), 1, B2_maxWorkers)
	} else if def.Scheduler != nil {
		workerCount = B2_maxWorkers
	}

	b2WorldsMutex.Lock()
	defer b2WorldsMutex.Unlock()

	slot := B2_nullIndex
	for i := 0; i < B2_maxWorlds; i++ {
		if b2Worlds[i] == nil {
			slot = i
			break
		}
	}

	if slot == B2_nullIndex {
		B2Log("cannot create more than %d worlds", B2_maxWorlds)
		return B2_nullWorldId, ErrWorldCapacity
	}

	bodyCapacity := B2Max(def.BodyCapacity, 8)

	world := &b2World{
		worldId:                uint16(slot),
		revision:               b2WorldRevisions[slot],
		bodies:                 MakeB2Pool[b2Body](bodyCapacity),
		shapes:                 MakeB2Pool[b2Shape](B2Max(def.ShapeCapacity, 8)),
		chains:                 MakeB2Pool[b2ChainShape](4),
		contacts:               MakeB2Pool[b2Contact](B2Max(def.ContactCapacity, 8)),
		joints:                 MakeB2Pool[b2Joint](B2Max(def.JointCapacity, 8)),
		islands:                MakeB2Pool[b2Island](bodyCapacity),
		broadPhase:             MakeB2BroadPhase(),
		constraintGraph:        b2CreateGraph(bodyCapacity),
		gravity:                def.Gravity,
		hitEventThreshold:      def.HitEventThreshold,
		restitutionThreshold:   def.RestitutionThreshold,
		maxLinearVelocity:      def.MaximumLinearVelocity,
		contactPushoutVelocity: def.ContactPushoutVelocity,
		contactHertz:           def.ContactHertz,
		contactDampingRatio:    def.ContactDampingRatio,
		jointHertz:             def.JointHertz,
		jointDampingRatio:      def.JointDampingRatio,
		enableSleep:            def.EnableSleep,
		enableContinuous:       def.EnableContinuous,
		enableWarmStarting:     true,
		scheduler:              scheduler,
		taskContexts:           make([]b2TaskContext, workerCount),
	}

	for i := range world.taskContexts {
		world.taskContexts[i] = b2TaskContext{
			contactStateBitSet: MakeB2BitSet(B2Max(def.ContactCapacity, 8)),
			enlargedBodyBitSet: MakeB2BitSet(bodyCapacity),
			awakeIslandBitSet:  MakeB2BitSet(bodyCapacity),
			splitIslandId:      B2_nullIndex,
		}
	}

	b2Worlds[slot] = world
	return B2WorldId{Index1: uint16(slot + 1), Revision: world.revision}, nil
}

/// Destroy a world. Every body, shape, chain and joint of the world is released
/// and ids referring to them become invalid.
func B2DestroyWorld(worldId B2WorldId) error {
	world, err := b2GetMutableWorld(worldId)
	if err != nil {
		return err
	}

	b2WorldsMutex.Lock()
	defer b2WorldsMutex.Unlock()

	// Bump the revision so stale world ids and stale child ids are rejected.
	b2Worlds[world.worldId] = nil
	b2WorldRevisions[world.worldId]++
	return nil
}

/// World id validation. Provides validation for up to 64K allocations.
func B2World_IsValid(id B2WorldId) bool {
	return b2GetWorldFromId(id) != nil
}

///////////////////////////////////////////////////////////////////////////////
// Step
///////////////////////////////////////////////////////////////////////////////

/// Simulate a world for one time step. This performs collision detection, integration, and constraint solution.
/// @param worldId The world to simulate
/// @param timeStep The amount of time to simulate, this should be a fixed number. Typically 1/60.
/// @param subStepCount The number of sub-steps, increasing the sub-step count can increase accuracy. Typically 4.
/// @param relaxIterations The number of relax passes per sub-step. Typically 1.
func B2World_Step(worldId B2WorldId, timeStep float64, subStepCount int, relaxIterations int) error {
	world, err := b2GetMutableWorld(worldId)
	if err != nil {
		return err
	}

	if B2IsValid(timeStep) == false || timeStep < 0.0 {
		return fmt.Errorf("time step %g: %w", timeStep, ErrInvalidDef)
	}

	// Prepare to capture events
	// Ensure user does not access stale data if there is an early return
	world.sensorBeginArray = world.sensorBeginArray[:0]
	world.sensorEndArray = world.sensorEndArray[:0]
	world.contactBeginArray = world.contactBeginArray[:0]
	world.contactEndArray = world.contactEndArray[:0]
	world.contactHitArray = world.contactHitArray[:0]
	world.bodyMoveEventArray = world.bodyMoveEventArray[:0]

	world.profile = MakeB2Profile()

	if timeStep == 0.0 {
		return nil
	}

	stepTimer := time.Now()

	world.locked = true
	defer func() {
		world.locked = false
	}()

	subStepCount = B2Max(1, subStepCount)

	context := &b2StepContext{
		world:                  world,
		dt:                     timeStep,
		inv_dt:                 1.0 / timeStep,
		subStepCount:           subStepCount,
		relaxIterations:        B2Max(1, relaxIterations),
		restitutionThreshold:   world.restitutionThreshold,
		contactPushoutVelocity: world.contactPushoutVelocity,
		enableWarmStarting:     world.enableWarmStarting,
		jointDampingRatio:      world.jointDampingRatio,
	}

	context.h = timeStep / float64(subStepCount)
	context.inv_h = float64(subStepCount) * context.inv_dt
	context.dtRatio = world.inv_dt * timeStep

	// Soft constraints cannot be stiffer than the sub-step can resolve
	subStepRate := float64(subStepCount) * context.inv_dt
	context.contactHertz = B2Min(world.contactHertz, 0.25*subStepRate)
	jointHertz := B2Min(world.jointHertz, 0.125*subStepRate)

	context.contactSoftness = B2MakeSoft(context.contactHertz, world.contactDampingRatio, context.h)
	context.staticSoftness = B2MakeSoft(2.0*context.contactHertz, world.contactDampingRatio, context.h)
	context.jointSoftness = B2MakeSoft(jointHertz, world.jointDampingRatio, context.h)

	context.maxLinearVelocity = B2Min(world.maxLinearVelocity, B2_maxTranslation*context.inv_h)

	world.inv_h = context.inv_h

	// Update contacts
	b2Collide(world)

	// Solve velocities and integrate positions. Continuous collision and sleep run here too.
	b2Solve(world, context)

	world.inv_dt = context.inv_dt

	world.profile.Step = b2ElapsedMilliseconds(stepTimer)
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// Events
///////////////////////////////////////////////////////////////////////////////

/// Get sensor events for the current time step. The event data is transient. Do not store a reference to this data.
func B2World_GetSensorEvents(worldId B2WorldId) B2SensorEvents {
	world := b2GetWorldFromId(worldId)
	B2Assert(world != nil)
	return B2SensorEvents{
		BeginEvents: world.sensorBeginArray,
		EndEvents:   world.sensorEndArray,
	}
}

/// Get contact events for this current time step. The event data is transient. Do not store a reference to this data.
func B2World_GetContactEvents(worldId B2WorldId) B2ContactEvents {
	world := b2GetWorldFromId(worldId)
	B2Assert(world != nil)
	return B2ContactEvents{
		BeginEvents: world.contactBeginArray,
		EndEvents:   world.contactEndArray,
		HitEvents:   world.contactHitArray,
	}
}

/// Get the body events for the current time step. The event data is transient. Do not store a reference to this data.
func B2World_GetBodyEvents(worldId B2WorldId) B2BodyEvents {
	world := b2GetWorldFromId(worldId)
	B2Assert(world != nil)
	return B2BodyEvents{
		MoveEvents: world.bodyMoveEventArray,
	}
}

///////////////////////////////////////////////////////////////////////////////
// Settings
///////////////////////////////////////////////////////////////////////////////

/// Enable/disable sleep. If your application does not need sleeping, you can gain some performance
/// by disabling sleep completely at the world level.
func B2World_EnableSleeping(worldId B2WorldId, flag bool) error {
	world, err := b2GetMutableWorld(worldId)
	if err != nil {
		return err
	}

	if flag == world.enableSleep {
		return nil
	}

	world.enableSleep = flag

	if flag == false {
		var sleepingIslands []int32
		world.islands.ForEach(func(islandId int32, island *b2Island) {
			if island.AwakeIndex == B2_nullIndex {
				sleepingIslands = append(sleepingIslands, islandId)
			}
		})

		for _, islandId := range sleepingIslands {
			b2WakeIsland(world, islandId)
		}

		b2ValidateSolverSets(world)
	}

	return nil
}

func B2World_IsSleepingEnabled(worldId B2WorldId) bool {
	world := b2GetWorldFromId(worldId)
	B2Assert(world != nil)
	return world.enableSleep
}

/// Enable/disable constraint warm starting. Advanced feature for testing. Disabling
/// warm starting greatly reduces stability and provides no performance gain.
func B2World_EnableWarmStarting(worldId B2WorldId, flag bool) error {
	world, err := b2GetMutableWorld(worldId)
	if err != nil {
		return err
	}

	world.enableWarmStarting = flag
	return nil
}

func B2World_IsWarmStartingEnabled(worldId B2WorldId) bool {
	world := b2GetWorldFromId(worldId)
	B2Assert(world != nil)
	return world.enableWarmStarting
}

/// Enable/disable continuous collision between dynamic and static bodies. Generally you should keep continuous
/// collision enabled to prevent fast moving objects from going through static objects. The performance gain from
/// disabling continuous collision is minor.
func B2World_EnableContinuous(worldId B2WorldId, flag bool) error {
	world, err := b2GetMutableWorld(worldId)
	if err != nil {
		return err
	}

	world.enableContinuous = flag
	return nil
}

func B2World_IsContinuousEnabled(worldId B2WorldId) bool {
	world := b2GetWorldFromId(worldId)
	B2Assert(world != nil)
	return world.enableContinuous
}

/// Adjust the restitution threshold. It is recommended not to make this value very small
/// because it will prevent bodies from sleeping. Typically in meters per second.
func B2World_SetRestitutionThreshold(worldId B2WorldId, value float64) error {
	world, err := b2GetMutableWorld(worldId)
	if err != nil {
		return err
	}

	world.restitutionThreshold = B2Clamp(value, 0.0, B2_huge)
	return nil
}

/// Adjust the hit event threshold. This controls the collision velocity needed to generate a B2ContactHitEvent.
/// Typically in meters per second.
func B2World_SetHitEventThreshold(worldId B2WorldId, value float64) error {
	world, err := b2GetMutableWorld(worldId)
	if err != nil {
		return err
	}

	world.hitEventThreshold = B2Clamp(value, 0.0, B2_huge)
	return nil
}

/// Adjust contact tuning parameters
/// @param worldId The world id
/// @param hertz The contact stiffness (cycles per second)
/// @param dampingRatio The contact bounciness with 1 being critical damping (non-dimensional)
/// @param pushVelocity The maximum contact constraint push out velocity (meters per second)
func B2World_SetContactTuning(worldId B2WorldId, hertz float64, dampingRatio float64, pushVelocity float64) error {
	world, err := b2GetMutableWorld(worldId)
	if err != nil {
		return err
	}

	world.contactHertz = B2Clamp(hertz, 0.0, B2_maxFloat)
	world.contactDampingRatio = B2Clamp(dampingRatio, 0.0, B2_maxFloat)
	world.contactPushoutVelocity = B2Clamp(pushVelocity, 0.0, B2_maxFloat)
	return nil
}

/// Adjust joint tuning parameters
func B2World_SetJointTuning(worldId B2WorldId, hertz float64, dampingRatio float64) error {
	world, err := b2GetMutableWorld(worldId)
	if err != nil {
		return err
	}

	world.jointHertz = B2Clamp(hertz, 0.0, B2_maxFloat)
	world.jointDampingRatio = B2Clamp(dampingRatio, 0.0, B2_maxFloat)
	return nil
}

/// Set the maximum linear velocity. Usually in meters per second.
func B2World_SetMaximumLinearVelocity(worldId B2WorldId, maxLinearVelocity float64) error {
	world, err := b2GetMutableWorld(worldId)
	if err != nil {
		return err
	}

	if B2IsValid(maxLinearVelocity) == false || maxLinearVelocity <= 0.0 {
		return fmt.Errorf("maximum linear velocity %g: %w", maxLinearVelocity, ErrInvalidDef)
	}

	world.maxLinearVelocity = maxLinearVelocity
	return nil
}

/// Set the gravity vector for the entire world. Box2D has no concept of an up direction and this
/// is left as a decision for the application. Typically in m/s^2.
func B2World_SetGravity(worldId B2WorldId, gravity B2Vec2) error {
	world, err := b2GetMutableWorld(worldId)
	if err != nil {
		return err
	}

	if gravity.IsValid() == false {
		return fmt.Errorf("gravity: %w", ErrInvalidDef)
	}

	world.gravity = gravity
	return nil
}

/// Get the gravity vector
func B2World_GetGravity(worldId B2WorldId) B2Vec2 {
	world := b2GetWorldFromId(worldId)
	B2Assert(world != nil)
	return world.gravity
}

/// Register the custom filter callback. This is optional.
func B2World_SetCustomFilterCallback(worldId B2WorldId, fcn B2CustomFilterFcn, context any) error {
	world, err := b2GetMutableWorld(worldId)
	if err != nil {
		return err
	}

	world.customFilterFcn = fcn
	world.customFilterContext = context
	return nil
}

/// Register the pre-solve callback. This is optional.
func B2World_SetPreSolveCallback(worldId B2WorldId, fcn B2PreSolveFcn, context any) error {
	world, err := b2GetMutableWorld(worldId)
	if err != nil {
		return err
	}

	world.preSolveFcn = fcn
	world.preSolveContext = context
	return nil
}

/// Get the current world performance profile
func B2World_GetProfile(worldId B2WorldId) B2Profile {
	world := b2GetWorldFromId(worldId)
	B2Assert(world != nil)
	return world.profile
}

/// Get world counters and sizes
func B2World_GetCounters(worldId B2WorldId) B2Counters {
	world := b2GetWorldFromId(worldId)
	B2Assert(world != nil)

	s := B2Counters{
		BodyCount:        world.bodies.Count(),
		ShapeCount:       world.shapes.Count(),
		ContactCount:     world.contacts.Count(),
		JointCount:       world.joints.Count(),
		IslandCount:      world.islands.Count(),
		AwakeBodyCount:   len(world.awakeBodies),
		StaticTreeHeight: world.broadPhase.Trees[B2BodyType.E_staticBody].GetHeight(),
	}

	dynamicHeight := world.broadPhase.Trees[B2BodyType.E_dynamicBody].GetHeight()
	kinematicHeight := world.broadPhase.Trees[B2BodyType.E_kinematicBody].GetHeight()
	s.TreeHeight = B2Max(dynamicHeight, kinematicHeight)

	for i := 0; i < B2_graphColorCount+1; i++ {
		color := &world.constraintGraph.Colors[i]
		s.ColorCounts[i] = len(color.ContactIds) + len(color.JointIds)
	}

	return s
}

///////////////////////////////////////////////////////////////////////////////
// Dump
///////////////////////////////////////////////////////////////////////////////

func b2DumpShape(w io.Writer, shape *b2Shape, bodyIndex int) {
	fmt.Fprintf(w, "  {\n")
	fmt.Fprintf(w, "    sd.body = bodies[%d]\n", bodyIndex)
	fmt.Fprintf(w, "    sd.type = %d\n", shape.Type)
	fmt.Fprintf(w, "    sd.density = %.15f\n", shape.Density)
	fmt.Fprintf(w, "    sd.friction = %.15f\n", shape.Friction)
	fmt.Fprintf(w, "    sd.restitution = %.15f\n", shape.Restitution)
	fmt.Fprintf(w, "    sd.isSensor = %v\n", shape.IsSensor)
	fmt.Fprintf(w, "    sd.filter = (%#x, %#x, %d)\n", shape.Filter.CategoryBits, shape.Filter.MaskBits, shape.Filter.GroupIndex)

	switch shape.Type {
	case B2ShapeType.E_circleShape:
		fmt.Fprintf(w, "    circle.center = (%.15f, %.15f)\n", shape.Circle.Center.X, shape.Circle.Center.Y)
		fmt.Fprintf(w, "    circle.radius = %.15f\n", shape.Circle.Radius)
	case B2ShapeType.E_capsuleShape:
		fmt.Fprintf(w, "    capsule.center1 = (%.15f, %.15f)\n", shape.Capsule.Center1.X, shape.Capsule.Center1.Y)
		fmt.Fprintf(w, "    capsule.center2 = (%.15f, %.15f)\n", shape.Capsule.Center2.X, shape.Capsule.Center2.Y)
		fmt.Fprintf(w, "    capsule.radius = %.15f\n", shape.Capsule.Radius)
	case B2ShapeType.E_segmentShape:
		fmt.Fprintf(w, "    segment.point1 = (%.15f, %.15f)\n", shape.Segment.Point1.X, shape.Segment.Point1.Y)
		fmt.Fprintf(w, "    segment.point2 = (%.15f, %.15f)\n", shape.Segment.Point2.X, shape.Segment.Point2.Y)
	case B2ShapeType.E_smoothSegmentShape:
		segment := &shape.SmoothSegment
		fmt.Fprintf(w, "    smooth.ghost1 = (%.15f, %.15f)\n", segment.Ghost1.X, segment.Ghost1.Y)
		fmt.Fprintf(w, "    smooth.point1 = (%.15f, %.15f)\n", segment.Segment.Point1.X, segment.Segment.Point1.Y)
		fmt.Fprintf(w, "    smooth.point2 = (%.15f, %.15f)\n", segment.Segment.Point2.X, segment.Segment.Point2.Y)
		fmt.Fprintf(w, "    smooth.ghost2 = (%.15f, %.15f)\n", segment.Ghost2.X, segment.Ghost2.Y)
	case B2ShapeType.E_polygonShape:
		poly := &shape.Polygon
		for i := 0; i < poly.Count; i++ {
			fmt.Fprintf(w, "    polygon.vertices[%d] = (%.15f, %.15f)\n", i, poly.Vertices[i].X, poly.Vertices[i].Y)
		}
		fmt.Fprintf(w, "    polygon.radius = %.15f\n", poly.Radius)
	}

	fmt.Fprintf(w, "  }\n")
}

func b2DumpBody(w io.Writer, world *b2World, body *b2Body, bodyIndex int) {
	fmt.Fprintf(w, "{\n")
	fmt.Fprintf(w, "  bd.type = %d\n", body.Type)
	fmt.Fprintf(w, "  bd.position = (%.15f, %.15f)\n", body.Transform.P.X, body.Transform.P.Y)
	fmt.Fprintf(w, "  bd.angle = %.15f\n", body.Transform.Q.GetAngle())
	fmt.Fprintf(w, "  bd.linearVelocity = (%.15f, %.15f)\n", body.LinearVelocity.X, body.LinearVelocity.Y)
	fmt.Fprintf(w, "  bd.angularVelocity = %.15f\n", body.AngularVelocity)
	fmt.Fprintf(w, "  bd.linearDamping = %.15f\n", body.LinearDamping)
	fmt.Fprintf(w, "  bd.angularDamping = %.15f\n", body.AngularDamping)
	fmt.Fprintf(w, "  bd.gravityScale = %.15f\n", body.GravityScale)
	fmt.Fprintf(w, "  bd.enableSleep = %v\n", body.EnableSleep)
	fmt.Fprintf(w, "  bd.isAwake = %v\n", body.AwakeIndex != B2_nullIndex)
	fmt.Fprintf(w, "  bd.fixedRotation = %v\n", body.FixedRotation)
	fmt.Fprintf(w, "  bd.isBullet = %v\n", body.IsBullet)
	fmt.Fprintf(w, "  bd.isEnabled = %v\n", body.IsEnabled)
	fmt.Fprintf(w, "  bodies[%d] = CreateBody(bd)\n", bodyIndex)

	shapeId := body.HeadShapeId
	for shapeId != B2_nullIndex {
		shape := world.shapes.Get(shapeId)
		b2DumpShape(w, shape, bodyIndex)
		shapeId = shape.NextShapeId
	}

	fmt.Fprintf(w, "}\n")
}

func b2DumpJoint(w io.Writer, joint *b2Joint, bodyIndexA int, bodyIndexB int) {
	fmt.Fprintf(w, "{\n")
	fmt.Fprintf(w, "  jd.type = %d\n", joint.Type)
	fmt.Fprintf(w, "  jd.bodyA = bodies[%d]\n", bodyIndexA)
	fmt.Fprintf(w, "  jd.bodyB = bodies[%d]\n", bodyIndexB)
	fmt.Fprintf(w, "  jd.collideConnected = %v\n", joint.CollideConnected)

	switch joint.Type {
	case B2JointType.E_distanceJoint:
		b2DumpDistanceJoint(w, joint)
	case B2JointType.E_motorJoint:
		b2DumpMotorJoint(w, joint)
	case B2JointType.E_mouseJoint:
		b2DumpMouseJoint(w, joint)
	case B2JointType.E_prismaticJoint:
		b2DumpPrismaticJoint(w, joint)
	case B2JointType.E_revoluteJoint:
		b2DumpRevoluteJoint(w, joint)
	case B2JointType.E_weldJoint:
		b2DumpWeldJoint(w, joint)
	case B2JointType.E_wheelJoint:
		b2DumpWheelJoint(w, joint)
	}

	fmt.Fprintf(w, "  joints[%d] = CreateJoint(jd)\n", joint.JointId)
	fmt.Fprintf(w, "}\n")
}

/// Dump the world settings, bodies, shapes and joints in a readable text form.
/// Bodies are numbered in id order. Writes nothing while the world is locked.
func B2World_Dump(worldId B2WorldId, w io.Writer) error {
	world, err := b2GetMutableWorld(worldId)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "gravity = (%.15f, %.15f)\n", world.gravity.X, world.gravity.Y)
	fmt.Fprintf(w, "contactTuning = (%.15f, %.15f, %.15f)\n", world.contactHertz, world.contactDampingRatio, world.contactPushoutVelocity)
	fmt.Fprintf(w, "jointTuning = (%.15f, %.15f)\n", world.jointHertz, world.jointDampingRatio)
	fmt.Fprintf(w, "bodies = %d\n", world.bodies.Count())
	fmt.Fprintf(w, "joints = %d\n", world.joints.Count())

	bodyIndices := make(map[int32]int, world.bodies.Count())
	world.bodies.ForEach(func(bodyId int32, body *b2Body) {
		bodyIndex := len(bodyIndices)
		bodyIndices[bodyId] = bodyIndex
		b2DumpBody(w, world, body, bodyIndex)
	})

	world.joints.ForEach(func(jointId int32, joint *b2Joint) {
		b2DumpJoint(w, joint, bodyIndices[joint.Edges[0].BodyId], bodyIndices[joint.Edges[1].BodyId])
	})

	B2Log("dumped world %d: %d bodies, %d joints", worldId.Index1, len(bodyIndices), world.joints.Count())
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// Validation
///////////////////////////////////////////////////////////////////////////////

// Checks the awake sets against the bodies, islands, contacts and the constraint graph.
// Only runs when B2_validate is set.
func b2ValidateSolverSets(world *b2World) {
	if B2_validate == false {
		return
	}

	for awakeIndex, bodyId := range world.awakeBodies {
		body := world.bodies.Get(bodyId)
		B2Assert(world.bodies.IsAllocated(bodyId))
		B2Assert(body.AwakeIndex == int32(awakeIndex))
		B2Assert(body.Type != B2BodyType.E_staticBody)
		B2Assert(body.IsEnabled)
	}

	for awakeIndex, islandId := range world.awakeIslands {
		island := world.islands.Get(islandId)
		B2Assert(world.islands.IsAllocated(islandId))
		B2Assert(island.AwakeIndex == int32(awakeIndex))
	}

	world.bodies.ForEach(func(bodyId int32, body *b2Body) {
		if body.AwakeIndex != B2_nullIndex {
			B2Assert(world.awakeBodies[body.AwakeIndex] == bodyId)
		}

		switch body.Type {
		case B2BodyType.E_staticBody:
			B2Assert(body.AwakeIndex == B2_nullIndex)
			B2Assert(body.IslandId == B2_nullIndex)
		case B2BodyType.E_kinematicBody:
			B2Assert(body.IslandId == B2_nullIndex)
			B2Assert((body.AwakeIndex != B2_nullIndex) == body.IsEnabled)
		default:
			if body.IsEnabled == false {
				B2Assert(body.AwakeIndex == B2_nullIndex)
				return
			}

			// A dynamic body is awake exactly when its island is awake
			B2Assert(body.IslandId != B2_nullIndex)
			island := world.islands.Get(body.IslandId)
			B2Assert((island.AwakeIndex != B2_nullIndex) == (body.AwakeIndex != B2_nullIndex))
		}
	})

	world.contacts.ForEach(func(contactId int32, contact *b2Contact) {
		touching := contact.Flags&B2ContactFlags.E_touchingFlag != 0
		sensor := contact.Flags&B2ContactFlags.E_sensorFlag != 0

		if touching == false || sensor {
			B2Assert(contact.IslandId == B2_nullIndex)
			B2Assert(contact.ColorIndex == B2_nullIndex)
			return
		}

		B2Assert(contact.IslandId != B2_nullIndex)
		island := world.islands.Get(contact.IslandId)
		inGraph := contact.ColorIndex != B2_nullIndex
		B2Assert(inGraph == (island.AwakeIndex != B2_nullIndex))

		if inGraph {
			color := &world.constraintGraph.Colors[contact.ColorIndex]
			B2Assert(color.ContactIds[contact.LocalIndex] == contactId)
		}
	})

	world.joints.ForEach(func(jointId int32, joint *b2Joint) {
		if joint.ColorIndex != B2_nullIndex {
			color := &world.constraintGraph.Colors[joint.ColorIndex]
			B2Assert(color.JointIds[joint.LocalIndex] == jointId)
		}
	})
}
