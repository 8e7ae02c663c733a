package box2d_test

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	box2d "github.com/Alexander-r/box2d.go/v3"
)

const (
	testTimeStep     = 1.0 / 60.0
	testSubStepCount = 4
	testRelax        = 1
)

func createTestWorld(t *testing.T, def box2d.B2WorldDef) box2d.B2WorldId {
	t.Helper()

	worldId, err := box2d.B2CreateWorld(&def)
	if err != nil {
		t.Fatalf("create world: %v", err)
	}
	t.Cleanup(func() {
		box2d.B2DestroyWorld(worldId)
	})
	return worldId
}

// Static box with half height 1 centered at the origin.
func createGround(t *testing.T, worldId box2d.B2WorldId) box2d.B2BodyId {
	t.Helper()

	bodyDef := box2d.B2DefaultBodyDef()
	groundId, err := box2d.B2CreateBody(worldId, &bodyDef)
	if err != nil {
		t.Fatalf("create ground: %v", err)
	}

	shapeDef := box2d.B2DefaultShapeDef()
	box := box2d.B2MakeBox(20.0, 1.0)
	if _, err := box2d.B2CreatePolygonShape(groundId, &shapeDef, &box); err != nil {
		t.Fatalf("create ground shape: %v", err)
	}
	return groundId
}

func createCircle(t *testing.T, worldId box2d.B2WorldId, position box2d.B2Vec2, radius float64, shapeDef box2d.B2ShapeDef) (box2d.B2BodyId, box2d.B2ShapeId) {
	t.Helper()

	bodyDef := box2d.B2DefaultBodyDef()
	bodyDef.Type = box2d.B2BodyType.E_dynamicBody
	bodyDef.Position = position
	bodyId, err := box2d.B2CreateBody(worldId, &bodyDef)
	if err != nil {
		t.Fatalf("create body: %v", err)
	}

	circle := box2d.B2Circle{Center: box2d.B2Vec2_zero, Radius: radius}
	shapeId, err := box2d.B2CreateCircleShape(bodyId, &shapeDef, &circle)
	if err != nil {
		t.Fatalf("create circle: %v", err)
	}
	return bodyId, shapeId
}

func stepWorld(t *testing.T, worldId box2d.B2WorldId, count int) {
	t.Helper()

	for i := 0; i < count; i++ {
		if err := box2d.B2World_Step(worldId, testTimeStep, testSubStepCount, testRelax); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
}

func TestRestingCircle(t *testing.T) {
	worldId := createTestWorld(t, box2d.B2DefaultWorldDef())
	createGround(t, worldId)

	bodyId, _ := createCircle(t, worldId, box2d.MakeB2Vec2(0.0, 4.0), 1.0, box2d.B2DefaultShapeDef())

	stepWorld(t, worldId, 180)

	position := box2d.B2Body_GetPosition(bodyId)
	if math.Abs(position.Y-2.0) > 2.0*box2d.B2_linearSlop {
		t.Fatalf("circle rests at y = %.4f, expected 2", position.Y)
	}

	if math.Abs(position.X) > box2d.B2_linearSlop {
		t.Fatalf("circle drifted to x = %.4f", position.X)
	}

	velocity := box2d.B2Body_GetLinearVelocity(bodyId)
	if velocity.Length() > box2d.B2_linearSleepTolerance {
		t.Fatalf("circle still moving at %.4f m/s", velocity.Length())
	}
}

func TestElasticCollision(t *testing.T) {
	def := box2d.B2DefaultWorldDef()
	def.Gravity = box2d.B2Vec2_zero
	worldId := createTestWorld(t, def)

	shapeDef := box2d.B2DefaultShapeDef()
	shapeDef.Restitution = 1.0
	shapeDef.Friction = 0.0

	bodyA, _ := createCircle(t, worldId, box2d.MakeB2Vec2(-2.0, 0.0), 0.5, shapeDef)
	bodyB, _ := createCircle(t, worldId, box2d.MakeB2Vec2(2.0, 0.0), 0.5, shapeDef)

	if err := box2d.B2Body_SetLinearVelocity(bodyA, box2d.MakeB2Vec2(5.0, 0.0)); err != nil {
		t.Fatalf("set velocity: %v", err)
	}
	if err := box2d.B2Body_SetLinearVelocity(bodyB, box2d.MakeB2Vec2(-5.0, 0.0)); err != nil {
		t.Fatalf("set velocity: %v", err)
	}

	massA := box2d.B2Body_GetMass(bodyA)
	massB := box2d.B2Body_GetMass(bodyB)
	momentum0 := massA*5.0 - massB*5.0

	stepWorld(t, worldId, 60)

	vA := box2d.B2Body_GetLinearVelocity(bodyA)
	vB := box2d.B2Body_GetLinearVelocity(bodyB)

	momentum := massA*vA.X + massB*vB.X
	if math.Abs(momentum-momentum0) > 0.01*massA*5.0 {
		t.Fatalf("momentum %.4f, expected %.4f", momentum, momentum0)
	}

	if math.Abs(vA.X+5.0) > 0.25 || math.Abs(vB.X-5.0) > 0.25 {
		t.Fatalf("velocities did not swap: a = %.4f, b = %.4f", vA.X, vB.X)
	}
}

func TestRayCastClosest(t *testing.T) {
	worldId := createTestWorld(t, box2d.B2DefaultWorldDef())
	groundId := createGround(t, worldId)

	result, err := box2d.B2World_RayCastClosest(worldId, box2d.MakeB2Vec2(0.0, 10.0), box2d.MakeB2Vec2(0.0, -20.0), box2d.B2DefaultQueryFilter())
	if err != nil {
		t.Fatalf("ray cast: %v", err)
	}

	current := fmt.Sprintf("hit = %v, body = %v, fraction = %.4f, point = (%.4f, %.4f), normal = (%.4f, %.4f)",
		result.Hit, box2d.B2BodyIdEquals(box2d.B2Shape_GetBody(result.ShapeId), groundId),
		result.Fraction, result.Point.X, result.Point.Y, result.Normal.X, result.Normal.Y)
	expected := "hit = true, body = true, fraction = 0.4500, point = (0.0000, 1.0000), normal = (0.0000, 1.0000)"

	checkMatch(t, expected, current)

	miss, err := box2d.B2World_RayCastClosest(worldId, box2d.MakeB2Vec2(0.0, 10.0), box2d.MakeB2Vec2(0.0, 5.0), box2d.B2DefaultQueryFilter())
	if err != nil {
		t.Fatalf("ray cast: %v", err)
	}
	if miss.Hit {
		t.Fatalf("upward ray hit %v", miss.ShapeId)
	}
}

func TestWorldQueries(t *testing.T) {
	worldId := createTestWorld(t, box2d.B2DefaultWorldDef())
	createGround(t, worldId)

	shapeDef := box2d.B2DefaultShapeDef()
	_, shapeA := createCircle(t, worldId, box2d.MakeB2Vec2(-3.0, 5.0), 0.5, shapeDef)
	_, shapeB := createCircle(t, worldId, box2d.MakeB2Vec2(3.0, 5.0), 0.5, shapeDef)

	var found []box2d.B2ShapeId
	collect := func(shapeId box2d.B2ShapeId, context any) bool {
		found = append(found, shapeId)
		return true
	}

	aabb := box2d.MakeB2AABB(box2d.MakeB2Vec2(-4.0, 4.0), box2d.MakeB2Vec2(-2.0, 6.0))
	if err := box2d.B2World_QueryAABB(worldId, aabb, box2d.B2DefaultQueryFilter(), collect, nil); err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(found) != 1 || box2d.B2ShapeIdEquals(found[0], shapeA) == false {
		t.Fatalf("aabb query found %v", found)
	}

	found = found[:0]
	circle := box2d.B2Circle{Center: box2d.B2Vec2_zero, Radius: 0.6}
	xf := box2d.MakeB2TransformByPositionAndRotation(box2d.MakeB2Vec2(3.5, 5.5), box2d.B2Rot_identity)
	if err := box2d.B2World_OverlapCircle(worldId, circle, xf, box2d.B2DefaultQueryFilter(), collect, nil); err != nil {
		t.Fatalf("overlap circle: %v", err)
	}
	if len(found) != 1 || box2d.B2ShapeIdEquals(found[0], shapeB) == false {
		t.Fatalf("circle overlap found %v", found)
	}

	found = found[:0]
	box := box2d.B2MakeBox(0.25, 0.25)
	xf = box2d.MakeB2TransformByPositionAndRotation(box2d.MakeB2Vec2(0.0, 5.0), box2d.B2Rot_identity)
	if err := box2d.B2World_OverlapPolygon(worldId, box, xf, box2d.B2DefaultQueryFilter(), collect, nil); err != nil {
		t.Fatalf("overlap polygon: %v", err)
	}
	if len(found) != 0 {
		t.Fatalf("polygon overlap in empty space found %v", found)
	}

	// A circle swept to the right hits shape B first
	var hits []box2d.B2ShapeId
	castFcn := func(shapeId box2d.B2ShapeId, point box2d.B2Vec2, normal box2d.B2Vec2, fraction float64, context any) float64 {
		hits = append(hits, shapeId)
		return fraction
	}
	xf = box2d.MakeB2TransformByPositionAndRotation(box2d.MakeB2Vec2(0.0, 5.0), box2d.B2Rot_identity)
	small := box2d.B2Circle{Center: box2d.B2Vec2_zero, Radius: 0.25}
	if err := box2d.B2World_CastCircle(worldId, small, xf, box2d.MakeB2Vec2(10.0, 0.0), box2d.B2DefaultQueryFilter(), castFcn, nil); err != nil {
		t.Fatalf("cast circle: %v", err)
	}
	if len(hits) == 0 || box2d.B2ShapeIdEquals(hits[len(hits)-1], shapeB) == false {
		t.Fatalf("circle cast hits %v", hits)
	}
}

func TestSleepAndMoveEvents(t *testing.T) {
	worldId := createTestWorld(t, box2d.B2DefaultWorldDef())
	createGround(t, worldId)

	bodyDef := box2d.B2DefaultBodyDef()
	bodyDef.Type = box2d.B2BodyType.E_dynamicBody
	bodyDef.Position = box2d.MakeB2Vec2(0.0, 1.5)
	bodyId, err := box2d.B2CreateBody(worldId, &bodyDef)
	if err != nil {
		t.Fatalf("create body: %v", err)
	}

	shapeDef := box2d.B2DefaultShapeDef()
	box := box2d.B2MakeSquare(0.5)
	if _, err := box2d.B2CreatePolygonShape(bodyId, &shapeDef, &box); err != nil {
		t.Fatalf("create shape: %v", err)
	}

	fellAsleep := false
	for i := 0; i < 300 && fellAsleep == false; i++ {
		stepWorld(t, worldId, 1)

		for _, event := range box2d.B2World_GetBodyEvents(worldId).MoveEvents {
			if box2d.B2BodyIdEquals(event.BodyId, bodyId) && event.FellAsleep {
				fellAsleep = true
			}
		}
	}

	if fellAsleep == false || box2d.B2Body_IsAwake(bodyId) {
		t.Fatalf("resting box did not fall asleep")
	}

	counters := box2d.B2World_GetCounters(worldId)
	if counters.AwakeBodyCount != 0 {
		t.Fatalf("awake body count %d", counters.AwakeBodyCount)
	}

	// A sleeping world reports no move events
	stepWorld(t, worldId, 1)
	if len(box2d.B2World_GetBodyEvents(worldId).MoveEvents) != 0 {
		t.Fatalf("sleeping body reported a move")
	}

	// Applying an impulse with wake wakes the island
	if err := box2d.B2Body_ApplyLinearImpulseToCenter(bodyId, box2d.MakeB2Vec2(0.0, 5.0), true); err != nil {
		t.Fatalf("apply impulse: %v", err)
	}
	if box2d.B2Body_IsAwake(bodyId) == false {
		t.Fatalf("impulse did not wake the body")
	}

	// Disabling sleep keeps everything awake
	if err := box2d.B2World_EnableSleeping(worldId, false); err != nil {
		t.Fatalf("enable sleeping: %v", err)
	}
	stepWorld(t, worldId, 300)
	if box2d.B2Body_IsAwake(bodyId) == false {
		t.Fatalf("body slept with sleeping disabled")
	}
}

func TestContactEvents(t *testing.T) {
	worldId := createTestWorld(t, box2d.B2DefaultWorldDef())
	createGround(t, worldId)

	shapeDef := box2d.B2DefaultShapeDef()
	shapeDef.EnableHitEvents = true
	_, shapeId := createCircle(t, worldId, box2d.MakeB2Vec2(0.0, 4.0), 0.5, shapeDef)

	// A sensor above the ground the circle falls through
	sensorDef := box2d.B2DefaultBodyDef()
	sensorBody, err := box2d.B2CreateBody(worldId, &sensorDef)
	if err != nil {
		t.Fatalf("create sensor body: %v", err)
	}
	sensorShapeDef := box2d.B2DefaultShapeDef()
	sensorShapeDef.IsSensor = true
	sensorBox := box2d.B2MakeOffsetBox(1.0, 0.25, box2d.MakeB2Vec2(0.0, 3.0), 0.0)
	sensorId, err := box2d.B2CreatePolygonShape(sensorBody, &sensorShapeDef, &sensorBox)
	if err != nil {
		t.Fatalf("create sensor: %v", err)
	}

	begins, hits, sensorBegins, sensorEnds := 0, 0, 0, 0
	for i := 0; i < 120; i++ {
		stepWorld(t, worldId, 1)

		contactEvents := box2d.B2World_GetContactEvents(worldId)
		for _, event := range contactEvents.BeginEvents {
			if box2d.B2ShapeIdEquals(event.ShapeIdA, shapeId) || box2d.B2ShapeIdEquals(event.ShapeIdB, shapeId) {
				begins++
			}
		}
		hits += len(contactEvents.HitEvents)

		sensorEvents := box2d.B2World_GetSensorEvents(worldId)
		for _, event := range sensorEvents.BeginEvents {
			if box2d.B2ShapeIdEquals(event.SensorShapeId, sensorId) && box2d.B2ShapeIdEquals(event.VisitorShapeId, shapeId) {
				sensorBegins++
			}
		}
		for _, event := range sensorEvents.EndEvents {
			if box2d.B2ShapeIdEquals(event.SensorShapeId, sensorId) && box2d.B2ShapeIdEquals(event.VisitorShapeId, shapeId) {
				sensorEnds++
			}
		}
	}

	current := fmt.Sprintf("begin = %d, sensor begin = %d, sensor end = %d, hit = %v", begins, sensorBegins, sensorEnds, hits > 0)
	checkMatch(t, "begin = 1, sensor begin = 1, sensor end = 1, hit = true", current)
}

func TestLockedWorld(t *testing.T) {
	worldId := createTestWorld(t, box2d.B2DefaultWorldDef())
	createGround(t, worldId)

	shapeDef := box2d.B2DefaultShapeDef()
	shapeDef.EnablePreSolveEvents = true
	bodyId, _ := createCircle(t, worldId, box2d.MakeB2Vec2(0.0, 1.9), 1.0, shapeDef)

	var errs []error
	preSolve := func(shapeIdA box2d.B2ShapeId, shapeIdB box2d.B2ShapeId, manifold *box2d.B2Manifold, context any) bool {
		bodyDef := box2d.B2DefaultBodyDef()
		_, err := box2d.B2CreateBody(worldId, &bodyDef)
		errs = append(errs, err)
		errs = append(errs, box2d.B2DestroyBody(bodyId))
		errs = append(errs, box2d.B2World_Step(worldId, testTimeStep, testSubStepCount, testRelax))
		errs = append(errs, box2d.B2World_SetGravity(worldId, box2d.B2Vec2_zero))
		return true
	}

	if err := box2d.B2World_SetPreSolveCallback(worldId, preSolve, nil); err != nil {
		t.Fatalf("set pre-solve: %v", err)
	}

	stepWorld(t, worldId, 1)

	if len(errs) == 0 {
		t.Fatalf("pre-solve was not called")
	}

	for i, err := range errs {
		if errors.Is(err, box2d.ErrWorldLocked) == false {
			t.Fatalf("call %d returned %v, expected ErrWorldLocked", i, err)
		}
	}

	// Unlocked again after the step
	if box2d.B2Body_IsValid(bodyId) == false {
		t.Fatalf("body destroyed during a locked step")
	}
	if err := box2d.B2World_SetPreSolveCallback(worldId, nil, nil); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if err := box2d.B2DestroyBody(bodyId); err != nil {
		t.Fatalf("destroy after step: %v", err)
	}
}

func TestStaleIds(t *testing.T) {
	def := box2d.B2DefaultWorldDef()
	worldId, err := box2d.B2CreateWorld(&def)
	if err != nil {
		t.Fatalf("create world: %v", err)
	}

	bodyDef := box2d.B2DefaultBodyDef()
	bodyDef.Type = box2d.B2BodyType.E_dynamicBody
	bodyId, err := box2d.B2CreateBody(worldId, &bodyDef)
	if err != nil {
		t.Fatalf("create body: %v", err)
	}

	shapeDef := box2d.B2DefaultShapeDef()
	circle := box2d.B2Circle{Radius: 0.5}
	shapeId, err := box2d.B2CreateCircleShape(bodyId, &shapeDef, &circle)
	if err != nil {
		t.Fatalf("create shape: %v", err)
	}

	if err := box2d.B2DestroyBody(bodyId); err != nil {
		t.Fatalf("destroy body: %v", err)
	}

	if box2d.B2Body_IsValid(bodyId) || box2d.B2Shape_IsValid(shapeId) {
		t.Fatalf("destroyed body or shape still valid")
	}

	if err := box2d.B2DestroyBody(bodyId); errors.Is(err, box2d.ErrInvalidId) == false {
		t.Fatalf("double destroy returned %v", err)
	}

	// The slot is reused with a new revision
	newBodyId, err := box2d.B2CreateBody(worldId, &bodyDef)
	if err != nil {
		t.Fatalf("create body: %v", err)
	}
	if newBodyId.Index1 != bodyId.Index1 || newBodyId.Revision == bodyId.Revision {
		t.Fatalf("slot reuse: old %+v, new %+v", bodyId, newBodyId)
	}
	if box2d.B2Body_IsValid(bodyId) {
		t.Fatalf("stale id accepted after slot reuse")
	}
	if err := box2d.B2Body_SetLinearVelocity(bodyId, box2d.MakeB2Vec2(1.0, 0.0)); errors.Is(err, box2d.ErrInvalidId) == false {
		t.Fatalf("stale mutator returned %v", err)
	}

	if err := box2d.B2DestroyWorld(worldId); err != nil {
		t.Fatalf("destroy world: %v", err)
	}

	if box2d.B2World_IsValid(worldId) || box2d.B2Body_IsValid(newBodyId) {
		t.Fatalf("ids of a destroyed world are still valid")
	}

	if err := box2d.B2World_Step(worldId, testTimeStep, testSubStepCount, testRelax); errors.Is(err, box2d.ErrInvalidId) == false {
		t.Fatalf("step on destroyed world returned %v", err)
	}

	// A new world in the same slot does not accept the old world id
	otherId, err := box2d.B2CreateWorld(&def)
	if err != nil {
		t.Fatalf("create world: %v", err)
	}
	defer box2d.B2DestroyWorld(otherId)

	if box2d.B2World_IsValid(worldId) {
		t.Fatalf("old world id accepted by %+v", otherId)
	}
}

func TestChildIdsAfterWorldReuse(t *testing.T) {
	def := box2d.B2DefaultWorldDef()
	oldWorldId, err := box2d.B2CreateWorld(&def)
	if err != nil {
		t.Fatalf("create world: %v", err)
	}

	oldBodyId, oldShapeId := createCircle(t, oldWorldId, box2d.MakeB2Vec2(0.0, 4.0), 0.5, box2d.B2DefaultShapeDef())

	if err := box2d.B2DestroyWorld(oldWorldId); err != nil {
		t.Fatalf("destroy world: %v", err)
	}

	// The new world takes the same world slot and the same body and shape slots
	worldId := createTestWorld(t, def)
	bodyId, shapeId := createCircle(t, worldId, box2d.MakeB2Vec2(0.0, 4.0), 0.5, box2d.B2DefaultShapeDef())

	current := fmt.Sprintf("same slots = %v", bodyId.World0 == oldBodyId.World0 && bodyId.Index1 == oldBodyId.Index1 && bodyId.Revision == oldBodyId.Revision)
	current += fmt.Sprintf(", body valid = %v, shape valid = %v", box2d.B2Body_IsValid(oldBodyId), box2d.B2Shape_IsValid(oldShapeId))

	err = box2d.B2Body_SetLinearVelocity(oldBodyId, box2d.MakeB2Vec2(99.0, 0.0))
	current += fmt.Sprintf(", set velocity invalid = %v", errors.Is(err, box2d.ErrInvalidId))

	velocity := box2d.B2Body_GetLinearVelocity(bodyId)
	current += fmt.Sprintf(", velocity = (%.1f, %.1f)", velocity.X, velocity.Y)
	current += fmt.Sprintf(", new ids valid = %v", box2d.B2Body_IsValid(bodyId) && box2d.B2Shape_IsValid(shapeId))

	expected := "same slots = true, body valid = false, shape valid = false, set velocity invalid = true, velocity = (0.0, 0.0), new ids valid = true"
	checkMatch(t, expected, current)
}

func TestZeroTimeStep(t *testing.T) {
	worldId := createTestWorld(t, box2d.B2DefaultWorldDef())
	bodyId, _ := createCircle(t, worldId, box2d.MakeB2Vec2(0.0, 4.0), 0.5, box2d.B2DefaultShapeDef())

	for i := 0; i < 10; i++ {
		if err := box2d.B2World_Step(worldId, 0.0, testSubStepCount, testRelax); err != nil {
			t.Fatalf("step: %v", err)
		}
	}

	position := box2d.B2Body_GetPosition(bodyId)
	if position.X != 0.0 || position.Y != 4.0 {
		t.Fatalf("zero time step moved the body to (%v, %v)", position.X, position.Y)
	}

	if err := box2d.B2World_Step(worldId, -1.0, testSubStepCount, testRelax); errors.Is(err, box2d.ErrInvalidDef) == false {
		t.Fatalf("negative time step returned %v", err)
	}
}

func TestWorldDump(t *testing.T) {
	worldId := createTestWorld(t, box2d.B2DefaultWorldDef())
	groundId := createGround(t, worldId)
	bodyId, _ := createCircle(t, worldId, box2d.MakeB2Vec2(0.0, 4.0), 0.5, box2d.B2DefaultShapeDef())

	jointDef := box2d.B2DefaultDistanceJointDef()
	jointDef.BodyIdA = groundId
	jointDef.BodyIdB = bodyId
	jointDef.LocalAnchorA = box2d.MakeB2Vec2(0.0, 6.0)
	jointDef.Length = 2.0
	if _, err := box2d.B2CreateDistanceJoint(worldId, &jointDef); err != nil {
		t.Fatalf("create joint: %v", err)
	}

	var buffer bytes.Buffer
	if err := box2d.B2World_Dump(worldId, &buffer); err != nil {
		t.Fatalf("dump: %v", err)
	}

	dump := buffer.String()
	for _, line := range []string{
		"gravity = (0.000000000000000, -10.000000000000000)",
		"bodies = 2",
		"joints = 1",
		"  bd.position = (0.000000000000000, 4.000000000000000)",
		"    circle.radius = 0.500000000000000",
		"  jd.length = 2.000000000000000",
		"  jd.bodyB = bodies[1]",
	} {
		if strings.Contains(dump, line) == false {
			t.Fatalf("dump is missing %q:\n%s", line, dump)
		}
	}
}
