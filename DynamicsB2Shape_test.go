package box2d_test

import (
	"errors"
	"math"
	"testing"

	box2d "github.com/Alexander-r/box2d.go/v3"
)

// Flat chain along y = 0 with upward facing normals.
func createChainGround(t *testing.T, worldId box2d.B2WorldId) box2d.B2ChainId {
	t.Helper()

	bodyDef := box2d.B2DefaultBodyDef()
	groundId, err := box2d.B2CreateBody(worldId, &bodyDef)
	if err != nil {
		t.Fatalf("create ground: %v", err)
	}

	chainDef := box2d.B2DefaultChainDef()
	chainDef.Points = []box2d.B2Vec2{
		box2d.MakeB2Vec2(30.0, 0.0),
		box2d.MakeB2Vec2(20.0, 0.0),
		box2d.MakeB2Vec2(0.0, 0.0),
		box2d.MakeB2Vec2(-20.0, 0.0),
		box2d.MakeB2Vec2(-30.0, 0.0),
	}

	chainId, err := box2d.B2CreateChain(groundId, &chainDef)
	if err != nil {
		t.Fatalf("create chain: %v", err)
	}
	return chainId
}

func TestChainSmoothSliding(t *testing.T) {
	worldId := createTestWorld(t, box2d.B2DefaultWorldDef())
	chainId := createChainGround(t, worldId)

	if segments := box2d.B2Chain_GetSegments(chainId); len(segments) != 2 {
		t.Fatalf("open chain of 5 points has %d segments", len(segments))
	}

	bodyDef := box2d.B2DefaultBodyDef()
	bodyDef.Type = box2d.B2BodyType.E_dynamicBody
	bodyDef.Position = box2d.MakeB2Vec2(-5.0, 0.5)
	bodyDef.LinearVelocity = box2d.MakeB2Vec2(10.0, 0.0)
	bodyId, err := box2d.B2CreateBody(worldId, &bodyDef)
	if err != nil {
		t.Fatalf("create body: %v", err)
	}

	shapeDef := box2d.B2DefaultShapeDef()
	shapeDef.Friction = 0.0
	box := box2d.B2MakeSquare(0.5)
	if _, err := box2d.B2CreatePolygonShape(bodyId, &shapeDef, &box); err != nil {
		t.Fatalf("create shape: %v", err)
	}

	// The box crosses the internal vertex at x = 0 without catching on it
	for i := 0; i < 90; i++ {
		stepWorld(t, worldId, 1)

		v := box2d.B2Body_GetLinearVelocity(bodyId)
		if math.Abs(v.X-10.0) > 0.25 || math.Abs(v.Y) > 0.25 {
			t.Fatalf("step %d: box snagged, velocity (%.3f, %.3f)", i, v.X, v.Y)
		}
	}

	position := box2d.B2Body_GetPosition(bodyId)
	if position.X < 9.0 || math.Abs(position.Y-0.5) > 2.0*box2d.B2_linearSlop {
		t.Fatalf("box at (%.3f, %.3f)", position.X, position.Y)
	}

	if len(box2d.B2Body_GetContactData(bodyId)) == 0 {
		t.Fatalf("sliding box reports no contacts")
	}
}

func TestChainOneSided(t *testing.T) {
	worldId := createTestWorld(t, box2d.B2DefaultWorldDef())
	chainId := createChainGround(t, worldId)

	// Coming from below the circle passes through the chain
	bodyId, _ := createCircle(t, worldId, box2d.MakeB2Vec2(5.0, -2.0), 0.25, box2d.B2DefaultShapeDef())
	if err := box2d.B2Body_SetLinearVelocity(bodyId, box2d.MakeB2Vec2(0.0, 10.0)); err != nil {
		t.Fatalf("set velocity: %v", err)
	}

	stepWorld(t, worldId, 20)

	if y := box2d.B2Body_GetPosition(bodyId).Y; y < 0.5 {
		t.Fatalf("circle stopped below the chain at y = %.3f", y)
	}

	// and then lands on top of it
	stepWorld(t, worldId, 120)

	if y := box2d.B2Body_GetPosition(bodyId).Y; math.Abs(y-0.25) > 2.0*box2d.B2_linearSlop {
		t.Fatalf("circle rests at y = %.3f", y)
	}

	if err := box2d.B2DestroyChain(chainId); err != nil {
		t.Fatalf("destroy chain: %v", err)
	}
	if box2d.B2Chain_IsValid(chainId) {
		t.Fatalf("destroyed chain still valid")
	}
}

func TestChainValidation(t *testing.T) {
	worldId := createTestWorld(t, box2d.B2DefaultWorldDef())

	bodyDef := box2d.B2DefaultBodyDef()
	groundId, err := box2d.B2CreateBody(worldId, &bodyDef)
	if err != nil {
		t.Fatalf("create ground: %v", err)
	}

	chainDef := box2d.B2DefaultChainDef()
	chainDef.Points = []box2d.B2Vec2{box2d.MakeB2Vec2(0.0, 0.0), box2d.MakeB2Vec2(1.0, 0.0), box2d.MakeB2Vec2(2.0, 0.0)}
	if _, err := box2d.B2CreateChain(groundId, &chainDef); errors.Is(err, box2d.ErrDegenerateGeometry) == false {
		t.Fatalf("open chain of 3 points returned %v", err)
	}

	chainDef.Points = []box2d.B2Vec2{
		box2d.MakeB2Vec2(0.0, 0.0),
		box2d.MakeB2Vec2(1.0, 0.0),
		box2d.MakeB2Vec2(1.0, 0.001),
		box2d.MakeB2Vec2(2.0, 0.0),
	}
	if _, err := box2d.B2CreateChain(groundId, &chainDef); errors.Is(err, box2d.ErrDegenerateGeometry) == false {
		t.Fatalf("chain with welded points returned %v", err)
	}

	chainDef.Points = []box2d.B2Vec2{
		box2d.MakeB2Vec2(-1.0, -1.0),
		box2d.MakeB2Vec2(1.0, -1.0),
		box2d.MakeB2Vec2(1.0, 1.0),
		box2d.MakeB2Vec2(-1.0, 1.0),
	}
	chainDef.IsLoop = true
	chainId, err := box2d.B2CreateChain(groundId, &chainDef)
	if err != nil {
		t.Fatalf("create loop: %v", err)
	}
	if segments := box2d.B2Chain_GetSegments(chainId); len(segments) != 4 {
		t.Fatalf("loop of 4 points has %d segments", len(segments))
	}
}

func TestShapeFiltering(t *testing.T) {
	worldId := createTestWorld(t, box2d.B2DefaultWorldDef())
	createGround(t, worldId)

	// Negative group: never collide with each other
	shapeDef := box2d.B2DefaultShapeDef()
	shapeDef.Filter.GroupIndex = -1
	lowerId, lowerShape := createCircle(t, worldId, box2d.MakeB2Vec2(0.0, 1.5), 0.5, shapeDef)
	upperId, _ := createCircle(t, worldId, box2d.MakeB2Vec2(0.0, 2.4), 0.5, shapeDef)

	// Custom filtering rejects the ground
	customDef := box2d.B2DefaultShapeDef()
	customDef.EnableCustomFiltering = true
	ghostId, _ := createCircle(t, worldId, box2d.MakeB2Vec2(5.0, 3.0), 0.5, customDef)

	rejected := 0
	filter := func(shapeIdA box2d.B2ShapeId, shapeIdB box2d.B2ShapeId, context any) bool {
		rejected++
		return false
	}
	if err := box2d.B2World_SetCustomFilterCallback(worldId, filter, nil); err != nil {
		t.Fatalf("set filter: %v", err)
	}

	stepWorld(t, worldId, 60)

	if y := box2d.B2Body_GetPosition(lowerId).Y; math.Abs(y-1.5) > 2.0*box2d.B2_linearSlop {
		t.Fatalf("lower circle at y = %.3f", y)
	}
	if y := box2d.B2Body_GetPosition(upperId).Y; math.Abs(y-1.5) > 2.0*box2d.B2_linearSlop {
		t.Fatalf("grouped circles collided, upper at y = %.3f", y)
	}
	if rejected == 0 || box2d.B2Body_GetPosition(ghostId).Y > 0.0 {
		t.Fatalf("custom filter did not reject the ground")
	}

	// Changing the filter restores the collision with the next pair update
	filterData := box2d.B2DefaultFilter()
	if err := box2d.B2Shape_SetFilter(lowerShape, filterData); err != nil {
		t.Fatalf("set filter: %v", err)
	}
	if err := box2d.B2Body_SetTransform(upperId, box2d.MakeB2Vec2(0.0, 3.0), 0.0); err != nil {
		t.Fatalf("set transform: %v", err)
	}
	if err := box2d.B2Body_SetAwake(upperId, true); err != nil {
		t.Fatalf("set awake: %v", err)
	}

	stepWorld(t, worldId, 120)

	if y := box2d.B2Body_GetPosition(upperId).Y; math.Abs(y-2.5) > 4.0*box2d.B2_linearSlop {
		t.Fatalf("upper circle should stack at 2.5, y = %.3f", y)
	}
}

func TestBodyTypeAndEnable(t *testing.T) {
	worldId := createTestWorld(t, box2d.B2DefaultWorldDef())
	createGround(t, worldId)

	bodyDef := box2d.B2DefaultBodyDef()
	bodyDef.Position = box2d.MakeB2Vec2(0.0, 5.0)
	bodyId, err := box2d.B2CreateBody(worldId, &bodyDef)
	if err != nil {
		t.Fatalf("create body: %v", err)
	}

	shapeDef := box2d.B2DefaultShapeDef()
	capsule := box2d.B2Capsule{Center1: box2d.MakeB2Vec2(-0.5, 0.0), Center2: box2d.MakeB2Vec2(0.5, 0.0), Radius: 0.25}
	shapeId, err := box2d.B2CreateCapsuleShape(bodyId, &shapeDef, &capsule)
	if err != nil {
		t.Fatalf("create capsule: %v", err)
	}

	if box2d.B2Shape_TestPoint(shapeId, box2d.MakeB2Vec2(0.6, 5.1)) == false || box2d.B2Shape_TestPoint(shapeId, box2d.MakeB2Vec2(0.0, 5.5)) {
		t.Fatalf("capsule point test")
	}

	output := box2d.B2Shape_RayCast(shapeId, box2d.MakeB2Vec2(0.0, 7.0), box2d.MakeB2Vec2(0.0, -4.0))
	if output.Hit == false || math.Abs(output.Point.Y-5.25) > 1e-6 {
		t.Fatalf("capsule ray cast: %+v", output)
	}

	stepWorld(t, worldId, 30)
	if box2d.B2Body_GetPosition(bodyId).Y != 5.0 {
		t.Fatalf("static body moved")
	}

	if err := box2d.B2Body_SetType(bodyId, box2d.B2BodyType.E_dynamicBody); err != nil {
		t.Fatalf("set type: %v", err)
	}
	if box2d.B2Body_GetMass(bodyId) <= 0.0 {
		t.Fatalf("dynamic body has no mass")
	}

	stepWorld(t, worldId, 30)
	y := box2d.B2Body_GetPosition(bodyId).Y
	if y > 4.5 {
		t.Fatalf("dynamic body did not fall, y = %.3f", y)
	}

	// A disabled body leaves the simulation and the queries
	if err := box2d.B2Body_Disable(bodyId); err != nil {
		t.Fatalf("disable: %v", err)
	}

	stepWorld(t, worldId, 30)
	if box2d.B2Body_GetPosition(bodyId).Y != y || box2d.B2Body_IsEnabled(bodyId) {
		t.Fatalf("disabled body moved")
	}

	result, err := box2d.B2World_RayCastClosest(worldId, box2d.MakeB2Vec2(0.0, 10.0), box2d.MakeB2Vec2(0.0, -20.0), box2d.B2DefaultQueryFilter())
	if err != nil {
		t.Fatalf("ray cast: %v", err)
	}
	if box2d.B2ShapeIdEquals(result.ShapeId, shapeId) {
		t.Fatalf("ray hit a disabled body")
	}

	if err := box2d.B2Body_Enable(bodyId); err != nil {
		t.Fatalf("enable: %v", err)
	}

	stepWorld(t, worldId, 120)
	if y := box2d.B2Body_GetPosition(bodyId).Y; math.Abs(y-1.25) > 2.0*box2d.B2_linearSlop {
		t.Fatalf("capsule rests at y = %.3f", y)
	}

	if err := box2d.B2DestroyShape(shapeId); err != nil {
		t.Fatalf("destroy shape: %v", err)
	}
	if box2d.B2Shape_IsValid(shapeId) || box2d.B2Body_GetMass(bodyId) != 0.0 {
		t.Fatalf("shape destroy did not update the body")
	}
}
