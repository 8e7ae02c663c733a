package box2d_test

import (
	"math"
	"testing"

	box2d "github.com/Alexander-r/box2d.go/v3"
)

func createBox(t *testing.T, worldId box2d.B2WorldId, position box2d.B2Vec2, h float64) box2d.B2BodyId {
	t.Helper()

	bodyDef := box2d.B2DefaultBodyDef()
	bodyDef.Type = box2d.B2BodyType.E_dynamicBody
	bodyDef.Position = position
	bodyId, err := box2d.B2CreateBody(worldId, &bodyDef)
	if err != nil {
		t.Fatalf("create body: %v", err)
	}

	shapeDef := box2d.B2DefaultShapeDef()
	box := box2d.B2MakeSquare(h)
	if _, err := box2d.B2CreatePolygonShape(bodyId, &shapeDef, &box); err != nil {
		t.Fatalf("create shape: %v", err)
	}
	return bodyId
}

func anchorSeparation(jointId box2d.B2JointId) float64 {
	pA := box2d.B2Body_GetWorldPoint(box2d.B2Joint_GetBodyA(jointId), box2d.B2Joint_GetLocalAnchorA(jointId))
	pB := box2d.B2Body_GetWorldPoint(box2d.B2Joint_GetBodyB(jointId), box2d.B2Joint_GetLocalAnchorB(jointId))
	return box2d.B2Vec2Distance(pA, pB)
}

func TestRevoluteJoint(t *testing.T) {
	worldId := createTestWorld(t, box2d.B2DefaultWorldDef())
	groundId := createGround(t, worldId)
	bodyId := createBox(t, worldId, box2d.MakeB2Vec2(2.0, 10.0), 0.25)

	jointDef := box2d.B2DefaultRevoluteJointDef()
	jointDef.Initialize(groundId, bodyId, box2d.MakeB2Vec2(0.0, 10.0))
	jointId, err := box2d.B2CreateRevoluteJoint(worldId, &jointDef)
	if err != nil {
		t.Fatalf("create joint: %v", err)
	}

	lowest := 10.0
	for i := 0; i < 120; i++ {
		stepWorld(t, worldId, 1)

		if separation := anchorSeparation(jointId); separation > 0.01 {
			t.Fatalf("step %d: anchor separation %.4f", i, separation)
		}
		lowest = math.Min(lowest, box2d.B2Body_GetPosition(bodyId).Y)
	}

	// The pendulum passed below the pivot
	if lowest > 8.5 {
		t.Fatalf("pendulum did not swing, lowest y = %.3f", lowest)
	}

	position := box2d.B2Body_GetPosition(bodyId)

	if math.Abs(box2d.B2Vec2Distance(position, box2d.MakeB2Vec2(0.0, 10.0))-2.0) > 0.01 {
		t.Fatalf("pendulum radius changed: (%.3f, %.3f)", position.X, position.Y)
	}

	if err := box2d.B2DestroyJoint(jointId); err != nil {
		t.Fatalf("destroy joint: %v", err)
	}
	if box2d.B2Joint_IsValid(jointId) {
		t.Fatalf("destroyed joint still valid")
	}
}

func TestRevoluteMotor(t *testing.T) {
	def := box2d.B2DefaultWorldDef()
	def.Gravity = box2d.B2Vec2_zero
	worldId := createTestWorld(t, def)
	groundId := createGround(t, worldId)
	bodyId := createBox(t, worldId, box2d.MakeB2Vec2(0.0, 10.0), 0.5)

	jointDef := box2d.B2DefaultRevoluteJointDef()
	jointDef.Initialize(groundId, bodyId, box2d.MakeB2Vec2(0.0, 10.0))
	jointDef.EnableMotor = true
	jointDef.MotorSpeed = 2.0
	// The soft limit yields by roughly torque / (I * (2 pi jointHertz)^2), so keep
	// the torque small enough for the limit to hold
	jointDef.MaxMotorTorque = 10.0
	jointId, err := box2d.B2CreateRevoluteJoint(worldId, &jointDef)
	if err != nil {
		t.Fatalf("create joint: %v", err)
	}

	stepWorld(t, worldId, 30)

	if w := box2d.B2Body_GetAngularVelocity(bodyId); math.Abs(w-2.0) > 0.01 {
		t.Fatalf("angular velocity %.4f, expected 2", w)
	}

	// A limit stops the rotation
	if err := box2d.B2RevoluteJoint_SetLimits(jointId, -0.25*math.Pi, 0.25*math.Pi); err != nil {
		t.Fatalf("set limits: %v", err)
	}
	if err := box2d.B2RevoluteJoint_EnableLimit(jointId, true); err != nil {
		t.Fatalf("enable limit: %v", err)
	}
	if err := box2d.B2RevoluteJoint_SetMotorSpeed(jointId, 0.5); err != nil {
		t.Fatalf("set motor speed: %v", err)
	}

	stepWorld(t, worldId, 240)

	angle := box2d.B2RevoluteJoint_GetAngle(jointId)
	if math.Abs(angle-0.25*math.Pi) > 0.02 {
		t.Fatalf("joint angle %.4f, expected the upper limit", angle)
	}
}

func TestRevoluteMotorWakesBodies(t *testing.T) {
	def := box2d.B2DefaultWorldDef()
	def.Gravity = box2d.B2Vec2_zero
	worldId := createTestWorld(t, def)
	groundId := createGround(t, worldId)
	bodyId := createBox(t, worldId, box2d.MakeB2Vec2(0.0, 10.0), 0.5)

	jointDef := box2d.B2DefaultRevoluteJointDef()
	jointDef.Initialize(groundId, bodyId, box2d.MakeB2Vec2(0.0, 10.0))
	jointDef.MaxMotorTorque = 10.0
	jointId, err := box2d.B2CreateRevoluteJoint(worldId, &jointDef)
	if err != nil {
		t.Fatalf("create joint: %v", err)
	}

	// At rest without gravity the body falls asleep
	stepWorld(t, worldId, 60)
	if box2d.B2Body_IsAwake(bodyId) {
		t.Fatalf("body did not fall asleep")
	}

	if err := box2d.B2RevoluteJoint_EnableMotor(jointId, true); err != nil {
		t.Fatalf("enable motor: %v", err)
	}
	if err := box2d.B2RevoluteJoint_SetMotorSpeed(jointId, 1.5); err != nil {
		t.Fatalf("set motor speed: %v", err)
	}
	if box2d.B2Body_IsAwake(bodyId) == false {
		t.Fatalf("motor change did not wake the body")
	}

	stepWorld(t, worldId, 30)

	if w := box2d.B2Body_GetAngularVelocity(bodyId); math.Abs(w-1.5) > 0.01 {
		t.Fatalf("angular velocity %.4f, expected 1.5", w)
	}
}

func TestDistanceJoint(t *testing.T) {
	worldId := createTestWorld(t, box2d.B2DefaultWorldDef())
	groundId := createGround(t, worldId)
	bodyId := createBox(t, worldId, box2d.MakeB2Vec2(3.0, 10.0), 0.25)

	jointDef := box2d.B2DefaultDistanceJointDef()
	jointDef.Initialize(groundId, bodyId, box2d.MakeB2Vec2(0.0, 10.0), box2d.MakeB2Vec2(3.0, 10.0))
	jointId, err := box2d.B2CreateDistanceJoint(worldId, &jointDef)
	if err != nil {
		t.Fatalf("create joint: %v", err)
	}

	lowest := 10.0
	for i := 0; i < 120; i++ {
		stepWorld(t, worldId, 1)

		if length := box2d.B2DistanceJoint_GetCurrentLength(jointId); math.Abs(length-3.0) > 0.02 {
			t.Fatalf("step %d: distance joint length %.4f, expected 3", i, length)
		}

		pA := box2d.B2Body_GetWorldPoint(groundId, box2d.B2Joint_GetLocalAnchorA(jointId))
		pB := box2d.B2Body_GetWorldPoint(bodyId, box2d.B2Joint_GetLocalAnchorB(jointId))
		if math.Abs(box2d.B2Vec2Distance(pA, pB)-3.0) > 0.02 {
			t.Fatalf("step %d: anchors %.4f apart", i, box2d.B2Vec2Distance(pA, pB))
		}
		lowest = math.Min(lowest, box2d.B2Body_GetPosition(bodyId).Y)
	}

	// The pendulum reaches the bottom of its swing, three below the pivot
	if lowest > 7.2 {
		t.Fatalf("body did not swing, lowest y = %.3f", lowest)
	}

	// A soft spring with a limit stretches but stays inside the range
	if err := box2d.B2DistanceJoint_EnableSpring(jointId, true); err != nil {
		t.Fatalf("enable spring: %v", err)
	}
	if err := box2d.B2DistanceJoint_SetSpringHertz(jointId, 1.0); err != nil {
		t.Fatalf("set hertz: %v", err)
	}
	if err := box2d.B2DistanceJoint_SetLengthRange(jointId, 2.0, 3.5); err != nil {
		t.Fatalf("set range: %v", err)
	}
	if err := box2d.B2DistanceJoint_EnableLimit(jointId, true); err != nil {
		t.Fatalf("enable limit: %v", err)
	}

	for i := 0; i < 120; i++ {
		stepWorld(t, worldId, 1)

		if length := box2d.B2DistanceJoint_GetCurrentLength(jointId); length > 3.5+0.02 {
			t.Fatalf("step %d: length %.4f exceeds the limit", i, length)
		}
	}
}

func TestPrismaticJoint(t *testing.T) {
	worldId := createTestWorld(t, box2d.B2DefaultWorldDef())
	groundId := createGround(t, worldId)
	bodyId := createBox(t, worldId, box2d.MakeB2Vec2(0.0, 5.0), 0.5)

	jointDef := box2d.B2DefaultPrismaticJointDef()
	jointDef.Initialize(groundId, bodyId, box2d.MakeB2Vec2(0.0, 5.0), box2d.MakeB2Vec2(1.0, 0.0))
	jointDef.EnableLimit = true
	jointDef.LowerTranslation = -1.0
	jointDef.UpperTranslation = 2.0
	jointId, err := box2d.B2CreatePrismaticJoint(worldId, &jointDef)
	if err != nil {
		t.Fatalf("create joint: %v", err)
	}

	if err := box2d.B2Body_SetLinearVelocity(bodyId, box2d.MakeB2Vec2(4.0, 0.0)); err != nil {
		t.Fatalf("set velocity: %v", err)
	}

	for i := 0; i < 120; i++ {
		stepWorld(t, worldId, 1)

		position := box2d.B2Body_GetPosition(bodyId)
		if math.Abs(position.Y-5.0) > 0.01 || math.Abs(box2d.B2Body_GetAngle(bodyId)) > 0.01 {
			t.Fatalf("step %d: body left the axis (%.4f, %.4f)", i, position.X, position.Y)
		}
	}

	if translation := box2d.B2PrismaticJoint_GetTranslation(jointId); math.Abs(translation-2.0) > 0.02 {
		t.Fatalf("translation %.4f, expected the upper limit", translation)
	}

	// Resting against the limit the body goes to sleep
	for i := 0; box2d.B2Body_IsAwake(bodyId); i++ {
		if i == 120 {
			t.Fatalf("body did not fall asleep at the limit")
		}
		stepWorld(t, worldId, 1)
	}

	// The motor wakes the body and drives it back to the lower limit
	if err := box2d.B2PrismaticJoint_EnableMotor(jointId, true); err != nil {
		t.Fatalf("enable motor: %v", err)
	}
	if err := box2d.B2PrismaticJoint_SetMaxMotorForce(jointId, 100.0); err != nil {
		t.Fatalf("set max force: %v", err)
	}
	if err := box2d.B2PrismaticJoint_SetMotorSpeed(jointId, -2.0); err != nil {
		t.Fatalf("set motor speed: %v", err)
	}
	if box2d.B2Body_IsAwake(bodyId) == false {
		t.Fatalf("motor change did not wake the body")
	}

	stepWorld(t, worldId, 180)

	if translation := box2d.B2PrismaticJoint_GetTranslation(jointId); math.Abs(translation+1.0) > 0.02 {
		t.Fatalf("translation %.4f, expected the lower limit", translation)
	}
}

func TestWeldJoint(t *testing.T) {
	worldId := createTestWorld(t, box2d.B2DefaultWorldDef())
	groundId := createGround(t, worldId)
	bodyId := createBox(t, worldId, box2d.MakeB2Vec2(0.0, 5.0), 0.5)

	jointDef := box2d.B2DefaultWeldJointDef()
	jointDef.Initialize(groundId, bodyId, box2d.MakeB2Vec2(0.0, 5.0))
	if _, err := box2d.B2CreateWeldJoint(worldId, &jointDef); err != nil {
		t.Fatalf("create joint: %v", err)
	}

	stepWorld(t, worldId, 120)

	position := box2d.B2Body_GetPosition(bodyId)
	if box2d.B2Vec2Distance(position, box2d.MakeB2Vec2(0.0, 5.0)) > 0.01 || math.Abs(box2d.B2Body_GetAngle(bodyId)) > 0.01 {
		t.Fatalf("welded body moved to (%.4f, %.4f)", position.X, position.Y)
	}
}

func TestMouseJoint(t *testing.T) {
	def := box2d.B2DefaultWorldDef()
	def.Gravity = box2d.B2Vec2_zero
	worldId := createTestWorld(t, def)
	groundId := createGround(t, worldId)
	bodyId := createBox(t, worldId, box2d.MakeB2Vec2(0.0, 5.0), 0.5)

	jointDef := box2d.B2DefaultMouseJointDef()
	jointDef.BodyIdA = groundId
	jointDef.BodyIdB = bodyId
	jointDef.Target = box2d.MakeB2Vec2(0.0, 5.0)
	jointDef.MaxForce = 1000.0 * box2d.B2Body_GetMass(bodyId)
	jointId, err := box2d.B2CreateMouseJoint(worldId, &jointDef)
	if err != nil {
		t.Fatalf("create joint: %v", err)
	}

	target := box2d.MakeB2Vec2(4.0, 7.0)
	if err := box2d.B2MouseJoint_SetTarget(jointId, target); err != nil {
		t.Fatalf("set target: %v", err)
	}

	stepWorld(t, worldId, 180)

	position := box2d.B2Body_GetPosition(bodyId)
	if box2d.B2Vec2Distance(position, target) > 0.05 {
		t.Fatalf("body at (%.4f, %.4f), expected the target", position.X, position.Y)
	}
}

func TestWheelJoint(t *testing.T) {
	worldId := createTestWorld(t, box2d.B2DefaultWorldDef())
	groundId := createGround(t, worldId)
	bodyId := createBox(t, worldId, box2d.MakeB2Vec2(0.0, 5.0), 0.5)

	jointDef := box2d.B2DefaultWheelJointDef()
	jointDef.Initialize(groundId, bodyId, box2d.MakeB2Vec2(0.0, 5.0), box2d.MakeB2Vec2(0.0, 1.0))
	jointDef.EnableMotor = true
	jointDef.MotorSpeed = 3.0
	jointDef.MaxMotorTorque = 100.0
	if _, err := box2d.B2CreateWheelJoint(worldId, &jointDef); err != nil {
		t.Fatalf("create joint: %v", err)
	}

	stepWorld(t, worldId, 240)

	// The suspension sags under gravity but the wheel stays on its axis and spins
	position := box2d.B2Body_GetPosition(bodyId)
	if math.Abs(position.X) > 0.01 {
		t.Fatalf("wheel left the axis: (%.4f, %.4f)", position.X, position.Y)
	}
	if position.Y > 5.0-0.1 || position.Y < 4.0 {
		t.Fatalf("suspension sag %.4f", 5.0-position.Y)
	}
	if w := box2d.B2Body_GetAngularVelocity(bodyId); math.Abs(w-3.0) > 0.05 {
		t.Fatalf("wheel spins at %.4f, expected 3", w)
	}
}

func TestMotorJoint(t *testing.T) {
	def := box2d.B2DefaultWorldDef()
	def.Gravity = box2d.B2Vec2_zero
	worldId := createTestWorld(t, def)
	groundId := createGround(t, worldId)
	bodyId := createBox(t, worldId, box2d.MakeB2Vec2(0.0, 5.0), 0.5)

	jointDef := box2d.B2DefaultMotorJointDef()
	jointDef.Initialize(groundId, bodyId)
	jointDef.MaxForce = 500.0
	jointDef.MaxTorque = 500.0
	jointId, err := box2d.B2CreateMotorJoint(worldId, &jointDef)
	if err != nil {
		t.Fatalf("create joint: %v", err)
	}

	if err := box2d.B2MotorJoint_SetLinearOffset(jointId, box2d.MakeB2Vec2(2.0, 6.0)); err != nil {
		t.Fatalf("set offset: %v", err)
	}
	if err := box2d.B2MotorJoint_SetAngularOffset(jointId, 0.5); err != nil {
		t.Fatalf("set angular offset: %v", err)
	}

	stepWorld(t, worldId, 300)

	position := box2d.B2Body_GetPosition(bodyId)
	if box2d.B2Vec2Distance(position, box2d.MakeB2Vec2(2.0, 6.0)) > 0.05 {
		t.Fatalf("body at (%.4f, %.4f), expected the linear offset", position.X, position.Y)
	}
	if angle := box2d.B2Body_GetAngle(bodyId); math.Abs(angle-0.5) > 0.02 {
		t.Fatalf("body angle %.4f, expected the angular offset", angle)
	}
}
