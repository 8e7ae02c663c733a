package box2d

import (
	"fmt"
	"io"
	"math"
)

/// Motor joint definition. The linear offset is the target position of body B
/// in the frame of body A. The angular offset is the target angle of body B
/// relative to body A.
type B2MotorJointDef struct {
	B2JointDef

	/// Position of bodyB minus the position of bodyA, in bodyA's frame, in meters.
	LinearOffset B2Vec2

	/// The bodyB angle minus bodyA angle in radians.
	AngularOffset float64

	/// The maximum motor force in N.
	MaxForce float64

	/// The maximum motor torque in N-m.
	MaxTorque float64

	/// Position correction factor in the range [0,1].
	CorrectionFactor float64
}

func B2DefaultMotorJointDef() B2MotorJointDef {
	return B2MotorJointDef{
		MaxForce:         1.0,
		MaxTorque:        1.0,
		CorrectionFactor: 0.3,
	}
}

func MakeB2MotorJointDef() B2MotorJointDef {
	return B2DefaultMotorJointDef()
}

/// Initialize the bodies and offsets using the current transforms.
func (def *B2MotorJointDef) Initialize(bodyIdA B2BodyId, bodyIdB B2BodyId) {
	def.BodyIdA = bodyIdA
	def.BodyIdB = bodyIdB
	def.LinearOffset = B2Body_GetLocalPoint(bodyIdA, B2Body_GetPosition(bodyIdB))
	def.AngularOffset = B2RelativeAngle(B2Body_GetRotation(bodyIdB), B2Body_GetRotation(bodyIdA))
}

/// A motor joint is used to control the relative motion
/// between two bodies. A typical usage is to control the movement
/// of a dynamic body with respect to the ground.
type b2MotorJoint struct {
	LinearOffset     B2Vec2
	AngularOffset    float64
	LinearImpulse    B2Vec2
	AngularImpulse   float64
	MaxForce         float64
	MaxTorque        float64
	CorrectionFactor float64

	// Solver temp
	DeltaAngle  float64
	LinearMass  B2Mat22
	AngularMass float64
}

/// Create a motor joint
func B2CreateMotorJoint(worldId B2WorldId, def *B2MotorJointDef) (B2JointId, error) {
	world, bodyA, bodyB, err := b2ValidateJointDef(worldId, &def.B2JointDef)
	if err != nil {
		return B2_nullJointId, err
	}

	if def.MaxForce < 0.0 || def.MaxTorque < 0.0 || def.CorrectionFactor < 0.0 || def.CorrectionFactor > 1.0 {
		return B2_nullJointId, fmt.Errorf("motor joint def: %w", ErrInvalidDef)
	}

	return b2CreateJointInternal(world, bodyA, bodyB, &def.B2JointDef, B2JointType.E_motorJoint, func(joint *b2Joint) {
		// The anchor on A tracks the linear offset and the anchor on B is the body origin.
		joint.LocalOriginAnchorA = def.LinearOffset
		joint.LocalOriginAnchorB = B2Vec2_zero

		joint.Motor = b2MotorJoint{
			LinearOffset:     def.LinearOffset,
			AngularOffset:    def.AngularOffset,
			MaxForce:         def.MaxForce,
			MaxTorque:        def.MaxTorque,
			CorrectionFactor: def.CorrectionFactor,
		}
	}), nil
}

/// Set the motor joint linear offset target
func B2MotorJoint_SetLinearOffset(jointId B2JointId, linearOffset B2Vec2) error {
	world, base, err := b2GetMutableJoint(jointId, B2JointType.E_motorJoint)
	if err != nil {
		return err
	}
	base.Motor.LinearOffset = linearOffset
	base.LocalOriginAnchorA = linearOffset

	b2WakeJoint(world, base)
	return nil
}

/// Get the motor joint linear offset target
func B2MotorJoint_GetLinearOffset(jointId B2JointId) B2Vec2 {
	_, base := b2GetJointOfType(jointId, B2JointType.E_motorJoint)
	return base.Motor.LinearOffset
}

/// Set the motor joint angular offset target in radians
func B2MotorJoint_SetAngularOffset(jointId B2JointId, angularOffset float64) error {
	world, base, err := b2GetMutableJoint(jointId, B2JointType.E_motorJoint)
	if err != nil {
		return err
	}
	base.Motor.AngularOffset = B2Clamp(angularOffset, -B2_pi, B2_pi)

	b2WakeJoint(world, base)
	return nil
}

/// Get the motor joint angular offset target in radians
func B2MotorJoint_GetAngularOffset(jointId B2JointId) float64 {
	_, base := b2GetJointOfType(jointId, B2JointType.E_motorJoint)
	return base.Motor.AngularOffset
}

/// Set the motor joint maximum force, usually in newtons
func B2MotorJoint_SetMaxForce(jointId B2JointId, maxForce float64) error {
	world, base, err := b2GetMutableJoint(jointId, B2JointType.E_motorJoint)
	if err != nil {
		return err
	}
	base.Motor.MaxForce = math.Max(0.0, maxForce)

	b2WakeJoint(world, base)
	return nil
}

/// Get the motor joint maximum force, usually in newtons
func B2MotorJoint_GetMaxForce(jointId B2JointId) float64 {
	_, base := b2GetJointOfType(jointId, B2JointType.E_motorJoint)
	return base.Motor.MaxForce
}

/// Set the motor joint maximum torque, usually in newton-meters
func B2MotorJoint_SetMaxTorque(jointId B2JointId, maxTorque float64) error {
	world, base, err := b2GetMutableJoint(jointId, B2JointType.E_motorJoint)
	if err != nil {
		return err
	}
	base.Motor.MaxTorque = math.Max(0.0, maxTorque)

	b2WakeJoint(world, base)
	return nil
}

/// Get the motor joint maximum torque, usually in newton-meters
func B2MotorJoint_GetMaxTorque(jointId B2JointId) float64 {
	_, base := b2GetJointOfType(jointId, B2JointType.E_motorJoint)
	return base.Motor.MaxTorque
}

/// Set the motor joint correction factor, typically in [0, 1]
func B2MotorJoint_SetCorrectionFactor(jointId B2JointId, correctionFactor float64) error {
	world, base, err := b2GetMutableJoint(jointId, B2JointType.E_motorJoint)
	if err != nil {
		return err
	}
	base.Motor.CorrectionFactor = B2Clamp(correctionFactor, 0.0, 1.0)

	b2WakeJoint(world, base)
	return nil
}

/// Get the motor joint correction factor, typically in [0, 1]
func B2MotorJoint_GetCorrectionFactor(jointId B2JointId) float64 {
	_, base := b2GetJointOfType(jointId, B2JointType.E_motorJoint)
	return base.Motor.CorrectionFactor
}

func b2GetMotorJointForce(world *b2World, base *b2Joint) B2Vec2 {
	return B2Vec2MulScalar(world.inv_h, base.Motor.LinearImpulse)
}

// Point-to-point constraint
// Cdot = v2 - v1
//      = v2 + cross(w2, r2) - v1 - cross(w1, r1)
// J = [-I -r1_skew I r2_skew ]
// Identity used:
// w k % (rx i + ry j) = w * (-ry i + rx j)
//
// r1 = offset - c1
// r2 = -c2

// Angle constraint
// Cdot = w2 - w1
// J = [0 0 -1 0 0 1]
// K = invI1 + invI2

func b2PrepareMotorJoint(base *b2Joint, context *b2StepContext, bodyA *b2Body, bodyB *b2Body) {
	joint := &base.Motor

	mA, mB := base.InvMassA, base.InvMassB
	iA, iB := base.InvIA, base.InvIB

	joint.DeltaAngle = B2RelativeAngle(bodyB.Transform.Q, bodyA.Transform.Q) - joint.AngularOffset
	joint.DeltaAngle = B2UnwindAngle(joint.DeltaAngle)

	K := b2PointMassMatrix(mA, mB, iA, iB, base.AnchorA, base.AnchorB)
	joint.LinearMass = K.GetInverse()

	ka := iA + iB
	joint.AngularMass = b2InverseMass(ka)

	if context.enableWarmStarting == false {
		joint.LinearImpulse = B2Vec2_zero
		joint.AngularImpulse = 0.0
	}
}

func b2WarmStartMotorJoint(base *b2Joint, stateA *b2BodyState, stateB *b2BodyState) {
	b2WarmStartLinearAngular(base, stateA, stateB, base.Motor.LinearImpulse, base.Motor.AngularImpulse)
}

func b2SolveMotorJoint(base *b2Joint, context *b2StepContext, stateA *b2BodyState, stateB *b2BodyState) {
	joint := &base.Motor

	mA, mB := base.InvMassA, base.InvMassB
	iA, iB := base.InvIA, base.InvIB

	vA := stateA.LinearVelocity
	wA := stateA.AngularVelocity
	vB := stateB.LinearVelocity
	wB := stateB.AngularVelocity

	// angular constraint
	{
		angularSeparation := B2RelativeAngle(stateB.DeltaRotation, stateA.DeltaRotation) + joint.DeltaAngle
		angularSeparation = B2UnwindAngle(angularSeparation)

		angularBias := context.inv_h * joint.CorrectionFactor * angularSeparation

		Cdot := wB - wA
		impulse := -joint.AngularMass * (Cdot + angularBias)

		oldImpulse := joint.AngularImpulse
		maxImpulse := context.h * joint.MaxTorque
		joint.AngularImpulse = B2Clamp(oldImpulse+impulse, -maxImpulse, maxImpulse)
		impulse = joint.AngularImpulse - oldImpulse

		wA -= iA * impulse
		wB += iB * impulse
	}

	// linear constraint
	{
		rA, rB, linearSeparation := b2JointSeparation(base, stateA, stateB)

		Cdot := B2Vec2Sub(B2Vec2Add(vB, B2Vec2CrossScalarVector(wB, rB)), B2Vec2Add(vA, B2Vec2CrossScalarVector(wA, rA)))
		Cdot = B2Vec2MulAdd(Cdot, context.inv_h*joint.CorrectionFactor, linearSeparation)

		impulse := B2Vec2Neg(B2Vec2Mat22Mul(joint.LinearMass, Cdot))
		oldImpulse := joint.LinearImpulse
		joint.LinearImpulse = B2Vec2Add(joint.LinearImpulse, impulse)

		maxImpulse := context.h * joint.MaxForce
		if joint.LinearImpulse.LengthSquared() > maxImpulse*maxImpulse {
			joint.LinearImpulse = B2Vec2MulScalar(maxImpulse, B2Vec2Normalize(joint.LinearImpulse))
		}

		impulse = B2Vec2Sub(joint.LinearImpulse, oldImpulse)

		b2ApplyJointImpulse(mA, mB, iA, iB, &vA, &vB, &wA, &wB, impulse, B2Vec2Cross(rA, impulse), B2Vec2Cross(rB, impulse))
	}

	stateA.LinearVelocity = vA
	stateA.AngularVelocity = wA
	stateB.LinearVelocity = vB
	stateB.AngularVelocity = wB
}

func b2DumpMotorJoint(w io.Writer, base *b2Joint) {
	joint := &base.Motor
	fmt.Fprintf(w, "  jd.linearOffset = (%.15f, %.15f)\n", joint.LinearOffset.X, joint.LinearOffset.Y)
	fmt.Fprintf(w, "  jd.angularOffset = %.15f\n", joint.AngularOffset)
	fmt.Fprintf(w, "  jd.maxForce = %.15f\n", joint.MaxForce)
	fmt.Fprintf(w, "  jd.maxTorque = %.15f\n", joint.MaxTorque)
	fmt.Fprintf(w, "  jd.correctionFactor = %.15f\n", joint.CorrectionFactor)
}
