package box2d

import (
	"fmt"
	"io"
	"math"
)

/// Revolute joint definition. This requires defining an anchor point where the
/// bodies are joined. The definition uses local anchor points so that the
/// initial configuration can violate the constraint slightly. You also need to
/// specify the initial relative angle for joint limits. This helps when saving
/// and loading a game.
/// The local anchor points are measured from the body's origin
/// rather than the center of mass because:
/// 1. you might not know where the center of mass will be.
/// 2. if you add/remove shapes from a body and recompute the mass,
///    the joints will be broken.
type B2RevoluteJointDef struct {
	B2JointDef

	/// The local anchor point relative to bodyA's origin.
	LocalAnchorA B2Vec2

	/// The local anchor point relative to bodyB's origin.
	LocalAnchorB B2Vec2

	/// The bodyB angle minus bodyA angle in the reference state (radians).
	ReferenceAngle float64

	/// Enable a rotational spring on the revolute hinge axis
	EnableSpring bool

	/// The spring stiffness Hertz, cycles per second
	Hertz float64

	/// The spring damping ratio, non-dimensional
	DampingRatio float64

	/// A flag to enable joint limits.
	EnableLimit bool

	/// The lower angle for the joint limit.
	LowerAngle float64

	/// The upper angle for the joint limit.
	UpperAngle float64

	/// A flag to enable the joint motor.
	EnableMotor bool

	/// The maximum motor torque used to achieve the desired motor speed.
	/// Usually in N-m.
	MaxMotorTorque float64

	/// The desired motor speed. Usually in radians per second.
	MotorSpeed float64
}

func B2DefaultRevoluteJointDef() B2RevoluteJointDef {
	return B2RevoluteJointDef{}
}

func MakeB2RevoluteJointDef() B2RevoluteJointDef {
	return B2DefaultRevoluteJointDef()
}

/// Initialize the bodies, anchors, and reference angle using a world
/// anchor point.
func (def *B2RevoluteJointDef) Initialize(bodyIdA B2BodyId, bodyIdB B2BodyId, anchor B2Vec2) {
	def.BodyIdA = bodyIdA
	def.BodyIdB = bodyIdB
	def.LocalAnchorA = B2Body_GetLocalPoint(bodyIdA, anchor)
	def.LocalAnchorB = B2Body_GetLocalPoint(bodyIdB, anchor)
	def.ReferenceAngle = B2RelativeAngle(B2Body_GetRotation(bodyIdB), B2Body_GetRotation(bodyIdA))
}

/// A revolute joint constrains two bodies to share a common point while they
/// are free to rotate about the point. The relative rotation about the shared
/// point is the joint angle. You can limit the relative rotation with
/// a joint limit that specifies a lower and upper angle. You can use a motor
/// to drive the relative rotation about the shared point. A maximum motor torque
/// is provided so that infinite forces are not generated.
type b2RevoluteJoint struct {
	LinearImpulse B2Vec2
	SpringImpulse float64
	MotorImpulse  float64
	LowerImpulse  float64
	UpperImpulse  float64

	Hertz          float64
	DampingRatio   float64
	MaxMotorTorque float64
	MotorSpeed     float64
	ReferenceAngle float64
	LowerAngle     float64
	UpperAngle     float64

	// Solver temp
	DeltaAngle     float64
	AxialMass      float64
	SpringSoftness B2Softness

	EnableSpring bool
	EnableMotor  bool
	EnableLimit  bool
}

/// Create a revolute joint
func B2CreateRevoluteJoint(worldId B2WorldId, def *B2RevoluteJointDef) (B2JointId, error) {
	world, bodyA, bodyB, err := b2ValidateJointDef(worldId, &def.B2JointDef)
	if err != nil {
		return B2_nullJointId, err
	}

	if def.LowerAngle > def.UpperAngle {
		return B2_nullJointId, fmt.Errorf("revolute joint def: %w", ErrInvalidDef)
	}

	return b2CreateJointInternal(world, bodyA, bodyB, &def.B2JointDef, B2JointType.E_revoluteJoint, func(joint *b2Joint) {
		joint.LocalOriginAnchorA = def.LocalAnchorA
		joint.LocalOriginAnchorB = def.LocalAnchorB

		joint.Revolute = b2RevoluteJoint{
			Hertz:          def.Hertz,
			DampingRatio:   def.DampingRatio,
			MaxMotorTorque: def.MaxMotorTorque,
			MotorSpeed:     def.MotorSpeed,
			ReferenceAngle: B2Clamp(def.ReferenceAngle, -B2_pi, B2_pi),
			LowerAngle:     B2Clamp(def.LowerAngle, -B2_pi, B2_pi),
			UpperAngle:     B2Clamp(def.UpperAngle, -B2_pi, B2_pi),
			EnableSpring:   def.EnableSpring,
			EnableMotor:    def.EnableMotor,
			EnableLimit:    def.EnableLimit,
		}
	}), nil
}

///////////////////////////////////////////////////////////////////////////////
// Accessors
///////////////////////////////////////////////////////////////////////////////

/// Enable/disable the revolute joint spring
func B2RevoluteJoint_EnableSpring(jointId B2JointId, enableSpring bool) error {
	world, base, err := b2GetMutableJoint(jointId, B2JointType.E_revoluteJoint)
	if err != nil {
		return err
	}

	if enableSpring != base.Revolute.EnableSpring {
		base.Revolute.EnableSpring = enableSpring
		base.Revolute.SpringImpulse = 0.0
	}

	b2WakeJoint(world, base)
	return nil
}

/// Is the revolute joint spring enabled?
func B2RevoluteJoint_IsSpringEnabled(jointId B2JointId) bool {
	_, base := b2GetJointOfType(jointId, B2JointType.E_revoluteJoint)
	return base.Revolute.EnableSpring
}

/// Set the revolute joint spring stiffness in Hertz
func B2RevoluteJoint_SetSpringHertz(jointId B2JointId, hertz float64) error {
	world, base, err := b2GetMutableJoint(jointId, B2JointType.E_revoluteJoint)
	if err != nil {
		return err
	}
	base.Revolute.Hertz = hertz

	b2WakeJoint(world, base)
	return nil
}

/// Get the revolute joint spring stiffness in Hertz
func B2RevoluteJoint_GetSpringHertz(jointId B2JointId) float64 {
	_, base := b2GetJointOfType(jointId, B2JointType.E_revoluteJoint)
	return base.Revolute.Hertz
}

/// Set the revolute joint spring damping ratio, non-dimensional
func B2RevoluteJoint_SetSpringDampingRatio(jointId B2JointId, dampingRatio float64) error {
	world, base, err := b2GetMutableJoint(jointId, B2JointType.E_revoluteJoint)
	if err != nil {
		return err
	}
	base.Revolute.DampingRatio = dampingRatio

	b2WakeJoint(world, base)
	return nil
}

/// Get the revolute joint spring damping ratio, non-dimensional
func B2RevoluteJoint_GetSpringDampingRatio(jointId B2JointId) float64 {
	_, base := b2GetJointOfType(jointId, B2JointType.E_revoluteJoint)
	return base.Revolute.DampingRatio
}

/// Get the revolute joint current angle in radians relative to the reference angle
func B2RevoluteJoint_GetAngle(jointId B2JointId) float64 {
	world, base := b2GetJointOfType(jointId, B2JointType.E_revoluteJoint)
	bodyA, bodyB := b2GetJointBodies(world, base)

	angle := B2RelativeAngle(bodyB.Transform.Q, bodyA.Transform.Q) - base.Revolute.ReferenceAngle
	return B2UnwindAngle(angle)
}

/// Enable/disable the revolute joint limit
func B2RevoluteJoint_EnableLimit(jointId B2JointId, enableLimit bool) error {
	world, base, err := b2GetMutableJoint(jointId, B2JointType.E_revoluteJoint)
	if err != nil {
		return err
	}

	if enableLimit != base.Revolute.EnableLimit {
		base.Revolute.EnableLimit = enableLimit
		base.Revolute.LowerImpulse = 0.0
		base.Revolute.UpperImpulse = 0.0
	}

	b2WakeJoint(world, base)
	return nil
}

/// Is the revolute joint limit enabled?
func B2RevoluteJoint_IsLimitEnabled(jointId B2JointId) bool {
	_, base := b2GetJointOfType(jointId, B2JointType.E_revoluteJoint)
	return base.Revolute.EnableLimit
}

/// Get the revolute joint lower limit in radians
func B2RevoluteJoint_GetLowerLimit(jointId B2JointId) float64 {
	_, base := b2GetJointOfType(jointId, B2JointType.E_revoluteJoint)
	return base.Revolute.LowerAngle
}

/// Get the revolute joint upper limit in radians
func B2RevoluteJoint_GetUpperLimit(jointId B2JointId) float64 {
	_, base := b2GetJointOfType(jointId, B2JointType.E_revoluteJoint)
	return base.Revolute.UpperAngle
}

/// Set the revolute joint limits in radians
func B2RevoluteJoint_SetLimits(jointId B2JointId, lower float64, upper float64) error {
	world, base, err := b2GetMutableJoint(jointId, B2JointType.E_revoluteJoint)
	if err != nil {
		return err
	}

	joint := &base.Revolute
	if lower != joint.LowerAngle || upper != joint.UpperAngle {
		joint.LowerAngle = math.Min(lower, upper)
		joint.UpperAngle = math.Max(lower, upper)
		joint.LowerImpulse = 0.0
		joint.UpperImpulse = 0.0
	}

	b2WakeJoint(world, base)
	return nil
}

/// Enable/disable a revolute joint motor
func B2RevoluteJoint_EnableMotor(jointId B2JointId, enableMotor bool) error {
	world, base, err := b2GetMutableJoint(jointId, B2JointType.E_revoluteJoint)
	if err != nil {
		return err
	}

	if enableMotor != base.Revolute.EnableMotor {
		base.Revolute.EnableMotor = enableMotor
		base.Revolute.MotorImpulse = 0.0
	}

	b2WakeJoint(world, base)
	return nil
}

/// Is the revolute joint motor enabled?
func B2RevoluteJoint_IsMotorEnabled(jointId B2JointId) bool {
	_, base := b2GetJointOfType(jointId, B2JointType.E_revoluteJoint)
	return base.Revolute.EnableMotor
}

/// Set the revolute joint motor speed in radians per second
func B2RevoluteJoint_SetMotorSpeed(jointId B2JointId, motorSpeed float64) error {
	world, base, err := b2GetMutableJoint(jointId, B2JointType.E_revoluteJoint)
	if err != nil {
		return err
	}
	base.Revolute.MotorSpeed = motorSpeed

	b2WakeJoint(world, base)
	return nil
}

/// Get the revolute joint motor speed in radians per second
func B2RevoluteJoint_GetMotorSpeed(jointId B2JointId) float64 {
	_, base := b2GetJointOfType(jointId, B2JointType.E_revoluteJoint)
	return base.Revolute.MotorSpeed
}

/// Get the revolute joint current motor torque, usually in newton-meters
func B2RevoluteJoint_GetMotorTorque(jointId B2JointId) float64 {
	world, base := b2GetJointOfType(jointId, B2JointType.E_revoluteJoint)
	return world.inv_h * base.Revolute.MotorImpulse
}

/// Set the revolute joint maximum motor torque, usually in newton-meters
func B2RevoluteJoint_SetMaxMotorTorque(jointId B2JointId, torque float64) error {
	world, base, err := b2GetMutableJoint(jointId, B2JointType.E_revoluteJoint)
	if err != nil {
		return err
	}
	base.Revolute.MaxMotorTorque = torque

	b2WakeJoint(world, base)
	return nil
}

/// Get the revolute joint maximum motor torque, usually in newton-meters
func B2RevoluteJoint_GetMaxMotorTorque(jointId B2JointId) float64 {
	_, base := b2GetJointOfType(jointId, B2JointType.E_revoluteJoint)
	return base.Revolute.MaxMotorTorque
}

func b2GetRevoluteJointForce(world *b2World, base *b2Joint) B2Vec2 {
	return B2Vec2MulScalar(world.inv_h, base.Revolute.LinearImpulse)
}

func b2GetRevoluteJointTorque(world *b2World, base *b2Joint) float64 {
	joint := &base.Revolute
	return world.inv_h * (joint.SpringImpulse + joint.MotorImpulse + joint.LowerImpulse - joint.UpperImpulse)
}

///////////////////////////////////////////////////////////////////////////////
// Solver
///////////////////////////////////////////////////////////////////////////////

// Point-to-point constraint
// C = p2 - p1
// Cdot = v2 - v1
//      = v2 + cross(w2, r2) - v1 - cross(w1, r1)
// J = [-I -r1_skew I r2_skew ]
// Identity used:
// w k % (rx i + ry j) = w * (-ry i + rx j)

// Motor constraint
// Cdot = w2 - w1
// J = [0 0 -1 0 0 1]
// K = invI1 + invI2

func b2PrepareRevoluteJoint(base *b2Joint, context *b2StepContext, bodyA *b2Body, bodyB *b2Body) {
	joint := &base.Revolute

	iA, iB := base.InvIA, base.InvIB

	joint.DeltaAngle = B2RelativeAngle(bodyB.Transform.Q, bodyA.Transform.Q) - joint.ReferenceAngle
	joint.DeltaAngle = B2UnwindAngle(joint.DeltaAngle)

	k := iA + iB
	joint.AxialMass = b2InverseMass(k)

	joint.SpringSoftness = B2MakeSoft(joint.Hertz, joint.DampingRatio, context.h)

	if context.enableWarmStarting == false {
		joint.LinearImpulse = B2Vec2_zero
		joint.SpringImpulse = 0.0
		joint.MotorImpulse = 0.0
		joint.LowerImpulse = 0.0
		joint.UpperImpulse = 0.0
	}
}

func b2WarmStartRevoluteJoint(base *b2Joint, stateA *b2BodyState, stateB *b2BodyState) {
	joint := &base.Revolute

	mA, mB := base.InvMassA, base.InvMassB
	iA, iB := base.InvIA, base.InvIB

	rA := B2RotVec2Mul(stateA.DeltaRotation, base.AnchorA)
	rB := B2RotVec2Mul(stateB.DeltaRotation, base.AnchorB)

	axialImpulse := joint.SpringImpulse + joint.MotorImpulse + joint.LowerImpulse - joint.UpperImpulse

	stateA.LinearVelocity = B2Vec2MulSub(stateA.LinearVelocity, mA, joint.LinearImpulse)
	stateA.AngularVelocity -= iA * (B2Vec2Cross(rA, joint.LinearImpulse) + axialImpulse)

	stateB.LinearVelocity = B2Vec2MulAdd(stateB.LinearVelocity, mB, joint.LinearImpulse)
	stateB.AngularVelocity += iB * (B2Vec2Cross(rB, joint.LinearImpulse) + axialImpulse)
}

func b2SolveRevoluteJoint(base *b2Joint, context *b2StepContext, stateA *b2BodyState, stateB *b2BodyState, useBias bool) {
	joint := &base.Revolute

	mA, mB := base.InvMassA, base.InvMassB
	iA, iB := base.InvIA, base.InvIB

	vA := stateA.LinearVelocity
	wA := stateA.AngularVelocity
	vB := stateB.LinearVelocity
	wB := stateB.AngularVelocity

	fixedRotation := iA+iB == 0.0

	// Solve spring.
	if joint.EnableSpring && fixedRotation == false {
		C := B2RelativeAngle(stateB.DeltaRotation, stateA.DeltaRotation) + joint.DeltaAngle
		bias := joint.SpringSoftness.BiasRate * C
		massScale := joint.SpringSoftness.MassScale
		impulseScale := joint.SpringSoftness.ImpulseScale

		Cdot := wB - wA
		impulse := -massScale*joint.AxialMass*(Cdot+bias) - impulseScale*joint.SpringImpulse
		joint.SpringImpulse += impulse

		wA -= iA * impulse
		wB += iB * impulse
	}

	// Solve motor constraint.
	if joint.EnableMotor && fixedRotation == false {
		Cdot := wB - wA - joint.MotorSpeed
		impulse := -joint.AxialMass * Cdot
		oldImpulse := joint.MotorImpulse
		maxImpulse := context.h * joint.MaxMotorTorque
		joint.MotorImpulse = B2Clamp(oldImpulse+impulse, -maxImpulse, maxImpulse)
		impulse = joint.MotorImpulse - oldImpulse

		wA -= iA * impulse
		wB += iB * impulse
	}

	if joint.EnableLimit && fixedRotation == false {
		jointAngle := B2RelativeAngle(stateB.DeltaRotation, stateA.DeltaRotation) + joint.DeltaAngle
		jointAngle = B2UnwindAngle(jointAngle)

		// Lower limit
		{
			C := jointAngle - joint.LowerAngle
			bias, massScale, impulseScale := b2LimitSoftness(C, context, useBias)

			Cdot := wB - wA
			impulse := -joint.AxialMass*massScale*(Cdot+bias) - impulseScale*joint.LowerImpulse
			newImpulse := math.Max(joint.LowerImpulse+impulse, 0.0)
			impulse = newImpulse - joint.LowerImpulse
			joint.LowerImpulse = newImpulse

			wA -= iA * impulse
			wB += iB * impulse
		}

		// Upper limit
		// Note: signs are flipped to keep C positive when the constraint is satisfied.
		// This also keeps the impulse positive when the limit is active.
		{
			C := joint.UpperAngle - jointAngle
			bias, massScale, impulseScale := b2LimitSoftness(C, context, useBias)

			// sign flipped on Cdot
			Cdot := wA - wB
			impulse := -joint.AxialMass*massScale*(Cdot+bias) - impulseScale*joint.UpperImpulse
			newImpulse := math.Max(joint.UpperImpulse+impulse, 0.0)
			impulse = newImpulse - joint.UpperImpulse
			joint.UpperImpulse = newImpulse

			// sign flipped on applied impulse
			wA += iA * impulse
			wB -= iB * impulse
		}
	}

	// Solve point to point constraint
	{
		// J = [-I -r1_skew I r2_skew]
		// r_skew = [-ry; rx]
		// K = [ mA+mB+iA*rA.y*rA.y+iB*rB.y*rB.y,  -iA*rA.y*rA.x-iB*rB.y*rB.x]
		//     [  -iA*rA.y*rA.x-iB*rB.y*rB.x, mA+mB+iA*rA.x*rA.x+iB*rB.x*rB.x]

		// current anchors
		rA, rB, separation := b2JointSeparation(base, stateA, stateB)

		Cdot := B2Vec2Sub(B2Vec2Add(vB, B2Vec2CrossScalarVector(wB, rB)), B2Vec2Add(vA, B2Vec2CrossScalarVector(wA, rA)))

		bias := B2Vec2_zero
		massScale := 1.0
		impulseScale := 0.0
		if useBias {
			bias = B2Vec2MulScalar(context.jointSoftness.BiasRate, separation)
			massScale = context.jointSoftness.MassScale
			impulseScale = context.jointSoftness.ImpulseScale
		}

		K := b2PointMassMatrix(mA, mB, iA, iB, rA, rB)
		b := K.Solve(B2Vec2Add(Cdot, bias))

		impulse := MakeB2Vec2(
			-massScale*b.X-impulseScale*joint.LinearImpulse.X,
			-massScale*b.Y-impulseScale*joint.LinearImpulse.Y,
		)
		joint.LinearImpulse.X += impulse.X
		joint.LinearImpulse.Y += impulse.Y

		b2ApplyJointImpulse(mA, mB, iA, iB, &vA, &vB, &wA, &wB, impulse, B2Vec2Cross(rA, impulse), B2Vec2Cross(rB, impulse))
	}

	stateA.LinearVelocity = vA
	stateA.AngularVelocity = wA
	stateB.LinearVelocity = vB
	stateB.AngularVelocity = wB
}

func b2DumpRevoluteJoint(w io.Writer, base *b2Joint) {
	joint := &base.Revolute
	fmt.Fprintf(w, "  jd.localAnchorA = (%.15f, %.15f)\n", base.LocalOriginAnchorA.X, base.LocalOriginAnchorA.Y)
	fmt.Fprintf(w, "  jd.localAnchorB = (%.15f, %.15f)\n", base.LocalOriginAnchorB.X, base.LocalOriginAnchorB.Y)
	fmt.Fprintf(w, "  jd.referenceAngle = %.15f\n", joint.ReferenceAngle)
	fmt.Fprintf(w, "  jd.enableSpring = %v\n", joint.EnableSpring)
	fmt.Fprintf(w, "  jd.hertz = %.15f\n", joint.Hertz)
	fmt.Fprintf(w, "  jd.dampingRatio = %.15f\n", joint.DampingRatio)
	fmt.Fprintf(w, "  jd.enableLimit = %v\n", joint.EnableLimit)
	fmt.Fprintf(w, "  jd.lowerAngle = %.15f\n", joint.LowerAngle)
	fmt.Fprintf(w, "  jd.upperAngle = %.15f\n", joint.UpperAngle)
	fmt.Fprintf(w, "  jd.enableMotor = %v\n", joint.EnableMotor)
	fmt.Fprintf(w, "  jd.motorSpeed = %.15f\n", joint.MotorSpeed)
	fmt.Fprintf(w, "  jd.maxMotorTorque = %.15f\n", joint.MaxMotorTorque)
}
