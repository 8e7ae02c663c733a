package box2d

import (
	"fmt"
	"io"
	"math"
)

/// Wheel joint definition. This requires defining a line of
/// motion using an axis and an anchor point. The definition uses local
/// anchor points and a local axis so that the initial configuration
/// can violate the constraint slightly. The joint translation is zero
/// when the local anchor points coincide in world space. Using local
/// anchors and a local axis helps when saving and loading a game.
type B2WheelJointDef struct {
	B2JointDef

	/// The local anchor point relative to bodyA's origin.
	LocalAnchorA B2Vec2

	/// The local anchor point relative to bodyB's origin.
	LocalAnchorB B2Vec2

	/// The local translation axis in bodyA.
	LocalAxisA B2Vec2

	/// Enable a linear spring along the local axis
	EnableSpring bool

	/// Spring stiffness in Hertz
	Hertz float64

	/// Spring damping ratio, non-dimensional
	DampingRatio float64

	/// Enable/disable the joint limit.
	EnableLimit bool

	/// The lower translation limit, usually in meters.
	LowerTranslation float64

	/// The upper translation limit, usually in meters.
	UpperTranslation float64

	/// Enable/disable the joint motor.
	EnableMotor bool

	/// The maximum motor torque, usually in N-m.
	MaxMotorTorque float64

	/// The desired motor speed in radians per second.
	MotorSpeed float64
}

func B2DefaultWheelJointDef() B2WheelJointDef {
	return B2WheelJointDef{
		LocalAxisA:   MakeB2Vec2(0.0, 1.0),
		EnableSpring: true,
		Hertz:        1.0,
		DampingRatio: 0.7,
	}
}

func MakeB2WheelJointDef() B2WheelJointDef {
	return B2DefaultWheelJointDef()
}

/// Initialize the bodies, anchors and axis using the world anchor and world axis.
func (def *B2WheelJointDef) Initialize(bodyIdA B2BodyId, bodyIdB B2BodyId, anchor B2Vec2, axis B2Vec2) {
	def.BodyIdA = bodyIdA
	def.BodyIdB = bodyIdB
	def.LocalAnchorA = B2Body_GetLocalPoint(bodyIdA, anchor)
	def.LocalAnchorB = B2Body_GetLocalPoint(bodyIdB, anchor)
	def.LocalAxisA = B2Body_GetLocalVector(bodyIdA, axis)
}

/// A wheel joint. This joint provides two degrees of freedom: translation
/// along an axis fixed in bodyA and rotation in the plane. In other words, it is a point to
/// line constraint with a rotational motor and a linear spring/damper. The spring/damper is
/// initialized upon creation. This joint is designed for vehicle suspensions.
type b2WheelJoint struct {
	LocalAxisA B2Vec2

	PerpImpulse   float64
	MotorImpulse  float64
	SpringImpulse float64
	LowerImpulse  float64
	UpperImpulse  float64

	MaxMotorTorque   float64
	MotorSpeed       float64
	LowerTranslation float64
	UpperTranslation float64
	Hertz            float64
	DampingRatio     float64

	// Solver temp
	AxisA          B2Vec2
	PerpMass       float64
	MotorMass      float64
	AxialMass      float64
	SpringSoftness B2Softness

	EnableSpring bool
	EnableMotor  bool
	EnableLimit  bool
}

/// Create a wheel joint
func B2CreateWheelJoint(worldId B2WorldId, def *B2WheelJointDef) (B2JointId, error) {
	world, bodyA, bodyB, err := b2ValidateJointDef(worldId, &def.B2JointDef)
	if err != nil {
		return B2_nullJointId, err
	}

	if def.LocalAxisA.LengthSquared() < B2_epsilon || def.LowerTranslation > def.UpperTranslation {
		return B2_nullJointId, fmt.Errorf("wheel joint def: %w", ErrInvalidDef)
	}

	return b2CreateJointInternal(world, bodyA, bodyB, &def.B2JointDef, B2JointType.E_wheelJoint, func(joint *b2Joint) {
		joint.LocalOriginAnchorA = def.LocalAnchorA
		joint.LocalOriginAnchorB = def.LocalAnchorB

		joint.Wheel = b2WheelJoint{
			LocalAxisA:       B2Vec2Normalize(def.LocalAxisA),
			MaxMotorTorque:   def.MaxMotorTorque,
			MotorSpeed:       def.MotorSpeed,
			LowerTranslation: def.LowerTranslation,
			UpperTranslation: def.UpperTranslation,
			Hertz:            def.Hertz,
			DampingRatio:     def.DampingRatio,
			EnableSpring:     def.EnableSpring,
			EnableMotor:      def.EnableMotor,
			EnableLimit:      def.EnableLimit,
		}
	}), nil
}

///////////////////////////////////////////////////////////////////////////////
// Accessors
///////////////////////////////////////////////////////////////////////////////

/// Enable/disable the wheel joint spring
func B2WheelJoint_EnableSpring(jointId B2JointId, enableSpring bool) error {
	world, base, err := b2GetMutableJoint(jointId, B2JointType.E_wheelJoint)
	if err != nil {
		return err
	}

	if enableSpring != base.Wheel.EnableSpring {
		base.Wheel.EnableSpring = enableSpring
		base.Wheel.SpringImpulse = 0.0
	}

	b2WakeJoint(world, base)
	return nil
}

/// Is the wheel joint spring enabled?
func B2WheelJoint_IsSpringEnabled(jointId B2JointId) bool {
	_, base := b2GetJointOfType(jointId, B2JointType.E_wheelJoint)
	return base.Wheel.EnableSpring
}

/// Set the wheel joint stiffness in Hertz
func B2WheelJoint_SetSpringHertz(jointId B2JointId, hertz float64) error {
	world, base, err := b2GetMutableJoint(jointId, B2JointType.E_wheelJoint)
	if err != nil {
		return err
	}
	base.Wheel.Hertz = hertz

	b2WakeJoint(world, base)
	return nil
}

/// Get the wheel joint stiffness in Hertz
func B2WheelJoint_GetSpringHertz(jointId B2JointId) float64 {
	_, base := b2GetJointOfType(jointId, B2JointType.E_wheelJoint)
	return base.Wheel.Hertz
}

/// Set the wheel joint damping ratio, non-dimensional
func B2WheelJoint_SetSpringDampingRatio(jointId B2JointId, dampingRatio float64) error {
	world, base, err := b2GetMutableJoint(jointId, B2JointType.E_wheelJoint)
	if err != nil {
		return err
	}
	base.Wheel.DampingRatio = dampingRatio

	b2WakeJoint(world, base)
	return nil
}

/// Get the wheel joint damping ratio, non-dimensional
func B2WheelJoint_GetSpringDampingRatio(jointId B2JointId) float64 {
	_, base := b2GetJointOfType(jointId, B2JointType.E_wheelJoint)
	return base.Wheel.DampingRatio
}

/// Enable/disable the wheel joint limit
func B2WheelJoint_EnableLimit(jointId B2JointId, enableLimit bool) error {
	world, base, err := b2GetMutableJoint(jointId, B2JointType.E_wheelJoint)
	if err != nil {
		return err
	}

	if base.Wheel.EnableLimit != enableLimit {
		base.Wheel.LowerImpulse = 0.0
		base.Wheel.UpperImpulse = 0.0
		base.Wheel.EnableLimit = enableLimit
	}

	b2WakeJoint(world, base)
	return nil
}

/// Is the wheel joint limit enabled?
func B2WheelJoint_IsLimitEnabled(jointId B2JointId) bool {
	_, base := b2GetJointOfType(jointId, B2JointType.E_wheelJoint)
	return base.Wheel.EnableLimit
}

/// Get the wheel joint lower limit
func B2WheelJoint_GetLowerLimit(jointId B2JointId) float64 {
	_, base := b2GetJointOfType(jointId, B2JointType.E_wheelJoint)
	return base.Wheel.LowerTranslation
}

/// Get the wheel joint upper limit
func B2WheelJoint_GetUpperLimit(jointId B2JointId) float64 {
	_, base := b2GetJointOfType(jointId, B2JointType.E_wheelJoint)
	return base.Wheel.UpperTranslation
}

/// Set the wheel joint limits
func B2WheelJoint_SetLimits(jointId B2JointId, lower float64, upper float64) error {
	world, base, err := b2GetMutableJoint(jointId, B2JointType.E_wheelJoint)
	if err != nil {
		return err
	}

	joint := &base.Wheel
	if lower != joint.LowerTranslation || upper != joint.UpperTranslation {
		joint.LowerTranslation = math.Min(lower, upper)
		joint.UpperTranslation = math.Max(lower, upper)
		joint.LowerImpulse = 0.0
		joint.UpperImpulse = 0.0
	}

	b2WakeJoint(world, base)
	return nil
}

/// Enable/disable the wheel joint motor
func B2WheelJoint_EnableMotor(jointId B2JointId, enableMotor bool) error {
	world, base, err := b2GetMutableJoint(jointId, B2JointType.E_wheelJoint)
	if err != nil {
		return err
	}

	if base.Wheel.EnableMotor != enableMotor {
		base.Wheel.MotorImpulse = 0.0
		base.Wheel.EnableMotor = enableMotor
	}

	b2WakeJoint(world, base)
	return nil
}

/// Is the wheel joint motor enabled?
func B2WheelJoint_IsMotorEnabled(jointId B2JointId) bool {
	_, base := b2GetJointOfType(jointId, B2JointType.E_wheelJoint)
	return base.Wheel.EnableMotor
}

/// Set the wheel joint motor speed in radians per second
func B2WheelJoint_SetMotorSpeed(jointId B2JointId, motorSpeed float64) error {
	world, base, err := b2GetMutableJoint(jointId, B2JointType.E_wheelJoint)
	if err != nil {
		return err
	}
	base.Wheel.MotorSpeed = motorSpeed

	b2WakeJoint(world, base)
	return nil
}

/// Get the wheel joint motor speed in radians per second
func B2WheelJoint_GetMotorSpeed(jointId B2JointId) float64 {
	_, base := b2GetJointOfType(jointId, B2JointType.E_wheelJoint)
	return base.Wheel.MotorSpeed
}

/// Set the wheel joint maximum motor torque, usually in newton-meters
func B2WheelJoint_SetMaxMotorTorque(jointId B2JointId, torque float64) error {
	world, base, err := b2GetMutableJoint(jointId, B2JointType.E_wheelJoint)
	if err != nil {
		return err
	}
	base.Wheel.MaxMotorTorque = torque

	b2WakeJoint(world, base)
	return nil
}

/// Get the wheel joint maximum motor torque, usually in newton-meters
func B2WheelJoint_GetMaxMotorTorque(jointId B2JointId) float64 {
	_, base := b2GetJointOfType(jointId, B2JointType.E_wheelJoint)
	return base.Wheel.MaxMotorTorque
}

/// Get the wheel joint current motor torque, usually in newton-meters
func B2WheelJoint_GetMotorTorque(jointId B2JointId) float64 {
	world, base := b2GetJointOfType(jointId, B2JointType.E_wheelJoint)
	return world.inv_h * base.Wheel.MotorImpulse
}

func b2GetWheelJointForce(world *b2World, base *b2Joint) B2Vec2 {
	joint := &base.Wheel
	bodyA := world.bodies.Get(base.Edges[0].BodyId)

	axisA := B2RotVec2Mul(bodyA.Transform.Q, joint.LocalAxisA)
	perpA := B2LeftPerp(axisA)

	perpForce := world.inv_h * joint.PerpImpulse
	axialForce := world.inv_h * (joint.SpringImpulse + joint.LowerImpulse - joint.UpperImpulse)

	return B2Vec2Add(B2Vec2MulScalar(perpForce, perpA), B2Vec2MulScalar(axialForce, axisA))
}

///////////////////////////////////////////////////////////////////////////////
// Solver
///////////////////////////////////////////////////////////////////////////////

// Linear constraint (point-to-line)
// d = pB - pA = xB + rB - xA - rA
// C = dot(ay, d)
// Cdot = dot(d, cross(wA, ay)) + dot(ay, vB + cross(wB, rB) - vA - cross(wA, rA))
//      = -dot(ay, vA) - dot(cross(d + rA, ay), wA) + dot(ay, vB) + dot(cross(rB, ay), vB)
// J = [-ay, -cross(d + rA, ay), ay, cross(rB, ay)]

// Spring linear constraint
// C = dot(ax, d)
// Cdot = = -dot(ax, vA) - dot(cross(d + rA, ax), wA) + dot(ax, vB) + dot(cross(rB, ax), vB)
// J = [-ax -cross(d+rA, ax) ax cross(rB, ax)]

// Motor rotational constraint
// Cdot = wB - wA
// J = [0 0 -1 0 0 1]

func b2PrepareWheelJoint(base *b2Joint, context *b2StepContext) {
	joint := &base.Wheel
	bodyA := context.world.bodies.Get(base.Edges[0].BodyId)

	mA, mB := base.InvMassA, base.InvMassB
	iA, iB := base.InvIA, base.InvIB

	joint.AxisA = B2RotVec2Mul(bodyA.Transform.Q, joint.LocalAxisA)

	rA := base.AnchorA
	rB := base.AnchorB

	d := B2Vec2Add(base.DeltaCenter, B2Vec2Sub(rB, rA))
	axisA := joint.AxisA
	perpA := B2LeftPerp(axisA)

	// perpendicular constraint (keep wheel on line)
	s1 := B2Vec2Cross(B2Vec2Add(d, rA), perpA)
	s2 := B2Vec2Cross(rB, perpA)

	kp := mA + mB + iA*s1*s1 + iB*s2*s2
	joint.PerpMass = b2InverseMass(kp)

	// spring constraint
	a1 := B2Vec2Cross(B2Vec2Add(d, rA), axisA)
	a2 := B2Vec2Cross(rB, axisA)

	ka := mA + mB + iA*a1*a1 + iB*a2*a2
	joint.AxialMass = b2InverseMass(ka)

	joint.SpringSoftness = B2MakeSoft(joint.Hertz, joint.DampingRatio, context.h)

	km := iA + iB
	joint.MotorMass = b2InverseMass(km)

	if context.enableWarmStarting == false {
		joint.PerpImpulse = 0.0
		joint.SpringImpulse = 0.0
		joint.MotorImpulse = 0.0
		joint.LowerImpulse = 0.0
		joint.UpperImpulse = 0.0
	}
}

func b2WarmStartWheelJoint(base *b2Joint, stateA *b2BodyState, stateB *b2BodyState) {
	joint := &base.Wheel

	mA, mB := base.InvMassA, base.InvMassB
	iA, iB := base.InvIA, base.InvIB

	rA, rB, d := b2JointSeparation(base, stateA, stateB)

	axisA := B2RotVec2Mul(stateA.DeltaRotation, joint.AxisA)
	perpA := B2LeftPerp(axisA)

	a1 := B2Vec2Cross(B2Vec2Add(d, rA), axisA)
	a2 := B2Vec2Cross(rB, axisA)
	s1 := B2Vec2Cross(B2Vec2Add(d, rA), perpA)
	s2 := B2Vec2Cross(rB, perpA)

	axialImpulse := joint.SpringImpulse + joint.LowerImpulse - joint.UpperImpulse

	P := B2Vec2Add(B2Vec2MulScalar(axialImpulse, axisA), B2Vec2MulScalar(joint.PerpImpulse, perpA))
	LA := axialImpulse*a1 + joint.PerpImpulse*s1 + joint.MotorImpulse
	LB := axialImpulse*a2 + joint.PerpImpulse*s2 + joint.MotorImpulse

	b2ApplyJointImpulse(mA, mB, iA, iB, &stateA.LinearVelocity, &stateB.LinearVelocity,
		&stateA.AngularVelocity, &stateB.AngularVelocity, P, LA, LB)
}

func b2SolveWheelJoint(base *b2Joint, context *b2StepContext, stateA *b2BodyState, stateB *b2BodyState, useBias bool) {
	joint := &base.Wheel

	mA, mB := base.InvMassA, base.InvMassB
	iA, iB := base.InvIA, base.InvIB

	vA := stateA.LinearVelocity
	wA := stateA.AngularVelocity
	vB := stateB.LinearVelocity
	wB := stateB.AngularVelocity

	fixedRotation := iA+iB == 0.0

	// current anchors
	rA, rB, d := b2JointSeparation(base, stateA, stateB)

	axisA := B2RotVec2Mul(stateA.DeltaRotation, joint.AxisA)
	translation := B2Vec2Dot(axisA, d)

	a1 := B2Vec2Cross(B2Vec2Add(d, rA), axisA)
	a2 := B2Vec2Cross(rB, axisA)

	axialSpeed := func() float64 {
		return B2Vec2Dot(axisA, B2Vec2Sub(vB, vA)) + a2*wB - a1*wA
	}

	applyAxial := func(impulse float64) {
		P := B2Vec2MulScalar(impulse, axisA)
		b2ApplyJointImpulse(mA, mB, iA, iB, &vA, &vB, &wA, &wB, P, impulse*a1, impulse*a2)
	}

	// motor constraint
	if joint.EnableMotor && fixedRotation == false {
		Cdot := wB - wA - joint.MotorSpeed
		impulse := -joint.MotorMass * Cdot
		oldImpulse := joint.MotorImpulse
		maxImpulse := context.h * joint.MaxMotorTorque
		joint.MotorImpulse = B2Clamp(oldImpulse+impulse, -maxImpulse, maxImpulse)
		impulse = joint.MotorImpulse - oldImpulse

		wA -= iA * impulse
		wB += iB * impulse
	}

	// spring constraint
	if joint.EnableSpring {
		// This is a real spring and should be applied even during relax
		C := translation
		bias := joint.SpringSoftness.BiasRate * C
		massScale := joint.SpringSoftness.MassScale
		impulseScale := joint.SpringSoftness.ImpulseScale

		Cdot := axialSpeed()
		impulse := -massScale*joint.AxialMass*(Cdot+bias) - impulseScale*joint.SpringImpulse
		joint.SpringImpulse += impulse
		applyAxial(impulse)
	}

	if joint.EnableLimit {
		// Lower limit
		{
			C := translation - joint.LowerTranslation
			bias, massScale, impulseScale := b2LimitSoftness(C, context, useBias)

			Cdot := axialSpeed()
			impulse := -massScale*joint.AxialMass*(Cdot+bias) - impulseScale*joint.LowerImpulse
			newImpulse := math.Max(joint.LowerImpulse+impulse, 0.0)
			impulse = newImpulse - joint.LowerImpulse
			joint.LowerImpulse = newImpulse
			applyAxial(impulse)
		}

		// Upper limit
		// Note: signs are flipped to keep C positive when the constraint is satisfied.
		// This also keeps the impulse positive when the limit is active.
		{
			C := joint.UpperTranslation - translation
			bias, massScale, impulseScale := b2LimitSoftness(C, context, useBias)

			// sign flipped on Cdot
			Cdot := -axialSpeed()
			impulse := -massScale*joint.AxialMass*(Cdot+bias) - impulseScale*joint.UpperImpulse
			newImpulse := math.Max(joint.UpperImpulse+impulse, 0.0)
			impulse = newImpulse - joint.UpperImpulse
			joint.UpperImpulse = newImpulse

			// sign flipped on applied impulse
			applyAxial(-impulse)
		}
	}

	// point to line constraint
	{
		perpA := B2LeftPerp(axisA)

		s1 := B2Vec2Cross(B2Vec2Add(d, rA), perpA)
		s2 := B2Vec2Cross(rB, perpA)
		Cdot := B2Vec2Dot(perpA, B2Vec2Sub(vB, vA)) + s2*wB - s1*wA

		bias := 0.0
		massScale := 1.0
		impulseScale := 0.0
		if useBias {
			C := B2Vec2Dot(perpA, d)
			bias = context.jointSoftness.BiasRate * C
			massScale = context.jointSoftness.MassScale
			impulseScale = context.jointSoftness.ImpulseScale
		}

		impulse := -massScale*joint.PerpMass*(Cdot+bias) - impulseScale*joint.PerpImpulse
		joint.PerpImpulse += impulse

		P := B2Vec2MulScalar(impulse, perpA)
		b2ApplyJointImpulse(mA, mB, iA, iB, &vA, &vB, &wA, &wB, P, impulse*s1, impulse*s2)
	}

	stateA.LinearVelocity = vA
	stateA.AngularVelocity = wA
	stateB.LinearVelocity = vB
	stateB.AngularVelocity = wB
}

func b2DumpWheelJoint(w io.Writer, base *b2Joint) {
	joint := &base.Wheel
	fmt.Fprintf(w, "  jd.localAnchorA = (%.15f, %.15f)\n", base.LocalOriginAnchorA.X, base.LocalOriginAnchorA.Y)
	fmt.Fprintf(w, "  jd.localAnchorB = (%.15f, %.15f)\n", base.LocalOriginAnchorB.X, base.LocalOriginAnchorB.Y)
	fmt.Fprintf(w, "  jd.localAxisA = (%.15f, %.15f)\n", joint.LocalAxisA.X, joint.LocalAxisA.Y)
	fmt.Fprintf(w, "  jd.enableSpring = %v\n", joint.EnableSpring)
	fmt.Fprintf(w, "  jd.hertz = %.15f\n", joint.Hertz)
	fmt.Fprintf(w, "  jd.dampingRatio = %.15f\n", joint.DampingRatio)
	fmt.Fprintf(w, "  jd.enableLimit = %v\n", joint.EnableLimit)
	fmt.Fprintf(w, "  jd.lowerTranslation = %.15f\n", joint.LowerTranslation)
	fmt.Fprintf(w, "  jd.upperTranslation = %.15f\n", joint.UpperTranslation)
	fmt.Fprintf(w, "  jd.enableMotor = %v\n", joint.EnableMotor)
	fmt.Fprintf(w, "  jd.maxMotorTorque = %.15f\n", joint.MaxMotorTorque)
	fmt.Fprintf(w, "  jd.motorSpeed = %.15f\n", joint.MotorSpeed)
}
