package box2d

import (
	"fmt"
	"io"
	"math"
)

/// Prismatic joint definition. This requires defining a line of
/// motion using an axis and an anchor point. The definition uses local
/// anchor points and a local axis so that the initial configuration
/// can violate the constraint slightly. The joint translation is zero
/// when the local anchor points coincide in world space. Using local
/// anchors and a local axis helps when saving and loading a game.
type B2PrismaticJointDef struct {
	B2JointDef

	/// The local anchor point relative to bodyA's origin.
	LocalAnchorA B2Vec2

	/// The local anchor point relative to bodyB's origin.
	LocalAnchorB B2Vec2

	/// The local translation unit axis in bodyA.
	LocalAxisA B2Vec2

	/// The constrained angle between the bodies: bodyB_angle - bodyA_angle.
	ReferenceAngle float64

	/// Enable a linear spring along the prismatic joint axis
	EnableSpring bool

	/// The spring stiffness Hertz, cycles per second
	Hertz float64

	/// The spring damping ratio, non-dimensional
	DampingRatio float64

	/// Enable/disable the joint limit.
	EnableLimit bool

	/// The lower translation limit, usually in meters.
	LowerTranslation float64

	/// The upper translation limit, usually in meters.
	UpperTranslation float64

	/// Enable/disable the joint motor.
	EnableMotor bool

	/// The maximum motor force, usually in N.
	MaxMotorForce float64

	/// The desired motor speed in meters per second.
	MotorSpeed float64
}

func B2DefaultPrismaticJointDef() B2PrismaticJointDef {
	return B2PrismaticJointDef{
		LocalAxisA: MakeB2Vec2(1.0, 0.0),
	}
}

func MakeB2PrismaticJointDef() B2PrismaticJointDef {
	return B2DefaultPrismaticJointDef()
}

/// Initialize the bodies, anchors, axis, and reference angle using the world
/// anchor and unit world axis.
func (def *B2PrismaticJointDef) Initialize(bodyIdA B2BodyId, bodyIdB B2BodyId, anchor B2Vec2, axis B2Vec2) {
	def.BodyIdA = bodyIdA
	def.BodyIdB = bodyIdB
	def.LocalAnchorA = B2Body_GetLocalPoint(bodyIdA, anchor)
	def.LocalAnchorB = B2Body_GetLocalPoint(bodyIdB, anchor)
	def.LocalAxisA = B2Body_GetLocalVector(bodyIdA, axis)
	def.ReferenceAngle = B2RelativeAngle(B2Body_GetRotation(bodyIdB), B2Body_GetRotation(bodyIdA))
}

/// A prismatic joint. This joint provides one degree of freedom: translation
/// along an axis fixed in bodyA. Relative rotation is prevented. You can
/// use a joint limit to restrict the range of motion and a joint motor to
/// drive the motion or to model joint friction.
type b2PrismaticJoint struct {
	LocalAxisA B2Vec2

	// perpendicular and angular impulse
	Impulse B2Vec2

	SpringImpulse float64
	MotorImpulse  float64
	LowerImpulse  float64
	UpperImpulse  float64

	Hertz            float64
	DampingRatio     float64
	MaxMotorForce    float64
	MotorSpeed       float64
	ReferenceAngle   float64
	LowerTranslation float64
	UpperTranslation float64

	// Solver temp
	AxisA          B2Vec2
	DeltaAngle     float64
	AxialMass      float64
	SpringSoftness B2Softness

	EnableSpring bool
	EnableLimit  bool
	EnableMotor  bool
}

/// Create a prismatic (slider) joint
func B2CreatePrismaticJoint(worldId B2WorldId, def *B2PrismaticJointDef) (B2JointId, error) {
	world, bodyA, bodyB, err := b2ValidateJointDef(worldId, &def.B2JointDef)
	if err != nil {
		return B2_nullJointId, err
	}

	if def.LocalAxisA.LengthSquared() < B2_epsilon || def.LowerTranslation > def.UpperTranslation {
		return B2_nullJointId, fmt.Errorf("prismatic joint def: %w", ErrInvalidDef)
	}

	return b2CreateJointInternal(world, bodyA, bodyB, &def.B2JointDef, B2JointType.E_prismaticJoint, func(joint *b2Joint) {
		joint.LocalOriginAnchorA = def.LocalAnchorA
		joint.LocalOriginAnchorB = def.LocalAnchorB

		joint.Prismatic = b2PrismaticJoint{
			LocalAxisA:       B2Vec2Normalize(def.LocalAxisA),
			Hertz:            def.Hertz,
			DampingRatio:     def.DampingRatio,
			MaxMotorForce:    def.MaxMotorForce,
			MotorSpeed:       def.MotorSpeed,
			ReferenceAngle:   def.ReferenceAngle,
			LowerTranslation: def.LowerTranslation,
			UpperTranslation: def.UpperTranslation,
			EnableSpring:     def.EnableSpring,
			EnableLimit:      def.EnableLimit,
			EnableMotor:      def.EnableMotor,
		}
	}), nil
}

///////////////////////////////////////////////////////////////////////////////
// Accessors
///////////////////////////////////////////////////////////////////////////////

/// Enable/disable the joint spring.
func B2PrismaticJoint_EnableSpring(jointId B2JointId, enableSpring bool) error {
	world, base, err := b2GetMutableJoint(jointId, B2JointType.E_prismaticJoint)
	if err != nil {
		return err
	}

	if enableSpring != base.Prismatic.EnableSpring {
		base.Prismatic.EnableSpring = enableSpring
		base.Prismatic.SpringImpulse = 0.0
	}

	b2WakeJoint(world, base)
	return nil
}

/// Is the prismatic joint spring enabled or not?
func B2PrismaticJoint_IsSpringEnabled(jointId B2JointId) bool {
	_, base := b2GetJointOfType(jointId, B2JointType.E_prismaticJoint)
	return base.Prismatic.EnableSpring
}

/// Set the prismatic joint stiffness in Hertz.
/// This should usually be less than a quarter of the simulation rate. For example, if the simulation
/// runs at 60Hz then the joint stiffness should be 15Hz or less.
func B2PrismaticJoint_SetSpringHertz(jointId B2JointId, hertz float64) error {
	world, base, err := b2GetMutableJoint(jointId, B2JointType.E_prismaticJoint)
	if err != nil {
		return err
	}
	base.Prismatic.Hertz = hertz

	b2WakeJoint(world, base)
	return nil
}

/// Get the prismatic joint stiffness in Hertz
func B2PrismaticJoint_GetSpringHertz(jointId B2JointId) float64 {
	_, base := b2GetJointOfType(jointId, B2JointType.E_prismaticJoint)
	return base.Prismatic.Hertz
}

/// Set the prismatic joint damping ratio (non-dimensional)
func B2PrismaticJoint_SetSpringDampingRatio(jointId B2JointId, dampingRatio float64) error {
	world, base, err := b2GetMutableJoint(jointId, B2JointType.E_prismaticJoint)
	if err != nil {
		return err
	}
	base.Prismatic.DampingRatio = dampingRatio

	b2WakeJoint(world, base)
	return nil
}

/// Get the prismatic spring damping ratio (non-dimensional)
func B2PrismaticJoint_GetSpringDampingRatio(jointId B2JointId) float64 {
	_, base := b2GetJointOfType(jointId, B2JointType.E_prismaticJoint)
	return base.Prismatic.DampingRatio
}

/// Enable/disable a prismatic joint limit
func B2PrismaticJoint_EnableLimit(jointId B2JointId, enableLimit bool) error {
	world, base, err := b2GetMutableJoint(jointId, B2JointType.E_prismaticJoint)
	if err != nil {
		return err
	}

	if enableLimit != base.Prismatic.EnableLimit {
		base.Prismatic.EnableLimit = enableLimit
		base.Prismatic.LowerImpulse = 0.0
		base.Prismatic.UpperImpulse = 0.0
	}

	b2WakeJoint(world, base)
	return nil
}

/// Is the prismatic joint limit enabled?
func B2PrismaticJoint_IsLimitEnabled(jointId B2JointId) bool {
	_, base := b2GetJointOfType(jointId, B2JointType.E_prismaticJoint)
	return base.Prismatic.EnableLimit
}

/// Get the prismatic joint lower limit
func B2PrismaticJoint_GetLowerLimit(jointId B2JointId) float64 {
	_, base := b2GetJointOfType(jointId, B2JointType.E_prismaticJoint)
	return base.Prismatic.LowerTranslation
}

/// Get the prismatic joint upper limit
func B2PrismaticJoint_GetUpperLimit(jointId B2JointId) float64 {
	_, base := b2GetJointOfType(jointId, B2JointType.E_prismaticJoint)
	return base.Prismatic.UpperTranslation
}

/// Set the prismatic joint limits
func B2PrismaticJoint_SetLimits(jointId B2JointId, lower float64, upper float64) error {
	world, base, err := b2GetMutableJoint(jointId, B2JointType.E_prismaticJoint)
	if err != nil {
		return err
	}

	joint := &base.Prismatic
	if lower != joint.LowerTranslation || upper != joint.UpperTranslation {
		joint.LowerTranslation = math.Min(lower, upper)
		joint.UpperTranslation = math.Max(lower, upper)
		joint.LowerImpulse = 0.0
		joint.UpperImpulse = 0.0
	}

	b2WakeJoint(world, base)
	return nil
}

/// Enable/disable a prismatic joint motor
func B2PrismaticJoint_EnableMotor(jointId B2JointId, enableMotor bool) error {
	world, base, err := b2GetMutableJoint(jointId, B2JointType.E_prismaticJoint)
	if err != nil {
		return err
	}

	if enableMotor != base.Prismatic.EnableMotor {
		base.Prismatic.EnableMotor = enableMotor
		base.Prismatic.MotorImpulse = 0.0
	}

	b2WakeJoint(world, base)
	return nil
}

/// Is the prismatic joint motor enabled?
func B2PrismaticJoint_IsMotorEnabled(jointId B2JointId) bool {
	_, base := b2GetJointOfType(jointId, B2JointType.E_prismaticJoint)
	return base.Prismatic.EnableMotor
}

/// Set the prismatic joint motor speed, usually in meters per second
func B2PrismaticJoint_SetMotorSpeed(jointId B2JointId, motorSpeed float64) error {
	world, base, err := b2GetMutableJoint(jointId, B2JointType.E_prismaticJoint)
	if err != nil {
		return err
	}
	base.Prismatic.MotorSpeed = motorSpeed

	b2WakeJoint(world, base)
	return nil
}

/// Get the prismatic joint motor speed, usually in meters per second
func B2PrismaticJoint_GetMotorSpeed(jointId B2JointId) float64 {
	_, base := b2GetJointOfType(jointId, B2JointType.E_prismaticJoint)
	return base.Prismatic.MotorSpeed
}

/// Set the prismatic joint maximum motor force, usually in newtons
func B2PrismaticJoint_SetMaxMotorForce(jointId B2JointId, force float64) error {
	world, base, err := b2GetMutableJoint(jointId, B2JointType.E_prismaticJoint)
	if err != nil {
		return err
	}
	base.Prismatic.MaxMotorForce = force

	b2WakeJoint(world, base)
	return nil
}

/// Get the prismatic joint maximum motor force, usually in newtons
func B2PrismaticJoint_GetMaxMotorForce(jointId B2JointId) float64 {
	_, base := b2GetJointOfType(jointId, B2JointType.E_prismaticJoint)
	return base.Prismatic.MaxMotorForce
}

/// Get the prismatic joint current motor force, usually in newtons
func B2PrismaticJoint_GetMotorForce(jointId B2JointId) float64 {
	world, base := b2GetJointOfType(jointId, B2JointType.E_prismaticJoint)
	return world.inv_h * base.Prismatic.MotorImpulse
}

/// Get the current joint translation, usually in meters.
func B2PrismaticJoint_GetTranslation(jointId B2JointId) float64 {
	world, base := b2GetJointOfType(jointId, B2JointType.E_prismaticJoint)
	bodyA, bodyB := b2GetJointBodies(world, base)

	pA := B2TransformVec2Mul(bodyA.Transform, base.LocalOriginAnchorA)
	pB := B2TransformVec2Mul(bodyB.Transform, base.LocalOriginAnchorB)
	axis := B2RotVec2Mul(bodyA.Transform.Q, base.Prismatic.LocalAxisA)
	return B2Vec2Dot(B2Vec2Sub(pB, pA), axis)
}

/// Get the current joint translation speed, usually in meters per second.
func B2PrismaticJoint_GetSpeed(jointId B2JointId) float64 {
	world, base := b2GetJointOfType(jointId, B2JointType.E_prismaticJoint)
	bodyA, bodyB := b2GetJointBodies(world, base)

	rA := B2RotVec2Mul(bodyA.Transform.Q, B2Vec2Sub(base.LocalOriginAnchorA, bodyA.LocalCenter))
	rB := B2RotVec2Mul(bodyB.Transform.Q, B2Vec2Sub(base.LocalOriginAnchorB, bodyB.LocalCenter))
	d := B2Vec2Add(B2Vec2Sub(bodyB.Center, bodyA.Center), B2Vec2Sub(rB, rA))
	axis := B2RotVec2Mul(bodyA.Transform.Q, base.Prismatic.LocalAxisA)

	vA := bodyA.LinearVelocity
	wA := bodyA.AngularVelocity
	vB := bodyB.LinearVelocity
	wB := bodyB.AngularVelocity

	vRel := B2Vec2Sub(B2Vec2Add(vB, B2Vec2CrossScalarVector(wB, rB)), B2Vec2Add(vA, B2Vec2CrossScalarVector(wA, rA)))
	return B2Vec2Dot(d, B2Vec2CrossScalarVector(wA, axis)) + B2Vec2Dot(axis, vRel)
}

func b2GetPrismaticJointForce(world *b2World, base *b2Joint) B2Vec2 {
	joint := &base.Prismatic
	bodyA := world.bodies.Get(base.Edges[0].BodyId)

	axisA := B2RotVec2Mul(bodyA.Transform.Q, joint.LocalAxisA)
	perpA := B2LeftPerp(axisA)

	// impulse.X is the perpendicular impulse
	perpForce := world.inv_h * joint.Impulse.X
	axialForce := world.inv_h * (joint.MotorImpulse + joint.LowerImpulse - joint.UpperImpulse + joint.SpringImpulse)

	return B2Vec2Add(B2Vec2MulScalar(perpForce, perpA), B2Vec2MulScalar(axialForce, axisA))
}

///////////////////////////////////////////////////////////////////////////////
// Solver
///////////////////////////////////////////////////////////////////////////////

// Linear constraint (point-to-line)
// d = p2 - p1 = x2 + r2 - x1 - r1
// C = dot(perp, d)
// Cdot = dot(d, cross(w1, perp)) + dot(perp, v2 + cross(w2, r2) - v1 - cross(w1, r1))
//      = -dot(perp, v1) - dot(cross(d + r1, perp), w1) + dot(perp, v2) + dot(cross(r2, perp), v2)
// J = [-perp, -cross(d + r1, perp), perp, cross(r2,perp)]
//
// Angular constraint
// C = a2 - a1 + a_initial
// Cdot = w2 - w1
// J = [0 0 -1 0 0 1]
//
// K = J * invM * JT
//
// J = [-a -s1 a s2]
//     [0  -1  0  1]
// a = perp
// s1 = cross(d + r1, a) = cross(p2 - x1, a)
// s2 = cross(r2, a) = cross(p2 - x2, a)

// Motor/Limit linear constraint
// C = dot(ax1, d)
// Cdot = -dot(ax1, v1) - dot(cross(d + r1, ax1), w1) + dot(ax1, v2) + dot(cross(r2, ax1), v2)
// J = [-ax1 -cross(d+r1,ax1) ax1 cross(r2,ax1)]

// Predictive limit is applied even when the limit is not active.
// Prevents a constraint speed that can lead to a constraint error in one time step.
// Want C2 = C1 + h * Cdot >= 0
// Or:
// Cdot + C1/h >= 0

func b2PreparePrismaticJoint(base *b2Joint, context *b2StepContext, bodyA *b2Body, bodyB *b2Body) {
	joint := &base.Prismatic

	qA := bodyA.Transform.Q
	qB := bodyB.Transform.Q

	mA, mB := base.InvMassA, base.InvMassB
	iA, iB := base.InvIA, base.InvIB

	joint.AxisA = B2RotVec2Mul(qA, joint.LocalAxisA)
	joint.DeltaAngle = B2UnwindAngle(B2RelativeAngle(qB, qA) - joint.ReferenceAngle)

	rA := base.AnchorA
	rB := base.AnchorB

	d := B2Vec2Add(base.DeltaCenter, B2Vec2Sub(rB, rA))
	a1 := B2Vec2Cross(B2Vec2Add(d, rA), joint.AxisA)
	a2 := B2Vec2Cross(rB, joint.AxisA)

	k := mA + mB + iA*a1*a1 + iB*a2*a2
	joint.AxialMass = b2InverseMass(k)

	joint.SpringSoftness = B2MakeSoft(joint.Hertz, joint.DampingRatio, context.h)

	if context.enableWarmStarting == false {
		joint.Impulse = B2Vec2_zero
		joint.SpringImpulse = 0.0
		joint.MotorImpulse = 0.0
		joint.LowerImpulse = 0.0
		joint.UpperImpulse = 0.0
	}
}

func b2WarmStartPrismaticJoint(base *b2Joint, stateA *b2BodyState, stateB *b2BodyState) {
	joint := &base.Prismatic

	mA, mB := base.InvMassA, base.InvMassB
	iA, iB := base.InvIA, base.InvIB

	rA, rB, d := b2JointSeparation(base, stateA, stateB)
	axisA := B2RotVec2Mul(stateA.DeltaRotation, joint.AxisA)

	// impulse is applied at anchorB
	a1 := B2Vec2Cross(B2Vec2Add(d, rA), axisA)
	a2 := B2Vec2Cross(rB, axisA)
	axialImpulse := joint.SpringImpulse + joint.MotorImpulse + joint.LowerImpulse - joint.UpperImpulse

	// perpendicular constraint
	perpA := B2LeftPerp(axisA)
	s1 := B2Vec2Cross(B2Vec2Add(d, rA), perpA)
	s2 := B2Vec2Cross(rB, perpA)
	perpImpulse := joint.Impulse.X
	angleImpulse := joint.Impulse.Y

	P := B2Vec2Add(B2Vec2MulScalar(axialImpulse, axisA), B2Vec2MulScalar(perpImpulse, perpA))
	LA := axialImpulse*a1 + perpImpulse*s1 + angleImpulse
	LB := axialImpulse*a2 + perpImpulse*s2 + angleImpulse

	b2ApplyJointImpulse(mA, mB, iA, iB, &stateA.LinearVelocity, &stateB.LinearVelocity,
		&stateA.AngularVelocity, &stateB.AngularVelocity, P, LA, LB)
}

func b2SolvePrismaticJoint(base *b2Joint, context *b2StepContext, stateA *b2BodyState, stateB *b2BodyState, useBias bool) {
	joint := &base.Prismatic

	mA, mB := base.InvMassA, base.InvMassB
	iA, iB := base.InvIA, base.InvIB

	vA := stateA.LinearVelocity
	wA := stateA.AngularVelocity
	vB := stateB.LinearVelocity
	wB := stateB.AngularVelocity

	// current anchors
	rA, rB, d := b2JointSeparation(base, stateA, stateB)

	axisA := B2RotVec2Mul(stateA.DeltaRotation, joint.AxisA)
	translation := B2Vec2Dot(axisA, d)

	// These scalars are for torques generated by axial forces
	a1 := B2Vec2Cross(B2Vec2Add(d, rA), axisA)
	a2 := B2Vec2Cross(rB, axisA)

	axialSpeed := func() float64 {
		return B2Vec2Dot(axisA, B2Vec2Sub(vB, vA)) + a2*wB - a1*wA
	}

	applyAxial := func(impulse float64) {
		P := B2Vec2MulScalar(impulse, axisA)
		b2ApplyJointImpulse(mA, mB, iA, iB, &vA, &vB, &wA, &wB, P, impulse*a1, impulse*a2)
	}

	if joint.EnableSpring {
		// This is a real spring and should be applied even during relax
		C := translation
		bias := joint.SpringSoftness.BiasRate * C
		massScale := joint.SpringSoftness.MassScale
		impulseScale := joint.SpringSoftness.ImpulseScale

		Cdot := axialSpeed()
		impulse := -joint.AxialMass*massScale*(Cdot+bias) - impulseScale*joint.SpringImpulse
		joint.SpringImpulse += impulse
		applyAxial(impulse)
	}

	if joint.EnableMotor {
		Cdot := axialSpeed()
		impulse := joint.AxialMass * (joint.MotorSpeed - Cdot)
		oldImpulse := joint.MotorImpulse
		maxImpulse := context.h * joint.MaxMotorForce
		joint.MotorImpulse = B2Clamp(oldImpulse+impulse, -maxImpulse, maxImpulse)
		impulse = joint.MotorImpulse - oldImpulse
		applyAxial(impulse)
	}

	if joint.EnableLimit {
		// Lower limit
		{
			C := translation - joint.LowerTranslation
			bias, massScale, impulseScale := b2LimitSoftness(C, context, useBias)

			oldImpulse := joint.LowerImpulse
			Cdot := axialSpeed()
			impulse := -joint.AxialMass*massScale*(Cdot+bias) - impulseScale*oldImpulse
			joint.LowerImpulse = math.Max(oldImpulse+impulse, 0.0)
			impulse = joint.LowerImpulse - oldImpulse
			applyAxial(impulse)
		}

		// Upper limit
		// Note: signs are flipped to keep C positive when the constraint is satisfied.
		// This also keeps the impulse positive when the limit is active.
		{
			C := joint.UpperTranslation - translation
			bias, massScale, impulseScale := b2LimitSoftness(C, context, useBias)

			oldImpulse := joint.UpperImpulse
			// sign flipped
			Cdot := -axialSpeed()
			impulse := -joint.AxialMass*massScale*(Cdot+bias) - impulseScale*oldImpulse
			joint.UpperImpulse = math.Max(oldImpulse+impulse, 0.0)
			impulse = joint.UpperImpulse - oldImpulse
			applyAxial(-impulse)
		}
	}

	// Solve the prismatic constraint in block form
	{
		perpA := B2LeftPerp(axisA)

		// These scalars are for torques generated by the perpendicular constraint force
		s1 := B2Vec2Cross(B2Vec2Add(d, rA), perpA)
		s2 := B2Vec2Cross(rB, perpA)

		Cdot := MakeB2Vec2(B2Vec2Dot(perpA, B2Vec2Sub(vB, vA))+s2*wB-s1*wA, wB-wA)

		bias := B2Vec2_zero
		massScale := 1.0
		impulseScale := 0.0
		if useBias {
			C := MakeB2Vec2(B2Vec2Dot(perpA, d), B2RelativeAngle(stateB.DeltaRotation, stateA.DeltaRotation)+joint.DeltaAngle)

			bias = B2Vec2MulScalar(context.jointSoftness.BiasRate, C)
			massScale = context.jointSoftness.MassScale
			impulseScale = context.jointSoftness.ImpulseScale
		}

		k11 := mA + mB + iA*s1*s1 + iB*s2*s2
		k12 := iA*s1 + iB*s2
		k22 := iA + iB
		if k22 == 0.0 {
			// For bodies with fixed rotation.
			k22 = 1.0
		}

		K := MakeB2Mat22FromScalars(k11, k12, k12, k22)

		b := K.Solve(B2Vec2Add(Cdot, bias))

		impulse := MakeB2Vec2(-massScale*b.X-impulseScale*joint.Impulse.X, -massScale*b.Y-impulseScale*joint.Impulse.Y)

		joint.Impulse.X += impulse.X
		joint.Impulse.Y += impulse.Y

		P := B2Vec2MulScalar(impulse.X, perpA)
		LA := impulse.X*s1 + impulse.Y
		LB := impulse.X*s2 + impulse.Y

		b2ApplyJointImpulse(mA, mB, iA, iB, &vA, &vB, &wA, &wB, P, LA, LB)
	}

	stateA.LinearVelocity = vA
	stateA.AngularVelocity = wA
	stateB.LinearVelocity = vB
	stateB.AngularVelocity = wB
}

func b2DumpPrismaticJoint(w io.Writer, base *b2Joint) {
	joint := &base.Prismatic
	fmt.Fprintf(w, "  jd.localAnchorA = (%.15f, %.15f)\n", base.LocalOriginAnchorA.X, base.LocalOriginAnchorA.Y)
	fmt.Fprintf(w, "  jd.localAnchorB = (%.15f, %.15f)\n", base.LocalOriginAnchorB.X, base.LocalOriginAnchorB.Y)
	fmt.Fprintf(w, "  jd.localAxisA = (%.15f, %.15f)\n", joint.LocalAxisA.X, joint.LocalAxisA.Y)
	fmt.Fprintf(w, "  jd.referenceAngle = %.15f\n", joint.ReferenceAngle)
	fmt.Fprintf(w, "  jd.enableSpring = %v\n", joint.EnableSpring)
	fmt.Fprintf(w, "  jd.hertz = %.15f\n", joint.Hertz)
	fmt.Fprintf(w, "  jd.dampingRatio = %.15f\n", joint.DampingRatio)
	fmt.Fprintf(w, "  jd.enableLimit = %v\n", joint.EnableLimit)
	fmt.Fprintf(w, "  jd.lowerTranslation = %.15f\n", joint.LowerTranslation)
	fmt.Fprintf(w, "  jd.upperTranslation = %.15f\n", joint.UpperTranslation)
	fmt.Fprintf(w, "  jd.enableMotor = %v\n", joint.EnableMotor)
	fmt.Fprintf(w, "  jd.motorSpeed = %.15f\n", joint.MotorSpeed)
	fmt.Fprintf(w, "  jd.maxMotorForce = %.15f\n", joint.MaxMotorForce)
}
