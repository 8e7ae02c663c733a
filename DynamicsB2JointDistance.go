package box2d

import (
	"fmt"
	"io"
	"math"
)

/// Distance joint definition. This requires defining an anchor point on both
/// bodies and the non-zero distance of the distance joint. The definition uses
/// local anchor points so that the initial configuration can violate the
/// constraint slightly. This helps when saving and loading a game.
type B2DistanceJointDef struct {
	B2JointDef

	/// The local anchor point relative to bodyA's origin.
	LocalAnchorA B2Vec2

	/// The local anchor point relative to bodyB's origin.
	LocalAnchorB B2Vec2

	/// The rest length of this joint. Clamped to a stable minimum value.
	Length float64

	/// Enable the distance constraint to behave like a spring. If false
	/// then the distance joint will be rigid, overriding the limit and motor.
	EnableSpring bool

	/// The spring linear stiffness Hertz, cycles per second
	Hertz float64

	/// The spring linear damping ratio, non-dimensional
	DampingRatio float64

	/// Enable/disable the joint limit
	EnableLimit bool

	/// Minimum length. Clamped to a stable minimum value.
	MinLength float64

	/// Maximum length. Must be greater than or equal to the minimum length.
	MaxLength float64

	/// Enable/disable the joint motor
	EnableMotor bool

	/// The maximum motor force, usually in newtons
	MaxMotorForce float64

	/// The desired motor speed, usually in meters per second
	MotorSpeed float64
}

func B2DefaultDistanceJointDef() B2DistanceJointDef {
	return B2DistanceJointDef{
		Length:    1.0,
		MaxLength: B2_huge,
	}
}

func MakeB2DistanceJointDef() B2DistanceJointDef {
	return B2DefaultDistanceJointDef()
}

/// Initialize the bodies, anchors, and rest length using world space anchors.
/// The minimum and maximum lengths are set to the rest length.
func (def *B2DistanceJointDef) Initialize(bodyIdA B2BodyId, bodyIdB B2BodyId, anchorA B2Vec2, anchorB B2Vec2) {
	def.BodyIdA = bodyIdA
	def.BodyIdB = bodyIdB
	def.LocalAnchorA = B2Body_GetLocalPoint(bodyIdA, anchorA)
	def.LocalAnchorB = B2Body_GetLocalPoint(bodyIdB, anchorB)
	d := B2Vec2Sub(anchorB, anchorA)
	def.Length = math.Max(d.Length(), B2_linearSlop)
	def.MinLength = def.Length
	def.MaxLength = def.Length
}

type b2DistanceJoint struct {
	Length       float64
	Hertz        float64
	DampingRatio float64
	MinLength    float64
	MaxLength    float64

	MaxMotorForce float64
	MotorSpeed    float64

	Impulse      float64
	LowerImpulse float64
	UpperImpulse float64
	MotorImpulse float64

	// Solver temp
	AxialMass        float64
	DistanceSoftness B2Softness
	SpringSoftness   B2Softness

	EnableSpring bool
	EnableLimit  bool
	EnableMotor  bool
}

/// Create a distance joint
func B2CreateDistanceJoint(worldId B2WorldId, def *B2DistanceJointDef) (B2JointId, error) {
	world, bodyA, bodyB, err := b2ValidateJointDef(worldId, &def.B2JointDef)
	if err != nil {
		return B2_nullJointId, err
	}

	if B2IsValid(def.Length) == false || def.Length <= 0.0 || def.MinLength > def.MaxLength {
		return B2_nullJointId, fmt.Errorf("distance joint def: %w", ErrInvalidDef)
	}

	return b2CreateJointInternal(world, bodyA, bodyB, &def.B2JointDef, B2JointType.E_distanceJoint, func(joint *b2Joint) {
		joint.LocalOriginAnchorA = def.LocalAnchorA
		joint.LocalOriginAnchorB = def.LocalAnchorB

		minLength := B2Clamp(def.MinLength, B2_linearSlop, B2_huge)
		joint.Distance = b2DistanceJoint{
			Length:        B2Clamp(def.Length, B2_linearSlop, B2_huge),
			Hertz:         def.Hertz,
			DampingRatio:  def.DampingRatio,
			MinLength:     minLength,
			MaxLength:     B2Clamp(def.MaxLength, minLength, B2_huge),
			MaxMotorForce: def.MaxMotorForce,
			MotorSpeed:    def.MotorSpeed,
			EnableSpring:  def.EnableSpring,
			EnableLimit:   def.EnableLimit,
			EnableMotor:   def.EnableMotor,
		}
	}), nil
}

///////////////////////////////////////////////////////////////////////////////
// Accessors
///////////////////////////////////////////////////////////////////////////////

/// Set the rest length of a distance joint
/// @param length The new distance joint length
func B2DistanceJoint_SetLength(jointId B2JointId, length float64) error {
	world, base, err := b2GetMutableJoint(jointId, B2JointType.E_distanceJoint)
	if err != nil {
		return err
	}

	joint := &base.Distance
	joint.Length = B2Clamp(length, B2_linearSlop, B2_huge)
	joint.Impulse = 0.0
	joint.LowerImpulse = 0.0
	joint.UpperImpulse = 0.0

	b2WakeJoint(world, base)
	return nil
}

/// Get the rest length of a distance joint
func B2DistanceJoint_GetLength(jointId B2JointId) float64 {
	_, base := b2GetJointOfType(jointId, B2JointType.E_distanceJoint)
	return base.Distance.Length
}

/// Enable/disable the distance joint spring. When disabled the distance joint is rigid.
func B2DistanceJoint_EnableSpring(jointId B2JointId, enableSpring bool) error {
	world, base, err := b2GetMutableJoint(jointId, B2JointType.E_distanceJoint)
	if err != nil {
		return err
	}
	base.Distance.EnableSpring = enableSpring

	b2WakeJoint(world, base)
	return nil
}

/// Is the distance joint spring enabled?
func B2DistanceJoint_IsSpringEnabled(jointId B2JointId) bool {
	_, base := b2GetJointOfType(jointId, B2JointType.E_distanceJoint)
	return base.Distance.EnableSpring
}

/// Set the spring stiffness in Hertz
func B2DistanceJoint_SetSpringHertz(jointId B2JointId, hertz float64) error {
	world, base, err := b2GetMutableJoint(jointId, B2JointType.E_distanceJoint)
	if err != nil {
		return err
	}
	base.Distance.Hertz = hertz

	b2WakeJoint(world, base)
	return nil
}

/// Set the spring damping ratio, non-dimensional
func B2DistanceJoint_SetSpringDampingRatio(jointId B2JointId, dampingRatio float64) error {
	world, base, err := b2GetMutableJoint(jointId, B2JointType.E_distanceJoint)
	if err != nil {
		return err
	}
	base.Distance.DampingRatio = dampingRatio

	b2WakeJoint(world, base)
	return nil
}

/// Get the spring Hertz
func B2DistanceJoint_GetHertz(jointId B2JointId) float64 {
	_, base := b2GetJointOfType(jointId, B2JointType.E_distanceJoint)
	return base.Distance.Hertz
}

/// Get the spring damping ratio
func B2DistanceJoint_GetDampingRatio(jointId B2JointId) float64 {
	_, base := b2GetJointOfType(jointId, B2JointType.E_distanceJoint)
	return base.Distance.DampingRatio
}

/// Enable joint limit. The limit only works if the joint spring is enabled. Otherwise the joint is rigid
/// and the limit has no effect.
func B2DistanceJoint_EnableLimit(jointId B2JointId, enableLimit bool) error {
	world, base, err := b2GetMutableJoint(jointId, B2JointType.E_distanceJoint)
	if err != nil {
		return err
	}
	base.Distance.EnableLimit = enableLimit

	b2WakeJoint(world, base)
	return nil
}

/// Is the distance joint limit enabled?
func B2DistanceJoint_IsLimitEnabled(jointId B2JointId) bool {
	_, base := b2GetJointOfType(jointId, B2JointType.E_distanceJoint)
	return base.Distance.EnableLimit
}

/// Set the minimum and maximum length parameters of a distance joint
func B2DistanceJoint_SetLengthRange(jointId B2JointId, minLength float64, maxLength float64) error {
	world, base, err := b2GetMutableJoint(jointId, B2JointType.E_distanceJoint)
	if err != nil {
		return err
	}

	joint := &base.Distance
	minLength = B2Clamp(minLength, B2_linearSlop, B2_huge)
	maxLength = B2Clamp(maxLength, B2_linearSlop, B2_huge)
	joint.MinLength = math.Min(minLength, maxLength)
	joint.MaxLength = math.Max(minLength, maxLength)
	joint.Impulse = 0.0
	joint.LowerImpulse = 0.0
	joint.UpperImpulse = 0.0

	b2WakeJoint(world, base)
	return nil
}

/// Get the distance joint minimum length
func B2DistanceJoint_GetMinLength(jointId B2JointId) float64 {
	_, base := b2GetJointOfType(jointId, B2JointType.E_distanceJoint)
	return base.Distance.MinLength
}

/// Get the distance joint maximum length
func B2DistanceJoint_GetMaxLength(jointId B2JointId) float64 {
	_, base := b2GetJointOfType(jointId, B2JointType.E_distanceJoint)
	return base.Distance.MaxLength
}

/// Get the current length of a distance joint
func B2DistanceJoint_GetCurrentLength(jointId B2JointId) float64 {
	world, base := b2GetJointOfType(jointId, B2JointType.E_distanceJoint)
	bodyA, bodyB := b2GetJointBodies(world, base)

	pA := B2TransformVec2Mul(bodyA.Transform, base.LocalOriginAnchorA)
	pB := B2TransformVec2Mul(bodyB.Transform, base.LocalOriginAnchorB)
	return B2Vec2Distance(pA, pB)
}

/// Enable/disable the distance joint motor
func B2DistanceJoint_EnableMotor(jointId B2JointId, enableMotor bool) error {
	world, base, err := b2GetMutableJoint(jointId, B2JointType.E_distanceJoint)
	if err != nil {
		return err
	}
	base.Distance.EnableMotor = enableMotor

	b2WakeJoint(world, base)
	return nil
}

/// Is the distance joint motor enabled?
func B2DistanceJoint_IsMotorEnabled(jointId B2JointId) bool {
	_, base := b2GetJointOfType(jointId, B2JointType.E_distanceJoint)
	return base.Distance.EnableMotor
}

/// Set the distance joint motor speed, usually in meters per second
func B2DistanceJoint_SetMotorSpeed(jointId B2JointId, motorSpeed float64) error {
	world, base, err := b2GetMutableJoint(jointId, B2JointType.E_distanceJoint)
	if err != nil {
		return err
	}
	base.Distance.MotorSpeed = motorSpeed

	b2WakeJoint(world, base)
	return nil
}

/// Get the distance joint motor speed, usually in meters per second
func B2DistanceJoint_GetMotorSpeed(jointId B2JointId) float64 {
	_, base := b2GetJointOfType(jointId, B2JointType.E_distanceJoint)
	return base.Distance.MotorSpeed
}

/// Set the distance joint maximum motor force, usually in newtons
func B2DistanceJoint_SetMaxMotorForce(jointId B2JointId, force float64) error {
	world, base, err := b2GetMutableJoint(jointId, B2JointType.E_distanceJoint)
	if err != nil {
		return err
	}
	base.Distance.MaxMotorForce = force

	b2WakeJoint(world, base)
	return nil
}

/// Get the distance joint maximum motor force, usually in newtons
func B2DistanceJoint_GetMaxMotorForce(jointId B2JointId) float64 {
	_, base := b2GetJointOfType(jointId, B2JointType.E_distanceJoint)
	return base.Distance.MaxMotorForce
}

/// Get the distance joint current motor force, usually in newtons
func B2DistanceJoint_GetMotorForce(jointId B2JointId) float64 {
	world, base := b2GetJointOfType(jointId, B2JointType.E_distanceJoint)
	return world.inv_h * base.Distance.MotorImpulse
}

func b2GetDistanceJointForce(world *b2World, base *b2Joint) B2Vec2 {
	joint := &base.Distance
	bodyA, bodyB := b2GetJointBodies(world, base)

	pA := B2TransformVec2Mul(bodyA.Transform, base.LocalOriginAnchorA)
	pB := B2TransformVec2Mul(bodyB.Transform, base.LocalOriginAnchorB)
	axis := B2Vec2Normalize(B2Vec2Sub(pB, pA))

	impulse := joint.Impulse + joint.LowerImpulse - joint.UpperImpulse + joint.MotorImpulse
	return B2Vec2MulScalar(world.inv_h*impulse, axis)
}

///////////////////////////////////////////////////////////////////////////////
// Solver
///////////////////////////////////////////////////////////////////////////////

// C = norm(p2 - p1) - L
// u = (p2 - p1) / norm(p2 - p1)
// Cdot = dot(u, v2 + cross(w2, r2) - v1 - cross(w1, r1))
// J = [-u -cross(r1, u) u cross(r2, u)]
// K = J * invM * JT
//   = invMass1 + invI1 * cross(r1, u)^2 + invMass2 + invI2 * cross(r2, u)^2

func b2PrepareDistanceJoint(base *b2Joint, context *b2StepContext) {
	joint := &base.Distance

	mA, mB := base.InvMassA, base.InvMassB
	iA, iB := base.InvIA, base.InvIB

	rA := base.AnchorA
	rB := base.AnchorB
	separation := B2Vec2Add(B2Vec2Sub(rB, rA), base.DeltaCenter)
	axis := B2Vec2Normalize(separation)

	crA := B2Vec2Cross(rA, axis)
	crB := B2Vec2Cross(rB, axis)
	k := mA + mB + iA*crA*crA + iB*crB*crB
	joint.AxialMass = b2InverseMass(k)
	joint.DistanceSoftness = B2MakeSoft(2.0*context.contactHertz, context.jointDampingRatio, context.h)
	joint.SpringSoftness = B2MakeSoft(joint.Hertz, joint.DampingRatio, context.h)

	if context.enableWarmStarting == false {
		joint.Impulse = 0.0
		joint.LowerImpulse = 0.0
		joint.UpperImpulse = 0.0
		joint.MotorImpulse = 0.0
	}
}

// Current separation of the anchors and the anchors relative to the centers of mass.
func b2JointSeparation(base *b2Joint, stateA *b2BodyState, stateB *b2BodyState) (B2Vec2, B2Vec2, B2Vec2) {
	rA := B2RotVec2Mul(stateA.DeltaRotation, base.AnchorA)
	rB := B2RotVec2Mul(stateB.DeltaRotation, base.AnchorB)
	d := B2Vec2Add(B2Vec2Add(B2Vec2Sub(stateB.DeltaPosition, stateA.DeltaPosition), base.DeltaCenter), B2Vec2Sub(rB, rA))
	return rA, rB, d
}

func b2WarmStartDistanceJoint(base *b2Joint, stateA *b2BodyState, stateB *b2BodyState) {
	joint := &base.Distance

	mA, mB := base.InvMassA, base.InvMassB
	iA, iB := base.InvIA, base.InvIB

	rA, rB, d := b2JointSeparation(base, stateA, stateB)
	axis := B2Vec2Normalize(d)

	axialImpulse := joint.Impulse + joint.LowerImpulse - joint.UpperImpulse + joint.MotorImpulse
	P := B2Vec2MulScalar(axialImpulse, axis)

	stateA.AngularVelocity -= iA * B2Vec2Cross(rA, P)
	stateA.LinearVelocity = B2Vec2MulSub(stateA.LinearVelocity, mA, P)
	stateB.AngularVelocity += iB * B2Vec2Cross(rB, P)
	stateB.LinearVelocity = B2Vec2MulAdd(stateB.LinearVelocity, mB, P)
}

func b2SolveDistanceJoint(base *b2Joint, context *b2StepContext, stateA *b2BodyState, stateB *b2BodyState, useBias bool) {
	joint := &base.Distance

	mA, mB := base.InvMassA, base.InvMassB
	iA, iB := base.InvIA, base.InvIB

	vA := stateA.LinearVelocity
	wA := stateA.AngularVelocity
	vB := stateB.LinearVelocity
	wB := stateB.AngularVelocity

	rA, rB, d := b2JointSeparation(base, stateA, stateB)
	length, axis := B2GetLengthAndNormalize(d)

	// Relative velocity along the axis
	axialSpeed := func() float64 {
		vr := B2Vec2Sub(B2Vec2Add(vB, B2Vec2CrossScalarVector(wB, rB)), B2Vec2Add(vA, B2Vec2CrossScalarVector(wA, rA)))
		return B2Vec2Dot(axis, vr)
	}

	apply := func(impulse float64) {
		P := B2Vec2MulScalar(impulse, axis)
		vA = B2Vec2MulSub(vA, mA, P)
		wA -= iA * B2Vec2Cross(rA, P)
		vB = B2Vec2MulAdd(vB, mB, P)
		wB += iB * B2Vec2Cross(rB, P)
	}

	// joint is soft if the spring is enabled and the length range is not degenerate
	if joint.EnableSpring && joint.MinLength < joint.MaxLength {
		if joint.Hertz > 0.0 {
			// Cdot = dot(u, v + cross(w, r))
			Cdot := axialSpeed()
			C := length - joint.Length
			bias := joint.SpringSoftness.BiasRate * C
			massScale := joint.SpringSoftness.MassScale
			impulseScale := joint.SpringSoftness.ImpulseScale

			impulse := -massScale*joint.AxialMass*(Cdot+bias) - impulseScale*joint.Impulse
			joint.Impulse += impulse
			apply(impulse)
		}

		if joint.EnableMotor {
			Cdot := axialSpeed()
			impulse := joint.AxialMass * (joint.MotorSpeed - Cdot)
			oldImpulse := joint.MotorImpulse
			maxImpulse := context.h * joint.MaxMotorForce
			joint.MotorImpulse = B2Clamp(joint.MotorImpulse+impulse, -maxImpulse, maxImpulse)
			impulse = joint.MotorImpulse - oldImpulse
			apply(impulse)
		}

		if joint.EnableLimit {
			// lower limit
			{
				C := length - joint.MinLength
				bias, massScale, impulseScale := b2DistanceLimitSoftness(C, joint, context, useBias)

				Cdot := axialSpeed()
				impulse := -massScale*joint.AxialMass*(Cdot+bias) - impulseScale*joint.LowerImpulse
				newImpulse := math.Max(0.0, joint.LowerImpulse+impulse)
				impulse = newImpulse - joint.LowerImpulse
				joint.LowerImpulse = newImpulse
				apply(impulse)
			}

			// upper limit
			{
				C := joint.MaxLength - length
				bias, massScale, impulseScale := b2DistanceLimitSoftness(C, joint, context, useBias)

				Cdot := -axialSpeed()
				impulse := -massScale*joint.AxialMass*(Cdot+bias) - impulseScale*joint.UpperImpulse
				newImpulse := math.Max(0.0, joint.UpperImpulse+impulse)
				impulse = newImpulse - joint.UpperImpulse
				joint.UpperImpulse = newImpulse
				apply(-impulse)
			}
		}
	} else {
		// rigid constraint
		Cdot := axialSpeed()
		C := length - joint.Length

		bias := 0.0
		massScale := 1.0
		impulseScale := 0.0
		if useBias {
			bias = joint.DistanceSoftness.BiasRate * C
			massScale = joint.DistanceSoftness.MassScale
			impulseScale = joint.DistanceSoftness.ImpulseScale
		}

		impulse := -massScale*joint.AxialMass*(Cdot+bias) - impulseScale*joint.Impulse
		joint.Impulse += impulse
		apply(impulse)
	}

	stateA.LinearVelocity = vA
	stateA.AngularVelocity = wA
	stateB.LinearVelocity = vB
	stateB.AngularVelocity = wB
}

// The distance limits use the stiffer distance softness rather than the joint softness.
func b2DistanceLimitSoftness(C float64, joint *b2DistanceJoint, context *b2StepContext, useBias bool) (bias, massScale, impulseScale float64) {
	massScale = 1.0
	if C > 0.0 {
		// speculative
		bias = C * context.inv_h
	} else if useBias {
		bias = joint.DistanceSoftness.BiasRate * C
		massScale = joint.DistanceSoftness.MassScale
		impulseScale = joint.DistanceSoftness.ImpulseScale
	}
	return bias, massScale, impulseScale
}

func b2DumpDistanceJoint(w io.Writer, base *b2Joint) {
	joint := &base.Distance
	fmt.Fprintf(w, "  jd.localAnchorA = (%.15f, %.15f)\n", base.LocalOriginAnchorA.X, base.LocalOriginAnchorA.Y)
	fmt.Fprintf(w, "  jd.localAnchorB = (%.15f, %.15f)\n", base.LocalOriginAnchorB.X, base.LocalOriginAnchorB.Y)
	fmt.Fprintf(w, "  jd.length = %.15f\n", joint.Length)
	fmt.Fprintf(w, "  jd.minLength = %.15f\n", joint.MinLength)
	fmt.Fprintf(w, "  jd.maxLength = %.15f\n", joint.MaxLength)
	fmt.Fprintf(w, "  jd.enableSpring = %v\n", joint.EnableSpring)
	fmt.Fprintf(w, "  jd.hertz = %.15f\n", joint.Hertz)
	fmt.Fprintf(w, "  jd.dampingRatio = %.15f\n", joint.DampingRatio)
	fmt.Fprintf(w, "  jd.enableLimit = %v\n", joint.EnableLimit)
	fmt.Fprintf(w, "  jd.enableMotor = %v\n", joint.EnableMotor)
	fmt.Fprintf(w, "  jd.maxMotorForce = %.15f\n", joint.MaxMotorForce)
	fmt.Fprintf(w, "  jd.motorSpeed = %.15f\n", joint.MotorSpeed)
}
