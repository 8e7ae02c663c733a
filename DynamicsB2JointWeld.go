package box2d

import (
	"fmt"
	"io"
)

/// Weld joint definition. You need to specify local anchor points
/// where they are attached and the relative body angle. The position
/// of the anchor points is important for computing the reaction torque.
type B2WeldJointDef struct {
	B2JointDef

	/// The local anchor point relative to bodyA's origin.
	LocalAnchorA B2Vec2

	/// The local anchor point relative to bodyB's origin.
	LocalAnchorB B2Vec2

	/// The bodyB angle minus bodyA angle in the reference state (radians).
	ReferenceAngle float64

	/// Linear stiffness expressed as Hertz (cycles per second). Use zero for maximum stiffness.
	LinearHertz float64

	/// Angular stiffness as Hertz (cycles per second). Use zero for maximum stiffness.
	AngularHertz float64

	/// Linear damping ratio, non-dimensional. Use 1 for critical damping.
	LinearDampingRatio float64

	/// Angular damping ratio, non-dimensional. Use 1 for critical damping.
	AngularDampingRatio float64
}

func B2DefaultWeldJointDef() B2WeldJointDef {
	return B2WeldJointDef{
		LinearDampingRatio:  1.0,
		AngularDampingRatio: 1.0,
	}
}

func MakeB2WeldJointDef() B2WeldJointDef {
	return B2DefaultWeldJointDef()
}

/// Initialize the bodies, anchors, reference angle, stiffness, and damping ratio
/// using a world anchor point.
func (def *B2WeldJointDef) Initialize(bodyIdA B2BodyId, bodyIdB B2BodyId, anchor B2Vec2) {
	def.BodyIdA = bodyIdA
	def.BodyIdB = bodyIdB
	def.LocalAnchorA = B2Body_GetLocalPoint(bodyIdA, anchor)
	def.LocalAnchorB = B2Body_GetLocalPoint(bodyIdB, anchor)
	def.ReferenceAngle = B2RelativeAngle(B2Body_GetRotation(bodyIdB), B2Body_GetRotation(bodyIdA))
}

/// A weld joint essentially glues two bodies together. A weld joint may
/// distort somewhat because the island constraint solver is approximate.
type b2WeldJoint struct {
	ReferenceAngle      float64
	LinearHertz         float64
	LinearDampingRatio  float64
	AngularHertz        float64
	AngularDampingRatio float64

	LinearImpulse  B2Vec2
	AngularImpulse float64

	// Solver temp
	LinearSoftness  B2Softness
	AngularSoftness B2Softness
	DeltaAngle      float64
	AxialMass       float64
}

/// Create a weld joint
func B2CreateWeldJoint(worldId B2WorldId, def *B2WeldJointDef) (B2JointId, error) {
	world, bodyA, bodyB, err := b2ValidateJointDef(worldId, &def.B2JointDef)
	if err != nil {
		return B2_nullJointId, err
	}

	if def.LinearHertz < 0.0 || def.AngularHertz < 0.0 || def.LinearDampingRatio < 0.0 || def.AngularDampingRatio < 0.0 {
		return B2_nullJointId, fmt.Errorf("weld joint def: %w", ErrInvalidDef)
	}

	return b2CreateJointInternal(world, bodyA, bodyB, &def.B2JointDef, B2JointType.E_weldJoint, func(joint *b2Joint) {
		joint.LocalOriginAnchorA = def.LocalAnchorA
		joint.LocalOriginAnchorB = def.LocalAnchorB

		joint.Weld = b2WeldJoint{
			ReferenceAngle:      def.ReferenceAngle,
			LinearHertz:         def.LinearHertz,
			LinearDampingRatio:  def.LinearDampingRatio,
			AngularHertz:        def.AngularHertz,
			AngularDampingRatio: def.AngularDampingRatio,
		}
	}), nil
}

/// Set the weld joint linear stiffness in Hertz. 0 is rigid.
func B2WeldJoint_SetLinearHertz(jointId B2JointId, hertz float64) error {
	if B2IsValid(hertz) == false || hertz < 0.0 {
		return fmt.Errorf("weld joint linear hertz %v: %w", hertz, ErrInvalidDef)
	}

	world, base, err := b2GetMutableJoint(jointId, B2JointType.E_weldJoint)
	if err != nil {
		return err
	}
	base.Weld.LinearHertz = hertz

	b2WakeJoint(world, base)
	return nil
}

/// Get the weld joint linear stiffness in Hertz
func B2WeldJoint_GetLinearHertz(jointId B2JointId) float64 {
	_, base := b2GetJointOfType(jointId, B2JointType.E_weldJoint)
	return base.Weld.LinearHertz
}

/// Set the weld joint linear damping ratio (non-dimensional)
func B2WeldJoint_SetLinearDampingRatio(jointId B2JointId, dampingRatio float64) error {
	if B2IsValid(dampingRatio) == false || dampingRatio < 0.0 {
		return fmt.Errorf("weld joint linear damping ratio %v: %w", dampingRatio, ErrInvalidDef)
	}

	world, base, err := b2GetMutableJoint(jointId, B2JointType.E_weldJoint)
	if err != nil {
		return err
	}
	base.Weld.LinearDampingRatio = dampingRatio

	b2WakeJoint(world, base)
	return nil
}

/// Get the weld joint linear damping ratio (non-dimensional)
func B2WeldJoint_GetLinearDampingRatio(jointId B2JointId) float64 {
	_, base := b2GetJointOfType(jointId, B2JointType.E_weldJoint)
	return base.Weld.LinearDampingRatio
}

/// Set the weld joint angular stiffness in Hertz. 0 is rigid.
func B2WeldJoint_SetAngularHertz(jointId B2JointId, hertz float64) error {
	if B2IsValid(hertz) == false || hertz < 0.0 {
		return fmt.Errorf("weld joint angular hertz %v: %w", hertz, ErrInvalidDef)
	}

	world, base, err := b2GetMutableJoint(jointId, B2JointType.E_weldJoint)
	if err != nil {
		return err
	}
	base.Weld.AngularHertz = hertz

	b2WakeJoint(world, base)
	return nil
}

/// Get the weld joint angular stiffness in Hertz
func B2WeldJoint_GetAngularHertz(jointId B2JointId) float64 {
	_, base := b2GetJointOfType(jointId, B2JointType.E_weldJoint)
	return base.Weld.AngularHertz
}

/// Set weld joint angular damping ratio, non-dimensional
func B2WeldJoint_SetAngularDampingRatio(jointId B2JointId, dampingRatio float64) error {
	if B2IsValid(dampingRatio) == false || dampingRatio < 0.0 {
		return fmt.Errorf("weld joint angular damping ratio %v: %w", dampingRatio, ErrInvalidDef)
	}

	world, base, err := b2GetMutableJoint(jointId, B2JointType.E_weldJoint)
	if err != nil {
		return err
	}
	base.Weld.AngularDampingRatio = dampingRatio

	b2WakeJoint(world, base)
	return nil
}

/// Get the weld joint angular damping ratio, non-dimensional
func B2WeldJoint_GetAngularDampingRatio(jointId B2JointId) float64 {
	_, base := b2GetJointOfType(jointId, B2JointType.E_weldJoint)
	return base.Weld.AngularDampingRatio
}

func b2GetWeldJointForce(world *b2World, base *b2Joint) B2Vec2 {
	return B2Vec2MulScalar(world.inv_h, base.Weld.LinearImpulse)
}

// Point-to-point constraint
// C = p2 - p1
// Cdot = v2 - v1
//      = v2 + cross(w2, r2) - v1 - cross(w1, r1)
// J = [-I -r1_skew I r2_skew ]
// Identity used:
// w k % (rx i + ry j) = w * (-ry i + rx j)

// Angle constraint
// C = angle2 - angle1 - referenceAngle
// Cdot = w2 - w1
// J = [0 0 -1 0 0 1]
// K = invI1 + invI2

func b2PrepareWeldJoint(base *b2Joint, context *b2StepContext, bodyA *b2Body, bodyB *b2Body) {
	joint := &base.Weld

	iA, iB := base.InvIA, base.InvIB

	joint.DeltaAngle = B2RelativeAngle(bodyB.Transform.Q, bodyA.Transform.Q) - joint.ReferenceAngle
	joint.DeltaAngle = B2UnwindAngle(joint.DeltaAngle)

	ka := iA + iB
	joint.AxialMass = b2InverseMass(ka)

	if joint.LinearHertz == 0.0 {
		joint.LinearSoftness = context.jointSoftness
	} else {
		joint.LinearSoftness = B2MakeSoft(joint.LinearHertz, joint.LinearDampingRatio, context.h)
	}

	if joint.AngularHertz == 0.0 {
		joint.AngularSoftness = context.jointSoftness
	} else {
		joint.AngularSoftness = B2MakeSoft(joint.AngularHertz, joint.AngularDampingRatio, context.h)
	}

	if context.enableWarmStarting == false {
		joint.LinearImpulse = B2Vec2_zero
		joint.AngularImpulse = 0.0
	}
}

// Shared by the weld and motor joints which both carry a linear and an angular impulse.
func b2WarmStartLinearAngular(base *b2Joint, stateA *b2BodyState, stateB *b2BodyState, linearImpulse B2Vec2, angularImpulse float64) {
	mA, mB := base.InvMassA, base.InvMassB
	iA, iB := base.InvIA, base.InvIB

	rA := B2RotVec2Mul(stateA.DeltaRotation, base.AnchorA)
	rB := B2RotVec2Mul(stateB.DeltaRotation, base.AnchorB)

	stateA.LinearVelocity = B2Vec2MulSub(stateA.LinearVelocity, mA, linearImpulse)
	stateA.AngularVelocity -= iA * (B2Vec2Cross(rA, linearImpulse) + angularImpulse)

	stateB.LinearVelocity = B2Vec2MulAdd(stateB.LinearVelocity, mB, linearImpulse)
	stateB.AngularVelocity += iB * (B2Vec2Cross(rB, linearImpulse) + angularImpulse)
}

func b2WarmStartWeldJoint(base *b2Joint, stateA *b2BodyState, stateB *b2BodyState) {
	b2WarmStartLinearAngular(base, stateA, stateB, base.Weld.LinearImpulse, base.Weld.AngularImpulse)
}

func b2SolveWeldJoint(base *b2Joint, context *b2StepContext, stateA *b2BodyState, stateB *b2BodyState, useBias bool) {
	joint := &base.Weld

	mA, mB := base.InvMassA, base.InvMassB
	iA, iB := base.InvIA, base.InvIB

	vA := stateA.LinearVelocity
	wA := stateA.AngularVelocity
	vB := stateB.LinearVelocity
	wB := stateB.AngularVelocity

	// angular constraint
	{
		bias := 0.0
		massScale := 1.0
		impulseScale := 0.0
		if useBias || joint.AngularHertz > 0.0 {
			C := B2RelativeAngle(stateB.DeltaRotation, stateA.DeltaRotation) + joint.DeltaAngle
			bias = joint.AngularSoftness.BiasRate * C
			massScale = joint.AngularSoftness.MassScale
			impulseScale = joint.AngularSoftness.ImpulseScale
		}

		Cdot := wB - wA
		impulse := -joint.AxialMass*massScale*(Cdot+bias) - impulseScale*joint.AngularImpulse
		joint.AngularImpulse += impulse

		wA -= iA * impulse
		wB += iB * impulse
	}

	// linear constraint
	{
		rA, rB, separation := b2JointSeparation(base, stateA, stateB)

		bias := B2Vec2_zero
		massScale := 1.0
		impulseScale := 0.0
		if useBias || joint.LinearHertz > 0.0 {
			bias = B2Vec2MulScalar(joint.LinearSoftness.BiasRate, separation)
			massScale = joint.LinearSoftness.MassScale
			impulseScale = joint.LinearSoftness.ImpulseScale
		}

		Cdot := B2Vec2Sub(B2Vec2Add(vB, B2Vec2CrossScalarVector(wB, rB)), B2Vec2Add(vA, B2Vec2CrossScalarVector(wA, rA)))

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

func b2DumpWeldJoint(w io.Writer, base *b2Joint) {
	joint := &base.Weld
	fmt.Fprintf(w, "  jd.localAnchorA = (%.15f, %.15f)\n", base.LocalOriginAnchorA.X, base.LocalOriginAnchorA.Y)
	fmt.Fprintf(w, "  jd.localAnchorB = (%.15f, %.15f)\n", base.LocalOriginAnchorB.X, base.LocalOriginAnchorB.Y)
	fmt.Fprintf(w, "  jd.referenceAngle = %.15f\n", joint.ReferenceAngle)
	fmt.Fprintf(w, "  jd.linearHertz = %.15f\n", joint.LinearHertz)
	fmt.Fprintf(w, "  jd.linearDampingRatio = %.15f\n", joint.LinearDampingRatio)
	fmt.Fprintf(w, "  jd.angularHertz = %.15f\n", joint.AngularHertz)
	fmt.Fprintf(w, "  jd.angularDampingRatio = %.15f\n", joint.AngularDampingRatio)
}
