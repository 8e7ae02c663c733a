package box2d

import (
	"fmt"
	"io"
	"math"
)

/// Mouse joint definition. This requires a world target point,
/// tuning parameters, and the time step. Body A is usually a static
/// ground body and body B is the body being dragged.
type B2MouseJointDef struct {
	B2JointDef

	/// The initial target point in world space
	Target B2Vec2

	/// Stiffness in hertz
	Hertz float64

	/// Damping ratio, non-dimensional
	DampingRatio float64

	/// Maximum force, typically in newtons
	MaxForce float64
}

func B2DefaultMouseJointDef() B2MouseJointDef {
	return B2MouseJointDef{
		Hertz:        4.0,
		DampingRatio: 1.0,
		MaxForce:     1.0,
	}
}

func MakeB2MouseJointDef() B2MouseJointDef {
	return B2DefaultMouseJointDef()
}

/// A mouse joint is used to make a point on a body track a
/// specified world point. This a soft constraint with a maximum
/// force. This allows the constraint to stretch without
/// applying huge forces.
type b2MouseJoint struct {
	TargetA B2Vec2

	Hertz        float64
	DampingRatio float64
	MaxForce     float64

	LinearImpulse  B2Vec2
	AngularImpulse float64

	// Solver temp
	LinearSoftness  B2Softness
	AngularSoftness B2Softness
	LinearMass      B2Mat22
	AngularMass     float64
}

/// Create a mouse joint
func B2CreateMouseJoint(worldId B2WorldId, def *B2MouseJointDef) (B2JointId, error) {
	world, bodyA, bodyB, err := b2ValidateJointDef(worldId, &def.B2JointDef)
	if err != nil {
		return B2_nullJointId, err
	}

	if def.Target.IsValid() == false || def.Hertz < 0.0 || def.DampingRatio < 0.0 || def.MaxForce < 0.0 {
		return B2_nullJointId, fmt.Errorf("mouse joint def: %w", ErrInvalidDef)
	}

	return b2CreateJointInternal(world, bodyA, bodyB, &def.B2JointDef, B2JointType.E_mouseJoint, func(joint *b2Joint) {
		joint.LocalOriginAnchorA = B2TransformVec2MulT(bodyA.Transform, def.Target)
		joint.LocalOriginAnchorB = B2TransformVec2MulT(bodyB.Transform, def.Target)

		joint.Mouse = b2MouseJoint{
			TargetA:      def.Target,
			Hertz:        def.Hertz,
			DampingRatio: def.DampingRatio,
			MaxForce:     def.MaxForce,
		}
	}), nil
}

/// Set the mouse joint target. Wakes the dragged body.
func B2MouseJoint_SetTarget(jointId B2JointId, target B2Vec2) error {
	if target.IsValid() == false {
		return fmt.Errorf("mouse joint target: %w", ErrInvalidDef)
	}

	world, base, err := b2GetMutableJoint(jointId, B2JointType.E_mouseJoint)
	if err != nil {
		return err
	}

	base.Mouse.TargetA = target
	b2WakeBody(world, world.bodies.Get(base.Edges[1].BodyId))
	return nil
}

/// Get the mouse joint target
func B2MouseJoint_GetTarget(jointId B2JointId) B2Vec2 {
	_, base := b2GetJointOfType(jointId, B2JointType.E_mouseJoint)
	return base.Mouse.TargetA
}

/// Set the mouse joint spring stiffness in Hertz
func B2MouseJoint_SetSpringHertz(jointId B2JointId, hertz float64) error {
	if B2IsValid(hertz) == false || hertz < 0.0 {
		return fmt.Errorf("mouse joint hertz %v: %w", hertz, ErrInvalidDef)
	}

	world, base, err := b2GetMutableJoint(jointId, B2JointType.E_mouseJoint)
	if err != nil {
		return err
	}
	base.Mouse.Hertz = hertz

	b2WakeJoint(world, base)
	return nil
}

/// Get the mouse joint spring stiffness in Hertz
func B2MouseJoint_GetSpringHertz(jointId B2JointId) float64 {
	_, base := b2GetJointOfType(jointId, B2JointType.E_mouseJoint)
	return base.Mouse.Hertz
}

/// Set the mouse joint spring damping ratio, non-dimensional
func B2MouseJoint_SetSpringDampingRatio(jointId B2JointId, dampingRatio float64) error {
	if B2IsValid(dampingRatio) == false || dampingRatio < 0.0 {
		return fmt.Errorf("mouse joint damping ratio %v: %w", dampingRatio, ErrInvalidDef)
	}

	world, base, err := b2GetMutableJoint(jointId, B2JointType.E_mouseJoint)
	if err != nil {
		return err
	}
	base.Mouse.DampingRatio = dampingRatio

	b2WakeJoint(world, base)
	return nil
}

/// Get the mouse joint damping ratio, non-dimensional
func B2MouseJoint_GetSpringDampingRatio(jointId B2JointId) float64 {
	_, base := b2GetJointOfType(jointId, B2JointType.E_mouseJoint)
	return base.Mouse.DampingRatio
}

/// Set the mouse joint maximum force, typically in newtons
func B2MouseJoint_SetMaxForce(jointId B2JointId, maxForce float64) error {
	world, base, err := b2GetMutableJoint(jointId, B2JointType.E_mouseJoint)
	if err != nil {
		return err
	}
	base.Mouse.MaxForce = math.Max(0.0, maxForce)

	b2WakeJoint(world, base)
	return nil
}

/// Get the mouse joint maximum force, typically in newtons
func B2MouseJoint_GetMaxForce(jointId B2JointId) float64 {
	_, base := b2GetJointOfType(jointId, B2JointType.E_mouseJoint)
	return base.Mouse.MaxForce
}

func b2GetMouseJointForce(world *b2World, base *b2Joint) B2Vec2 {
	return B2Vec2MulScalar(world.inv_h, base.Mouse.LinearImpulse)
}

// p = attached point, m = mouse point
// C = p - m
// Cdot = v
//      = v + cross(w, r)
// J = [I r_skew]
// Identity used:
// w k % (rx i + ry j) = w * (-ry i + rx j)

func b2PrepareMouseJoint(base *b2Joint, context *b2StepContext, bodyB *b2Body) {
	joint := &base.Mouse

	// The target replaces body A
	base.DeltaCenter = B2Vec2Sub(bodyB.Center, joint.TargetA)

	rB := base.AnchorB
	mB := base.InvMassB
	iB := base.InvIB

	joint.LinearSoftness = B2MakeSoft(joint.Hertz, joint.DampingRatio, context.h)

	angularHertz := 0.5
	angularDampingRatio := 0.1
	joint.AngularSoftness = B2MakeSoft(angularHertz, angularDampingRatio, context.h)

	// K    = [(1/m1 + 1/m2) * eye(2) - skew(r1) * invI1 * skew(r1) - skew(r2) * invI2 * skew(r2)]
	//      = [1/m1+1/m2     0    ] + invI1 * [r1.y*r1.y -r1.x*r1.y] + invI2 * [r1.y*r1.y -r1.x*r1.y]
	//        [    0     1/m1+1/m2]           [-r1.x*r1.y r1.x*r1.x]           [-r1.x*r1.y r1.x*r1.x]
	K := MakeB2Mat22FromScalars(
		mB+iB*rB.Y*rB.Y, -iB*rB.X*rB.Y,
		-iB*rB.X*rB.Y, mB+iB*rB.X*rB.X,
	)
	joint.LinearMass = K.GetInverse()
	joint.AngularMass = b2InverseMass(iB)

	if context.enableWarmStarting == false {
		joint.LinearImpulse = B2Vec2_zero
		joint.AngularImpulse = 0.0
	}
}

func b2WarmStartMouseJoint(base *b2Joint, stateB *b2BodyState) {
	joint := &base.Mouse

	mB := base.InvMassB
	iB := base.InvIB

	rB := B2RotVec2Mul(stateB.DeltaRotation, base.AnchorB)

	stateB.LinearVelocity = B2Vec2MulAdd(stateB.LinearVelocity, mB, joint.LinearImpulse)
	stateB.AngularVelocity += iB * (B2Vec2Cross(rB, joint.LinearImpulse) + joint.AngularImpulse)
}

func b2SolveMouseJoint(base *b2Joint, context *b2StepContext, stateB *b2BodyState) {
	joint := &base.Mouse

	mB := base.InvMassB
	iB := base.InvIB

	vB := stateB.LinearVelocity
	wB := stateB.AngularVelocity

	// Softness with no bias to reduce rotation speed
	{
		massScale := joint.AngularSoftness.MassScale
		impulseScale := joint.AngularSoftness.ImpulseScale

		impulse := -joint.AngularMass*massScale*wB - impulseScale*joint.AngularImpulse
		joint.AngularImpulse += impulse
		wB += iB * impulse
	}

	maxImpulse := joint.MaxForce * context.h

	{
		rB := B2RotVec2Mul(stateB.DeltaRotation, base.AnchorB)
		Cdot := B2Vec2Add(vB, B2Vec2CrossScalarVector(wB, rB))

		separation := B2Vec2Add(B2Vec2Add(stateB.DeltaPosition, rB), base.DeltaCenter)
		bias := B2Vec2MulScalar(joint.LinearSoftness.BiasRate, separation)

		massScale := joint.LinearSoftness.MassScale
		impulseScale := joint.LinearSoftness.ImpulseScale

		b := B2Vec2Mat22Mul(joint.LinearMass, B2Vec2Add(Cdot, bias))

		impulse := MakeB2Vec2(
			-massScale*b.X-impulseScale*joint.LinearImpulse.X,
			-massScale*b.Y-impulseScale*joint.LinearImpulse.Y,
		)

		oldImpulse := joint.LinearImpulse
		joint.LinearImpulse = B2Vec2Add(joint.LinearImpulse, impulse)
		if joint.LinearImpulse.Length() > maxImpulse {
			joint.LinearImpulse = B2Vec2MulScalar(maxImpulse, B2Vec2Normalize(joint.LinearImpulse))
		}
		impulse = B2Vec2Sub(joint.LinearImpulse, oldImpulse)

		vB = B2Vec2MulAdd(vB, mB, impulse)
		wB += iB * B2Vec2Cross(rB, impulse)
	}

	stateB.LinearVelocity = vB
	stateB.AngularVelocity = wB
}

func b2DumpMouseJoint(w io.Writer, base *b2Joint) {
	joint := &base.Mouse
	fmt.Fprintf(w, "  jd.target = (%.15f, %.15f)\n", joint.TargetA.X, joint.TargetA.Y)
	fmt.Fprintf(w, "  jd.hertz = %.15f\n", joint.Hertz)
	fmt.Fprintf(w, "  jd.dampingRatio = %.15f\n", joint.DampingRatio)
	fmt.Fprintf(w, "  jd.maxForce = %.15f\n", joint.MaxForce)
}
