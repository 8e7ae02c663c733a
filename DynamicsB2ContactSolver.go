package box2d

import (
	"math"
)

type b2ContactConstraintPoint struct {
	// Anchors relative to the centers of mass, fixed during the step
	AnchorA B2Vec2
	AnchorB B2Vec2

	// Separation with the anchor offset removed so the current separation can
	// be recovered from the body deltas
	BaseSeparation float64

	// Normal velocity before the solve, used for restitution
	RelativeVelocity float64

	NormalImpulse    float64
	TangentImpulse   float64
	MaxNormalImpulse float64

	NormalMass  float64
	TangentMass float64
}

type b2ContactConstraint struct {
	ContactId int32

	// Awake indices of the bodies or B2_nullIndex
	IndexA int32
	IndexB int32

	Points [B2_maxManifoldPoints]b2ContactConstraintPoint
	Normal B2Vec2

	InvMassA, InvMassB float64
	InvIA, InvIB       float64

	Friction    float64
	Restitution float64

	Softness B2Softness

	PointCount int
}

// The contact solver works on one color of the constraint graph at a time. The
// constraints of a color share no dynamic body so a color can be split across workers.
// The overflow constraints are solved on a single worker.

func b2PrepareContacts(context *b2StepContext, colorIndex int, startIndex int, endIndex int) {
	world := context.world
	constraints := context.contactConstraints[colorIndex]
	contactIds := world.constraintGraph.Colors[colorIndex].ContactIds

	contactSoftness := context.contactSoftness
	staticSoftness := context.staticSoftness

	// Stored impulses are scaled by the change in time step
	warmStartScale := 0.0
	if context.enableWarmStarting {
		warmStartScale = context.dtRatio
	}

	for i := startIndex; i < endIndex; i++ {
		contact := world.contacts.Get(contactIds[i])
		constraint := &constraints[i]

		manifold := &contact.Manifold
		pointCount := manifold.PointCount
		B2Assert(0 < pointCount && pointCount <= B2_maxManifoldPoints)

		bodyA := world.bodies.Get(contact.Edges[0].BodyId)
		bodyB := world.bodies.Get(contact.Edges[1].BodyId)

		mA := bodyA.InvMass
		iA := bodyA.InvInertia
		mB := bodyB.InvMass
		iB := bodyB.InvInertia

		constraint.ContactId = contact.ContactId
		constraint.IndexA = bodyA.AwakeIndex
		constraint.IndexB = bodyB.AwakeIndex
		constraint.Normal = manifold.Normal
		constraint.Friction = contact.Friction
		constraint.Restitution = contact.Restitution
		constraint.PointCount = pointCount
		constraint.InvMassA = mA
		constraint.InvIA = iA
		constraint.InvMassB = mB
		constraint.InvIB = iB

		// Stiffer for static contacts to avoid bodies getting pushed through the ground
		if mA == 0.0 || mB == 0.0 {
			constraint.Softness = staticSoftness
		} else {
			constraint.Softness = contactSoftness
		}

		vA := bodyA.LinearVelocity
		wA := bodyA.AngularVelocity
		vB := bodyB.LinearVelocity
		wB := bodyB.AngularVelocity

		normal := constraint.Normal
		tangent := B2RightPerp(normal)

		for j := 0; j < pointCount; j++ {
			mp := &manifold.Points[j]
			cp := &constraint.Points[j]

			cp.NormalImpulse = warmStartScale * mp.NormalImpulse
			cp.TangentImpulse = warmStartScale * mp.TangentImpulse
			cp.MaxNormalImpulse = 0.0

			// Save relative orientation for the solver
			rA := mp.AnchorA
			rB := mp.AnchorB
			cp.AnchorA = rA
			cp.AnchorB = rB

			cp.BaseSeparation = mp.Separation - B2Vec2Dot(B2Vec2Sub(rB, rA), normal)

			rnA := B2Vec2Cross(rA, normal)
			rnB := B2Vec2Cross(rB, normal)
			kNormal := mA + mB + iA*rnA*rnA + iB*rnB*rnB
			cp.NormalMass = b2InverseMass(kNormal)

			rtA := B2Vec2Cross(rA, tangent)
			rtB := B2Vec2Cross(rB, tangent)
			kTangent := mA + mB + iA*rtA*rtA + iB*rtB*rtB
			cp.TangentMass = b2InverseMass(kTangent)

			// Save relative velocity for restitution
			vrA := B2Vec2Add(vA, B2Vec2CrossScalarVector(wA, rA))
			vrB := B2Vec2Add(vB, B2Vec2CrossScalarVector(wB, rB))
			cp.RelativeVelocity = B2Vec2Dot(normal, B2Vec2Sub(vrB, vrA))
		}
	}
}

func b2WarmStartContacts(context *b2StepContext, colorIndex int, startIndex int, endIndex int) {
	constraints := context.contactConstraints[colorIndex]

	var dummyA, dummyB b2BodyState

	for i := startIndex; i < endIndex; i++ {
		constraint := &constraints[i]

		mA, iA := constraint.InvMassA, constraint.InvIA
		mB, iB := constraint.InvMassB, constraint.InvIB

		stateA := context.getState(constraint.IndexA, &dummyA)
		stateB := context.getState(constraint.IndexB, &dummyB)

		vA := stateA.LinearVelocity
		wA := stateA.AngularVelocity
		vB := stateB.LinearVelocity
		wB := stateB.AngularVelocity

		normal := constraint.Normal
		tangent := B2RightPerp(normal)

		for j := 0; j < constraint.PointCount; j++ {
			cp := &constraint.Points[j]

			// fixed anchors
			rA := cp.AnchorA
			rB := cp.AnchorB

			P := B2Vec2Add(B2Vec2MulScalar(cp.NormalImpulse, normal), B2Vec2MulScalar(cp.TangentImpulse, tangent))
			wA -= iA * B2Vec2Cross(rA, P)
			vA = B2Vec2MulAdd(vA, -mA, P)
			wB += iB * B2Vec2Cross(rB, P)
			vB = B2Vec2MulAdd(vB, mB, P)
		}

		stateA.LinearVelocity = vA
		stateA.AngularVelocity = wA
		stateB.LinearVelocity = vB
		stateB.AngularVelocity = wB
	}
}

func b2SolveContacts(context *b2StepContext, colorIndex int, startIndex int, endIndex int, useBias bool) {
	constraints := context.contactConstraints[colorIndex]

	inv_h := context.inv_h
	pushout := context.contactPushoutVelocity

	var dummyA, dummyB b2BodyState

	for i := startIndex; i < endIndex; i++ {
		constraint := &constraints[i]

		mA, iA := constraint.InvMassA, constraint.InvIA
		mB, iB := constraint.InvMassB, constraint.InvIB

		stateA := context.getState(constraint.IndexA, &dummyA)
		stateB := context.getState(constraint.IndexB, &dummyB)

		vA := stateA.LinearVelocity
		wA := stateA.AngularVelocity
		dqA := stateA.DeltaRotation

		vB := stateB.LinearVelocity
		wB := stateB.AngularVelocity
		dqB := stateB.DeltaRotation

		dp := B2Vec2Sub(stateB.DeltaPosition, stateA.DeltaPosition)

		normal := constraint.Normal
		tangent := B2RightPerp(normal)
		friction := constraint.Friction
		softness := constraint.Softness

		pointCount := constraint.PointCount

		for j := 0; j < pointCount; j++ {
			cp := &constraint.Points[j]

			// compute current separation
			// this is subject to round-off error if the anchor is far from the body center of mass
			prA := B2RotVec2Mul(dqA, cp.AnchorA)
			prB := B2RotVec2Mul(dqB, cp.AnchorB)
			d := B2Vec2Add(dp, B2Vec2Sub(prB, prA))
			s := B2Vec2Dot(d, normal) + cp.BaseSeparation

			velocityBias := 0.0
			massScale := 1.0
			impulseScale := 0.0
			if s > 0.0 {
				// speculative
				velocityBias = s * inv_h
			} else if useBias {
				velocityBias = math.Max(softness.BiasRate*s, -pushout)
				massScale = softness.MassScale
				impulseScale = softness.ImpulseScale
			}

			// fixed anchor points (relative to body center of mass)
			rA := cp.AnchorA
			rB := cp.AnchorB

			// relative normal velocity at contact
			vrA := B2Vec2Add(vA, B2Vec2CrossScalarVector(wA, rA))
			vrB := B2Vec2Add(vB, B2Vec2CrossScalarVector(wB, rB))
			vn := B2Vec2Dot(B2Vec2Sub(vrB, vrA), normal)

			// incremental normal impulse
			impulse := -cp.NormalMass*massScale*(vn+velocityBias) - impulseScale*cp.NormalImpulse

			// clamp the accumulated impulse
			newImpulse := math.Max(cp.NormalImpulse+impulse, 0.0)
			impulse = newImpulse - cp.NormalImpulse
			cp.NormalImpulse = newImpulse
			cp.MaxNormalImpulse = math.Max(cp.MaxNormalImpulse, impulse)

			// apply normal impulse
			P := B2Vec2MulScalar(impulse, normal)
			vA = B2Vec2MulSub(vA, mA, P)
			wA -= iA * B2Vec2Cross(rA, P)

			vB = B2Vec2MulAdd(vB, mB, P)
			wB += iB * B2Vec2Cross(rB, P)
		}

		for j := 0; j < pointCount; j++ {
			cp := &constraint.Points[j]

			rA := cp.AnchorA
			rB := cp.AnchorB

			// relative tangent velocity at contact
			vrB := B2Vec2Add(vB, B2Vec2CrossScalarVector(wB, rB))
			vrA := B2Vec2Add(vA, B2Vec2CrossScalarVector(wA, rA))
			vt := B2Vec2Dot(B2Vec2Sub(vrB, vrA), tangent)

			// incremental tangent impulse
			impulse := -cp.TangentMass * vt

			// clamp the accumulated force
			maxFriction := friction * cp.NormalImpulse
			newImpulse := B2Clamp(cp.TangentImpulse+impulse, -maxFriction, maxFriction)
			impulse = newImpulse - cp.TangentImpulse
			cp.TangentImpulse = newImpulse

			// apply tangent impulse
			P := B2Vec2MulScalar(impulse, tangent)

			vA = B2Vec2MulSub(vA, mA, P)
			wA -= iA * B2Vec2Cross(rA, P)

			vB = B2Vec2MulAdd(vB, mB, P)
			wB += iB * B2Vec2Cross(rB, P)
		}

		stateA.LinearVelocity = vA
		stateA.AngularVelocity = wA
		stateB.LinearVelocity = vB
		stateB.AngularVelocity = wB
	}
}

func b2ApplyRestitution(context *b2StepContext, colorIndex int, startIndex int, endIndex int) {
	constraints := context.contactConstraints[colorIndex]
	threshold := context.restitutionThreshold

	var dummyA, dummyB b2BodyState

	for i := startIndex; i < endIndex; i++ {
		constraint := &constraints[i]

		restitution := constraint.Restitution
		if restitution == 0.0 {
			continue
		}

		mA, iA := constraint.InvMassA, constraint.InvIA
		mB, iB := constraint.InvMassB, constraint.InvIB

		stateA := context.getState(constraint.IndexA, &dummyA)
		stateB := context.getState(constraint.IndexB, &dummyB)

		vA := stateA.LinearVelocity
		wA := stateA.AngularVelocity
		vB := stateB.LinearVelocity
		wB := stateB.AngularVelocity

		normal := constraint.Normal

		for j := 0; j < constraint.PointCount; j++ {
			cp := &constraint.Points[j]

			// if the normal impulse is zero then there was no collision
			// this skips speculative contact points that didn't generate an impulse
			// The max normal impulse is used in case there was a collision that moved away within the sub-step process
			if cp.RelativeVelocity > -threshold || cp.MaxNormalImpulse == 0.0 {
				continue
			}

			rA := cp.AnchorA
			rB := cp.AnchorB

			// relative normal velocity at contact
			vrB := B2Vec2Add(vB, B2Vec2CrossScalarVector(wB, rB))
			vrA := B2Vec2Add(vA, B2Vec2CrossScalarVector(wA, rA))
			vn := B2Vec2Dot(B2Vec2Sub(vrB, vrA), normal)

			// compute normal impulse
			impulse := -cp.NormalMass * (vn + restitution*cp.RelativeVelocity)

			// clamp the accumulated impulse
			newImpulse := math.Max(cp.NormalImpulse+impulse, 0.0)
			impulse = newImpulse - cp.NormalImpulse
			cp.NormalImpulse = newImpulse
			cp.MaxNormalImpulse = math.Max(cp.MaxNormalImpulse, impulse)

			// apply contact impulse
			P := B2Vec2MulScalar(impulse, normal)
			vA = B2Vec2MulSub(vA, mA, P)
			wA -= iA * B2Vec2Cross(rA, P)

			vB = B2Vec2MulAdd(vB, mB, P)
			wB += iB * B2Vec2Cross(rB, P)
		}

		stateA.LinearVelocity = vA
		stateA.AngularVelocity = wA
		stateB.LinearVelocity = vB
		stateB.AngularVelocity = wB
	}
}

// Copy the accumulated impulses back to the manifolds for warm starting and events.
func b2StoreImpulses(context *b2StepContext, colorIndex int, startIndex int, endIndex int) {
	world := context.world
	constraints := context.contactConstraints[colorIndex]

	for i := startIndex; i < endIndex; i++ {
		constraint := &constraints[i]
		contact := world.contacts.Get(constraint.ContactId)
		manifold := &contact.Manifold

		for j := 0; j < constraint.PointCount; j++ {
			manifold.Points[j].NormalImpulse = constraint.Points[j].NormalImpulse
			manifold.Points[j].TangentImpulse = constraint.Points[j].TangentImpulse
			manifold.Points[j].MaxNormalImpulse = constraint.Points[j].MaxNormalImpulse
			manifold.Points[j].NormalVelocity = constraint.Points[j].RelativeVelocity
		}
	}
}
