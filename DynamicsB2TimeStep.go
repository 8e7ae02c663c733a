package box2d

import (
	"sync"
)

/// Profiling data. Times are in milliseconds.
type B2Profile struct {
	Step             float64
	Pairs            float64
	Collide          float64
	Solve            float64
	PrepareStages    float64
	SolveConstraints float64
	Continuous       float64
	Finalize         float64
	SleepIslands     float64
	SplitIslands     float64
	Broadphase       float64
}

func MakeB2Profile() B2Profile {
	return B2Profile{}
}

/// Counters that give details of the simulation size.
type B2Counters struct {
	BodyCount        int
	ShapeCount       int
	ContactCount     int
	JointCount       int
	IslandCount      int
	AwakeBodyCount   int
	StaticTreeHeight int
	TreeHeight       int
	ColorCounts      [B2_graphColorCount + 1]int
}

// Soft constraint coefficients. See B2MakeSoft.
type B2Softness struct {
	BiasRate     float64
	MassScale    float64
	ImpulseScale float64
}

/// Critically damped spring discretization used by every soft constraint.
/// The coefficients are independent of the frame rate.
///	@param hertz the stiffness in cycles per second
///	@param zeta the damping ratio, 1 is critical damping
///	@param h the sub-step
func B2MakeSoft(hertz float64, zeta float64, h float64) B2Softness {
	if hertz == 0.0 {
		return B2Softness{BiasRate: 0.0, MassScale: 1.0, ImpulseScale: 0.0}
	}

	omega := 2.0 * B2_pi * hertz
	a1 := 2.0*zeta + h*omega
	a2 := h * omega * a1
	a3 := 1.0 / (1.0 + a2)
	return B2Softness{BiasRate: omega / a1, MassScale: a2 * a3, ImpulseScale: a3}
}

// Body velocity and the position delta accumulated during the sub-steps.
// Indexed by awake index.
type b2BodyState struct {
	LinearVelocity  B2Vec2
	AngularVelocity float64

	// Using delta position reduces round-off error far from the origin
	DeltaPosition B2Vec2

	// Using delta rotation because I cannot access the full rotation on static bodies in
	// the solver and must use zero delta rotation for static bodies (c,s) = (1,0)
	DeltaRotation B2Rot
}

// Identity body state, notice the deltaRotation is {1, 0}
var b2_identityBodyState = b2BodyState{DeltaRotation: B2Rot_identity}

/// Context for a time step. Recreated each time step.
type b2StepContext struct {
	// time step
	dt float64

	// inverse time step (0 if dt == 0).
	inv_dt float64

	// sub-step
	h     float64
	inv_h float64

	subStepCount    int
	relaxIterations int

	// ratio between the current and the previous time step, used to scale warm starting
	dtRatio float64

	// Contact stiffness clamped to a quarter of the sub-step rate
	contactHertz      float64
	jointDampingRatio float64

	jointSoftness   B2Softness
	contactSoftness B2Softness
	staticSoftness  B2Softness

	restitutionThreshold   float64
	maxLinearVelocity      float64
	contactPushoutVelocity float64

	enableWarmStarting bool

	world  *b2World
	states []b2BodyState

	// solver scratch per graph color, the last one is the overflow
	contactConstraints [B2_graphColorCount + 1][]b2ContactConstraint
	jointIds           [B2_graphColorCount + 1][]int32

	// Awake bodies that moved too far for the regular finalize and need a
	// bullet sweep against the non-bullet bodies
	bulletBodies []int32
	bulletMutex  sync.Mutex
}

// Returns the state of a body in the solver, or a private copy of the identity
// state for bodies that are not awake. Writes to the copy are discarded.
func (context *b2StepContext) getState(awakeIndex int32, dummy *b2BodyState) *b2BodyState {
	if awakeIndex == B2_nullIndex {
		*dummy = b2_identityBodyState
		return dummy
	}
	return &context.states[awakeIndex]
}
