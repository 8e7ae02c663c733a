package box2d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/exp/constraints"
)

///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
// B2Math.h
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////

/// This function is used to ensure that a floating point number is not a NaN or infinity.
func B2IsValid(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func B2Clamp[T constraints.Ordered](a, low, high T) T {
	if a < low {
		return low
	}
	if a > high {
		return high
	}
	return a
}

func B2Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

func B2Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

func B2Abs[T constraints.Signed | constraints.Float](a T) T {
	if a < 0 {
		return -a
	}
	return a
}

/// A 2D column vector.
type B2Vec2 struct {
	X float64
	Y float64
}

/// Construct using coordinates.
func MakeB2Vec2(xIn, yIn float64) B2Vec2 {
	return B2Vec2{
		X: xIn,
		Y: yIn,
	}
}

/// Set this vector to all zeros.
func (v *B2Vec2) SetZero() {
	v.X = 0.0
	v.Y = 0.0
}

/// Set this vector to some specified coordinates.
func (v *B2Vec2) Set(x, y float64) {
	v.X = x
	v.Y = y
}

/// Add a vector to this vector.
func (v *B2Vec2) OperatorPlusInplace(other B2Vec2) {
	v.X += other.X
	v.Y += other.Y
}

/// Subtract a vector from this vector.
func (v *B2Vec2) OperatorMinusInplace(other B2Vec2) {
	v.X -= other.X
	v.Y -= other.Y
}

/// Get the length of this vector (the norm).
func (v B2Vec2) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

/// Get the length squared.
func (v B2Vec2) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

/// Convert this vector into a unit vector. Returns the length.
func (v *B2Vec2) Normalize() float64 {
	length := v.Length()
	if length < B2_epsilon {
		return 0.0
	}

	invLength := 1.0 / length
	v.X *= invLength
	v.Y *= invLength

	return length
}

/// Does this vector contain finite coordinates?
func (v B2Vec2) IsValid() bool {
	return B2IsValid(v.X) && B2IsValid(v.Y)
}

var B2Vec2_zero = MakeB2Vec2(0, 0)

/// Perform the dot product on two vectors.
func B2Vec2Dot(a, b B2Vec2) float64 {
	return a.X*b.X + a.Y*b.Y
}

/// Perform the cross product on two vectors. In 2D this produces a scalar.
func B2Vec2Cross(a, b B2Vec2) float64 {
	return a.X*b.Y - a.Y*b.X
}

/// Perform the cross product on a vector and a scalar. In 2D this produces
/// a vector.
func B2Vec2CrossVectorScalar(a B2Vec2, s float64) B2Vec2 {
	return MakeB2Vec2(s*a.Y, -s*a.X)
}

/// Perform the cross product on a scalar and a vector. In 2D this produces
/// a vector.
func B2Vec2CrossScalarVector(s float64, a B2Vec2) B2Vec2 {
	return MakeB2Vec2(-s*a.Y, s*a.X)
}

/// Get a left pointing perpendicular vector. Equivalent to b2CrossSV(1.0f, v)
func B2LeftPerp(v B2Vec2) B2Vec2 {
	return MakeB2Vec2(-v.Y, v.X)
}

/// Get a right pointing perpendicular vector. Equivalent to b2CrossVS(v, 1.0f)
func B2RightPerp(v B2Vec2) B2Vec2 {
	return MakeB2Vec2(v.Y, -v.X)
}

func B2Vec2Add(a, b B2Vec2) B2Vec2 {
	return MakeB2Vec2(a.X+b.X, a.Y+b.Y)
}

func B2Vec2Sub(a, b B2Vec2) B2Vec2 {
	return MakeB2Vec2(a.X-b.X, a.Y-b.Y)
}

func B2Vec2Neg(a B2Vec2) B2Vec2 {
	return MakeB2Vec2(-a.X, -a.Y)
}

func B2Vec2MulScalar(s float64, a B2Vec2) B2Vec2 {
	return MakeB2Vec2(s*a.X, s*a.Y)
}

/// a + s * b
func B2Vec2MulAdd(a B2Vec2, s float64, b B2Vec2) B2Vec2 {
	return MakeB2Vec2(a.X+s*b.X, a.Y+s*b.Y)
}

/// a - s * b
func B2Vec2MulSub(a B2Vec2, s float64, b B2Vec2) B2Vec2 {
	return MakeB2Vec2(a.X-s*b.X, a.Y-s*b.Y)
}

/// Vector linear interpolation
/// https://fgiesen.wordpress.com/2012/08/15/linear-interpolation-past-present-and-future/
func B2Vec2Lerp(a, b B2Vec2, t float64) B2Vec2 {
	return MakeB2Vec2((1.0-t)*a.X+t*b.X, (1.0-t)*a.Y+t*b.Y)
}

func B2Vec2Distance(a, b B2Vec2) float64 {
	return B2Vec2Sub(a, b).Length()
}

func B2Vec2DistanceSquared(a, b B2Vec2) float64 {
	c := B2Vec2Sub(a, b)
	return B2Vec2Dot(c, c)
}

func B2Vec2Abs(a B2Vec2) B2Vec2 {
	return MakeB2Vec2(math.Abs(a.X), math.Abs(a.Y))
}

func B2Vec2Min(a, b B2Vec2) B2Vec2 {
	return MakeB2Vec2(math.Min(a.X, b.X), math.Min(a.Y, b.Y))
}

func B2Vec2Max(a, b B2Vec2) B2Vec2 {
	return MakeB2Vec2(math.Max(a.X, b.X), math.Max(a.Y, b.Y))
}

/// Convert a vector into a unit vector if possible, otherwise returns the zero vector.
func B2Vec2Normalize(v B2Vec2) B2Vec2 {
	length := v.Length()
	if length < B2_epsilon {
		return B2Vec2_zero
	}

	invLength := 1.0 / length
	return MakeB2Vec2(invLength*v.X, invLength*v.Y)
}

/// Convert a vector into a unit vector if possible, otherwise returns the zero vector. Also
/// outputs the length.
func B2GetLengthAndNormalize(v B2Vec2) (float64, B2Vec2) {
	length := v.Length()
	if length < B2_epsilon {
		return 0.0, B2Vec2_zero
	}

	invLength := 1.0 / length
	return length, MakeB2Vec2(invLength*v.X, invLength*v.Y)
}

/// Rotation
type B2Rot struct {
	/// cosine and sine
	C, S float64
}

/// Initialize as an identity rotation
func MakeB2Rot() B2Rot {
	return B2Rot{C: 1.0, S: 0.0}
}

/// Initialize from an angle in radians
func MakeB2RotFromAngle(anglerad float64) B2Rot {
	return B2Rot{
		C: math.Cos(anglerad),
		S: math.Sin(anglerad),
	}
}

var B2Rot_identity = MakeB2Rot()

/// Set using an angle in radians.
func (r *B2Rot) Set(anglerad float64) {
	r.S = math.Sin(anglerad)
	r.C = math.Cos(anglerad)
}

/// Set to the identity rotation
func (r *B2Rot) SetIdentity() {
	r.S = 0.0
	r.C = 1.0
}

/// Get the angle in radians
func (r B2Rot) GetAngle() float64 {
	return math.Atan2(r.S, r.C)
}

/// Is this rotation normalized?
func (r B2Rot) IsNormalized() bool {
	// larger tolerance due to failure on mingw 32-bit
	qq := r.S*r.S + r.C*r.C
	return 1.0-0.0006 < qq && qq < 1.0+0.0006
}

func (r B2Rot) IsValid() bool {
	return B2IsValid(r.S) && B2IsValid(r.C) && r.IsNormalized()
}

/// Normalize rotation
func B2NormalizeRot(q B2Rot) B2Rot {
	mag := math.Sqrt(q.S*q.S + q.C*q.C)
	invMag := 0.0
	if mag > 0.0 {
		invMag = 1.0 / mag
	}
	return B2Rot{C: q.C * invMag, S: q.S * invMag}
}

/// Integration rotation from angular velocity
///	@param q1 initial rotation
///	@param deltaAngle the angular displacement in radians
func B2IntegrateRotation(q1 B2Rot, deltaAngle float64) B2Rot {
	// dc/dt = -omega * sin(t)
	// ds/dt = omega * cos(t)
	// c2 = c1 - omega * h * s1
	// s2 = s1 + omega * h * c1
	q2 := B2Rot{C: q1.C - deltaAngle*q1.S, S: q1.S + deltaAngle*q1.C}
	return B2NormalizeRot(q2)
}

/// Normalized linear interpolation
/// https://fgiesen.wordpress.com/2012/08/15/linear-interpolation-past-present-and-future/
func B2NLerp(q1, q2 B2Rot, t float64) B2Rot {
	omt := 1.0 - t
	q := B2Rot{
		C: omt*q1.C + t*q2.C,
		S: omt*q1.S + t*q2.S,
	}
	return B2NormalizeRot(q)
}

/// relative angle between b and a (rot_b * inv(rot_a))
func B2RelativeAngle(b, a B2Rot) float64 {
	// sin(b - a) = bs * ac - bc * as
	// cos(b - a) = bc * ac + bs * as
	s := b.S*a.C - b.C*a.S
	c := b.C*a.C + b.S*a.S
	return math.Atan2(s, c)
}

/// Convert an angle in the range [-2*pi, 2*pi] into the range [-pi, pi]
func B2UnwindAngle(angle float64) float64 {
	if angle < -B2_pi {
		return angle + 2.0*B2_pi
	} else if angle > B2_pi {
		return angle - 2.0*B2_pi
	}
	return angle
}

/// Multiply two rotations: q * r
func B2RotMul(q, r B2Rot) B2Rot {
	// [qc -qs] * [rc -rs] = [qc*rc-qs*rs -qc*rs-qs*rc]
	// [qs  qc]   [rs  rc]   [qs*rc+qc*rs -qs*rs+qc*rc]
	// s = qs * rc + qc * rs
	// c = qc * rc - qs * rs
	return B2Rot{
		S: q.S*r.C + q.C*r.S,
		C: q.C*r.C - q.S*r.S,
	}
}

/// Transpose multiply two rotations: qT * r
func B2RotMulT(q, r B2Rot) B2Rot {
	// [ qc qs] * [rc -rs] = [qc*rc+qs*rs -qc*rs+qs*rc]
	// [-qs qc]   [rs  rc]   [-qs*rc+qc*rs qs*rs+qc*rc]
	// s = qc * rs - qs * rc
	// c = qc * rc + qs * rs
	return B2Rot{
		S: q.C*r.S - q.S*r.C,
		C: q.C*r.C + q.S*r.S,
	}
}

/// Rotate a vector
func B2RotVec2Mul(q B2Rot, v B2Vec2) B2Vec2 {
	return MakeB2Vec2(q.C*v.X-q.S*v.Y, q.S*v.X+q.C*v.Y)
}

/// Inverse rotate a vector
func B2RotVec2MulT(q B2Rot, v B2Vec2) B2Vec2 {
	return MakeB2Vec2(q.C*v.X+q.S*v.Y, -q.S*v.X+q.C*v.Y)
}

/// A transform contains translation and rotation. It is used to represent
/// the position and orientation of rigid frames.
type B2Transform struct {
	P B2Vec2
	Q B2Rot
}

/// The default constructor does nothing.
func MakeB2Transform() B2Transform {
	return B2Transform{P: B2Vec2_zero, Q: B2Rot_identity}
}

/// Initialize using a position vector and a rotation.
func MakeB2TransformByPositionAndRotation(position B2Vec2, rotation B2Rot) B2Transform {
	return B2Transform{
		P: position,
		Q: rotation,
	}
}

var B2Transform_identity = MakeB2Transform()

/// Set this to the identity transform.
func (t *B2Transform) SetIdentity() {
	t.P.SetZero()
	t.Q.SetIdentity()
}

/// Set this based on the position and angle.
func (t *B2Transform) Set(position B2Vec2, anglerad float64) {
	t.P = position
	t.Q.Set(anglerad)
}

func B2TransformVec2Mul(T B2Transform, v B2Vec2) B2Vec2 {
	x := (T.Q.C*v.X - T.Q.S*v.Y) + T.P.X
	y := (T.Q.S*v.X + T.Q.C*v.Y) + T.P.Y

	return MakeB2Vec2(x, y)
}

func B2TransformVec2MulT(T B2Transform, v B2Vec2) B2Vec2 {
	px := v.X - T.P.X
	py := v.Y - T.P.Y
	x := (T.Q.C*px + T.Q.S*py)
	y := (-T.Q.S*px + T.Q.C*py)

	return MakeB2Vec2(x, y)
}

// v2 = A.q.Rot(B.q.Rot(v1) + B.p) + A.p
//    = (A.q * B.q).Rot(v1) + A.q.Rot(B.p) + A.p
func B2TransformMul(A, B B2Transform) B2Transform {
	q := B2RotMul(A.Q, B.Q)
	p := B2Vec2Add(B2RotVec2Mul(A.Q, B.P), A.P)
	return MakeB2TransformByPositionAndRotation(p, q)
}

// v2 = A.q' * (B.q * v1 + B.p - A.p)
//    = A.q' * B.q * v1 + A.q' * (B.p - A.p)
func B2TransformMulT(A, B B2Transform) B2Transform {
	q := B2RotMulT(A.Q, B.Q)
	p := B2RotVec2MulT(A.Q, B2Vec2Sub(B.P, A.P))
	return MakeB2TransformByPositionAndRotation(p, q)
}

/// A 2-by-2 matrix. Stored in column-major order.
type B2Mat22 struct {
	Ex, Ey B2Vec2
}

func MakeB2Mat22FromScalars(a11, a12, a21, a22 float64) B2Mat22 {
	return B2Mat22{
		Ex: MakeB2Vec2(a11, a21),
		Ey: MakeB2Vec2(a12, a22),
	}
}

var B2Mat22_zero = B2Mat22{}

func (m B2Mat22) toMgl() mgl64.Mat2 {
	return mgl64.Mat2{m.Ex.X, m.Ex.Y, m.Ey.X, m.Ey.Y}
}

/// Get the inverse of this matrix. Returns the zero matrix if singular.
func (m B2Mat22) GetInverse() B2Mat22 {
	inv := m.toMgl().Inv()
	return B2Mat22{
		Ex: MakeB2Vec2(inv[0], inv[1]),
		Ey: MakeB2Vec2(inv[2], inv[3]),
	}
}

/// Solve A * x = b, where b is a column vector. Returns the zero vector if
/// the matrix is singular.
func (m B2Mat22) Solve(b B2Vec2) B2Vec2 {
	x := m.toMgl().Inv().Mul2x1(mgl64.Vec2{b.X, b.Y})
	return MakeB2Vec2(x[0], x[1])
}

/// Multiply a matrix times a vector.
func B2Vec2Mat22Mul(A B2Mat22, v B2Vec2) B2Vec2 {
	x := A.toMgl().Mul2x1(mgl64.Vec2{v.X, v.Y})
	return MakeB2Vec2(x[0], x[1])
}

/// This describes the motion of a body/shape for TOI computation.
/// Shapes are defined with respect to the body origin, which may
/// no coincide with the center of mass. However, to support dynamics
/// we must interpolate the center of mass position.
type B2Sweep struct {
	LocalCenter B2Vec2 ///< local center of mass position
	C1          B2Vec2 ///< starting center of mass world position
	C2          B2Vec2 ///< ending center of mass world position
	Q1          B2Rot  ///< starting world rotation
	Q2          B2Rot  ///< ending world rotation
}

/// Get the interpolated transform at a specific time.
/// @param beta is a factor in [0,1], where 0 indicates alpha0.
func (sweep B2Sweep) GetTransform(beta float64) B2Transform {
	var xf B2Transform
	xf.P = B2Vec2Add(B2Vec2MulScalar(1.0-beta, sweep.C1), B2Vec2MulScalar(beta, sweep.C2))

	q := B2Rot{
		C: (1.0-beta)*sweep.Q1.C + beta*sweep.Q2.C,
		S: (1.0-beta)*sweep.Q1.S + beta*sweep.Q2.S,
	}
	xf.Q = B2NormalizeRot(q)

	// Shift to origin
	xf.P.OperatorMinusInplace(B2RotVec2Mul(xf.Q, sweep.LocalCenter))
	return xf
}
