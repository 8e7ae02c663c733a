package box2d_test

import (
	"fmt"
	"testing"

	box2d "github.com/Alexander-r/box2d.go/v3"
)

func TestMat22Solve(t *testing.T) {
	A := box2d.MakeB2Mat22FromScalars(4.0, 1.0, 2.0, 3.0)
	b := box2d.MakeB2Vec2(5.0, 8.0)

	x := A.Solve(b)
	back := box2d.B2Vec2Mat22Mul(A, x)
	inverse := box2d.B2Vec2Mat22Mul(A.GetInverse(), b)

	singular := box2d.MakeB2Mat22FromScalars(1.0, 2.0, 2.0, 4.0)
	zero := singular.Solve(b)

	current := fmt.Sprintf("x = (%.4f, %.4f), A * x = (%.4f, %.4f), inverse * b = (%.4f, %.4f), singular = (%.4f, %.4f)",
		x.X, x.Y, back.X, back.Y, inverse.X, inverse.Y, round3(zero.X), round3(zero.Y))
	expected := "x = (0.7000, 2.2000), A * x = (5.0000, 8.0000), inverse * b = (0.7000, 2.2000), singular = (0.0000, 0.0000)"
	checkMatch(t, expected, current)
}
