package box2d_test

import (
	"fmt"
	"testing"

	box2d "github.com/Alexander-r/box2d.go/v3"
)

var expectedShapeCast string = "hit = false, fraction = 1, distance = 7.040064"

// The triangle already overlaps the box, so the cast reports no hit and the
// full translation.
func TestCPPComplianceShapeCast(t *testing.T) {
	transformA := box2d.MakeB2Transform()
	transformA.P = box2d.MakeB2Vec2(0.0, 0.25)

	transformB := box2d.MakeB2Transform()

	pA := box2d.B2MakeProxy([]box2d.B2Vec2{
		box2d.MakeB2Vec2(-0.5, 1.0),
		box2d.MakeB2Vec2(0.5, 1.0),
		box2d.MakeB2Vec2(0.0, 0.0),
	}, box2d.B2_polygonRadius)

	pB := box2d.B2MakeProxy([]box2d.B2Vec2{
		box2d.MakeB2Vec2(-0.5, -0.5),
		box2d.MakeB2Vec2(0.5, -0.5),
		box2d.MakeB2Vec2(0.5, 0.5),
		box2d.MakeB2Vec2(-0.5, 0.5),
	}, box2d.B2_polygonRadius)

	input := box2d.B2ShapeCastPairInput{
		ProxyA:       pA,
		ProxyB:       pB,
		TransformA:   transformA,
		TransformB:   transformB,
		TranslationB: box2d.MakeB2Vec2(8.0, 0.0),
		MaxFraction:  1.0,
	}

	output := box2d.B2ShapeCast(input)

	transformB2 := box2d.MakeB2Transform()
	transformB2.Q = transformB.Q
	transformB2.P = box2d.B2Vec2Add(transformB.P, box2d.B2Vec2MulScalar(output.Fraction, input.TranslationB))

	distanceInput := box2d.B2DistanceInput{
		ProxyA:     pA,
		ProxyB:     pB,
		TransformA: transformA,
		TransformB: transformB2,
		UseRadii:   false,
	}
	cache := box2d.B2DistanceCache{}
	distanceOutput := box2d.B2ShapeDistance(&cache, distanceInput, nil)

	msg := fmt.Sprintf("hit = %v, fraction = %v, distance = %.6f",
		output.Hit, output.Fraction, distanceOutput.Distance)

	checkMatch(t, expectedShapeCast, msg)
}

var expectedShapeCast2 string = "hit = true, iters = 2, fraction = 0.380, normal = (-0.97, -0.25)"

// Circle B sweeps into circle A and stops one linear slop short of contact.
func TestCPPComplianceShapeCast2(t *testing.T) {
	transformA := box2d.MakeB2Transform()
	transformA.P = box2d.MakeB2Vec2(4.0, 0.25)

	transformB := box2d.MakeB2Transform()

	pA := box2d.B2MakeProxy([]box2d.B2Vec2{box2d.MakeB2Vec2(0.0, 0.0)}, 0.5)
	pB := box2d.B2MakeProxy([]box2d.B2Vec2{box2d.MakeB2Vec2(0.0, 0.0)}, 0.5)

	input := box2d.B2ShapeCastPairInput{
		ProxyA:       pA,
		ProxyB:       pB,
		TransformA:   transformA,
		TransformB:   transformB,
		TranslationB: box2d.MakeB2Vec2(8.0, 0.0),
		MaxFraction:  1.0,
	}

	output := box2d.B2ShapeCast(input)

	msg := fmt.Sprintf("hit = %v, iters = %v, fraction = %.3f, normal = (%.2f, %.2f)",
		output.Hit, output.Iterations, output.Fraction, output.Normal.X, output.Normal.Y)

	checkMatch(t, expectedShapeCast2, msg)
}
