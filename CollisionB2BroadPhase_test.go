package box2d_test

import (
	"fmt"
	"strings"
	"testing"

	box2d "github.com/Alexander-r/box2d.go/v3"
)

type pairRecorder struct {
	pairs []string
}

func (r *pairRecorder) add(shapeIndexA int32, shapeIndexB int32) bool {
	r.pairs = append(r.pairs, fmt.Sprintf("%d-%d", shapeIndexA, shapeIndexB))
	return true
}

func (r *pairRecorder) take() string {
	s := strings.Join(r.pairs, " ")
	r.pairs = r.pairs[:0]
	return s
}

func TestBroadPhasePairs(t *testing.T) {
	bp := box2d.NewB2BroadPhase()
	scheduler := box2d.MakeB2SerialScheduler()
	recorder := &pairRecorder{}

	box := func(lx, ly, ux, uy float64) box2d.B2AABB {
		return box2d.MakeB2AABB(box2d.MakeB2Vec2(lx, ly), box2d.MakeB2Vec2(ux, uy))
	}

	category := box2d.B2_defaultCategoryBits
	ground := bp.CreateProxy(box(-10.0, -1.0, 10.0, 0.0), category, 0, box2d.B2BodyType.E_staticBody, false)
	first := bp.CreateProxy(box(0.0, -0.2, 1.0, 0.8), category, 1, box2d.B2BodyType.E_dynamicBody, false)
	second := bp.CreateProxy(box(0.5, 0.5, 1.5, 1.5), category, 2, box2d.B2BodyType.E_dynamicBody, false)
	third := bp.CreateProxy(box(5.0, 5.0, 6.0, 6.0), category, 3, box2d.B2BodyType.E_dynamicBody, false)

	// Kinematic proxies do not pair with static proxies
	bp.CreateProxy(box(-9.5, -0.5, -8.5, 0.5), category, 4, box2d.B2BodyType.E_kinematicBody, false)

	if bp.GetProxyCount() != 5 || bp.GetMoveCount() != 4 {
		t.Fatalf("proxies %d, moves %d", bp.GetProxyCount(), bp.GetMoveCount())
	}

	if bp.GetShapeIndex(second) != 2 || bp.TestOverlap(first, second) == false || bp.TestOverlap(ground, third) {
		t.Fatalf("proxy lookup or overlap test failed")
	}

	// The filter vetoes the dynamic pair
	noDynamicPairs := func(shapeIndexA int32, shapeIndexB int32) bool {
		return shapeIndexA == 0 || shapeIndexB == 0
	}
	count := bp.UpdatePairs(scheduler, noDynamicPairs, recorder.add)
	checkMatch(t, "0-1", recorder.take())

	if count != 1 || bp.GetMoveCount() != 0 || bp.HasPair(1, 0) == false || bp.HasPair(1, 2) {
		t.Fatalf("pair set after the filtered update: count %d", count)
	}

	// Existing pairs are not reported twice
	bp.MoveProxy(first, box(0.0, -0.25, 1.0, 0.75))
	bp.MoveProxy(second, box(0.5, 0.5, 1.5, 1.5))
	bp.UpdatePairs(scheduler, nil, recorder.add)
	checkMatch(t, "1-2", recorder.take())

	bp.MoveProxy(third, box(1.0, 1.0, 2.0, 2.0))
	bp.UpdatePairs(scheduler, nil, recorder.add)
	checkMatch(t, "2-3", recorder.take())

	if bp.GetPairCount() != 3 {
		t.Fatalf("pair count %d", bp.GetPairCount())
	}

	// A removed pair is found again by the next query
	bp.RemovePair(0, 1)
	bp.BufferMove(first)
	bp.UpdatePairs(scheduler, nil, recorder.add)
	checkMatch(t, "0-1", recorder.take())

	if bp.GetTreeHeight() < 1 || bp.GetTreeBalance() < 0 || bp.GetTreeQuality() <= 0.0 {
		t.Fatalf("tree stats: height %d, balance %d, quality %g", bp.GetTreeHeight(), bp.GetTreeBalance(), bp.GetTreeQuality())
	}

	bp.DestroyProxy(third)
	bp.Validate()

	if bp.GetProxyCount() != 4 {
		t.Fatalf("proxy count %d after destroy", bp.GetProxyCount())
	}
}
