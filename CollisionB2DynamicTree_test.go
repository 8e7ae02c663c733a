package box2d_test

import (
	"fmt"
	"testing"

	box2d "github.com/Alexander-r/box2d.go/v3"
)

func makeRandomBox(g *lcg, extent float64) box2d.B2AABB {
	c := g.vec(-extent, extent)
	h := box2d.MakeB2Vec2(g.float(0.1, 1.0), g.float(0.1, 1.0))
	return box2d.MakeB2AABB(box2d.B2Vec2Sub(c, h), box2d.B2Vec2Add(c, h))
}

func bruteForceQuery(boxes map[int32]box2d.B2AABB, aabb box2d.B2AABB) []int32 {
	var ids []int32
	for id, box := range boxes {
		if box2d.B2TestOverlapBoundingBoxes(box, aabb) {
			ids = append(ids, id)
		}
	}
	return ids
}

func treeQuery(tree *box2d.B2DynamicTree, aabb box2d.B2AABB) []int32 {
	var ids []int32
	tree.Query(aabb, box2d.B2_defaultMaskBits, func(proxyId int32, userData int32) bool {
		ids = append(ids, proxyId)
		return true
	})
	return ids
}

func TestDynamicTreeQueryMatchesBruteForce(t *testing.T) {
	g := &lcg{state: 7}
	tree := box2d.MakeB2DynamicTree()
	boxes := make(map[int32]box2d.B2AABB)

	for i := 0; i < 500; i++ {
		box := makeRandomBox(g, 50.0)
		proxyId := tree.CreateProxy(box, box2d.B2_defaultCategoryBits, int32(i))
		boxes[proxyId] = box
	}
	tree.Validate()

	if tree.GetProxyCount() != 500 {
		t.Fatalf("proxy count %d", tree.GetProxyCount())
	}

	// remove every third proxy and move the rest
	for id := range boxes {
		if id%3 == 0 {
			tree.DestroyProxy(id)
			delete(boxes, id)
		}
	}
	tree.Validate()

	for id := range boxes {
		box := makeRandomBox(g, 50.0)
		tree.MoveProxy(id, box)
		boxes[id] = box
	}
	tree.Validate()

	for i := 0; i < 50; i++ {
		query := makeRandomBox(g, 50.0)
		query.LowerBound.OperatorMinusInplace(box2d.MakeB2Vec2(5.0, 5.0))
		query.UpperBound.OperatorPlusInplace(box2d.MakeB2Vec2(5.0, 5.0))

		checkMatch(t, formatIds(bruteForceQuery(boxes, query)), formatIds(treeQuery(&tree, query)))
	}
}

func TestDynamicTreeEnlargeAndRebuild(t *testing.T) {
	for _, sah := range []bool{false, true} {
		for _, fullBuild := range []bool{false, true} {
			t.Run(fmt.Sprintf("sah=%v,full=%v", sah, fullBuild), func(t *testing.T) {
				box2d.B2_treeSAHSplit = sah
				defer func() { box2d.B2_treeSAHSplit = false }()

				g := &lcg{state: 11}
				tree := box2d.MakeB2DynamicTree()
				boxes := make(map[int32]box2d.B2AABB)

				for i := 0; i < 300; i++ {
					box := makeRandomBox(g, 40.0)
					proxyId := tree.CreateProxy(box, box2d.B2_defaultCategoryBits, int32(i))
					boxes[proxyId] = box
				}

				// grow a subset of the proxies in place
				for id, box := range boxes {
					if id%4 != 0 {
						continue
					}
					grown := box
					grown.UpperBound.OperatorPlusInplace(box2d.MakeB2Vec2(3.0, 2.0))
					tree.EnlargeProxy(id, grown)
					boxes[id] = grown
				}
				tree.Validate()

				sorted := tree.Rebuild(fullBuild)
				if sorted <= 0 {
					t.Fatalf("rebuild sorted %d boxes", sorted)
				}
				if fullBuild && sorted != 300 {
					t.Fatalf("full rebuild sorted %d boxes, expected 300", sorted)
				}
				tree.Validate()

				for i := 0; i < 30; i++ {
					query := makeRandomBox(g, 40.0)
					checkMatch(t, formatIds(bruteForceQuery(boxes, query)), formatIds(treeQuery(&tree, query)))
				}

				// a rebuilt tree has no enlarged nodes, so a second partial
				// rebuild keeps the root as the single subtree
				if tree.Rebuild(false) != 1 {
					t.Fatalf("second partial rebuild should keep a single subtree")
				}
				tree.Validate()
			})
		}
	}
}

func TestDynamicTreeCategoryFilter(t *testing.T) {
	tree := box2d.NewB2DynamicTree()
	boxA := box2d.MakeB2AABB(box2d.MakeB2Vec2(0, 0), box2d.MakeB2Vec2(1, 1))
	boxB := box2d.MakeB2AABB(box2d.MakeB2Vec2(0.5, 0.5), box2d.MakeB2Vec2(2, 2))
	idA := tree.CreateProxy(boxA, 0x1, 10)
	idB := tree.CreateProxy(boxB, 0x2, 20)

	query := box2d.MakeB2AABB(box2d.MakeB2Vec2(0.75, 0.75), box2d.MakeB2Vec2(0.8, 0.8))

	var hits []int32
	tree.Query(query, 0x2, func(proxyId int32, userData int32) bool {
		hits = append(hits, userData)
		return true
	})
	checkMatch(t, "20\n", formatIds(hits))

	hits = hits[:0]
	tree.Query(query, 0x3, func(proxyId int32, userData int32) bool {
		hits = append(hits, userData)
		return false
	})
	if len(hits) != 1 {
		t.Fatalf("query should stop after the first hit, got %d", len(hits))
	}

	if tree.GetUserData(idA) != 10 || tree.GetUserData(idB) != 20 {
		t.Fatalf("user data mismatch")
	}
}

func TestDynamicTreeRayCast(t *testing.T) {
	g := &lcg{state: 3}
	tree := box2d.MakeB2DynamicTree()
	boxes := make(map[int32]box2d.B2AABB)

	for i := 0; i < 200; i++ {
		box := makeRandomBox(g, 20.0)
		proxyId := tree.CreateProxy(box, box2d.B2_defaultCategoryBits, int32(i))
		boxes[proxyId] = box
	}

	for i := 0; i < 20; i++ {
		p1 := g.vec(-25.0, 25.0)
		p2 := g.vec(-25.0, 25.0)

		// closest box hit by brute force
		bestFraction := 1.0
		bestId := int32(-1)
		for id, box := range boxes {
			output := box.RayCast(p1, p2)
			if output.Hit && output.Fraction < bestFraction {
				bestFraction = output.Fraction
				bestId = id
			}
		}

		treeId := int32(-1)
		input := box2d.MakeB2RayCastInput(p1, box2d.B2Vec2Sub(p2, p1), 1.0)
		tree.RayCast(input, box2d.B2_defaultMaskBits, func(subInput *box2d.B2RayCastInput, proxyId int32, userData int32) float64 {
			box := tree.GetFatAABB(proxyId)
			end := box2d.B2Vec2MulAdd(subInput.Origin, subInput.MaxFraction, subInput.Translation)
			output := box.RayCast(subInput.Origin, end)
			if output.Hit == false {
				return subInput.MaxFraction
			}
			fraction := output.Fraction * subInput.MaxFraction
			treeId = proxyId
			return fraction
		})

		checkMatch(t, fmt.Sprintf("%d", bestId), fmt.Sprintf("%d", treeId))
	}
}

func TestDynamicTreeShiftOrigin(t *testing.T) {
	tree := box2d.MakeB2DynamicTree()
	box := box2d.MakeB2AABB(box2d.MakeB2Vec2(10, 10), box2d.MakeB2Vec2(11, 11))
	id := tree.CreateProxy(box, box2d.B2_defaultCategoryBits, 0)
	tree.ShiftOrigin(box2d.MakeB2Vec2(10, 10))

	shifted := tree.GetFatAABB(id)
	msg := fmt.Sprintf("%v %v %v %v", shifted.LowerBound.X, shifted.LowerBound.Y, shifted.UpperBound.X, shifted.UpperBound.Y)
	checkMatch(t, "0 0 1 1", msg)
	if tree.GetHeight() != 0 || tree.GetAreaRatio() != 0.0 {
		t.Fatalf("single leaf tree has height 0")
	}
}
