package box2d

import (
	"math"
)

///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
// B2DynamicTree.h
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////

// A node in the dynamic tree. The client does not interact with this directly.
type B2TreeNode struct {
	/// Enlarged AABB
	AABB B2AABB

	// Union of the category bits of all leaves below this node
	CategoryBits uint32

	Parent int32
	Next   int32 // free list link, only meaningful for free nodes

	Child1 int32
	Child2 int32

	// Shape index for leaves, B2_nullIndex for internal nodes
	UserData int32

	// leaf = 0, free node = -1
	Height int32

	// Set when an ancestor AABB was grown in place by EnlargeProxy
	Enlarged bool
}

var b2_defaultTreeNode = B2TreeNode{
	AABB:         B2AABB{},
	CategoryBits: B2_defaultCategoryBits,
	Parent:       B2_nullIndex,
	Next:         B2_nullIndex,
	Child1:       B2_nullIndex,
	Child2:       B2_nullIndex,
	UserData:     B2_nullIndex,
	Height:       0,
	Enlarged:     false,
}

func (node B2TreeNode) IsLeaf() bool {
	return node.Height == 0
}

/// This function receives proxies found in the AABB query.
/// @return true if the query should continue
type B2TreeQueryCallback func(proxyId int32, userData int32) bool

/// This function receives clipped ray-cast input for a proxy. The function
/// returns the new ray fraction.
/// - return a value of 0 to terminate the ray-cast
/// - return a value less than input->maxFraction to clip the ray
/// - return a value of input->maxFraction to continue the ray cast without clipping
type B2TreeRayCastCallback func(input *B2RayCastInput, proxyId int32, userData int32) float64

/// This function receives clipped shape-cast input for a proxy. Same return
/// convention as B2TreeRayCastCallback.
type B2TreeShapeCastCallback func(input *B2ShapeCastInput, proxyId int32, userData int32) float64

/// A dynamic AABB tree broad-phase, inspired by Nathanael Presson's btDbvt.
/// A dynamic tree arranges data in a binary tree to accelerate
/// queries such as volume queries and ray casts. Leafs are proxies
/// with an AABB. Nodes are pooled and relocatable, so I use node indices rather than pointers.
/// The AABBs given to the tree are expected to be fattened by the caller.
type B2DynamicTree struct {
	Nodes []B2TreeNode

	Root       int32
	NodeCount  int32
	FreeList   int32
	ProxyCount int32

	// Scratch space for rebuilds
	leafIndices []int32
	leafBoxes   []B2AABB
	leafCenters []B2Vec2
	binIndices  []int32
}

///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
// B2DynamicTree.cpp
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////

/// Constructing the tree initializes the node pool.
func MakeB2DynamicTree() B2DynamicTree {
	tree := B2DynamicTree{
		Root:     B2_nullIndex,
		FreeList: B2_nullIndex,
	}
	tree.growNodes(16)
	return tree
}

func NewB2DynamicTree() *B2DynamicTree {
	tree := MakeB2DynamicTree()
	return &tree
}

func (tree *B2DynamicTree) growNodes(newCapacity int) {
	oldCapacity := len(tree.Nodes)
	B2Assert(newCapacity > oldCapacity)

	nodes := make([]B2TreeNode, newCapacity)
	copy(nodes, tree.Nodes)

	// Build a linked list for the free list. The parent
	// pointer becomes the "next" pointer.
	for i := oldCapacity; i < newCapacity-1; i++ {
		nodes[i].Next = int32(i + 1)
		nodes[i].Height = -1
	}
	nodes[newCapacity-1].Next = tree.FreeList
	nodes[newCapacity-1].Height = -1

	tree.Nodes = nodes
	tree.FreeList = int32(oldCapacity)
}

// Allocate a node from the pool. Grow the pool if necessary.
// Node references are invalidated if the pool grows.
func (tree *B2DynamicTree) allocateNode() int32 {
	if tree.FreeList == B2_nullIndex {
		B2Assert(int(tree.NodeCount) == len(tree.Nodes))

		// The free list is empty. Rebuild a bigger pool.
		tree.growNodes(len(tree.Nodes) + len(tree.Nodes)/2)
	}

	nodeIndex := tree.FreeList
	tree.FreeList = tree.Nodes[nodeIndex].Next
	tree.Nodes[nodeIndex] = b2_defaultTreeNode
	tree.NodeCount++
	return nodeIndex
}

// Return a node to the pool.
func (tree *B2DynamicTree) freeNode(nodeId int32) {
	B2Assert(0 <= nodeId && int(nodeId) < len(tree.Nodes))
	B2Assert(0 < tree.NodeCount)
	tree.Nodes[nodeId].Next = tree.FreeList
	tree.Nodes[nodeId].Height = -1
	tree.Nodes[nodeId].Enlarged = false
	tree.FreeList = nodeId
	tree.NodeCount--
}

// Greedy algorithm for sibling selection using the SAH
// We have three nodes A-(B,C) and want to add a leaf D, there are three choices.
// 1: make a new parent for A and D : E-(A-(B,C), D)
// 2: associate D with B
//   a: B is a leaf : A-(E-(B,D), C)
//   b: B is an internal node: A-(B{D},C)
// 3: associate D with C
//   a: C is a leaf : A-(B, E-(C,D))
//   b: C is an internal node: A-(B, C{D})
// All of these have a clear cost except when B or C is an internal node. Hence we need to be greedy.
//
// The cost for cases 1, 2a, and 3a can be computed using the sibling cost formula.
// cost of sibling H = area(union(H, D)) + increased area of ancestors
//
// Suppose B (or C) is an internal node, then the lowest cost would be one of two cases:
// case1: D becomes a sibling of B
// case2: D becomes a descendant of B along with a new internal node of area(D).
func (tree *B2DynamicTree) findBestSibling(boxD B2AABB) int32 {
	centerD := boxD.GetCenter()
	areaD := boxD.GetPerimeter()

	nodes := tree.Nodes
	rootIndex := tree.Root

	rootBox := nodes[rootIndex].AABB

	// Area of current node
	areaBase := rootBox.GetPerimeter()

	// Area of inflated node
	directCost := B2AABBUnion(rootBox, boxD).GetPerimeter()
	inheritedCost := 0.0

	bestSibling := rootIndex
	bestCost := directCost

	// Descend the tree from root, following a single greedy path.
	index := rootIndex
	for nodes[index].Height > 0 {
		child1 := nodes[index].Child1
		child2 := nodes[index].Child2

		// Cost of creating a new parent for this node and the new leaf
		cost := directCost + inheritedCost

		// Sometimes there are multiple identical costs within tolerance.
		// This breaks the ties using the centroid distance.
		if cost < bestCost {
			bestSibling = index
			bestCost = cost
		}

		// Inheritance cost seen by children
		inheritedCost += directCost - areaBase

		leaf1 := nodes[child1].Height == 0
		leaf2 := nodes[child2].Height == 0

		// Cost of descending into child 1
		lowerCost1 := B2_maxFloat
		box1 := nodes[child1].AABB
		directCost1 := B2AABBUnion(box1, boxD).GetPerimeter()
		area1 := 0.0
		if leaf1 {
			// Child 1 is a leaf
			// Cost of creating new node and increasing area of node P
			cost1 := directCost1 + inheritedCost

			// Need this here due to while condition above
			if cost1 < bestCost {
				bestSibling = child1
				bestCost = cost1
			}
		} else {
			// Child 1 is an internal node
			area1 = box1.GetPerimeter()

			// Lower bound cost of inserting under child 1.
			lowerCost1 = inheritedCost + directCost1 + math.Min(areaD-area1, 0.0)
		}

		// Cost of descending into child 2
		lowerCost2 := B2_maxFloat
		box2 := nodes[child2].AABB
		directCost2 := B2AABBUnion(box2, boxD).GetPerimeter()
		area2 := 0.0
		if leaf2 {
			cost2 := directCost2 + inheritedCost
			if cost2 < bestCost {
				bestSibling = child2
				bestCost = cost2
			}
		} else {
			area2 = box2.GetPerimeter()
			lowerCost2 = inheritedCost + directCost2 + math.Min(areaD-area2, 0.0)
		}

		if leaf1 && leaf2 {
			break
		}

		// Can the cost possibly be decreased?
		if bestCost <= lowerCost1 && bestCost <= lowerCost2 {
			break
		}

		if lowerCost1 == lowerCost2 && leaf1 == false {
			B2Assert(lowerCost1 < B2_maxFloat)
			B2Assert(lowerCost2 < B2_maxFloat)

			// No clear choice based on lower bound surface area. This can happen when both
			// children fully contain D. Fall back to node distance.
			d1 := B2Vec2Sub(box1.GetCenter(), centerD)
			d2 := B2Vec2Sub(box2.GetCenter(), centerD)
			lowerCost1 = d1.LengthSquared()
			lowerCost2 = d2.LengthSquared()
		}

		// Descend
		if lowerCost1 < lowerCost2 && leaf1 == false {
			index = child1
			areaBase = area1
			directCost = directCost1
		} else {
			index = child2
			areaBase = area2
			directCost = directCost2
		}

		B2Assert(nodes[index].Height > 0)
	}

	return bestSibling
}

var b2RotateType = struct {
	E_rotateNone uint8
	E_rotateBF   uint8
	E_rotateBG   uint8
	E_rotateCD   uint8
	E_rotateCE   uint8
}{
	E_rotateNone: 0,
	E_rotateBF:   1,
	E_rotateBG:   2,
	E_rotateCD:   3,
	E_rotateCE:   4,
}

// Perform a left or right rotation if node A is imbalanced.
// Returns the index of the new subtree root (which is always iA).
func (tree *B2DynamicTree) rotateNodes(iA int32) {
	B2Assert(iA != B2_nullIndex)

	nodes := tree.Nodes

	A := &nodes[iA]
	if A.Height < 2 {
		return
	}

	iB := A.Child1
	iC := A.Child2
	B2Assert(0 <= iB && int(iB) < len(nodes))
	B2Assert(0 <= iC && int(iC) < len(nodes))

	B := &nodes[iB]
	C := &nodes[iC]

	if B.Height == 0 {
		// B is a leaf and C is internal
		B2Assert(C.Height > 0)

		iF := C.Child1
		iG := C.Child2
		F := &nodes[iF]
		G := &nodes[iG]
		B2Assert(0 <= iF && int(iF) < len(nodes))
		B2Assert(0 <= iG && int(iG) < len(nodes))

		// Base cost
		costBase := C.AABB.GetPerimeter()

		// Cost of swapping B and F
		aabbBG := B2AABBUnion(B.AABB, G.AABB)
		costBF := aabbBG.GetPerimeter()

		// Cost of swapping B and G
		aabbBF := B2AABBUnion(B.AABB, F.AABB)
		costBG := aabbBF.GetPerimeter()

		if costBase < costBF && costBase < costBG {
			// Rotation does not improve cost
			return
		}

		if costBF < costBG {
			// Swap B and F
			A.Child1 = iF
			C.Child1 = iB

			B.Parent = iC
			F.Parent = iA

			C.AABB = aabbBG

			C.Height = 1 + B2Max(B.Height, G.Height)
			A.Height = 1 + B2Max(C.Height, F.Height)
			C.CategoryBits = B.CategoryBits | G.CategoryBits
			A.CategoryBits = C.CategoryBits | F.CategoryBits
			C.Enlarged = B.Enlarged || G.Enlarged
			A.Enlarged = C.Enlarged || F.Enlarged
		} else {
			// Swap B and G
			A.Child1 = iG
			C.Child2 = iB

			B.Parent = iC
			G.Parent = iA

			C.AABB = aabbBF

			C.Height = 1 + B2Max(B.Height, F.Height)
			A.Height = 1 + B2Max(C.Height, G.Height)
			C.CategoryBits = B.CategoryBits | F.CategoryBits
			A.CategoryBits = C.CategoryBits | G.CategoryBits
			C.Enlarged = B.Enlarged || F.Enlarged
			A.Enlarged = C.Enlarged || G.Enlarged
		}
	} else if C.Height == 0 {
		// C is a leaf and B is internal
		B2Assert(B.Height > 0)

		iD := B.Child1
		iE := B.Child2
		D := &nodes[iD]
		E := &nodes[iE]
		B2Assert(0 <= iD && int(iD) < len(nodes))
		B2Assert(0 <= iE && int(iE) < len(nodes))

		// Base cost
		costBase := B.AABB.GetPerimeter()

		// Cost of swapping C and D
		aabbCE := B2AABBUnion(C.AABB, E.AABB)
		costCD := aabbCE.GetPerimeter()

		// Cost of swapping C and E
		aabbCD := B2AABBUnion(C.AABB, D.AABB)
		costCE := aabbCD.GetPerimeter()

		if costBase < costCD && costBase < costCE {
			// Rotation does not improve cost
			return
		}

		if costCD < costCE {
			// Swap C and D
			A.Child2 = iD
			B.Child1 = iC

			C.Parent = iB
			D.Parent = iA

			B.AABB = aabbCE

			B.Height = 1 + B2Max(C.Height, E.Height)
			A.Height = 1 + B2Max(B.Height, D.Height)
			B.CategoryBits = C.CategoryBits | E.CategoryBits
			A.CategoryBits = B.CategoryBits | D.CategoryBits
			B.Enlarged = C.Enlarged || E.Enlarged
			A.Enlarged = B.Enlarged || D.Enlarged
		} else {
			// Swap C and E
			A.Child2 = iE
			B.Child2 = iC

			C.Parent = iB
			E.Parent = iA

			B.AABB = aabbCD
			B.Height = 1 + B2Max(C.Height, D.Height)
			A.Height = 1 + B2Max(B.Height, E.Height)
			B.CategoryBits = C.CategoryBits | D.CategoryBits
			A.CategoryBits = B.CategoryBits | E.CategoryBits
			B.Enlarged = C.Enlarged || D.Enlarged
			A.Enlarged = B.Enlarged || E.Enlarged
		}
	} else {
		iD := B.Child1
		iE := B.Child2
		iF := C.Child1
		iG := C.Child2

		D := &nodes[iD]
		E := &nodes[iE]
		F := &nodes[iF]
		G := &nodes[iG]

		B2Assert(0 <= iD && int(iD) < len(nodes))
		B2Assert(0 <= iE && int(iE) < len(nodes))
		B2Assert(0 <= iF && int(iF) < len(nodes))
		B2Assert(0 <= iG && int(iG) < len(nodes))

		// Base cost
		areaB := B.AABB.GetPerimeter()
		areaC := C.AABB.GetPerimeter()
		costBase := areaB + areaC
		bestRotation := b2RotateType.E_rotateNone
		bestCost := costBase

		// Cost of swapping B and F
		aabbBG := B2AABBUnion(B.AABB, G.AABB)
		costBF := areaB + aabbBG.GetPerimeter()
		if costBF < bestCost {
			bestRotation = b2RotateType.E_rotateBF
			bestCost = costBF
		}

		// Cost of swapping B and G
		aabbBF := B2AABBUnion(B.AABB, F.AABB)
		costBG := areaB + aabbBF.GetPerimeter()
		if costBG < bestCost {
			bestRotation = b2RotateType.E_rotateBG
			bestCost = costBG
		}

		// Cost of swapping C and D
		aabbCE := B2AABBUnion(C.AABB, E.AABB)
		costCD := areaC + aabbCE.GetPerimeter()
		if costCD < bestCost {
			bestRotation = b2RotateType.E_rotateCD
			bestCost = costCD
		}

		// Cost of swapping C and E
		aabbCD := B2AABBUnion(C.AABB, D.AABB)
		costCE := areaC + aabbCD.GetPerimeter()
		if costCE < bestCost {
			bestRotation = b2RotateType.E_rotateCE
			// bestCost = costCE
		}

		switch bestRotation {
		case b2RotateType.E_rotateNone:
			break

		case b2RotateType.E_rotateBF:
			A.Child1 = iF
			C.Child1 = iB

			B.Parent = iC
			F.Parent = iA

			C.AABB = aabbBG
			C.Height = 1 + B2Max(B.Height, G.Height)
			A.Height = 1 + B2Max(C.Height, F.Height)
			C.CategoryBits = B.CategoryBits | G.CategoryBits
			A.CategoryBits = C.CategoryBits | F.CategoryBits
			C.Enlarged = B.Enlarged || G.Enlarged
			A.Enlarged = C.Enlarged || F.Enlarged

		case b2RotateType.E_rotateBG:
			A.Child1 = iG
			C.Child2 = iB

			B.Parent = iC
			G.Parent = iA

			C.AABB = aabbBF
			C.Height = 1 + B2Max(B.Height, F.Height)
			A.Height = 1 + B2Max(C.Height, G.Height)
			C.CategoryBits = B.CategoryBits | F.CategoryBits
			A.CategoryBits = C.CategoryBits | G.CategoryBits
			C.Enlarged = B.Enlarged || F.Enlarged
			A.Enlarged = C.Enlarged || G.Enlarged

		case b2RotateType.E_rotateCD:
			A.Child2 = iD
			B.Child1 = iC

			C.Parent = iB
			D.Parent = iA

			B.AABB = aabbCE
			B.Height = 1 + B2Max(C.Height, E.Height)
			A.Height = 1 + B2Max(B.Height, D.Height)
			B.CategoryBits = C.CategoryBits | E.CategoryBits
			A.CategoryBits = B.CategoryBits | D.CategoryBits
			B.Enlarged = C.Enlarged || E.Enlarged
			A.Enlarged = B.Enlarged || D.Enlarged

		case b2RotateType.E_rotateCE:
			A.Child2 = iE
			B.Child2 = iC

			C.Parent = iB
			E.Parent = iA

			B.AABB = aabbCD
			B.Height = 1 + B2Max(C.Height, D.Height)
			A.Height = 1 + B2Max(B.Height, E.Height)
			B.CategoryBits = C.CategoryBits | D.CategoryBits
			A.CategoryBits = B.CategoryBits | E.CategoryBits
			B.Enlarged = C.Enlarged || D.Enlarged
			A.Enlarged = B.Enlarged || E.Enlarged

		default:
			B2Assert(false)
		}
	}
}

func (tree *B2DynamicTree) insertLeaf(leaf int32, shouldRotate bool) {
	if tree.Root == B2_nullIndex {
		tree.Root = leaf
		tree.Nodes[tree.Root].Parent = B2_nullIndex
		return
	}

	// Stage 1: find the best sibling for this node
	leafAABB := tree.Nodes[leaf].AABB
	sibling := tree.findBestSibling(leafAABB)

	// Stage 2: create a new parent for the leaf and sibling
	oldParent := tree.Nodes[sibling].Parent
	newParent := tree.allocateNode()

	// warning: node slice can change after allocation
	nodes := tree.Nodes
	nodes[newParent].Parent = oldParent
	nodes[newParent].UserData = B2_nullIndex
	nodes[newParent].AABB = B2AABBUnion(leafAABB, nodes[sibling].AABB)
	nodes[newParent].CategoryBits = nodes[leaf].CategoryBits | nodes[sibling].CategoryBits
	nodes[newParent].Height = nodes[sibling].Height + 1

	if oldParent != B2_nullIndex {
		// The sibling was not the root.
		if nodes[oldParent].Child1 == sibling {
			nodes[oldParent].Child1 = newParent
		} else {
			nodes[oldParent].Child2 = newParent
		}

		nodes[newParent].Child1 = sibling
		nodes[newParent].Child2 = leaf
		nodes[sibling].Parent = newParent
		nodes[leaf].Parent = newParent
	} else {
		// The sibling was the root.
		nodes[newParent].Child1 = sibling
		nodes[newParent].Child2 = leaf
		nodes[sibling].Parent = newParent
		nodes[leaf].Parent = newParent
		tree.Root = newParent
	}

	// Stage 3: walk back up the tree fixing heights and AABBs
	index := nodes[leaf].Parent
	for index != B2_nullIndex {
		child1 := nodes[index].Child1
		child2 := nodes[index].Child2

		B2Assert(child1 != B2_nullIndex)
		B2Assert(child2 != B2_nullIndex)

		nodes[index].AABB = B2AABBUnion(nodes[child1].AABB, nodes[child2].AABB)
		nodes[index].CategoryBits = nodes[child1].CategoryBits | nodes[child2].CategoryBits
		nodes[index].Height = 1 + B2Max(nodes[child1].Height, nodes[child2].Height)
		nodes[index].Enlarged = nodes[child1].Enlarged || nodes[child2].Enlarged

		if shouldRotate {
			tree.rotateNodes(index)
		}

		index = nodes[index].Parent
	}
}

func (tree *B2DynamicTree) removeLeaf(leaf int32) {
	if leaf == tree.Root {
		tree.Root = B2_nullIndex
		return
	}

	nodes := tree.Nodes

	parent := nodes[leaf].Parent
	grandParent := nodes[parent].Parent
	sibling := nodes[parent].Child1
	if sibling == leaf {
		sibling = nodes[parent].Child2
	}

	if grandParent != B2_nullIndex {
		// Destroy parent and connect sibling to grandParent.
		if nodes[grandParent].Child1 == parent {
			nodes[grandParent].Child1 = sibling
		} else {
			nodes[grandParent].Child2 = sibling
		}
		nodes[sibling].Parent = grandParent
		tree.freeNode(parent)

		// Adjust ancestor bounds.
		index := grandParent
		for index != B2_nullIndex {
			node := &nodes[index]
			child1 := &nodes[node.Child1]
			child2 := &nodes[node.Child2]

			node.AABB = B2AABBUnion(child1.AABB, child2.AABB)
			node.CategoryBits = child1.CategoryBits | child2.CategoryBits
			node.Height = 1 + B2Max(child1.Height, child2.Height)

			index = node.Parent
		}
	} else {
		tree.Root = sibling
		tree.Nodes[sibling].Parent = B2_nullIndex
		tree.freeNode(parent)
	}
}

/// Create a proxy in the tree as a leaf node. We return the index of the node instead of a pointer so that we can grow
/// the node pool.
/// @return the proxy id
func (tree *B2DynamicTree) CreateProxy(aabb B2AABB, categoryBits uint32, userData int32) int32 {
	B2Assert(-B2_huge < aabb.LowerBound.X && aabb.LowerBound.X < B2_huge)
	B2Assert(-B2_huge < aabb.LowerBound.Y && aabb.LowerBound.Y < B2_huge)
	B2Assert(-B2_huge < aabb.UpperBound.X && aabb.UpperBound.X < B2_huge)
	B2Assert(-B2_huge < aabb.UpperBound.Y && aabb.UpperBound.Y < B2_huge)

	proxyId := tree.allocateNode()
	node := &tree.Nodes[proxyId]

	node.AABB = aabb
	node.UserData = userData
	node.CategoryBits = categoryBits
	node.Height = 0

	tree.insertLeaf(proxyId, B2_treeRotate)

	tree.ProxyCount++

	return proxyId
}

/// Destroy a proxy. This asserts if the id is invalid.
func (tree *B2DynamicTree) DestroyProxy(proxyId int32) {
	B2Assert(0 <= proxyId && int(proxyId) < len(tree.Nodes))
	B2Assert(tree.Nodes[proxyId].IsLeaf())

	tree.removeLeaf(proxyId)
	tree.freeNode(proxyId)

	B2Assert(tree.ProxyCount > 0)
	tree.ProxyCount--
}

func (tree B2DynamicTree) GetProxyCount() int {
	return int(tree.ProxyCount)
}

/// Move a proxy to a new AABB by removing and reinserting into the tree.
func (tree *B2DynamicTree) MoveProxy(proxyId int32, aabb B2AABB) {
	B2Assert(aabb.IsValid())
	B2Assert(aabb.UpperBound.X-aabb.LowerBound.X < B2_huge)
	B2Assert(aabb.UpperBound.Y-aabb.LowerBound.Y < B2_huge)
	B2Assert(0 <= proxyId && int(proxyId) < len(tree.Nodes))
	B2Assert(tree.Nodes[proxyId].IsLeaf())

	tree.removeLeaf(proxyId)

	tree.Nodes[proxyId].AABB = aabb

	shouldRotate := false
	tree.insertLeaf(proxyId, shouldRotate)
}

/// Enlarge a proxy and enlarge ancestors as necessary.
func (tree *B2DynamicTree) EnlargeProxy(proxyId int32, aabb B2AABB) {
	nodes := tree.Nodes

	B2Assert(aabb.IsValid())
	B2Assert(aabb.UpperBound.X-aabb.LowerBound.X < B2_huge)
	B2Assert(aabb.UpperBound.Y-aabb.LowerBound.Y < B2_huge)
	B2Assert(0 <= proxyId && int(proxyId) < len(tree.Nodes))
	B2Assert(nodes[proxyId].IsLeaf())

	// Caller must ensure this
	B2Assert(nodes[proxyId].AABB.Contains(aabb) == false)

	nodes[proxyId].AABB = aabb

	parentIndex := nodes[proxyId].Parent
	for parentIndex != B2_nullIndex {
		changed := B2EnlargeAABB(&nodes[parentIndex].AABB, aabb)
		nodes[parentIndex].Enlarged = true
		parentIndex = nodes[parentIndex].Parent

		if changed == false {
			break
		}
	}

	for parentIndex != B2_nullIndex {
		if nodes[parentIndex].Enlarged == true {
			// early out because this ancestor was previously ascended and marked as enlarged
			break
		}

		nodes[parentIndex].Enlarged = true
		parentIndex = nodes[parentIndex].Parent
	}
}

/// Get proxy user data
func (tree B2DynamicTree) GetUserData(proxyId int32) int32 {
	B2Assert(0 <= proxyId && int(proxyId) < len(tree.Nodes))
	return tree.Nodes[proxyId].UserData
}

/// Get the fat AABB for a proxy.
func (tree B2DynamicTree) GetFatAABB(proxyId int32) B2AABB {
	B2Assert(0 <= proxyId && int(proxyId) < len(tree.Nodes))
	return tree.Nodes[proxyId].AABB
}

/// Query an AABB for overlapping proxies. The callback class
/// is called for each proxy that overlaps the supplied AABB
/// and passes the category and mask test.
func (tree B2DynamicTree) Query(aabb B2AABB, maskBits uint32, callback B2TreeQueryCallback) {
	if tree.Root == B2_nullIndex {
		return
	}

	stack := MakeB2GrowableStack[int32](256)
	stack.Push(tree.Root)

	for stack.GetCount() > 0 {
		nodeId := stack.Pop()
		if nodeId == B2_nullIndex {
			continue
		}

		node := &tree.Nodes[nodeId]
		if B2TestOverlapBoundingBoxes(node.AABB, aabb) && (node.CategoryBits&maskBits) != 0 {
			if node.IsLeaf() {
				// callback to user code with proxy id
				proceed := callback(nodeId, node.UserData)
				if proceed == false {
					return
				}
			} else {
				stack.Push(node.Child1)
				stack.Push(node.Child2)
			}
		}
	}
}

/// Ray-cast against the proxies in the tree. This relies on the callback
/// to perform a exact ray-cast in the case were the proxy contains a shape.
/// The callback also performs the any collision filtering. This has performance
/// roughly equal to k * log(n), where k is the number of collisions and n is the
/// number of proxies in the tree.
///	Bit-wise filtering using mask bits can greatly improve performance in some scenarios.
func (tree B2DynamicTree) RayCast(input B2RayCastInput, maskBits uint32, callback B2TreeRayCastCallback) {
	if tree.Root == B2_nullIndex {
		return
	}

	p1 := input.Origin
	d := input.Translation

	r := B2Vec2Normalize(d)

	// v is perpendicular to the segment.
	v := B2Vec2CrossScalarVector(1.0, r)
	abs_v := B2Vec2Abs(v)

	// Separating axis for segment (Gino, p80).
	// |dot(v, p1 - c)| > dot(|v|, h)

	maxFraction := input.MaxFraction

	p2 := B2Vec2MulAdd(p1, maxFraction, d)

	// Build a bounding box for the segment.
	segmentAABB := B2AABB{LowerBound: B2Vec2Min(p1, p2), UpperBound: B2Vec2Max(p1, p2)}

	stack := MakeB2GrowableStack[int32](256)
	stack.Push(tree.Root)

	subInput := input

	for stack.GetCount() > 0 {
		nodeId := stack.Pop()
		if nodeId == B2_nullIndex {
			continue
		}

		node := &tree.Nodes[nodeId]
		if B2TestOverlapBoundingBoxes(node.AABB, segmentAABB) == false || (node.CategoryBits&maskBits) == 0 {
			continue
		}

		// Separating axis for segment (Gino, p80).
		// |dot(v, p1 - c)| > dot(|v|, h)
		// radius extension is added to the node in this case
		c := node.AABB.GetCenter()
		h := node.AABB.GetExtents()
		term1 := math.Abs(B2Vec2Dot(v, B2Vec2Sub(p1, c)))
		term2 := B2Vec2Dot(abs_v, h)
		if term2 < term1 {
			continue
		}

		if node.IsLeaf() {
			subInput.MaxFraction = maxFraction

			value := callback(&subInput, nodeId, node.UserData)

			if value == 0.0 {
				// The client has terminated the ray cast.
				return
			}

			if 0.0 < value && value < maxFraction {
				// Update segment bounding box.
				maxFraction = value
				p2 = B2Vec2MulAdd(p1, maxFraction, d)
				segmentAABB.LowerBound = B2Vec2Min(p1, p2)
				segmentAABB.UpperBound = B2Vec2Max(p1, p2)
			}
		} else {
			stack.Push(node.Child1)
			stack.Push(node.Child2)
		}
	}
}

/// Shape-cast against the proxies in the tree. The point cloud is swept along
/// the translation and each candidate leaf is handed to the callback.
func (tree B2DynamicTree) ShapeCast(input B2ShapeCastInput, maskBits uint32, callback B2TreeShapeCastCallback) {
	if tree.Root == B2_nullIndex || input.Count == 0 {
		return
	}

	originAABB := B2AABB{LowerBound: input.Points[0], UpperBound: input.Points[0]}
	for i := 1; i < input.Count; i++ {
		originAABB.LowerBound = B2Vec2Min(originAABB.LowerBound, input.Points[i])
		originAABB.UpperBound = B2Vec2Max(originAABB.UpperBound, input.Points[i])
	}

	radius := MakeB2Vec2(input.Radius, input.Radius)

	originAABB.LowerBound = B2Vec2Sub(originAABB.LowerBound, radius)
	originAABB.UpperBound = B2Vec2Add(originAABB.UpperBound, radius)

	p1 := originAABB.GetCenter()
	extension := originAABB.GetExtents()

	// v is perpendicular to the segment.
	r := input.Translation
	v := B2Vec2Normalize(B2Vec2CrossScalarVector(1.0, r))
	abs_v := B2Vec2Abs(v)

	// Separating axis for segment (Gino, p80).
	// |dot(v, p1 - c)| > dot(|v|, h)

	maxFraction := input.MaxFraction

	// Build total box for the shape cast
	t := B2Vec2MulScalar(maxFraction, input.Translation)
	totalAABB := B2AABB{
		LowerBound: B2Vec2Min(originAABB.LowerBound, B2Vec2Add(originAABB.LowerBound, t)),
		UpperBound: B2Vec2Max(originAABB.UpperBound, B2Vec2Add(originAABB.UpperBound, t)),
	}

	subInput := input

	stack := MakeB2GrowableStack[int32](256)
	stack.Push(tree.Root)

	for stack.GetCount() > 0 {
		nodeId := stack.Pop()
		if nodeId == B2_nullIndex {
			continue
		}

		node := &tree.Nodes[nodeId]
		if B2TestOverlapBoundingBoxes(node.AABB, totalAABB) == false || (node.CategoryBits&maskBits) == 0 {
			continue
		}

		// Separating axis for segment (Gino, p80).
		// |dot(v, p1 - c)| > dot(|v|, h)
		// radius extension is added to the node in this case
		c := node.AABB.GetCenter()
		h := B2Vec2Add(node.AABB.GetExtents(), extension)
		term1 := math.Abs(B2Vec2Dot(v, B2Vec2Sub(p1, c)))
		term2 := B2Vec2Dot(abs_v, h)
		if term2 < term1 {
			continue
		}

		if node.IsLeaf() {
			subInput.MaxFraction = maxFraction

			value := callback(&subInput, nodeId, node.UserData)

			if value == 0.0 {
				// The client has terminated the ray cast.
				return
			}

			if 0.0 < value && value < maxFraction {
				// Update segment bounding box.
				maxFraction = value
				t = B2Vec2MulScalar(maxFraction, input.Translation)
				totalAABB.LowerBound = B2Vec2Min(originAABB.LowerBound, B2Vec2Add(originAABB.LowerBound, t))
				totalAABB.UpperBound = B2Vec2Max(originAABB.UpperBound, B2Vec2Add(originAABB.UpperBound, t))
			}
		} else {
			stack.Push(node.Child1)
			stack.Push(node.Child2)
		}
	}
}

/// Height of the root node. Zero for an empty tree.
func (tree B2DynamicTree) GetHeight() int {
	if tree.Root == B2_nullIndex {
		return 0
	}

	return int(tree.Nodes[tree.Root].Height)
}

/// Get the ratio of the sum of the node areas to the root area.
func (tree B2DynamicTree) GetAreaRatio() float64 {
	if tree.Root == B2_nullIndex {
		return 0.0
	}

	root := &tree.Nodes[tree.Root]
	rootArea := root.AABB.GetPerimeter()

	totalArea := 0.0
	for i := range tree.Nodes {
		node := &tree.Nodes[i]
		if node.Height < 0 || node.IsLeaf() || int32(i) == tree.Root {
			// Free node in pool
			continue
		}

		totalArea += node.AABB.GetPerimeter()
	}

	return totalArea / rootArea
}

/// Get the maximum balance of an node in the tree. The balance is the difference
/// in height of the two children of a node.
func (tree B2DynamicTree) GetMaxBalance() int {
	maxBalance := int32(0)
	for i := range tree.Nodes {
		node := &tree.Nodes[i]
		if node.Height <= 1 {
			continue
		}

		B2Assert(node.IsLeaf() == false)

		child1 := node.Child1
		child2 := node.Child2
		balance := B2Abs(tree.Nodes[child2].Height - tree.Nodes[child1].Height)
		maxBalance = B2Max(maxBalance, balance)
	}

	return int(maxBalance)
}

/// Shift the world origin. Useful for large worlds.
/// The shift formula is: position -= newOrigin
/// @param newOrigin the new origin with respect to the old origin
func (tree *B2DynamicTree) ShiftOrigin(newOrigin B2Vec2) {
	// shift all AABBs
	for i := range tree.Nodes {
		n := &tree.Nodes[i]
		n.AABB.LowerBound.X -= newOrigin.X
		n.AABB.LowerBound.Y -= newOrigin.Y
		n.AABB.UpperBound.X -= newOrigin.X
		n.AABB.UpperBound.Y -= newOrigin.Y
	}
}

func (tree B2DynamicTree) computeHeight(nodeId int32) int32 {
	B2Assert(0 <= nodeId && int(nodeId) < len(tree.Nodes))
	node := &tree.Nodes[nodeId]

	if node.IsLeaf() {
		return 0
	}

	height1 := tree.computeHeight(node.Child1)
	height2 := tree.computeHeight(node.Child2)
	return 1 + B2Max(height1, height2)
}

func (tree B2DynamicTree) validateStructure(index int32) {
	if index == B2_nullIndex {
		return
	}

	if index == tree.Root {
		B2Assert(tree.Nodes[index].Parent == B2_nullIndex)
	}

	node := &tree.Nodes[index]

	child1 := node.Child1
	child2 := node.Child2

	if node.IsLeaf() {
		B2Assert(child1 == B2_nullIndex)
		B2Assert(child2 == B2_nullIndex)
		B2Assert(node.Height == 0)
		return
	}

	B2Assert(0 <= child1 && int(child1) < len(tree.Nodes))
	B2Assert(0 <= child2 && int(child2) < len(tree.Nodes))

	B2Assert(tree.Nodes[child1].Parent == index)
	B2Assert(tree.Nodes[child2].Parent == index)

	if tree.Nodes[child1].Enlarged || tree.Nodes[child2].Enlarged {
		B2Assert(node.Enlarged == true)
	}

	tree.validateStructure(child1)
	tree.validateStructure(child2)
}

func (tree B2DynamicTree) validateMetrics(index int32) {
	if index == B2_nullIndex {
		return
	}

	node := &tree.Nodes[index]

	child1 := node.Child1
	child2 := node.Child2

	if node.IsLeaf() {
		B2Assert(child1 == B2_nullIndex)
		B2Assert(child2 == B2_nullIndex)
		B2Assert(node.Height == 0)
		return
	}

	B2Assert(0 <= child1 && int(child1) < len(tree.Nodes))
	B2Assert(0 <= child2 && int(child2) < len(tree.Nodes))

	height1 := tree.Nodes[child1].Height
	height2 := tree.Nodes[child2].Height
	height := 1 + B2Max(height1, height2)
	B2Assert(node.Height == height)

	B2Assert(node.AABB.Contains(tree.Nodes[child1].AABB))
	B2Assert(node.AABB.Contains(tree.Nodes[child2].AABB))

	categoryBits := tree.Nodes[child1].CategoryBits | tree.Nodes[child2].CategoryBits
	B2Assert(node.CategoryBits == categoryBits)

	tree.validateMetrics(child1)
	tree.validateMetrics(child2)
}

/// Validate this tree. For testing. Panics through B2Assert on failure.
func (tree B2DynamicTree) Validate() {
	if tree.Root == B2_nullIndex {
		return
	}

	tree.validateStructure(tree.Root)
	tree.validateMetrics(tree.Root)

	freeCount := 0
	freeIndex := tree.FreeList
	for freeIndex != B2_nullIndex {
		B2Assert(0 <= freeIndex && int(freeIndex) < len(tree.Nodes))
		freeIndex = tree.Nodes[freeIndex].Next
		freeCount++
	}

	height := tree.GetHeight()
	computedHeight := int(tree.computeHeight(tree.Root))
	B2Assert(height == computedHeight)

	B2Assert(int(tree.NodeCount)+freeCount == len(tree.Nodes))
}

// Median split heuristic
func b2PartitionMid(indices []int32, centers []B2Vec2) int {
	count := len(indices)

	// Handle trivial case
	if count <= 2 {
		return count / 2
	}

	lowerBound := centers[0]
	upperBound := centers[0]

	for i := 1; i < count; i++ {
		lowerBound = B2Vec2Min(lowerBound, centers[i])
		upperBound = B2Vec2Max(upperBound, centers[i])
	}

	d := B2Vec2Sub(upperBound, lowerBound)
	c := MakeB2Vec2(0.5*(lowerBound.X+upperBound.X), 0.5*(lowerBound.Y+upperBound.Y))

	// Partition longest axis using the Hoare partition scheme
	// https://en.wikipedia.org/wiki/Quicksort
	// https://nicholasvadivelu.com/2021/01/11/array-partition/
	i1 := 0
	i2 := count
	if d.X > d.Y {
		pivot := c.X

		for i1 < i2 {
			for i1 < i2 && centers[i1].X < pivot {
				i1++
			}

			for i1 < i2 && centers[i2-1].X >= pivot {
				i2--
			}

			if i1 < i2 {
				// Swap indices
				indices[i1], indices[i2-1] = indices[i2-1], indices[i1]

				// Swap centers
				centers[i1], centers[i2-1] = centers[i2-1], centers[i1]

				i1++
				i2--
			}
		}
	} else {
		pivot := c.Y

		for i1 < i2 {
			for i1 < i2 && centers[i1].Y < pivot {
				i1++
			}

			for i1 < i2 && centers[i2-1].Y >= pivot {
				i2--
			}

			if i1 < i2 {
				// Swap indices
				indices[i1], indices[i2-1] = indices[i2-1], indices[i1]

				// Swap centers
				centers[i1], centers[i2-1] = centers[i2-1], centers[i1]

				i1++
				i2--
			}
		}
	}
	B2Assert(i1 == i2)

	if i1 > 0 && i1 < count {
		return i1
	}

	return count / 2
}

type b2TreeBin struct {
	aabb  B2AABB
	count int
}

type b2TreePlane struct {
	leftAABB   B2AABB
	rightAABB  B2AABB
	leftCount  int
	rightCount int
}

// "On Fast Construction of SAH-based Bounding Volume Hierarchies" by Ingo Wald
// Returns the left child count
func b2PartitionSAH(indices []int32, binIndices []int32, boxes []B2AABB, centers []B2Vec2) int {
	count := len(indices)
	B2Assert(count > 0)

	if count <= 2 {
		return count / 2
	}

	centroidAABB := B2AABB{LowerBound: centers[0], UpperBound: centers[0]}
	for i := 1; i < count; i++ {
		centroidAABB.LowerBound = B2Vec2Min(centroidAABB.LowerBound, centers[i])
		centroidAABB.UpperBound = B2Vec2Max(centroidAABB.UpperBound, centers[i])
	}

	d := B2Vec2Sub(centroidAABB.UpperBound, centroidAABB.LowerBound)

	// Find longest axis
	axisIndex := 0
	invD := d.X
	if d.Y > d.X {
		axisIndex = 1
		invD = d.Y
	}

	if invD <= 0.0 {
		// All centers coincide
		return count / 2
	}
	invD = 1.0 / invD

	lowerBoundAxis := centroidAABB.LowerBound.X
	if axisIndex == 1 {
		lowerBoundAxis = centroidAABB.LowerBound.Y
	}

	// Initialize bin bounds and count
	var bins [B2_treeBinCount]b2TreeBin
	for i := range bins {
		bins[i].aabb = B2AABB{
			LowerBound: MakeB2Vec2(B2_maxFloat, B2_maxFloat),
			UpperBound: MakeB2Vec2(-B2_maxFloat, -B2_maxFloat),
		}
	}

	binCount := B2_treeBinCount
	binScale := (float64(binCount) - 0.1) * invD

	// Assign boxes to bins and compute bin boxes
	for i := 0; i < count; i++ {
		c := centers[i].X
		if axisIndex == 1 {
			c = centers[i].Y
		}
		binIndex := int(binScale * (c - lowerBoundAxis))
		binIndex = B2Clamp(binIndex, 0, binCount-1)
		binIndices[i] = int32(binIndex)
		bins[binIndex].count++
		bins[binIndex].aabb = B2AABBUnion(bins[binIndex].aabb, boxes[i])
	}

	planeCount := binCount - 1
	var planes [B2_treeBinCount - 1]b2TreePlane

	// Prepare all the left bounds
	planes[0].leftCount = bins[0].count
	planes[0].leftAABB = bins[0].aabb
	for i := 1; i < planeCount; i++ {
		planes[i].leftCount = planes[i-1].leftCount + bins[i].count
		planes[i].leftAABB = B2AABBUnion(planes[i-1].leftAABB, bins[i].aabb)
	}

	// Prepare all the right bounds
	planes[planeCount-1].rightCount = bins[binCount-1].count
	planes[planeCount-1].rightAABB = bins[binCount-1].aabb
	for i := planeCount - 2; i >= 0; i-- {
		planes[i].rightCount = planes[i+1].rightCount + bins[i+1].count
		planes[i].rightAABB = B2AABBUnion(planes[i+1].rightAABB, bins[i+1].aabb)
	}

	// Find best split to minimize SAH
	minCost := B2_maxFloat
	bestPlane := 0
	for i := 0; i < planeCount; i++ {
		if planes[i].leftCount == 0 || planes[i].rightCount == 0 {
			continue
		}

		leftArea := planes[i].leftAABB.GetPerimeter()
		rightArea := planes[i].rightAABB.GetPerimeter()
		leftCount := float64(planes[i].leftCount)
		rightCount := float64(planes[i].rightCount)

		cost := leftCount*leftArea + rightCount*rightArea
		if cost < minCost {
			bestPlane = i
			minCost = cost
		}
	}

	if minCost == B2_maxFloat {
		return count / 2
	}

	// Partition node indices and boxes using the Hoare partition scheme
	i1 := 0
	i2 := count
	for i1 < i2 {
		for i1 < i2 && int(binIndices[i1]) <= bestPlane {
			i1++
		}

		for i1 < i2 && int(binIndices[i2-1]) > bestPlane {
			i2--
		}

		if i1 < i2 {
			indices[i1], indices[i2-1] = indices[i2-1], indices[i1]
			boxes[i1], boxes[i2-1] = boxes[i2-1], boxes[i1]
			centers[i1], centers[i2-1] = centers[i2-1], centers[i1]
			binIndices[i1], binIndices[i2-1] = binIndices[i2-1], binIndices[i1]

			i1++
			i2--
		}
	}
	B2Assert(i1 == i2)

	if i1 > 0 && i1 < count {
		return i1
	}

	return count / 2
}

// Temporary data used to track the rebuild of a tree node
type b2RebuildItem struct {
	nodeIndex  int32
	childCount int
	startIndex int
	splitIndex int
	endIndex   int
}

func (tree *B2DynamicTree) partition(startIndex, endIndex int) int {
	if B2_treeSAHSplit {
		return b2PartitionSAH(
			tree.leafIndices[startIndex:endIndex],
			tree.binIndices[startIndex:endIndex],
			tree.leafBoxes[startIndex:endIndex],
			tree.leafCenters[startIndex:endIndex],
		)
	}

	return b2PartitionMid(tree.leafIndices[startIndex:endIndex], tree.leafCenters[startIndex:endIndex])
}

// Returns root node index
func (tree *B2DynamicTree) buildTree(leafCount int) int32 {
	leafIndices := tree.leafIndices

	if leafCount == 1 {
		tree.Nodes[leafIndices[0]].Parent = B2_nullIndex
		return leafIndices[0]
	}

	var stack [B2_treeStackSize]b2RebuildItem
	top := 0

	stack[0].nodeIndex = tree.allocateNode()
	stack[0].childCount = -1
	stack[0].startIndex = 0
	stack[0].endIndex = leafCount
	stack[0].splitIndex = tree.partition(0, leafCount)

	for {
		item := &stack[top]

		item.childCount++

		if item.childCount == 2 {
			// This internal node has both children established

			if top == 0 {
				// all done
				break
			}

			parentItem := &stack[top-1]
			parentNode := &tree.Nodes[parentItem.nodeIndex]

			if parentItem.childCount == 0 {
				B2Assert(parentNode.Child1 == B2_nullIndex)
				parentNode.Child1 = item.nodeIndex
			} else {
				B2Assert(parentItem.childCount == 1)
				B2Assert(parentNode.Child2 == B2_nullIndex)
				parentNode.Child2 = item.nodeIndex
			}

			node := &tree.Nodes[item.nodeIndex]

			B2Assert(node.Parent == B2_nullIndex)
			node.Parent = parentItem.nodeIndex

			B2Assert(node.Child1 != B2_nullIndex)
			B2Assert(node.Child2 != B2_nullIndex)
			child1 := &tree.Nodes[node.Child1]
			child2 := &tree.Nodes[node.Child2]

			node.AABB = B2AABBUnion(child1.AABB, child2.AABB)
			node.Height = 1 + B2Max(child1.Height, child2.Height)
			node.CategoryBits = child1.CategoryBits | child2.CategoryBits

			// Pop stack
			top--
		} else {
			var startIndex, endIndex int
			if item.childCount == 0 {
				startIndex = item.startIndex
				endIndex = item.splitIndex
			} else {
				B2Assert(item.childCount == 1)
				startIndex = item.splitIndex
				endIndex = item.endIndex
			}

			B2Assert(startIndex < endIndex)

			count := endIndex - startIndex

			if count == 1 {
				childIndex := leafIndices[startIndex]
				node := &tree.Nodes[item.nodeIndex]

				if item.childCount == 0 {
					B2Assert(node.Child1 == B2_nullIndex)
					node.Child1 = childIndex
				} else {
					B2Assert(item.childCount == 1)
					B2Assert(node.Child2 == B2_nullIndex)
					node.Child2 = childIndex
				}

				childNode := &tree.Nodes[childIndex]
				B2Assert(childNode.Parent == B2_nullIndex)
				childNode.Parent = item.nodeIndex
			} else {
				B2Assert(count > 0)
				B2Assert(top < B2_treeStackSize-1)

				top++
				newItem := &stack[top]
				newItem.nodeIndex = tree.allocateNode()
				newItem.childCount = -1
				newItem.startIndex = startIndex
				newItem.endIndex = endIndex
				newItem.splitIndex = startIndex + tree.partition(startIndex, endIndex)
			}
		}
	}

	rootNode := &tree.Nodes[stack[0].nodeIndex]
	B2Assert(rootNode.Height == 0)
	B2Assert(rootNode.Child1 != B2_nullIndex)
	B2Assert(rootNode.Child2 != B2_nullIndex)

	child1 := &tree.Nodes[rootNode.Child1]
	child2 := &tree.Nodes[rootNode.Child2]

	rootNode.AABB = B2AABBUnion(child1.AABB, child2.AABB)
	rootNode.Height = 1 + B2Max(child1.Height, child2.Height)
	rootNode.CategoryBits = child1.CategoryBits | child2.CategoryBits

	return stack[0].nodeIndex
}

/// Rebuild the tree while retaining subtrees that haven't changed. Returns the number of boxes sorted.
/// A full build discards every internal node, a partial build only discards
/// the internal nodes that were enlarged since the last rebuild.
func (tree *B2DynamicTree) Rebuild(fullBuild bool) int {
	proxyCount := int(tree.ProxyCount)
	if proxyCount == 0 {
		return 0
	}

	// Ensure capacity for rebuild space
	if proxyCount > len(tree.leafIndices) {
		newCapacity := proxyCount + proxyCount/2

		tree.leafIndices = make([]int32, newCapacity)
		tree.leafBoxes = make([]B2AABB, newCapacity)
		tree.leafCenters = make([]B2Vec2, newCapacity)
		tree.binIndices = make([]int32, newCapacity)
	}

	leafCount := 0
	stack := MakeB2GrowableStack[int32](B2_treeStackSize)

	nodeIndex := tree.Root

	// These are the nodes that get sorted to rebuild the tree.
	// I'm using indices because the node pool may grow during the build.
	leafIndices := tree.leafIndices
	leafBoxes := tree.leafBoxes
	leafCenters := tree.leafCenters

	// Gather all proxy nodes that have grown and all internal nodes that haven't grown. Both are
	// considered leaves in the tree rebuild.
	// Free all internal nodes that have grown.
	for {
		node := &tree.Nodes[nodeIndex]
		if node.Height == 0 || (node.Enlarged == false && fullBuild == false) {
			leafIndices[leafCount] = nodeIndex
			leafBoxes[leafCount] = node.AABB
			leafCenters[leafCount] = node.AABB.GetCenter()
			leafCount++

			// Detach
			node.Parent = B2_nullIndex
		} else {
			doomedNodeIndex := nodeIndex

			// Handle children
			nodeIndex = node.Child1

			B2Assert(stack.GetCount() < B2_treeStackSize)
			stack.Push(node.Child2)

			// Remove doomed node
			tree.freeNode(doomedNodeIndex)

			continue
		}

		if stack.GetCount() == 0 {
			break
		}

		nodeIndex = stack.Pop()
	}

	B2Assert(leafCount <= proxyCount)

	// Leaves keep their enlarged flag cleared so the next partial build starts fresh
	for i := 0; i < leafCount; i++ {
		tree.Nodes[leafIndices[i]].Enlarged = false
	}

	tree.Root = tree.buildTree(leafCount)

	return leafCount
}
