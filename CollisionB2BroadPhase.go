package box2d

// The broad-phase is used for computing pairs and performing volume queries and ray casts.
// This broad-phase does not persist pairs. Instead, this reports potentially new pairs.
// It is up to the client to consume the new pairs and to track subsequent overlap.
// There is one tree per body type. Static proxies are not queried against
// each other, neither are kinematic proxies.

// Store the proxy type in the lower 2 bits of the proxy key. This leaves 30 bits for the id.
func B2ProxyType(key int32) uint8 {
	return uint8(key & 3)
}

func B2ProxyId(key int32) int32 {
	return key >> 2
}

func B2ProxyKey(id int32, bodyType uint8) int32 {
	return id<<2 | int32(bodyType)
}

// Order independent key for a pair of shape indices.
func B2ShapePairKey(k1, k2 int32) uint64 {
	if k1 < k2 {
		return uint64(k1)<<32 | uint64(uint32(k2))
	}
	return uint64(k2)<<32 | uint64(uint32(k1))
}

/// Decides whether two shapes may form a contact. Called from query tasks,
/// so it must not mutate shared state.
type B2BroadPhasePairFilter func(shapeIndexA int32, shapeIndexB int32) bool

/// Receives each new pair once. Returns true when a contact was created for it,
/// in which case the pair is remembered until RemovePair.
type B2BroadPhaseAddPairCallback func(shapeIndexA int32, shapeIndexB int32) bool

type b2MovePair struct {
	shapeIndexA int32
	shapeIndexB int32
}

type B2BroadPhase struct {
	Trees [B2_bodyTypeCount]B2DynamicTree

	ProxyCount int

	// The move set and array are used to track shapes that have moved significantly
	// and need a pair query for new contacts. The array has a deterministic order.
	moveSet   map[int32]struct{}
	moveArray []int32

	// Tracks shape pairs that have a b2Contact
	pairSet map[uint64]struct{}

	moveResults [][]b2MovePair
}

///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
// BroadPhase.cpp
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////

func MakeB2BroadPhase() B2BroadPhase {
	bp := B2BroadPhase{
		moveSet:   make(map[int32]struct{}, 16),
		moveArray: make([]int32, 0, 16),
		pairSet:   make(map[uint64]struct{}, 32),
	}

	for i := range bp.Trees {
		bp.Trees[i] = MakeB2DynamicTree()
	}

	return bp
}

func NewB2BroadPhase() *B2BroadPhase {
	res := MakeB2BroadPhase()
	return &res
}

func (bp *B2BroadPhase) BufferMove(queryProxy int32) {
	if _, ok := bp.moveSet[queryProxy]; ok {
		return
	}

	bp.moveSet[queryProxy] = struct{}{}
	bp.moveArray = append(bp.moveArray, queryProxy)
}

func (bp *B2BroadPhase) unBufferMove(proxyKey int32) {
	if _, ok := bp.moveSet[proxyKey]; !ok {
		return
	}

	delete(bp.moveSet, proxyKey)

	// Purge from move buffer. Linear search.
	count := len(bp.moveArray)
	for i := 0; i < count; i++ {
		if bp.moveArray[i] == proxyKey {
			bp.moveArray[i] = bp.moveArray[count-1]
			bp.moveArray = bp.moveArray[:count-1]
			break
		}
	}
}

/// Create a proxy in the tree of the given body type. Static proxies do not
/// look for pairs unless forcePairCreation is set.
func (bp *B2BroadPhase) CreateProxy(aabb B2AABB, categoryBits uint32, shapeIndex int32, proxyType uint8, forcePairCreation bool) int32 {
	B2Assert(proxyType < B2_bodyTypeCount)
	proxyId := bp.Trees[proxyType].CreateProxy(aabb, categoryBits, shapeIndex)
	proxyKey := B2ProxyKey(proxyId, proxyType)
	if proxyType != B2BodyType.E_staticBody || forcePairCreation {
		bp.BufferMove(proxyKey)
	}
	bp.ProxyCount++
	return proxyKey
}

func (bp *B2BroadPhase) DestroyProxy(proxyKey int32) {
	B2Assert(len(bp.moveArray) == len(bp.moveSet))
	bp.unBufferMove(proxyKey)

	bp.ProxyCount--
	typeIndex := B2ProxyType(proxyKey)
	proxyId := B2ProxyId(proxyKey)

	bp.Trees[typeIndex].DestroyProxy(proxyId)
}

/// Reinsert a proxy with a new box and queue it for a pair query.
func (bp *B2BroadPhase) MoveProxy(proxyKey int32, aabb B2AABB) {
	typeIndex := B2ProxyType(proxyKey)
	proxyId := B2ProxyId(proxyKey)

	bp.Trees[typeIndex].MoveProxy(proxyId, aabb)
	bp.BufferMove(proxyKey)
}

/// Grow a proxy in place and queue it for a pair query.
func (bp *B2BroadPhase) EnlargeProxy(proxyKey int32, aabb B2AABB) {
	B2Assert(proxyKey != B2_nullIndex)
	typeIndex := B2ProxyType(proxyKey)
	proxyId := B2ProxyId(proxyKey)

	B2Assert(typeIndex != B2BodyType.E_staticBody)

	bp.Trees[typeIndex].EnlargeProxy(proxyId, aabb)
	bp.BufferMove(proxyKey)
}

func (bp B2BroadPhase) GetFatAABB(proxyKey int32) B2AABB {
	typeIndex := B2ProxyType(proxyKey)
	proxyId := B2ProxyId(proxyKey)
	return bp.Trees[typeIndex].GetFatAABB(proxyId)
}

func (bp B2BroadPhase) GetShapeIndex(proxyKey int32) int32 {
	typeIndex := B2ProxyType(proxyKey)
	proxyId := B2ProxyId(proxyKey)
	return bp.Trees[typeIndex].GetUserData(proxyId)
}

func (bp B2BroadPhase) TestOverlap(proxyKeyA int32, proxyKeyB int32) bool {
	return B2TestOverlapBoundingBoxes(bp.GetFatAABB(proxyKeyA), bp.GetFatAABB(proxyKeyB))
}

func (bp B2BroadPhase) GetProxyCount() int {
	return bp.ProxyCount
}

func (bp B2BroadPhase) GetMoveCount() int {
	return len(bp.moveArray)
}

func (bp B2BroadPhase) GetPairCount() int {
	return len(bp.pairSet)
}

func (bp B2BroadPhase) HasPair(shapeIndexA int32, shapeIndexB int32) bool {
	_, ok := bp.pairSet[B2ShapePairKey(shapeIndexA, shapeIndexB)]
	return ok
}

/// Forget a pair so the next overlap query may report it again. Called when
/// the contact for the pair is destroyed.
func (bp *B2BroadPhase) RemovePair(shapeIndexA int32, shapeIndexB int32) {
	delete(bp.pairSet, B2ShapePairKey(shapeIndexA, shapeIndexB))
}

func (bp B2BroadPhase) GetTreeHeight() int {
	height := 0
	for i := range bp.Trees {
		height = B2Max(height, bp.Trees[i].GetHeight())
	}
	return height
}

func (bp B2BroadPhase) GetTreeBalance() int {
	balance := 0
	for i := range bp.Trees {
		balance = B2Max(balance, bp.Trees[i].GetMaxBalance())
	}
	return balance
}

func (bp B2BroadPhase) GetTreeQuality() float64 {
	return bp.Trees[B2BodyType.E_dynamicBody].GetAreaRatio()
}

// Find the new pairs of one moved proxy.
func (bp *B2BroadPhase) findPairs(moveIndex int, filter B2BroadPhasePairFilter) {
	queryProxyKey := bp.moveArray[moveIndex]
	pairs := bp.moveResults[moveIndex][:0]

	if queryProxyKey == B2_nullIndex {
		bp.moveResults[moveIndex] = pairs
		return
	}

	queryProxyType := B2ProxyType(queryProxyKey)
	queryProxyId := B2ProxyId(queryProxyKey)
	queryShapeIndex := bp.Trees[queryProxyType].GetUserData(queryProxyId)

	// We have to query the tree with the fat AABB so that
	// we don't fail to create a contact that may touch later.
	fatAABB := bp.Trees[queryProxyType].GetFatAABB(queryProxyId)

	var queryTreeType uint8
	callback := func(proxyId int32, shapeIndex int32) bool {
		proxyKey := B2ProxyKey(proxyId, queryTreeType)

		// A proxy cannot form a pair with itself.
		if proxyKey == queryProxyKey {
			return true
		}

		// De-duplication. A moved dynamic proxy finds every pair it is part of,
		// so other moved proxies leave those pairs to it.
		if queryProxyType == B2BodyType.E_dynamicBody {
			if queryTreeType == B2BodyType.E_dynamicBody && proxyKey < queryProxyKey {
				if _, moved := bp.moveSet[proxyKey]; moved {
					// Both proxies are moving. Avoid duplicate pairs.
					return true
				}
			}
		} else {
			B2Assert(queryTreeType == B2BodyType.E_dynamicBody)
			if _, moved := bp.moveSet[proxyKey]; moved {
				return true
			}
		}

		if _, exists := bp.pairSet[B2ShapePairKey(shapeIndex, queryShapeIndex)]; exists {
			// contact exists
			return true
		}

		if filter != nil && filter(shapeIndex, queryShapeIndex) == false {
			return true
		}

		shapeIndexA := B2Min(shapeIndex, queryShapeIndex)
		shapeIndexB := B2Max(shapeIndex, queryShapeIndex)
		pairs = append(pairs, b2MovePair{shapeIndexA: shapeIndexA, shapeIndexB: shapeIndexB})

		// continue the query
		return true
	}

	// Query trees. Only dynamic proxies collide with kinematic and static proxies.
	// Using B2_defaultMaskBits so that the shape filter decides.
	if queryProxyType == B2BodyType.E_dynamicBody {
		queryTreeType = B2BodyType.E_kinematicBody
		bp.Trees[B2BodyType.E_kinematicBody].Query(fatAABB, B2_defaultMaskBits, callback)

		queryTreeType = B2BodyType.E_staticBody
		bp.Trees[B2BodyType.E_staticBody].Query(fatAABB, B2_defaultMaskBits, callback)
	}

	// All proxies have to query the dynamic tree
	queryTreeType = B2BodyType.E_dynamicBody
	bp.Trees[B2BodyType.E_dynamicBody].Query(fatAABB, B2_defaultMaskBits, callback)

	bp.moveResults[moveIndex] = pairs
}

/// Query every moved proxy for new pairs and hand each surviving pair to
/// addPair exactly once. The queries run as a task on the scheduler; pair
/// creation is serial and happens in move order so results are deterministic.
func (bp *B2BroadPhase) UpdatePairs(scheduler B2TaskScheduler, filter B2BroadPhasePairFilter, addPair B2BroadPhaseAddPairCallback) int {
	B2Assert(len(bp.moveArray) == len(bp.moveSet))

	moveCount := len(bp.moveArray)
	if moveCount == 0 {
		return 0
	}

	for len(bp.moveResults) < moveCount {
		bp.moveResults = append(bp.moveResults, nil)
	}

	task := func(startIndex int, endIndex int, workerIndex int, context any) {
		for i := startIndex; i < endIndex; i++ {
			bp.findPairs(i, filter)
		}
	}

	if scheduler == nil {
		scheduler = B2SerialScheduler{}
	}

	minRange := 64
	handle := scheduler.EnqueueTask(task, moveCount, minRange, nil)
	if handle != nil {
		scheduler.FinishTask(handle)
	}

	// Single threaded work
	pairCount := 0
	for i := 0; i < moveCount; i++ {
		for _, pair := range bp.moveResults[i] {
			pairKey := B2ShapePairKey(pair.shapeIndexA, pair.shapeIndexB)
			if _, exists := bp.pairSet[pairKey]; exists {
				continue
			}

			if addPair(pair.shapeIndexA, pair.shapeIndexB) {
				bp.pairSet[pairKey] = struct{}{}
				pairCount++
			}
		}
		bp.moveResults[i] = bp.moveResults[i][:0]
	}

	// Reset move buffer
	bp.moveArray = bp.moveArray[:0]
	for key := range bp.moveSet {
		delete(bp.moveSet, key)
	}

	return pairCount
}

/// Partial rebuild of the trees that change every step.
func (bp *B2BroadPhase) RebuildTrees() {
	bp.Trees[B2BodyType.E_dynamicBody].Rebuild(false)
	bp.Trees[B2BodyType.E_kinematicBody].Rebuild(false)
}

func (bp *B2BroadPhase) ShiftOrigin(newOrigin B2Vec2) {
	for i := range bp.Trees {
		bp.Trees[i].ShiftOrigin(newOrigin)
	}
}

func (bp B2BroadPhase) Validate() {
	for i := range bp.Trees {
		bp.Trees[i].Validate()
	}
}
