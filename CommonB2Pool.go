package box2d

// Stable index storage for world objects. Slots are recycled through an
// index-linked free list stored in the freed slots themselves. A live slot
// links to itself, which is how a stale index is told apart from a live one.
// Each reuse bumps the slot revision so handles to the previous occupant stop
// validating.
//
// Pointers returned by Get are only valid until the next Allocate on the same
// pool because growth reallocates the backing array.
type B2Pool[T any] struct {
	slots    []b2PoolSlot[T]
	freeList int32
	count    int
}

type b2PoolSlot[T any] struct {
	value    T
	next     int32
	revision uint16
}

func MakeB2Pool[T any](capacity int) B2Pool[T] {
	pool := B2Pool[T]{
		freeList: B2_nullIndex,
	}
	if capacity > 0 {
		pool.grow(capacity)
	}
	return pool
}

// Extends the backing storage and links the new tail slots into the free list.
// Live indices are preserved.
func (pool *B2Pool[T]) grow(newCapacity int) {
	oldCapacity := len(pool.slots)
	B2Assert(newCapacity > oldCapacity)

	slots := make([]b2PoolSlot[T], newCapacity)
	copy(slots, pool.slots)

	for i := oldCapacity; i < newCapacity-1; i++ {
		slots[i].next = int32(i + 1)
	}
	slots[newCapacity-1].next = pool.freeList

	pool.slots = slots
	pool.freeList = int32(oldCapacity)
}

// Allocate a slot. Returns the slot index and its new revision.
func (pool *B2Pool[T]) Allocate() (int32, uint16) {
	if pool.freeList == B2_nullIndex {
		newCapacity := B2Max(16, len(pool.slots)+len(pool.slots)/2)
		pool.grow(newCapacity)
	}

	index := pool.freeList
	slot := &pool.slots[index]
	pool.freeList = slot.next

	var zero T
	slot.value = zero
	slot.next = index
	slot.revision += 1
	pool.count += 1

	return index, slot.revision
}

// Return a slot to the free list. The revision is bumped on reuse, not here.
func (pool *B2Pool[T]) Free(index int32) {
	B2Assert(pool.IsAllocated(index))

	slot := &pool.slots[index]
	var zero T
	slot.value = zero
	slot.next = pool.freeList
	pool.freeList = index
	pool.count -= 1
}

// Is the slot currently live?
func (pool *B2Pool[T]) IsAllocated(index int32) bool {
	return 0 <= index && int(index) < len(pool.slots) && pool.slots[index].next == index
}

// Does the (index, revision) handle refer to the current occupant of a live slot?
func (pool *B2Pool[T]) Valid(index int32, revision uint16) bool {
	if pool.IsAllocated(index) == false {
		return false
	}
	return pool.slots[index].revision == revision
}

func (pool *B2Pool[T]) Get(index int32) *T {
	B2Assert(pool.IsAllocated(index))
	return &pool.slots[index].value
}

func (pool *B2Pool[T]) Revision(index int32) uint16 {
	return pool.slots[index].revision
}

// Number of live slots
func (pool *B2Pool[T]) Count() int {
	return pool.count
}

// Number of slots, live or free. Valid indices are below this.
func (pool *B2Pool[T]) Capacity() int {
	return len(pool.slots)
}

// Calls fn for every live slot in index order.
func (pool *B2Pool[T]) ForEach(fn func(index int32, value *T)) {
	for i := range pool.slots {
		if pool.slots[i].next == int32(i) {
			fn(int32(i), &pool.slots[i].value)
		}
	}
}
