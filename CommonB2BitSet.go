package box2d

import (
	"math/bits"
)

// Bit set provides fast operations on large arrays of bits.
type B2BitSet struct {
	Bits []uint64
}

func MakeB2BitSet(bitCapacity int) B2BitSet {
	return B2BitSet{
		Bits: make([]uint64, (bitCapacity+63)/64),
	}
}

// Resize the set to bitCount bits and clear every bit.
func (set *B2BitSet) SetBitCountAndClear(bitCount int) {
	blockCount := (bitCount + 63) / 64
	if cap(set.Bits) < blockCount {
		set.Bits = make([]uint64, blockCount)
		return
	}
	set.Bits = set.Bits[:blockCount]
	for i := range set.Bits {
		set.Bits[i] = 0
	}
}

// Grow the set so it can hold bitCount bits. Existing bits are kept.
func (set *B2BitSet) Grow(bitCount int) {
	blockCount := (bitCount + 63) / 64
	if len(set.Bits) >= blockCount {
		return
	}
	set.Bits = append(set.Bits, make([]uint64, blockCount-len(set.Bits))...)
}

func (set *B2BitSet) SetBit(bitIndex int) {
	blockIndex := bitIndex / 64
	if blockIndex >= len(set.Bits) {
		set.Grow(bitIndex + 1)
	}
	set.Bits[blockIndex] |= uint64(1) << uint(bitIndex%64)
}

func (set *B2BitSet) ClearBit(bitIndex int) {
	blockIndex := bitIndex / 64
	if blockIndex >= len(set.Bits) {
		return
	}
	set.Bits[blockIndex] &^= uint64(1) << uint(bitIndex%64)
}

func (set B2BitSet) GetBit(bitIndex int) bool {
	blockIndex := bitIndex / 64
	if blockIndex >= len(set.Bits) {
		return false
	}
	return (set.Bits[blockIndex] & (uint64(1) << uint(bitIndex%64))) != 0
}

// Or other into this set. This set grows to fit.
func (set *B2BitSet) InPlaceUnion(other B2BitSet) {
	if len(other.Bits) > len(set.Bits) {
		set.Grow(len(other.Bits) * 64)
	}
	for i, block := range other.Bits {
		set.Bits[i] |= block
	}
}

// Calls fn for every set bit in increasing order.
func (set B2BitSet) ForEach(fn func(bitIndex int)) {
	for k, block := range set.Bits {
		for block != 0 {
			ctz := bits.TrailingZeros64(block)
			fn(64*k + ctz)
			block &= block - 1
		}
	}
}

func (set B2BitSet) Count() int {
	count := 0
	for _, block := range set.Bits {
		count += bits.OnesCount64(block)
	}
	return count
}
