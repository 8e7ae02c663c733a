package box2d_test

import (
	"fmt"
	"strings"
	"testing"

	box2d "github.com/Alexander-r/box2d.go/v3"
)

type poolItem struct {
	name  string
	value int
}

func TestPoolHandles(t *testing.T) {
	pool := box2d.MakeB2Pool[poolItem](2)

	var sb strings.Builder

	indexA, revA := pool.Allocate()
	pool.Get(indexA).name = "a"
	indexB, revB := pool.Allocate()
	pool.Get(indexB).name = "b"

	// forces growth, earlier indices must survive
	indexC, revC := pool.Allocate()
	pool.Get(indexC).name = "c"

	fmt.Fprintf(&sb, "a=%d/%d b=%d/%d c=%d/%d count=%d\n", indexA, revA, indexB, revB, indexC, revC, pool.Count())
	fmt.Fprintf(&sb, "a=%s b=%s c=%s\n", pool.Get(indexA).name, pool.Get(indexB).name, pool.Get(indexC).name)

	pool.Free(indexB)
	fmt.Fprintf(&sb, "b valid after free=%v allocated=%v count=%d\n", pool.Valid(indexB, revB), pool.IsAllocated(indexB), pool.Count())

	// the freed slot is reused with a new revision and zeroed contents
	indexD, revD := pool.Allocate()
	fmt.Fprintf(&sb, "d=%d/%d name=%q\n", indexD, revD, pool.Get(indexD).name)
	fmt.Fprintf(&sb, "stale b valid=%v d valid=%v\n", pool.Valid(indexB, revB), pool.Valid(indexD, revD))
	fmt.Fprintf(&sb, "out of range valid=%v\n", pool.Valid(int32(pool.Capacity()+5), 1))

	expected := "a=0/1 b=1/1 c=2/1 count=3\n" +
		"a=a b=b c=c\n" +
		"b valid after free=false allocated=false count=2\n" +
		"d=1/2 name=\"\"\n" +
		"stale b valid=false d valid=true\n" +
		"out of range valid=false\n"

	checkMatch(t, expected, sb.String())
}

func TestPoolForEach(t *testing.T) {
	pool := box2d.MakeB2Pool[poolItem](0)
	for i := 0; i < 40; i++ {
		index, _ := pool.Allocate()
		pool.Get(index).value = i
	}
	for i := int32(0); i < 40; i += 2 {
		pool.Free(i)
	}

	sum := 0
	visited := 0
	pool.ForEach(func(index int32, item *poolItem) {
		sum += item.value
		visited++
	})

	// odd values 1..39
	checkMatch(t, "visited=20 sum=400", fmt.Sprintf("visited=%d sum=%d", visited, sum))
}

func TestBitSet(t *testing.T) {
	set := box2d.MakeB2BitSet(10)
	set.SetBit(3)
	set.SetBit(64)
	set.SetBit(200)
	set.ClearBit(64)

	other := box2d.MakeB2BitSet(64)
	other.SetBit(5)
	set.InPlaceUnion(other)

	var bits []int32
	set.ForEach(func(bitIndex int) {
		bits = append(bits, int32(bitIndex))
	})

	checkMatch(t, "3\n5\n200\n", formatIds(bits))
	if set.GetBit(64) || set.GetBit(1000) {
		t.Fatalf("cleared or out of range bits should read false")
	}
}
