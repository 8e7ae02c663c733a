package box2d_test

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"testing"

	box2d "github.com/Alexander-r/box2d.go/v3"
	"github.com/pmezard/go-difflib/difflib"
)

func checkMatch(t *testing.T, expected, current string) {
	t.Helper()

	if current != expected {
		diff := difflib.UnifiedDiff{
			A:        difflib.SplitLines(expected),
			B:        difflib.SplitLines(current),
			FromFile: "Expected",
			ToFile:   "Current",
			Context:  0,
		}
		text, _ := difflib.GetUnifiedDiffString(diff)
		t.Fatalf("NOT Matching reference. Failure: \n%s", text)
	}
}

func formatIds(ids []int32) string {
	sorted := append([]int32(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sb strings.Builder
	for _, id := range sorted {
		fmt.Fprintf(&sb, "%d\n", id)
	}
	return sb.String()
}

// Rounds to three decimals and folds negative zero so "%.3f" output is stable
// under mirrored inputs.
func round3(x float64) float64 {
	r := math.Round(x*1000.0) / 1000.0
	if r == 0.0 {
		return 0.0
	}
	return r
}

// Small deterministic generator so the scenarios do not depend on math/rand
// seeding behaviour across Go releases.
type lcg struct {
	state uint32
}

func (g *lcg) next() uint32 {
	g.state = g.state*1664525 + 1013904223
	return g.state
}

func (g *lcg) float(lo, hi float64) float64 {
	return lo + (hi-lo)*float64(g.next()>>8)/float64(1<<24)
}

func (g *lcg) vec(lo, hi float64) box2d.B2Vec2 {
	return box2d.MakeB2Vec2(g.float(lo, hi), g.float(lo, hi))
}
