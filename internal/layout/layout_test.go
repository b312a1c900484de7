package layout

import (
	"math"
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const eps = 1e-9

func TestGenerateDeterministic(t *testing.T) {
	a := Generate(DefaultParams())
	b := Generate(DefaultParams())
	if !reflect.DeepEqual(a, b) {
		t.Fatal("two runs with equal params differ")
	}
}

func TestGenerateSegmentCounts(t *testing.T) {
	got := map[Segment]int{}
	for _, pl := range Generate(DefaultParams()) {
		got[pl.Segment]++
	}
	want := map[Segment]int{
		SegStraightIn:   9,
		SegArc:          25,
		SegStraightOut:  9,
		SegStraightFork: 9,
		SegLeftBranch:   22,
		SegRightBranch:  22,
		SegTail:         15,
	}
	for seg, n := range want {
		if got[seg] != n {
			t.Errorf("%v: got %d placements, want %d", seg, got[seg], n)
		}
	}
}

func TestForkExcludedFromBodies(t *testing.T) {
	placements := Generate(DefaultParams())
	bodies := Bodies(placements)
	if len(bodies) != len(placements)-1 {
		t.Fatalf("bodies = %d, placements = %d, want exactly one skipped", len(bodies), len(placements))
	}

	var forks []Placement
	for _, pl := range placements {
		if pl.Fork {
			forks = append(forks, pl)
		}
	}
	if len(forks) != 1 {
		t.Fatalf("got %d fork placements, want 1", len(forks))
	}
	fork := forks[0]
	if fork.Segment != SegStraightFork {
		t.Errorf("fork segment = %v", fork.Segment)
	}
	want := mgl64.Vec3{15 - 2*8.1, 0.5, 8.1}
	if !fork.Position.ApproxEqualThreshold(want, 1e-6) {
		t.Errorf("fork at %v, want %v", fork.Position, want)
	}
}

func TestIndicesMatchOrder(t *testing.T) {
	for i, pl := range Generate(DefaultParams()) {
		if pl.Index != i {
			t.Fatalf("placement %d has Index %d", i, pl.Index)
		}
	}
}

func TestBranchTags(t *testing.T) {
	for _, pl := range Generate(DefaultParams()) {
		wantRight := pl.Segment == SegRightBranch
		if (pl.Branch == BranchRight) != wantRight {
			t.Errorf("placement %d (%v) filed under %v", pl.Index, pl.Segment, pl.Branch)
		}
	}
}

func TestTrackIsContiguous(t *testing.T) {
	placements := Generate(DefaultParams())
	// Straight-in through the fork is one continuous run at roughly the
	// configured spacing.
	for i := 1; i < len(placements); i++ {
		a, b := placements[i-1], placements[i]
		if b.Segment > SegStraightFork {
			break
		}
		d := b.Position.Sub(a.Position).Len()
		if d < 0.5 || d > 1.2 {
			t.Errorf("gap %d->%d is %.3f", a.Index, b.Index, d)
		}
	}
}

func TestStraightFacings(t *testing.T) {
	placements := Generate(DefaultParams())
	for _, pl := range placements {
		switch pl.Segment {
		case SegStraightIn:
			if math.Abs(math.Abs(pl.Facing)-math.Pi) > eps {
				t.Errorf("straight-in %d faces %.4f, want ±π", pl.Index, pl.Facing)
			}
		case SegStraightOut:
			if math.Abs(pl.Facing) > eps {
				t.Errorf("straight-out %d faces %.4f, want 0", pl.Index, pl.Facing)
			}
		}
	}
}

func TestTerminalsFacePredecessor(t *testing.T) {
	placements := Generate(DefaultParams())

	var lastLeft, lastRight, lastTail int
	for _, pl := range placements {
		switch pl.Segment {
		case SegLeftBranch:
			lastLeft = pl.Index
		case SegRightBranch:
			lastRight = pl.Index
		case SegTail:
			lastTail = pl.Index
		}
	}
	for _, idx := range []int{lastLeft, lastRight, lastTail} {
		pl := placements[idx]
		prev := placements[idx-1].Position
		want := math.Atan2(pl.Position.X()-prev.X(), pl.Position.Z()-prev.Z())
		if math.Abs(pl.Facing-want) > eps {
			t.Errorf("%v terminal %d faces %.4f, want %.4f", pl.Segment, idx, pl.Facing, want)
		}
	}
}

func TestTailGrows(t *testing.T) {
	var tail []Placement
	for _, pl := range Generate(DefaultParams()) {
		if pl.Segment == SegTail {
			tail = append(tail, pl)
		}
	}
	for i, pl := range tail {
		if pl.TailOrdinal != i {
			t.Errorf("tail %d has ordinal %d", i, pl.TailOrdinal)
		}
	}
	for i := 2; i < len(tail); i++ {
		prevGap := tail[i-1].Position.Sub(tail[i-2].Position).Len()
		gap := tail[i].Position.Sub(tail[i-1].Position).Len()
		if gap <= prevGap {
			t.Errorf("tail gap %d (%.4f) not larger than %.4f", i, gap, prevGap)
		}
	}
}

func TestNonTailOrdinal(t *testing.T) {
	for _, pl := range Generate(DefaultParams()) {
		if pl.Segment != SegTail && pl.TailOrdinal != -1 {
			t.Errorf("placement %d (%v) has tail ordinal %d", pl.Index, pl.Segment, pl.TailOrdinal)
		}
	}
}

func TestSegmentString(t *testing.T) {
	if SegArc.String() != "arc" || Segment(42).String() != "unknown" {
		t.Error("unexpected segment names")
	}
}
