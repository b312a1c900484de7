// Package layout generates the domino track: a straight run, a U-turn arc,
// two straight runs ending at a fork, two curved branches and a growing tail
// continuing the left branch.
//
// Generation is pure. Every placement carries the segment it belongs to, so
// consumers never recover structure from index arithmetic.
package layout

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Segment identifies the part of the track a placement belongs to.
type Segment int

const (
	SegStraightIn Segment = iota
	SegArc
	SegStraightOut
	// SegStraightFork is the run whose last point is the fork.
	SegStraightFork
	SegLeftBranch
	SegRightBranch
	SegTail
)

var segmentNames = [...]string{
	SegStraightIn:   "straight-in",
	SegArc:          "arc",
	SegStraightOut:  "straight-out",
	SegStraightFork: "straight-fork",
	SegLeftBranch:   "left-branch",
	SegRightBranch:  "right-branch",
	SegTail:         "tail",
}

// String returns the segment name.
func (s Segment) String() string {
	if s < 0 || int(s) >= len(segmentNames) {
		return "unknown"
	}
	return segmentNames[s]
}

// Branch is the group a placement is filed under. Everything that is not on
// the right fork counts as the left group.
type Branch int

const (
	BranchLeft Branch = iota
	BranchRight
)

// String returns the branch name.
func (b Branch) String() string {
	if b == BranchRight {
		return "right"
	}
	return "left"
}

// Placement is one node of the generated track.
type Placement struct {
	Index    int
	Position mgl64.Vec3
	// Facing is the rotation about +Y in radians, atan2(dx, dz) of the
	// travel direction.
	Facing  float64
	Segment Segment
	Branch  Branch
	// Fork marks the placement that coincides with the fork point. No body
	// is created for it.
	Fork bool
	// TailOrdinal counts tail placements from zero; -1 elsewhere.
	TailOrdinal int
}

// Params shapes the track.
type Params struct {
	OriginX float64
	BaseY   float64
	Spacing float64
	// SegmentLength N gives straight runs of N-1 points and an arc radius
	// of Spacing*(N-1).
	SegmentLength int
	ArcCount      int
	// ForkOffset shifts each branch centre along Z away from the fork.
	ForkOffset float64
	// ForkInset shrinks the branch radius relative to the arc radius.
	ForkInset float64
	// BranchTrim is subtracted from ArcCount to get the branch length.
	BranchTrim int
	GrowCount  int
	GrowRatio  float64
	GrowStart  float64
}

// DefaultParams returns the stock track.
func DefaultParams() Params {
	return Params{
		OriginX:       15,
		BaseY:         0.5,
		Spacing:       0.9,
		SegmentLength: 10,
		ArcCount:      25,
		ForkOffset:    0.4,
		ForkInset:     0.8,
		BranchTrim:    3,
		GrowCount:     15,
		GrowRatio:     1.08,
		GrowStart:     1.0,
	}
}

// Radius returns the U-turn radius.
func (p Params) Radius() float64 {
	return p.Spacing * float64(p.SegmentLength-1)
}

// BranchCount returns the number of points on each branch.
func (p Params) BranchCount() int {
	return p.ArcCount - p.BranchTrim
}

const (
	forkSkipDistance   = 1e-4
	forkFacingDistance = 1e-2
)

// path is a run of placements that follow each other. prev is the point
// leading into the run, if any.
type path struct {
	prev   *mgl64.Vec3
	points []int
}

// Generate builds the track. Calling it twice with equal params yields
// equal output.
func Generate(p Params) []Placement {
	var out []Placement
	add := func(pos mgl64.Vec3, seg Segment) int {
		branch := BranchLeft
		if seg == SegRightBranch {
			branch = BranchRight
		}
		out = append(out, Placement{
			Index:       len(out),
			Position:    pos,
			Segment:     seg,
			Branch:      branch,
			TailOrdinal: -1,
		})
		return len(out) - 1
	}

	n := p.SegmentLength
	r := p.Radius()
	y := p.BaseY
	var trunk, left, right path

	for i := 0; i < n-1; i++ {
		trunk.points = append(trunk.points, add(mgl64.Vec3{p.OriginX, y, -float64(i) * p.Spacing}, SegStraightIn))
	}

	cx, cz := p.OriginX-r, -r
	for j := 0; j < p.ArcCount; j++ {
		t := -math.Pi * fraction(j, p.ArcCount)
		pos := mgl64.Vec3{cx + r*math.Cos(t), y, cz + r*math.Sin(t)}
		trunk.points = append(trunk.points, add(pos, SegArc))
	}

	for _, seg := range []Segment{SegStraightOut, SegStraightFork} {
		end := out[len(out)-1].Position
		for i := 1; i < n; i++ {
			pos := mgl64.Vec3{end.X(), y, end.Z() + float64(i)*p.Spacing}
			trunk.points = append(trunk.points, add(pos, seg))
		}
	}

	fork := out[len(out)-1].Position
	out[len(out)-1].Fork = true

	rs := r - p.ForkInset
	k := p.BranchCount()
	left.prev, right.prev = &fork, &fork
	for j := 0; j < k; j++ {
		t := math.Pi / 2 * fraction(j, k)
		pos := mgl64.Vec3{fork.X() - rs + rs*math.Cos(t), y, fork.Z() - p.ForkOffset + rs*math.Sin(t)}
		left.points = append(left.points, add(pos, SegLeftBranch))
	}
	leftEnd := left.points[len(left.points)-1]

	for j := 0; j < k; j++ {
		t := math.Pi - math.Pi/2*fraction(j, k)
		pos := mgl64.Vec3{fork.X() + rs + rs*math.Cos(t), y, fork.Z() + p.ForkOffset + rs*math.Sin(t)}
		right.points = append(right.points, add(pos, SegRightBranch))
	}

	if len(left.points) >= 2 && p.GrowCount > 0 {
		last := out[leftEnd].Position
		before := out[left.points[len(left.points)-2]].Position
		dx, dz := last.X()-before.X(), last.Z()-before.Z()
		grow := p.GrowStart
		x, z := last.X(), last.Z()
		for i := 0; i < p.GrowCount; i++ {
			grow *= p.GrowRatio
			x += dx * grow
			z += dz * grow
			idx := add(mgl64.Vec3{x, y, z}, SegTail)
			out[idx].TailOrdinal = i
			left.points = append(left.points, idx)
		}
	}

	for _, pa := range []path{trunk, left, right} {
		face(out, pa, fork, leftEnd)
	}
	for i := range out {
		if out[i].Position.Sub(fork).Len() < forkSkipDistance {
			out[i].Fork = true
		}
	}
	return out
}

// face assigns facing angles along one path. Terminals and placements at the
// fork take the direction of travel from their predecessor; everything else
// points at its successor.
func face(out []Placement, pa path, fork mgl64.Vec3, leftEnd int) {
	for i, idx := range pa.points {
		pos := out[idx].Position

		var prev *mgl64.Vec3
		if i > 0 {
			v := out[pa.points[i-1]].Position
			prev = &v
		} else {
			prev = pa.prev
		}
		var next *mgl64.Vec3
		if i+1 < len(pa.points) {
			v := out[pa.points[i+1]].Position
			next = &v
		}

		terminal := next == nil || idx == leftEnd || pos.Sub(fork).Len() < forkFacingDistance

		switch {
		case terminal && prev != nil:
			out[idx].Facing = heading(*prev, pos)
		case next != nil:
			out[idx].Facing = heading(pos, *next)
		}
	}
}

// heading returns atan2(dx, dz) of the step from a to b.
func heading(a, b mgl64.Vec3) float64 {
	return math.Atan2(b.X()-a.X(), b.Z()-a.Z())
}

func fraction(j, count int) float64 {
	if count < 2 {
		return 0
	}
	return float64(j) / float64(count-1)
}

// Bodies returns the placements that receive a body, in order.
func Bodies(placements []Placement) []Placement {
	out := make([]Placement, 0, len(placements))
	for _, pl := range placements {
		if !pl.Fork {
			out = append(out, pl)
		}
	}
	return out
}
