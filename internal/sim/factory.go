package sim

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/domino-cascade/internal/layout"
	"github.com/Faultbox/domino-cascade/internal/physics"
	"github.com/Faultbox/domino-cascade/internal/scene"
	"github.com/Faultbox/domino-cascade/pkg/math"
)

// Track domino dimensions before tail scaling.
const (
	dominoWidth  = 0.6
	dominoHeight = 1.0
	dominoDepth  = 0.1
	dominoMass   = 1.5

	tailGrowth = 0.1
)

var dominoSurface = physics.Material{Friction: 0.1, Restitution: 0.1}

// TailScale returns the size and mass multiplier of a placement.
func TailScale(pl layout.Placement) float64 {
	if pl.TailOrdinal < 0 {
		return 1
	}
	return 1 + tailGrowth*float64(pl.TailOrdinal)
}

// BuildTrack creates a domino for every placement except the fork and files
// them into the domino list in placement order.
func (c *Context) BuildTrack(placements []layout.Placement) []*DominoBody {
	var out []*DominoBody
	for _, pl := range layout.Bodies(placements) {
		out = append(out, c.add(c.newTrackDomino(pl)))
	}
	return out
}

func (c *Context) newTrackDomino(pl layout.Placement) *DominoBody {
	s := TailScale(pl)
	half := mgl64.Vec3{dominoWidth / 2, dominoHeight / 2, dominoDepth / 2}.Mul(s)
	pos := mgl64.Vec3{pl.Position.X(), half.Y(), pl.Position.Z()}
	rot := physics.YawQuat(pl.Facing)

	surface := dominoSurface
	body := c.world.AddBody(physics.BodyDesc{
		Shape:          physics.ShapeBox,
		HalfExtents:    half,
		Mass:           dominoMass * s,
		Position:       pos,
		Orientation:    rot,
		Material:       &surface,
		LinearDamping:  0.1,
		AngularDamping: 0.1,
	})

	geo := scene.Box(float32(half.X()*2), float32(half.Y()*2), float32(half.Z()*2))
	geo.Mapping = c.appearance.Mapping
	mesh := scene.NewMesh("domino", geo, trackMaterial(pl.Index, c.cfg))
	mesh.Position = toVec3(pos)
	mesh.Rotation = toQuat(rot)

	return &DominoBody{
		Body:        body,
		Mesh:        mesh,
		HalfExtents: toVec3(half),
		Kind:        KindDomino,
		Branch:      pl.Branch,
		Segment:     pl.Segment,
		Placement:   pl.Index,
	}
}

func toVec3(v mgl64.Vec3) math.Vec3 {
	return math.Vec3{X: float32(v[0]), Y: float32(v[1]), Z: float32(v[2])}
}

func toQuat(q mgl64.Quat) math.Quat {
	return math.Quat{X: float32(q.V[0]), Y: float32(q.V[1]), Z: float32(q.V[2]), W: float32(q.W)}
}

// syncPose copies a body's pose onto its mesh.
func syncPose(b physics.Body, m *scene.Mesh) {
	m.Position = toVec3(b.Position())
	m.Rotation = toQuat(b.Orientation())
}
