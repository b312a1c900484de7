// Package mesh builds triangle meshes for the scene primitives.
package mesh

import (
	gomath "math"

	"github.com/Faultbox/domino-cascade/internal/scene"
)

// Vertex is an interleaved vertex with position, normal and texture
// coordinates.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// VertexSize is the byte size of a Vertex.
const VertexSize = 8 * 4

// Mesh is indexed triangle data ready for upload.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// minMappedSegments subdivides box faces when texture coordinates are
// projected, so the projection is sampled finely enough to look curved.
const minMappedSegments = 8

// Build tessellates a geometry.
func Build(g scene.Geometry) *Mesh {
	switch g.Kind {
	case scene.GeomSphere:
		return buildSphere(g)
	case scene.GeomCylinder:
		return buildCylinder(g)
	case scene.GeomPlane:
		return buildPlane(g)
	default:
		return buildBox(g)
	}
}

type face struct {
	n, a, b [3]float32
}

// Box faces. For every face a × b = n, so triangles wind counter-clockwise
// seen from outside.
var boxFaces = [6]face{
	{n: [3]float32{1, 0, 0}, a: [3]float32{0, 0, -1}, b: [3]float32{0, 1, 0}},
	{n: [3]float32{-1, 0, 0}, a: [3]float32{0, 0, 1}, b: [3]float32{0, 1, 0}},
	{n: [3]float32{0, 1, 0}, a: [3]float32{1, 0, 0}, b: [3]float32{0, 0, -1}},
	{n: [3]float32{0, -1, 0}, a: [3]float32{1, 0, 0}, b: [3]float32{0, 0, 1}},
	{n: [3]float32{0, 0, 1}, a: [3]float32{1, 0, 0}, b: [3]float32{0, 1, 0}},
	{n: [3]float32{0, 0, -1}, a: [3]float32{-1, 0, 0}, b: [3]float32{0, 1, 0}},
}

func buildBox(g scene.Geometry) *Mesh {
	half := [3]float32{g.Size.X / 2, g.Size.Y / 2, g.Size.Z / 2}
	n := max(g.Segments, 1)
	if g.Mapping != scene.MappingBox {
		n = max(n, minMappedSegments)
	}

	m := &Mesh{}
	for _, f := range boxFaces {
		base := uint32(len(m.Vertices))
		for j := 0; j <= n; j++ {
			t := float32(j) / float32(n)
			for i := 0; i <= n; i++ {
				s := float32(i) / float32(n)
				var p [3]float32
				for k := 0; k < 3; k++ {
					p[k] = (f.n[k] + f.a[k]*(2*s-1) + f.b[k]*(2*t-1)) * half[k]
				}
				uv := [2]float32{s, t}
				if g.Mapping != scene.MappingBox {
					uv = Project(g.Mapping, p, g.Size.Y)
				}
				m.Vertices = append(m.Vertices, Vertex{Position: p, Normal: f.n, TexCoord: uv})
			}
		}
		row := uint32(n + 1)
		for j := uint32(0); j < uint32(n); j++ {
			for i := uint32(0); i < uint32(n); i++ {
				i00 := base + j*row + i
				i10 := i00 + 1
				i01 := i00 + row
				i11 := i01 + 1
				m.Indices = append(m.Indices, i00, i10, i11, i00, i11, i01)
			}
		}
	}
	return m
}

func buildSphere(g scene.Geometry) *Mesh {
	slices := max(g.Segments, 3)
	stacks := max(g.Segments/2, 2)
	r := g.Radius

	m := &Mesh{}
	for i := 0; i <= stacks; i++ {
		theta := gomath.Pi * float64(i) / float64(stacks)
		for j := 0; j <= slices; j++ {
			phi := 2 * gomath.Pi * float64(j) / float64(slices)
			n := [3]float32{
				float32(gomath.Sin(theta) * gomath.Cos(phi)),
				float32(gomath.Cos(theta)),
				float32(gomath.Sin(theta) * gomath.Sin(phi)),
			}
			p := [3]float32{n[0] * r, n[1] * r, n[2] * r}
			uv := [2]float32{float32(j) / float32(slices), float32(i) / float32(stacks)}
			if g.Mapping != scene.MappingBox {
				uv = Project(g.Mapping, p, 2*r)
			}
			m.Vertices = append(m.Vertices, Vertex{Position: p, Normal: n, TexCoord: uv})
		}
	}
	row := uint32(slices + 1)
	for i := uint32(0); i < uint32(stacks); i++ {
		for j := uint32(0); j < uint32(slices); j++ {
			a := i*row + j
			b := a + row
			m.Indices = append(m.Indices, a, a+1, b, a+1, b+1, b)
		}
	}
	return m
}

func buildCylinder(g scene.Geometry) *Mesh {
	slices := max(g.Segments, 3)
	r, h := g.Radius, g.Height

	m := &Mesh{}
	ring := func(y float32, normal func(c, s float32) [3]float32) uint32 {
		base := uint32(len(m.Vertices))
		for j := 0; j <= slices; j++ {
			phi := 2 * gomath.Pi * float64(j) / float64(slices)
			c, s := float32(gomath.Cos(phi)), float32(gomath.Sin(phi))
			p := [3]float32{r * c, y, r * s}
			uv := [2]float32{float32(j) / float32(slices), y/h + 0.5}
			if g.Mapping != scene.MappingBox {
				uv = Project(g.Mapping, p, h)
			}
			m.Vertices = append(m.Vertices, Vertex{Position: p, Normal: normal(c, s), TexCoord: uv})
		}
		return base
	}
	side := func(c, s float32) [3]float32 { return [3]float32{c, 0, s} }

	top := ring(h/2, side)
	bottom := ring(-h/2, side)
	for j := uint32(0); j < uint32(slices); j++ {
		t, b := top+j, bottom+j
		m.Indices = append(m.Indices, t, t+1, b, t+1, b+1, b)
	}

	for _, capY := range []float32{h / 2, -h / 2} {
		up := capY > 0
		n := [3]float32{0, 1, 0}
		if !up {
			n = [3]float32{0, -1, 0}
		}
		center := uint32(len(m.Vertices))
		m.Vertices = append(m.Vertices, Vertex{Position: [3]float32{0, capY, 0}, Normal: n, TexCoord: [2]float32{0.5, 0.5}})
		edge := ring(capY, func(float32, float32) [3]float32 { return n })
		for j := uint32(0); j < uint32(slices); j++ {
			if up {
				m.Indices = append(m.Indices, center, edge+j+1, edge+j)
			} else {
				m.Indices = append(m.Indices, center, edge+j, edge+j+1)
			}
		}
	}
	return m
}

func buildPlane(g scene.Geometry) *Mesh {
	w, d := g.Size.X/2, g.Size.Z/2
	up := [3]float32{0, 1, 0}
	return &Mesh{
		Vertices: []Vertex{
			{Position: [3]float32{-w, 0, d}, Normal: up, TexCoord: [2]float32{0, 0}},
			{Position: [3]float32{w, 0, d}, Normal: up, TexCoord: [2]float32{1, 0}},
			{Position: [3]float32{w, 0, -d}, Normal: up, TexCoord: [2]float32{1, 1}},
			{Position: [3]float32{-w, 0, -d}, Normal: up, TexCoord: [2]float32{0, 1}},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}

// Project computes texture coordinates for a point on a surface centred at
// the origin. height is the extent along Y used by the cylindrical mapping.
func Project(mapping scene.UVMapping, p [3]float32, height float32) [2]float32 {
	x, y, z := float64(p[0]), float64(p[1]), float64(p[2])
	switch mapping {
	case scene.MappingCylindrical:
		u := (gomath.Atan2(z, x) + gomath.Pi) / (2 * gomath.Pi)
		v := 0.5
		if height > 0 {
			v = (y + float64(height)/2) / float64(height)
		}
		return [2]float32{float32(u), float32(v)}
	case scene.MappingSpherical:
		r := gomath.Sqrt(x*x + y*y + z*z)
		u := 0.5 + gomath.Atan2(z, x)/(2*gomath.Pi)
		v := 0.5
		if r > 0 {
			v = 0.5 - gomath.Asin(y/r)/gomath.Pi
		}
		return [2]float32{float32(u), float32(v)}
	default:
		return [2]float32{float32(x), float32(z)}
	}
}
