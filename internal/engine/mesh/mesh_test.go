package mesh

import (
	"math"
	"testing"

	"github.com/Faultbox/domino-cascade/internal/scene"
)

const epsilon = 1e-5

func sub(a, b [3]float32) [3]float32 { return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }
func dot(a, b [3]float32) float32    { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }

func cross(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// checkMesh verifies indices are in range, normals are unit length and
// every non-degenerate triangle faces along its first vertex normal.
func checkMesh(t *testing.T, m *Mesh) {
	t.Helper()
	if len(m.Indices)%3 != 0 {
		t.Fatalf("index count %d is not a multiple of 3", len(m.Indices))
	}
	for _, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			t.Fatalf("index %d out of range (%d vertices)", idx, len(m.Vertices))
		}
	}
	for i, v := range m.Vertices {
		if l := math.Sqrt(float64(dot(v.Normal, v.Normal))); math.Abs(l-1) > epsilon {
			t.Fatalf("vertex %d normal length %v", i, l)
		}
	}
	for i := 0; i < len(m.Indices); i += 3 {
		a := m.Vertices[m.Indices[i]]
		b := m.Vertices[m.Indices[i+1]]
		c := m.Vertices[m.Indices[i+2]]
		n := cross(sub(b.Position, a.Position), sub(c.Position, a.Position))
		if dot(n, n) < 1e-12 {
			continue
		}
		if dot(n, a.Normal) <= 0 {
			t.Fatalf("triangle %d winds inward", i/3)
		}
	}
}

func TestBuildBox(t *testing.T) {
	m := Build(scene.Box(0.6, 1, 0.1))
	checkMesh(t, m)

	if len(m.Vertices) != 24 || len(m.Indices) != 36 {
		t.Errorf("box = %d vertices %d indices, want 24 and 36", len(m.Vertices), len(m.Indices))
	}
	for _, v := range m.Vertices {
		p := v.Position
		if math.Abs(float64(p[0])) > 0.3+epsilon || math.Abs(float64(p[1])) > 0.5+epsilon || math.Abs(float64(p[2])) > 0.05+epsilon {
			t.Fatalf("vertex %v outside the box", p)
		}
		if v.TexCoord[0] < 0 || v.TexCoord[0] > 1 || v.TexCoord[1] < 0 || v.TexCoord[1] > 1 {
			t.Fatalf("uv %v outside [0,1]", v.TexCoord)
		}
	}
}

func TestBuildBoxProjectedMapping(t *testing.T) {
	g := scene.Box(1, 2, 1)
	g.Mapping = scene.MappingCylindrical
	m := Build(g)
	checkMesh(t, m)

	side := minMappedSegments + 1
	if want := 6 * side * side; len(m.Vertices) != want {
		t.Errorf("mapped box vertices = %d, want %d", len(m.Vertices), want)
	}
	for _, v := range m.Vertices {
		want := Project(scene.MappingCylindrical, v.Position, 2)
		if v.TexCoord != want {
			t.Fatalf("uv %v at %v, want %v", v.TexCoord, v.Position, want)
		}
	}
}

func TestBuildSphere(t *testing.T) {
	m := Build(scene.Sphere(0.5))
	checkMesh(t, m)

	for _, v := range m.Vertices {
		if r := math.Sqrt(float64(dot(v.Position, v.Position))); math.Abs(r-0.5) > epsilon {
			t.Fatalf("vertex %v at radius %v", v.Position, r)
		}
	}
}

func TestBuildCylinder(t *testing.T) {
	m := Build(scene.Cylinder(0.5, 1))
	checkMesh(t, m)

	for _, v := range m.Vertices {
		if y := v.Position[1]; math.Abs(float64(y)) > 0.5+epsilon {
			t.Fatalf("vertex %v beyond the caps", v.Position)
		}
	}
}

func TestBuildPlane(t *testing.T) {
	m := Build(scene.Plane(100, 100))
	checkMesh(t, m)

	if len(m.Vertices) != 4 || len(m.Indices) != 6 {
		t.Errorf("plane = %d vertices %d indices", len(m.Vertices), len(m.Indices))
	}
}

func TestProject(t *testing.T) {
	tests := []struct {
		name    string
		mapping scene.UVMapping
		p       [3]float32
		height  float32
		want    [2]float32
	}{
		{"cylindrical +x", scene.MappingCylindrical, [3]float32{1, 0, 0}, 2, [2]float32{0.5, 0.5}},
		{"cylindrical top", scene.MappingCylindrical, [3]float32{1, 1, 0}, 2, [2]float32{0.5, 1}},
		{"cylindrical bottom", scene.MappingCylindrical, [3]float32{1, -1, 0}, 2, [2]float32{0.5, 0}},
		{"cylindrical +z", scene.MappingCylindrical, [3]float32{0, 0, 1}, 2, [2]float32{0.75, 0.5}},
		{"spherical equator", scene.MappingSpherical, [3]float32{1, 0, 0}, 0, [2]float32{0.5, 0.5}},
		{"spherical north pole", scene.MappingSpherical, [3]float32{0, 1, 0}, 0, [2]float32{0.5, 0}},
		{"spherical south pole", scene.MappingSpherical, [3]float32{0, -1, 0}, 0, [2]float32{0.5, 1}},
		{"spherical origin", scene.MappingSpherical, [3]float32{0, 0, 0}, 0, [2]float32{0.5, 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Project(tt.mapping, tt.p, tt.height)
			if math.Abs(float64(got[0]-tt.want[0])) > epsilon || math.Abs(float64(got[1]-tt.want[1])) > epsilon {
				t.Errorf("Project = %v, want %v", got, tt.want)
			}
		})
	}
}
