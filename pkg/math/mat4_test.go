package math

import (
	"math"
	"testing"
)

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTransformVec3(t *testing.T) {
	m := Translate(10, 20, 30)
	got := m.TransformVec3(Vec3{1, 2, 3})
	if got != (Vec3{11, 22, 33}) {
		t.Errorf("TransformVec3: got %v, want (11, 22, 33)", got)
	}
}

func TestCompose(t *testing.T) {
	rot := QuatFromAxisAngle(Up, float32(math.Pi/2))
	m := Compose(Vec3{5, 0, 0}, rot, Vec3{2, 2, 2})

	// Scale first, then rotate +X onto -Z, then translate.
	got := m.TransformVec3(Vec3{1, 0, 0})
	want := Vec3{5, 0, -2}
	if got.Distance(want) > 0.001 {
		t.Errorf("Compose: got %v, want %v", got, want)
	}
}

func TestPerspective(t *testing.T) {
	m := Perspective(float32(math.Pi/4), 1, 0.1, 100)

	if m[0] == 0 || m[5] == 0 {
		t.Error("Perspective should have non-zero elements")
	}
	if m[15] != 0 {
		t.Errorf("Perspective [15] should be 0, got %f", m[15])
	}
	if m[11] != -1 {
		t.Errorf("Perspective [11] should be -1, got %f", m[11])
	}
}

func TestLookAt(t *testing.T) {
	m := LookAt(Vec3{0, 0, 5}, Vec3{}, Up)

	// The eye maps to the view-space origin.
	got := m.TransformVec3(Vec3{0, 0, 5})
	if got.Length() > 0.0001 {
		t.Errorf("LookAt eye should map to origin, got %v", got)
	}
	// The target lies straight ahead along -Z.
	got = m.TransformVec3(Vec3{})
	if abs(got.X) > 0.0001 || abs(got.Y) > 0.0001 || abs(got.Z+5) > 0.0001 {
		t.Errorf("LookAt target should map to (0,0,-5), got %v", got)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
