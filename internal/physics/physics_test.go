package physics_test

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/domino-cascade/internal/physics"
	"github.com/Faultbox/domino-cascade/internal/physics/physicstest"
)

func TestSpeed(t *testing.T) {
	b := physicstest.NewBody(physics.BodyDesc{Mass: 1})
	b.SetVelocity(mgl64.Vec3{3, 0, 4})
	if got := physics.Speed(b); got != 5 {
		t.Errorf("Speed = %v, want 5", got)
	}
}

func TestUp(t *testing.T) {
	tests := []struct {
		name string
		q    mgl64.Quat
		want mgl64.Vec3
	}{
		{"upright", mgl64.QuatIdent(), mgl64.Vec3{0, 1, 0}},
		{"yawed", physics.YawQuat(1.3), mgl64.Vec3{0, 1, 0}},
		{"tipped", mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{1, 0, 0}), mgl64.Vec3{0, 0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := physicstest.NewBody(physics.BodyDesc{Orientation: tt.q})
			if got := physics.Up(b); !got.ApproxEqualThreshold(tt.want, 1e-9) {
				t.Errorf("Up = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBodyTypeString(t *testing.T) {
	if physics.Dynamic.String() != "dynamic" || physics.Static.String() != "static" {
		t.Error("unexpected body type names")
	}
}
