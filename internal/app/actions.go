package app

import (
	"github.com/Faultbox/domino-cascade/internal/engine/input"
	"github.com/Faultbox/domino-cascade/internal/engine/lighting"
	"github.com/Faultbox/domino-cascade/internal/scene"
	"github.com/Faultbox/domino-cascade/internal/sim"
)

// Dispatch applies a simulation action to the context. It reports false for
// actions the simulation does not own, such as quit or reset.
func Dispatch(c *sim.Context, a input.Action, yawStep float32) bool {
	switch a {
	case input.ActionLaunch:
		c.LaunchBall()
	case input.ActionOverviewCamera:
		c.SetCameraMode(sim.CameraOverview)
	case input.ActionFollowCamera:
		c.SetCameraMode(sim.CameraFollow)
	case input.ActionToggleRed:
		c.ToggleLight(lighting.SlotRed)
	case input.ActionToggleGreen:
		c.ToggleLight(lighting.SlotGreen)
	case input.ActionToggleSpot:
		c.ToggleLight(lighting.SlotSpot)
	case input.ActionToggleAllLights:
		c.ToggleAllLights()
	case input.ActionYawLeft:
		c.AdjustYaw(-yawStep)
	case input.ActionYawRight:
		c.AdjustYaw(yawStep)
	case input.ActionToggleShading:
		if c.Appearance().Shading == scene.Phong {
			c.SetShading(scene.Gouraud)
		} else {
			c.SetShading(scene.Phong)
		}
	case input.ActionCycleTexture:
		c.SetTexture(nextTexture(c.Appearance().Texture))
	case input.ActionCycleMapping:
		c.ToggleMapping()
	default:
		return false
	}
	return true
}

func nextTexture(t scene.TextureMode) scene.TextureMode {
	switch t {
	case scene.TextureNone:
		return scene.TextureChecker
	case scene.TextureChecker:
		return scene.TextureWood
	default:
		return scene.TextureNone
	}
}
