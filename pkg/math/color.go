package math

// Color is a linear RGB color with components in the 0-1 range.
type Color struct {
	R, G, B float32
}

// Black is the neutral color used to pad unused light slots.
var Black = Color{}

// ColorHex converts a 0xRRGGBB value to a Color.
func ColorHex(hex uint32) Color {
	return Color{
		R: float32((hex>>16)&0xff) / 255,
		G: float32((hex>>8)&0xff) / 255,
		B: float32(hex&0xff) / 255,
	}
}

// Gray returns a color with all three components set to v.
func Gray(v float32) Color {
	return Color{v, v, v}
}

// Vec3 returns the color as a vector for uniform upload.
func (c Color) Vec3() Vec3 {
	return Vec3{c.R, c.G, c.B}
}
