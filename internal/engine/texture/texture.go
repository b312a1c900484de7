package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	gomath "math"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"

	"github.com/Faultbox/domino-cascade/internal/scene"
)

// Size is the edge length of generated textures.
const Size = 512

// CheckerCells is the number of squares along each edge of the checker.
const CheckerCells = 8

// Load reads an image file. TGA is decoded here; PNG, JPEG and BMP go
// through the registered image decoders.
func Load(path string) (*image.RGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading texture: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".tga") {
		return DecodeTGA(data)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return ToRGBA(img), nil
}

// ToRGBA converts any image to RGBA with its origin at zero.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// Checker returns a size×size checkerboard of cells×cells squares. The
// top-left square has colour a.
func Checker(size, cells int, a, b color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	cell := max(size/max(cells, 1), 1)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := a
			if (x/cell+y/cell)%2 == 1 {
				c = b
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// Wood returns a procedural wood grain of concentric rings.
func Wood(size int) *image.RGBA {
	light := color.RGBA{R: 0xc8, G: 0x9a, B: 0x64, A: 0xff}
	dark := color.RGBA{R: 0x8b, G: 0x5a, B: 0x2b, A: 0xff}
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			u := float64(x)/float64(size) - 0.5
			v := float64(y)/float64(size)*0.25 - 0.125
			r := gomath.Sqrt(u*u+v*v) * 24
			// Warp the rings so they are not perfect circles.
			r += 0.6 * gomath.Sin(float64(y)/float64(size)*2*gomath.Pi*3)
			t := 0.5 + 0.5*gomath.Sin(r*2*gomath.Pi)
			img.SetRGBA(x, y, mix(dark, light, t))
		}
	}
	return img
}

func mix(a, b color.RGBA, t float64) color.RGBA {
	l := func(x, y uint8) uint8 { return uint8(float64(x) + (float64(y)-float64(x))*t) }
	return color.RGBA{R: l(a.R, b.R), G: l(a.G, b.G), B: l(a.B, b.B), A: 0xff}
}

// ForMode returns the image for a texture mode. A wood file is used when
// woodPath is set; otherwise the procedural grain. TextureNone yields nil.
func ForMode(mode scene.TextureMode, woodPath string) (*image.RGBA, error) {
	switch mode {
	case scene.TextureChecker:
		return Checker(Size, CheckerCells, color.RGBA{A: 0xff}, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}), nil
	case scene.TextureWood:
		if woodPath == "" {
			return Wood(Size), nil
		}
		return Load(woodPath)
	default:
		return nil, nil
	}
}
