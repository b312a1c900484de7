package texture

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/Faultbox/domino-cascade/internal/scene"
)

var (
	red   = color.RGBA{R: 0xff, A: 0xff}
	green = color.RGBA{G: 0xff, A: 0xff}
	blue  = color.RGBA{B: 0xff, A: 0xff}
)

func tgaHeader(kind byte, w, h int, bpp byte, descriptor byte) []byte {
	hdr := make([]byte, tgaHeaderSize)
	hdr[2] = kind
	hdr[12], hdr[13] = byte(w), byte(w>>8)
	hdr[14], hdr[15] = byte(h), byte(h>>8)
	hdr[16] = bpp
	hdr[17] = descriptor
	return hdr
}

func TestDecodeTGAUncompressed(t *testing.T) {
	// 2x1, bottom-up, BGR.
	data := tgaHeader(TGATypeUncompressed, 2, 1, 24, 0)
	data = append(data, 0, 0, 0xff, 0xff, 0, 0)

	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA: %v", err)
	}
	if got := img.RGBAAt(0, 0); got != red {
		t.Errorf("pixel 0 = %v, want red", got)
	}
	if got := img.RGBAAt(1, 0); got != blue {
		t.Errorf("pixel 1 = %v, want blue", got)
	}
}

func TestDecodeTGAOrigin(t *testing.T) {
	// 1x2: first stored row is the bottom unless the top-origin bit is set.
	rows := []byte{0, 0, 0xff, 0, 0xff, 0}
	bottomUp, err := DecodeTGA(append(tgaHeader(TGATypeUncompressed, 1, 2, 24, 0), rows...))
	if err != nil {
		t.Fatal(err)
	}
	topDown, err := DecodeTGA(append(tgaHeader(TGATypeUncompressed, 1, 2, 24, 0x20), rows...))
	if err != nil {
		t.Fatal(err)
	}
	if bottomUp.RGBAAt(0, 1) != red || topDown.RGBAAt(0, 0) != red {
		t.Error("row order not honoured")
	}
}

func TestDecodeTGARLE(t *testing.T) {
	data := tgaHeader(TGATypeRLE, 4, 1, 32, 0x20)
	// Run of three green pixels, then one raw blue one.
	data = append(data, 0x82, 0, 0xff, 0, 0xff)
	data = append(data, 0x00, 0xff, 0, 0, 0x80)

	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA: %v", err)
	}
	for x := 0; x < 3; x++ {
		if got := img.RGBAAt(x, 0); got != green {
			t.Errorf("pixel %d = %v, want green", x, got)
		}
	}
	if got := img.RGBAAt(3, 0); got != (color.RGBA{B: 0xff, A: 0x80}) {
		t.Errorf("raw pixel = %v", got)
	}
}

func TestDecodeTGAErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"short header", []byte{0, 0, 2}},
		{"colour mapped", func() []byte { h := tgaHeader(1, 1, 1, 24, 0); h[1] = 1; return h }()},
		{"grayscale", tgaHeader(3, 1, 1, 8, 0)},
		{"16 bit", tgaHeader(TGATypeUncompressed, 1, 1, 16, 0)},
		{"truncated pixels", tgaHeader(TGATypeUncompressed, 2, 2, 24, 0)},
		{"truncated rle", append(tgaHeader(TGATypeRLE, 2, 1, 24, 0), 0x81)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeTGA(tt.data); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestChecker(t *testing.T) {
	img := Checker(Size, CheckerCells, red, blue)
	cell := Size / CheckerCells

	if img.Bounds().Dx() != Size || img.Bounds().Dy() != Size {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{0, 0, red},
		{cell, 0, blue},
		{0, cell, blue},
		{cell, cell, red},
		{Size - 1, Size - 1, red},
	}
	for _, tt := range tests {
		if got := img.RGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func writeImage(t *testing.T, name string, encode func(*os.File, image.Image) error) string {
	t.Helper()
	img := Checker(3, 1, red, red)
	img.SetRGBA(2, 1, green)
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name   string
		encode func(*os.File, image.Image) error
	}{
		{"wood.png", func(f *os.File, img image.Image) error { return png.Encode(f, img) }},
		{"wood.bmp", func(f *os.File, img image.Image) error { return bmp.Encode(f, img) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Load(writeImage(t, tt.name, tt.encode))
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
				t.Errorf("bounds = %v", img.Bounds())
			}
			if got := img.RGBAAt(2, 1); got != green {
				t.Errorf("pixel = %v, want green", got)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestForMode(t *testing.T) {
	if img, err := ForMode(scene.TextureNone, ""); img != nil || err != nil {
		t.Errorf("none = %v, %v", img, err)
	}
	checker, err := ForMode(scene.TextureChecker, "")
	if err != nil || checker.Bounds().Dx() != Size {
		t.Errorf("checker = %v, %v", checker.Bounds(), err)
	}
	wood, err := ForMode(scene.TextureWood, "")
	if err != nil || wood.Bounds().Dx() != Size {
		t.Errorf("procedural wood = %v, %v", wood.Bounds(), err)
	}
	if _, err := ForMode(scene.TextureWood, filepath.Join(t.TempDir(), "nope.bmp")); err == nil {
		t.Error("missing wood file did not fail")
	}
}
