// Package texture decodes texture images and generates procedural ones.
package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// TGA image types.
const (
	TGATypeUncompressed = 2
	TGATypeRLE          = 10
)

const tgaHeaderSize = 18

var errTGATruncated = errors.New("tga: pixel data truncated")

// DecodeTGA decodes an uncompressed or RLE true-colour TGA image of 24 or 32
// bits per pixel.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	if len(data) < tgaHeaderSize {
		return nil, fmt.Errorf("tga: header needs %d bytes, got %d", tgaHeaderSize, len(data))
	}
	if data[1] != 0 {
		return nil, errors.New("tga: colour-mapped images not supported")
	}
	kind := int(data[2])
	if kind != TGATypeUncompressed && kind != TGATypeRLE {
		return nil, fmt.Errorf("tga: unsupported image type %d", kind)
	}
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("tga: unsupported bit depth %d", bpp)
	}
	offset := tgaHeaderSize + int(data[0])
	if offset > len(data) {
		return nil, errTGATruncated
	}

	d := &tgaDecoder{
		src:       data[offset:],
		img:       image.NewRGBA(image.Rect(0, 0, width, height)),
		width:     width,
		height:    height,
		stride:    bpp / 8,
		topOrigin: data[17]&0x20 != 0,
	}
	if kind == TGATypeUncompressed {
		if len(d.src) < width*height*d.stride {
			return nil, errTGATruncated
		}
		for d.n < width*height {
			d.put(d.read())
		}
		return d.img, nil
	}
	if err := d.decodeRLE(); err != nil {
		return nil, err
	}
	return d.img, nil
}

type tgaDecoder struct {
	src       []byte
	pos       int
	img       *image.RGBA
	width     int
	height    int
	stride    int
	topOrigin bool
	n         int
}

// read takes one BGR(A) pixel from the source.
func (d *tgaDecoder) read() color.RGBA {
	p := d.src[d.pos : d.pos+d.stride]
	d.pos += d.stride
	c := color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if d.stride == 4 {
		c.A = p[3]
	}
	return c
}

// put writes the next pixel in file order.
func (d *tgaDecoder) put(c color.RGBA) {
	x, y := d.n%d.width, d.n/d.width
	if !d.topOrigin {
		y = d.height - 1 - y
	}
	d.img.SetRGBA(x, y, c)
	d.n++
}

func (d *tgaDecoder) decodeRLE() error {
	total := d.width * d.height
	for d.n < total {
		if d.pos >= len(d.src) {
			return errTGATruncated
		}
		header := d.src[d.pos]
		d.pos++
		count := int(header&0x7f) + 1
		repeat := header&0x80 != 0

		if repeat {
			if d.pos+d.stride > len(d.src) {
				return errTGATruncated
			}
			c := d.read()
			for i := 0; i < count && d.n < total; i++ {
				d.put(c)
			}
			continue
		}
		for i := 0; i < count && d.n < total; i++ {
			if d.pos+d.stride > len(d.src) {
				return errTGATruncated
			}
			d.put(d.read())
		}
	}
	return nil
}
