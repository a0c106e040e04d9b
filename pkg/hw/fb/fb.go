// Package fb provides an in-memory RGB565 framebuffer usable as a
// tinygo drivers.Displayer.
package fb

import (
	"image/color"

	"tinygo.org/x/drivers"
)

// PresentFunc receives the whole frame when Display is called.
type PresentFunc func(buf []byte) error

// Framebuffer keeps pixels as big-endian RGB565, the byte order SPI panels
// expect on the wire. It is not safe for concurrent use.
type Framebuffer struct {
	// Present is called by Display. A nil Present keeps the frame in memory.
	Present PresentFunc

	width  int16
	height int16
	stride int
	buf    []byte
}

var _ drivers.Displayer = (*Framebuffer)(nil)

// New creates a framebuffer of width x height pixels, all black.
func New(width, height int16) *Framebuffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	stride := int(width) * 2
	return &Framebuffer{
		width:  width,
		height: height,
		stride: stride,
		buf:    make([]byte, stride*int(height)),
	}
}

// Size implements drivers.Displayer.
func (f *Framebuffer) Size() (x, y int16) {
	return f.width, f.height
}

// SetPixel implements drivers.Displayer. Pixels outside the frame are ignored.
func (f *Framebuffer) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return
	}
	pixel := RGB565(c)
	off := int(y)*f.stride + int(x)*2
	f.buf[off] = byte(pixel >> 8)
	f.buf[off+1] = byte(pixel)
}

// Display implements drivers.Displayer.
func (f *Framebuffer) Display() error {
	if f.Present == nil {
		return nil
	}
	return f.Present(f.buf)
}

// FillScreen paints every pixel with c.
func (f *Framebuffer) FillScreen(c color.RGBA) {
	f.FillRectangle(0, 0, f.width, f.height, c)
}

// FillRectangle paints the part of the rectangle inside the frame.
func (f *Framebuffer) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	x0, y0 := clamp(int(x), int(f.width)), clamp(int(y), int(f.height))
	x1, y1 := clamp(int(x)+int(width), int(f.width)), clamp(int(y)+int(height), int(f.height))
	if x0 >= x1 || y0 >= y1 {
		return nil
	}
	pixel := RGB565(c)
	hi, lo := byte(pixel>>8), byte(pixel)
	for py := y0; py < y1; py++ {
		row := py * f.stride
		for px := x0; px < x1; px++ {
			f.buf[row+px*2] = hi
			f.buf[row+px*2+1] = lo
		}
	}
	return nil
}

// Pixel reads back a pixel, expanded from RGB565.
func (f *Framebuffer) Pixel(x, y int16) color.RGBA {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return color.RGBA{}
	}
	off := int(y)*f.stride + int(x)*2
	return FromRGB565(uint16(f.buf[off])<<8 | uint16(f.buf[off+1]))
}

// Buffer exposes the raw frame.
func (f *Framebuffer) Buffer() []byte {
	return f.buf
}

// StrideBytes is the length of one row in Buffer.
func (f *Framebuffer) StrideBytes() int {
	return f.stride
}

// RGB565 packs c into 5-6-5 bits.
func RGB565(c color.RGBA) uint16 {
	return uint16(c.R>>3)<<11 | uint16(c.G>>2)<<5 | uint16(c.B>>3)
}

// FromRGB565 expands a 5-6-5 pixel to an opaque colour.
func FromRGB565(p uint16) color.RGBA {
	r, g, b := uint8(p>>11), uint8(p>>5)&0x3f, uint8(p)&0x1f
	return color.RGBA{
		R: r<<3 | r>>2,
		G: g<<2 | g>>4,
		B: b<<3 | b>>2,
		A: 0xff,
	}
}

func clamp(v, hi int) int {
	if v < 0 {
		return 0
	}
	if v > hi {
		return hi
	}
	return v
}
