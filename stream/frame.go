package stream

import (
	"encoding/binary"

	"github.com/lucasb-eyer/go-colorful"
)

// Frame represents a strip of RGB pixels rendered for one animation tick.
type Frame struct {
	pixels []colorful.Color
}

// NewFrame creates a new Frame of numPixels black pixels.
func NewFrame(numPixels int) *Frame {
	f := new(Frame)
	f.pixels = make([]colorful.Color, numPixels)
	return f
}

// NewSolidFrame creates a Frame with every pixel set to c.
func NewSolidFrame(numPixels int, c colorful.Color) *Frame {
	f := NewFrame(numPixels)
	f.Fill(c)
	return f
}

// Len returns the number of pixels.
func (f *Frame) Len() int {
	return len(f.pixels)
}

// Pixel returns the colour at index i.
func (f *Frame) Pixel(i int) colorful.Color {
	return f.pixels[i]
}

// SetPixel sets the colour at index i.
func (f *Frame) SetPixel(i int, c colorful.Color) {
	f.pixels[i] = c
}

// Fill sets every pixel to c.
func (f *Frame) Fill(c colorful.Color) {
	for i := range f.pixels {
		f.pixels[i] = c
	}
}

// InterpolateFrame blends f towards f2 by transitionPoint in HCL space.
func (f *Frame) InterpolateFrame(f2 *Frame, transitionPoint float64) *Frame {
	out := NewFrame(len(f.pixels))
	for i := 0; i < len(f.pixels) && i < len(f2.pixels); i++ {
		out.pixels[i] = f.pixels[i].BlendHcl(f2.pixels[i], transitionPoint)
	}

	return out
}

// MarshalBinary encodes the pixel count as little-endian uint16 followed by
// one RGB triple per pixel.
func (f *Frame) MarshalBinary() (data []byte, err error) {
	data = make([]byte, 2, (len(f.pixels)*3)+2)
	binary.LittleEndian.PutUint16(data, uint16(len(f.pixels)))
	for _, p := range f.pixels {
		r, g, b := p.Clamped().RGB255()
		data = append(data, r, g, b)
	}

	return data, nil
}
