package image2bit

import (
	"image"
	"image/color"
)

// Color is a 2-bit panel color code. Only the lower 2 bits are used.
type Color uint8

// Panel colors.
const (
	Black  Color = 0
	White  Color = 1
	Yellow Color = 2
	Red    Color = 3
)

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	switch c & 3 {
	case White:
		return 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF
	case Yellow:
		return 0xFFFF, 0xFFFF, 0, 0xFFFF
	case Red:
		return 0xFFFF, 0, 0, 0xFFFF
	}
	return 0, 0, 0, 0xFFFF
}

func (c Color) String() string {
	switch c & 3 {
	case White:
		return "White"
	case Yellow:
		return "Yellow"
	case Red:
		return "Red"
	}
	return "Black"
}

// Palette lists the panel colors in code order.
var Palette = color.Palette{Black, White, Yellow, Red}

// toColor converts any color.Color to the nearest panel Color.
func toColor(c color.Color) color.Color {
	if v, ok := c.(Color); ok {
		return v & 3
	}
	return Color(Palette.Index(c))
}

// Model converts colors to Color.
var Model = color.ModelFunc(toColor)

// Image is a 4-color image stored 4 pixels per byte, leftmost pixel in the
// two high bits. Rows are padded to whole bytes.
type Image struct {
	Pix    []byte          // Pixel data (4 pixels per byte)
	Stride int             // Bytes per row
	Rect   image.Rectangle // Image bounds
}

// New creates an Image with the given bounds. All pixels are black.
func New(r image.Rectangle) *Image {
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return &Image{Rect: r}
	}
	stride := (w + 3) / 4
	return &Image{
		Pix:    make([]byte, stride*h),
		Stride: stride,
		Rect:   r,
	}
}

// ColorModel returns Model.
func (p *Image) ColorModel() color.Model {
	return Model
}

// Bounds returns the image bounds.
func (p *Image) Bounds() image.Rectangle {
	return p.Rect
}

// At implements image.Image.
func (p *Image) At(x, y int) color.Color {
	return p.ColorAt(x, y)
}

// ColorAt returns the Color of the pixel at (x, y), Black when outside.
func (p *Image) ColorAt(x, y int) Color {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return Black
	}
	offset, shift := p.pixOffset(x, y)
	return Color(p.Pix[offset]>>shift) & 3
}

// Set implements draw.Image.
func (p *Image) Set(x, y int, c color.Color) {
	p.SetColor(x, y, Model.Convert(c).(Color))
}

// SetColor sets the pixel at (x, y) without color conversion.
func (p *Image) SetColor(x, y int, c Color) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	offset, shift := p.pixOffset(x, y)
	p.Pix[offset] = p.Pix[offset]&^(3<<shift) | byte(c&3)<<shift
}

// Fill sets every pixel, padding included, to c.
func (p *Image) Fill(c Color) {
	v := byte(c & 3)
	v |= v<<2 | v<<4 | v<<6
	for i := range p.Pix {
		p.Pix[i] = v
	}
}

// pixOffset returns the byte offset and bit shift for the pixel at (x, y).
func (p *Image) pixOffset(x, y int) (offset int, shift uint) {
	dx := x - p.Rect.Min.X
	offset = (y-p.Rect.Min.Y)*p.Stride + dx/4
	shift = uint(6 - 2*(dx&3))
	return
}
