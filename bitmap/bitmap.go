// Package bitmap builds 1-bit bitmaps in the layout the gdem0154f51h
// driver reads: rows padded to whole bytes, most significant bit first,
// a set bit is white.
//
// An *Image can be passed directly wherever the driver takes a Source.
package bitmap

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/MaxHalford/halfgone"
	"github.com/disintegration/imaging"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"tinygo.org/x/drivers"
)

var _ drivers.Displayer = (*Image)(nil)

// Image is a 1-bit image with its origin at (0, 0).
type Image struct {
	Pix    []byte          // Pixel data (8 pixels per byte)
	Stride int             // Bytes per row
	Rect   image.Rectangle // Image bounds
}

// New creates a w x h Image. All pixels are white.
func New(w, h int) *Image {
	if w <= 0 || h <= 0 {
		return &Image{Rect: image.Rect(0, 0, max(w, 0), max(h, 0))}
	}
	stride := (w + 7) / 8
	img := &Image{
		Pix:    make([]byte, stride*h),
		Stride: stride,
		Rect:   image.Rect(0, 0, w, h),
	}
	img.Fill(image1bit.On)
	return img
}

// Convert scales src to fit in w x h, keeping its aspect ratio, and
// dithers it to black and white with Floyd-Steinberg error diffusion.
// The result is w x h; the area src does not cover is white.
func Convert(src image.Image, w, h int) *Image {
	img := src
	if b := src.Bounds(); b.Dx() != w || b.Dy() != h {
		img = imaging.Fit(src, w, h, imaging.Lanczos)
	}
	gray := toGray(img)
	return fromGray(halfgone.FloydSteinbergDitherer{}.Apply(gray), w, h)
}

// Threshold converts src at its own size. Pixels with a luminance above t
// become white.
func Threshold(src image.Image, t uint8) *Image {
	b := src.Bounds()
	gray := toGray(src)
	return fromGray(halfgone.ThresholdDitherer{Threshold: t}.Apply(gray), b.Dx(), b.Dy())
}

func toGray(src image.Image) *image.Gray {
	b := src.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), src, b.Min, draw.Src)
	return gray
}

func fromGray(gray *image.Gray, w, h int) *Image {
	img := New(w, h)
	draw.Draw(img, gray.Bounds().Intersect(img.Rect), gray, image.Point{}, draw.Src)
	return img
}

// ColorModel returns image1bit.BitModel.
func (p *Image) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds returns the image bounds.
func (p *Image) Bounds() image.Rectangle {
	return p.Rect
}

// At implements image.Image.
func (p *Image) At(x, y int) color.Color {
	return p.BitAt(x, y)
}

// BitAt returns the pixel at (x, y), Off when outside.
func (p *Image) BitAt(x, y int) image1bit.Bit {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return image1bit.Off
	}
	offset, mask := p.pixOffset(x, y)
	return image1bit.Bit(p.Pix[offset]&mask != 0)
}

// Set implements draw.Image.
func (p *Image) Set(x, y int, c color.Color) {
	p.SetBit(x, y, image1bit.BitModel.Convert(c).(image1bit.Bit))
}

// SetBit sets the pixel at (x, y) without color conversion.
func (p *Image) SetBit(x, y int, b image1bit.Bit) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	offset, mask := p.pixOffset(x, y)
	if b {
		p.Pix[offset] |= mask
	} else {
		p.Pix[offset] &^= mask
	}
}

// Fill sets every pixel, padding included, to b.
func (p *Image) Fill(b image1bit.Bit) {
	var v byte
	if b {
		v = 0xFF
	}
	for i := range p.Pix {
		p.Pix[i] = v
	}
}

// Len returns the number of bytes in the bitmap.
func (p *Image) Len() int {
	return len(p.Pix)
}

// ByteAt returns byte i of the bitmap.
func (p *Image) ByteAt(i int) byte {
	return p.Pix[i]
}

// Bytes returns the bitmap data.
func (p *Image) Bytes() []byte {
	return p.Pix
}

// Size implements drivers.Displayer.
func (p *Image) Size() (x, y int16) {
	return int16(p.Rect.Dx()), int16(p.Rect.Dy())
}

// SetPixel implements drivers.Displayer.
func (p *Image) SetPixel(x, y int16, c color.RGBA) {
	p.Set(int(x), int(y), c)
}

// Display implements drivers.Displayer. Nothing is sent anywhere; the
// bitmap is shown by passing it to the driver.
func (p *Image) Display() error {
	return nil
}

func (p *Image) pixOffset(x, y int) (offset int, mask byte) {
	return y*p.Stride + x/8, 0x80 >> uint(x&7)
}
