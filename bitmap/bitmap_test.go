package bitmap

import (
	"image"
	"image/color"
	"testing"

	"periph.io/x/devices/v3/ssd1306/image1bit"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		w, h       int
		wantStride int
		wantPixLen int
	}{
		{"200x200", 200, 200, 25, 5000},
		{"8x1", 8, 1, 1, 1},
		{"padded", 10, 3, 2, 6},
		{"empty", 0, 5, 0, 0},
		{"negative", -3, 5, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := New(tt.w, tt.h)
			if img.Stride != tt.wantStride {
				t.Errorf("Stride = %d, want %d", img.Stride, tt.wantStride)
			}
			if len(img.Pix) != tt.wantPixLen {
				t.Errorf("len(Pix) = %d, want %d", len(img.Pix), tt.wantPixLen)
			}
			for i, b := range img.Pix {
				if b != 0xFF {
					t.Errorf("Pix[%d] = 0x%02X, want 0xFF", i, b)
					break
				}
			}
		})
	}
}

func TestSetBit(t *testing.T) {
	img := New(10, 2)
	img.SetBit(0, 0, image1bit.Off)
	img.SetBit(7, 0, image1bit.Off)
	img.SetBit(8, 1, image1bit.Off)

	want := []byte{0x7E, 0xFF, 0xFF, 0x7F}
	for i := range want {
		if img.Pix[i] != want[i] {
			t.Errorf("Pix[%d] = 0x%02X, want 0x%02X", i, img.Pix[i], want[i])
		}
	}
	if img.BitAt(7, 0) != image1bit.Off {
		t.Error("BitAt(7, 0) = On, want Off")
	}
	if img.BitAt(1, 0) != image1bit.On {
		t.Error("BitAt(1, 0) = Off, want On")
	}
}

func TestSetColor(t *testing.T) {
	img := New(8, 1)
	img.Set(3, 0, color.Black)
	if img.Pix[0] != 0xEF {
		t.Errorf("Pix[0] = 0x%02X, want 0xEF", img.Pix[0])
	}
	img.Set(3, 0, color.White)
	if img.Pix[0] != 0xFF {
		t.Errorf("Pix[0] = 0x%02X, want 0xFF", img.Pix[0])
	}
}

func TestOutOfBounds(t *testing.T) {
	img := New(8, 2)
	img.SetBit(-1, 0, image1bit.Off)
	img.SetBit(8, 0, image1bit.Off)
	img.SetBit(0, 2, image1bit.Off)
	for i, b := range img.Pix {
		if b != 0xFF {
			t.Errorf("Pix[%d] = 0x%02X after out-of-bounds Set, want 0xFF", i, b)
		}
	}
	if img.BitAt(8, 0) != image1bit.Off {
		t.Error("BitAt(8, 0) = On, want Off")
	}
}

func TestConvertSameSize(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 16, 4))
	img := Convert(src, 16, 4)

	if img.Rect != image.Rect(0, 0, 16, 4) {
		t.Fatalf("Rect = %v, want 16x4", img.Rect)
	}
	for i, b := range img.Pix {
		if b != 0x00 {
			t.Errorf("Pix[%d] = 0x%02X, want 0x00", i, b)
		}
	}
}

func TestConvertFit(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 32, 16))
	img := Convert(src, 16, 16)

	// 32x16 fits as 16x8; the rows below stay white.
	for y := 0; y < 16; y++ {
		for i := 0; i < img.Stride; i++ {
			want := byte(0x00)
			if y >= 8 {
				want = 0xFF
			}
			if got := img.Pix[y*img.Stride+i]; got != want {
				t.Errorf("row %d byte %d = 0x%02X, want 0x%02X", y, i, got, want)
			}
		}
	}
}

func TestThreshold(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 8, 1))
	for x := 4; x < 8; x++ {
		src.SetGray(x, 0, color.Gray{Y: 0xFF})
	}
	img := Threshold(src, 127)
	if img.Pix[0] != 0x0F {
		t.Errorf("Pix[0] = 0x%02X, want 0x0F", img.Pix[0])
	}
}

func TestSource(t *testing.T) {
	img := New(16, 2)
	img.Pix[3] = 0x5A
	if img.Len() != 4 {
		t.Errorf("Len() = %d, want 4", img.Len())
	}
	if img.ByteAt(3) != 0x5A {
		t.Errorf("ByteAt(3) = 0x%02X, want 0x5A", img.ByteAt(3))
	}
	if &img.Bytes()[0] != &img.Pix[0] {
		t.Error("Bytes() does not alias Pix")
	}
}

func TestDisplayer(t *testing.T) {
	img := New(64, 16)
	if x, y := img.Size(); x != 64 || y != 16 {
		t.Errorf("Size() = (%d, %d), want (64, 16)", x, y)
	}

	tinyfont.WriteLine(img, &proggy.TinySZ8pt7b, 0, 10, "Hi", color.RGBA{A: 0xFF})
	if err := img.Display(); err != nil {
		t.Fatal(err)
	}

	black := 0
	for y := 0; y < 16; y++ {
		for x := 0; x < 64; x++ {
			if img.BitAt(x, y) == image1bit.Off {
				black++
			}
		}
	}
	if black == 0 {
		t.Error("WriteLine() drew no pixels")
	}
}

func TestColorModel(t *testing.T) {
	img := New(8, 8)
	if img.ColorModel() != image1bit.BitModel {
		t.Error("ColorModel() did not return image1bit.BitModel")
	}
}
