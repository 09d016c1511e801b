// Package image2bit provides the native 4-color image format of the
// GDEM0154F51H e-paper controller.
//
// Each pixel is a 2-bit color code and every byte holds 4 pixels, the
// leftmost pixel in the two high bits.
//
// Memory layout example for a 4-pixel row:
//
//	Pixels: 0      1      2       3
//	Colors: black  white  yellow  red
//	Codes:  00     01     10      11
//	Byte:   0x1B
//
// This package provides:
//
// - Color: one of Black, White, Yellow or Red
// - Model: a color model mapping any color to the nearest panel color
// - Image: a draw.Image laid out the way the controller RAM is
//
// Example usage:
//
//	img := image2bit.New(image.Rect(0, 0, 200, 200))
//	img.Fill(image2bit.White)
//	img.SetColor(10, 20, image2bit.Red)
//	draw.Draw(img, image.Rect(0, 0, 50, 50), image.NewUniform(color.Black), image.Point{}, draw.Src)
package image2bit
