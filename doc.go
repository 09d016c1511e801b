// Package gdem0154f51h controls a GDEM0154F51H 4-color e-paper display via SPI.
//
// The GDEM0154F51H is a Good Display 1.54" 200×200 panel showing black, white,
// yellow and red. Its controller holds a single frame of 2-bit pixels and has
// no partial refresh: every refresh redraws the whole panel.
// This driver implements the display.Drawer interface from periph.io.
//
// # Display Characteristics
//
// - 4 colors, 2 bits per pixel, 4 pixels per byte
// - 200×200 pixels
// - Full refresh only, about 15 seconds
// - Deep sleep with wake up through the reset line
//
// # Hardware Connection
//
// Connect the panel to your system via SPI:
//
//	Panel Pin → System Pin
//	GND       → GND
//	VCC       → 3.3V
//	CLK       → SPI Clock (SCLK)
//	DIN       → SPI Data (MOSI)
//	CS        → SPI Chip Select
//	DC        → GPIO (any available pin)
//	RST       → Optional: GPIO for hardware reset and deep sleep wake up
//	BUSY      → Optional: GPIO, low while the controller works
//
// Without BUSY, the driver waits the expected duration of each operation.
// Without RST, Hibernate only powers the controller off.
//
// # Basic Usage
//
//	package main
//
//	import (
//		"github.com/flavioheleno/gdem0154f51h"
//		"github.com/flavioheleno/gdem0154f51h/bitmap"
//		"periph.io/x/conn/v3/gpio/gpioreg"
//		"periph.io/x/conn/v3/spi/spireg"
//		"periph.io/x/host/v3"
//	)
//
//	func main() {
//		host.Init()
//
//		spiBus, _ := spireg.Open("")
//		dc := gpioreg.ByName("GPIO25")
//		rst := gpioreg.ByName("GPIO17")
//		busy := gpioreg.ByName("GPIO24")
//
//		dev, _ := gdem0154f51h.NewSPI(spiBus, dc, rst, busy, nil)
//		defer dev.Halt()
//
//		img := bitmap.New(64, 32)
//		// ... draw into img ...
//		dev.DrawImage(img, 68, 84, 64, 32, gdem0154f51h.ImageOpts{})
//	}
//
// On a Raspberry Pi with a Waveshare e-Paper HAT, NewHat picks the pins:
//
//	dev, _ := gdem0154f51h.NewHat(spiBus, nil)
//
// # Writing and Refreshing
//
// Writes only change the controller RAM; nothing shows until a refresh.
//
//	dev.WriteImage(img, x, y, w, h, opts)  // 1 bit per pixel, set bit = white
//	dev.WriteNative(data, x, y, w, h, opts) // 2 bits per pixel
//	dev.Refresh(false)                       // show the RAM
//
// The Draw variants write and refresh in one call. The Part variants copy a
// sub-rectangle of a larger bitmap.
//
// 1-bit writes are aligned to 8 pixels and native writes to 4 pixels:
// x is rounded down and the width up. Pixels outside the panel are skipped.
// A rectangle entirely outside the panel sends nothing and returns nil.
//
// The first write after construction clears the whole RAM to white, so
// areas never written do not show the previous image.
//
// # Colors
//
// Native pixels use 2-bit codes:
//
//	00 black
//	01 white
//	10 yellow
//	11 red
//
// The image2bit package provides a draw.Image in this layout. Draw converts
// any image.Image to it, mapping every color to the nearest panel color. A
// full-size image2bit.Image is sent as is, as is a frame passed to Write,
// and a Draw that changes nothing does not refresh the panel.
//
// # Bitmaps
//
// Any type with Len and ByteAt can be drawn; Bytes wraps a slice and
// ReaderAt wraps read-only storage such as an embedded asset. The bitmap
// package scales, dithers and renders text into 1-bit bitmaps.
//
// # Power
//
//	dev.PowerOff()  // keep the image, stop the charge pump
//	dev.Hibernate() // deep sleep; the next write resets and re-initializes
//
// # Compatibility with periph.io
//
// Dev implements display.Drawer. Halt puts the controller into deep sleep.
package gdem0154f51h
