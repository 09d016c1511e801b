package gdem0154f51h

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"log/slog"
	"time"

	"github.com/flavioheleno/gdem0154f51h/image2bit"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/host/v3/rpi"
)

// ErrShortSource is returned when a bitmap holds fewer bytes than the
// requested rectangle needs.
var ErrShortSource = errors.New("gdem0154f51h: source too short")

// Opts is the configuration for the display.
type Opts struct {
	// Profile holds the controller constants (default: GDEM0154F51H).
	Profile *Profile

	// BusyTimeout bounds every wait on the busy line (default: 20s).
	BusyTimeout time.Duration

	// ResetDuration is the length of each reset phase (default: 10ms).
	ResetDuration time.Duration

	// Logger receives busy timings and timeouts (default: discarded).
	Logger *slog.Logger
}

// ImageOpts controls how a bitmap is read.
type ImageOpts struct {
	Invert  bool // invert every source byte
	MirrorY bool // read rows bottom up
}

// Dev is the device handle for the display.
//
// Dev is not safe for concurrent use.
type Dev struct {
	// Communication
	c    conn.Conn
	dc   gpio.PinOut
	rst  gpio.PinOut // optional
	busy gpio.PinIn  // optional

	profile       *Profile
	rect          image.Rectangle
	busyTimeout   time.Duration
	resetDuration time.Duration
	maxTxSize     int
	log           *slog.Logger

	// State
	initDone     bool
	initialWrite bool
	powerOn      bool
	hibernating  bool
	paged        bool
	shown        bool // native matches the whole controller RAM
	window       image.Rectangle

	buf    []byte           // transfer buffer
	prev   []byte           // rows of native before a Draw
	native *image2bit.Image // backing image for Draw
}

var _ display.Drawer = (*Dev)(nil)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// NewSPI creates a device connected via SPI.
//
// The SPI port is configured for 4MHz, Mode0, 8-bit transfers. rst and busy
// are optional; without busy, waits last the expected duration of each
// operation.
func NewSPI(p spi.Port, dc, rst gpio.PinOut, busy gpio.PinIn, opts *Opts) (*Dev, error) {
	c, err := p.Connect(4*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("gdem0154f51h: %w", err)
	}
	return New(c, dc, rst, busy, opts)
}

// NewHat creates a device wired like the Waveshare e-Paper HAT on a
// Raspberry Pi: DC on GPIO25, RST on GPIO17 and BUSY on GPIO24.
func NewHat(p spi.Port, opts *Opts) (*Dev, error) {
	return NewSPI(p, rpi.P1_22, rpi.P1_11, rpi.P1_18, opts)
}

// New creates a device on an already connected bus.
//
// Nothing is sent to the controller until the first write; the reset line
// is pulsed if wired.
func New(c conn.Conn, dc, rst gpio.PinOut, busy gpio.PinIn, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &Opts{}
	}
	if dc == nil || dc == gpio.INVALID {
		return nil, errors.New("gdem0154f51h: DC pin is required")
	}
	if rst == gpio.INVALID {
		rst = nil
	}
	if busy == gpio.INVALID {
		busy = nil
	}

	p := opts.Profile
	if p == nil {
		p = &GDEM0154F51H
	}
	if p.Width <= 0 || p.Width%8 != 0 || p.Height <= 0 {
		return nil, errors.New("gdem0154f51h: profile width must be a positive multiple of 8 and height positive")
	}
	if opts.BusyTimeout < 0 || opts.ResetDuration < 0 {
		return nil, errors.New("gdem0154f51h: durations must not be negative")
	}

	d := &Dev{
		c:             c,
		dc:            dc,
		rst:           rst,
		busy:          busy,
		profile:       p,
		rect:          image.Rect(0, 0, p.Width, p.Height),
		busyTimeout:   20 * time.Second,
		resetDuration: 10 * time.Millisecond,
		maxTxSize:     defaultMaxTxSize,
		log:           opts.Logger,
		initialWrite:  true,
	}
	if opts.BusyTimeout > 0 {
		d.busyTimeout = opts.BusyTimeout
	}
	if opts.ResetDuration > 0 {
		d.resetDuration = opts.ResetDuration
	}
	if l, ok := c.(conn.Limits); ok {
		if n := l.MaxTxSize(); n > 0 {
			d.maxTxSize = n
		}
	}

	if d.busy != nil {
		if err := d.busy.In(gpio.Float, gpio.NoEdge); err != nil {
			return nil, fmt.Errorf("gdem0154f51h: failed to configure BUSY: %w", err)
		}
	}
	if err := d.reset(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Dev) logger() *slog.Logger {
	if d.log == nil {
		return discard
	}
	return d.log
}

// String implements conn.Resource.
func (d *Dev) String() string {
	return fmt.Sprintf("gdem0154f51h.Dev{%dx%d}", d.rect.Dx(), d.rect.Dy())
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return image2bit.Model
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// Write writes a full frame of native pixels, 4 per byte, and refreshes.
// The data must be exactly d.rect.Dx() * d.rect.Dy() / 4 bytes.
func (d *Dev) Write(pixels []byte) (int, error) {
	if len(pixels) != d.rect.Dx()*d.rect.Dy()/4 {
		return 0, errors.New("gdem0154f51h: invalid buffer size")
	}
	if err := d.drawFrame(pixels); err != nil {
		return 0, err
	}
	return len(pixels), nil
}

// Draw converts src into the native format and writes dst to the panel,
// then refreshes. dst is widened to whole bytes of 4 pixels; pixels never
// drawn before are white.
//
// A Draw that leaves the last drawn frame unchanged sends nothing.
func (d *Dev) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	dst = dst.Intersect(d.rect)
	if dst.Empty() {
		return nil
	}
	img := d.canvas()

	// Fast path: a full-size native image is sent as is.
	if s, ok := src.(*image2bit.Image); ok {
		if dst == d.rect && sp == (image.Point{}) && s.Rect == d.rect && s.Stride == img.Stride && len(s.Pix) >= len(img.Pix) {
			if d.shown && bytes.Equal(s.Pix[:len(img.Pix)], img.Pix) {
				return nil
			}
			return d.drawFrame(s.Pix[:len(img.Pix)])
		}
	}

	rows := img.Pix[(dst.Min.Y-d.rect.Min.Y)*img.Stride : (dst.Max.Y-d.rect.Min.Y)*img.Stride]
	d.prev = append(d.prev[:0], rows...)
	draw.Draw(img, dst, src, sp, draw.Src)
	if d.shown && bytes.Equal(d.prev, rows) {
		return nil
	}

	// The first write clears the RAM to white, matching an untouched canvas.
	synced := d.shown || d.initialWrite
	r := image.Rect(dst.Min.X&^3, dst.Min.Y, (dst.Max.X+3)&^3, dst.Max.Y).Intersect(d.rect)
	err := d.DrawNativePart(Bytes(img.Pix), r.Min.X, r.Min.Y, d.rect.Dx(), d.rect.Dy(),
		r.Min.X, r.Min.Y, r.Dx(), r.Dy(), ImageOpts{})
	if err != nil {
		copy(rows, d.prev)
		return err
	}
	d.shown = synced
	return nil
}

// canvas returns the backing image for Draw, white until drawn on.
func (d *Dev) canvas() *image2bit.Image {
	if d.native == nil {
		d.native = image2bit.New(d.rect)
		d.native.Fill(image2bit.White)
	}
	return d.native
}

// drawFrame sends a full native frame, refreshes and keeps a copy for Draw.
func (d *Dev) drawFrame(pix []byte) error {
	img := d.canvas()
	if err := d.DrawNative(Bytes(pix), 0, 0, d.rect.Dx(), d.rect.Dy(), ImageOpts{}); err != nil {
		return err
	}
	copy(img.Pix, pix)
	d.shown = true
	return nil
}

// Halt implements conn.Resource. It puts the controller into deep sleep.
func (d *Dev) Halt() error {
	return d.Hibernate()
}

// SetPaged marks the device as driven page by page.
func (d *Dev) SetPaged() {
	d.paged = true
}

// Paged reports whether SetPaged was called.
func (d *Dev) Paged() bool {
	return d.paged
}

// Window returns the last RAM window that was set.
func (d *Dev) Window() image.Rectangle {
	return d.window
}

// PowerIsOn reports whether the controller's power is on.
func (d *Dev) PowerIsOn() bool {
	return d.powerOn
}

// Initialized reports whether the init sequence has been sent since the
// last deep sleep.
func (d *Dev) Initialized() bool {
	return d.initDone
}

// Hibernating reports whether the controller is in deep sleep.
func (d *Dev) Hibernating() bool {
	return d.hibernating
}

// WriteScreenBuffer fills the whole controller RAM with white when
// blackValue is 0xFF and with black otherwise. colorValue is accepted for
// two-layer controllers and ignored here.
func (d *Dev) WriteScreenBuffer(blackValue, colorValue byte) error {
	if err := d.ensureInit(); err != nil {
		return err
	}
	v := fillBlack
	if blackValue == 0xFF {
		v = fillWhite
	}
	if err := d.fillRAM(v); err != nil {
		return err
	}
	d.initialWrite = false
	return nil
}

// WriteScreenBufferValue is WriteScreenBuffer(v, 0xFF).
func (d *Dev) WriteScreenBufferValue(v byte) error {
	return d.WriteScreenBuffer(v, 0xFF)
}

// ClearScreen writes the screen buffer and refreshes the whole panel.
func (d *Dev) ClearScreen(blackValue, colorValue byte) error {
	if err := d.WriteScreenBuffer(blackValue, colorValue); err != nil {
		return err
	}
	return d.refresh()
}

// ClearScreenValue is ClearScreen(v, 0xFF).
func (d *Dev) ClearScreenValue(v byte) error {
	return d.ClearScreen(v, 0xFF)
}

// WriteImage writes a 1-bit bitmap of w x h pixels to the panel at (x, y).
//
// Rows of bitmap are padded to whole bytes, most significant bit first, and
// a set bit is white. x is aligned down and w up to 8 pixels. Pixels outside
// the panel are skipped; a rectangle entirely outside it sends nothing.
// A bitmap shorter than the rectangle needs returns ErrShortSource, the only
// error the geometry can cause.
//
// A controller without partial update gets its whole RAM filled with white
// instead.
func (d *Dev) WriteImage(bitmap Source, x, y, w, h int, o ImageOpts) error {
	if empty(bitmap) {
		return nil
	}
	a, ok := resolve(x, y, w, h, 8, d.rect.Dx(), d.rect.Dy())
	if !ok {
		return nil
	}
	t := transfer{area: a, unit: 8, stride: (w + 7) / 8, rows: h}
	if err := d.prepare(bitmap, &t, o); err != nil {
		return err
	}
	if !d.profile.HasPartialUpdate {
		return d.fillRAM(fillWhite)
	}
	return d.send(bitmap, &t, o, true)
}

// WriteImagePart writes the w x h sub-region at (xPart, yPart) of a
// wBitmap x hBitmap 1-bit bitmap to the panel at (x, y).
//
// The sub-region is limited to the bitmap; an origin outside the bitmap or
// a negative size sends nothing. A bitmap shorter than wBitmap x hBitmap
// needs for the sub-region returns ErrShortSource, the only error the
// geometry can cause.
func (d *Dev) WriteImagePart(bitmap Source, xPart, yPart, wBitmap, hBitmap, x, y, w, h int, o ImageOpts) error {
	return d.writePart(bitmap, xPart, yPart, wBitmap, hBitmap, x, y, w, h, o, 8)
}

// WriteNative writes a native bitmap of 4 pixels per byte, leftmost pixel
// in the two high bits, to the panel at (x, y). x is aligned down and w up
// to 4 pixels. Like WriteImage, a short bitmap returns ErrShortSource.
func (d *Dev) WriteNative(data Source, x, y, w, h int, o ImageOpts) error {
	if empty(data) {
		return nil
	}
	a, ok := resolve(x, y, w, h, 4, d.rect.Dx(), d.rect.Dy())
	if !ok {
		return nil
	}
	t := transfer{area: a, unit: 4, stride: (w + 3) / 4, rows: h}
	return d.write(data, &t, o, false)
}

// WriteNativePart is WriteImagePart for native bitmaps.
func (d *Dev) WriteNativePart(data Source, xPart, yPart, wBitmap, hBitmap, x, y, w, h int, o ImageOpts) error {
	return d.writePart(data, xPart, yPart, wBitmap, hBitmap, x, y, w, h, o, 4)
}

// DrawImage is WriteImage followed by RefreshArea.
func (d *Dev) DrawImage(bitmap Source, x, y, w, h int, o ImageOpts) error {
	if err := d.WriteImage(bitmap, x, y, w, h, o); err != nil {
		return err
	}
	return d.RefreshArea(x, y, w, h)
}

// DrawImagePart is WriteImagePart followed by RefreshArea.
func (d *Dev) DrawImagePart(bitmap Source, xPart, yPart, wBitmap, hBitmap, x, y, w, h int, o ImageOpts) error {
	if err := d.WriteImagePart(bitmap, xPart, yPart, wBitmap, hBitmap, x, y, w, h, o); err != nil {
		return err
	}
	return d.RefreshArea(x, y, w, h)
}

// DrawNative is WriteNative followed by RefreshArea.
func (d *Dev) DrawNative(data Source, x, y, w, h int, o ImageOpts) error {
	if err := d.WriteNative(data, x, y, w, h, o); err != nil {
		return err
	}
	return d.RefreshArea(x, y, w, h)
}

// DrawNativePart is WriteNativePart followed by RefreshArea.
func (d *Dev) DrawNativePart(data Source, xPart, yPart, wBitmap, hBitmap, x, y, w, h int, o ImageOpts) error {
	if err := d.WriteNativePart(data, xPart, yPart, wBitmap, hBitmap, x, y, w, h, o); err != nil {
		return err
	}
	return d.RefreshArea(x, y, w, h)
}

// Refresh shows the controller RAM on the panel. The panel has no partial
// refresh, so a partial request does nothing.
func (d *Dev) Refresh(partial bool) error {
	if partial {
		return nil
	}
	return d.refresh()
}

// RefreshArea sets the RAM window to the rectangle, when the controller
// supports one, and refreshes the whole panel.
func (d *Dev) RefreshArea(x, y, w, h int) error {
	if d.profile.HasPartialUpdate {
		d.setWindow(x, y, w, h)
	}
	return d.refresh()
}

// PowerOff turns the controller's power off. The image stays on the panel.
func (d *Dev) PowerOff() error {
	return d.powerOffController()
}

// Hibernate powers off and, when the reset line is wired, puts the
// controller into deep sleep. The next write wakes it up with a reset.
func (d *Dev) Hibernate() error {
	if err := d.powerOffController(); err != nil {
		return err
	}
	if d.rst == nil {
		return nil
	}
	if err := d.sendCommand(deepSleep, deepSleepCheckCode); err != nil {
		return err
	}
	d.hibernating = true
	d.initDone = false
	d.shown = false
	return nil
}

func (d *Dev) writePart(src Source, xPart, yPart, wBitmap, hBitmap, x, y, w, h int, o ImageOpts, unit int) error {
	if empty(src) {
		return nil
	}
	xPart, w, h, ok := limitPart(xPart, yPart, wBitmap, hBitmap, w, h, unit)
	if !ok {
		return nil
	}
	a, ok := resolve(x, y, w, h, unit, d.rect.Dx(), d.rect.Dy())
	if !ok {
		return nil
	}
	t := transfer{
		area:   a,
		unit:   unit,
		stride: (wBitmap + unit - 1) / unit,
		rows:   hBitmap,
		xByte:  xPart / unit,
		yRow:   yPart,
	}
	return d.write(src, &t, o, unit == 8)
}

// write sends a resolved transfer. With expandBits, src holds 1-bit pixels.
func (d *Dev) write(src Source, t *transfer, o ImageOpts, expandBits bool) error {
	if err := d.prepare(src, t, o); err != nil {
		return err
	}
	return d.send(src, t, o, expandBits)
}

// prepare checks src covers t, then initializes and clears the controller
// as needed.
func (d *Dev) prepare(src Source, t *transfer, o ImageOpts) error {
	if last := t.lastIndex(o.MirrorY); last >= src.Len() {
		return fmt.Errorf("%w: need %d bytes, have %d", ErrShortSource, last+1, src.Len())
	}
	if err := d.ensureInit(); err != nil {
		return err
	}
	if d.initialWrite {
		return d.WriteScreenBufferValue(0xFF)
	}
	return nil
}

// send sets the window to t and transmits its transcoded bytes.
func (d *Dev) send(src Source, t *transfer, o ImageOpts, expandBits bool) error {
	d.shown = false
	d.setWindow(t.x, t.y, t.w, t.h)
	d.buf = transcode(d.buf[:0], src, t, o, expandBits)
	return d.sendCommand(dataStartTransmit, d.buf...)
}

// setWindow records the RAM window. The controller addresses its RAM as a
// whole, so nothing is sent.
func (d *Dev) setWindow(x, y, w, h int) {
	d.window = ramArea(x, y, w, h, d.rect)
}
