package gdem0154f51h

import "image"

// area is a clipped rectangle in panel coordinates. dx and dy are the
// offsets of its origin inside the rectangle the caller asked for.
type area struct {
	x, y, w, h int
	dx, dy     int
}

// resolve aligns x down and w up to unit pixels, then clips the rectangle
// to a width x height panel. It reports false when nothing is left to draw.
func resolve(x, y, w, h, unit, width, height int) (area, bool) {
	x -= x % unit
	w = unit * ((w + unit - 1) / unit)

	x1, y1 := max(x, 0), max(y, 0)
	w1, h1 := w, h
	if x+w >= width {
		w1 = width - x
	}
	if y+h >= height {
		h1 = height - y
	}
	dx, dy := x1-x, y1-y
	w1 -= dx
	h1 -= dy
	if w1 <= 0 || h1 <= 0 {
		return area{}, false
	}
	return area{x: x1, y: y1, w: w1, h: h1, dx: dx, dy: dy}, true
}

// limitPart checks a source sub-region of a wBitmap x hBitmap bitmap and
// limits w and h to what remains of the bitmap from (xPart, yPart).
// xPart is returned aligned down to unit pixels.
func limitPart(xPart, yPart, wBitmap, hBitmap, w, h, unit int) (int, int, int, bool) {
	if wBitmap < 0 || hBitmap < 0 || w < 0 || h < 0 {
		return 0, 0, 0, false
	}
	if xPart < 0 || xPart >= wBitmap {
		return 0, 0, 0, false
	}
	if yPart < 0 || yPart >= hBitmap {
		return 0, 0, 0, false
	}
	xPart -= xPart % unit
	w = min(w, wBitmap-xPart)
	h = min(h, hBitmap-yPart)
	return xPart, w, h, true
}

// transfer describes how a clipped area is read from a caller bitmap.
type transfer struct {
	area
	unit   int // pixels per source byte
	stride int // source bytes per row, from the unclipped width
	rows   int // source rows, used to mirror
	xByte  int // source byte of the first column of the sub-region
	yRow   int // source row of the first row of the sub-region
}

// index returns the source byte for column byte j of output row i.
func (t *transfer) index(i, j int, mirrorY bool) int {
	row := t.yRow + i + t.dy
	if mirrorY {
		row = t.rows - 1 - row
	}
	return t.xByte + j + t.dx/t.unit + row*t.stride
}

// rowBytes is the number of source bytes read per output row.
func (t *transfer) rowBytes() int {
	return t.w / t.unit
}

// lastIndex is the highest source byte the transfer reads.
func (t *transfer) lastIndex(mirrorY bool) int {
	j := t.rowBytes() - 1
	return max(t.index(0, j, mirrorY), t.index(t.h-1, j, mirrorY))
}

// ramArea rounds w and h up to 8 pixels and clips the result to bounds.
func ramArea(x, y, w, h int, bounds image.Rectangle) image.Rectangle {
	if w <= 0 || h <= 0 {
		return image.Rectangle{}
	}
	w = (w + 7) &^ 7
	h = (h + 7) &^ 7
	return image.Rect(x, y, x+w, y+h).Intersect(bounds)
}
