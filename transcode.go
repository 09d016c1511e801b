package gdem0154f51h

// expand maps one 1-bpp source byte to two native bytes of four 2-bit
// pixels each. A set bit becomes color code 01, a cleared bit code 00.
// The high nibble fills the first byte, the low nibble the second.
func expand(b byte) (byte, byte) {
	return expandNibble(b), expandNibble(b << 4)
}

// expandNibble spreads bits 7..4 of b over bit pairs 7-6, 5-4, 3-2 and 1-0.
func expandNibble(b byte) byte {
	var v byte
	if b&0x80 != 0 {
		v |= 0x40
	}
	if b&0x40 != 0 {
		v |= 0x10
	}
	if b&0x20 != 0 {
		v |= 0x04
	}
	if b&0x10 != 0 {
		v |= 0x01
	}
	return v
}

// transcode appends the native bytes of t read from src to dst.
// With expandBits, src holds 1-bpp pixels, otherwise native 2-bpp pixels.
func transcode(dst []byte, src Source, t *transfer, o ImageOpts, expandBits bool) []byte {
	n := t.rowBytes()
	for i := 0; i < t.h; i++ {
		for j := 0; j < n; j++ {
			v := src.ByteAt(t.index(i, j, o.MirrorY))
			if o.Invert {
				v = ^v
			}
			if !expandBits {
				dst = append(dst, v)
				continue
			}
			hi, lo := expand(v)
			dst = append(dst, hi, lo)
		}
	}
	return dst
}
