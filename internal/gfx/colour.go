package gfx

// Color is a packed 32-bit RGBA colour, red in the most significant byte:
// R<<24 | G<<16 | B<<8 | A. A Color with zero alpha is fully transparent.
type Color uint32

// RGBA packs four 8-bit channels into a Color.
func RGBA(r, g, b, a uint8) Color {
	return Color(r)<<24 | Color(g)<<16 | Color(b)<<8 | Color(a)
}

func (c Color) R() uint8 { return uint8(c >> 24) }
func (c Color) G() uint8 { return uint8(c >> 16) }
func (c Color) B() uint8 { return uint8(c >> 8) }
func (c Color) A() uint8 { return uint8(c) }

// WithAlpha returns the colour with its alpha channel replaced. RGB is
// untouched.
func (c Color) WithAlpha(a uint8) Color {
	return c&^0xFF | Color(a)
}

// BGR555 is the hardware's native 15-bit palette colour: five bits per
// channel, blue in the high bits (xBBBBBGGGGGRRRRR).
type BGR555 uint16

// Color expands the 15-bit colour to 32-bit RGBA with full alpha. Each
// 5-bit channel c becomes (c<<3)|(c>>2), so 0 maps to 0 and 31 to 255.
func (c BGR555) Color() Color {
	r := uint8(c & 0x1F)
	g := uint8((c >> 5) & 0x1F)
	b := uint8((c >> 10) & 0x1F)
	return RGBA(r<<3|r>>2, g<<3|g>>2, b<<3|b>>2, 0xFF)
}

// Quantize narrows a 32-bit colour to the hardware's 15-bit form. Each
// 8-bit channel is rounded to the nearest 5-bit value and clamped to 31.
// Alpha is discarded; the narrowing is lossy and not reversible.
func Quantize(c Color) BGR555 {
	return BGR555(quant5(c.R())) | BGR555(quant5(c.G()))<<5 | BGR555(quant5(c.B()))<<10
}

func quant5(v uint8) uint16 {
	q := (uint16(v) + 4) >> 3
	if q > 31 {
		q = 31
	}
	return q
}
