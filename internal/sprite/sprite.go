// Package sprite parses object table slots and identifies, each frame,
// which slot holds the locally controlled character. Slot assignment is
// reshuffled by the game engine every frame, so identity is re-derived from
// content on every call and never cached by slot index.
package sprite

// Shape is an object's shape class from attribute 0.
type Shape uint8

const (
	ShapeSquare Shape = iota
	ShapeWide
	ShapeTall
	shapeProhibited
)

// sizes maps [shape][size class] to pixel dimensions.
var sizes = [3][4][2]int{
	{{8, 8}, {16, 16}, {32, 32}, {64, 64}}, // square
	{{16, 8}, {32, 8}, {32, 16}, {64, 32}}, // wide
	{{8, 16}, {8, 32}, {16, 32}, {32, 64}}, // tall
}

// Descriptor is one parsed object table slot. Descriptors are ephemeral:
// they are rebuilt from the raw attribute words every frame and never
// persisted.
type Descriptor struct {
	Slot int

	// X and Y are the screen position of the top-left corner, sign
	// normalised so partially offscreen objects have negative
	// coordinates.
	X, Y int

	Shape     Shape
	SizeClass int
	W, H      int

	Tile     int
	Priority int
	Bank     int

	HFlip, VFlip bool
	Enabled      bool
}

// Parse decodes the three raw attribute words of an object table slot.
//
//	attr0: bits 0–7 Y, bit 8 affine, bit 9 disable (when not affine),
//	       bits 14–15 shape
//	attr1: bits 0–8 X, bit 12 hFlip, bit 13 vFlip, bits 14–15 size class
//	attr2: bits 0–9 tile, bits 10–11 priority, bits 12–15 palette bank
func Parse(slot int, attr0, attr1, attr2 uint16) Descriptor {
	d := Descriptor{
		Slot:      slot,
		Y:         int(attr0 & 0xFF),
		Shape:     Shape(attr0 >> 14),
		X:         int(attr1 & 0x1FF),
		HFlip:     attr1&0x1000 != 0,
		VFlip:     attr1&0x2000 != 0,
		SizeClass: int(attr1 >> 14),
		Tile:      int(attr2 & 0x3FF),
		Priority:  int(attr2 >> 10 & 0x3),
		Bank:      int(attr2 >> 12),
	}

	affine := attr0&0x0100 != 0
	d.Enabled = affine || attr0&0x0200 == 0

	// X is a 9-bit and Y an 8-bit wrapping coordinate.
	if d.X >= 256 {
		d.X -= 512
	}
	if d.Y >= 160 {
		d.Y -= 256
	}

	if d.Shape != shapeProhibited {
		wh := sizes[d.Shape][d.SizeClass]
		d.W, d.H = wh[0], wh[1]
	} else {
		d.Enabled = false
	}
	return d
}
