package gfx

// PaletteSize is the number of colours in one hardware palette bank.
const PaletteSize = 16

// Palette is a 16-entry bank of 15-bit colours, the authoritative palette
// form. Index 0 is conventionally transparent; the decoder enforces that
// regardless of the stored value.
type Palette [PaletteSize]BGR555

// RGBAPalette is the derived 32-bit form of a palette bank.
type RGBAPalette [PaletteSize]Color

// RGBA converts the bank to its 32-bit form. Entry 0 is emitted as the
// transparent colour, matching how decoded pixels treat it.
func (p Palette) RGBA() RGBAPalette {
	var out RGBAPalette
	for i := 1; i < PaletteSize; i++ {
		out[i] = p[i].Color()
	}
	return out
}

// QuantizePalette narrows a 32-bit palette bank to the 15-bit form, entry
// by entry. Entry 0 is forced to zero.
func QuantizePalette(p RGBAPalette) Palette {
	var out Palette
	for i := 1; i < PaletteSize; i++ {
		out[i] = Quantize(p[i])
	}
	return out
}
