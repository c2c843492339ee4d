package ingest

import (
	"errors"
	"fmt"

	"github.com/veilbyte/ghostlink/internal/gfx"
)

var (
	ErrBadDimensions = errors.New("dimensions must be positive multiples of 8")
	ErrBadTileLength = errors.New("tile data length does not match dimensions")
	ErrNoPalette     = errors.New("payload carries no palette in either form")
	ErrBadPalette    = errors.New("palette must have exactly 16 entries")
	ErrBadBank       = errors.New("palette bank out of range")
)

// Payload is the wire form of one appearance, as exchanged with peers.
// PaletteBgr is the authoritative 15-bit palette; Palette is the legacy
// packed 32-bit form, accepted from older senders and quantised on
// ingestion (lossily, 8 bits per channel down to 5). At least one of the
// two must be present.
type Payload struct {
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	PaletteBank *int     `json:"paletteBank,omitempty"`
	HFlip       bool     `json:"hFlip"`
	VFlip       bool     `json:"vFlip"`
	Tiles       []byte   `json:"tiles"`
	Palette     []uint32 `json:"palette,omitempty"`
	PaletteBgr  []uint16 `json:"paletteBgr,omitempty"`
}

// Validate checks the structural rules a payload must satisfy before it
// may touch a cache. A failed payload is dropped whole; the previous cache
// entry stays.
func (p *Payload) Validate() error {
	if p.Width <= 0 || p.Height <= 0 || p.Width%gfx.TileSize != 0 || p.Height%gfx.TileSize != 0 {
		return fmt.Errorf("%w: %dx%d", ErrBadDimensions, p.Width, p.Height)
	}
	want := p.Width / gfx.TileSize * p.Height / gfx.TileSize * gfx.BytesPerTile
	if len(p.Tiles) != want {
		return fmt.Errorf("%w: got %d, want %d", ErrBadTileLength, len(p.Tiles), want)
	}
	if len(p.Palette) == 0 && len(p.PaletteBgr) == 0 {
		return ErrNoPalette
	}
	if len(p.PaletteBgr) != 0 && len(p.PaletteBgr) != gfx.PaletteSize {
		return fmt.Errorf("%w: paletteBgr has %d", ErrBadPalette, len(p.PaletteBgr))
	}
	if len(p.PaletteBgr) == 0 && len(p.Palette) != gfx.PaletteSize {
		return fmt.Errorf("%w: palette has %d", ErrBadPalette, len(p.Palette))
	}
	if p.PaletteBank != nil && (*p.PaletteBank < 0 || *p.PaletteBank > 15) {
		return fmt.Errorf("%w: %d", ErrBadBank, *p.PaletteBank)
	}
	return nil
}

// normalize reduces the payload's palette to the authoritative 15-bit
// form. Index 0 is forced transparent whatever the sender put there.
func (p *Payload) normalize() gfx.Palette {
	var pal gfx.Palette
	if len(p.PaletteBgr) == gfx.PaletteSize {
		for i := 1; i < gfx.PaletteSize; i++ {
			pal[i] = gfx.BGR555(p.PaletteBgr[i]) & 0x7FFF
		}
		return pal
	}
	var rgba gfx.RGBAPalette
	for i := range p.Palette {
		rgba[i] = gfx.Color(p.Palette[i])
	}
	return gfx.QuantizePalette(rgba)
}

// bank returns the payload's palette bank, or -1 when a legacy sender
// omitted it.
func (p *Payload) bank() int {
	if p.PaletteBank == nil {
		return -1
	}
	return *p.PaletteBank
}
