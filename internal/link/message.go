package link

import (
	"github.com/veilbyte/ghostlink/internal/capture"
	"github.com/veilbyte/ghostlink/internal/gfx"
	"github.com/veilbyte/ghostlink/internal/ingest"
)

// Message types carried in an Envelope.
const (
	TypeHello      = "hello"
	TypeAppearance = "appearance"
	TypeLeave      = "leave"
)

// Envelope is the JSON frame exchanged through the relay. Appearance is
// set only for TypeAppearance messages.
type Envelope struct {
	Type       string          `json:"type"`
	From       string          `json:"from"`
	Appearance *ingest.Payload `json:"appearance,omitempty"`
}

// payloadFrom serialises a captured local appearance into its wire form.
// Both palette representations are sent: the 15-bit form is authoritative,
// the 32-bit form keeps older receivers working.
func payloadFrom(a *capture.Appearance) *ingest.Payload {
	bank := a.Bank
	p := &ingest.Payload{
		Width:       a.W,
		Height:      a.H,
		PaletteBank: &bank,
		HFlip:       a.HFlip,
		VFlip:       a.VFlip,
		Tiles:       a.Tiles,
		Palette:     make([]uint32, gfx.PaletteSize),
		PaletteBgr:  make([]uint16, gfx.PaletteSize),
	}
	for i := 0; i < gfx.PaletteSize; i++ {
		p.Palette[i] = uint32(a.RGBA[i])
		p.PaletteBgr[i] = uint16(a.Palette[i])
	}
	return p
}
