package session

import (
	"testing"

	"github.com/veilbyte/ghostlink/internal/capture"
	"github.com/veilbyte/ghostlink/internal/gfx"
	"github.com/veilbyte/ghostlink/internal/ingest"
	"github.com/veilbyte/ghostlink/internal/occlusion"
)

// frameHW serves a centred character and nothing else; the cover layer is
// unavailable so occlusion fails open.
type frameHW struct {
	tiles []byte
}

func newFrameHW() *frameHW {
	tiles := make([]byte, 8*gfx.BytesPerTile)
	for i := range tiles {
		tiles[i] = byte(i)
	}
	return &frameHW{tiles: tiles}
}

func (f *frameHW) ObjectAttributes(slot int) (uint16, uint16, uint16, bool) {
	if slot != 0 {
		return 0, 0, 0, true
	}
	return 64 | 2<<14, 112 | 2<<14, 0, true
}
func (f *frameHW) ObjectTiles(int, int) ([]byte, bool)       { return f.tiles, true }
func (f *frameHW) ObjectPalette(int) (gfx.Palette, bool)     { return gfx.Palette{1: 0x001F}, true }
func (f *frameHW) BackgroundControl(int) (uint16, bool)      { return 0, false }
func (f *frameHW) BackgroundScroll(int) (int, int, bool)     { return 0, 0, false }
func (f *frameHW) TilemapEntry(int, int, int) (uint16, bool) { return 0, false }
func (f *frameHW) BackgroundTile(int, int) ([]byte, bool)    { return nil, false }
func (f *frameHW) BackgroundPalette(int) (gfx.Palette, bool) { return gfx.Palette{}, false }

type drawRecorder struct {
	images int
}

func (r *drawRecorder) DrawImage(img *gfx.Image, x, y int)            { r.images++ }
func (r *drawRecorder) DrawPoints(c gfx.Color, pts []occlusion.Point) {}

type fixedPositions map[string][2]int

func (p fixedPositions) Position(id string) (int, int, bool) {
	xy, ok := p[id]
	return xy[0], xy[1], ok
}

func ghostPayload() ingest.Payload {
	bank := 0
	bgr := make([]uint16, gfx.PaletteSize)
	bgr[1] = 0x001F
	return ingest.Payload{
		Width:       16,
		Height:      32,
		PaletteBank: &bank,
		Tiles:       make([]byte, 8*gfx.BytesPerTile),
		PaletteBgr:  bgr,
	}
}

func TestRunFrameIngestsQueuedPayloads(t *testing.T) {
	s := New(newFrameHW())
	if !s.QueuePayload("peer", ghostPayload()) {
		t.Fatal("queue rejected payload")
	}
	s.RunFrame(nil, nil)
	if s.Remote().Len() != 1 {
		t.Fatalf("remote cache has %d entries, want 1", s.Remote().Len())
	}

	if !s.QueueRemove("peer") {
		t.Fatal("queue rejected removal")
	}
	s.RunFrame(nil, nil)
	if s.Remote().Len() != 0 {
		t.Error("removal should drop the ghost")
	}
}

func TestRunFrameDropsMalformedPayload(t *testing.T) {
	s := New(newFrameHW())
	p := ghostPayload()
	p.Width = 13
	s.QueuePayload("peer", p)
	s.RunFrame(nil, nil)
	if s.Remote().Len() != 0 {
		t.Error("malformed payload must not create a ghost")
	}
}

func TestRunFrameNotifiesOnChange(t *testing.T) {
	var got *capture.Appearance
	hw := newFrameHW()
	s := New(hw, OnAppearanceChange(func(a *capture.Appearance) { got = a }))

	s.RunFrame(nil, nil)
	if got == nil {
		t.Fatal("first frame should notify the new appearance")
	}
	if got.W != 16 || got.H != 32 {
		t.Errorf("notified %dx%d, want 16x32", got.W, got.H)
	}

	got = nil
	s.RunFrame(nil, nil)
	if got != nil {
		t.Error("unchanged frame must not notify")
	}

	hw.tiles[3] ^= 0xFF
	s.RunFrame(nil, nil)
	if got == nil {
		t.Error("content change should notify again")
	}
}

func TestRunFrameDrawsGhosts(t *testing.T) {
	s := New(newFrameHW())
	s.QueuePayload("a", ghostPayload())
	s.QueuePayload("b", ghostPayload())

	rec := &drawRecorder{}
	pos := fixedPositions{"a": {10, 20}}
	s.RunFrame(rec, pos)
	if rec.images != 1 {
		t.Errorf("drew %d ghosts, want 1 (no position for the other)", rec.images)
	}
}
