package capture

import (
	"testing"

	"github.com/veilbyte/ghostlink/internal/gfx"
	"github.com/veilbyte/ghostlink/internal/sprite"
)

// fakeHW serves one centred 16×32 character and counts palette reads so
// tests can prove the cheap unchanged path never touches the palette.
type fakeHW struct {
	present      bool
	tiles        []byte
	pal          gfx.Palette
	tilesOK      bool
	palOK        bool
	paletteReads int
}

func newFakeHW() *fakeHW {
	tiles := make([]byte, 8*gfx.BytesPerTile) // 16x32 -> 8 tiles
	for i := range tiles {
		tiles[i] = byte(i)
	}
	return &fakeHW{
		present: true,
		tiles:   tiles,
		pal:     gfx.Palette{1: 0x001F, 2: 0x03E0},
		tilesOK: true,
		palOK:   true,
	}
}

func (f *fakeHW) ObjectAttributes(slot int) (uint16, uint16, uint16, bool) {
	if !f.present || slot != 0 {
		return 0, 0, 0, slot < 128 && f.present
	}
	// tall 16x32 at (112, 64), tile 8, bank 2
	return 64 | 2<<14, 112 | 2<<14, 8 | 2<<12, true
}

func (f *fakeHW) ObjectTiles(tile, count int) ([]byte, bool) {
	if !f.tilesOK {
		return nil, false
	}
	return f.tiles, true
}

func (f *fakeHW) ObjectPalette(bank int) (gfx.Palette, bool) {
	if !f.palOK {
		return gfx.Palette{}, false
	}
	f.paletteReads++
	return f.pal, true
}

func (f *fakeHW) BackgroundControl(int) (uint16, bool)      { return 0, false }
func (f *fakeHW) BackgroundScroll(int) (int, int, bool)     { return 0, 0, false }
func (f *fakeHW) TilemapEntry(int, int, int) (uint16, bool) { return 0, false }
func (f *fakeHW) BackgroundTile(int, int) ([]byte, bool)    { return nil, false }
func (f *fakeHW) BackgroundPalette(int) (gfx.Palette, bool) { return gfx.Palette{}, false }

func newCache() *Cache {
	return New(sprite.NewIdentifier(sprite.DefaultConfig()))
}

func TestCaptureFirstFrame(t *testing.T) {
	hw := newFakeHW()
	c := newCache()

	c.Capture(hw)
	if !c.Changed() {
		t.Fatal("first capture should report changed")
	}
	a, ok := c.Appearance()
	if !ok {
		t.Fatal("appearance missing after capture")
	}
	if a.W != 16 || a.H != 32 || a.Bank != 2 || a.Tile != 8 {
		t.Errorf("appearance = %dx%d bank %d tile %d", a.W, a.H, a.Bank, a.Tile)
	}
	if a.Revision != 1 {
		t.Errorf("revision = %d, want 1", a.Revision)
	}
	if a.Image == nil || a.Image.W != 16 || a.Image.H != 32 {
		t.Error("decoded image missing or wrong size")
	}
}

func TestCaptureUnchangedSkipsPalette(t *testing.T) {
	hw := newFakeHW()
	c := newCache()

	c.Capture(hw)
	if hw.paletteReads != 1 {
		t.Fatalf("palette reads after first capture = %d, want 1", hw.paletteReads)
	}

	c.Capture(hw)
	if c.Changed() {
		t.Error("identical frame should report unchanged")
	}
	if hw.paletteReads != 1 {
		t.Errorf("unchanged frame read the palette (%d reads)", hw.paletteReads)
	}
	a, _ := c.Appearance()
	if a.Revision != 1 {
		t.Errorf("revision moved to %d on unchanged frame", a.Revision)
	}
}

func TestCaptureDetectsTileChange(t *testing.T) {
	hw := newFakeHW()
	c := newCache()
	c.Capture(hw)

	hw.tiles[0] ^= 0xFF
	c.Capture(hw)
	if !c.Changed() {
		t.Fatal("tile byte change should report changed")
	}
	a, _ := c.Appearance()
	if a.Revision != 2 {
		t.Errorf("revision = %d, want 2", a.Revision)
	}
}

func TestCaptureNoIdentification(t *testing.T) {
	hw := newFakeHW()
	c := newCache()
	c.Capture(hw)
	before, _ := c.Appearance()

	hw.present = false
	c.Capture(hw)
	if c.Changed() {
		t.Error("no identification should report unchanged")
	}
	after, ok := c.Appearance()
	if !ok || after != before || after.Revision != before.Revision {
		t.Error("prior appearance must survive a frame with no identification")
	}
}

func TestCaptureUnavailableReadsLeaveCache(t *testing.T) {
	hw := newFakeHW()
	c := newCache()
	c.Capture(hw)
	before, _ := c.Appearance()

	hw.tiles[0] ^= 0xFF // content changed, but the palette read will fail
	hw.palOK = false
	c.Capture(hw)
	if c.Changed() {
		t.Error("capture with unavailable palette should report unchanged")
	}
	if after, _ := c.Appearance(); after != before {
		t.Error("prior appearance must survive an unavailable read")
	}
}

func TestCaptureNothingYet(t *testing.T) {
	c := newCache()
	if _, ok := c.Appearance(); ok {
		t.Error("appearance should be absent before any capture")
	}
	if c.Changed() {
		t.Error("changed should be false before any capture")
	}
}
