package sprite

import (
	"testing"

	"github.com/veilbyte/ghostlink/internal/gfx"
	"github.com/veilbyte/ghostlink/internal/hw"
)

// tableAccessor serves a synthetic object table; everything else is
// unavailable.
type tableAccessor struct {
	slots map[int][3]uint16
}

func (a *tableAccessor) ObjectAttributes(slot int) (uint16, uint16, uint16, bool) {
	w, ok := a.slots[slot]
	return w[0], w[1], w[2], ok
}

func (a *tableAccessor) ObjectTiles(int, int) ([]byte, bool)       { return nil, false }
func (a *tableAccessor) ObjectPalette(int) (gfx.Palette, bool)     { return gfx.Palette{}, false }
func (a *tableAccessor) BackgroundControl(int) (uint16, bool)      { return 0, false }
func (a *tableAccessor) BackgroundScroll(int) (int, int, bool)     { return 0, 0, false }
func (a *tableAccessor) TilemapEntry(int, int, int) (uint16, bool) { return 0, false }
func (a *tableAccessor) BackgroundTile(int, int) ([]byte, bool)    { return nil, false }
func (a *tableAccessor) BackgroundPalette(int) (gfx.Palette, bool) { return gfx.Palette{}, false }

// tallSlot builds the attribute words of an enabled 16×32 object.
func tallSlot(x, y, tile, prio int) [3]uint16 {
	return [3]uint16{
		uint16(y&0xFF) | 2<<14,  // shape: tall
		uint16(x&0x1FF) | 2<<14, // size class 2 -> 16x32
		uint16(tile) | uint16(prio)<<10,
	}
}

func TestParse(t *testing.T) {
	d := Parse(7, 0x8000|40, 0x8000|0x1000|100, 5|1<<10)
	if d.Slot != 7 || d.X != 100 || d.Y != 40 {
		t.Errorf("position = slot %d (%d,%d)", d.Slot, d.X, d.Y)
	}
	if d.Shape != ShapeTall || d.W != 16 || d.H != 32 {
		t.Errorf("shape = %d %dx%d, want tall 16x32", d.Shape, d.W, d.H)
	}
	if !d.HFlip || d.VFlip {
		t.Errorf("flips = %v/%v, want true/false", d.HFlip, d.VFlip)
	}
	if d.Tile != 5 || d.Priority != 1 || d.Bank != 0 {
		t.Errorf("tile %d priority %d bank %d", d.Tile, d.Priority, d.Bank)
	}
	if !d.Enabled {
		t.Error("slot should be enabled")
	}
}

func TestParseWrapsCoordinates(t *testing.T) {
	d := Parse(0, 0x8000|200, 0x8000|500, 0)
	if d.X != 500-512 {
		t.Errorf("X = %d, want %d", d.X, 500-512)
	}
	if d.Y != 200-256 {
		t.Errorf("Y = %d, want %d", d.Y, 200-256)
	}
}

func TestParseDisabled(t *testing.T) {
	d := Parse(0, 0x8200|40, 0x8000|100, 0)
	if d.Enabled {
		t.Error("disable bit set, slot should be disabled")
	}
}

func TestIdentifyNoneFound(t *testing.T) {
	id := NewIdentifier(DefaultConfig())
	if _, ok := id.Identify(&tableAccessor{slots: map[int][3]uint16{}}); ok {
		t.Error("empty table should identify nothing")
	}

	// an off-anchor candidate is also nothing
	acc := &tableAccessor{slots: map[int][3]uint16{0: tallSlot(0, 0, 1, 0)}}
	if _, ok := id.Identify(acc); ok {
		t.Error("candidate far from anchor should be rejected")
	}
}

func TestIdentifyTieBreaks(t *testing.T) {
	// centred 16x32 objects: top-left (112, 64) puts the centre on the
	// (120, 80) anchor
	t.Run("lower tile index wins", func(t *testing.T) {
		acc := &tableAccessor{slots: map[int][3]uint16{
			4: tallSlot(112, 64, 5, 0),
			9: tallSlot(112, 64, 3, 0),
		}}
		d, ok := NewIdentifier(DefaultConfig()).Identify(acc)
		if !ok || d.Tile != 3 {
			t.Fatalf("got tile %d (ok=%v), want 3", d.Tile, ok)
		}
	})

	t.Run("lower priority breaks tile ties", func(t *testing.T) {
		acc := &tableAccessor{slots: map[int][3]uint16{
			4: tallSlot(112, 64, 4, 2),
			9: tallSlot(112, 64, 4, 1),
		}}
		d, ok := NewIdentifier(DefaultConfig()).Identify(acc)
		if !ok || d.Priority != 1 {
			t.Fatalf("got priority %d (ok=%v), want 1", d.Priority, ok)
		}
	})

	t.Run("distance is the final tiebreak", func(t *testing.T) {
		acc := &tableAccessor{slots: map[int][3]uint16{
			4: tallSlot(108, 64, 4, 1), // centre 4 off the anchor
			9: tallSlot(112, 64, 4, 1),
		}}
		d, ok := NewIdentifier(DefaultConfig()).Identify(acc)
		if !ok || d.X != 112 {
			t.Fatalf("got X %d (ok=%v), want 112", d.X, ok)
		}
	})
}

func TestIdentifySkipsReservedSlots(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ReservedFrom = 100
	acc := &tableAccessor{slots: map[int][3]uint16{
		100: tallSlot(112, 64, 1, 0), // the only candidate sits in a reserved slot
	}}
	if _, ok := NewIdentifier(cfg).Identify(acc); ok {
		t.Error("reserved slot must never be a candidate")
	}
	if _, ok := NewIdentifier(DefaultConfig()).Identify(acc); !ok {
		t.Error("same slot qualifies when not reserved")
	}
}

func TestIdentifyRejectsWrongSilhouette(t *testing.T) {
	// an 8x8 square centred on the anchor
	acc := &tableAccessor{slots: map[int][3]uint16{
		0: {uint16(76 & 0xFF), uint16(116 & 0x1FF), 0},
	}}
	if _, ok := NewIdentifier(DefaultConfig()).Identify(acc); ok {
		t.Error("8x8 object is not a character silhouette")
	}
}

var _ hw.Accessor = (*tableAccessor)(nil)
