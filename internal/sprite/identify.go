package sprite

import (
	"sort"

	"github.com/veilbyte/ghostlink/internal/hw"
)

// Config tunes the identification heuristics.
type Config struct {
	// AnchorX and AnchorY are the screen coordinates the character's
	// centre is expected to stay near.
	AnchorX, AnchorY int
	// MaxDistance is the Manhattan radius around the anchor inside which
	// candidates are accepted.
	MaxDistance int
	// ReservedFrom is the first object slot reserved for injecting remote
	// ghosts into hardware; those slots are never candidates. Set to
	// hw.ObjectSlots to reserve none.
	ReservedFrom int
}

// DefaultConfig anchors on the centre of the display.
func DefaultConfig() Config {
	return Config{
		AnchorX:      hw.ScreenWidth / 2,
		AnchorY:      hw.ScreenHeight / 2,
		MaxDistance:  48,
		ReservedFrom: hw.ObjectSlots,
	}
}

// Identifier selects the character's object table slot each frame.
type Identifier struct {
	cfg Config
}

func NewIdentifier(cfg Config) *Identifier {
	return &Identifier{cfg: cfg}
}

type candidate struct {
	d    Descriptor
	dist int
}

// silhouette reports whether the descriptor's dimensions match one of the
// character's two silhouettes: the tall 16×32 walking frame or the square
// 32×32 frame used for surfing and field moves.
func silhouette(d Descriptor) bool {
	return (d.W == 16 && d.H == 32) || (d.W == 32 && d.H == 32)
}

// Identify scans the object table and returns the descriptor most likely
// to be the locally controlled character, or false when no slot qualifies
// this frame. A false result is a normal transient state, not an error;
// some animations hide or reshape the character for a few frames.
func (i *Identifier) Identify(acc hw.Accessor) (Descriptor, bool) {
	var cands []candidate
	for slot := 0; slot < hw.ObjectSlots; slot++ {
		if slot >= i.cfg.ReservedFrom {
			continue
		}
		a0, a1, a2, ok := acc.ObjectAttributes(slot)
		if !ok {
			continue
		}
		d := Parse(slot, a0, a1, a2)
		if !d.Enabled || !silhouette(d) {
			continue
		}
		cx, cy := d.X+d.W/2, d.Y+d.H/2
		dist := abs(cx-i.cfg.AnchorX) + abs(cy-i.cfg.AnchorY)
		if dist > i.cfg.MaxDistance {
			continue
		}
		cands = append(cands, candidate{d: d, dist: dist})
	}
	if len(cands) == 0 {
		return Descriptor{}, false
	}

	// The character's tiles are always loaded first into object character
	// memory, so the lowest tile index wins. Priority breaks ties because
	// the character draws in front of overlapping effects such as its own
	// reflection. Distance to the anchor is the final tiebreak.
	sort.Slice(cands, func(a, b int) bool {
		if cands[a].d.Tile != cands[b].d.Tile {
			return cands[a].d.Tile < cands[b].d.Tile
		}
		if cands[a].d.Priority != cands[b].d.Priority {
			return cands[a].d.Priority < cands[b].d.Priority
		}
		return cands[a].dist < cands[b].dist
	})
	return cands[0].d, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
