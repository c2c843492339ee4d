package occlusion

import (
	"github.com/veilbyte/ghostlink/internal/gfx"
	"github.com/veilbyte/ghostlink/internal/hw"
)

// MaxCacheEntries caps the tile-pixel cache. On overflow the whole cache
// is dropped and rebuilt from empty; the set of tiles visible within one
// map is small and stable, so a wholesale reset refills in a handful of
// frames and costs far less than eviction bookkeeping.
const MaxCacheEntries = 256

// cacheKey identifies one decoded background tile variant.
type cacheKey struct {
	charBlock    int
	tile         int
	bank         int
	hFlip, vFlip bool
}

// pixelGroup is every opaque pixel of one colour within an 8×8 tile,
// stored as y*8+x offsets. Grouping by colour lets the draw path batch
// all pixels of a colour into a single call.
type pixelGroup struct {
	color gfx.Color
	offs  []uint8
}

// tilePixels is the cached decode of one tile variant. A nil groups slice
// is the explicit fully-transparent marker, stored so empty tiles are not
// re-decoded every frame.
type tilePixels struct {
	groups []pixelGroup
}

// tilePixels returns the decoded pixel groups for a tilemap entry,
// building and caching them on a miss. An unavailable hardware read
// returns nil and caches nothing, so the tile is retried next frame.
func (c *Compositor) tilePixels(acc hw.Accessor, e hw.MapEntry) *tilePixels {
	key := cacheKey{
		charBlock: c.ctl.CharBlock,
		tile:      e.Tile,
		bank:      e.Bank,
		hFlip:     e.HFlip,
		vFlip:     e.VFlip,
	}
	if tp, ok := c.cache[key]; ok {
		return tp
	}

	data, ok := acc.BackgroundTile(c.ctl.CharBlock, e.Tile)
	if !ok {
		return nil
	}
	pal, ok := acc.BackgroundPalette(e.Bank)
	if !ok {
		return nil
	}

	tp := &tilePixels{}
	img := gfx.Decode(data, pal, gfx.TileSize, gfx.TileSize, e.HFlip, e.VFlip, gfx.NoAlphaOverride)
	if img != nil {
		for off, px := range img.Pix {
			if px.A() == 0 {
				continue
			}
			grouped := false
			for i := range tp.groups {
				if tp.groups[i].color == px {
					tp.groups[i].offs = append(tp.groups[i].offs, uint8(off))
					grouped = true
					break
				}
			}
			if !grouped {
				tp.groups = append(tp.groups, pixelGroup{color: px, offs: []uint8{uint8(off)}})
			}
		}
	}

	if len(c.cache) >= MaxCacheEntries {
		c.cache = make(map[cacheKey]*tilePixels)
	}
	c.cache[key] = tp
	return tp
}
