// Package occlusion redraws the cover background layer over ghost pixels
// so remote ghosts appear behind foreground scenery, matching the depth
// ordering the primary display produces for local objects.
package occlusion

import (
	"github.com/veilbyte/ghostlink/internal/gfx"
	"github.com/veilbyte/ghostlink/internal/hw"
)

// Point is one screen-space pixel coordinate.
type Point struct {
	X, Y int
}

// Surface is the draw target for occlusion pixels. Calls arrive batched by
// colour so an implementation pays one state change per colour, not per
// pixel.
type Surface interface {
	DrawPoints(c gfx.Color, pts []Point)
}

// Compositor masks ghost bounding boxes with cover-layer tiles. It owns a
// bounded cache of decoded tile pixels; see MaxCacheEntries.
type Compositor struct {
	layer int
	cache map[cacheKey]*tilePixels

	// frame state, refreshed by BeginFrame and read-only until the next
	// frame
	active           bool
	ctl              hw.BackgroundControl
	scrollX, scrollY int

	pts []Point // scratch, reused across draws
}

// NewCompositor builds a compositor for the given cover layer.
func NewCompositor(layer int) *Compositor {
	return &Compositor{
		layer: layer,
		cache: make(map[cacheKey]*tilePixels),
	}
}

// BeginFrame latches the cover layer's control word and scroll offsets for
// the frame. If either read is unavailable the frame is marked inactive
// and every Mask call becomes a no-op: ghosts render without occlusion
// rather than the frame failing.
func (c *Compositor) BeginFrame(acc hw.Accessor) {
	c.active = false
	raw, ok := acc.BackgroundControl(c.layer)
	if !ok {
		return
	}
	x, y, ok := acc.BackgroundScroll(c.layer)
	if !ok {
		return
	}
	c.ctl = hw.ParseBackgroundControl(raw)
	c.scrollX, c.scrollY = x, y
	c.active = true
}

// Flush drops the tile-pixel cache. It must be called on map transition:
// tile memory is repurposed across maps, and stale entries would paint the
// previous map's graphics.
func (c *Compositor) Flush() {
	c.cache = make(map[cacheKey]*tilePixels)
}

// Mask redraws the cover layer over the screen-space bounding box of an
// already-drawn ghost. The box is translated to world space with the
// frame's scroll offsets, every overlapping 8×8 tile is fetched through
// the tile-pixel cache, and each opaque pixel inside the display bounds is
// drawn back on top, batched by colour.
func (c *Compositor) Mask(acc hw.Accessor, s Surface, x, y, w, h int) {
	if !c.active || w <= 0 || h <= 0 {
		return
	}

	mapW, mapH := c.ctl.MapSize()
	tx0 := floorDiv(x+c.scrollX, gfx.TileSize)
	ty0 := floorDiv(y+c.scrollY, gfx.TileSize)
	tx1 := floorDiv(x+w-1+c.scrollX, gfx.TileSize)
	ty1 := floorDiv(y+h-1+c.scrollY, gfx.TileSize)

	for ty := ty0; ty <= ty1; ty++ {
		for tx := tx0; tx <= tx1; tx++ {
			mtx, mty := mod(tx, mapW), mod(ty, mapH)

			// Maps wider or taller than 32 tiles are split across
			// consecutive 32×32 screen blocks: right half +1, lower
			// half +2 on a 64×64 map.
			block := c.ctl.ScreenBlock + mtx/32
			if mty >= 32 {
				block += mapW / 32
			}

			raw, ok := acc.TilemapEntry(block, mtx%32, mty%32)
			if !ok {
				continue
			}
			e := hw.ParseMapEntry(raw)
			if e.Tile == 0 {
				continue
			}
			tp := c.tilePixels(acc, e)
			if tp == nil || len(tp.groups) == 0 {
				continue
			}

			sx := tx*gfx.TileSize - c.scrollX
			sy := ty*gfx.TileSize - c.scrollY
			for _, g := range tp.groups {
				c.pts = c.pts[:0]
				for _, off := range g.offs {
					px := sx + int(off%gfx.TileSize)
					py := sy + int(off/gfx.TileSize)
					if px < 0 || py < 0 || px >= hw.ScreenWidth || py >= hw.ScreenHeight {
						continue
					}
					c.pts = append(c.pts, Point{X: px, Y: py})
				}
				if len(c.pts) > 0 {
					s.DrawPoints(g.color, c.pts)
				}
			}
		}
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
