// Package hw defines the read-only contract against the console's live
// memory. Every read is non-blocking and may report unavailable instead of
// a value; callers branch on the ok result and skip the dependent step for
// the rest of the frame. Nothing in this package retries or errors.
package hw

import "github.com/veilbyte/ghostlink/internal/gfx"

const (
	// ScreenWidth and ScreenHeight are the visible display bounds in
	// pixels.
	ScreenWidth  = 240
	ScreenHeight = 160

	// ObjectSlots is the size of the hardware object table.
	ObjectSlots = 128
)

// Accessor reads one frame's worth of hardware state. Implementations wrap
// whatever exposes the console's memory (an emulator core, a memory-mapped
// process, a debug probe); none of the engines care which.
type Accessor interface {
	// ObjectAttributes reads the three raw attribute words of one object
	// table slot.
	ObjectAttributes(slot int) (attr0, attr1, attr2 uint16, ok bool)

	// ObjectTiles reads count packed 4bpp tiles from object character
	// memory starting at the given tile index.
	ObjectTiles(tile, count int) ([]byte, bool)

	// ObjectPalette reads one 16-entry bank of object palette memory.
	ObjectPalette(bank int) (gfx.Palette, bool)

	// BackgroundControl reads the raw control word of a background layer.
	BackgroundControl(layer int) (uint16, bool)

	// BackgroundScroll reads a background layer's scroll offsets.
	BackgroundScroll(layer int) (x, y int, ok bool)

	// TilemapEntry reads one raw tilemap word from a 32×32 screen block.
	// tx and ty are tile coordinates within that block, 0–31.
	TilemapEntry(screenBlock, tx, ty int) (uint16, bool)

	// BackgroundTile reads one packed 4bpp tile from a background
	// character base block.
	BackgroundTile(charBlock, tile int) ([]byte, bool)

	// BackgroundPalette reads one 16-entry bank of background palette
	// memory.
	BackgroundPalette(bank int) (gfx.Palette, bool)
}
