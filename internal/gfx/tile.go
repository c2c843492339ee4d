package gfx

const (
	// TileSize is the width and height of one tile in pixels.
	TileSize = 8
	// BytesPerTile is the packed size of one 4bpp tile: 8 rows of 4 bytes,
	// two pixels per byte.
	BytesPerTile = 32
)

// NoAlphaOverride disables the alpha override argument to Decode.
const NoAlphaOverride = -1

// Decode expands packed 4bpp tile data into an Image. This is the only
// place pixel semantics live; every appearance and background path decodes
// through it.
//
// tiles holds (w/8)*(h/8) tiles of 32 bytes each, laid out row-major on the
// tile grid. Within a byte the low nibble is the left pixel. Palette index
// 0 decodes to the transparent colour whatever pal[0] holds. When alpha is
// in [0, 255] it replaces the alpha channel of every non-transparent pixel;
// RGB is untouched. hFlip moves the pixel at column x to column w-1-x;
// vFlip moves the pixel at row y to row h-1-y.
//
// Decode never panics. Dimensions that are not positive multiples of 8, or
// tile data shorter than the dimensions require, yield a nil image and the
// caller keeps whatever it had before.
func Decode(tiles []byte, pal Palette, w, h int, hFlip, vFlip bool, alpha int) *Image {
	if w <= 0 || h <= 0 || w%TileSize != 0 || h%TileSize != 0 {
		return nil
	}
	tw, th := w/TileSize, h/TileSize
	if len(tiles) < tw*th*BytesPerTile {
		return nil
	}

	img := NewImage(w, h)
	for ty := 0; ty < th; ty++ {
		for tx := 0; tx < tw; tx++ {
			base := (ty*tw + tx) * BytesPerTile
			for row := 0; row < TileSize; row++ {
				for pair := 0; pair < TileSize/2; pair++ {
					b := tiles[base+row*4+pair]
					putPixel(img, tx*TileSize+pair*2, ty*TileSize+row, b&0x0F, pal, hFlip, vFlip, alpha)
					putPixel(img, tx*TileSize+pair*2+1, ty*TileSize+row, b>>4, pal, hFlip, vFlip, alpha)
				}
			}
		}
	}
	return img
}

func putPixel(img *Image, x, y int, idx uint8, pal Palette, hFlip, vFlip bool, alpha int) {
	if idx == 0 {
		return // index 0 is always transparent; NewImage starts cleared
	}
	c := pal[idx].Color()
	if alpha >= 0 {
		c = c.WithAlpha(uint8(alpha))
	}
	if hFlip {
		x = img.W - 1 - x
	}
	if vFlip {
		y = img.H - 1 - y
	}
	img.Pix[y*img.W+x] = c
}
