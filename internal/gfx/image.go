package gfx

// Image is a width×height buffer of packed 32-bit colours, row-major from
// the top-left.
type Image struct {
	W, H int
	Pix  []Color
}

// NewImage returns a fully transparent image of the given size.
func NewImage(w, h int) *Image {
	return &Image{W: w, H: h, Pix: make([]Color, w*h)}
}

// At returns the colour at (x, y). Out-of-bounds coordinates return the
// transparent colour.
func (i *Image) At(x, y int) Color {
	if x < 0 || y < 0 || x >= i.W || y >= i.H {
		return 0
	}
	return i.Pix[y*i.W+x]
}
