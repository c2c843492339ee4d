//go:build !test && cgo

// Package sdl renders the ghost overlay through SDL2. It implements
// session.Renderer: appearance images are streamed into a texture and
// occlusion pixels are drawn as colour-batched point lists.
package sdl

import (
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/veilbyte/ghostlink/internal/gfx"
	"github.com/veilbyte/ghostlink/internal/occlusion"
)

// Surface draws onto an sdl.Renderer shared with the host frontend. The
// frontend owns the renderer lifecycle; Surface only issues draw calls
// between the frontend's clear and present.
type Surface struct {
	r *sdl.Renderer

	// one streaming texture, recreated when the appearance size changes
	tex        *sdl.Texture
	texW, texH int

	pts []sdl.Point // scratch
}

func New(r *sdl.Renderer) *Surface {
	r.SetDrawBlendMode(sdl.BLENDMODE_BLEND)
	return &Surface{r: r}
}

// DrawImage blits a reconstructed appearance at (x, y).
func (s *Surface) DrawImage(img *gfx.Image, x, y int) {
	if img == nil || len(img.Pix) == 0 {
		return
	}
	if s.tex == nil || s.texW != img.W || s.texH != img.H {
		if s.tex != nil {
			s.tex.Destroy()
		}
		tex, err := s.r.CreateTexture(sdl.PIXELFORMAT_RGBA8888, sdl.TEXTUREACCESS_STREAMING, int32(img.W), int32(img.H))
		if err != nil {
			return
		}
		tex.SetBlendMode(sdl.BLENDMODE_BLEND)
		s.tex, s.texW, s.texH = tex, img.W, img.H
	}

	// gfx.Color packs R<<24|G<<16|B<<8|A, the same layout RGBA8888
	// textures expect for native-endian uint32 pixels.
	raw := unsafe.Slice((*byte)(unsafe.Pointer(&img.Pix[0])), len(img.Pix)*4)
	if err := s.tex.Update(nil, raw, img.W*4); err != nil {
		return
	}
	dst := sdl.Rect{X: int32(x), Y: int32(y), W: int32(img.W), H: int32(img.H)}
	s.r.Copy(s.tex, nil, &dst)
}

// DrawPoints draws one occlusion colour batch.
func (s *Surface) DrawPoints(c gfx.Color, pts []occlusion.Point) {
	if len(pts) == 0 {
		return
	}
	s.pts = s.pts[:0]
	for _, p := range pts {
		s.pts = append(s.pts, sdl.Point{X: int32(p.X), Y: int32(p.Y)})
	}
	s.r.SetDrawColor(c.R(), c.G(), c.B(), c.A())
	s.r.DrawPoints(s.pts)
}

// Destroy releases the streaming texture.
func (s *Surface) Destroy() {
	if s.tex != nil {
		s.tex.Destroy()
		s.tex = nil
	}
}
