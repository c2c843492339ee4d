// Package session sequences one full ghostlink pass per display refresh:
// drain queued remote payloads, capture the local character, then draw and
// occlude every ghost. Nothing in the sequence blocks; a hardware read
// that comes back unavailable skips its step and is retried next frame.
package session

import (
	"github.com/veilbyte/ghostlink/internal/capture"
	"github.com/veilbyte/ghostlink/internal/gfx"
	"github.com/veilbyte/ghostlink/internal/hw"
	"github.com/veilbyte/ghostlink/internal/ingest"
	"github.com/veilbyte/ghostlink/internal/occlusion"
	"github.com/veilbyte/ghostlink/internal/sprite"
	"github.com/veilbyte/ghostlink/pkg/log"
)

// Renderer is the drawing surface ghosts are composited onto. DrawImage
// blits a reconstructed appearance; DrawPoints is the colour-batched
// occlusion path.
type Renderer interface {
	occlusion.Surface
	DrawImage(img *gfx.Image, x, y int)
}

// Positioner supplies the interpolated screen position of each remote
// identity. Movement smoothing lives outside this module; the session only
// asks where a ghost is right now.
type Positioner interface {
	Position(id string) (x, y int, ok bool)
}

type inbound struct {
	id      string
	remove  bool
	payload ingest.Payload
}

// Session owns the three caches and runs the per-frame sequence. All cache
// mutation happens on the goroutine calling RunFrame; payloads arriving
// from other goroutines are queued and drained at frame start.
type Session struct {
	acc    hw.Accessor
	local  *capture.Cache
	remote *ingest.Cache
	comp   *occlusion.Compositor
	logger log.Logger

	identCfg sprite.Config
	cover    int

	onChange func(*capture.Appearance)
	queue    chan inbound
}

// Opt configures a Session.
type Opt func(*Session)

// WithLogger replaces the default null logger.
func WithLogger(l log.Logger) Opt {
	return func(s *Session) { s.logger = l }
}

// WithIdentification overrides the identification heuristics.
func WithIdentification(cfg sprite.Config) Opt {
	return func(s *Session) { s.identCfg = cfg }
}

// WithCoverLayer selects which background layer occludes ghosts.
func WithCoverLayer(layer int) Opt {
	return func(s *Session) { s.cover = layer }
}

// OnAppearanceChange registers a callback invoked whenever capture stores
// a new local appearance, typically to push it to the peer link.
func OnAppearanceChange(fn func(*capture.Appearance)) Opt {
	return func(s *Session) { s.onChange = fn }
}

// New builds a session reading hardware through acc.
func New(acc hw.Accessor, opts ...Opt) *Session {
	s := &Session{
		acc:      acc,
		remote:   ingest.NewCache(),
		logger:   log.NewNullLogger(),
		identCfg: sprite.DefaultConfig(),
		cover:    1,
		queue:    make(chan inbound, 64),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.local = capture.New(sprite.NewIdentifier(s.identCfg))
	s.comp = occlusion.NewCompositor(s.cover)
	return s
}

// QueuePayload hands a remote payload to the frame goroutine. It is safe
// to call from any goroutine and never blocks; when the queue is full the
// payload is dropped and false returned, relying on the sender's heartbeat
// to deliver the state again.
func (s *Session) QueuePayload(id string, p ingest.Payload) bool {
	select {
	case s.queue <- inbound{id: id, payload: p}:
		return true
	default:
		return false
	}
}

// QueueRemove queues the removal of a remote identity.
func (s *Session) QueueRemove(id string) bool {
	select {
	case s.queue <- inbound{id: id, remove: true}:
		return true
	default:
		return false
	}
}

// MapChanged flushes the occlusion tile cache. Call it whenever the game
// transitions maps, since tile memory is repurposed across maps.
func (s *Session) MapChanged() {
	s.comp.Flush()
}

// Local exposes the local capture cache, for serialization paths.
func (s *Session) Local() *capture.Cache {
	return s.local
}

// Remote exposes the remote cache for read access, e.g. the hardware
// re-injection path. Frame goroutine only; other goroutines go through
// QueuePayload and QueueRemove.
func (s *Session) Remote() *ingest.Cache {
	return s.remote
}

// RunFrame executes one full pass. r may be nil when there is nothing to
// draw to; capture and ingestion still run so state stays current.
func (s *Session) RunFrame(r Renderer, pos Positioner) {
	s.drain()

	s.local.Capture(s.acc)
	if s.local.Changed() && s.onChange != nil {
		if app, ok := s.local.Appearance(); ok {
			s.onChange(app)
		}
	}

	s.comp.BeginFrame(s.acc)
	if r == nil || pos == nil {
		return
	}
	s.remote.Each(func(id string, a *ingest.Appearance) {
		x, y, ok := pos.Position(id)
		if !ok {
			return
		}
		r.DrawImage(a.Image, x, y)
		s.comp.Mask(s.acc, r, x, y, a.W, a.H)
	})
}

func (s *Session) drain() {
	for {
		select {
		case in := <-s.queue:
			if in.remove {
				s.remote.Remove(in.id)
				continue
			}
			if err := s.remote.Ingest(in.id, in.payload); err != nil {
				s.logger.Warnf("dropping payload: %v", err)
			}
		default:
			return
		}
	}
}
