// Package link connects a session to its peers through the ghostlinkd
// relay. The client runs its own read and write goroutines; everything it
// learns is handed to the frame goroutine through the session's queue, so
// the caches never see cross-thread mutation.
package link

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/cespare/xxhash"
	"github.com/gorilla/websocket"

	"github.com/veilbyte/ghostlink/internal/capture"
	"github.com/veilbyte/ghostlink/internal/ingest"
	"github.com/veilbyte/ghostlink/pkg/log"
)

// Sink receives what the link learns from peers. *session.Session
// satisfies it.
type Sink interface {
	QueuePayload(id string, p ingest.Payload) bool
	QueueRemove(id string) bool
}

// Client is one peer connection to the relay.
type Client struct {
	id   string
	conn *websocket.Conn
	sink Sink

	logger    log.Logger
	heartbeat time.Duration

	send      chan []byte
	done      chan struct{}
	flushed   chan struct{} // closed when writePump has drained and exited
	closeOnce sync.Once

	mu       sync.Mutex
	lastSent []byte // most recent appearance envelope, re-sent on heartbeat

	// Raw duplicate suppression: peers re-send identical state on their
	// heartbeat, so the common inbound message is byte-identical to the
	// previous one from that sender. One xxhash of the raw bytes skips
	// the JSON decode entirely.
	lastHash  map[string]uint64 // sender -> hash of last raw message
	hashOwner map[uint64]string // hash -> sender
}

// Opt configures a Client.
type Opt func(*Client)

// WithLogger replaces the default null logger.
func WithLogger(l log.Logger) Opt {
	return func(c *Client) { c.logger = l }
}

// WithHeartbeat sets the interval at which the last appearance is re-sent.
func WithHeartbeat(d time.Duration) Opt {
	return func(c *Client) { c.heartbeat = d }
}

// Dial connects to the relay at url, announces id and starts the read and
// write pumps.
func Dial(url, id string, sink Sink, opts ...Opt) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("link: dial %s: %w", url, err)
	}
	c := &Client{
		id:        id,
		conn:      conn,
		sink:      sink,
		logger:    log.NewNullLogger(),
		heartbeat: 3 * time.Second,
		send:      make(chan []byte, 16),
		done:      make(chan struct{}),
		flushed:   make(chan struct{}),
		lastHash:  make(map[string]uint64),
		hashOwner: make(map[uint64]string),
	}
	for _, opt := range opts {
		opt(c)
	}

	hello, err := json.Marshal(Envelope{Type: TypeHello, From: id})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("link: encode hello: %w", err)
	}
	c.send <- hello

	go c.readPump()
	go c.writePump()
	return c, nil
}

// SendAppearance queues the captured appearance for delivery and remembers
// it for heartbeat re-sends. It never blocks the frame goroutine: when the
// outbound queue is full the message is dropped and the next heartbeat
// carries the state instead.
func (c *Client) SendAppearance(a *capture.Appearance) {
	data, err := json.Marshal(Envelope{Type: TypeAppearance, From: c.id, Appearance: payloadFrom(a)})
	if err != nil {
		c.logger.Errorf("link: encode appearance: %v", err)
		return
	}
	c.mu.Lock()
	c.lastSent = data
	c.mu.Unlock()

	select {
	case c.send <- data:
	default:
		c.logger.Debugf("link: outbound queue full, deferring to heartbeat")
	}
}

// Close announces departure and tears the connection down. The leave
// envelope goes through the send channel like every other message: the
// write pump is the connection's only writer, so Close never races a
// heartbeat mid-write. Closing twice is safe.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		if leave, err := json.Marshal(Envelope{Type: TypeLeave, From: c.id}); err == nil {
			select {
			case c.send <- leave:
			default:
			}
		}
		close(c.done)
	})
	<-c.flushed
	return c.conn.Close()
}

func (c *Client) readPump() {
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				c.logger.Warnf("link: connection lost: %v", err)
			}
			return
		}

		h := xxhash.Sum64(raw)
		if _, seen := c.hashOwner[h]; seen {
			continue // heartbeat repeat, already ingested
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.logger.Warnf("link: bad message: %v", err)
			continue
		}
		if env.From == "" || env.From == c.id {
			continue
		}

		if prev, ok := c.lastHash[env.From]; ok {
			delete(c.hashOwner, prev)
		}
		c.lastHash[env.From] = h
		c.hashOwner[h] = env.From

		switch env.Type {
		case TypeAppearance:
			if env.Appearance == nil {
				continue
			}
			if !c.sink.QueuePayload(env.From, *env.Appearance) {
				c.logger.Debugf("link: session queue full, dropped update from %s", env.From)
			}
		case TypeLeave:
			delete(c.hashOwner, h)
			delete(c.lastHash, env.From)
			c.sink.QueueRemove(env.From)
		}
	}
}

func (c *Client) writePump() {
	defer close(c.flushed)
	t := time.NewTicker(c.heartbeat)
	defer t.Stop()
	for {
		select {
		case <-c.done:
			// flush whatever is queued, the leave envelope in
			// particular, before the connection comes down
			for {
				select {
				case data := <-c.send:
					if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
						return
					}
				default:
					return
				}
			}
		case data := <-c.send:
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-t.C:
			c.mu.Lock()
			data := c.lastSent
			c.mu.Unlock()
			if data == nil {
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}
}
