package main

import (
	"encoding/json"

	"github.com/veilbyte/ghostlink/internal/link"
	"github.com/veilbyte/ghostlink/pkg/log"
)

type inboundMsg struct {
	from *client
	data []byte
}

// hub fans appearance traffic out between the peers of each room. All room
// state is owned by the run loop; clients talk to it through channels
// only.
type hub struct {
	logger log.Logger

	register   chan *client
	unregister chan *client
	forward    chan inboundMsg

	rooms map[string]map[*client]bool
}

func newHub(logger log.Logger) *hub {
	return &hub{
		logger:     logger,
		register:   make(chan *client),
		unregister: make(chan *client),
		forward:    make(chan inboundMsg, 64),
		rooms:      make(map[string]map[*client]bool),
	}
}

func (h *hub) run() {
	for {
		select {
		case c := <-h.register:
			if h.rooms[c.room] == nil {
				h.rooms[c.room] = make(map[*client]bool)
			}
			h.rooms[c.room][c] = true
			h.logger.Infof("client %s joined room %q (%d peers)", c.conn.RemoteAddr(), c.room, len(h.rooms[c.room]))

		case c := <-h.unregister:
			if peers, ok := h.rooms[c.room]; ok && peers[c] {
				delete(peers, c)
				close(c.send)
				if len(peers) == 0 {
					delete(h.rooms, c.room)
				} else if c.id != "" {
					// Tell the survivors to drop the ghost.
					if leave, err := json.Marshal(link.Envelope{Type: link.TypeLeave, From: c.id}); err == nil {
						h.broadcast(c.room, nil, leave)
					}
				}
				h.logger.Infof("client %s left room %q", c.conn.RemoteAddr(), c.room)
			}

		case m := <-h.forward:
			h.broadcast(m.from.room, m.from, m.data)
		}
	}
}

// broadcast sends data to every room member except skip. A member whose
// send queue is full is dropped rather than blocking the hub.
func (h *hub) broadcast(room string, skip *client, data []byte) {
	for c := range h.rooms[room] {
		if c == skip {
			continue
		}
		select {
		case c.send <- data:
		default:
			h.logger.Warnf("client %s too slow, disconnecting", c.conn.RemoteAddr())
			delete(h.rooms[room], c)
			close(c.send)
			c.conn.Close()
		}
	}
}
