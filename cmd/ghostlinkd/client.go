package main

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/veilbyte/ghostlink/internal/link"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 64 * 1024
)

type client struct {
	hub  *hub
	conn *websocket.Conn
	room string
	id   string // learned from the client's first envelope
	send chan []byte
}

// readPump validates envelopes and forwards them to the room. Malformed
// messages and malformed appearance payloads are dropped here so peers
// never see them.
func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var env link.Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.hub.logger.Warnf("client %s: bad envelope: %v", c.conn.RemoteAddr(), err)
			continue
		}
		if env.From == "" {
			continue
		}
		if c.id == "" {
			c.id = env.From
		}

		switch env.Type {
		case link.TypeHello:
			// announcement only, nothing to forward
		case link.TypeAppearance:
			if env.Appearance == nil {
				continue
			}
			if err := env.Appearance.Validate(); err != nil {
				c.hub.logger.Warnf("client %s: %v", c.conn.RemoteAddr(), err)
				continue
			}
			c.hub.forward <- inboundMsg{from: c, data: raw}
		case link.TypeLeave:
			c.hub.forward <- inboundMsg{from: c, data: raw}
		}
	}
}

func (c *client) writePump() {
	defer c.conn.Close()
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
