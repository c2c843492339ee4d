// ghostlinkd relays appearance traffic between ghostlink peers. Peers in
// the same room see each other's ghosts; the relay itself keeps no
// appearance state beyond what is in flight.
package main

import (
	"flag"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/veilbyte/ghostlink/pkg/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func main() {
	addr := flag.String("addr", ":8090", "listen address")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	logger := log.New(*debug)
	h := newHub(logger)
	go h.run()

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		room := r.URL.Query().Get("room")
		if room == "" {
			room = "default"
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Errorf("upgrade: %v", err)
			return
		}

		c := &client{hub: h, conn: conn, room: room, send: make(chan []byte, 32)}
		h.register <- c
		go c.readPump()
		go c.writePump()
	})

	logger.Infof("ghostlinkd listening on %s", *addr)
	if err := http.ListenAndServe(*addr, nil); err != nil {
		logger.Errorf("listen: %v", err)
	}
}
