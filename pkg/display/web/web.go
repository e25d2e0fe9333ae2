// Package web streams the emulated display to browser clients
// over a websocket, one raw RGBA frame per message.
package web

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/thelolagemann/gomeboy-advance/pkg/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans completed frames out to the connected clients.
type Hub struct {
	clients   map[*client]bool
	broadcast chan []byte

	register, unregister chan *client

	log log.Logger
	mu  sync.Mutex
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates a frame streaming hub.
func NewHub(logger log.Logger) *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 4),
		register:   make(chan *client),
		unregister: make(chan *client),
		log:        logger,
	}
}

// Broadcast queues a frame for every connected client. Frames
// are dropped rather than queued when the hub is backed up.
func (h *Hub) Broadcast(frame []byte) {
	select {
	case h.broadcast <- frame:
	default:
	}
}

// Run serves websocket clients on the given address and fans
// out broadcast frames until the process exits.
func (h *Hub) Run(addr string) error {
	go h.loop()

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.log.Errorf("web: unable to upgrade connection: %s", err)
			return
		}
		c := &client{conn: conn, send: make(chan []byte, 2)}
		h.register <- c
		go c.writePump(h)
	})

	h.log.Infof("web: streaming frames on %s", addr)
	return http.ListenAndServe(addr, nil)
}

func (h *Hub) loop() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()
		case c := <-h.unregister:
			h.mu.Lock()
			if h.clients[c] {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
		case frame := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- frame:
				default:
					// slow client: skip the frame
				}
			}
			h.mu.Unlock()
		}
	}
}

func (c *client) writePump(h *Hub) {
	defer func() {
		h.unregister <- c
		_ = c.conn.Close()
	}()
	for frame := range c.send {
		if err := c.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			return
		}
	}
}
