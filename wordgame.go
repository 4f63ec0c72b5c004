package main

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is one websocket connection. Its id is the stable player identity
// for the connection's lifetime; disconnecting is permanent removal.
type Client struct {
	conn *websocket.Conn
	id   string

	mu     sync.Mutex
	send   chan any
	closed bool
}

func newClient(conn *websocket.Conn, id string) *Client {
	return &Client{
		conn: conn,
		id:   id,
		send: make(chan any, 16),
	}
}

// trySend queues msg without blocking. Returns false if the client is closed
// or its buffer is full.
func (c *Client) trySend(msg any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}

	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *Client) readPump(m *Manager) {
	defer func() {
		m.Disconnect(c)
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case "create-room":
			m.CreateRoom(c, msg.Nickname)
		case "join-room":
			m.JoinRoom(c, msg.RoomID, msg.Nickname)
		case "start-game":
			m.StartGame(c)
		case "submit-word":
			m.SubmitWord(c, msg.Word)
		default:
			// ignore unknown types
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

func newPlayerID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		log.Println("rand.Read error:", err)
		return ""
	}
	return hex.EncodeToString(buf)
}

func serveWS(cfg *Config, m *Manager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		playerID := newPlayerID()
		if playerID == "" {
			http.Error(w, "unable to assign player id", http.StatusInternalServerError)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error:", err)
			return
		}

		logf(cfg, "GAMES: Player %s connected from %s", playerID[:8], realIP(r))

		client := newClient(conn, playerID)

		go client.writePump()
		client.readPump(m)
	}
}

// QR handler: generates a PNG QR code for the current room URL using go-qrcode.
func qrHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomID := ps.ByName("roomid")
	if roomID == "" {
		http.Error(w, "missing room id", http.StatusBadRequest)
		return
	}

	// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	// We are at /.../:roomid/qr; strip trailing "/qr" to get the room URL.
	path := strings.TrimSuffix(r.URL.Path, "/qr")

	url := scheme + "://" + r.Host + path

	const qrSize = 320 // mobile-friendly size
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

func getGameHandler(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		securityHeaders(cfg, w)

		_, _ = w.Write([]byte(gameHTML))
	}
}

// registerWordGame sets up routes so that:
//   - $path             → HTML client (create a room from there)
//   - $path/:roomid     → HTML client joining that room
//   - $path/:roomid/qr  → PNG QR code for that room URL
//   - /ws               → WebSocket carrying all game intents
func registerWordGame(cfg *Config, path string, mux *httprouter.Router, m *Manager) {
	mux.GET(cfg.prefix+path, getGameHandler(cfg))

	mux.GET(cfg.prefix+path+"/:roomid", getGameHandler(cfg))

	mux.GET(cfg.prefix+path+"/:roomid/qr", qrHandler)

	mux.GET(cfg.prefix+"/ws", serveWS(cfg, m))
}
