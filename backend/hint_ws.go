package main

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

type hintPayload struct {
	Active     bool   `json:"active"`
	Move       *Move  `json:"move,omitempty"`
	Coord      string `json:"coord,omitempty"`
	Reason     string `json:"reason,omitempty"`
	Player     int    `json:"player,omitempty"`
	Turn       int    `json:"turn,omitempty"`
	HistoryLen int    `json:"history_len"`
}

type HintClient struct {
	hub  *HintHub
	conn *websocket.Conn
	send chan []byte
}

// HintHub pushes the AI's suggestion for a human side to move to every
// subscribed client.
type HintHub struct {
	mu        sync.Mutex
	clients   map[*HintClient]struct{}
	broadcast chan hintPayload
	last      *hintPayload
}

func NewHintHub() *HintHub {
	return &HintHub{
		clients:   make(map[*HintClient]struct{}),
		broadcast: make(chan hintPayload, 32),
	}
}

func (h *HintHub) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case payload := <-h.broadcast:
			h.mu.Lock()
			h.last = &payload
			for client := range h.clients {
				client.sendJSON(wsMessage{Type: "hint", Payload: mustMarshal(payload)})
			}
			h.mu.Unlock()
		}
	}
}

func (h *HintHub) Register(c *HintClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	if h.last != nil {
		c.sendJSON(wsMessage{Type: "hint", Payload: mustMarshal(*h.last)})
	}
	h.mu.Unlock()
}

func (h *HintHub) Publish(payload hintPayload) {
	select {
	case h.broadcast <- payload:
	default:
	}
}

func (h *HintHub) Unregister(c *HintClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *HintHub) HasClients() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients) > 0
}

func (c *HintClient) sendJSON(msg wsMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func serveHintWS(hub *HintHub, w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &HintClient{hub: hub, conn: conn, send: make(chan []byte, 16)}
	hub.Register(client)

	go func() {
		defer conn.Close()
		if err := writeWSWithHeartbeat(conn, client.send); err != nil {
			return
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			hub.Unregister(client)
			return
		}
	}
}

// hintFromController builds the payload for the current position. Inactive
// payloads clear the hint on AI turns and when the AI sees nothing tactical.
func hintFromController(controller *GameController) hintPayload {
	state := controller.State()
	payload := hintPayload{HistoryLen: controller.History().Size()}
	move, reason, ok := controller.Hint()
	if !ok {
		return payload
	}
	payload.Active = true
	payload.Move = &move
	payload.Coord = move.String()
	payload.Reason = string(reason)
	payload.Player = playerToInt(state.ToMove())
	payload.Turn = state.Turn
	return payload
}
