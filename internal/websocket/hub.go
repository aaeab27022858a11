package websocket

import (
	"encoding/json"
	"sync"

	"kb-assistant-be/internal/pkg/logger"
)

// Hub tracks the open connections for each chat. A chat can be open from
// several devices at once; outbound replies go to all of them.
type Hub struct {
	// Registered clients map: ChatID -> list of clients (multi-device)
	clients map[string][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	logger logger.ILogger
}

func NewHub(log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		logger:     log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ChatID] = append(h.clients[client.ChatID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{
				"chat_id":   client.ChatID,
				"client_id": client.ID,
			})

		case client := <-h.unregister:
			// Sole closer of Send. Senders only signal this channel, so a
			// client evicted twice closes once.
			h.mu.Lock()
			if clients, ok := h.clients[client.ChatID]; ok {
				for i, c := range clients {
					if c.ID == client.ID {
						h.clients[client.ChatID] = append(clients[:i], clients[i+1:]...)
						close(c.Send)
						break
					}
				}
				if len(h.clients[client.ChatID]) == 0 {
					delete(h.clients, client.ChatID)
					h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"chat_id": client.ChatID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// Send delivers a text reply to every open connection of one chat.
// Implements the bot transport.
func (h *Hub) Send(chatID, text string) error {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "message",
		"text": text,
	})
	h.deliver(chatID, data)
	return nil
}

// SendFile delivers a document to every open connection of one chat. The
// bytes ride inside the JSON frame base64-encoded.
func (h *Hub) SendFile(chatID, filename string, data []byte) error {
	frame, _ := json.Marshal(map[string]interface{}{
		"type":     "file",
		"filename": filename,
		"data":     data,
	})
	h.deliver(chatID, frame)
	return nil
}

// BroadcastEvent pushes a bus event to ALL connected clients. Implements
// the consumer's change notifier.
func (h *Hub) BroadcastEvent(eventType string, payload interface{}) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": eventType,
		"data": payload,
	})

	var stale []*Client
	h.mu.RLock()
	for _, clients := range h.clients {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
				stale = append(stale, client)
			}
		}
	}
	h.mu.RUnlock()

	// Unregister needs the write lock, so signal only after releasing ours.
	for _, client := range stale {
		h.unregister <- client
	}
}

func (h *Hub) deliver(chatID string, data []byte) {
	var stale []*Client
	h.mu.RLock()
	for _, client := range h.clients[chatID] {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Client Send buffer full, dropping message", map[string]interface{}{"chat_id": chatID})
			stale = append(stale, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range stale {
		h.unregister <- client
	}
}
