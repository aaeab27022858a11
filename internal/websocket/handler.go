package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"kb-assistant-be/internal/bot"
)

// ServeWs handles websocket requests from the peer.
func ServeWs(hub *Hub, dispatcher *bot.Dispatcher, c *websocket.Conn, chatID string) {
	client := &Client{
		Hub:        hub,
		ID:         uuid.NewString(),
		Conn:       c,
		ChatID:     chatID,
		Dispatcher: dispatcher,
		Send:       make(chan []byte, 256),
	}
	client.Hub.register <- client

	go client.writePump()
	client.readPump() // Run readPump in current goroutine (handler)
}
