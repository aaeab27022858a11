package websocket

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/websocket/v2"

	"kb-assistant-be/internal/bot"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Uploads ride inside JSON frames base64-encoded, so the limit is well
	// above the raw document size cap.
	maxMessageSize = 32 << 20
)

// inboundFrame is what a connected chat client sends us.
type inboundFrame struct {
	Type      string `json:"type"` // "text" | "voice" | "document"
	Text      string `json:"text,omitempty"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	Filename  string `json:"filename,omitempty"`
	Data      []byte `json:"data,omitempty"`
	Audio     []byte `json:"audio,omitempty"`
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	Hub *Hub

	// Connection id, unique per socket. A chat can hold several.
	ID string

	// The websocket connection.
	Conn *websocket.Conn

	// ChatID associated with this connection
	ChatID string

	// Dispatcher receiving decoded inbound events
	Dispatcher *bot.Dispatcher

	// Buffered channel of outbound messages.
	Send chan []byte
}

// readPump pumps messages from the websocket connection to the dispatcher.
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("readPump error for chat %s: %v", c.ChatID, err)
			}
			break
		}

		var frame inboundFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			// Bare text is accepted as a plain message frame.
			frame = inboundFrame{Type: "text", Text: string(raw)}
		}
		c.Dispatcher.Enqueue(c.toEvent(frame))
	}
}

func (c *Client) toEvent(frame inboundFrame) bot.Event {
	ev := bot.Event{
		ChatID:    c.ChatID,
		Text:      frame.Text,
		Username:  frame.Username,
		FirstName: frame.FirstName,
	}
	switch frame.Type {
	case "voice":
		ev.Type = bot.EventVoice
		ev.Audio = frame.Audio
	case "document":
		ev.Type = bot.EventDocument
		ev.FileName = frame.Filename
		ev.FileData = frame.Data
	default:
		ev.Type = bot.EventText
	}
	return ev
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
