// FILE: internal/bot/event.go
package bot

// EventType discriminates inbound chat events.
type EventType string

const (
	EventText     EventType = "text"
	EventVoice    EventType = "voice"
	EventDocument EventType = "document"
)

// Event is one inbound message from a chat, already decoded by the
// transport layer. Commands arrive as text events starting with "/".
type Event struct {
	ChatID    string
	Type      EventType
	Text      string
	Username  string
	FirstName string

	// Document upload
	FileName string
	FileData []byte

	// Voice message, raw audio bytes
	Audio []byte
}
