// FILE: internal/bot/transport.go
package bot

// Transport delivers outbound replies to a chat. The websocket hub is the
// production implementation; tests use an in-memory fake.
type Transport interface {
	Send(chatID, text string) error
	SendFile(chatID, filename string, data []byte) error
}
