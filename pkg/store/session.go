package store

import (
	"kb-assistant-be/pkg/knowledge"
	"kb-assistant-be/pkg/llm"
)

// ChatState is the explicit per-chat state machine. It replaces the pair of
// ad-hoc "awaiting password" / "awaiting upload" flag maps, so a chat is
// always in exactly one mode.
type ChatState string

const (
	StateIdle             ChatState = "IDLE"
	StateAwaitingPassword ChatState = "AWAITING_PASSWORD"
	StateAwaitingUpload   ChatState = "AWAITING_UPLOAD"
	StateAiActive         ChatState = "AI_ACTIVE"
)

// Session is the in-memory state of one chat. Sessions are strictly
// per chat id; no two chats share context or snapshot.
type Session struct {
	ChatID string
	State  ChatState

	// ReturnState is where the chat goes back to when a password or upload
	// flow ends. AI mode survives an /admin or /upload detour; only /stop
	// turns it off.
	ReturnState ChatState

	// Context is the ordered conversation: the system prompt first, then
	// alternating user/assistant turns.
	Context []llm.Message

	// Snapshot holds the knowledge load this chat is answering from.
	// Replaced wholesale on reload.
	Snapshot *knowledge.Snapshot
}

func NewSession(chatID string) *Session {
	return &Session{
		ChatID: chatID,
		State:  StateIdle,
	}
}

// AiActive reports whether the chat currently forwards questions to the model.
func (s *Session) AiActive() bool {
	return s != nil && s.State == StateAiActive
}

// BeginFlow parks the current mode and enters a flag state.
func (s *Session) BeginFlow(state ChatState) {
	s.ReturnState = s.State
	s.State = state
}

// EndFlow leaves the flag state, restoring AI mode if it was on.
func (s *Session) EndFlow() {
	if s.ReturnState == StateAiActive {
		s.State = StateAiActive
	} else {
		s.State = StateIdle
	}
	s.ReturnState = StateIdle
}
