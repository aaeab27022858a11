package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g. "KB_FILE_UPLOADED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic implementation used by publishers.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Knowledge base change events. Any document change still requires an
// explicit /reload_data in the chat; these events only drive notifications
// and the audit log.
const (
	TypeKBFileUploaded = "KB_FILE_UPLOADED"
	TypeKBFileDeleted  = "KB_FILE_DELETED"
)

// NewKnowledgeBaseEvent builds an upload/delete event for a document.
func NewKnowledgeBaseEvent(eventType, filename, chatID string) BaseEvent {
	return BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"filename": filename,
			"chat_id":  chatID,
		},
		OccurredAt: time.Now(),
	}
}
