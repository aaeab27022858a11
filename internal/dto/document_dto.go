package dto

import "time"

type DocumentResponse struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
}

type DocumentListResponse struct {
	Files     []DocumentResponse `json:"files"`
	TotalSize int64              `json:"total_size"`
}

// KnowledgeBaseEventMessage is the payload carried on the internal event
// bus when the document store changes.
type KnowledgeBaseEventMessage struct {
	Action   string    `json:"action"` // "uploaded" | "deleted"
	Filename string    `json:"filename"`
	ChatID   string    `json:"chat_id"`
	At       time.Time `json:"at"`
}
