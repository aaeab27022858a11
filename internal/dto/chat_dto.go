package dto

type ActivateAiRequest struct {
	ChatID string `json:"chat_id" validate:"required"`
}

type ActivateAiResponse struct {
	FileCount  int `json:"file_count"`
	CharsCount int `json:"chars_count"`
}

type ReloadDataResponse struct {
	FileCount  int  `json:"file_count"`
	CharsCount int  `json:"chars_count"`
	AiActive   bool `json:"ai_active"`
}

type AskRequest struct {
	ChatID   string `json:"chat_id" validate:"required"`
	Question string `json:"question" validate:"required"`
}

type AskResponse struct {
	Reply    string `json:"reply"`
	Relevant bool   `json:"relevant"`
}
