// FILE: internal/service/chat_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"kb-assistant-be/internal/constant"
	"kb-assistant-be/internal/dto"
	"kb-assistant-be/internal/pkg/logger"
	"kb-assistant-be/internal/repository/memory"
	"kb-assistant-be/pkg/knowledge"
	"kb-assistant-be/pkg/llm"
	"kb-assistant-be/pkg/store"
)

var (
	// ErrNoKnowledge means the data folder produced no usable content.
	ErrNoKnowledge = errors.New("knowledge base is empty")

	// ErrAiNotActive means the chat has no active AI session.
	ErrAiNotActive = errors.New("ai mode is not active for this chat")

	// ErrGeneration wraps any model-call failure.
	ErrGeneration = errors.New("model generation failed")
)

type IChatService interface {
	// Activate loads the knowledge base and starts an AI session for the
	// chat, seeding the context with a single system turn.
	Activate(ctx context.Context, chatID string) (*dto.ActivateAiResponse, error)

	// Reload re-runs the loader. For an active chat the system turn and the
	// snapshot are replaced and all prior conversation turns discarded.
	Reload(ctx context.Context, chatID string) (*dto.ReloadDataResponse, error)

	// Deactivate stops the AI session and discards context and snapshot.
	// Returns false when there was nothing to deactivate.
	Deactivate(ctx context.Context, chatID string) bool

	// Ask runs the answer pipeline for one question.
	Ask(ctx context.Context, chatID, question string) (*dto.AskResponse, error)

	// IsActive reports whether AI mode is on for the chat.
	IsActive(chatID string) bool
}

type chatService struct {
	loader   *knowledge.Loader
	provider llm.Provider
	sessions *memory.SessionRepository
	logger   logger.ILogger
	maxTurns int // 0 = unbounded
}

func NewChatService(
	loader *knowledge.Loader,
	provider llm.Provider,
	sessions *memory.SessionRepository,
	log logger.ILogger,
	maxTurns int,
) IChatService {
	return &chatService{
		loader:   loader,
		provider: provider,
		sessions: sessions,
		logger:   log,
		maxTurns: maxTurns,
	}
}

func (cs *chatService) Activate(ctx context.Context, chatID string) (*dto.ActivateAiResponse, error) {
	snap, err := cs.loader.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	if snap.Empty() {
		return nil, ErrNoKnowledge
	}

	session := cs.sessions.LoadOrCreate(chatID)
	session.State = store.StateAiActive
	session.Snapshot = snap
	session.Context = []llm.Message{knowledge.BuildSystemPrompt(snap)}
	cs.sessions.Save(session)

	cs.logger.Info("Chat", "AI mode activated", map[string]interface{}{
		"chat_id": chatID,
		"files":   snap.FileCount(),
	})

	return &dto.ActivateAiResponse{
		FileCount:  snap.FileCount(),
		CharsCount: len(snap.Content),
	}, nil
}

func (cs *chatService) Reload(ctx context.Context, chatID string) (*dto.ReloadDataResponse, error) {
	snap, err := cs.loader.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	res := &dto.ReloadDataResponse{
		FileCount:  snap.FileCount(),
		CharsCount: len(snap.Content),
	}

	// The reload only touches chats that are already in AI mode; for
	// everyone else it is just a dry run reporting the new counts.
	session, found := cs.sessions.Get(chatID)
	if found && session.AiActive() {
		session.Snapshot = snap
		session.Context = []llm.Message{knowledge.BuildSystemPrompt(snap)}
		cs.sessions.Save(session)
		res.AiActive = true
	}

	return res, nil
}

func (cs *chatService) Deactivate(ctx context.Context, chatID string) bool {
	session, found := cs.sessions.Get(chatID)
	if !found || !session.AiActive() {
		return false
	}
	cs.sessions.Delete(chatID)
	cs.logger.Info("Chat", "AI mode deactivated", map[string]interface{}{"chat_id": chatID})
	return true
}

func (cs *chatService) IsActive(chatID string) bool {
	session, found := cs.sessions.Get(chatID)
	return found && session.AiActive()
}

func (cs *chatService) Ask(ctx context.Context, chatID, question string) (*dto.AskResponse, error) {
	session, found := cs.sessions.Get(chatID)
	if !found || !session.AiActive() {
		return nil, ErrAiNotActive
	}

	// 1. Relevance gate. A rejected question never reaches the model and
	// never mutates the context.
	if !session.Snapshot.Empty() && !knowledge.IsRelevant(question, session.Snapshot) {
		return &dto.AskResponse{Reply: constant.MsgNotRelevant, Relevant: false}, nil
	}

	// 2. Append the user turn and send the full ordered context.
	session.Context = append(session.Context, llm.Message{
		Role:    constant.ChatMessageRoleUser,
		Content: question,
	})

	reply, err := cs.provider.Chat(ctx, session.Context)
	if err != nil {
		// Roll the user turn back so a failed call leaves no dangling
		// unanswered turn in the context.
		session.Context = session.Context[:len(session.Context)-1]
		cs.sessions.Save(session)
		cs.logger.Error("Chat", "Model call failed", map[string]interface{}{
			"chat_id": chatID,
			"error":   err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	// 3. Append the assistant turn and patch in a source citation when the
	// model forgot to cite.
	reply = cs.ensureCitation(reply, session.Snapshot)
	session.Context = append(session.Context, llm.Message{
		Role:    constant.ChatMessageRoleAssistant,
		Content: reply,
	})
	cs.truncateContext(session)
	cs.sessions.Save(session)

	return &dto.AskResponse{Reply: reply, Relevant: true}, nil
}

// ensureCitation appends the generic source suffix when the reply neither
// names a loaded file verbatim nor carries the citation marker. Best-effort
// compliance, not a verified-citation guarantee.
func (cs *chatService) ensureCitation(reply string, snap *knowledge.Snapshot) string {
	if snap.Empty() {
		return reply
	}
	for filename := range snap.Files {
		if strings.Contains(reply, filename) {
			return reply
		}
	}
	if strings.Contains(strings.ToLower(reply), constant.SourceMarker) {
		return reply
	}
	return reply + constant.SourceFallbackSuffix
}

// truncateContext drops the oldest user/assistant turns beyond the
// configured bound, always keeping the system turn. With maxTurns == 0 the
// context grows without limit, matching the original behavior.
func (cs *chatService) truncateContext(session *store.Session) {
	if cs.maxTurns <= 0 || len(session.Context) == 0 {
		return
	}
	limit := cs.maxTurns * 2 // user+assistant pairs
	turns := len(session.Context) - 1
	if turns <= limit {
		return
	}
	kept := session.Context[len(session.Context)-limit:]
	session.Context = append([]llm.Message{session.Context[0]}, kept...)
}
