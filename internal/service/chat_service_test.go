package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kb-assistant-be/internal/constant"
	"kb-assistant-be/internal/entity"
	"kb-assistant-be/internal/pkg/logger"
	"kb-assistant-be/internal/repository/memory"
	"kb-assistant-be/pkg/knowledge"
	"kb-assistant-be/pkg/llm"
	"kb-assistant-be/pkg/parser"
)

type staticSource struct {
	files map[string][]byte
}

func (s *staticSource) List(ctx context.Context) ([]entity.DocumentInfo, error) {
	infos := make([]entity.DocumentInfo, 0, len(s.files))
	for name, data := range s.files {
		infos = append(infos, entity.DocumentInfo{Name: name, Size: int64(len(data))})
	}
	return infos, nil
}

func (s *staticSource) Read(ctx context.Context, filename string) ([]byte, error) {
	data, ok := s.files[filename]
	if !ok {
		return nil, errors.New("not found")
	}
	return data, nil
}

type scriptedProvider struct {
	reply string
	err   error
	seen  [][]llm.Message
}

func (p *scriptedProvider) Chat(ctx context.Context, messages []llm.Message, opts ...llm.Option) (string, error) {
	snapshot := make([]llm.Message, len(messages))
	copy(snapshot, messages)
	p.seen = append(p.seen, snapshot)
	return p.reply, p.err
}

func (p *scriptedProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.reply, p.err
}

type chatFixture struct {
	service  IChatService
	provider *scriptedProvider
	sessions *memory.SessionRepository
	source   *staticSource
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()
	source := &staticSource{files: map[string][]byte{
		"vacation.txt": []byte("Отпуск сотрудника составляет 28 календарных дней"),
	}}
	log := logger.NewIsolatedLogger(filepath.Join(t.TempDir(), "test.log"))
	loader := knowledge.NewLoader(source, parser.NewRegistry(), log)
	provider := &scriptedProvider{reply: "Отпуск длится 28 дней [Источник: vacation.txt]"}
	sessions := memory.NewSessionRepository()

	return &chatFixture{
		service:  NewChatService(loader, provider, sessions, log, 0),
		provider: provider,
		sessions: sessions,
		source:   source,
	}
}

func TestActivateSeedsSystemTurn(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	res, err := f.service.Activate(ctx, "chat1")
	require.NoError(t, err)
	assert.Equal(t, 1, res.FileCount)
	assert.Greater(t, res.CharsCount, 0)

	session, found := f.sessions.Get("chat1")
	require.True(t, found)
	require.Len(t, session.Context, 1)
	assert.Equal(t, constant.ChatMessageRoleSystem, session.Context[0].Role)
	assert.Contains(t, session.Context[0].Content, "vacation.txt")
	assert.True(t, f.service.IsActive("chat1"))
}

func TestActivateFailsOnEmptyKnowledge(t *testing.T) {
	f := newChatFixture(t)
	f.source.files = map[string][]byte{}

	_, err := f.service.Activate(context.Background(), "chat1")
	assert.True(t, errors.Is(err, ErrNoKnowledge))
	assert.False(t, f.service.IsActive("chat1"))
}

func TestAskRequiresActiveSession(t *testing.T) {
	f := newChatFixture(t)

	_, err := f.service.Ask(context.Background(), "chat1", "Сколько длится отпуск?")
	assert.True(t, errors.Is(err, ErrAiNotActive))
}

func TestAskIrrelevantQuestionLeavesContextUntouched(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	_, err := f.service.Activate(ctx, "chat1")
	require.NoError(t, err)

	res, err := f.service.Ask(ctx, "chat1", "Какая завтра погода в Барселоне?")
	require.NoError(t, err)
	assert.False(t, res.Relevant)
	assert.Equal(t, constant.MsgNotRelevant, res.Reply)

	assert.Empty(t, f.provider.seen, "rejected question must not reach the model")
	session, _ := f.sessions.Get("chat1")
	assert.Len(t, session.Context, 1, "rejected question must not mutate the context")
}

func TestAskAppendsOrderedTurns(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	_, err := f.service.Activate(ctx, "chat1")
	require.NoError(t, err)

	res, err := f.service.Ask(ctx, "chat1", "Сколько длится отпуск?")
	require.NoError(t, err)
	assert.True(t, res.Relevant)
	assert.Equal(t, f.provider.reply, res.Reply)

	session, _ := f.sessions.Get("chat1")
	require.Len(t, session.Context, 3)
	assert.Equal(t, constant.ChatMessageRoleUser, session.Context[1].Role)
	assert.Equal(t, constant.ChatMessageRoleAssistant, session.Context[2].Role)

	// The provider saw the full ordered context including the system turn.
	require.Len(t, f.provider.seen, 1)
	assert.Equal(t, constant.ChatMessageRoleSystem, f.provider.seen[0][0].Role)
	assert.Equal(t, "Сколько длится отпуск?", f.provider.seen[0][1].Content)
}

func TestAskRollsBackUserTurnOnProviderFailure(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	_, err := f.service.Activate(ctx, "chat1")
	require.NoError(t, err)

	f.provider.err = errors.New("connection refused")
	_, err = f.service.Ask(ctx, "chat1", "Сколько длится отпуск?")
	assert.True(t, errors.Is(err, ErrGeneration))

	session, _ := f.sessions.Get("chat1")
	assert.Len(t, session.Context, 1, "failed call must not leave a dangling user turn")

	// The next attempt succeeds and the context stays consistent.
	f.provider.err = nil
	_, err = f.service.Ask(ctx, "chat1", "Сколько длится отпуск?")
	require.NoError(t, err)
	session, _ = f.sessions.Get("chat1")
	assert.Len(t, session.Context, 3)
}

func TestAskAppendsCitationSuffixWhenMissing(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	_, err := f.service.Activate(ctx, "chat1")
	require.NoError(t, err)

	f.provider.reply = "Отпуск составляет 28 дней"
	res, err := f.service.Ask(ctx, "chat1", "Сколько длится отпуск?")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(res.Reply, constant.SourceFallbackSuffix))

	// The patched reply is what lands in the context.
	session, _ := f.sessions.Get("chat1")
	assert.Equal(t, res.Reply, session.Context[2].Content)
}

func TestAskKeepsReplyThatCitesAFile(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	_, err := f.service.Activate(ctx, "chat1")
	require.NoError(t, err)

	f.provider.reply = "28 дней [Источник: vacation.txt]"
	res, err := f.service.Ask(ctx, "chat1", "Сколько длится отпуск?")
	require.NoError(t, err)
	assert.Equal(t, "28 дней [Источник: vacation.txt]", res.Reply)
}

func TestAskKeepsReplyWithSourceMarker(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	_, err := f.service.Activate(ctx, "chat1")
	require.NoError(t, err)

	f.provider.reply = "28 дней, Источник: база знаний"
	res, err := f.service.Ask(ctx, "chat1", "Сколько длится отпуск?")
	require.NoError(t, err)
	assert.NotContains(t, res.Reply, constant.SourceFallbackSuffix)
}

func TestReloadReplacesSnapshotAndResetsContext(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	_, err := f.service.Activate(ctx, "chat1")
	require.NoError(t, err)
	_, err = f.service.Ask(ctx, "chat1", "Сколько длится отпуск?")
	require.NoError(t, err)

	f.source.files["office.txt"] = []byte("Офис находится в Москве")
	res, err := f.service.Reload(ctx, "chat1")
	require.NoError(t, err)
	assert.Equal(t, 2, res.FileCount)
	assert.True(t, res.AiActive)

	session, _ := f.sessions.Get("chat1")
	require.Len(t, session.Context, 1, "reload discards prior turns")
	assert.Contains(t, session.Context[0].Content, "office.txt")
	assert.Equal(t, 2, session.Snapshot.FileCount())
}

func TestReloadInactiveChatIsDryRun(t *testing.T) {
	f := newChatFixture(t)

	res, err := f.service.Reload(context.Background(), "chat1")
	require.NoError(t, err)
	assert.False(t, res.AiActive)
	assert.False(t, f.service.IsActive("chat1"))
}

func TestSessionsAreIsolatedPerChat(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	_, err := f.service.Activate(ctx, "chat1")
	require.NoError(t, err)
	_, err = f.service.Activate(ctx, "chat2")
	require.NoError(t, err)

	_, err = f.service.Ask(ctx, "chat1", "Сколько длится отпуск?")
	require.NoError(t, err)

	s1, _ := f.sessions.Get("chat1")
	s2, _ := f.sessions.Get("chat2")
	assert.Len(t, s1.Context, 3)
	assert.Len(t, s2.Context, 1, "chat2 must not see chat1 turns")

	// Deactivating one chat leaves the other running.
	assert.True(t, f.service.Deactivate(ctx, "chat1"))
	assert.False(t, f.service.IsActive("chat1"))
	assert.True(t, f.service.IsActive("chat2"))
}

func TestDeactivateWithoutSession(t *testing.T) {
	f := newChatFixture(t)
	assert.False(t, f.service.Deactivate(context.Background(), "ghost"))
}

func TestContextBoundKeepsSystemTurn(t *testing.T) {
	source := &staticSource{files: map[string][]byte{
		"vacation.txt": []byte("Отпуск сотрудника составляет 28 календарных дней"),
	}}
	log := logger.NewIsolatedLogger(filepath.Join(t.TempDir(), "test.log"))
	loader := knowledge.NewLoader(source, parser.NewRegistry(), log)
	provider := &scriptedProvider{reply: "ответ [Источник: vacation.txt]"}
	sessions := memory.NewSessionRepository()
	svc := NewChatService(loader, provider, sessions, log, 2)

	ctx := context.Background()
	_, err := svc.Activate(ctx, "chat1")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err = svc.Ask(ctx, "chat1", "Сколько длится отпуск?")
		require.NoError(t, err)
	}

	session, _ := sessions.Get("chat1")
	require.Len(t, session.Context, 5, "system turn plus two user/assistant pairs")
	assert.Equal(t, constant.ChatMessageRoleSystem, session.Context[0].Role)
	assert.Equal(t, constant.ChatMessageRoleUser, session.Context[1].Role)
}
