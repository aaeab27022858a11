package bot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kb-assistant-be/internal/constant"
	"kb-assistant-be/internal/pkg/logger"
	"kb-assistant-be/internal/repository/filesystem"
	"kb-assistant-be/internal/repository/memory"
	"kb-assistant-be/internal/service"
	"kb-assistant-be/pkg/knowledge"
	"kb-assistant-be/pkg/llm"
	"kb-assistant-be/pkg/parser"
)

type sentMessage struct {
	chatID string
	text   string
}

type fakeTransport struct {
	messages []sentMessage
	files    []string
}

func (f *fakeTransport) Send(chatID, text string) error {
	f.messages = append(f.messages, sentMessage{chatID: chatID, text: text})
	return nil
}

func (f *fakeTransport) SendFile(chatID, filename string, data []byte) error {
	f.files = append(f.files, filename)
	return nil
}

func (f *fakeTransport) lastText() string {
	if len(f.messages) == 0 {
		return ""
	}
	return f.messages[len(f.messages)-1].text
}

func (f *fakeTransport) reset() {
	f.messages = nil
	f.files = nil
}

type fixedProvider struct {
	reply string
	err   error
}

func (p *fixedProvider) Chat(ctx context.Context, messages []llm.Message, opts ...llm.Option) (string, error) {
	return p.reply, p.err
}

func (p *fixedProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.reply, p.err
}

type fixedTranscriber struct {
	text string
	err  error
}

func (f *fixedTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	return f.text, f.err
}

type nopPublisher struct{}

func (nopPublisher) Publish(ctx context.Context, payload []byte) error { return nil }

type botFixture struct {
	bot         *Bot
	transport   *fakeTransport
	provider    *fixedProvider
	transcriber *fixedTranscriber
}

func newBotFixture(t *testing.T) *botFixture {
	t.Helper()
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(dataDir, "vacation.txt"),
		[]byte("Отпуск сотрудника составляет 28 календарных дней"),
		0o644,
	))

	log := logger.NewIsolatedLogger(filepath.Join(dir, "test.log"))
	parsers := parser.NewRegistry()
	docRepo := filesystem.NewDocumentRepository(dataDir)
	registry, err := filesystem.NewAuthRegistry(filepath.Join(dir, "auth.json"))
	require.NoError(t, err)

	loader := knowledge.NewLoader(docRepo, parsers, log)
	provider := &fixedProvider{reply: "28 дней [Источник: vacation.txt]"}
	sessions := memory.NewSessionRepository()
	transcriber := &fixedTranscriber{text: "Сколько длится отпуск?"}
	transport := &fakeTransport{}

	chatService := service.NewChatService(loader, provider, sessions, log, 0)
	authService := service.NewAuthService(registry, log, "", "secret", "jwt-secret", 3, 15)
	documentService := service.NewDocumentService(docRepo, registry, parsers, nopPublisher{}, nil, log)

	b := New(chatService, authService, documentService, sessions, transcriber, parsers, transport, log)
	return &botFixture{bot: b, transport: transport, provider: provider, transcriber: transcriber}
}

func (f *botFixture) text(chatID, text string) {
	f.bot.Handle(context.Background(), Event{ChatID: chatID, Type: EventText, Text: text})
}

func TestStartAndHelp(t *testing.T) {
	f := newBotFixture(t)

	f.text("1", "/start")
	assert.Equal(t, constant.MsgWelcome, f.transport.lastText())

	f.text("1", "/help")
	assert.Equal(t, constant.MsgHelp, f.transport.lastText())
}

func TestChatIDCommand(t *testing.T) {
	f := newBotFixture(t)
	f.text("100500", "/chat_id")
	assert.Equal(t, fmt.Sprintf(constant.MsgChatID, "100500"), f.transport.lastText())
}

func TestUnknownCommandShowsHelp(t *testing.T) {
	f := newBotFixture(t)
	f.text("1", "/frobnicate")
	assert.Equal(t, constant.MsgHelp, f.transport.lastText())
}

func TestAiActivationFlow(t *testing.T) {
	f := newBotFixture(t)

	f.text("1", "/ai")
	require.Len(t, f.transport.messages, 2)
	assert.Equal(t, constant.MsgLoadingData, f.transport.messages[0].text)
	assert.Contains(t, f.transport.messages[1].text, "AI-режим активирован")

	f.transport.reset()
	f.text("1", "Сколько длится отпуск?")
	assert.Equal(t, "28 дней [Источник: vacation.txt]", f.transport.lastText())

	f.transport.reset()
	f.text("1", "/stop")
	assert.Equal(t, constant.MsgAiStopped, f.transport.lastText())

	f.transport.reset()
	f.text("1", "/stop")
	assert.Equal(t, constant.MsgAiNotActive, f.transport.lastText())
}

func TestFreeTextIgnoredWhenInactive(t *testing.T) {
	f := newBotFixture(t)
	f.text("1", "просто сообщение")
	assert.Empty(t, f.transport.messages)
}

func TestIrrelevantQuestionRefused(t *testing.T) {
	f := newBotFixture(t)
	f.text("1", "/ai")
	f.transport.reset()

	f.text("1", "Какая завтра погода в Барселоне?")
	assert.Equal(t, constant.MsgNotRelevant, f.transport.lastText())
}

func TestGenerationFailureReported(t *testing.T) {
	f := newBotFixture(t)
	f.text("1", "/ai")
	f.transport.reset()

	f.provider.err = errors.New("connection refused")
	f.text("1", "Сколько длится отпуск?")
	assert.Equal(t, constant.MsgGenerationFailed, f.transport.lastText())
}

func TestAdminLoginFlow(t *testing.T) {
	f := newBotFixture(t)

	f.text("1", "/admin")
	assert.Equal(t, constant.MsgEnterPassword, f.transport.lastText())

	f.transport.reset()
	f.text("1", "wrong")
	assert.Equal(t, constant.MsgWrongPassword, f.transport.lastText())

	// Still in the password state, a retry works.
	f.transport.reset()
	f.text("1", "secret")
	require.Len(t, f.transport.messages, 2)
	assert.Equal(t, constant.MsgAuthSuccess, f.transport.messages[0].text)
	assert.Equal(t, constant.MsgAdminPanel, f.transport.messages[1].text)

	// Already authorized: /admin goes straight to the panel.
	f.transport.reset()
	f.text("1", "/admin")
	assert.Equal(t, constant.MsgAdminPanel, f.transport.lastText())
}

func TestAdminLoginCancel(t *testing.T) {
	f := newBotFixture(t)
	f.text("1", "/admin")
	f.transport.reset()

	f.text("1", "/cancel")
	assert.Equal(t, constant.MsgAuthCancelled, f.transport.lastText())

	// Back to normal command handling.
	f.transport.reset()
	f.text("1", "/start")
	assert.Equal(t, constant.MsgWelcome, f.transport.lastText())
}

func TestAdminLockout(t *testing.T) {
	f := newBotFixture(t)
	f.text("1", "/admin")

	f.text("1", "wrong")
	f.text("1", "wrong")
	f.transport.reset()
	f.text("1", "wrong")
	assert.Contains(t, f.transport.lastText(), "Слишком много неверных попыток")

	// Lockout dropped the password state.
	f.transport.reset()
	f.text("1", "/start")
	assert.Equal(t, constant.MsgWelcome, f.transport.lastText())
}

func TestUploadFlow(t *testing.T) {
	f := newBotFixture(t)

	// Unauthorized upload is refused outright.
	f.text("1", "/upload")
	assert.Equal(t, constant.MsgAccessDenied, f.transport.lastText())

	f.text("1", "/admin")
	f.text("1", "secret")
	f.transport.reset()

	f.text("1", "/upload")
	assert.Contains(t, f.transport.lastText(), "Загрузка файлов")

	f.transport.reset()
	f.bot.Handle(context.Background(), Event{
		ChatID:   "1",
		Type:     EventDocument,
		FileName: "report.exe",
		FileData: []byte("MZ"),
	})
	assert.Contains(t, f.transport.lastText(), "Неподдерживаемый формат")

	// Still awaiting uploads: a valid file lands and the mode persists.
	f.transport.reset()
	f.bot.Handle(context.Background(), Event{
		ChatID:   "1",
		Type:     EventDocument,
		FileName: "rules.txt",
		FileData: []byte("правила внутреннего распорядка"),
	})
	assert.Equal(t, fmt.Sprintf(constant.MsgFileSaved, "rules.txt"), f.transport.lastText())

	f.transport.reset()
	f.text("1", "/cancel")
	assert.Equal(t, constant.MsgUploadCancelled, f.transport.lastText())
}

func TestUploadDetourPreservesAiMode(t *testing.T) {
	f := newBotFixture(t)
	f.text("1", "/admin")
	f.text("1", "secret")
	f.text("1", "/ai")

	f.text("1", "/upload")
	f.bot.Handle(context.Background(), Event{
		ChatID:   "1",
		Type:     EventDocument,
		FileName: "rules.txt",
		FileData: []byte("правила"),
	})
	f.text("1", "/cancel")

	// The detour must not have stopped AI mode or wiped the conversation.
	f.transport.reset()
	f.text("1", "Сколько длится отпуск?")
	assert.Equal(t, "28 дней [Источник: vacation.txt]", f.transport.lastText())
}

func TestPasswordDetourPreservesAiMode(t *testing.T) {
	f := newBotFixture(t)
	f.text("1", "/ai")

	f.text("1", "/admin")
	f.text("1", "wrong")
	f.text("1", "secret")

	f.transport.reset()
	f.text("1", "Сколько длится отпуск?")
	assert.Equal(t, "28 дней [Источник: vacation.txt]", f.transport.lastText())
}

func TestCancelledPasswordDetourPreservesAiMode(t *testing.T) {
	f := newBotFixture(t)
	f.text("1", "/ai")
	f.text("1", "/admin")
	f.text("1", "/cancel")

	f.transport.reset()
	f.text("1", "Сколько длится отпуск?")
	assert.Equal(t, "28 дней [Источник: vacation.txt]", f.transport.lastText())
}

func TestDocumentOutsideUploadModeIgnored(t *testing.T) {
	f := newBotFixture(t)
	f.bot.Handle(context.Background(), Event{
		ChatID:   "1",
		Type:     EventDocument,
		FileName: "drive-by.txt",
		FileData: []byte("x"),
	})
	assert.Empty(t, f.transport.messages)
}

func TestDeleteCommand(t *testing.T) {
	f := newBotFixture(t)
	f.text("1", "/admin")
	f.text("1", "secret")
	f.transport.reset()

	f.text("1", "/delete vacation.txt")
	assert.Equal(t, fmt.Sprintf(constant.MsgFileDeleted, "vacation.txt"), f.transport.lastText())

	f.transport.reset()
	f.text("1", "/delete vacation.txt")
	assert.Equal(t, constant.MsgFileNotFound, f.transport.lastText())
}

func TestDeleteRequiresAuth(t *testing.T) {
	f := newBotFixture(t)
	f.text("1", "/delete vacation.txt")
	assert.Equal(t, constant.MsgAccessDenied, f.transport.lastText())
}

func TestFilesAndDownload(t *testing.T) {
	f := newBotFixture(t)

	f.text("1", "/files")
	assert.Contains(t, f.transport.lastText(), "vacation.txt")

	f.transport.reset()
	f.text("1", "/download vacation.txt")
	require.Len(t, f.transport.files, 1)
	assert.Equal(t, "vacation.txt", f.transport.files[0])

	f.transport.reset()
	f.text("1", "/download ghost.txt")
	assert.Equal(t, constant.MsgFileNotFound, f.transport.lastText())
}

func TestUsersCommand(t *testing.T) {
	f := newBotFixture(t)

	f.text("1", "/users")
	assert.Equal(t, constant.MsgAccessDenied, f.transport.lastText())

	f.text("1", "/admin")
	f.bot.Handle(context.Background(), Event{
		ChatID:    "1",
		Type:      EventText,
		Text:      "secret",
		Username:  "ivan",
		FirstName: "Иван",
	})
	f.transport.reset()

	f.text("1", "/users")
	assert.Contains(t, f.transport.lastText(), "ivan")
	assert.Contains(t, f.transport.lastText(), "Иван")
}

func TestLogout(t *testing.T) {
	f := newBotFixture(t)
	f.text("1", "/admin")
	f.text("1", "secret")
	f.transport.reset()

	f.text("1", "/logout")
	assert.Equal(t, constant.MsgLoggedOut, f.transport.lastText())

	f.transport.reset()
	f.text("1", "/logout")
	assert.Equal(t, constant.MsgNotAuthorized, f.transport.lastText())
}

func TestVoiceFlow(t *testing.T) {
	f := newBotFixture(t)
	voice := Event{ChatID: "1", Type: EventVoice, Audio: []byte{1, 2, 3}}

	// Voice without AI mode gets the standard hint.
	f.bot.Handle(context.Background(), voice)
	assert.Equal(t, constant.MsgAiNotActive, f.transport.lastText())

	f.text("1", "/ai")
	f.transport.reset()

	f.bot.Handle(context.Background(), voice)
	require.Len(t, f.transport.messages, 2)
	assert.Equal(t, fmt.Sprintf(constant.MsgSpeechRecognized, "Сколько длится отпуск?"), f.transport.messages[0].text)
	assert.Equal(t, "28 дней [Источник: vacation.txt]", f.transport.messages[1].text)
}

func TestVoiceTranscriptionFailure(t *testing.T) {
	f := newBotFixture(t)
	f.text("1", "/ai")
	f.transport.reset()

	f.transcriber.err = errors.New("whisper unavailable")
	f.bot.Handle(context.Background(), Event{ChatID: "1", Type: EventVoice, Audio: []byte{1}})
	assert.Equal(t, constant.MsgSpeechNotRecognized, f.transport.lastText())
}

func TestEmptyTextIgnored(t *testing.T) {
	f := newBotFixture(t)
	f.text("1", "   ")
	assert.Empty(t, f.transport.messages)
}

func TestReloadDataCommand(t *testing.T) {
	f := newBotFixture(t)
	f.text("1", "/reload_data")
	require.GreaterOrEqual(t, len(f.transport.messages), 2)
	assert.Equal(t, constant.MsgLoadingData, f.transport.messages[0].text)
	assert.True(t, strings.HasPrefix(f.transport.lastText(), "✅ Данные перезагружены"))
}
