// FILE: internal/bot/bot.go
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"kb-assistant-be/internal/constant"
	"kb-assistant-be/internal/dto"
	"kb-assistant-be/internal/pkg/logger"
	"kb-assistant-be/internal/repository/contract"
	"kb-assistant-be/internal/repository/memory"
	"kb-assistant-be/internal/service"
	"kb-assistant-be/pkg/parser"
	"kb-assistant-be/pkg/speech"
	"kb-assistant-be/pkg/store"
)

// Bot routes inbound chat events to the services. It owns the per-chat
// command state machine; everything durable lives in the services.
type Bot struct {
	chatService     service.IChatService
	authService     service.IAuthService
	documentService service.IDocumentService
	sessions        *memory.SessionRepository
	transcriber     speech.Transcriber
	parsers         *parser.Registry
	transport       Transport
	logger          logger.ILogger
}

func New(
	chatService service.IChatService,
	authService service.IAuthService,
	documentService service.IDocumentService,
	sessions *memory.SessionRepository,
	transcriber speech.Transcriber,
	parsers *parser.Registry,
	transport Transport,
	log logger.ILogger,
) *Bot {
	return &Bot{
		chatService:     chatService,
		authService:     authService,
		documentService: documentService,
		sessions:        sessions,
		transcriber:     transcriber,
		parsers:         parsers,
		transport:       transport,
		logger:          log,
	}
}

// Handle processes one inbound event to completion.
func (b *Bot) Handle(ctx context.Context, ev Event) {
	switch ev.Type {
	case EventDocument:
		b.handleDocument(ctx, ev)
	case EventVoice:
		b.handleVoice(ctx, ev)
	default:
		b.handleText(ctx, ev)
	}
}

func (b *Bot) handleText(ctx context.Context, ev Event) {
	text := strings.TrimSpace(ev.Text)
	if text == "" {
		return
	}

	session := b.sessions.LoadOrCreate(ev.ChatID)

	// Flag states swallow everything except /cancel.
	switch session.State {
	case store.StateAwaitingPassword:
		b.handlePasswordInput(ctx, ev, session, text)
		return
	case store.StateAwaitingUpload:
		if text == "/cancel" {
			session.EndFlow()
			b.sessions.Save(session)
			b.reply(ev.ChatID, constant.MsgUploadCancelled)
		}
		return
	}

	if strings.HasPrefix(text, "/") {
		b.handleCommand(ctx, ev, text)
		return
	}

	// Free text goes to the model only in AI mode; otherwise it is ignored,
	// so the bot stays silent in group chats it was added to.
	if b.chatService.IsActive(ev.ChatID) {
		b.answer(ctx, ev.ChatID, text)
	}
}

func (b *Bot) handleCommand(ctx context.Context, ev Event, text string) {
	fields := strings.Fields(text)
	command := fields[0]
	arg := ""
	if len(fields) > 1 {
		arg = strings.Join(fields[1:], " ")
	}

	switch command {
	case "/start":
		b.reply(ev.ChatID, constant.MsgWelcome)

	case "/help", "/commands":
		b.reply(ev.ChatID, constant.MsgHelp)

	case "/chat_id":
		b.reply(ev.ChatID, fmt.Sprintf(constant.MsgChatID, ev.ChatID))

	case "/ai":
		b.activateAi(ctx, ev.ChatID)

	case "/stop":
		if b.chatService.Deactivate(ctx, ev.ChatID) {
			b.reply(ev.ChatID, constant.MsgAiStopped)
		} else {
			b.reply(ev.ChatID, constant.MsgAiNotActive)
		}

	case "/reload_data":
		b.reloadData(ctx, ev.ChatID)

	case "/files":
		b.listFiles(ctx, ev.ChatID)

	case "/download":
		b.downloadFile(ctx, ev.ChatID, arg)

	case "/admin":
		b.openAdminPanel(ctx, ev)

	case "/upload":
		b.startUpload(ctx, ev.ChatID)

	case "/delete":
		b.deleteFile(ctx, ev.ChatID, arg)

	case "/users":
		b.listUsers(ctx, ev.ChatID)

	case "/logout":
		b.logout(ctx, ev.ChatID)

	case "/cancel":
		// Nothing pending in this state.

	default:
		b.reply(ev.ChatID, constant.MsgHelp)
	}
}

func (b *Bot) activateAi(ctx context.Context, chatID string) {
	b.reply(chatID, constant.MsgLoadingData)

	res, err := b.chatService.Activate(ctx, chatID)
	if err != nil {
		b.logger.Error("Bot", "Activation failed", map[string]interface{}{
			"chat_id": chatID,
			"error":   err.Error(),
		})
		b.reply(chatID, constant.MsgNoData)
		return
	}
	b.reply(chatID, fmt.Sprintf(constant.MsgAiActivated, res.FileCount, res.CharsCount))
}

func (b *Bot) reloadData(ctx context.Context, chatID string) {
	b.reply(chatID, constant.MsgLoadingData)

	res, err := b.chatService.Reload(ctx, chatID)
	if err != nil {
		b.reply(chatID, constant.MsgNoData)
		return
	}
	b.reply(chatID, fmt.Sprintf(constant.MsgDataReloaded, res.FileCount, res.CharsCount))
}

func (b *Bot) answer(ctx context.Context, chatID, question string) {
	res, err := b.chatService.Ask(ctx, chatID, question)
	if err != nil {
		if errors.Is(err, service.ErrAiNotActive) {
			b.reply(chatID, constant.MsgAiNotActive)
			return
		}
		b.reply(chatID, constant.MsgGenerationFailed)
		return
	}
	b.reply(chatID, res.Reply)
}

func (b *Bot) handleVoice(ctx context.Context, ev Event) {
	if !b.chatService.IsActive(ev.ChatID) {
		b.reply(ev.ChatID, constant.MsgAiNotActive)
		return
	}

	text, err := b.transcriber.Transcribe(ctx, ev.Audio)
	if err != nil {
		b.logger.Warn("Bot", "Voice transcription failed", map[string]interface{}{
			"chat_id": ev.ChatID,
			"error":   err.Error(),
		})
		b.reply(ev.ChatID, constant.MsgSpeechNotRecognized)
		return
	}

	b.reply(ev.ChatID, fmt.Sprintf(constant.MsgSpeechRecognized, text))
	b.answer(ctx, ev.ChatID, text)
}

func (b *Bot) openAdminPanel(ctx context.Context, ev Event) {
	if b.authService.IsAuthorized(ctx, ev.ChatID) {
		b.reply(ev.ChatID, constant.MsgAdminPanel)
		return
	}

	session := b.sessions.LoadOrCreate(ev.ChatID)
	session.BeginFlow(store.StateAwaitingPassword)
	b.sessions.Save(session)
	b.reply(ev.ChatID, constant.MsgEnterPassword)
}

func (b *Bot) handlePasswordInput(ctx context.Context, ev Event, session *store.Session, text string) {
	if text == "/cancel" {
		session.EndFlow()
		b.sessions.Save(session)
		b.reply(ev.ChatID, constant.MsgAuthCancelled)
		return
	}

	err := b.authService.Login(ctx, &dto.LoginRequest{
		ChatID:    ev.ChatID,
		Password:  text,
		Username:  ev.Username,
		FirstName: ev.FirstName,
	})

	var locked *service.LockoutError
	switch {
	case err == nil:
		session.EndFlow()
		b.sessions.Save(session)
		b.reply(ev.ChatID, constant.MsgAuthSuccess)
		b.reply(ev.ChatID, constant.MsgAdminPanel)

	case errors.As(err, &locked):
		session.EndFlow()
		b.sessions.Save(session)
		b.reply(ev.ChatID, fmt.Sprintf(constant.MsgLoginLocked, locked.Minutes))

	case errors.Is(err, service.ErrInvalidPassword):
		// Stay in the password state so the user can retry.
		b.reply(ev.ChatID, constant.MsgWrongPassword)

	default:
		session.EndFlow()
		b.sessions.Save(session)
		b.reply(ev.ChatID, constant.MsgAccessDenied)
	}
}

func (b *Bot) startUpload(ctx context.Context, chatID string) {
	if !b.authService.IsAuthorized(ctx, chatID) {
		b.reply(chatID, constant.MsgAccessDenied)
		return
	}

	session := b.sessions.LoadOrCreate(chatID)
	session.BeginFlow(store.StateAwaitingUpload)
	b.sessions.Save(session)

	exts := strings.Join(b.parsers.Extensions(), ", ")
	b.reply(chatID, fmt.Sprintf(constant.MsgUploadPrompt, exts))
}

func (b *Bot) handleDocument(ctx context.Context, ev Event) {
	session := b.sessions.LoadOrCreate(ev.ChatID)
	if session.State != store.StateAwaitingUpload {
		return
	}

	err := b.documentService.Upload(ctx, ev.ChatID, ev.FileName, ev.FileData)
	switch {
	case errors.Is(err, service.ErrUnsupportedFormat):
		exts := strings.Join(b.parsers.Extensions(), ", ")
		b.reply(ev.ChatID, fmt.Sprintf(constant.MsgUnsupportedFormat, ev.FileName, exts))
	case errors.Is(err, service.ErrAccessDenied):
		session.EndFlow()
		b.sessions.Save(session)
		b.reply(ev.ChatID, constant.MsgAccessDenied)
	case err != nil:
		b.logger.Error("Bot", "File upload failed", map[string]interface{}{
			"chat_id":  ev.ChatID,
			"filename": ev.FileName,
			"error":    err.Error(),
		})
		b.reply(ev.ChatID, constant.MsgNoData)
	default:
		// Stay in upload mode so several files can be sent in a row.
		b.reply(ev.ChatID, fmt.Sprintf(constant.MsgFileSaved, ev.FileName))
	}
}

func (b *Bot) deleteFile(ctx context.Context, chatID, filename string) {
	if filename == "" {
		b.reply(chatID, constant.MsgFileNotFound)
		return
	}

	err := b.documentService.Delete(ctx, chatID, filename)
	switch {
	case errors.Is(err, service.ErrAccessDenied):
		b.reply(chatID, constant.MsgAccessDenied)
	case errors.Is(err, contract.ErrNotFound):
		b.reply(chatID, constant.MsgFileNotFound)
	case err != nil:
		b.reply(chatID, constant.MsgFileNotFound)
	default:
		b.reply(chatID, fmt.Sprintf(constant.MsgFileDeleted, filename))
	}
}

func (b *Bot) listFiles(ctx context.Context, chatID string) {
	res, err := b.documentService.List(ctx)
	if err != nil || len(res.Files) == 0 {
		b.reply(chatID, constant.MsgEmptyFolder)
		return
	}

	var sb strings.Builder
	sb.WriteString("📁 Файлы в папке data:\n\n")
	for _, f := range res.Files {
		sb.WriteString(fmt.Sprintf("📄 %s (%d байт)\n", f.Name, f.Size))
	}
	sb.WriteString(fmt.Sprintf("\nВсего: %d файлов, %d байт", len(res.Files), res.TotalSize))
	b.reply(chatID, sb.String())
}

func (b *Bot) downloadFile(ctx context.Context, chatID, filename string) {
	if filename == "" {
		b.reply(chatID, constant.MsgFileNotFound)
		return
	}

	data, err := b.documentService.Download(ctx, filename)
	if err != nil {
		b.reply(chatID, constant.MsgFileNotFound)
		return
	}
	if err := b.transport.SendFile(chatID, filename, data); err != nil {
		b.logger.Error("Bot", "Failed to send file", map[string]interface{}{
			"chat_id":  chatID,
			"filename": filename,
			"error":    err.Error(),
		})
	}
}

func (b *Bot) listUsers(ctx context.Context, chatID string) {
	if !b.authService.IsAuthorized(ctx, chatID) {
		b.reply(chatID, constant.MsgAccessDenied)
		return
	}

	users, err := b.authService.ListUsers(ctx)
	if err != nil || len(users) == 0 {
		b.reply(chatID, constant.MsgNotAuthorized)
		return
	}

	var sb strings.Builder
	sb.WriteString("👥 Авторизованные пользователи:\n\n")
	for _, u := range users {
		sb.WriteString(fmt.Sprintf("• %s (@%s), chat %s\n", u.FirstName, u.Username, u.ChatID))
	}
	b.reply(chatID, sb.String())
}

func (b *Bot) logout(ctx context.Context, chatID string) {
	removed, err := b.authService.Logout(ctx, chatID)
	if err != nil {
		b.reply(chatID, constant.MsgAccessDenied)
		return
	}
	if removed {
		b.reply(chatID, constant.MsgLoggedOut)
	} else {
		b.reply(chatID, constant.MsgNotAuthorized)
	}
}

func (b *Bot) reply(chatID, text string) {
	if err := b.transport.Send(chatID, text); err != nil {
		b.logger.Warn("Bot", "Failed to deliver reply", map[string]interface{}{
			"chat_id": chatID,
			"error":   err.Error(),
		})
	}
}
