package bootstrap

import (
	"log"

	"kb-assistant-be/internal/bot"
	"kb-assistant-be/internal/config"
	"kb-assistant-be/internal/controller"
	"kb-assistant-be/internal/pkg/logger"
	"kb-assistant-be/internal/repository/filesystem"
	"kb-assistant-be/internal/repository/memory"
	"kb-assistant-be/internal/service"
	"kb-assistant-be/internal/websocket"
	"kb-assistant-be/pkg/knowledge"
	"kb-assistant-be/pkg/llm/factory"
	"kb-assistant-be/pkg/parser"
	"kb-assistant-be/pkg/speech"

	pktNats "kb-assistant-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const kbEventsTopic = "kb_events"

type Container struct {
	// Controllers
	AuthController     controller.IAuthController
	ChatController     controller.IChatController
	DocumentController controller.IDocumentController
	AdminController    controller.IAdminController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Inbound chat event loop
	Dispatcher *bot.Dispatcher

	// WebSockets
	WebSocketHub *websocket.Hub

	// Shared application logger
	Logger logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS only when the cross-instance bus is requested
	var natsPub *pktNats.Publisher
	var natsSub *pktNats.Subscriber
	if cfg.App.EventBus == "nats" {
		var err error
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		}
		natsSub, err = pktNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		}
	}

	// 3. Storage
	documentRepo := filesystem.NewDocumentRepository(cfg.App.DataDir)
	authRegistry, err := filesystem.NewAuthRegistry(cfg.Auth.RegistryPath)
	if err != nil {
		log.Fatalf("[FATAL] Failed to load authorization registry: %v", err)
	}
	sessionRepo := memory.NewSessionRepository()

	// 4. Knowledge pipeline
	parsers := parser.NewRegistry()
	loader := knowledge.NewLoader(documentRepo, parsers, sysLogger)

	// Initialize LLM Provider based on Config
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.HuggingFace,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	var transcriber speech.Transcriber = speech.Disabled{}
	if cfg.Speech.WhisperBaseURL != "" {
		transcriber = speech.NewWhisperClient(cfg.Speech.WhisperBaseURL, cfg.Speech.Language)
		log.Printf("[INFO] Voice transcription enabled (%s)", cfg.Speech.WhisperBaseURL)
	}

	// 5. WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/websocket.log")
	wsHub := websocket.NewHub(wsLogger)
	go wsHub.Run()

	// 6. Services
	publisherService := service.NewPublisherService(pubSub, kbEventsTopic)
	consumerService := service.NewConsumerService(pubSub, kbEventsTopic, wsHub, natsSub)

	authService := service.NewAuthService(
		authRegistry,
		sysLogger,
		cfg.Auth.AdminPasswordHash,
		cfg.Auth.AdminPassword,
		cfg.Auth.JWTSecret,
		cfg.Auth.MaxLoginAttempts,
		cfg.Auth.LockoutMinutes,
	)
	chatService := service.NewChatService(loader, llmProvider, sessionRepo, sysLogger, cfg.Ai.MaxTurns)
	documentService := service.NewDocumentService(
		documentRepo,
		authRegistry,
		parsers,
		publisherService,
		natsPub,
		sysLogger,
	)

	// 7. Chat event loop
	chatBot := bot.New(
		chatService,
		authService,
		documentService,
		sessionRepo,
		transcriber,
		parsers,
		wsHub,
		sysLogger,
	)
	dispatcher := bot.NewDispatcher(chatBot, 256, sysLogger)

	return &Container{
		AuthController:     controller.NewAuthController(authService),
		ChatController:     controller.NewChatController(chatService),
		DocumentController: controller.NewDocumentController(documentService),
		AdminController:    controller.NewAdminController(documentService, authService),

		ConsumerService: consumerService,
		Dispatcher:      dispatcher,
		WebSocketHub:    wsHub,
		Logger:          sysLogger,
	}
}
