package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App    AppConfig
	Ai     AIConfig
	Auth   AuthConfig
	Speech SpeechConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	DataDir            string
	EventBus           string // "gochannel" or "nats"
	NatsURL            string
}

type AIConfig struct {
	LLMProvider   string // "ollama", "huggingface"
	LLMModel      string // e.g. "llama3", "qwen2.5"
	OllamaBaseURL string
	HuggingFace   string // API key
	MaxTurns      int    // 0 = unbounded context (matches original behavior)
}

type AuthConfig struct {
	AdminPasswordHash string // bcrypt hash; takes precedence
	AdminPassword     string // dev fallback, hashed at boot when no hash set
	RegistryPath      string
	JWTSecret         string
	MaxLoginAttempts  int
	LockoutMinutes    int
}

type SpeechConfig struct {
	WhisperBaseURL string // empty disables voice messages
	Language       string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			DataDir:            getEnv("DATA_DIR", "data"),
			EventBus:           getEnv("EVENT_BUS", "gochannel"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:      getEnv("LLM_MODEL", "llama3"),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			HuggingFace:   getEnv("HUGGINGFACE_API_KEY", ""),
			MaxTurns:      getEnvAsInt("CHAT_MAX_TURNS", 0),
		},
		Auth: AuthConfig{
			AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
			AdminPassword:     getEnv("ADMIN_PASSWORD", ""),
			RegistryPath:      getEnv("AUTH_FILE", "authorized_users.json"),
			JWTSecret:         getEnv("JWT_SECRET", ""),
			MaxLoginAttempts:  getEnvAsInt("MAX_LOGIN_ATTEMPTS", 5),
			LockoutMinutes:    getEnvAsInt("LOCKOUT_MINUTES", 15),
		},
		Speech: SpeechConfig{
			WhisperBaseURL: getEnv("WHISPER_BASE_URL", ""),
			Language:       getEnv("SPEECH_LANGUAGE", "ru"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
