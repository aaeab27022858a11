// FILE: internal/service/auth_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/patrickmn/go-cache"
	"golang.org/x/crypto/bcrypt"

	"kb-assistant-be/internal/dto"
	"kb-assistant-be/internal/entity"
	"kb-assistant-be/internal/pkg/logger"
	"kb-assistant-be/internal/repository/contract"
)

var (
	// ErrInvalidPassword is a failed password attempt. Deliberately carries
	// no detail; the user just sees a denial.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrAuthDisabled means no admin credential is configured at all.
	ErrAuthDisabled = errors.New("admin authentication is not configured")
)

// LockoutError is returned when a chat exceeded the failed-attempt budget.
type LockoutError struct {
	Minutes int
}

func (e *LockoutError) Error() string {
	return fmt.Sprintf("too many failed attempts, locked out for %d minutes", e.Minutes)
}

type IAuthService interface {
	// Login verifies the shared admin password and, on success, records the
	// chat in the persisted registry. Repeated failures lock the chat out.
	Login(ctx context.Context, req *dto.LoginRequest) error

	// IssueToken returns a JWT for the REST admin surface. The registry
	// stays the source of truth; the token only carries the chat id.
	IssueToken(chatID string) (string, error)

	// Logout removes the chat from the registry.
	Logout(ctx context.Context, chatID string) (bool, error)

	// IsAuthorized is the admin predicate: chat id present in the registry.
	IsAuthorized(ctx context.Context, chatID string) bool

	ListUsers(ctx context.Context) ([]*dto.AuthorizedUserResponse, error)
}

type authService struct {
	registry     contract.AuthRegistry
	logger       logger.ILogger
	passwordHash []byte
	jwtSecret    string
	maxAttempts  int
	lockout      time.Duration
	attempts     *cache.Cache
}

func NewAuthService(
	registry contract.AuthRegistry,
	log logger.ILogger,
	passwordHash string,
	plainPassword string,
	jwtSecret string,
	maxAttempts int,
	lockoutMinutes int,
) IAuthService {
	hash := []byte(passwordHash)
	if len(hash) == 0 && plainPassword != "" {
		// Dev fallback: hash the plaintext env password at boot so the
		// comparison path is always bcrypt.
		generated, err := bcrypt.GenerateFromPassword([]byte(plainPassword), bcrypt.DefaultCost)
		if err == nil {
			hash = generated
		}
		log.Warn("Auth", "ADMIN_PASSWORD_HASH not set, hashed ADMIN_PASSWORD at boot", nil)
	}
	if len(hash) == 0 {
		log.Warn("Auth", "No admin credential configured, admin login disabled", nil)
	}

	lockout := time.Duration(lockoutMinutes) * time.Minute
	return &authService{
		registry:     registry,
		logger:       log,
		passwordHash: hash,
		jwtSecret:    jwtSecret,
		maxAttempts:  maxAttempts,
		lockout:      lockout,
		attempts:     cache.New(lockout, 10*time.Minute),
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) error {
	if len(s.passwordHash) == 0 {
		return ErrAuthDisabled
	}

	key := "attempts:" + req.ChatID
	if n, found := s.attempts.Get(key); found && n.(int) >= s.maxAttempts {
		return &LockoutError{Minutes: int(s.lockout.Minutes())}
	}

	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(req.Password)); err != nil {
		s.attempts.Add(key, 0, s.lockout)
		n, _ := s.attempts.IncrementInt(key, 1)
		s.logger.Warn("Auth", "Failed admin login attempt", map[string]interface{}{
			"chat_id": req.ChatID,
			"attempt": n,
		})
		if n >= s.maxAttempts {
			// The lockout clock starts when the threshold is crossed, not at
			// the first failure; refresh the entry's TTL.
			s.attempts.Set(key, n, s.lockout)
			return &LockoutError{Minutes: int(s.lockout.Minutes())}
		}
		return ErrInvalidPassword
	}

	s.attempts.Delete(key)

	user := entity.AuthorizedUser{
		ChatID:    req.ChatID,
		Username:  valueOr(req.Username, "Unknown"),
		FirstName: valueOr(req.FirstName, "Unknown"),
		AuthDate:  time.Now().Unix(),
	}
	if err := s.registry.Authorize(ctx, user); err != nil {
		return fmt.Errorf("persist authorization: %w", err)
	}

	s.logger.Info("Auth", "Admin authorized", map[string]interface{}{"chat_id": req.ChatID})
	return nil
}

func (s *authService) IssueToken(chatID string) (string, error) {
	if s.jwtSecret == "" {
		return "", errors.New("JWT_SECRET is not configured")
	}
	claims := jwt.MapClaims{
		"chat_id": chatID,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) Logout(ctx context.Context, chatID string) (bool, error) {
	removed, err := s.registry.Revoke(ctx, chatID)
	if err != nil {
		return false, err
	}
	if removed {
		s.logger.Info("Auth", "Admin logged out", map[string]interface{}{"chat_id": chatID})
	}
	return removed, nil
}

func (s *authService) IsAuthorized(ctx context.Context, chatID string) bool {
	return s.registry.IsAuthorized(ctx, chatID)
}

func (s *authService) ListUsers(ctx context.Context) ([]*dto.AuthorizedUserResponse, error) {
	users, err := s.registry.List(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.AuthorizedUserResponse, 0, len(users))
	for _, u := range users {
		res = append(res, &dto.AuthorizedUserResponse{
			ChatID:    u.ChatID,
			Username:  u.Username,
			FirstName: u.FirstName,
			AuthDate:  u.AuthDate,
		})
	}
	return res, nil
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
