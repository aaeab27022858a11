package controller

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kb-assistant-be/internal/dto"
	"kb-assistant-be/internal/pkg/logger"
	"kb-assistant-be/internal/repository/filesystem"
	"kb-assistant-be/internal/service"
	"kb-assistant-be/pkg/parser"
)

type nopPublisher struct{}

func (nopPublisher) Publish(ctx context.Context, payload []byte) error { return nil }

func newAdminApp(t *testing.T) (*fiber.App, service.IAuthService) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	dir := t.TempDir()
	registry, err := filesystem.NewAuthRegistry(filepath.Join(dir, "auth.json"))
	require.NoError(t, err)
	log := logger.NewIsolatedLogger(filepath.Join(dir, "test.log"))

	authService := service.NewAuthService(registry, log, "", "secret", "test-secret", 5, 15)
	documentService := service.NewDocumentService(
		filesystem.NewDocumentRepository(filepath.Join(dir, "data")),
		registry,
		parser.NewRegistry(),
		nopPublisher{},
		nil,
		log,
	)

	app := fiber.New()
	NewAdminController(documentService, authService).RegisterRoutes(app.Group("/api"))
	return app, authService
}

func TestListUsersRequiresToken(t *testing.T) {
	app, _ := newAdminApp(t)

	req := httptest.NewRequest(fiber.MethodGet, "/api/admin/v1/users", nil)
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}

func TestListUsersRefusedAfterLogout(t *testing.T) {
	app, authService := newAdminApp(t)
	ctx := context.Background()

	require.NoError(t, authService.Login(ctx, &dto.LoginRequest{ChatID: "1", Password: "secret"}))
	token, err := authService.IssueToken("1")
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodGet, "/api/admin/v1/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	// The registry entry is revoked; the still-valid token must not be enough.
	removed, err := authService.Logout(ctx, "1")
	require.NoError(t, err)
	require.True(t, removed)

	req = httptest.NewRequest(fiber.MethodGet, "/api/admin/v1/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, res.StatusCode)
}
