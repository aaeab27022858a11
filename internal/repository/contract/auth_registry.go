package contract

import (
	"context"

	"kb-assistant-be/internal/entity"
)

// AuthRegistry is the persisted registry of authorized admin chats.
type AuthRegistry interface {
	// Authorize records a chat as an admin and persists the registry.
	Authorize(ctx context.Context, user entity.AuthorizedUser) error

	// Revoke removes a chat from the registry. Returns false when the chat
	// was not authorized in the first place.
	Revoke(ctx context.Context, chatID string) (bool, error)

	// IsAuthorized is the authorization predicate for every admin action.
	IsAuthorized(ctx context.Context, chatID string) bool

	// List returns all registry entries.
	List(ctx context.Context) ([]entity.AuthorizedUser, error)
}
