package filesystem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"kb-assistant-be/internal/entity"
	"kb-assistant-be/internal/repository/contract"
)

// AuthRegistry persists authorized admin chats as a single JSON object
// mapping chat id to {username, first_name, auth_date}. The whole registry
// is rewritten on every change, but through a temp file and an atomic
// rename so a crash mid-write never leaves a torn file. A mutex serializes
// writers within the process.
type AuthRegistry struct {
	path  string
	mu    sync.Mutex
	users map[string]entity.AuthorizedUser
}

var _ contract.AuthRegistry = &AuthRegistry{}

func NewAuthRegistry(path string) (*AuthRegistry, error) {
	r := &AuthRegistry{
		path:  path,
		users: make(map[string]entity.AuthorizedUser),
	}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *AuthRegistry) load() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil // first run, empty registry
		}
		return fmt.Errorf("read auth registry: %w", err)
	}

	var raw map[string]entity.AuthorizedUser
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse auth registry: %w", err)
	}
	for chatID, user := range raw {
		user.ChatID = chatID
		r.users[chatID] = user
	}
	return nil
}

// persist writes the full registry via temp file + rename. Caller holds mu.
func (r *AuthRegistry) persist() error {
	data, err := json.MarshalIndent(r.users, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal auth registry: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create registry dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".auth-*.json")
	if err != nil {
		return fmt.Errorf("create temp registry: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp registry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp registry: %w", err)
	}

	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace auth registry: %w", err)
	}
	return nil
}

func (r *AuthRegistry) Authorize(ctx context.Context, user entity.AuthorizedUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users[user.ChatID] = user
	return r.persist()
}

func (r *AuthRegistry) Revoke(ctx context.Context, chatID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[chatID]; !ok {
		return false, nil
	}
	delete(r.users, chatID)
	return true, r.persist()
}

func (r *AuthRegistry) IsAuthorized(ctx context.Context, chatID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.users[chatID]
	return ok
}

func (r *AuthRegistry) List(ctx context.Context) ([]entity.AuthorizedUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := make([]entity.AuthorizedUser, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ChatID < users[j].ChatID })
	return users, nil
}
