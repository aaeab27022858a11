package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"kb-assistant-be/internal/entity"
	"kb-assistant-be/internal/repository/contract"
)

// DocumentRepository stores knowledge files as plain files in a single
// directory (the original "data" folder).
type DocumentRepository struct {
	baseDir string
}

var _ contract.DocumentRepository = &DocumentRepository{}

func NewDocumentRepository(baseDir string) *DocumentRepository {
	return &DocumentRepository{baseDir: baseDir}
}

// ensureDir creates the data directory if it is missing. Called on every
// access so a deleted directory heals itself instead of erroring.
func (r *DocumentRepository) ensureDir() error {
	return os.MkdirAll(r.baseDir, 0o755)
}

func (r *DocumentRepository) List(ctx context.Context) ([]entity.DocumentInfo, error) {
	if err := r.ensureDir(); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	entries, err := os.ReadDir(r.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read data dir: %w", err)
	}

	infos := make([]entity.DocumentInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		infos = append(infos, entity.DocumentInfo{
			Name:       e.Name(),
			Size:       fi.Size(),
			ModifiedAt: fi.ModTime(),
		})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

func (r *DocumentRepository) Read(ctx context.Context, filename string) ([]byte, error) {
	path, err := r.safePath(filename)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, contract.ErrNotFound
		}
		return nil, fmt.Errorf("read document %s: %w", filename, err)
	}
	return data, nil
}

func (r *DocumentRepository) Save(ctx context.Context, filename string, data []byte) error {
	if err := r.ensureDir(); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	path, err := r.safePath(filename)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save document %s: %w", filename, err)
	}
	return nil
}

func (r *DocumentRepository) Delete(ctx context.Context, filename string) error {
	path, err := r.safePath(filename)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return contract.ErrNotFound
		}
		return fmt.Errorf("delete document %s: %w", filename, err)
	}
	return nil
}

// safePath rejects names that would escape the data directory.
func (r *DocumentRepository) safePath(filename string) (string, error) {
	name := filepath.Base(filename)
	if name != filename || name == "." || name == ".." || strings.ContainsAny(filename, "/\\") {
		return "", fmt.Errorf("invalid document name: %q", filename)
	}
	return filepath.Join(r.baseDir, name), nil
}
