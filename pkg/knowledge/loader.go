package knowledge

import (
	"context"
	"fmt"
	"time"

	"kb-assistant-be/internal/constant"
	"kb-assistant-be/internal/entity"
	"kb-assistant-be/internal/pkg/logger"
	"kb-assistant-be/pkg/parser"
)

// DocumentSource enumerates and reads raw knowledge files. Implemented by
// the filesystem document repository.
type DocumentSource interface {
	List(ctx context.Context) ([]entity.DocumentInfo, error)
	Read(ctx context.Context, filename string) ([]byte, error)
}

// Loader builds knowledge snapshots from a document source.
type Loader struct {
	source DocumentSource
	parser *parser.Registry
	logger logger.ILogger
}

func NewLoader(source DocumentSource, registry *parser.Registry, log logger.ILogger) *Loader {
	return &Loader{
		source: source,
		parser: registry,
		logger: log,
	}
}

// LoadAll reads every recognized document, concatenates labeled content
// blocks and derives the keyword set. A document that fails to read or
// decode is logged and contributes nothing; it never aborts the batch.
func (l *Loader) LoadAll(ctx context.Context) (*Snapshot, error) {
	infos, err := l.source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	snap := &Snapshot{
		Files:    make(map[string]string),
		Keywords: make(map[string]struct{}),
		LoadedAt: time.Now(),
	}

	for _, info := range infos {
		if !l.parser.Supported(info.Name) {
			continue
		}

		data, err := l.source.Read(ctx, info.Name)
		if err != nil {
			l.logger.Error("Knowledge", "Failed to read document", map[string]interface{}{
				"file":  info.Name,
				"error": err.Error(),
			})
			continue
		}

		text, err := l.parser.Parse(info.Name, data)
		if err != nil {
			l.logger.Error("Knowledge", "Failed to decode document", map[string]interface{}{
				"file":  info.Name,
				"error": err.Error(),
			})
			continue
		}
		if text == "" {
			continue
		}

		snap.Content += fmt.Sprintf(constant.FileBlockHeader, info.Name, text)
		snap.Files[info.Name] = text
		for _, kw := range ExtractKeywords(text) {
			snap.Keywords[kw] = struct{}{}
		}
	}

	return snap, nil
}
