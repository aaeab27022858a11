// FILE: internal/service/document_service.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"kb-assistant-be/internal/dto"
	"kb-assistant-be/internal/pkg/logger"
	"kb-assistant-be/internal/repository/contract"
	"kb-assistant-be/pkg/events"
	pkgnats "kb-assistant-be/pkg/nats"
	"kb-assistant-be/pkg/parser"
)

var (
	// ErrAccessDenied means the caller is not in the authorized registry.
	ErrAccessDenied = errors.New("access denied")

	// ErrUnsupportedFormat means the file extension is not parseable.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

type IDocumentService interface {
	// List returns every stored document, name-sorted.
	List(ctx context.Context) (*dto.DocumentListResponse, error)

	// Download returns the raw bytes of one stored document.
	Download(ctx context.Context, filename string) ([]byte, error)

	// Upload stores a document on behalf of an authorized chat. The new
	// file is not picked up by running AI sessions until a reload.
	Upload(ctx context.Context, chatID, filename string, data []byte) error

	// Delete removes a document on behalf of an authorized chat.
	Delete(ctx context.Context, chatID, filename string) error
}

type documentService struct {
	documents        contract.DocumentRepository
	registry         contract.AuthRegistry
	parsers          *parser.Registry
	publisherService IPublisherService
	eventPublisher   *pkgnats.Publisher // nil unless EVENT_BUS=nats
	logger           logger.ILogger
}

func NewDocumentService(
	documents contract.DocumentRepository,
	registry contract.AuthRegistry,
	parsers *parser.Registry,
	publisherService IPublisherService,
	eventPublisher *pkgnats.Publisher,
	log logger.ILogger,
) IDocumentService {
	return &documentService{
		documents:        documents,
		registry:         registry,
		parsers:          parsers,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		logger:           log,
	}
}

func (ds *documentService) List(ctx context.Context) (*dto.DocumentListResponse, error) {
	infos, err := ds.documents.List(ctx)
	if err != nil {
		return nil, err
	}

	res := &dto.DocumentListResponse{Files: make([]dto.DocumentResponse, 0, len(infos))}
	for _, info := range infos {
		res.Files = append(res.Files, dto.DocumentResponse{
			Name:       info.Name,
			Size:       info.Size,
			ModifiedAt: info.ModifiedAt,
		})
		res.TotalSize += info.Size
	}
	return res, nil
}

func (ds *documentService) Download(ctx context.Context, filename string) ([]byte, error) {
	return ds.documents.Read(ctx, filename)
}

func (ds *documentService) Upload(ctx context.Context, chatID, filename string, data []byte) error {
	if !ds.registry.IsAuthorized(ctx, chatID) {
		return ErrAccessDenied
	}
	if !ds.parsers.Supported(filename) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, strings.ToLower(filename))
	}

	if err := ds.documents.Save(ctx, filename, data); err != nil {
		return err
	}

	ds.logger.Info("Document", "File uploaded", map[string]interface{}{
		"chat_id":  chatID,
		"filename": filename,
		"size":     len(data),
	})
	ds.publishChange(ctx, events.TypeKBFileUploaded, "uploaded", filename, chatID)
	return nil
}

func (ds *documentService) Delete(ctx context.Context, chatID, filename string) error {
	if !ds.registry.IsAuthorized(ctx, chatID) {
		return ErrAccessDenied
	}

	if err := ds.documents.Delete(ctx, filename); err != nil {
		return err
	}

	ds.logger.Info("Document", "File deleted", map[string]interface{}{
		"chat_id":  chatID,
		"filename": filename,
	})
	ds.publishChange(ctx, events.TypeKBFileDeleted, "deleted", filename, chatID)
	return nil
}

// publishChange fans the change out on the in-process bus and, when
// configured, on NATS. Notifications are auxiliary; failures are logged and
// never fail the request.
func (ds *documentService) publishChange(ctx context.Context, eventType, action, filename, chatID string) {
	payload := dto.KnowledgeBaseEventMessage{
		Action:   action,
		Filename: filename,
		ChatID:   chatID,
		At:       time.Now(),
	}
	payloadJson, _ := json.Marshal(payload)
	if err := ds.publisherService.Publish(ctx, payloadJson); err != nil {
		ds.logger.Warn("Document", "Failed to publish change event", map[string]interface{}{
			"filename": filename,
			"error":    err.Error(),
		})
	}

	if ds.eventPublisher != nil {
		evt := events.NewKnowledgeBaseEvent(eventType, filename, chatID)
		if err := ds.eventPublisher.Publish(ctx, evt); err != nil {
			ds.logger.Warn("Document", "Failed to publish NATS event", map[string]interface{}{
				"filename": filename,
				"error":    err.Error(),
			})
		}
	}
}
