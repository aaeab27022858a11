// Package parser decodes uploaded knowledge files into plain text.
// One decoder per supported extension; anything else is not recognized
// and gets skipped during knowledge loading.
package parser

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Parser decodes a single document format into plain text.
type Parser interface {
	Parse(data []byte) (string, error)
}

// Registry dispatches to a format parser by file extension.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry returns a registry with all supported formats registered.
func NewRegistry() *Registry {
	return &Registry{
		parsers: map[string]Parser{
			".txt":  &TextParser{},
			".pdf":  &PDFParser{},
			".docx": &DocxParser{},
			".rtf":  &RTFParser{},
		},
	}
}

// Supported reports whether the filename has a recognized extension.
func (r *Registry) Supported(filename string) bool {
	_, ok := r.parsers[normalizeExt(filename)]
	return ok
}

// Extensions returns the list of recognized extensions.
func (r *Registry) Extensions() []string {
	// Stable order for user-facing messages
	return []string{".txt", ".pdf", ".docx", ".rtf"}
}

// Parse decodes the file content. Unrecognized extensions are an error;
// callers scanning a directory should check Supported first.
func (r *Registry) Parse(filename string, data []byte) (string, error) {
	p, ok := r.parsers[normalizeExt(filename)]
	if !ok {
		return "", fmt.Errorf("unsupported file format: %s", filepath.Ext(filename))
	}
	return p.Parse(data)
}

func normalizeExt(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}
