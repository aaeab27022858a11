package parser

import (
	"bytes"
	"unicode/utf8"
)

// TextParser reads plain UTF-8 text files as-is.
type TextParser struct{}

func (p *TextParser) Parse(data []byte) (string, error) {
	// Drop a UTF-8 BOM if present, some editors on Windows add one.
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if !utf8.Valid(data) {
		// Keep the valid runes, replace the rest. A partially broken file
		// still contributes whatever text survives.
		return string(bytes.ToValidUTF8(data, []byte("�"))), nil
	}
	return string(data), nil
}
