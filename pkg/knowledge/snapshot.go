package knowledge

import "time"

// Snapshot is one complete load of the knowledge base: the concatenated
// labeled text, the per-file raw texts and the derived keyword set.
//
// A Snapshot is immutable once built and is swapped as a whole into a chat
// session on activation or reload. Keywords are never shared through a
// process-wide variable, so concurrent loads from different chats cannot
// observe each other's in-flight state.
type Snapshot struct {
	// Content is the full concatenated text, one labeled block per file.
	Content string

	// Files maps filename to its decoded raw text.
	Files map[string]string

	// Keywords is the deduplicated set of lowercase tokens (rune length > 3)
	// derived from all document texts, used only for relevance gating.
	Keywords map[string]struct{}

	LoadedAt time.Time
}

// Empty reports whether the load produced no usable content.
func (s *Snapshot) Empty() bool {
	return s == nil || len(s.Files) == 0
}

// FileCount returns the number of documents that contributed content.
func (s *Snapshot) FileCount() int {
	if s == nil {
		return 0
	}
	return len(s.Files)
}
