package knowledge

import (
	"fmt"
	"sort"
	"strings"

	"kb-assistant-be/internal/constant"
	"kb-assistant-be/pkg/llm"
)

// BuildSystemPrompt renders the single system turn seeded into a chat
// context on activation: behavior rules, the file list and the full
// concatenated document text.
func BuildSystemPrompt(snap *Snapshot) llm.Message {
	names := make([]string, 0, len(snap.Files))
	for filename := range snap.Files {
		names = append(names, filename)
	}
	sort.Strings(names)

	var fileList strings.Builder
	for _, name := range names {
		fileList.WriteString("- ")
		fileList.WriteString(name)
		fileList.WriteString("\n")
	}

	return llm.Message{
		Role:    constant.ChatMessageRoleSystem,
		Content: fmt.Sprintf(constant.SystemPromptTemplate, strings.TrimRight(fileList.String(), "\n"), snap.Content),
	}
}
