package knowledge

import (
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// genericIntentPhrases are broad "what's in the data" formulations that are
// always worth forwarding to the model, even when no keyword matches.
// Substrings on purpose: "содержан" covers "содержание"/"содержанию" etc.
var genericIntentPhrases = []string{
	"что в файл", "что в документ", "информация в баз", "данные в файл",
	"содержан", "напиши о", "расскажи о", "информация о", "данные о",
	"что известно", "какая информация", "какие данные",
}

// IsRelevant decides whether a question should reach the model at all.
// In order, any hit wins: keyword membership, filename stem mention,
// generic intent phrase. This is a plain substring gate, not a ranking —
// questions phrased without a matching token are rejected.
func IsRelevant(question string, snap *Snapshot) bool {
	q := strings.ToLower(question)

	for kw := range snap.Keywords {
		if utf8.RuneCountInString(kw) > minKeywordLen && strings.Contains(q, kw) {
			return true
		}
	}

	for filename := range snap.Files {
		stem := strings.ToLower(strings.TrimSuffix(filename, filepath.Ext(filename)))
		if stem != "" && strings.Contains(q, stem) {
			return true
		}
	}

	for _, phrase := range genericIntentPhrases {
		if strings.Contains(q, phrase) {
			return true
		}
	}

	return false
}
