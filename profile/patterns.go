package profile

import "strings"

// ============================================================================
// FUNNEL SEMANTICS — stage keywords
// ============================================================================
// Funnel detection looks at the field name/caption first and falls back to
// the data. Time keywords and value patterns live in schema/temporal.go.
// ============================================================================

var funnelKeywords = []string{
	"stage", "step", "phase", "level", "status", "funnel", "pipeline",
}

func containsKeyword(text string, keywords []string) bool {
	text = strings.ToLower(text)
	if text == "" {
		return false
	}
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
