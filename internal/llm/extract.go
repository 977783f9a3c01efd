package llm

import "strings"

// ExtractJSON finds the first balanced JSON object in free text. Models
// sometimes wrap JSON in prose even when asked not to; this is the lenient
// recovery path. Returns "" if no object is found.
func ExtractJSON(text string) string {
	start := strings.Index(text, "{")
	if start == -1 {
		return ""
	}

	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}

	return ""
}
