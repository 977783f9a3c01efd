// Package poster defines the persona roster: named content voices, each with
// its own system prompt, style guide, and supported post types. Posters are
// read-only configuration from the generation pipeline's perspective; they
// are edited through admin tooling and consumed as immutable records per
// cycle.
package poster

// PostType is a content template belonging to a poster.
type PostType struct {
	Type           string   `json:"type"`
	Description    string   `json:"description"`
	ManifestFields []string `json:"manifest_fields"`
	MaxLength      int      `json:"max_length"`
	SupportsImages bool     `json:"supports_images,omitempty"`
	SearchFocus    []string `json:"search_focus,omitempty"`
}

// Poster is a persona/content voice.
type Poster struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Tagline      string     `json:"tagline"`
	SystemPrompt string     `json:"system_prompt"`
	StyleGuide   string     `json:"style_guide"`
	PostTypes    []PostType `json:"post_types"`
	Active       bool       `json:"is_active"`
}
