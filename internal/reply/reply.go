// Package reply handles a user's response to a post: a persona-voice answer
// plus conservative extraction of profile changes from what they said. The
// conversation is where manifest weights move — items get confirmed,
// corrected, or retired based on what the user actually tells a persona.
package reply

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/yellowpill/soulfeed/internal/db"
	"github.com/yellowpill/soulfeed/internal/llm"
	"github.com/yellowpill/soulfeed/internal/manifest"
	"github.com/yellowpill/soulfeed/internal/poster"
	"github.com/yellowpill/soulfeed/internal/soul"
)

// Client is the slice of the completion client the responder needs.
type Client interface {
	Complete(ctx context.Context, system, user string, opts llm.Options) (string, error)
	CompleteStructured(ctx context.Context, system, user, schemaName string, schema map[string]any, opts llm.Options) (json.RawMessage, error)
}

// Store is the persistence surface the responder needs.
type Store interface {
	GetPost(ctx context.Context, userID, postID string) (*db.Post, error)
	GetPoster(ctx context.Context, posterID string) (*poster.Poster, error)
	GetManifest(ctx context.Context, userID string) (*manifest.SoulManifest, error)
	SaveManifest(ctx context.Context, m *manifest.SoulManifest) error
	GetSoulSummaries(ctx context.Context, userID string) (*soul.Summaries, error)
}

// minConfidence gates which extracted amendments are applied.
const minConfidence = 0.7

// Outcome is what a handled reply produces.
type Outcome struct {
	Reply        string
	ManifestNote string // Human-readable summary of profile changes, if any.
}

// Responder generates persona replies and applies manifest amendments.
type Responder struct {
	store  Store
	client Client
	rng    *rand.Rand
	now    func() time.Time
}

// Config holds configuration for the responder.
type Config struct {
	Store  Store
	Client Client
	Rand   *rand.Rand
	Now    func() time.Time // Overridable for tests; defaults to time.Now.
}

// New creates a responder.
func New(cfg Config) *Responder {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Responder{store: cfg.Store, client: cfg.Client, rng: cfg.Rand, now: now}
}

// Respond answers the user's message in the post's persona voice, then
// extracts any profile changes the message revealed and saves them. The
// reply itself never fails on extraction problems; profile updates are
// best-effort.
func (r *Responder) Respond(ctx context.Context, userID, postID, message string) (*Outcome, error) {
	post, err := r.store.GetPost(ctx, userID, postID)
	if err != nil {
		return nil, fmt.Errorf("load post: %w", err)
	}
	p, err := r.store.GetPoster(ctx, post.PosterID)
	if err != nil {
		return nil, fmt.Errorf("load poster: %w", err)
	}
	m, err := r.store.GetManifest(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}

	text, err := r.personaReply(ctx, p, post.Content, message, r.soulContext(ctx, userID))
	if err != nil {
		return nil, fmt.Errorf("generate reply: %w", err)
	}

	note := r.updateManifest(ctx, m, post, message)

	return &Outcome{Reply: text, ManifestNote: note}, nil
}

// soulContext picks one cached summary at random for reply tone. Missing
// summaries are fine; the persona just knows less.
func (r *Responder) soulContext(ctx context.Context, userID string) string {
	summaries, err := r.store.GetSoulSummaries(ctx, userID)
	if err != nil {
		return ""
	}
	return soul.PickRandom(r.rng, summaries).Summary
}

const replyFraming = `

You are responding to a reply from the user. Stay in character as %q.
Keep responses concise (1-3 sentences). Be warm and engaged.
Reference what they said and respond thoughtfully.

=== WHO THIS PERSON IS ===
%s
=== END CONTEXT ===

Use this context to inform your tone and understanding of who you're talking
to, but DON'T explicitly reference their profile details. Respond naturally
like a friend who knows them well.`

func (r *Responder) personaReply(ctx context.Context, p *poster.Poster, postContent, message, soulContext string) (string, error) {
	if soulContext == "" {
		soulContext = "No additional context available."
	}
	system := p.SystemPrompt + fmt.Sprintf(replyFraming, p.Name, soulContext)
	user := fmt.Sprintf("Original post you wrote for them: %q\n\nTheir reply to you: %q\n\nRespond as %s. Be genuine, warm, and connected.",
		postContent, message, p.Name)

	text, err := r.client.Complete(ctx, system, user, llm.Options{
		Model:       llm.ModelGeneration,
		Temperature: 0.7,
		MaxTokens:   200,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// updateManifest extracts amendments from the conversation and persists
// whatever sticks. Any failure is logged and swallowed; the reply already
// succeeded and a lost profile update is recoverable from the next chat.
func (r *Responder) updateManifest(ctx context.Context, m *manifest.SoulManifest, post *db.Post, message string) string {
	ext, err := r.extract(ctx, m, post.Content, message)
	if err != nil {
		slog.Warn("manifest extraction failed", "user_id", m.UserID, "error", err)
		return ""
	}

	now := r.now().UTC()
	var applied int
	if ext.HasUpdate {
		for _, a := range ext.Updates {
			if a.Confidence < minConfidence {
				continue
			}
			if err := m.Amend(a); err != nil {
				slog.Warn("skipping amendment", "user_id", m.UserID, "path", a.Path, "error", err)
				continue
			}
			applied++
		}
	}

	// Replying re-engages the facts the post drew on, and a save is the
	// natural moment to age out whatever nothing has touched in a month.
	m.MarkFieldsReferenced(post.ManifestFields, now)
	decayed := m.DecayStale(now)

	m.UpdatedAt = now
	if err := r.store.SaveManifest(ctx, m); err != nil {
		slog.Warn("saving manifest failed", "user_id", m.UserID, "error", err)
		return ""
	}

	slog.Info("manifest updated from reply",
		"user_id", m.UserID,
		"amendments", applied,
		"decayed", decayed)

	if applied == 0 {
		return ""
	}
	return ext.Summary
}

type extraction struct {
	HasUpdate bool                 `json:"has_update"`
	Updates   []manifest.Amendment `json:"updates"`
	Summary   string               `json:"summary"`
}

var extractionSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"has_update": map[string]any{
			"type":        "boolean",
			"description": "Whether there's meaningful information to update in the profile",
		},
		"updates": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"path": map[string]any{
						"type":        "string",
						"description": "Dot notation path (e.g. 'dreams.vivid_future_scenes', 'growth.current_challenges')",
					},
					"action": map[string]any{
						"type": "string",
						"enum": []string{"add", "update", "remove"},
					},
					"old_value": map[string]any{
						"type":        "string",
						"description": "The existing value being replaced or removed",
					},
					"new_value": map[string]any{
						"type":        "string",
						"description": "The new value (for adds/updates)",
					},
					"confidence": map[string]any{
						"type":        "number",
						"description": "How confident this is correct (0-1)",
					},
				},
				"required":             []string{"path", "action", "confidence"},
				"additionalProperties": false,
			},
		},
		"summary": map[string]any{
			"type":        "string",
			"description": "Brief summary of what was learned (e.g. 'Noted: thinking more about books than movies')",
		},
	},
	"required":             []string{"has_update", "updates", "summary"},
	"additionalProperties": false,
}

const extractionSystem = `You are analyzing conversation for profile updates.
Be conservative - only extract clear, confident updates. If they're just
chatting, don't force an update. An explicit correction of something in
their profile is a clear update.`

func (r *Responder) extract(ctx context.Context, m *manifest.SoulManifest, postContent, message string) (*extraction, error) {
	profile, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	snippet := string(profile)
	if len(snippet) > 2000 {
		snippet = snippet[:2000]
	}

	user := fmt.Sprintf(`User's current profile context:
%s

The post they replied to: %q
Their reply: %q

Look for changes to their dreams or goals, new interests, updates to their
challenges or fears, or changes in how they see themselves.`,
		snippet, postContent, message)

	raw, err := r.client.CompleteStructured(ctx, extractionSystem, user, "manifest_update", extractionSchema, llm.Options{
		Temperature: 0.3,
		MaxTokens:   1000,
	})
	if err != nil {
		return nil, err
	}

	var ext extraction
	if err := json.Unmarshal(raw, &ext); err != nil {
		return nil, fmt.Errorf("decode extraction: %w", err)
	}
	return &ext, nil
}
