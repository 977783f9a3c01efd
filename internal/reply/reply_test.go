package reply

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yellowpill/soulfeed/internal/db"
	"github.com/yellowpill/soulfeed/internal/llm"
	"github.com/yellowpill/soulfeed/internal/manifest"
	"github.com/yellowpill/soulfeed/internal/poster"
	"github.com/yellowpill/soulfeed/internal/soul"
)

type fakeStore struct {
	post      *db.Post
	poster    *poster.Poster
	manifest  *manifest.SoulManifest
	summaries *soul.Summaries

	saved   *manifest.SoulManifest
	saveErr error
}

func (f *fakeStore) GetPost(_ context.Context, userID, postID string) (*db.Post, error) {
	if f.post == nil || f.post.ID != postID || f.post.UserID != userID {
		return nil, fmt.Errorf("post %s: %w", postID, db.ErrNotFound)
	}
	return f.post, nil
}

func (f *fakeStore) GetPoster(_ context.Context, posterID string) (*poster.Poster, error) {
	if f.poster == nil || f.poster.ID != posterID {
		return nil, fmt.Errorf("poster %s: %w", posterID, db.ErrNotFound)
	}
	return f.poster, nil
}

func (f *fakeStore) GetManifest(_ context.Context, userID string) (*manifest.SoulManifest, error) {
	if f.manifest == nil {
		return nil, fmt.Errorf("manifest for user %s: %w", userID, db.ErrNotFound)
	}
	return f.manifest, nil
}

func (f *fakeStore) SaveManifest(_ context.Context, m *manifest.SoulManifest) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = m
	return nil
}

func (f *fakeStore) GetSoulSummaries(_ context.Context, userID string) (*soul.Summaries, error) {
	if f.summaries == nil {
		return nil, fmt.Errorf("summaries for user %s: %w", userID, db.ErrNotFound)
	}
	return f.summaries, nil
}

type fakeClient struct {
	completion    string
	completionErr error
	structured    string
	structuredErr error

	completeSystem string
	completeUser   string
	structuredUser string
}

func (f *fakeClient) Complete(_ context.Context, system, user string, _ llm.Options) (string, error) {
	f.completeSystem = system
	f.completeUser = user
	if f.completionErr != nil {
		return "", f.completionErr
	}
	return f.completion, nil
}

func (f *fakeClient) CompleteStructured(_ context.Context, _, user, _ string, _ map[string]any, _ llm.Options) (json.RawMessage, error) {
	f.structuredUser = user
	if f.structuredErr != nil {
		return nil, f.structuredErr
	}
	return json.RawMessage(f.structured), nil
}

func newFixture() (*fakeStore, *fakeClient) {
	m := manifest.New("user-1")
	m.Growth.GoalsLongTerm = []manifest.Item{manifest.NewItem("open a bakery", manifest.SourceOnboarding)}
	m.Identity.Passions = []manifest.Item{manifest.NewItem("sourdough", manifest.SourceOnboarding)}

	store := &fakeStore{
		post: &db.Post{
			ID:             "post-1",
			UserID:         "user-1",
			PosterID:       "daily-dose",
			Content:        "Some mornings the bakery dream feels closer than others.",
			ManifestFields: []string{"identity.passions"},
		},
		poster: &poster.Poster{
			ID:           "daily-dose",
			Name:         "Daily Dose",
			SystemPrompt: "You write short grounding notes.",
		},
		manifest: m,
	}
	client := &fakeClient{
		completion: "  That closeness is worth trusting.  ",
		structured: `{"has_update": false, "updates": [], "summary": ""}`,
	}
	return store, client
}

func newResponder(store *fakeStore, client *fakeClient) *Responder {
	return New(Config{
		Store:  store,
		Client: client,
		Rand:   rand.New(rand.NewPCG(1, 2)),
		Now:    func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
	})
}

func TestRespond_PersonaVoice(t *testing.T) {
	store, client := newFixture()
	store.summaries = &soul.Summaries{Summaries: map[soul.Angle]string{
		soul.AngleBuilder: "They are mid-pivot from finance to food.",
	}}

	out, err := newResponder(store, client).Respond(context.Background(), "user-1", "post-1", "honestly it felt real today")
	require.NoError(t, err)

	assert.Equal(t, "That closeness is worth trusting.", out.Reply)
	assert.Contains(t, client.completeSystem, "You write short grounding notes.")
	assert.Contains(t, client.completeSystem, `"Daily Dose"`)
	assert.Contains(t, client.completeSystem, "mid-pivot from finance to food")
	assert.Contains(t, client.completeUser, "honestly it felt real today")
	assert.Contains(t, client.completeUser, store.post.Content)
}

func TestRespond_MissingSummariesStillReplies(t *testing.T) {
	store, client := newFixture()

	out, err := newResponder(store, client).Respond(context.Background(), "user-1", "post-1", "hi")
	require.NoError(t, err)

	assert.Equal(t, "That closeness is worth trusting.", out.Reply)
	assert.Contains(t, client.completeSystem, "No additional context available.")
}

func TestRespond_AppliesHighConfidenceAmendments(t *testing.T) {
	store, client := newFixture()
	client.structured = `{
		"has_update": true,
		"updates": [
			{"path": "growth.goals_long_term", "action": "update",
			 "old_value": "open a bakery", "new_value": "open a bakery in Lisbon", "confidence": 0.9},
			{"path": "dreams.vivid_future_scenes", "action": "add",
			 "new_value": "flour dust in morning light", "confidence": 0.5}
		],
		"summary": "Noted: the bakery now has a city."
	}`

	out, err := newResponder(store, client).Respond(context.Background(), "user-1", "post-1", "it's Lisbon, actually")
	require.NoError(t, err)
	require.NotNil(t, store.saved)

	assert.Equal(t, "Noted: the bakery now has a city.", out.ManifestNote)
	goal := store.saved.Growth.GoalsLongTerm[0]
	assert.Equal(t, "open a bakery in Lisbon", goal.Value)
	assert.InDelta(t, 0.8, goal.Weight, 1e-9) // 0.7 onboarding + 0.1 confirm

	// The low-confidence add was filtered out.
	assert.Empty(t, store.saved.Dreams.VividFutureScenes)
}

func TestRespond_RemoveSoftDeletes(t *testing.T) {
	store, client := newFixture()
	client.structured = `{
		"has_update": true,
		"updates": [
			{"path": "growth.goals_long_term", "action": "remove",
			 "old_value": "open a bakery", "confidence": 0.95}
		],
		"summary": "Noted: the bakery dream is retired."
	}`

	out, err := newResponder(store, client).Respond(context.Background(), "user-1", "post-1", "I let the bakery thing go")
	require.NoError(t, err)
	require.NotNil(t, store.saved)

	assert.Equal(t, "Noted: the bakery dream is retired.", out.ManifestNote)
	require.Len(t, store.saved.Growth.GoalsLongTerm, 1)
	assert.True(t, store.saved.Growth.GoalsLongTerm[0].Removed())
}

func TestRespond_MarksPostFieldsReferenced(t *testing.T) {
	store, client := newFixture()

	_, err := newResponder(store, client).Respond(context.Background(), "user-1", "post-1", "thanks")
	require.NoError(t, err)
	require.NotNil(t, store.saved)

	passion := store.saved.Identity.Passions[0]
	assert.InDelta(t, 0.75, passion.Weight, 1e-9) // 0.7 onboarding + 0.05 referenced
	assert.False(t, passion.LastReferencedAt.IsZero())
}

func TestRespond_DecaysStaleItemsOnSave(t *testing.T) {
	store, client := newFixture()
	stale := manifest.NewItem("learn cello", manifest.SourceOnboarding)
	stale.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.manifest.Growth.GoalsShortTerm = []manifest.Item{stale}

	_, err := newResponder(store, client).Respond(context.Background(), "user-1", "post-1", "thanks")
	require.NoError(t, err)
	require.NotNil(t, store.saved)

	assert.InDelta(t, 0.6, store.saved.Growth.GoalsShortTerm[0].Weight, 1e-9)
}

func TestRespond_ExtractionFailureStillReplies(t *testing.T) {
	store, client := newFixture()
	client.structuredErr = errors.New("rate limited")

	out, err := newResponder(store, client).Respond(context.Background(), "user-1", "post-1", "hi")
	require.NoError(t, err)

	assert.Equal(t, "That closeness is worth trusting.", out.Reply)
	assert.Empty(t, out.ManifestNote)
	assert.Nil(t, store.saved)
}

func TestRespond_BadAmendmentPathSkipped(t *testing.T) {
	store, client := newFixture()
	client.structured = `{
		"has_update": true,
		"updates": [
			{"path": "meta.tensions", "action": "add", "new_value": "x", "confidence": 0.9}
		],
		"summary": "Noted: something."
	}`

	out, err := newResponder(store, client).Respond(context.Background(), "user-1", "post-1", "hm")
	require.NoError(t, err)

	// Nothing applied, so no note; the manifest still saves for the
	// reference bump.
	assert.Empty(t, out.ManifestNote)
	require.NotNil(t, store.saved)
}

func TestRespond_ReplyErrorIsFatal(t *testing.T) {
	store, client := newFixture()
	client.completionErr = errors.New("timeout")

	_, err := newResponder(store, client).Respond(context.Background(), "user-1", "post-1", "hi")
	assert.ErrorContains(t, err, "generate reply")
}

func TestRespond_UnknownPost(t *testing.T) {
	store, client := newFixture()

	_, err := newResponder(store, client).Respond(context.Background(), "user-1", "nope", "hi")
	assert.ErrorIs(t, err, db.ErrNotFound)
}
