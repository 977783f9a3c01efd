package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yellowpill/soulfeed/internal/manifest"
	"github.com/yellowpill/soulfeed/internal/poster"
	"github.com/yellowpill/soulfeed/internal/soul"
)

func TestManifestRoundTrip(t *testing.T) {
	store := NewTestStore(t)
	ctx := context.Background()

	m := manifest.New("user-1")
	m.Identity.Passions = append(m.Identity.Passions,
		manifest.NewItem("woodworking", manifest.SourceOnboarding))
	require.NoError(t, store.SaveManifest(ctx, m))

	got, err := store.GetManifest(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.UserID)
	require.Len(t, got.Identity.Passions, 1)
	assert.Equal(t, "woodworking", got.Identity.Passions[0].Value)

	// Saving again updates in place
	m.Identity.Passions[0].Confirm()
	require.NoError(t, store.SaveManifest(ctx, m))
	got, err = store.GetManifest(ctx, "user-1")
	require.NoError(t, err)
	assert.InEpsilon(t, 0.8, got.Identity.Passions[0].Weight, 1e-9)
}

func TestGetManifestNotFound(t *testing.T) {
	store := NewTestStore(t)

	_, err := store.GetManifest(context.Background(), "ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSoulSummaries(t *testing.T) {
	store := NewTestStore(t)
	ctx := context.Background()

	t.Run("not found before manifest exists", func(t *testing.T) {
		err := store.SaveSoulSummaries(ctx, "nobody", &soul.Summaries{})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	require.NoError(t, store.SaveManifest(ctx, manifest.New("user-1")))

	t.Run("not found before generation", func(t *testing.T) {
		_, err := store.GetSoulSummaries(ctx, "user-1")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("round trip", func(t *testing.T) {
		s := &soul.Summaries{
			GeneratedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			Summaries: map[soul.Angle]string{
				soul.AngleBuilder: "builds things on weekends",
				soul.AngleSeeker:  "restless about meaning",
			},
		}
		require.NoError(t, store.SaveSoulSummaries(ctx, "user-1", s))

		got, err := store.GetSoulSummaries(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, s.Summaries, got.Summaries)
		assert.True(t, s.GeneratedAt.Equal(got.GeneratedAt))
	})
}

func TestPosterSeedingAndListing(t *testing.T) {
	store := NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SeedPosters(ctx, poster.DefaultRoster))

	active, err := store.ListActivePosters(ctx)
	require.NoError(t, err)
	assert.Len(t, active, len(poster.DefaultRoster))

	// Deactivation survives reseeding
	require.NoError(t, store.SetPosterActive(ctx, "scout", false))
	require.NoError(t, store.SeedPosters(ctx, poster.DefaultRoster))

	active, err = store.ListActivePosters(ctx)
	require.NoError(t, err)
	assert.Len(t, active, len(poster.DefaultRoster)-1)
	for _, p := range active {
		assert.NotEqual(t, "scout", p.ID)
	}
}

func TestGetPoster(t *testing.T) {
	store := NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SeedPosters(ctx, poster.DefaultRoster))

	// Lookup works regardless of the active flag
	require.NoError(t, store.SetPosterActive(ctx, "scout", false))
	p, err := store.GetPoster(ctx, "scout")
	require.NoError(t, err)
	assert.Equal(t, "scout", p.ID)
	assert.NotEmpty(t, p.SystemPrompt)

	_, err = store.GetPoster(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetPost(t *testing.T) {
	store := NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveManifest(ctx, manifest.New("user-1")))
	require.NoError(t, store.SeedPosters(ctx, poster.DefaultRoster))
	require.NoError(t, store.InsertPosts(ctx, []Post{{
		ID: "post-1", UserID: "user-1", PosterID: "daily-dose",
		PostType: "quote", Content: "a post",
		ManifestFields: []string{"identity.passions"},
		CreatedAt:      time.Now(),
	}}))

	p, err := store.GetPost(ctx, "user-1", "post-1")
	require.NoError(t, err)
	assert.Equal(t, "a post", p.Content)
	assert.Equal(t, []string{"identity.passions"}, p.ManifestFields)

	// A post is only visible to its owner
	_, err = store.GetPost(ctx, "user-2", "post-1")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.GetPost(ctx, "user-1", "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInsertPostsAtomicity(t *testing.T) {
	store := NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveManifest(ctx, manifest.New("user-1")))
	require.NoError(t, store.SeedPosters(ctx, poster.DefaultRoster))

	good := Post{
		ID: "post-1", UserID: "user-1", PosterID: "daily-dose",
		PostType: "quote", Content: "a post", CreatedAt: time.Now(),
	}
	dupe := good // same primary key forces the second insert to fail

	err := store.InsertPosts(ctx, []Post{good, dupe})
	require.Error(t, err)

	// Nothing persisted: the batch is all-or-nothing
	posts, listErr := store.ListRecentPosts(ctx, "user-1", 10)
	require.NoError(t, listErr)
	assert.Empty(t, posts)
}

func TestListRecentPostsOrderAndLimit(t *testing.T) {
	store := NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveManifest(ctx, manifest.New("user-1")))
	require.NoError(t, store.SeedPosters(ctx, poster.DefaultRoster))

	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	var batch []Post
	for i := 0; i < 5; i++ {
		batch = append(batch, Post{
			ID:        string(rune('a' + i)),
			UserID:    "user-1",
			PosterID:  "daily-dose",
			PostType:  "quote",
			Content:   "post " + string(rune('a'+i)),
			Citations: []string{"https://example.com"},
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	require.NoError(t, store.InsertPosts(ctx, batch))

	posts, err := store.ListRecentPosts(ctx, "user-1", 3)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "e", posts[0].ID)
	assert.Equal(t, "d", posts[1].ID)
	assert.Equal(t, "c", posts[2].ID)
	assert.Equal(t, []string{"https://example.com"}, posts[0].Citations)
}

func TestCountPostsTodayAndGenerationLog(t *testing.T) {
	store := NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveManifest(ctx, manifest.New("user-1")))
	require.NoError(t, store.SeedPosters(ctx, poster.DefaultRoster))

	require.NoError(t, store.InsertPosts(ctx, []Post{
		{ID: "old", UserID: "user-1", PosterID: "daily-dose", PostType: "quote",
			Content: "old", CreatedAt: time.Now().UTC().AddDate(0, 0, -2)},
		{ID: "new", UserID: "user-1", PosterID: "daily-dose", PostType: "quote",
			Content: "new", CreatedAt: time.Now().UTC()},
	}))

	n, err := store.CountPostsToday(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	assert.NoError(t, store.InsertGenerationLog(ctx, "user-1", 2, 1, 1500*time.Millisecond))
}

func TestListOnboardedUsers(t *testing.T) {
	store := NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveManifest(ctx, manifest.New("user-b")))
	require.NoError(t, store.SaveManifest(ctx, manifest.New("user-a")))

	users, err := store.ListOnboardedUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"user-a", "user-b"}, users)
}
