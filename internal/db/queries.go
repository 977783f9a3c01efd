package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/yellowpill/soulfeed/internal/manifest"
	"github.com/yellowpill/soulfeed/internal/poster"
	"github.com/yellowpill/soulfeed/internal/soul"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// DBTX is the subset of *sql.DB and *sql.Tx the queries need.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries holds all database queries.
type Queries struct {
	db DBTX
}

// New creates a Queries instance.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a Queries instance bound to the transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// GetManifest loads a user's soul manifest.
func (q *Queries) GetManifest(ctx context.Context, userID string) (*manifest.SoulManifest, error) {
	var raw string
	err := q.db.QueryRowContext(ctx,
		"SELECT manifest FROM soul_manifests WHERE user_id = ?", userID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("manifest for user %s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query manifest: %w", err)
	}

	var m manifest.SoulManifest
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &m, nil
}

// SaveManifest stores a user's soul manifest, creating the row if needed.
func (q *Queries) SaveManifest(ctx context.Context, m *manifest.SoulManifest) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	_, err = q.db.ExecContext(ctx, `
		INSERT INTO soul_manifests (user_id, manifest, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id) DO UPDATE SET
			manifest = excluded.manifest,
			updated_at = CURRENT_TIMESTAMP
	`, m.UserID, string(raw))
	if err != nil {
		return fmt.Errorf("save manifest: %w", err)
	}
	return nil
}

// GetSoulSummaries loads a user's cached soul summaries.
func (q *Queries) GetSoulSummaries(ctx context.Context, userID string) (*soul.Summaries, error) {
	var raw sql.NullString
	err := q.db.QueryRowContext(ctx,
		"SELECT soul_summaries FROM soul_manifests WHERE user_id = ?", userID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("summaries for user %s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	if !raw.Valid || raw.String == "" {
		return nil, fmt.Errorf("summaries for user %s: %w", userID, ErrNotFound)
	}

	var s soul.Summaries
	if err := json.Unmarshal([]byte(raw.String), &s); err != nil {
		return nil, fmt.Errorf("decode summaries: %w", err)
	}
	return &s, nil
}

// SaveSoulSummaries caches generated soul summaries on the manifest row.
func (q *Queries) SaveSoulSummaries(ctx context.Context, userID string, s *soul.Summaries) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode summaries: %w", err)
	}
	res, err := q.db.ExecContext(ctx,
		"UPDATE soul_manifests SET soul_summaries = ?, updated_at = CURRENT_TIMESTAMP WHERE user_id = ?",
		string(raw), userID)
	if err != nil {
		return fmt.Errorf("save summaries: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save summaries: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("summaries for user %s: %w", userID, ErrNotFound)
	}
	return nil
}

// SeedPosters upserts the poster roster. Definitions are refreshed in place
// so prompt edits ship without a migration; the active flag is preserved.
func (q *Queries) SeedPosters(ctx context.Context, posters []poster.Poster) error {
	for _, p := range posters {
		raw, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode poster %s: %w", p.ID, err)
		}
		_, err = q.db.ExecContext(ctx, `
			INSERT INTO posters (id, name, tagline, definition, active)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				tagline = excluded.tagline,
				definition = excluded.definition
		`, p.ID, p.Name, p.Tagline, string(raw), boolToInt(p.Active))
		if err != nil {
			return fmt.Errorf("seed poster %s: %w", p.ID, err)
		}
	}
	return nil
}

// ListActivePosters returns all active posters.
func (q *Queries) ListActivePosters(ctx context.Context) ([]poster.Poster, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT definition FROM posters WHERE active = 1 ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query posters: %w", err)
	}
	defer rows.Close()

	var posters []poster.Poster
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan poster: %w", err)
		}
		var p poster.Poster
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("decode poster: %w", err)
		}
		posters = append(posters, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posters: %w", err)
	}
	return posters, nil
}

// GetPoster loads one poster definition regardless of its active flag.
func (q *Queries) GetPoster(ctx context.Context, posterID string) (*poster.Poster, error) {
	var raw string
	err := q.db.QueryRowContext(ctx,
		"SELECT definition FROM posters WHERE id = ?", posterID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("poster %s: %w", posterID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query poster: %w", err)
	}

	var p poster.Poster
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("decode poster: %w", err)
	}
	return &p, nil
}

// SetPosterActive toggles a poster's active flag.
func (q *Queries) SetPosterActive(ctx context.Context, posterID string, active bool) error {
	res, err := q.db.ExecContext(ctx,
		"UPDATE posters SET active = ? WHERE id = ?", boolToInt(active), posterID)
	if err != nil {
		return fmt.Errorf("set poster active: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set poster active: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("poster %s: %w", posterID, ErrNotFound)
	}
	return nil
}

// ListRecentPosts returns a user's most recent posts, newest first.
func (q *Queries) ListRecentPosts(ctx context.Context, userID string, limit int) ([]Post, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, user_id, poster_id, post_type, content, image_url,
		       citations, manifest_fields_used, created_at
		FROM posts
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return posts, nil
}

// GetPost loads one of a user's posts by id.
func (q *Queries) GetPost(ctx context.Context, userID, postID string) (*Post, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, user_id, poster_id, post_type, content, image_url,
		       citations, manifest_fields_used, created_at
		FROM posts
		WHERE id = ? AND user_id = ?
	`, postID, userID)
	if err != nil {
		return nil, fmt.Errorf("query post: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query post: %w", err)
		}
		return nil, fmt.Errorf("post %s: %w", postID, ErrNotFound)
	}
	p, err := scanPost(rows)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CountPostsToday counts posts created for the user since local midnight UTC.
func (q *Queries) CountPostsToday(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM posts
		WHERE user_id = ? AND created_at >= date('now')
	`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}

// InsertGenerationLog records one generation batch outcome.
func (q *Queries) InsertGenerationLog(ctx context.Context, userID string, generated, skipped int, duration time.Duration) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO generation_log (user_id, generated, skipped_duplicates, duration_ms)
		VALUES (?, ?, ?, ?)
	`, userID, generated, skipped, duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("insert generation log: %w", err)
	}
	return nil
}

// ListOnboardedUsers returns ids of users with a stored manifest.
func (q *Queries) ListOnboardedUsers(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT user_id FROM soul_manifests ORDER BY user_id")
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

func (q *Queries) insertPost(ctx context.Context, p Post) error {
	citations, err := json.Marshal(emptyIfNil(p.Citations))
	if err != nil {
		return fmt.Errorf("encode citations: %w", err)
	}
	fields, err := json.Marshal(emptyIfNil(p.ManifestFields))
	if err != nil {
		return fmt.Errorf("encode manifest fields: %w", err)
	}
	_, err = q.db.ExecContext(ctx, `
		INSERT INTO posts (id, user_id, poster_id, post_type, content, image_url,
		                   citations, manifest_fields_used, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.UserID, p.PosterID, p.PostType, p.Content, p.ImageURL,
		string(citations), string(fields), p.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert post %s: %w", p.ID, err)
	}
	return nil
}

// InsertPosts stores a batch of posts in a single transaction. Either every
// post lands or none do; callers treat a failure as zero posts persisted.
func (s *Store) InsertPosts(ctx context.Context, posts []Post) error {
	if len(posts) == 0 {
		return nil
	}

	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	q := s.Queries.WithTx(tx)
	for _, p := range posts {
		if err := q.insertPost(ctx, p); err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit posts: %w", err)
	}
	return nil
}

func scanPost(rows *sql.Rows) (Post, error) {
	var p Post
	var citations, fields, createdAt string
	if err := rows.Scan(&p.ID, &p.UserID, &p.PosterID, &p.PostType, &p.Content,
		&p.ImageURL, &citations, &fields, &createdAt); err != nil {
		return Post{}, fmt.Errorf("scan post: %w", err)
	}
	if err := json.Unmarshal([]byte(citations), &p.Citations); err != nil {
		return Post{}, fmt.Errorf("decode citations: %w", err)
	}
	if err := json.Unmarshal([]byte(fields), &p.ManifestFields); err != nil {
		return Post{}, fmt.Errorf("decode manifest fields: %w", err)
	}
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		p.CreatedAt = t
	}
	return p, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
