package db

import "time"

// Post is one generated feed entry.
type Post struct {
	ID             string
	UserID         string
	PosterID       string
	PostType       string
	Content        string
	ImageURL       string
	Citations      []string
	ManifestFields []string
	CreatedAt      time.Time
}
