package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Resolution sources recorded for auditing which step produced an email.
const (
	SourceCache     = "cache"
	SourceAbout     = "about"
	SourceOverlay   = "contact_overlay"
	SourcePageSweep = "page_sweep"
	SourceBackend   = "backend"
)

// ResolutionEvent records one email-resolution attempt against a profile.
type ResolutionEvent struct {
	ID         uuid.UUID `json:"id"`
	ProfileURL string    `json:"profile_url"`
	Email      string    `json:"email,omitempty"`
	Source     string    `json:"source,omitempty"`
	Succeeded  bool      `json:"succeeded"`
	CreatedAt  time.Time `json:"created_at"`
}

// RecordResolution stores a resolution attempt and returns its ID
func (db *DB) RecordResolution(ctx context.Context, event ResolutionEvent) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO resolution_events (profile_url, email, source, succeeded)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		event.ProfileURL, event.Email, event.Source, event.Succeeded,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to record resolution: %w", err)
	}
	return id, nil
}

// ListResolutions retrieves resolution events for a profile, most recent first
func (db *DB) ListResolutions(ctx context.Context, profileURL string, limit int) ([]ResolutionEvent, error) {
	if limit == 0 {
		limit = 20
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, profile_url, email, source, succeeded, created_at
		 FROM resolution_events WHERE profile_url = $1
		 ORDER BY created_at DESC LIMIT $2`,
		profileURL, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resolutions: %w", err)
	}
	defer rows.Close()

	var events []ResolutionEvent
	for rows.Next() {
		var event ResolutionEvent
		if err := rows.Scan(&event.ID, &event.ProfileURL, &event.Email, &event.Source, &event.Succeeded, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan resolution: %w", err)
		}
		events = append(events, event)
	}
	return events, nil
}
