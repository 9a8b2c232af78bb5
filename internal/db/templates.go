package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jordan/outreach-agent/internal/types"
)

// TemplateRecord is a stored email template.
type TemplateRecord struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Template converts the record to the wire type.
func (r *TemplateRecord) Template() types.EmailTemplate {
	return types.EmailTemplate{
		ID:      r.ID.String(),
		Name:    r.Name,
		Subject: r.Subject,
		Body:    r.Body,
	}
}

// SaveTemplate inserts or updates a template by name and returns its ID
func (db *DB) SaveTemplate(ctx context.Context, template types.EmailTemplate) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO email_templates (name, subject, body)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (name) DO UPDATE SET subject = $2, body = $3, updated_at = NOW()
		 RETURNING id`,
		template.Name, template.Subject, template.Body,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save template: %w", err)
	}
	return id, nil
}

// GetTemplate retrieves a template by ID, or nil if absent
func (db *DB) GetTemplate(ctx context.Context, id uuid.UUID) (*TemplateRecord, error) {
	var record TemplateRecord
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, subject, body, created_at, updated_at
		 FROM email_templates WHERE id = $1`,
		id,
	).Scan(&record.ID, &record.Name, &record.Subject, &record.Body, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return &record, nil
}

// ListTemplates retrieves all templates ordered by name
func (db *DB) ListTemplates(ctx context.Context) ([]TemplateRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, subject, body, created_at, updated_at
		 FROM email_templates ORDER BY name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	var records []TemplateRecord
	for rows.Next() {
		var record TemplateRecord
		if err := rows.Scan(&record.ID, &record.Name, &record.Subject, &record.Body, &record.CreatedAt, &record.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		records = append(records, record)
	}
	return records, nil
}

// DeleteTemplate removes a template by ID
func (db *DB) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM email_templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("template not found: %s", id)
	}
	return nil
}
