package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Contact is one outreach contact with its send history metadata.
type Contact struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email,omitempty"`
	Company     string     `json:"company,omitempty"`
	Title       string     `json:"title,omitempty"`
	LinkedInURL string     `json:"linkedin_url,omitempty"`
	ContactedAt *time.Time `json:"contacted_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// SaveContact inserts a contact or updates it by LinkedIn URL, returning the ID
func (db *DB) SaveContact(ctx context.Context, contact Contact) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO contacts (name, email, company, title, linkedin_url, contacted_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (linkedin_url) DO UPDATE
		 SET name = $1, email = COALESCE(NULLIF($2, ''), contacts.email),
		     company = $3, title = $4, contacted_at = $6
		 RETURNING id`,
		contact.Name, contact.Email, contact.Company, contact.Title, contact.LinkedInURL, contact.ContactedAt,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save contact: %w", err)
	}
	return id, nil
}

// ContactByLinkedInURL retrieves a contact by profile URL, or nil if absent
func (db *DB) ContactByLinkedInURL(ctx context.Context, linkedInURL string) (*Contact, error) {
	var contact Contact
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, email, company, title, linkedin_url, contacted_at, created_at
		 FROM contacts WHERE linkedin_url = $1`,
		linkedInURL,
	).Scan(&contact.ID, &contact.Name, &contact.Email, &contact.Company, &contact.Title,
		&contact.LinkedInURL, &contact.ContactedAt, &contact.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	return &contact, nil
}

// ContactFilters holds optional filters for listing contacts
type ContactFilters struct {
	Company string
	Title   string
	Limit   int
}

// ListContacts retrieves contacts with optional filters, most recent first
func (db *DB) ListContacts(ctx context.Context, filters ContactFilters) ([]Contact, error) {
	if filters.Limit == 0 {
		filters.Limit = 50
	}

	query := `SELECT id, name, email, company, title, linkedin_url, contacted_at, created_at
		FROM contacts WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.Company != "" {
		query += fmt.Sprintf(" AND company ILIKE $%d", argNum)
		args = append(args, "%"+filters.Company+"%")
		argNum++
	}
	if filters.Title != "" {
		query += fmt.Sprintf(" AND title ILIKE $%d", argNum)
		args = append(args, "%"+filters.Title+"%")
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argNum)
	args = append(args, filters.Limit)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []Contact
	for rows.Next() {
		var contact Contact
		if err := rows.Scan(&contact.ID, &contact.Name, &contact.Email, &contact.Company, &contact.Title,
			&contact.LinkedInURL, &contact.ContactedAt, &contact.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, contact)
	}
	return contacts, nil
}
