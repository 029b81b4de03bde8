package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/Ducky705/Live-Pick-Scraper/internal/identity"
	"github.com/Ducky705/Live-Pick-Scraper/internal/pick"
)

// FetchIdentityDirectory returns every capper identity.
func (p *Pool) FetchIdentityDirectory(ctx context.Context) ([]pick.Identity, error) {
	const q = `
SELECT id, canonical_name
FROM capper_directory
ORDER BY id
`

	rows, err := p.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query capper directory: %w", err)
	}
	defer rows.Close()

	directory := make([]pick.Identity, 0, 256)
	for rows.Next() {
		var row pick.Identity
		if err := rows.Scan(&row.ID, &row.CanonicalName); err != nil {
			return nil, fmt.Errorf("scan capper row: %w", err)
		}
		directory = append(directory, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate capper rows: %w", err)
	}
	return directory, nil
}

// CreateIdentity inserts a capper. A name that already exists, compared
// case-insensitively, yields identity.ErrIdentityConflict.
func (p *Pool) CreateIdentity(ctx context.Context, canonicalName string) (pick.Identity, error) {
	name := strings.TrimSpace(canonicalName)
	if name == "" {
		return pick.Identity{}, identity.ErrInvalidName
	}

	const q = `
INSERT INTO capper_directory (canonical_name)
VALUES ($1)
RETURNING id, canonical_name
`

	var created pick.Identity
	if err := p.QueryRow(ctx, q, name).Scan(&created.ID, &created.CanonicalName); err != nil {
		if isUniqueViolation(err) {
			return pick.Identity{}, fmt.Errorf("create capper %q: %w", name, identity.ErrIdentityConflict)
		}
		return pick.Identity{}, fmt.Errorf("create capper %q: %w", name, err)
	}
	return created, nil
}

// CapperListItem is returned by the cappers endpoint.
type CapperListItem struct {
	ID            int64  `json:"id"`
	CanonicalName string `json:"canonical_name"`
	PickCount     int64  `json:"pick_count"`
}

// ListCappers returns cappers ordered by pick volume.
func (p *Pool) ListCappers(ctx context.Context, limit int) ([]CapperListItem, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be > 0")
	}

	const q = `
SELECT
	c.id,
	c.canonical_name,
	COUNT(sp.id)::BIGINT AS pick_count
FROM capper_directory c
LEFT JOIN standardized_picks sp
	ON sp.capper_id = c.id
GROUP BY c.id, c.canonical_name
ORDER BY pick_count DESC, c.canonical_name
LIMIT $1
`

	rows, err := p.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("query cappers: %w", err)
	}
	defer rows.Close()

	items := make([]CapperListItem, 0, limit)
	for rows.Next() {
		var row CapperListItem
		if err := rows.Scan(&row.ID, &row.CanonicalName, &row.PickCount); err != nil {
			return nil, fmt.Errorf("scan capper list row: %w", err)
		}
		items = append(items, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate capper list rows: %w", err)
	}
	return items, nil
}
