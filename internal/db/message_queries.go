package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Ducky705/Live-Pick-Scraper/internal/globaltime"
	"github.com/Ducky705/Live-Pick-Scraper/internal/pick"
)

// FetchPendingMessages returns pending messages under the attempt limit that
// occurred within lookback, newest first.
func (p *Pool) FetchPendingMessages(ctx context.Context, limit, maxAttempts int, lookback time.Duration) ([]pick.RawMessage, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be > 0")
	}
	cutoff := globaltime.UTC().Add(-lookback)

	const q = `
SELECT
	id,
	source_unique_id,
	source_url,
	channel_name,
	author_display_name,
	raw_text,
	ocr_text,
	occurred_at,
	status::text,
	attempt_count
FROM raw_messages
WHERE status = 'pending'
  AND attempt_count < $1
  AND occurred_at >= $2
ORDER BY occurred_at DESC, id DESC
LIMIT $3
`

	rows, err := p.Query(ctx, q, maxAttempts, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending messages: %w", err)
	}
	defer rows.Close()

	messages := make([]pick.RawMessage, 0, limit)
	for rows.Next() {
		var (
			msg                    pick.RawMessage
			sourceURL, author, ocr *string
			status                 string
		)
		if err := rows.Scan(
			&msg.ID,
			&msg.SourceUniqueID,
			&sourceURL,
			&msg.ChannelName,
			&author,
			&msg.Text,
			&ocr,
			&msg.OccurredAt,
			&status,
			&msg.AttemptCount,
		); err != nil {
			return nil, fmt.Errorf("scan pending message: %w", err)
		}
		msg.SourceURL = deref(sourceURL)
		msg.AuthorDisplayName = deref(author)
		msg.OCRText = deref(ocr)
		msg.Status = pick.MessageStatus(status)
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending messages: %w", err)
	}
	return messages, nil
}

// UpdateMessageStatus sets status on every message in ids.
func (p *Pool) UpdateMessageStatus(ctx context.Context, ids []int64, status pick.MessageStatus) error {
	if len(ids) == 0 {
		return nil
	}
	res := p.gdb.WithContext(ctx).
		Model(&RawMessage{}).
		Where("id IN ?", ids).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": globaltime.UTC(),
		})
	if res.Error != nil {
		return fmt.Errorf("update message status: %w", res.Error)
	}
	return nil
}

// IncrementAttempts bumps the attempt counter of every message in ids.
func (p *Pool) IncrementAttempts(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	const q = `
UPDATE raw_messages
SET
	attempt_count = attempt_count + 1,
	updated_at = $2
WHERE id = ANY($1)
`
	if _, err := p.Exec(ctx, q, ids, globaltime.UTC()); err != nil {
		return fmt.Errorf("increment message attempts: %w", err)
	}
	return nil
}

// InsertRawMessage stores a collected message, ignoring repeats of the same
// source id. The id is zero when the message already existed.
func (p *Pool) InsertRawMessage(ctx context.Context, msg pick.RawMessage) (int64, error) {
	if strings.TrimSpace(msg.SourceUniqueID) == "" {
		return 0, fmt.Errorf("source unique id is required")
	}
	occurred := msg.OccurredAt
	if occurred.IsZero() {
		occurred = globaltime.UTC()
	}

	const q = `
INSERT INTO raw_messages (
	source_unique_id,
	source_url,
	channel_name,
	author_display_name,
	raw_text,
	ocr_text,
	occurred_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (source_unique_id) DO NOTHING
RETURNING id
`

	var id int64
	err := p.QueryRow(ctx, q,
		strings.TrimSpace(msg.SourceUniqueID),
		nullable(msg.SourceURL),
		msg.ChannelName,
		nullable(msg.AuthorDisplayName),
		msg.Text,
		nullable(msg.OCRText),
		occurred.UTC(),
	).Scan(&id)
	if err != nil {
		if IsNoRows(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("insert raw message: %w", err)
	}
	return id, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullable(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
