package db

import (
	"context"
	"fmt"
	"time"
)

// MessageStatusCount is the number of raw messages in one status.
type MessageStatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// ExtractorCount is the number of picks produced by one extractor.
type ExtractorCount struct {
	Extractor string `json:"extractor"`
	Count     int64  `json:"count"`
}

// PipelineStats is the read model returned by the stats endpoint.
type PipelineStats struct {
	Day        string               `json:"day"`
	Messages   []MessageStatusCount `json:"messages"`
	Extractors []ExtractorCount     `json:"extractors"`
	Cappers    int64                `json:"cappers"`
	Picks      int64                `json:"picks"`
	PicksToday int64                `json:"picks_today"`
}

// QueryPipelineStats returns message and pick counters. day selects the
// pick_date counted as today.
func (p *Pool) QueryPipelineStats(ctx context.Context, day time.Time) (*PipelineStats, error) {
	dayText := day.UTC().Format("2006-01-02")
	stats := &PipelineStats{
		Day:        dayText,
		Messages:   make([]MessageStatusCount, 0, 3),
		Extractors: make([]ExtractorCount, 0, 2),
	}

	const statusQuery = `
SELECT status::text, COUNT(*)::BIGINT
FROM raw_messages
GROUP BY status
ORDER BY 1
`
	rows, err := p.Query(ctx, statusQuery)
	if err != nil {
		return nil, fmt.Errorf("query message status counts: %w", err)
	}
	for rows.Next() {
		var row MessageStatusCount
		if err := rows.Scan(&row.Status, &row.Count); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan message status count: %w", err)
		}
		stats.Messages = append(stats.Messages, row)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate message status counts: %w", err)
	}
	rows.Close()

	const extractorQuery = `
SELECT COALESCE(extraction->>'extractor', 'unknown'), COUNT(*)::BIGINT
FROM standardized_picks
GROUP BY 1
ORDER BY 1
`
	rows, err = p.Query(ctx, extractorQuery)
	if err != nil {
		return nil, fmt.Errorf("query extractor counts: %w", err)
	}
	for rows.Next() {
		var row ExtractorCount
		if err := rows.Scan(&row.Extractor, &row.Count); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan extractor count: %w", err)
		}
		stats.Extractors = append(stats.Extractors, row)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate extractor counts: %w", err)
	}
	rows.Close()

	const totalsQuery = `
SELECT
	(SELECT COUNT(*)::BIGINT FROM capper_directory),
	(SELECT COUNT(*)::BIGINT FROM standardized_picks),
	(SELECT COUNT(*)::BIGINT FROM standardized_picks WHERE pick_date = $1::date)
`
	if err := p.QueryRow(ctx, totalsQuery, dayText).Scan(&stats.Cappers, &stats.Picks, &stats.PicksToday); err != nil {
		return nil, fmt.Errorf("query pick totals: %w", err)
	}
	return stats, nil
}
