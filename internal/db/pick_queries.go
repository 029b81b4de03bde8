package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Ducky705/Live-Pick-Scraper/internal/globaltime"
	"github.com/Ducky705/Live-Pick-Scraper/internal/pick"
)

const insertBatchSize = 200

// extraction is stored in standardized_picks.extraction.
type extraction struct {
	Extractor  string `json:"extractor"`
	Model      string `json:"model,omitempty"`
	GateReason string `json:"gate_reason,omitempty"`
}

// FetchDedupSignatures returns the persisted signatures for the given
// cappers and dates in one query.
func (p *Pool) FetchDedupSignatures(ctx context.Context, identityIDs []int64, dates []string) ([]pick.Signature, error) {
	if len(identityIDs) == 0 || len(dates) == 0 {
		return nil, nil
	}

	var rows []struct {
		CapperID  int64
		PickDate  string
		PickValue string
		BetType   string
	}
	err := p.gdb.WithContext(ctx).
		Model(&StandardizedPick{}).
		Select("capper_id, to_char(pick_date, 'YYYY-MM-DD') AS pick_date, pick_value, bet_type").
		Where("capper_id IN ? AND pick_date IN ?", identityIDs, dates).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query dedup signatures: %w", err)
	}

	out := make([]pick.Signature, 0, len(rows))
	for _, row := range rows {
		out = append(out, pick.Signature{
			IdentityID: row.CapperID,
			PickDate:   row.PickDate,
			PickText:   row.PickValue,
			BetType:    pick.BetType(row.BetType),
		})
	}
	return out, nil
}

// InsertStandardizedPicks writes picks in one transaction and returns how
// many rows were new. Rows whose signature already exists are skipped.
func (p *Pool) InsertStandardizedPicks(ctx context.Context, runID string, picks []pick.StandardizedPick) (int64, error) {
	if len(picks) == 0 {
		return 0, nil
	}
	rows := make([]StandardizedPick, 0, len(picks))
	for _, sp := range picks {
		row, err := toModel(runID, sp)
		if err != nil {
			return 0, err
		}
		rows = append(rows, row)
	}

	var inserted int64
	err := p.gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&rows, insertBatchSize)
		if res.Error != nil {
			return res.Error
		}
		inserted = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("insert standardized picks: %w", err)
	}
	return inserted, nil
}

func toModel(runID string, sp pick.StandardizedPick) (StandardizedPick, error) {
	meta, err := json.Marshal(extraction{
		Extractor:  string(sp.Extractor),
		Model:      sp.Model,
		GateReason: sp.GateReason,
	})
	if err != nil {
		return StandardizedPick{}, fmt.Errorf("encode extraction metadata: %w", err)
	}
	return StandardizedPick{
		CapperID:       sp.IdentityID,
		PickDate:       sp.PickDate.UTC(),
		League:         string(sp.League),
		BetType:        string(sp.BetType),
		PickValue:      sp.PickText,
		Unit:           sp.Unit,
		OddsAmerican:   sp.OddsAmerican,
		Result:         "pending",
		SourceURL:      nullable(sp.SourceURL),
		SourceUniqueID: nullable(sp.SourceUniqueID),
		RawMessageID:   sp.RawMessageID,
		RunID:          nullable(runID),
		Extraction:     datatypes.JSON(meta),
	}, nil
}

// ArchiveOldPicks marks pending picks created before now-olderThan as
// archived.
func (p *Pool) ArchiveOldPicks(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, fmt.Errorf("archive age must be > 0")
	}
	const q = `
UPDATE standardized_picks
SET result = 'archived'
WHERE result = 'pending'
  AND created_at < $1
`
	tag, err := p.Exec(ctx, q, globaltime.UTC().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("archive old picks: %w", err)
	}
	return tag.RowsAffected(), nil
}

// PickListOptions filters ListPicks. Zero values mean no filter.
type PickListOptions struct {
	Date     string
	CapperID int64
	League   string
	Limit    int
}

// PickListItem is returned by the picks endpoint.
type PickListItem struct {
	ID           int64           `json:"id"`
	CapperID     int64           `json:"capper_id"`
	CapperName   string          `json:"capper_name"`
	PickDate     string          `json:"pick_date"`
	League       string          `json:"league"`
	BetType      string          `json:"bet_type"`
	PickValue    string          `json:"pick_value"`
	Unit         *float64        `json:"unit,omitempty"`
	OddsAmerican *int            `json:"odds_american,omitempty"`
	Result       string          `json:"result"`
	SourceURL    *string         `json:"source_url,omitempty"`
	Extraction   json.RawMessage `json:"extraction,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ListPicks returns the newest picks matching opts.
func (p *Pool) ListPicks(ctx context.Context, opts PickListOptions) ([]PickListItem, error) {
	if opts.Limit <= 0 {
		return nil, fmt.Errorf("limit must be > 0")
	}

	const q = `
SELECT
	sp.id,
	sp.capper_id,
	c.canonical_name,
	to_char(sp.pick_date, 'YYYY-MM-DD'),
	sp.league,
	sp.bet_type,
	sp.pick_value,
	sp.unit::float8,
	sp.odds_american,
	sp.result::text,
	sp.source_url,
	sp.extraction,
	sp.created_at
FROM standardized_picks sp
JOIN capper_directory c
	ON c.id = sp.capper_id
WHERE ($1 = '' OR sp.pick_date = $1::date)
  AND ($2 = 0 OR sp.capper_id = $2)
  AND ($3 = '' OR upper(sp.league) = upper($3))
ORDER BY sp.created_at DESC, sp.id DESC
LIMIT $4
`

	rows, err := p.Query(ctx, q,
		strings.TrimSpace(opts.Date),
		opts.CapperID,
		strings.TrimSpace(opts.League),
		opts.Limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query picks: %w", err)
	}
	defer rows.Close()

	items := make([]PickListItem, 0, opts.Limit)
	for rows.Next() {
		var (
			row  PickListItem
			meta []byte
		)
		if err := rows.Scan(
			&row.ID,
			&row.CapperID,
			&row.CapperName,
			&row.PickDate,
			&row.League,
			&row.BetType,
			&row.PickValue,
			&row.Unit,
			&row.OddsAmerican,
			&row.Result,
			&row.SourceURL,
			&meta,
			&row.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan pick row: %w", err)
		}
		if len(meta) > 0 {
			row.Extraction = append(json.RawMessage(nil), meta...)
		}
		items = append(items, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pick rows: %w", err)
	}
	return items, nil
}
