package pipeline

import (
	"context"
	"fmt"

	"github.com/Ducky705/Live-Pick-Scraper/internal/fallback"
	"github.com/Ducky705/Live-Pick-Scraper/internal/globaltime"
	"github.com/Ducky705/Live-Pick-Scraper/internal/pick"
)

// PreviewPick is a standardized pick without an identity.
type PreviewPick struct {
	League       pick.League    `json:"league"`
	BetType      pick.BetType   `json:"bet_type"`
	PickText     string         `json:"pick_value"`
	Unit         *float64       `json:"unit,omitempty"`
	OddsAmerican *int           `json:"odds_american,omitempty"`
	Extractor    pick.Extractor `json:"extractor"`
}

// Preview shows how a message would be extracted. Nothing is persisted.
type Preview struct {
	Author     string        `json:"author"`
	Lines      []string      `json:"lines"`
	Hype       []string      `json:"hype,omitempty"`
	Accepted   bool          `json:"accepted"`
	GateReason string        `json:"gate_reason"`
	Routed     bool          `json:"routed"`
	PickDate   string        `json:"pick_date"`
	Picks      []PreviewPick `json:"picks"`
}

// PreviewMessage runs the deterministic stages on msg and, when the gate
// routes it and fb is not nil, the fallback extractor.
func PreviewMessage(ctx context.Context, engine *Engine, fb *fallback.Extractor, msg pick.RawMessage) (Preview, error) {
	if msg.OccurredAt.IsZero() {
		msg.OccurredAt = globaltime.Now()
	}
	p := engine.Prepare(msg)

	out := Preview{
		Author:     p.Author.Name,
		Lines:      p.Normalized.Lines,
		Hype:       p.Normalized.Hype,
		Accepted:   p.Decision.Accept,
		GateReason: p.Decision.Reason,
		Routed:     p.Routed(),
		PickDate:   pick.FormatDate(globaltime.EasternDate(msg.OccurredAt)),
		Picks:      []PreviewPick{},
	}
	if out.Lines == nil {
		out.Lines = []string{}
	}

	extracted := p.Match.Picks
	if !p.Decision.Accept {
		extracted = nil
		if p.Routed() && fb != nil {
			var err error
			extracted, err = fb.Extract(ctx, []fallback.Request{{
				MessageID: msg.ID,
				Text:      p.Author.Body,
				Author:    p.Author.Name,
				Date:      globaltime.EasternDate(msg.OccurredAt),
			}})
			if err != nil {
				return out, fmt.Errorf("fallback extract: %w", err)
			}
		}
	}

	for _, ep := range extracted {
		std, ok := Standardize(ep)
		if !ok {
			continue
		}
		out.Picks = append(out.Picks, PreviewPick{
			League:       std.League,
			BetType:      std.BetType,
			PickText:     std.PickText,
			Unit:         ep.Unit,
			OddsAmerican: ep.OddsAmerican,
			Extractor:    ep.Extractor,
		})
	}
	return out, nil
}
