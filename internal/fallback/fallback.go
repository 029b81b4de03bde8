// Package fallback extracts picks with a generative model for messages the
// pattern matcher could not handle.
package fallback

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Ducky705/Live-Pick-Scraper/internal/llm"
	"github.com/Ducky705/Live-Pick-Scraper/internal/pick"
	pickschema "github.com/Ducky705/Live-Pick-Scraper/schema"
)

// ErrParse means no pick array or object could be recovered from the response.
var ErrParse = errors.New("parse fallback response")

const (
	maxPromptText  = 1000
	unknownLeague  = "Unknown"
	systemPrompt   = "You are a sports betting data extraction API. You answer with JSON only."
	promptTemplate = `You will be given chat messages that contain sports betting picks.
Extract every pick into JSON of the form {"picks": [...]}.

### INPUT
%s

### RULES
1. Output only JSON. No prose, no markdown.
2. Ignore hype words such as "whale", "lock", "banger", "max bet".
3. Picks are team or player names followed by a spread (-5, +3.5), a moneyline (ML), a total (Over/Under N) or a prop.
4. Every pick must carry the "raw_pick_id" of the message it came from.
5. Use null for a unit or odds that are not stated.
6. If a message has no picks, emit nothing for it. If no message has picks, return {"picks": []}.

### OUTPUT FORMAT
{"picks": [{"raw_pick_id": 123, "pick_value": "Lakers -5", "bet_type": "Spread", "unit": 2.0, "odds_american": -110, "league": "NBA"}]}`
)

// Request is one message handed to the model.
type Request struct {
	MessageID int64
	Text      string
	Author    string
	Date      time.Time
}

type promptItem struct {
	RawPickID  int64  `json:"raw_pick_id"`
	Text       string `json:"text"`
	CapperName string `json:"capper_name,omitempty"`
	PickDate   string `json:"pick_date,omitempty"`
}

type Extractor struct {
	provider llm.Provider
	model    string
	logger   zerolog.Logger
}

func New(provider llm.Provider, model string, logger zerolog.Logger) *Extractor {
	return &Extractor{
		provider: provider,
		model:    strings.TrimSpace(model),
		logger:   logger.With().Str("stage", "fallback").Logger(),
	}
}

// Model names the model that answers, for extraction metadata.
func (e *Extractor) Model() string {
	if e == nil {
		return ""
	}
	if e.model != "" {
		return e.model
	}
	if named, ok := e.provider.(interface{ ModelName() string }); ok {
		return named.ModelName()
	}
	return ""
}

// Extract issues one completion call for the batch. A transport or parse
// failure fails the whole batch; invalid objects are dropped one by one.
func (e *Extractor) Extract(ctx context.Context, batch []Request) ([]pick.ExtractedPick, error) {
	if len(batch) == 0 {
		return []pick.ExtractedPick{}, nil
	}
	if e == nil || e.provider == nil {
		return nil, llm.ErrNotConfigured
	}

	content, err := e.provider.Complete(ctx, llm.CompletionRequest{
		System:      systemPrompt,
		Prompt:      buildPrompt(batch),
		Model:       e.model,
		Temperature: 0,
		JSON:        true,
	})
	if err != nil {
		return nil, fmt.Errorf("complete fallback batch: %w", err)
	}

	items, err := repairResponse(content)
	if err != nil {
		return nil, err
	}

	ids := make(map[int64]struct{}, len(batch))
	for _, req := range batch {
		ids[req.MessageID] = struct{}{}
	}

	out := make([]pick.ExtractedPick, 0, len(items))
	for i, item := range items {
		p, err := e.convert(item, batch, ids)
		if err != nil {
			e.logger.Debug().Err(err).Int("item", i).Msg("drop fallback pick")
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (e *Extractor) convert(item any, batch []Request, ids map[int64]struct{}) (pick.ExtractedPick, error) {
	validated, err := pickschema.ValidateValue(item)
	if err != nil {
		return pick.ExtractedPick{}, err
	}

	var messageID int64
	switch {
	case validated.RawPickID != nil:
		messageID = *validated.RawPickID
	case len(batch) == 1:
		messageID = batch[0].MessageID
	default:
		return pick.ExtractedPick{}, fmt.Errorf("raw_pick_id missing")
	}
	if _, ok := ids[messageID]; !ok {
		return pick.ExtractedPick{}, fmt.Errorf("raw_pick_id %d not in batch", messageID)
	}
	if !pick.ValidPickText(validated.PickValue) {
		return pick.ExtractedPick{}, fmt.Errorf("pick_value length out of range: %q", validated.PickValue)
	}

	league := validated.League
	if league == "" {
		league = unknownLeague
	}
	return pick.ExtractedPick{
		SourceMessageID: messageID,
		League:          league,
		BetType:         validated.BetType,
		PickText:        validated.PickValue,
		Unit:            pick.ParseUnit(validated.Unit),
		OddsAmerican:    pick.ParseOdds(validated.Odds),
		Extractor:       pick.ExtractorFallback,
	}, nil
}

func buildPrompt(batch []Request) string {
	items := make([]promptItem, 0, len(batch))
	for _, req := range batch {
		item := promptItem{
			RawPickID:  req.MessageID,
			Text:       truncateRunes(req.Text, maxPromptText),
			CapperName: strings.TrimSpace(req.Author),
		}
		if !req.Date.IsZero() {
			item.PickDate = pick.FormatDate(req.Date)
		}
		items = append(items, item)
	}
	return fmt.Sprintf(promptTemplate, encodeJSON(items))
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
