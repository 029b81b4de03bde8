// Package pipeline runs pending messages through the extraction stages and
// persists the resulting picks.
package pipeline

import (
	"github.com/Ducky705/Live-Pick-Scraper/internal/gate"
	"github.com/Ducky705/Live-Pick-Scraper/internal/identity"
	"github.com/Ducky705/Live-Pick-Scraper/internal/matcher"
	"github.com/Ducky705/Live-Pick-Scraper/internal/normalize"
	"github.com/Ducky705/Live-Pick-Scraper/internal/pick"
	"github.com/Ducky705/Live-Pick-Scraper/internal/standardize"
)

// EngineOptions configures the deterministic stages.
type EngineOptions struct {
	AggregatorChannels []string
	MaxLines           int
	Similarity         float64
	TeamSimilarity     float64
	Language           normalize.LanguageDetector
}

// Engine is the deterministic path: author extraction, normalization,
// matching and the confidence gate. It is safe for concurrent use.
type Engine struct {
	authors    *identity.AuthorExtractor
	normalizer *normalize.Normalizer
	matcher    *matcher.Matcher
	gate       *gate.Gate
}

func NewEngine(opts EngineOptions) *Engine {
	return &Engine{
		authors: identity.NewAuthorExtractor(opts.AggregatorChannels),
		normalizer: normalize.New(normalize.Options{
			SimilarityThreshold: opts.Similarity,
			Language:            opts.Language,
		}),
		matcher: matcher.New(matcher.Options{MaxLines: opts.MaxLines}),
		gate:    gate.New(opts.TeamSimilarity),
	}
}

// Prepared is one message after the deterministic stages.
type Prepared struct {
	Message    pick.RawMessage
	Author     identity.Author
	Normalized normalize.Result
	Match      matcher.Result
	Decision   gate.Decision
}

// Routed reports whether the message needs the fallback extractor.
func (p Prepared) Routed() bool {
	return !p.Decision.Accept && !p.Empty()
}

// Empty reports whether normalization left nothing to extract from.
func (p Prepared) Empty() bool {
	return len(p.Normalized.Lines) == 0
}

// Prepare runs the deterministic stages for msg. It does not modify msg.
func (e *Engine) Prepare(msg pick.RawMessage) Prepared {
	author := e.authors.Extract(msg)
	normalized := e.normalizer.Normalize(author.Body)
	matched := e.matcher.Match(msg.ID, normalized)
	return Prepared{
		Message:    msg,
		Author:     author,
		Normalized: normalized,
		Match:      matched,
		Decision:   e.gate.Evaluate(matched),
	}
}

// Standardize maps an extracted pick to the canonical vocabulary. ok is
// false when the formatted pick text is unusable.
func Standardize(p pick.ExtractedPick) (standardize.Standardized, bool) {
	std := standardize.Apply(p)
	if !pick.ValidPickText(std.PickText) {
		return std, false
	}
	return std, true
}
