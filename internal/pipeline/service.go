package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Ducky705/Live-Pick-Scraper/internal/dedup"
	"github.com/Ducky705/Live-Pick-Scraper/internal/fallback"
	"github.com/Ducky705/Live-Pick-Scraper/internal/globaltime"
	"github.com/Ducky705/Live-Pick-Scraper/internal/identity"
	"github.com/Ducky705/Live-Pick-Scraper/internal/llm"
	"github.com/Ducky705/Live-Pick-Scraper/internal/pick"
)

const (
	DefaultBatchLimit         = 50
	DefaultMaxAttempts        = 3
	DefaultLookback           = 24 * time.Hour
	DefaultWorkers            = 4
	DefaultFallbackBatchSize  = 10
	DefaultFallbackMaxBatches = 2
	DefaultFallbackTimeout    = 60 * time.Second
)

// Store is the persistence a processing cycle needs.
type Store interface {
	identity.Store
	dedup.Store
	FetchPendingMessages(ctx context.Context, limit, maxAttempts int, lookback time.Duration) ([]pick.RawMessage, error)
	UpdateMessageStatus(ctx context.Context, ids []int64, status pick.MessageStatus) error
	IncrementAttempts(ctx context.Context, ids []int64) error
	InsertStandardizedPicks(ctx context.Context, runID string, picks []pick.StandardizedPick) (int64, error)
	ArchiveOldPicks(ctx context.Context, olderThan time.Duration) (int64, error)
}

type Options struct {
	BatchLimit        int
	MaxAttempts       int
	Lookback          time.Duration
	Workers           int
	FallbackBatchSize int
	// FallbackMaxBatches caps fallback calls per cycle. Zero sends nothing
	// to the fallback and leaves routed messages pending.
	FallbackMaxBatches int
	FallbackTimeout    time.Duration
	// ArchiveAfter archives pending picks older than this after each cycle.
	// Zero disables archival.
	ArchiveAfter time.Duration
}

func (o Options) withDefaults() Options {
	if o.BatchLimit <= 0 {
		o.BatchLimit = DefaultBatchLimit
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.Lookback <= 0 {
		o.Lookback = DefaultLookback
	}
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.FallbackBatchSize <= 0 {
		o.FallbackBatchSize = DefaultFallbackBatchSize
	}
	if o.FallbackMaxBatches < 0 {
		o.FallbackMaxBatches = DefaultFallbackMaxBatches
	}
	if o.FallbackTimeout <= 0 {
		o.FallbackTimeout = DefaultFallbackTimeout
	}
	return o
}

type Service struct {
	store    Store
	engine   *Engine
	fallback *fallback.Extractor
	resolver *identity.Resolver
	opts     Options
	logger   zerolog.Logger
}

// NewService wires a processing service. fb may be nil, in which case routed
// messages stay pending with their attempt counter bumped.
func NewService(store Store, engine *Engine, fb *fallback.Extractor, resolver *identity.Resolver, opts Options, logger zerolog.Logger) *Service {
	return &Service{
		store:    store,
		engine:   engine,
		fallback: fb,
		resolver: resolver,
		opts:     opts.withDefaults(),
		logger:   logger,
	}
}

// RunResult summarizes one processing cycle.
type RunResult struct {
	RunID           string
	Fetched         int
	Accepted        int
	Routed          int
	Empty           int
	FallbackBatches int
	FallbackFailed  int
	Deferred        int
	Candidates      int
	Dropped         int
	InvalidAuthors  int
	Duplicates      int
	Inserted        int64
	Archived        int64
}

// candidate is an extracted pick with the message it came from.
type candidate struct {
	pick    pick.ExtractedPick
	prep    *Prepared
	model   string
	gateWhy string
}

// ProcessPending runs one cycle: fetch, prepare, fall back, standardize,
// resolve, dedup, insert, then update message statuses. An insert failure
// leaves every status untouched.
func (s *Service) ProcessPending(ctx context.Context) (RunResult, error) {
	if s == nil || s.store == nil || s.engine == nil || s.resolver == nil {
		return RunResult{}, fmt.Errorf("pipeline service is not initialized")
	}

	result := RunResult{RunID: uuid.NewString()}
	logger := s.logger.With().Str("run_id", result.RunID).Logger()

	messages, err := s.store.FetchPendingMessages(ctx, s.opts.BatchLimit, s.opts.MaxAttempts, s.opts.Lookback)
	if err != nil {
		return result, fmt.Errorf("fetch pending messages: %w", err)
	}
	result.Fetched = len(messages)
	if len(messages) == 0 {
		logger.Debug().Msg("no pending messages")
		s.archive(ctx, &result, logger)
		return result, nil
	}

	prepared, err := s.prepareAll(ctx, messages)
	if err != nil {
		return result, err
	}

	var (
		candidates []candidate
		processed  []int64
		routed     []*Prepared
	)
	for i := range prepared {
		p := &prepared[i]
		switch {
		case p.Decision.Accept:
			result.Accepted++
			processed = append(processed, p.Message.ID)
			for _, ep := range p.Match.Picks {
				candidates = append(candidates, candidate{pick: ep, prep: p, gateWhy: p.Decision.Reason})
			}
		case p.Empty():
			result.Empty++
			processed = append(processed, p.Message.ID)
		default:
			result.Routed++
			logger.Debug().
				Str("stage", "gate").
				Int64("message_id", p.Message.ID).
				Str("reason", p.Decision.Reason).
				Msg("routed to fallback")
			routed = append(routed, p)
		}
	}

	fromFallback, done, failed := s.runFallback(ctx, routed, &result, logger)
	candidates = append(candidates, fromFallback...)
	processed = append(processed, done...)
	result.Candidates = len(candidates)

	picks, err := s.standardizeAll(ctx, candidates, &result, logger)
	if err != nil {
		return result, err
	}

	survivors := dedup.Filter(ctx, picks, s.store, logger)
	result.Duplicates = len(picks) - len(survivors)

	inserted, err := s.store.InsertStandardizedPicks(ctx, result.RunID, survivors)
	if err != nil {
		return result, fmt.Errorf("insert picks: %w", err)
	}
	result.Inserted = inserted

	if err := s.store.UpdateMessageStatus(ctx, processed, pick.StatusProcessed); err != nil {
		return result, fmt.Errorf("mark messages processed: %w", err)
	}
	if err := s.store.IncrementAttempts(ctx, failed); err != nil {
		return result, fmt.Errorf("increment message attempts: %w", err)
	}

	s.archive(ctx, &result, logger)

	logger.Info().
		Int("fetched", result.Fetched).
		Int("accepted", result.Accepted).
		Int("routed", result.Routed).
		Int("fallback_failed", result.FallbackFailed).
		Int("deferred", result.Deferred).
		Int("dropped", result.Dropped).
		Int("duplicates", result.Duplicates).
		Int64("inserted", result.Inserted).
		Msg("processing cycle completed")
	return result, nil
}

// prepareAll runs the deterministic stages concurrently, keeping input order.
func (s *Service) prepareAll(ctx context.Context, messages []pick.RawMessage) ([]Prepared, error) {
	prepared := make([]Prepared, len(messages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i := range messages {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			prepared[i] = s.engine.Prepare(messages[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("prepare messages: %w", err)
	}
	return prepared, nil
}

// runFallback sends routed messages to the extractor in bounded batches.
// It returns the extracted candidates, the ids of messages whose batch
// succeeded, and the ids whose batch failed. Messages past the batch budget
// are left alone.
func (s *Service) runFallback(ctx context.Context, routed []*Prepared, result *RunResult, logger zerolog.Logger) ([]candidate, []int64, []int64) {
	var (
		out    []candidate
		done   []int64
		failed []int64
	)
	size := s.opts.FallbackBatchSize
	for start := 0; start < len(routed); start += size {
		end := min(start+size, len(routed))
		batch := routed[start:end]
		if result.FallbackBatches >= s.opts.FallbackMaxBatches {
			result.Deferred += len(routed) - start
			break
		}
		result.FallbackBatches++

		ids := make([]int64, 0, len(batch))
		byID := make(map[int64]*Prepared, len(batch))
		requests := make([]fallback.Request, 0, len(batch))
		for _, p := range batch {
			ids = append(ids, p.Message.ID)
			byID[p.Message.ID] = p
			requests = append(requests, fallback.Request{
				MessageID: p.Message.ID,
				Text:      p.Author.Body,
				Author:    p.Author.Name,
				Date:      globaltime.EasternDate(p.Message.OccurredAt),
			})
		}

		extracted, err := s.extract(ctx, requests)
		if err != nil {
			result.FallbackFailed += len(batch)
			failed = append(failed, ids...)
			event := logger.Warn()
			if errors.Is(err, llm.ErrNotConfigured) {
				event = logger.Debug()
			}
			event.Err(err).Str("stage", "fallback").Int("messages", len(batch)).Msg("fallback batch failed")
			continue
		}

		model := s.fallback.Model()
		for _, ep := range extracted {
			p, ok := byID[ep.SourceMessageID]
			if !ok {
				continue
			}
			out = append(out, candidate{pick: ep, prep: p, model: model, gateWhy: p.Decision.Reason})
		}
		done = append(done, ids...)
	}
	return out, done, failed
}

func (s *Service) extract(ctx context.Context, requests []fallback.Request) ([]pick.ExtractedPick, error) {
	if s.fallback == nil {
		return nil, llm.ErrNotConfigured
	}
	callCtx, cancel := context.WithTimeout(ctx, s.opts.FallbackTimeout)
	defer cancel()
	return s.fallback.Extract(callCtx, requests)
}

// standardizeAll maps candidates to persisted picks. Invalid picks are
// dropped; picks whose author cannot be resolved to a valid name are dropped
// with their message still counted as processed.
func (s *Service) standardizeAll(ctx context.Context, candidates []candidate, result *RunResult, logger zerolog.Logger) ([]pick.StandardizedPick, error) {
	out := make([]pick.StandardizedPick, 0, len(candidates))
	identities := make(map[int64]int64)
	invalid := make(map[int64]struct{})

	for _, c := range candidates {
		msg := c.prep.Message
		if _, bad := invalid[msg.ID]; bad {
			result.Dropped++
			continue
		}

		std, ok := Standardize(c.pick)
		if !ok {
			result.Dropped++
			logger.Debug().
				Str("stage", "standardize").
				Int64("message_id", msg.ID).
				Str("pick", c.pick.PickText).
				Msg("drop invalid pick")
			continue
		}

		identityID, seen := identities[msg.ID]
		if !seen {
			id, err := s.resolver.Resolve(ctx, c.prep.Author.Name)
			if errors.Is(err, identity.ErrInvalidName) {
				invalid[msg.ID] = struct{}{}
				result.InvalidAuthors++
				result.Dropped++
				logger.Debug().
					Str("stage", "identity").
					Int64("message_id", msg.ID).
					Str("author", c.prep.Author.Name).
					Msg("drop picks with invalid author")
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("resolve author for message %d: %w", msg.ID, err)
			}
			identities[msg.ID] = id
			identityID = id
		}

		out = append(out, pick.StandardizedPick{
			IdentityID:     identityID,
			PickDate:       globaltime.EasternDate(msg.OccurredAt),
			League:         std.League,
			BetType:        std.BetType,
			PickText:       std.PickText,
			Unit:           c.pick.Unit,
			OddsAmerican:   c.pick.OddsAmerican,
			SourceURL:      msg.SourceURL,
			SourceUniqueID: msg.SourceUniqueID,
			RawMessageID:   msg.ID,
			Extractor:      c.pick.Extractor,
			Model:          c.model,
			GateReason:     c.gateWhy,
		})
	}
	return out, nil
}

func (s *Service) archive(ctx context.Context, result *RunResult, logger zerolog.Logger) {
	if s.opts.ArchiveAfter <= 0 {
		return
	}
	archived, err := s.store.ArchiveOldPicks(ctx, s.opts.ArchiveAfter)
	if err != nil {
		logger.Warn().Err(err).Msg("archive old picks failed")
		return
	}
	result.Archived = archived
}
