// Package identity maps author display names to stable capper identities.
package identity

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/rs/zerolog"

	"github.com/Ducky705/Live-Pick-Scraper/internal/pick"
)

const DefaultFuzzyThreshold = 0.90

// Store is the persistence the resolver needs.
type Store interface {
	FetchIdentityDirectory(ctx context.Context) ([]pick.Identity, error)
	// CreateIdentity returns ErrIdentityConflict when the name already exists.
	CreateIdentity(ctx context.Context, canonicalName string) (pick.Identity, error)
}

// Resolver resolves names through the alias table, an exact cache hit, a
// fuzzy match against every known name, and finally a create. Calls are
// serialized.
type Resolver struct {
	store     Store
	cache     Cache
	threshold float64
	logger    zerolog.Logger

	mu     sync.Mutex
	loaded bool
	lev    *metrics.Levenshtein
}

func NewResolver(store Store, cache Cache, threshold float64, logger zerolog.Logger) *Resolver {
	if cache == nil {
		cache = NewMemoryCache()
	}
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultFuzzyThreshold
	}
	lev := metrics.NewLevenshtein()
	lev.CaseSensitive = false
	return &Resolver{
		store:     store,
		cache:     cache,
		threshold: threshold,
		logger:    logger.With().Str("stage", "identity").Logger(),
		lev:       lev,
	}
}

// Resolve returns the identity id for a display name. Invalid names yield
// ErrInvalidName.
func (r *Resolver) Resolve(ctx context.Context, displayName string) (int64, error) {
	canonical, err := Canonical(displayName)
	if err != nil {
		return 0, err
	}
	k := key(canonical)

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.cache.Get(k); ok {
		return id, nil
	}
	if !r.loaded {
		if err := r.loadDirectory(ctx); err != nil {
			return 0, err
		}
		if id, ok := r.cache.Get(k); ok {
			return id, nil
		}
	}

	if match, id, score, ok := r.fuzzy(k); ok {
		r.logger.Debug().
			Str("name", canonical).
			Str("matched", match).
			Float64("score", score).
			Msg("fuzzy identity match")
		r.cache.Set(k, id)
		return id, nil
	}

	created, err := r.store.CreateIdentity(ctx, canonical)
	if err == nil {
		r.cache.Set(k, created.ID)
		r.logger.Info().Str("name", canonical).Int64("identity_id", created.ID).Msg("created identity")
		return created.ID, nil
	}
	if !errors.Is(err, ErrIdentityConflict) {
		return 0, fmt.Errorf("create identity %q: %w", canonical, err)
	}

	// Another writer created it first.
	if err := r.loadDirectory(ctx); err != nil {
		return 0, err
	}
	if id, ok := r.cache.Get(k); ok {
		return id, nil
	}
	return 0, fmt.Errorf("identity %q conflicted but is missing from the directory", canonical)
}

func (r *Resolver) loadDirectory(ctx context.Context) error {
	directory, err := r.store.FetchIdentityDirectory(ctx)
	if err != nil {
		return fmt.Errorf("fetch identity directory: %w", err)
	}
	for _, identity := range directory {
		if k := key(identity.CanonicalName); k != "" {
			r.cache.Set(k, identity.ID)
		}
	}
	r.loaded = true
	return nil
}

// fuzzy scores k against every cached key with token-sort Levenshtein
// similarity. Equal scores resolve to the lexically smallest key.
func (r *Resolver) fuzzy(k string) (string, int64, float64, bool) {
	snapshot := r.cache.Snapshot()
	keys := make([]string, 0, len(snapshot))
	for candidate := range snapshot {
		keys = append(keys, candidate)
	}
	sort.Strings(keys)

	sorted := tokenSort(k)
	bestKey, bestScore := "", 0.0
	for _, candidate := range keys {
		score := strutil.Similarity(sorted, tokenSort(candidate), r.lev)
		if score > bestScore {
			bestKey, bestScore = candidate, score
		}
	}
	if bestKey == "" || bestScore < r.threshold {
		return "", 0, 0, false
	}
	return bestKey, snapshot[bestKey], bestScore, true
}

func tokenSort(s string) string {
	tokens := strings.Fields(strings.ToLower(s))
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
