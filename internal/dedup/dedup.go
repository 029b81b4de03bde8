// Package dedup removes picks that are already stored or repeated within a
// batch.
package dedup

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/Ducky705/Live-Pick-Scraper/internal/pick"
)

// Store returns the persisted signatures for the given identities and dates.
type Store interface {
	FetchDedupSignatures(ctx context.Context, identityIDs []int64, dates []string) ([]pick.Signature, error)
}

// Filter keeps the first occurrence of every signature that is not already
// persisted. A failed lookup is logged and treated as no existing signatures.
func Filter(ctx context.Context, candidates []pick.StandardizedPick, store Store, logger zerolog.Logger) []pick.StandardizedPick {
	out := make([]pick.StandardizedPick, 0, len(candidates))
	if len(candidates) == 0 {
		return out
	}

	existing := map[pick.Signature]struct{}{}
	if store != nil {
		ids, dates := scope(candidates)
		signatures, err := store.FetchDedupSignatures(ctx, ids, dates)
		if err != nil {
			logger.Warn().Err(err).Str("stage", "dedup").Int("candidates", len(candidates)).Msg("dedup lookup failed; keeping all candidates")
		}
		for _, sig := range signatures {
			existing[sig] = struct{}{}
		}
	}

	dropped := 0
	for _, candidate := range candidates {
		sig := candidate.Signature()
		if _, seen := existing[sig]; seen {
			dropped++
			continue
		}
		existing[sig] = struct{}{}
		out = append(out, candidate)
	}
	if dropped > 0 {
		logger.Debug().Str("stage", "dedup").Int("dropped", dropped).Int("kept", len(out)).Msg("dropped duplicate picks")
	}
	return out
}

// scope returns the sorted, distinct identity ids and dates of candidates.
func scope(candidates []pick.StandardizedPick) ([]int64, []string) {
	idSet := make(map[int64]struct{})
	dateSet := make(map[string]struct{})
	for _, c := range candidates {
		idSet[c.IdentityID] = struct{}{}
		dateSet[pick.FormatDate(c.PickDate)] = struct{}{}
	}

	ids := make([]int64, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	dates := make([]string, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return ids, dates
}
