// Package series provides the keyed upsert-and-trim merge shared by every
// artifact writer. It is deliberately generic: the shock series, the
// composite series and the daily health history all persist through it.
package series

import (
	"sort"

	"github.com/wonny/tremor/internal/contracts"
)

// Merge upserts incoming points into an existing date-keyed series and
// applies retention trimming.
//
// Each incoming record replaces the whole existing record sharing its key
// (last writer wins); surviving values are returned sorted ascending by
// key. With retentionDays > 0, entries dated more than retentionDays
// calendar days before the most recent key are dropped; retentionDays <= 0
// keeps everything.
//
// Merge is idempotent under repeated application of the same batch, never
// reorders unrelated entries relative to date order, and never fabricates
// keys.
func Merge[T any](existing, incoming []T, key func(T) string, retentionDays int) []T {
	byKey := make(map[string]T, len(existing)+len(incoming))
	for _, rec := range existing {
		byKey[key(rec)] = rec
	}
	for _, rec := range incoming {
		byKey[key(rec)] = rec
	}

	merged := make([]T, 0, len(byKey))
	for _, rec := range byKey {
		merged = append(merged, rec)
	}
	// ISO date keys sort chronologically as strings.
	sort.Slice(merged, func(i, j int) bool {
		return key(merged[i]) < key(merged[j])
	})

	if retentionDays <= 0 || len(merged) == 0 {
		return merged
	}

	maxDate, err := contracts.ParseDate(key(merged[len(merged)-1]))
	if err != nil {
		// Unparseable max key: retention cannot be anchored, keep all.
		return merged
	}
	cutoff := maxDate.AddDate(0, 0, -retentionDays)

	kept := merged[:0]
	for _, rec := range merged {
		date, err := contracts.ParseDate(key(rec))
		if err != nil || !date.Before(cutoff) {
			kept = append(kept, rec)
		}
	}
	return kept
}
