package api

import (
	"time"

	"github.com/lodrlodrr/check-ban-freefire-bot/internal/store"
)

// The two stats shapes below use deliberately different formulas and must
// stay separate computations. ListStats counts every entry; SummaryStats
// excludes expired bans from its total. Consumers depend on both shapes.

// ListStats is the breakdown attached to the full blacklist listing.
// Invariant: Permanent + Temporary + Expired == Total.
type ListStats struct {
	Total     int `json:"total"`
	Permanent int `json:"permanent"`
	Temporary int `json:"temporary"`
	Expired   int `json:"expired"`
}

// ComputeListStats classifies every entry relative to now.
func ComputeListStats(entries []store.BlacklistEntry, now time.Time) ListStats {
	s := ListStats{Total: len(entries)}
	for _, e := range entries {
		switch {
		case e.ExpiresAt == nil:
			s.Permanent++
		case e.ExpiredAt(now):
			s.Expired++
		default:
			s.Temporary++
		}
	}
	return s
}

// SummaryStats is the narrower shape served by /api/stats: Total counts
// only active bans (permanent or not yet expired).
type SummaryStats struct {
	Total     int `json:"total"`
	Permanent int `json:"permanent"`
}

// ComputeSummaryStats counts active and permanent bans relative to now.
func ComputeSummaryStats(entries []store.BlacklistEntry, now time.Time) SummaryStats {
	var s SummaryStats
	for _, e := range entries {
		if !e.ExpiredAt(now) {
			s.Total++
		}
		if e.ExpiresAt == nil {
			s.Permanent++
		}
	}
	return s
}
