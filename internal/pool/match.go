// Package pool implements the pick'em scoring core: resolving free-text picks
// against the live leaderboard, computing standings and prize money, and
// aggregating career history. Everything here is pure over its inputs.
package pool

import (
	"strings"

	"github.com/spdavis3/golf-pool/internal/models"
)

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Resolve maps a free-text pick to a leaderboard position and cut flag.
// Matching is tolerant of informal input: exact full name first, then exact
// surname, then substring containment in either direction. Ambiguous matches
// resolve to the first entry in leaderboard order. No match returns the
// UnresolvedPosition sentinel.
func Resolve(pick string, leaderboard []models.LeaderboardEntry) (int, bool) {
	key := normalize(pick)
	if key == "" || len(leaderboard) == 0 {
		return models.UnresolvedPosition, false
	}

	for _, e := range leaderboard {
		if normalize(e.Name) == key {
			return e.Position, e.Cut
		}
	}

	// Surname match: last whitespace-delimited token of the leaderboard name.
	for _, e := range leaderboard {
		parts := strings.Fields(normalize(e.Name))
		if len(parts) >= 2 && parts[len(parts)-1] == key {
			return e.Position, e.Cut
		}
	}

	for _, e := range leaderboard {
		name := normalize(e.Name)
		if strings.Contains(name, key) || strings.Contains(key, name) {
			return e.Position, e.Cut
		}
	}

	return models.UnresolvedPosition, false
}

// RankingEntry is one row of the world-ranking table. Exported fields so the
// table round-trips through the cache as JSON.
type RankingEntry struct {
	Name string `json:"name"`
	Rank int    `json:"rank"`
}

// Rankings is an ordered world-ranking lookup table. Feed order is preserved
// so fuzzy lookups deterministically resolve to the first entry the feed
// listed, matching the leaderboard resolver's behavior.
type Rankings struct {
	entries []RankingEntry
	index   map[string]int
}

// NewRankings builds a table from feed-ordered entries. Later duplicates of a
// normalized name do not overwrite earlier ones.
func NewRankings(entries []RankingEntry) *Rankings {
	r := &Rankings{
		entries: entries,
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		key := normalize(e.Name)
		if _, ok := r.index[key]; !ok {
			r.index[key] = e.Rank
		}
	}
	return r
}

// Entries returns the table in feed order.
func (r *Rankings) Entries() []RankingEntry {
	if r == nil {
		return nil
	}
	return r.entries
}

func (r *Rankings) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// Rank resolves a pick's world ranking: exact match first, then substring
// containment in feed order. Not found returns (999, false).
func (r *Rankings) Rank(pick string) (int, bool) {
	key := normalize(pick)
	if r == nil || key == "" || len(r.entries) == 0 {
		return models.UnresolvedPosition, false
	}
	if rank, ok := r.index[key]; ok {
		return rank, true
	}
	for _, e := range r.entries {
		name := normalize(e.Name)
		if strings.Contains(name, key) || strings.Contains(key, name) {
			return e.Rank, true
		}
	}
	return models.UnresolvedPosition, false
}
