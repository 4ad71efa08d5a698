package pool

import (
	"fmt"
	"sort"

	"github.com/spdavis3/golf-pool/internal/models"
)

// RankedPick is a participant's pick annotated with its resolved leaderboard
// position and whether no other participant picked the same golfer.
type RankedPick struct {
	Name     string `json:"name"`
	Position int    `json:"position"`
	Cut      bool   `json:"cut"`
	Unique   bool   `json:"unique"`
}

// StandingsRow is one participant's line in the pool standings. Recomputed on
// every render, never stored.
type StandingsRow struct {
	Name    string       `json:"name"`
	Picks   []RankedPick `json:"picks"`
	SortKey []int        `json:"sort_key"`
	Place   string       `json:"place"`
	Prize   int          `json:"prize"`
}

// ComputeStandings ranks participants by their picks' live positions and
// assigns places and prize money. The sort key is the participant's resolved
// positions sorted ascending; ranking compares keys lexicographically, so the
// best single pick wins and ties cascade to the next-best pick. Uniqueness is
// informational only and does not affect ranking. Pure and total: degenerate
// inputs yield an empty result, never an error.
func ComputeStandings(participants []models.Participant, leaderboard []models.LeaderboardEntry, entryFee int) []StandingsRow {
	if len(participants) == 0 || len(leaderboard) == 0 {
		return nil
	}

	// Pick multiplicity across all pick lists, by normalized string.
	counts := make(map[string]int)
	for _, p := range participants {
		for _, pick := range p.Picks {
			counts[normalize(pick)]++
		}
	}

	rows := make([]StandingsRow, 0, len(participants))
	for _, p := range participants {
		picks := make([]RankedPick, 0, len(p.Picks))
		for _, pick := range p.Picks {
			position, cut := Resolve(pick, leaderboard)
			picks = append(picks, RankedPick{
				Name:     pick,
				Position: position,
				Cut:      cut,
				Unique:   counts[normalize(pick)] == 1,
			})
		}
		sort.SliceStable(picks, func(i, j int) bool {
			return picks[i].Position < picks[j].Position
		})
		key := make([]int, len(picks))
		for i, rp := range picks {
			key[i] = rp.Position
		}
		rows = append(rows, StandingsRow{Name: p.Name, Picks: picks, SortKey: key})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return lessKey(rows[i].SortKey, rows[j].SortKey)
	})

	pot := len(participants) * entryFee
	for i := range rows {
		switch i {
		case 0:
			rows[i].Place = "1st"
			if len(rows) == 1 {
				rows[i].Prize = pot
			} else {
				rows[i].Prize = pot - entryFee
			}
		case 1:
			rows[i].Place = "2nd"
			rows[i].Prize = entryFee
		default:
			rows[i].Place = fmt.Sprintf("%dth", i+1)
		}
	}

	return rows
}

// lessKey is element-by-element comparison over position sequences.
func lessKey(a, b []int) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
