package pool

import (
	"sort"

	"github.com/spdavis3/golf-pool/internal/models"
)

// AggregateCareer folds every archived tournament result into cumulative
// per-participant totals, sorted by descending winnings. Ties in winnings
// keep the order of first appearance across the records. Participants absent
// from all history have no row.
func AggregateCareer(records []models.HistoryRecord) []models.CareerTotal {
	totals := make(map[string]*models.CareerTotal)
	var order []string

	for _, rec := range records {
		for _, res := range rec.Results {
			t, ok := totals[res.Name]
			if !ok {
				t = &models.CareerTotal{Name: res.Name}
				totals[res.Name] = t
				order = append(order, res.Name)
			}
			t.Tournaments++
			t.Winnings += res.Prize
			switch res.Place {
			case "1st":
				t.Wins++
			case "2nd":
				t.Seconds++
			}
		}
	}

	out := make([]models.CareerTotal, 0, len(order))
	for _, name := range order {
		out = append(out, *totals[name])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Winnings > out[j].Winnings
	})
	return out
}
