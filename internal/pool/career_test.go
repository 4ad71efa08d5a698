package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spdavis3/golf-pool/internal/models"
)

func record(name string, results ...models.TournamentResult) models.HistoryRecord {
	return models.HistoryRecord{TournamentName: name, Results: results}
}

func TestAggregateCareer(t *testing.T) {
	records := []models.HistoryRecord{
		record("The Masters",
			models.TournamentResult{Name: "X", Place: "1st", Prize: 100},
			models.TournamentResult{Name: "Y", Place: "2nd", Prize: 25},
			models.TournamentResult{Name: "Z", Place: "3th", Prize: 0},
		),
		record("US Open",
			models.TournamentResult{Name: "Y", Place: "1st", Prize: 75},
			models.TournamentResult{Name: "X", Place: "2nd", Prize: 25},
		),
	}

	totals := AggregateCareer(records)
	require.Len(t, totals, 3)

	byName := make(map[string]models.CareerTotal)
	for _, t := range totals {
		byName[t.Name] = t
	}

	assert.Equal(t, models.CareerTotal{Name: "X", Tournaments: 2, Wins: 1, Seconds: 1, Winnings: 125}, byName["X"])
	assert.Equal(t, models.CareerTotal{Name: "Y", Tournaments: 2, Wins: 1, Seconds: 1, Winnings: 100}, byName["Y"])
	assert.Equal(t, models.CareerTotal{Name: "Z", Tournaments: 1, Wins: 0, Seconds: 0, Winnings: 0}, byName["Z"])

	// Sorted by descending winnings.
	assert.Equal(t, "X", totals[0].Name)
	assert.Equal(t, "Y", totals[1].Name)
	assert.Equal(t, "Z", totals[2].Name)
}

func TestAggregateCareerTiesKeepFirstAppearanceOrder(t *testing.T) {
	records := []models.HistoryRecord{
		record("Event A",
			models.TournamentResult{Name: "Late", Place: "3th", Prize: 0},
			models.TournamentResult{Name: "Early", Place: "4th", Prize: 0},
		),
	}
	totals := AggregateCareer(records)
	require.Len(t, totals, 2)
	assert.Equal(t, "Late", totals[0].Name)
	assert.Equal(t, "Early", totals[1].Name)
}

func TestAggregateCareerEmpty(t *testing.T) {
	assert.Empty(t, AggregateCareer(nil))
}
