package pool

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spdavis3/golf-pool/internal/models"
)

func participant(name string, picks ...string) models.Participant {
	return models.Participant{Name: name, Picks: picks}
}

func testLeaderboard() []models.LeaderboardEntry {
	return []models.LeaderboardEntry{
		{Name: "Scottie Scheffler", Position: 1, Score: "-12"},
		{Name: "Rory McIlroy", Position: 2, Score: "-10"},
		{Name: "Xander Schauffele", Position: 3, Score: "-9"},
		{Name: "Collin Morikawa", Position: 4, Score: "-8"},
		{Name: "Ludvig Aberg", Position: 5, Score: "-7"},
		{Name: "Viktor Hovland", Position: 6, Score: "-6"},
		{Name: "Justin Thomas", Position: 7, Score: "-5"},
		{Name: "Patrick Cantlay", Position: 10, Score: "-3"},
		{Name: "Tiger Woods", Position: 20, Score: "+1"},
		{Name: "Jordan Spieth", Position: 999, Score: "+9", Cut: true},
	}
}

func TestComputeStandingsEmptyInputs(t *testing.T) {
	lb := testLeaderboard()
	assert.Nil(t, ComputeStandings(nil, lb, 25))
	assert.Nil(t, ComputeStandings([]models.Participant{participant("A", "Woods")}, nil, 25))
}

func TestComputeStandingsRankingIsLexicographic(t *testing.T) {
	// Dan's best pick beats Amy's at the first key position even though
	// Amy's remaining picks are collectively better.
	participants := []models.Participant{
		participant("Amy", "McIlroy", "Schauffele", "Morikawa", "Aberg", "Hovland", "Thomas"),
		participant("Dan", "Scheffler", "Cantlay", "Woods", "Spieth", "Nobody One", "Nobody Two"),
	}
	rows := ComputeStandings(participants, testLeaderboard(), 25)
	require.Len(t, rows, 2)

	assert.Equal(t, "Dan", rows[0].Name)
	assert.Equal(t, []int{1, 10, 20, 999, 999, 999}, rows[0].SortKey)
	assert.Equal(t, "Amy", rows[1].Name)
	assert.Equal(t, []int{2, 3, 4, 5, 6, 7}, rows[1].SortKey)
}

func TestComputeStandingsUniqueness(t *testing.T) {
	participants := []models.Participant{
		participant("P1", "Scheffler", "McIlroy", "Schauffele", "Morikawa", "Aberg", "Hovland"),
		participant("P2", "Scheffler", "Thomas", "Cantlay", "Woods", "Spieth", "Nobody"),
	}
	rows := ComputeStandings(participants, testLeaderboard(), 25)
	require.Len(t, rows, 2)

	for _, row := range rows {
		for _, pick := range row.Picks {
			if normalize(pick.Name) == "scheffler" {
				assert.False(t, pick.Unique, "shared pick must not be unique for %s", row.Name)
			} else {
				assert.True(t, pick.Unique, "pick %q should be unique for %s", pick.Name, row.Name)
			}
		}
	}
}

func TestComputeStandingsSharedPickStillRanks(t *testing.T) {
	// Uniqueness is display-only: a shared best pick still leads the sort key.
	participants := []models.Participant{
		participant("P1", "Scheffler", "Woods", "Nobody A", "Nobody B", "Nobody C", "Nobody D"),
		participant("P2", "Scheffler", "Cantlay", "Nobody E", "Nobody F", "Nobody G", "Nobody H"),
	}
	rows := ComputeStandings(participants, testLeaderboard(), 25)
	require.Len(t, rows, 2)
	assert.Equal(t, []int{1, 10, 999, 999, 999, 999}, rows[0].SortKey)
	assert.Equal(t, "P2", rows[0].Name)
}

func TestComputeStandingsPrizeConservation(t *testing.T) {
	lb := testLeaderboard()
	entryFee := 25
	names := []string{"Amy", "Ben", "Cal", "Dee", "Eli", "Fay", "Gus"}

	for n := 2; n <= len(names); n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			var participants []models.Participant
			for i := 0; i < n; i++ {
				participants = append(participants, participant(names[i],
					"Scheffler", "McIlroy", "Schauffele", "Morikawa", "Aberg", "Hovland"))
			}
			rows := ComputeStandings(participants, lb, entryFee)
			require.Len(t, rows, n)

			total := 0
			for _, row := range rows {
				total += row.Prize
			}
			assert.Equal(t, n*entryFee, total)
			assert.Equal(t, n*entryFee-entryFee, rows[0].Prize)
			assert.Equal(t, entryFee, rows[1].Prize)
			for _, row := range rows[2:] {
				assert.Zero(t, row.Prize)
			}
		})
	}
}

func TestComputeStandingsSoleParticipantTakesPot(t *testing.T) {
	participants := []models.Participant{
		participant("Solo", "Scheffler", "McIlroy", "Schauffele", "Morikawa", "Aberg", "Hovland"),
	}
	rows := ComputeStandings(participants, testLeaderboard(), 25)
	require.Len(t, rows, 1)
	assert.Equal(t, "1st", rows[0].Place)
	assert.Equal(t, 25, rows[0].Prize)
}

func TestComputeStandingsPlaces(t *testing.T) {
	var participants []models.Participant
	for i, name := range []string{"A", "B", "C", "D"} {
		// Staggered best picks so placement order is deterministic.
		pick := testLeaderboard()[i].Name
		participants = append(participants, participant(name,
			pick, "Nobody 1", "Nobody 2", "Nobody 3", "Nobody 4", "Nobody 5"))
	}
	rows := ComputeStandings(participants, testLeaderboard(), 10)
	require.Len(t, rows, 4)
	assert.Equal(t, "1st", rows[0].Place)
	assert.Equal(t, "2nd", rows[1].Place)
	assert.Equal(t, "3th", rows[2].Place)
	assert.Equal(t, "4th", rows[3].Place)
}

func TestComputeStandingsPicksSortedBestFirst(t *testing.T) {
	participants := []models.Participant{
		participant("P", "Woods", "Scheffler", "Nobody", "Cantlay", "McIlroy", "Spieth"),
	}
	rows := ComputeStandings(participants, testLeaderboard(), 25)
	require.Len(t, rows, 1)
	assert.Equal(t, []int{1, 2, 10, 20, 999, 999}, rows[0].SortKey)
	assert.Equal(t, "Scheffler", rows[0].Picks[0].Name)
}

func TestLessKey(t *testing.T) {
	assert.True(t, lessKey([]int{1, 10, 20, 30, 40, 50}, []int{2, 3, 4, 5, 6, 7}))
	assert.False(t, lessKey([]int{2, 3}, []int{2, 3}))
	assert.True(t, lessKey([]int{2, 3}, []int{2, 4}))
	assert.True(t, lessKey([]int{2}, []int{2, 3}))
}
