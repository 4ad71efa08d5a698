package services

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spdavis3/golf-pool/internal/models"
	"github.com/spdavis3/golf-pool/internal/pool"
	"github.com/spdavis3/golf-pool/pkg/database"
)

func testStore(t *testing.T) *PoolStore {
	t.Helper()

	db, err := database.NewConnection(":memory:", false)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := NewPoolStore(db, models.TournamentSettings{
		Name:        "Genesis Invitational",
		Dates:       "Feb 19–22, 2026",
		Course:      "Riviera Country Club",
		ESPNEventID: "401811933",
		Year:        2026,
		EntryFee:    25,
	}, logrus.New())
	require.NoError(t, err)
	return store
}

var sixPicks = []string{"Scheffler", "McIlroy", "Schauffele", "Morikawa", "Aberg", "Hovland"}

func TestPoolStoreSeedsSettingsOnce(t *testing.T) {
	store := testStore(t)

	settings, err := store.Settings()
	require.NoError(t, err)
	assert.Equal(t, "Genesis Invitational", settings.Name)
	assert.Equal(t, 25, settings.EntryFee)
	assert.False(t, settings.Locked)
}

func TestPoolStoreCreateParticipant(t *testing.T) {
	store := testStore(t)

	require.NoError(t, store.CreateParticipant("Amy", sixPicks))

	state, err := store.State()
	require.NoError(t, err)
	require.Len(t, state.Participants, 1)
	assert.Equal(t, "Amy", state.Participants[0].Name)
	assert.Equal(t, sixPicks, []string(state.Participants[0].Picks))
}

func TestPoolStoreDuplicateNameCaseInsensitive(t *testing.T) {
	store := testStore(t)

	require.NoError(t, store.CreateParticipant("Amy", sixPicks))
	err := store.CreateParticipant("  AMY ", sixPicks)
	assert.ErrorIs(t, err, ErrNameTaken)
}

func TestPoolStoreUpdatePicks(t *testing.T) {
	store := testStore(t)
	require.NoError(t, store.CreateParticipant("Amy", sixPicks))

	newPicks := []string{"Woods", "Spieth", "Thomas", "Cantlay", "Rahm", "Koepka"}
	require.NoError(t, store.UpdatePicks("amy", newPicks))

	participant, err := store.Participant("Amy")
	require.NoError(t, err)
	assert.Equal(t, newPicks, []string(participant.Picks))
}

func TestPoolStoreUpdateUnknownParticipant(t *testing.T) {
	store := testStore(t)
	err := store.UpdatePicks("Nobody", sixPicks)
	assert.ErrorIs(t, err, ErrParticipantNotFound)
}

func TestPoolStoreDeleteParticipant(t *testing.T) {
	store := testStore(t)
	require.NoError(t, store.CreateParticipant("Amy", sixPicks))
	require.NoError(t, store.CreateParticipant("Ben", sixPicks))

	require.NoError(t, store.DeleteParticipant("AMY"))

	participants, err := store.Participants()
	require.NoError(t, err)
	require.Len(t, participants, 1)
	assert.Equal(t, "Ben", participants[0].Name)

	assert.ErrorIs(t, store.DeleteParticipant("Amy"), ErrParticipantNotFound)
}

func TestPoolStoreLocking(t *testing.T) {
	store := testStore(t)

	locked, err := store.Locked()
	require.NoError(t, err)
	assert.False(t, locked)

	require.NoError(t, store.SetLocked(true))
	locked, err = store.Locked()
	require.NoError(t, err)
	assert.True(t, locked)
}

func TestPoolStoreUpdateSettingsKeepsLock(t *testing.T) {
	store := testStore(t)
	require.NoError(t, store.SetLocked(true))

	require.NoError(t, store.UpdateSettings(models.TournamentSettings{
		Name:        "The Masters",
		Dates:       "Apr 9–12, 2026",
		Course:      "Augusta National",
		ESPNEventID: "401812000",
		Year:        2026,
		EntryFee:    50,
	}))

	settings, err := store.Settings()
	require.NoError(t, err)
	assert.Equal(t, "The Masters", settings.Name)
	assert.Equal(t, 50, settings.EntryFee)
	assert.True(t, settings.Locked)
}

func TestPoolStoreArchive(t *testing.T) {
	store := testStore(t)
	require.NoError(t, store.CreateParticipant("Amy", sixPicks))
	require.NoError(t, store.CreateParticipant("Ben", sixPicks))
	require.NoError(t, store.SetLocked(true))

	standings := []pool.StandingsRow{
		{Name: "Amy", Place: "1st", Prize: 25},
		{Name: "Ben", Place: "2nd", Prize: 25},
	}

	record, err := store.Archive(standings)
	require.NoError(t, err)
	assert.Equal(t, "Genesis Invitational", record.TournamentName)
	assert.Equal(t, 2026, record.Year)
	require.Len(t, record.Results, 2)
	assert.Equal(t, models.TournamentResult{Name: "Amy", Place: "1st", Prize: 25}, record.Results[0])

	// Live pool reset: no participants, unlocked.
	state, err := store.State()
	require.NoError(t, err)
	assert.Empty(t, state.Participants)
	assert.False(t, state.Locked)

	history, err := store.History()
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, record.ID, history[0].ID)
}

func TestPoolStoreArchiveRequiresStandings(t *testing.T) {
	store := testStore(t)
	_, err := store.Archive(nil)
	assert.ErrorIs(t, err, ErrNothingToArchive)
}
