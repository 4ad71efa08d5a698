package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spdavis3/golf-pool/internal/services"
)

const eventFixture = `{
	"name": "Genesis Invitational",
	"date": "2026-02-19T15:00Z",
	"courses": [{"name": "Riviera Country Club"}],
	"competitions": [{
		"status": {"type": {"state": "in", "completed": false, "description": "Round 2 - In Progress"}},
		"competitors": [
			{
				"order": 2,
				"score": "-8",
				"status": "active",
				"athlete": {"displayName": "Rory McIlroy"},
				"linescores": [
					{"period": 1, "displayValue": "66", "linescores": [{"period": 1}, {"period": 18}]},
					{"period": 2, "displayValue": "-", "linescores": [{"period": 1}, {"period": 7}]}
				]
			},
			{
				"order": 1,
				"score": "-10",
				"status": "active",
				"athlete": {"displayName": "Scottie Scheffler"},
				"linescores": [
					{"period": 1, "displayValue": "64", "linescores": [{"period": 18}]}
				]
			},
			{
				"order": 0,
				"score": "+9",
				"status": "cut",
				"athlete": {"displayName": "Jordan Spieth"},
				"linescores": []
			}
		]
	}]
}`

func testESPNClient(t *testing.T, handler http.Handler) (*ESPNClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewESPNClient(services.NewMemoryCache(), logrus.New(), Options{
		Timeout:   2 * time.Second,
		RateLimit: 1000,
	})
	client.baseURL = server.URL
	client.retryAttempts = 1
	client.retryBase = time.Millisecond
	return client, server
}

func TestScoreboardParsesEventEndpoint(t *testing.T) {
	var requests int32
	client, _ := testESPNClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		assert.Equal(t, "/scoreboard/401811933", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(eventFixture))
	}))

	info, leaderboard, err := client.Scoreboard(context.Background(), "401811933")
	require.NoError(t, err)

	assert.Equal(t, "Genesis Invitational", info.Name)
	assert.Equal(t, "Riviera Country Club", info.Course)
	assert.Equal(t, "Round 2 - In Progress", info.Status)

	require.Len(t, leaderboard, 3)

	// Sorted by position; unknown order falls to the sentinel and sorts last.
	assert.Equal(t, "Scottie Scheffler", leaderboard[0].Name)
	assert.Equal(t, 1, leaderboard[0].Position)
	assert.Equal(t, "F · R1", leaderboard[0].Thru)

	assert.Equal(t, "Rory McIlroy", leaderboard[1].Name)
	assert.Equal(t, 2, leaderboard[1].Position)
	assert.Equal(t, "Thru 7 · R2", leaderboard[1].Thru)
	assert.Equal(t, []string{"66", "-"}, leaderboard[1].Linescores)

	assert.Equal(t, "Jordan Spieth", leaderboard[2].Name)
	assert.Equal(t, 999, leaderboard[2].Position)
	assert.True(t, leaderboard[2].Cut)
	assert.Equal(t, "-", leaderboard[2].Thru)
}

func TestScoreboardUsesCache(t *testing.T) {
	var requests int32
	client, _ := testESPNClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.Write([]byte(eventFixture))
	}))

	ctx := context.Background()
	_, _, err := client.Scoreboard(ctx, "401811933")
	require.NoError(t, err)
	_, _, err = client.Scoreboard(ctx, "401811933")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&requests))

	client.Invalidate(ctx, "401811933")
	_, _, err = client.Scoreboard(ctx, "401811933")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&requests))
}

func TestScoreboardHandlesEventsWrapper(t *testing.T) {
	client, _ := testESPNClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"events": [` + eventFixture + `]}`))
	}))

	info, leaderboard, err := client.Scoreboard(context.Background(), "401811933")
	require.NoError(t, err)
	assert.Equal(t, "Genesis Invitational", info.Name)
	assert.Len(t, leaderboard, 3)
}

func TestScoreboardFetchError(t *testing.T) {
	client, _ := testESPNClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, _, err := client.Scoreboard(context.Background(), "401811933")
	assert.Error(t, err)
}

func TestPlayerNames(t *testing.T) {
	client, _ := testESPNClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/scoreboard", r.URL.Path)
		assert.NotEmpty(t, r.URL.Query().Get("dates"))
		w.Write([]byte(`{"events": [{
			"competitions": [{"competitors": [
				{"athlete": {"displayName": "Tiger Woods"}},
				{"athlete": {"displayName": "Collin Morikawa"}},
				{"athlete": {"displayName": ""}}
			]}]
		}]}`))
	}))

	names, err := client.PlayerNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Collin Morikawa", "Tiger Woods"}, names)
}

func TestPlayerNamesFailSoft(t *testing.T) {
	client, _ := testESPNClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	names, err := client.PlayerNames(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, names)
}
