package models

// UnresolvedPosition is the sentinel position for golfers who are cut,
// withdrawn, or not found on the leaderboard. It sorts after every real
// position.
const UnresolvedPosition = 999

// LeaderboardEntry is one golfer's line on the live leaderboard. The slice is
// rebuilt from scratch on every feed fetch and never persisted.
type LeaderboardEntry struct {
	Name       string   `json:"name"`
	Position   int      `json:"position"`
	Score      string   `json:"score"`
	Cut        bool     `json:"cut"`
	Thru       string   `json:"thru"`
	Linescores []string `json:"linescores"`
}

// TournamentInfo is the live event header from the scoreboard feed. When the
// feed is unreachable it degrades to the configured tournament metadata.
type TournamentInfo struct {
	Name   string `json:"name"`
	Date   string `json:"date"`
	Status string `json:"status"`
	Course string `json:"course"`
}
