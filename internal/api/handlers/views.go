package handlers

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/spdavis3/golf-pool/internal/models"
	"github.com/spdavis3/golf-pool/internal/pool"
	"github.com/spdavis3/golf-pool/internal/providers"
)

type topPickView struct {
	Name    string
	PosText string
	Unique  bool
}

type standingsRowView struct {
	Place      string
	PlaceClass string
	Name       string
	TopPicks   []topPickView
	Prize      int
}

type leaderboardRowView struct {
	Position   int
	Name       string
	Pickers    string
	Score      string
	ScoreClass string
	Thru       string
	Rounds     string
}

type participantPickView struct {
	Name     string
	OWGRText string
	TournPos string
}

type participantCardView struct {
	Name        string
	EncodedName string
	Picks       []participantPickView
}

// scoreboardOrFallback fetches the live scoreboard, degrading to the
// configured tournament metadata with an empty leaderboard when the feed is
// unreachable.
func scoreboardOrFallback(ctx context.Context, espn *providers.ESPNClient, settings models.TournamentSettings, logger *logrus.Logger) (models.TournamentInfo, []models.LeaderboardEntry) {
	info, leaderboard, err := espn.Scoreboard(ctx, settings.ESPNEventID)
	if err != nil {
		logger.WithError(err).Warn("Scoreboard unavailable")
		return models.TournamentInfo{
			Name:   settings.Name,
			Status: "Unable to fetch live data",
			Course: settings.Course,
		}, nil
	}
	if info.Name == "" {
		info.Name = settings.Name
	}
	if info.Course == "" {
		info.Course = settings.Course
	}
	return info, leaderboard
}

func positionText(position int) string {
	if position < models.UnresolvedPosition {
		return fmt.Sprintf("T%d", position)
	}
	return "-"
}

func scoreClass(score string) string {
	switch {
	case strings.HasPrefix(score, "-"):
		return "score-under"
	case strings.HasPrefix(score, "+"):
		return "score-over"
	default:
		return "score-even"
	}
}

func buildStandingsView(standings []pool.StandingsRow) []standingsRowView {
	rows := make([]standingsRowView, 0, len(standings))
	for _, s := range standings {
		placeClass := ""
		switch s.Place {
		case "1st":
			placeClass = "place-1"
		case "2nd":
			placeClass = "place-2"
		}
		picks := s.Picks
		if len(picks) > 3 {
			picks = picks[:3]
		}
		top := make([]topPickView, 0, len(picks))
		for _, p := range picks {
			top = append(top, topPickView{Name: p.Name, PosText: positionText(p.Position), Unique: p.Unique})
		}
		rows = append(rows, standingsRowView{
			Place:      s.Place,
			PlaceClass: placeClass,
			Name:       s.Name,
			TopPicks:   top,
			Prize:      s.Prize,
		})
	}
	return rows
}

// buildLeaderboardView filters the live leaderboard down to golfers somebody
// picked, annotating each row with who picked them.
func buildLeaderboardView(leaderboard []models.LeaderboardEntry, participants []models.Participant) []leaderboardRowView {
	type pickedBy struct {
		pick  string
		names []string
	}
	var picked []pickedBy
	index := make(map[string]int)
	for _, p := range participants {
		for _, pick := range p.Picks {
			key := strings.ToLower(strings.TrimSpace(pick))
			if i, ok := index[key]; ok {
				picked[i].names = append(picked[i].names, p.Name)
			} else {
				index[key] = len(picked)
				picked = append(picked, pickedBy{pick: key, names: []string{p.Name}})
			}
		}
	}

	var rows []leaderboardRowView
	for _, entry := range leaderboard {
		nameLower := strings.ToLower(entry.Name)
		var pickers []string
		for _, pb := range picked {
			if strings.Contains(nameLower, pb.pick) || strings.Contains(pb.pick, nameLower) {
				pickers = append(pickers, pb.names...)
			}
		}
		if len(pickers) == 0 {
			continue
		}

		rounds := "-"
		if len(entry.Linescores) > 0 {
			scores := entry.Linescores
			if len(scores) > 4 {
				scores = scores[:4]
			}
			rounds = strings.Join(scores, " / ")
		}

		rows = append(rows, leaderboardRowView{
			Position:   entry.Position,
			Name:       entry.Name,
			Pickers:    strings.Join(pickers, ", "),
			Score:      entry.Score,
			ScoreClass: scoreClass(entry.Score),
			Thru:       entry.Thru,
			Rounds:     rounds,
		})
	}
	return rows
}

// buildParticipantCards annotates every participant's picks with world
// ranking and live position, best-ranked first.
func buildParticipantCards(participants []models.Participant, leaderboard []models.LeaderboardEntry, rankings *pool.Rankings) []participantCardView {
	cards := make([]participantCardView, 0, len(participants))
	for _, p := range participants {
		type rankedPick struct {
			view participantPickView
			rank int
		}
		ranked := make([]rankedPick, 0, len(p.Picks))
		for _, pick := range p.Picks {
			rank, found := rankings.Rank(pick)
			owgrText := "NR"
			if found {
				owgrText = fmt.Sprintf("#%d", rank)
			}
			tournPos := "-"
			if position, _ := pool.Resolve(pick, leaderboard); position < models.UnresolvedPosition {
				tournPos = fmt.Sprintf("T%d", position)
			}
			ranked = append(ranked, rankedPick{
				view: participantPickView{Name: pick, OWGRText: owgrText, TournPos: tournPos},
				rank: rank,
			})
		}
		sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].rank < ranked[j].rank })

		picks := make([]participantPickView, 0, len(ranked))
		for _, rp := range ranked {
			picks = append(picks, rp.view)
		}
		cards = append(cards, participantCardView{
			Name:        p.Name,
			EncodedName: url.PathEscape(p.Name),
			Picks:       picks,
		})
	}
	return cards
}

func buildDashboardView(settings models.TournamentSettings, info models.TournamentInfo, leaderboard []models.LeaderboardEntry, state models.PoolState, standings []pool.StandingsRow, rankings *pool.Rankings, isAdmin bool) gin.H {
	return gin.H{
		"Tournament":   info,
		"Dates":        settings.Dates,
		"Participants": len(state.Participants),
		"Pot":          len(state.Participants) * settings.EntryFee,
		"Locked":       state.Locked,
		"IsAdmin":      isAdmin,
		"UpdatedAt":    time.Now().Format("January 2, 2006 at 3:04 PM"),
		"Standings":    buildStandingsView(standings),
		"Leaderboard":  buildLeaderboardView(leaderboard, state.Participants),
		"HasField":     len(leaderboard) > 0,
		"Cards":        buildParticipantCards(state.Participants, leaderboard, rankings),
	}
}
