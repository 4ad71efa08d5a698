package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TournamentResult is one participant's final line in an archived tournament,
// taken verbatim from the standings at archive time.
type TournamentResult struct {
	Name  string `json:"name"`
	Place string `json:"place"`
	Prize int    `json:"prize"`
}

// HistoryRecord is the immutable archive of one finished tournament. Exactly
// one is appended per archive action; records are never updated or deleted.
type HistoryRecord struct {
	ID             uuid.UUID                             `gorm:"type:uuid;primaryKey" json:"id"`
	TournamentName string                                `gorm:"not null" json:"tournament_name"`
	Dates          string                                `json:"dates"`
	Year           int                                   `json:"year"`
	Results        datatypes.JSONSlice[TournamentResult] `json:"results"`
	CreatedAt      time.Time                             `json:"created_at"`
}

func (r *HistoryRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// CareerTotal is a participant's cumulative record across all archived
// tournaments, derived on demand and never persisted.
type CareerTotal struct {
	Name        string `json:"name"`
	Tournaments int    `json:"tournaments"`
	Wins        int    `json:"wins"`
	Seconds     int    `json:"seconds"`
	Winnings    int    `json:"winnings"`
}
