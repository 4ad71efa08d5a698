package models

import (
	"time"

	"gorm.io/datatypes"
)

// Participant is one pool entry: a person and their six golfer picks.
// Names are unique case-insensitively; the store enforces this at creation.
type Participant struct {
	ID        uint                        `gorm:"primaryKey" json:"-"`
	Name      string                      `gorm:"not null;uniqueIndex" json:"name"`
	Picks     datatypes.JSONSlice[string] `json:"picks"`
	CreatedAt time.Time                   `json:"-"`
	UpdatedAt time.Time                   `json:"-"`
}

// TournamentSettings is the singleton tournament configuration row. It is
// seeded from the process config on first run and editable by the admin.
type TournamentSettings struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	Name        string    `gorm:"not null" json:"name"`
	Dates       string    `json:"dates"`
	Course      string    `json:"course"`
	ESPNEventID string    `json:"espn_event_id"`
	Year        int       `json:"year"`
	EntryFee    int       `json:"entry_fee"`
	Locked      bool      `gorm:"default:false" json:"locked"`
	UpdatedAt   time.Time `json:"-"`
}

// PoolState is the snapshot of the live pool handed to the scoring core and
// served on /api/picks.
type PoolState struct {
	EntryFee     int           `json:"entry_fee"`
	Locked       bool          `json:"locked"`
	Participants []Participant `json:"participants"`
}
