package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/spdavis3/golf-pool/internal/models"
	"github.com/spdavis3/golf-pool/internal/pool"
	"github.com/spdavis3/golf-pool/pkg/database"
)

var (
	// ErrNameTaken is returned when a new entry reuses an existing
	// participant name (compared case-insensitively).
	ErrNameTaken = errors.New("participant name already taken")

	// ErrParticipantNotFound is returned by edit and delete for names with
	// no matching entry.
	ErrParticipantNotFound = errors.New("participant not found")

	// ErrNothingToArchive is returned when archiving with no standings.
	ErrNothingToArchive = errors.New("no standings to archive")
)

// PoolStore owns the persisted pool state: tournament settings, participants,
// and the archived history ledger. All writes are serialized behind a single
// mutex since the HTTP layer admits concurrent requests.
type PoolStore struct {
	db     *database.DB
	logger *logrus.Logger
	mu     sync.Mutex
}

// NewPoolStore migrates the schema and seeds the tournament settings row from
// the given defaults when the table is empty.
func NewPoolStore(db *database.DB, defaults models.TournamentSettings, logger *logrus.Logger) (*PoolStore, error) {
	if err := db.AutoMigrate(&models.TournamentSettings{}, &models.Participant{}, &models.HistoryRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate pool schema: %w", err)
	}

	s := &PoolStore{db: db, logger: logger}

	var count int64
	if err := db.Model(&models.TournamentSettings{}).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check settings: %w", err)
	}
	if count == 0 {
		if err := db.Create(&defaults).Error; err != nil {
			return nil, fmt.Errorf("failed to seed settings: %w", err)
		}
		logger.WithField("tournament", defaults.Name).Info("Seeded tournament settings")
	}

	return s, nil
}

// Settings returns the singleton tournament configuration row.
func (s *PoolStore) Settings() (models.TournamentSettings, error) {
	var settings models.TournamentSettings
	if err := s.db.Order("id").First(&settings).Error; err != nil {
		return settings, fmt.Errorf("failed to load settings: %w", err)
	}
	return settings, nil
}

// UpdateSettings applies admin edits to the tournament metadata. The locked
// flag is managed separately by SetLocked.
func (s *PoolStore) UpdateSettings(updated models.TournamentSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.Settings()
	if err != nil {
		return err
	}
	settings.Name = updated.Name
	settings.Dates = updated.Dates
	settings.Course = updated.Course
	settings.ESPNEventID = updated.ESPNEventID
	settings.Year = updated.Year
	settings.EntryFee = updated.EntryFee
	if err := s.db.Save(&settings).Error; err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	return nil
}

// State assembles the live pool snapshot handed to the scoring core.
func (s *PoolStore) State() (models.PoolState, error) {
	settings, err := s.Settings()
	if err != nil {
		return models.PoolState{}, err
	}
	participants, err := s.Participants()
	if err != nil {
		return models.PoolState{}, err
	}
	return models.PoolState{
		EntryFee:     settings.EntryFee,
		Locked:       settings.Locked,
		Participants: participants,
	}, nil
}

// Participants returns all entries in submission order.
func (s *PoolStore) Participants() ([]models.Participant, error) {
	var participants []models.Participant
	if err := s.db.Order("id").Find(&participants).Error; err != nil {
		return nil, fmt.Errorf("failed to load participants: %w", err)
	}
	return participants, nil
}

// Participant looks an entry up by name, case-insensitively.
func (s *PoolStore) Participant(name string) (models.Participant, error) {
	var participant models.Participant
	err := s.db.Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).First(&participant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return participant, ErrParticipantNotFound
	}
	if err != nil {
		return participant, fmt.Errorf("failed to load participant: %w", err)
	}
	return participant, nil
}

// CreateParticipant adds a new entry. Name uniqueness is enforced
// case-insensitively here, at creation time only.
func (s *PoolStore) CreateParticipant(name string, picks []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.Participant(name); err == nil {
		return ErrNameTaken
	} else if !errors.Is(err, ErrParticipantNotFound) {
		return err
	}

	participant := models.Participant{Name: name, Picks: picks}
	if err := s.db.Create(&participant).Error; err != nil {
		return fmt.Errorf("failed to create participant: %w", err)
	}
	s.logger.WithField("name", name).Info("Participant entered picks")
	return nil
}

// UpdatePicks replaces an existing entry's pick list in place.
func (s *PoolStore) UpdatePicks(name string, picks []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	participant, err := s.Participant(name)
	if err != nil {
		return err
	}
	participant.Picks = picks
	if err := s.db.Save(&participant).Error; err != nil {
		return fmt.Errorf("failed to update picks: %w", err)
	}
	s.logger.WithField("name", participant.Name).Info("Participant edited picks")
	return nil
}

// DeleteParticipant removes an entry by name, case-insensitively.
func (s *PoolStore) DeleteParticipant(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	participant, err := s.Participant(name)
	if err != nil {
		return err
	}
	if err := s.db.Delete(&participant).Error; err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}
	s.logger.WithField("name", participant.Name).Info("Participant removed")
	return nil
}

// SetLocked gates entry, edit, and delete operations.
func (s *PoolStore) SetLocked(locked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.Settings()
	if err != nil {
		return err
	}
	settings.Locked = locked
	if err := s.db.Save(&settings).Error; err != nil {
		return fmt.Errorf("failed to set lock: %w", err)
	}
	s.logger.WithField("locked", locked).Info("Entry lock changed")
	return nil
}

// Locked reports whether entries are currently locked.
func (s *PoolStore) Locked() (bool, error) {
	settings, err := s.Settings()
	if err != nil {
		return false, err
	}
	return settings.Locked, nil
}

// Archive records the finished tournament's standings as one immutable
// history record, then resets the live pool: participants cleared, entries
// unlocked. One-way; runs in a single transaction.
func (s *PoolStore) Archive(standings []pool.StandingsRow) (models.HistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(standings) == 0 {
		return models.HistoryRecord{}, ErrNothingToArchive
	}

	settings, err := s.Settings()
	if err != nil {
		return models.HistoryRecord{}, err
	}

	results := make([]models.TournamentResult, 0, len(standings))
	for _, row := range standings {
		results = append(results, models.TournamentResult{
			Name:  row.Name,
			Place: row.Place,
			Prize: row.Prize,
		})
	}

	record := models.HistoryRecord{
		TournamentName: settings.Name,
		Dates:          settings.Dates,
		Year:           settings.Year,
		Results:        results,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to create history record: %w", err)
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Participant{}).Error; err != nil {
			return fmt.Errorf("failed to clear participants: %w", err)
		}
		settings.Locked = false
		if err := tx.Save(&settings).Error; err != nil {
			return fmt.Errorf("failed to unlock pool: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.HistoryRecord{}, err
	}

	s.logger.WithFields(logrus.Fields{
		"tournament": record.TournamentName,
		"results":    len(record.Results),
	}).Info("Tournament archived")
	return record, nil
}

// History returns all archived tournaments, oldest first.
func (s *PoolStore) History() ([]models.HistoryRecord, error) {
	var records []models.HistoryRecord
	if err := s.db.Order("created_at").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return records, nil
}
