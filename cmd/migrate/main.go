package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/spdavis3/golf-pool/internal/models"
	"github.com/spdavis3/golf-pool/pkg/config"
	"github.com/spdavis3/golf-pool/pkg/database"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate [up|down|seed]")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	command := os.Args[1]

	switch command {
	case "up":
		if err := runMigrations(db, cfg); err != nil {
			logrus.Fatalf("Failed to run migrations: %v", err)
		}
		logrus.Info("Migrations completed successfully")

	case "down":
		if err := dropTables(db); err != nil {
			logrus.Fatalf("Failed to drop tables: %v", err)
		}
		logrus.Info("Tables dropped successfully")

	case "seed":
		if err := seedData(db, cfg); err != nil {
			logrus.Fatalf("Failed to seed data: %v", err)
		}
		logrus.Info("Data seeded successfully")

	default:
		log.Fatalf("Unknown command: %s", command)
	}
}

func runMigrations(db *database.DB, cfg *config.Config) error {
	// Enable UUID extension for PostgreSQL
	if strings.HasPrefix(cfg.DatabaseURL, "postgres://") || strings.HasPrefix(cfg.DatabaseURL, "postgresql://") {
		if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
			return fmt.Errorf("failed to create UUID extension: %w", err)
		}
	}

	if err := db.AutoMigrate(
		&models.TournamentSettings{},
		&models.Participant{},
		&models.HistoryRecord{},
	); err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_history_records_created_at ON history_records(created_at)",
		"CREATE INDEX IF NOT EXISTS idx_history_records_year ON history_records(year)",
	}
	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

func dropTables(db *database.DB) error {
	tables := []string{
		"history_records",
		"participants",
		"tournament_settings",
	}

	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", table)).Error; err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}

	return nil
}

func seedData(db *database.DB, cfg *config.Config) error {
	var count int64
	if err := db.Model(&models.TournamentSettings{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check settings: %w", err)
	}
	if count == 0 {
		settings := &models.TournamentSettings{
			Name:        cfg.TournamentName,
			Dates:       cfg.TournamentDates,
			Course:      cfg.TournamentCourse,
			ESPNEventID: cfg.ESPNEventID,
			Year:        cfg.TournamentYear,
			EntryFee:    cfg.EntryFee,
		}
		if err := db.Create(settings).Error; err != nil {
			return fmt.Errorf("failed to seed settings: %w", err)
		}
		logrus.Infof("Seeded settings for %s", settings.Name)
	}

	// Sample entries for a local demo pool
	sampleParticipants := []models.Participant{
		{Name: "Demo Amy", Picks: datatypes.NewJSONSlice([]string{
			"Scottie Scheffler", "Rory McIlroy", "Collin Morikawa",
			"Ludvig Aberg", "Xander Schauffele", "Viktor Hovland",
		})},
		{Name: "Demo Ben", Picks: datatypes.NewJSONSlice([]string{
			"Jon Rahm", "Justin Thomas", "Jordan Spieth",
			"Patrick Cantlay", "Max Homa", "Tommy Fleetwood",
		})},
	}

	if err := db.Create(&sampleParticipants).Error; err != nil {
		logrus.Warnf("Failed to seed participants (may already exist): %v", err)
	} else {
		logrus.Infof("Seeded %d demo participants", len(sampleParticipants))
	}

	return nil
}
