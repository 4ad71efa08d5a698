package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Server
	Port string `mapstructure:"PORT"`
	Env  string `mapstructure:"ENV"`

	// Database: a sqlite file path by default, or a postgres:// URL
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Redis cache (optional; in-process TTL cache when empty)
	RedisURL string `mapstructure:"REDIS_URL"`

	// Admin access
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`
	SessionSecret string `mapstructure:"SESSION_SECRET"`

	// Tournament seed values, used until the admin edits them in the app
	TournamentName   string `mapstructure:"TOURNAMENT_NAME"`
	TournamentDates  string `mapstructure:"TOURNAMENT_DATES"`
	TournamentCourse string `mapstructure:"TOURNAMENT_COURSE"`
	TournamentYear   int    `mapstructure:"TOURNAMENT_YEAR"`
	ESPNEventID      string `mapstructure:"ESPN_EVENT_ID"`
	EntryFee         int    `mapstructure:"ENTRY_FEE"`

	// External feeds
	RefreshInterval         time.Duration `mapstructure:"REFRESH_INTERVAL"`
	RankingsTTL             time.Duration `mapstructure:"RANKINGS_TTL"`
	ExternalAPITimeout      time.Duration `mapstructure:"EXTERNAL_API_TIMEOUT"`
	ESPNRateLimit           int           `mapstructure:"ESPN_RATE_LIMIT"`
	CircuitBreakerThreshold int           `mapstructure:"CIRCUIT_BREAKER_THRESHOLD"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")

	viper.SetDefault("PORT", "8051")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("DATABASE_URL", "golfpool.db")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("ADMIN_PASSWORD", "changeme")
	viper.SetDefault("SESSION_SECRET", "golf-pool-session-secret")
	viper.SetDefault("TOURNAMENT_NAME", "Genesis Invitational")
	viper.SetDefault("TOURNAMENT_DATES", "Feb 19–22, 2026")
	viper.SetDefault("TOURNAMENT_COURSE", "Riviera Country Club")
	viper.SetDefault("TOURNAMENT_YEAR", 2026)
	viper.SetDefault("ESPN_EVENT_ID", "401811933")
	viper.SetDefault("ENTRY_FEE", 25)
	viper.SetDefault("REFRESH_INTERVAL", "5m")
	viper.SetDefault("RANKINGS_TTL", "6h")
	viper.SetDefault("EXTERNAL_API_TIMEOUT", "10s")
	viper.SetDefault("ESPN_RATE_LIMIT", 1) // requests per second
	viper.SetDefault("CIRCUIT_BREAKER_THRESHOLD", 5)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
