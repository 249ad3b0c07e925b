package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the tunables of the learning core
type Config struct {
	// Consecutive correct answers needed to consider a question mastered
	MasteryThreshold int
	// Time after which a mastered question re-enters rotation
	DecayWindow time.Duration
	// Share of new questions in a daily sprint batch
	NewRatio float64
	// Questions per session batch
	BatchSize int
	// Default daily goal for new profiles
	DailyGoal int
	// Non-critical profile changes coalesced before a write
	FlushThreshold int
}

// Default returns the standard game configuration
func Default() *Config {
	return &Config{
		MasteryThreshold: 3,
		DecayWindow:      3 * 24 * time.Hour,
		NewRatio:         0.6,
		BatchSize:        15,
		DailyGoal:        3,
		FlushThreshold:   5,
	}
}

// Load reads .env if present and applies environment overrides
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := Default()

	if v := envInt("MASTERY_THRESHOLD"); v > 0 {
		cfg.MasteryThreshold = v
	}
	if v := envInt("DECAY_WINDOW_DAYS"); v > 0 {
		cfg.DecayWindow = time.Duration(v) * 24 * time.Hour
	}
	if v := envFloat("NEW_RATIO"); v >= 0 && v <= 1 {
		cfg.NewRatio = v
	}
	if v := envInt("BATCH_SIZE"); v > 0 {
		cfg.BatchSize = v
	}
	if v := envInt("DAILY_GOAL"); v > 0 {
		cfg.DailyGoal = v
	}
	if v := envInt("FLUSH_THRESHOLD"); v > 0 {
		cfg.FlushThreshold = v
	}

	return cfg
}

func envInt(name string) int {
	s := os.Getenv(name)
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("Invalid value for %s: %q", name, s)
		return 0
	}
	return v
}

func envFloat(name string) float64 {
	s := os.Getenv(name)
	if s == "" {
		return -1
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		log.Printf("Invalid value for %s: %q", name, s)
		return -1
	}
	return v
}
