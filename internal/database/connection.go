package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection
var DB *sqlx.DB

// Connect establishes a connection to the database.
// DB_TYPE selects the backend: "sqlite" (default) or "postgres".
func Connect() error {
	dbType := os.Getenv("DB_TYPE")
	if dbType == "" {
		dbType = "sqlite"
	}

	var db *sqlx.DB
	var err error

	if dbType == "postgres" {
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			return fmt.Errorf("DATABASE_URL is not set for DB_TYPE=postgres")
		}
		db, err = sqlx.Connect("postgres", dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %v", err)
		}
	} else {
		dbPath := os.Getenv("DB_PATH")
		if dbPath == "" {
			// Create data directory if it doesn't exist
			dataDir := "data"
			if err := os.MkdirAll(dataDir, 0755); err != nil {
				return fmt.Errorf("failed to create data directory: %v", err)
			}
			dbPath = filepath.Join(dataDir, "quiz.db")
		}

		db, err = sqlx.Connect("sqlite3", dbPath)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %v", err)
		}

		// Enable foreign keys
		_, err = db.Exec("PRAGMA foreign_keys = ON")
		if err != nil {
			return fmt.Errorf("failed to enable foreign keys: %v", err)
		}

		// Set connection pool settings
		db.SetMaxOpenConns(1) // SQLite doesn't support multiple writers
		db.SetMaxIdleConns(1)
	}

	DB = db

	// Initialize schema
	return initializeSchema()
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema() error {
	// Create questions table. The question payload is stored as JSON so
	// presentation fields can change without schema migrations.
	_, err := DB.Exec(`
		CREATE TABLE IF NOT EXISTS questions (
			id TEXT PRIMARY KEY,
			category TEXT,
			json_data TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create questions table: %v", err)
	}

	// Create user_progress table
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS user_progress (
			user_id TEXT NOT NULL,
			question_id TEXT NOT NULL,
			is_correct BOOLEAN NOT NULL DEFAULT false,
			consecutive_correct INTEGER NOT NULL DEFAULT 0,
			last_seen TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, question_id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create user_progress table: %v", err)
	}

	// Create user_profiles table
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS user_profiles (
			user_id TEXT PRIMARY KEY,
			streak_days INTEGER NOT NULL DEFAULT 0,
			last_login DATE,
			daily_goal INTEGER NOT NULL DEFAULT 3,
			daily_progress INTEGER NOT NULL DEFAULT 0,
			last_daily_reset DATE,
			onboarded BOOLEAN NOT NULL DEFAULT false,
			language TEXT NOT NULL DEFAULT 'pl',
			metadata TEXT
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create user_profiles table: %v", err)
	}

	_, err = DB.Exec(`
		CREATE INDEX IF NOT EXISTS idx_questions_category ON questions(category)
	`)
	if err != nil {
		return fmt.Errorf("failed to create category index: %v", err)
	}

	return nil
}
