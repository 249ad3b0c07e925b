package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/quizbot/internal/config"
	"github.com/example/quizbot/internal/database"
	"github.com/example/quizbot/internal/excel"
	"github.com/example/quizbot/internal/maintenance"
)

// logNotifier stands in for the presentation layer's reminder channel
type logNotifier struct{}

func (logNotifier) SendReviewReminder(userID string, dueCount int) error {
	log.Printf("User %s has %d questions due for review", userID, dueCount)
	return nil
}

func main() {
	importFile := flag.String("import", "", "Import questions from an Excel, CSV or JSON file and exit")
	seedFile := flag.String("seed", "data/seed_questions.json", "Seed file used when the catalog is empty")
	flag.Parse()

	cfg := config.Load()

	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if *importFile != "" {
		importConfig := excel.DefaultImportConfig()
		importConfig.FilePath = *importFile

		result, err := excel.ImportQuestions(importConfig)
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		log.Printf("Import finished: %d processed, %d imported, %d skipped",
			result.TotalProcessed, result.Imported, result.Skipped)
		for _, e := range result.Errors {
			log.Printf("Import error: %s", e)
		}
		return
	}

	// Seed the catalog on first run
	if _, err := os.Stat(*seedFile); err == nil {
		result, err := excel.SeedIfEmpty(*seedFile)
		if err != nil {
			log.Printf("Seeding failed: %v", err)
		} else if result.Imported > 0 {
			log.Printf("Seeded %d questions from %s", result.Imported, *seedFile)
		}
	}

	questionRepo := database.NewQuestionRepository()
	if categories, err := questionRepo.Categories(); err != nil {
		log.Printf("Failed to read catalog categories: %v", err)
	} else {
		log.Printf("Question catalog ready: %d categories", len(categories))
	}

	// Start the review-reminder sweep
	sweeper := maintenance.New(logNotifier{}, cfg.MasteryThreshold, cfg.DecayWindow)
	sweeper.Start()
	defer sweeper.Stop()

	log.Println("Quiz core started. Press Ctrl+C to stop.")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	log.Printf("Received signal: %v, shutting down", sig)
}
