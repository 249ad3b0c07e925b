package maintenance

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/quizbot/internal/database"
)

// Default notification window (hours of day)
const (
	DefaultNotificationStartHour = 8
	DefaultNotificationEndHour   = 22
)

// Notifier delivers review reminders; the presentation layer implements it
type Notifier interface {
	SendReviewReminder(userID string, dueCount int) error
}

// Sweeper periodically checks which users have questions due for review
// and notifies them. It runs outside the request path and never touches
// session state.
type Sweeper struct {
	scheduler        *gocron.Scheduler
	notifier         Notifier
	masteryThreshold int
	decayWindow      time.Duration
}

// New creates a sweeper instance
func New(notifier Notifier, masteryThreshold int, decayWindow time.Duration) *Sweeper {
	s := gocron.NewScheduler(time.UTC)
	return &Sweeper{
		scheduler:        s,
		notifier:         notifier,
		masteryThreshold: masteryThreshold,
		decayWindow:      decayWindow,
	}
}

// Start begins the hourly reminder sweep
func (s *Sweeper) Start() {
	s.scheduler.Every(1).Hour().Do(s.checkAndSendReminders)
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Sweeper) Stop() {
	s.scheduler.Stop()
}

// checkAndSendReminders finds users with due reviews and notifies them
func (s *Sweeper) checkAndSendReminders() {
	currentHour := time.Now().Hour()

	startHour := DefaultNotificationStartHour
	endHour := DefaultNotificationEndHour

	if startHourStr := os.Getenv("NOTIFICATION_START_HOUR"); startHourStr != "" {
		if h, err := strconv.Atoi(startHourStr); err == nil && h >= 0 && h <= 23 {
			startHour = h
		}
	}
	if endHourStr := os.Getenv("NOTIFICATION_END_HOUR"); endHourStr != "" {
		if h, err := strconv.Atoi(endHourStr); err == nil && h >= 0 && h <= 23 {
			endHour = h
		}
	}

	if currentHour < startHour || currentHour > endHour {
		log.Printf("Current hour %d is outside notification hours (%d-%d), skipping reminders",
			currentHour, startHour, endHour)
		return
	}

	profileRepo := database.NewProfileRepository()
	progressRepo := database.NewProgressRepository()

	userIDs, err := profileRepo.GetAllUserIDs()
	if err != nil {
		log.Printf("Error getting users for reminders: %v", err)
		return
	}

	cutoff := time.Now().UTC().Add(-s.decayWindow)
	for _, userID := range userIDs {
		dueCount, err := progressRepo.DueReviewCount(userID, s.masteryThreshold, cutoff)
		if err != nil {
			log.Printf("Error counting due reviews for user %s: %v", userID, err)
			continue
		}

		if dueCount > 0 {
			if err := s.notifier.SendReviewReminder(userID, dueCount); err != nil {
				log.Printf("Error sending reminder to user %s: %v", userID, err)
			}
		}
	}
}

// RunManualCheck forces a reminder check for a specific user
func (s *Sweeper) RunManualCheck(userID string) error {
	progressRepo := database.NewProgressRepository()

	cutoff := time.Now().UTC().Add(-s.decayWindow)
	dueCount, err := progressRepo.DueReviewCount(userID, s.masteryThreshold, cutoff)
	if err != nil {
		return err
	}

	if dueCount > 0 {
		return s.notifier.SendReviewReminder(userID, dueCount)
	}
	return nil
}
