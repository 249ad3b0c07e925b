package session

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/example/quizbot/internal/mastery"
	"github.com/example/quizbot/internal/profile"
	"github.com/example/quizbot/internal/selection"
	"github.com/example/quizbot/pkg/models"
)

// Store is the storage surface the session service needs beyond what the
// classifier and tracker already wrap. database.ProgressRepository
// implements it.
type Store interface {
	GetCandidateRows(userID string, masteryThreshold int, decayWindow time.Duration) ([]models.Candidate, error)
	GetCategoryCandidates(userID, category string) ([]models.Candidate, error)
	GetByUserAndQuestion(userID, questionID string) (*models.OutcomeRecord, error)
	GetCategoryStats(userID string, masteryThreshold int) ([]models.CategoryStat, error)
}

// Options holds the tunables for session assembly
type Options struct {
	BatchSize        int
	NewRatio         float64
	MasteryThreshold int
	DecayWindow      time.Duration
	FlushThreshold   int
}

// AnswerResult reports what one answer submission did
type AnswerResult struct {
	Correct           bool
	NewStreak         int
	State             mastery.State
	CountedTowardGoal bool

	// BonusMode is true once the daily goal has been met; further
	// answers are extra practice and no longer advance the counter.
	BonusMode bool
}

// Service assembles sessions and routes answer submissions into the
// mastery tracker and the profile cache.
type Service struct {
	store      Store
	profiles   profile.ProfileStore
	tracker    *mastery.Tracker
	classifier *selection.Classifier
	opts       Options

	// Rand, when set, makes batch assembly deterministic. Nil uses a
	// time-seeded source.
	Rand *rand.Rand
}

// NewService creates the session service
func NewService(store Store, profiles profile.ProfileStore, tracker *mastery.Tracker, opts Options) *Service {
	return &Service{
		store:      store,
		profiles:   profiles,
		tracker:    tracker,
		classifier: selection.NewClassifier(store, opts.MasteryThreshold, opts.DecayWindow),
		opts:       opts,
	}
}

// StartDailySprint classifies the user's catalog and assembles a mixed
// new/review batch. Returns selection.ErrNoEligibleItems when everything
// is mastered and dormant.
func (s *Service) StartDailySprint(userID string) (*Session, error) {
	pools, err := s.classifier.ClassifyUser(userID)
	if err != nil {
		return nil, err
	}
	log.Printf("Classified pools for user %s: new=%d learning=%d review=%d",
		userID, len(pools.New), len(pools.Learning), len(pools.Review))

	batch, err := selection.Select(pools, s.opts.BatchSize, s.opts.NewRatio, s.Rand)
	if err != nil {
		return nil, err
	}

	cache := profile.NewCacheWithThreshold(s.profiles, userID, s.opts.FlushThreshold)
	return newSession(userID, ModeDailySprint, "", batch, cache), nil
}

// StartCategory assembles a weakest-first batch from a single category
func (s *Service) StartCategory(userID, category string) (*Session, error) {
	candidates, err := s.store.GetCategoryCandidates(userID, category)
	if err != nil {
		return nil, fmt.Errorf("failed to load category candidates: %v", err)
	}

	batch, err := selection.SelectByCategory(candidates, s.opts.BatchSize, s.Rand)
	if err != nil {
		return nil, err
	}

	cache := profile.NewCacheWithThreshold(s.profiles, userID, s.opts.FlushThreshold)
	return newSession(userID, ModeCategory, category, batch, cache), nil
}

// SubmitAnswer checks the selected option, records the outcome and, for
// the first attempt on this question today, counts it toward the daily
// goal. The outcome write always persists; a storage failure there
// surfaces so the caller can retry the submission.
func (s *Service) SubmitAnswer(sess *Session, question *models.Question, selected string) (*AnswerResult, error) {
	// The uniqueness check reads the record before the attempt
	// overwrites last_seen. If the read fails we skip the goal counter
	// rather than risk counting the same question twice in a day.
	firstToday := false
	prior, err := s.store.GetByUserAndQuestion(sess.UserID, question.ID)
	if err != nil {
		log.Printf("Failed to read prior outcome for question %s: %v", question.ID, err)
	} else {
		firstToday = prior == nil || !sameDay(prior.LastSeen, time.Now())
	}

	isCorrect := question.IsCorrect(selected)
	newStreak, err := s.tracker.RecordAttempt(sess.UserID, question.ID, isCorrect)
	if err != nil {
		return nil, err
	}

	result := &AnswerResult{
		Correct:   isCorrect,
		NewStreak: newStreak,
		State:     s.tracker.StateFor(newStreak, true),
	}

	if firstToday {
		if err := sess.Cache.IncrementDailyProgress(); err != nil {
			// Goal counters are lower-stakes than outcome history;
			// the answer itself already persisted
			log.Printf("Failed to count daily progress for user %s: %v", sess.UserID, err)
		} else {
			result.CountedTowardGoal = true
		}
	}

	if p, err := sess.Cache.Get(); err == nil {
		result.BonusMode = p.IsBonusMode()
	}

	return result, nil
}

// Finalize updates the login streak and flushes the profile cache. Must
// be called at session teardown or deferred profile mutations are lost.
func (s *Service) Finalize(sess *Session) error {
	p, err := sess.Cache.Get()
	if err != nil {
		return err
	}

	today := time.Now()
	newStreak := nextLoginStreak(p.StreakDays, p.LastLogin, today)

	err = sess.Cache.Mutate("streak_days", func(p *models.UserProfile) {
		p.StreakDays = newStreak
		p.LastLogin = today
	}, false)
	if err != nil {
		return err
	}

	return sess.Cache.Flush()
}

// CategoryStats returns per-category mastery for dashboard use
func (s *Service) CategoryStats(userID string) ([]models.CategoryStat, error) {
	return s.store.GetCategoryStats(userID, s.opts.MasteryThreshold)
}

// nextLoginStreak applies the day-streak rules: consecutive days extend
// the streak, a gap resets it to 1, and a same-day visit keeps it but
// never leaves it at zero.
func nextLoginStreak(current int, lastLogin, now time.Time) int {
	last := dateOnly(lastLogin)
	today := dateOnly(now)
	yesterday := today.AddDate(0, 0, -1)

	switch {
	case last.Equal(yesterday):
		return current + 1
	case last.Before(yesterday):
		return 1
	case last.Equal(today) && current == 0:
		return 1
	default:
		return current
	}
}

func sameDay(a, b time.Time) bool {
	return dateOnly(a).Equal(dateOnly(b))
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
