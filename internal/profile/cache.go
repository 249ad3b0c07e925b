package profile

import (
	"fmt"
	"log"
	"time"

	"github.com/example/quizbot/pkg/models"
)

// DefaultFlushThreshold is the number of non-critical changes that are
// coalesced before a write goes to storage.
const DefaultFlushThreshold = 5

// flushRetryDelay is the pause before the single flush retry
var flushRetryDelay = 250 * time.Millisecond

// ProfileStore is the durable side of the cache.
// Implemented by database.ProfileRepository.
type ProfileStore interface {
	GetOrCreate(userID string) (*models.UserProfile, error)
	Save(profile *models.UserProfile) error
}

// Cache wraps profile reads and writes for one user session. Reads hit
// storage once; non-critical writes are applied to the cached copy and
// flushed in batches, critical writes flush immediately.
//
// A Cache belongs to exactly one session and is not safe for concurrent
// use. Flush must be called at session teardown or deferred mutations
// are lost.
type Cache struct {
	store       ProfileStore
	userID      string
	profile     *models.UserProfile
	dirty       map[string]struct{}
	changeCount int
	threshold   int
}

// NewCache creates a cache for one user's session
func NewCache(store ProfileStore, userID string) *Cache {
	return &Cache{
		store:     store,
		userID:    userID,
		dirty:     make(map[string]struct{}),
		threshold: DefaultFlushThreshold,
	}
}

// NewCacheWithThreshold creates a cache with a custom batch threshold
func NewCacheWithThreshold(store ProfileStore, userID string, threshold int) *Cache {
	c := NewCache(store, userID)
	if threshold > 0 {
		c.threshold = threshold
	}
	return c
}

// Get returns the cached profile, loading it from storage on first call
func (c *Cache) Get() (*models.UserProfile, error) {
	if c.profile != nil {
		return c.profile, nil
	}
	profile, err := c.store.GetOrCreate(c.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %v", err)
	}
	c.profile = profile
	return c.profile, nil
}

// Mutate applies a change to the cached profile and marks the field
// dirty. Critical changes flush synchronously; others flush once the
// change counter reaches the batch threshold.
func (c *Cache) Mutate(field string, apply func(*models.UserProfile), critical bool) error {
	profile, err := c.Get()
	if err != nil {
		return err
	}

	apply(profile)
	c.dirty[field] = struct{}{}
	c.changeCount++

	if critical || c.changeCount >= c.threshold {
		return c.Flush()
	}
	return nil
}

// Flush writes the profile to storage if any field is dirty, then clears
// dirty tracking. A failed write is retried once before the error
// surfaces.
func (c *Cache) Flush() error {
	if len(c.dirty) == 0 {
		c.changeCount = 0
		return nil
	}

	err := c.store.Save(c.profile)
	if err != nil {
		log.Printf("Profile flush failed for user %s, retrying: %v", c.userID, err)
		time.Sleep(flushRetryDelay)
		err = c.store.Save(c.profile)
	}
	if err != nil {
		return fmt.Errorf("failed to flush profile: %v", err)
	}

	c.dirty = make(map[string]struct{})
	c.changeCount = 0
	return nil
}

// SetLanguage updates the language preference. Language changes are
// critical and flush immediately.
func (c *Cache) SetLanguage(language string) error {
	profile, err := c.Get()
	if err != nil {
		return err
	}
	if profile.Language == language {
		return nil
	}
	return c.Mutate("language", func(p *models.UserProfile) {
		p.Language = language
	}, true)
}

// CompleteOnboarding marks onboarding done and flushes immediately
func (c *Cache) CompleteOnboarding() error {
	return c.Mutate("onboarded", func(p *models.UserProfile) {
		p.Onboarded = true
	}, true)
}

// IncrementDailyProgress bumps the daily counter, rolling it over first
// when the calendar date has advanced past the last reset. The rollover
// is critical; the increment itself is batched.
//
// Callers must ensure this fires at most once per unique question per
// day; the cache does no deduplication.
func (c *Cache) IncrementDailyProgress() error {
	profile, err := c.Get()
	if err != nil {
		return err
	}

	now := time.Now()
	if dateOnly(profile.LastDailyReset).Before(dateOnly(now)) {
		err := c.Mutate("last_daily_reset", func(p *models.UserProfile) {
			p.DailyProgress = 0
			p.LastDailyReset = now
		}, true)
		if err != nil {
			return err
		}
	}

	return c.Mutate("daily_progress", func(p *models.UserProfile) {
		p.DailyProgress++
	}, false)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
