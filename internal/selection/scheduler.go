package selection

import (
	"errors"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/example/quizbot/pkg/models"
)

// ErrNoEligibleItems reports that every question is currently mastered
// and dormant. Callers branch on it for "all done" messaging; it is not
// a storage failure.
var ErrNoEligibleItems = errors.New("no eligible questions to schedule")

// Select assembles a session batch from the classified pools.
//
// The batch targets round(batchSize*newRatio) new questions, with the
// remainder drawn from learning and review combined. If one side cannot
// meet its target the shortfall is backfilled from the other; dormant
// questions are never pulled in. The result is at most batchSize long
// and shorter only when the pools combined are smaller.
func Select(pools Pools, batchSize int, newRatio float64, rng *rand.Rand) ([]models.Question, error) {
	if batchSize <= 0 {
		return []models.Question{}, nil
	}

	newPool := append([]models.Candidate(nil), pools.New...)
	otherPool := append([]models.Candidate(nil), pools.Learning...)
	otherPool = append(otherPool, pools.Review...)

	if len(newPool) == 0 && len(otherPool) == 0 {
		return nil, ErrNoEligibleItems
	}

	targetNew := int(math.Round(float64(batchSize) * newRatio))
	if targetNew < 0 {
		targetNew = 0
	}
	if targetNew > batchSize {
		targetNew = batchSize
	}
	targetOther := batchSize - targetNew

	rng = ensureRand(rng)
	shuffle(newPool, rng)
	shuffle(otherPool, rng)

	selected := make([]models.Candidate, 0, batchSize)
	selected = append(selected, take(otherPool, 0, targetOther)...)
	selected = append(selected, take(newPool, 0, targetNew)...)

	// Backfill shortfalls from whichever pool still has questions left
	if len(selected) < batchSize {
		selected = append(selected, take(otherPool, targetOther, batchSize-len(selected))...)
	}
	if len(selected) < batchSize {
		selected = append(selected, take(newPool, targetNew, batchSize-len(selected))...)
	}

	// One more shuffle so construction order leaves no positional bias
	shuffle(selected, rng)

	batch := make([]models.Question, len(selected))
	for i, c := range selected {
		batch[i] = c.Question
	}
	return batch, nil
}

// SelectByCategory orders a single category's candidates weakest first
// (ascending streak, random tie-break) and truncates to batchSize. There
// is no new/review split and no backfill; the pool is taken as given.
func SelectByCategory(candidates []models.Candidate, batchSize int, rng *rand.Rand) ([]models.Question, error) {
	if batchSize <= 0 {
		return []models.Question{}, nil
	}
	if len(candidates) == 0 {
		return nil, ErrNoEligibleItems
	}

	pool := append([]models.Candidate(nil), candidates...)

	// Shuffle first, then a stable sort on streak keeps the shuffled
	// order within each streak value
	shuffle(pool, ensureRand(rng))
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].Streak < pool[j].Streak
	})

	if len(pool) > batchSize {
		pool = pool[:batchSize]
	}

	batch := make([]models.Question, len(pool))
	for i, c := range pool {
		batch[i] = c.Question
	}
	return batch, nil
}

func ensureRand(rng *rand.Rand) *rand.Rand {
	if rng != nil {
		return rng
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func shuffle(pool []models.Candidate, rng *rand.Rand) {
	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
}

func take(pool []models.Candidate, offset, n int) []models.Candidate {
	if n <= 0 || offset >= len(pool) {
		return nil
	}
	end := offset + n
	if end > len(pool) {
		end = len(pool)
	}
	return pool[offset:end]
}
