package selection

import (
	"fmt"
	"time"

	"github.com/example/quizbot/pkg/models"
)

// CandidateSource provides the eligible rows for classification.
// Implemented by database.ProgressRepository.
type CandidateSource interface {
	GetCandidateRows(userID string, masteryThreshold int, decayWindow time.Duration) ([]models.Candidate, error)
}

// Pools holds the disjoint eligibility partitions for one user.
// A question appears in at most one pool; mastered questions still inside
// the decay window appear in none.
type Pools struct {
	New      []models.Candidate // Never attempted
	Learning []models.Candidate // Attempted, streak below the mastery threshold
	Review   []models.Candidate // Mastered, but decayed back into rotation
}

// Total returns the combined size of all three pools
func (p Pools) Total() int {
	return len(p.New) + len(p.Learning) + len(p.Review)
}

// Classifier partitions a user's question catalog by mastery state
type Classifier struct {
	source           CandidateSource
	MasteryThreshold int
	DecayWindow      time.Duration
}

// NewClassifier creates a classifier over the given candidate source
func NewClassifier(source CandidateSource, masteryThreshold int, decayWindow time.Duration) *Classifier {
	return &Classifier{
		source:           source,
		MasteryThreshold: masteryThreshold,
		DecayWindow:      decayWindow,
	}
}

// ClassifyUser fetches the user's candidate rows and partitions them.
// An empty catalog yields three empty pools, not an error.
func (c *Classifier) ClassifyUser(userID string) (Pools, error) {
	rows, err := c.source.GetCandidateRows(userID, c.MasteryThreshold, c.DecayWindow)
	if err != nil {
		return Pools{}, fmt.Errorf("failed to classify questions: %v", err)
	}
	return Classify(rows, c.MasteryThreshold, c.DecayWindow, time.Now()), nil
}

// Classify partitions candidates into New, Learning and Review pools.
// The decay check is applied here even when the source already filtered
// dormant rows, so raw candidate lists classify the same way.
func Classify(candidates []models.Candidate, masteryThreshold int, decayWindow time.Duration, now time.Time) Pools {
	var pools Pools
	for _, c := range candidates {
		switch {
		case !c.Seen:
			pools.New = append(pools.New, c)
		case c.Streak < masteryThreshold:
			pools.Learning = append(pools.Learning, c)
		case now.Sub(c.LastSeen) > decayWindow:
			pools.Review = append(pools.Review, c)
		default:
			// Mastered and still fresh: dormant, hidden from every pool
		}
	}
	return pools
}
