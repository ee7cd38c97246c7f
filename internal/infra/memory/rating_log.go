package memory

import (
	"context"
	"sync"
	"time"

	"mcq-practice-service/internal/domain"
)

// RatingLog is an in-memory append-only rating recorder, useful for
// tests and running without a database. Like the relational log it has
// no business key: identical submissions append identical rows.
type RatingLog struct {
	clock func() time.Time

	mu      sync.RWMutex
	entries []domain.Rating
}

func NewRatingLog() *RatingLog {
	return &RatingLog{clock: time.Now}
}

func (l *RatingLog) SubmitRating(_ context.Context, rating domain.RatingSubmission) error {
	if err := rating.Validate(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, domain.Rating{
		RatingSubmission: rating,
		SubmittedAt:      l.clock(),
	})
	return nil
}

// Ratings returns a copy of everything recorded so far.
func (l *RatingLog) Ratings() []domain.Rating {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.Rating, len(l.entries))
	copy(out, l.entries)
	return out
}
