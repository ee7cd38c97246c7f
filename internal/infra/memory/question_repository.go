package memory

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"mcq-practice-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// QuestionSource fetches the aggregated question set for a
// (subject, model) pair from a backing store.
type QuestionSource interface {
	FetchQuestionSet(ctx context.Context, subject, model string) (domain.QuestionSet, error)
}

// QuestionRepository caches question sets with TTL to avoid repeated
// aggregation queries. Safe because the fetch is a pure idempotent read.
type QuestionRepository struct {
	source QuestionSource
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedSet
}

type cachedSet struct {
	set       domain.QuestionSet
	expiresAt time.Time
}

func NewQuestionRepository(source QuestionSource, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		source: source,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedSet),
	}
}

func (r *QuestionRepository) GetQuestionSet(ctx context.Context, subject, model string) (domain.QuestionSet, error) {
	key := setKey(subject, model)
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[key]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry.set, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[key]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.set, nil
		}
		r.mu.RUnlock()

		set, err := r.source.FetchQuestionSet(ctx, subject, model)
		if err != nil {
			return domain.QuestionSet{}, err
		}

		r.mu.Lock()
		r.cache[key] = cachedSet{
			set:       set,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return set, nil
	})
	if err != nil {
		return domain.QuestionSet{}, err
	}
	return result.(domain.QuestionSet), nil
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

func setKey(subject, model string) string {
	return subject + "|" + model
}

// StaticQuestionSource is a QuestionSource backed by an in-memory map,
// useful for tests and running without a database. Unknown pairs yield
// an empty set, matching the relational source.
type StaticQuestionSource struct {
	sets map[string]domain.QuestionSet
}

// NewStaticQuestionSource builds a source from sets keyed by
// "subject|model".
func NewStaticQuestionSource(sets map[string]domain.QuestionSet) *StaticQuestionSource {
	return &StaticQuestionSource{sets: sets}
}

func (s *StaticQuestionSource) FetchQuestionSet(_ context.Context, subject, model string) (domain.QuestionSet, error) {
	if strings.TrimSpace(subject) == "" {
		return domain.QuestionSet{}, domain.NewValidationError("subject", "required")
	}
	if strings.TrimSpace(model) == "" {
		return domain.QuestionSet{}, domain.NewValidationError("model", "required")
	}
	if set, ok := s.sets[setKey(subject, model)]; ok {
		return set, nil
	}
	return domain.QuestionSet{
		SubjectName: subject,
		ModelName:   model,
		Questions:   []domain.Question{},
	}, nil
}
