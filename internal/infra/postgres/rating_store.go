package postgres

import (
	"context"

	"mcq-practice-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

const insertRatingQuery = `
INSERT INTO ratings (
    model_id, model_name, subject_id, subject_name,
    grammatical_fluency, answerability, complexity, relevance,
    repeatability_in_questions, repeatability_in_answers
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`

// RatingStore appends rating submissions to the append-only ratings log.
// The table has no business key: identical submissions insert distinct
// rows, each timestamped by the database at insert time.
type RatingStore struct {
	pool *pgxpool.Pool
}

func NewRatingStore(pool *pgxpool.Pool) *RatingStore {
	return &RatingStore{pool: pool}
}

func (s *RatingStore) SubmitRating(ctx context.Context, rating domain.RatingSubmission) error {
	if err := rating.Validate(); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx, insertRatingQuery,
		rating.ModelID,
		rating.ModelName,
		rating.SubjectID,
		rating.SubjectName,
		rating.GrammaticalFluency,
		rating.Answerability,
		rating.Complexity,
		rating.Relevance,
		rating.RepeatabilityInQuestions,
		rating.RepeatabilityInAnswers,
	)
	if err != nil {
		return &domain.StorageError{Op: "insert rating", Err: err}
	}
	return nil
}
