package postgres

import (
	"context"
	"encoding/json"
	"strings"

	"mcq-practice-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// questionSetQuery joins the four normalized entities and collapses the
// many-to-one question/options relation per question. The correct label
// lives in its own table, so it is attached per question group instead
// of flagging an option row.
const questionSetQuery = `
SELECT q.question_id, q.question_text, a.correct_option,
       s.subject_id, m.model_id,
       json_agg(json_build_object('option_label', o.option_label, 'option_text', o.option_text)) AS options
FROM questions q
JOIN options o ON q.question_id = o.question_id
JOIN answers a ON q.question_id = a.question_id
JOIN subjects s ON q.subject_id = s.subject_id
JOIN models m ON q.model_id = m.model_id
WHERE s.subject_name = $1 AND m.model_name = $2
GROUP BY q.question_id, q.question_text, a.correct_option, s.subject_id, m.model_id
`

// QuestionStore aggregates question sets from Postgres.
type QuestionStore struct {
	pool *pgxpool.Pool
}

func NewQuestionStore(pool *pgxpool.Pool) *QuestionStore {
	return &QuestionStore{pool: pool}
}

// FetchQuestionSet returns every question for the named (subject, model)
// pair with its options and correct label. Unknown pairs yield an empty
// set. The read is idempotent and row order is unspecified.
func (s *QuestionStore) FetchQuestionSet(ctx context.Context, subject, model string) (domain.QuestionSet, error) {
	if strings.TrimSpace(subject) == "" {
		return domain.QuestionSet{}, domain.NewValidationError("subject", "required")
	}
	if strings.TrimSpace(model) == "" {
		return domain.QuestionSet{}, domain.NewValidationError("model", "required")
	}

	rows, err := s.pool.Query(ctx, questionSetQuery, subject, model)
	if err != nil {
		return domain.QuestionSet{}, &domain.StorageError{Op: "query question set", Err: err}
	}
	defer rows.Close()

	set := domain.QuestionSet{
		SubjectName: subject,
		ModelName:   model,
		Questions:   []domain.Question{},
	}
	for rows.Next() {
		var (
			question    domain.Question
			optionsJSON []byte
		)
		if err := rows.Scan(&question.ID, &question.Text, &question.CorrectOption, &set.SubjectID, &set.ModelID, &optionsJSON); err != nil {
			return domain.QuestionSet{}, &domain.StorageError{Op: "scan question row", Err: err}
		}
		if err := json.Unmarshal(optionsJSON, &question.Options); err != nil {
			return domain.QuestionSet{}, &domain.StorageError{Op: "unmarshal options", Err: err}
		}
		set.Questions = append(set.Questions, question)
	}
	if err := rows.Err(); err != nil {
		return domain.QuestionSet{}, &domain.StorageError{Op: "read question rows", Err: err}
	}
	return set, nil
}
