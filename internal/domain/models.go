package domain

// Option is one labeled answer choice for a question. Labels are short
// tokens (typically single letters) unique within their question.
type Option struct {
	Label string `json:"option_label"`
	Text  string `json:"option_text"`
}

// Question models an MCQ with exactly one correct option. The correct
// label is stored separately from the option rows and attached per
// question during aggregation; it always names one of Options.
type Question struct {
	ID            int64    `json:"question_id"`
	Text          string   `json:"question_text"`
	CorrectOption string   `json:"correct_option"`
	Options       []Option `json:"options"`
}

// QuestionSet is the full collection of questions for one
// (subject, model) pair, together with the resolved catalog identity.
// Question order carries no meaning; consumers sort for display.
type QuestionSet struct {
	SubjectID   int64      `json:"subject_id"`
	SubjectName string     `json:"subject_name"`
	ModelID     int64      `json:"model_id"`
	ModelName   string     `json:"model_name"`
	Questions   []Question `json:"questions"`
}

// CatalogEntry is a row from the subjects or models lookup table.
type CatalogEntry struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SessionState enumerates the quiz session lifecycle.
type SessionState string

const (
	StateEmpty      SessionState = "empty"
	StateLoaded     SessionState = "loaded"
	StateInProgress SessionState = "in_progress"
	StateCompleted  SessionState = "completed"
	StateRated      SessionState = "rated"
)

// Progress is a snapshot of a session: derived state, running score and
// how many of the loaded questions have an answer on record.
type Progress struct {
	State    SessionState `json:"state"`
	Score    int          `json:"score"`
	Answered int          `json:"answered"`
	Total    int          `json:"total"`
}

// AnswerResult summarizes one recorded answer.
type AnswerResult struct {
	QuestionID    int64  `json:"question_id"`
	Selected      string `json:"selected"`
	Correct       bool   `json:"correct"`
	CorrectOption string `json:"correct_option"`
	CorrectText   string `json:"correct_text"`
}

// Question looks up a question by id; ok is false when the id is not in the set.
func (s QuestionSet) Question(id int64) (Question, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// OptionText returns the text of the option with the given label, or "".
func (q Question) OptionText(label string) string {
	for _, opt := range q.Options {
		if opt.Label == label {
			return opt.Text
		}
	}
	return ""
}
