package domain

import "time"

// Rating dimension bounds. The original data set was collected with
// 1-to-5 sliders; the server rejects anything outside that range.
const (
	RatingMin = 1
	RatingMax = 5
)

// RatingSubmission is one quality judgment for the question set of a
// (subject, model) pair: six 1-to-5 dimensions plus the catalog identity
// the rating is tied to. Submissions are append-only; the store assigns
// the timestamp at insert time.
type RatingSubmission struct {
	ModelID                  int64  `json:"model_id"`
	ModelName                string `json:"model_name"`
	SubjectID                int64  `json:"subject_id"`
	SubjectName              string `json:"subject_name"`
	GrammaticalFluency       int    `json:"grammatical_fluency"`
	Answerability            int    `json:"answerability"`
	Complexity               int    `json:"complexity"`
	Relevance                int    `json:"relevance"`
	RepeatabilityInQuestions int    `json:"repeatability_in_questions"`
	RepeatabilityInAnswers   int    `json:"repeatability_in_answers"`
}

// Rating is a stored submission with its server-assigned timestamp.
type Rating struct {
	RatingSubmission
	SubmittedAt time.Time `json:"submitted_at"`
}

// Validate checks the ten required fields in a fixed order and stops at
// the first miss, then bounds-checks the six dimensions. A zero value
// counts as missing: identifiers start at 1 and dimensions at RatingMin.
func (r RatingSubmission) Validate() error {
	if r.ModelID == 0 {
		return NewValidationError("model_id", "required")
	}
	if r.ModelName == "" {
		return NewValidationError("model_name", "required")
	}
	if r.SubjectID == 0 {
		return NewValidationError("subject_id", "required")
	}
	if r.SubjectName == "" {
		return NewValidationError("subject_name", "required")
	}
	dims := []struct {
		field string
		value int
	}{
		{"grammatical_fluency", r.GrammaticalFluency},
		{"answerability", r.Answerability},
		{"complexity", r.Complexity},
		{"relevance", r.Relevance},
		{"repeatability_in_questions", r.RepeatabilityInQuestions},
		{"repeatability_in_answers", r.RepeatabilityInAnswers},
	}
	for _, d := range dims {
		if d.value == 0 {
			return NewValidationError(d.field, "required")
		}
	}
	for _, d := range dims {
		if d.value < RatingMin || d.value > RatingMax {
			return NewValidationError(d.field, "must be between 1 and 5")
		}
	}
	return nil
}
