package domain

import (
	"errors"
	"testing"
)

func TestRatingValidateFirstMiss(t *testing.T) {
	full := RatingSubmission{
		ModelID:                  1,
		ModelName:                "deepseek/deepseek-r1",
		SubjectID:                2,
		SubjectName:              "Operating System",
		GrammaticalFluency:       3,
		Answerability:            4,
		Complexity:               2,
		Relevance:                5,
		RepeatabilityInQuestions: 1,
		RepeatabilityInAnswers:   3,
	}
	if err := full.Validate(); err != nil {
		t.Fatalf("expected valid submission, got %v", err)
	}

	cases := []struct {
		name      string
		mutate    func(*RatingSubmission)
		wantField string
	}{
		{"missing model id", func(r *RatingSubmission) { r.ModelID = 0 }, "model_id"},
		{"missing subject name", func(r *RatingSubmission) { r.SubjectName = "" }, "subject_name"},
		{"missing dimension", func(r *RatingSubmission) { r.Answerability = 0 }, "answerability"},
		{"dimension too high", func(r *RatingSubmission) { r.Relevance = 6 }, "relevance"},
		{"dimension negative", func(r *RatingSubmission) { r.Complexity = -1 }, "complexity"},
		{
			// Both model_id and relevance are broken; model_id comes
			// first in the field order and wins.
			"first miss wins",
			func(r *RatingSubmission) { r.ModelID = 0; r.Relevance = 0 },
			"model_id",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sub := full
			tc.mutate(&sub)
			err := sub.Validate()
			var validation *ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if validation.Field != tc.wantField {
				t.Fatalf("expected field %q, got %q", tc.wantField, validation.Field)
			}
		})
	}
}
