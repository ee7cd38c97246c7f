package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"mcq-practice-service/internal/domain"
	"github.com/gin-gonic/gin"
)

// ratingRequest mirrors the rating submission body. Pointer fields let
// omitted keys be told apart from zero values, so validation can name
// the first missing field.
type ratingRequest struct {
	ModelID                  *int64  `json:"model_id"`
	ModelName                *string `json:"model_name"`
	SubjectID                *int64  `json:"subject_id"`
	SubjectName              *string `json:"subject_name"`
	GrammaticalFluency       *int    `json:"grammatical_fluency"`
	Answerability            *int    `json:"answerability"`
	Complexity               *int    `json:"complexity"`
	Relevance                *int    `json:"relevance"`
	RepeatabilityInQuestions *int    `json:"repeatability_in_questions"`
	RepeatabilityInAnswers   *int    `json:"repeatability_in_answers"`
}

func (r ratingRequest) submission() (domain.RatingSubmission, error) {
	fields := []struct {
		name    string
		present bool
	}{
		{"model_id", r.ModelID != nil},
		{"model_name", r.ModelName != nil},
		{"subject_id", r.SubjectID != nil},
		{"subject_name", r.SubjectName != nil},
		{"grammatical_fluency", r.GrammaticalFluency != nil},
		{"answerability", r.Answerability != nil},
		{"complexity", r.Complexity != nil},
		{"relevance", r.Relevance != nil},
		{"repeatability_in_questions", r.RepeatabilityInQuestions != nil},
		{"repeatability_in_answers", r.RepeatabilityInAnswers != nil},
	}
	for _, f := range fields {
		if !f.present {
			return domain.RatingSubmission{}, domain.NewValidationError(f.name, "required")
		}
	}
	return domain.RatingSubmission{
		ModelID:                  *r.ModelID,
		ModelName:                *r.ModelName,
		SubjectID:                *r.SubjectID,
		SubjectName:              *r.SubjectName,
		GrammaticalFluency:       *r.GrammaticalFluency,
		Answerability:            *r.Answerability,
		Complexity:               *r.Complexity,
		Relevance:                *r.Relevance,
		RepeatabilityInQuestions: *r.RepeatabilityInQuestions,
		RepeatabilityInAnswers:   *r.RepeatabilityInAnswers,
	}, nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleGetMCQs returns the aggregated question set for a (subject,
// model) pair as a flat JSON array. Unknown pairs yield [].
func (s *Server) handleGetMCQs(c *gin.Context) {
	subject := strings.TrimSpace(c.Query("subject"))
	model := strings.TrimSpace(c.Query("model"))

	set, err := s.questions.GetQuestionSet(c.Request.Context(), subject, model)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, set.Questions)
}

func (s *Server) handleSubmitRating(c *gin.Context) {
	var req ratingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	submission, err := req.submission()
	if err != nil {
		respondError(c, err)
		return
	}
	if err := s.ratings.SubmitRating(c.Request.Context(), submission); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Rating submitted successfully"})
}

func (s *Server) handleListSubjects(c *gin.Context) {
	entries, err := s.catalog.ListSubjects(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (s *Server) handleListModels(c *gin.Context) {
	entries, err := s.catalog.ListModels(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func respondError(c *gin.Context, err error) {
	var (
		validation   *domain.ValidationError
		precondition *domain.PreconditionError
	)
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
	case errors.As(err, &precondition):
		c.JSON(http.StatusPreconditionFailed, gin.H{"error": precondition.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
