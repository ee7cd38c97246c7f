package http

import (
	"encoding/json"
	"log"
	"net/http"
	"sort"

	"mcq-practice-service/internal/app"
	"mcq-practice-service/internal/domain"
	"github.com/gorilla/websocket"
)

// WSHandler drives one quiz session per websocket connection. The
// protocol is strictly request/response (load, answer, rate), so a
// single read loop writes replies in order without a writer goroutine.
type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type loadPayload struct {
	Subject string `json:"subject"`
	Model   string `json:"model"`
}

type answerPayload struct {
	QuestionID  int64  `json:"question_id"`
	OptionLabel string `json:"option_label"`
}

type ratePayload struct {
	GrammaticalFluency       int `json:"grammatical_fluency"`
	Answerability            int `json:"answerability"`
	Complexity               int `json:"complexity"`
	Relevance                int `json:"relevance"`
	RepeatabilityInQuestions int `json:"repeatability_in_questions"`
	RepeatabilityInAnswers   int `json:"repeatability_in_answers"`
}

type questionSetView struct {
	SubjectName string            `json:"subject_name"`
	ModelName   string            `json:"model_name"`
	Total       int               `json:"total"`
	Questions   []domain.Question `json:"questions"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type ratedPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and runs the session loop. The session
// and all its progress are dropped when the socket closes.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		http.Error(w, "missing sessionId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	defer h.service.EndSession(sessionID)

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "load":
			h.handleLoad(conn, r, sessionID, inbound.Payload)
		case "answer":
			h.handleAnswer(conn, r, sessionID, inbound.Payload)
		case "rate":
			h.handleRate(conn, r, sessionID, inbound.Payload)
		default:
			writeError(conn, "unsupported message type")
		}
	}
}

func (h *WSHandler) handleLoad(conn *websocket.Conn, r *http.Request, sessionID string, payload json.RawMessage) {
	var load loadPayload
	if err := json.Unmarshal(payload, &load); err != nil {
		writeError(conn, "invalid load payload")
		return
	}
	set, progress, err := h.service.LoadQuestions(r.Context(), sessionID, load.Subject, load.Model)
	if err != nil {
		writeError(conn, err.Error())
		return
	}
	_ = conn.WriteJSON(outboundMessage[questionSetView]{Type: "questions", Payload: newQuestionSetView(set)})
	_ = conn.WriteJSON(outboundMessage[domain.Progress]{Type: "progress", Payload: progress})
}

func (h *WSHandler) handleAnswer(conn *websocket.Conn, r *http.Request, sessionID string, payload json.RawMessage) {
	var answer answerPayload
	if err := json.Unmarshal(payload, &answer); err != nil {
		writeError(conn, "invalid answer payload")
		return
	}
	result, progress, err := h.service.SubmitAnswer(r.Context(), sessionID, answer.QuestionID, answer.OptionLabel)
	if err != nil {
		writeError(conn, err.Error())
		return
	}
	_ = conn.WriteJSON(outboundMessage[domain.AnswerResult]{Type: "answerResult", Payload: result})
	_ = conn.WriteJSON(outboundMessage[domain.Progress]{Type: "progress", Payload: progress})
}

func (h *WSHandler) handleRate(conn *websocket.Conn, r *http.Request, sessionID string, payload json.RawMessage) {
	var rate ratePayload
	if err := json.Unmarshal(payload, &rate); err != nil {
		writeError(conn, "invalid rate payload")
		return
	}
	// Catalog identity comes from the loaded set inside the session.
	progress, err := h.service.SubmitRating(r.Context(), sessionID, domain.RatingSubmission{
		GrammaticalFluency:       rate.GrammaticalFluency,
		Answerability:            rate.Answerability,
		Complexity:               rate.Complexity,
		Relevance:                rate.Relevance,
		RepeatabilityInQuestions: rate.RepeatabilityInQuestions,
		RepeatabilityInAnswers:   rate.RepeatabilityInAnswers,
	})
	if err != nil {
		writeError(conn, err.Error())
		return
	}
	_ = conn.WriteJSON(outboundMessage[ratedPayload]{Type: "rated", Payload: ratedPayload{Message: "Rating submitted successfully"}})
	_ = conn.WriteJSON(outboundMessage[domain.Progress]{Type: "progress", Payload: progress})
}

// newQuestionSetView sorts each question's options by label for display;
// storage order carries no meaning.
func newQuestionSetView(set domain.QuestionSet) questionSetView {
	questions := make([]domain.Question, len(set.Questions))
	copy(questions, set.Questions)
	for i := range questions {
		options := make([]domain.Option, len(questions[i].Options))
		copy(options, questions[i].Options)
		sort.Slice(options, func(a, b int) bool { return options[a].Label < options[b].Label })
		questions[i].Options = options
	}
	return questionSetView{
		SubjectName: set.SubjectName,
		ModelName:   set.ModelName,
		Total:       len(questions),
		Questions:   questions,
	}
}

func writeError(conn *websocket.Conn, message string) {
	_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: message}})
}
