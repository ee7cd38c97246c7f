package app

import (
	"context"
	"sync"

	"mcq-practice-service/internal/domain"
)

// SessionRepository abstracts how quiz sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	GetOrCreate(sessionID string) *Session
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// QuestionRepository aggregates the question set for a (subject, model)
// pair from the backing store, possibly through a cache. An unknown pair
// yields an empty set, not an error.
type QuestionRepository interface {
	GetQuestionSet(ctx context.Context, subject, model string) (domain.QuestionSet, error)
}

// RatingRecorder durably appends one validated rating submission.
type RatingRecorder interface {
	SubmitRating(ctx context.Context, rating domain.RatingSubmission) error
}

// QuizService contains the quiz use cases: load a question set into a
// session, record answers, and submit the one rating a completed session
// is entitled to.
type QuizService struct {
	sessions  SessionRepository
	questions QuestionRepository
	ratings   RatingRecorder
}

func NewQuizService(sessions SessionRepository, questions QuestionRepository, ratings RatingRecorder) *QuizService {
	return &QuizService{sessions: sessions, questions: questions, ratings: ratings}
}

// NewSession is exported for infrastructure layers that need to seed sessions.
func NewSession(id string) *Session {
	return &Session{id: id, answers: make(map[int64]string)}
}

// LoadQuestions fetches the question set for (subject, model) and installs
// it in the session, discarding any prior set, answers, score and rating
// flag. On a failed fetch the session is left exactly as it was.
func (s *QuizService) LoadQuestions(ctx context.Context, sessionID, subject, model string) (domain.QuestionSet, domain.Progress, error) {
	set, err := s.questions.GetQuestionSet(ctx, subject, model)
	if err != nil {
		return domain.QuestionSet{}, domain.Progress{}, err
	}
	session := s.sessions.GetOrCreate(sessionID)
	return set, session.load(set), nil
}

// SubmitAnswer records (or overwrites) the answer for one question in the
// session's current set and returns the per-question outcome plus the
// recomputed progress.
func (s *QuizService) SubmitAnswer(_ context.Context, sessionID string, questionID int64, label string) (domain.AnswerResult, domain.Progress, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.AnswerResult{}, domain.Progress{}, domain.ErrSessionNotFound
	}
	return session.answer(questionID, label)
}

// Progress reports the session's derived state, score and answer counts.
func (s *QuizService) Progress(sessionID string) (domain.Progress, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Progress{}, domain.ErrSessionNotFound
	}
	return session.progress(), nil
}

// SubmitRating submits the six rating dimensions for the session's
// question set. The catalog identity (model/subject ids and names) comes
// from the loaded set, not the caller. Allowed only in the completed
// state; a successful write flips the session to rated and the action
// stays unavailable until the next load.
func (s *QuizService) SubmitRating(ctx context.Context, sessionID string, dims domain.RatingSubmission) (domain.Progress, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Progress{}, domain.ErrSessionNotFound
	}

	submission, err := session.ratingSubmission(dims)
	if err != nil {
		return session.progress(), err
	}
	if err := s.ratings.SubmitRating(ctx, submission); err != nil {
		// Failed writes leave the session state unchanged; the user
		// re-triggers the submission explicitly.
		return session.progress(), err
	}
	return session.markRated(), nil
}

// EndSession drops the session and all its in-memory progress.
func (s *QuizService) EndSession(sessionID string) {
	s.sessions.Delete(sessionID)
}

// Session is the in-memory state machine for one interactive user:
// empty -> loaded -> in_progress -> completed -> rated. One caller drives
// a session at a time; the mutex only guards against store-level sharing.
type Session struct {
	id string

	mu      sync.RWMutex
	loaded  bool
	set     domain.QuestionSet
	answers map[int64]string
	score   int
	rated   bool
}

// ID returns the opaque session identifier.
func (sess *Session) ID() string { return sess.id }

func (sess *Session) load(set domain.QuestionSet) domain.Progress {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.loaded = true
	sess.set = set
	sess.answers = make(map[int64]string, len(set.Questions))
	sess.score = 0
	sess.rated = false
	return sess.progressLocked()
}

func (sess *Session) answer(questionID int64, label string) (domain.AnswerResult, domain.Progress, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if !sess.loaded {
		return domain.AnswerResult{}, sess.progressLocked(), &domain.PreconditionError{
			Action: "answer recording",
			State:  domain.StateEmpty,
		}
	}
	question, ok := sess.set.Question(questionID)
	if !ok {
		return domain.AnswerResult{}, sess.progressLocked(), domain.NewValidationError("question_id", "not in the loaded question set")
	}
	if label == "" {
		return domain.AnswerResult{}, sess.progressLocked(), domain.NewValidationError("option_label", "required")
	}

	// Re-answering overwrites in place; the map never grows past total.
	sess.answers[questionID] = label
	sess.score = sess.recomputeScoreLocked()

	result := domain.AnswerResult{
		QuestionID:    questionID,
		Selected:      label,
		Correct:       label == question.CorrectOption,
		CorrectOption: question.CorrectOption,
		CorrectText:   question.OptionText(question.CorrectOption),
	}
	return result, sess.progressLocked(), nil
}

// recomputeScoreLocked walks the whole answer record rather than keeping
// an incremental counter: overwriting an answer can both gain and lose a
// correctness point.
func (sess *Session) recomputeScoreLocked() int {
	score := 0
	for _, q := range sess.set.Questions {
		if label, ok := sess.answers[q.ID]; ok && label == q.CorrectOption {
			score++
		}
	}
	return score
}

func (sess *Session) ratingSubmission(dims domain.RatingSubmission) (domain.RatingSubmission, error) {
	sess.mu.RLock()
	defer sess.mu.RUnlock()

	if state := sess.stateLocked(); state != domain.StateCompleted {
		return domain.RatingSubmission{}, &domain.PreconditionError{Action: "rating submission", State: state}
	}
	dims.ModelID = sess.set.ModelID
	dims.ModelName = sess.set.ModelName
	dims.SubjectID = sess.set.SubjectID
	dims.SubjectName = sess.set.SubjectName
	return dims, nil
}

func (sess *Session) markRated() domain.Progress {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.rated = true
	return sess.progressLocked()
}

func (sess *Session) progress() domain.Progress {
	sess.mu.RLock()
	defer sess.mu.RUnlock()
	return sess.progressLocked()
}

func (sess *Session) progressLocked() domain.Progress {
	return domain.Progress{
		State:    sess.stateLocked(),
		Score:    sess.score,
		Answered: len(sess.answers),
		Total:    len(sess.set.Questions),
	}
}

// stateLocked derives the session state. Completion is a condition, not
// an action: answered == total, vacuously true for a zero-length set.
func (sess *Session) stateLocked() domain.SessionState {
	switch {
	case !sess.loaded:
		return domain.StateEmpty
	case sess.rated:
		return domain.StateRated
	case len(sess.answers) == len(sess.set.Questions):
		return domain.StateCompleted
	case len(sess.answers) == 0:
		return domain.StateLoaded
	default:
		return domain.StateInProgress
	}
}
