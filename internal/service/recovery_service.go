package service

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aryan0dhankhar/shopcart/internal/domain"
	"github.com/aryan0dhankhar/shopcart/internal/observability/metrics"
	"github.com/aryan0dhankhar/shopcart/internal/security/password"
	"github.com/aryan0dhankhar/shopcart/pkg/cache"
)

// RecoveryState is the position of a session in the recovery flow
type RecoveryState string

const (
	RecoveryStarted   RecoveryState = "STARTED"
	RecoveryAnswering RecoveryState = "ANSWERING"
	RecoveryEligible  RecoveryState = "ELIGIBLE"
	RecoveryRecovered RecoveryState = "RECOVERED"
)

// recoverySession is the server side state of one recovery attempt
type recoverySession struct {
	id        string
	userID    string
	questions []domain.Question
	correct   map[int]bool
	state     RecoveryState
}

func (s *recoverySession) asked(questionID int) bool {
	for _, q := range s.questions {
		if q.ID == questionID {
			return true
		}
	}
	return false
}

// RecoveryChallenge is returned to the caller when a session starts
type RecoveryChallenge struct {
	SessionID string            `json:"session_id"`
	Questions []domain.Question `json:"questions"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// RecoveryProgress reports how far a session has come
type RecoveryProgress struct {
	State    RecoveryState `json:"state"`
	Correct  int           `json:"correct"`
	Required int           `json:"required"`
}

// RecoveryService runs password recovery through security questions.
// Wrong answers never lock a session; callers rate limit at the edge.
type RecoveryService struct {
	questionnaires domain.QuestionnaireRepository
	users          *UserService
	hasher         *password.Hasher
	sessions       *cache.Cache[*recoverySession]
	ttl            time.Duration
	logger         *slog.Logger

	mu      sync.Mutex
	shuffle func(n int, swap func(i, j int))
}

// NewRecoveryService creates a new recovery service; sessions expire after ttl
func NewRecoveryService(
	questionnaires domain.QuestionnaireRepository,
	users *UserService,
	hasher *password.Hasher,
	ttl time.Duration,
	logger *slog.Logger,
) *RecoveryService {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &RecoveryService{
		questionnaires: questionnaires,
		users:          users,
		hasher:         hasher,
		sessions:       cache.New[*recoverySession](),
		ttl:            ttl,
		logger:         logger,
		shuffle:        rand.Shuffle,
	}
}

// Start opens a session asking up to MinRecoveryAnswers of the user's questions
func (s *RecoveryService) Start(userID string) (*RecoveryChallenge, error) {
	q, err := s.questionnaires.GetByOwner(userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// unknown users look the same as users without answers
			return nil, ErrQuestionnaireIncomplete
		}
		return nil, err
	}
	if !q.IsComplete() {
		return nil, ErrQuestionnaireIncomplete
	}

	answers := append([]domain.Answer(nil), q.Answers...)
	s.mu.Lock()
	s.shuffle(len(answers), func(i, j int) { answers[i], answers[j] = answers[j], answers[i] })
	s.mu.Unlock()
	if len(answers) > domain.MinRecoveryAnswers {
		answers = answers[:domain.MinRecoveryAnswers]
	}

	session := &recoverySession{
		id:      uuid.NewString(),
		userID:  userID,
		correct: make(map[int]bool, len(answers)),
		state:   RecoveryStarted,
	}
	for _, a := range answers {
		session.questions = append(session.questions, domain.Question{ID: a.QuestionID, Text: a.Question})
	}
	s.sessions.Set(session.id, session, s.ttl)

	s.logger.Info("recovery started",
		slog.String("user_id", userID),
		slog.String("session_id", session.id),
	)
	return &RecoveryChallenge{
		SessionID: session.id,
		Questions: session.questions,
		ExpiresAt: time.Now().Add(s.ttl),
	}, nil
}

// Answer checks one answer of a session
func (s *RecoveryService) Answer(sessionID string, questionID int, answer string) (*RecoveryProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	if !session.asked(questionID) {
		return nil, fmt.Errorf("question %d: %w", questionID, ErrQuestionNotInSession)
	}
	if session.correct[questionID] {
		metrics.ObserveRecoveryAnswer("duplicate")
		return s.progress(session), fmt.Errorf("question %d: %w", questionID, ErrDuplicateAnswer)
	}

	q, err := s.questionnaires.GetByOwner(session.userID)
	if err != nil {
		return nil, err
	}
	stored, ok := q.AnswerFor(questionID)
	if !ok {
		// answers were edited after the session started
		return nil, fmt.Errorf("question %d: %w", questionID, ErrQuestionNotInSession)
	}
	if err := s.hasher.CompareAnswer(stored.AnswerHash, answer); err != nil {
		metrics.ObserveRecoveryAnswer("wrong")
		s.logger.Info("recovery answer rejected",
			slog.String("session_id", sessionID),
			slog.Int("question_id", questionID),
		)
		return s.progress(session), ErrWrongAnswer
	}

	metrics.ObserveRecoveryAnswer("correct")
	session.correct[questionID] = true
	session.state = RecoveryAnswering
	if len(session.correct) >= len(session.questions) {
		session.state = RecoveryEligible
		s.logger.Info("recovery session eligible", slog.String("session_id", sessionID))
	}
	return s.progress(session), nil
}

// Reset sets a new password once the session is eligible and closes it
func (s *RecoveryService) Reset(sessionID, newPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return ErrSessionNotFound
	}
	if session.state != RecoveryEligible {
		return ErrNotEligible
	}
	if err := s.users.ResetPassword(session.userID, newPassword); err != nil {
		return err
	}

	session.state = RecoveryRecovered
	removed := s.sessions.DeleteFunc(func(_ string, other *recoverySession) bool {
		return other.userID == session.userID
	})
	s.logger.Info("password recovered",
		slog.String("user_id", session.userID),
		slog.Int("sessions_closed", removed),
	)
	return nil
}

// PurgeExpired drops expired sessions
func (s *RecoveryService) PurgeExpired() int {
	return s.sessions.PurgeExpired()
}

// Len returns the number of tracked sessions
func (s *RecoveryService) Len() int {
	return s.sessions.Len()
}

func (s *RecoveryService) progress(session *recoverySession) *RecoveryProgress {
	return &RecoveryProgress{
		State:    session.state,
		Correct:  len(session.correct),
		Required: len(session.questions),
	}
}
