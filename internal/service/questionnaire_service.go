package service

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/aryan0dhankhar/shopcart/internal/catalog"
	"github.com/aryan0dhankhar/shopcart/internal/domain"
	"github.com/aryan0dhankhar/shopcart/internal/security/password"
	"github.com/aryan0dhankhar/shopcart/internal/validation"
)

// QuestionnaireService stores users' security answers
type QuestionnaireService struct {
	questionnaires domain.QuestionnaireRepository
	users          domain.UserRepository
	catalog        *catalog.Catalog
	hasher         *password.Hasher
	logger         *slog.Logger
}

// NewQuestionnaireService creates a new questionnaire service
func NewQuestionnaireService(
	questionnaires domain.QuestionnaireRepository,
	users domain.UserRepository,
	cat *catalog.Catalog,
	hasher *password.Hasher,
	logger *slog.Logger,
) *QuestionnaireService {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuestionnaireService{
		questionnaires: questionnaires,
		users:          users,
		catalog:        cat,
		hasher:         hasher,
		logger:         logger,
	}
}

// Catalog returns every question a user may answer
func (s *QuestionnaireService) Catalog() []domain.Question {
	return s.catalog.All()
}

// SaveAnswers stores answers keyed by question id, merging with earlier answers
func (s *QuestionnaireService) SaveAnswers(ownerID string, answers map[int]string) (*domain.Questionnaire, error) {
	if len(answers) == 0 {
		return nil, fmt.Errorf("%w: no answers given", validation.ErrInvalidInput)
	}
	if _, err := s.users.GetByID(ownerID); err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(answers))
	for id, answer := range answers {
		if _, ok := s.catalog.Get(id); !ok {
			return nil, fmt.Errorf("question %d: %w", id, ErrUnknownQuestion)
		}
		if strings.TrimSpace(answer) == "" {
			return nil, fmt.Errorf("%w: answer to question %d is empty", validation.ErrInvalidInput, id)
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)

	q, err := s.questionnaires.GetByOwner(ownerID)
	exists := err == nil
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		q = &domain.Questionnaire{OwnerID: ownerID}
	}

	for _, id := range ids {
		question, _ := s.catalog.Get(id)
		hash, err := s.hasher.HashAnswer(answers[id])
		if err != nil {
			return nil, fmt.Errorf("failed to save answers: %w", err)
		}
		q.SetAnswer(question, hash)
	}

	if exists {
		err = s.questionnaires.Update(q)
	} else {
		err = s.questionnaires.Create(q)
	}
	if err != nil {
		s.logger.Error("failed to save questionnaire",
			slog.String("user_id", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("security answers saved",
		slog.String("user_id", ownerID),
		slog.Int("answered", len(q.Answers)),
	)
	return q, nil
}

// Get returns a user's questionnaire
func (s *QuestionnaireService) Get(ownerID string) (*domain.Questionnaire, error) {
	return s.questionnaires.GetByOwner(ownerID)
}
