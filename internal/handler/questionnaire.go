package handler

import (
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/shopcart/internal/domain"
	"github.com/aryan0dhankhar/shopcart/internal/security/middleware"
	"github.com/aryan0dhankhar/shopcart/internal/service"
)

// QuestionnaireHandler serves the question catalog and the caller's answers
type QuestionnaireHandler struct {
	questionnaires *service.QuestionnaireService
	logger         *slog.Logger
}

// NewQuestionnaireHandler creates a new questionnaire handler
func NewQuestionnaireHandler(questionnaires *service.QuestionnaireService, logger *slog.Logger) *QuestionnaireHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuestionnaireHandler{questionnaires: questionnaires, logger: logger}
}

type answerRequest struct {
	QuestionID int    `json:"question_id" validate:"required,gt=0"`
	Answer     string `json:"answer" validate:"required,max=200"`
}

type saveAnswersRequest struct {
	Answers []answerRequest `json:"answers" validate:"required,min=1,dive"`
}

// QuestionnaireView lists answered questions; answers themselves are never returned
type QuestionnaireView struct {
	OwnerID   string            `json:"owner_id"`
	Questions []domain.Question `json:"questions"`
	Complete  bool              `json:"complete"`
}

func questionnaireView(q *domain.Questionnaire) QuestionnaireView {
	v := QuestionnaireView{OwnerID: q.OwnerID, Complete: q.IsComplete(), Questions: []domain.Question{}}
	for _, a := range q.Answers {
		v.Questions = append(v.Questions, domain.Question{ID: a.QuestionID, Text: a.Question})
	}
	return v
}

// Questions handles GET /api/questions
func (h *QuestionnaireHandler) Questions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.questionnaires.Catalog())
}

// Get handles GET /api/questionnaire
func (h *QuestionnaireHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.Identity(r.Context())
	q, err := h.questionnaires.Get(userID)
	if err != nil {
		fail(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, questionnaireView(q))
}

// Save handles PUT /api/questionnaire
func (h *QuestionnaireHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.Identity(r.Context())
	var req saveAnswersRequest
	if err := decode(r, &req); err != nil {
		fail(w, h.logger, r, err)
		return
	}
	answers := make(map[int]string, len(req.Answers))
	for _, a := range req.Answers {
		answers[a.QuestionID] = a.Answer
	}
	q, err := h.questionnaires.SaveAnswers(userID, answers)
	if err != nil {
		fail(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, questionnaireView(q))
}
