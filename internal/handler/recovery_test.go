package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/shopcart/internal/domain"
	"github.com/aryan0dhankhar/shopcart/internal/service"
)

var answers = map[int]string{1: "Rex", 2: "Quito", 3: "Perez"}

func (a *api) saveAnswers(token string) {
	a.t.Helper()
	body := []map[string]any{}
	for id, ans := range answers {
		body = append(body, map[string]any{"question_id": id, "answer": ans})
	}
	rec := a.do(http.MethodPut, "/api/questionnaire", token, map[string]any{"answers": body})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestQuestionnaireEndpoints(t *testing.T) {
	a := newAPI(t)
	a.register(aliceID)
	alice := a.login(aliceID, secret)

	rec := a.do(http.MethodGet, "/api/questions", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.GreaterOrEqual(t, len(decodeBody[[]domain.Question](t, rec)), domain.MinRecoveryAnswers)

	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/api/questionnaire", alice, nil).Code)

	rec = a.do(http.MethodPut, "/api/questionnaire", alice, map[string]any{
		"answers": []map[string]any{{"question_id": 999, "answer": "x"}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	a.saveAnswers(alice)
	rec = a.do(http.MethodGet, "/api/questionnaire", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeBody[QuestionnaireView](t, rec)
	assert.True(t, view.Complete)
	assert.Len(t, view.Questions, 3)
	assert.NotContains(t, rec.Body.String(), "Quito")
}

func TestRecoveryFlow(t *testing.T) {
	a := newAPI(t)
	a.register(aliceID)
	a.saveAnswers(a.login(aliceID, secret))

	rec := a.do(http.MethodPost, "/api/recovery/start", "", map[string]string{"user_id": aliceID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	ch := decodeBody[service.RecoveryChallenge](t, rec)
	require.Len(t, ch.Questions, domain.MinRecoveryAnswers)

	reset := map[string]string{"session_id": ch.SessionID, "new_password": "Recover_3"}
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodPost, "/api/recovery/reset", "", reset).Code)

	first := ch.Questions[0].ID
	rec = a.do(http.MethodPost, "/api/recovery/answer", "", map[string]any{
		"session_id": ch.SessionID, "question_id": first, "answer": "wrong",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"correct":0`)

	for i, q := range ch.Questions {
		rec = a.do(http.MethodPost, "/api/recovery/answer", "", map[string]any{
			"session_id": ch.SessionID, "question_id": q.ID, "answer": "  " + answers[q.ID] + " ",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, i+1, decodeBody[service.RecoveryProgress](t, rec).Correct)
	}

	rec = a.do(http.MethodPost, "/api/recovery/answer", "", map[string]any{
		"session_id": ch.SessionID, "question_id": first, "answer": answers[first],
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = a.do(http.MethodPost, "/api/recovery/reset", "", reset)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	a.login(aliceID, "Recover_3")

	assert.Equal(t, http.StatusNotFound, a.do(http.MethodPost, "/api/recovery/reset", "", reset).Code)
}

func TestRecoveryStartWithoutQuestionnaire(t *testing.T) {
	a := newAPI(t)
	a.register(aliceID)

	for _, id := range []string{aliceID, bobID} {
		rec := a.do(http.MethodPost, "/api/recovery/start", "", map[string]string{"user_id": id})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	}
}
