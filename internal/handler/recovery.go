package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/shopcart/internal/service"
)

// RecoveryHandler serves the security question password recovery flow
type RecoveryHandler struct {
	recovery *service.RecoveryService
	logger   *slog.Logger
}

// NewRecoveryHandler creates a new recovery handler
func NewRecoveryHandler(recovery *service.RecoveryService, logger *slog.Logger) *RecoveryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecoveryHandler{recovery: recovery, logger: logger}
}

type recoveryStartRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

type recoveryAnswerRequest struct {
	SessionID  string `json:"session_id" validate:"required,uuid"`
	QuestionID int    `json:"question_id" validate:"required,gt=0"`
	Answer     string `json:"answer" validate:"required"`
}

type recoveryResetRequest struct {
	SessionID   string `json:"session_id" validate:"required,uuid"`
	NewPassword string `json:"new_password" validate:"required"`
}

// Start handles POST /api/recovery/start
func (h *RecoveryHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req recoveryStartRequest
	if err := decode(r, &req); err != nil {
		fail(w, h.logger, r, err)
		return
	}
	ch, err := h.recovery.Start(req.UserID)
	if err != nil {
		fail(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ch)
}

// Answer handles POST /api/recovery/answer. Rejected answers still report progress.
func (h *RecoveryHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req recoveryAnswerRequest
	if err := decode(r, &req); err != nil {
		fail(w, h.logger, r, err)
		return
	}
	progress, err := h.recovery.Answer(req.SessionID, req.QuestionID, req.Answer)
	if err != nil {
		if progress != nil && (errors.Is(err, service.ErrWrongAnswer) || errors.Is(err, service.ErrDuplicateAnswer)) {
			writeJSON(w, statusFor(err), struct {
				Error string `json:"error"`
				*service.RecoveryProgress
			}{err.Error(), progress})
			return
		}
		fail(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

// Reset handles POST /api/recovery/reset
func (h *RecoveryHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req recoveryResetRequest
	if err := decode(r, &req); err != nil {
		fail(w, h.logger, r, err)
		return
	}
	if err := h.recovery.Reset(req.SessionID, req.NewPassword); err != nil {
		fail(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"state": string(service.RecoveryRecovered)})
}
