package handler

import (
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/shopcart/internal/security/middleware"
	"github.com/aryan0dhankhar/shopcart/internal/service"
	"github.com/aryan0dhankhar/shopcart/internal/validation"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users *service.UserService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthHandler{
		users:  users,
		logger: logger,
	}
}

// RegisterRequest represents registration request
type RegisterRequest struct {
	ID        string `json:"id" validate:"required,cedula"`
	Password  string `json:"password" validate:"required,password"`
	Name      string `json:"name" validate:"required,max=120"`
	Phone     string `json:"phone" validate:"required,phone"`
	Email     string `json:"email" validate:"required,email"`
	BirthDate string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
}

func (req RegisterRequest) registration() (service.Registration, error) {
	reg := service.Registration{
		ID:       req.ID,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
	}
	if req.BirthDate != "" {
		d, err := validation.ParseDate(req.BirthDate)
		if err != nil {
			return reg, err
		}
		reg.BirthDate = d
	}
	return reg, nil
}

// LoginRequest represents login request
type LoginRequest struct {
	ID       string `json:"id" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest represents change password request
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,password"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decode(r, &req); err != nil {
		h.logger.Warn("failed to decode register request", slog.String("error", err.Error()))
		fail(w, h.logger, r, err)
		return
	}
	reg, err := req.registration()
	if err != nil {
		fail(w, h.logger, r, err)
		return
	}

	user, err := h.users.Register(reg)
	if err != nil {
		h.logger.Info("registration failed",
			slog.String("user_id", req.ID),
			slog.String("error", err.Error()),
		)
		fail(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, userView(user))
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decode(r, &req); err != nil {
		fail(w, h.logger, r, err)
		return
	}

	result, err := h.users.Login(req.ID, req.Password)
	if err != nil {
		fail(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ChangePassword handles POST /api/auth/change-password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.Identity(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req ChangePasswordRequest
	if err := decode(r, &req); err != nil {
		fail(w, h.logger, r, err)
		return
	}

	if err := h.users.ChangePassword(userID, req.OldPassword, req.NewPassword); err != nil {
		fail(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "password changed successfully"})
}
