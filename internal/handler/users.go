package handler

import (
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/shopcart/internal/domain"
	"github.com/aryan0dhankhar/shopcart/internal/security"
	"github.com/aryan0dhankhar/shopcart/internal/security/middleware"
	"github.com/aryan0dhankhar/shopcart/internal/service"
	"github.com/aryan0dhankhar/shopcart/internal/validation"
)

// UserHandler serves user administration and profile endpoints
type UserHandler struct {
	users  *service.UserService
	authz  *security.AuthorizationService
	logger *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *service.UserService, authz *security.AuthorizationService, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{users: users, authz: authz, logger: logger}
}

type createUserRequest struct {
	RegisterRequest
	Role string `json:"role" validate:"required,oneof=ADMIN USER admin user"`
}

type updateProfileRequest struct {
	Name      string `json:"name" validate:"required,max=120"`
	Phone     string `json:"phone" validate:"required,phone"`
	Email     string `json:"email" validate:"required,email"`
	BirthDate string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
}

// List handles GET /api/users with optional ?role= and ?q=
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		users []*domain.User
		err   error
	)
	if role := r.URL.Query().Get("role"); role != "" {
		parsed, perr := domain.ParseRole(role)
		if perr != nil {
			writeError(w, http.StatusBadRequest, perr.Error())
			return
		}
		users, err = h.users.ListByRole(parsed)
	} else {
		users, err = h.users.Search(r.URL.Query().Get("q"))
	}
	if err != nil {
		fail(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userViews(users))
}

// Get handles GET /api/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !h.allowed(w, r, id) {
		return
	}
	u, err := h.users.Get(id)
	if err != nil {
		fail(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userView(u))
}

// Create handles POST /api/users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decode(r, &req); err != nil {
		fail(w, h.logger, r, err)
		return
	}
	reg, err := req.registration()
	if err != nil {
		fail(w, h.logger, r, err)
		return
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	reg.Role = role

	u, err := h.users.CreateUser(reg)
	if err != nil {
		fail(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, userView(u))
}

// Update handles PUT /api/users/{id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !h.allowed(w, r, id) {
		return
	}
	var req updateProfileRequest
	if err := decode(r, &req); err != nil {
		fail(w, h.logger, r, err)
		return
	}
	profile := service.Profile{Name: req.Name, Phone: req.Phone, Email: req.Email}
	if req.BirthDate != "" {
		d, err := validation.ParseDate(req.BirthDate)
		if err != nil {
			fail(w, h.logger, r, err)
			return
		}
		profile.BirthDate = d
	}
	u, err := h.users.UpdateProfile(id, profile)
	if err != nil {
		fail(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userView(u))
}

// Delete handles DELETE /api/users/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !h.allowed(w, r, id) {
		return
	}
	if err := h.users.Delete(id); err != nil {
		fail(w, h.logger, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) allowed(w http.ResponseWriter, r *http.Request, target string) bool {
	userID, role := middleware.Identity(r.Context())
	if err := h.authz.ValidateSelfOrAdmin(userID, role, target); err != nil {
		fail(w, h.logger, r, err)
		return false
	}
	return true
}
