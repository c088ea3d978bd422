package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aryan0dhankhar/shopcart/internal/domain"
	"github.com/aryan0dhankhar/shopcart/internal/security/auth"
	"github.com/aryan0dhankhar/shopcart/internal/security/password"
	"github.com/aryan0dhankhar/shopcart/internal/validation"
)

// UserService handles accounts and authentication
type UserService struct {
	users          domain.UserRepository
	questionnaires domain.QuestionnaireRepository
	hasher         *password.Hasher
	tokens         *auth.TokenManager
	logger         *slog.Logger
}

// NewUserService creates a new user service
func NewUserService(
	users domain.UserRepository,
	questionnaires domain.QuestionnaireRepository,
	hasher *password.Hasher,
	tokens *auth.TokenManager,
	logger *slog.Logger,
) *UserService {
	if logger == nil {
		logger = slog.Default()
	}

	return &UserService{
		users:          users,
		questionnaires: questionnaires,
		hasher:         hasher,
		tokens:         tokens,
		logger:         logger,
	}
}

// Registration carries the fields of a new account
type Registration struct {
	ID        string
	Password  string
	Role      domain.Role
	Name      string
	Phone     string
	Email     string
	BirthDate time.Time
}

// Profile carries the editable fields of an account
type Profile struct {
	Name      string
	Phone     string
	Email     string
	BirthDate time.Time
}

// LoginResult represents login response
type LoginResult struct {
	UserID    string      `json:"user_id"`
	Role      domain.Role `json:"role"`
	Token     string      `json:"token"`
	ExpiresIn int         `json:"expires_in"` // seconds
	TokenType string      `json:"token_type"`
}

func validateProfile(p Profile) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", validation.ErrInvalidInput)
	}
	if err := validation.Phone(p.Phone); err != nil {
		return err
	}
	return validation.Email(p.Email)
}

// Register creates a USER account
func (s *UserService) Register(reg Registration) (*domain.User, error) {
	reg.Role = domain.RoleUser
	return s.CreateUser(reg)
}

// CreateUser creates an account with any role
func (s *UserService) CreateUser(reg Registration) (*domain.User, error) {
	reg.ID = strings.TrimSpace(reg.ID)
	if err := validation.NationalID(reg.ID); err != nil {
		return nil, err
	}
	if err := validation.Password(reg.Password); err != nil {
		return nil, err
	}
	if _, err := domain.ParseRole(string(reg.Role)); err != nil {
		return nil, fmt.Errorf("%w: %s", validation.ErrInvalidInput, err.Error())
	}
	profile := Profile{Name: reg.Name, Phone: reg.Phone, Email: reg.Email, BirthDate: reg.BirthDate}
	if err := validateProfile(profile); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(reg.Password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user := &domain.User{
		ID:           reg.ID,
		PasswordHash: hash,
		Role:         reg.Role,
		Name:         strings.TrimSpace(reg.Name),
		Phone:        reg.Phone,
		Email:        reg.Email,
		BirthDate:    reg.BirthDate,
	}
	if err := s.users.Create(user); err != nil {
		if !errors.Is(err, domain.ErrAlreadyExists) {
			s.logger.Error("failed to create user", slog.String("error", err.Error()))
		}
		return nil, err
	}

	s.logger.Info("user created",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)
	return user, nil
}

// Login authenticates a user and returns a JWT token
func (s *UserService) Login(id, secret string) (*LoginResult, error) {
	if id == "" || secret == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByID(id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Info("login attempt with unknown id", slog.String("user_id", id))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.hasher.Compare(user.PasswordHash, secret); err != nil {
		s.logger.Info("login failed with wrong password", slog.String("user_id", id))
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		s.logger.Error("failed to sign token", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("user logged in", slog.String("user_id", user.ID))

	return &LoginResult{
		UserID:    user.ID,
		Role:      user.Role,
		Token:     token,
		ExpiresIn: int(s.tokens.TTL().Seconds()),
		TokenType: "Bearer",
	}, nil
}

// ChangePassword changes a user's password after checking the current one
func (s *UserService) ChangePassword(id, oldPassword, newPassword string) error {
	user, err := s.users.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.hasher.Compare(user.PasswordHash, oldPassword); err != nil {
		return ErrInvalidCredentials
	}
	if err := s.setPassword(user, newPassword); err != nil {
		return err
	}
	s.logger.Info("user changed password", slog.String("user_id", id))
	return nil
}

// ResetPassword replaces a password without the current one; used by recovery
func (s *UserService) ResetPassword(id, newPassword string) error {
	user, err := s.users.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.setPassword(user, newPassword); err != nil {
		return err
	}
	s.logger.Info("user password reset", slog.String("user_id", id))
	return nil
}

func (s *UserService) setPassword(user *domain.User, newPassword string) error {
	if err := validation.Password(newPassword); err != nil {
		return err
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	user.PasswordHash = hash
	if err := s.users.Update(user); err != nil {
		s.logger.Error("failed to update user password", slog.String("error", err.Error()))
		return err
	}
	return nil
}

// UpdateProfile replaces the contact fields of a user
func (s *UserService) UpdateProfile(id string, p Profile) (*domain.User, error) {
	if err := validateProfile(p); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(id)
	if err != nil {
		return nil, err
	}
	user.Name = strings.TrimSpace(p.Name)
	user.Phone = p.Phone
	user.Email = p.Email
	if !p.BirthDate.IsZero() {
		user.BirthDate = p.BirthDate
	}
	if err := s.users.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes a user together with their questionnaire
func (s *UserService) Delete(id string) error {
	if err := s.users.Delete(id); err != nil {
		return err
	}
	if err := s.questionnaires.Delete(id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.logger.Error("failed to delete questionnaire",
			slog.String("user_id", id),
			slog.String("error", err.Error()),
		)
		return err
	}
	s.logger.Info("user deleted", slog.String("user_id", id))
	return nil
}

// Get returns a user by id
func (s *UserService) Get(id string) (*domain.User, error) {
	return s.users.GetByID(id)
}

// List returns every user
func (s *UserService) List() ([]*domain.User, error) {
	return s.users.List()
}

// ListByRole returns the users holding role
func (s *UserService) ListByRole(role domain.Role) ([]*domain.User, error) {
	return s.users.ListByRole(role)
}

// Search finds users whose name contains query, ignoring case
func (s *UserService) Search(query string) ([]*domain.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.users.List()
	}
	return s.users.FindByName(query)
}
