package security

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aryan0dhankhar/shopcart/internal/domain"
)

// ErrForbidden is returned when a role or identity may not perform an action
var ErrForbidden = errors.New("forbidden")

// Permission represents an action permission
type Permission string

const (
	PermManageProducts Permission = "manage_products"
	PermReadProducts   Permission = "read_products"
	PermManageUsers    Permission = "manage_users"
	PermUseCarts       Permission = "use_carts"
	PermReadAllCarts   Permission = "read_all_carts"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[domain.Role][]Permission{
	domain.RoleAdmin: {
		PermManageProducts,
		PermReadProducts,
		PermManageUsers,
		PermUseCarts,
		PermReadAllCarts,
	},
	domain.RoleUser: {
		PermReadProducts,
		PermUseCarts,
	},
}

// AuthorizationService handles authorization checks
type AuthorizationService struct {
	logger *slog.Logger
}

// NewAuthorizationService creates a new authorization service
func NewAuthorizationService(logger *slog.Logger) *AuthorizationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthorizationService{
		logger: logger,
	}
}

// HasPermission checks if a role has a specific permission
func (as *AuthorizationService) HasPermission(role domain.Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}
	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// ValidatePermission validates that a role has a specific permission
func (as *AuthorizationService) ValidatePermission(role domain.Role, permission Permission) error {
	if !as.HasPermission(role, permission) {
		as.logger.Warn("permission denied",
			slog.String("role", string(role)),
			slog.String("permission", string(permission)),
		)
		return fmt.Errorf("%s role cannot %s: %w", role, permission, ErrForbidden)
	}
	return nil
}

// ValidateCartAccess allows the cart owner and anyone who may read all carts
func (as *AuthorizationService) ValidateCartAccess(userID string, role domain.Role, cart *domain.Cart) error {
	if cart.OwnerID == userID || as.HasPermission(role, PermReadAllCarts) {
		return nil
	}
	as.logger.Warn("cart access denied",
		slog.String("user_id", userID),
		slog.Int("cart_code", cart.Code),
	)
	return fmt.Errorf("cart %d: %w", cart.Code, ErrForbidden)
}

// ValidateSelfOrAdmin allows a user to act on their own record, and admins on any
func (as *AuthorizationService) ValidateSelfOrAdmin(userID string, role domain.Role, targetID string) error {
	if userID == targetID || as.HasPermission(role, PermManageUsers) {
		return nil
	}
	as.logger.Warn("user access denied",
		slog.String("user_id", userID),
		slog.String("target_id", targetID),
	)
	return fmt.Errorf("user %s: %w", targetID, ErrForbidden)
}
