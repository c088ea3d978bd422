package security

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aryan0dhankhar/shopcart/internal/domain"
)

func TestRolePermissions(t *testing.T) {
	as := NewAuthorizationService(nil)

	assert.True(t, as.HasPermission(domain.RoleAdmin, PermManageProducts))
	assert.True(t, as.HasPermission(domain.RoleUser, PermUseCarts))
	assert.False(t, as.HasPermission(domain.RoleUser, PermManageProducts))
	assert.False(t, as.HasPermission(domain.RoleUser, PermManageUsers))
	assert.False(t, as.HasPermission(domain.Role("GUEST"), PermReadProducts))

	assert.ErrorIs(t, as.ValidatePermission(domain.RoleUser, PermManageUsers), ErrForbidden)
	assert.NoError(t, as.ValidatePermission(domain.RoleAdmin, PermManageUsers))
}

func TestCartAccess(t *testing.T) {
	as := NewAuthorizationService(nil)
	cart := &domain.Cart{Code: 1, OwnerID: "a"}

	assert.NoError(t, as.ValidateCartAccess("a", domain.RoleUser, cart))
	assert.NoError(t, as.ValidateCartAccess("admin", domain.RoleAdmin, cart))
	assert.ErrorIs(t, as.ValidateCartAccess("b", domain.RoleUser, cart), ErrForbidden)
}

func TestSelfOrAdmin(t *testing.T) {
	as := NewAuthorizationService(nil)

	assert.NoError(t, as.ValidateSelfOrAdmin("a", domain.RoleUser, "a"))
	assert.NoError(t, as.ValidateSelfOrAdmin("x", domain.RoleAdmin, "a"))
	assert.ErrorIs(t, as.ValidateSelfOrAdmin("b", domain.RoleUser, "a"), ErrForbidden)
}
