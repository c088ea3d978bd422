package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/shopcart/internal/domain"
	"github.com/aryan0dhankhar/shopcart/internal/validation"
)

func TestRegisterAndLogin(t *testing.T) {
	e := newEnv(t)

	reg := registration(aliceID)
	reg.Role = domain.RoleAdmin
	u, err := e.users.Register(reg)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, u.Role, "self registration is always USER")
	assert.NotEqual(t, "Secret_1", u.PasswordHash)

	res, err := e.users.Login(aliceID, "Secret_1")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", res.TokenType)
	assert.Equal(t, 60, res.ExpiresIn)

	claims, err := e.tokens.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, aliceID, claims.UserID)
	assert.Equal(t, domain.RoleUser, claims.Role)

	_, err = e.users.Login(aliceID, "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = e.users.Login(bobID, "Secret_1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	e := newEnv(t)

	cases := map[string]struct {
		mutate func(*Registration)
		want   error
	}{
		"bad id":       {func(r *Registration) { r.ID = "1710034064" }, validation.ErrInvalidID},
		"bad password": {func(r *Registration) { r.Password = "secret" }, validation.ErrInvalidPassword},
		"bad phone":    {func(r *Registration) { r.Phone = "099-123" }, validation.ErrInvalidPhone},
		"bad email":    {func(r *Registration) { r.Email = "alice@" }, validation.ErrInvalidEmail},
		"no name":      {func(r *Registration) { r.Name = "  " }, validation.ErrInvalidInput},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			reg := registration(aliceID)
			tc.mutate(&reg)
			_, err := e.users.Register(reg)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	all, err := e.users.List()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRegisterDuplicate(t *testing.T) {
	e := newEnv(t)
	e.register(t, aliceID)

	_, err := e.users.Register(registration(aliceID))
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestCreateUserWithRole(t *testing.T) {
	e := newEnv(t)

	reg := registration(aliceID)
	reg.Role = domain.RoleAdmin
	u, err := e.users.CreateUser(reg)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)

	reg = registration(bobID)
	reg.Role = "GUEST"
	_, err = e.users.CreateUser(reg)
	assert.ErrorIs(t, err, validation.ErrInvalidInput)

	admins, err := e.users.ListByRole(domain.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, aliceID, admins[0].ID)
}

func TestChangePassword(t *testing.T) {
	e := newEnv(t)
	e.register(t, aliceID)

	assert.ErrorIs(t, e.users.ChangePassword(aliceID, "nope", "Other_22"), ErrInvalidCredentials)
	assert.ErrorIs(t, e.users.ChangePassword(aliceID, "Secret_1", "weak"), validation.ErrInvalidPassword)
	require.NoError(t, e.users.ChangePassword(aliceID, "Secret_1", "Other_22"))

	_, err := e.users.Login(aliceID, "Secret_1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = e.users.Login(aliceID, "Other_22")
	assert.NoError(t, err)
}

func TestUpdateProfile(t *testing.T) {
	e := newEnv(t)
	e.register(t, aliceID)

	u, err := e.users.UpdateProfile(aliceID, Profile{Name: "Alicia", Phone: "0987654321", Email: "alicia@example.org"})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", u.Name)
	assert.Equal(t, 1990, u.BirthDate.Year(), "zero birth date keeps the stored one")

	_, err = e.users.UpdateProfile(aliceID, Profile{Name: "Alicia", Phone: "1", Email: "alicia@example.org"})
	assert.ErrorIs(t, err, validation.ErrInvalidPhone)

	_, err = e.users.UpdateProfile(bobID, Profile{Name: "Bob", Phone: "0987654321", Email: "bob@example.org"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteUserRemovesQuestionnaire(t *testing.T) {
	e := newEnv(t)
	e.register(t, aliceID)
	e.register(t, bobID)

	_, err := e.questionnaires.SaveAnswers(aliceID, map[int]string{1: "Quito"})
	require.NoError(t, err)

	require.NoError(t, e.users.Delete(aliceID))
	_, err = e.repos.Questionnaires.GetByOwner(aliceID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, e.users.Delete(bobID), "users without a questionnaire delete cleanly")
	assert.True(t, errors.Is(e.users.Delete(bobID), domain.ErrNotFound))
}

func TestSearchUsers(t *testing.T) {
	e := newEnv(t)
	e.register(t, aliceID)
	reg := registration(bobID)
	reg.Name = "Bob Benitez"
	_, err := e.users.Register(reg)
	require.NoError(t, err)

	found, err := e.users.Search("ANDRADE")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, aliceID, found[0].ID)

	all, err := e.users.Search("")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
