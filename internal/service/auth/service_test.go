package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/dental-admin/internal/model"
	"github.com/jwalitptl/dental-admin/internal/repository/memory"
	apperrors "github.com/jwalitptl/dental-admin/pkg/errors"
	"github.com/jwalitptl/dental-admin/pkg/metrics"
	"github.com/jwalitptl/dental-admin/pkg/security"
	"github.com/jwalitptl/dental-admin/pkg/validator"
)

type recorder struct {
	outcomes []string
}

func (r *recorder) LoginAttempt(outcome string) {
	r.outcomes = append(r.outcomes, outcome)
}

func setup(t *testing.T) (*Service, *recorder) {
	t.Helper()
	rec := &recorder{}
	store := memory.NewStore()
	svc := NewService(store.Users(), security.NewBcryptHasher(bcrypt.MinCost), validator.New(), rec)

	created, err := svc.EnsureAdmin(context.Background(), "admin123")
	require.NoError(t, err)
	require.True(t, created)
	return svc, rec
}

func TestEnsureAdminIdempotent(t *testing.T) {
	svc, _ := setup(t)

	created, err := svc.EnsureAdmin(context.Background(), "another-password")
	require.NoError(t, err)
	assert.False(t, created)

	// the original password still works
	_, err = svc.Login(context.Background(), model.LoginForm{Username: "admin", Password: "admin123"})
	assert.NoError(t, err)
}

func TestLoginSuccess(t *testing.T) {
	svc, rec := setup(t)

	id, err := svc.Login(context.Background(), model.LoginForm{Username: "admin", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, "admin", id.Username)
	assert.Equal(t, model.RoleAdmin, id.Role)
	assert.NotZero(t, id.UserID)
	assert.Equal(t, []string{metrics.LoginSuccess}, rec.outcomes)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, rec := setup(t)
	ctx := context.Background()

	_, wrongPassword := svc.Login(ctx, model.LoginForm{Username: "admin", Password: "nope"})
	_, unknownUser := svc.Login(ctx, model.LoginForm{Username: "ghost", Password: "nope"})

	require.Error(t, wrongPassword)
	require.Error(t, unknownUser)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
	assert.True(t, apperrors.Is(wrongPassword, apperrors.ErrUnauthorized))
	assert.True(t, apperrors.Is(unknownUser, apperrors.ErrUnauthorized))
	assert.ErrorIs(t, unknownUser, model.ErrInvalidCredentials)
	assert.Equal(t, []string{metrics.LoginFailure, metrics.LoginFailure}, rec.outcomes)
}

func TestLoginRequiresFields(t *testing.T) {
	svc, _ := setup(t)

	_, err := svc.Login(context.Background(), model.LoginForm{Username: " "})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Fields, "username")
	assert.Contains(t, appErr.Fields, "password")
}

func TestCreateUser(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	u, err := svc.CreateUser(ctx, model.CreateUserRequest{Username: "sam", Password: "s3cret-pass", Name: "Sam", Role: model.RoleStaff})
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", u.PasswordHash)

	_, err = svc.CreateUser(ctx, model.CreateUserRequest{Username: "sam", Password: "s3cret-pass", Role: model.RoleStaff})
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))

	_, err = svc.CreateUser(ctx, model.CreateUserRequest{Username: "kim", Password: "short", Role: "owner"})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Fields, "password")
	assert.Contains(t, appErr.Fields, "role")
}
