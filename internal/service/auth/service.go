package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jwalitptl/dental-admin/internal/model"
	"github.com/jwalitptl/dental-admin/internal/repository"
	apperrors "github.com/jwalitptl/dental-admin/pkg/errors"
	"github.com/jwalitptl/dental-admin/pkg/metrics"
	"github.com/jwalitptl/dental-admin/pkg/security"
	"github.com/jwalitptl/dental-admin/pkg/validator"
)

// AdminUsername is the account created on first start.
const AdminUsername = "admin"

// Recorder receives login outcomes.
type Recorder interface {
	LoginAttempt(outcome string)
}

type Service struct {
	users     repository.UserRepository
	hasher    security.PasswordHasher
	validator validator.Validator
	recorder  Recorder
}

func NewService(users repository.UserRepository, hasher security.PasswordHasher, v validator.Validator, recorder Recorder) *Service {
	return &Service{
		users:     users,
		hasher:    hasher,
		validator: v,
		recorder:  recorder,
	}
}

func (s *Service) record(outcome string) {
	if s.recorder != nil {
		s.recorder.LoginAttempt(outcome)
	}
}

// Login checks the credentials and returns the identity to put in the
// session. Unknown usernames and wrong passwords fail the same way.
func (s *Service) Login(ctx context.Context, form model.LoginForm) (*model.Identity, error) {
	form.Username = strings.TrimSpace(form.Username)
	if fields := s.validator.Validate(form); fields != nil {
		return nil, apperrors.Validation(fields)
	}

	user, err := s.users.GetByUsername(ctx, form.Username)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up user: %w", err)
		}
		s.hasher.CompareDummy(form.Password)
		s.record(metrics.LoginFailure)
		return nil, apperrors.Unauthorized(model.ErrInvalidCredentials)
	}

	if err := s.hasher.Compare(user.PasswordHash, form.Password); err != nil {
		s.record(metrics.LoginFailure)
		return nil, apperrors.Unauthorized(model.ErrInvalidCredentials)
	}

	s.record(metrics.LoginSuccess)
	return &model.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}, nil
}

// CreateUser adds a staff or admin account.
func (s *Service) CreateUser(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	if fields := s.validator.Validate(req); fields != nil {
		return nil, apperrors.Validation(fields)
	}

	_, err := s.users.GetByUsername(ctx, req.Username)
	switch {
	case err == nil:
		return nil, apperrors.Conflict(fmt.Sprintf("user %q already exists", req.Username), nil)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     req.Username,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         req.Role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// EnsureAdmin creates the admin account with password if it does not exist.
// It reports whether an account was created.
func (s *Service) EnsureAdmin(ctx context.Context, password string) (bool, error) {
	_, err := s.users.GetByUsername(ctx, AdminUsername)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, fmt.Errorf("failed to look up admin: %w", err)
	}

	_, err = s.CreateUser(ctx, model.CreateUserRequest{
		Username: AdminUsername,
		Password: password,
		Name:     "Administrator",
		Role:     model.RoleAdmin,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
