package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mfarias-dev/puntoventa-backend/pkg/db"
	"github.com/mfarias-dev/puntoventa-backend/pkg/enums"
	pkgerrors "github.com/mfarias-dev/puntoventa-backend/pkg/errors"
)

// CreateUserInput is the admin-facing payload for a new operator account.
type CreateUserInput struct {
	Email    string
	Username string
	Password string
	Role     enums.Role
}

// Service exposes account administration operations.
type Service interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*UserDTO, error)
	ListUsers(ctx context.Context) ([]UserDTO, error)
	GetUser(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	ChangeRole(ctx context.Context, actorID, targetID uuid.UUID, role enums.Role) (*UserDTO, error)
	SetActive(ctx context.Context, actorID, targetID uuid.UUID, active bool) (*UserDTO, error)
}

type passwordHasher interface {
	Hash(password string) (string, error)
}

type service struct {
	repo   *Repository
	hasher passwordHasher
}

// NewService constructs a users service instance.
func NewService(repo *Repository, hasher passwordHasher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if hasher == nil {
		return nil, fmt.Errorf("password hasher required")
	}
	return &service{repo: repo, hasher: hasher}, nil
}

func (s *service) CreateUser(ctx context.Context, input CreateUserInput) (*UserDTO, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	username := strings.TrimSpace(input.Username)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	if len(input.Password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}
	role := input.Role
	if role == "" {
		role = enums.RoleWorker
	}
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.repo.Create(ctx, CreateUserDTO{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}
	return FromModel(user), nil
}

func (s *service) ListUsers(ctx context.Context) ([]UserDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	out := make([]UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) GetUser(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return FromModel(user), nil
}

// ChangeRole updates the target user's role. An admin cannot demote their own
// account; some other admin has to do it, so the system never loses its last
// administrator by accident.
func (s *service) ChangeRole(ctx context.Context, actorID, targetID uuid.UUID, role enums.Role) (*UserDTO, error) {
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}
	if actorID == targetID && role != enums.RoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "you cannot remove your own administrator role")
	}
	if _, err := s.repo.FindByID(ctx, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}

	updated, err := s.repo.UpdateRole(ctx, targetID, role)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update role")
	}
	return FromModel(updated), nil
}

// SetActive enables or disables the target account. Admins cannot deactivate
// themselves.
func (s *service) SetActive(ctx context.Context, actorID, targetID uuid.UUID, active bool) (*UserDTO, error) {
	if actorID == targetID && !active {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "you cannot deactivate your own account")
	}
	if _, err := s.repo.FindByID(ctx, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}

	updated, err := s.repo.SetActive(ctx, targetID, active)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update active flag")
	}
	return FromModel(updated), nil
}
