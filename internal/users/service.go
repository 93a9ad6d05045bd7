package users

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/campus-insights/campus-insights/internal/identity"
	"github.com/campus-insights/campus-insights/internal/platform/httpx"
)

const minPasswordLength = 8

// Store abstracts persistence for account management.
type Store interface {
	List(ctx context.Context) ([]User, error)
	Insert(ctx context.Context, input CreateInput, passwordHash string) (int64, error)
}

// Service manages dashboard accounts.
type Service struct {
	store Store
}

// NewService constructs a Service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns every managed account.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.store.List(ctx)
}

// Create validates and stores a new account. The password is hashed with
// bcrypt before it reaches the store.
func (s *Service) Create(ctx context.Context, input CreateInput) (User, error) {
	input.Username = strings.TrimSpace(strings.ToLower(input.Username))
	input.FullName = strings.TrimSpace(input.FullName)

	if input.Username == "" {
		return User{}, fmt.Errorf("%w: username is required", httpx.ErrValidation)
	}
	if len(input.Password) < minPasswordLength {
		return User{}, fmt.Errorf("%w: password must be at least %d characters", httpx.ErrValidation, minPasswordLength)
	}
	if _, ok := creatableRoles[input.Role]; !ok {
		return User{}, fmt.Errorf("%w: role %q cannot be provisioned", httpx.ErrValidation, input.Role)
	}
	// Scoped roles are useless without their anchor: a dean resolves to a
	// faculty and a head of department to a department.
	if input.Role == identity.RoleDean && input.FacultyID == nil {
		return User{}, fmt.Errorf("%w: dean accounts require faculty_id", httpx.ErrValidation)
	}
	if input.Role == identity.RoleHeadOfDepartment && input.DepartmentID == nil {
		return User{}, fmt.Errorf("%w: hod accounts require department_id", httpx.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("users: hash password: %w", err)
	}
	id, err := s.store.Insert(ctx, input, string(hash))
	if err != nil {
		return User{}, err
	}
	return User{
		ID:           id,
		Username:     input.Username,
		Role:         input.Role,
		FullName:     input.FullName,
		FacultyID:    input.FacultyID,
		DepartmentID: input.DepartmentID,
	}, nil
}
