package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Skotchmaster/inventory/internal/hash"
	"github.com/Skotchmaster/inventory/internal/logging"
	"github.com/Skotchmaster/inventory/internal/models"
	"github.com/Skotchmaster/inventory/internal/policy"
	"github.com/Skotchmaster/inventory/internal/repo"
	"github.com/Skotchmaster/inventory/internal/transport"
)

type UserService struct {
	Repo *repo.UserRepo
}

func NewUserService(r *repo.UserRepo) *UserService {
	return &UserService{Repo: r}
}

// dummyHash is compared against when the username is unknown so both
// failure paths pay for one bcrypt comparison.
var dummyHash = sync.OnceValue(func() string {
	h, _ := hash.HashPassword("not-a-real-password")
	return h
})

// Authenticate returns the account for valid credentials and nil otherwise.
// An unknown username and a wrong password are indistinguishable.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	u, err := s.Repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		hash.CheckPassword(dummyHash(), password)
		return nil, nil
	}
	if !hash.CheckPassword(u.PasswordHash, password) {
		return nil, nil
	}
	return u, nil
}

func (s *UserService) GetAll(ctx context.Context) ([]models.User, error) {
	return s.Repo.FindAll(ctx)
}

func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	key, ok := parseID(id)
	if !ok {
		return nil, fmt.Errorf("%w: user %s not found", ErrNotFound, id)
	}
	u, err := s.Repo.FindByID(ctx, key)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: user %s not found", ErrNotFound, id)
	}
	return u, nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := s.Repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: user %s not found", ErrNotFound, username)
	}
	return u, nil
}

func (s *UserService) Create(ctx context.Context, req transport.CreateUserRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "user.create")

	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: 'username' must be a non-empty string", ErrValidation)
	}
	if strings.TrimSpace(req.Password) == "" {
		return nil, fmt.Errorf("%w: 'password' must be a non-empty string", ErrValidation)
	}
	email, err := userEmail(req.Email)
	if err != nil {
		return nil, err
	}
	role, err := policy.ParseRole(req.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}

	if u, err := s.Repo.FindByUsername(ctx, username); err != nil {
		return nil, err
	} else if u != nil {
		return nil, fmt.Errorf("%w: username already exists", ErrConflict)
	}
	if u, err := s.Repo.FindByEmail(ctx, email); err != nil {
		return nil, err
	} else if u != nil {
		return nil, fmt.Errorf("%w: email already in use", ErrConflict)
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("create_user_error", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	u := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
		Role:         string(role),
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		l.Error("create_user_error", "error", err)
		return nil, err
	}
	l.Info("user_created", "username", u.Username, "role", u.Role)
	return u, nil
}

// Update changes the supplied fields of username on behalf of acting.
// Nobody may change their own role.
func (s *UserService) Update(ctx context.Context, username string, req transport.UpdateUserRequest, acting string) (*models.User, error) {
	u, err := s.Repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: user %s not found", ErrNotFound, username)
	}

	if acting == username && req.Role != nil && *req.Role != u.Role {
		return nil, fmt.Errorf("%w: you cannot change your own role", ErrForbidden)
	}

	var pwHash, email, role string
	if req.Password != nil {
		if strings.TrimSpace(*req.Password) == "" {
			return nil, fmt.Errorf("%w: 'password' must be a non-empty string", ErrValidation)
		}
		if pwHash, err = hash.HashPassword(*req.Password); err != nil {
			return nil, err
		}
	}
	if req.Email != nil {
		if email, err = userEmail(*req.Email); err != nil {
			return nil, err
		}
		other, err := s.Repo.FindByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != u.ID {
			return nil, fmt.Errorf("%w: email already in use", ErrConflict)
		}
	}
	if req.Role != nil {
		r, err := policy.ParseRole(*req.Role)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
		}
		role = string(r)
	}

	updated, err := s.Repo.Update(ctx, u.ID, func(u *models.User) error {
		if pwHash != "" {
			u.PasswordHash = pwHash
		}
		if email != "" {
			u.Email = email
		}
		if role != "" {
			u.Role = role
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("%w: user %s not found", ErrNotFound, username)
	}
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, username, acting string) (*models.User, error) {
	if acting == username {
		return nil, fmt.Errorf("%w: you cannot delete your own account", ErrForbidden)
	}
	u, err := s.Repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: user %s not found", ErrNotFound, username)
	}
	removed, err := s.Repo.Delete(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	if removed == nil {
		return nil, fmt.Errorf("%w: user %s not found", ErrNotFound, username)
	}
	return removed, nil
}

// SeedAdmin creates an admin account unless username is already taken.
// created reports whether a new account was written.
func (s *UserService) SeedAdmin(ctx context.Context, username, password, email string) (u *models.User, created bool, err error) {
	existing, err := s.Repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}
	u, err = s.Create(ctx, transport.CreateUserRequest{
		Username: username,
		Password: password,
		Email:    email,
		Role:     string(policy.RoleAdmin),
	})
	if err != nil {
		return nil, false, err
	}
	return u, true, nil
}

func userEmail(s string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(s))
	if email == "" {
		return "", fmt.Errorf("%w: 'email' must be a non-empty string", ErrValidation)
	}
	if !validEmail(email) {
		return "", fmt.Errorf("%w: 'email' must be a valid email address", ErrValidation)
	}
	return email, nil
}
