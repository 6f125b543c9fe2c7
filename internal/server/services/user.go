// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login and the admin user listing.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/timekeeper/internal/common"
	"github.com/dmitrijs2005/timekeeper/internal/cryptox"
	"github.com/dmitrijs2005/timekeeper/internal/server/auth"
	"github.com/dmitrijs2005/timekeeper/internal/server/config"
	"github.com/dmitrijs2005/timekeeper/internal/server/models"
	"github.com/dmitrijs2005/timekeeper/internal/server/repositories/repomanager"
)

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token string
	User  LoginUser
}

// LoginUser is the part of the account echoed back to the client at login.
type LoginUser struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// UserService provides authentication-related operations:
// - Register / CreateUser: create users with a bcrypt-hashed password
// - Login: verify credentials and mint an access token
// - ListUsers: admin listing
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Register creates a user and returns its id. An empty role means employee.
// The caller-supplied role is trusted as is.
func (s *UserService) Register(ctx context.Context, name, email, password, role string) (int64, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return 0, common.ErrMissingFields
	}
	if role == "" {
		role = models.RoleEmployee
	}
	if !models.ValidRole(role) {
		return 0, common.ErrInvalidRole
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return 0, common.ErrUserAlreadyExists
	case !errors.Is(err, common.ErrorNotFound):
		return 0, fmt.Errorf("error looking up user: %w", err)
	}

	hash, err := cryptox.HashPassword([]byte(password))
	if err != nil {
		return 0, fmt.Errorf("error hashing password: %w", err)
	}

	u, err := repo.Create(ctx, &models.User{Name: name, Email: email, PasswordHash: hash, Role: role})
	if err != nil {
		if errors.Is(err, common.ErrUserAlreadyExists) {
			return 0, err
		}
		return 0, fmt.Errorf("error creating user: %w", err)
	}
	return u.ID, nil
}

// CreateUser is the admin variant of Register.
func (s *UserService) CreateUser(ctx context.Context, name, email, password, role string) (int64, error) {
	return s.Register(ctx, name, email, password, role)
}

// Login verifies the password and returns a signed access token. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error looking up user: %w", err)
	}

	ok, err := cryptox.CheckPassword(user.PasswordHash, []byte(password))
	if err != nil || !ok {
		return nil, common.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Role, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &LoginResult{
		Token: token,
		User:  LoginUser{ID: user.ID, Name: user.Name, Role: user.Role},
	}, nil
}

// ListUsers returns every account ordered by id.
func (s *UserService) ListUsers(ctx context.Context) ([]*models.UserSummary, error) {
	users, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	return users, nil
}
