// Package auth supplies the authentication collaborator: account signup and
// login, JWT issuance and verification, and role/branch scope resolution for
// the coordinators.
package auth

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mukwano/agrotrack/internal/domain/errs"
	"github.com/mukwano/agrotrack/internal/domain/models"
)

var phonePattern = regexp.MustCompile(`^(\+256|0)[0-9]{9}$`)

// UserStore persists accounts. Implemented by mongodb.UserRepository.
type UserStore interface {
	Insert(ctx context.Context, user models.User) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, bool, error)
}

// Service handles signup and login.
type Service struct {
	store    UserStore
	secret   string
	tokenTTL time.Duration
	logger   *zap.Logger
}

// NewService constructs the auth service.
func NewService(store UserStore, secret string, tokenTTL time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, secret: secret, tokenTTL: tokenTTL, logger: logger}
}

// SignupInput is a request to create an account.
type SignupInput struct {
	FullName string
	Username string
	Phone    string
	Branch   string
	Role     string
	Password string
}

// Signup creates a new account. Directors are stored without a branch
// regardless of input; every other role must name one.
func (s *Service) Signup(ctx context.Context, in SignupInput) (models.User, error) {
	role, ok := models.ParseRole(in.Role)
	if !ok {
		return models.User{}, errs.InvalidInput("unknown role %q", in.Role)
	}

	user := models.User{
		FullName: strings.TrimSpace(in.FullName),
		Username: strings.TrimSpace(in.Username),
		Phone:    strings.TrimSpace(in.Phone),
		Role:     role,
	}
	switch {
	case len(user.FullName) < 2:
		return models.User{}, errs.InvalidInput("full name must be at least 2 characters")
	case len(user.Username) < 2:
		return models.User{}, errs.InvalidInput("username must be at least 2 characters")
	case !phonePattern.MatchString(user.Phone):
		return models.User{}, errs.InvalidInput("invalid phone number format")
	case len(in.Password) < 6:
		return models.User{}, errs.InvalidInput("password must be at least 6 characters")
	}

	if role != models.RoleDirector {
		branch, ok := models.ParseBranch(in.Branch)
		if !ok {
			return models.User{}, errs.InvalidInput("a valid branch is required for role %s", role)
		}
		user.Branch = &branch
	}

	if _, exists, err := s.store.FindByUsername(ctx, user.Username); err != nil {
		return models.User{}, errs.Storage("signup", err)
	} else if exists {
		return models.User{}, errs.InvalidInput("username %q is already taken", user.Username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, errs.Storage("password hash", err)
	}
	user.PasswordHash = string(hash)

	created, err := s.store.Insert(ctx, user)
	if err != nil {
		return models.User{}, errs.Storage("signup", err)
	}

	s.logger.Info("user created",
		zap.String("username", created.Username),
		zap.String("role", string(created.Role)))
	return created, nil
}

// Login verifies credentials and issues a bearer token.
func (s *Service) Login(ctx context.Context, username, password string) (string, models.User, error) {
	user, found, err := s.store.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return "", models.User{}, errs.Storage("login", err)
	}
	if !found {
		return "", models.User{}, errs.Unauthorized("invalid username or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", models.User{}, errs.Unauthorized("invalid username or password")
	}

	token, err := IssueToken(s.secret, user, s.tokenTTL)
	if err != nil {
		return "", models.User{}, errs.Storage("token issue", err)
	}
	return token, user, nil
}
