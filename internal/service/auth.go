package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/sakif/snippets/internal/apperror"
	"github.com/sakif/snippets/internal/auth"
	"github.com/sakif/snippets/internal/model"
	"github.com/sakif/snippets/internal/repository"
)

const (
	MinPasswordLength = 8
	MaxUsernameLength = 150
)

// Letters, digits and @.+-_ only.
var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9@.+\-_]+$`)

// errBadCredentials covers both unknown usernames and wrong passwords.
var errBadCredentials = apperror.Unauthorized("invalid username or password")

// AuthService registers accounts and turns credentials into access tokens.
// tokens may be nil for callers that only create accounts (the CLI).
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the user with a freshly issued token so the handler can
// set the cookie and respond in one step.
type AuthResult struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// CreateAccount validates and stores a username/password account.
func (s *AuthService) CreateAccount(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)

	switch {
	case username == "":
		return nil, apperror.ValidationFailed("username", "username is required")
	case len(username) > MaxUsernameLength:
		return nil, apperror.ValidationFailed("username",
			fmt.Sprintf("username must be %d characters or less", MaxUsernameLength))
	case !usernamePattern.MatchString(username):
		return nil, apperror.ValidationFailed("username",
			"username may only contain letters, digits and @/./+/-/_")
	case len(password) < MinPasswordLength:
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, apperror.ValidationFailed("password", err.Error())
		}
		return nil, fmt.Errorf("service/auth: %w", err)
	}

	user := &model.User{Username: username, PasswordHash: hash}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("account created",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)
	return user, nil
}

// Register creates an account and logs it in.
func (s *AuthService) Register(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.CreateAccount(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// Login checks a username/password pair.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, errBadCredentials
		}
		return nil, fmt.Errorf("service/auth: looking up %s: %w", username, err)
	}

	// GitHub-only accounts have no password to match.
	if user.PasswordHash == "" {
		return nil, errBadCredentials
	}
	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrInvalidPassword) {
			s.logger.Info("login rejected", slog.String("username", user.Username))
			return nil, errBadCredentials
		}
		return nil, fmt.Errorf("service/auth: %w", err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))
	return s.issue(user)
}

// LoginOrRegisterGitHub creates the account on first GitHub login, refreshes
// the profile on later ones, and issues a token either way.
func (s *AuthService) LoginOrRegisterGitHub(ctx context.Context, ghUser *auth.GitHubUser) (*AuthResult, error) {
	if ghUser == nil {
		return nil, fmt.Errorf("service/auth: GitHub user must not be nil")
	}

	user := &model.User{
		GitHubID:  ghUser.ID,
		Username:  ghUser.Login,
		Email:     ghUser.Email,
		AvatarURL: ghUser.AvatarURL,
	}
	if err := s.users.UpsertGitHubUser(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: upserting user (githubID=%d): %w", ghUser.ID, err)
	}

	s.logger.Info("user authenticated via GitHub",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)
	return s.issue(user)
}

func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	if s.tokens == nil {
		return nil, fmt.Errorf("service/auth: token issuing is not configured")
	}
	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}
	return &AuthResult{User: user, Token: token}, nil
}
