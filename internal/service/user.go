package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/snippets/internal/apperror"
	"github.com/sakif/snippets/internal/model"
	"github.com/sakif/snippets/internal/repository"
)

// UserService exposes accounts together with the ids of their snippets.
type UserService struct {
	users    repository.UserRepository
	snippets repository.SnippetRepository
	logger   *slog.Logger
}

func NewUserService(users repository.UserRepository, snippets repository.SnippetRepository, logger *slog.Logger) *UserService {
	return &UserService{users: users, snippets: snippets, logger: logger}
}

func (s *UserService) withSnippets(ctx context.Context, u *model.User) error {
	ids, err := s.snippets.ListIDsByOwner(ctx, u.ID)
	if err != nil {
		return fmt.Errorf("service/user: listing snippets of %s: %w", u.ID, err)
	}
	u.Snippets = ids
	return nil
}

// Get returns the user with their snippet ids.
func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperror.ValidationFailed("id", "user ID is required")
	}

	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.withSnippets(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// List returns a page of users, each with their snippet ids.
func (s *UserService) List(ctx context.Context, limit, offset int) ([]model.User, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	users, err := s.users.ListUsers(ctx, repository.ListOptions{Limit: limit, Offset: offset})
	if err != nil {
		return nil, fmt.Errorf("service/user: listing users: %w", err)
	}
	for i := range users {
		if err := s.withSnippets(ctx, &users[i]); err != nil {
			return nil, err
		}
	}
	return users, nil
}

// Delete removes the account and, through the storage cascade, every
// snippet it owns. Users can only delete themselves.
func (s *UserService) Delete(ctx context.Context, requesterID, id string) error {
	if requesterID == "" {
		return apperror.Unauthorized("authentication required")
	}
	if requesterID != id {
		return apperror.Forbidden("users may only delete their own account")
	}

	if err := s.users.DeleteUser(ctx, id); err != nil {
		return err
	}

	s.logger.Info("account deleted", slog.String("userID", id))
	return nil
}
