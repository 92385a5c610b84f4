// Package repository declares the storage contracts the service layer depends on.
// internal/repository/sqlite is the only production implementation.
package repository

import (
	"context"

	"github.com/sakif/snippets/internal/model"
)

type ListOptions struct {
	Limit  int
	Offset int
}

// SnippetRepository persists snippets. List returns snippets oldest first.
type SnippetRepository interface {
	Create(ctx context.Context, snippet *model.Snippet) error
	GetByID(ctx context.Context, id string) (*model.Snippet, error)
	List(ctx context.Context, opts ListOptions) ([]model.Snippet, error)
	ListIDsByOwner(ctx context.Context, ownerID string) ([]string, error)
	Update(ctx context.Context, snippet *model.Snippet) error
	Delete(ctx context.Context, id string) error
}

// UserRepository persists accounts. DeleteUser also removes the user's snippets.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	UpsertGitHubUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	ListUsers(ctx context.Context, opts ListOptions) ([]model.User, error)
	DeleteUser(ctx context.Context, id string) error
}
