// Package service contains the business rules. It sits between the HTTP
// handlers and the repositories and knows nothing about SQL; the only HTTP
// vocabulary it uses is the method name handed to the ownership check.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/sakif/snippets/internal/apperror"
	"github.com/sakif/snippets/internal/highlight"
	"github.com/sakif/snippets/internal/model"
	"github.com/sakif/snippets/internal/permission"
	"github.com/sakif/snippets/internal/repository"
)

const (
	MaxTitleLength   = 100 // characters, not bytes
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Highlighter is satisfied by *highlight.Registry.
type Highlighter interface {
	Languages() []highlight.Choice
	Styles() []highlight.Choice
	HasLanguage(id string) bool
	HasStyle(id string) bool
	Render(opts highlight.Options) (string, error)
}

// SnippetInput is the caller-settable part of a snippet. Empty Language and
// Style mean the defaults.
type SnippetInput struct {
	Title       string `json:"title"`
	Code        string `json:"code"`
	LineNumbers bool   `json:"linenos"`
	Language    string `json:"language"`
	Style       string `json:"style"`
}

// SnippetService handles business logic for code snippets.
type SnippetService struct {
	repo        repository.SnippetRepository
	highlighter Highlighter
	logger      *slog.Logger
}

func NewSnippetService(repo repository.SnippetRepository, highlighter Highlighter, logger *slog.Logger) *SnippetService {
	return &SnippetService{
		repo:        repo,
		highlighter: highlighter,
		logger:      logger,
	}
}

// normalize applies defaults and validates in. It runs before the save path
// so that render errors only mean a registry mismatch. Title and code are
// stored as given; code size is bounded by the request body limit only.
func (s *SnippetService) normalize(in SnippetInput) (SnippetInput, error) {
	in.Language = strings.TrimSpace(in.Language)
	in.Style = strings.TrimSpace(in.Style)

	if in.Language == "" {
		in.Language = highlight.DefaultLanguage
	}
	if in.Style == "" {
		in.Style = highlight.DefaultStyle
	}

	if strings.TrimSpace(in.Code) == "" {
		return in, apperror.ValidationFailed("code", "code is required")
	}
	if utf8.RuneCountInString(in.Title) > MaxTitleLength {
		return in, apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d characters or less", MaxTitleLength))
	}
	if !s.highlighter.HasLanguage(in.Language) {
		return in, apperror.ValidationFailed("language",
			fmt.Sprintf("%q is not a supported language", in.Language))
	}
	if !s.highlighter.HasStyle(in.Style) {
		return in, apperror.ValidationFailed("style",
			fmt.Sprintf("%q is not a supported style", in.Style))
	}

	return in, nil
}

func (in SnippetInput) applyTo(snippet *model.Snippet) {
	snippet.Title = in.Title
	snippet.Code = in.Code
	snippet.LineNumbers = in.LineNumbers
	snippet.Language = in.Language
	snippet.Style = in.Style
}

// save regenerates Highlighted from the snippet's current fields and then
// persists everything. If rendering fails nothing is written.
func (s *SnippetService) save(ctx context.Context, snippet *model.Snippet, isNew bool) error {
	rendered, err := s.highlighter.Render(highlight.Options{
		Code:        snippet.Code,
		Language:    snippet.Language,
		Style:       snippet.Style,
		Title:       snippet.Title,
		LineNumbers: snippet.LineNumbers,
	})
	if err != nil {
		return fmt.Errorf("service: highlighting snippet: %w", err)
	}
	snippet.Highlighted = rendered

	if isNew {
		return s.repo.Create(ctx, snippet)
	}
	return s.repo.Update(ctx, snippet)
}

// Create stores a new snippet owned by ownerID. The owner always comes from
// the authenticated request, never from the payload.
func (s *SnippetService) Create(ctx context.Context, ownerID string, in SnippetInput) (*model.Snippet, error) {
	if ownerID == "" {
		return nil, apperror.Unauthorized("authentication required to create snippets")
	}

	in, err := s.normalize(in)
	if err != nil {
		return nil, err
	}

	snippet := &model.Snippet{OwnerID: ownerID}
	in.applyTo(snippet)

	if err := s.save(ctx, snippet, true); err != nil {
		s.logger.Error("failed to create snippet",
			slog.String("owner", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating snippet: %w", err)
	}

	s.logger.Info("snippet created",
		slog.String("id", snippet.ID),
		slog.String("owner", ownerID),
		slog.String("language", snippet.Language),
	)
	return snippet, nil
}

// GetByID returns apperror.ErrNotFound if the snippet doesn't exist.
func (s *SnippetService) GetByID(ctx context.Context, id string) (*model.Snippet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "snippet ID is required")
	}
	return s.repo.GetByID(ctx, id)
}

// List returns a page of snippets, oldest first. limit is clamped to
// [1, MaxListLimit] with DefaultListLimit for non-positive values.
func (s *SnippetService) List(ctx context.Context, limit, offset int) ([]model.Snippet, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	snippets, err := s.repo.List(ctx, repository.ListOptions{Limit: limit, Offset: offset})
	if err != nil {
		s.logger.Error("failed to list snippets", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing snippets: %w", err)
	}
	return snippets, nil
}

// Update replaces every caller-settable field of the snippet and re-renders
// it. Only the owner may do this.
func (s *SnippetService) Update(ctx context.Context, requesterID, id string, in SnippetInput) (*model.Snippet, error) {
	snippet, err := s.authorize(ctx, http.MethodPut, requesterID, id)
	if err != nil {
		return nil, err
	}

	in, err = s.normalize(in)
	if err != nil {
		return nil, err
	}
	in.applyTo(snippet)

	if err := s.save(ctx, snippet, false); err != nil {
		s.logger.Error("failed to update snippet",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating snippet: %w", err)
	}

	s.logger.Info("snippet updated", slog.String("id", snippet.ID))
	return snippet, nil
}

// Delete removes the snippet. Only the owner may do this.
func (s *SnippetService) Delete(ctx context.Context, requesterID, id string) error {
	snippet, err := s.authorize(ctx, http.MethodDelete, requesterID, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, snippet.ID); err != nil {
		return err
	}

	s.logger.Info("snippet deleted", slog.String("id", id), slog.String("by", requesterID))
	return nil
}

// authorize loads the snippet and runs the ownership check for method.
func (s *SnippetService) authorize(ctx context.Context, method, requesterID, id string) (*model.Snippet, error) {
	snippet, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !permission.IsOwnerOrReadOnly(method, requesterID, snippet) {
		if requesterID == "" {
			return nil, apperror.Unauthorized("authentication required")
		}
		s.logger.Warn("snippet write denied",
			slog.String("id", id),
			slog.String("method", method),
			slog.String("requester", requesterID),
		)
		return nil, apperror.Forbidden("only the owner may modify this snippet")
	}

	return snippet, nil
}

// Languages and Styles expose the choice tables to handlers.
func (s *SnippetService) Languages() []highlight.Choice {
	return s.highlighter.Languages()
}

func (s *SnippetService) Styles() []highlight.Choice {
	return s.highlighter.Styles()
}
