package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/sakif/snippets/internal/apperror"
	"github.com/sakif/snippets/internal/highlight"
	"github.com/sakif/snippets/internal/model"
	"github.com/sakif/snippets/internal/repository"
)

// =========================================================================
// FAKES
// =========================================================================

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockSnippetRepo implements repository.SnippetRepository in memory. It keeps
// insertion order so List behaves like the oldest-first SQL query.
type mockSnippetRepo struct {
	snippets map[string]*model.Snippet
	order    []string
	nextID   int
	writes   int
}

func newMockRepo() *mockSnippetRepo {
	return &mockSnippetRepo{snippets: make(map[string]*model.Snippet)}
}

func (m *mockSnippetRepo) Create(_ context.Context, snippet *model.Snippet) error {
	m.nextID++
	m.writes++
	snippet.ID = fmt.Sprintf("mock-%d", m.nextID)
	snippet.CreatedAt = time.Now().UTC()
	snippet.UpdatedAt = snippet.CreatedAt
	stored := *snippet
	m.snippets[snippet.ID] = &stored
	m.order = append(m.order, snippet.ID)
	return nil
}

func (m *mockSnippetRepo) GetByID(_ context.Context, id string) (*model.Snippet, error) {
	snippet, ok := m.snippets[id]
	if !ok {
		return nil, apperror.NotFound("snippet", id)
	}
	result := *snippet
	return &result, nil
}

func (m *mockSnippetRepo) List(_ context.Context, opts repository.ListOptions) ([]model.Snippet, error) {
	result := make([]model.Snippet, 0, len(m.order))
	for _, id := range m.order {
		if s, ok := m.snippets[id]; ok {
			result = append(result, *s)
		}
	}

	if opts.Offset >= len(result) {
		return []model.Snippet{}, nil
	}
	result = result[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(result) {
		result = result[:opts.Limit]
	}
	return result, nil
}

func (m *mockSnippetRepo) ListIDsByOwner(_ context.Context, ownerID string) ([]string, error) {
	ids := []string{}
	for _, id := range m.order {
		if s, ok := m.snippets[id]; ok && s.OwnerID == ownerID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *mockSnippetRepo) Update(_ context.Context, snippet *model.Snippet) error {
	if _, ok := m.snippets[snippet.ID]; !ok {
		return apperror.NotFound("snippet", snippet.ID)
	}
	m.writes++
	stored := *snippet
	m.snippets[snippet.ID] = &stored
	return nil
}

func (m *mockSnippetRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.snippets[id]; !ok {
		return apperror.NotFound("snippet", id)
	}
	m.writes++
	delete(m.snippets, id)
	return nil
}

// fakeHighlighter accepts a fixed set of languages and styles and renders a
// predictable string. Setting err makes every Render fail.
type fakeHighlighter struct {
	err   error
	calls int
}

func (f *fakeHighlighter) Languages() []highlight.Choice {
	return []highlight.Choice{{ID: "go", Name: "Go"}, {ID: "python", Name: "Python"}}
}

func (f *fakeHighlighter) Styles() []highlight.Choice {
	return []highlight.Choice{{ID: "friendly", Name: "friendly"}, {ID: "monokai", Name: "monokai"}}
}

func (f *fakeHighlighter) HasLanguage(id string) bool { return id == "go" || id == "python" }
func (f *fakeHighlighter) HasStyle(id string) bool    { return id == "friendly" || id == "monokai" }

func (f *fakeHighlighter) Render(opts highlight.Options) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("<%s/%s/%t>%s|%s", opts.Language, opts.Style, opts.LineNumbers, opts.Title, opts.Code), nil
}

// fakeUserRepo is an in-memory repository.UserRepository.
type fakeUserRepo struct {
	users  map[string]*model.User
	byName map[string]*model.User
	byGHID map[int64]*model.User
	nextID int

	upsertErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:  make(map[string]*model.User),
		byName: make(map[string]*model.User),
		byGHID: make(map[int64]*model.User),
	}
}

func (f *fakeUserRepo) store(user *model.User) {
	f.nextID++
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	f.users[user.ID] = &copied
	f.byName[user.Username] = &copied
	if user.GitHubID != 0 {
		f.byGHID[user.GitHubID] = &copied
	}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *model.User) error {
	if _, ok := f.byName[user.Username]; ok {
		return apperror.Conflict("user", user.Username)
	}
	f.store(user)
	return nil
}

func (f *fakeUserRepo) UpsertGitHubUser(_ context.Context, user *model.User) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	if existing, ok := f.byGHID[user.GitHubID]; ok {
		existing.Email = user.Email
		existing.AvatarURL = user.AvatarURL
		*user = *existing
		return nil
	}
	f.store(user)
	return nil
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	u, ok := f.byName[username]
	if !ok {
		return nil, apperror.NotFound("user", username)
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) ListUsers(_ context.Context, opts repository.ListOptions) ([]model.User, error) {
	users := make([]model.User, 0, len(f.users))
	for _, u := range f.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	if opts.Offset >= len(users) {
		return []model.User{}, nil
	}
	users = users[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(users) {
		users = users[:opts.Limit]
	}
	return users, nil
}

func (f *fakeUserRepo) DeleteUser(_ context.Context, id string) error {
	u, ok := f.users[id]
	if !ok {
		return apperror.NotFound("user", id)
	}
	delete(f.users, id)
	delete(f.byName, u.Username)
	delete(f.byGHID, u.GitHubID)
	return nil
}

var errBoom = errors.New("boom")
