package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sakif/snippets/internal/apperror"
	"github.com/sakif/snippets/internal/highlight"
)

const (
	alice = "user-alice"
	bob   = "user-bob"
)

// newTestService wires a SnippetService to in-memory fakes.
func newTestService(t *testing.T) (*SnippetService, *mockSnippetRepo, *fakeHighlighter) {
	t.Helper()
	repo := newMockRepo()
	hl := &fakeHighlighter{}
	return NewSnippetService(repo, hl, discardLogger()), repo, hl
}

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestCreate_Success(t *testing.T) {
	svc, repo, _ := newTestService(t)

	snippet, err := svc.Create(context.Background(), alice, SnippetInput{
		Title:       "hello",
		Code:        "print('hi')",
		LineNumbers: true,
		Language:    "go",
		Style:       "monokai",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if snippet.ID == "" {
		t.Error("expected snippet to have an ID")
	}
	if snippet.OwnerID != alice {
		t.Errorf("OwnerID = %q, want %q", snippet.OwnerID, alice)
	}
	if want := "<go/monokai/true>hello|print('hi')"; snippet.Highlighted != want {
		t.Errorf("Highlighted = %q, want %q", snippet.Highlighted, want)
	}

	stored, _ := repo.GetByID(context.Background(), snippet.ID)
	if stored.Highlighted != snippet.Highlighted {
		t.Error("stored snippet was not saved with its rendering")
	}
}

func TestCreate_AppliesDefaults(t *testing.T) {
	svc, _, _ := newTestService(t)

	snippet, err := svc.Create(context.Background(), alice, SnippetInput{Code: "x = 1"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if snippet.Language != highlight.DefaultLanguage {
		t.Errorf("Language = %q, want %q", snippet.Language, highlight.DefaultLanguage)
	}
	if snippet.Style != highlight.DefaultStyle {
		t.Errorf("Style = %q, want %q", snippet.Style, highlight.DefaultStyle)
	}
	if snippet.Title != "" || snippet.LineNumbers {
		t.Errorf("Title/LineNumbers = %q/%t, want empty/false", snippet.Title, snippet.LineNumbers)
	}
}

func TestCreate_KeepsTitleVerbatim(t *testing.T) {
	svc, _, _ := newTestService(t)

	for _, title := range []string{"  spaced  ", "   "} {
		snippet, err := svc.Create(context.Background(), alice, SnippetInput{Title: title, Code: "x"})
		if err != nil {
			t.Fatalf("Create(%q) error = %v", title, err)
		}
		if snippet.Title != title {
			t.Errorf("Title = %q, want %q", snippet.Title, title)
		}
	}
}

func TestCreate_TitleLimitCountsCharacters(t *testing.T) {
	tests := []struct {
		name  string
		title string
	}{
		{"multi-byte", strings.Repeat("é", 60)},
		{"multi-byte at limit", strings.Repeat("日", MaxTitleLength)},
		{"ascii at limit", strings.Repeat("t", MaxTitleLength)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestService(t)

			snippet, err := svc.Create(context.Background(), alice, SnippetInput{Code: "x = 1", Title: tt.title})
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if snippet.Title != tt.title {
				t.Errorf("Title = %q, want %q", snippet.Title, tt.title)
			}
		})
	}
}

func TestCreate_LargeCode(t *testing.T) {
	svc, repo, _ := newTestService(t)
	code := strings.Repeat("x = 1\n", 20000)

	snippet, err := svc.Create(context.Background(), alice, SnippetInput{Code: code})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	stored, _ := repo.GetByID(context.Background(), snippet.ID)
	if stored.Code != code {
		t.Errorf("stored code has %d bytes, want %d", len(stored.Code), len(code))
	}
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name  string
		in    SnippetInput
		field string
	}{
		{"empty code", SnippetInput{}, "code"},
		{"whitespace code", SnippetInput{Code: " \n\t"}, "code"},
		{"title too long", SnippetInput{Code: "x", Title: strings.Repeat("t", MaxTitleLength+1)}, "title"},
		{"multi-byte title too long", SnippetInput{Code: "x", Title: strings.Repeat("é", MaxTitleLength+1)}, "title"},
		{"unknown language", SnippetInput{Code: "x", Language: "klingon"}, "language"},
		{"unknown style", SnippetInput{Code: "x", Style: "plaid"}, "style"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, hl := newTestService(t)

			_, err := svc.Create(context.Background(), alice, tt.in)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Fatalf("error = %v, want ErrValidation", err)
			}
			var appErr *apperror.AppError
			if errors.As(err, &appErr) && appErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", appErr.Field, tt.field)
			}
			if repo.writes != 0 || hl.calls != 0 {
				t.Errorf("invalid input reached storage (writes=%d renders=%d)", repo.writes, hl.calls)
			}
		})
	}
}

func TestCreate_Anonymous(t *testing.T) {
	svc, repo, _ := newTestService(t)

	_, err := svc.Create(context.Background(), "", SnippetInput{Code: "x"})
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
	if repo.writes != 0 {
		t.Error("anonymous create was persisted")
	}
}

func TestCreate_RenderFailureWritesNothing(t *testing.T) {
	svc, repo, hl := newTestService(t)
	hl.err = errBoom

	_, err := svc.Create(context.Background(), alice, SnippetInput{Code: "x"})
	if !errors.Is(err, errBoom) {
		t.Fatalf("error = %v, want wrapped render error", err)
	}
	if repo.writes != 0 {
		t.Errorf("writes = %d, want 0", repo.writes)
	}
}

// =========================================================================
// READ TESTS
// =========================================================================

func TestGetByID(t *testing.T) {
	svc, _, _ := newTestService(t)

	created, err := svc.Create(context.Background(), alice, SnippetInput{Code: "x"})
	if err != nil {
		t.Fatalf("setup: Create() error = %v", err)
	}

	found, err := svc.GetByID(context.Background(), "  "+created.ID+" ")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID = %q, want %q", found.ID, created.ID)
	}

	if _, err := svc.GetByID(context.Background(), "missing"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := svc.GetByID(context.Background(), ""); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("GetByID(\"\") error = %v, want ErrValidation", err)
	}
}

func TestList_ClampsLimit(t *testing.T) {
	svc, _, _ := newTestService(t)
	for i := 0; i < MaxListLimit+5; i++ {
		if _, err := svc.Create(context.Background(), alice, SnippetInput{Code: "x"}); err != nil {
			t.Fatalf("setup: Create() error = %v", err)
		}
	}

	tests := []struct {
		name          string
		limit, offset int
		want          int
	}{
		{"default", 0, 0, DefaultListLimit},
		{"negative limit", -3, 0, DefaultListLimit},
		{"over max", MaxListLimit * 10, 0, MaxListLimit},
		{"negative offset", 5, -1, 5},
		{"tail", 10, MaxListLimit, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := svc.List(context.Background(), tt.limit, tt.offset)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(page) != tt.want {
				t.Errorf("len = %d, want %d", len(page), tt.want)
			}
		})
	}
}

// =========================================================================
// OWNERSHIP TESTS
// =========================================================================

func TestUpdate_ByOwnerRerenders(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, alice, SnippetInput{Title: "v1", Code: "a"})
	if err != nil {
		t.Fatalf("setup: Create() error = %v", err)
	}

	updated, err := svc.Update(ctx, alice, created.ID, SnippetInput{
		Title: "v2", Code: "b", Language: "go", Style: "monokai", LineNumbers: true,
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if want := "<go/monokai/true>v2|b"; updated.Highlighted != want {
		t.Errorf("Highlighted = %q, want %q", updated.Highlighted, want)
	}
	if updated.OwnerID != alice {
		t.Errorf("OwnerID = %q, want unchanged %q", updated.OwnerID, alice)
	}

	stored, _ := repo.GetByID(ctx, created.ID)
	if stored.Title != "v2" || stored.Highlighted != updated.Highlighted {
		t.Errorf("update not persisted: %+v", stored)
	}
}

func TestUpdate_PutReplacesOmittedFields(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, alice, SnippetInput{
		Title: "t", Code: "a", Language: "go", Style: "monokai", LineNumbers: true,
	})
	if err != nil {
		t.Fatalf("setup: Create() error = %v", err)
	}

	updated, err := svc.Update(ctx, alice, created.ID, SnippetInput{Code: "b"})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Title != "" || updated.LineNumbers ||
		updated.Language != highlight.DefaultLanguage || updated.Style != highlight.DefaultStyle {
		t.Errorf("omitted fields were not reset: %+v", updated)
	}
}

func TestWrites_NonOwnerAndAnonymous(t *testing.T) {
	tests := []struct {
		name      string
		requester string
		want      error
	}{
		{"other user", bob, apperror.ErrForbidden},
		{"anonymous", "", apperror.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newTestService(t)
			ctx := context.Background()

			created, err := svc.Create(ctx, alice, SnippetInput{Title: "mine", Code: "a"})
			if err != nil {
				t.Fatalf("setup: Create() error = %v", err)
			}
			writes := repo.writes

			_, err = svc.Update(ctx, tt.requester, created.ID, SnippetInput{Code: "hijacked"})
			if !errors.Is(err, tt.want) {
				t.Errorf("Update() error = %v, want %v", err, tt.want)
			}
			if err := svc.Delete(ctx, tt.requester, created.ID); !errors.Is(err, tt.want) {
				t.Errorf("Delete() error = %v, want %v", err, tt.want)
			}
			if repo.writes != writes {
				t.Errorf("denied request wrote to storage")
			}

			// Reads stay open to everyone.
			found, err := svc.GetByID(ctx, created.ID)
			if err != nil || found.Code != "a" {
				t.Errorf("GetByID() = %+v, %v; want original snippet", found, err)
			}
		})
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Update(context.Background(), alice, "missing", SnippetInput{Code: "x"})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestUpdate_InvalidInputKeepsStored(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, alice, SnippetInput{Code: "a"})
	if err != nil {
		t.Fatalf("setup: Create() error = %v", err)
	}

	_, err = svc.Update(ctx, alice, created.ID, SnippetInput{Code: "b", Language: "klingon"})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}

	stored, _ := repo.GetByID(ctx, created.ID)
	if stored.Code != "a" {
		t.Errorf("Code = %q, want untouched %q", stored.Code, "a")
	}
}

func TestDelete_ByOwner(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, alice, SnippetInput{Code: "a"})
	if err != nil {
		t.Fatalf("setup: Create() error = %v", err)
	}

	if err := svc.Delete(ctx, alice, created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := svc.GetByID(ctx, created.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID after delete: error = %v, want ErrNotFound", err)
	}
}

func TestChoiceTables(t *testing.T) {
	svc, _, _ := newTestService(t)

	if got := svc.Languages(); len(got) != 2 || got[0].ID != "go" {
		t.Errorf("Languages() = %v", got)
	}
	if got := svc.Styles(); len(got) != 2 || got[1].ID != "monokai" {
		t.Errorf("Styles() = %v", got)
	}
}
