package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/snippets/internal/apperror"
	"github.com/sakif/snippets/internal/model"
)

func newTestUserService(t *testing.T) (*UserService, *fakeUserRepo, *SnippetService) {
	t.Helper()
	users := newFakeUserRepo()
	snippets := newMockRepo()
	logger := discardLogger()
	return NewUserService(users, snippets, logger), users,
		NewSnippetService(snippets, &fakeHighlighter{}, logger)
}

func addUser(t *testing.T, repo *fakeUserRepo, username string) *model.User {
	t.Helper()
	u := &model.User{Username: username}
	require.NoError(t, repo.CreateUser(context.Background(), u))
	return u
}

func TestUserService_GetIncludesSnippetIDs(t *testing.T) {
	svc, users, snippets := newTestUserService(t)
	ctx := context.Background()
	a := addUser(t, users, "alice")
	b := addUser(t, users, "bob")

	s1, err := snippets.Create(ctx, a.ID, SnippetInput{Code: "1"})
	require.NoError(t, err)
	_, err = snippets.Create(ctx, b.ID, SnippetInput{Code: "2"})
	require.NoError(t, err)
	s3, err := snippets.Create(ctx, a.ID, SnippetInput{Code: "3"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{s1.ID, s3.ID}, got.Snippets)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUserService_List(t *testing.T) {
	svc, users, snippets := newTestUserService(t)
	ctx := context.Background()
	a := addUser(t, users, "alice")
	addUser(t, users, "bob")

	_, err := snippets.Create(ctx, a.ID, SnippetInput{Code: "x"})
	require.NoError(t, err)

	list, err := svc.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Len(t, list[0].Snippets, 1)
	assert.NotNil(t, list[1].Snippets)
	assert.Empty(t, list[1].Snippets)
}

func TestUserService_Delete(t *testing.T) {
	svc, users, _ := newTestUserService(t)
	ctx := context.Background()
	a := addUser(t, users, "alice")
	b := addUser(t, users, "bob")

	assert.ErrorIs(t, svc.Delete(ctx, "", a.ID), apperror.ErrUnauthorized)
	assert.ErrorIs(t, svc.Delete(ctx, b.ID, a.ID), apperror.ErrForbidden)

	require.NoError(t, svc.Delete(ctx, a.ID, a.ID))
	_, err := svc.Get(ctx, a.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
