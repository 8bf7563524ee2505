package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"bip-connector/internal/bip"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "bip-connector.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestConnectionCRUD(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	created, err := s.CreateConnection(ctx, bip.Connection{
		Name:     "prod",
		BaseURL:  "https://bi.example.com",
		Username: "scott",
		Password: "tiger",
		ProxyURL: "https://corsproxy.io",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := s.GetConnection(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, got)

	got.Password = "lion"
	require.NoError(t, s.UpdateConnection(ctx, got))

	got, err = s.GetConnection(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "lion", got.Password)

	list, err := s.ListConnections(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, s.DeleteConnection(ctx, created.ID))
	_, err = s.GetConnection(ctx, created.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFindConnectionByIDOrName(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	created, err := s.CreateConnection(ctx, bip.Connection{Name: "dev", BaseURL: "https://dev.example.com"})
	require.NoError(t, err)

	byID, err := s.FindConnection(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, byID.ID)

	byName, err := s.FindConnection(ctx, "dev")
	require.NoError(t, err)
	require.Equal(t, created.ID, byName.ID)

	_, err = s.FindConnection(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSavedQueryCRUD(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	q, err := s.CreateSavedQuery(ctx, SavedQuery{
		Name: "top earners",
		SQL:  "SELECT ename, sal FROM emp ORDER BY sal DESC",
	})
	require.NoError(t, err)
	require.NotEmpty(t, q.ID)

	q.RowLimit = 25
	require.NoError(t, s.UpdateSavedQuery(ctx, q))

	got, err := s.GetSavedQuery(ctx, q.ID)
	require.NoError(t, err)
	require.Equal(t, 25, got.RowLimit)
	require.Equal(t, q.SQL, got.SQL)

	list, err := s.ListSavedQueries(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, s.DeleteSavedQuery(ctx, q.ID))
	require.ErrorIs(t, s.DeleteSavedQuery(ctx, q.ID), ErrNotFound)
}

func TestUpdateMissingRecord(t *testing.T) {
	s := openTestStore(t)

	err := s.UpdateConnection(context.Background(), bip.Connection{ID: "nope", Name: "x", BaseURL: "y"})
	require.True(t, errors.Is(err, ErrNotFound))
}
