package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSQLiteGetDefault(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "quiz.db"))
	require.NoError(t, err)
	defer s.Close()

	p, err := s.Get(ctx, 123)
	require.NoError(t, err)
	require.Equal(t, int64(123), p.UserID)
	require.Empty(t, p.Asked)
	require.Zero(t, p.Correct)
	require.Zero(t, p.Total)
}

func TestSQLitePutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "quiz.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)

	p := NewProgress(5)
	p.Asked[3] = struct{}{}
	p.Asked[0] = struct{}{}
	p.Asked[7] = struct{}{}
	p.Correct = 2
	p.Total = 3
	require.NoError(t, s.Put(ctx, p))

	got, err := s.Get(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, p.Asked, got.Asked)
	require.Equal(t, 2, got.Correct)
	require.Equal(t, 3, got.Total)

	// Put replaces the whole record.
	p.Asked = map[int]struct{}{1: {}}
	p.Correct = 0
	p.Total = 1
	require.NoError(t, s.Put(ctx, p))

	got, err = s.Get(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, map[int]struct{}{1: {}}, got.Asked)
	require.Equal(t, 0, got.Correct)
	require.Equal(t, 1, got.Total)

	// Survives a reopen.
	require.NoError(t, s.Close())
	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	got, err = s.Get(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, map[int]struct{}{1: {}}, got.Asked)
	require.Equal(t, 1, got.Total)
}

func TestSQLiteTouchIdentityKeepsProgress(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "quiz.db"))
	require.NoError(t, err)
	defer s.Close()

	p := NewProgress(9)
	p.Correct = 4
	p.Total = 6
	require.NoError(t, s.Put(ctx, p))

	require.NoError(t, s.TouchIdentity(ctx, 9, "ada", "Ada"))

	got, err := s.Get(ctx, 9)
	require.NoError(t, err)
	require.Equal(t, 4, got.Correct)
	require.Equal(t, 6, got.Total)
}

func TestSQLiteTop(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "quiz.db"))
	require.NoError(t, err)
	defer s.Close()

	put := func(id int64, username string, correct, total int) {
		p := NewProgress(id)
		p.Correct = correct
		p.Total = total
		require.NoError(t, s.Put(ctx, p))
		require.NoError(t, s.TouchIdentity(ctx, id, username, ""))
	}

	put(1, "half", 5, 10)
	put(2, "ace", 10, 10)
	put(3, "most", 9, 10)
	put(5, "bigace", 20, 20)

	// Never played: excluded from the board entirely.
	put(4, "idle", 0, 0)

	top, err := s.Top(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 4)

	require.Equal(t, "bigace", top[0].Username)
	require.Equal(t, "ace", top[1].Username)
	require.Equal(t, "most", top[2].Username)
	require.Equal(t, "half", top[3].Username)
	require.Equal(t, 100, top[0].Percentage)
	require.Equal(t, 50, top[3].Percentage)

	top, err = s.Top(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
}
