package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryGetDefault(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	p, err := s.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), p.UserID)
	require.NotNil(t, p.Asked)
	require.Empty(t, p.Asked)
}

func TestMemoryPutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	p := NewProgress(2)
	p.Asked[0] = struct{}{}
	p.Asked[4] = struct{}{}
	p.Correct = 1
	p.Total = 2
	require.NoError(t, s.Put(ctx, p))

	got, err := s.Get(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, p.Asked, got.Asked)
	require.Equal(t, 1, got.Correct)
	require.Equal(t, 2, got.Total)
}

func TestMemoryDetachesAskedSet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	p := NewProgress(3)
	p.Asked[1] = struct{}{}
	require.NoError(t, s.Put(ctx, p))

	// Mutating the caller's copy after Put, or the copy returned by Get, must
	// not leak into stored state.
	p.Asked[2] = struct{}{}
	got, err := s.Get(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, map[int]struct{}{1: {}}, got.Asked)

	got.Asked[9] = struct{}{}
	again, err := s.Get(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, map[int]struct{}{1: {}}, again.Asked)
}

func TestMemoryTop(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	put := func(id int64, username string, correct, total int) {
		p := NewProgress(id)
		p.Correct = correct
		p.Total = total
		require.NoError(t, s.Put(ctx, p))
		require.NoError(t, s.TouchIdentity(ctx, id, username, ""))
	}

	put(1, "low", 1, 10)
	put(2, "high", 9, 10)
	put(3, "idle", 0, 0)

	top, err := s.Top(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	require.Equal(t, "high", top[0].Username)
	require.Equal(t, "low", top[1].Username)
	require.Equal(t, 90, top[0].Percentage)
}

func TestMemoryTouchIdentityBeforeProgress(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.TouchIdentity(ctx, 8, "new", "New"))

	p, err := s.Get(ctx, 8)
	require.NoError(t, err)
	require.Zero(t, p.Total)

	p.Total = 1
	p.Correct = 1
	require.NoError(t, s.Put(ctx, p))

	top, err := s.Top(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	require.Equal(t, "new", top[0].Username)
}
