package store

import "context"

// UserProgress is the durable per-user record: which questions the user has
// already been shown this round, and the running score.
type UserProgress struct {
	UserID  int64
	Asked   map[int]struct{}
	Correct int
	Total   int
}

// NewProgress returns the default record for a user that has no stored row yet.
func NewProgress(userID int64) UserProgress {
	return UserProgress{
		UserID: userID,
		Asked:  make(map[int]struct{}),
	}
}

// Entry is one leaderboard row derived from stored progress.
type Entry struct {
	UserID     int64
	Username   string
	FirstName  string
	Correct    int
	Total      int
	Percentage int
}

// Store persists per-user quiz progress keyed by the platform user id.
// Get never fails for an unknown user; it returns the default record.
// Put replaces the whole record (insert-or-overwrite).
type Store interface {
	Get(ctx context.Context, userID int64) (UserProgress, error)
	Put(ctx context.Context, p UserProgress) error

	// TouchIdentity records the user's display identity without altering
	// progress counters.
	TouchIdentity(ctx context.Context, userID int64, username, firstName string) error

	// Top returns up to limit users ordered by percentage, then correct count.
	Top(ctx context.Context, limit int) ([]Entry, error)
}

func percentage(correct, total int) int {
	if total == 0 {
		return 0
	}
	return (correct * 100) / total
}
