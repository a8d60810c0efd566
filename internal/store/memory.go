package store

import (
	"context"
	"sort"
	"sync"
)

type memoryRecord struct {
	progress  UserProgress
	username  string
	firstName string
}

// MemoryStore keeps progress in process memory. Data is lost on restart, so
// it is only suitable for tests and for running without a database file.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[int64]memoryRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[int64]memoryRecord)}
}

func (ms *MemoryStore) Get(_ context.Context, userID int64) (UserProgress, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	rec, ok := ms.records[userID]
	if !ok {
		return NewProgress(userID), nil
	}
	return copyProgress(rec.progress), nil
}

func (ms *MemoryStore) Put(_ context.Context, p UserProgress) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	rec := ms.records[p.UserID]
	rec.progress = copyProgress(p)
	ms.records[p.UserID] = rec
	return nil
}

func (ms *MemoryStore) TouchIdentity(_ context.Context, userID int64, username, firstName string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	rec, ok := ms.records[userID]
	if !ok {
		rec = memoryRecord{progress: NewProgress(userID)}
	}
	rec.username = username
	rec.firstName = firstName
	ms.records[userID] = rec
	return nil
}

func (ms *MemoryStore) Top(_ context.Context, limit int) ([]Entry, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	entries := make([]Entry, 0, len(ms.records))
	for id, rec := range ms.records {
		if rec.progress.Total == 0 {
			continue
		}
		entries = append(entries, Entry{
			UserID:     id,
			Username:   rec.username,
			FirstName:  rec.firstName,
			Correct:    rec.progress.Correct,
			Total:      rec.progress.Total,
			Percentage: percentage(rec.progress.Correct, rec.progress.Total),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Percentage == entries[j].Percentage {
			return entries[i].Correct > entries[j].Correct
		}
		return entries[i].Percentage > entries[j].Percentage
	})

	if limit < len(entries) {
		entries = entries[:limit]
	}
	return entries, nil
}

// copyProgress detaches the Asked set so callers cannot alias stored state.
func copyProgress(p UserProgress) UserProgress {
	out := p
	out.Asked = make(map[int]struct{}, len(p.Asked))
	for id := range p.Asked {
		out.Asked[id] = struct{}{}
	}
	return out
}
