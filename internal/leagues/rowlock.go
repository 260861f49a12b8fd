package leagues

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

const (
	defaultLockWait    = 250 * time.Millisecond
	defaultLockRetries = 3
	defaultLockBackoff = 50 * time.Millisecond
)

// RowKey identifies one standing row.
type RowKey struct {
	LeagueID int64
	TeamID   int64
}

func (k RowKey) less(other RowKey) bool {
	if k.LeagueID != other.LeagueID {
		return k.LeagueID < other.LeagueID
	}
	return k.TeamID < other.TeamID
}

// RowLocks serialises writers to individual standing rows inside this
// process. Keys are always taken in ascending order so two folds touching the
// same pair of rows cannot deadlock.
type RowLocks struct {
	mu      sync.Mutex
	rows    map[RowKey]*semaphore.Weighted
	wait    time.Duration
	retries int
	backoff time.Duration
}

func NewRowLocks(wait time.Duration, retries int, backoff time.Duration) *RowLocks {
	if wait <= 0 {
		wait = defaultLockWait
	}
	if retries <= 0 {
		retries = defaultLockRetries
	}
	if backoff <= 0 {
		backoff = defaultLockBackoff
	}
	return &RowLocks{
		rows:    make(map[RowKey]*semaphore.Weighted),
		wait:    wait,
		retries: retries,
		backoff: backoff,
	}
}

func (l *RowLocks) row(key RowKey) *semaphore.Weighted {
	l.mu.Lock()
	defer l.mu.Unlock()
	sem, ok := l.rows[key]
	if !ok {
		sem = semaphore.NewWeighted(1)
		l.rows[key] = sem
	}
	return sem
}

// Acquire locks every key or none. Each attempt waits at most the configured
// lock wait per row; after the last retry it returns ErrLockContention.
func (l *RowLocks) Acquire(ctx context.Context, keys ...RowKey) (func(), error) {
	ordered := dedupeKeys(keys)

	for attempt := 1; attempt <= l.retries; attempt++ {
		release, err := l.tryAcquire(ctx, ordered)
		if err == nil {
			return release, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt == l.retries {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * l.backoff):
		}
	}
	return nil, fmt.Errorf("%w: %d row(s) after %d attempts", ErrLockContention, len(ordered), l.retries)
}

func (l *RowLocks) tryAcquire(ctx context.Context, keys []RowKey) (func(), error) {
	held := make([]*semaphore.Weighted, 0, len(keys))
	releaseAll := func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Release(1)
		}
	}

	for _, key := range keys {
		sem := l.row(key)
		waitCtx, cancel := context.WithTimeout(ctx, l.wait)
		err := sem.Acquire(waitCtx, 1)
		cancel()
		if err != nil {
			releaseAll()
			if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
				return nil, ErrLockContention
			}
			return nil, err
		}
		held = append(held, sem)
	}

	var once sync.Once
	return func() { once.Do(releaseAll) }, nil
}

func dedupeKeys(keys []RowKey) []RowKey {
	ordered := make([]RowKey, 0, len(keys))
	seen := make(map[RowKey]struct{}, len(keys))
	for _, key := range keys {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		ordered = append(ordered, key)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].less(ordered[j]) })
	return ordered
}
