package leagues

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRowLocksContention(t *testing.T) {
	locks := NewRowLocks(10*time.Millisecond, 2, time.Millisecond)
	ctx := context.Background()
	a := RowKey{LeagueID: 1, TeamID: 1}
	b := RowKey{LeagueID: 1, TeamID: 2}

	release, err := locks.Acquire(ctx, b, a)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	if _, err := locks.Acquire(ctx, a); !errors.Is(err, ErrLockContention) {
		t.Fatalf("expected ErrLockContention, got %v", err)
	}

	release()
	release()

	again, err := locks.Acquire(ctx, a, b, a)
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	again()
}

func TestRowLocksPartialAcquireReleases(t *testing.T) {
	locks := NewRowLocks(10*time.Millisecond, 1, time.Millisecond)
	ctx := context.Background()
	a := RowKey{LeagueID: 1, TeamID: 1}
	b := RowKey{LeagueID: 1, TeamID: 2}

	holdB, err := locks.Acquire(ctx, b)
	if err != nil {
		t.Fatalf("acquire b: %v", err)
	}
	if _, err := locks.Acquire(ctx, a, b); !errors.Is(err, ErrLockContention) {
		t.Fatalf("expected ErrLockContention, got %v", err)
	}

	holdA, err := locks.Acquire(ctx, a)
	if err != nil {
		t.Fatalf("a should have been released after failed pair acquire: %v", err)
	}
	holdA()
	holdB()
}

func TestRowLocksContextCancelled(t *testing.T) {
	locks := NewRowLocks(time.Second, 3, time.Millisecond)
	key := RowKey{LeagueID: 1, TeamID: 1}
	hold, err := locks.Acquire(context.Background(), key)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer hold()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := locks.Acquire(ctx, key); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDedupeKeysOrdersAscending(t *testing.T) {
	keys := dedupeKeys([]RowKey{
		{LeagueID: 2, TeamID: 1},
		{LeagueID: 1, TeamID: 9},
		{LeagueID: 1, TeamID: 3},
		{LeagueID: 1, TeamID: 9},
	})
	want := []RowKey{{1, 3}, {1, 9}, {2, 1}}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys = %v, want %v", keys, want)
		}
	}
}
