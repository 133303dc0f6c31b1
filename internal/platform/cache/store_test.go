package cache

import (
	"context"
	"testing"
	"time"
)

func TestStore_GetHonorsTTL(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 4, 11, 9, 0, 0, 0, time.UTC)
	store := NewStore(time.Minute)
	store.now = func() time.Time { return now }

	ctx := context.Background()
	store.Set(ctx, "k", "v")

	now = now.Add(time.Minute - time.Second)
	if v, ok := store.Get(ctx, "k"); !ok || v != "v" {
		t.Fatalf("entry inside TTL: got (%v,%t), want (v,true)", v, ok)
	}

	now = now.Add(2 * time.Second)
	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatal("entry past TTL should miss")
	}

	// A fresh Set supersedes the stale entry.
	store.Set(ctx, "k", "v2")
	if v, ok := store.Get(ctx, "k"); !ok || v != "v2" {
		t.Fatalf("superseded entry: got (%v,%t), want (v2,true)", v, ok)
	}
}

func TestStore_ZeroTTLNeverExpires(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 4, 11, 9, 0, 0, 0, time.UTC)
	store := NewStore(0)
	store.now = func() time.Time { return now }

	ctx := context.Background()
	store.Set(ctx, "k", 42)
	now = now.Add(1000 * time.Hour)
	if v, ok := store.Get(ctx, "k"); !ok || v != 42 {
		t.Fatalf("got (%v,%t), want (42,true)", v, ok)
	}
}

func TestStore_DeleteAndClear(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()

	store.Set(ctx, Key("leaderboard", "014", "2025", "current"), 1)
	store.Set(ctx, Key("leaderboard", "014", "2025", "2"), 2)
	store.Set(ctx, Key("schedule", "2025"), 3)

	store.Delete(ctx, Key("leaderboard", "014", "2025", "2"))
	if _, ok := store.Get(ctx, Key("leaderboard", "014", "2025", "2")); ok {
		t.Fatal("deleted key should miss")
	}
	if store.Len() != 2 {
		t.Fatalf("len=%d, want 2", store.Len())
	}

	store.DeletePrefix(ctx, Key("leaderboard", "014"))
	if _, ok := store.Get(ctx, Key("leaderboard", "014", "2025", "current")); ok {
		t.Fatal("prefix-deleted key should miss")
	}

	store.Clear(ctx)
	if store.Len() != 0 {
		t.Fatalf("len after clear=%d, want 0", store.Len())
	}
}

func TestKey_ArgumentsCannotCollide(t *testing.T) {
	t.Parallel()

	// A tournament id containing a plausible delimiter must not alias another
	// operation's key.
	a := Key("tournament", "014:2025", "x")
	b := Key("tournament", "014", "2025:x")
	if a == b {
		t.Fatalf("keys collided: %q", a)
	}

	if Key("schedule") != "schedule" {
		t.Fatalf("bare op key changed: %q", Key("schedule"))
	}
}
