package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache.db")
	store, err := Open(path, ttl)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// backdate rewrites an entry's fetch time so expiry tests don't sleep.
func backdate(t *testing.T, store *Store, key string, age time.Duration) {
	t.Helper()
	fetchedAt := time.Now().Add(-age).Unix()
	if _, err := store.db.Exec(`UPDATE passages SET fetched_at = ? WHERE key = ?`, fetchedAt, key); err != nil {
		t.Fatalf("backdating entry: %v", err)
	}
}

func TestKey(t *testing.T) {
	if got, want := Key("John 3:16", "headings"), Key("John 3:16", "headings"); got != want {
		t.Errorf("Key() is not deterministic: %q vs %q", got, want)
	}
	if Key("John 3:16") == Key("John 3:17") {
		t.Error("Key() collides for different references")
	}
	if Key("ab", "c") == Key("a", "bc") {
		t.Error("Key() collides for different part splits")
	}
	if len(Key("John 3:16")) != 64 {
		t.Errorf("Key() length = %d, want 64 hex chars", len(Key("John 3:16")))
	}
}

func TestStorePutGet(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t, time.Hour)

	key := Key("John 3:16")
	if err := store.Put(ctx, key, []byte("For God so loved the world")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	value, ok, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !ok {
		t.Fatal("Get() ok = false, want hit")
	}
	if string(value) != "For God so loved the world" {
		t.Errorf("Get() = %q", value)
	}
}

func TestStoreGetMiss(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t, time.Hour)

	_, ok, err := store.Get(ctx, Key("Psalm 23"))
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Error("Get() ok = true for a key never stored")
	}
}

func TestStorePutReplaces(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t, time.Hour)

	key := Key("John 3:16")
	if err := store.Put(ctx, key, []byte("old")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := store.Put(ctx, key, []byte("new")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	value, ok, err := store.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v", ok, err)
	}
	if string(value) != "new" {
		t.Errorf("Get() = %q, want new", value)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Entries != 1 {
		t.Errorf("Entries = %d, want 1 after replace", stats.Entries)
	}
}

func TestStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t, time.Hour)

	key := Key("John 3:16")
	if err := store.Put(ctx, key, []byte("stale")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	backdate(t, store, key, 2*time.Hour)

	_, ok, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Fatal("Get() ok = true for an expired entry")
	}

	// The expired row is gone, not merely hidden
	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Entries != 0 {
		t.Errorf("Entries = %d, want 0 after expired read", stats.Entries)
	}
}

func TestStoreZeroTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t, 0)

	key := Key("John 3:16")
	if err := store.Put(ctx, key, []byte("kept")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	backdate(t, store, key, 24*365*time.Hour)

	_, ok, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !ok {
		t.Error("Get() ok = false, want hit with zero TTL")
	}
}

func TestStoreStats(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t, time.Hour)

	if err := store.Put(ctx, Key("a"), []byte("12345")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := store.Put(ctx, Key("b"), []byte("123")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	// One hit, one miss
	if _, ok, err := store.Get(ctx, Key("a")); err != nil || !ok {
		t.Fatalf("Get(a) = %v, %v", ok, err)
	}
	if _, ok, err := store.Get(ctx, Key("missing")); err != nil || ok {
		t.Fatalf("Get(missing) = %v, %v", ok, err)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Entries != 2 {
		t.Errorf("Entries = %d, want 2", stats.Entries)
	}
	if stats.SizeBytes != 8 {
		t.Errorf("SizeBytes = %d, want 8", stats.SizeBytes)
	}
	if stats.Hits != 1 {
		t.Errorf("Hits = %d, want 1", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Misses = %d, want 1", stats.Misses)
	}
}

func TestStorePrune(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t, time.Hour)

	if err := store.Put(ctx, Key("old"), []byte("x")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := store.Put(ctx, Key("fresh"), []byte("y")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	backdate(t, store, Key("old"), 2*time.Hour)

	removed, err := store.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("Prune() = %d, want 1", removed)
	}

	if _, ok, err := store.Get(ctx, Key("fresh")); err != nil || !ok {
		t.Errorf("Get(fresh) = %v, %v, want hit after prune", ok, err)
	}
}

func TestStoreClear(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t, time.Hour)

	if err := store.Put(ctx, Key("a"), []byte("x")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Entries != 0 {
		t.Errorf("Entries = %d, want 0 after clear", stats.Entries)
	}
}

func TestStorePersistsAcrossOpens(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	store, err := Open(path, time.Hour)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	key := Key("John 3:16")
	if err := store.Put(ctx, key, []byte("persisted")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := Open(path, time.Hour)
	if err != nil {
		t.Fatalf("reopening: %v", err)
	}
	defer reopened.Close()

	value, ok, err := reopened.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("Get() after reopen = %v, %v", ok, err)
	}
	if string(value) != "persisted" {
		t.Errorf("Get() = %q, want persisted", value)
	}
}
