package cookiestore

import (
	"path/filepath"
	"testing"
	"time"
)

func TestBoltStoreSavesLoadsAndExpiresRecords(t *testing.T) {
	dir := t.TempDir()
	opts := Options{CleanupInterval: time.Second}

	storeRaw, err := openBolt(filepath.Join(dir, "cookies.db"), opts)
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := storeRaw.(*boltStore)
	defer store.Close()

	live := Record{URL: "https://a.test/", Name: "sid", Value: "1", ExpiresAt: time.Now().Add(time.Hour)}
	short := Record{URL: "https://a.test/", Name: "tmp", Value: "2", ExpiresAt: time.Now().Add(time.Second)}
	for _, rec := range []Record{live, short} {
		if err := store.Save(rec); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	recs, err := store.Load()
	if err != nil || len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d err=%v", len(recs), err)
	}

	// Fast-forward cleanup cadence and let the short record expire.
	store.lastCleanup.Store(time.Now().Add(-2 * time.Second).Unix())
	time.Sleep(1100 * time.Millisecond)

	if err := store.maybeCleanupExpired(time.Now()); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	recs, err = store.Load()
	if err != nil {
		t.Fatalf("Load after expiry: %v", err)
	}
	if len(recs) != 1 || recs[0].Name != "sid" {
		t.Fatalf("expected only sid to survive, got %#v", recs)
	}

	if err := store.Delete(live.Key()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if recs, _ := store.Load(); len(recs) != 0 {
		t.Fatalf("expected empty store, got %#v", recs)
	}
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.Save(Record{Name: "x"}); err != nil {
		t.Fatalf("noop store Save: %v", err)
	}
}

func TestNewStoreRejectsUnknownType(t *testing.T) {
	if _, err := NewStore("redis", "", Options{}); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
	if _, err := NewStore("bbolt", " ", Options{}); err == nil {
		t.Fatalf("expected error for missing bbolt path")
	}
}
