package session_test

import (
	"context"
	"testing"

	"recap/internal/testsupport"
)

func TestGrantAndGranted(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	id, err := store.Grant(ctx, "127.0.0.1:5000", "test-agent")
	if err != nil {
		t.Fatalf("Grant failed: %v", err)
	}
	if id == "" {
		t.Fatal("expected session id")
	}

	ok, err := store.Granted(ctx, id)
	if err != nil {
		t.Fatalf("Granted failed: %v", err)
	}
	if !ok {
		t.Fatal("expected granted session")
	}

	for _, bogus := range []string{"", "not-a-uuid", "6f1c1a9e-8d6b-4a52-9f0e-9d1f2f1b0c11"} {
		ok, err := store.Granted(ctx, bogus)
		if err != nil {
			t.Fatalf("Granted(%q) error: %v", bogus, err)
		}
		if ok {
			t.Fatalf("Granted(%q) should be false", bogus)
		}
	}

	if err := store.Revoke(ctx, id); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
	if ok, _ := store.Granted(ctx, id); ok {
		t.Fatal("revoked session should not be granted")
	}
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctx := context.Background()

	first := testsupport.MustOpenStore(t, cfg)
	id, err := first.Grant(ctx, "", "")
	if err != nil {
		t.Fatalf("Grant failed: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	second := testsupport.MustOpenStore(t, cfg)
	ok, err := second.Granted(ctx, id)
	if err != nil || !ok {
		t.Fatalf("session lost after reopen: ok=%v err=%v", ok, err)
	}
	n, err := second.Count(ctx)
	if err != nil || n != 1 {
		t.Fatalf("Count = %d, %v", n, err)
	}
}
