package memory

import (
	"context"
	"testing"

	"netquiz/internal/app"
)

func TestSessionStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	store.Register(ctx, app.SessionInfo{ID: "s1", RemoteAddr: "127.0.0.1:5000"})
	store.Register(ctx, app.SessionInfo{ID: "s2"})
	if store.Count() != 2 {
		t.Fatalf("expected 2 sessions, got %d", store.Count())
	}
	if info, ok := store.Get("s1"); !ok || info.RemoteAddr != "127.0.0.1:5000" {
		t.Fatalf("expected session s1 present, got %+v", info)
	}

	store.Deregister(ctx, "s1")
	if _, ok := store.Get("s1"); ok {
		t.Fatalf("expected session removed")
	}
	if store.Count() != 1 {
		t.Fatalf("expected 1 session left, got %d", store.Count())
	}
}
