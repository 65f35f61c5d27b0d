package settings

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "settings.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetSetDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if v, err := s.Get(ctx, "missing"); err != nil || v != "" {
		t.Errorf("Get(missing) = %q, %v", v, err)
	}
	if err := s.Set(ctx, "k", "v1"); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, "k", "v2"); err != nil {
		t.Fatal(err)
	}
	if v, _ := s.Get(ctx, "k"); v != "v2" {
		t.Errorf("Get = %q, want v2", v)
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if v, _ := s.Get(ctx, "k"); v != "" {
		t.Errorf("value survived delete: %q", v)
	}
}

func TestRouteRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, ok, err := s.LoadRoute(ctx); ok || err != nil {
		t.Fatalf("LoadRoute on empty store = ok=%v err=%v", ok, err)
	}

	saved := SavedRoute{Systems: []string{"Sol", "Alioth"}, Index: 1, Source: "file"}
	if err := s.SaveRoute(ctx, saved); err != nil {
		t.Fatal(err)
	}
	got, ok, err := s.LoadRoute(ctx)
	if err != nil || !ok {
		t.Fatalf("LoadRoute = ok=%v err=%v", ok, err)
	}
	if got.Index != 1 || got.Source != "file" || len(got.Systems) != 2 || got.Systems[1] != "Alioth" {
		t.Errorf("LoadRoute = %+v", got)
	}

	// Saving an empty route clears the persisted entry.
	if err := s.SaveRoute(ctx, SavedRoute{}); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.LoadRoute(ctx); ok {
		t.Error("cleared route still loads")
	}
}

func TestCorruptRouteEntryDropped(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "active_route", "{not json"); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := s.LoadRoute(ctx); ok || err != nil {
		t.Fatalf("corrupt entry: ok=%v err=%v", ok, err)
	}
	if v, _ := s.Get(ctx, "active_route"); v != "" {
		t.Error("corrupt entry was not dropped")
	}
}
