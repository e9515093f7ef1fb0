package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"scour/domain/core"
	"scour/domain/pipeline"
	"scour/domain/table"
)

func newSession(name string) *pipeline.Session {
	t := table.New([]string{"a"}, []table.Row{{"a": table.NewNumber(1)}})
	return pipeline.NewSession(name, t)
}

func TestStore_SaveGetDelete(t *testing.T) {
	store := New()
	ctx := context.Background()
	session := newSession("one")

	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	got, err := store.Get(ctx, session.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Name != "one" {
		t.Errorf("Name = %q, want one", got.Name)
	}

	if err := store.Delete(ctx, session.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := store.Get(ctx, session.ID); !errors.Is(err, core.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	// Deleting again is fine.
	if err := store.Delete(ctx, session.ID); err != nil {
		t.Errorf("repeat Delete returned error: %v", err)
	}
}

func TestStore_ListOrderedByCreation(t *testing.T) {
	store := New()
	ctx := context.Background()

	first := newSession("first")
	second := newSession("second")
	second.CreatedAt = first.CreatedAt.Add(time.Second)

	if err := store.Save(ctx, second); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(ctx, first); err != nil {
		t.Fatal(err)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(all) != 2 || all[0].Name != "first" || all[1].Name != "second" {
		t.Errorf("List order = [%s %s], want [first second]", all[0].Name, all[1].Name)
	}
}

// TestStore_SessionIsolation verifies editing one session's table never leaks
// into another session built from the same source.
func TestStore_SessionIsolation(t *testing.T) {
	store := New()
	ctx := context.Background()

	src := table.New([]string{"a"}, []table.Row{{"a": table.NewNumber(1)}})
	one := pipeline.NewSession("one", src.Clone())
	two := pipeline.NewSession("two", src.Clone())
	_ = store.Save(ctx, one)
	_ = store.Save(ctx, two)

	one.Current.Rows[0]["a"] = table.NewNumber(99)

	gotTwo, _ := store.Get(ctx, two.ID)
	if v, _ := gotTwo.Current.Rows[0]["a"].Float(); v != 1 {
		t.Errorf("session two observed session one's edit: %v", v)
	}
}

// The store hands out clones: mutating the session passed to Save, or one
// returned by Get, must never change the stored state.
func TestStore_GetAndSaveDoNotAliasStoredState(t *testing.T) {
	store := New()
	ctx := context.Background()
	session := newSession("aliasing")

	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	session.Current.Rows[0]["a"] = table.NewNumber(999)
	session.Journal.Append("tampered after save")

	got, err := store.Get(ctx, session.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if v, _ := got.Current.Rows[0]["a"].Float(); v != 1 {
		t.Fatalf("Save kept the caller's table: a = %v, want 1", v)
	}
	if got.Journal.Len() != 0 {
		t.Errorf("Save kept the caller's journal: len = %d, want 0", got.Journal.Len())
	}

	got.Current.Rows[0]["a"] = table.NewNumber(777)
	got.Journal.Append("tampered after get")

	again, err := store.Get(ctx, session.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if v, _ := again.Current.Rows[0]["a"].Float(); v != 1 {
		t.Errorf("Get result aliases the stored table: a = %v, want 1", v)
	}
	if again.Journal.Len() != 0 {
		t.Errorf("Get result aliases the stored journal: len = %d, want 0", again.Journal.Len())
	}
}
