package history

import (
	"context"
	"testing"
	"time"

	"github.com/evoviz/phylosim/pkg/errors"
	"github.com/evoviz/phylosim/pkg/phylo"
	"github.com/evoviz/phylosim/pkg/phylo/sim"
	"github.com/evoviz/phylosim/pkg/phylo/stats"
)

func testTree(t *testing.T) (*phylo.Tree, sim.Options, stats.Summary) {
	t.Helper()
	opts := sim.Options{
		Taxa:        []string{"Human", "Chimp", "Gorilla"},
		MutationMin: 1,
		MutationMax: 10,
		Seed:        42,
	}
	tree, err := sim.Generate(opts)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	summary, err := stats.Summarize(tree)
	if err != nil {
		t.Fatalf("Summarize() error: %v", err)
	}
	return tree, opts, summary
}

func newTestRecord(t *testing.T, sessionID string, createdAt time.Time) *Record {
	t.Helper()
	tree, opts, summary := testTree(t)
	rec := NewRecord(sessionID, opts, tree, summary)
	rec.CreatedAt = createdAt
	return rec
}

func TestNewRecord(t *testing.T) {
	tree, opts, summary := testTree(t)

	a := NewRecord("sess", opts, tree, summary)
	b := NewRecord("sess", opts, tree, summary)

	if a.ID == "" || a.ID == b.ID {
		t.Errorf("record IDs not unique: %q vs %q", a.ID, b.ID)
	}
	if a.SessionID != "sess" {
		t.Errorf("SessionID = %q", a.SessionID)
	}
	if len(a.Tree.Nodes) != tree.NodeCount() {
		t.Errorf("stored %d nodes, want %d", len(a.Tree.Nodes), tree.NodeCount())
	}
	if a.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

// runStoreTests exercises the Store contract against any backend.
func runStoreTests(t *testing.T, store Store) {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	oldest := newTestRecord(t, "sess-a", now.Add(-2*time.Hour))
	middle := newTestRecord(t, "sess-a", now.Add(-time.Hour))
	newest := newTestRecord(t, "sess-a", now)
	other := newTestRecord(t, "sess-b", now)

	for _, rec := range []*Record{oldest, middle, newest, other} {
		if err := store.Put(ctx, rec); err != nil {
			t.Fatalf("Put() error: %v", err)
		}
	}

	t.Run("get", func(t *testing.T) {
		got, err := store.Get(ctx, middle.ID)
		if err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		if got.ID != middle.ID || got.SessionID != "sess-a" {
			t.Errorf("Get() = %+v", got)
		}
		if got.Tree.Root == "" || len(got.Tree.Nodes) == 0 {
			t.Error("Get() lost the tree document")
		}
	})

	t.Run("get absent", func(t *testing.T) {
		if _, err := store.Get(ctx, "no-such-id"); !errors.Is(err, errors.ErrCodeSimulationNotFound) {
			t.Errorf("Get(absent) error = %v, want SIMULATION_NOT_FOUND", err)
		}
	})

	t.Run("list newest first", func(t *testing.T) {
		recs, err := store.List(ctx, "sess-a", 0)
		if err != nil {
			t.Fatalf("List() error: %v", err)
		}
		if len(recs) != 3 {
			t.Fatalf("List() returned %d records, want 3", len(recs))
		}
		want := []string{newest.ID, middle.ID, oldest.ID}
		for i, rec := range recs {
			if rec.ID != want[i] {
				t.Errorf("List()[%d] = %s, want %s", i, rec.ID, want[i])
			}
		}
	})

	t.Run("list with limit", func(t *testing.T) {
		recs, err := store.List(ctx, "sess-a", 2)
		if err != nil {
			t.Fatalf("List() error: %v", err)
		}
		if len(recs) != 2 || recs[0].ID != newest.ID {
			t.Errorf("List(limit=2) returned %d records, first %s", len(recs), recs[0].ID)
		}
	})

	t.Run("list scopes by session", func(t *testing.T) {
		recs, err := store.List(ctx, "sess-b", 0)
		if err != nil {
			t.Fatalf("List() error: %v", err)
		}
		if len(recs) != 1 || recs[0].ID != other.ID {
			t.Errorf("List(sess-b) = %d records", len(recs))
		}

		recs, err = store.List(ctx, "sess-none", 0)
		if err != nil {
			t.Fatalf("List() error: %v", err)
		}
		if len(recs) != 0 {
			t.Errorf("List(unknown session) = %d records, want 0", len(recs))
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := store.Delete(ctx, oldest.ID); err != nil {
			t.Fatalf("Delete() error: %v", err)
		}
		if _, err := store.Get(ctx, oldest.ID); !errors.Is(err, errors.ErrCodeSimulationNotFound) {
			t.Error("deleted record still present")
		}
		// Deleting an absent ID is not an error.
		if err := store.Delete(ctx, oldest.ID); err != nil {
			t.Errorf("Delete(absent) error: %v", err)
		}
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreTests(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	runStoreTests(t, store)
}

func TestMemoryStoreCopiesRecords(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	rec := newTestRecord(t, "sess", time.Now())
	if err := store.Put(ctx, rec); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	rec.SessionID = "tampered"
	got, err := store.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.SessionID != "sess" {
		t.Error("store shares memory with the caller's record")
	}
}

func TestFileStorePath(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	if store.Path() != dir {
		t.Errorf("Path() = %q, want %q", store.Path(), dir)
	}
}
