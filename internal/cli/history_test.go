package cli

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/evoviz/phylosim/pkg/errors"
	"github.com/evoviz/phylosim/pkg/history"
	"github.com/evoviz/phylosim/pkg/pipeline"
)

func TestHistoryDirXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data-test")
	dir, err := historyDir()
	if err != nil {
		t.Fatalf("historyDir() error: %v", err)
	}
	want := filepath.Join("/tmp/xdg-data-test", appName, "history")
	if dir != want {
		t.Errorf("historyDir() = %q, want %q", dir, want)
	}
}

func TestRecordRun(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	ctx := context.Background()
	c := New(io.Discard, LogInfo)

	runner := pipeline.NewRunner(nil, c.Logger)
	defer runner.Close()

	opts := pipeline.Options{
		Taxa:        []string{"Human", "Chimpanzee", "Gorilla", "Orangutan"},
		MutationMin: 10,
		MutationMax: 100,
		Seed:        42,
		Formats:     []string{pipeline.FormatNewick},
		Logger:      c.Logger,
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	c.recordRun(ctx, opts, result)

	store, err := newHistoryStore()
	if err != nil {
		t.Fatalf("newHistoryStore() error: %v", err)
	}
	defer store.Close()

	recs, err := store.List(ctx, localSession, 0)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("recorded runs = %d, want 1", len(recs))
	}
	rec := recs[0]
	if rec.SessionID != localSession {
		t.Errorf("session = %q, want %q", rec.SessionID, localSession)
	}
	if len(rec.Options.Taxa) != 4 || rec.Options.Seed != 42 {
		t.Errorf("recorded options = %+v", rec.Options)
	}
	if len(rec.Tree.Nodes) != 7 {
		t.Errorf("recorded tree has %d nodes, want 7", len(rec.Tree.Nodes))
	}
	if rec.Summary != result.Summary {
		t.Errorf("recorded summary = %+v, want %+v", rec.Summary, result.Summary)
	}
}

func TestFindRecord(t *testing.T) {
	ctx := context.Background()
	store := history.NewMemoryStore()
	defer store.Close()

	for _, id := range []string{"abc-123", "abd-456", "xyz-789"} {
		rec := &history.Record{ID: id, SessionID: localSession}
		if err := store.Put(ctx, rec); err != nil {
			t.Fatalf("Put(%s) error: %v", id, err)
		}
	}

	tests := []struct {
		name     string
		id       string
		wantID   string
		wantCode errors.Code
	}{
		{name: "full id", id: "abc-123", wantID: "abc-123"},
		{name: "unique prefix", id: "abc", wantID: "abc-123"},
		{name: "another prefix", id: "x", wantID: "xyz-789"},
		{name: "ambiguous prefix", id: "ab", wantCode: errors.ErrCodeInvalidInput},
		{name: "absent", id: "zzz", wantCode: errors.ErrCodeSimulationNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := findRecord(ctx, store, tt.id)
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Fatalf("findRecord(%q) error = %v, want %s", tt.id, err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("findRecord(%q) error: %v", tt.id, err)
			}
			if rec.ID != tt.wantID {
				t.Errorf("findRecord(%q) = %s, want %s", tt.id, rec.ID, tt.wantID)
			}
		})
	}
}
