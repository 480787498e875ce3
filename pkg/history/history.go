// Package history persists simulation runs so past trees can be listed,
// re-inspected, and re-rendered.
//
// Each "simulate" action produces one immutable [Record]: the generation
// options, the resulting tree document, and its summary statistics. Records
// are owned by a session, replacing the reactive rerun-on-interaction state
// of a dashboard with explicit session-scoped ownership.
//
// Three backends implement [Store]:
//   - memory: in-process, for development and testing
//   - file: JSON files under a config directory, for CLI usage
//   - mongo: MongoDB collection, for server deployments
//
// # Usage
//
//	rec := history.NewRecord(sessionID, opts, tree, summary)
//	if err := store.Put(ctx, rec); err != nil { ... }
//
//	recs, err := store.List(ctx, sessionID, 20)
package history

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/evoviz/phylosim/pkg/phylo"
	"github.com/evoviz/phylosim/pkg/phylo/sim"
	"github.com/evoviz/phylosim/pkg/phylo/stats"
)

// Record is one persisted simulation run.
type Record struct {
	ID        string        `json:"id" bson:"_id"`
	SessionID string        `json:"session_id" bson:"session_id"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
	Options   sim.Options   `json:"options" bson:"options"`
	Tree      phylo.TreeDoc `json:"tree" bson:"tree"`
	Summary   stats.Summary `json:"summary" bson:"summary"`
}

// NewRecord creates a record with a fresh UUID and current timestamp.
func NewRecord(sessionID string, opts sim.Options, tree *phylo.Tree, summary stats.Summary) *Record {
	return &Record{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		CreatedAt: time.Now().UTC(),
		Options:   opts,
		Tree:      phylo.ToDoc(tree),
		Summary:   summary,
	}
}

// Store is the interface for simulation history backends.
type Store interface {
	// Put stores a record.
	Put(ctx context.Context, rec *Record) error

	// Get retrieves a record by ID.
	// Returns a SIMULATION_NOT_FOUND error if the ID is absent.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns up to limit records for a session, newest first.
	// A non-positive limit means no limit.
	List(ctx context.Context, sessionID string, limit int) ([]*Record, error)

	// Delete removes a record. Deleting an absent ID is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}
