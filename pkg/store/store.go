// Package store persists batches of decoded detection graphs.
//
// A batch groups the graphs of one simulation run under a generated ID so
// the HTTP API can hand out stable references to past runs. Two backends
// implement [Store]: an in-memory map for tests and single-process use,
// and MongoDB for deployments (see the mongo subpackage).
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hetenyib/qiskit-qec/pkg/graph"
)

// Batch is a stored group of decoded shots from one simulation run.
type Batch struct {
	ID        string        `json:"id" bson:"_id"`
	Label     string        `json:"label,omitempty" bson:"label,omitempty"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
	Graphs    []graph.Graph `json:"graphs" bson:"graphs"`
}

// NewBatch creates a batch with a fresh UUID and the current time.
func NewBatch(label string, graphs []graph.Graph) Batch {
	return Batch{
		ID:        uuid.New().String(),
		Label:     label,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		Graphs:    graphs,
	}
}

// Store persists batches. Get returns a NOT_FOUND coded error for unknown
// IDs.
type Store interface {
	Put(ctx context.Context, b Batch) error
	Get(ctx context.Context, id string) (Batch, error)
	List(ctx context.Context) ([]Batch, error)
	Delete(ctx context.Context, id string) error
	Close(ctx context.Context) error
}
