package vocabulary

import (
	"context"
)

// Neighbor is one result of a nearest-neighbor query, with cosine
// similarity in [-1, 1].
type Neighbor struct {
	Key        string  `json:"key"`
	Similarity float64 `json:"similarity"`
}

// VectorIndex is the nearest-neighbor lookup over the reference
// vocabulary's embedding space. Implementations are read-only during
// request serving; all mutation happens through IndexBuilder in the
// offline build step.
type VectorIndex interface {
	// Nearest returns up to k entries of the given kind ordered by
	// descending similarity to the query vector. Empty only when the
	// index holds no entries of that kind.
	Nearest(ctx context.Context, query []float32, kind EntryKind, k int) ([]Neighbor, error)

	// Lookup returns the stored embedding for a key, or an error for
	// which IsNotIndexed holds when the key is absent.
	Lookup(ctx context.Context, key string, kind EntryKind) ([]float32, error)

	// Count returns the total number of indexed entries.
	Count(ctx context.Context) (int, error)
}

// IndexBuilder is the write side of the index, used only by the
// offline build step.
type IndexBuilder interface {
	Upsert(ctx context.Context, key string, kind EntryKind, embedding []float32) error
}
