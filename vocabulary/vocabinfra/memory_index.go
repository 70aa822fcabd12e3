package vocabinfra

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"sort"

	"github.com/resumatch/resumatch/vocabulary"
)

// IndexEntry is one key/embedding pair of an in-memory index snapshot.
type IndexEntry struct {
	Key       string               `json:"key"`
	Kind      vocabulary.EntryKind `json:"kind"`
	Embedding []float32            `json:"embedding"`
}

// MemoryVectorIndex is a brute-force cosine-similarity index held
// entirely in memory. Used for tests and for DB-less deployments that
// load a prebuilt snapshot file. Reads are lock-free: the entry slice
// is never mutated after construction (Upsert is only called by the
// offline build step, before serving starts).
type MemoryVectorIndex struct {
	entries []IndexEntry
	byKey   map[string]int // "kind/key" -> entries position
}

func NewMemoryVectorIndex(entries []IndexEntry) *MemoryVectorIndex {
	idx := &MemoryVectorIndex{
		byKey: make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		idx.add(e)
	}
	return idx
}

// LoadSnapshot reads a JSON snapshot produced by the build step.
func LoadSnapshot(path string) (*MemoryVectorIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, vocabulary.ErrRegistry.NewWithCause(vocabulary.CodeIndexUnavailable, err).
			WithDetail("path", path)
	}

	var entries []IndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, vocabulary.ErrRegistry.NewWithCause(vocabulary.CodeIndexUnavailable, err).
			WithDetail("path", path).
			WithDetail("reason", "invalid snapshot")
	}
	return NewMemoryVectorIndex(entries), nil
}

// SaveSnapshot writes the index content as JSON.
func (m *MemoryVectorIndex) SaveSnapshot(path string) error {
	data, err := json.Marshal(m.entries)
	if err != nil {
		return vocabulary.ErrRegistry.NewWithCause(vocabulary.CodeIndexBuildFailed, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return vocabulary.ErrRegistry.NewWithCause(vocabulary.CodeIndexBuildFailed, err).
			WithDetail("path", path)
	}
	return nil
}

func (m *MemoryVectorIndex) add(e IndexEntry) {
	id := string(e.Kind) + "/" + e.Key
	if pos, ok := m.byKey[id]; ok {
		m.entries[pos] = e
		return
	}
	m.byKey[id] = len(m.entries)
	m.entries = append(m.entries, e)
}

// Upsert adds or replaces an entry. Build step only.
func (m *MemoryVectorIndex) Upsert(_ context.Context, key string, kind vocabulary.EntryKind, embedding []float32) error {
	m.add(IndexEntry{Key: key, Kind: kind, Embedding: embedding})
	return nil
}

// Nearest scans all entries of the kind and returns the top k by
// cosine similarity.
func (m *MemoryVectorIndex) Nearest(_ context.Context, query []float32, kind vocabulary.EntryKind, k int) ([]vocabulary.Neighbor, error) {
	neighbors := make([]vocabulary.Neighbor, 0, k)
	for _, e := range m.entries {
		if e.Kind != kind {
			continue
		}
		neighbors = append(neighbors, vocabulary.Neighbor{
			Key:        e.Key,
			Similarity: CosineSimilarity(query, e.Embedding),
		})
	}

	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].Similarity != neighbors[j].Similarity {
			return neighbors[i].Similarity > neighbors[j].Similarity
		}
		return neighbors[i].Key < neighbors[j].Key // stable order for ties
	})

	if len(neighbors) > k {
		neighbors = neighbors[:k]
	}
	return neighbors, nil
}

// Lookup returns the stored embedding for a key.
func (m *MemoryVectorIndex) Lookup(_ context.Context, key string, kind vocabulary.EntryKind) ([]float32, error) {
	pos, ok := m.byKey[string(kind)+"/"+key]
	if !ok {
		return nil, vocabulary.ErrEntryNotIndexed().
			WithDetail("key", key).
			WithDetail("kind", string(kind))
	}
	return m.entries[pos].Embedding, nil
}

// Count returns the total number of indexed entries.
func (m *MemoryVectorIndex) Count(_ context.Context) (int, error) {
	return len(m.entries), nil
}

// CosineSimilarity computes the cosine of the angle between two
// vectors. Returns 0 for mismatched or zero-magnitude vectors.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

var (
	_ vocabulary.VectorIndex  = (*MemoryVectorIndex)(nil)
	_ vocabulary.IndexBuilder = (*MemoryVectorIndex)(nil)
)
