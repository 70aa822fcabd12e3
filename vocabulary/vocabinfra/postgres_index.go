package vocabinfra

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/jmoiron/sqlx"
	"github.com/pgvector/pgvector-go"

	"github.com/resumatch/resumatch/vocabulary"
)

// PostgresVectorIndex implements the vector index on pgvector. Rows are
// written only by the offline build step; request serving is read-only.
type PostgresVectorIndex struct {
	db *sqlx.DB
}

func NewPostgresVectorIndex(db *sqlx.DB) *PostgresVectorIndex {
	return &PostgresVectorIndex{db: db}
}

// EnsureSchema creates the embeddings table and its ANN index. Called
// by the build step, never during serving.
func (r *PostgresVectorIndex) EnsureSchema(ctx context.Context, dimension int) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`CREATE TABLE IF NOT EXISTS vocabulary_embeddings (
			key        TEXT NOT NULL,
			kind       TEXT NOT NULL,
			embedding  vector(` + strconv.Itoa(dimension) + `) NOT NULL,
			PRIMARY KEY (key, kind)
		)`,
		`CREATE INDEX IF NOT EXISTS vocabulary_embeddings_cosine_idx
			ON vocabulary_embeddings
			USING ivfflat (embedding vector_cosine_ops)`,
	}
	for _, stmt := range statements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return vocabulary.ErrRegistry.NewWithCause(vocabulary.CodeIndexBuildFailed, err).
				WithDetail("operation", "ensure_schema")
		}
	}
	return nil
}

// Upsert writes one embedding row (offline build only).
func (r *PostgresVectorIndex) Upsert(ctx context.Context, key string, kind vocabulary.EntryKind, embedding []float32) error {
	query := `
		INSERT INTO vocabulary_embeddings (key, kind, embedding)
		VALUES ($1, $2, $3)
		ON CONFLICT (key, kind) DO UPDATE SET embedding = EXCLUDED.embedding`

	_, err := r.db.ExecContext(ctx, query, key, string(kind), pgvector.NewVector(embedding))
	if err != nil {
		return vocabulary.ErrRegistry.NewWithCause(vocabulary.CodeIndexBuildFailed, err).
			WithDetail("key", key).
			WithDetail("kind", string(kind))
	}
	return nil
}

// Nearest returns up to k entries of the given kind by descending
// cosine similarity.
func (r *PostgresVectorIndex) Nearest(ctx context.Context, query []float32, kind vocabulary.EntryKind, k int) ([]vocabulary.Neighbor, error) {
	sqlQuery := `
		SELECT
			key,
			1 - (embedding <=> $1) AS similarity
		FROM vocabulary_embeddings
		WHERE kind = $2
		ORDER BY embedding <=> $1
		LIMIT $3`

	rows := []struct {
		Key        string  `db:"key"`
		Similarity float64 `db:"similarity"`
	}{}
	err := r.db.SelectContext(ctx, &rows, sqlQuery, pgvector.NewVector(query), string(kind), k)
	if err != nil {
		return nil, vocabulary.ErrRegistry.NewWithCause(vocabulary.CodeIndexUnavailable, err).
			WithDetail("operation", "nearest").
			WithDetail("kind", string(kind))
	}

	neighbors := make([]vocabulary.Neighbor, 0, len(rows))
	for _, row := range rows {
		neighbors = append(neighbors, vocabulary.Neighbor{
			Key:        row.Key,
			Similarity: row.Similarity,
		})
	}
	return neighbors, nil
}

// Lookup returns the stored embedding for a key.
func (r *PostgresVectorIndex) Lookup(ctx context.Context, key string, kind vocabulary.EntryKind) ([]float32, error) {
	query := `SELECT embedding FROM vocabulary_embeddings WHERE key = $1 AND kind = $2`

	var vec pgvector.Vector
	err := r.db.GetContext(ctx, &vec, query, key, string(kind))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, vocabulary.ErrEntryNotIndexed().
				WithDetail("key", key).
				WithDetail("kind", string(kind))
		}
		return nil, vocabulary.ErrRegistry.NewWithCause(vocabulary.CodeIndexUnavailable, err).
			WithDetail("operation", "lookup").
			WithDetail("key", key)
	}
	return vec.Slice(), nil
}

// Count returns the total number of indexed entries.
func (r *PostgresVectorIndex) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM vocabulary_embeddings`)
	if err != nil {
		return 0, vocabulary.ErrRegistry.NewWithCause(vocabulary.CodeIndexUnavailable, err).
			WithDetail("operation", "count")
	}
	return count, nil
}

var (
	_ vocabulary.VectorIndex  = (*PostgresVectorIndex)(nil)
	_ vocabulary.IndexBuilder = (*PostgresVectorIndex)(nil)
)
