package vocabsrv

import (
	"context"

	"github.com/resumatch/resumatch/pkg/logx"
	"github.com/resumatch/resumatch/vocabulary"
)

// embedBatchSize keeps embedding requests under the provider's input
// limits.
const embedBatchSize = 100

// Embedder is the embedding capability the builder needs.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	GenerateBatchEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// Indexer builds the vector index from the reference vocabulary. Runs
// offline (cmd build-index), never during request serving.
type Indexer struct {
	vocab    *vocabulary.Vocabulary
	embedder Embedder
	builder  vocabulary.IndexBuilder
}

func NewIndexer(vocab *vocabulary.Vocabulary, embedder Embedder, builder vocabulary.IndexBuilder) *Indexer {
	return &Indexer{
		vocab:    vocab,
		embedder: embedder,
		builder:  builder,
	}
}

// BuildIndex embeds every skill key and role description and writes
// them into the index.
func (ix *Indexer) BuildIndex(ctx context.Context) error {
	if err := ix.buildSkills(ctx); err != nil {
		return err
	}
	if err := ix.buildRoles(ctx); err != nil {
		return err
	}
	logx.Infof("Vector index built: %d skills, %d roles", len(ix.vocab.Skills), len(ix.vocab.Roles))
	return nil
}

func (ix *Indexer) buildSkills(ctx context.Context) error {
	skills := ix.vocab.Skills
	for start := 0; start < len(skills); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(skills) {
			end = len(skills)
		}
		batch := skills[start:end]

		texts := make([]string, len(batch))
		for i, s := range batch {
			texts[i] = skillEmbeddingText(s)
		}

		embeddings, err := ix.embedder.GenerateBatchEmbeddings(ctx, texts)
		if err != nil {
			return vocabulary.ErrRegistry.NewWithCause(vocabulary.CodeIndexBuildFailed, err).
				WithDetail("stage", "embed_skills").
				WithDetail("batch_start", start)
		}
		if len(embeddings) != len(batch) {
			return vocabulary.ErrIndexBuildFailed().
				WithDetail("stage", "embed_skills").
				WithDetail("expected", len(batch)).
				WithDetail("received", len(embeddings))
		}

		for i, s := range batch {
			if err := ix.builder.Upsert(ctx, s.Key, vocabulary.KindSkill, embeddings[i]); err != nil {
				return err
			}
		}
		logx.Debugf("Indexed skills %d-%d of %d", start, end, len(skills))
	}
	return nil
}

func (ix *Indexer) buildRoles(ctx context.Context) error {
	for _, r := range ix.vocab.Roles {
		embedding, err := ix.embedder.GenerateEmbedding(ctx, r.Description)
		if err != nil {
			return vocabulary.ErrRegistry.NewWithCause(vocabulary.CodeIndexBuildFailed, err).
				WithDetail("stage", "embed_roles").
				WithDetail("label", r.Label)
		}
		if err := ix.builder.Upsert(ctx, r.Label, vocabulary.KindRole, embedding); err != nil {
			return err
		}
	}
	return nil
}

// skillEmbeddingText is the text embedded for a skill entry. Aliases
// are included so near-synonym surface forms land close to their
// canonical key in embedding space.
func skillEmbeddingText(s vocabulary.Skill) string {
	text := s.Key
	if s.Display != "" {
		text = s.Display
	}
	for _, a := range s.Aliases {
		if a != s.Key {
			text += ", " + a
		}
	}
	return text
}
