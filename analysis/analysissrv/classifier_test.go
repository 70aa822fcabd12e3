package analysissrv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/resumatch/resumatch/pkg/kernel"
	"github.com/resumatch/resumatch/vocabulary"
	"github.com/resumatch/resumatch/vocabulary/vocabinfra"
)

func roleIndex() *vocabinfra.MemoryVectorIndex {
	return vocabinfra.NewMemoryVectorIndex([]vocabinfra.IndexEntry{
		{Key: "backend-developer", Kind: vocabulary.KindRole, Embedding: []float32{1, 0, 0}},
		{Key: "data-scientist", Kind: vocabulary.KindRole, Embedding: []float32{0, 1, 0}},
	})
}

func TestClassifyPicksNearestRole(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float32{
		"Build REST APIs in Go": {0.9, 0.1, 0},
	}}
	c := NewRoleClassifier(roleIndex(), emb)

	pred := c.Classify(context.Background(), "Build REST APIs in Go")
	assert.Equal(t, kernel.RoleLabel("backend-developer"), pred.Label)
	assert.False(t, pred.IsUnknown())
	assert.Greater(t, pred.Similarity, 0.9)
}

func TestClassifyShortInputIsUnknown(t *testing.T) {
	c := NewRoleClassifier(roleIndex(), &fakeEmbedder{})

	for _, text := range []string{"", "python", "python developer"} {
		pred := c.Classify(context.Background(), text)
		assert.True(t, pred.IsUnknown(), "text %q should be unclassifiable", text)
		assert.Equal(t, kernel.RoleUnknown, pred.Label)
	}
}

func TestClassifyEmbedFailureIsUnknown(t *testing.T) {
	c := NewRoleClassifier(roleIndex(), &fakeEmbedder{})

	pred := c.Classify(context.Background(), "senior platform engineering role")
	assert.True(t, pred.IsUnknown())
}

func TestClassifyEmptyIndexIsUnknown(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float32{
		"machine learning research position": {0, 1, 0},
	}}
	c := NewRoleClassifier(vocabinfra.NewMemoryVectorIndex(nil), emb)

	pred := c.Classify(context.Background(), "machine learning research position")
	assert.True(t, pred.IsUnknown())
}

func TestClassifyDeterministic(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float32{
		"analyze data and build models": {0.1, 0.95, 0},
	}}
	c := NewRoleClassifier(roleIndex(), emb)

	first := c.Classify(context.Background(), "analyze data and build models")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, c.Classify(context.Background(), "analyze data and build models"))
	}
}
