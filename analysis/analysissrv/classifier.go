package analysissrv

import (
	"context"
	"strings"

	"github.com/resumatch/resumatch/analysis"
	"github.com/resumatch/resumatch/pkg/kernel"
	"github.com/resumatch/resumatch/pkg/logx"
	"github.com/resumatch/resumatch/vocabulary"
)

// minClassifiableTokens guards against classifying fragments too short
// to carry a role signal.
const minClassifiableTokens = 3

// RoleClassifier maps free text onto the closed role vocabulary via
// nearest-neighbor search over role description embeddings. It never
// returns an error: anything that prevents classification yields the
// unknown sentinel.
type RoleClassifier struct {
	index    vocabulary.VectorIndex
	embedder analysis.Embedder
}

func NewRoleClassifier(index vocabulary.VectorIndex, embedder analysis.Embedder) *RoleClassifier {
	return &RoleClassifier{
		index:    index,
		embedder: embedder,
	}
}

// Classify predicts the role label for the text. Short inputs, embed
// failures and an empty index all degrade to unknown.
func (c *RoleClassifier) Classify(ctx context.Context, text string) analysis.RolePrediction {
	unknown := analysis.RolePrediction{Label: kernel.RoleUnknown}

	if len(strings.Fields(text)) < minClassifiableTokens {
		return unknown
	}

	query, err := c.embedder.GenerateEmbedding(ctx, text)
	if err != nil {
		logx.Warnf("Role classification embed failed: %v", err)
		return unknown
	}

	neighbors, err := c.index.Nearest(ctx, query, vocabulary.KindRole, 1)
	if err != nil {
		logx.Warnf("Role classification search failed: %v", err)
		return unknown
	}
	if len(neighbors) == 0 {
		return unknown
	}

	return analysis.RolePrediction{
		Label:      kernel.NewRoleLabel(neighbors[0].Key),
		Similarity: round4(neighbors[0].Similarity),
	}
}
