package ner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIRecognizeEmptyText(t *testing.T) {
	// Empty or blank text carries no entities; the recognizer contract
	// treats that as a soft-empty result, never an error.
	r := NewOpenAIRecognizer("test-key", "")

	mentions, err := r.Recognize(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, mentions)

	mentions, err = r.Recognize(context.Background(), "  \n\t ")
	require.NoError(t, err)
	assert.Empty(t, mentions)
}
