package ner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumatch/resumatch/analysis"
	"github.com/resumatch/resumatch/vocabulary"
)

func testVocabulary() *vocabulary.Vocabulary {
	return &vocabulary.Vocabulary{
		Version: "test",
		Skills: []vocabulary.Skill{
			{Key: "python", Display: "Python"},
			{Key: "javascript", Display: "JavaScript", Aliases: []string{"js"}},
			{Key: "c++", Display: "C++"},
			{Key: "ml", Display: "ML", Aliases: []string{"machine learning"}},
			{Key: "go", Display: "Go"},
			{Key: "docker", Display: "Docker"},
		},
	}
}

func mentionTexts(mentions []analysis.EntityMention, typ analysis.EntityType) []string {
	var out []string
	for _, m := range mentions {
		if m.Type == typ {
			out = append(out, m.Text)
		}
	}
	return out
}

func TestRecognizeFindsSurfaceForms(t *testing.T) {
	r := NewLexiconRecognizer(testVocabulary())

	text := "Built services in Python and JS, deployed with Docker."
	mentions, err := r.Recognize(context.Background(), text)
	require.NoError(t, err)

	skills := mentionTexts(mentions, analysis.EntitySkill)
	assert.ElementsMatch(t, []string{"Python", "JS", "Docker"}, skills)
}

func TestRecognizeWordBoundaries(t *testing.T) {
	r := NewLexiconRecognizer(testVocabulary())

	// "go" inside "Django" or "going" must not match.
	mentions, err := r.Recognize(context.Background(), "Going strong with Django")
	require.NoError(t, err)
	assert.Empty(t, mentionTexts(mentions, analysis.EntitySkill))

	mentions, err = r.Recognize(context.Background(), "Wrote tooling in Go and C++")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Go", "C++"}, mentionTexts(mentions, analysis.EntitySkill))
}

func TestRecognizeLongestFormWins(t *testing.T) {
	r := NewLexiconRecognizer(testVocabulary())

	mentions, err := r.Recognize(context.Background(), "Applied machine learning to fraud detection")
	require.NoError(t, err)

	skills := mentionTexts(mentions, analysis.EntitySkill)
	assert.Equal(t, []string{"machine learning"}, skills)
}

func TestRecognizeExperienceAndEducation(t *testing.T) {
	r := NewLexiconRecognizer(testVocabulary())

	text := "Senior engineer with 5+ years of experience. Bachelor of Science in Physics required."
	mentions, err := r.Recognize(context.Background(), text)
	require.NoError(t, err)

	exp := mentionTexts(mentions, analysis.EntityExperienceLevel)
	require.NotEmpty(t, exp)
	assert.Contains(t, exp[0], "5+ years")

	edu := mentionTexts(mentions, analysis.EntityEducation)
	require.NotEmpty(t, edu)
	assert.Contains(t, edu[0], "Bachelor")
}

func TestRecognizeSurvivesCaseLengthChanges(t *testing.T) {
	r := NewLexiconRecognizer(testVocabulary())

	// U+023A lowercases to the wider U+2C65, shifting byte offsets
	// between the original text and its lowered form.
	text := "Ⱥ team that ships Python and Docker"
	mentions, err := r.Recognize(context.Background(), text)
	require.NoError(t, err)

	skills := mentionTexts(mentions, analysis.EntitySkill)
	assert.ElementsMatch(t, []string{"Python", "Docker"}, skills)
}

func TestRecognizeDeterministic(t *testing.T) {
	r := NewLexiconRecognizer(testVocabulary())
	text := "Python, Docker and machine learning. 3 years experience."

	first, err := r.Recognize(context.Background(), text)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := r.Recognize(context.Background(), text)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
