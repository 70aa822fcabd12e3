package analysissrv

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumatch/resumatch/analysis"
	"github.com/resumatch/resumatch/pkg/kernel"
	"github.com/resumatch/resumatch/vocabulary"
	"github.com/resumatch/resumatch/vocabulary/vocabinfra"
)

// fakeRecognizer returns canned mentions regardless of input.
type fakeRecognizer struct {
	mentions []analysis.EntityMention
	err      error
}

func (f *fakeRecognizer) Recognize(_ context.Context, _ string) ([]analysis.EntityMention, error) {
	return f.mentions, f.err
}

func serviceVocabulary() *vocabulary.Vocabulary {
	return &vocabulary.Vocabulary{
		Version: "test",
		Skills: []vocabulary.Skill{
			{Key: "javascript", Display: "JavaScript", Aliases: []string{"js"}},
			{Key: "python", Display: "Python"},
			{Key: "docker", Display: "Docker"},
		},
	}
}

func newTestService(rec analysis.EntityRecognizer) *Service {
	vocab := serviceVocabulary()
	idx := skillIndex(nil)
	return NewService(
		rec,
		vocabulary.NewNormalizer(vocab),
		NewMatcher(idx, nil, 0.80),
		NewRoleClassifier(idx, &fakeEmbedder{}),
	)
}

func TestBuildProfileNormalizesAndDeduplicates(t *testing.T) {
	rec := &fakeRecognizer{mentions: []analysis.EntityMention{
		{Text: "JS", Type: analysis.EntitySkill},
		{Text: "JavaScript", Type: analysis.EntitySkill},
		{Text: "Python", Type: analysis.EntitySkill},
		{Text: "5+ years of experience", Type: analysis.EntityExperienceLevel},
		{Text: "junior", Type: analysis.EntityExperienceLevel},
		{Text: "Bachelor of Science", Type: analysis.EntityEducation},
	}}
	svc := newTestService(rec)

	profile, err := svc.BuildProfile(context.Background(), &analysis.ParsedDocument{FullText: "x"}, analysis.SourceResume)
	require.NoError(t, err)

	// JS and JavaScript collapse into one canonical key.
	assert.Equal(t, []kernel.SkillKey{"javascript", "python"}, profile.SkillKeys())
	// First mention wins for scalar fields.
	assert.Equal(t, "5+ years of experience", profile.ExperienceLevel)
	assert.Equal(t, "Bachelor of Science", profile.EducationRequirement)
}

func TestBuildProfileRecognizerFailure(t *testing.T) {
	svc := newTestService(&fakeRecognizer{err: errors.New("provider down")})

	_, err := svc.BuildProfile(context.Background(), &analysis.ParsedDocument{FullText: "x"}, analysis.SourceResume)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RECOGNITION_FAILED")
}

func TestCompareRejectsMissingInput(t *testing.T) {
	svc := newTestService(&fakeRecognizer{})

	_, err := svc.Compare(context.Background(), nil, kernel.FormatPDF, []byte("jd"), kernel.FormatPDF)
	assert.Error(t, err)

	_, err = svc.Compare(context.Background(), []byte("resume"), kernel.FormatPDF, nil, kernel.FormatPDF)
	assert.Error(t, err)
}

func TestAliasEquivalenceScoresFull(t *testing.T) {
	// A resume saying "JS" fully satisfies a JD requiring "JavaScript":
	// both normalize to the same canonical key before matching.
	vocab := serviceVocabulary()
	normalizer := vocabulary.NewNormalizer(vocab)
	m := NewMatcher(skillIndex(nil), nil, 0.80)

	resume := &analysis.ExtractedProfile{Source: analysis.SourceResume}
	resume.AddSkill("JS", normalizer.Normalize("JS"))

	jd := &analysis.ExtractedProfile{Source: analysis.SourceJobDescription}
	jd.AddSkill("JavaScript", normalizer.Normalize("JavaScript"))

	result, err := m.Match(context.Background(), resume.SkillKeys(), jd.SkillKeys())
	require.NoError(t, err)

	assert.Equal(t, keys("javascript"), result.Matched)
	assert.Equal(t, 100.0, FitScore(result))
}

func TestCompareClassifiesResumeText(t *testing.T) {
	// The predicted role describes the candidate, so the classifier
	// must read the resume's text, not the job description's.
	idx := vocabinfra.NewMemoryVectorIndex([]vocabinfra.IndexEntry{
		{Key: "backend-developer", Kind: vocabulary.KindRole, Embedding: []float32{1, 0}},
		{Key: "data-scientist", Kind: vocabulary.KindRole, Embedding: []float32{0, 1}},
	})
	emb := &fakeEmbedder{vectors: map[string][]float32{
		"backend engineer building go services": {1, 0},
		"hiring a data scientist for analytics": {0, 1},
	}}
	svc := NewService(
		&fakeRecognizer{},
		vocabulary.NewNormalizer(serviceVocabulary()),
		NewMatcher(skillIndex(nil), nil, 0.80),
		NewRoleClassifier(idx, emb),
	)

	resp, err := svc.CompareDocuments(context.Background(),
		&analysis.ParsedDocument{FullText: "backend engineer building go services"},
		&analysis.ParsedDocument{FullText: "hiring a data scientist for analytics"},
	)
	require.NoError(t, err)
	assert.Equal(t, "backend-developer", resp.PredictedRole)
}

func TestNewCompareResponseShape(t *testing.T) {
	match := &analysis.MatchResult{
		Matched: keys("python"),
		Missing: keys("kubernetes"),
		Extra:   keys("docker"),
	}
	doc := &analysis.ParsedDocument{
		Contact: analysis.ContactInfo{Email: "jane@example.com"},
	}

	resumeProfile := &analysis.ExtractedProfile{Source: analysis.SourceResume}
	resumeProfile.AddSkill("Python", kernel.SkillKey("python"))
	jdProfile := &analysis.ExtractedProfile{Source: analysis.SourceJobDescription}

	resp := analysis.NewCompareResponse(match, 50.0, resumeProfile, jdProfile, doc, analysis.RolePrediction{Label: kernel.RoleUnknown})

	assert.Equal(t, 50.0, resp.FitScore)
	assert.Equal(t, resumeProfile, resp.ResumeProfile)
	assert.Equal(t, jdProfile, resp.JDProfile)
	assert.Equal(t, []string{"python"}, resp.MatchedSkills)
	assert.Equal(t, []string{"kubernetes"}, resp.MissingSkills)
	assert.Equal(t, []string{"docker"}, resp.ExtraSkills)
	assert.Equal(t, "jane@example.com", resp.ResumeContact.Email)
	assert.Empty(t, resp.PredictedRole, "unknown role is omitted from the response")
}
