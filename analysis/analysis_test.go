package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumatch/resumatch/pkg/kernel"
)

func TestAddSkillDeduplicatesByKey(t *testing.T) {
	p := &ExtractedProfile{Source: SourceResume}

	p.AddSkill("Python", kernel.SkillKey("python"))
	p.AddSkill("python", kernel.SkillKey("python"))
	p.AddSkill("PYTHON", kernel.SkillKey("python"))
	p.AddSkill("JS", kernel.SkillKey("javascript"))

	require.Len(t, p.Skills, 2)
	// First surface form wins.
	assert.Equal(t, "Python", p.Skills[0].RawSurfaceForm)
	assert.True(t, p.HasSkill(kernel.SkillKey("javascript")))
	assert.False(t, p.HasSkill(kernel.SkillKey("go")))
}

func TestAddSkillIgnoresEmptyKey(t *testing.T) {
	p := &ExtractedProfile{Source: SourceResume}
	p.AddSkill("", kernel.SkillKey(""))
	assert.Empty(t, p.Skills)
}

func TestSkillKeysSorted(t *testing.T) {
	p := &ExtractedProfile{Source: SourceJobDescription}
	p.AddSkill("sql", kernel.SkillKey("sql"))
	p.AddSkill("aws", kernel.SkillKey("aws"))
	p.AddSkill("python", kernel.SkillKey("python"))

	keys := p.SkillKeys()
	assert.Equal(t, []kernel.SkillKey{"aws", "python", "sql"}, keys)
}

func TestJobLifecycle(t *testing.T) {
	job := NewAnalysisJob(
		StoredDocument{Path: "uploads/x/resume.pdf", Format: kernel.FormatPDF},
		StoredDocument{Path: "uploads/x/jd.docx", Format: kernel.FormatDOCX},
	)

	assert.Equal(t, JobStatusPending, job.Status)
	assert.False(t, job.ID.IsEmpty())
	assert.False(t, job.IsTerminal())

	require.NoError(t, job.MarkProcessing())
	assert.Equal(t, 1, job.Attempts)

	// Re-marking during a retry is allowed.
	require.NoError(t, job.MarkProcessing())
	assert.Equal(t, 2, job.Attempts)

	require.NoError(t, job.MarkCompleted(&CompareResponse{FitScore: 50}))
	assert.True(t, job.IsTerminal())
	assert.Equal(t, JobStatusCompleted, job.Status)
}

func TestJobInvalidTransitions(t *testing.T) {
	job := NewAnalysisJob(StoredDocument{}, StoredDocument{})

	// Completing without processing is rejected.
	assert.Error(t, job.MarkCompleted(&CompareResponse{}))

	require.NoError(t, job.MarkProcessing())
	require.NoError(t, job.MarkCompleted(&CompareResponse{}))

	// Terminal states stay terminal.
	assert.Error(t, job.MarkProcessing())
	assert.Error(t, job.MarkFailed("late failure"))
}

func TestJobFailureClearsNothing(t *testing.T) {
	job := NewAnalysisJob(StoredDocument{}, StoredDocument{})
	require.NoError(t, job.MarkProcessing())
	require.NoError(t, job.MarkFailed("extraction failed"))

	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, "extraction failed", job.Error)
	assert.True(t, job.IsTerminal())
}
