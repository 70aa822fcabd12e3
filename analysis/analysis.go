package analysis

import (
	"sort"

	"github.com/resumatch/resumatch/pkg/kernel"
)

// Source tags which document a skill entity was extracted from.
type Source string

const (
	SourceResume         Source = "resume"
	SourceJobDescription Source = "job_description"
)

// ContactInfo holds pattern-matched contact details from a resume.
// Empty fields are soft-empty, never an error.
type ContactInfo struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// ParsedDocument is the normalized text form of an uploaded document,
// immutable once produced. Sections maps section name to its ordered
// text fragments (document order).
type ParsedDocument struct {
	FullText string              `json:"full_text"`
	Contact  ContactInfo         `json:"contact"`
	Sections map[string][]string `json:"sections"`
}

// Education returns the education section fragments, empty when no
// heading was found.
func (d *ParsedDocument) Education() []string {
	return d.Sections["education"]
}

// Experience returns the experience section fragments.
func (d *ParsedDocument) Experience() []string {
	return d.Sections["experience"]
}

// EntityType classifies a raw mention produced by the recognizer.
type EntityType string

const (
	EntitySkill           EntityType = "SKILL"
	EntityExperienceLevel EntityType = "EXPERIENCE_LEVEL"
	EntityEducation       EntityType = "EDUCATION"
)

// EntityMention is one raw, untyped-surface-form hit from the entity
// recognizer.
type EntityMention struct {
	Text string     `json:"text"`
	Type EntityType `json:"type"`
}

// SkillEntity pairs a raw surface form with its canonical key. The
// canonical key drives all set operations; the raw form is retained
// for display only.
type SkillEntity struct {
	RawSurfaceForm string          `json:"raw_surface_form"`
	CanonicalKey   kernel.SkillKey `json:"canonical_key"`
	Source         Source          `json:"source"`
}

// ExtractedProfile aggregates the typed entities recognized in one
// document. Skills are deduplicated by canonical key (set semantics).
type ExtractedProfile struct {
	Source               Source        `json:"source"`
	Skills               []SkillEntity `json:"skills"`
	ExperienceLevel      string        `json:"experience_level,omitempty"`
	EducationRequirement string        `json:"education_requirement,omitempty"`
}

// AddSkill inserts a skill unless its canonical key is already
// present. The first surface form seen for a key wins.
func (p *ExtractedProfile) AddSkill(raw string, key kernel.SkillKey) {
	if key.IsEmpty() || p.HasSkill(key) {
		return
	}
	p.Skills = append(p.Skills, SkillEntity{
		RawSurfaceForm: raw,
		CanonicalKey:   key,
		Source:         p.Source,
	})
}

// HasSkill reports whether the profile contains the canonical key.
func (p *ExtractedProfile) HasSkill(key kernel.SkillKey) bool {
	for _, s := range p.Skills {
		if s.CanonicalKey == key {
			return true
		}
	}
	return false
}

// SkillKeys returns the profile's canonical keys, sorted for
// deterministic output.
func (p *ExtractedProfile) SkillKeys() []kernel.SkillKey {
	keys := make([]kernel.SkillKey, 0, len(p.Skills))
	for _, s := range p.Skills {
		keys = append(keys, s.CanonicalKey)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// MatchResult partitions the two profiles' canonical key sets.
// Invariants: matched, missing, extra are pairwise disjoint;
// matched ∪ missing equals the job description's key set; extra holds
// resume keys absorbed by neither.
type MatchResult struct {
	Matched []kernel.SkillKey `json:"matched"`
	Missing []kernel.SkillKey `json:"missing"`
	Extra   []kernel.SkillKey `json:"extra"`

	// SemanticMatches records job-description keys satisfied via
	// near-neighbor similarity rather than exact key equality.
	SemanticMatches []SemanticMatch `json:"semantic_matches,omitempty"`
}

// SemanticMatch documents one near-neighbor promotion: the required
// key, the resume key that satisfied it, and their similarity.
type SemanticMatch struct {
	RequiredKey kernel.SkillKey `json:"required_key"`
	ResumeKey   kernel.SkillKey `json:"resume_key"`
	Similarity  float64         `json:"similarity"`
}

// RolePrediction is a label from the closed role vocabulary.
type RolePrediction struct {
	Label      kernel.RoleLabel `json:"label"`
	Similarity float64          `json:"similarity,omitempty"`
}

// IsUnknown reports whether the classifier fell back to the sentinel.
func (r RolePrediction) IsUnknown() bool {
	return r.Label == kernel.RoleUnknown
}
