package vocabulary

import (
	"github.com/resumatch/resumatch/pkg/kernel"
)

// EntryKind distinguishes the two embedding namespaces held by the
// vector index.
type EntryKind string

const (
	KindSkill EntryKind = "skill"
	KindRole  EntryKind = "role"
)

// Skill is one curated entry of the reference vocabulary. Key is the
// canonical lowercase identifier; Aliases are the surface forms that
// normalize to it.
type Skill struct {
	Key     string   `yaml:"key"`
	Display string   `yaml:"display,omitempty"`
	Aliases []string `yaml:"aliases,omitempty"`
}

// Role is one label of the closed role vocabulary, with the
// descriptive text whose embedding serves as the label's centroid.
type Role struct {
	Label       string `yaml:"label"`
	Display     string `yaml:"display,omitempty"`
	Description string `yaml:"description"`
}

// Vocabulary is the curated, offline-built reference data: skills with
// their aliases and the role label set. Loaded once at startup and
// treated as read-only afterwards.
type Vocabulary struct {
	Version string  `yaml:"version"`
	Skills  []Skill `yaml:"skills"`
	Roles   []Role  `yaml:"roles"`
}

// SkillKeys returns all canonical skill keys.
func (v *Vocabulary) SkillKeys() []kernel.SkillKey {
	keys := make([]kernel.SkillKey, 0, len(v.Skills))
	for _, s := range v.Skills {
		keys = append(keys, kernel.SkillKey(s.Key))
	}
	return keys
}

// RoleLabels returns all role labels.
func (v *Vocabulary) RoleLabels() []kernel.RoleLabel {
	labels := make([]kernel.RoleLabel, 0, len(v.Roles))
	for _, r := range v.Roles {
		labels = append(labels, kernel.RoleLabel(r.Label))
	}
	return labels
}

// HasRole reports whether label belongs to the closed role set.
func (v *Vocabulary) HasRole(label kernel.RoleLabel) bool {
	for _, r := range v.Roles {
		if r.Label == label.String() {
			return true
		}
	}
	return false
}
