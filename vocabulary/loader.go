package vocabulary

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and validates the reference vocabulary from a YAML file.
// Called once at process start; a failure here is fatal for serving.
func Load(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrRegistry.NewWithCause(CodeVocabularyLoadFailed, err).
			WithDetail("path", path)
	}
	return Parse(data)
}

// Parse decodes and validates vocabulary YAML.
func Parse(data []byte) (*Vocabulary, error) {
	var v Vocabulary
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, ErrRegistry.NewWithCause(CodeVocabularyLoadFailed, err)
	}

	if len(v.Skills) == 0 {
		return nil, ErrInvalidVocabulary().
			WithDetail("reason", "no skills defined")
	}

	seen := make(map[string]bool, len(v.Skills))
	for i := range v.Skills {
		s := &v.Skills[i]
		s.Key = strings.ToLower(strings.TrimSpace(s.Key))
		if s.Key == "" {
			return nil, ErrInvalidVocabulary().
				WithDetail("reason", "skill with empty key").
				WithDetail("position", i)
		}
		if seen[s.Key] {
			return nil, ErrInvalidVocabulary().
				WithDetail("reason", "duplicate skill key").
				WithDetail("key", s.Key)
		}
		seen[s.Key] = true
		for j, a := range s.Aliases {
			s.Aliases[j] = strings.ToLower(strings.TrimSpace(a))
		}
	}

	roles := make(map[string]bool, len(v.Roles))
	for i := range v.Roles {
		r := &v.Roles[i]
		r.Label = strings.ToLower(strings.TrimSpace(r.Label))
		if r.Label == "" {
			return nil, ErrInvalidVocabulary().
				WithDetail("reason", "role with empty label").
				WithDetail("position", i)
		}
		if roles[r.Label] {
			return nil, ErrInvalidVocabulary().
				WithDetail("reason", "duplicate role label").
				WithDetail("label", r.Label)
		}
		roles[r.Label] = true
		if strings.TrimSpace(r.Description) == "" {
			return nil, ErrInvalidVocabulary().
				WithDetail("reason", "role without description").
				WithDetail("label", r.Label)
		}
	}

	return &v, nil
}
