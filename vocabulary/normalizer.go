package vocabulary

import (
	"strings"

	"github.com/resumatch/resumatch/pkg/kernel"
)

// Normalizer canonicalizes raw skill surface forms into vocabulary
// keys. Built once from the loaded vocabulary; read-only afterwards.
type Normalizer struct {
	aliases map[string]string // surface form (lowercase) -> canonical key
	display map[string]string // canonical key -> preferred display casing
}

// NewNormalizer inverts the vocabulary's alias lists into a lookup
// table. Canonical keys map to themselves, so Normalize is idempotent.
func NewNormalizer(v *Vocabulary) *Normalizer {
	n := &Normalizer{
		aliases: make(map[string]string),
		display: make(map[string]string, len(v.Skills)),
	}
	for _, s := range v.Skills {
		n.aliases[s.Key] = s.Key
		for _, a := range s.Aliases {
			n.aliases[a] = s.Key
		}
		if s.Display != "" {
			n.display[s.Key] = s.Display
		}
	}
	return n
}

// Normalize returns the canonical key for a raw mention: lowercase and
// trim, resolve through the alias table, and fall back to the
// lowercased form itself when no alias matches.
func (n *Normalizer) Normalize(raw string) kernel.SkillKey {
	s := strings.ToLower(strings.TrimSpace(raw))
	if canonical, ok := n.aliases[s]; ok {
		return kernel.SkillKey(canonical)
	}
	return kernel.SkillKey(s)
}

// Display returns the preferred display casing for a canonical key,
// or the key itself when the vocabulary defines none.
func (n *Normalizer) Display(key kernel.SkillKey) string {
	if d, ok := n.display[key.String()]; ok {
		return d
	}
	return key.String()
}

// Known reports whether the key belongs to the curated vocabulary.
func (n *Normalizer) Known(key kernel.SkillKey) bool {
	_, ok := n.aliases[key.String()]
	return ok
}
