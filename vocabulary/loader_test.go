package vocabulary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValidVocabulary(t *testing.T) {
	data := []byte(`
version: "2026-08-01"
skills:
  - key: Python
    display: Python
  - key: javascript
    display: JavaScript
    aliases: [JS, ecmascript]
roles:
  - label: Backend-Developer
    display: Backend Developer
    description: Builds server-side services
`)

	v, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, "2026-08-01", v.Version)
	require.Len(t, v.Skills, 2)
	// Keys and aliases are lowercased during parsing.
	assert.Equal(t, "python", v.Skills[0].Key)
	assert.Equal(t, []string{"js", "ecmascript"}, v.Skills[1].Aliases)
	require.Len(t, v.Roles, 1)
	assert.Equal(t, "backend-developer", v.Roles[0].Label)
}

func TestParseRejectsEmptySkills(t *testing.T) {
	_, err := Parse([]byte(`version: "1"`))
	assert.Error(t, err)
}

func TestParseRejectsDuplicateKeys(t *testing.T) {
	data := []byte(`
skills:
  - key: python
  - key: PYTHON
`)
	_, err := Parse(data)
	assert.Error(t, err)
}

func TestParseRejectsRoleWithoutDescription(t *testing.T) {
	data := []byte(`
skills:
  - key: python
roles:
  - label: data-scientist
    display: Data Scientist
`)
	_, err := Parse(data)
	assert.Error(t, err)
}

func TestParseRejectsInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("skills: [unclosed"))
	assert.Error(t, err)
}
