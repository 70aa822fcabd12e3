package docext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumatch/resumatch/pkg/kernel"
)

func TestExtractRejectsUnsupportedFormat(t *testing.T) {
	_, err := Extract([]byte("content"), kernel.DocumentFormat("txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExtractRejectsEmptyDocument(t *testing.T) {
	_, err := Extract(nil, kernel.FormatPDF)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorruptDocument)
}

func TestExtractRejectsGarbagePDF(t *testing.T) {
	_, err := Extract([]byte("definitely not a pdf"), kernel.FormatPDF)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorruptDocument)
}

func TestDetectContact(t *testing.T) {
	text := "Jane Roe\njane.roe+work@example.co.uk\n+1 (555) 123-4567\nBerlin"

	c := DetectContact(text)
	assert.Equal(t, "jane.roe+work@example.co.uk", c.Email)
	assert.Contains(t, c.Phone, "555")
}

func TestDetectContactMissing(t *testing.T) {
	c := DetectContact("no contact details here")
	assert.Empty(t, c.Email)
	assert.Empty(t, c.Phone)
}

func TestDetectSections(t *testing.T) {
	text := `Jane Roe

Work Experience
Built services at Acme
Led a platform team

Education:
BSc Computer Science

Technical Skills
Python, Docker`

	sections := DetectSections(text)

	require.Contains(t, sections, SectionExperience)
	assert.Equal(t, []string{"Built services at Acme", "Led a platform team"}, sections[SectionExperience])
	assert.Equal(t, []string{"BSc Computer Science"}, sections[SectionEducation])
	assert.Equal(t, []string{"Python, Docker"}, sections[SectionSkills])
}

func TestDetectSectionsIgnoresBodyMentions(t *testing.T) {
	// "experience" inside a sentence must not open a section.
	text := "Summary\nHas experience with Docker in production environments"
	sections := DetectSections(text)
	assert.NotContains(t, sections, SectionExperience)
}

func TestDetectSectionsNoHeadings(t *testing.T) {
	sections := DetectSections("just a flat paragraph of text")
	assert.Empty(t, sections)
}

func TestNormalizeText(t *testing.T) {
	in := "line one  \r\nline two\t\r\n\n\n\n\nline three\n"
	out := normalizeText(in)
	assert.Equal(t, "line one\nline two\n\nline three", out)
}

func TestStripDocxXML(t *testing.T) {
	in := `<w:p><w:r><w:t>Skills:</w:t></w:r></w:p><w:p><w:r><w:tab/><w:t>Python &amp; Go</w:t></w:r></w:p>`
	out := stripDocxXML(in)
	assert.Contains(t, out, "Skills:\n")
	assert.Contains(t, out, "Python & Go")
	assert.NotContains(t, out, "<w:")
}

func TestStripDocxXMLDoubleEscapedEntities(t *testing.T) {
	// "&amp;lt;" is the literal text "&lt;", not a "<".
	out := stripDocxXML(`<w:p><w:r><w:t>a &amp;lt; b &amp;amp; c</w:t></w:r></w:p>`)
	assert.Contains(t, out, "a &lt; b &amp; c")
}
