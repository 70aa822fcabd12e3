package docext

import "strings"

// Section names used downstream.
const (
	SectionEducation      = "education"
	SectionExperience     = "experience"
	SectionSkills         = "skills"
	SectionProjects       = "projects"
	SectionCertifications = "certifications"
)

// headingKeywords maps heading phrases (lowercased, colon stripped) to
// the section they open. Keyed-phrase match, not substring: "experience
// with Docker" in body text must not open a section.
var headingKeywords = map[string]string{
	"education":                   SectionEducation,
	"academic background":         SectionEducation,
	"qualifications":              SectionEducation,
	"experience":                  SectionExperience,
	"work experience":             SectionExperience,
	"professional experience":     SectionExperience,
	"employment history":          SectionExperience,
	"experience highlights":       SectionExperience,
	"skills":                      SectionSkills,
	"technical skills":            SectionSkills,
	"core competencies":           SectionSkills,
	"projects":                    SectionProjects,
	"selected projects":           SectionProjects,
	"personal projects":           SectionProjects,
	"certifications":              SectionCertifications,
	"licenses and certifications": SectionCertifications,
}

// maxHeadingWords rejects long sentences that happen to start with a
// heading keyword.
const maxHeadingWords = 4

// DetectSections splits the text on keyword-anchored headings.
// Best-effort: with no recognizable heading the result is empty and
// the whole text stands as one unlabeled section.
func DetectSections(text string) map[string][]string {
	sections := make(map[string][]string)
	current := ""

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if name, ok := matchHeading(trimmed); ok {
			current = name
			if _, exists := sections[name]; !exists {
				sections[name] = []string{}
			}
			continue
		}

		if current != "" {
			sections[current] = append(sections[current], trimmed)
		}
	}
	return sections
}

func matchHeading(line string) (string, bool) {
	h := strings.ToLower(strings.TrimSuffix(line, ":"))
	h = strings.TrimSpace(h)
	if len(strings.Fields(h)) > maxHeadingWords {
		return "", false
	}
	name, ok := headingKeywords[h]
	return name, ok
}
