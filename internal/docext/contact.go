package docext

import "regexp"

// Contact patterns run directly over the extracted text, independent
// of entity recognition.
var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`(\+\d{1,3})?\s*\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}`)
)

// DetectContact finds the first email address and phone number in the
// text. Missing matches yield empty fields.
func DetectContact(text string) Contact {
	c := Contact{}
	if m := emailPattern.FindString(text); m != "" {
		c.Email = m
	}
	if m := phonePattern.FindString(text); m != "" {
		c.Phone = m
	}
	return c
}
