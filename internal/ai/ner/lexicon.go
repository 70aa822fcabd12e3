package ner

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/resumatch/resumatch/analysis"
	"github.com/resumatch/resumatch/vocabulary"
)

// LexiconRecognizer finds entity mentions by scanning for the
// vocabulary's surface forms plus a small set of fixed patterns. Pure
// text processing, no network calls; identical input always yields
// identical mentions.
type LexiconRecognizer struct {
	// surfaceForms holds every skill key, display name and alias,
	// longest first so multi-word forms win over their substrings.
	surfaceForms []string
}

func NewLexiconRecognizer(vocab *vocabulary.Vocabulary) *LexiconRecognizer {
	seen := make(map[string]struct{})
	forms := make([]string, 0, len(vocab.Skills)*3)

	add := func(form string) {
		form = strings.ToLower(strings.TrimSpace(form))
		if form == "" {
			return
		}
		if _, ok := seen[form]; ok {
			return
		}
		seen[form] = struct{}{}
		forms = append(forms, form)
	}

	for _, s := range vocab.Skills {
		add(string(s.Key))
		add(s.Display)
		for _, a := range s.Aliases {
			add(a)
		}
	}

	sort.Slice(forms, func(i, j int) bool {
		if len(forms[i]) != len(forms[j]) {
			return len(forms[i]) > len(forms[j])
		}
		return forms[i] < forms[j]
	})

	return &LexiconRecognizer{surfaceForms: forms}
}

var (
	experiencePattern = regexp.MustCompile(`(?i)\b\d+\+?\s*(?:years?|yrs?)(?:\s+of)?(?:\s+(?:relevant|professional|industry|hands.on)\s+)?(?:\s*experience)?\b`)
	seniorityPattern  = regexp.MustCompile(`(?i)\b(?:senior|junior|lead|staff|principal|entry[\s-]level|mid[\s-]level)\b`)
	educationPattern  = regexp.MustCompile(`(?i)\b(?:bachelor(?:'s)?|master(?:'s)?|ph\.?d\.?|doctorate|b\.?sc?\.?|m\.?sc?\.?|mba|associate(?:'s)?)\b(?:\s+(?:of|in|degree))?(?:\s+[a-z]+){0,3}`)
)

// Recognize scans the text for skill surface forms and the fixed
// experience and education patterns. The error return is always nil
// but kept for the recognizer contract.
func (r *LexiconRecognizer) Recognize(_ context.Context, text string) ([]analysis.EntityMention, error) {
	lower, offsets := lowerWithOffsets(text)
	mentions := make([]analysis.EntityMention, 0, 16)
	seen := make(map[string]struct{})

	// claimed marks byte ranges already consumed by a longer form so
	// "machine learning" does not also yield "machine".
	claimed := make([]bool, len(lower))

	for _, form := range r.surfaceForms {
		for _, span := range findForm(lower, form) {
			if rangeClaimed(claimed, span[0], span[1]) {
				continue
			}
			markClaimed(claimed, span[0], span[1])
			if _, dup := seen[form]; dup {
				continue
			}
			seen[form] = struct{}{}
			mentions = append(mentions, analysis.EntityMention{
				Text: text[offsets[span[0]]:offsets[span[1]]],
				Type: analysis.EntitySkill,
			})
		}
	}

	for _, m := range firstMatches(experiencePattern, text, 3) {
		mentions = append(mentions, analysis.EntityMention{Text: m, Type: analysis.EntityExperienceLevel})
	}
	for _, m := range firstMatches(seniorityPattern, text, 3) {
		mentions = append(mentions, analysis.EntityMention{Text: m, Type: analysis.EntityExperienceLevel})
	}
	for _, m := range firstMatches(educationPattern, text, 3) {
		mentions = append(mentions, analysis.EntityMention{Text: m, Type: analysis.EntityEducation})
	}

	return mentions, nil
}

// lowerWithOffsets lowercases text rune by rune and maps every byte of
// the result (plus the end position) back to its byte offset in the
// original. Some runes change byte length when lowercased, so offsets
// into the lowered string cannot be used on the original directly.
func lowerWithOffsets(text string) (string, []int) {
	var b strings.Builder
	b.Grow(len(text))
	offsets := make([]int, 0, len(text)+1)

	for i, r := range text {
		lr := unicode.ToLower(r)
		for n := utf8.RuneLen(lr); n > 0; n-- {
			offsets = append(offsets, i)
		}
		b.WriteRune(lr)
	}
	offsets = append(offsets, len(text))
	return b.String(), offsets
}

// findForm returns [start, end) spans where form occurs as a whole
// token. Boundaries are checked by hand because forms like "c++" and
// "node.js" break \b semantics.
func findForm(text, form string) [][2]int {
	var spans [][2]int
	for from := 0; ; {
		i := strings.Index(text[from:], form)
		if i < 0 {
			break
		}
		start := from + i
		end := start + len(form)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			spans = append(spans, [2]int{start, end})
		}
		from = start + 1
	}
	return spans
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	return !isWordChar(text[i-1])
}

func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	return !isWordChar(text[i])
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}

func rangeClaimed(claimed []bool, start, end int) bool {
	for i := start; i < end; i++ {
		if claimed[i] {
			return true
		}
	}
	return false
}

func markClaimed(claimed []bool, start, end int) {
	for i := start; i < end; i++ {
		claimed[i] = true
	}
}

func firstMatches(re *regexp.Regexp, text string, limit int) []string {
	all := re.FindAllString(text, limit)
	out := make([]string, 0, len(all))
	seen := make(map[string]struct{})
	for _, m := range all {
		key := strings.ToLower(strings.TrimSpace(m))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, strings.TrimSpace(m))
	}
	return out
}
