package docext

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/nguyenthenguyen/docx"

	"github.com/resumatch/resumatch/pkg/kernel"
)

// Sentinel errors mapped to the analysis error registry by callers.
var (
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrCorruptDocument   = errors.New("document cannot be decoded")
)

// Contact holds pattern-matched contact details. Empty fields mean no
// match, never an error.
type Contact struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Extraction is the normalized output of document text extraction.
// Sections maps section name to the ordered text fragments found under
// its heading; fragments keep document order.
type Extraction struct {
	FullText string              `json:"full_text"`
	Contact  Contact             `json:"contact"`
	Sections map[string][]string `json:"sections"`
}

// Extract converts a binary document into normalized plain text plus
// coarse structural hints. The document itself is consumed here and
// not retained.
func Extract(data []byte, format kernel.DocumentFormat) (*Extraction, error) {
	if !format.IsSupported() {
		return nil, fmt.Errorf("format %q: %w", format, ErrUnsupportedFormat)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty document: %w", ErrCorruptDocument)
	}

	var (
		text string
		err  error
	)
	switch format {
	case kernel.FormatPDF:
		text, err = extractPDFText(data)
	case kernel.FormatDOCX:
		text, err = extractDocxText(data)
	}
	if err != nil {
		return nil, err
	}

	text = normalizeText(text)
	return &Extraction{
		FullText: text,
		Contact:  DetectContact(text),
		Sections: DetectSections(text),
	}, nil
}

// extractPDFText recovers plain text from all PDF pages.
func extractPDFText(data []byte) (string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w: %v", ErrCorruptDocument, err)
	}
	defer doc.Close()

	var sb strings.Builder
	for i := 0; i < doc.NumPage(); i++ {
		pageText, err := doc.Text(i)
		if err != nil {
			return "", fmt.Errorf("extract pdf page %d: %w: %v", i, ErrCorruptDocument, err)
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// extractDocxText recovers plain text from a DOCX container.
func extractDocxText(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	doc, err := docx.ReadDocxFromMemory(reader, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w: %v", ErrCorruptDocument, err)
	}
	defer doc.Close()

	return stripDocxXML(doc.Editable().GetContent()), nil
}

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>`)
	docxTabMark      = regexp.MustCompile(`<w:tab[^>]*/>`)
	docxTag          = regexp.MustCompile(`<[^>]+>`)
)

// stripDocxXML turns word-processing XML into plain text: paragraph
// ends become newlines, tab marks become spaces, remaining tags drop.
func stripDocxXML(content string) string {
	content = docxParagraphEnd.ReplaceAllString(content, "\n")
	content = docxTabMark.ReplaceAllString(content, " ")
	content = docxTag.ReplaceAllString(content, "")
	content = strings.ReplaceAll(content, "&lt;", "<")
	content = strings.ReplaceAll(content, "&gt;", ">")
	content = strings.ReplaceAll(content, "&quot;", `"`)
	content = strings.ReplaceAll(content, "&apos;", "'")
	// Last, so "&amp;lt;" decodes to the literal "&lt;" and not "<".
	content = strings.ReplaceAll(content, "&amp;", "&")
	return content
}

var blankRuns = regexp.MustCompile(`\n{3,}`)

// normalizeText keeps line-break fidelity for NER while dropping
// noise: CRLF, trailing spaces, long blank runs.
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	text = strings.Join(lines, "\n")
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
