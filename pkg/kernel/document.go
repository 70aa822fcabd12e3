package kernel

import "strings"

// DocumentFormat is the declared container format of an uploaded
// document. Only PDF and DOCX are supported.
type DocumentFormat string

const (
	FormatPDF  DocumentFormat = "pdf"
	FormatDOCX DocumentFormat = "docx"
)

func (f DocumentFormat) String() string { return string(f) }

// IsSupported reports whether the format is one of the two supported
// container formats.
func (f DocumentFormat) IsSupported() bool {
	return f == FormatPDF || f == FormatDOCX
}

// FormatFromFile derives the document format from a filename extension
// or MIME content type. Returns "" when neither identifies a supported
// format.
func FormatFromFile(filename, contentType string) DocumentFormat {
	switch contentType {
	case "application/pdf":
		return FormatPDF
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return FormatDOCX
	}

	name := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(name, ".pdf"):
		return FormatPDF
	case strings.HasSuffix(name, ".docx"):
		return FormatDOCX
	}
	return ""
}
