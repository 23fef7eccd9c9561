// Package extractor turns uploaded word-processor and PDF files into plain text.
package extractor

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither word documents nor PDFs.
	ErrUnsupportedFormat = errors.New("extractor: unsupported format")
	// ErrCorrupt is returned when a file of a supported family cannot be parsed.
	ErrCorrupt = errors.New("extractor: unreadable document")
)

// Family groups MIME types by the strategy that handles them.
type Family string

const (
	FamilyUnknown Family = ""
	FamilyWord    Family = "word"
	FamilyPDF     Family = "pdf"
)

// FamilyOf classifies a MIME type. Anything mentioning "word" is a word document,
// anything mentioning "pdf" is a PDF.
func FamilyOf(mimeType string) Family {
	t := strings.ToLower(mimeType)
	switch {
	case strings.Contains(t, "word"):
		return FamilyWord
	case strings.Contains(t, "pdf"):
		return FamilyPDF
	default:
		return FamilyUnknown
	}
}

// Result is the text layer of a document. PageCount is zero for word documents.
type Result struct {
	Text      string
	PageCount int
}

// Extractor dispatches on the document family. It holds no state and is safe for concurrent use.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

// Extract returns the plain text of data. Running it twice on the same bytes yields the same text.
func (e *Extractor) Extract(ctx context.Context, mimeType string, data []byte) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	switch FamilyOf(mimeType) {
	case FamilyWord:
		text, err := extractDOCX(data)
		if err != nil {
			return Result{}, err
		}
		return Result{Text: text}, nil
	case FamilyPDF:
		return extractPDF(data)
	default:
		return Result{}, ErrUnsupportedFormat
	}
}
