// Package regenerator builds the translated output file for a job.
package regenerator

import (
	"errors"
	"fmt"
	"strings"

	"translateapi/internal/extractor"
)

// ErrRegeneration wraps every failure to build an output file.
var ErrRegeneration = errors.New("regenerator: cannot build output")

const outputSuffix = "_translated"

// Output is a rendered file ready to be stored.
type Output struct {
	Data        []byte
	ContentType string
	Ext         string
}

// Regenerator renders translated text in the format of the source document.
type Regenerator struct{}

func New() *Regenerator {
	return &Regenerator{}
}

// Render dispatches on the source family.
func (r *Regenerator) Render(family extractor.Family, text string) (Output, error) {
	switch family {
	case extractor.FamilyWord:
		data, err := DOCX(text)
		if err != nil {
			return Output{}, err
		}
		return Output{Data: data, ContentType: ContentTypeDOCX, Ext: ".docx"}, nil
	case extractor.FamilyPDF:
		data, err := PDF(text)
		if err != nil {
			return Output{}, err
		}
		return Output{Data: data, ContentType: ContentTypePDF, Ext: ".pdf"}, nil
	default:
		return Output{}, fmt.Errorf("%w: no renderer for %q", ErrRegeneration, family)
	}
}

// OutputName derives the output file name from the stored upload name,
// e.g. "1700000000000-ab12.docx" becomes "1700000000000-ab12.docx_translated.docx".
func OutputName(storedFileName string, family extractor.Family) string {
	ext := ".pdf"
	if family == extractor.FamilyWord {
		ext = ".docx"
	}
	return storedFileName + outputSuffix + ext
}

// splitLines splits on '\n' only; every line, including empty ones, is kept.
func splitLines(text string) []string {
	return strings.Split(text, "\n")
}
