package regenerator

import (
	"bytes"
	"fmt"

	"github.com/fumiama/go-docx"
)

const ContentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// DOCX builds a document with one paragraph per line of text.
func DOCX(text string) ([]byte, error) {
	doc := docx.New().WithDefaultTheme()
	for _, line := range splitLines(text) {
		p := doc.AddParagraph()
		if line != "" {
			p.AddText(line)
		}
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("%w: write docx: %v", ErrRegeneration, err)
	}
	return buf.Bytes(), nil
}
