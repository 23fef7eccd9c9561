package extractor

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// extractPDF reads the text layer and the page count. Scanned PDFs without a
// text layer yield empty text.
func extractPDF(data []byte) (res Result, err error) {
	if len(data) == 0 {
		return Result{}, fmt.Errorf("%w: empty file", ErrCorrupt)
	}

	// The text layer parser panics on some malformed streams.
	defer func() {
		if r := recover(); r != nil {
			res, err = Result{}, fmt.Errorf("%w: %v", ErrCorrupt, r)
		}
	}()

	rd, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	plain, err := rd.GetPlainText()
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	text, err := io.ReadAll(plain)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	pages, err := PageCount(data)
	if err != nil {
		pages = rd.NumPage()
	}
	return Result{Text: string(text), PageCount: pages}, nil
}

// PageCount returns the number of pages in a PDF.
func PageCount(data []byte) (int, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	n, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return n, nil
}
