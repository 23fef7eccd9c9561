package regenerator

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/go-pdf/fpdf"
)

const ContentTypePDF = "application/pdf"

// Page geometry in points. Coordinates in Placement use the PDF convention:
// origin at the bottom-left corner, y growing upwards.
const (
	PageWidth  = 595.28
	PageHeight = 841.89
	Margin     = 50.0
	FontSize   = 12.0
	LineStep   = FontSize * 1.2
)

// LinesPerPage is how many lines fit between the top and bottom margins.
var LinesPerPage = int(math.Floor((PageHeight - 2*Margin) / LineStep))

// Placement is one line of text positioned on a page.
type Placement struct {
	X, Y float64
	Text string
}

// FilterSingleByte drops every character above U+00FF.
func FilterSingleByte(s string) string {
	return strings.Map(func(r rune) rune {
		if r > 0xFF {
			return -1
		}
		return r
	}, s)
}

// Layout places lines top to bottom and starts a new page when the next
// baseline would fall below the bottom margin. It never drops a line.
func Layout(lines []string) [][]Placement {
	var (
		pages [][]Placement
		page  []Placement
	)
	y := PageHeight - Margin
	for _, line := range lines {
		y -= LineStep
		if y < Margin {
			pages = append(pages, page)
			page = nil
			y = PageHeight - Margin - LineStep
		}
		page = append(page, Placement{X: Margin, Y: y, Text: line})
	}
	return append(pages, page)
}

// PDF renders text in 12pt Courier on A4 pages. Characters that Courier's
// single-byte encoding cannot represent are dropped.
func PDF(text string) ([]byte, error) {
	pages := Layout(splitLines(FilterSingleByte(text)))

	f := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: PageWidth, Ht: PageHeight},
	})
	f.SetAutoPageBreak(false, 0)
	f.SetFont("Courier", "", FontSize)
	tr := f.UnicodeTranslatorFromDescriptor("")

	for _, page := range pages {
		f.AddPage()
		for _, p := range page {
			if p.Text == "" {
				continue
			}
			f.Text(p.X, PageHeight-p.Y, tr(p.Text))
		}
	}

	var buf bytes.Buffer
	if err := f.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: write pdf: %v", ErrRegeneration, err)
	}
	return buf.Bytes(), nil
}
