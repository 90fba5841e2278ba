package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/phpdave11/gofpdf"
)

// Brand colours: green accent for headings, slate for secondary text.
var (
	pdfAccent = [3]int{22, 163, 74}
	pdfMuted  = [3]int{100, 116, 139}
	pdfText   = [3]int{15, 23, 42}
)

// PDF writes an A4 document with a cover section followed by one section
// per day listing its activities, times, places and an estimated total.
func PDF(w io.Writer, it domain.Itinerary, meta Meta) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(meta.title(), true)
	pdf.SetCreator("itinera", true)
	pdf.SetAutoPageBreak(true, 18)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "", 8)
		setColor(pdf, pdfMuted)
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("%s · page %d", meta.title(), pdf.PageNo())), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	writeCover(pdf, tr, it, meta)

	for i, day := range it.Days {
		writeDay(pdf, tr, i, day, meta)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("rendering pdf: %w", err)
	}
	return nil
}

func writeCover(pdf *gofpdf.Fpdf, tr func(string) string, it domain.Itinerary, meta Meta) {
	pdf.SetFont("Helvetica", "B", 24)
	setColor(pdf, pdfAccent)
	pdf.MultiCell(0, 11, tr(meta.title()), "", "L", false)

	pdf.SetFont("Helvetica", "", 11)
	setColor(pdf, pdfMuted)
	var facts []string
	if r := meta.dateRange(len(it.Days)); r != "" {
		facts = append(facts, r)
	}
	facts = append(facts, fmt.Sprintf("%d days", len(it.Days)))
	if len(meta.Countries) > 0 {
		facts = append(facts, "Countries: "+strings.Join(meta.Countries, ", "))
	}
	if meta.Pace != "" {
		facts = append(facts, "Pace: "+meta.Pace)
	}
	for _, f := range facts {
		pdf.CellFormat(0, 6, tr(f), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func writeDay(pdf *gofpdf.Fpdf, tr func(string) string, i int, day domain.Day, meta Meta) {
	// Keep a heading together with at least its first activity.
	_, pageH := pdf.GetPageSize()
	if pdf.GetY() > pageH-50 {
		pdf.AddPage()
	}

	pdf.SetFont("Helvetica", "B", 15)
	setColor(pdf, pdfText)
	pdf.MultiCell(0, 8, tr(meta.dayLabel(i)+" · "+day.Title), "", "L", false)
	x, y := pdf.GetX(), pdf.GetY()
	pdf.SetDrawColor(pdfAccent[0], pdfAccent[1], pdfAccent[2])
	pdf.Line(x, y, x+60, y)
	pdf.Ln(2)

	if len(day.Activities) == 0 {
		pdf.SetFont("Helvetica", "I", 11)
		setColor(pdf, pdfMuted)
		pdf.CellFormat(0, 6, tr("Free day"), "", 1, "L", false, 0, "")
	}
	for _, a := range day.Activities {
		pdf.SetFont("Helvetica", "", 11)
		setColor(pdf, pdfText)
		line := "- " + a.Text
		if r := timeRange(a); r != "" {
			line += "  (" + r
			if mins := ActivityMinutes(a); mins > 0 {
				line += ", " + FormatMinutes(mins)
			}
			line += ")"
		}
		pdf.MultiCell(0, 6, tr(line), "", "L", false)
		if a.Place != nil {
			pdf.SetFont("Helvetica", "", 9)
			setColor(pdf, pdfMuted)
			pdf.MultiCell(0, 5, tr("    "+locationText(a.Place)), "", "L", false)
		}
	}

	if total := DayMinutes(day); total > 0 {
		pdf.Ln(1)
		pdf.SetFont("Helvetica", "I", 10)
		setColor(pdf, pdfMuted)
		pdf.CellFormat(0, 6, "Estimated total: "+FormatMinutes(total), "", 1, "L", false, 0, "")
	}
	pdf.Ln(5)
}

func setColor(pdf *gofpdf.Fpdf, c [3]int) {
	pdf.SetTextColor(c[0], c[1], c[2])
}
