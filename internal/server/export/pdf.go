package export

import (
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/timekeeper/internal/server/models"
	"github.com/jung-kurt/gofpdf"
)

const pdfTimeLayout = "2006-01-02 15:04:05"

// PDFTitle is the heading of a log export covering start to end.
func PDFTitle(start, end string) string {
	return fmt.Sprintf("Employee Logs: %s to %s", start, end)
}

// WritePDF renders an A4 document with one numbered block per session.
// Pages break automatically.
func WritePDF(out io.Writer, title string, logs []*models.ReportLog) error {
	return buildPDF(title, logs).Output(out)
}

// buildPDF lays out the document. The core fonts are cp1252, so every
// string goes through the translator; runes outside cp1252 become ".".
func buildPDF(title string, logs []*models.ReportLog) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTitle(title, true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(title), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	for i, l := range logs {
		for _, line := range logLines(i+1, l) {
			pdf.CellFormat(0, 6, tr(line), "", 1, "L", false, 0, "")
		}
		pdf.Ln(3)
	}

	return pdf
}

func logLines(n int, l *models.ReportLog) []string {
	lines := []string{
		fmt.Sprintf("%d. Employee: %s", n, l.Employee),
		fmt.Sprintf("Clock In: %s", pdfTime(&l.ClockIn)),
	}
	for _, b := range l.Breaks {
		lines = append(lines, fmt.Sprintf("Break: %s - %s", pdfTime(&b.BreakStart), pdfTime(b.BreakEnd)))
	}
	lines = append(lines,
		fmt.Sprintf("Clock Out: %s", pdfTime(l.ClockOut)),
		fmt.Sprintf("Manual: %s | Approved: %s", yesNo(l.Manual), yesNo(l.Approved)),
	)
	return lines
}

func pdfTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(pdfTimeLayout)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
