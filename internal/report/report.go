// Package report renders the task list as a printable PDF checklist.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"todo/internal/intent"
	"todo/internal/taskstore"
)

const (
	boxSize  = 4.0
	lineH    = 7.0
	barWidth = 120.0
	barH     = 5.0
)

// Write renders tasks and their progress as an A4 PDF to w.
func Write(w io.Writer, title string, tasks []taskstore.Task, p intent.Progress, now time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetCreationDate(now)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, title)
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(110, 110, 110)
	pdf.Cell(0, 5, fmt.Sprintf("%s  -  %s completed (%d%%)", now.Format("2006-01-02 15:04"), p.Label(), p.Percent()))
	pdf.Ln(8)

	x, y := pdf.GetXY()
	pdf.SetDrawColor(180, 180, 180)
	pdf.Rect(x, y, barWidth, barH, "D")
	if p.Ratio > 0 {
		pdf.SetFillColor(76, 175, 80)
		pdf.Rect(x, y, barWidth*p.Ratio, barH, "F")
	}
	pdf.Ln(barH + 6)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "", 11)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if len(tasks) == 0 {
		pdf.Cell(0, lineH, "No tasks.")
	}
	for _, t := range tasks {
		x, y := pdf.GetXY()
		pdf.Rect(x, y+1.5, boxSize, boxSize, "D")
		if t.Completed {
			pdf.Line(x+0.8, y+3.5, x+1.8, y+4.8)
			pdf.Line(x+1.8, y+4.8, x+3.4, y+2)
			pdf.SetTextColor(130, 130, 130)
		} else {
			pdf.SetTextColor(0, 0, 0)
		}
		pdf.SetX(x + boxSize + 3)
		pdf.MultiCell(0, lineH, tr(t.Text), "", "L", false)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return pdf.Output(w)
}
