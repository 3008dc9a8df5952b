package app

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/nocfacilities/plantao-calendar/internal/activity"
	"github.com/nocfacilities/plantao-calendar/internal/roster"
	"github.com/nocfacilities/plantao-calendar/internal/source"
)

// DayReport is the content of the exported day document: either the day's
// activity list or a single selected activity with its annotations.
type DayReport struct {
	Date         string
	OnCall       roster.Assignment
	IsToday      bool
	CurrentShift string
	Activities   []activity.Activity
	Annotations  []source.Annotation
}

// WriteDayPDF renders the report and sends it as a download. The document
// is built in memory first so a rendering failure never leaves a partial
// response behind.
func WriteDayPDF(w http.ResponseWriter, report DayReport) error {
	var buf bytes.Buffer
	if err := renderDayPDF(&buf, report); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=manutencoes_%s.pdf", report.Date))
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.Warnw("error writing PDF response", "error", err)
	}
	return nil
}

func renderDayPDF(buf *bytes.Buffer, report DayReport) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	// Title bar
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 123, 255)
	pdf.CellFormat(0, 10, tr("Relatório de Manutenções - "+displayDate(report.Date)), "", 1, "L", false, 0, "")
	pdf.SetDrawColor(0, 123, 255)
	pdf.SetLineWidth(0.6)
	pdf.Line(10, pdf.GetY()+1, 200, pdf.GetY()+1)
	pdf.Ln(6)

	// On-call teams
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 11)
	daySuffix, nightSuffix := "", ""
	if report.IsToday && report.CurrentShift == roster.ShiftDay {
		daySuffix = " (Plantão Agora)"
	}
	if report.IsToday && report.CurrentShift == roster.ShiftNight {
		nightSuffix = " (Plantão Agora)"
	}
	pdf.CellFormat(0, 6, tr("Equipe Diurna: "+orDash(report.OnCall.Day)+daySuffix), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr("Equipe Noturna: "+orDash(report.OnCall.Night)+nightSuffix), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	if len(report.Activities) == 0 {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.CellFormat(0, 8, tr("Nenhuma atividade agendada."), "", 1, "L", false, 0, "")
	}

	for _, a := range report.Activities {
		writeActivityBlock(pdf, tr, a)
	}

	if len(report.Annotations) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, tr("Observações"), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, n := range report.Annotations {
			pdf.MultiCell(0, 5, tr(fmt.Sprintf("%s — %s", n.SentAt, n.Note)), "", "L", false)
			pdf.Ln(1)
		}
	}

	return pdf.Output(buf)
}

// WriteMonthPDF renders a month's activities grouped by date and sends the
// document as a download. Days without activities are skipped.
func WriteMonthPDF(w http.ResponseWriter, year int, month time.Month, activities []activity.Activity) error {
	var buf bytes.Buffer
	if err := renderMonthPDF(&buf, year, month, activities); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=manutencoes_%04d-%02d.pdf", year, int(month)))
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.Warnw("error writing PDF response", "error", err)
	}
	return nil
}

func renderMonthPDF(buf *bytes.Buffer, year int, month time.Month, activities []activity.Activity) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 123, 255)
	pdf.CellFormat(0, 10, tr("Relatório de Manutenções - "+monthLabel(source.MonthNames[month], year)), "", 1, "L", false, 0, "")
	pdf.SetDrawColor(0, 123, 255)
	pdf.SetLineWidth(0.6)
	pdf.Line(10, pdf.GetY()+1, 200, pdf.GetY()+1)
	pdf.Ln(6)
	pdf.SetTextColor(0, 0, 0)

	if len(activities) == 0 {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.CellFormat(0, 8, tr("Nenhuma atividade agendada."), "", 1, "L", false, 0, "")
		return pdf.Output(buf)
	}

	// The unified set lists holidays before the day records; the report
	// wants one chronological run.
	ordered := make([]activity.Activity, len(activities))
	copy(ordered, activities)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Date < ordered[j].Date })

	lastDate := ""
	for _, a := range ordered {
		if a.Date != lastDate {
			lastDate = a.Date
			pdf.Ln(2)
			pdf.SetFont("Helvetica", "B", 12)
			pdf.CellFormat(0, 7, tr(displayDate(a.Date)), "", 1, "L", false, 0, "")
		}
		writeActivityBlock(pdf, tr, a)
	}

	return pdf.Output(buf)
}

func writeActivityBlock(pdf *fpdf.Fpdf, tr func(string) string, a activity.Activity) {
	// Colored left border matching the calendar classes
	if a.IsHoliday {
		pdf.SetFillColor(220, 53, 69)
	} else if a.IsFreezing {
		pdf.SetFillColor(111, 66, 193)
	} else {
		pdf.SetFillColor(0, 123, 255)
	}
	y := pdf.GetY()
	pdf.Rect(10, y, 1.5, 14, "F")
	pdf.SetX(14)

	pdf.SetFont("Helvetica", "B", 11)
	header := a.Company
	if activity.IsCountable(a.Periodicity) {
		header += "  [" + activity.NormalizePeriodicity(a.Periodicity) + "]"
	}
	if a.IsHoliday {
		header = "FERIADO"
	}
	pdf.CellFormat(0, 6, tr(header), "", 1, "L", false, 0, "")

	pdf.SetX(14)
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, tr("Descrição: "+a.Description), "", "L", false)
	pdf.Ln(3)
}

func orDash(s string) string {
	if s == "" {
		return "---"
	}
	return s
}
