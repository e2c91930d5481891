package services

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrExportGenerate    = errors.New("failed to generate export file")
)

const (
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"

	sheetName = "Room Status"
	dateFmt   = "2006-01-02 15:04"
)

var reportHeader = []string{"Room", "Student", "Status", "Worker", "Last Request"}

var columnWidths = map[string]float64{"A": 10, "B": 24, "C": 16, "D": 20, "E": 18}

// ReportService renders the room-status report as a downloadable file.
type ReportService struct {
	now func() time.Time
}

func NewReportService() *ReportService {
	return &ReportService{now: time.Now}
}

// Export returns the file contents, a suggested filename and its MIME type.
func (s *ReportService) Export(report RoomStatusReport, format string) (*bytes.Buffer, string, string, error) {
	stamp := s.now().Format("20060102-1504")
	switch format {
	case FormatXLSX, "":
		buf, err := s.ExportXLSX(report)
		return buf, fmt.Sprintf("room-status-%s.xlsx", stamp),
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", err
	case FormatPDF:
		buf, err := s.ExportPDF(report)
		return buf, fmt.Sprintf("room-status-%s.pdf", stamp), "application/pdf", err
	default:
		return nil, "", "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func reportRow(r RoomStatus) []string {
	worker := "-"
	if r.Worker != nil {
		worker = r.Worker.Name
		if worker == "" {
			worker = fmt.Sprintf("#%d", r.Worker.ID)
		}
	}
	last := "-"
	if r.LastRequestDate != nil {
		last = r.LastRequestDate.Format(dateFmt)
	}
	return []string{r.RoomNo, r.Student, r.Status, worker, last}
}

func summaryLines(report RoomStatusReport) [][2]interface{} {
	return [][2]interface{}{
		{"Total rooms", report.TotalRooms},
		{"Cleaned", report.Cleaned},
		{"Pending", report.Pending},
		{"Not requested", report.NotRequested},
	}
}

// ExportXLSX writes the summary followed by one row per student.
func (s *ReportService) ExportXLSX(report RoomStatusReport) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportGenerate, err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportGenerate, err)
	}

	for col, width := range columnWidths {
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrExportGenerate, err)
		}
	}

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportGenerate, err)
	}

	row := 1
	for _, line := range summaryLines(report) {
		if err := setRow(f, row, []interface{}{line[0], line[1]}); err != nil {
			return nil, err
		}
		row++
	}

	header := make([]interface{}, len(reportHeader))
	for i, h := range reportHeader {
		header[i] = h
	}
	if err := setRow(f, row, header); err != nil {
		return nil, err
	}
	headerStart, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportGenerate, err)
	}
	headerEnd, err := excelize.CoordinatesToCellName(len(reportHeader), row)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportGenerate, err)
	}
	if err := f.SetCellStyle(sheetName, headerStart, headerEnd, boldStyle); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportGenerate, err)
	}
	row++

	for _, r := range report.Rooms {
		cells := reportRow(r)
		values := make([]interface{}, len(cells))
		for i, v := range cells {
			values[i] = v
		}
		if err := setRow(f, row, values); err != nil {
			return nil, err
		}
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportGenerate, err)
	}
	return buf, nil
}

// setRow writes values into the report sheet starting at column A of row.
func setRow(f *excelize.File, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExportGenerate, err)
	}
	if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
		return fmt.Errorf("%w: %v", ErrExportGenerate, err)
	}
	return nil
}

// ExportPDF renders the same content as a single A4 table.
func (s *ReportService) ExportPDF(report RoomStatusReport) (*bytes.Buffer, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Room Status", false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Room Status")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 6, "Generated "+s.now().Format(dateFmt))
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 11)
	for _, line := range summaryLines(report) {
		pdf.CellFormat(40, 7, fmt.Sprint(line[0]), "", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprint(line[1]), "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	widths := []float64{22, 48, 32, 40, 38}
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range reportHeader {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, r := range report.Rooms {
		for i, v := range reportRow(r) {
			pdf.CellFormat(widths[i], 7, tr(v), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportGenerate, err)
	}
	return &buf, nil
}
