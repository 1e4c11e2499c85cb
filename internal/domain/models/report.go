package models

import "time"

// ReportFormat selects the renderer used for a worker report.
type ReportFormat string

const (
	FormatPDF     ReportFormat = "pdf"
	FormatHTML    ReportFormat = "html"
	FormatHTMLPDF ReportFormat = "htmlpdf"
	FormatRaster  ReportFormat = "raster"
	FormatXLSX    ReportFormat = "xlsx"
)

// ParseReportFormat maps a query value to a format, defaulting to PDF.
func ParseReportFormat(value string) (ReportFormat, bool) {
	switch ReportFormat(value) {
	case "", FormatPDF:
		return FormatPDF, true
	case FormatHTML, FormatHTMLPDF, FormatRaster, FormatXLSX:
		return ReportFormat(value), true
	default:
		return "", false
	}
}

// ReportOptions narrows and decorates a report.
type ReportOptions struct {
	Range        DateRange
	IncludeNotes bool
}

// WorkerDigest is one line of the weekly earnings digest.
type WorkerDigest struct {
	WorkerName string
	WorkDays   int
	Earned     float64
}

// WeeklyDigest aggregates a company's earnings over a period.
type WeeklyDigest struct {
	CompanyName string
	From        time.Time
	To          time.Time
	Workers     []WorkerDigest
	Total       float64
}
