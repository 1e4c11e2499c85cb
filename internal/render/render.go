// Package render turns the placements computed by the layout package into
// report files: a drawn PDF, printable HTML, a rasterized PDF and an XLSX
// export.
package render

import (
	"image/color"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mamadbah2/wagebook/internal/layout"
)

const (
	logoPlaceholder = "No logo found"
	dateLayout      = "02 Jan 2006"
)

// Settings are shared by every renderer.
type Settings struct {
	Geometry layout.PageGeometry
	Currency string
	Location *time.Location
	// Compress deflates PDF content streams.
	Compress bool
}

// DefaultSettings renders A4 pages with rupee amounts in UTC.
func DefaultSettings() Settings {
	return Settings{
		Geometry: layout.A4(),
		Currency: "Rs.",
		Location: time.UTC,
		Compress: true,
	}
}

// Validate checks that every fixed block the renderers draw fits an empty
// page of the configured geometry.
func (s Settings) Validate() error {
	return s.normalized().Geometry.ValidateFor(tallestFixedBlock())
}

func tallestFixedBlock() float64 {
	return math.Max(
		math.Max(preamblePt, summaryHeadPt+summaryLogoPt),
		math.Max(summaryStatsPt, workerBlockPt+workerLinePt*recentDays),
	)
}

func (s Settings) normalized() Settings {
	if s.Geometry.PageWidth == 0 || s.Geometry.PageHeight == 0 {
		s.Geometry = layout.A4()
	}
	if s.Currency == "" {
		s.Currency = "Rs."
	}
	if s.Location == nil {
		s.Location = time.UTC
	}
	return s
}

func (s Settings) money(amount float64) string {
	return layout.Money(s.Currency, amount)
}

func (s Settings) date(t time.Time) string {
	return t.In(s.Location).Format(dateLayout)
}

func (s Settings) period(start, end *time.Time) string {
	switch {
	case start != nil && end != nil:
		return s.date(*start) + " - " + s.date(*end)
	case start != nil:
		return "From " + s.date(*start)
	case end != nil:
		return "Until " + s.date(*end)
	default:
		return "All time"
	}
}

func (s Settings) workerStats(doc Document) []string {
	return []string{
		"Total Work Days: " + strconv.Itoa(len(doc.Days)),
		"Total Earnings: " + s.money(doc.TotalEarned()),
		"Average Daily Earnings: " + s.money(doc.AverageDaily()),
		"Period: " + s.period(doc.Range.Start, doc.Range.End),
	}
}

var (
	colorInk     = color.RGBA{0x22, 0x22, 0x22, 0xff}
	colorBlack   = color.RGBA{0x00, 0x00, 0x00, 0xff}
	colorAccent  = color.RGBA{0x25, 0x63, 0xeb, 0xff}
	colorMuted   = color.RGBA{0x66, 0x66, 0x66, 0xff}
	colorFaint   = color.RGBA{0x88, 0x88, 0x88, 0xff}
	colorDayBand = color.RGBA{0xf3, 0xf4, 0xf6, 0xff}
	colorColBand = color.RGBA{0xed, 0xed, 0xed, 0xff}
	colorRule    = color.RGBA{0xdd, 0xdd, 0xdd, 0xff}
)

var fileNameReplacer = strings.NewReplacer("/", "_", "\\", "_", "\"", "_", "\n", " ", "\r", " ")

func fileSafe(name string) string {
	name = strings.TrimSpace(fileNameReplacer.Replace(name))
	if name == "" {
		return "report"
	}
	return name
}
