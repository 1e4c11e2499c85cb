package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"image"
	"sort"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // register the webp decoder for logos

	"github.com/mamadbah2/wagebook/internal/domain/models"
	"github.com/mamadbah2/wagebook/internal/layout"
)

const maxLogoSide = 256

// Logo is a decoded company logo, already bounded in size.
type Logo struct {
	img image.Image
}

// DecodeLogo decodes PNG, JPEG, GIF or WebP bytes.
func DecodeLogo(data []byte) (*Logo, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode logo: %w", err)
	}
	return NewLogo(img), nil
}

// NewLogo wraps an image, shrinking it to fit a 256px square.
func NewLogo(img image.Image) *Logo {
	return &Logo{img: imaging.Fit(img, maxLogoSide, maxLogoSide, imaging.Lanczos)}
}

// PNG encodes the logo.
func (l *Logo) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, l.img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode logo: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURI returns the logo inlined for an <img> tag.
func (l *Logo) DataURI() (template.URL, error) {
	data, err := l.PNG()
	if err != nil {
		return "", err
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(data)), nil
}

// Document is everything a worker report shows.
// Days are filtered to Range, recalculated and ordered newest first.
type Document struct {
	Company      models.Company
	Worker       models.Worker
	Days         []models.DailyWork
	Range        models.DateRange
	IncludeNotes bool
	// Logo is nil when the company has none or it could not be read.
	Logo        *Logo
	GeneratedAt time.Time
}

// NewDocument prepares worker for rendering. The worker's history is not modified.
func NewDocument(company models.Company, worker models.Worker, opts models.ReportOptions, logo *Logo, now time.Time) Document {
	return Document{
		Company:      company,
		Worker:       worker,
		Days:         prepareDays(worker.WorkHistory, opts.Range),
		Range:        opts.Range,
		IncludeNotes: opts.IncludeNotes,
		Logo:         logo,
		GeneratedAt:  now,
	}
}

func prepareDays(history []models.DailyWork, rng models.DateRange) []models.DailyWork {
	days := make([]models.DailyWork, 0, len(history))
	for _, day := range models.FilterHistory(history, rng) {
		day.Items = append([]models.WorkItem(nil), day.Items...)
		day.Recalculate()
		days = append(days, day)
	}
	return models.NewestFirst(days)
}

// TotalEarned sums the shown days.
func (d Document) TotalEarned() float64 {
	return models.SumEarned(d.Days)
}

// AverageDaily is the mean earned per shown day, zero without days.
func (d Document) AverageDaily() float64 {
	if len(d.Days) == 0 {
		return 0
	}
	return models.Round2(d.TotalEarned() / float64(len(d.Days)))
}

// FileName is "<worker>-report-<unix millis>.<ext>".
func (d Document) FileName(ext string) string {
	return fmt.Sprintf("%s-report-%d.%s", fileSafe(d.Worker.Name), d.GeneratedAt.UnixMilli(), ext)
}

// missingLogo reports whether the company references a logo that is not available.
func (d Document) missingLogo() bool {
	return d.Logo == nil && strings.TrimSpace(d.Company.Logo) != ""
}

func (d Document) layoutInput(preamble float64) layout.Input {
	return layout.Input{
		PreambleHeight: preamble,
		Days:           d.Days,
		Options:        layout.Options{Notes: d.IncludeNotes},
	}
}

// WorkerSummary is one worker's line in the company summary.
type WorkerSummary struct {
	Name     string
	WorkDays int
	Earned   float64
	// Recent holds up to three of the latest days in range, newest first.
	Recent []models.DailyWork
}

// Summary is the company-wide report.
type Summary struct {
	Company     models.Company
	Range       models.DateRange
	Workers     []WorkerSummary
	Logo        *Logo
	GeneratedAt time.Time
}

// NewSummary aggregates workers, sorted by name, over rng.
func NewSummary(company models.Company, workers []models.Worker, rng models.DateRange, logo *Logo, now time.Time) Summary {
	sorted := make([]models.Worker, len(workers))
	copy(sorted, workers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Name) < strings.ToLower(sorted[j].Name)
	})

	out := make([]WorkerSummary, 0, len(sorted))
	for _, w := range sorted {
		days := prepareDays(w.WorkHistory, rng)
		recent := days
		if len(recent) > recentDays {
			recent = recent[:recentDays]
		}
		out = append(out, WorkerSummary{
			Name:     w.Name,
			WorkDays: len(days),
			Earned:   models.SumEarned(days),
			Recent:   recent,
		})
	}

	return Summary{Company: company, Range: rng, Workers: out, Logo: logo, GeneratedAt: now}
}

// Total is the company-wide amount earned in range.
func (s Summary) Total() float64 {
	var days []models.DailyWork
	for _, w := range s.Workers {
		days = append(days, models.DailyWork{TotalEarned: w.Earned})
	}
	return models.SumEarned(days)
}

// WorkDays counts every worker day in range.
func (s Summary) WorkDays() int {
	n := 0
	for _, w := range s.Workers {
		n += w.WorkDays
	}
	return n
}

// FileName is "<company>-summary-<unix millis>.pdf".
func (s Summary) FileName() string {
	return fmt.Sprintf("%s-summary-%d.pdf", fileSafe(s.Company.CompanyName), s.GeneratedAt.UnixMilli())
}

func (s Summary) missingLogo() bool {
	return s.Logo == nil && strings.TrimSpace(s.Company.Logo) != ""
}
