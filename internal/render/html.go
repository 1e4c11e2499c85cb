package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/wagebook/internal/layout"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var workerTemplate = template.Must(template.ParseFS(templateFS, "templates/worker.html.tmpl"))

// HTML renders printable reports. Page breaking is left to the print engine,
// driven by CSS derived from the page geometry: day blocks and rows avoid
// breaks and table headers repeat on every page.
type HTML struct {
	settings Settings
	logger   *zap.Logger
}

// NewHTML creates an HTML renderer.
func NewHTML(settings Settings, logger *zap.Logger) *HTML {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTML{settings: settings.normalized(), logger: logger}
}

type htmlRow struct {
	Name, Pieces, Rate, Total string
}

type htmlDay struct {
	Date, Total, Notes string
	Rows               []htmlRow
}

type htmlView struct {
	Title       string
	PageCSS     template.CSS
	LogoURI     template.URL
	LogoMissing bool
	CompanyName string
	WorkerName  string
	Info        []string
	Stats       []string
	Days        []htmlDay
	GeneratedOn string
}

// Worker renders a worker's history report as a standalone HTML page.
func (h *HTML) Worker(ctx context.Context, doc Document) ([]byte, error) {
	s := h.settings
	view := htmlView{
		Title:       strings.TrimSpace(doc.Company.CompanyName + " - " + doc.Worker.Name),
		PageCSS:     pageCSS(s.Geometry),
		LogoMissing: doc.missingLogo(),
		CompanyName: doc.Company.CompanyName,
		WorkerName:  doc.Worker.Name,
		Info:        workerInfo(doc),
		Stats:       s.workerStats(doc),
		GeneratedOn: s.date(doc.GeneratedAt),
	}

	if doc.Logo != nil {
		uri, err := doc.Logo.DataURI()
		if err != nil {
			h.logger.Warn("logo could not be inlined", zap.Error(err))
			view.LogoMissing = true
		} else {
			view.LogoURI = uri
		}
	}

	for _, day := range doc.Days {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("render html report: %w", err)
		}
		hd := htmlDay{Date: s.date(day.Date), Total: s.money(day.TotalEarned)}
		if doc.IncludeNotes {
			hd.Notes = day.Notes
		}
		for _, item := range day.Items {
			name := item.ItemName
			if name == "" {
				name = "-"
			}
			hd.Rows = append(hd.Rows, htmlRow{
				Name:   name,
				Pieces: strconv.Itoa(item.PiecesCompleted),
				Rate:   s.money(item.WageRate),
				Total:  s.money(item.TotalWage),
			})
		}
		view.Days = append(view.Days, hd)
	}

	var buf bytes.Buffer
	if err := workerTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("render html report: %w", err)
	}
	return buf.Bytes(), nil
}

func workerInfo(doc Document) []string {
	info := []string{"Name: " + doc.Worker.Name}
	if doc.Worker.Phone != "" {
		info = append(info, "Phone: "+doc.Worker.Phone)
	}
	if doc.Worker.Email != "" {
		info = append(info, "Email: "+doc.Worker.Email)
	}
	if doc.Worker.Address != "" {
		info = append(info, "Address: "+doc.Worker.Address)
	}
	return info
}

// pageCSS sizes the printed page and every block from geo, in points.
func pageCSS(geo layout.PageGeometry) template.CSS {
	pt := func(v float64) string {
		return strconv.FormatFloat(v, 'f', 2, 64) + "pt"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "@page { size: %s %s; margin: %s %s %s %s; }\n",
		pt(geo.PageWidth), pt(geo.PageHeight),
		pt(geo.MarginTop), pt(geo.MarginRight), pt(geo.MarginBottom), pt(geo.MarginLeft))
	fmt.Fprintf(&b, ".work-day { margin-top: %s; padding-bottom: %s; }\n", pt(geo.RecordGap), pt(geo.Padding))
	fmt.Fprintf(&b, ".work-day-header { height: %s; }\n", pt(geo.DayHeaderHeight))
	fmt.Fprintf(&b, ".work-day-notes { height: %s; line-height: %s; }\n", pt(geo.NotesHeight), pt(geo.NotesHeight))
	fmt.Fprintf(&b, "th { height: %s; }\n", pt(geo.ColHeaderHeight))
	fmt.Fprintf(&b, "td { height: %s; }\n", pt(geo.RowHeight))
	return template.CSS(b.String())
}
