package render

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"

	"github.com/mamadbah2/wagebook/internal/layout"
)

// Drawer writes reports as vector PDF by drawing each placement at its
// absolute position.
type Drawer struct {
	settings Settings
	logger   *zap.Logger
}

// NewDrawer creates a Drawer.
func NewDrawer(settings Settings, logger *zap.Logger) *Drawer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Drawer{settings: settings.normalized(), logger: logger}
}

// Worker renders a worker's history report.
func (d *Drawer) Worker(ctx context.Context, doc Document) ([]byte, error) {
	geo := d.settings.Geometry
	if err := geo.ValidateFor(preamblePt); err != nil {
		return nil, fmt.Errorf("render worker report: %w", err)
	}
	plan := layout.Paginate(doc.layoutInput(preamblePt), geo)

	pdf := newPDF(geo, d.settings, doc.Worker.Name+" - Work History Report", doc.GeneratedAt)
	p := newPainter(newPDFCanvas(pdf), geo, 1, d.settings)
	pdf.SetFooterFunc(func() {
		p.footer(doc.GeneratedAt, pdf.PageNo()-1, plan.PageCount)
	})

	page := -1
	for _, pl := range plan.Placements {
		for page < pl.Page {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("render worker report: %w", err)
			}
			pdf.AddPage()
			page++
		}
		p.placement(doc, pl)
	}
	for page < plan.PageCount-1 {
		pdf.AddPage()
		page++
	}

	d.logger.Debug("worker report drawn",
		zap.String("worker", doc.Worker.Name),
		zap.Int("days", len(doc.Days)),
		zap.Int("pages", plan.PageCount),
	)
	return d.output(pdf)
}

// Summary renders the company summary: one block per worker packed with the
// shared packer, followed by an overall statistics page.
func (d *Drawer) Summary(ctx context.Context, sum Summary) ([]byte, error) {
	geo := d.settings.Geometry
	tallest := math.Max(summaryHeadHeight(sum), summaryStatsPt)
	for _, w := range sum.Workers {
		tallest = math.Max(tallest, workerBlockHeight(w))
	}
	if err := geo.ValidateFor(tallest); err != nil {
		return nil, fmt.Errorf("render summary report: %w", err)
	}

	type block struct {
		worker int
		at     layout.Cursor
	}
	packer := layout.NewPacker(geo)
	head := packer.Place(summaryHeadHeight(sum))
	packer.Advance(geo.RecordGap)

	blocks := make([]block, 0, len(sum.Workers))
	for i, w := range sum.Workers {
		h := workerBlockHeight(w)
		packer.Ensure(h)
		blocks = append(blocks, block{worker: i, at: packer.Place(h)})
		packer.Advance(geo.RecordGap)
	}
	packer.Break()
	stats := packer.Place(summaryStatsPt)
	pages := stats.Page + 1

	pdf := newPDF(geo, d.settings, sum.Company.CompanyName+" - Workforce Summary Report", sum.GeneratedAt)
	p := newPainter(newPDFCanvas(pdf), geo, 1, d.settings)
	pdf.SetFooterFunc(func() {
		p.footer(sum.GeneratedAt, pdf.PageNo()-1, pages)
	})

	page := -1
	turn := func(to int) error {
		for page < to {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("render summary report: %w", err)
			}
			pdf.AddPage()
			page++
		}
		return nil
	}

	if err := turn(head.Page); err != nil {
		return nil, err
	}
	p.summaryHead(sum, head.Y)
	for _, b := range blocks {
		if err := turn(b.at.Page); err != nil {
			return nil, err
		}
		p.workerBlock(sum.Workers[b.worker], b.at.Y)
	}
	if err := turn(stats.Page); err != nil {
		return nil, err
	}
	p.summaryStats(sum, stats.Y)

	return d.output(pdf)
}

func (d *Drawer) output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		d.logger.Error("failed to write pdf", zap.Error(err))
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func newPDF(geo layout.PageGeometry, s Settings, title string, created time.Time) *fpdf.Fpdf {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: geo.PageWidth, Ht: geo.PageHeight},
	})
	pdf.SetMargins(geo.MarginLeft, geo.MarginTop, geo.MarginRight)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(s.Compress)
	pdf.SetTitle(title, true)
	pdf.SetCreator("wagebook", false)
	pdf.SetCreationDate(created)
	return pdf
}

// pdfCanvas draws with fpdf core fonts; text is translated to cp1252.
type pdfCanvas struct {
	pdf   *fpdf.Fpdf
	tr    func(string) string
	logos map[*Logo]string
}

func newPDFCanvas(pdf *fpdf.Fpdf) *pdfCanvas {
	return &pdfCanvas{
		pdf:   pdf,
		tr:    pdf.UnicodeTranslatorFromDescriptor(""),
		logos: map[*Logo]string{},
	}
}

func (c *pdfCanvas) FillRect(x, y, w, h float64, col color.RGBA) {
	c.pdf.SetFillColor(int(col.R), int(col.G), int(col.B))
	c.pdf.Rect(x, y, w, h, "F")
}

func (c *pdfCanvas) Line(x1, y1, x2, y2 float64, col color.RGBA) {
	c.pdf.SetDrawColor(int(col.R), int(col.G), int(col.B))
	c.pdf.SetLineWidth(0.5)
	c.pdf.Line(x1, y1, x2, y2)
}

func (c *pdfCanvas) font(size float64, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	c.pdf.SetFont("Helvetica", style, size)
}

func (c *pdfCanvas) Text(x, top, size float64, bold bool, col color.RGBA, s string) {
	c.font(size, bold)
	c.pdf.SetTextColor(int(col.R), int(col.G), int(col.B))
	c.pdf.Text(x, top+size*baselineDescent, c.tr(s))
}

func (c *pdfCanvas) TextWidth(size float64, bold bool, s string) float64 {
	c.font(size, bold)
	return c.pdf.GetStringWidth(c.tr(s))
}

func (c *pdfCanvas) Image(logo *Logo, x, y, w, h float64) {
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	name, ok := c.logos[logo]
	if !ok {
		data, err := logo.PNG()
		if err != nil {
			c.Text(x, y+h/3, 10, false, colorFaint, logoPlaceholder)
			return
		}
		name = fmt.Sprintf("logo-%d", len(c.logos))
		c.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
		c.logos[logo] = name
	}
	c.pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
}
