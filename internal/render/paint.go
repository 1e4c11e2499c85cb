package render

import (
	"fmt"
	"image/color"
	"strconv"
	"time"

	"github.com/mamadbah2/wagebook/internal/domain/models"
	"github.com/mamadbah2/wagebook/internal/layout"
)

// Heights below are in points and get multiplied by the painter's unit.
const (
	preamblePt      = 265
	summaryHeadPt   = 100
	summaryLogoPt   = 70
	summaryStatsPt  = 90
	workerLinePt    = 12
	workerBlockPt   = 40
	recentDays      = 3
	footerFontPt    = 8
	baselineDescent = 0.8
)

// canvas is the drawing surface shared by the vector and raster renderers.
// Coordinates are in geometry units with y growing downwards.
type canvas interface {
	FillRect(x, y, w, h float64, c color.RGBA)
	Line(x1, y1, x2, y2 float64, c color.RGBA)
	// Text draws s with its top edge at top.
	Text(x, top, size float64, bold bool, c color.RGBA, s string)
	TextWidth(size float64, bold bool, s string) float64
	Image(logo *Logo, x, y, w, h float64)
}

// painter draws report blocks on a canvas. u converts points to geometry units.
type painter struct {
	c   canvas
	geo layout.PageGeometry
	u   float64
	s   Settings
}

func newPainter(c canvas, geo layout.PageGeometry, u float64, s Settings) *painter {
	return &painter{c: c, geo: geo, u: u, s: s}
}

func (p *painter) left() float64  { return p.geo.MarginLeft }
func (p *painter) width() float64 { return p.geo.ContentWidth() }
func (p *painter) right() float64 { return p.geo.MarginLeft + p.geo.ContentWidth() }

func (p *painter) text(x, top, size float64, bold bool, c color.RGBA, s string) float64 {
	p.c.Text(x, top, size*p.u, bold, c, s)
	return p.c.TextWidth(size*p.u, bold, s)
}

func (p *painter) textRight(right, top, size float64, bold bool, c color.RGBA, s string) float64 {
	w := p.c.TextWidth(size*p.u, bold, s)
	p.c.Text(right-w, top, size*p.u, bold, c, s)
	return w
}

func (p *painter) textCenter(top, size float64, bold bool, c color.RGBA, s string) {
	w := p.c.TextWidth(size*p.u, bold, s)
	p.c.Text(p.left()+(p.width()-w)/2, top, size*p.u, bold, c, s)
}

// middle returns the top of a line of text centred in a band.
func (p *painter) middle(y, band, size float64) float64 {
	return y + (band-size*p.u)/2
}

// fit shortens s with an ellipsis until it is at most limit wide.
func (p *painter) fit(s string, size float64, bold bool, limit float64) string {
	if p.c.TextWidth(size*p.u, bold, s) <= limit {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "..."
		if p.c.TextWidth(size*p.u, bold, candidate) <= limit {
			return candidate
		}
	}
	return ""
}

func (p *painter) columns() [4]float64 {
	l, w := p.left(), p.width()
	return [4]float64{l + 0.02*w, l + 0.34*w, l + 0.54*w, l + 0.74*w}
}

// placement draws one block of a worker report at its Y.
func (p *painter) placement(doc Document, pl layout.Placement) {
	switch pl.Kind {
	case layout.KindPreamble:
		p.preamble(doc, pl.Y)
	case layout.KindDayHeader:
		p.dayHeader(doc.Days[pl.Day], pl.Y)
	case layout.KindNotes:
		p.notes(doc.Days[pl.Day], pl.Y)
	case layout.KindColumnHeader:
		p.columnHeader(pl.Y)
	case layout.KindRow:
		p.row(doc.Days[pl.Day].Items[pl.Item], pl.Y)
	}
}

func (p *painter) preamble(doc Document, y float64) {
	u, l := p.u, p.left()

	switch {
	case doc.Logo != nil:
		p.c.Image(doc.Logo, l+10*u, y, 40*u, 40*u)
	case doc.missingLogo():
		p.text(l+10*u, y+15*u, 10, false, colorFaint, logoPlaceholder)
	}

	x := l + 60*u
	if doc.Company.CompanyName != "" {
		x += p.text(x, y+5*u, 16, true, colorAccent, doc.Company.CompanyName+"'s ")
	}
	p.text(x, y+5*u, 16, true, colorInk, doc.Worker.Name)
	p.text(l+60*u, y+25*u, 10, false, colorMuted, "Work History Report")
	p.c.Line(l, y+45*u, p.right(), y+45*u, colorBlack)

	p.text(l, y+70*u, 14, true, colorBlack, "Worker Information:")
	for i, line := range workerInfo(doc) {
		p.text(l, y+(95+15*float64(i))*u, 10, false, colorBlack, p.fit(line, 10, false, p.width()))
	}

	p.text(l, y+170*u, 14, true, colorBlack, "Summary:")
	for i, line := range p.s.workerStats(doc) {
		p.text(l, y+(195+15*float64(i))*u, 10, false, colorBlack, line)
	}
}

func (p *painter) dayHeader(day models.DailyWork, y float64) {
	h := p.geo.DayHeaderHeight
	p.c.FillRect(p.left(), y, p.width(), h, colorDayBand)

	top := p.middle(y, h, 11)
	p.text(p.left()+10*p.u, top, 11, true, colorInk, p.s.date(day.Date))
	amount := p.textRight(p.right()-10*p.u, top, 11, true, colorAccent, p.s.money(day.TotalEarned))
	p.textRight(p.right()-10*p.u-amount-4*p.u, top, 11, true, colorInk, "Total:")
}

func (p *painter) notes(day models.DailyWork, y float64) {
	line := p.fit("Notes: "+day.Notes, 9, false, p.width()-20*p.u)
	p.text(p.left()+10*p.u, p.middle(y, p.geo.NotesHeight, 9), 9, false, colorMuted, line)
}

func (p *painter) columnHeader(y float64) {
	h := p.geo.ColHeaderHeight
	p.c.FillRect(p.left(), y, p.width(), h, colorColBand)

	top := p.middle(y, h, 10)
	for i, label := range []string{"Item Name", "Pieces", "Rate", "Total"} {
		p.text(p.columns()[i], top, 10, true, colorInk, label)
	}
}

func (p *painter) row(item models.WorkItem, y float64) {
	h := p.geo.RowHeight
	cols := p.columns()
	top := p.middle(y, h, 9)

	name := item.ItemName
	if name == "" {
		name = "-"
	}
	p.text(cols[0], top, 9, false, colorInk, p.fit(name, 9, false, cols[1]-cols[0]-4*p.u))
	p.text(cols[1], top, 9, false, colorInk, strconv.Itoa(item.PiecesCompleted))
	p.text(cols[2], top, 9, false, colorInk, p.s.money(item.WageRate))
	p.text(cols[3], top, 9, false, colorInk, p.s.money(item.TotalWage))
	p.c.Line(p.left(), y+h, p.right(), y+h, colorRule)
}

// footer is drawn inside the bottom margin of page (zero based).
func (p *painter) footer(generatedAt time.Time, page, pages int) {
	top := p.middle(p.geo.BottomLimit(), p.geo.MarginBottom, footerFontPt)
	p.textCenter(top, footerFontPt, false, colorMuted, "Generated on "+p.s.date(generatedAt))
	p.textRight(p.right(), top, footerFontPt, false, colorMuted, fmt.Sprintf("Page %d of %d", page+1, pages))
}

func summaryHeadHeight(sum Summary) float64 {
	if sum.Logo != nil || sum.missingLogo() {
		return summaryHeadPt + summaryLogoPt
	}
	return summaryHeadPt
}

func (p *painter) summaryHead(sum Summary, y float64) {
	u := p.u
	switch {
	case sum.Logo != nil:
		p.c.Image(sum.Logo, p.left()+(p.width()-64*u)/2, y, 64*u, 64*u)
		y += summaryLogoPt * u
	case sum.missingLogo():
		p.textCenter(y+25*u, 10, false, colorFaint, logoPlaceholder)
		y += summaryLogoPt * u
	}

	name := sum.Company.CompanyName
	if name == "" {
		name = "Company"
	}
	p.textCenter(y, 20, true, colorAccent, name)
	p.textCenter(y+30*u, 12, false, colorMuted, "Workforce Summary Report")
	if sum.Range.IsZero() {
		p.textCenter(y+55*u, 12, false, colorMuted, "All Time Summary")
	} else {
		p.textCenter(y+55*u, 12, false, colorMuted, "Period: "+p.s.period(sum.Range.Start, sum.Range.End))
	}
}

func workerBlockHeight(w WorkerSummary) float64 {
	return workerBlockPt + workerLinePt*float64(len(w.Recent))
}

func (p *painter) workerBlock(w WorkerSummary, y float64) {
	u, l := p.u, p.left()
	p.text(l, y, 12, true, colorBlack, w.Name)
	p.text(l, y+20*u, 10, false, colorMuted,
		fmt.Sprintf("Work Days: %d | Total Earned: %s", w.WorkDays, p.s.money(w.Earned)))
	for i, day := range w.Recent {
		line := fmt.Sprintf("%s: %s - %d items", p.s.date(day.Date), p.s.money(day.TotalEarned), len(day.Items))
		p.text(l+20*u, y+(35+workerLinePt*float64(i))*u, 8, false, colorMuted, line)
	}
}

func (p *painter) summaryStats(sum Summary, y float64) {
	u, l := p.u, p.left()
	p.text(l, y, 16, true, colorBlack, "Overall Statistics")
	p.text(l, y+30*u, 12, false, colorBlack, "Total Workers: "+strconv.Itoa(len(sum.Workers)))
	p.text(l, y+50*u, 12, false, colorBlack, "Total Work Days: "+strconv.Itoa(sum.WorkDays()))
	p.text(l, y+70*u, 12, false, colorBlack, "Total Company Payments: "+p.s.money(sum.Total()))
}
