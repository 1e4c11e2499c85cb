package layout

import (
	"math"

	"github.com/mamadbah2/wagebook/internal/domain/models"
)

// Kind identifies what a placement holds.
type Kind int

const (
	KindPreamble Kind = iota
	KindDayHeader
	KindNotes
	KindColumnHeader
	KindRow
)

func (k Kind) String() string {
	switch k {
	case KindPreamble:
		return "preamble"
	case KindDayHeader:
		return "day-header"
	case KindNotes:
		return "notes"
	case KindColumnHeader:
		return "column-header"
	case KindRow:
		return "row"
	default:
		return "unknown"
	}
}

// Input is what gets packed: an optional preamble (title, worker details,
// summary) followed by the days in display order.
type Input struct {
	PreambleHeight float64
	Days           []models.DailyWork
	Options        Options
}

// Placement is one atomic block positioned on a page.
// Day and Item are indexes into Input.Days and the day's items; they are -1
// when not applicable.
type Placement struct {
	Kind   Kind
	Day    int
	Item   int
	Page   int
	Y      float64
	Height float64
	// Continued marks a column header repeated at the top of a continuation page.
	Continued bool
}

// Bottom is the y where the block ends.
func (p Placement) Bottom() float64 {
	return p.Y + p.Height
}

// Layout is the outcome of packing an Input.
type Layout struct {
	Placements []Placement
	PageCount  int
	// End is the cursor after the last block and its trailing gap.
	End Cursor
}

// Page returns the placements on page i in drawing order.
func (l Layout) Page(i int) []Placement {
	var out []Placement
	for _, p := range l.Placements {
		if p.Page == i {
			out = append(out, p)
		}
	}
	return out
}

// Paginate packs in onto pages described by geo.
//
// Before each day the whole day (Measure) must fit below the cursor, else a
// new page starts. The header group is then placed, followed by the rows; a
// row that would cross the bottom limit moves to a new page, preceded by a
// repeated column header.
func Paginate(in Input, geo PageGeometry) Layout {
	p := NewPacker(geo)
	var out []Placement

	place := func(kind Kind, day, item int, h float64, continued bool) {
		at := p.Place(h)
		out = append(out, Placement{Kind: kind, Day: day, Item: item, Page: at.Page, Y: at.Y, Height: h, Continued: continued})
	}

	if in.PreambleHeight > 0 {
		place(KindPreamble, -1, -1, in.PreambleHeight, false)
	}

	for di, day := range in.Days {
		p.Ensure(Measure(day, geo, in.Options))

		place(KindDayHeader, di, -1, geo.DayHeaderHeight, false)
		if showNotes(day, in.Options) {
			place(KindNotes, di, -1, geo.NotesHeight, false)
		}
		place(KindColumnHeader, di, -1, geo.ColHeaderHeight, false)

		for ii := range day.Items {
			if p.Ensure(geo.RowHeight) {
				place(KindColumnHeader, di, -1, geo.ColHeaderHeight, true)
			}
			place(KindRow, di, ii, geo.RowHeight, false)
		}

		p.Advance(geo.RecordGap)
	}

	end := p.Cursor()
	return Layout{Placements: out, PageCount: end.Page + 1, End: end}
}

// Flow stacks the same blocks on a single page of unbounded height. It is the
// off-screen document that the raster renderer measures and slices.
func Flow(in Input, geo PageGeometry) Layout {
	unbounded := geo
	unbounded.MarginTop = 0
	unbounded.MarginBottom = 0
	unbounded.PageHeight = math.Inf(1)
	return Paginate(in, unbounded)
}
