package layout

import "github.com/mamadbah2/wagebook/internal/domain/models"

// Options toggles optional parts of a day block.
type Options struct {
	// Notes renders each day's notes under its header when the day has any.
	Notes bool
}

// HeaderGroupHeight is the height of the blocks that open a day: the day
// header, the optional notes line and the column header. They are placed as
// one unit and never separated by a page break.
func HeaderGroupHeight(day models.DailyWork, geo PageGeometry, opts Options) float64 {
	h := geo.DayHeaderHeight + geo.ColHeaderHeight
	if showNotes(day, opts) {
		h += geo.NotesHeight
	}
	return h
}

// Measure returns the vertical space a whole day needs, rows and padding included.
func Measure(day models.DailyWork, geo PageGeometry, opts Options) float64 {
	return HeaderGroupHeight(day, geo, opts) + float64(len(day.Items))*geo.RowHeight + geo.Padding
}

func showNotes(day models.DailyWork, opts Options) bool {
	return opts.Notes && day.Notes != ""
}
