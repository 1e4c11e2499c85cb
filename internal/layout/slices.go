package layout

import (
	"fmt"
	"math"
)

// Slice is the part of the flowed document that lands on one output page.
type Slice struct {
	Page  int
	Start float64
	End   float64
	// RepeatHeader asks the renderer to stamp the column header of Day above
	// the slice because the day continues from the previous page.
	RepeatHeader bool
	Day          int
}

// Height is the flowed height covered by the slice.
func (s Slice) Height() float64 {
	return s.End - s.Start
}

type blockKey struct {
	kind Kind
	day  int
	item int
}

// Slices maps each page of paged onto a range of flowed. Both layouts must
// come from the same Input, paged with Paginate and flowed with Flow.
func Slices(flowed, paged Layout) ([]Slice, error) {
	positions := make(map[blockKey]Placement, len(flowed.Placements))
	for _, p := range flowed.Placements {
		positions[blockKey{p.Kind, p.Day, p.Item}] = p
	}

	slices := make([]Slice, paged.PageCount)
	for i := range slices {
		slices[i] = Slice{Page: i, Start: math.Inf(1), End: math.Inf(-1), Day: -1}
	}

	for _, p := range paged.Placements {
		s := &slices[p.Page]
		if p.Continued {
			s.RepeatHeader = true
			s.Day = p.Day
			continue
		}
		f, ok := positions[blockKey{p.Kind, p.Day, p.Item}]
		if !ok {
			return nil, fmt.Errorf("block %s day=%d item=%d missing from flowed layout", p.Kind, p.Day, p.Item)
		}
		s.Start = math.Min(s.Start, f.Y)
		s.End = math.Max(s.End, f.Bottom())
	}

	for i := range slices {
		if math.IsInf(slices[i].Start, 0) {
			slices[i].Start, slices[i].End = 0, 0
		}
	}
	return slices, nil
}
