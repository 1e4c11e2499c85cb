// Package layout decides where report content lands on fixed-size pages.
//
// Every renderer consumes the same Paginate result, so the page-break rules
// live here only: a row never straddles two pages, a day header and its column
// header always stay together, and a day that continues onto a new page gets
// its column header repeated first.
package layout

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidGeometry is returned when a page cannot hold the smallest atomic block.
var ErrInvalidGeometry = errors.New("invalid page geometry")

// PageGeometry holds every dimension the packer and the renderers need.
// Units are arbitrary but must be consistent: points for PDF output, pixels
// for raster output.
type PageGeometry struct {
	PageWidth    float64 `yaml:"pageWidth"`
	PageHeight   float64 `yaml:"pageHeight"`
	MarginTop    float64 `yaml:"marginTop"`
	MarginBottom float64 `yaml:"marginBottom"`
	MarginLeft   float64 `yaml:"marginLeft"`
	MarginRight  float64 `yaml:"marginRight"`

	DayHeaderHeight float64 `yaml:"dayHeaderHeight"`
	ColHeaderHeight float64 `yaml:"colHeaderHeight"`
	RowHeight       float64 `yaml:"rowHeight"`
	NotesHeight     float64 `yaml:"notesHeight"`
	Padding         float64 `yaml:"padding"`
	RecordGap       float64 `yaml:"recordGap"`
}

// A4 returns the default geometry in PDF points.
func A4() PageGeometry {
	return PageGeometry{
		PageWidth:       595.28,
		PageHeight:      841.89,
		MarginTop:       50,
		MarginBottom:    40,
		MarginLeft:      50,
		MarginRight:     50,
		DayHeaderHeight: 22,
		ColHeaderHeight: 18,
		RowHeight:       15,
		NotesHeight:     14,
		Padding:         12,
		RecordGap:       8,
	}
}

// BottomLimit is the lowest y a block may reach. The footer is drawn inside
// the bottom margin.
func (g PageGeometry) BottomLimit() float64 {
	return g.PageHeight - g.MarginBottom
}

// ContentWidth is the printable width between the side margins.
func (g PageGeometry) ContentWidth() float64 {
	return g.PageWidth - g.MarginLeft - g.MarginRight
}

// ContentHeight is the usable height of an empty page.
func (g PageGeometry) ContentHeight() float64 {
	return g.BottomLimit() - g.MarginTop
}

// Scale multiplies every dimension by k.
func (g PageGeometry) Scale(k float64) PageGeometry {
	return PageGeometry{
		PageWidth:       g.PageWidth * k,
		PageHeight:      g.PageHeight * k,
		MarginTop:       g.MarginTop * k,
		MarginBottom:    g.MarginBottom * k,
		MarginLeft:      g.MarginLeft * k,
		MarginRight:     g.MarginRight * k,
		DayHeaderHeight: g.DayHeaderHeight * k,
		ColHeaderHeight: g.ColHeaderHeight * k,
		RowHeight:       g.RowHeight * k,
		NotesHeight:     g.NotesHeight * k,
		Padding:         g.Padding * k,
		RecordGap:       g.RecordGap * k,
	}
}

// Validate checks that an empty page can hold a full header group and one row,
// which is what keeps the packer from looping on page breaks.
func (g PageGeometry) Validate() error {
	switch {
	case g.PageWidth <= 0 || g.PageHeight <= 0:
		return fmt.Errorf("%w: page size must be positive", ErrInvalidGeometry)
	case g.MarginTop < 0 || g.MarginBottom < 0 || g.MarginLeft < 0 || g.MarginRight < 0:
		return fmt.Errorf("%w: margins must not be negative", ErrInvalidGeometry)
	case g.RowHeight <= 0 || g.DayHeaderHeight <= 0 || g.ColHeaderHeight <= 0:
		return fmt.Errorf("%w: block heights must be positive", ErrInvalidGeometry)
	case g.NotesHeight < 0 || g.Padding < 0 || g.RecordGap < 0:
		return fmt.Errorf("%w: spacing must not be negative", ErrInvalidGeometry)
	case g.ContentWidth() <= 0:
		return fmt.Errorf("%w: side margins leave no content width", ErrInvalidGeometry)
	}

	smallest := g.DayHeaderHeight + g.NotesHeight + g.ColHeaderHeight + g.RowHeight
	if smallest > g.ContentHeight() {
		return fmt.Errorf("%w: header group and one row (%.2f) exceed page content height (%.2f)", ErrInvalidGeometry, smallest, g.ContentHeight())
	}
	return nil
}

// ValidateFor runs Validate and also checks that a fixed leading block of
// height leading, such as a report's title section, fits an empty page.
func (g PageGeometry) ValidateFor(leading float64) error {
	if err := g.Validate(); err != nil {
		return err
	}
	if leading > g.ContentHeight() {
		return fmt.Errorf("%w: leading block (%.2f) exceeds page content height (%.2f)", ErrInvalidGeometry, leading, g.ContentHeight())
	}
	return nil
}

// LoadGeometry overlays the YAML file at path on the A4 defaults.
// An empty path returns A4 unchanged.
func LoadGeometry(path string) (PageGeometry, error) {
	geo := A4()
	if path == "" {
		return geo, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return PageGeometry{}, fmt.Errorf("read geometry file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &geo); err != nil {
		return PageGeometry{}, fmt.Errorf("parse geometry file %s: %w", path, err)
	}
	if err := geo.Validate(); err != nil {
		return PageGeometry{}, err
	}
	return geo, nil
}
