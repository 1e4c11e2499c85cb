package layout

// Cursor is the packer's write position.
type Cursor struct {
	Page int
	Y    float64
}

// Packer is the greedy, single pass page filler shared by every renderer.
// It never moves backwards and never abandons a page that holds nothing.
type Packer struct {
	geo  PageGeometry
	cur  Cursor
	used bool
}

// NewPacker starts at the top of the first page.
func NewPacker(geo PageGeometry) *Packer {
	return &Packer{geo: geo, cur: Cursor{Y: geo.MarginTop}}
}

// Cursor returns the current write position.
func (p *Packer) Cursor() Cursor {
	return p.cur
}

// Fits reports whether a block of height h fits below the cursor.
// A block ending exactly on the bottom limit fits.
func (p *Packer) Fits(h float64) bool {
	return p.cur.Y+h <= p.geo.BottomLimit()
}

// Break moves the cursor to the top of the next page.
func (p *Packer) Break() {
	p.cur = Cursor{Page: p.cur.Page + 1, Y: p.geo.MarginTop}
	p.used = false
}

// Ensure breaks the page when h does not fit, unless the current page is
// still empty. It reports whether a break happened.
func (p *Packer) Ensure(h float64) bool {
	if p.Fits(h) || !p.used {
		return false
	}
	p.Break()
	return true
}

// Place reserves h at the cursor and returns where the block starts.
func (p *Packer) Place(h float64) Cursor {
	at := p.cur
	p.cur.Y += h
	p.used = true
	return at
}

// Advance moves the cursor down without placing content.
func (p *Packer) Advance(h float64) {
	p.cur.Y += h
}
