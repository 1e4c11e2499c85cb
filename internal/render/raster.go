package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/mamadbah2/wagebook/internal/layout"
)

const (
	pxPerPt = 96.0 / 72.0
	// Documents taller than this are rasterized at scale 1 instead of 2.
	tallDocumentPx = 4000
	// overlapPx pads each slice above and below with background.
	overlapPx = 2
)

// Rasterizer lays the whole report out once in pixel space, cuts it into
// page slices with the shared packer and rasterizes every slice on its own.
// The footer and page numbers are stamped onto the PDF after all slices are
// placed.
type Rasterizer struct {
	settings Settings
	logger   *zap.Logger
}

// NewRasterizer creates a Rasterizer.
func NewRasterizer(settings Settings, logger *zap.Logger) *Rasterizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Rasterizer{settings: settings.normalized(), logger: logger}
}

// SlicePlan describes how a flowed document is cut into pages.
type SlicePlan struct {
	// Geometry is the page geometry in CSS pixels.
	Geometry layout.PageGeometry
	Flow     layout.Layout
	Slices   []layout.Slice
	// Height is the total height of the flowed document in CSS pixels.
	Height float64
	// Scale is the device pixel ratio slices are rasterized at.
	Scale float64
}

// Pages computes the slice plan for doc.
func (r *Rasterizer) Pages(doc Document) (SlicePlan, error) {
	if err := r.settings.Geometry.ValidateFor(preamblePt); err != nil {
		return SlicePlan{}, fmt.Errorf("plan raster slices: %w", err)
	}
	px := r.settings.Geometry.Scale(pxPerPt)

	// A slice holds exactly the content height of a page.
	sliceGeo := px
	sliceGeo.MarginTop, sliceGeo.MarginBottom = 0, 0
	sliceGeo.PageHeight = px.ContentHeight()

	in := doc.layoutInput(preamblePt * pxPerPt)
	flow := layout.Flow(in, sliceGeo)
	slices, err := layout.Slices(flow, layout.Paginate(in, sliceGeo))
	if err != nil {
		return SlicePlan{}, fmt.Errorf("plan raster slices: %w", err)
	}

	scale := 2.0
	if flow.End.Y > tallDocumentPx {
		scale = 1
	}
	return SlicePlan{Geometry: px, Flow: flow, Slices: slices, Height: flow.End.Y, Scale: scale}, nil
}

// Worker renders a worker's history report as a PDF of raster pages.
func (r *Rasterizer) Worker(ctx context.Context, doc Document) ([]byte, error) {
	plan, err := r.Pages(doc)
	if err != nil {
		return nil, err
	}

	fonts, err := newFaceCache()
	if err != nil {
		return nil, err
	}
	defer fonts.close()

	geo := r.settings.Geometry
	pdf := newPDF(geo, r.settings, doc.Worker.Name+" - Work History Report", doc.GeneratedAt)
	opts := fpdf.ImageOptions{ImageType: "PNG"}

	for i, s := range plan.Slices {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("render raster report: %w", err)
		}

		img := r.rasterize(doc, plan, s, fonts)
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
			return nil, fmt.Errorf("encode slice %d: %w", i, err)
		}

		name := fmt.Sprintf("slice-%d", i)
		pdf.RegisterImageOptionsReader(name, opts, &buf)
		pdf.AddPage()

		// One CSS pixel is 0.75pt; the slice is drawn so that its content
		// starts exactly at the top margin.
		heightPt := float64(img.Bounds().Dy()) / plan.Scale / pxPerPt
		pdf.ImageOptions(name, 0, geo.MarginTop-overlapPx/pxPerPt, geo.PageWidth, heightPt, false, opts, 0, "")
	}

	p := newPainter(newPDFCanvas(pdf), geo, 1, r.settings)
	for i := range plan.Slices {
		pdf.SetPage(i + 1)
		p.footer(doc.GeneratedAt, i, len(plan.Slices))
	}
	pdf.SetPage(len(plan.Slices))

	r.logger.Debug("worker report rasterized",
		zap.String("worker", doc.Worker.Name),
		zap.Float64("height_px", plan.Height),
		zap.Float64("scale", plan.Scale),
		zap.Int("pages", len(plan.Slices)),
	)

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		r.logger.Error("failed to write pdf", zap.Error(err))
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return out.Bytes(), nil
}

// rasterize paints the part of the flowed document covered by s. Blocks
// outside the slice are left out, so the overlap band only carries background.
func (r *Rasterizer) rasterize(doc Document, plan SlicePlan, s layout.Slice, fonts *faceCache) *image.NRGBA {
	geo := plan.Geometry

	header := 0.0
	if s.RepeatHeader {
		header = geo.ColHeaderHeight
	}
	height := overlapPx + header + s.Height() + overlapPx

	img := imaging.New(
		int(math.Ceil(geo.PageWidth*plan.Scale)),
		int(math.Ceil(height*plan.Scale)),
		color.White,
	)
	c := &rasterCanvas{
		img:     img,
		scale:   plan.Scale,
		originY: s.Start - header - overlapPx,
		fonts:   fonts,
	}
	p := newPainter(c, geo, pxPerPt, r.settings)

	if s.RepeatHeader {
		p.columnHeader(s.Start - header)
	}
	const eps = 1e-6
	for _, pl := range plan.Flow.Placements {
		if pl.Y >= s.Start-eps && pl.Bottom() <= s.End+eps {
			p.placement(doc, pl)
		}
	}
	return img
}

// rasterCanvas paints onto an image. Coordinates are CSS pixels relative to
// the flowed document; originY is the document y at the top of the image.
type rasterCanvas struct {
	img     *image.NRGBA
	scale   float64
	originY float64
	fonts   *faceCache
}

func (c *rasterCanvas) x(v float64) int { return int(math.Round(v * c.scale)) }
func (c *rasterCanvas) y(v float64) int { return int(math.Round((v - c.originY) * c.scale)) }

func (c *rasterCanvas) FillRect(x, y, w, h float64, col color.RGBA) {
	rect := image.Rect(c.x(x), c.y(y), c.x(x+w), c.y(y+h))
	draw.Draw(c.img, rect, image.NewUniform(col), image.Point{}, draw.Src)
}

func (c *rasterCanvas) Line(x1, y1, x2, y2 float64, col color.RGBA) {
	rect := image.Rect(c.x(x1), c.y(y1), c.x(x2), c.y(y2)).Canon()
	if rect.Dy() == 0 {
		rect.Max.Y++
	}
	if rect.Dx() == 0 {
		rect.Max.X++
	}
	draw.Draw(c.img, rect, image.NewUniform(col), image.Point{}, draw.Src)
}

func (c *rasterCanvas) Text(x, top, size float64, bold bool, col color.RGBA, s string) {
	d := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: c.fonts.face(size*c.scale, bold),
		Dot:  fixed.P(c.x(x), c.y(top+size*baselineDescent)),
	}
	d.DrawString(s)
}

func (c *rasterCanvas) TextWidth(size float64, bold bool, s string) float64 {
	adv := font.MeasureString(c.fonts.face(size*c.scale, bold), s)
	return float64(adv) / 64 / c.scale
}

func (c *rasterCanvas) Image(logo *Logo, x, y, w, h float64) {
	rect := image.Rect(c.x(x), c.y(y), c.x(x+w), c.y(y+h))
	draw.CatmullRom.Scale(c.img, rect, logo.img, logo.img.Bounds(), draw.Over, nil)
}

var (
	parseFontsOnce sync.Once
	regularFont    *opentype.Font
	boldFont       *opentype.Font
	parseFontsErr  error
)

func parsedFonts() (*opentype.Font, *opentype.Font, error) {
	parseFontsOnce.Do(func() {
		regularFont, parseFontsErr = opentype.Parse(goregular.TTF)
		if parseFontsErr != nil {
			return
		}
		boldFont, parseFontsErr = opentype.Parse(gobold.TTF)
	})
	return regularFont, boldFont, parseFontsErr
}

type faceKey struct {
	size float64
	bold bool
}

// faceCache holds the faces of one render; font.Face is not safe for
// concurrent use.
type faceCache struct {
	regular, bold *opentype.Font
	faces         map[faceKey]font.Face
}

func newFaceCache() (*faceCache, error) {
	regular, bold, err := parsedFonts()
	if err != nil {
		return nil, fmt.Errorf("load raster fonts: %w", err)
	}
	return &faceCache{regular: regular, bold: bold, faces: map[faceKey]font.Face{}}, nil
}

func (f *faceCache) face(size float64, bold bool) font.Face {
	key := faceKey{size: math.Round(size*100) / 100, bold: bold}
	if face, ok := f.faces[key]; ok {
		return face
	}

	src := f.regular
	if bold {
		src = f.bold
	}
	face, err := opentype.NewFace(src, &opentype.FaceOptions{Size: key.size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return basicfont.Face7x13
	}
	f.faces[key] = face
	return face
}

func (f *faceCache) close() {
	for _, face := range f.faces {
		_ = face.Close()
	}
}
