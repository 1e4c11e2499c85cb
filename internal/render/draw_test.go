package render

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/wagebook/internal/domain/models"
	"github.com/mamadbah2/wagebook/internal/layout"
)

func pdfPages(data []byte) int {
	return bytes.Count(data, []byte("<</Type /Page\n"))
}

func pdfText(s string) []byte {
	return []byte("(" + s + ") Tj")
}

func TestDrawerSmallReportFitsOnePage(t *testing.T) {
	doc := NewDocument(testCompany(), testWorker(day("2025-02-01", 3, "")), models.ReportOptions{}, nil, fixedNow)

	out, err := NewDrawer(testSettings(), nil).Worker(context.Background(), doc)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Equal(t, 1, pdfPages(out))
	assert.Contains(t, string(out), string(pdfText("Work History Report")))
	assert.Contains(t, string(out), string(pdfText("Total Work Days: 1")))
	assert.Contains(t, string(out), string(pdfText("Page 1 of 1")))
	assert.Equal(t, 3, bytes.Count(out, pdfText("Rs.25.00"))+bytes.Count(out, pdfText("Rs.27.50"))+bytes.Count(out, pdfText("Rs.30.00")))
}

func TestDrawerLongDaySpansPages(t *testing.T) {
	long := day("2025-02-01", 200, "")
	doc := NewDocument(testCompany(), testWorker(long), models.ReportOptions{}, nil, fixedNow)
	s := testSettings()

	out, err := NewDrawer(s, nil).Worker(context.Background(), doc)
	require.NoError(t, err)

	plan := layout.Paginate(doc.layoutInput(preamblePt), s.Geometry)
	require.GreaterOrEqual(t, plan.PageCount, 2)
	assert.Equal(t, plan.PageCount, pdfPages(out))

	// One column header for the day plus one per continuation page.
	headers := 0
	for _, pl := range plan.Placements {
		if pl.Kind == layout.KindColumnHeader {
			headers++
		}
	}
	assert.Equal(t, plan.PageCount-1, headers)
	assert.Equal(t, headers, bytes.Count(out, pdfText("Item Name")))
	assert.Contains(t, string(out), string(pdfText(fmt.Sprintf("Page %d of %d", plan.PageCount, plan.PageCount))))

	// The day total is printed once and matches the recalculated sum.
	assert.Equal(t, 1, bytes.Count(out, pdfText(layout.Money("Rs.", long.TotalEarned))))
}

func TestDrawerEmptyRangeStillRenders(t *testing.T) {
	start := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	opts := models.ReportOptions{Range: models.DateRange{Start: &start}}
	doc := NewDocument(testCompany(), testWorker(day("2025-02-01", 3, "")), opts, nil, fixedNow)

	out, err := NewDrawer(testSettings(), nil).Worker(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, 1, pdfPages(out))
	assert.Contains(t, string(out), string(pdfText("Total Work Days: 0")))
	assert.NotContains(t, string(out), string(pdfText("Item Name")))
}

func TestDrawerLogoPlaceholder(t *testing.T) {
	company := testCompany()
	company.Logo = "missing.png"

	doc := NewDocument(company, testWorker(), models.ReportOptions{}, nil, fixedNow)
	out, err := NewDrawer(testSettings(), nil).Worker(context.Background(), doc)
	require.NoError(t, err)
	assert.Contains(t, string(out), string(pdfText("No logo found")))

	doc = NewDocument(company, testWorker(), models.ReportOptions{}, testLogo(t), fixedNow)
	out, err = NewDrawer(testSettings(), nil).Worker(context.Background(), doc)
	require.NoError(t, err)
	assert.NotContains(t, string(out), string(pdfText("No logo found")))
	assert.Contains(t, string(out), "/Subtype /Image")
}

func TestDrawerNotes(t *testing.T) {
	worker := testWorker(day("2025-02-01", 2, "Machine 4 down"))

	out, err := NewDrawer(testSettings(), nil).Worker(context.Background(),
		NewDocument(testCompany(), worker, models.ReportOptions{}, nil, fixedNow))
	require.NoError(t, err)
	assert.NotContains(t, string(out), "Machine 4 down")

	out, err = NewDrawer(testSettings(), nil).Worker(context.Background(),
		NewDocument(testCompany(), worker, models.ReportOptions{IncludeNotes: true}, nil, fixedNow))
	require.NoError(t, err)
	assert.Contains(t, string(out), string(pdfText("Notes: Machine 4 down")))
}

func TestDrawerSummary(t *testing.T) {
	var workers []models.Worker
	for i := 0; i < 20; i++ {
		w := testWorker(day("2025-01-01", 2, ""), day("2025-01-02", 1, ""))
		w.Name = fmt.Sprintf("Worker %02d", i)
		workers = append(workers, w)
	}
	sum := NewSummary(testCompany(), workers, models.DateRange{}, nil, fixedNow)

	out, err := NewDrawer(testSettings(), nil).Summary(context.Background(), sum)
	require.NoError(t, err)

	pages := pdfPages(out)
	assert.GreaterOrEqual(t, pages, 3, "worker blocks overflow the first page, statistics get their own")
	assert.Contains(t, string(out), string(pdfText("Overall Statistics")))
	assert.Contains(t, string(out), string(pdfText("Workforce Summary Report")))
	assert.Contains(t, string(out), string(pdfText("All Time Summary")))
	assert.Contains(t, string(out), string(pdfText("Total Workers: 20")))
	assert.Contains(t, string(out), string(pdfText("Total Company Payments: Rs.1550.00")))
	for _, w := range workers {
		assert.Contains(t, string(out), string(pdfText(w.Name)))
	}
}

func TestDrawerSummaryWithoutWorkers(t *testing.T) {
	sum := NewSummary(testCompany(), nil, models.DateRange{}, nil, fixedNow)

	out, err := NewDrawer(testSettings(), nil).Summary(context.Background(), sum)
	require.NoError(t, err)
	assert.Equal(t, 2, pdfPages(out))
	assert.Contains(t, string(out), string(pdfText("Total Workers: 0")))
}

func TestRenderersRejectPagesShorterThanPreamble(t *testing.T) {
	s := testSettings()
	s.Geometry.PageHeight = 250
	require.NoError(t, s.Geometry.Validate())
	assert.ErrorIs(t, s.Validate(), layout.ErrInvalidGeometry)

	doc := NewDocument(testCompany(), testWorker(day("2025-02-01", 3, "")), models.ReportOptions{}, nil, fixedNow)
	_, err := NewDrawer(s, nil).Worker(context.Background(), doc)
	assert.ErrorIs(t, err, layout.ErrInvalidGeometry)
	_, err = NewRasterizer(s, nil).Worker(context.Background(), doc)
	assert.ErrorIs(t, err, layout.ErrInvalidGeometry)

	workers := []models.Worker{testWorker(day("2025-02-01", 3, ""))}
	sum := NewSummary(testCompany(), workers, models.DateRange{}, nil, fixedNow)
	_, err = NewDrawer(s, nil).Summary(context.Background(), sum)
	assert.NoError(t, err)

	// The logo placeholder makes the summary heading taller than the page.
	company := testCompany()
	company.Logo = "uploads/missing.png"
	sum = NewSummary(company, workers, models.DateRange{}, nil, fixedNow)
	_, err = NewDrawer(s, nil).Summary(context.Background(), sum)
	assert.ErrorIs(t, err, layout.ErrInvalidGeometry)
}

func TestPreambleStaysAboveBottomLimit(t *testing.T) {
	s := testSettings()
	require.NoError(t, s.Validate())

	doc := NewDocument(testCompany(), testWorker(day("2025-02-01", 3, "")), models.ReportOptions{}, nil, fixedNow)
	plan := layout.Paginate(doc.layoutInput(preamblePt), s.Geometry)
	for _, pl := range plan.Placements {
		assert.LessOrEqual(t, pl.Bottom(), s.Geometry.BottomLimit(), "%s on page %d", pl.Kind, pl.Page)
	}
}
