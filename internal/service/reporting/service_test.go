package reporting

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/wagebook/internal/domain/models"
	"github.com/mamadbah2/wagebook/internal/render"
	"github.com/mamadbah2/wagebook/internal/repository"
	"github.com/mamadbah2/wagebook/internal/service/companies"
	"github.com/mamadbah2/wagebook/internal/service/notify"
	"github.com/mamadbah2/wagebook/internal/service/workers"
	"github.com/mamadbah2/wagebook/pkg/clients/htmlpdf"
)

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

type companyStore struct {
	companies []models.Company
}

func (c *companyStore) FindByID(_ context.Context, id primitive.ObjectID) (models.Company, error) {
	for _, company := range c.companies {
		if company.ID == id {
			return company, nil
		}
	}
	return models.Company{}, repository.ErrNotFound
}

func (c *companyStore) List(context.Context) ([]models.Company, error) {
	return c.companies, nil
}

type workerStore struct {
	workers []models.Worker
}

func (w *workerStore) FindOwned(_ context.Context, owner, id primitive.ObjectID) (models.Worker, error) {
	for _, worker := range w.workers {
		if worker.ID == id && worker.Owner == owner {
			return worker, nil
		}
	}
	return models.Worker{}, repository.ErrNotFound
}

func (w *workerStore) ListAll(_ context.Context, owner primitive.ObjectID) ([]models.Worker, error) {
	var out []models.Worker
	for _, worker := range w.workers {
		if worker.Owner == owner {
			out = append(out, worker)
		}
	}
	return out, nil
}

type logoStore struct {
	data  []byte
	err   error
	calls []string
}

func (l *logoStore) Open(_ context.Context, key string) ([]byte, error) {
	l.calls = append(l.calls, key)
	return l.data, l.err
}

type fakeConverter struct {
	enabled bool
	html    []byte
	paper   htmlpdf.Paper
}

func (f *fakeConverter) Enabled() bool { return f.enabled }

func (f *fakeConverter) Convert(_ context.Context, html []byte, paper htmlpdf.Paper) ([]byte, error) {
	f.html = html
	f.paper = paper
	return []byte("%PDF-converted"), nil
}

type fakeNotifier struct {
	enabled bool
	sent    []models.OutboundMessageRequest
	err     error
}

func (f *fakeNotifier) Enabled() bool { return f.enabled }

func (f *fakeNotifier) SendOutbound(_ context.Context, req models.OutboundMessageRequest) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, req)
	return nil
}

type fixture struct {
	svc       *Service
	owner     primitive.ObjectID
	worker    models.Worker
	companies *companyStore
	workers   *workerStore
	logos     *logoStore
	converter *fakeConverter
	notifier  *fakeNotifier
}

func workDay(date time.Time, items ...models.WorkItem) models.DailyWork {
	day := models.DailyWork{ID: primitive.NewObjectID(), Date: date, Items: items}
	day.Recalculate()
	return day
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	owner := primitive.NewObjectID()
	worker := models.Worker{
		ID:    primitive.NewObjectID(),
		Name:  "Asha Devi",
		Phone: "9876543210",
		Owner: owner,
		WorkHistory: []models.DailyWork{
			workDay(fixedNow.AddDate(0, 0, -10), models.WorkItem{ItemName: "Collar", WageRate: 2.5, PiecesCompleted: 10}),
			workDay(fixedNow.AddDate(0, 0, -2), models.WorkItem{ItemName: "Cuff", WageRate: 1.5, PiecesCompleted: 10}),
			workDay(fixedNow, models.WorkItem{ItemName: "Hem", WageRate: 2, PiecesCompleted: 5}),
		},
		IsActive: true,
	}
	other := models.Worker{
		ID:          primitive.NewObjectID(),
		Name:        "Ravi Kumar",
		Owner:       owner,
		WorkHistory: []models.DailyWork{workDay(fixedNow.AddDate(0, 0, -30))},
	}

	f := &fixture{
		owner:  owner,
		worker: worker,
		companies: &companyStore{companies: []models.Company{
			{ID: owner, CompanyName: "Sunrise Garments", Phone: "919000000001"},
			{ID: primitive.NewObjectID(), CompanyName: "No Phone Ltd"},
		}},
		workers:   &workerStore{workers: []models.Worker{worker, other}},
		logos:     &logoStore{err: repository.ErrNotFound},
		converter: &fakeConverter{},
		notifier:  &fakeNotifier{enabled: true},
	}

	settings := render.DefaultSettings()
	settings.Compress = false
	f.svc = NewService(Dependencies{
		Companies: f.companies,
		Workers:   f.workers,
		Logos:     f.logos,
		Renderers: NewRenderers(settings, nil),
		Converter: f.converter,
		Notifier:  f.notifier,
		Settings:  settings,
	})
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

func TestWorkerReportFormats(t *testing.T) {
	cases := []struct {
		format      models.ReportFormat
		contentType string
		ext         string
		prefix      string
	}{
		{format: models.FormatPDF, contentType: contentTypePDF, ext: ".pdf", prefix: "%PDF"},
		{format: models.FormatRaster, contentType: contentTypePDF, ext: ".pdf", prefix: "%PDF"},
		{format: models.FormatHTML, contentType: contentTypeHTML, ext: ".html", prefix: "<!doctype html>"},
		{format: models.FormatXLSX, contentType: contentTypeXLSX, ext: ".xlsx", prefix: "PK"},
	}
	for _, tc := range cases {
		t.Run(string(tc.format), func(t *testing.T) {
			f := newFixture(t)
			file, err := f.svc.WorkerReport(context.Background(), f.owner, f.worker.ID.Hex(), tc.format, models.ReportOptions{})
			require.NoError(t, err)

			assert.Equal(t, tc.contentType, file.ContentType)
			assert.True(t, strings.HasPrefix(file.Name, "Asha Devi-report-"), file.Name)
			assert.True(t, strings.HasSuffix(file.Name, tc.ext), file.Name)
			assert.True(t, bytes.HasPrefix(file.Data, []byte(tc.prefix)))
		})
	}
}

func TestWorkerReportScopesToOwner(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.WorkerReport(context.Background(), primitive.NewObjectID(), f.worker.ID.Hex(), models.FormatPDF, models.ReportOptions{})
	assert.ErrorIs(t, err, workers.ErrWorkerNotFound)

	_, err = f.svc.WorkerReport(context.Background(), f.owner, "zzz", models.FormatPDF, models.ReportOptions{})
	assert.ErrorIs(t, err, workers.ErrWorkerNotFound)

	f.companies.companies = nil
	_, err = f.svc.WorkerReport(context.Background(), f.owner, f.worker.ID.Hex(), models.FormatPDF, models.ReportOptions{})
	assert.ErrorIs(t, err, companies.ErrCompanyNotFound)
}

func TestWorkerReportUnsupportedFormat(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.WorkerReport(context.Background(), f.owner, f.worker.ID.Hex(), "docx", models.ReportOptions{})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestWorkerReportHTMLPDF(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.WorkerReport(context.Background(), f.owner, f.worker.ID.Hex(), models.FormatHTMLPDF, models.ReportOptions{})
	assert.ErrorIs(t, err, htmlpdf.ErrConverterUnavailable)

	f.converter.enabled = true
	file, err := f.svc.WorkerReport(context.Background(), f.owner, f.worker.ID.Hex(), models.FormatHTMLPDF, models.ReportOptions{})
	require.NoError(t, err)

	assert.Equal(t, "%PDF-converted", string(file.Data))
	assert.Equal(t, contentTypePDF, file.ContentType)
	assert.True(t, strings.HasSuffix(file.Name, ".pdf"))
	assert.Contains(t, string(f.converter.html), "Asha Devi")
	assert.InDelta(t, 8.27, f.converter.paper.Width, 0.01)
	assert.InDelta(t, 11.69, f.converter.paper.Height, 0.01)
}

func TestWorkerReportLogo(t *testing.T) {
	f := newFixture(t)
	f.companies.companies[0].Logo = "uploads/sunrise.png"

	// Unreadable logos fall back to the placeholder.
	_, err := f.svc.WorkerReport(context.Background(), f.owner, f.worker.ID.Hex(), models.FormatHTML, models.ReportOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"uploads/sunrise.png"}, f.logos.calls)

	f.logos.err = nil
	f.logos.data = []byte("not an image")
	file, err := f.svc.WorkerReport(context.Background(), f.owner, f.worker.ID.Hex(), models.FormatHTML, models.ReportOptions{})
	require.NoError(t, err)
	assert.Contains(t, string(file.Data), "No logo found")

	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, imaging.New(40, 20, color.NRGBA{0, 0, 0xff, 0xff}), imaging.PNG))
	f.logos.data = buf.Bytes()
	file, err = f.svc.WorkerReport(context.Background(), f.owner, f.worker.ID.Hex(), models.FormatHTML, models.ReportOptions{})
	require.NoError(t, err)
	assert.NotContains(t, string(file.Data), "No logo found")
	assert.Contains(t, string(file.Data), "data:image/png;base64,")
}

func TestSummaryReport(t *testing.T) {
	f := newFixture(t)
	file, err := f.svc.SummaryReport(context.Background(), f.owner, models.DateRange{})
	require.NoError(t, err)

	assert.Equal(t, contentTypePDF, file.ContentType)
	assert.True(t, strings.HasPrefix(file.Name, "Sunrise Garments-summary-"), file.Name)
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF")))

	_, err = f.svc.SummaryReport(context.Background(), primitive.NewObjectID(), models.DateRange{})
	assert.ErrorIs(t, err, companies.ErrCompanyNotFound)
}

func TestShareLink(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.ShareLink(context.Background(), f.owner, models.ShareReportRequest{})
	require.NoError(t, err)
	assert.Equal(t, "https://api.whatsapp.com/send?text=Check%20out%20this%20worker%20report", resp.ShareableLink)
	assert.False(t, resp.Delivered)

	resp, err = f.svc.ShareLink(context.Background(), f.owner, models.ShareReportRequest{WorkerID: f.worker.ID.Hex()})
	require.NoError(t, err)
	link, err := url.Parse(resp.ShareableLink)
	require.NoError(t, err)
	assert.Equal(t, "Sunrise Garments - Work report for Asha Devi: 3 work days, total earnings Rs.50.00.", link.Query().Get("text"))

	resp, err = f.svc.ShareLink(context.Background(), f.owner, models.ShareReportRequest{Message: "Pay day & bonus", To: "+91 98765 43210"})
	require.NoError(t, err)
	assert.True(t, resp.Delivered)
	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "+91 98765 43210", f.notifier.sent[0].To)
	assert.True(t, strings.HasPrefix(f.notifier.sent[0].Message, "Pay day & bonus\nhttps://api.whatsapp.com/send?text=Pay%20day%20%26%20bonus"))

	_, err = f.svc.ShareLink(context.Background(), primitive.NewObjectID(), models.ShareReportRequest{WorkerID: f.worker.ID.Hex()})
	assert.ErrorIs(t, err, workers.ErrWorkerNotFound)

	f.notifier.enabled = false
	_, err = f.svc.ShareLink(context.Background(), f.owner, models.ShareReportRequest{To: "1"})
	assert.ErrorIs(t, err, notify.ErrDisabled)
}

func TestWeeklyDigest(t *testing.T) {
	f := newFixture(t)
	digest, err := f.svc.WeeklyDigest(context.Background(), f.companies.companies[0], fixedNow)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC), digest.From)
	require.Len(t, digest.Workers, 1, "workers without work this week are skipped")
	assert.Equal(t, "Asha Devi", digest.Workers[0].WorkerName)
	assert.Equal(t, 2, digest.Workers[0].WorkDays)
	assert.Equal(t, 25.0, digest.Workers[0].Earned)
	assert.Equal(t, 25.0, digest.Total)

	text := f.svc.DigestText(digest)
	assert.Contains(t, text, "Weekly earnings digest for Sunrise Garments")
	assert.Contains(t, text, "08 Mar 2025 - 14 Mar 2025")
	assert.Contains(t, text, "- Asha Devi: Rs.25.00 (2 days)")
	assert.Contains(t, text, "Total: Rs.25.00")

	empty := f.svc.DigestText(models.WeeklyDigest{CompanyName: "X", From: fixedNow, To: fixedNow})
	assert.Contains(t, empty, "No work logged this week.")
}

func TestSendWeeklyDigests(t *testing.T) {
	f := newFixture(t)

	sent, err := f.svc.SendWeeklyDigests(context.Background(), fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 1, sent, "companies without a phone are skipped")
	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "919000000001", f.notifier.sent[0].To)

	f.notifier.err = errors.New("rate limited")
	sent, err = f.svc.SendWeeklyDigests(context.Background(), fixedNow)
	assert.Equal(t, 0, sent)
	assert.EqualError(t, err, "rate limited")

	f.notifier.enabled = false
	_, err = f.svc.SendWeeklyDigests(context.Background(), fixedNow)
	assert.ErrorIs(t, err, notify.ErrDisabled)
}
