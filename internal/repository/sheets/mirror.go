package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/wagebook/internal/config"
	"github.com/mamadbah2/wagebook/internal/domain/models"
)

const (
	workLogRange = "WorkLog!A:J"
	sheetDate    = "2006-01-02"
)

// WorkLogMirror appends logged days of work to a spreadsheet so owners can
// follow them outside the app. It is a copy, never the source of truth.
type WorkLogMirror struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewWorkLogMirror builds a Google Sheets backed mirror. Extra client options
// are appended after the credentials file option.
func NewWorkLogMirror(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger, opts ...option.ClientOption) (*WorkLogMirror, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOpts := []option.ClientOption{option.WithScopes(sheetsapi.SpreadsheetsScope)}
	if cfg.CredentialsPath != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsPath))
	}
	clientOpts = append(clientOpts, opts...)

	service, err := sheetsapi.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &WorkLogMirror{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendDailyWork writes one row per item of day.
func (m *WorkLogMirror) AppendDailyWork(ctx context.Context, company models.Company, worker models.Worker, day models.DailyWork) error {
	rows := workLogRows(company, worker, day)
	payload := &sheetsapi.ValueRange{Values: rows}

	call := m.service.Spreadsheets.Values.Append(m.spreadsheetID, workLogRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append rows into range %s: %w", workLogRange, err)
	}

	m.logger.Debug("work log mirrored",
		zap.String("worker_id", worker.ID.Hex()),
		zap.Int("rows", len(rows)),
	)
	return nil
}

// workLogRows flattens a day into sheet rows. A day without items still
// produces one row so the day total is visible.
func workLogRows(company models.Company, worker models.Worker, day models.DailyWork) [][]interface{} {
	prefix := func() []interface{} {
		return []interface{}{day.Date.UTC().Format(sheetDate), company.CompanyName, worker.Name, worker.Phone}
	}

	if len(day.Items) == 0 {
		row := append(prefix(), "", 0, 0, 0, day.TotalEarned, day.Notes)
		return [][]interface{}{row}
	}

	rows := make([][]interface{}, 0, len(day.Items))
	for _, item := range day.Items {
		row := append(prefix(), item.ItemName, item.PiecesCompleted, item.WageRate, item.TotalWage, day.TotalEarned, day.Notes)
		rows = append(rows, row)
	}
	return rows
}
