// Command reportgen renders a worker report straight from MongoDB to a file.
//
//	reportgen -company <id> -worker <id> -format raster -start 2025-01-01 -out ./out
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/wagebook/internal/app"
	"github.com/mamadbah2/wagebook/internal/config"
	"github.com/mamadbah2/wagebook/internal/domain/models"
	"github.com/mamadbah2/wagebook/pkg/logger"
)

func main() {
	var (
		companyHex = flag.String("company", "", "company id")
		workerHex  = flag.String("worker", "", "worker id; empty renders the company summary")
		formatFlag = flag.String("format", "pdf", "pdf, html, htmlpdf, raster or xlsx")
		start      = flag.String("start", "", "first day (YYYY-MM-DD)")
		end        = flag.String("end", "", "last day (YYYY-MM-DD)")
		notes      = flag.Bool("notes", false, "include day notes")
		outDir     = flag.String("out", ".", "output directory")
		envFile    = flag.String("env", "", "optional .env file")
		timeout    = flag.Duration("timeout", 2*time.Minute, "overall timeout")
	)
	flag.Parse()

	if err := run(*companyHex, *workerHex, *formatFlag, *start, *end, *notes, *outDir, *envFile, *timeout); err != nil {
		fmt.Fprintln(os.Stderr, "reportgen:", err)
		os.Exit(1)
	}
}

func run(companyHex, workerHex, formatFlag, start, end string, notes bool, outDir, envFile string, timeout time.Duration) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	log := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = log.Sync() }()

	owner, err := primitive.ObjectIDFromHex(companyHex)
	if err != nil {
		return fmt.Errorf("invalid -company: %w", err)
	}
	format, ok := models.ParseReportFormat(formatFlag)
	if !ok {
		return fmt.Errorf("unknown -format %q", formatFlag)
	}
	rng, err := parseRange(start, end)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer application.Close(context.Background())

	var data []byte
	var name string
	if workerHex == "" {
		file, err := application.Reports.SummaryReport(ctx, owner, rng)
		if err != nil {
			return err
		}
		data, name = file.Data, file.Name
	} else {
		file, err := application.Reports.WorkerReport(ctx, owner, workerHex, format, models.ReportOptions{Range: rng, IncludeNotes: notes})
		if err != nil {
			return err
		}
		data, name = file.Data, file.Name
	}

	path := filepath.Join(outDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	log.Info("report written", zap.String("path", path), zap.Int("bytes", len(data)))
	return nil
}

func parseRange(start, end string) (models.DateRange, error) {
	var rng models.DateRange
	if start != "" {
		t, err := models.ParseDate(start)
		if err != nil {
			return rng, err
		}
		rng.Start = &t
	}
	if end != "" {
		t, err := models.ParseDate(end)
		if err != nil {
			return rng, err
		}
		rng.End = &t
	}
	return rng, nil
}
