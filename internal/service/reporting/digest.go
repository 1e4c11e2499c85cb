package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/wagebook/internal/domain/models"
	"github.com/mamadbah2/wagebook/internal/layout"
	"github.com/mamadbah2/wagebook/internal/service/notify"
)

const digestDateLayout = "02 Jan 2006"

// WeeklyDigest totals each worker's earnings over the seven calendar days
// ending at now. Workers without work in the period are left out.
func (s *Service) WeeklyDigest(ctx context.Context, company models.Company, now time.Time) (models.WeeklyDigest, error) {
	now = now.In(s.settings.Location)
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -6)
	rng := models.DateRange{Start: &from, End: &now}

	list, err := s.workers.ListAll(ctx, company.ID)
	if err != nil {
		return models.WeeklyDigest{}, fmt.Errorf("list workers: %w", err)
	}

	digest := models.WeeklyDigest{CompanyName: company.CompanyName, From: from, To: now}
	var days []models.DailyWork
	for _, w := range list {
		inRange := models.FilterHistory(w.WorkHistory, rng)
		if len(inRange) == 0 {
			continue
		}
		for i := range inRange {
			inRange[i].Items = append([]models.WorkItem(nil), inRange[i].Items...)
			inRange[i].Recalculate()
		}
		earned := models.SumEarned(inRange)
		digest.Workers = append(digest.Workers, models.WorkerDigest{
			WorkerName: w.Name,
			WorkDays:   len(inRange),
			Earned:     earned,
		})
		days = append(days, models.DailyWork{TotalEarned: earned})
	}
	digest.Total = models.SumEarned(days)
	return digest, nil
}

// DigestText formats a digest as a WhatsApp message.
func (s *Service) DigestText(d models.WeeklyDigest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Weekly earnings digest for %s\n", d.CompanyName)
	fmt.Fprintf(&b, "%s - %s\n\n", d.From.Format(digestDateLayout), d.To.Format(digestDateLayout))

	if len(d.Workers) == 0 {
		b.WriteString("No work logged this week.")
		return b.String()
	}
	for _, w := range d.Workers {
		fmt.Fprintf(&b, "- %s: %s (%d days)\n", w.WorkerName, layout.Money(s.settings.Currency, w.Earned), w.WorkDays)
	}
	fmt.Fprintf(&b, "\nTotal: %s", layout.Money(s.settings.Currency, d.Total))
	return b.String()
}

// SendWeeklyDigests sends the digest to every company with a phone number.
// A failure for one company does not stop the others; the first error is
// returned along with the number of messages sent.
func (s *Service) SendWeeklyDigests(ctx context.Context, now time.Time) (int, error) {
	if s.notifier == nil || !s.notifier.Enabled() {
		return 0, notify.ErrDisabled
	}

	list, err := s.companies.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list companies: %w", err)
	}

	var (
		sent     int
		firstErr error
	)
	for _, company := range list {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		if strings.TrimSpace(company.Phone) == "" {
			continue
		}

		logger := s.logger.With(zap.String("company_id", company.ID.Hex()))
		digest, err := s.WeeklyDigest(ctx, company, now)
		if err == nil {
			err = s.notifier.SendOutbound(ctx, models.OutboundMessageRequest{
				To:      company.Phone,
				Message: s.DigestText(digest),
			})
		}
		if err != nil {
			logger.Error("weekly digest failed", zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		logger.Info("weekly digest sent", zap.Int("workers", len(digest.Workers)))
		sent++
	}
	return sent, firstErr
}
