package reporting

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/wagebook/internal/domain/models"
	"github.com/mamadbah2/wagebook/internal/layout"
	"github.com/mamadbah2/wagebook/internal/service/notify"
)

const (
	shareBaseURL        = "https://api.whatsapp.com/send"
	defaultShareMessage = "Check out this worker report"
)

// ShareLink builds a WhatsApp deep link for a report message. When a worker
// is named the default message summarizes their earnings. When a recipient
// is given and WhatsApp is configured the message is also sent.
func (s *Service) ShareLink(ctx context.Context, owner primitive.ObjectID, req models.ShareReportRequest) (models.ShareReportResponse, error) {
	message := strings.TrimSpace(req.Message)

	if req.WorkerID != "" {
		worker, err := s.loadWorker(ctx, owner, req.WorkerID)
		if err != nil {
			return models.ShareReportResponse{}, err
		}
		if message == "" {
			message = s.workerShareMessage(ctx, owner, worker)
		}
	}
	if message == "" {
		message = defaultShareMessage
	}

	resp := models.ShareReportResponse{
		Message:       "Report shared successfully",
		ShareableLink: ShareURL(message),
	}

	if req.To == "" {
		return resp, nil
	}
	if s.notifier == nil || !s.notifier.Enabled() {
		return models.ShareReportResponse{}, notify.ErrDisabled
	}
	err := s.notifier.SendOutbound(ctx, models.OutboundMessageRequest{
		To:         req.To,
		Message:    message + "\n" + resp.ShareableLink,
		PreviewURL: true,
	})
	if err != nil {
		return models.ShareReportResponse{}, fmt.Errorf("deliver share message: %w", err)
	}
	resp.Delivered = true
	return resp, nil
}

// ShareURL is the api.whatsapp.com deep link prefilled with message.
func ShareURL(message string) string {
	return shareBaseURL + "?text=" + strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
}

func (s *Service) workerShareMessage(ctx context.Context, owner primitive.ObjectID, worker models.Worker) string {
	companyName := ""
	company, err := s.loadCompany(ctx, owner)
	switch {
	case err == nil:
		companyName = company.CompanyName
	case !errors.Is(err, context.Canceled):
		s.logger.Warn("share message without company name", zap.Error(err))
	}

	msg := fmt.Sprintf("Work report for %s: %d work days, total earnings %s.",
		worker.Name,
		len(worker.WorkHistory),
		layout.Money(s.settings.Currency, worker.TotalEarnings()),
	)
	if companyName != "" {
		msg = companyName + " - " + msg
	}
	return msg
}
