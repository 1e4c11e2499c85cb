// Package notify pushes text messages to phone numbers over WhatsApp.
package notify

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/wagebook/internal/domain/models"
	client "github.com/mamadbah2/wagebook/pkg/clients/whatsapp"
)

const sendTimeout = 10 * time.Second

// ErrDisabled is returned when WhatsApp credentials are not configured.
var ErrDisabled = errors.New("whatsapp notifications are not configured")

// Notifier describes the outbound messaging the services rely on.
type Notifier interface {
	Enabled() bool
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// WhatsAppNotifier is the production implementation backed by WhatsApp Cloud API.
type WhatsAppNotifier struct {
	client client.Client
	logger *zap.Logger
}

// NewWhatsAppNotifier wires a notifier. A nil client yields a disabled notifier.
func NewWhatsAppNotifier(c client.Client, logger *zap.Logger) *WhatsAppNotifier {
	n := &WhatsAppNotifier{
		client: c,
		logger: logger,
	}
	if n.logger == nil {
		n.logger = zap.NewNop()
	}
	return n
}

// Enabled reports whether messages can be delivered.
func (n *WhatsAppNotifier) Enabled() bool {
	return n != nil && n.client != nil
}

// SendOutbound delivers one text message.
func (n *WhatsAppNotifier) SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error {
	if !n.Enabled() {
		return ErrDisabled
	}
	if strings.TrimSpace(req.Message) == "" {
		return errors.New("empty message body")
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	resp, err := n.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
		To:         req.To,
		Body:       req.Message,
		PreviewURL: req.PreviewURL,
	})
	if err != nil {
		n.logger.Warn("whatsapp send failed", zap.Error(err))
		return err
	}

	n.logger.Info("whatsapp message sent", zap.String("message_id", resp.MessageID()))
	return nil
}
