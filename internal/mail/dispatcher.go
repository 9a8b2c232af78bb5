package mail

import (
	"context"
	"encoding/base64"
	"fmt"

	"go.uber.org/zap"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// Dispatcher sends messages through the signed-in user's Gmail account.
type Dispatcher struct {
	service *gmail.Service
	logger  *zap.Logger
}

// NewDispatcher creates a Gmail dispatcher. Credentials come in through the
// standard client options (OAuth token source or an authenticated client).
func NewDispatcher(ctx context.Context, logger *zap.Logger, opts ...option.ClientOption) (*Dispatcher, error) {
	service, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{service: service, logger: logger}, nil
}

// Send delivers the message as the authenticated user and returns the Gmail
// message id.
func (d *Dispatcher) Send(ctx context.Context, msg Message) (string, error) {
	if err := msg.Validate(); err != nil {
		return "", err
	}

	raw := base64.URLEncoding.EncodeToString(msg.Encode())
	sent, err := d.service.Users.Messages.Send("me", &gmail.Message{Raw: raw}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to send message: %w", err)
	}

	d.logger.Info("message sent",
		zap.String("to", msg.To),
		zap.String("gmail_id", sent.Id))
	return sent.Id, nil
}
