package fcm

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/errorutils"
	"firebase.google.com/go/v4/messaging"
	"github.com/go-push-relay/internal/config"
	"github.com/go-push-relay/internal/domain"
)

type messageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// Sender delivers pushes through Firebase Cloud Messaging.
type Sender struct {
	client messageSender
}

func NewSender(ctx context.Context, cfg *config.Config) (*Sender, error) {
	a, err := App(ctx, []byte(cfg.FirebaseServiceAccount))
	if err != nil {
		return nil, err
	}
	client, err := a.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase messaging: %w", err)
	}
	return &Sender{client: client}, nil
}

// Send returns the FCM message name, e.g. "projects/p/messages/123".
func (s *Sender) Send(ctx context.Context, msg domain.PushMessage) (string, error) {
	id, err := s.client.Send(ctx, toMessage(msg))
	if err != nil {
		if messaging.IsUnregistered(err) || errorutils.IsInvalidArgument(err) {
			return "", fmt.Errorf("fcm rejected token: %w", err)
		}
		return "", fmt.Errorf("fcm send: %w", err)
	}
	return id, nil
}

func toMessage(msg domain.PushMessage) *messaging.Message {
	return &messaging.Message{
		Token: msg.Token,
		Notification: &messaging.Notification{
			Title: msg.Notification.Title,
			Body:  msg.Notification.Body,
		},
		Data: msg.Data,
	}
}
