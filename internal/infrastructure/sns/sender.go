package sns

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/go-push-relay/internal/config"
	"github.com/go-push-relay/internal/domain"
)

type snsAPI interface {
	CreatePlatformEndpoint(ctx context.Context, params *sns.CreatePlatformEndpointInput, optFns ...func(*sns.Options)) (*sns.CreatePlatformEndpointOutput, error)
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Sender delivers pushes through an SNS platform application backed by FCM.
// Each token is registered as a platform endpoint before publishing;
// CreatePlatformEndpoint returns the existing ARN for a known token.
type Sender struct {
	client         snsAPI
	platformAppARN string
}

func NewSender(ctx context.Context, cfg *config.Config) (*Sender, error) {
	if cfg.SNSPlatformApplicationARN == "" {
		return nil, errors.New("SNS_PLATFORM_APPLICATION_ARN is required for the sns push provider")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.SNSRegion),
	)
	if err != nil {
		return nil, err
	}
	return &Sender{client: sns.NewFromConfig(awsCfg), platformAppARN: cfg.SNSPlatformApplicationARN}, nil
}

// Send returns the SNS message ID.
func (s *Sender) Send(ctx context.Context, msg domain.PushMessage) (string, error) {
	ep, err := s.client.CreatePlatformEndpoint(ctx, &sns.CreatePlatformEndpointInput{
		PlatformApplicationArn: aws.String(s.platformAppARN),
		Token:                  aws.String(msg.Token),
	})
	if err != nil {
		return "", fmt.Errorf("register sns endpoint: %w", err)
	}

	payload, err := buildPayload(msg)
	if err != nil {
		return "", err
	}
	out, err := s.client.Publish(ctx, &sns.PublishInput{
		TargetArn:        ep.EndpointArn,
		Message:          aws.String(payload),
		MessageStructure: aws.String("json"),
	})
	if err != nil {
		return "", fmt.Errorf("sns publish: %w", err)
	}
	return aws.ToString(out.MessageId), nil
}

type gcmPayload struct {
	Notification domain.PushNotification `json:"notification"`
	Data         map[string]string       `json:"data"`
}

// buildPayload renders the per-protocol JSON document SNS expects when
// MessageStructure is "json". The GCM entry is itself a JSON string.
func buildPayload(msg domain.PushMessage) (string, error) {
	gcm, err := json.Marshal(gcmPayload{Notification: msg.Notification, Data: msg.Data})
	if err != nil {
		return "", fmt.Errorf("marshal gcm payload: %w", err)
	}
	doc, err := json.Marshal(map[string]string{
		"default": msg.Notification.Body,
		"GCM":     string(gcm),
	})
	if err != nil {
		return "", fmt.Errorf("marshal sns message: %w", err)
	}
	return string(doc), nil
}
