package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"crmsync/internal/domain"
)

// SESConfig holds configuration for e-mail notifications through AWS SES.
type SESConfig struct {
	Region             string
	AccessKeyID        string
	SecretAccessKey    string
	InsecureSkipVerify bool
	FromAddress        string
	FromName           string
	To                 []string
}

// sesAPI is the subset of the SES client used here.
type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type sesNotifier struct {
	client      sesAPI
	from        string
	to          []string
	sendSuccess bool
	renderer    domain.NotificationTemplateRenderer
	logger      *slog.Logger
}

func newSESClient(cfg SESConfig, timeout time.Duration) *ses.Client {
	return ses.NewFromConfig(aws.Config{
		Region: cfg.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
		HTTPClient: newSESHTTPClient(cfg, timeout),
	})
}

func newSESHTTPClient(cfg SESConfig, timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: cfg.InsecureSkipVerify,
				MinVersion:         tls.VersionTLS12,
			},
		},
	}
}

func newSESNotifier(client sesAPI, cfg SESConfig, sendSuccess bool, renderer domain.NotificationTemplateRenderer, logger *slog.Logger) *sesNotifier {
	from := cfg.FromAddress
	if cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromAddress)
	}
	return &sesNotifier{
		client:      client,
		from:        from,
		to:          cfg.To,
		sendSuccess: sendSuccess,
		renderer:    renderer,
		logger:      logger,
	}
}

func (s *sesNotifier) ReportError(ctx context.Context, message string, details domain.SignupDetails) error {
	return s.send(ctx, levelError, message, details)
}

func (s *sesNotifier) ReportSuccess(ctx context.Context, message string, details domain.SignupDetails) error {
	if !s.sendSuccess {
		s.logger.InfoContext(ctx, "success notification suppressed", "message", message)
		return nil
	}
	return s.send(ctx, levelSuccess, message, details)
}

func (s *sesNotifier) send(ctx context.Context, level, message string, details domain.SignupDetails) error {
	subject, htmlBody, textBody, err := s.renderer.Render(notificationTemplate, domain.NotificationData{
		Level:   level,
		Message: message,
		Details: details,
	})
	if err != nil {
		return fmt.Errorf("render notification email: %w", err)
	}
	input := &ses.SendEmailInput{
		Source:      aws.String(s.from),
		Destination: &types.Destination{ToAddresses: s.to},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Html: &types.Content{Data: aws.String(htmlBody), Charset: aws.String("UTF-8")},
				Text: &types.Content{Data: aws.String(textBody), Charset: aws.String("UTF-8")},
			},
		},
	}
	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send notification via SES: %w", err)
	}
	s.logger.DebugContext(ctx, "notification sent via SES", "message_id", aws.ToString(result.MessageId))
	return nil
}
