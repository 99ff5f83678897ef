package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"crmsync/internal/domain"
)

// Providers accepted by NewNotifier.
const (
	ProviderSlack = "slack"
	ProviderSES   = "ses"
	ProviderLog   = "log"
)

// DefaultTimeout is the HTTP client timeout of the Slack and SES sinks.
const DefaultTimeout = 5 * time.Second

const (
	notificationTemplate = "notification"
	levelError           = "ERROR"
	levelSuccess         = "SUCCESS"
)

// Config selects and configures the notification sink.
type Config struct {
	Provider    string
	SendSuccess bool
	// Timeout bounds each call to Slack or SES; zero means DefaultTimeout.
	Timeout time.Duration
	Slack   SlackConfig
	SES     SESConfig
}

// NewNotifier builds the notifier for cfg.Provider. A provider without the credentials it
// needs, or an unknown provider, degrades to the log-only notifier.
func NewNotifier(cfg Config, logger *slog.Logger) (domain.Notifier, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "notifier")
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	switch cfg.Provider {
	case ProviderSlack:
		if cfg.Slack.Token == "" || cfg.Slack.Channel == "" {
			logger.Warn("slack token or channel not set, notifications will only be logged")
			return NewLogNotifier(logger, cfg.SendSuccess), nil
		}
		renderer, err := NewTemplateRenderer()
		if err != nil {
			return nil, err
		}
		return newSlackNotifier(cfg.Slack, timeout, cfg.SendSuccess, renderer, logger), nil
	case ProviderSES:
		if cfg.SES.Region == "" || cfg.SES.FromAddress == "" || len(cfg.SES.To) == 0 {
			logger.Warn("ses region, sender or recipients not set, notifications will only be logged")
			return NewLogNotifier(logger, cfg.SendSuccess), nil
		}
		if cfg.SES.InsecureSkipVerify {
			logger.Warn("TLS certificate verification is disabled for SES. Use only in development.")
		}
		renderer, err := NewTemplateRenderer()
		if err != nil {
			return nil, err
		}
		return newSESNotifier(newSESClient(cfg.SES, timeout), cfg.SES, cfg.SendSuccess, renderer, logger), nil
	case ProviderLog, "":
		return NewLogNotifier(logger, cfg.SendSuccess), nil
	default:
		logger.Warn(fmt.Sprintf("unknown notifier provider %q, using log", cfg.Provider))
		return NewLogNotifier(logger, cfg.SendSuccess), nil
	}
}

type logNotifier struct {
	logger      *slog.Logger
	sendSuccess bool
}

// NewLogNotifier returns a notifier that only writes to the logger.
func NewLogNotifier(logger *slog.Logger, sendSuccess bool) domain.Notifier {
	return &logNotifier{logger: logger, sendSuccess: sendSuccess}
}

func (n *logNotifier) ReportError(ctx context.Context, message string, details domain.SignupDetails) error {
	n.logger.ErrorContext(ctx, "NOT CONNECTED TO NOTIFIER (ERR): "+message, detailAttrs(details)...)
	return nil
}

func (n *logNotifier) ReportSuccess(ctx context.Context, message string, details domain.SignupDetails) error {
	if !n.sendSuccess {
		return nil
	}
	n.logger.InfoContext(ctx, "NOT CONNECTED TO NOTIFIER (SUC): "+message, detailAttrs(details)...)
	return nil
}

func detailAttrs(d domain.SignupDetails) []any {
	return []any{
		slog.Group("signup",
			"method", d.Method,
			"email", d.Email,
			"location", d.Location,
			"firstName", d.FirstName,
			"lastName", d.LastName,
			"eventSlug", d.EventSlug,
		),
	}
}
