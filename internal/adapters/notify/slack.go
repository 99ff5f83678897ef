package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/slack-go/slack"

	"crmsync/internal/domain"
)

// SlackConfig configures the Slack notifier.
type SlackConfig struct {
	Token   string
	Channel string
	// Mention is a Slack user ID prefixed to every message.
	Mention string
	// APIURL overrides the Slack Web API root (tests).
	APIURL string
}

type slackNotifier struct {
	client      *slack.Client
	channel     string
	mention     string
	sendSuccess bool
	renderer    domain.NotificationTemplateRenderer
	logger      *slog.Logger
}

func newSlackNotifier(cfg SlackConfig, timeout time.Duration, sendSuccess bool, renderer domain.NotificationTemplateRenderer, logger *slog.Logger) *slackNotifier {
	opts := []slack.Option{slack.OptionHTTPClient(&http.Client{Timeout: timeout})}
	if cfg.APIURL != "" {
		opts = append(opts, slack.OptionAPIURL(cfg.APIURL))
	}
	return &slackNotifier{
		client:      slack.New(cfg.Token, opts...),
		channel:     cfg.Channel,
		mention:     cfg.Mention,
		sendSuccess: sendSuccess,
		renderer:    renderer,
		logger:      logger,
	}
}

func (s *slackNotifier) ReportError(ctx context.Context, message string, details domain.SignupDetails) error {
	return s.post(ctx, levelError, message, details)
}

func (s *slackNotifier) ReportSuccess(ctx context.Context, message string, details domain.SignupDetails) error {
	if !s.sendSuccess {
		s.logger.InfoContext(ctx, "success notification suppressed", "message", message)
		return nil
	}
	return s.post(ctx, levelSuccess, message, details)
}

func (s *slackNotifier) post(ctx context.Context, level, message string, details domain.SignupDetails) error {
	_, _, text, err := s.renderer.Render(notificationTemplate, domain.NotificationData{
		Level:   level,
		Message: message,
		Mention: s.mention,
		Details: details,
	})
	if err != nil {
		return fmt.Errorf("render slack message: %w", err)
	}
	_, ts, err := s.client.PostMessageContext(ctx, s.channel, slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("post slack message: %w", err)
	}
	s.logger.DebugContext(ctx, "sent slack message", "channel", s.channel, "ts", ts)
	return nil
}
