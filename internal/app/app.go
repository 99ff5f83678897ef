// Package app wires configuration into the signup service and its adapters.
// Both entrypoints build their service here.
package app

import (
	"log/slog"
	"net/http"

	"crmsync/config"
	"crmsync/internal/adapters/notify"
	"crmsync/internal/adapters/sugarcrm"
	"crmsync/internal/domain"
	"crmsync/internal/services"
)

// NewSignupService builds the CRM gateway, the notifier and the service on top of them.
// httpClient may be nil, in which case the gateway makes its own with cfg.CRMTimeout.
func NewSignupService(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) (domain.SignupService, error) {
	gateway := sugarcrm.NewClient(sugarcrm.Config{
		BaseURL:  cfg.CRMBaseURL,
		Username: cfg.CRMUsername,
		Password: cfg.CRMPassword,
		ClientID: cfg.CRMClientID,
		Platform: cfg.CRMPlatform,
		Timeout:  cfg.CRMTimeout,
	}, httpClient, logger)

	notifier, err := notify.NewNotifier(NotifierConfig(cfg), logger)
	if err != nil {
		return nil, err
	}

	return services.NewSignupService(gateway, notifier, logger.With("component", "signup"),
		services.WithArloRedirectURL(cfg.ArloRedirectURL),
		services.WithNotifyTimeout(cfg.NotifyTimeout),
	), nil
}

// NotifierConfig maps the flat environment config onto the notifier's.
func NotifierConfig(cfg *config.Config) notify.Config {
	return notify.Config{
		Provider:    cfg.Notifier,
		SendSuccess: cfg.SendSuccess,
		Timeout:     cfg.NotifyTimeout,
		Slack: notify.SlackConfig{
			Token:   cfg.SlackToken,
			Channel: cfg.SlackChannel,
			Mention: cfg.SlackMention,
		},
		SES: notify.SESConfig{
			Region:             cfg.SESRegion,
			AccessKeyID:        cfg.SESAccessKeyID,
			SecretAccessKey:    cfg.SESSecretAccessKey,
			InsecureSkipVerify: cfg.SESInsecureSkipVerify,
			FromAddress:        cfg.NotifyEmailFrom,
			FromName:           cfg.NotifyEmailFromName,
			To:                 cfg.NotifyEmailTo,
		},
	}
}
