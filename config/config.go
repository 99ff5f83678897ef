package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Environment string
	LogLevel    string
	Port        string

	CRMBaseURL  string
	CRMUsername string
	CRMPassword string
	CRMClientID string
	CRMPlatform string
	CRMTimeout  time.Duration

	Notifier      string
	SendSuccess   bool
	NotifyTimeout time.Duration
	SlackToken    string
	SlackChannel  string
	SlackMention  string

	SESRegion             string
	SESAccessKeyID        string
	SESSecretAccessKey    string
	SESInsecureSkipVerify bool
	NotifyEmailFrom       string
	NotifyEmailFromName   string
	NotifyEmailTo         []string

	ArloRedirectURL string
	AllowedOrigins  []string
	SignupJWTSecret string
}

// Load loads configuration from environment variables
// It attempts to load from .env file if not in production
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// In production there is usually no .env and the process environment is used as is.
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
		}
	}

	cfg := &Config{
		Environment: env,
		LogLevel:    getenv("LOG_LEVEL", "info"),
		Port:        getenv("PORT", "8080"),

		CRMBaseURL:  getenv("CRM_BASE_URL", "https://ace.acrm.accessacloud.com/rest/v10"),
		CRMUsername: os.Getenv("CRM_USERNAME"),
		CRMPassword: os.Getenv("CRM_PASSWORD"),
		CRMClientID: getenv("CRM_CLIENT_ID", "sugar"),
		CRMPlatform: getenv("CRM_PLATFORM", "custom-crm-connector"),

		Notifier:     getenv("NOTIFIER", "slack"),
		SlackToken:   os.Getenv("SLACK_TOKEN"),
		SlackChannel: os.Getenv("SLACK_CHANNEL"),
		SlackMention: os.Getenv("SLACK_MENTION"),

		SESRegion:           os.Getenv("SES_REGION"),
		SESAccessKeyID:      os.Getenv("SES_ACCESS_KEY_ID"),
		SESSecretAccessKey:  os.Getenv("SES_SECRET_ACCESS_KEY"),
		NotifyEmailFrom:     os.Getenv("NOTIFY_EMAIL_FROM"),
		NotifyEmailFromName: getenv("NOTIFY_EMAIL_FROM_NAME", "CRM Sync"),
		NotifyEmailTo:       splitList(os.Getenv("NOTIFY_EMAIL_TO")),

		ArloRedirectURL: getenv("ARLO_REDIRECT_URL", "https://acecentre.arlo.co"),
		AllowedOrigins:  splitList(os.Getenv("ALLOWED_ORIGINS")),
		SignupJWTSecret: os.Getenv("SIGNUP_JWT_SECRET"),
	}

	seconds, err := strconv.Atoi(getenv("CRM_TIMEOUT_SECONDS", "30"))
	if err != nil || seconds <= 0 {
		return nil, fmt.Errorf("CRM_TIMEOUT_SECONDS must be a positive integer, got %q", os.Getenv("CRM_TIMEOUT_SECONDS"))
	}
	cfg.CRMTimeout = time.Duration(seconds) * time.Second

	seconds, err = strconv.Atoi(getenv("NOTIFY_TIMEOUT_SECONDS", "5"))
	if err != nil || seconds <= 0 {
		return nil, fmt.Errorf("NOTIFY_TIMEOUT_SECONDS must be a positive integer, got %q", os.Getenv("NOTIFY_TIMEOUT_SECONDS"))
	}
	cfg.NotifyTimeout = time.Duration(seconds) * time.Second

	if cfg.SendSuccess, err = parseBool("SEND_SUCCESS"); err != nil {
		return nil, err
	}
	if cfg.SESInsecureSkipVerify, err = parseBool("SES_INSECURE_SKIP_VERIFY"); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parseBool(key string) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean, got %q", key, v)
	}
	return b, nil
}

// splitList splits a comma-separated variable, dropping blanks.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
