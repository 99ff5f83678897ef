package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"crmsync/internal/domain"
)

// DefaultArloRedirectURL is where newsletter signups from the arlo location are sent.
const DefaultArloRedirectURL = "https://acecentre.arlo.co"

// DefaultNotifyTimeout bounds how long a signup waits on the notifier.
const DefaultNotifyTimeout = 5 * time.Second

// arloLocation is the raw location value that turns a newsletter signup into a redirect.
const arloLocation = "arlo"

type signupService struct {
	gateway       domain.CRMGateway
	notifier      domain.Notifier
	logger        *slog.Logger
	arloURL       string
	notifyTimeout time.Duration
}

// SignupOption customises a SignupService.
type SignupOption func(*signupService)

// WithArloRedirectURL overrides the redirect target for the arlo location.
func WithArloRedirectURL(url string) SignupOption {
	return func(s *signupService) {
		if url != "" {
			s.arloURL = url
		}
	}
}

// WithNotifyTimeout overrides how long Handle waits for a notification to be delivered.
func WithNotifyTimeout(d time.Duration) SignupOption {
	return func(s *signupService) {
		if d > 0 {
			s.notifyTimeout = d
		}
	}
}

// NewSignupService returns a SignupService backed by the given CRM gateway and notifier.
// A nil notifier falls back to logging only.
func NewSignupService(gateway domain.CRMGateway, notifier domain.Notifier, logger *slog.Logger, opts ...SignupOption) domain.SignupService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &signupService{
		gateway:       gateway,
		notifier:      notifier,
		logger:        logger,
		arloURL:       DefaultArloRedirectURL,
		notifyTimeout: DefaultNotifyTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handle validates a raw signup, dispatches it to the matching flow and shapes the result.
// Every non-validation failure is reported to the notifier exactly once.
func (s *signupService) Handle(ctx context.Context, req domain.RawRequest) domain.Result {
	validation := ValidateRequest(req)
	if !validation.Valid {
		return failureResult(domain.NewRequestRejectedError(validation.Reason))
	}

	details := req.Details()
	details.Method = string(validation.Method)
	log := s.logger.With("method", validation.Method, "email", details.Email)

	var (
		result domain.Result
		err    error
	)
	switch validation.Method {
	case domain.MethodAddToNewsletter:
		result, err = s.handleNewsletter(ctx, req.Params)
	case domain.MethodAddToCourse:
		result, err = s.handleCourse(ctx, req.Params)
	}

	if err != nil {
		var syncErr *domain.SyncError
		if !errors.As(err, &syncErr) {
			syncErr = &domain.SyncError{Kind: domain.ErrUpstream, Status: http.StatusInternalServerError, Reason: "Internal error", Err: err}
		}
		if syncErr.Notifiable() {
			log.ErrorContext(ctx, "signup failed", "status", syncErr.Status, "reason", syncErr.Reason, "err", syncErr.Err)
			s.reportError(ctx, log, syncErr.NotificationText(), details)
		} else {
			log.InfoContext(ctx, "signup rejected", "reason", syncErr.Reason)
		}
		return failureResult(syncErr)
	}

	log.InfoContext(ctx, "signup completed", "status", result.StatusCode)
	s.reportSuccess(ctx, log, successMessage(validation.Method, result), details)
	return result
}

func (s *signupService) handleNewsletter(ctx context.Context, params map[string]any) (domain.Result, error) {
	in, err := ParseNewsletterInput(params)
	if err != nil {
		return domain.Result{}, err
	}
	outcome, err := s.AddToNewsletter(ctx, in)
	if err != nil {
		return domain.Result{}, err
	}
	if in.Location == arloLocation {
		return redirectResult(s.arloURL), nil
	}
	if outcome.Created != nil {
		return successResult("Create a new contact for email."), nil
	}
	return successResult(fmt.Sprintf("Updated %d existing contact", len(outcome.Updates))), nil
}

func (s *signupService) handleCourse(ctx context.Context, params map[string]any) (domain.Result, error) {
	in, err := ParseCourseInput(params)
	if err != nil {
		return domain.Result{}, err
	}
	if _, err := s.AddToCourse(ctx, in); err != nil {
		return domain.Result{}, err
	}
	return successResult("Successfully created a new event attendance"), nil
}

func (s *signupService) reportError(ctx context.Context, log *slog.Logger, message string, details domain.SignupDetails) {
	if s.notifier == nil {
		log.WarnContext(ctx, "notification (not delivered)", "level", "error", "message", message)
		return
	}
	s.notify(ctx, log, func(ctx context.Context) error {
		return s.notifier.ReportError(ctx, message, details)
	})
}

func (s *signupService) reportSuccess(ctx context.Context, log *slog.Logger, message string, details domain.SignupDetails) {
	if s.notifier == nil {
		log.InfoContext(ctx, "notification (not delivered)", "level", "success", "message", message)
		return
	}
	s.notify(ctx, log, func(ctx context.Context) error {
		return s.notifier.ReportSuccess(ctx, message, details)
	})
}

// notify runs send with its own deadline, detached from the caller's cancellation,
// and waits at most notifyTimeout for it. A sink that ignores its context is left
// running; the signup result is returned regardless.
func (s *signupService) notify(ctx context.Context, log *slog.Logger, send func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- send(ctx)
	}()

	select {
	case err := <-done:
		if err != nil {
			log.WarnContext(ctx, "notification delivery failed", "err", fmt.Errorf("%w: %w", domain.ErrNotificationDelivery, err))
		}
	case <-ctx.Done():
		log.WarnContext(ctx, "notification delivery failed", "err", fmt.Errorf("%w: %w", domain.ErrNotificationDelivery, ctx.Err()))
	}
}
