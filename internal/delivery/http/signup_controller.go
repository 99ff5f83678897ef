package http

import (
	"errors"
	"log/slog"
	"net/http"

	"crmsync/internal/domain"
)

// SignupController serves the single signup endpoint.
type SignupController struct {
	Logger  *slog.Logger
	Service domain.SignupService
}

// NewSignupController returns a controller for svc. A nil logger falls back to slog.Default.
func NewSignupController(svc domain.SignupService, logger *slog.Logger) *SignupController {
	if logger == nil {
		logger = slog.Default()
	}
	return &SignupController{Logger: logger, Service: svc}
}

// Signup godoc
// @Summary Record a newsletter or course signup in the CRM
// @Description Dispatches on the "method" parameter. add-to-newsletter creates or updates every contact
// @Description with the given email; add-to-course ensures a contact exists and registers it on the event
// @Description whose webpage matches eventSlug. Parameters may be sent as a JSON body, a form or a query string.
// @Tags signup
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Param method query string true "add-to-newsletter or add-to-course"
// @Param email query string true "Contact email"
// @Param location query string false "Signup form location (newsletter only)"
// @Param firstName query string false "First name"
// @Param lastName query string false "Last name"
// @Param eventSlug query string false "Event slug (course only)"
// @Success 200 {object} MessageResponse
// @Success 302 "Redirect to the Arlo site when location is arlo"
// @Failure 400 {object} ReasonResponse
// @Failure 404 {object} ReasonResponse
// @Failure 500 {object} ReasonResponse
// @Router / [post]
func (c *SignupController) Signup(w http.ResponseWriter, r *http.Request) {
	req, err := DecodeSignup(w, r)
	if err != nil {
		c.Logger.Warn("undecodable signup request", "path", r.URL.Path, "error", err)
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		WriteReason(w, status, "Request body could not be read")
		return
	}

	log := c.Logger
	if caller, ok := CallerFromContext(r.Context()); ok {
		log = log.With("caller", caller)
	}
	result := c.Service.Handle(r.Context(), req)
	if result.IsSuccess() {
		log.DebugContext(r.Context(), "signup accepted", "status", result.StatusCode)
	} else {
		log.InfoContext(r.Context(), "signup refused", "status", result.StatusCode)
	}
	WriteResult(w, result)
}

// Health godoc
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func Health(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
