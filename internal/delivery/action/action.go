// Package action adapts the signup service to a serverless web-action runtime:
// parameters arrive as one flat map with the request line under "__ow_" keys,
// and the response goes back as a {statusCode, headers, body} map.
package action

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"crmsync/internal/domain"
)

const (
	keyMethod  = "__ow_method"
	keyPath    = "__ow_path"
	keyHeaders = "__ow_headers"
	owPrefix   = "__ow_"
)

// Response is the web-action result shape.
type Response struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers,omitempty"`
	Body       any               `json:"body,omitempty"`
}

// Handler turns action invocations into signup requests.
type Handler struct {
	Service domain.SignupService
	Logger  *slog.Logger
}

// NewHandler returns an action Handler for svc. A nil logger falls back to slog.Default.
func NewHandler(svc domain.SignupService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{Service: svc, Logger: logger}
}

// Invoke runs one action activation. Runtime keys are stripped from the parameters;
// a missing __ow_method or __ow_path is passed through empty so the request validator rejects it.
func (h *Handler) Invoke(ctx context.Context, params map[string]any) Response {
	req := ToRawRequest(params)
	result := h.Service.Handle(ctx, req)
	level := slog.LevelDebug
	if !result.IsSuccess() {
		level = slog.LevelInfo
	}
	h.Logger.Log(ctx, level, "action completed", "method", req.HTTPMethod, "path", req.Path, "status", result.StatusCode)
	return FromResult(result)
}

// ToRawRequest splits the runtime's request line from the user parameters.
func ToRawRequest(params map[string]any) domain.RawRequest {
	req := domain.RawRequest{Params: make(map[string]any, len(params))}
	for k, v := range params {
		switch k {
		case keyMethod:
			req.HTTPMethod, _ = v.(string)
		case keyPath:
			req.Path, _ = v.(string)
		default:
			if strings.HasPrefix(k, owPrefix) {
				continue
			}
			req.Params[k] = v
		}
	}
	return req
}

// FromResult maps a Result into a web-action response. JSON bodies are
// embedded as objects so the runtime serialises them once.
func FromResult(result domain.Result) Response {
	resp := Response{StatusCode: result.StatusCode}
	if len(result.Headers) > 0 {
		resp.Headers = make(map[string]string, len(result.Headers)+1)
		for k, v := range result.Headers {
			resp.Headers[k] = v
		}
	}
	if result.Body == "" {
		return resp
	}
	if resp.Headers == nil {
		resp.Headers = make(map[string]string, 1)
	}
	resp.Headers["Content-Type"] = "application/json"
	var body map[string]any
	if err := json.Unmarshal([]byte(result.Body), &body); err != nil {
		resp.Body = result.Body
		return resp
	}
	resp.Body = body
	return resp
}
