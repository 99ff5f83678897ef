package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	h "crmsync/internal/delivery/http"
	"crmsync/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTokenVerifier implements domain.TokenVerifier for tests.
type fakeTokenVerifier struct {
	caller string
	err    error
}

func (f *fakeTokenVerifier) Verify(_ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.caller, nil
}

func TestRequireSignupToken(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	tests := []struct {
		name       string
		method     string
		authHeader string
		verifier   domain.TokenVerifier
		wantStatus int
		wantReason string
		nextCalled bool
		wantCaller string
	}{
		{
			name:       "valid token sets context and calls next",
			authHeader: "Bearer valid-token",
			verifier:   &fakeTokenVerifier{caller: "website-forms"},
			wantStatus: http.StatusOK,
			nextCalled: true,
			wantCaller: "website-forms",
		},
		{
			name:       "missing authorization header",
			verifier:   &fakeTokenVerifier{caller: "website-forms"},
			wantStatus: http.StatusUnauthorized,
			wantReason: "missing authorization header",
		},
		{
			name:       "invalid authorization format no Bearer prefix",
			authHeader: "Basic abc",
			verifier:   &fakeTokenVerifier{caller: "website-forms"},
			wantStatus: http.StatusUnauthorized,
			wantReason: "invalid authorization format",
		},
		{
			name:       "empty token after Bearer",
			authHeader: "Bearer ",
			verifier:   &fakeTokenVerifier{caller: "website-forms"},
			wantStatus: http.StatusUnauthorized,
			wantReason: "missing token",
		},
		{
			name:       "verifier returns error",
			authHeader: "Bearer bad-token",
			verifier:   &fakeTokenVerifier{err: errors.New("token is expired")},
			wantStatus: http.StatusUnauthorized,
			wantReason: "invalid or expired token",
		},
		{
			name:       "preflight passes without token",
			method:     http.MethodOptions,
			verifier:   &fakeTokenVerifier{err: errors.New("never called")},
			wantStatus: http.StatusOK,
			nextCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			var capturedCaller string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				if caller, ok := h.CallerFromContext(r.Context()); ok {
					capturedCaller = caller
				}
				w.WriteHeader(http.StatusOK)
			})
			handler := RequireSignupToken(tt.verifier, logger)(next)

			method := tt.method
			if method == "" {
				method = http.MethodPost
			}
			req := httptest.NewRequest(method, "http://test/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			handler(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			assert.Equal(t, tt.nextCalled, nextCalled, "next handler called")
			assert.Equal(t, tt.wantCaller, capturedCaller, "caller in context")
			if tt.wantReason != "" {
				var body h.ReasonResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
				assert.Equal(t, tt.wantReason, body.Reason)
			}
		})
	}
}
