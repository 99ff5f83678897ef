package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmsync/internal/domain"
)

// fakeSignupService records the RawRequest it was handed and returns a canned Result.
type fakeSignupService struct {
	got    domain.RawRequest
	calls  int
	result domain.Result
}

func (f *fakeSignupService) Handle(_ context.Context, req domain.RawRequest) domain.Result {
	f.calls++
	f.got = req
	return f.result
}

func (f *fakeSignupService) AddToNewsletter(context.Context, domain.NewsletterInput) (*domain.NewsletterOutcome, error) {
	return nil, nil
}

func (f *fakeSignupService) AddToCourse(context.Context, domain.CourseInput) (*domain.CourseOutcome, error) {
	return nil, nil
}

func newTestRouter(svc domain.SignupService) *http.ServeMux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(NewSignupController(svc, logger), nil)
}

func TestSignup_DecodesJSONBody(t *testing.T) {
	svc := &fakeSignupService{result: domain.Result{StatusCode: http.StatusOK, Body: `{"message":"Create a new contact for email."}`}}
	router := newTestRouter(svc)

	body := `{"method":"add-to-newsletter","email":"a@b.com","tags":[{"name":"aac"}]}`
	req := httptest.NewRequest(http.MethodPost, "/?location=shop", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var resp MessageResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "Create a new contact for email.", resp.Message)

	assert.Equal(t, http.MethodPost, svc.got.HTTPMethod)
	assert.Equal(t, "/", svc.got.Path)
	assert.Equal(t, "add-to-newsletter", svc.got.Params[domain.ParamMethod])
	assert.Equal(t, "a@b.com", svc.got.Params[domain.ParamEmail])
	assert.Equal(t, "shop", svc.got.Params[domain.ParamLocation], "query params are merged")
	assert.Len(t, svc.got.Params[domain.ParamTags], 1)
}

func TestSignup_DecodesFormBody(t *testing.T) {
	svc := &fakeSignupService{result: domain.Result{StatusCode: http.StatusOK, Body: `{"message":"ok"}`}}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/?email=query@b.com", strings.NewReader("method=add-to-course&email=form@b.com&eventSlug=intro"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "form@b.com", svc.got.Params[domain.ParamEmail], "body overrides query")
	assert.Equal(t, "intro", svc.got.Params[domain.ParamEventSlug])
}

func TestSignup_DecodesMultipartBody(t *testing.T) {
	svc := &fakeSignupService{result: domain.Result{StatusCode: http.StatusOK, Body: `{"message":"ok"}`}}
	router := newTestRouter(svc)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("method", "add-to-newsletter"))
	require.NoError(t, mw.WriteField("email", "a@b.com"))
	require.NoError(t, mw.WriteField("location", "Shop Page"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, 1, svc.calls)
	assert.Equal(t, map[string]any{
		"method":   "add-to-newsletter",
		"email":    "a@b.com",
		"location": "Shop Page",
	}, svc.got.Params)
}

func TestSignup_Redirect(t *testing.T) {
	svc := &fakeSignupService{result: domain.Result{
		StatusCode: http.StatusFound,
		Headers:    map[string]string{"Location": "https://acecentre.arlo.co"},
	}}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"method":"add-to-newsletter","email":"a@b.com","location":"arlo"}`))
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "https://acecentre.arlo.co", rr.Header().Get("Location"))
	assert.Empty(t, rr.Body.String())
}

func TestSignup_OtherPathsReachService(t *testing.T) {
	svc := &fakeSignupService{result: domain.Result{StatusCode: http.StatusNotFound, Body: `{"reason":"Not a valid request"}`}}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/something", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, 1, svc.calls)
	assert.Equal(t, http.MethodGet, svc.got.HTTPMethod)
	assert.Equal(t, "/something", svc.got.Path)
	assert.Empty(t, svc.got.Params)
}

func TestSignup_MalformedBody(t *testing.T) {
	svc := &fakeSignupService{}
	router := newTestRouter(svc)

	tests := []struct {
		name string
		body string
	}{
		{"broken json", `{"method":`},
		{"json array", `[1,2]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			require.Equal(t, http.StatusBadRequest, rr.Code)
			var resp ReasonResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			assert.NotEmpty(t, resp.Reason)
		})
	}
	assert.Zero(t, svc.calls)
}

func TestSignup_BodyTooLarge(t *testing.T) {
	svc := &fakeSignupService{}
	router := newTestRouter(svc)

	big := `{"email":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	assert.Zero(t, svc.calls)
}

func TestHealth(t *testing.T) {
	svc := &fakeSignupService{}
	router := newTestRouter(svc)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	assert.Zero(t, svc.calls)
}

func TestSignup_LogsCallerAndOutcome(t *testing.T) {
	tests := []struct {
		name    string
		result  domain.Result
		caller  string
		wantMsg string
	}{
		{"refused with caller", domain.Result{StatusCode: http.StatusBadRequest, Body: `{"reason":"No email provided"}`}, "website-forms", "signup refused"},
		{"accepted redirect", domain.Result{StatusCode: http.StatusFound, Headers: map[string]string{"Location": "https://acecentre.arlo.co"}}, "arlo", "signup accepted"},
		{"no caller", domain.Result{StatusCode: http.StatusOK, Body: `{"message":"ok"}`}, "", "signup accepted"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
			router := NewRouter(NewSignupController(&fakeSignupService{result: tt.result}, logger), nil)

			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"method":"add-to-course"}`))
			if tt.caller != "" {
				req = req.WithContext(WithCaller(req.Context(), tt.caller))
			}
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			require.Equal(t, tt.result.StatusCode, rr.Code)
			var entry map[string]any
			require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
			assert.Equal(t, tt.wantMsg, entry["msg"])
			assert.Equal(t, float64(tt.result.StatusCode), entry["status"])
			if tt.caller != "" {
				assert.Equal(t, tt.caller, entry["caller"])
			} else {
				assert.NotContains(t, entry, "caller")
			}
		})
	}
}
