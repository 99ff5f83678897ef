package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmsync/internal/domain"
)

// stuckNotifier never returns until released, whatever its context says.
type stuckNotifier struct {
	started chan struct{}
	release chan struct{}
}

func newStuckNotifier(t *testing.T) *stuckNotifier {
	n := &stuckNotifier{started: make(chan struct{}, 2), release: make(chan struct{})}
	t.Cleanup(func() { close(n.release) })
	return n
}

func (n *stuckNotifier) ReportError(ctx context.Context, message string, details domain.SignupDetails) error {
	n.started <- struct{}{}
	<-n.release
	return nil
}

func (n *stuckNotifier) ReportSuccess(ctx context.Context, message string, details domain.SignupDetails) error {
	n.started <- struct{}{}
	<-n.release
	return nil
}

// ctxNotifier blocks until its context is done and reports the deadline it saw.
type ctxNotifier struct {
	deadlines chan bool
}

func (n *ctxNotifier) ReportError(ctx context.Context, message string, details domain.SignupDetails) error {
	_, ok := ctx.Deadline()
	n.deadlines <- ok
	<-ctx.Done()
	return ctx.Err()
}

func (n *ctxNotifier) ReportSuccess(ctx context.Context, message string, details domain.SignupDetails) error {
	return n.ReportError(ctx, message, details)
}

func TestHandle_StuckNotifierDoesNotHoldResult(t *testing.T) {
	tests := []struct {
		name       string
		gw         *fakeGateway
		wantStatus int
	}{
		{"failure notification", &fakeGateway{authErr: errors.New("invalid_grant")}, http.StatusInternalServerError},
		{"success notification", &fakeGateway{}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := newStuckNotifier(t)
			svc := NewSignupService(tt.gw, n, discardLogger(), WithNotifyTimeout(50*time.Millisecond))

			start := time.Now()
			res := svc.Handle(context.Background(), post(map[string]any{"method": "add-to-newsletter", "email": "a@b.com"}))
			elapsed := time.Since(start)

			assert.Equal(t, tt.wantStatus, res.StatusCode)
			assert.Less(t, elapsed, time.Second)
			select {
			case <-n.started:
			case <-time.After(time.Second):
				t.Fatal("notifier was not called")
			}
		})
	}
}

func TestHandle_NotifierGetsOwnDeadline(t *testing.T) {
	n := &ctxNotifier{deadlines: make(chan bool, 1)}
	svc := NewSignupService(&fakeGateway{authErr: errors.New("invalid_grant")}, n, discardLogger(), WithNotifyTimeout(20*time.Millisecond))

	// Even an already cancelled request still gets its failure reported within the bound.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	res := svc.Handle(ctx, post(map[string]any{"method": "add-to-newsletter", "email": "a@b.com"}))

	require.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.True(t, <-n.deadlines)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	assert.Less(t, time.Since(start), time.Second)
}

func TestWithNotifyTimeout(t *testing.T) {
	svc := NewSignupService(&fakeGateway{}, nil, discardLogger()).(*signupService)
	assert.Equal(t, DefaultNotifyTimeout, svc.notifyTimeout)

	svc = NewSignupService(&fakeGateway{}, nil, discardLogger(), WithNotifyTimeout(0)).(*signupService)
	assert.Equal(t, DefaultNotifyTimeout, svc.notifyTimeout)

	svc = NewSignupService(&fakeGateway{}, nil, discardLogger(), WithNotifyTimeout(time.Second)).(*signupService)
	assert.Equal(t, time.Second, svc.notifyTimeout)
}
