package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"crmsync/internal/domain"
)

// fakeGateway is an in-memory CRMGateway that records every call.
type fakeGateway struct {
	calls []string

	authErr        error
	contacts       []domain.Contact
	contactsErr    error
	events         []domain.SugarEvent
	eventsErr      error
	attendances    []domain.EventAttendance
	attendancesErr error
	createErr      error
	// updateErrFor fails UpdateContact for the given contact ID.
	updateErrFor      map[string]error
	createAttendErr   error
	created           []domain.NewContact
	updated           []domain.UpdateContact
	attendanceCreates []string
}

func (f *fakeGateway) Authenticate(ctx context.Context) (domain.CRMSession, error) {
	f.calls = append(f.calls, "Authenticate")
	if f.authErr != nil {
		return domain.CRMSession{}, f.authErr
	}
	return domain.NewCRMSession("token"), nil
}

func (f *fakeGateway) GetContactsByEmail(ctx context.Context, session domain.CRMSession, email string) ([]domain.Contact, error) {
	f.calls = append(f.calls, "GetContactsByEmail")
	if !session.Valid() {
		return nil, errors.New("no session")
	}
	if f.contactsErr != nil {
		return nil, f.contactsErr
	}
	return f.contacts, nil
}

func (f *fakeGateway) CreateNewContact(ctx context.Context, session domain.CRMSession, c domain.NewContact) (*domain.Contact, error) {
	f.calls = append(f.calls, "CreateNewContact")
	f.created = append(f.created, c)
	if f.createErr != nil {
		return nil, f.createErr
	}
	out := &domain.Contact{
		ID:                 fmt.Sprintf("c-%d", len(f.created)),
		Email:              c.Email,
		FirstName:          c.FirstName,
		LastName:           c.LastName,
		ReceivesNewsletter: c.ReceivesNewsletter,
		Tags:               c.Tags,
	}
	if c.Location != nil {
		out.Location = *c.Location
	}
	return out, nil
}

func (f *fakeGateway) UpdateContact(ctx context.Context, session domain.CRMSession, u domain.UpdateContact) error {
	f.calls = append(f.calls, "UpdateContact")
	f.updated = append(f.updated, u)
	if err, ok := f.updateErrFor[u.ID]; ok {
		return err
	}
	return nil
}

func (f *fakeGateway) GetAllEvents(ctx context.Context, session domain.CRMSession) ([]domain.SugarEvent, error) {
	f.calls = append(f.calls, "GetAllEvents")
	if f.eventsErr != nil {
		return nil, f.eventsErr
	}
	return f.events, nil
}

func (f *fakeGateway) GetEventAttendances(ctx context.Context, session domain.CRMSession, contact domain.Contact, event domain.SugarEvent) ([]domain.EventAttendance, error) {
	f.calls = append(f.calls, "GetEventAttendances")
	if f.attendancesErr != nil {
		return nil, f.attendancesErr
	}
	return f.attendances, nil
}

func (f *fakeGateway) CreateEventAttendance(ctx context.Context, session domain.CRMSession, event domain.SugarEvent, contact domain.Contact) (*domain.EventAttendance, error) {
	f.calls = append(f.calls, "CreateEventAttendance")
	if f.createAttendErr != nil {
		return nil, f.createAttendErr
	}
	name := domain.AttendanceName(contact, event)
	f.attendanceCreates = append(f.attendanceCreates, name)
	return &domain.EventAttendance{ID: "ea-1", Name: name}, nil
}

func (f *fakeGateway) count(op string) int {
	n := 0
	for _, c := range f.calls {
		if c == op {
			n++
		}
	}
	return n
}

// fakeNotifier records notifications and can be made to fail.
type fakeNotifier struct {
	errors    []string
	successes []string
	details   []domain.SignupDetails
	err       error
}

func (n *fakeNotifier) ReportError(ctx context.Context, message string, details domain.SignupDetails) error {
	n.errors = append(n.errors, message)
	n.details = append(n.details, details)
	return n.err
}

func (n *fakeNotifier) ReportSuccess(ctx context.Context, message string, details domain.SignupDetails) error {
	n.successes = append(n.successes, message)
	n.details = append(n.details, details)
	return n.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestService(gw *fakeGateway, n *fakeNotifier) *signupService {
	return NewSignupService(gw, n, discardLogger()).(*signupService)
}

func post(params map[string]any) domain.RawRequest {
	return domain.RawRequest{HTTPMethod: "POST", Path: "/", Params: params}
}
