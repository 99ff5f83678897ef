package domain

import "context"

// CRMSession is the authenticated session returned by CRMGateway.Authenticate.
// It is scoped to a single signup and must not be shared across requests.
type CRMSession struct {
	accessToken string
}

// NewCRMSession wraps an access token issued by the CRM.
func NewCRMSession(accessToken string) CRMSession {
	return CRMSession{accessToken: accessToken}
}

// AccessToken returns the bearer token for the session.
func (s CRMSession) AccessToken() string { return s.accessToken }

// Valid reports whether the session carries a token.
func (s CRMSession) Valid() bool { return s.accessToken != "" }

// CRMGateway is the transport to the CRM. Every call after Authenticate takes the session it returned.
type CRMGateway interface {
	Authenticate(ctx context.Context) (CRMSession, error)
	GetContactsByEmail(ctx context.Context, session CRMSession, email string) ([]Contact, error)
	CreateNewContact(ctx context.Context, session CRMSession, contact NewContact) (*Contact, error)
	UpdateContact(ctx context.Context, session CRMSession, update UpdateContact) error
	GetAllEvents(ctx context.Context, session CRMSession) ([]SugarEvent, error)
	GetEventAttendances(ctx context.Context, session CRMSession, contact Contact, event SugarEvent) ([]EventAttendance, error)
	CreateEventAttendance(ctx context.Context, session CRMSession, event SugarEvent, contact Contact) (*EventAttendance, error)
}
