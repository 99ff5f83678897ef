package domain

import (
	"context"
	"net/http"
)

// SignupMethod selects which reconciliation flow handles a request.
type SignupMethod string

const (
	MethodAddToNewsletter SignupMethod = "add-to-newsletter"
	MethodAddToCourse     SignupMethod = "add-to-course"
)

// AllowedMethods lists the recognised signup methods.
var AllowedMethods = []SignupMethod{MethodAddToNewsletter, MethodAddToCourse}

// Parameter names read from a raw request.
const (
	ParamMethod    = "method"
	ParamEmail     = "email"
	ParamLocation  = "location"
	ParamFirstName = "firstName"
	ParamLastName  = "lastName"
	ParamEventSlug = "eventSlug"
	ParamTags      = "tags"
)

// RawRequest is an untrusted signup as received by a transport adapter.
// HTTPMethod and Path describe the transport; Params holds the flat business fields.
type RawRequest struct {
	HTTPMethod string
	Path       string
	Params     map[string]any
}

// Details extracts the string-valued signup fields for notification context.
func (r RawRequest) Details() SignupDetails {
	str := func(key string) string {
		s, _ := r.Params[key].(string)
		return s
	}
	return SignupDetails{
		Method:    str(ParamMethod),
		Email:     str(ParamEmail),
		Location:  str(ParamLocation),
		FirstName: str(ParamFirstName),
		LastName:  str(ParamLastName),
		EventSlug: str(ParamEventSlug),
	}
}

// RequestValidation is the outcome of transport-level validation.
type RequestValidation struct {
	Valid  bool
	Reason string
	Method SignupMethod
}

// NewsletterInput is a validated newsletter signup. Empty strings mean "not supplied";
// a nil Tags means no tags were supplied, an empty non-nil slice means an empty list was.
type NewsletterInput struct {
	Email     string
	Location  string
	FirstName string
	LastName  string
	Tags      []Tag
}

// CourseInput is a validated course signup.
type CourseInput struct {
	Email     string
	EventSlug string
	FirstName string
	LastName  string
}

// NewsletterOutcome describes what a newsletter signup did to the CRM.
// On failure it still lists the per-contact results reached before the abort.
type NewsletterOutcome struct {
	Created *Contact
	Updates []ContactUpdateResult
}

// AppliedContactIDs returns the IDs of contacts whose update was committed.
func (o *NewsletterOutcome) AppliedContactIDs() []string {
	if o == nil {
		return nil
	}
	var ids []string
	for _, u := range o.Updates {
		if u.Applied() {
			ids = append(ids, u.ContactID)
		}
	}
	return ids
}

// CourseOutcome describes the attendance created by a course signup.
type CourseOutcome struct {
	Contact        Contact
	ContactCreated bool
	Event          SugarEvent
	Attendance     EventAttendance
}

// Result is the uniform response of a signup.
type Result struct {
	StatusCode int
	Body       string
	Headers    map[string]string
}

// IsSuccess reports whether the result is a 2xx or the arlo redirect.
func (r Result) IsSuccess() bool {
	return r.StatusCode == http.StatusFound || (r.StatusCode >= 200 && r.StatusCode < 300)
}

// SignupService runs a raw signup through validation and reconciliation.
type SignupService interface {
	Handle(ctx context.Context, req RawRequest) Result
	AddToNewsletter(ctx context.Context, in NewsletterInput) (*NewsletterOutcome, error)
	AddToCourse(ctx context.Context, in CourseInput) (*CourseOutcome, error)
}

// TokenVerifier verifies a bearer token on an inbound signup and returns its subject.
type TokenVerifier interface {
	Verify(token string) (subject string, err error)
}
