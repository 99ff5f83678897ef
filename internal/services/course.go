package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"crmsync/internal/domain"
)

// AddToCourse links the email's contact to the one course event whose webpage contains the slug.
// It refuses to act when the slug or the email is ambiguous, and never creates a second
// attendance for the same contact and event.
func (s *signupService) AddToCourse(ctx context.Context, in domain.CourseInput) (*domain.CourseOutcome, error) {
	if in.Email == "" {
		return nil, domain.NewValidationError("No email provided")
	}
	if in.EventSlug == "" {
		return nil, domain.NewValidationError("No eventSlug provided")
	}

	session, err := s.gateway.Authenticate(ctx)
	if err != nil {
		return nil, domain.NewAuthenticationError("Failed to authenticate to SugarCRM.", err).
			WithNotice("An error occurred whilst authenticating to SugarCRM")
	}

	events, err := s.gateway.GetAllEvents(ctx, session)
	if err != nil {
		return nil, domain.NewUpstreamError("Failed to get a list of events", err).
			WithNotice("An error occurred whilst trying to get all events.")
	}

	matches := matchEvents(events, in.EventSlug)
	if len(matches) != 1 {
		return nil, domain.NewAmbiguityError(http.StatusNotFound,
			fmt.Sprintf("You gave an event slug that we couldn't find or found too many events for (%d)", len(matches)))
	}
	event := matches[0]

	existing, err := s.gateway.GetContactsByEmail(ctx, session, in.Email)
	if err != nil {
		return nil, domain.NewUpstreamError("Failed to get contacts by email.", err).
			WithNotice("An error occurred whilst trying to get contacts by email")
	}
	if len(existing) > 1 {
		return nil, domain.NewAmbiguityError(http.StatusInternalServerError,
			fmt.Sprintf("There are too many (%d) contacts for the email address: %s", len(existing), in.Email))
	}

	outcome := &domain.CourseOutcome{Event: event}
	if len(existing) == 1 {
		outcome.Contact = existing[0]
	} else {
		created, err := s.gateway.CreateNewContact(ctx, session, courseContact(in))
		if err != nil {
			return nil, domain.NewUpstreamError("Failed to create a new contact.", err).
				WithNotice(fmt.Sprintf("An error occurred whilst trying to create a new contact for: %s", in.Email))
		}
		s.logger.InfoContext(ctx, "created course contact", "contact_id", created.ID)
		outcome.Contact = *created
		outcome.ContactCreated = true
	}

	attendances, err := s.gateway.GetEventAttendances(ctx, session, outcome.Contact, event)
	if err != nil {
		return nil, domain.NewUpstreamError("Failed to get event attendances.", err).
			WithNotice("An error occurred whilst trying to get event attendances for the contact and course")
	}
	if len(attendances) != 0 {
		return nil, domain.NewConflictError("There should be no existing event attendances for the contact and course")
	}

	attendance, err := s.gateway.CreateEventAttendance(ctx, session, event, outcome.Contact)
	if err != nil {
		return nil, domain.NewUpstreamError("Failed to create event attendance", err)
	}
	s.logger.InfoContext(ctx, "created event attendance", "attendance_id", attendance.ID, "event_id", event.ID, "contact_id", outcome.Contact.ID)
	outcome.Attendance = *attendance
	return outcome, nil
}

// matchEvents returns the events whose webpage contains the slug, ignoring case.
func matchEvents(events []domain.SugarEvent, slug string) []domain.SugarEvent {
	needle := strings.ToLower(slug)
	var matches []domain.SugarEvent
	for _, e := range events {
		if strings.Contains(strings.ToLower(e.Webpage), needle) {
			matches = append(matches, e)
		}
	}
	return matches
}

// courseContact builds the contact created for a course signup from an unknown email.
func courseContact(in domain.CourseInput) domain.NewContact {
	location := domain.CourseSignupLocation
	c := domain.NewContact{
		Email:              in.Email,
		FirstName:          in.Email,
		LastName:           domain.UnknownLastName,
		ReceivesNewsletter: false,
		Location:           &location,
	}
	if in.FirstName != "" {
		c.FirstName = in.FirstName
	}
	if in.LastName != "" {
		c.LastName = in.LastName
	}
	return c
}
