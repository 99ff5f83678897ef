package services

import (
	"context"
	"fmt"
	"strings"

	"crmsync/internal/domain"
)

// AddToNewsletter opts the email into the newsletter. With no matching contact it creates one;
// otherwise every matching contact is updated in turn using the merge rules.
//
// Updates are sequential and abort on the first failure. Contacts updated before the
// failure stay updated; the returned outcome lists them alongside the error.
func (s *signupService) AddToNewsletter(ctx context.Context, in domain.NewsletterInput) (*domain.NewsletterOutcome, error) {
	if in.Email == "" {
		return nil, domain.NewValidationError("You did not supply an email address")
	}

	session, err := s.gateway.Authenticate(ctx)
	if err != nil {
		return nil, domain.NewAuthenticationError("Failed to authenticate to SugarCRM.", err).
			WithNotice("An error occurred whilst authenticating to SugarCRM")
	}

	existing, err := s.gateway.GetContactsByEmail(ctx, session, in.Email)
	if err != nil {
		return nil, domain.NewUpstreamError("Failed to get contacts by email.", err).
			WithNotice("An error occurred whilst trying to get contacts by email")
	}

	if len(existing) == 0 {
		created, err := s.gateway.CreateNewContact(ctx, session, newsletterContact(in))
		if err != nil {
			return nil, domain.NewUpstreamError("Failed to create a new contact.", err).
				WithNotice(fmt.Sprintf("An error occurred whilst trying to create a new contact for: %s", in.Email))
		}
		s.logger.InfoContext(ctx, "created newsletter contact", "contact_id", created.ID)
		return &domain.NewsletterOutcome{Created: created}, nil
	}

	outcome := &domain.NewsletterOutcome{Updates: make([]domain.ContactUpdateResult, 0, len(existing))}
	for _, contact := range existing {
		update := mergeNewsletterUpdate(contact, in)
		res := domain.ContactUpdateResult{ContactID: contact.ID, Fields: update.ChangedFields()}
		if err := s.gateway.UpdateContact(ctx, session, update); err != nil {
			res.Err = err
			outcome.Updates = append(outcome.Updates, res)
			notice := fmt.Sprintf("An error occurred whilst trying to opt %s into mailing", contact.ID)
			if applied := outcome.AppliedContactIDs(); len(applied) > 0 {
				notice += fmt.Sprintf(" (already updated: %s)", strings.Join(applied, ", "))
			}
			return outcome, domain.NewUpstreamError("Failed to opt user into mailing.", err).WithNotice(notice)
		}
		s.logger.InfoContext(ctx, "updated newsletter contact", "contact_id", contact.ID, "fields", res.Fields)
		outcome.Updates = append(outcome.Updates, res)
	}
	return outcome, nil
}

// newsletterContact builds the contact created for a first-time newsletter signup.
func newsletterContact(in domain.NewsletterInput) domain.NewContact {
	c := domain.NewContact{
		Email:              in.Email,
		FirstName:          in.Email,
		LastName:           domain.UnknownLastName,
		ReceivesNewsletter: true,
	}
	if in.FirstName != "" {
		c.FirstName = in.FirstName
	}
	if in.LastName != "" {
		c.LastName = in.LastName
	}
	if slug := locationSlug(in.Location); slug != "" {
		c.Location = &slug
	}
	if in.Tags != nil {
		c.Tags = in.Tags
	}
	return c
}

// mergeNewsletterUpdate decides which fields of an existing contact the signup may change.
// Each rule is independent. Real names and an existing location are never overwritten.
func mergeNewsletterUpdate(existing domain.Contact, in domain.NewsletterInput) domain.UpdateContact {
	optIn := true
	update := domain.UpdateContact{ID: existing.ID, ReceivesNewsletter: &optIn}

	if existing.Location == "" {
		if slug := locationSlug(in.Location); slug != "" {
			update.Location = &slug
		}
	}
	if strings.ToLower(existing.LastName) == strings.ToLower(domain.UnknownLastName) && in.LastName != "" {
		lastName := in.LastName
		update.LastName = &lastName
	}
	if hasPlaceholderFirstName(existing) && in.FirstName != "" {
		firstName := in.FirstName
		update.FirstName = &firstName
	}

	switch {
	case in.Tags != nil && existing.Tags != nil:
		tags := make([]domain.Tag, 0, len(existing.Tags)+len(in.Tags))
		tags = append(tags, existing.Tags...)
		update.Tags = append(tags, in.Tags...)
	case in.Tags != nil:
		update.Tags = in.Tags
	}
	return update
}

// hasPlaceholderFirstName reports whether the first name is still the auto-generated email.
func hasPlaceholderFirstName(c domain.Contact) bool {
	return strings.ToLower(c.FirstName) == strings.ToLower(c.Email)
}

func locationSlug(location string) string {
	if location == "" {
		return ""
	}
	return Slugify(location)
}
