package services

import (
	"fmt"
	"strings"

	"crmsync/internal/domain"
)

var allowedPaths = map[string]struct{}{"": {}, "/": {}}

// ValidateRequest checks the transport shape of a signup before any CRM call is made.
// Rules are applied in order and the first failure wins.
func ValidateRequest(req domain.RawRequest) domain.RequestValidation {
	if !strings.EqualFold(req.HTTPMethod, "post") {
		return domain.RequestValidation{Reason: "Endpoint only accepts POST requests"}
	}
	if _, ok := allowedPaths[req.Path]; !ok {
		return domain.RequestValidation{Reason: "Endpoint only accepts requests to /"}
	}

	raw, present := req.Params[domain.ParamMethod]
	if !present || raw == nil {
		return domain.RequestValidation{Reason: "You did not provide a 'method'"}
	}
	given, ok := raw.(string)
	if !ok {
		return domain.RequestValidation{Reason: fmt.Sprintf("You provided a non recognised method: %v", raw)}
	}
	method := domain.SignupMethod(strings.ToLower(given))
	for _, m := range domain.AllowedMethods {
		if m == method {
			return domain.RequestValidation{Valid: true, Method: method}
		}
	}
	return domain.RequestValidation{Reason: fmt.Sprintf("You provided a non recognised method: %s", given)}
}

// stringParam returns a non-empty string parameter, or "" when absent, empty or not a string.
func stringParam(params map[string]any, key string) string {
	s, _ := params[key].(string)
	return s
}

// tagsParam reads a tags array. It returns nil when tags are absent or not an array.
func tagsParam(params map[string]any) []domain.Tag {
	switch v := params[domain.ParamTags].(type) {
	case []domain.Tag:
		return append([]domain.Tag{}, v...)
	case []any:
		tags := make([]domain.Tag, 0, len(v))
		for _, item := range v {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if name, ok := obj["name"].(string); ok {
				tags = append(tags, domain.Tag{Name: name})
			}
		}
		return tags
	default:
		return nil
	}
}

// ParseNewsletterInput validates the business fields of a newsletter signup.
func ParseNewsletterInput(params map[string]any) (domain.NewsletterInput, error) {
	email := stringParam(params, domain.ParamEmail)
	if email == "" {
		return domain.NewsletterInput{}, domain.NewValidationError("You did not supply an email address")
	}
	return domain.NewsletterInput{
		Email:     email,
		Location:  stringParam(params, domain.ParamLocation),
		FirstName: stringParam(params, domain.ParamFirstName),
		LastName:  stringParam(params, domain.ParamLastName),
		Tags:      tagsParam(params),
	}, nil
}

// ParseCourseInput validates the business fields of a course signup.
func ParseCourseInput(params map[string]any) (domain.CourseInput, error) {
	email := stringParam(params, domain.ParamEmail)
	if email == "" {
		return domain.CourseInput{}, domain.NewValidationError("No email provided")
	}
	slug := stringParam(params, domain.ParamEventSlug)
	if slug == "" {
		return domain.CourseInput{}, domain.NewValidationError("No eventSlug provided")
	}
	return domain.CourseInput{
		Email:     email,
		EventSlug: slug,
		FirstName: stringParam(params, domain.ParamFirstName),
		LastName:  stringParam(params, domain.ParamLastName),
	}, nil
}
