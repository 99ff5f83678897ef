package domain

import "context"

// SignupDetails is the debug context attached to every notification.
type SignupDetails struct {
	Method    string
	Email     string
	Location  string
	FirstName string
	LastName  string
	EventSlug string
}

// Notifier is the best-effort side channel for signup outcomes (infrastructure port).
// Errors returned here are never allowed to change the signup result.
type Notifier interface {
	ReportError(ctx context.Context, message string, details SignupDetails) error
	ReportSuccess(ctx context.Context, message string, details SignupDetails) error
}

// NotificationTemplateRenderer renders notification content from a named template.
type NotificationTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// NotificationData is the template data for a rendered notification.
type NotificationData struct {
	Level   string
	Message string
	Mention string
	Details SignupDetails
}
