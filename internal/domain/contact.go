package domain

// Sentinel values the CRM carries on contacts that never supplied a real name.
const (
	UnknownLastName = "Unknown"
	// CourseSignupLocation is stamped on contacts created by the course flow.
	CourseSignupLocation = "add-to-course"
)

// Tag is a named label attached to a contact.
// swagger:model Tag
type Tag struct {
	Name string `json:"name"`
}

// Contact is a CRM contact as read back from the gateway. ID is CRM-assigned.
// Email is not unique in the CRM: zero, one or many contacts may share it.
// swagger:model Contact
type Contact struct {
	ID                 string `json:"id"`
	Email              string `json:"email"`
	FirstName          string `json:"firstName"`
	LastName           string `json:"lastName"`
	Location           string `json:"location"`
	ReceivesNewsletter bool   `json:"receivesNewsletter"`
	Tags               []Tag  `json:"tags"`
}

// NewContact is the write-only projection used to create a contact.
// A nil Location or Tags means the field is left out of the write entirely.
type NewContact struct {
	Email              string
	FirstName          string
	LastName           string
	ReceivesNewsletter bool
	Location           *string
	Tags               []Tag
}

// UpdateContact is a partial update. Only non-nil fields are written; nil means "leave as is".
type UpdateContact struct {
	ID                 string
	FirstName          *string
	LastName           *string
	Location           *string
	ReceivesNewsletter *bool
	Tags               []Tag
}

// ChangedFields lists the attribute names carried by the update, in a stable order.
func (u UpdateContact) ChangedFields() []string {
	var fields []string
	if u.ReceivesNewsletter != nil {
		fields = append(fields, "receivesNewsletter")
	}
	if u.Location != nil {
		fields = append(fields, "location")
	}
	if u.FirstName != nil {
		fields = append(fields, "firstName")
	}
	if u.LastName != nil {
		fields = append(fields, "lastName")
	}
	if u.Tags != nil {
		fields = append(fields, "tags")
	}
	return fields
}

// ContactUpdateResult records what happened to one contact during a newsletter update pass.
type ContactUpdateResult struct {
	ContactID string
	Fields    []string
	Err       error
}

// Applied reports whether the update for this contact reached the CRM successfully.
func (r ContactUpdateResult) Applied() bool { return r.Err == nil }
