package sugarcrm

import "crmsync/internal/domain"

// Field names of the Contacts module.
const (
	fieldEmail              = "email1"
	fieldFirstName          = "first_name"
	fieldLastName           = "last_name"
	fieldReceivesNewsletter = "receives_newsletter_c"
	fieldLocation           = "sign_up_form_location_c"
	fieldTags               = "tag"
)

type tagRecord struct {
	Name string `json:"name"`
}

// contactRecord is a Contacts record. Pointers distinguish missing fields from empty ones.
type contactRecord struct {
	ID                 *string      `json:"id"`
	Email              *string      `json:"email1"`
	FirstName          *string      `json:"first_name"`
	LastName           *string      `json:"last_name"`
	Location           *string      `json:"sign_up_form_location_c"`
	ReceivesNewsletter *bool        `json:"receives_newsletter_c"`
	Tags               *[]tagRecord `json:"tag"`
}

// toDomain converts a fully-populated record; records missing any field are rejected.
func (r contactRecord) toDomain() (domain.Contact, bool) {
	if r.ID == nil || r.Email == nil || r.FirstName == nil || r.LastName == nil ||
		r.Location == nil || r.ReceivesNewsletter == nil || r.Tags == nil {
		return domain.Contact{}, false
	}
	return r.toDomainLenient(), true
}

// toDomainLenient converts whatever fields are present.
func (r contactRecord) toDomainLenient() domain.Contact {
	c := domain.Contact{
		ID:        deref(r.ID),
		Email:     deref(r.Email),
		FirstName: deref(r.FirstName),
		LastName:  deref(r.LastName),
		Location:  deref(r.Location),
	}
	if r.ReceivesNewsletter != nil {
		c.ReceivesNewsletter = *r.ReceivesNewsletter
	}
	if r.Tags != nil {
		c.Tags = make([]domain.Tag, 0, len(*r.Tags))
		for _, t := range *r.Tags {
			c.Tags = append(c.Tags, domain.Tag{Name: t.Name})
		}
	}
	return c
}

type eventRecord struct {
	ID      *string `json:"id"`
	Webpage *string `json:"webpage_c"`
	Name    *string `json:"name"`
}

type attendanceRecord struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`
}

func (r attendanceRecord) toDomain() (domain.EventAttendance, bool) {
	if r.ID == nil || r.Name == nil {
		return domain.EventAttendance{}, false
	}
	return domain.EventAttendance{ID: *r.ID, Name: *r.Name}, true
}

func tagRecords(tags []domain.Tag) []tagRecord {
	out := make([]tagRecord, 0, len(tags))
	for _, t := range tags {
		out = append(out, tagRecord{Name: t.Name})
	}
	return out
}

// newContactPayload writes only the fields the engine set. Unset optionals are left out.
func newContactPayload(c domain.NewContact) map[string]any {
	p := map[string]any{
		fieldEmail:              c.Email,
		fieldFirstName:          c.FirstName,
		fieldLastName:           c.LastName,
		fieldReceivesNewsletter: c.ReceivesNewsletter,
	}
	if c.Location != nil {
		p[fieldLocation] = *c.Location
	}
	if c.Tags != nil {
		p[fieldTags] = tagRecords(c.Tags)
	}
	return p
}

// updateContactPayload writes only the changed fields so the CRM leaves the rest as is.
func updateContactPayload(u domain.UpdateContact) map[string]any {
	p := map[string]any{}
	if u.FirstName != nil {
		p[fieldFirstName] = *u.FirstName
	}
	if u.LastName != nil {
		p[fieldLastName] = *u.LastName
	}
	if u.Location != nil {
		p[fieldLocation] = *u.Location
	}
	if u.ReceivesNewsletter != nil {
		p[fieldReceivesNewsletter] = *u.ReceivesNewsletter
	}
	if u.Tags != nil {
		p[fieldTags] = tagRecords(u.Tags)
	}
	return p
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
