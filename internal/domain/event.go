package domain

// SugarEvent is a course event in the CRM. Webpage is free text used for slug matching, not a key.
// swagger:model SugarEvent
type SugarEvent struct {
	ID      string `json:"id"`
	Webpage string `json:"webpage"`
	Name    string `json:"name"`
}

// EventAttendance joins one contact to one course event.
// swagger:model EventAttendance
type EventAttendance struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AttendanceName is the display name given to a new attendance record.
func AttendanceName(contact Contact, event SugarEvent) string {
	return contact.Email + " - " + event.Name
}
