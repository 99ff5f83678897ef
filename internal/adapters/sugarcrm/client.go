package sugarcrm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"crmsync/internal/domain"
)

// DefaultBaseURL is the REST root of the production CRM.
const DefaultBaseURL = "https://ace.acrm.accessacloud.com/rest/v10"

// Config holds the credentials and endpoint for the CRM.
type Config struct {
	BaseURL  string
	Username string
	Password string
	ClientID string
	Platform string
	Timeout  time.Duration
}

type client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

// NewClient returns a CRMGateway that talks to the SugarCRM REST v10 API.
// The client holds no session state; every call takes the session from Authenticate.
func NewClient(cfg Config, httpClient *http.Client, logger *slog.Logger) domain.CRMGateway {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.ClientID == "" {
		cfg.ClientID = "sugar"
	}
	if cfg.Platform == "" {
		cfg.Platform = "custom-crm-connector"
	}
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &client{cfg: cfg, http: httpClient, logger: logger.With("component", "sugarcrm")}
}

// do sends a JSON request and decodes a 200 JSON response into out.
// An unparseable body or a non-200 status is reported as domain.ErrUpstream.
func (c *client) do(ctx context.Context, method, path string, session *domain.CRMSession, body any, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request for %s: %w", path, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != nil {
		if !session.Valid() {
			return fmt.Errorf("%w: request to %s without an authenticated session", domain.ErrUpstream, path)
		}
		req.Header.Set("Authorization", "Bearer "+session.AccessToken())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", domain.ErrUpstream, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body of %s %s: %w", domain.ErrUpstream, method, path, err)
	}
	c.logger.DebugContext(ctx, "crm response", "method", method, "path", path, "status", resp.StatusCode)

	if !json.Valid(raw) {
		return fmt.Errorf("%w: failed to parse body on path (%s - %s), status code %d", domain.ErrUpstream, path, method, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: non 200 status for path %s: %d, body: %s", domain.ErrUpstream, path, resp.StatusCode, raw)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode %s: %w", domain.ErrUpstream, path, err)
	}
	return nil
}

type tokenRequest struct {
	GrantType string `json:"grant_type"`
	ClientID  string `json:"client_id"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Platform  string `json:"platform"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

func (c *client) Authenticate(ctx context.Context) (domain.CRMSession, error) {
	var out tokenResponse
	err := c.do(ctx, http.MethodPost, "/oauth2/token", nil, tokenRequest{
		GrantType: "password",
		ClientID:  c.cfg.ClientID,
		Username:  c.cfg.Username,
		Password:  c.cfg.Password,
		Platform:  c.cfg.Platform,
	}, &out)
	if err != nil {
		return domain.CRMSession{}, fmt.Errorf("%w: %w", domain.ErrAuthentication, err)
	}
	if out.AccessToken == "" {
		return domain.CRMSession{}, fmt.Errorf("%w: token response had no access_token", domain.ErrAuthentication)
	}
	return domain.NewCRMSession(out.AccessToken), nil
}

// filterQuery encodes a Sugar filter expression as the "filter" query parameter.
func filterQuery(filter map[string]string) string {
	b, _ := json.Marshal([]map[string]string{filter})
	return url.Values{"filter": {string(b)}}.Encode()
}

type recordList[T any] struct {
	Records *[]T `json:"records"`
}

func (l recordList[T]) items(op string) ([]T, error) {
	if l.Records == nil {
		return nil, fmt.Errorf("%w: got invalid response from %s: no records", domain.ErrUpstream, op)
	}
	return *l.Records, nil
}

func (c *client) GetContactsByEmail(ctx context.Context, session domain.CRMSession, email string) ([]domain.Contact, error) {
	var out recordList[contactRecord]
	path := "/Contacts?" + filterQuery(map[string]string{"email": email})
	if err := c.do(ctx, http.MethodGet, path, &session, nil, &out); err != nil {
		return nil, err
	}
	records, err := out.items("GetContactsByEmail")
	if err != nil {
		return nil, err
	}
	contacts := make([]domain.Contact, 0, len(records))
	for _, r := range records {
		if contact, ok := r.toDomain(); ok {
			contacts = append(contacts, contact)
		} else {
			c.logger.WarnContext(ctx, "skipping malformed contact record", "id", deref(r.ID))
		}
	}
	return contacts, nil
}

func (c *client) CreateNewContact(ctx context.Context, session domain.CRMSession, contact domain.NewContact) (*domain.Contact, error) {
	var out contactRecord
	if err := c.do(ctx, http.MethodPost, "/Contacts", &session, newContactPayload(contact), &out); err != nil {
		return nil, err
	}
	if out.ID == nil || *out.ID == "" {
		return nil, fmt.Errorf("%w: failed to create a new contact: %s", domain.ErrUpstream, contact.Email)
	}
	created := out.toDomainLenient()
	return &created, nil
}

func (c *client) UpdateContact(ctx context.Context, session domain.CRMSession, update domain.UpdateContact) error {
	var out contactRecord
	path := "/Contacts/" + url.PathEscape(update.ID)
	if err := c.do(ctx, http.MethodPut, path, &session, updateContactPayload(update), &out); err != nil {
		return err
	}
	if deref(out.ID) != update.ID {
		return fmt.Errorf("%w: update of contact %s returned id %q", domain.ErrUpstream, update.ID, deref(out.ID))
	}
	return nil
}

func (c *client) GetAllEvents(ctx context.Context, session domain.CRMSession) ([]domain.SugarEvent, error) {
	var out recordList[eventRecord]
	if err := c.do(ctx, http.MethodGet, "/cours_Event?max_num=999999", &session, nil, &out); err != nil {
		return nil, err
	}
	records, err := out.items("GetAllEvents")
	if err != nil {
		return nil, err
	}
	events := make([]domain.SugarEvent, 0, len(records))
	for _, r := range records {
		if r.ID == nil || r.Webpage == nil || r.Name == nil {
			continue
		}
		events = append(events, domain.SugarEvent{ID: *r.ID, Webpage: *r.Webpage, Name: *r.Name})
	}
	return events, nil
}

func (c *client) GetEventAttendances(ctx context.Context, session domain.CRMSession, contact domain.Contact, event domain.SugarEvent) ([]domain.EventAttendance, error) {
	var out recordList[attendanceRecord]
	path := "/cours_EventAttendance?" + filterQuery(map[string]string{
		"cours_event_cours_eventattendancecours_event_ida": event.ID,
		"cours_eventattendance_contactscontacts_ida":       contact.ID,
	})
	if err := c.do(ctx, http.MethodGet, path, &session, nil, &out); err != nil {
		return nil, err
	}
	records, err := out.items("GetEventAttendances")
	if err != nil {
		return nil, err
	}
	attendances := make([]domain.EventAttendance, 0, len(records))
	for _, r := range records {
		if a, ok := r.toDomain(); ok {
			attendances = append(attendances, a)
		}
	}
	return attendances, nil
}

type linkAdd struct {
	Add []string `json:"add"`
}

type createAttendancePayload struct {
	Name    string  `json:"name"`
	Contact linkAdd `json:"cours_eventattendance_contacts"`
	Event   linkAdd `json:"cours_event_cours_eventattendance"`
}

func (c *client) CreateEventAttendance(ctx context.Context, session domain.CRMSession, event domain.SugarEvent, contact domain.Contact) (*domain.EventAttendance, error) {
	var out attendanceRecord
	err := c.do(ctx, http.MethodPost, "/cours_EventAttendance", &session, createAttendancePayload{
		Name:    domain.AttendanceName(contact, event),
		Contact: linkAdd{Add: []string{contact.ID}},
		Event:   linkAdd{Add: []string{event.ID}},
	}, &out)
	if err != nil {
		return nil, err
	}
	attendance, ok := out.toDomain()
	if !ok {
		return nil, errors.Join(domain.ErrUpstream, fmt.Errorf("did not create event attendance for contact %s", contact.ID))
	}
	return &attendance, nil
}
