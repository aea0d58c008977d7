// Package relay builds and sends contact form submissions to an external
// form-relay service that forwards them by email.
package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/mail"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 8 * time.Second

// Form field names. The first four are filled in by the visitor, the rest are
// hidden fields interpreted by the relay.
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldSubject = "subject"
	FieldMessage = "message"

	FieldRelaySubject = "_subject"
	FieldHoneypot     = "_honey"
	FieldNext         = "_next"
)

// ErrRejected is returned when the relay answers with a non-success status.
var ErrRejected = errors.New("relay rejected submission")

// Submission is one contact form post.
type Submission struct {
	Name    string
	Email   string
	Subject string
	Message string

	// RelaySubject is the fixed subject line of the forwarded email.
	RelaySubject string
	// Honeypot must be empty for human visitors.
	Honeypot string
	// Next is where the relay redirects the browser after accepting the post.
	Next string
}

// FromForm reads a submission from parsed form values.
func FromForm(form url.Values) Submission {
	return Submission{
		Name:         strings.TrimSpace(form.Get(FieldName)),
		Email:        strings.TrimSpace(form.Get(FieldEmail)),
		Subject:      strings.TrimSpace(form.Get(FieldSubject)),
		Message:      strings.TrimSpace(form.Get(FieldMessage)),
		RelaySubject: form.Get(FieldRelaySubject),
		Honeypot:     form.Get(FieldHoneypot),
		Next:         form.Get(FieldNext),
	}
}

// Values encodes the submission as the seven fields the relay expects.
func (s Submission) Values() url.Values {
	return url.Values{
		FieldName:         {s.Name},
		FieldEmail:        {s.Email},
		FieldSubject:      {s.Subject},
		FieldMessage:      {s.Message},
		FieldRelaySubject: {s.RelaySubject},
		FieldHoneypot:     {s.Honeypot},
		FieldNext:         {s.Next},
	}
}

// IsSpam reports whether the anti-automation trap was filled.
func (s Submission) IsSpam() bool {
	return s.Honeypot != ""
}

// FieldErrors maps a field name to a message key describing the problem.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, f := range []string{FieldName, FieldEmail, FieldSubject, FieldMessage} {
		if key, ok := e[f]; ok {
			parts = append(parts, f+": "+key)
		}
	}
	return "invalid submission: " + strings.Join(parts, ", ")
}

// Validate checks that every visitor field is present and the email parses.
// It returns nil or a FieldErrors value.
func (s Submission) Validate() error {
	errs := FieldErrors{}
	if s.Name == "" {
		errs[FieldName] = "contact.error.required"
	}
	if s.Email == "" {
		errs[FieldEmail] = "contact.error.required"
	} else if addr, err := mail.ParseAddress(s.Email); err != nil || addr.Address != s.Email {
		errs[FieldEmail] = "contact.error.email"
	}
	if s.Subject == "" {
		errs[FieldSubject] = "contact.error.required"
	}
	if s.Message == "" {
		errs[FieldMessage] = "contact.error.required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Client posts submissions to a fixed relay address.
type Client struct {
	action string
	http   *http.Client
}

// NewClient returns a client for the relay at action. A nil httpClient uses
// a client with an 8 second timeout.
func NewClient(action string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: defaultTimeout,
			// The relay answers with a redirect to _next; the redirect target
			// is for browsers, not for us.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		}
	}
	return &Client{action: action, http: httpClient}
}

// Action returns the relay address.
func (c *Client) Action() string {
	return c.action
}

// Submit posts the submission as an urlencoded form.
func (c *Client) Submit(ctx context.Context, s Submission) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.action, strings.NewReader(s.Values().Encode()))
	if err != nil {
		return fmt.Errorf("build relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post to relay: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}
	return nil
}
