// Package mailer delivers contact inquiries by email through Resend.
package mailer

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/resend/resend-go/v3"

	"bamtech/internal/relay"
)

// Sender delivers one contact submission.
type Sender interface {
	SendInquiry(ctx context.Context, s relay.Submission) error
}

// emailClient is the subset of the Resend emails service used here.
type emailClient interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type resendSender struct {
	emails emailClient
	from   string
	to     string
}

// NewResendSender returns a Sender posting through the Resend API.
// from must belong to a domain verified in Resend.
func NewResendSender(apiKey, from, to string) Sender {
	client := resend.NewClient(apiKey)
	return &resendSender{emails: client.Emails, from: from, to: to}
}

func (s *resendSender) SendInquiry(ctx context.Context, sub relay.Submission) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{s.to},
		Subject: subjectLine(sub),
		Html:    renderInquiry(sub),
	}
	if _, err := s.emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("send inquiry email: %w", err)
	}
	return nil
}

func subjectLine(sub relay.Submission) string {
	if sub.RelaySubject == "" {
		return sub.Subject
	}
	return sub.RelaySubject + ": " + sub.Subject
}

func renderInquiry(sub relay.Submission) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><body style=\"font-family:Arial,Helvetica,sans-serif;\">")
	b.WriteString("<table cellpadding=\"4\">")
	for _, row := range [][2]string{
		{"Name", sub.Name},
		{"Email", sub.Email},
		{"Subject", sub.Subject},
	} {
		fmt.Fprintf(&b, "<tr><th align=\"left\">%s</th><td>%s</td></tr>", row[0], html.EscapeString(row[1]))
	}
	b.WriteString("</table>")
	fmt.Fprintf(&b, "<p style=\"white-space:pre-wrap;\">%s</p>", html.EscapeString(sub.Message))
	b.WriteString("</body></html>")
	return b.String()
}
