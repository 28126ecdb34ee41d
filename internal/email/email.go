package email

import (
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Service handles sending reply-notification emails via SendGrid
type Service struct {
	apiKey   string
	from     string
	fromName string
}

// NewService creates a new email service instance
func NewService(apiKey, from, fromName string) *Service {
	if fromName == "" {
		fromName = "Support Team"
	}
	return &Service{apiKey: apiKey, from: from, fromName: fromName}
}

// ReplyNotification carries everything the outbound email needs
type ReplyNotification struct {
	TicketNumber int64
	Subject      string
	Message      string
	Translated   string // Empty when no translation was produced
	UserEmail    string
	GameName     string
}

// SendReply emails the ticket submitter an agent reply. When a
// translated variant exists it leads the body, with the original
// appended below.
func (s *Service) SendReply(n ReplyNotification) error {
	if s.apiKey == "" {
		return fmt.Errorf("SendGrid API key not configured")
	}

	from := mail.NewEmail(s.fromName, s.from)
	to := mail.NewEmail("", n.UserEmail)
	subject := fmt.Sprintf("Re: [#%d] %s", n.TicketNumber, n.Subject)

	body := n.Message
	if n.Translated != "" {
		body = fmt.Sprintf("%s\n\n---\nOriginal reply:\n%s", n.Translated, n.Message)
	}
	body = fmt.Sprintf(`%s

--
%s
Ticket #%d (%s)
Sent %s`, body, s.fromName, n.TicketNumber, n.GameName, time.Now().Format(time.RFC3339))

	message := mail.NewSingleEmail(from, subject, to, body, body)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("SendGrid API error: status %d, body: %s", response.StatusCode, response.Body)
	}

	return nil
}
