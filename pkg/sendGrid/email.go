package sendGrid

import (
	"context"
	"errors"
	"fmt"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

var ErrNoRecipient = errors.New("email has no recipient")

type EmailService interface {
	Send(ctx context.Context, msg *models.EmailMessage) error
	GetSendGridClient() *sendgrid.Client
}

type emailService struct {
	client *sendgrid.Client
	from   *mail.Email
}

func NewEmailService(apiKey string, fromEmail string, fromName string) EmailService {
	return &emailService{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail(fromName, fromEmail),
	}
}

func (e *emailService) build(msg *models.EmailMessage) *mail.SGMailV3 {
	to := mail.NewPersonalization()
	to.AddTos(mail.NewEmail(msg.ToName, msg.To))
	to.Subject = msg.Subject
	if msg.OrderID != "" {
		to.SetCustomArg("order_id", msg.OrderID)
	}

	m := mail.NewV3Mail().SetFrom(e.from).AddPersonalizations(to)

	// text/plain must precede text/html in the v3 API.
	m.AddContent(mail.NewContent("text/plain", msg.Content))
	if msg.HTMLContent != "" {
		m.AddContent(mail.NewContent("text/html", msg.HTMLContent))
	}

	if msg.Category != "" {
		m.AddCategories(msg.Category)
	}

	return m
}

func (e *emailService) Send(ctx context.Context, msg *models.EmailMessage) error {
	if msg.To == "" {
		return ErrNoRecipient
	}

	resp, err := e.client.SendWithContext(ctx, e.build(msg))
	if err != nil {
		return fmt.Errorf("sendgrid request: %w", err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid rejected message, status code: %d: %s", resp.StatusCode, resp.Body)
	}

	return nil
}

// GetSendGridClient exposes the underlying client so tests can point it at a fake server.
func (e *emailService) GetSendGridClient() *sendgrid.Client {
	return e.client
}
