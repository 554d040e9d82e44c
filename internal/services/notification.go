package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/pkg/sendGrid"
)

type NotificationService interface {
	SendOrderConfirmation(ctx context.Context, order *models.Order) error
}

type notificationService struct {
	emailService sendGrid.EmailService
}

func NewNotificationService(emailService sendGrid.EmailService) NotificationService {
	return &notificationService{emailService: emailService}
}

// SendOrderConfirmation implements NotificationService.
func (s *notificationService) SendOrderConfirmation(ctx context.Context, order *models.Order) error {

	msg := &models.EmailMessage{
		To:          order.CustomerEmail,
		ToName:      order.CustomerName,
		Subject:     fmt.Sprintf("Order %s confirmed", shortID(order)),
		Content:     confirmationText(order),
		HTMLContent: confirmationHTML(order),
		Category:    "order_confirmation",
		OrderID:     order.ID.String(),
	}

	if err := s.emailService.Send(ctx, msg); err != nil {
		return errors.ThirdPartyError("Failed to send order confirmation").WithError(err)
	}

	return nil
}

func shortID(order *models.Order) string {
	return strings.ToUpper(order.ID.String()[:8])
}

func confirmationText(order *models.Order) string {

	var b strings.Builder

	fmt.Fprintf(&b, "Hi %s,\n\nThanks for your order %s. We received your payment.\n\n", order.CustomerName, shortID(order))

	for _, item := range order.Items {
		fmt.Fprintf(&b, "%d x %s  %s\n", item.Quantity, item.Name, item.Total())
	}

	fmt.Fprintf(&b, "\nSubtotal: %s\n", order.Subtotal)
	if !order.DiscountAmount.IsZero() {
		fmt.Fprintf(&b, "Discount (%s): -%s\n", order.AppliedDiscountCode, order.DiscountAmount)
	}
	fmt.Fprintf(&b, "Shipping: %s\nTotal: %s\n", order.ShippingAmount, order.Total)

	return b.String()
}

func confirmationHTML(order *models.Order) string {

	var b strings.Builder

	fmt.Fprintf(&b, "<p>Hi %s,</p><p>Thanks for your order <strong>%s</strong>. We received your payment.</p><table>",
		html.EscapeString(order.CustomerName), shortID(order))

	for _, item := range order.Items {
		fmt.Fprintf(&b, "<tr><td>%d &times; %s</td><td>%s</td></tr>", item.Quantity, html.EscapeString(item.Name), item.Total())
	}

	fmt.Fprintf(&b, "</table><p>Total paid: <strong>%s</strong></p>", order.Total)

	return b.String()
}
