// Package jobs holds the background jobs pushed through pkg/queue. Every
// job must be registered under its %T name so workers can rebuild it from
// the wire payload.
package jobs

import (
	"fmt"

	"github.com/shashiranjanraj/influex/config"
	"github.com/shashiranjanraj/influex/pkg/mail"
	"github.com/shashiranjanraj/influex/pkg/queue"
)

// RegisterAll wires every job type into the queue registry. Called once at
// boot, before workers start.
func RegisterAll() {
	queue.Register("jobs.OTPEmailJob", func() queue.Job { return &OTPEmailJob{} })
	queue.Register("jobs.NewsletterWelcomeJob", func() queue.Job { return &NewsletterWelcomeJob{} })
	queue.Register("jobs.OrderReceiptJob", func() queue.Job { return &OrderReceiptJob{} })
}

// OTPEmailJob delivers a signup or reset verification code.
type OTPEmailJob struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (j OTPEmailJob) Handle() error {
	return mail.To(j.Email).
		Subject("Your verification code").
		Body(fmt.Sprintf(
			"<p>Your verification code is <strong>%s</strong>.</p><p>It expires in 5 minutes.</p>",
			j.Code,
		)).
		Send()
}

// NewsletterWelcomeJob greets a first-time newsletter subscriber.
type NewsletterWelcomeJob struct {
	Email string `json:"email"`
}

func (j NewsletterWelcomeJob) Handle() error {
	return mail.To(j.Email).
		Subject("Welcome to the newsletter").
		Body("<p>Thanks for subscribing. You will hear from us when new campaigns open up.</p>").
		Send()
}

// OrderReceiptJob mails the buyer after a payment settles.
type OrderReceiptJob struct {
	Email   string  `json:"email"`
	OrderID uint    `json:"order_id"`
	Amount  float64 `json:"amount"`
	InfName string  `json:"inf_name"`
}

func (j OrderReceiptJob) Handle() error {
	orderURL := config.FrontendURL() + "/orders"
	return mail.To(j.Email).
		Subject(fmt.Sprintf("Payment received for order #%d", j.OrderID)).
		Body(fmt.Sprintf(
			"<p>We received your payment of ₹%.2f for order #%d with %s.</p><p><a href=%q>View your orders</a></p>",
			j.Amount, j.OrderID, j.InfName, orderURL,
		)).
		Send()
}
