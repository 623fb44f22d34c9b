// Package listeners wires domain events to their side effects: metrics
// counters and follow-up jobs. Registration happens once at boot.
package listeners

import (
	"fmt"

	"github.com/shashiranjanraj/influex/app/jobs"
	"github.com/shashiranjanraj/influex/app/models"
	"github.com/shashiranjanraj/influex/app/repositories"
	"github.com/shashiranjanraj/influex/config"
	"github.com/shashiranjanraj/influex/pkg/event"
	"github.com/shashiranjanraj/influex/pkg/logger"
	"github.com/shashiranjanraj/influex/pkg/metrics"
	"github.com/shashiranjanraj/influex/pkg/notification"
	"github.com/shashiranjanraj/influex/pkg/queue"
)

var (
	messagesSent = metrics.NewCounter("influex", "chat_messages_total",
		"Chat messages persisted.", nil)
	ordersPlaced = metrics.NewCounter("influex", "orders_placed_total",
		"Orders created.", nil)
	paymentsCompleted = metrics.NewCounter("influex", "payments_completed_total",
		"Payments verified and settled.", nil)
)

// orderPlacedNotification tells the influencer a new order landed. Slack is
// included only when an ops webhook is configured.
type orderPlacedNotification struct {
	Order      models.Order
	Influencer models.User
}

func (n *orderPlacedNotification) Via() []string {
	channels := []string{"mail"}
	if config.Get("SLACK_WEBHOOK_URL", "") != "" {
		channels = append(channels, "slack")
	}
	return channels
}

func (n *orderPlacedNotification) ToMail() notification.MailData {
	return notification.MailData{
		Subject: fmt.Sprintf("New order #%d on Influex", n.Order.ID),
		Body: fmt.Sprintf("<p>Hi %s,</p><p>%s just placed an order for %s worth %.2f.</p>",
			n.Influencer.Name, n.Order.Username, n.Order.Product(), n.Order.TotalPrice),
	}
}

func (n *orderPlacedNotification) ToSlack() notification.SlackData {
	return notification.SlackData{
		Text: fmt.Sprintf("Order #%d: %s -> %s (%.2f)",
			n.Order.ID, n.Order.Username, n.Influencer.Name, n.Order.TotalPrice),
	}
}

// RegisterAll attaches every event listener.
func RegisterAll() {
	event.Listen("message.sent", func(payload interface{}) {
		if _, ok := payload.(models.Message); ok {
			messagesSent.WithLabelValues().Inc()
		}
	})

	event.Listen("order.placed", func(payload interface{}) {
		order, ok := payload.(models.Order)
		if !ok {
			return
		}
		ordersPlaced.WithLabelValues().Inc()

		influencer, err := repositories.NewUserRepository().FindByID(order.InfluencerID)
		if err != nil {
			logger.Warn("listeners: order influencer lookup failed", "order", order.ID, "error", err)
			return
		}
		notification.SendAsync(influencer.Email, &orderPlacedNotification{
			Order:      order,
			Influencer: influencer,
		})
	})

	event.Listen("payment.completed", func(payload interface{}) {
		order, ok := payload.(models.Order)
		if !ok {
			return
		}
		paymentsCompleted.WithLabelValues().Inc()

		buyer, err := repositories.NewUserRepository().FindByID(order.UserID)
		if err != nil {
			logger.Warn("listeners: receipt buyer lookup failed", "order", order.ID, "error", err)
			return
		}
		err = queue.Dispatch(jobs.OrderReceiptJob{
			Email:   buyer.Email,
			OrderID: order.ID,
			Amount:  order.Amount,
			InfName: order.InfName,
		})
		if err != nil {
			logger.Error("listeners: receipt dispatch failed", "order", order.ID, "error", err)
		}
	})
}
