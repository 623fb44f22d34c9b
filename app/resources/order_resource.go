// Package resources holds the API transformers that shape model rows into
// response JSON.
package resources

import (
	"github.com/shashiranjanraj/influex/app/models"
	"github.com/shashiranjanraj/influex/pkg/resource"
)

// OrderResource shapes an order for listings. Display fallbacks cover rows
// written before the username and status columns were backfilled.
type OrderResource struct{ resource.Base }

func (r *OrderResource) ToArray(v interface{}) resource.Map {
	o := v.(models.Order)

	username := o.Username
	if username == "" {
		username = "Unknown"
	}
	status := o.Status
	if status == "" {
		status = models.OrderPending
	}

	return resource.Map{
		"id":             o.ID,
		"user_id":        o.UserID,
		"influencer_id":  o.InfluencerID,
		"product":        o.Product(),
		"services":       o.Services,
		"total_price":    o.TotalPrice,
		"amount":         o.Amount,
		"username":       username,
		"inf_name":       o.InfName,
		"status":         status,
		"order_type":     o.OrderType,
		"scheduled_date": o.ScheduledDate,
		"scheduled_time": o.ScheduledTime,
		"file_url":       o.FileURL,
		"coupon_code":    o.CouponCode,
		"created_at":     o.CreatedAt,
	}
}
