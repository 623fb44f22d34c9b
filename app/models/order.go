package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Order statuses move forward only: Pending -> Completed (via payment
// verification) or Pending -> Cancelled. A Completed order never regresses.
const (
	OrderPending   = "Pending"
	OrderCompleted = "Completed"
	OrderCancelled = "Cancelled"
)

// ServiceItem is one purchased service line inside an order.
type ServiceItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price,omitempty"`
}

// ServiceList stores the ordered services as a JSON array column.
type ServiceList []ServiceItem

func (s ServiceList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (s *ServiceList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*s = nil
		return nil
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	}
	return fmt.Errorf("models: cannot scan %T into ServiceList", src)
}

// Order is a booking placed by a business against an influencer. The buyer
// snapshot columns (Username) and influencer snapshot (InfName) are denormalised
// at insert time so listings survive later profile edits.
type Order struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	UserID          uint        `gorm:"not null;index" json:"user_id"`
	InfluencerID    uint        `gorm:"not null;index" json:"influencer_id"`
	Services        ServiceList `gorm:"type:json" json:"services"`
	TotalPrice      float64     `gorm:"not null" json:"total_price"`
	Description     string      `gorm:"type:text" json:"description,omitempty"`
	AffiliatedLinks string      `gorm:"type:text" json:"affiliated_links,omitempty"`
	CouponCode      string      `gorm:"size:100" json:"coupon_code,omitempty"`
	PostDateTime    string      `gorm:"size:64" json:"post_datetime,omitempty"`
	ScheduledDate   string      `gorm:"size:32" json:"scheduled_date,omitempty"`
	ScheduledTime   string      `gorm:"size:32" json:"scheduled_time,omitempty"`
	FileURL         string      `gorm:"size:512" json:"file_url,omitempty"`
	Username        string      `gorm:"size:100" json:"username,omitempty"`
	InfName         string      `gorm:"column:inf_name;size:255" json:"inf_name,omitempty"`
	OrderDate       time.Time   `json:"order_date"`
	OrderType       string      `gorm:"column:order_type;size:50" json:"order_type,omitempty"`
	Amount          float64     `json:"amount"`
	Status          string      `gorm:"size:32;default:Pending" json:"status"`
	RazorpayOrderID string      `gorm:"size:100;index" json:"razorpay_order_id,omitempty"`
	PaymentID       string      `gorm:"size:100" json:"payment_id,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// Product returns the display name for listings: the first service name,
// or a fixed fallback when the services array is empty.
func (o *Order) Product() string {
	if len(o.Services) > 0 && o.Services[0].Name != "" {
		return o.Services[0].Name
	}
	return "Custom Service"
}
