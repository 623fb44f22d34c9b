package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shashiranjanraj/influex/app/models"
	"github.com/shashiranjanraj/influex/app/repositories"
	"github.com/shashiranjanraj/influex/config"
	"github.com/shashiranjanraj/influex/pkg/event"
	httpclient "github.com/shashiranjanraj/influex/pkg/http"
	"gorm.io/gorm"
)

const razorpayBaseURL = "https://api.razorpay.com/v1"

// PaymentService talks to the Razorpay gateway and settles orders.
type PaymentService struct {
	orders *repositories.OrderRepository
}

func NewPaymentService() *PaymentService {
	return &PaymentService{orders: repositories.NewOrderRepository()}
}

type RazorpayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// CreatePaymentOrder registers a gateway order for the given booking and
// stores the returned id on the row. Amounts are sent in paise. A zero
// amount falls back to the booking total; an empty currency means INR.
func (s *PaymentService) CreatePaymentOrder(orderID, userID uint, amount float64, currency string) (RazorpayOrder, error) {
	order, err := s.orders.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RazorpayOrder{}, ErrNotFound
		}
		return RazorpayOrder{}, err
	}
	if order.UserID != userID {
		return RazorpayOrder{}, ErrForbidden
	}

	if amount <= 0 {
		amount = order.Amount
	}
	if amount == 0 {
		amount = order.TotalPrice
	}
	if currency == "" {
		currency = "INR"
	}
	paise := int64(math.Round(amount * 100))

	resp, err := httpclient.Post(razorpayBaseURL+"/orders").
		Header("Authorization", basicAuth(config.RazorpayKeyID(), config.RazorpayKeySecret())).
		Body(map[string]interface{}{
			"amount":   paise,
			"currency": currency,
			"receipt":  fmt.Sprintf("order_%d", order.ID),
		}).
		Timeout(15 * time.Second).
		Send()
	if err != nil {
		return RazorpayOrder{}, fmt.Errorf("payment: create order: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return RazorpayOrder{}, fmt.Errorf("payment: gateway rejected order: %w", err)
	}

	var rzp RazorpayOrder
	if err := resp.JSON(&rzp); err != nil {
		return RazorpayOrder{}, fmt.Errorf("payment: decode response: %w", err)
	}

	order.RazorpayOrderID = rzp.ID
	if err := s.orders.Update(&order); err != nil {
		return RazorpayOrder{}, err
	}
	return rzp, nil
}

// VerifyPayment checks the gateway signature and marks the order completed.
// Verification is idempotent: re-submitting a settled payment succeeds
// without touching the row, and a completed order never moves backwards.
func (s *PaymentService) VerifyPayment(rzpOrderID, paymentID, signature string) (models.Order, error) {
	if !ValidSignature(rzpOrderID, paymentID, signature, config.RazorpayKeySecret()) {
		return models.Order{}, ErrBadSignature
	}

	order, err := s.orders.FindByRazorpayOrderID(rzpOrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, ErrNotFound
		}
		return models.Order{}, err
	}

	if order.Status == models.OrderCompleted {
		return order, nil
	}

	order.Status = models.OrderCompleted
	order.PaymentID = paymentID
	if err := s.orders.Update(&order); err != nil {
		return models.Order{}, err
	}

	event.FireAsync("payment.completed", order)
	return order, nil
}

// ValidSignature checks the Razorpay payment signature: hex HMAC-SHA256 of
// "<order_id>|<payment_id>" keyed with the API secret, compared in constant
// time.
func ValidSignature(orderID, paymentID, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func basicAuth(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}
