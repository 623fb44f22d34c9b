package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/shashiranjanraj/influex/app/models"
	"github.com/shashiranjanraj/influex/config"
	httpclient "github.com/shashiranjanraj/influex/pkg/http"
	"github.com/shashiranjanraj/influex/pkg/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSignature builds the signature a real checkout callback would carry.
func testSignature(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestValidSignature(t *testing.T) {
	sig := testSignature("order_123", "pay_456", "topsecret")
	assert.True(t, ValidSignature("order_123", "pay_456", sig, "topsecret"))
	assert.False(t, ValidSignature("order_123", "pay_456", sig, "othersecret"))
	assert.False(t, ValidSignature("order_123", "pay_999", sig, "topsecret"))
	assert.False(t, ValidSignature("order_123", "pay_456", "deadbeef", "topsecret"))
}

func TestCreatePaymentOrder(t *testing.T) {
	db := setupTest(t)
	config.Set("RAZORPAY_KEY_ID", "rzp_test_key")
	config.Set("RAZORPAY_KEY_SECRET", "rzp_test_secret")

	buyer := createUser(t, db, "buyer", "buyer@example.com", models.RoleBusiness)
	order := models.Order{UserID: buyer.ID, InfluencerID: 42, TotalPrice: 150, Amount: 150, Status: models.OrderPending}
	require.NoError(t, db.Create(&order).Error)

	mt := testkit.NewMockTransport()
	mt.Stub("https://api.razorpay.com/v1/orders", 200,
		`{"id":"order_rzp1","amount":15000,"currency":"INR","status":"created"}`)
	httpclient.DefaultClient.Transport = mt
	defer httpclient.ResetTransport()

	svc := NewPaymentService()

	_, err := svc.CreatePaymentOrder(order.ID, buyer.ID+1, 0, "")
	assert.ErrorIs(t, err, ErrForbidden)

	rzp, err := svc.CreatePaymentOrder(order.ID, buyer.ID, 0, "")
	require.NoError(t, err)
	assert.Equal(t, "order_rzp1", rzp.ID)
	assert.Equal(t, int64(15000), rzp.Amount)
	assert.Equal(t, 1, mt.Calls("https://api.razorpay.com/v1/orders"))

	var stored models.Order
	require.NoError(t, db.First(&stored, order.ID).Error)
	assert.Equal(t, "order_rzp1", stored.RazorpayOrderID)
}

func TestVerifyPayment(t *testing.T) {
	db := setupTest(t)
	config.Set("RAZORPAY_KEY_SECRET", "rzp_test_secret")

	order := models.Order{UserID: 1, InfluencerID: 2, TotalPrice: 99, Status: models.OrderPending, RazorpayOrderID: "order_rzp2"}
	require.NoError(t, db.Create(&order).Error)

	svc := NewPaymentService()

	_, err := svc.VerifyPayment("order_rzp2", "pay_1", "bogus")
	assert.ErrorIs(t, err, ErrBadSignature)

	sig := testSignature("order_rzp2", "pay_1", "rzp_test_secret")
	settled, err := svc.VerifyPayment("order_rzp2", "pay_1", sig)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCompleted, settled.Status)
	assert.Equal(t, "pay_1", settled.PaymentID)

	// Re-verifying is a no-op success, and the order never regresses.
	again, err := svc.VerifyPayment("order_rzp2", "pay_1", sig)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCompleted, again.Status)

	_, err = svc.VerifyPayment("order_unknown", "pay_1", testSignature("order_unknown", "pay_1", "rzp_test_secret"))
	assert.ErrorIs(t, err, ErrNotFound)
}
