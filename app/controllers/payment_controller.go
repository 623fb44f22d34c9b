package controllers

import (
	"github.com/shashiranjanraj/influex/app/services"
	"github.com/shashiranjanraj/influex/config"
	"github.com/shashiranjanraj/influex/pkg/ctx"
	"github.com/shashiranjanraj/influex/pkg/middleware"
)

type PaymentController struct {
	service *services.PaymentService
}

func NewPaymentController() *PaymentController {
	return &PaymentController{service: services.NewPaymentService()}
}

// Create registers a gateway order for an existing booking.
func (pc *PaymentController) Create(c *ctx.Context) {
	userID, _ := middleware.UserIDFromCtx(c.R)

	var body struct {
		OrderID  uint    `json:"orderId" validate:"required,gt=0"`
		Amount   float64 `json:"amount" validate:"nullable"`
		Currency string  `json:"currency" validate:"nullable"`
	}
	if !c.BindJSON(&body) {
		return
	}

	rzp, err := pc.service.CreatePaymentOrder(body.OrderID, userID, body.Amount, body.Currency)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Created(ctx.Map{
		"razorpayOrderId": rzp.ID,
		"key":             config.RazorpayKeyID(),
		"amount":          rzp.Amount,
		"currency":        rzp.Currency,
	})
}

// Verify checks the gateway signature and settles the order. Safe to call
// more than once for the same payment.
func (pc *PaymentController) Verify(c *ctx.Context) {
	var body struct {
		RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
		RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
		RazorpaySignature string `json:"razorpay_signature" validate:"required"`
	}
	if !c.BindJSON(&body) {
		return
	}

	order, err := pc.service.VerifyPayment(body.RazorpayOrderID, body.RazorpayPaymentID, body.RazorpaySignature)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Success(ctx.Map{"verified": true, "order": order})
}
