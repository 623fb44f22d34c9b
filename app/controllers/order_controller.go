package controllers

import (
	"net/http"
	"strconv"

	"github.com/shashiranjanraj/influex/app/resources"
	"github.com/shashiranjanraj/influex/app/services"
	"github.com/shashiranjanraj/influex/pkg/ctx"
	"github.com/shashiranjanraj/influex/pkg/middleware"
	"github.com/shashiranjanraj/influex/pkg/resource"
)

type OrderController struct {
	service *services.OrderService
}

func NewOrderController() *OrderController {
	return &OrderController{service: services.NewOrderService()}
}

// Place accepts the multipart order form. The body is consumed as a
// stream; the optional attachment is already on its way to storage while
// the trailing form fields are still being read.
func (oc *OrderController) Place(c *ctx.Context) {
	userID, _ := middleware.UserIDFromCtx(c.R)

	order, err := oc.service.PlaceOrder(c.R, userID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Created(order)
}

// List returns the caller's orders, as buyer or influencer, newest first.
func (oc *OrderController) List(c *ctx.Context) {
	userID, _ := middleware.UserIDFromCtx(c.R)

	orders, err := oc.service.ListForUser(userID)
	if err != nil {
		respondErr(c, err)
		return
	}
	resource.CollectionOf(&resources.OrderResource{}, orders).Respond(c.W)
}

// Delete removes an order the caller participates in.
func (oc *OrderController) Delete(c *ctx.Context) {
	userID, _ := middleware.UserIDFromCtx(c.R)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.Error(http.StatusBadRequest, "invalid order id")
		return
	}

	if err := oc.service.Delete(uint(id), userID); err != nil {
		respondErr(c, err)
		return
	}
	c.Success(ctx.Map{"deleted": true})
}
