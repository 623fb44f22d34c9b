package controllers

import (
	"net/http"
	"strconv"

	"github.com/shashiranjanraj/influex/app/models"
	"github.com/shashiranjanraj/influex/app/resources"
	"github.com/shashiranjanraj/influex/app/services"
	"github.com/shashiranjanraj/influex/pkg/ctx"
	"github.com/shashiranjanraj/influex/pkg/middleware"
	"github.com/shashiranjanraj/influex/pkg/resource"
)

type InfluencerController struct {
	service *services.InfluencerService
}

func NewInfluencerController() *InfluencerController {
	return &InfluencerController{service: services.NewInfluencerService()}
}

// List returns a page of influencers, filterable by ?category=.
func (ic *InfluencerController) List(c *ctx.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	users, pagination, err := ic.service.List(c.Query("category"), page, limit)
	if err != nil {
		respondErr(c, err)
		return
	}
	resource.CollectionOf(&resources.InfluencerResource{}, users).
		WithPagination(pagination).
		Respond(c.W)
}

// Get returns one influencer profile.
func (ic *InfluencerController) Get(c *ctx.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.Error(http.StatusBadRequest, "invalid influencer id")
		return
	}

	user, err := ic.service.Get(uint(id))
	if err != nil {
		respondErr(c, err)
		return
	}
	resource.New(&resources.InfluencerResource{}, user).Respond(c.W)
}

// ToggleWishlist saves or removes the influencer for the caller.
func (ic *InfluencerController) ToggleWishlist(c *ctx.Context) {
	userID, _ := middleware.UserIDFromCtx(c.R)

	var body struct {
		InfluencerID uint `json:"influencer_id" validate:"required,gt=0"`
	}
	if !c.BindJSON(&body) {
		return
	}

	saved, err := ic.service.ToggleWishlist(userID, body.InfluencerID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Success(ctx.Map{"saved": saved})
}

// Wishlist returns the caller's saved influencers.
func (ic *InfluencerController) Wishlist(c *ctx.Context) {
	userID, _ := middleware.UserIDFromCtx(c.R)

	users, err := ic.service.Wishlist(userID)
	if err != nil {
		respondErr(c, err)
		return
	}
	resource.CollectionOf(&resources.InfluencerResource{}, users).Respond(c.W)
}

// RequestService files a custom work enquiry against an influencer.
func (ic *InfluencerController) RequestService(c *ctx.Context) {
	userID, _ := middleware.UserIDFromCtx(c.R)

	var body struct {
		InfluencerID uint    `json:"influencer_id" validate:"required,gt=0"`
		ServiceName  string  `json:"service_name" validate:"required"`
		Details      string  `json:"details"`
		Budget       float64 `json:"budget" validate:"nullable,gte=0"`
	}
	if !c.BindJSON(&body) {
		return
	}

	req := models.ServiceRequest{
		UserID:       userID,
		InfluencerID: body.InfluencerID,
		ServiceName:  body.ServiceName,
		Details:      body.Details,
		Budget:       body.Budget,
		Status:       "open",
	}
	if err := ic.service.RequestService(&req); err != nil {
		respondErr(c, err)
		return
	}
	c.Created(req)
}
