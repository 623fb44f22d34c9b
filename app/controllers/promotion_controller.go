package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/influex/app/services"
	"github.com/shashiranjanraj/influex/pkg/ctx"
	"github.com/shashiranjanraj/influex/pkg/middleware"
)

type PromotionController struct {
	service *services.PromotionService
}

func NewPromotionController() *PromotionController {
	return &PromotionController{service: services.NewPromotionService()}
}

// Generate returns the tracked link for a target URL, creating it on first
// use. Calling again with the same target returns the same link.
func (pc *PromotionController) Generate(c *ctx.Context) {
	userID, _ := middleware.UserIDFromCtx(c.R)

	var body struct {
		TargetURL string `json:"target_url" validate:"required,url"`
	}
	if !c.BindJSON(&body) {
		return
	}

	promo, publicURL, err := pc.service.GenerateURL(userID, body.TargetURL)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Success(ctx.Map{"promotion": promo, "url": publicURL})
}

// List returns the caller's promotions with click counts.
func (pc *PromotionController) List(c *ctx.Context) {
	userID, _ := middleware.UserIDFromCtx(c.R)

	promos, err := pc.service.ListForUser(userID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Success(promos)
}

// Track is the public click endpoint: count the visitor once and bounce
// them to the target.
func (pc *PromotionController) Track(c *ctx.Context) {
	target, err := pc.service.Track(c.Param("code"), c.ClientIP(), c.R.UserAgent())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Redirect(http.StatusFound, target)
}
