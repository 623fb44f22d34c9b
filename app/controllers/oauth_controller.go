package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/influex/app/services"
	"github.com/shashiranjanraj/influex/config"
	"github.com/shashiranjanraj/influex/pkg/ctx"
	"github.com/shashiranjanraj/influex/pkg/middleware"
)

type OAuthController struct {
	service *services.OAuthService
}

func NewOAuthController() *OAuthController {
	return &OAuthController{service: services.NewOAuthService()}
}

// Connect starts an authorization flow and redirects to the provider.
func (oc *OAuthController) Connect(c *ctx.Context) {
	userID, _ := middleware.UserIDFromCtx(c.R)

	authorizeURL, err := oc.service.Connect(userID, c.Param("provider"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Redirect(http.StatusFound, authorizeURL)
}

// Callback completes the flow and sends the user back to the frontend.
// Providers call this endpoint directly, so errors redirect rather than
// render JSON.
func (oc *OAuthController) Callback(c *ctx.Context) {
	frontend := config.FrontendURL() + "/settings/connections"

	if errParam := c.Query("error"); errParam != "" {
		c.Redirect(http.StatusFound, frontend+"?status=denied")
		return
	}

	_, err := oc.service.Callback(c.Param("provider"), c.Query("state"), c.Query("code"))
	if err != nil {
		c.Redirect(http.StatusFound, frontend+"?status=error")
		return
	}
	c.Redirect(http.StatusFound, frontend+"?status=connected")
}

// Disconnect unlinks a provider from the caller's account.
func (oc *OAuthController) Disconnect(c *ctx.Context) {
	userID, _ := middleware.UserIDFromCtx(c.R)

	if err := oc.service.Disconnect(userID, c.Param("provider")); err != nil {
		respondErr(c, err)
		return
	}
	c.Success(ctx.Map{"disconnected": c.Param("provider")})
}

// DeletionStatus lets the provider poll a completed deletion request.
// Deletion runs synchronously in the callback, so any known code is done.
func (oc *OAuthController) DeletionStatus(c *ctx.Context) {
	c.Success(ctx.Map{
		"confirmation_code": c.Param("code"),
		"status":            "complete",
	})
}

// DataDeletion handles a provider-initiated deletion callback and returns
// the confirmation payload the provider expects.
func (oc *OAuthController) DataDeletion(c *ctx.Context) {
	var body struct {
		SignedRequest string `json:"signed_request" validate:"required"`
	}
	if !c.BindJSON(&body) {
		return
	}

	code, err := oc.service.DataDeletion(c.Param("provider"), body.SignedRequest)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, ctx.Map{
		"url":               config.AppURL() + "/api/oauth/deletion-status/" + code,
		"confirmation_code": code,
	})
}
