package controllers

import (
	"github.com/shashiranjanraj/influex/app/services"
	"github.com/shashiranjanraj/influex/pkg/ctx"
)

type NewsletterController struct {
	service *services.NewsletterService
}

func NewNewsletterController() *NewsletterController {
	return &NewsletterController{service: services.NewNewsletterService()}
}

// Subscribe adds the email to the list. Subscribing twice succeeds quietly.
func (nc *NewsletterController) Subscribe(c *ctx.Context) {
	var body struct {
		Email string `json:"email" validate:"required,email"`
	}
	if !c.BindJSON(&body) {
		return
	}

	if err := nc.service.Subscribe(body.Email); err != nil {
		respondErr(c, err)
		return
	}
	c.Success(ctx.Map{"subscribed": true})
}

// Unsubscribe removes the email from the list.
func (nc *NewsletterController) Unsubscribe(c *ctx.Context) {
	var body struct {
		Email string `json:"email" validate:"required,email"`
	}
	if !c.BindJSON(&body) {
		return
	}

	if err := nc.service.Unsubscribe(body.Email); err != nil {
		respondErr(c, err)
		return
	}
	c.Success(ctx.Map{"unsubscribed": true})
}
