package controllers

import (
	"net/http"
	"strconv"

	"github.com/shashiranjanraj/influex/app/chat"
	"github.com/shashiranjanraj/influex/app/resources"
	"github.com/shashiranjanraj/influex/app/services"
	"github.com/shashiranjanraj/influex/pkg/ctx"
	"github.com/shashiranjanraj/influex/pkg/middleware"
	"github.com/shashiranjanraj/influex/pkg/resource"
)

type ChatController struct {
	service *services.ChatService
	gateway *chat.Gateway
}

func NewChatController(service *services.ChatService, gateway *chat.Gateway) *ChatController {
	return &ChatController{service: service, gateway: gateway}
}

// Send stores a message over plain HTTP and pushes it to any open sockets
// of both participants.
func (cc *ChatController) Send(c *ctx.Context) {
	userID, _ := middleware.UserIDFromCtx(c.R)

	var body struct {
		To      uint   `json:"to" validate:"required,gt=0"`
		Content string `json:"content" validate:"required"`
	}
	if !c.BindJSON(&body) {
		return
	}

	msg, err := cc.service.Send(userID, body.To, body.Content)
	if err != nil {
		respondErr(c, err)
		return
	}

	cc.gateway.Deliver(msg)
	c.Created(msg)
}

// History returns one page of the conversation with the user in the path.
// ?limit= caps the page, ?before= pages backwards from a message id.
func (cc *ChatController) History(c *ctx.Context) {
	userID, _ := middleware.UserIDFromCtx(c.R)

	other, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil || other == 0 {
		c.Error(http.StatusBadRequest, "invalid user id")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	before, _ := strconv.ParseUint(c.DefaultQuery("before", "0"), 10, 64)

	msgs, err := cc.service.History(userID, uint(other), limit, uint(before))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Success(msgs)
}

// Chats lists the user's conversation partners, most recent first.
func (cc *ChatController) Chats(c *ctx.Context) {
	userID, _ := middleware.UserIDFromCtx(c.R)

	partners, err := cc.service.Partners(userID)
	if err != nil {
		respondErr(c, err)
		return
	}
	resource.CollectionOf(&resources.ContactResource{}, partners).Respond(c.W)
}

// Users lists every other account, for starting a new conversation.
func (cc *ChatController) Users(c *ctx.Context) {
	userID, _ := middleware.UserIDFromCtx(c.R)

	users, err := cc.service.Contacts(userID)
	if err != nil {
		respondErr(c, err)
		return
	}
	resource.CollectionOf(&resources.ContactResource{}, users).Respond(c.W)
}
