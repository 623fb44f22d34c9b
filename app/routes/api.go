// Package routes declares the public HTTP surface. Route names follow the
// "area.action" convention so URL() lookups stay readable.
package routes

import (
	"github.com/shashiranjanraj/influex/app/chat"
	"github.com/shashiranjanraj/influex/app/controllers"
	appgql "github.com/shashiranjanraj/influex/app/graphql"
	"github.com/shashiranjanraj/influex/app/models"
	"github.com/shashiranjanraj/influex/app/services"
	"github.com/shashiranjanraj/influex/pkg/ctx"
	"github.com/shashiranjanraj/influex/pkg/logger"
	"github.com/shashiranjanraj/influex/pkg/middleware"
	"github.com/shashiranjanraj/influex/pkg/rbac"
	"github.com/shashiranjanraj/influex/pkg/router"
)

// RegisterAPI mounts every endpoint and boots the chat gateway.
func RegisterAPI(r *router.Router) {
	chatService := services.NewChatService()
	gateway := chat.NewGateway(chatService)
	go gateway.Run()

	authC := controllers.NewAuthController()
	chatC := controllers.NewChatController(chatService, gateway)
	orderC := controllers.NewOrderController()
	paymentC := controllers.NewPaymentController()
	promoC := controllers.NewPromotionController()
	newsC := controllers.NewNewsletterController()
	infC := controllers.NewInfluencerController()
	oauthC := controllers.NewOAuthController()

	// WebSocket endpoint authenticates inside the handler, before upgrade.
	r.HandleFunc("/ws/chat", gateway.Handler)

	// Public click redirect for tracked promotion links.
	r.Get("/p/{code}", "promotions.track", ctx.Wrap(promoC.Track))

	api := r.Group("/api")

	api.Post("/send-otp", "auth.send_otp", ctx.Wrap(authC.SendOTP))
	api.Post("/verify-otp", "auth.verify_otp", ctx.Wrap(authC.VerifyOTP))
	api.Post("/signup", "auth.signup", ctx.Wrap(authC.Signup))
	api.Post("/login", "auth.login", ctx.Wrap(authC.Login))
	api.Post("/refresh-token", "auth.refresh", ctx.Wrap(authC.Refresh))
	api.Post("/reset-password", "auth.reset_password", ctx.Wrap(authC.ResetPassword))

	api.Post("/newsletter/subscribe", "newsletter.subscribe", ctx.Wrap(newsC.Subscribe))
	api.Post("/newsletter/unsubscribe", "newsletter.unsubscribe", ctx.Wrap(newsC.Unsubscribe))

	api.Get("/influencers", "influencers.list", ctx.Wrap(infC.List))
	api.Get("/influencers/{id}", "influencers.show", ctx.Wrap(infC.Get))

	if schema, err := appgql.NewSchema(services.NewInfluencerService()); err == nil {
		api.Post("/graphql", "graphql", ctx.Wrap(appgql.Handler(schema)))
	} else {
		logger.Error("routes: graphql schema", "error", err)
	}

	api.Get("/oauth/callback/{provider}", "oauth.callback", ctx.Wrap(oauthC.Callback))
	api.Post("/oauth/data-deletion/{provider}", "oauth.data_deletion", ctx.Wrap(oauthC.DataDeletion))
	api.Get("/oauth/deletion-status/{code}", "oauth.deletion_status", ctx.Wrap(oauthC.DeletionStatus))

	protected := api.Group("", middleware.AuthMiddleware)

	protected.Post("/send", "chat.send", ctx.Wrap(chatC.Send))
	protected.Get("/chat/{userId}", "chat.history", ctx.Wrap(chatC.History))
	protected.Get("/chats", "chat.list", ctx.Wrap(chatC.Chats))
	protected.Get("/users", "chat.users", ctx.Wrap(chatC.Users))

	protected.Post("/place-order", "orders.place", ctx.Wrap(orderC.Place))
	protected.Get("/orders", "orders.list", ctx.Wrap(orderC.List))
	protected.Delete("/orders/{id}", "orders.delete", ctx.Wrap(orderC.Delete))

	protected.Post("/create-payment-order", "payments.create", ctx.Wrap(paymentC.Create))
	protected.Post("/verify-payment", "payments.verify", ctx.Wrap(paymentC.Verify))

	protected.Post("/promotions/generate-url", "promotions.generate",
		ctx.Wrap(promoC.Generate), rbac.HasRole(models.RoleInfluencer, models.RoleAdmin))
	protected.Get("/promotions", "promotions.list", ctx.Wrap(promoC.List))

	protected.Post("/wishlist/toggle", "wishlist.toggle", ctx.Wrap(infC.ToggleWishlist))
	protected.Get("/wishlist", "wishlist.list", ctx.Wrap(infC.Wishlist))
	protected.Post("/service-request", "influencers.request_service", ctx.Wrap(infC.RequestService))

	protected.Get("/oauth/connect/{provider}", "oauth.connect", ctx.Wrap(oauthC.Connect))
	protected.Post("/oauth/disconnect/{provider}", "oauth.disconnect", ctx.Wrap(oauthC.Disconnect))
}
