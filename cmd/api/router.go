package api

import (
	"net/http"

	authDelivery "automail-backend/internal/auth/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *Handler) {
	authHandler := authDelivery.NewAuthHandler(h.authUsecase)
	protected := authDelivery.AuthMiddleware(h.authUsecase)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.GET("/setup-status", authHandler.GetSetupStatus)
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", protected, authHandler.Me)
		}

		// OAuth routes. The authorize and callback endpoints stay public:
		// the provider redirect arrives without a bearer token.
		oauth := api.Group("/oauth")
		{
			oauth.GET("/providers", h.oauthHandler.GetProviders)
			oauth.GET("/:provider/authorize", h.oauthHandler.Authorize)
			oauth.GET("/:provider/callback", h.oauthHandler.Callback)
			oauth.POST("/:provider/refresh/:accountId", protected, h.oauthHandler.RefreshToken)
			oauth.GET("/status/:accountId", protected, h.oauthHandler.GetStatus)
		}

		// Mail account routes (protected)
		accounts := api.Group("/accounts")
		accounts.Use(protected)
		{
			accounts.GET("", h.accountHandler.GetAccounts)
			accounts.POST("", h.accountHandler.CreateAccount)
			accounts.GET("/:id", h.accountHandler.GetAccountByID)
			accounts.PUT("/:id", h.accountHandler.UpdateAccount)
			accounts.DELETE("/:id", h.accountHandler.DeleteAccount)
			accounts.GET("/:id/mailboxes", h.accountHandler.GetMailboxes)
		}

		// Automation flow routes (protected)
		flows := api.Group("/flows")
		flows.Use(protected)
		{
			flows.GET("", h.flowHandler.GetFlows)
			flows.POST("", h.flowHandler.CreateFlow)
			flows.GET("/:id", h.flowHandler.GetFlowByID)
			flows.PUT("/:id", h.flowHandler.UpdateFlow)
			flows.DELETE("/:id", h.flowHandler.DeleteFlow)
			flows.POST("/:id/run", h.flowHandler.RunFlow)
			flows.GET("/:id/executions", h.flowHandler.GetExecutions)
		}

		// Migration routes (protected)
		migration := api.Group("/migration")
		migration.Use(protected)
		{
			migration.POST("/preview", h.migrationHandler.Preview)
			migration.POST("/execute", h.migrationHandler.Execute)
			migration.GET("/default-excluded-folders", h.migrationHandler.GetDefaultExcludedFolders)
		}
	}
}
