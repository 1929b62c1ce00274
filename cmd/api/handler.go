package api

import (
	accountDelivery "automail-backend/internal/account/delivery"
	accountUsecasePkg "automail-backend/internal/account/usecase"
	authUsecasePkg "automail-backend/internal/auth/usecase"
	automationDelivery "automail-backend/internal/automation/delivery"
	automationUsecasePkg "automail-backend/internal/automation/usecase"
	migrationDelivery "automail-backend/internal/migration/delivery"
	migrationUsecasePkg "automail-backend/internal/migration/usecase"
	oauthDelivery "automail-backend/internal/oauth/delivery"
	oauthUsecasePkg "automail-backend/internal/oauth/usecase"
	"automail-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase      authUsecasePkg.AuthUsecase
	config           *config.Config
	accountHandler   *accountDelivery.AccountHandler
	oauthHandler     *oauthDelivery.OAuthHandler
	flowHandler      *automationDelivery.FlowHandler
	migrationHandler *migrationDelivery.MigrationHandler
}

func NewHandler(
	authUc authUsecasePkg.AuthUsecase,
	accountUc accountUsecasePkg.AccountUsecase,
	flowUc automationUsecasePkg.FlowUsecase,
	migrationUc migrationUsecasePkg.MigrationUsecase,
	tokenManager *oauthUsecasePkg.TokenManager,
	cfg *config.Config,
) *Handler {
	return &Handler{
		authUsecase:      authUc,
		config:           cfg,
		accountHandler:   accountDelivery.NewAccountHandler(accountUc),
		oauthHandler:     oauthDelivery.NewOAuthHandler(tokenManager, cfg),
		flowHandler:      automationDelivery.NewFlowHandler(flowUc),
		migrationHandler: migrationDelivery.NewMigrationHandler(migrationUc),
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h)

	return r.Run(addr)
}
