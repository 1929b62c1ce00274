package main

import (
	"log"

	api "automail-backend/cmd/api"
	accountdomain "automail-backend/internal/account/domain"
	accountRepo "automail-backend/internal/account/repository"
	accountUsecase "automail-backend/internal/account/usecase"
	authdomain "automail-backend/internal/auth/domain"
	authRepo "automail-backend/internal/auth/repository"
	authUsecase "automail-backend/internal/auth/usecase"
	automationdomain "automail-backend/internal/automation/domain"
	automationRepo "automail-backend/internal/automation/repository"
	"automail-backend/internal/automation/scheduler"
	automationUsecase "automail-backend/internal/automation/usecase"
	migrationUsecase "automail-backend/internal/migration/usecase"
	oauthUsecase "automail-backend/internal/oauth/usecase"
	"automail-backend/internal/transfer"
	"automail-backend/pkg/config"
	"automail-backend/pkg/crypto"
	"automail-backend/pkg/database"
	"automail-backend/pkg/imapx"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(
		&authdomain.User{},
		&accountdomain.MailAccount{},
		&automationdomain.AutomationFlow{},
		&automationdomain.AutomationExecution{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// At-rest encryption for passwords and tokens
	cipher, err := crypto.NewCipher(cfg.EncryptionKey)
	if err != nil {
		log.Fatal("Failed to initialize cipher:", err)
	}

	// Initialize repositories (dependency injection)
	userRepo := authRepo.NewUserRepository(db)
	mailAccountRepo := accountRepo.NewMailAccountRepository(db)
	flowRepo := automationRepo.NewFlowRepository(db)
	executionRepo := automationRepo.NewExecutionRepository(db)

	// Initialize use cases (dependency injection)
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepo, cfg)
	tokenManager := oauthUsecase.NewTokenManager(mailAccountRepo, cipher, cfg)
	accountUsecaseInstance := accountUsecase.NewAccountUsecase(mailAccountRepo, cipher, tokenManager, imapx.Dial)
	mover := transfer.NewMover(imapx.Dial)
	flowUsecaseInstance := automationUsecase.NewFlowUsecase(flowRepo, executionRepo, accountUsecaseInstance, mover, imapx.Dial)
	migrationUsecaseInstance := migrationUsecase.NewMigrationUsecase(accountUsecaseInstance, mover, imapx.Dial)

	// Start the automation scheduler
	flowScheduler := scheduler.NewFlowScheduler(flowUsecaseInstance, cfg.SchedulerInterval)
	flowScheduler.Start()
	defer flowScheduler.Stop()

	// Initialize HTTP handler
	handler := api.NewHandler(
		authUsecaseInstance,
		accountUsecaseInstance,
		flowUsecaseInstance,
		migrationUsecaseInstance,
		tokenManager,
		cfg,
	)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
