package app

import (
	"fmt"

	"shop_backend/internal/auth"
	"shop_backend/internal/config"
	"shop_backend/internal/email"
	"shop_backend/internal/handlers"
	"shop_backend/internal/logger"
	"shop_backend/internal/middleware"
	"shop_backend/internal/models"
	"shop_backend/internal/repositories"
	"shop_backend/internal/routes"
	"shop_backend/internal/services"
	"shop_backend/internal/validator"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	// TranslateError maps the driver's unique-violation into
	// gorm.ErrDuplicatedKey, which the user repository relies on.
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{TranslateError: true})
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := gormDB.AutoMigrate(&models.User{}); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	var mailer email.Sender
	smtpSender, err := email.NewSMTPSender(email.Config{
		SMTPHost:  cfg.Email.SMTPHost,
		SMTPPort:  cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
	})
	if err != nil {
		logger.Warn("Email sender disabled", "error", err)
	} else {
		mailer = smtpSender
	}

	ginRouter := SetupRouter(cfg, gormDB, mailer)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter wires repositories, services, handlers and middleware
// into a gin engine. Tests reuse it with their own mailer.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB, mailer email.Sender) *gin.Engine {
	userRepo := repositories.NewUserRepository(gormDB)
	tokenService := auth.NewTokenService(cfg.JWT.Secret)

	authService := services.NewAuthService(userRepo, tokenService, mailer, cfg.Auth.VerifyBaseURL)
	userService := services.NewUserService(userRepo)

	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	appHandlers := &handlers.AppHandlers{
		AuthHandler: handlers.NewAuthHandler(baseHandler, authService),
		UserHandler: handlers.NewUserHandler(baseHandler, userService),
	}

	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery())
	ginRouter.Use(middleware.RequestIDMiddleware())
	ginRouter.Use(middleware.LoggingMiddleware())
	ginRouter.Use(middleware.CORSMiddleware())

	authMW := middleware.AuthMiddleware(tokenService, userRepo)
	routes.RegisterRoutes(ginRouter, appHandlers, authMW)

	return ginRouter
}

// seedFirstAdmin creates the initial admin account when configured and
// not present yet, so the admin routes are usable on a fresh database.
func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.Auth.FirstAdminEmail
	adminPassword := cfg.Auth.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("First admin credentials are not configured, skipping admin seeding")
		return nil
	}

	userRepo := repositories.NewUserRepository(db)

	if _, err := userRepo.FindByEmail(adminEmail); err == nil {
		return nil
	}

	passwordHash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return err
	}

	admin := &models.User{
		Email:        adminEmail,
		PasswordHash: passwordHash,
		FirstName:    "Admin",
		LastName:     "Admin",
		Role:         models.UserRoleAdmin,
		IsVerified:   true,
	}

	if err := userRepo.Create(admin); err != nil {
		return err
	}

	logger.Info("First admin user created", "email", adminEmail)
	return nil
}
