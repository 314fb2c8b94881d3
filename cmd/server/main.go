package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	_ "fms/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"fms/internal/auth"
	"fms/internal/cache"
	"fms/internal/config"
	"fms/internal/db"
	"fms/internal/handler"
	"fms/internal/model"
	"fms/internal/repository"
	"fms/internal/router"
	"fms/internal/service"
)

const captchaSweepInterval = 10 * time.Minute

// @title FMS API
// @version 1.0
// @description Financial management API with entities, income records, a simple ledger and JWT authentication with security-question recovery.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.AuditLog{},
			&model.ActivityLog{},
			&model.LedgerEntry{},
			&model.Income{},
			&model.Revenue{},
			&model.Entity{},
			&model.CaptchaSession{},
			&model.SecurityQuestion{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.SecurityQuestion{},
		&model.CaptchaSession{},
		&model.Entity{},
		&model.Revenue{},
		&model.Income{},
		&model.LedgerEntry{},
		&model.ActivityLog{},
		&model.AuditLog{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	questionRepo := repository.NewSecurityQuestionRepository(gormDB)
	captchaRepo := repository.NewCaptchaRepository(gormDB)
	entityRepo := repository.NewEntityRepository(gormDB)
	revenueRepo := repository.NewRevenueRepository(gormDB)
	incomeRepo := repository.NewIncomeRepository(gormDB)
	ledgerRepo := repository.NewLedgerRepository(gormDB)
	activityRepo := repository.NewActivityLogRepository(gormDB)
	auditRepo := repository.NewAuditLogRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	verifier := service.NewQuestionVerifier()

	// Initialize services
	authService := service.NewAuthService(userRepo, questionRepo, activityRepo, verifier, jwtService)
	captchaService := service.NewCaptchaService(captchaRepo)
	staticCaptcha := service.NewStaticCaptchaValidator()
	entityService := service.NewEntityService(entityRepo, revenueRepo, auditRepo, cacheClient)
	incomeService := service.NewIncomeService(incomeRepo, revenueRepo, auditRepo, cacheClient)
	ledgerService := service.NewLedgerService(ledgerRepo, entityRepo, auditRepo)
	reportService := service.NewReportService(incomeRepo, entityRepo, revenueRepo, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, captchaService, staticCaptcha)
	entityHandler := handler.NewEntityHandler(entityService)
	incomeHandler := handler.NewIncomeHandler(incomeService)
	ledgerHandler := handler.NewLedgerHandler(ledgerService)
	reportHandler := handler.NewReportHandler(reportService)
	userHandler := handler.NewUserHandler(authService, activityRepo)

	// Register routes
	router.Register(
		e,
		cfg,
		authHandler,
		entityHandler,
		incomeHandler,
		ledgerHandler,
		reportHandler,
		userHandler,
	)

	// Expired captcha sessions accumulate otherwise; sweep them on a timer.
	go sweepCaptchaSessions(captchaRepo)

	if cfg.SwaggerHost != "" {
		log.Printf("Swagger documentation available at: %s/swagger/index.html", cfg.SwaggerHost)
	}

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}

func sweepCaptchaSessions(repo repository.CaptchaRepository) {
	ticker := time.NewTicker(captchaSweepInterval)
	defer ticker.Stop()
	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		removed, err := repo.DeleteExpired(ctx, time.Now())
		cancel()
		if err != nil {
			log.Printf("captcha sweep: %v", err)
			continue
		}
		if removed > 0 {
			log.Printf("captcha sweep: removed %d expired sessions", removed)
		}
	}
}
