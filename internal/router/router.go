package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"fms/internal/auth"
	"fms/internal/config"
	apperrors "fms/internal/errors"
	"fms/internal/handler"
	"fms/internal/model"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	entityHandler *handler.EntityHandler,
	incomeHandler *handler.IncomeHandler,
	ledgerHandler *handler.LedgerHandler,
	reportHandler *handler.ReportHandler,
	userHandler *handler.UserHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.GET("/auth/admin-exists", authHandler.AdminExists)
	api.GET("/auth/captcha", authHandler.Captcha)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/install", authHandler.Install)
	api.POST("/auth/forgot-password/username", authHandler.ForgotPasswordUsername)
	api.POST("/auth/forgot-password/security-questions", authHandler.ForgotPasswordAnswers)
	api.POST("/auth/verify-answers", authHandler.VerifyAnswers)
	api.POST("/auth/reset-password", authHandler.ResetPassword)
	api.POST("/auth/user-questions", authHandler.UserQuestions)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
				Error: apperrors.ErrUnauthorized.Error(),
				Code:  "UNAUTHORIZED",
			})
		},
	}))

	manager := RequireRole(model.RoleManager)
	accountant := RequireRole(model.RoleAccountant)
	admin := RequireRole(model.RoleSystemAdmin)

	secured.GET("/me", authHandler.Me)

	// Entity routes: reads for every authenticated role, mutations for managers
	secured.GET("/entities", entityHandler.List)
	secured.GET("/entities/:id", entityHandler.Get)
	secured.POST("/entities", entityHandler.Create, manager)
	secured.PUT("/entities/:id", entityHandler.Update, manager)
	secured.DELETE("/entities/:id", entityHandler.Delete, manager)
	secured.GET("/entities/:id/revenues", entityHandler.ListRevenues)
	secured.POST("/entities/:id/revenues", entityHandler.CreateRevenue, manager)
	secured.GET("/entities/:id/ledger", ledgerHandler.Statement)

	// Income routes: mutations for accountants and above
	secured.GET("/incomes", incomeHandler.List)
	secured.GET("/incomes/:id", incomeHandler.Get)
	secured.POST("/incomes", incomeHandler.Create, accountant)
	secured.PUT("/incomes/:id", incomeHandler.Update, accountant)
	secured.DELETE("/incomes/:id", incomeHandler.Delete, accountant)

	// Ledger routes
	secured.POST("/ledger", ledgerHandler.Create, accountant)
	secured.PUT("/ledger/:id", ledgerHandler.Update, accountant)
	secured.DELETE("/ledger/:id", ledgerHandler.Delete, accountant)

	// Reports
	secured.GET("/reports/summary", reportHandler.Summary)
	secured.GET("/reports/incomes/export", reportHandler.ExportIncomes)

	// Administration
	secured.POST("/users", userHandler.Create, admin)
	secured.GET("/activity-logs", userHandler.ActivityLogs, admin)
}

// RequireRole rejects callers whose role ranks below the minimum.
func RequireRole(min model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := handler.ClaimsFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
					Error: apperrors.ErrUnauthorized.Error(),
					Code:  "UNAUTHORIZED",
				})
			}
			if !claims.UserRole().AtLeast(min) {
				return echo.NewHTTPError(http.StatusForbidden, apperrors.ErrorResponse{
					Error: apperrors.ErrForbidden.Error(),
					Code:  "FORBIDDEN",
				})
			}
			return next(c)
		}
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
