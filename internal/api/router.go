package api

import (
	"fincompare/docs"
	"fincompare/internal/api/handlers"
	"fincompare/pkg/auth"
	"fincompare/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

func SetupRouter(
	authHandler *handlers.AuthHandler,
	catalogHandler *handlers.CatalogHandler,
	fxHandler *handlers.FXHandler,
	chatHandler *handlers.ChatHandler,
	jwtManager *auth.JWTManager,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	_ = docs.SwaggerInfo // ensure docs package is imported and init() is called
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Auth routes (public)
	authGroup := app.Group("/auth")
	authGroup.Post("/signup", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.RefreshToken)
	authGroup.Post("/otp/request", authHandler.RequestOTP)
	authGroup.Post("/otp/verify", authHandler.VerifyOTP)

	// Currency list stays public so the login screen can render pickers.
	app.Get("/api/v1/currencies", fxHandler.Currencies)

	// Protected routes
	protected := app.Group("/api/v1", middleware.AuthMiddleware(jwtManager, appLogger))

	protected.Get("/institutions", catalogHandler.ListInstitutions)
	protected.Get("/institutions/:id", catalogHandler.GetInstitution)
	protected.Get("/institutions/:id/products", catalogHandler.ListInstitutionProducts)
	protected.Get("/products", catalogHandler.ListProducts)
	protected.Get("/products/:id/fees", catalogHandler.ListProductFees)
	protected.Get("/categories", catalogHandler.ListCategories)
	protected.Get("/fees", catalogHandler.ListFees)
	protected.Get("/accounts", catalogHandler.ListAccounts)

	protected.Get("/rates", fxHandler.InstitutionRates)
	protected.Get("/rates/pair", fxHandler.PairRate)
	protected.Get("/rates/popular", fxHandler.PopularRates)
	protected.Get("/rates/convert", fxHandler.Convert)

	protected.Post("/chat", chatHandler.Send)
	protected.Get("/chat/history", chatHandler.History)
	protected.Delete("/chat/history", chatHandler.ClearHistory)
	protected.Get("/chat/suggestions", chatHandler.Suggestions)
	protected.Get("/chat/welcome", chatHandler.Welcome)

	return app
}
