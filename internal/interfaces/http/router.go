package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/serial-track/internal/application/coordinator"
	"github.com/jhoicas/serial-track/internal/application/events"
	"github.com/jhoicas/serial-track/internal/application/lifecycle"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Engine      *lifecycle.Engine
	Coordinator *coordinator.Coordinator
	Gateway     *events.Gateway
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Health (público)
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Registro de seriales (protegido). Las rutas fijas van antes de las
	// paramétricas para que "stats" y "generate" no se tomen por stock_id.
	serials := protected.Group("/serials")
	serialHandler := NewSerialHandler(deps.Engine)
	serials.Post("/", serialHandler.Create)
	serials.Post("/generate", serialHandler.Generate)
	serials.Get("/", serialHandler.List)
	serials.Get("/stats", serialHandler.Stats)
	serials.Get("/:stock_id/:serial_no", serialHandler.Get)
	serials.Get("/:stock_id/:serial_no/movements", serialHandler.Movements)
	serials.Get("/:stock_id/:serial_no/attributes", serialHandler.Attributes)
	serials.Put("/:stock_id/:serial_no/attributes", serialHandler.SetAttribute)

	// Ganchos del ciclo de transacción del anfitrión (protegido)
	transactions := protected.Group("/transactions")
	transactionHandler := NewTransactionHandler(deps.Coordinator)
	transactions.Post("/validate", transactionHandler.Validate)
	transactions.Post("/commit", transactionHandler.Commit)
	transactions.Post("/:type/:no/reverse", transactionHandler.Reverse)

	// Webhook de eventos del módulo de activos (protegido)
	eventsGroup := protected.Group("/events")
	eventsHandler := NewEventsHandler(deps.Gateway)
	eventsGroup.Post("/assets", eventsHandler.PublishAssetsEvent)
}
