package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	RecordEvent *inventory.RecordEventUseCase
	Ledger      *inventory.LedgerUseCase
	Import      *inventory.ImportUseCase
	JWTSecret   string
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	inv := api.Group("/inventory")
	h := NewInventoryHandler(deps.RecordEvent, deps.Ledger, deps.Import)

	inv.Get("/event-types", h.EventTypes)
	inv.Post("/events", h.RecordEvent)
	inv.Get("/events", h.ListEvents)
	inv.Post("/import", h.Import)

	inv.Get("/ledger", h.Ledger)
	inv.Get("/ledger/:item_id", h.Item)

	inv.Get("/alerts", h.Alerts)
	inv.Get("/fast-movers", h.FastMovers)
	inv.Get("/reorder-risk", h.ReorderRisk)
	inv.Get("/summary", h.Summary)
	inv.Get("/report.pdf", h.Report)
}
