package http

import (
	"bytes"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// InventoryHandler maneja las peticiones HTTP del log de eventos, el ledger y la inteligencia (protegido).
type InventoryHandler struct {
	record  *inventory.RecordEventUseCase
	ledger  *inventory.LedgerUseCase
	imports *inventory.ImportUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(record *inventory.RecordEventUseCase, ledger *inventory.LedgerUseCase, imports *inventory.ImportUseCase) *InventoryHandler {
	return &InventoryHandler{record: record, ledger: ledger, imports: imports}
}

// RecordEvent godoc
// @Summary      Registrar evento de stock
// @Description  Valida el evento (RECEIVE, MOVE, DELIVER, RETURN) y lo agrega al log.
//
//	performed_by se toma del token.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordEventRequest  true  "item_id, event_type, quantity, from_location / to_location según el tipo"
// @Success      201   {object}  dto.StockEventDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/inventory/events [post]
func (h *InventoryHandler) RecordEvent(c *fiber.Ctx) error {
	var in dto.RecordEventRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.record.Record(c.Context(), PerformedBy(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListEvents godoc
// @Summary      Historial de eventos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        item_id  query  string  false  "Filtrar por ítem"
// @Success      200  {array}   dto.StockEventDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/inventory/events [get]
func (h *InventoryHandler) ListEvents(c *fiber.Ctx) error {
	list, err := h.ledger.Events(c.Context(), c.Query("item_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":  len(list),
		"events": list,
	})
}

// EventTypes godoc
// @Summary      Tabla de tipos de evento
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.EventTypeDTO
// @Router       /api/inventory/event-types [get]
func (h *InventoryHandler) EventTypes(c *fiber.Ctx) error {
	types := entity.EventTypes()
	out := make([]dto.EventTypeDTO, 0, len(types))
	for _, t := range types {
		out = append(out, dto.EventTypeDTO{
			Type:         string(t.Type),
			Label:        t.Label,
			Effect:       string(t.Effect),
			RequiresFrom: t.RequiresFrom,
			RequiresTo:   t.RequiresTo,
		})
	}
	return c.JSON(out)
}

// Ledger godoc
// @Summary      Estado derivado de todos los ítems
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.LedgerDTO
// @Router       /api/inventory/ledger [get]
func (h *InventoryHandler) Ledger(c *fiber.Ctx) error {
	out, err := h.ledger.Ledger(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Item godoc
// @Summary      Estado e historial de un ítem
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        item_id  path  string  true  "ID del ítem"
// @Success      200  {object}  dto.ItemDetailDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/ledger/{item_id} [get]
func (h *InventoryHandler) Item(c *fiber.Ctx) error {
	out, err := h.ledger.Item(c.Context(), c.Params("item_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Alerts godoc
// @Summary      Alertas de stock bajo y crítico
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        low       query  int  false  "Umbral bajo (por defecto 20)"
// @Param        critical  query  int  false  "Umbral crítico (por defecto 5)"
// @Success      200  {object}  dto.AlertsDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/alerts [get]
func (h *InventoryHandler) Alerts(c *fiber.Ctx) error {
	low, err := queryOptInt64(c, "low")
	if err != nil {
		return writeError(c, err)
	}
	critical, err := queryOptInt64(c, "critical")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.ledger.Alerts(c.Context(), inventory.AlertsQuery{Low: low, Critical: critical})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// FastMovers godoc
// @Summary      Ítems con más entregas en la ventana
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        window_days  query  int  false  "Ventana en días (por defecto 30)"
// @Param        top          query  int  false  "Cantidad de ítems (por defecto 5)"
// @Success      200  {object}  dto.FastMoversDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/fast-movers [get]
func (h *InventoryHandler) FastMovers(c *fiber.Ctx) error {
	window, err := queryInt(c, "window_days")
	if err != nil {
		return writeError(c, err)
	}
	top, err := queryInt(c, "top")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.ledger.FastMovers(c.Context(), window, top)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ReorderRisk godoc
// @Summary      Riesgo de reorden por ítem
// @Description  Días estimados hasta agotar el stock al ritmo de entregas de la ventana.
//
//	days_to_zero es null cuando no hubo entregas.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        window_days  query  int  false  "Ventana en días (por defecto 30)"
// @Success      200  {object}  dto.ReorderRiskDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/reorder-risk [get]
func (h *InventoryHandler) ReorderRisk(c *fiber.Ctx) error {
	window, err := queryInt(c, "window_days")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.ledger.ReorderRisk(c.Context(), window)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Alertas, fast movers y riesgo en una sola respuesta
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SummaryDTO
// @Router       /api/inventory/summary [get]
func (h *InventoryHandler) Summary(c *fiber.Ctx) error {
	out, err := h.ledger.Summary(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Reporte PDF de estado de stock
// @Tags         inventory
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/inventory/report.pdf [get]
func (h *InventoryHandler) Report(c *fiber.Ctx) error {
	pdf, err := h.ledger.Report(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="estado-stock.pdf"`)
	return c.Send(pdf)
}

// Import godoc
// @Summary      Importar historial NDJSON
// @Description  Una línea JSON por evento con los campos del export original.
//
//	mode=validate (defecto) aplica las reglas de registro; mode=raw migra tal cual.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       plain
// @Produce      json
// @Param        mode  query  string  false  "validate | raw"
// @Success      200  {object}  dto.ImportResultDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/import [post]
func (h *InventoryHandler) Import(c *fiber.Ctx) error {
	mode, err := inventory.ParseImportMode(c.Query("mode"))
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.imports.Import(c.Context(), bytes.NewReader(c.Body()), mode)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// queryInt lee un entero opcional; ausente → 0.
func queryInt(c *fiber.Ctx, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ErrInvalidInput
	}
	return n, nil
}

// queryOptInt64 lee un entero opcional; ausente → nil, así "0" se distingue de "no enviado".
func queryOptInt64(c *fiber.Ctx, key string) (*int64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	return &n, nil
}

// writeError traduce errores de aplicación a respuestas HTTP.
func writeError(c *fiber.Ctx, err error) error {
	if code := domain.ValidationCode(err); code != "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
	}
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ítem sin eventos"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
