package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/serial-track/internal/application/dto"
	"github.com/jhoicas/serial-track/internal/application/lifecycle"
	"github.com/jhoicas/serial-track/internal/domain/entity"
	"github.com/jhoicas/serial-track/internal/domain/repository"
)

// SerialHandler maneja las peticiones HTTP del registro de seriales (protegido).
type SerialHandler struct {
	engine *lifecycle.Engine
}

// NewSerialHandler construye el handler.
func NewSerialHandler(engine *lifecycle.Engine) *SerialHandler {
	return &SerialHandler{engine: engine}
}

// Create registra un ítem serializado fuera del flujo de transacciones
// (alta manual, carga inicial).
func (h *SerialHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSerialRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.engine.CreateItem(c.Context(), in.StockID, in.SerialNo, in.Location)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewSerialItemResponse(item))
}

// Generate propone un serial nuevo para un stock_id; no registra nada.
func (h *SerialHandler) Generate(c *fiber.Ctx) error {
	var in dto.GenerateSerialRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	serialNo, err := h.engine.Generate(c.Context(), in.StockID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.GenerateSerialResponse{StockID: in.StockID, SerialNo: serialNo})
}

// List busca ítems por stock_id, serial_no, status y location (todos opcionales).
func (h *SerialHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválido"})
	}
	page.DefaultPage()
	filter := repository.SerialItemFilter{
		StockID:  c.Query("stock_id"),
		SerialNo: c.Query("serial_no"),
		Status:   entity.Status(c.Query("status")),
		Location: c.Query("location"),
	}
	items, err := h.engine.Search(c.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"serials": dto.NewSerialItemResponses(items),
		"page":    dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// Get devuelve un ítem por su par (stock_id, serial_no).
func (h *SerialHandler) Get(c *fiber.Ctx) error {
	item, err := h.engine.GetItem(c.Context(), c.Params("stock_id"), c.Params("serial_no"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewSerialItemResponse(item))
}

// Movements devuelve el historial completo del ítem, incluidos los asientos
// anulados.
func (h *SerialHandler) Movements(c *fiber.Ctx) error {
	movements, err := h.engine.Movements(c.Context(), c.Params("stock_id"), c.Params("serial_no"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"movements": dto.NewMovementResponses(movements)})
}

// Attributes devuelve los atributos clave/valor del ítem.
func (h *SerialHandler) Attributes(c *fiber.Ctx) error {
	attrs, err := h.engine.Attributes(c.Context(), c.Params("stock_id"), c.Params("serial_no"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"attributes": dto.NewAttributeResponses(attrs)})
}

// SetAttribute fija un atributo del ítem (last-write-wins).
func (h *SerialHandler) SetAttribute(c *fiber.Ctx) error {
	var in dto.AttributeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.engine.SetAttribute(c.Context(), c.Params("stock_id"), c.Params("serial_no"), in.Name, in.Value); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "atributo actualizado"})
}

// Stats devuelve el conteo de ítems por estado (por stock_id o global).
func (h *SerialHandler) Stats(c *fiber.Ctx) error {
	stockID := c.Query("stock_id")
	counts, err := h.engine.Statistics(c.Context(), stockID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewSerialStatsResponse(stockID, counts))
}

// parseIntParam convierte un parámetro de ruta numérico; -1 si es inválido.
func parseIntParam(c *fiber.Ctx, name string) int {
	n, err := strconv.Atoi(c.Params(name))
	if err != nil {
		return -1
	}
	return n
}
