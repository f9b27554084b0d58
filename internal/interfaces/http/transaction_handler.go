package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/serial-track/internal/application/coordinator"
	"github.com/jhoicas/serial-track/internal/application/dto"
)

// TransactionHandler expone los ganchos del ciclo de transacción del anfitrión
// (validar, confirmar, anular) sobre HTTP.
type TransactionHandler struct {
	coord *coordinator.Coordinator
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(coord *coordinator.Coordinator) *TransactionHandler {
	return &TransactionHandler{coord: coord}
}

// Validate valida las líneas serializadas sin escribir nada (gancho prewrite).
func (h *TransactionHandler) Validate(c *fiber.Ctx) error {
	var in dto.TransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.coord.PreWrite(c.Context(), in.ToContext()); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "transacción válida"})
}

// Commit aplica las líneas serializadas de una transacción ya escrita por el
// anfitrión (gancho postwrite). Repetir el commit de la misma transacción es
// un no-op exitoso.
func (h *TransactionHandler) Commit(c *fiber.Ctx) error {
	var in dto.TransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.coord.PostWrite(c.Context(), in.ToContext()); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "transacción asentada"})
}

// Reverse anula los efectos de una transacción (gancho prevoid). Anular una
// transacción sin asientos vivos es un no-op exitoso.
func (h *TransactionHandler) Reverse(c *fiber.Ctx) error {
	transType := parseIntParam(c, "type")
	transNo := parseIntParam(c, "no")
	if transType < 0 || transNo < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAMS", Message: "type y no deben ser numéricos"})
	}
	if err := h.coord.PreVoid(c.Context(), transType, transNo); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "transacción anulada"})
}
