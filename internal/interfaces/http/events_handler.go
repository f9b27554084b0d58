package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/serial-track/internal/application/dto"
	"github.com/jhoicas/serial-track/internal/application/events"
)

// EventsHandler webhook de entrada para el colaborador de gestión de activos:
// traduce el body a un evento tipado y lo publica en el gateway.
type EventsHandler struct {
	gw *events.Gateway
}

// NewEventsHandler construye el handler.
func NewEventsHandler(gw *events.Gateway) *EventsHandler {
	return &EventsHandler{gw: gw}
}

// PublishAssetsEvent recibe un evento del módulo de activos y lo entrega a los
// suscriptores registrados.
func (h *EventsHandler) PublishAssetsEvent(c *fiber.Ctx) error {
	var in dto.AssetsEventRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	ev, err := in.ToEvent()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "UNKNOWN_KIND", Message: "kind de evento desconocido"})
	}
	if err := h.gw.Publish(c.Context(), ev); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"message": "evento procesado"})
}
