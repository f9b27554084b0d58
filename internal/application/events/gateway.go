package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/jhoicas/serial-track/pkg/logger"
)

// Handler suscriptor de un tipo de evento.
type Handler func(ctx context.Context, ev Event) error

// Gateway despachador de eventos del módulo: instancia explícita inyectada a
// quien la necesite, nunca estado global de proceso. Las suscripciones se
// resuelven al arranque; la entrega es síncrona, en orden de registro y
// at-least-once dentro de la fase post-commit del caller.
type Gateway struct {
	mu       sync.RWMutex
	handlers map[Kind][]Handler
	log      *logger.Logger
}

// NewGateway construye el gateway.
func NewGateway(log *logger.Logger) *Gateway {
	return &Gateway{
		handlers: make(map[Kind][]Handler),
		log:      log,
	}
}

// Subscribe registra un handler al final de la lista del tipo de evento.
func (g *Gateway) Subscribe(kind Kind, h Handler) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.handlers[kind] = append(g.handlers[kind], h)
}

// Publish entrega el evento a todos los suscriptores del tipo. El fallo de un
// suscriptor se registra y se reporta en el error agregado, pero no corta la
// entrega al resto ni deshace jamás una mutación ya confirmada del libro:
// decidir qué hacer con el error es del caller.
func (g *Gateway) Publish(ctx context.Context, ev Event) error {
	g.mu.RLock()
	hs := g.handlers[ev.Kind()]
	g.mu.RUnlock()

	// id de entrega para correlacionar los logs de todos los suscriptores
	deliveryID := uuid.NewString()

	var errs []error
	for i, h := range hs {
		if err := h(ctx, ev); err != nil {
			g.log.Error().
				Err(err).
				Str("event", string(ev.Kind())).
				Str("delivery_id", deliveryID).
				Int("handler", i).
				Msg("suscriptor de evento falló")
			errs = append(errs, fmt.Errorf("handler %d de %s: %w", i, ev.Kind(), err))
		}
	}
	return errors.Join(errs...)
}
