// Package events define la salida de eventos confirmados hacia un despachador externo.
package events

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// Publisher entrega un evento ya confirmado. Un fallo de entrega nunca deshace el commit.
type Publisher interface {
	Publish(ctx context.Context, ev entity.Event) error
}

// Multi publica en todos los destinos y agrega los errores.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, ev entity.Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogPublisher escribe cada evento en el log estructurado.
type LogPublisher struct {
	log zerolog.Logger
}

// NewLogPublisher construye el publicador de log.
func NewLogPublisher(log zerolog.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, ev entity.Event) error {
	e := p.log.Info().Str("event", ev.EventType()).Time("occurred_at", ev.OccurredAt())
	switch v := ev.(type) {
	case entity.TransactionCommitted:
		e = e.Str("number", v.Transaction.Number).
			Str("type", v.Transaction.Type).
			Str("material_id", v.Transaction.MaterialID).
			Str("location_id", v.Transaction.LocationID).
			Int64("delta", v.Transaction.Delta).
			Int64("balance_after", v.Transaction.BalanceAfter)
	case entity.OrderStatusChanged:
		e = e.Str("order_number", v.OrderNumber).
			Str("from", v.Entry.FromStatus).
			Str("to", v.Entry.ToStatus)
	}
	e.Msg("evento confirmado")
	return nil
}

// Dispatch publica los eventos en orden; los fallos se registran y no se propagan.
func Dispatch(ctx context.Context, p Publisher, log zerolog.Logger, evs ...entity.Event) {
	if p == nil {
		return
	}
	for _, ev := range evs {
		if err := p.Publish(ctx, ev); err != nil {
			log.Error().Err(err).Str("event", ev.EventType()).Msg("no se pudo entregar el evento")
		}
	}
}
