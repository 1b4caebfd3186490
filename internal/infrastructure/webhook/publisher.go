// Package webhook entrega eventos confirmados a un despachador externo por HTTP.
package webhook

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/jhoicas/inventario-ledger/internal/application/events"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

var _ events.Publisher = (*Publisher)(nil)

// Envelope cuerpo JSON enviado por cada evento.
type Envelope struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

// Publisher hace POST de cada evento a la URL configurada.
type Publisher struct {
	client *resty.Client
	url    string
}

// NewPublisher construye el publicador con timeout y dos reintentos ante errores de red o 5xx.
func NewPublisher(url string, timeout time.Duration) *Publisher {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond).
		SetHeader("Content-Type", "application/json").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})
	return &Publisher{client: client, url: url}
}

// Publish envía el evento propagando el contexto de traza en los headers.
func (p *Publisher) Publish(ctx context.Context, ev entity.Event) error {
	headers := make(map[string]string)
	otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(headers))

	body := Envelope{
		ID:         uuid.New().String(),
		Type:       ev.EventType(),
		OccurredAt: ev.OccurredAt(),
		Data:       payload(ev),
	}
	resp, err := p.client.R().
		SetContext(ctx).
		SetHeaders(headers).
		SetHeader("X-Event-Type", ev.EventType()).
		SetBody(body).
		Post(p.url)
	if err != nil {
		return fmt.Errorf("webhook %s: %w", ev.EventType(), err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook %s: respuesta %d", ev.EventType(), resp.StatusCode())
	}
	return nil
}

type transactionPayload struct {
	Number         string `json:"number"`
	Seq            int64  `json:"seq"`
	Type           string `json:"type"`
	AdjustmentKind string `json:"adjustment_kind,omitempty"`
	MaterialID     string `json:"material_id"`
	LocationID     string `json:"location_id"`
	Batch          string `json:"batch"`
	Delta          int64  `json:"delta"`
	BalanceAfter   int64  `json:"balance_after"`
	OrderID        string `json:"order_id,omitempty"`
	Operator       string `json:"operator"`
}

type statusPayload struct {
	OrderNumber string `json:"order_number"`
	OrderID     string `json:"order_id"`
	FromStatus  string `json:"from_status"`
	ToStatus    string `json:"to_status"`
	Operator    string `json:"operator"`
	Note        string `json:"note,omitempty"`
}

func payload(ev entity.Event) any {
	switch v := ev.(type) {
	case entity.TransactionCommitted:
		t := v.Transaction
		return transactionPayload{
			Number: t.Number, Seq: t.Seq, Type: t.Type, AdjustmentKind: t.AdjustmentKind,
			MaterialID: t.MaterialID, LocationID: t.LocationID, Batch: t.Batch,
			Delta: t.Delta, BalanceAfter: t.BalanceAfter, OrderID: t.OrderID, Operator: t.Operator,
		}
	case entity.OrderStatusChanged:
		return statusPayload{
			OrderNumber: v.OrderNumber, OrderID: v.Entry.OrderID,
			FromStatus: v.Entry.FromStatus, ToStatus: v.Entry.ToStatus,
			Operator: v.Entry.Operator, Note: v.Entry.Note,
		}
	}
	return ev
}
