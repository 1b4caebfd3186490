package procurement

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/inventario-ledger/internal/application/events"
	"github.com/jhoicas/inventario-ledger/internal/application/ledger"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	domproc "github.com/jhoicas/inventario-ledger/internal/domain/procurement"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// Estado de calidad de una línea de recepción.
const (
	QualityQualified   = "qualified"
	QualityUnqualified = "unqualified"
)

// OverReceiptPolicy qué hacer cuando lo recibido supera lo ordenado.
type OverReceiptPolicy string

const (
	OverReceiptAllow  OverReceiptPolicy = "allow"  // se acepta y se registra un warning
	OverReceiptReject OverReceiptPolicy = "reject" // la recepción completa falla con ErrOverReceipt
)

// ReceiptLine una entrega reportada contra un ítem de la orden.
type ReceiptLine struct {
	ItemID         string
	Quantity       int64
	LocationID     string
	Batch          string
	QualityStatus  string
	ProductionDate *time.Time
	ExpiryDate     *time.Time
}

// ReceiveGoodsInput recepción de mercancía de una orden.
type ReceiveGoodsInput struct {
	OrderID     string
	Operator    string
	ReceiptDate time.Time
	Remark      string
	Lines       []ReceiptLine
}

// ReceiveGoodsResult orden actualizada, transacciones de entrada y entrada del historial.
type ReceiveGoodsResult struct {
	Order        *entity.ProcurementOrder
	Transactions []*entity.Transaction
	StatusEntry  *entity.StatusEntry
}

// FulfillmentEngine recepción de mercancía contra órdenes de compra.
// Una llamada a ReceiveGoods es una única unidad transaccional para todas sus líneas.
type FulfillmentEngine struct {
	runner   ledger.TxRunner
	txLog    *ledger.TransactionLog
	history  *StatusHistory
	policy   OverReceiptPolicy
	pub      events.Publisher
	log      zerolog.Logger
	tracer   trace.Tracer
	receipts metric.Int64Counter
	now      func() time.Time
}

// NewFulfillmentEngine construye el motor de recepción.
func NewFulfillmentEngine(
	runner ledger.TxRunner,
	txLog *ledger.TransactionLog,
	history *StatusHistory,
	policy OverReceiptPolicy,
	publisher events.Publisher,
	log zerolog.Logger,
) *FulfillmentEngine {
	if policy == "" {
		policy = OverReceiptAllow
	}
	receipts, _ := otel.Meter("github.com/jhoicas/inventario-ledger/procurement").
		Int64Counter("procurement.receipts", metric.WithDescription("Recepciones de mercancía confirmadas"))
	return &FulfillmentEngine{
		runner:   runner,
		txLog:    txLog,
		history:  history,
		policy:   policy,
		pub:      publisher,
		log:      log,
		tracer:   otel.Tracer("github.com/jhoicas/inventario-ledger/procurement"),
		receipts: receipts,
		now:      time.Now,
	}
}

// ReceiveGoods suma lo recibido a cada ítem, registra entradas de inventario para las líneas
// calificadas y deriva el estado de la orden (completed si todo está recibido, si no received).
// Si cualquier línea falla no se confirma nada de esta llamada.
func (e *FulfillmentEngine) ReceiveGoods(ctx context.Context, in ReceiveGoodsInput) (*ReceiveGoodsResult, error) {
	ctx, span := e.tracer.Start(ctx, "FulfillmentEngine.ReceiveGoods", trace.WithAttributes(
		attribute.String("order.id", in.OrderID),
		attribute.Int("receipt.lines", len(in.Lines)),
	))
	defer span.End()

	if err := validateReceipt(in); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	receiptDate := in.ReceiptDate
	if receiptDate.IsZero() {
		receiptDate = e.now()
	}

	// Entradas en orden de clave: los bloqueos de saldo se toman siempre en el mismo orden.
	posting := make([]ReceiptLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		if l.QualityStatus == QualityQualified {
			l.Batch = entity.NormalizeLabel(l.Batch)
			posting = append(posting, l)
		}
	}

	var (
		result *ReceiveGoodsResult
		over   []string
	)
	err := ledger.Retry(ctx, e.txLog.MaxRetries(), func() error {
		over = over[:0]
		return e.runner.Run(ctx, func(repos repository.TxRepos) error {
			order, err := repos.Orders.GetForUpdate(ctx, in.OrderID)
			if err != nil {
				return err
			}
			if order == nil {
				return fmt.Errorf("orden %s: %w", in.OrderID, domain.ErrNotFound)
			}
			if !domproc.CanReceive(order.Status) {
				return fmt.Errorf("orden %s en estado %s no admite recepción: %w", order.Number, order.Status, domain.ErrInvalidTransition)
			}

			materialOf := make(map[string]string, len(in.Lines))
			for _, l := range in.Lines {
				item := order.Item(l.ItemID)
				if item == nil {
					return fmt.Errorf("ítem %s no pertenece a la orden %s: %w", l.ItemID, order.Number, domain.ErrNotFound)
				}
				if l.Quantity > math.MaxInt64-item.ReceivedQuantity {
					return fmt.Errorf("ítem %s: recibido %d + %d excede el máximo representable: %w",
						item.ID, item.ReceivedQuantity, l.Quantity, domain.ErrInvalidQuantity)
				}
				item.ReceivedQuantity += l.Quantity
				if item.ReceivedQuantity > item.Quantity {
					if e.policy == OverReceiptReject {
						return fmt.Errorf("ítem %s: recibido %d de %d: %w", item.ID, item.ReceivedQuantity, item.Quantity, domain.ErrOverReceipt)
					}
					over = append(over, item.ID)
				}
				materialOf[l.ItemID] = item.MaterialID
			}

			sort.SliceStable(posting, func(i, j int) bool {
				a := entity.BalanceKey{MaterialID: materialOf[posting[i].ItemID], LocationID: posting[i].LocationID, Batch: posting[i].Batch}
				b := entity.BalanceKey{MaterialID: materialOf[posting[j].ItemID], LocationID: posting[j].LocationID, Batch: posting[j].Batch}
				return a.Less(b)
			})

			reason := in.Remark
			if reason == "" {
				reason = "recepción orden " + order.Number
			}
			txns := make([]*entity.Transaction, 0, len(posting))
			for _, l := range posting {
				t, err := e.txLog.RecordInTx(ctx, repos, ledger.RecordInput{
					Type:     entity.TransactionTypeInbound,
					Key:      entity.BalanceKey{MaterialID: materialOf[l.ItemID], LocationID: l.LocationID, Batch: l.Batch},
					Delta:    l.Quantity,
					OrderID:  order.ID,
					ItemID:   l.ItemID,
					Operator: in.Operator,
					Reason:   reason,
					Lot:      entity.LotDates{ProductionDate: l.ProductionDate, ExpiryDate: l.ExpiryDate},
				})
				if err != nil {
					return err
				}
				txns = append(txns, t)
			}

			from := order.Status
			status, note := domproc.ReceiptOutcome(order)
			order.Status = status
			order.ActualDeliveryDate = &receiptDate
			order.UpdatedAt = e.now()
			if err := repos.Orders.Save(ctx, order); err != nil {
				return err
			}
			entry, err := e.history.Append(ctx, repos.StatusHistory, order.ID, from, status, in.Operator, note)
			if err != nil {
				return err
			}
			result = &ReceiveGoodsResult{Order: order, Transactions: txns, StatusEntry: entry}
			return nil
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	for _, id := range over {
		e.log.Warn().Str("order_number", result.Order.Number).Str("item_id", id).Msg("sobre-recepción aceptada")
	}
	e.receipts.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", result.Order.Status)))
	e.log.Info().
		Str("order_number", result.Order.Number).
		Str("status", result.Order.Status).
		Int("transactions", len(result.Transactions)).
		Msg("recepción registrada")

	evs := make([]entity.Event, 0, len(result.Transactions)+1)
	for _, t := range result.Transactions {
		evs = append(evs, entity.TransactionCommitted{Transaction: *t})
	}
	evs = append(evs, entity.OrderStatusChanged{OrderNumber: result.Order.Number, Entry: *result.StatusEntry})
	events.Dispatch(ctx, e.pub, e.log, evs...)
	return result, nil
}

func validateReceipt(in ReceiveGoodsInput) error {
	if in.OrderID == "" || len(in.Lines) == 0 {
		return domain.ErrInvalidInput
	}
	for _, l := range in.Lines {
		if l.ItemID == "" {
			return domain.ErrInvalidInput
		}
		if l.Quantity <= 0 {
			return fmt.Errorf("ítem %s: %w", l.ItemID, domain.ErrInvalidQuantity)
		}
		switch l.QualityStatus {
		case QualityQualified:
			if l.LocationID == "" {
				return fmt.Errorf("ítem %s sin ubicación: %w", l.ItemID, domain.ErrInvalidInput)
			}
		case QualityUnqualified:
		default:
			return fmt.Errorf("estado de calidad %q: %w", l.QualityStatus, domain.ErrInvalidInput)
		}
	}
	return nil
}
