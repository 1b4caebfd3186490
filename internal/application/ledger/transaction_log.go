package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/inventario-ledger/internal/application/events"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// RecordInput datos de un movimiento sobre un único saldo.
// Delta lleva signo. Para stocktake se usa Counted y el delta se calcula bajo bloqueo.
type RecordInput struct {
	Type           string
	AdjustmentKind string
	Key            entity.BalanceKey
	Delta          int64
	Counted        *int64
	FromLocationID string
	ToLocationID   string
	OrderID        string
	ItemID         string
	Operator       string
	Reason         string
	Lot            entity.LotDates
}

// TransferInput traslado de una cantidad entre dos ubicaciones (mismo material y lote).
type TransferInput struct {
	MaterialID     string
	FromLocationID string
	ToLocationID   string
	Batch          string
	Quantity       int64
	Operator       string
	Reason         string
}

// TransactionLog único punto de entrada para cambiar saldos: cada cambio produce exactamente
// una transacción inmutable en la misma transacción de BD.
type TransactionLog struct {
	ledger     *Ledger
	runner     TxRunner
	catalog    repository.CatalogRepository
	reader     repository.TransactionReader
	numbers    NumberGenerator
	publisher  events.Publisher
	log        zerolog.Logger
	maxRetries int
	now        func() time.Time
}

// NewTransactionLog construye el registro de transacciones.
func NewTransactionLog(
	ledger *Ledger,
	runner TxRunner,
	catalog repository.CatalogRepository,
	reader repository.TransactionReader,
	numbers NumberGenerator,
	publisher events.Publisher,
	log zerolog.Logger,
	maxRetries int,
) *TransactionLog {
	return &TransactionLog{
		ledger:     ledger,
		runner:     runner,
		catalog:    catalog,
		reader:     reader,
		numbers:    numbers,
		publisher:  publisher,
		log:        log,
		maxRetries: maxRetries,
		now:        time.Now,
	}
}

// MaxRetries intentos configurados para la unidad transaccional.
func (l *TransactionLog) MaxRetries() int { return l.maxRetries }

// Record registra un movimiento en su propia transacción de BD, con reintento acotado
// ante número duplicado o conflicto de concurrencia. Publica TransactionCommitted tras el commit.
func (l *TransactionLog) Record(ctx context.Context, in RecordInput) (*entity.Transaction, error) {
	ctx, span := tracer().Start(ctx, "TransactionLog.Record", trace.WithAttributes(
		attribute.String("txn.type", in.Type),
		attribute.String("material.id", in.Key.MaterialID),
		attribute.String("location.id", in.Key.LocationID),
		attribute.Int64("txn.delta", in.Delta),
	))
	defer span.End()

	var txn *entity.Transaction
	err := Retry(ctx, l.maxRetries, func() error {
		return l.runner.Run(ctx, func(repos repository.TxRepos) error {
			t, err := l.RecordInTx(ctx, repos, in)
			if err != nil {
				return err
			}
			txn = t
			return nil
		})
	})
	if err != nil {
		l.fail(ctx, span, err, in.Type)
		return nil, err
	}

	l.committed(ctx, txn)
	events.Dispatch(ctx, l.publisher, l.log, entity.TransactionCommitted{Transaction: *txn})
	return txn, nil
}

// RecordInTx registra el movimiento usando los repositorios de una transacción abierta por el caller.
// No publica eventos: el caller lo hace después de su commit.
func (l *TransactionLog) RecordInTx(ctx context.Context, repos repository.TxRepos, in RecordInput) (*entity.Transaction, error) {
	in.Key = in.Key.Normalized()
	if err := validateRecord(in); err != nil {
		return nil, err
	}
	if err := l.CheckTargets(ctx, in.Key.MaterialID, in.Key.LocationID); err != nil {
		return nil, err
	}

	delta := in.Delta
	if in.Type == entity.TransactionTypeStocktake {
		b, err := repos.Balances.GetForUpdate(ctx, in.Key, in.Lot)
		if err != nil {
			return nil, err
		}
		if delta, err = inventory.StocktakeDelta(b.Quantity, *in.Counted); err != nil {
			return nil, err
		}
	}

	txn := &entity.Transaction{
		ID:             uuid.New().String(),
		Number:         l.numbers.Next(in.Type),
		Type:           in.Type,
		AdjustmentKind: in.AdjustmentKind,
		MaterialID:     in.Key.MaterialID,
		LocationID:     in.Key.LocationID,
		Batch:          in.Key.Batch,
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		Delta:          delta,
		OrderID:        in.OrderID,
		ItemID:         in.ItemID,
		Operator:       in.Operator,
		Reason:         in.Reason,
		CreatedAt:      l.now(),
	}

	bal, err := l.ledger.adjust(ctx, repos.Balances, in.Key, delta, txn.ID, in.Lot)
	if err != nil {
		return nil, err
	}
	txn.BalanceID = bal.ID
	txn.BalanceAfter = bal.Quantity

	if err := repos.Transactions.Create(ctx, txn); err != nil {
		return nil, err
	}
	return txn, nil
}

// Transfer mueve cantidad de una ubicación a otra: dos transacciones (salida en origen,
// entrada en destino) en una sola unidad atómica. Los saldos se bloquean en orden de clave.
func (l *TransactionLog) Transfer(ctx context.Context, in TransferInput) ([]*entity.Transaction, error) {
	ctx, span := tracer().Start(ctx, "TransactionLog.Transfer", trace.WithAttributes(
		attribute.String("material.id", in.MaterialID),
		attribute.String("location.from", in.FromLocationID),
		attribute.String("location.to", in.ToLocationID),
		attribute.Int64("txn.quantity", in.Quantity),
	))
	defer span.End()

	if in.MaterialID == "" || in.FromLocationID == "" || in.ToLocationID == "" || in.FromLocationID == in.ToLocationID {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	from := entity.NewBalanceKey(in.MaterialID, in.FromLocationID, in.Batch)
	to := entity.NewBalanceKey(in.MaterialID, in.ToLocationID, in.Batch)
	legs := []RecordInput{
		{Key: from, Delta: -in.Quantity},
		{Key: to, Delta: in.Quantity},
	}
	for i := range legs {
		legs[i].Type = entity.TransactionTypeTransfer
		legs[i].FromLocationID = in.FromLocationID
		legs[i].ToLocationID = in.ToLocationID
		legs[i].Operator = in.Operator
		legs[i].Reason = in.Reason
	}

	var out []*entity.Transaction
	err := Retry(ctx, l.maxRetries, func() error {
		out = out[:0]
		return l.runner.Run(ctx, func(repos repository.TxRepos) error {
			if err := LockKeys(ctx, repos.Balances, from, to); err != nil {
				return err
			}
			for _, leg := range legs {
				t, err := l.RecordInTx(ctx, repos, leg)
				if err != nil {
					return err
				}
				out = append(out, t)
			}
			return nil
		})
	})
	if err != nil {
		l.fail(ctx, span, err, entity.TransactionTypeTransfer)
		return nil, err
	}

	evs := make([]entity.Event, 0, len(out))
	for _, t := range out {
		l.committed(ctx, t)
		evs = append(evs, entity.TransactionCommitted{Transaction: *t})
	}
	events.Dispatch(ctx, l.publisher, l.log, evs...)
	return out, nil
}

// GetByNumber busca una transacción confirmada por número.
func (l *TransactionLog) GetByNumber(ctx context.Context, number string) (*entity.Transaction, error) {
	t, err := l.reader.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("transacción %s: %w", number, domain.ErrNotFound)
	}
	return t, nil
}

// List lista transacciones en orden de commit.
func (l *TransactionLog) List(ctx context.Context, filter repository.TransactionFilter) ([]*entity.Transaction, error) {
	if filter.Batch != nil {
		batch := entity.NormalizeLabel(*filter.Batch)
		filter.Batch = &batch
	}
	return l.reader.List(ctx, filter)
}

// CheckTargets valida que material y ubicación existan y estén activos.
// Los inactivos siguen visibles en consultas pero no reciben movimientos nuevos.
func (l *TransactionLog) CheckTargets(ctx context.Context, materialID, locationID string) error {
	m, err := l.catalog.GetMaterial(ctx, materialID)
	if err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("material %s: %w", materialID, domain.ErrNotFound)
	}
	if !m.Active {
		return fmt.Errorf("material %s: %w", materialID, domain.ErrInactiveEntity)
	}
	loc, err := l.catalog.GetLocation(ctx, locationID)
	if err != nil {
		return err
	}
	if loc == nil {
		return fmt.Errorf("ubicación %s: %w", locationID, domain.ErrNotFound)
	}
	if !loc.Active {
		return fmt.Errorf("ubicación %s: %w", locationID, domain.ErrInactiveEntity)
	}
	return nil
}

// LockKeys bloquea los saldos en orden total de clave para evitar interbloqueos
// entre unidades que tocan varias claves.
func LockKeys(ctx context.Context, repo repository.BalanceRepository, keys ...entity.BalanceKey) error {
	sorted := append([]entity.BalanceKey(nil), keys...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })
	for i, k := range sorted {
		if i > 0 && k == sorted[i-1] {
			continue
		}
		if _, err := repo.GetForUpdate(ctx, k, entity.LotDates{}); err != nil {
			return err
		}
	}
	return nil
}

func (l *TransactionLog) committed(ctx context.Context, t *entity.Transaction) {
	committedCounter().Add(ctx, 1, metric.WithAttributes(attribute.String("txn.type", t.Type)))
	l.log.Debug().
		Str("number", t.Number).
		Str("type", t.Type).
		Str("balance_key", t.Key().String()).
		Int64("delta", t.Delta).
		Int64("balance_after", t.BalanceAfter).
		Msg("transacción registrada")
}

func (l *TransactionLog) fail(ctx context.Context, span trace.Span, err error, txType string) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	var ise *domain.InsufficientStockError
	if errors.As(err, &ise) {
		rejectedCounter().Add(ctx, 1, metric.WithAttributes(attribute.String("txn.type", txType)))
		l.log.Warn().
			Str("material_id", ise.MaterialID).
			Str("location_id", ise.LocationID).
			Str("batch", ise.Batch).
			Int64("requested", ise.Requested).
			Int64("available", ise.Available).
			Msg("movimiento rechazado por stock insuficiente")
	}
}

func validateRecord(in RecordInput) error {
	if !entity.IsValidTransactionType(in.Type) {
		return domain.ErrInvalidInput
	}
	if in.Key.MaterialID == "" || in.Key.LocationID == "" {
		return domain.ErrInvalidInput
	}
	switch in.Type {
	case entity.TransactionTypeStocktake:
		if in.Counted == nil || *in.Counted < 0 {
			return domain.ErrInvalidQuantity
		}
	case entity.TransactionTypeInbound:
		if in.Delta <= 0 {
			return domain.ErrInvalidQuantity
		}
	case entity.TransactionTypeOutbound, entity.TransactionTypeScrap:
		if in.Delta >= 0 {
			return domain.ErrInvalidQuantity
		}
	default:
		if in.Delta == 0 {
			return domain.ErrInvalidQuantity
		}
	}
	return nil
}
