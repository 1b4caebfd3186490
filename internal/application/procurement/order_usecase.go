package procurement

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/events"
	"github.com/jhoicas/inventario-ledger/internal/application/ledger"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	domproc "github.com/jhoicas/inventario-ledger/internal/domain/procurement"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// CreateOrderInput datos para crear una orden de compra.
type CreateOrderInput struct {
	SupplierID           string
	OrderDate            time.Time
	ExpectedDeliveryDate *time.Time
	PaymentTerms         string
	Remarks              string
	Operator             string
	Items                []CreateItemInput
}

// CreateItemInput línea de la orden: total = cantidad × precio unitario.
type CreateItemInput struct {
	MaterialID string
	Quantity   int64
	UnitPrice  decimal.Decimal
	Remarks    string
}

// OrderUseCase alta, consulta y cambios de estado manuales de órdenes de compra.
type OrderUseCase struct {
	runner     ledger.TxRunner
	orders     repository.ProcurementOrderReader
	catalog    repository.CatalogRepository
	history    *StatusHistory
	numbers    OrderNumberGenerator
	publisher  events.Publisher
	log        zerolog.Logger
	maxRetries int
	now        func() time.Time
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(
	runner ledger.TxRunner,
	orders repository.ProcurementOrderReader,
	catalog repository.CatalogRepository,
	history *StatusHistory,
	numbers OrderNumberGenerator,
	publisher events.Publisher,
	log zerolog.Logger,
	maxRetries int,
) *OrderUseCase {
	return &OrderUseCase{
		runner:     runner,
		orders:     orders,
		catalog:    catalog,
		history:    history,
		numbers:    numbers,
		publisher:  publisher,
		log:        log,
		maxRetries: maxRetries,
		now:        time.Now,
	}
}

// Create crea la orden en estado draft con su entrada inicial en el historial.
// Materiales inexistentes o inactivos rechazan la orden completa.
func (uc *OrderUseCase) Create(ctx context.Context, in CreateOrderInput) (*entity.ProcurementOrder, error) {
	if strings.TrimSpace(in.SupplierID) == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, it := range in.Items {
		if it.MaterialID == "" || it.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		if it.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
		m, err := uc.catalog.GetMaterial(ctx, it.MaterialID)
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, fmt.Errorf("material %s: %w", it.MaterialID, domain.ErrNotFound)
		}
		if !m.Active {
			return nil, fmt.Errorf("material %s: %w", it.MaterialID, domain.ErrInactiveEntity)
		}
	}

	now := uc.now()
	orderDate := in.OrderDate
	if orderDate.IsZero() {
		orderDate = now
	}

	var (
		order *entity.ProcurementOrder
		entry *entity.StatusEntry
	)
	err := ledger.Retry(ctx, uc.maxRetries, func() error {
		order = &entity.ProcurementOrder{
			ID:                   uuid.New().String(),
			Number:               uc.numbers.NextOrder(),
			SupplierID:           in.SupplierID,
			Status:               entity.OrderStatusDraft,
			OrderDate:            orderDate,
			ExpectedDeliveryDate: in.ExpectedDeliveryDate,
			PaymentTerms:         in.PaymentTerms,
			Remarks:              in.Remarks,
			CreatedBy:            in.Operator,
			TotalAmount:          decimal.Zero,
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		for _, it := range in.Items {
			total := it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity))
			order.Items = append(order.Items, entity.ProcurementItem{
				ID:         uuid.New().String(),
				OrderID:    order.ID,
				MaterialID: it.MaterialID,
				Quantity:   it.Quantity,
				UnitPrice:  it.UnitPrice,
				TotalPrice: total,
				Remarks:    it.Remarks,
			})
			order.TotalAmount = order.TotalAmount.Add(total)
		}

		return uc.runner.Run(ctx, func(repos repository.TxRepos) error {
			if err := repos.Orders.Create(ctx, order); err != nil {
				return err
			}
			e, err := uc.history.Append(ctx, repos.StatusHistory, order.ID, "", entity.OrderStatusDraft, in.Operator, domproc.NoteCreated)
			if err != nil {
				return err
			}
			entry = e
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("order_number", order.Number).Int("items", len(order.Items)).Msg("orden de compra creada")
	events.Dispatch(ctx, uc.publisher, uc.log, entity.OrderStatusChanged{OrderNumber: order.Number, Entry: *entry})
	return order, nil
}

// ChangeStatus aplica un cambio de estado manual (submitted, confirmed, shipping, cancelled).
func (uc *OrderUseCase) ChangeStatus(ctx context.Context, orderID, toStatus, operator, note string) (*entity.ProcurementOrder, error) {
	if orderID == "" {
		return nil, domain.ErrInvalidInput
	}
	var (
		order *entity.ProcurementOrder
		entry *entity.StatusEntry
	)
	err := ledger.Retry(ctx, uc.maxRetries, func() error {
		return uc.runner.Run(ctx, func(repos repository.TxRepos) error {
			o, err := repos.Orders.GetForUpdate(ctx, orderID)
			if err != nil {
				return err
			}
			if o == nil {
				return fmt.Errorf("orden %s: %w", orderID, domain.ErrNotFound)
			}
			if err := domproc.ValidateManualTransition(o.Status, toStatus); err != nil {
				return fmt.Errorf("orden %s de %s a %s: %w", o.Number, o.Status, toStatus, err)
			}
			from := o.Status
			o.Status = toStatus
			o.UpdatedAt = uc.now()
			if err := repos.Orders.Save(ctx, o); err != nil {
				return err
			}
			e, err := uc.history.Append(ctx, repos.StatusHistory, o.ID, from, toStatus, operator, note)
			if err != nil {
				return err
			}
			order, entry = o, e
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("order_number", order.Number).Str("from", entry.FromStatus).Str("to", entry.ToStatus).Msg("estado de orden actualizado")
	events.Dispatch(ctx, uc.publisher, uc.log, entity.OrderStatusChanged{OrderNumber: order.Number, Entry: *entry})
	return order, nil
}

// Get busca una orden por id.
func (uc *OrderUseCase) Get(ctx context.Context, id string) (*entity.ProcurementOrder, error) {
	o, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("orden %s: %w", id, domain.ErrNotFound)
	}
	return o, nil
}

// GetByNumber busca una orden por número.
func (uc *OrderUseCase) GetByNumber(ctx context.Context, number string) (*entity.ProcurementOrder, error) {
	o, err := uc.orders.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("orden %s: %w", number, domain.ErrNotFound)
	}
	return o, nil
}

// List lista órdenes con filtros.
func (uc *OrderUseCase) List(ctx context.Context, filter repository.OrderFilter) ([]*entity.ProcurementOrder, error) {
	return uc.orders.List(ctx, filter)
}

// History historial de estados de una orden existente.
func (uc *OrderUseCase) History(ctx context.Context, orderID string) ([]*entity.StatusEntry, error) {
	if _, err := uc.Get(ctx, orderID); err != nil {
		return nil, err
	}
	return uc.history.List(ctx, orderID)
}
