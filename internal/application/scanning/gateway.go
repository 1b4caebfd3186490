// Package scanning es la entrada por código de barras a los movimientos de inventario.
package scanning

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/inventario-ledger/internal/application/catalog"
	"github.com/jhoicas/inventario-ledger/internal/application/ledger"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// ScanInput datos de un escaneo de entrada o salida. Batch y OrderBarcode son opcionales.
type ScanInput struct {
	MaterialBarcode string
	LocationBarcode string
	Quantity        int64
	Batch           string
	OrderBarcode    string
	Operator        string
}

// Gateway resuelve los códigos escaneados y registra el movimiento en el TransactionLog.
// Cada llamada deja una entrada en el historial de escaneo, exitosa o fallida.
type Gateway struct {
	resolver *catalog.Resolver
	txLog    *ledger.TransactionLog
	scans    repository.ScanHistoryRepository
	log      zerolog.Logger
	tracer   trace.Tracer
}

// NewGateway construye la pasarela de escaneo.
func NewGateway(resolver *catalog.Resolver, txLog *ledger.TransactionLog, scans repository.ScanHistoryRepository, log zerolog.Logger) *Gateway {
	return &Gateway{
		resolver: resolver,
		txLog:    txLog,
		scans:    scans,
		log:      log,
		tracer:   otel.Tracer("github.com/jhoicas/inventario-ledger/scanning"),
	}
}

// MaterialInbound entrada de material escaneada.
func (g *Gateway) MaterialInbound(ctx context.Context, in ScanInput) (*entity.Transaction, error) {
	return g.scan(ctx, entity.ScanOperationMaterialInbound, entity.TransactionTypeInbound, in)
}

// MaterialOutbound salida de material escaneada. InsufficientStock se propaga sin cambios.
func (g *Gateway) MaterialOutbound(ctx context.Context, in ScanInput) (*entity.Transaction, error) {
	return g.scan(ctx, entity.ScanOperationMaterialOutbound, entity.TransactionTypeOutbound, in)
}

// Recognize identifica un código de barras.
func (g *Gateway) Recognize(ctx context.Context, token string) (*catalog.Recognition, error) {
	return g.resolver.Recognize(ctx, token)
}

// History historial de escaneo, más recientes primero.
func (g *Gateway) History(ctx context.Context, filter repository.ScanFilter) ([]*entity.ScanRecord, error) {
	return g.scans.List(ctx, filter)
}

func (g *Gateway) scan(ctx context.Context, operation, txType string, in ScanInput) (*entity.Transaction, error) {
	ctx, span := g.tracer.Start(ctx, "Gateway."+operation, trace.WithAttributes(
		attribute.String("scan.material_barcode", in.MaterialBarcode),
		attribute.String("scan.location_barcode", in.LocationBarcode),
		attribute.Int64("scan.quantity", in.Quantity),
	))
	defer span.End()

	txn, err := g.post(ctx, txType, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	g.record(ctx, operation, in, txn, err)
	return txn, err
}

func (g *Gateway) post(ctx context.Context, txType string, in ScanInput) (*entity.Transaction, error) {
	material, err := g.resolver.ResolveMaterial(ctx, in.MaterialBarcode)
	if err != nil {
		return nil, err
	}
	location, err := g.resolver.ResolveLocation(ctx, in.LocationBarcode)
	if err != nil {
		return nil, err
	}
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	var orderID string
	if in.OrderBarcode != "" {
		order, err := g.resolver.ResolveOrder(ctx, in.OrderBarcode)
		if err != nil {
			return nil, err
		}
		orderID = order.ID
	}

	delta := in.Quantity
	if txType == entity.TransactionTypeOutbound {
		delta = -in.Quantity
	}
	return g.txLog.Record(ctx, ledger.RecordInput{
		Type:     txType,
		Key:      entity.NewBalanceKey(material.ID, location.ID, in.Batch),
		Delta:    delta,
		OrderID:  orderID,
		Operator: in.Operator,
		Reason:   "escaneo " + txType,
	})
}

// record escribe el historial aunque el ctx de la petición se haya cancelado.
// Un fallo al escribirlo se registra en log y no cambia el resultado del movimiento.
func (g *Gateway) record(ctx context.Context, operation string, in ScanInput, txn *entity.Transaction, opErr error) {
	rec := &entity.ScanRecord{
		Barcode:         catalog.NormalizeToken(in.MaterialBarcode),
		OperationType:   operation,
		Quantity:        in.Quantity,
		LocationBarcode: catalog.NormalizeToken(in.LocationBarcode),
		OrderBarcode:    catalog.NormalizeToken(in.OrderBarcode),
		Batch:           catalog.NormalizeToken(in.Batch),
		Result:          entity.ScanResultSuccess,
		Operator:        in.Operator,
	}
	if txn != nil {
		rec.TransactionNumber = txn.Number
	}
	if opErr != nil {
		rec.Result = entity.ScanResultFailed
		rec.Remark = opErr.Error()
		ev := g.log.Info()
		if !errors.Is(opErr, domain.ErrNotFound) && !errors.Is(opErr, domain.ErrInsufficientStock) && !errors.Is(opErr, domain.ErrInvalidQuantity) {
			ev = g.log.Warn()
		}
		ev.Err(opErr).Str("operation", operation).Str("barcode", rec.Barcode).Msg("escaneo fallido")
	}
	if err := g.scans.Create(context.WithoutCancel(ctx), rec); err != nil {
		g.log.Error().Err(err).Str("operation", operation).Msg("no se pudo guardar el historial de escaneo")
	}
}
