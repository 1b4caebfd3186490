package ledger

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/jhoicas/inventario-ledger/ledger"

var (
	instrumentsOnce sync.Once
	committed       metric.Int64Counter
	rejected        metric.Int64Counter
	retries         metric.Int64Counter
)

func tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

func initInstruments() {
	instrumentsOnce.Do(func() {
		m := otel.Meter(instrumentationName)
		committed, _ = m.Int64Counter("ledger.transactions.committed",
			metric.WithDescription("Transacciones de inventario confirmadas"))
		rejected, _ = m.Int64Counter("ledger.transactions.rejected",
			metric.WithDescription("Movimientos rechazados por stock insuficiente"))
		retries, _ = m.Int64Counter("ledger.retries",
			metric.WithDescription("Reintentos por número duplicado o conflicto de concurrencia"))
	})
}

func committedCounter() metric.Int64Counter { initInstruments(); return committed }
func rejectedCounter() metric.Int64Counter  { initInstruments(); return rejected }
func retriesCounter() metric.Int64Counter   { initInstruments(); return retries }
