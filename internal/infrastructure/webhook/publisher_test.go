package webhook_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/webhook"
)

func TestPublish_EnviaSobreConTipo(t *testing.T) {
	var got map[string]any
	var eventHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		eventHeader = r.Header.Get("X-Event-Type")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	p := webhook.NewPublisher(srv.URL, 2*time.Second)
	err := p.Publish(context.Background(), entity.TransactionCommitted{Transaction: entity.Transaction{
		Number: "IN20260101-ABC", Type: entity.TransactionTypeInbound, MaterialID: "M1", LocationID: "L1",
		Delta: 100, BalanceAfter: 100, CreatedAt: time.Now(),
	}})
	require.NoError(t, err)

	assert.Equal(t, entity.EventTransactionCommitted, eventHeader)
	assert.Equal(t, entity.EventTransactionCommitted, got["type"])
	assert.NotEmpty(t, got["id"])
	data, ok := got["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "IN20260101-ABC", data["number"])
	assert.Equal(t, float64(100), data["delta"])
}

func TestPublish_ErrorClienteNoSeReintenta(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	p := webhook.NewPublisher(srv.URL, time.Second)
	err := p.Publish(context.Background(), entity.OrderStatusChanged{OrderNumber: "PO1", Entry: entity.StatusEntry{ToStatus: "received"}})
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestPublish_ReintentaAnte5xx(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := webhook.NewPublisher(srv.URL, time.Second)
	err := p.Publish(context.Background(), entity.OrderStatusChanged{OrderNumber: "PO1", Entry: entity.StatusEntry{ToStatus: "received"}})
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}
