package sequence_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/sequence"
)

func TestNext_PrefijoPorTipo(t *testing.T) {
	g, err := sequence.NewGenerator(1)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(g.Next(entity.TransactionTypeInbound), "IN"))
	assert.True(t, strings.HasPrefix(g.Next(entity.TransactionTypeOutbound), "OUT"))
	assert.True(t, strings.HasPrefix(g.Next(entity.TransactionTypeStocktake), "STK"))
	assert.True(t, strings.HasPrefix(g.NextOrder(), "PO"))
}

func TestNext_UnicoEnConcurrencia(t *testing.T) {
	g, err := sequence.NewGenerator(7)
	require.NoError(t, err)

	const n = 2000
	var mu sync.Mutex
	seen := make(map[string]bool, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			num := g.Next(entity.TransactionTypeInbound)
			mu.Lock()
			seen[num] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, seen, n)
}

func TestNewGenerator_NodoFueraDeRango(t *testing.T) {
	_, err := sequence.NewGenerator(5000)
	assert.Error(t, err)
}
