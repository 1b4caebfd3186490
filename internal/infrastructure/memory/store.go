// Package memory implementa los puertos de repositorio en memoria, con bloqueo por clave
// y commit atómico. Lo usan los tests y el modo STORAGE_DRIVER=memory.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// Store datos confirmados. mu protege los mapas; los bloqueos de fila viven en locks
// y se mantienen hasta el commit o rollback de cada tx.
type Store struct {
	mu sync.RWMutex

	materials map[string]*entity.Material
	locations map[string]*entity.Location
	barcodes  map[string]*entity.Barcode

	balances    map[entity.BalanceKey]*entity.Balance
	txns        []*entity.Transaction
	txnByNumber map[string]*entity.Transaction
	seq         int64

	orders        map[string]*entity.ProcurementOrder
	orderByNumber map[string]string
	history       map[string][]*entity.StatusEntry

	scans []*entity.ScanRecord

	locks *lockTable
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		materials:     make(map[string]*entity.Material),
		locations:     make(map[string]*entity.Location),
		barcodes:      make(map[string]*entity.Barcode),
		balances:      make(map[entity.BalanceKey]*entity.Balance),
		txnByNumber:   make(map[string]*entity.Transaction),
		orders:        make(map[string]*entity.ProcurementOrder),
		orderByNumber: make(map[string]string),
		history:       make(map[string][]*entity.StatusEntry),
		locks:         newLockTable(),
	}
}

// Run ejecuta fn en una transacción: escrituras en staging, Commit si fn no falla.
func (s *Store) Run(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	t := s.begin()
	defer t.release()

	if err := fn(t.repos()); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return t.commit()
}

// Balances lector de saldos confirmados.
func (s *Store) Balances() repository.BalanceReader { return balanceReader{s} }

// Transactions lector de transacciones confirmadas.
func (s *Store) Transactions() repository.TransactionReader { return transactionReader{s} }

// Orders lector de órdenes de compra.
func (s *Store) Orders() repository.ProcurementOrderReader { return orderReader{s} }

// StatusHistory lector del historial de estados.
func (s *Store) StatusHistory() repository.StatusHistoryReader { return historyReader{s} }

// Scans historial de escaneo.
func (s *Store) Scans() repository.ScanHistoryRepository { return scanRepo{s} }

// Catalog lecturas de catálogo.
func (s *Store) Catalog() repository.CatalogRepository { return catalogRepo{s} }

// AddMaterial carga un material en el catálogo (semillas y tests).
func (s *Store) AddMaterial(m entity.Material) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.materials[m.ID] = &m
}

// AddLocation carga una ubicación en el catálogo.
func (s *Store) AddLocation(l entity.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations[l.ID] = &l
}

// AddBarcode registra un código de barras.
func (s *Store) AddBarcode(b entity.Barcode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.barcodes[b.Number] = &b
}

// lockTable un canal de capacidad 1 por nombre: permite esperar con cancelación por ctx.
type lockTable struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[string]chan struct{})}
}

func (lt *lockTable) slot(name string) chan struct{} {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	ch, ok := lt.locks[name]
	if !ok {
		ch = make(chan struct{}, 1)
		lt.locks[name] = ch
	}
	return ch
}

func (lt *lockTable) acquire(ctx context.Context, name string) error {
	select {
	case lt.slot(name) <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (lt *lockTable) release(name string) {
	<-lt.slot(name)
}
