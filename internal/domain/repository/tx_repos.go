package repository

// TxRepos agrupa los repositorios atados a una misma transacción de BD.
type TxRepos struct {
	Balances      BalanceRepository
	Transactions  TransactionRepository
	Orders        ProcurementOrderRepository
	StatusHistory StatusHistoryRepository
}
