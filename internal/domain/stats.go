package domain

// PlatformStats agrega os números da plataforma exibidos no painel administrativo.
type PlatformStats struct {
	TotalUsers            int     `json:"total_users"`
	TotalTransactions     int     `json:"total_transactions"`
	TotalVolumeBRL        float64 `json:"total_volume_brl"`
	TotalVolumeBTC        float64 `json:"total_volume_btc"`
	ActiveUsers24h        int     `json:"active_users_24h"`
	Transactions24h       int     `json:"transactions_24h"`
	AverageTransactionBRL float64 `json:"average_transaction_brl"`
}
