package domain

import (
	"context"
	"time"
)

// Transaction representa uma negociação P2P de Bitcoin (compra ou venda).
type Transaction struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Type          string    `json:"type"`           // "buy" | "sell"
	AmountBRL     float64   `json:"amount_brl"`     // valor em reais (> 0)
	AmountBTC     float64   `json:"amount_btc"`     // valor em bitcoin (> 0)
	PricePerBTC   float64   `json:"price_per_btc"`  // cotação usada na negociação (> 0)
	PaymentMethod string    `json:"payment_method"` // "pix" | "bank_transfer"
	Status        string    `json:"status"`
	Description   string    `json:"description,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Tipos de transação aceitos.
const (
	TransactionTypeBuy  = "buy"
	TransactionTypeSell = "sell"
)

// Métodos de pagamento aceitos.
const (
	PaymentMethodPix          = "pix"
	PaymentMethodBankTransfer = "bank_transfer"
)

// StatusPending é o estado inicial de toda transação; o fluxo de liquidação
// (confirmado/disputa/cancelado) fica fora deste serviço.
const StatusPending = "pending"

// KYCLimits define o teto de amount_brl por transação para cada nível KYC.
var KYCLimits = map[int]float64{
	1: 1000.0,
	2: 10000.0,
	3: 100000.0,
}

// TransactionCreate representa o payload de entrada para criação de transação.
type TransactionCreate struct {
	Type          string  `json:"type"`
	AmountBRL     float64 `json:"amount_brl"`
	AmountBTC     float64 `json:"amount_btc"`
	PricePerBTC   float64 `json:"price_per_btc"`
	PaymentMethod string  `json:"payment_method"`
	Description   string  `json:"description,omitempty"`
}

// TransactionFilter define a paginação da listagem (ordenada por created_at DESC).
type TransactionFilter struct {
	UserID string
	Limit  int
	Offset int
}

// TransactionRepository define o contrato de persistência para transações,
// incluindo os agregados usados nas estatísticas administrativas.
type TransactionRepository interface {
	Save(ctx context.Context, tx Transaction) (Transaction, error)
	FindByID(ctx context.Context, id string) (Transaction, error)
	FindByUser(ctx context.Context, filter TransactionFilter) ([]Transaction, error)
	Count(ctx context.Context) (int, error)
	SumVolumes(ctx context.Context) (brl float64, btc float64, err error)
	CountSince(ctx context.Context, since time.Time) (int, error)
	CountActiveUsersSince(ctx context.Context, since time.Time) (int, error)
}

// TransactionService define o contrato de lógica de negócio para transações.
type TransactionService interface {
	Create(ctx context.Context, user User, req TransactionCreate) (Transaction, error)
	List(ctx context.Context, userID string, limit, offset int) ([]Transaction, error)
	Get(ctx context.Context, user User, id string) (Transaction, error)
}
