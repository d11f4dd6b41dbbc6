package transactionrepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"rioportop2p/internal/domain"
	apperror "rioportop2p/internal/errors"
	"rioportop2p/internal/pkg/logger"
)

const transactionColumns = `id, user_id, type, amount_brl, amount_btc, price_per_btc,
	payment_method, status, description, created_at, updated_at`

// TransactionRepository implementa a interface domain.TransactionRepository sobre PostgreSQL.
type TransactionRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewTransactionRepository cria uma nova instância do TransactionRepository, injetando o DB.
func NewTransactionRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *TransactionRepository {
	return &TransactionRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// Save insere uma nova transação. ID e timestamps são gerados no servidor.
func (r *TransactionRepository) Save(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	r.logger.Debug("Iniciando Save de transação no repositório.", map[string]interface{}{
		"user_id": tx.UserID,
		"type":    tx.Type,
	})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx.ID = uuid.NewString()
	now := time.Now().UTC()
	tx.CreatedAt = now
	tx.UpdatedAt = now

	query := `INSERT INTO transactions (` + transactionColumns + `)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.DB.ExecContext(
		ctxTimeout,
		query,
		tx.ID,
		tx.UserID,
		tx.Type,
		tx.AmountBRL,
		tx.AmountBTC,
		tx.PricePerBTC,
		tx.PaymentMethod,
		tx.Status,
		tx.Description,
		tx.CreatedAt,
		tx.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Falha ao inserir transação no DB.", err)
		return domain.Transaction{}, apperror.NewDBError("failed to insert transaction", err)
	}

	r.logger.Info("Transação salva com sucesso no repositório.", map[string]interface{}{
		"transaction_id": tx.ID,
		"user_id":        tx.UserID,
	})
	return tx, nil
}

// FindByID busca uma transação pelo identificador.
func (r *TransactionRepository) FindByID(ctx context.Context, id string) (domain.Transaction, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	row := r.DB.QueryRowContext(ctxTimeout, query, id)

	tx, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Transaction{}, apperror.NewNotFoundError("Transaction not found")
		}
		r.logger.Error("Falha ao buscar transação por ID no DB.", err)
		return domain.Transaction{}, apperror.NewDBError("failed to find transaction", err)
	}

	return tx, nil
}

// FindByUser lista as transações de um usuário, mais recentes primeiro,
// com paginação por limit/offset.
func (r *TransactionRepository) FindByUser(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + transactionColumns + ` FROM transactions
              WHERE user_id = $1
              ORDER BY created_at DESC
              LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctxTimeout, query, filter.UserID, filter.Limit, filter.Offset)
	if err != nil {
		r.logger.Error("Falha ao listar transações no DB.", err)
		return nil, apperror.NewDBError("failed to list transactions", err)
	}
	defer rows.Close()

	transactions := []domain.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			r.logger.Error("Falha ao mapear linha de transação.", err)
			return nil, apperror.NewDBError("failed to scan transaction", err)
		}
		transactions = append(transactions, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("failed to iterate transactions", err)
	}

	return transactions, nil
}

// Count retorna o total de transações da plataforma.
func (r *TransactionRepository) Count(ctx context.Context) (int, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var total int
	if err := r.DB.QueryRowContext(ctxTimeout, `SELECT COUNT(*) FROM transactions`).Scan(&total); err != nil {
		r.logger.Error("Falha ao contar transações no DB.", err)
		return 0, apperror.NewDBError("failed to count transactions", err)
	}
	return total, nil
}

// SumVolumes retorna a soma de amount_brl e amount_btc de todas as transações.
// COALESCE garante zero quando a tabela está vazia.
func (r *TransactionRepository) SumVolumes(ctx context.Context) (float64, float64, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT COALESCE(SUM(amount_brl), 0), COALESCE(SUM(amount_btc), 0) FROM transactions`

	var brl, btc float64
	if err := r.DB.QueryRowContext(ctxTimeout, query).Scan(&brl, &btc); err != nil {
		r.logger.Error("Falha ao somar volumes de transações no DB.", err)
		return 0, 0, apperror.NewDBError("failed to sum transaction volumes", err)
	}
	return brl, btc, nil
}

// CountSince retorna o número de transações criadas a partir do instante dado.
func (r *TransactionRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT COUNT(*) FROM transactions WHERE created_at >= $1`

	var total int
	if err := r.DB.QueryRowContext(ctxTimeout, query, since).Scan(&total); err != nil {
		r.logger.Error("Falha ao contar transações recentes no DB.", err)
		return 0, apperror.NewDBError("failed to count recent transactions", err)
	}
	return total, nil
}

// CountActiveUsersSince retorna quantos usuários distintos criaram transações
// a partir do instante dado.
func (r *TransactionRepository) CountActiveUsersSince(ctx context.Context, since time.Time) (int, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT COUNT(DISTINCT user_id) FROM transactions WHERE created_at >= $1`

	var total int
	if err := r.DB.QueryRowContext(ctxTimeout, query, since).Scan(&total); err != nil {
		r.logger.Error("Falha ao contar usuários ativos no DB.", err)
		return 0, apperror.NewDBError("failed to count active users", err)
	}
	return total, nil
}

// scanner cobre *sql.Row e *sql.Rows para o mapeamento de transações.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(s scanner) (domain.Transaction, error) {
	var tx domain.Transaction
	var description sql.NullString

	err := s.Scan(
		&tx.ID,
		&tx.UserID,
		&tx.Type,
		&tx.AmountBRL,
		&tx.AmountBTC,
		&tx.PricePerBTC,
		&tx.PaymentMethod,
		&tx.Status,
		&description,
		&tx.CreatedAt,
		&tx.UpdatedAt,
	)
	if err != nil {
		return domain.Transaction{}, err
	}

	tx.Description = description.String
	return tx, nil
}
