package transactionservice

import (
	"context"
	"fmt"

	"rioportop2p/internal/domain"
	apperror "rioportop2p/internal/errors"
	"rioportop2p/internal/pkg/logger"
)

// Paginação da listagem: padrão 50 itens, teto 100.
const (
	defaultListLimit = 50
	maxListLimit     = 100
)

// Service implementa a lógica de negócio de transações P2P.
type Service struct {
	repo   domain.TransactionRepository
	logger logger.Logger
}

// NewService cria uma nova instância do serviço de transações.
func NewService(repo domain.TransactionRepository, log logger.Logger) *Service {
	return &Service{repo: repo, logger: log}
}

// Create valida e persiste uma nova transação do usuário autenticado.
// O valor em BRL não pode exceder o teto do nível KYC do usuário no momento
// da criação (403 quando excede).
func (s *Service) Create(ctx context.Context, user domain.User, req domain.TransactionCreate) (domain.Transaction, error) {
	if err := validateCreate(req); err != nil {
		return domain.Transaction{}, err
	}

	limit, ok := domain.KYCLimits[user.KYCLevel]
	if !ok {
		// Nível desconhecido no banco: aplica o teto mais restritivo.
		limit = domain.KYCLimits[1]
	}

	if req.AmountBRL > limit {
		s.logger.Info("Transação rejeitada por limite KYC.", map[string]interface{}{
			"user_id":    user.ID,
			"kyc_level":  user.KYCLevel,
			"amount_brl": req.AmountBRL,
		})
		return domain.Transaction{}, apperror.NewForbiddenError(
			fmt.Sprintf("Transaction amount exceeds KYC level %d limit", user.KYCLevel))
	}

	tx := domain.Transaction{
		UserID:        user.ID,
		Type:          req.Type,
		AmountBRL:     req.AmountBRL,
		AmountBTC:     req.AmountBTC,
		PricePerBTC:   req.PricePerBTC,
		PaymentMethod: req.PaymentMethod,
		Status:        domain.StatusPending,
		Description:   req.Description,
	}

	created, err := s.repo.Save(ctx, tx)
	if err != nil {
		return domain.Transaction{}, err
	}

	s.logger.Info("Transação criada.", map[string]interface{}{
		"transaction_id": created.ID,
		"user_id":        user.ID,
		"type":           created.Type,
	})
	return created, nil
}

// List retorna as transações do próprio usuário, mais recentes primeiro.
// Limit/offset inválidos são normalizados para os padrões.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	return s.repo.FindByUser(ctx, domain.TransactionFilter{
		UserID: userID,
		Limit:  limit,
		Offset: offset,
	})
}

// Get busca uma transação pelo ID. Retorna 404 se não existir e 403 se o
// solicitante não for o dono nem administrador.
func (s *Service) Get(ctx context.Context, user domain.User, id string) (domain.Transaction, error) {
	tx, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Transaction{}, err
	}

	if tx.UserID != user.ID && !user.IsAdmin {
		return domain.Transaction{}, apperror.NewForbiddenError("Access denied")
	}

	return tx, nil
}

func validateCreate(req domain.TransactionCreate) error {
	if req.Type != domain.TransactionTypeBuy && req.Type != domain.TransactionTypeSell {
		return apperror.NewValidationError("type must be 'buy' or 'sell'")
	}
	if req.PaymentMethod != domain.PaymentMethodPix && req.PaymentMethod != domain.PaymentMethodBankTransfer {
		return apperror.NewValidationError("payment_method must be 'pix' or 'bank_transfer'")
	}
	if req.AmountBRL <= 0 {
		return apperror.NewValidationError("amount_brl must be greater than zero")
	}
	if req.AmountBTC <= 0 {
		return apperror.NewValidationError("amount_btc must be greater than zero")
	}
	if req.PricePerBTC <= 0 {
		return apperror.NewValidationError("price_per_btc must be greater than zero")
	}
	return nil
}
