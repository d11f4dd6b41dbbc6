package transactionservice_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"rioportop2p/internal/domain"
	apperror "rioportop2p/internal/errors"
	"rioportop2p/internal/pkg/logger"
	"rioportop2p/internal/service/transactionservice"
)

// MockTransactionRepository é uma implementação mock da interface TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Save(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	args := m.Called(ctx, tx)
	return args.Get(0).(domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByID(ctx context.Context, id string) (domain.Transaction, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByUser(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockTransactionRepository) SumVolumes(ctx context.Context) (float64, float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Get(1).(float64), args.Error(2)
}

func (m *MockTransactionRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	args := m.Called(ctx, since)
	return args.Int(0), args.Error(1)
}

func (m *MockTransactionRepository) CountActiveUsersSince(ctx context.Context, since time.Time) (int, error) {
	args := m.Called(ctx, since)
	return args.Int(0), args.Error(1)
}

func validCreate() domain.TransactionCreate {
	return domain.TransactionCreate{
		Type:          domain.TransactionTypeBuy,
		AmountBRL:     900.0,
		AmountBTC:     0.0036,
		PricePerBTC:   250000.0,
		PaymentMethod: domain.PaymentMethodPix,
	}
}

// TestCreate_WithinKYCLimit testa a criação dentro do limite do nível 1.
func TestCreate_WithinKYCLimit(t *testing.T) {
	mockRepo := new(MockTransactionRepository)
	svc := transactionservice.NewService(mockRepo, logger.NewLogger("error"))

	user := domain.User{ID: "user-1", KYCLevel: 1}
	req := validCreate()

	mockRepo.On("Save", mock.Anything, mock.MatchedBy(func(tx domain.Transaction) bool {
		return tx.UserID == "user-1" &&
			tx.Status == domain.StatusPending &&
			tx.AmountBRL == 900.0
	})).Return(domain.Transaction{ID: "tx-1", UserID: "user-1", Status: domain.StatusPending}, nil)

	created, err := svc.Create(context.Background(), user, req)

	assert.NoError(t, err)
	assert.Equal(t, "tx-1", created.ID)
	assert.Equal(t, domain.StatusPending, created.Status)
	mockRepo.AssertExpectations(t)
}

// TestCreate_ExceedsKYCLimit testa a rejeição 403 acima do limite do nível 1.
func TestCreate_ExceedsKYCLimit(t *testing.T) {
	mockRepo := new(MockTransactionRepository)
	svc := transactionservice.NewService(mockRepo, logger.NewLogger("error"))

	user := domain.User{ID: "user-1", KYCLevel: 1}
	req := validCreate()
	req.AmountBRL = 1500.0

	_, err := svc.Create(context.Background(), user, req)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ForbiddenError{}, err)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// TestCreate_KYCLimitsPerLevel cobre o teto de cada nível.
func TestCreate_KYCLimitsPerLevel(t *testing.T) {
	tests := []struct {
		name      string
		level     int
		amountBRL float64
		wantErr   bool
	}{
		{"nível 1 no teto", 1, 1000.0, false},
		{"nível 1 acima do teto", 1, 1000.01, true},
		{"nível 2 dentro do teto", 2, 9500.0, false},
		{"nível 2 acima do teto", 2, 10001.0, true},
		{"nível 3 dentro do teto", 3, 100000.0, false},
		{"nível 3 acima do teto", 3, 100001.0, true},
		{"nível desconhecido usa o teto mais restritivo", 9, 1500.0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTransactionRepository)
			svc := transactionservice.NewService(mockRepo, logger.NewLogger("error"))

			user := domain.User{ID: "user-1", KYCLevel: tt.level}
			req := validCreate()
			req.AmountBRL = tt.amountBRL

			if !tt.wantErr {
				mockRepo.On("Save", mock.Anything, mock.Anything).
					Return(domain.Transaction{ID: "tx-1"}, nil)
			}

			_, err := svc.Create(context.Background(), user, req)

			if tt.wantErr {
				assert.IsType(t, &apperror.ForbiddenError{}, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestCreate_InvalidPayloads cobre as regras de validação de transação.
func TestCreate_InvalidPayloads(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.TransactionCreate)
	}{
		{"tipo inválido", func(r *domain.TransactionCreate) { r.Type = "swap" }},
		{"método de pagamento inválido", func(r *domain.TransactionCreate) { r.PaymentMethod = "boleto" }},
		{"amount_brl zero", func(r *domain.TransactionCreate) { r.AmountBRL = 0 }},
		{"amount_btc negativo", func(r *domain.TransactionCreate) { r.AmountBTC = -1 }},
		{"price_per_btc zero", func(r *domain.TransactionCreate) { r.PricePerBTC = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTransactionRepository)
			svc := transactionservice.NewService(mockRepo, logger.NewLogger("error"))

			req := validCreate()
			tt.mutate(&req)

			_, err := svc.Create(context.Background(), domain.User{ID: "user-1", KYCLevel: 3}, req)

			assert.Error(t, err)
			assert.IsType(t, &apperror.ValidationError{}, err)
			mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}

// TestList_DefaultsAndCaps testa a normalização de limit/offset.
func TestList_DefaultsAndCaps(t *testing.T) {
	mockRepo := new(MockTransactionRepository)
	svc := transactionservice.NewService(mockRepo, logger.NewLogger("error"))

	// limit/offset inválidos viram os padrões (50, 0)
	mockRepo.On("FindByUser", mock.Anything, domain.TransactionFilter{UserID: "user-1", Limit: 50, Offset: 0}).
		Return([]domain.Transaction{}, nil).Once()

	_, err := svc.List(context.Background(), "user-1", 0, -3)
	assert.NoError(t, err)

	// limit acima do teto é rebaixado para 100
	mockRepo.On("FindByUser", mock.Anything, domain.TransactionFilter{UserID: "user-1", Limit: 100, Offset: 10}).
		Return([]domain.Transaction{}, nil).Once()

	_, err = svc.List(context.Background(), "user-1", 500, 10)
	assert.NoError(t, err)

	mockRepo.AssertExpectations(t)
}

// TestGet_OwnershipRules testa as regras de acesso da busca por ID.
func TestGet_OwnershipRules(t *testing.T) {
	stored := domain.Transaction{ID: "tx-1", UserID: "owner"}

	tests := []struct {
		name    string
		user    domain.User
		wantErr error
	}{
		{"dono acessa", domain.User{ID: "owner"}, nil},
		{"admin acessa", domain.User{ID: "other", IsAdmin: true}, nil},
		{"terceiro é bloqueado", domain.User{ID: "other"}, &apperror.ForbiddenError{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTransactionRepository)
			svc := transactionservice.NewService(mockRepo, logger.NewLogger("error"))

			mockRepo.On("FindByID", mock.Anything, "tx-1").Return(stored, nil)

			tx, err := svc.Get(context.Background(), tt.user, "tx-1")

			if tt.wantErr != nil {
				assert.IsType(t, tt.wantErr, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "tx-1", tx.ID)
			}
		})
	}
}

// TestGet_NotFound propaga o 404 do repositório.
func TestGet_NotFound(t *testing.T) {
	mockRepo := new(MockTransactionRepository)
	svc := transactionservice.NewService(mockRepo, logger.NewLogger("error"))

	mockRepo.On("FindByID", mock.Anything, "ghost").
		Return(domain.Transaction{}, apperror.NewNotFoundError("Transaction not found"))

	_, err := svc.Get(context.Background(), domain.User{ID: "user-1"}, "ghost")

	assert.Error(t, err)
	assert.IsType(t, &apperror.NotFoundError{}, err)
}
