package statsservice_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"rioportop2p/internal/domain"
	"rioportop2p/internal/pkg/logger"
	"rioportop2p/internal/service/statsservice"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByCPF(ctx context.Context, cpf string) (domain.User, error) {
	args := m.Called(ctx, cpf)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateKYCLevel(ctx context.Context, userID string, level int) error {
	args := m.Called(ctx, userID, level)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockUserRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

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

// TestGetPlatformStats_ZeroTransactions garante média zero sem divisão por zero.
func TestGetPlatformStats_ZeroTransactions(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockTxs := new(MockTransactionRepository)
	svc := statsservice.NewService(mockUsers, mockTxs, logger.NewLogger("error"))

	mockUsers.On("Count", mock.Anything).Return(5, nil)
	mockTxs.On("Count", mock.Anything).Return(0, nil)
	mockTxs.On("SumVolumes", mock.Anything).Return(0.0, 0.0, nil)
	mockTxs.On("CountActiveUsersSince", mock.Anything, mock.Anything).Return(0, nil)
	mockTxs.On("CountSince", mock.Anything, mock.Anything).Return(0, nil)

	stats, err := svc.GetPlatformStats(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 5, stats.TotalUsers)
	assert.Equal(t, 0, stats.TotalTransactions)
	assert.Equal(t, 0.0, stats.AverageTransactionBRL)
}

// TestGetPlatformStats_Aggregates verifica os agregados e o ticket médio.
func TestGetPlatformStats_Aggregates(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockTxs := new(MockTransactionRepository)
	svc := statsservice.NewService(mockUsers, mockTxs, logger.NewLogger("error"))

	mockUsers.On("Count", mock.Anything).Return(42, nil)
	mockTxs.On("Count", mock.Anything).Return(4, nil)
	mockTxs.On("SumVolumes", mock.Anything).Return(10000.0, 0.04, nil)
	mockTxs.On("CountActiveUsersSince", mock.Anything, mock.MatchedBy(func(since time.Time) bool {
		// A janela de atividade é de aproximadamente 24 horas atrás.
		return time.Since(since) > 23*time.Hour && time.Since(since) < 25*time.Hour
	})).Return(3, nil)
	mockTxs.On("CountSince", mock.Anything, mock.Anything).Return(2, nil)

	stats, err := svc.GetPlatformStats(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 42, stats.TotalUsers)
	assert.Equal(t, 4, stats.TotalTransactions)
	assert.Equal(t, 10000.0, stats.TotalVolumeBRL)
	assert.Equal(t, 0.04, stats.TotalVolumeBTC)
	assert.Equal(t, 3, stats.ActiveUsers24h)
	assert.Equal(t, 2, stats.Transactions24h)
	assert.Equal(t, 2500.0, stats.AverageTransactionBRL)
	mockTxs.AssertExpectations(t)
}

// TestGetPlatformStats_RepoError propaga falha de qualquer agregado.
func TestGetPlatformStats_RepoError(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockTxs := new(MockTransactionRepository)
	svc := statsservice.NewService(mockUsers, mockTxs, logger.NewLogger("error"))

	mockUsers.On("Count", mock.Anything).Return(0, assert.AnError)

	_, err := svc.GetPlatformStats(context.Background())

	assert.Error(t, err)
	mockTxs.AssertNotCalled(t, "Count", mock.Anything)
}
