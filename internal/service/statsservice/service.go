package statsservice

import (
	"context"
	"time"

	"rioportop2p/internal/domain"
	"rioportop2p/internal/pkg/logger"
)

// Service agrega as estatísticas da plataforma para o painel administrativo.
type Service struct {
	users        domain.UserRepository
	transactions domain.TransactionRepository
	logger       logger.Logger
}

// NewService cria uma nova instância do serviço de estatísticas.
func NewService(users domain.UserRepository, transactions domain.TransactionRepository, log logger.Logger) *Service {
	return &Service{
		users:        users,
		transactions: transactions,
		logger:       log,
	}
}

// GetPlatformStats computa os agregados da plataforma: totais, volumes,
// atividade nas últimas 24h e ticket médio (zero quando não há transações).
func (s *Service) GetPlatformStats(ctx context.Context) (domain.PlatformStats, error) {
	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return domain.PlatformStats{}, err
	}

	totalTransactions, err := s.transactions.Count(ctx)
	if err != nil {
		return domain.PlatformStats{}, err
	}

	volumeBRL, volumeBTC, err := s.transactions.SumVolumes(ctx)
	if err != nil {
		return domain.PlatformStats{}, err
	}

	since := time.Now().UTC().Add(-24 * time.Hour)

	activeUsers, err := s.transactions.CountActiveUsersSince(ctx, since)
	if err != nil {
		return domain.PlatformStats{}, err
	}

	recentTransactions, err := s.transactions.CountSince(ctx, since)
	if err != nil {
		return domain.PlatformStats{}, err
	}

	// Guarda contra divisão por zero quando não há transações.
	average := 0.0
	if totalTransactions > 0 {
		average = volumeBRL / float64(totalTransactions)
	}

	return domain.PlatformStats{
		TotalUsers:            totalUsers,
		TotalTransactions:     totalTransactions,
		TotalVolumeBRL:        volumeBRL,
		TotalVolumeBTC:        volumeBTC,
		ActiveUsers24h:        activeUsers,
		Transactions24h:       recentTransactions,
		AverageTransactionBRL: average,
	}, nil
}
