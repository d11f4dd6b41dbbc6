package priceservice

import (
	"context"
	"encoding/json"
	"time"

	"rioportop2p/internal/domain"
	"rioportop2p/internal/pkg/cache"
	"rioportop2p/internal/pkg/logger"
)

const priceCacheKey = "bitcoin:price"

// PriceFetcher é o contrato do cliente de cotação (internal/pkg/bitcoin).
type PriceFetcher interface {
	GetPrice(ctx context.Context) domain.BitcoinPrice
}

// Service entrega a cotação do Bitcoin com um cache curto no Redis na frente
// do cliente externo. Falhas de cache são ignoradas: o caminho da cotação
// nunca produz erro para o chamador.
type Service struct {
	fetcher  PriceFetcher
	cache    cache.Client
	cacheTTL time.Duration
	logger   logger.Logger
}

// NewService cria uma nova instância do serviço de cotação.
func NewService(fetcher PriceFetcher, cacheClient cache.Client, cacheTTL time.Duration, log logger.Logger) *Service {
	return &Service{
		fetcher:  fetcher,
		cache:    cacheClient,
		cacheTTL: cacheTTL,
		logger:   log,
	}
}

// GetPrice retorna a cotação atual, preferindo o cache quando fresco.
func (s *Service) GetPrice(ctx context.Context) domain.BitcoinPrice {
	if cached, err := s.cache.Get(ctx, priceCacheKey); err == nil {
		var price domain.BitcoinPrice
		if err := json.Unmarshal([]byte(cached), &price); err == nil {
			return price
		}
		// Entrada corrompida: descarta e busca de novo.
		s.cache.Delete(ctx, priceCacheKey)
	}

	price := s.fetcher.GetPrice(ctx)

	if payload, err := json.Marshal(price); err == nil {
		if err := s.cache.Set(ctx, priceCacheKey, string(payload), s.cacheTTL); err != nil {
			s.logger.Warn("Falha ao gravar cotação no cache.", map[string]interface{}{"error": err.Error()})
		}
	}

	return price
}
