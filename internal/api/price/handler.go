package price

import (
	"context"
	"net/http"

	"rioportop2p/internal/api/respond"
	"rioportop2p/internal/domain"
	"rioportop2p/internal/pkg/logger"
)

// PriceService define o contrato que o Handler espera da camada de Serviço.
type PriceService interface {
	GetPrice(ctx context.Context) domain.BitcoinPrice
}

// Handler agrupa o endpoint público de cotação do Bitcoin.
type Handler struct {
	Service PriceService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler de cotação.
func NewHandler(svc PriceService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// GetPriceHandler lida com a requisição GET /api/bitcoin/price.
// Este endpoint nunca falha por indisponibilidade da fonte externa: qualquer
// problema na API de cotação resulta nos valores de fallback documentados.
// @Summary Cotação atual do Bitcoin (BRL/USD)
// @Tags bitcoin
// @Produce json
// @Success 200 {object} domain.BitcoinPrice
// @Router /api/bitcoin/price [get]
func (h *Handler) GetPriceHandler(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, h.Service.GetPrice(r.Context()))
}
