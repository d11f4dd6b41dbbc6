package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"rioportop2p/internal/api/respond"
	"rioportop2p/internal/domain"
	apperror "rioportop2p/internal/errors"
	"rioportop2p/internal/pkg/logger"
	"rioportop2p/internal/pkg/middleware"
)

// KYCService define a operação administrativa de nível KYC.
type KYCService interface {
	UpdateKYCLevel(ctx context.Context, req domain.KYCUpdateRequest) error
}

// StatsService define a agregação de estatísticas da plataforma.
type StatsService interface {
	GetPlatformStats(ctx context.Context) (domain.PlatformStats, error)
}

// Handler agrupa os endpoints administrativos (sessão de administrador obrigatória).
type Handler struct {
	KYCSvc   KYCService
	StatsSvc StatsService
	Logger   logger.Logger
}

// NewHandler cria uma nova instância do Handler administrativo.
func NewHandler(kycSvc KYCService, statsSvc StatsService, log logger.Logger) *Handler {
	return &Handler{
		KYCSvc:   kycSvc,
		StatsSvc: statsSvc,
		Logger:   log,
	}
}

// UpdateKYCHandler lida com a requisição PATCH /api/admin/kyc.
// @Summary Altera o nível KYC de um usuário
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param kyc body domain.KYCUpdateRequest true "Usuário alvo e novo nível (1-3)"
// @Success 200 {object} map[string]string "Mensagem de confirmação"
// @Failure 400 {object} domain.ErrorResponse "Nível fora do intervalo 1-3"
// @Failure 401 {object} domain.ErrorResponse "Sessão ausente ou inválida"
// @Failure 403 {object} domain.ErrorResponse "Sessão sem privilégio de administrador"
// @Failure 404 {object} domain.ErrorResponse "Usuário alvo não encontrado"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /api/admin/kyc [patch]
func (h *Handler) UpdateKYCHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.KYCUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, h.Logger, apperror.NewValidationError("Invalid JSON payload"))
		return
	}

	if err := h.KYCSvc.UpdateKYCLevel(r.Context(), req); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	if admin, ok := middleware.GetUserFromContext(r.Context()); ok {
		h.Logger.Info("KYC alterado via endpoint administrativo.", map[string]interface{}{
			"admin_id":  admin.ID,
			"user_id":   req.UserID,
			"kyc_level": req.KYCLevel,
		})
	}

	respond.JSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("KYC level updated to %d", req.KYCLevel),
	})
}

// StatsHandler lida com a requisição GET /api/admin/stats.
// @Summary Estatísticas agregadas da plataforma
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.PlatformStats
// @Failure 401 {object} domain.ErrorResponse "Sessão ausente ou inválida"
// @Failure 403 {object} domain.ErrorResponse "Sessão sem privilégio de administrador"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /api/admin/stats [get]
func (h *Handler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.StatsSvc.GetPlatformStats(r.Context())
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, stats)
}
