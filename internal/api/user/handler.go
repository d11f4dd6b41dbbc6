package user

import (
	"net/http"

	"rioportop2p/internal/api/respond"
	apperror "rioportop2p/internal/errors"
	"rioportop2p/internal/pkg/logger"
	"rioportop2p/internal/pkg/middleware"
)

// Handler agrupa os endpoints de perfil do usuário autenticado.
type Handler struct {
	Logger logger.Logger
}

// NewHandler cria uma nova instância do Handler de perfil.
func NewHandler(log logger.Logger) *Handler {
	return &Handler{Logger: log}
}

// ProfileHandler lida com a requisição GET /api/user/profile.
// O usuário já foi carregado pelo middleware de autenticação; a visão pública
// sai direto do contexto, sem nova ida ao banco.
// @Summary Perfil do usuário autenticado
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.User
// @Failure 401 {object} domain.ErrorResponse "Sessão ausente ou inválida"
// @Router /api/user/profile [get]
func (h *Handler) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respond.Error(w, r, h.Logger, apperror.NewUnauthorizedError("Invalid authentication credentials"))
		return
	}

	respond.JSON(w, http.StatusOK, user)
}
