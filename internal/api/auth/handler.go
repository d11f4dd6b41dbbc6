package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"rioportop2p/internal/api/respond"
	"rioportop2p/internal/domain"
	apperror "rioportop2p/internal/errors"
	"rioportop2p/internal/pkg/logger"
)

// UserService define o contrato que o Handler espera da camada de Serviço.
type UserService interface {
	Register(ctx context.Context, registration domain.UserRegistration) (domain.TokenResponse, error)
	Login(ctx context.Context, credentials domain.UserLogin) (domain.TokenResponse, error)
}

// Handler agrupa os endpoints públicos de autenticação.
type Handler struct {
	Service UserService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc UserService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// RegisterHandler lida com a requisição POST /api/auth/register.
// @Summary Registra um novo usuário
// @Description Cria a conta, valida email/CPF/senha, e retorna o token de sessão com a visão pública do usuário.
// @Tags auth
// @Accept json
// @Produce json
// @Param registration body domain.UserRegistration true "Dados de registro"
// @Success 201 {object} domain.TokenResponse "Conta criada"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido ou email/CPF já cadastrado"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /api/auth/register [post]
func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var reg domain.UserRegistration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		respond.Error(w, r, h.Logger, apperror.NewValidationError("Invalid JSON payload"))
		return
	}

	result, err := h.Service.Register(r.Context(), reg)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	respond.JSON(w, http.StatusCreated, result)
}

// LoginHandler lida com a requisição POST /api/auth/login.
// @Summary Autentica um usuário e retorna um JWT
// @Description Email desconhecido e senha incorreta retornam a mesma mensagem 401.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body domain.UserLogin true "Credenciais do usuário"
// @Success 200 {object} domain.TokenResponse "Token de sessão emitido"
// @Failure 401 {object} domain.ErrorResponse "Credenciais inválidas"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /api/auth/login [post]
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var credentials domain.UserLogin
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		respond.Error(w, r, h.Logger, apperror.NewValidationError("Invalid JSON payload"))
		return
	}

	result, err := h.Service.Login(r.Context(), credentials)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, result)
}
