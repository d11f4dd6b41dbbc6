package transaction

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"rioportop2p/internal/api/respond"
	"rioportop2p/internal/domain"
	apperror "rioportop2p/internal/errors"
	"rioportop2p/internal/pkg/logger"
	"rioportop2p/internal/pkg/middleware"
)

// TransactionService define o contrato que o Handler espera da camada de Serviço.
type TransactionService interface {
	Create(ctx context.Context, user domain.User, req domain.TransactionCreate) (domain.Transaction, error)
	List(ctx context.Context, userID string, limit, offset int) ([]domain.Transaction, error)
	Get(ctx context.Context, user domain.User, id string) (domain.Transaction, error)
}

// Handler agrupa os endpoints de transações (todos exigem sessão válida).
type Handler struct {
	Service TransactionService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc TransactionService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// CreateHandler lida com a requisição POST /api/transactions.
// @Summary Cria uma transação P2P
// @Description O valor em BRL é limitado pelo nível KYC do usuário (1→1000, 2→10000, 3→100000).
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param transaction body domain.TransactionCreate true "Dados da transação"
// @Success 201 {object} domain.Transaction "Transação criada com status pending"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 401 {object} domain.ErrorResponse "Sessão ausente ou inválida"
// @Failure 403 {object} domain.ErrorResponse "Valor excede o limite do nível KYC"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /api/transactions [post]
func (h *Handler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respond.Error(w, r, h.Logger, apperror.NewUnauthorizedError("Invalid authentication credentials"))
		return
	}

	var req domain.TransactionCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, h.Logger, apperror.NewValidationError("Invalid JSON payload"))
		return
	}

	created, err := h.Service.Create(r.Context(), user, req)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	respond.JSON(w, http.StatusCreated, created)
}

// ListHandler lida com a requisição GET /api/transactions?limit&offset.
// @Summary Lista as transações do usuário autenticado
// @Description Retorna apenas as transações do próprio usuário, mais recentes primeiro.
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Máximo de itens (padrão 50, teto 100)"
// @Param offset query int false "Deslocamento da paginação (padrão 0)"
// @Success 200 {array} domain.Transaction
// @Failure 401 {object} domain.ErrorResponse "Sessão ausente ou inválida"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /api/transactions [get]
func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respond.Error(w, r, h.Logger, apperror.NewUnauthorizedError("Invalid authentication credentials"))
		return
	}

	limit := parseQueryInt(r, "limit", 0)
	offset := parseQueryInt(r, "offset", 0)

	transactions, err := h.Service.List(r.Context(), user.ID, limit, offset)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, transactions)
}

// GetHandler lida com a requisição GET /api/transactions/{id}.
// @Summary Busca uma transação pelo ID
// @Description Apenas o dono da transação ou um administrador pode consultá-la.
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da transação"
// @Success 200 {object} domain.Transaction
// @Failure 401 {object} domain.ErrorResponse "Sessão ausente ou inválida"
// @Failure 403 {object} domain.ErrorResponse "Transação de outro usuário"
// @Failure 404 {object} domain.ErrorResponse "Transação não encontrada"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /api/transactions/{id} [get]
func (h *Handler) GetHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respond.Error(w, r, h.Logger, apperror.NewUnauthorizedError("Invalid authentication credentials"))
		return
	}

	id := r.PathValue("id")
	if id == "" {
		respond.Error(w, r, h.Logger, apperror.NewValidationError("transaction id is required"))
		return
	}

	tx, err := h.Service.Get(r.Context(), user, id)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, tx)
}

// parseQueryInt lê um parâmetro inteiro da query string; valores ausentes ou
// inválidos retornam o padrão (o serviço normaliza os limites).
func parseQueryInt(r *http.Request, name string, defaultValue int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return value
}
