package health

import (
	"context"
	"net/http"
	"time"

	"rioportop2p/internal/api/respond"
	"rioportop2p/internal/pkg/cache"
	"rioportop2p/internal/pkg/logger"
)

// APIVersion é reportada no banner da raiz.
const APIVersion = "1.0.0"

// DBProber faz uma leitura trivial no datastore para o health check.
type DBProber interface {
	Ping(ctx context.Context) error
}

// Handler agrupa o banner da raiz e o health check.
type Handler struct {
	DB     DBProber
	Cache  cache.Client
	Logger logger.Logger
}

// NewHandler cria uma nova instância do Handler de saúde.
func NewHandler(db DBProber, cacheClient cache.Client, log logger.Logger) *Handler {
	return &Handler{
		DB:     db,
		Cache:  cacheClient,
		Logger: log,
	}
}

// RootHandler lida com a requisição GET / (banner de vivacidade).
// @Summary Banner da API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func (h *Handler) RootHandler(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]string{
		"message": "RioPortoP2P API is running",
		"version": APIVersion,
	})
}

// HealthHandler lida com a requisição GET /health.
// Sempre responde 200: o estado dos colaboradores vai no corpo
// (healthy/degraded), nunca no status HTTP.
// @Summary Saúde do serviço e dos colaboradores
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	services := map[string]string{
		"api":      "healthy",
		"database": "healthy",
		"cache":    "healthy",
	}
	overall := "healthy"

	if err := h.DB.Ping(r.Context()); err != nil {
		h.Logger.Warn("Health check: banco de dados indisponível.", map[string]interface{}{"error": err.Error()})
		services["database"] = "unhealthy"
		overall = "degraded"
	}

	if err := h.Cache.Ping(r.Context()); err != nil {
		h.Logger.Warn("Health check: cache indisponível.", map[string]interface{}{"error": err.Error()})
		services["cache"] = "unhealthy"
		overall = "degraded"
	}

	respond.JSON(w, http.StatusOK, map[string]interface{}{
		"status":    overall,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"services":  services,
	})
}
