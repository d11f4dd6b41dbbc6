package router

import (
	"net/http"

	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"rioportop2p/config"
	"rioportop2p/internal/api/admin"
	"rioportop2p/internal/api/auth"
	"rioportop2p/internal/api/health"
	"rioportop2p/internal/api/price"
	"rioportop2p/internal/api/transaction"
	"rioportop2p/internal/api/user"
	"rioportop2p/internal/pkg/cache"
	"rioportop2p/internal/pkg/logger"
	"rioportop2p/internal/pkg/middleware"
)

// Handlers agrupa todos os handlers injetados no roteador.
type Handlers struct {
	Auth        *auth.Handler
	Transaction *transaction.Handler
	Admin       *admin.Handler
	User        *user.Handler
	Price       *price.Handler
	Health      *health.Handler
}

// NewRouter configura e retorna o roteador HTTP principal.
// Recebe os Handlers já inicializados por injeção de dependências.
func NewRouter(
	cfg *config.Config,
	h Handlers,
	tokenSvc middleware.TokenService,
	users middleware.UserLoader,
	cacheClient cache.Client,
	log logger.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Middlewares por rota
	authRequired := middleware.NewAuthMiddleware(tokenSvc, users, log)
	adminOnly := middleware.AdminOnly(log)
	rateLimited := middleware.RateLimiter(cacheClient, cfg.RateLimitMaxRequests, cfg.RateLimitPeriod)

	// --- Rotas públicas ---
	mux.HandleFunc("GET /{$}", h.Health.RootHandler)
	mux.HandleFunc("GET /health", h.Health.HealthHandler)
	mux.HandleFunc("GET /api/bitcoin/price", h.Price.GetPriceHandler)

	// Autenticação (com rate limit por IP)
	mux.Handle("POST /api/auth/register", rateLimited(http.HandlerFunc(h.Auth.RegisterHandler)))
	mux.Handle("POST /api/auth/login", rateLimited(http.HandlerFunc(h.Auth.LoginHandler)))

	// --- Rotas protegidas (sessão válida) ---
	mux.HandleFunc("POST /api/transactions", authRequired(h.Transaction.CreateHandler))
	mux.HandleFunc("GET /api/transactions", authRequired(h.Transaction.ListHandler))
	mux.HandleFunc("GET /api/transactions/{id}", authRequired(h.Transaction.GetHandler))
	mux.HandleFunc("GET /api/user/profile", authRequired(h.User.ProfileHandler))

	// --- Rotas administrativas (sessão válida + is_admin) ---
	mux.HandleFunc("PATCH /api/admin/kyc", authRequired(adminOnly(h.Admin.UpdateKYCHandler)))
	mux.HandleFunc("GET /api/admin/stats", authRequired(adminOnly(h.Admin.StatsHandler)))

	// Swagger UI (fora das rotas de negócio)
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// CORS restrito às origens configuradas, envolvendo todo o mux.
	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	return corsHandler(mux)
}
