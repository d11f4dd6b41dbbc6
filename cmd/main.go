package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	_ "rioportop2p/docs" // documentação swagger gerada

	// Pacotes de infraestrutura e utilitários
	"rioportop2p/config"
	"rioportop2p/internal/pkg/bitcoin"
	"rioportop2p/internal/pkg/cache"
	"rioportop2p/internal/pkg/database"
	"rioportop2p/internal/pkg/logger"
	"rioportop2p/internal/pkg/token"

	// Camadas da aplicação para Injeção de Dependências
	"rioportop2p/internal/api/admin"
	"rioportop2p/internal/api/auth"
	"rioportop2p/internal/api/health"
	"rioportop2p/internal/api/price"
	"rioportop2p/internal/api/router"
	"rioportop2p/internal/api/transaction"
	"rioportop2p/internal/api/user"
	"rioportop2p/internal/repository/transactionrepo"
	"rioportop2p/internal/repository/userrepo"
	"rioportop2p/internal/service/priceservice"
	"rioportop2p/internal/service/statsservice"
	"rioportop2p/internal/service/transactionservice"
	"rioportop2p/internal/service/userservice"
)

// @title           RioPortoP2P API
// @version         1.0.0
// @description     Backend da plataforma P2P de negociação de Bitcoin.
// @BasePath        /
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Token JWT no formato: Bearer <token>
func main() {
	log.Println("⚡ Inicializando serviço RioPortoP2P...")

	// 0. Carregar variáveis de ambiente (.env)
	if err := godotenv.Load(); err != nil {
		// Sem .env seguimos em frente: as variáveis essenciais podem estar
		// no ambiente do sistema (ex: Docker).
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()
	appLog := logger.NewLogger(cfg.LogLevel)
	appLog.Info("Configurações carregadas.", nil)

	// 1. Conexão com Recursos de Infraestrutura

	// A. Banco de Dados (PostgreSQL)
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		appLog.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	appLog.Info("Conexão PostgreSQL estabelecida.", nil)

	// B. Cache (Redis)
	cacheClient := cache.NewRedisClient(cfg.RedisAddr)
	appLog.Info("Cliente Redis inicializado.", nil)

	// 2. Injeção de Dependências (Repository -> Service -> Handler)

	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)

	userRepo := userrepo.NewUserRepository(db, cfg.DBTimeout, appLog)
	transactionRepo := transactionrepo.NewTransactionRepository(db, cfg.DBTimeout, appLog)

	userSvc := userservice.NewService(userRepo, tokenSvc, appLog)
	transactionSvc := transactionservice.NewService(transactionRepo, appLog)
	statsSvc := statsservice.NewService(userRepo, transactionRepo, appLog)

	bitcoinClient := bitcoin.NewClient(cfg.BitcoinAPIURL, cfg.BitcoinTimeout, appLog)
	priceSvc := priceservice.NewService(bitcoinClient, cacheClient, cfg.PriceCacheTTL, appLog)

	handlers := router.Handlers{
		Auth:        auth.NewHandler(userSvc, appLog),
		Transaction: transaction.NewHandler(transactionSvc, appLog),
		Admin:       admin.NewHandler(userSvc, statsSvc, appLog),
		User:        user.NewHandler(appLog),
		Price:       price.NewHandler(priceSvc, appLog),
		Health:      health.NewHandler(userRepo, cacheClient, appLog),
	}
	appLog.Debug("Handlers inicializados.", nil)

	// 3. Configuração e Início do Roteador/Servidor
	r := router.NewRouter(cfg, handlers, tokenSvc, userRepo, cacheClient, appLog)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 4. Execução e Graceful Shutdown
	go func() {
		appLog.Info("Servidor RioPortoP2P ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	appLog.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLog.Error("Desligamento do servidor forçado.", err)
	}

	appLog.Info("Servidor encerrado com sucesso.", nil)
}
