package middleware

import (
	"context"
	"net/http"
	"strings"

	"rioportop2p/internal/api/respond"
	"rioportop2p/internal/domain"
	apperror "rioportop2p/internal/errors"
	"rioportop2p/internal/pkg/logger"
	"rioportop2p/internal/pkg/token"
)

// ContextKey é o tipo das chaves de contexto deste pacote.
// Usamos um tipo próprio para garantir que não haja conflito com outras chaves.
type ContextKey int

const (
	// UserKey guarda o domain.User autenticado no contexto da requisição.
	UserKey ContextKey = iota
)

// TokenService define o contrato de validação necessário para o middleware.
type TokenService interface {
	ValidateToken(tokenString string) (*token.CustomClaims, error)
}

// UserLoader define a busca de usuário necessária para o middleware.
// O usuário é recarregado do banco a cada requisição: um token válido de um
// usuário removido não autentica.
type UserLoader interface {
	FindByID(ctx context.Context, id string) (domain.User, error)
}

// NewAuthMiddleware cria o middleware que valida o JWT do header
// Authorization: Bearer <token>, carrega o usuário correspondente e o anexa
// ao contexto da requisição. Qualquer falha resulta em 401.
func NewAuthMiddleware(tokenSvc TokenService, users UserLoader, log logger.Logger) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			// 1. Extrair o token do header Authorization
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				respond.Error(w, r, log, apperror.NewUnauthorizedError("Invalid authentication credentials"))
				return
			}
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")

			// 2. Validar o token (assinatura, expiração)
			claims, err := tokenSvc.ValidateToken(tokenString)
			if err != nil {
				respond.Error(w, r, log, apperror.NewUnauthorizedError("Invalid authentication credentials"))
				return
			}

			// 3. Carregar o usuário do banco
			user, err := users.FindByID(r.Context(), claims.UserID)
			if err != nil {
				// Usuário inexistente ou falha de busca: token deixa de valer.
				respond.Error(w, r, log, apperror.NewUnauthorizedError("Invalid authentication credentials"))
				return
			}

			// 4. Anexar o usuário ao contexto e seguir
			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}

// AdminOnly restringe o handler a usuários com is_admin. Deve ser encadeado
// após o middleware de autenticação.
func AdminOnly(log logger.Logger) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUserFromContext(r.Context())
			if !ok {
				respond.Error(w, r, log, apperror.NewUnauthorizedError("Invalid authentication credentials"))
				return
			}

			if !user.IsAdmin {
				respond.Error(w, r, log, apperror.NewForbiddenError("Admin access required"))
				return
			}

			next.ServeHTTP(w, r)
		}
	}
}

// GetUserFromContext é uma função utilitária para extrair o usuário autenticado no handler.
func GetUserFromContext(ctx context.Context) (domain.User, bool) {
	user, ok := ctx.Value(UserKey).(domain.User)
	return user, ok
}
