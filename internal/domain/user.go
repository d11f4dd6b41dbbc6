package domain

import (
	"context"
	"time"
)

// User representa a entidade do usuário da plataforma.
// Email e CPF são únicos entre todos os usuários (garantido por constraint no DB
// e por pré-checagem no serviço de registro).
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Oculta o hash da senha no JSON de resposta
	FullName     string    `json:"full_name"`
	CPF          string    `json:"cpf"`
	Phone        string    `json:"phone"`
	KYCLevel     int       `json:"kyc_level"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserRegistration representa o payload de entrada para o registro.
type UserRegistration struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	CPF      string `json:"cpf"`
	Phone    string `json:"phone"`
}

// UserLogin representa o payload de entrada para o login.
type UserLogin struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse é a resposta de registro/login: token de sessão + visão pública do usuário.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

// KYCUpdateRequest é o payload administrativo para alterar o nível KYC de um usuário.
type KYCUpdateRequest struct {
	UserID   string `json:"user_id"`
	KYCLevel int    `json:"kyc_level"`
}

// UserRepository define o contrato de persistência para a entidade User.
type UserRepository interface {
	Save(ctx context.Context, user User) (User, error)
	FindByID(ctx context.Context, id string) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByCPF(ctx context.Context, cpf string) (User, error)
	UpdateKYCLevel(ctx context.Context, userID string, level int) error
	Count(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
}

// UserService define o contrato de lógica de negócio para a entidade User.
type UserService interface {
	Register(ctx context.Context, registration UserRegistration) (TokenResponse, error)
	Login(ctx context.Context, credentials UserLogin) (TokenResponse, error)
	UpdateKYCLevel(ctx context.Context, req KYCUpdateRequest) error
}
