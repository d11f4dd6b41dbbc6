package userservice

import (
	"context"
	"errors"
	"net/mail"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"rioportop2p/internal/domain"
	apperror "rioportop2p/internal/errors"
	"rioportop2p/internal/pkg/logger"
)

// TokenService é o contrato da camada de token (internal/pkg/token).
type TokenService interface {
	GenerateToken(userID string) (string, error)
}

// Service implementa a lógica de negócio de usuários: registro, login e
// administração de nível KYC.
type Service struct {
	repo     domain.UserRepository
	tokenSvc TokenService
	logger   logger.Logger
}

// NewService cria uma nova instância do serviço de usuários.
func NewService(repo domain.UserRepository, tokenSvc TokenService, log logger.Logger) *Service {
	return &Service{
		repo:     repo,
		tokenSvc: tokenSvc,
		logger:   log,
	}
}

// Register registra um novo usuário: valida o payload, garante unicidade de
// email e CPF, faz o hashing da senha, persiste e emite o token de sessão.
func (s *Service) Register(ctx context.Context, registration domain.UserRegistration) (domain.TokenResponse, error) {
	if err := validateRegistration(registration); err != nil {
		return domain.TokenResponse{}, err
	}

	// Pré-checagem de unicidade. A constraint UNIQUE no banco fecha a janela de
	// corrida entre a checagem e o insert (o Save traduz 23505 para Conflict).
	if _, err := s.repo.FindByEmail(ctx, registration.Email); err == nil {
		return domain.TokenResponse{}, apperror.NewValidationError("Email already registered")
	} else if !isNotFound(err) {
		return domain.TokenResponse{}, err
	}

	if _, err := s.repo.FindByCPF(ctx, registration.CPF); err == nil {
		return domain.TokenResponse{}, apperror.NewValidationError("CPF already registered")
	} else if !isNotFound(err) {
		return domain.TokenResponse{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registration.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.TokenResponse{}, apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}

	newUser := domain.User{
		Email:        registration.Email,
		PasswordHash: string(hashedPassword),
		FullName:     registration.FullName,
		CPF:          registration.CPF,
		Phone:        registration.Phone,
		KYCLevel:     1, // Nível KYC inicial de todo cadastro
		IsAdmin:      false,
	}

	user, err := s.repo.Save(ctx, newUser)
	if err != nil {
		return domain.TokenResponse{}, err
	}

	tokenString, err := s.tokenSvc.GenerateToken(user.ID)
	if err != nil {
		return domain.TokenResponse{}, apperror.NewInternalError("Falha ao gerar token de autenticação.", err)
	}

	s.logger.Info("Novo usuário registrado.", map[string]interface{}{"user_id": user.ID, "email": user.Email})

	return domain.TokenResponse{
		AccessToken: tokenString,
		TokenType:   "bearer",
		User:        user,
	}, nil
}

// Login autentica um usuário e emite o token de sessão.
// Email desconhecido e senha incorreta retornam a mesma mensagem 401 para não
// permitir enumeração de contas.
func (s *Service) Login(ctx context.Context, credentials domain.UserLogin) (domain.TokenResponse, error) {
	if credentials.Email == "" || credentials.Password == "" {
		return domain.TokenResponse{}, apperror.NewUnauthorizedError("Invalid email or password")
	}

	user, err := s.repo.FindByEmail(ctx, credentials.Email)
	if err != nil {
		if isNotFound(err) {
			return domain.TokenResponse{}, apperror.NewUnauthorizedError("Invalid email or password")
		}
		return domain.TokenResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credentials.Password)); err != nil {
		return domain.TokenResponse{}, apperror.NewUnauthorizedError("Invalid email or password")
	}

	tokenString, err := s.tokenSvc.GenerateToken(user.ID)
	if err != nil {
		return domain.TokenResponse{}, apperror.NewInternalError("Falha ao gerar token de autenticação.", err)
	}

	s.logger.Info("Usuário autenticado.", map[string]interface{}{"user_id": user.ID, "email": user.Email})

	return domain.TokenResponse{
		AccessToken: tokenString,
		TokenType:   "bearer",
		User:        user,
	}, nil
}

// UpdateKYCLevel altera o nível KYC de um usuário (operação administrativa).
func (s *Service) UpdateKYCLevel(ctx context.Context, req domain.KYCUpdateRequest) error {
	if req.UserID == "" {
		return apperror.NewValidationError("user_id is required")
	}
	if req.KYCLevel < 1 || req.KYCLevel > 3 {
		return apperror.NewValidationError("kyc_level must be between 1 and 3")
	}

	if err := s.repo.UpdateKYCLevel(ctx, req.UserID, req.KYCLevel); err != nil {
		return err
	}

	s.logger.Info("Nível KYC atualizado por administrador.", map[string]interface{}{
		"user_id":   req.UserID,
		"kyc_level": req.KYCLevel,
	})
	return nil
}

// --- Validação de registro ---

func validateRegistration(reg domain.UserRegistration) error {
	if _, err := mail.ParseAddress(reg.Email); err != nil || reg.Email == "" {
		return apperror.NewValidationError("Invalid email address")
	}

	if err := validatePassword(reg.Password); err != nil {
		return err
	}

	if len(reg.FullName) < 2 || len(reg.FullName) > 100 {
		return apperror.NewValidationError("full_name must be between 2 and 100 characters")
	}

	if !isDigits(reg.CPF) || len(reg.CPF) != 11 {
		return apperror.NewValidationError("cpf must be exactly 11 digits")
	}

	if !isDigits(reg.Phone) || len(reg.Phone) < 10 || len(reg.Phone) > 11 {
		return apperror.NewValidationError("phone must be 10 or 11 digits")
	}

	return nil
}

// validatePassword exige no mínimo 8 caracteres com dígito, maiúscula e minúscula.
func validatePassword(password string) error {
	if len(password) < 8 {
		return apperror.NewValidationError("Password must be at least 8 characters long")
	}

	var hasDigit, hasUpper, hasLower bool
	for _, c := range password {
		switch {
		case unicode.IsDigit(c):
			hasDigit = true
		case unicode.IsUpper(c):
			hasUpper = true
		case unicode.IsLower(c):
			hasLower = true
		}
	}

	if !hasDigit {
		return apperror.NewValidationError("Password must contain at least one digit")
	}
	if !hasUpper {
		return apperror.NewValidationError("Password must contain at least one uppercase letter")
	}
	if !hasLower {
		return apperror.NewValidationError("Password must contain at least one lowercase letter")
	}
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func isNotFound(err error) bool {
	var notFoundErr *apperror.NotFoundError
	return errors.As(err, &notFoundErr)
}
