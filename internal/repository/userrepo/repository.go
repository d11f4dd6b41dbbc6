package userrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"rioportop2p/internal/domain"
	apperror "rioportop2p/internal/errors"
	"rioportop2p/internal/pkg/logger"
)

// Código de erro do PostgreSQL para violação de constraint de unicidade.
const uniqueViolation = "23505"

const userColumns = `id, email, password_hash, full_name, cpf, phone, kyc_level, is_admin, created_at`

// UserRepository implementa a interface domain.UserRepository sobre PostgreSQL.
type UserRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewUserRepository cria uma nova instância do UserRepository, injetando o DB.
func NewUserRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *UserRepository {
	return &UserRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// Save insere um novo usuário no banco de dados.
// Gera o ID e o created_at no servidor; violação de unicidade (email/cpf em
// corrida com outro registro) vira ConflictError.
func (r *UserRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	r.logger.Debug("Iniciando Save de usuário no repositório.", map[string]interface{}{"email": user.Email})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()

	query := `INSERT INTO users (` + userColumns + `)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.DB.ExecContext(
		ctxTimeout,
		query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FullName,
		user.CPF,
		user.Phone,
		user.KYCLevel,
		user.IsAdmin,
		user.CreatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			r.logger.Info("Insert de usuário rejeitado por constraint de unicidade.", map[string]interface{}{"email": user.Email})
			return domain.User{}, apperror.NewConflictError("Email or CPF already registered")
		}
		r.logger.Error("Falha ao inserir usuário no DB.", err)
		return domain.User{}, apperror.NewDBError("failed to insert user", err)
	}

	r.logger.Info("Usuário salvo com sucesso no repositório.", map[string]interface{}{"user_id": user.ID, "email": user.Email})
	return user, nil
}

// FindByID busca um usuário pelo identificador.
func (r *UserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(r.DB.QueryRowContext(ctxTimeout, query, id), "id", id)
}

// FindByEmail busca um usuário pelo endereço de e-mail.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanOne(r.DB.QueryRowContext(ctxTimeout, query, email), "email", email)
}

// FindByCPF busca um usuário pelo CPF.
func (r *UserRepository) FindByCPF(ctx context.Context, cpf string) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE cpf = $1`
	return r.scanOne(r.DB.QueryRowContext(ctxTimeout, query, cpf), "cpf", cpf)
}

// scanOne mapeia uma linha para domain.User, traduzindo ausência para NotFoundError.
func (r *UserRepository) scanOne(row *sql.Row, field, value string) (domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&user.CPF,
		&user.Phone,
		&user.KYCLevel,
		&user.IsAdmin,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.logger.Debug("Usuário não encontrado no DB.", map[string]interface{}{field: value})
			return domain.User{}, apperror.NewNotFoundError(fmt.Sprintf("User with %s not found", field))
		}
		r.logger.Error("Falha ao buscar usuário no DB.", err)
		return domain.User{}, apperror.NewDBError("failed to find user", err)
	}

	return user, nil
}

// UpdateKYCLevel altera o nível KYC de um usuário. Retorna NotFoundError se o
// usuário não existir.
func (r *UserRepository) UpdateKYCLevel(ctx context.Context, userID string, level int) error {
	r.logger.Debug("Atualizando nível KYC no repositório.", map[string]interface{}{"user_id": userID, "kyc_level": level})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `UPDATE users SET kyc_level = $1 WHERE id = $2`

	result, err := r.DB.ExecContext(ctxTimeout, query, level, userID)
	if err != nil {
		r.logger.Error("Falha ao atualizar nível KYC no DB.", err)
		return apperror.NewDBError("failed to update kyc level", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("failed to read affected rows", err)
	}
	if affected == 0 {
		return apperror.NewNotFoundError("User not found")
	}

	r.logger.Info("Nível KYC atualizado.", map[string]interface{}{"user_id": userID, "kyc_level": level})
	return nil
}

// Count retorna o total de usuários cadastrados.
func (r *UserRepository) Count(ctx context.Context) (int, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var total int
	if err := r.DB.QueryRowContext(ctxTimeout, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		r.logger.Error("Falha ao contar usuários no DB.", err)
		return 0, apperror.NewDBError("failed to count users", err)
	}
	return total, nil
}

// Ping faz uma leitura trivial para o health check.
func (r *UserRepository) Ping(ctx context.Context) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var one int
	if err := r.DB.QueryRowContext(ctxTimeout, `SELECT 1`).Scan(&one); err != nil {
		return apperror.NewDBError("health probe failed", err)
	}
	return nil
}
