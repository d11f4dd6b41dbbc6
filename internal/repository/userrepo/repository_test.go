package userrepo_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"rioportop2p/internal/domain"
	apperror "rioportop2p/internal/errors"
	"rioportop2p/internal/pkg/logger"
	"rioportop2p/internal/repository/userrepo"
)

func newMockRepo(t *testing.T) (*userrepo.UserRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	// O matcher por regexp permite casar os fragmentos relevantes da query
	// sem reproduzir espaçamento e quebras de linha.
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	assert.NoError(t, err)

	repo := userrepo.NewUserRepository(db, 5*time.Second, logger.NewLogger("error"))
	return repo, mock, func() { db.Close() }
}

func userRows(user domain.User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "email", "password_hash", "full_name", "cpf", "phone", "kyc_level", "is_admin", "created_at",
	}).AddRow(
		user.ID, user.Email, user.PasswordHash, user.FullName, user.CPF,
		user.Phone, user.KYCLevel, user.IsAdmin, user.CreatedAt,
	)
}

func sampleUser() domain.User {
	return domain.User{
		ID:           "11111111-1111-1111-1111-111111111111",
		Email:        "maria@example.com",
		PasswordHash: "$2a$10$hash",
		FullName:     "Maria Silva",
		CPF:          "12345678901",
		Phone:        "+5521999998888",
		KYCLevel:     1,
		IsAdmin:      false,
		CreatedAt:    time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	}
}

// TestSave_Success verifica o insert e a geração de ID e created_at.
func TestSave_Success(t *testing.T) {
	repo, mock, cleanup := newMockRepo(t)
	defer cleanup()

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(
			sqlmock.AnyArg(), "maria@example.com", "$2a$10$hash", "Maria Silva",
			"12345678901", "+5521999998888", 1, false, sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	input := sampleUser()
	input.ID = ""
	input.CreatedAt = time.Time{}

	saved, err := repo.Save(context.Background(), input)

	assert.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestSave_UniqueViolation traduz o erro 23505 do PostgreSQL em ConflictError.
func TestSave_UniqueViolation(t *testing.T) {
	repo, mock, cleanup := newMockRepo(t)
	defer cleanup()

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})

	_, err := repo.Save(context.Background(), sampleUser())

	var conflict *apperror.ConflictError
	assert.ErrorAs(t, err, &conflict)
	assert.Equal(t, "Email or CPF already registered", err.Error())
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestFindByEmail cobre os casos de sucesso e de ausência.
func TestFindByEmail(t *testing.T) {
	t.Run("encontrado", func(t *testing.T) {
		repo, mock, cleanup := newMockRepo(t)
		defer cleanup()

		expected := sampleUser()
		mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
			WithArgs(expected.Email).
			WillReturnRows(userRows(expected))

		user, err := repo.FindByEmail(context.Background(), expected.Email)

		assert.NoError(t, err)
		assert.Equal(t, expected, user)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("não encontrado", func(t *testing.T) {
		repo, mock, cleanup := newMockRepo(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
			WithArgs("ninguem@example.com").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.FindByEmail(context.Background(), "ninguem@example.com")

		var notFound *apperror.NotFoundError
		assert.ErrorAs(t, err, &notFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

// TestFindByCPF garante que a busca usa a coluna cpf.
func TestFindByCPF(t *testing.T) {
	repo, mock, cleanup := newMockRepo(t)
	defer cleanup()

	expected := sampleUser()
	mock.ExpectQuery(`SELECT .+ FROM users WHERE cpf = \$1`).
		WithArgs(expected.CPF).
		WillReturnRows(userRows(expected))

	user, err := repo.FindByCPF(context.Background(), expected.CPF)

	assert.NoError(t, err)
	assert.Equal(t, expected.ID, user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestUpdateKYCLevel cobre a atualização e o caso de usuário inexistente.
func TestUpdateKYCLevel(t *testing.T) {
	t.Run("atualizado", func(t *testing.T) {
		repo, mock, cleanup := newMockRepo(t)
		defer cleanup()

		mock.ExpectExec(`UPDATE users SET kyc_level = \$1 WHERE id = \$2`).
			WithArgs(2, "user-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateKYCLevel(context.Background(), "user-1", 2))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("usuário inexistente", func(t *testing.T) {
		repo, mock, cleanup := newMockRepo(t)
		defer cleanup()

		mock.ExpectExec(`UPDATE users SET kyc_level = \$1 WHERE id = \$2`).
			WithArgs(3, "ghost").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateKYCLevel(context.Background(), "ghost", 3)

		var notFound *apperror.NotFoundError
		assert.ErrorAs(t, err, &notFound)
		assert.Equal(t, "User not found", err.Error())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

// TestCount retorna o total de usuários.
func TestCount(t *testing.T) {
	repo, mock, cleanup := newMockRepo(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	total, err := repo.Count(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 42, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
