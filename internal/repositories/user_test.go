package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-identity/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userCols = []string{"id", "username", "email", "name", "password", "is_admin", "last_login_at", "created_at", "updated_at"}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "pgx"), mock
}

func TestUserReadRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserReadRepository(db)
	now := time.Now().UTC()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(userCols).
				AddRow(1, "alice", "alice@example.com", "Alice", "hash", true, nil, now, now))

		user, err := repo.GetByID(context.Background(), 1)
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "hash", user.Password)
		assert.True(t, user.IsAdmin)
		assert.Nil(t, user.LastLoginAt)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows(userCols))

		user, err := repo.GetByID(context.Background(), 2)
		assert.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
			WithArgs(int64(3)).
			WillReturnError(errors.New("db down"))

		user, err := repo.GetByID(context.Background(), 3)
		assert.EqualError(t, err, "db down")
		assert.Nil(t, user)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserReadRepository_GetByUsernameAndEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserReadRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = $1")).
		WithArgs("bob").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(5, "bob", "bob@example.com", "Bob", "hash", false, now, now, now))
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows(userCols))

	user, err := repo.GetByUsername(context.Background(), "bob")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, int64(5), user.ID)
	require.NotNil(t, user.LastLoginAt)

	user, err = repo.GetByEmail(context.Background(), "nobody@example.com")
	assert.NoError(t, err)
	assert.Nil(t, user)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserReadRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserReadRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users ORDER BY id")).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(1, "a", "a@example.com", "A", "h", false, nil, now, now).
			AddRow(2, "b", "b@example.com", "B", "h", true, nil, now, now))

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, "b", users[1].Username)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users ORDER BY id")).
		WillReturnRows(sqlmock.NewRows(userCols))

	users, err = repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserWriteRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserWriteRepository(db)
	now := time.Now().UTC()
	in := models.UserCreate{Username: "carol", Email: "carol@example.com", Name: "Carol", Password: "hash"}

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
			WithArgs("carol", "carol@example.com", "Carol", "hash", false, nil).
			WillReturnRows(sqlmock.NewRows(userCols).
				AddRow(10, "carol", "carol@example.com", "Carol", "hash", false, nil, now, now))

		user, err := repo.Create(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, int64(10), user.ID)
		assert.Equal(t, now, user.CreatedAt)
	})

	t.Run("unique violation", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

		user, err := repo.Create(context.Background(), in)
		assert.ErrorIs(t, err, ErrUniqueViolation)
		assert.Contains(t, err.Error(), "users_username_key")
		assert.Nil(t, user)
	})

	t.Run("other error", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
			WillReturnError(&pgconn.PgError{Code: "23502"})

		_, err := repo.Create(context.Background(), in)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrUniqueViolation)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserWriteRepository_Update(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserWriteRepository(db)
	now := time.Now().UTC()
	name := "New"
	admin := true

	t.Run("partial update", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(
			"UPDATE users SET name = $1, is_admin = $2, updated_at = NOW() WHERE id = $3 RETURNING")).
			WithArgs("New", true, int64(7)).
			WillReturnRows(sqlmock.NewRows(userCols).
				AddRow(7, "dave", "dave@example.com", "New", "hash", true, nil, now, now))

		user, err := repo.Update(context.Background(), models.UserUpdate{ID: 7, Name: &name, IsAdmin: &admin})
		require.NoError(t, err)
		assert.Equal(t, "New", user.Name)
		assert.True(t, user.IsAdmin)
	})

	t.Run("last login only", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(
			"UPDATE users SET last_login_at = $1, updated_at = NOW() WHERE id = $2 RETURNING")).
			WithArgs(now, int64(7)).
			WillReturnRows(sqlmock.NewRows(userCols).
				AddRow(7, "dave", "dave@example.com", "New", "hash", true, now, now, now))

		user, err := repo.Update(context.Background(), models.UserUpdate{ID: 7, LastLoginAt: &now})
		require.NoError(t, err)
		require.NotNil(t, user.LastLoginAt)
	})

	t.Run("no row", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE users SET name = $1, updated_at = NOW() WHERE id = $2")).
			WithArgs("New", int64(99)).
			WillReturnRows(sqlmock.NewRows(userCols))

		user, err := repo.Update(context.Background(), models.UserUpdate{ID: 99, Name: &name})
		assert.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("unique violation", func(t *testing.T) {
		email := "taken@example.com"
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE users SET email = $1")).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

		_, err := repo.Update(context.Background(), models.UserUpdate{ID: 7, Email: &email})
		assert.ErrorIs(t, err, ErrUniqueViolation)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserWriteRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserWriteRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = $1")).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = $1")).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := repo.Delete(context.Background(), 4)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.Delete(context.Background(), 4)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserWriteRepository_BulkDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserWriteRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id IN ($1, $2, $3)")).
		WithArgs(int64(1), int64(2), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := repo.BulkDelete(context.Background(), []int64{1, 2, 3})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repo.BulkDelete(context.Background(), nil)
	assert.NoError(t, err)
	assert.Zero(t, n)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialReadRepository_CountByUserID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCredentialReadRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM credentials WHERE user_id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	n, err := repo.CountByUserID(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.NoError(t, mock.ExpectationsWereMet())
}
