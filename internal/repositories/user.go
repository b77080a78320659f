package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-identity/internal/logger"
	"github.com/sbilibin2017/gw-identity/internal/models"
)

// ErrUniqueViolation is returned when a write hits a unique constraint.
var ErrUniqueViolation = errors.New("unique constraint violation")

const pgUniqueViolation = "23505"

const userColumns = `id, username, email, name, password, is_admin, last_login_at, created_at, updated_at`

// translateError maps a unique constraint violation to ErrUniqueViolation.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: %s", ErrUniqueViolation, pgErr.ConstraintName)
	}
	return err
}

func logQuery(query string, args []any, result any, err error) {
	logger.Log.Infow("sql",
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", result,
		"error", err,
	)
}

type UserReadRepository struct {
	db *sqlx.DB
}

func NewUserReadRepository(db *sqlx.DB) *UserReadRepository {
	return &UserReadRepository{db: db}
}

// GetByID returns the user with the given id, or nil if there is none.
func (r *UserReadRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByUsername returns the user with the given username, or nil if there is none.
func (r *UserReadRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

// GetByEmail returns the user with the given email, or nil if there is none.
func (r *UserReadRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserReadRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, query, arg)

	if errors.Is(err, sql.ErrNoRows) {
		logQuery(query, []any{arg}, "not found", nil)
		return nil, nil
	}
	logQuery(query, []any{arg}, user.ID, err)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// List returns every user ordered by id.
func (r *UserReadRepository) List(ctx context.Context) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`

	users := []models.User{}
	err := r.db.SelectContext(ctx, &users, query)

	logQuery(query, nil, len(users), err)

	if err != nil {
		return nil, err
	}
	return users, nil
}

type UserWriteRepository struct {
	db *sqlx.DB
}

func NewUserWriteRepository(db *sqlx.DB) *UserWriteRepository {
	return &UserWriteRepository{db: db}
}

// Create inserts a user and returns the stored row.
func (r *UserWriteRepository) Create(ctx context.Context, in models.UserCreate) (*models.User, error) {
	query := `
		INSERT INTO users (username, email, name, password, is_admin, last_login_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING ` + userColumns

	var user models.User
	err := r.db.GetContext(ctx, &user, query,
		in.Username, in.Email, in.Name, in.Password, in.IsAdmin, in.LastLoginAt)

	// the hash is never logged
	logQuery(query, []any{in.Username, in.Email, in.Name, in.IsAdmin, in.LastLoginAt}, user.ID, err)

	if err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// Update applies the non-nil fields of upd and returns the stored row,
// or nil if no user has upd.ID.
func (r *UserWriteRepository) Update(ctx context.Context, upd models.UserUpdate) (*models.User, error) {
	var (
		sets    []string
		args    []any
		logArgs []any
	)
	set := func(col string, v any, loggable bool) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
		if loggable {
			logArgs = append(logArgs, v)
		}
	}

	if upd.Username != nil {
		set("username", *upd.Username, true)
	}
	if upd.Email != nil {
		set("email", *upd.Email, true)
	}
	if upd.Name != nil {
		set("name", *upd.Name, true)
	}
	if upd.Password != nil {
		set("password", *upd.Password, false)
	}
	if upd.IsAdmin != nil {
		set("is_admin", *upd.IsAdmin, true)
	}
	if upd.LastLoginAt != nil {
		set("last_login_at", *upd.LastLoginAt, true)
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, upd.ID)
	logArgs = append(logArgs, upd.ID)

	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), userColumns)

	var user models.User
	err := r.db.GetContext(ctx, &user, query, args...)

	if errors.Is(err, sql.ErrNoRows) {
		logQuery(query, logArgs, "not found", nil)
		return nil, nil
	}
	logQuery(query, logArgs, user.ID, err)
	if err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// Delete removes the user with the given id and returns the number of
// deleted rows. Owned credentials are removed by the foreign key cascade.
func (r *UserWriteRepository) Delete(ctx context.Context, id int64) (int64, error) {
	query := `DELETE FROM users WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logQuery(query, []any{id}, rowsAffected, err)

	return rowsAffected, err
}

// BulkDelete removes every user whose id is in ids and returns the number
// of deleted rows.
func (r *UserWriteRepository) BulkDelete(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := sqlx.In(`DELETE FROM users WHERE id IN (?)`, ids)
	if err != nil {
		return 0, err
	}
	query = r.db.Rebind(query)

	res, err := r.db.ExecContext(ctx, query, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logQuery(query, args, rowsAffected, err)

	return rowsAffected, err
}
