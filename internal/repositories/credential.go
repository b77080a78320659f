package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// CredentialReadRepository reads the passkey credentials owned by users.
type CredentialReadRepository struct {
	db *sqlx.DB
}

func NewCredentialReadRepository(db *sqlx.DB) *CredentialReadRepository {
	return &CredentialReadRepository{db: db}
}

// CountByUserID returns how many credentials the user owns.
func (r *CredentialReadRepository) CountByUserID(ctx context.Context, userID int64) (int, error) {
	query := `SELECT COUNT(*) FROM credentials WHERE user_id = $1`

	var count int
	err := r.db.GetContext(ctx, &count, query, userID)

	logQuery(query, []any{userID}, count, err)

	return count, err
}
