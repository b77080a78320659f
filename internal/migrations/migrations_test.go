package migrations

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_Embedded(t *testing.T) {
	files, err := fs.Glob(Migrations, "*.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{"00001_create_users.sql", "00002_create_credentials.sql"}, files)

	body, err := fs.ReadFile(Migrations, "00002_create_credentials.sql")
	require.NoError(t, err)
	assert.Contains(t, string(body), "ON DELETE CASCADE")
}

func TestUp(t *testing.T) {
	orig := gooseUp
	defer func() { gooseUp = orig }()

	var gotDir string
	gooseUp = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}
	assert.NoError(t, Up(context.Background(), nil))
	assert.Equal(t, ".", gotDir)

	gooseUp = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	assert.EqualError(t, Up(context.Background(), nil), "boom")
}
