package database

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-workspace/pkg/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{Host: "db", Port: 5432, User: "app", Password: "pw", Name: "ws", SSLMode: "disable"})
	assert.Equal(t, "host=db port=5432 user=app password=pw dbname=ws sslmode=disable", dsn)

	dsn = DSN(config.DatabaseConfig{Host: "db", User: "app", Password: `it's a \secret`})
	assert.Equal(t, `host=db user=app password='it\'s a \\secret'`, dsn)
}

func TestEnsureAuditSchema(t *testing.T) {
	raw, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer raw.Close()
	db := sqlx.NewDb(raw, "sqlmock")

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS workspace_audit_logs")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, EnsureAuditSchema(context.Background(), db))
	require.NoError(t, mock.ExpectationsWereMet())
}
