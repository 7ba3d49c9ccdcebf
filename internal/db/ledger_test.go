package ledger

import (
	"context"
	"errors"
	"fmt"
	"testing"

	model "github.com/glkeru/loyalty/ledgersync/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{"no rows", pgx.ErrNoRows, model.ErrNotFound},
		{"wrapped no rows", fmt.Errorf("select: %w", pgx.ErrNoRows), model.ErrNotFound},
		{"deadline", context.DeadlineExceeded, model.ErrTimeout},
		{"unique", &pgconn.PgError{Code: "23505"}, model.ErrConflict},
		{"serialization", &pgconn.PgError{Code: "40001"}, model.ErrConflict},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, model.ErrConflict},
		{"lock not available", &pgconn.PgError{Code: "55P03"}, model.ErrConflict},
		{"privilege", &pgconn.PgError{Code: "42501"}, model.ErrAccess},
		{"query canceled", &pgconn.PgError{Code: "57014"}, model.ErrTimeout},
		{"check violation", &pgconn.PgError{Code: "23514"}, model.ErrValidation},
		{"bad number", &pgconn.PgError{Code: "22003"}, model.ErrValidation},
		{"connection failure", &pgconn.PgError{Code: "08006"}, model.ErrNetwork},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, model.ErrNetwork},
		{"syntax", &pgconn.PgError{Code: "42601"}, model.ErrServer},
	}
	for _, ts := range tests {
		require.ErrorIs(t, mapError(ts.err), ts.expected, ts.name)
	}

	require.NoError(t, mapError(nil))
	plain := errors.New("plain")
	require.Equal(t, plain, mapError(plain))
}

func TestEntryFilter(t *testing.T) {
	sql, args, err := entryFilter("u1", model.Filter{}).ToSql()
	require.NoError(t, err)
	require.Equal(t, "(userid = ?)", sql)
	require.Equal(t, []any{"u1"}, args)

	sql, args, err = entryFilter("u1", model.Filter{Query: "50%", CategoryID: "c1", Kinds: []int{1, 2}}).ToSql()
	require.NoError(t, err)
	require.Equal(t, "(userid = ? AND categoryid = ? AND kind IN (?,?) AND description ILIKE ?)", sql)
	require.Equal(t, []any{"u1", "c1", 1, 2, `%50\%%`}, args)
}

func TestEscapeLike(t *testing.T) {
	require.Equal(t, "coffee", escapeLike("coffee"))
	require.Equal(t, `a\_b\%c\\d`, escapeLike(`a_b%c\d`))
}
