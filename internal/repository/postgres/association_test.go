package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramusparts/catalog/pkg/database"
)

func TestAssociationRewrite(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	// Batch size 2 forces the three pairs into two insert statements.
	repo := NewAssociationRepository(mock, 2)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM product_vehicles WHERE product_id = ANY($1)`)).
		WithArgs([]int64{1, 2}).
		WillReturnResult(pgxmock.NewResult("DELETE", 5))

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO product_vehicles (product_id, vehicle_id) VALUES ($1, $2), ($3, $4) ON CONFLICT DO NOTHING`)).
		WithArgs(int64(1), int64(10), int64(1), int64(11)).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO product_vehicles (product_id, vehicle_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`)).
		WithArgs(int64(2), int64(12)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM product_vehicles WHERE product_id = ANY($1)`)).
		WithArgs([]int64{1, 2}).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))

	count, err := repo.Rewrite(context.Background(), map[int64][]int64{
		2: {12},
		1: {10, 11},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssociationRewriteEmpty(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAssociationRepository(mock, 0)

	count, err := repo.Rewrite(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssociationRewriteBatchFailureAborts(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAssociationRepository(mock, 1)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM product_vehicles`)).
		WithArgs([]int64{7}).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO product_vehicles`)).
		WithArgs(int64(7), int64(1)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO product_vehicles`)).
		WithArgs(int64(7), int64(2)).
		WillReturnError(errors.New("connection reset"))

	_, err = repo.Rewrite(context.Background(), map[int64][]int64{7: {1, 2, 3}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "offset 1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssociationHasAny(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAssociationRepository(mock, 0)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM product_vehicles)`)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	got, err := repo.HasAny(context.Background())
	require.NoError(t, err)
	assert.True(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}
