package postgres

import (
	"context"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramusparts/catalog/internal/domain"
	"github.com/ramusparts/catalog/internal/repository"
	"github.com/ramusparts/catalog/pkg/database"
)

func productRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "name", "part_number", "description", "manufacturer", "category_id", "is_in_stock", "total_count",
	})
}

func TestProductListByCategory(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewProductRepository(mock, NewAssociationRepository(mock, 0))

	mock.ExpectQuery(`count\(\*\) OVER\(\)`).
		WithArgs(int64(5), 10, 10).
		WillReturnRows(productRows().
			AddRow(int64(101), "Колодки тормозные", "BP100", "", "Brembo", int64Ptr(5), true, 21))

	products, total, err := repo.List(context.Background(), repository.ProductFilter{
		CategoryID: int64Ptr(5),
		Page:       2,
		PerPage:    10,
	})

	require.NoError(t, err)
	assert.Equal(t, 21, total)
	require.Len(t, products, 1)
	assert.Equal(t, int64(101), products[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductListVehicleFilterDegradesWithoutAssociations(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewProductRepository(mock, NewAssociationRepository(mock, 0))

	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM product_vehicles\)`).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	// No vehicle EXISTS clause: only limit and offset remain.
	mock.ExpectQuery(`count\(\*\) OVER\(\)`).
		WithArgs(20, 0).
		WillReturnRows(productRows().
			AddRow(int64(1), "Антифриз G12", "AF-G12", "", "", nil, true, 1))

	products, total, err := repo.List(context.Background(), repository.ProductFilter{
		Vehicle: domain.VehicleFilter{Make: strPtr("RAM")},
		Page:    1,
		PerPage: 20,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, products, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductListVehicleFilterApplied(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewProductRepository(mock, NewAssociationRepository(mock, 0))

	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM product_vehicles\)`).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	mock.ExpectQuery(`JOIN vehicles v ON v\.id = pv\.vehicle_id`).
		WithArgs("RAM", 2021, 20, 0).
		WillReturnRows(productRows().
			AddRow(int64(103), "Амортизатор", "SH-RAM", "", "", nil, true, 1))

	products, total, err := repo.List(context.Background(), repository.ProductFilter{
		Vehicle: domain.VehicleFilter{Make: strPtr("RAM"), Year: intPtr(2021)},
		Page:    1,
		PerPage: 20,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, products, 1)
	assert.Equal(t, int64(103), products[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductSearchParts(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewProductRepository(mock, NewAssociationRepository(mock, 0))

	mock.ExpectQuery(`pv\.vehicle_id = ANY\(\$2\)`).
		WithArgs("%амортизатор%", []int64{1}).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "name", "part_number", "description", "manufacturer", "category_id", "is_in_stock",
		}).AddRow(int64(103), "Амортизатор задний", "SH-RAM", "", "", nil, true))

	products, err := repo.SearchParts(context.Background(), "амортизатор", []int64{1}, 20)

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, int64(103), products[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductSearchPartsUnrestricted(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewProductRepository(mock, NewAssociationRepository(mock, 0))

	mock.ExpectQuery(`ORDER BY is_in_stock DESC, id`).
		WithArgs("%трос%").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "name", "part_number", "description", "manufacturer", "category_id", "is_in_stock",
		}))

	products, err := repo.SearchParts(context.Background(), "трос", nil, 20)

	require.NoError(t, err)
	assert.Empty(t, products)
	assert.NotNil(t, products)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductUpdateCategories(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewProductRepository(mock, NewAssociationRepository(mock, 0))

	mock.ExpectExec(`IS DISTINCT FROM`).
		WithArgs(int64(1), int64(10), int64(2), int64(20)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))

	changed, err := repo.UpdateCategories(context.Background(), map[int64]int64{
		2: 20,
		1: 10,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(2), changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductUpdateCategoriesEmpty(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewProductRepository(mock, NewAssociationRepository(mock, 0))

	changed, err := repo.UpdateCategories(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, int64(0), changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
