package postgres

import (
	"context"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramusparts/catalog/pkg/database"
)

func int64Ptr(v int64) *int64 { return &v }

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func TestSnapshotCategories(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewSnapshotRepository(mock)

	mock.ExpectQuery(`SELECT id, name, slug, parent_id, image_url`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "slug", "parent_id", "image_url"}).
			AddRow(int64(1), "Тормозная система", "brakes", nil, nil).
			AddRow(int64(2), "Тормозные колодки", "brake-pads", int64Ptr(1), strPtr("https://cdn/pads.png")))

	categories, err := repo.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)

	assert.True(t, categories[0].IsRoot())
	require.NotNil(t, categories[1].ParentID)
	assert.Equal(t, int64(1), *categories[1].ParentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotVehicles(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewSnapshotRepository(mock)

	mock.ExpectQuery(`SELECT id, make, model, generation, year_from, year_to, engine`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "make", "model", "generation", "year_from", "year_to", "engine"}).
			AddRow(int64(1), "RAM", "1500", strPtr("DT"), 2019, nil, strPtr("5.7 HEMI")).
			AddRow(int64(2), "RAM", "1500", strPtr("DS"), 2009, intPtr(2018), nil))

	vehicles, err := repo.Vehicles(context.Background())
	require.NoError(t, err)
	require.Len(t, vehicles, 2)

	assert.Nil(t, vehicles[0].YearTo)
	assert.True(t, vehicles[0].InProductionDuring(2026))
	require.NotNil(t, vehicles[1].YearTo)
	assert.False(t, vehicles[1].InProductionDuring(2026))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotProducts(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewSnapshotRepository(mock)

	mock.ExpectQuery(`SELECT id, name, part_number`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "part_number", "description", "manufacturer", "category_id", "is_in_stock"}).
			AddRow(int64(101), "Колодки тормозные", "BP100", "передние", "Brembo", int64Ptr(2), true).
			AddRow(int64(102), "Масло моторное", "OIL5W30", "", "", nil, false))

	products, err := repo.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "колодки тормозные bp100 brembo", products[0].RawText())
	assert.Nil(t, products[1].CategoryID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
