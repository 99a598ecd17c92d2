package postgres

import (
	"context"
	"fmt"

	"github.com/ramusparts/catalog/internal/domain"
	"github.com/ramusparts/catalog/pkg/database"
)

// SnapshotRepository loads classification snapshots from PostgreSQL.
type SnapshotRepository struct {
	pool database.DBTX
}

// NewSnapshotRepository creates a new PostgreSQL-backed snapshot repository.
func NewSnapshotRepository(pool database.DBTX) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}

// Categories returns the full category tree ordered by ascending ID.
func (r *SnapshotRepository) Categories(ctx context.Context) ([]domain.Category, error) {
	query := `
		SELECT id, name, slug, parent_id, image_url
		FROM categories
		ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.ParentID, &c.ImageURL); err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category rows: %w", err)
	}

	return categories, nil
}

// Vehicles returns the full vehicle universe ordered by ascending ID.
func (r *SnapshotRepository) Vehicles(ctx context.Context) ([]domain.Vehicle, error) {
	query := `
		SELECT id, make, model, generation, year_from, year_to, engine
		FROM vehicles
		ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []domain.Vehicle
	for rows.Next() {
		var v domain.Vehicle
		if err := rows.Scan(&v.ID, &v.Make, &v.Model, &v.Generation, &v.YearFrom, &v.YearTo, &v.Engine); err != nil {
			return nil, fmt.Errorf("scan vehicle row: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vehicle rows: %w", err)
	}

	return vehicles, nil
}

// Products returns every product ordered by ascending ID.
func (r *SnapshotRepository) Products(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT id, name, part_number, COALESCE(description, ''), COALESCE(manufacturer, ''), category_id, is_in_stock
		FROM products
		ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.PartNumber, &p.Description, &p.Manufacturer, &p.CategoryID, &p.IsInStock); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, nil
}
