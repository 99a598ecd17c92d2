package postgres

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ramusparts/catalog/internal/domain"
	"github.com/ramusparts/catalog/internal/repository"
	"github.com/ramusparts/catalog/pkg/database"
)

// productColumns is the standard SELECT column list for products.
const productColumns = `id, name, part_number, COALESCE(description, ''), COALESCE(manufacturer, ''), category_id, is_in_stock`

// categoryUpdateBatchSize bounds the VALUES list of one category-assignment
// update statement.
const categoryUpdateBatchSize = 1000

// associationChecker is the slice of the association repository the listing
// needs for its degrade decision.
type associationChecker interface {
	HasAny(ctx context.Context) (bool, error)
}

// ProductRepository implements product reads and the category-assignment
// write using PostgreSQL.
type ProductRepository struct {
	pool   database.DBTX
	assocs associationChecker
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool database.DBTX, assocs associationChecker) *ProductRepository {
	return &ProductRepository{pool: pool, assocs: assocs}
}

// List returns products matching the given filter with the total count.
// A vehicle filter is only applied when association rows exist; before the
// first classification pass it degrades to an unfiltered listing so the
// storefront is never empty.
func (r *ProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.CategoryID != nil {
		conditions = append(conditions, fmt.Sprintf("category_id = $%d", argIndex))
		args = append(args, *filter.CategoryID)
		argIndex++
	}

	if filter.InStock != nil {
		conditions = append(conditions, fmt.Sprintf("is_in_stock = $%d", argIndex))
		args = append(args, *filter.InStock)
		argIndex++
	}

	if filter.Search != nil {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d OR part_number ILIKE $%d)", argIndex, argIndex, argIndex))
		args = append(args, "%"+*filter.Search+"%")
		argIndex++
	}

	if !filter.Vehicle.IsZero() {
		hasAssociations, err := r.assocs.HasAny(ctx)
		if err != nil {
			return nil, 0, err
		}
		if hasAssociations {
			cond, vehicleArgs := vehicleCondition(filter.Vehicle, argIndex)
			conditions = append(conditions, cond)
			args = append(args, vehicleArgs...)
			argIndex += len(vehicleArgs)
		}
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	// count(*) OVER() yields the total count in a single query.
	query := fmt.Sprintf(`
		SELECT %s, count(*) OVER() AS total_count
		FROM products
		%s
		ORDER BY id
		LIMIT $%d OFFSET $%d`,
		productColumns, whereClause, argIndex, argIndex+1,
	)

	limit := filter.PerPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}

	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var (
		products   []domain.Product
		totalCount int
	)

	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.PartNumber, &p.Description, &p.Manufacturer, &p.CategoryID, &p.IsInStock, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate product rows: %w", err)
	}

	if products == nil {
		products = []domain.Product{}
	}

	return products, totalCount, nil
}

// vehicleCondition builds the EXISTS clause restricting products to those
// associated with a vehicle matching the filter. EXISTS deduplicates
// products linked to several qualifying vehicles.
func vehicleCondition(f domain.VehicleFilter, argIndex int) (string, []any) {
	inner := []string{"pv.product_id = products.id"}
	var args []any

	if f.Make != nil {
		inner = append(inner, fmt.Sprintf("v.make = $%d", argIndex))
		args = append(args, *f.Make)
		argIndex++
	}
	if f.Model != nil {
		inner = append(inner, fmt.Sprintf("v.model = $%d", argIndex))
		args = append(args, *f.Model)
		argIndex++
	}
	if f.Engine != nil {
		inner = append(inner, fmt.Sprintf("v.engine = $%d", argIndex))
		args = append(args, *f.Engine)
		argIndex++
	}
	if f.Year != nil {
		inner = append(inner, fmt.Sprintf("v.year_from <= $%d AND (v.year_to IS NULL OR v.year_to >= $%d)", argIndex, argIndex))
		args = append(args, *f.Year)
		argIndex++
	}

	cond := fmt.Sprintf(`EXISTS (
		SELECT 1 FROM product_vehicles pv
		JOIN vehicles v ON v.id = pv.vehicle_id
		WHERE %s)`, strings.Join(inner, " AND "))
	return cond, args
}

// SearchParts runs a substring search over product text, optionally
// restricted to products linked to the given vehicle identifiers. In-stock
// products sort first.
func (r *ProductRepository) SearchParts(ctx context.Context, partText string, vehicleIDs []int64, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 20
	}

	args := []any{"%" + partText + "%"}
	restriction := ""
	if len(vehicleIDs) > 0 {
		restriction = `AND EXISTS (
			SELECT 1 FROM product_vehicles pv
			WHERE pv.product_id = products.id AND pv.vehicle_id = ANY($2))`
		args = append(args, vehicleIDs)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE (name ILIKE $1 OR description ILIKE $1 OR part_number ILIKE $1)
		%s
		ORDER BY is_in_stock DESC, id
		LIMIT %d`,
		productColumns, restriction, limit,
	)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search parts: %w", err)
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

	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

// UpdateCategories applies category assignments in batches and returns the
// number of products whose category actually changed.
func (r *ProductRepository) UpdateCategories(ctx context.Context, assignments map[int64]int64) (int64, error) {
	if len(assignments) == 0 {
		return 0, nil
	}

	productIDs := make([]int64, 0, len(assignments))
	for id := range assignments {
		productIDs = append(productIDs, id)
	}
	sort.Slice(productIDs, func(i, j int) bool { return productIDs[i] < productIDs[j] })

	var changed int64
	for start := 0; start < len(productIDs); start += categoryUpdateBatchSize {
		end := start + categoryUpdateBatchSize
		if end > len(productIDs) {
			end = len(productIDs)
		}

		var sb strings.Builder
		sb.WriteString(`UPDATE products AS p SET category_id = v.category_id FROM (VALUES `)
		args := make([]any, 0, (end-start)*2)
		for i, pid := range productIDs[start:end] {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "($%d::bigint, $%d::bigint)", i*2+1, i*2+2)
			args = append(args, pid, assignments[pid])
		}
		sb.WriteString(`) AS v(id, category_id) WHERE p.id = v.id AND p.category_id IS DISTINCT FROM v.category_id`)

		ct, err := r.pool.Exec(ctx, sb.String(), args...)
		if err != nil {
			return changed, fmt.Errorf("update category assignments at offset %d: %w", start, err)
		}
		changed += ct.RowsAffected()
	}

	return changed, nil
}
