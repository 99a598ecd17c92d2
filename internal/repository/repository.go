package repository

import (
	"context"

	"github.com/ramusparts/catalog/internal/domain"
)

// ProductFilter defines filter criteria for listing products.
type ProductFilter struct {
	CategoryID *int64
	InStock    *bool
	Search     *string
	Vehicle    domain.VehicleFilter
	Page       int
	PerPage    int
}

// SnapshotRepository loads the read-only snapshots a classification pass
// works from. All snapshots are returned in ascending identifier order; the
// scorer's tie-break contract depends on that ordering being stable.
type SnapshotRepository interface {
	// Categories returns the full category tree snapshot.
	Categories(ctx context.Context) ([]domain.Category, error)

	// Vehicles returns the full vehicle universe.
	Vehicles(ctx context.Context) ([]domain.Vehicle, error)

	// Products returns every product eligible for classification.
	Products(ctx context.Context) ([]domain.Product, error)
}

// ProductRepository exposes the product reads and the single write the
// engine owns (category reassignment).
type ProductRepository interface {
	// List returns products matching the given filter along with the total
	// count. A vehicle filter degrades to unfiltered when no associations
	// exist yet.
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)

	// SearchParts runs a substring search over product names and
	// descriptions, optionally restricted to products associated with the
	// given vehicles. An empty vehicleIDs slice means no restriction.
	SearchParts(ctx context.Context, partText string, vehicleIDs []int64, limit int) ([]domain.Product, error)

	// UpdateCategories applies category assignments (product ID -> category
	// ID) and returns how many rows changed. Assignments equal to the
	// current value are skipped by the database.
	UpdateCategories(ctx context.Context, assignments map[int64]int64) (int64, error)
}

// AssociationRepository owns the product-vehicle association table.
type AssociationRepository interface {
	// Rewrite replaces all associations for the given products with the
	// supplied links and returns the number of association rows present for
	// those products afterwards. Batches failing mid-run abort the rest;
	// the operation is idempotent on retry.
	Rewrite(ctx context.Context, links map[int64][]int64) (int64, error)

	// HasAny reports whether any association rows exist at all. The product
	// listing degrades its vehicle filter to unfiltered when none do.
	HasAny(ctx context.Context) (bool, error)
}
