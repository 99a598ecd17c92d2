package postgres

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ramusparts/catalog/pkg/database"
)

// DefaultBatchSize keeps a single multi-row INSERT comfortably under
// statement size limits while still amortizing round trips.
const DefaultBatchSize = 5000

// AssociationRepository owns the product_vehicles table. A classification
// pass fully replaces the associations of every product it touches; the
// table has no other writers.
type AssociationRepository struct {
	pool      database.DBTX
	batchSize int
}

// NewAssociationRepository creates a new PostgreSQL-backed association
// repository. A non-positive batchSize falls back to DefaultBatchSize.
func NewAssociationRepository(pool database.DBTX, batchSize int) *AssociationRepository {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &AssociationRepository{pool: pool, batchSize: batchSize}
}

// Rewrite deletes every association row for the given products and inserts
// the supplied links in fixed-size batches. Inserts ignore duplicate pairs
// (two detection rules may propose the same pair within one run) so the
// operation is idempotent. The first failing batch aborts the rest and is
// surfaced to the caller; partial state is recoverable by retrying the whole
// pass. Returns the row count present for the products after the operation.
func (r *AssociationRepository) Rewrite(ctx context.Context, links map[int64][]int64) (int64, error) {
	if len(links) == 0 {
		return 0, nil
	}

	// Process products in ascending ID order so batch composition is
	// deterministic across runs.
	productIDs := make([]int64, 0, len(links))
	for id := range links {
		productIDs = append(productIDs, id)
	}
	sort.Slice(productIDs, func(i, j int) bool { return productIDs[i] < productIDs[j] })

	if _, err := r.pool.Exec(ctx,
		`DELETE FROM product_vehicles WHERE product_id = ANY($1)`, productIDs,
	); err != nil {
		return 0, fmt.Errorf("delete stale associations: %w", err)
	}

	pairs := make([][2]int64, 0, len(links))
	for _, pid := range productIDs {
		for _, vid := range links[pid] {
			pairs = append(pairs, [2]int64{pid, vid})
		}
	}

	for start := 0; start < len(pairs); start += r.batchSize {
		end := start + r.batchSize
		if end > len(pairs) {
			end = len(pairs)
		}
		if err := r.insertBatch(ctx, pairs[start:end]); err != nil {
			return 0, fmt.Errorf("insert association batch at offset %d: %w", start, err)
		}
	}

	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM product_vehicles WHERE product_id = ANY($1)`, productIDs,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count associations: %w", err)
	}

	return count, nil
}

// insertBatch writes one multi-row insert, silently skipping pairs that
// already exist.
func (r *AssociationRepository) insertBatch(ctx context.Context, pairs [][2]int64) error {
	var sb strings.Builder
	sb.WriteString("INSERT INTO product_vehicles (product_id, vehicle_id) VALUES ")

	args := make([]any, 0, len(pairs)*2)
	for i, pair := range pairs {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "($%d, $%d)", i*2+1, i*2+2)
		args = append(args, pair[0], pair[1])
	}
	sb.WriteString(" ON CONFLICT DO NOTHING")

	if _, err := r.pool.Exec(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("exec insert: %w", err)
	}
	return nil
}

// HasAny reports whether any association rows exist. The listing filter uses
// this to degrade to an unfiltered listing before the first classification
// pass has ever run.
func (r *AssociationRepository) HasAny(ctx context.Context) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM product_vehicles)`).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check associations exist: %w", err)
	}
	return exists, nil
}
