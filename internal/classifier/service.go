// Package classifier orchestrates the classification pass: snapshot load,
// category scoring, fitment matching, and the bulk writes, under a
// pass-level distributed lock.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ramusparts/catalog/internal/domain"
	"github.com/ramusparts/catalog/internal/event"
	"github.com/ramusparts/catalog/internal/fitment"
	"github.com/ramusparts/catalog/internal/repository"
	"github.com/ramusparts/catalog/internal/taxonomy"
	apperrors "github.com/ramusparts/catalog/pkg/errors"
	"github.com/ramusparts/catalog/pkg/logger"
)

// DefaultLockKey is the Redis key guarding pass exclusivity.
const DefaultLockKey = "catalog:classification:lock"

// EventPublisher publishes classification lifecycle events. A nil publisher
// disables eventing; the pass itself never depends on Kafka availability.
type EventPublisher interface {
	PublishPassCompleted(ctx context.Context, data event.PassCompletedData) error
	PublishProductClassified(ctx context.Context, data event.ProductClassifiedData) error
}

// Config holds the tunables of the classification engine.
type Config struct {
	CatchAllSlug string
	Weights      taxonomy.Weights
	Fallback     fitment.FallbackPolicy
	Concurrency  int
	LockKey      string
	LockTTL      time.Duration
}

// RunSummary reports what one classification pass did.
type RunSummary struct {
	RunID               string         `json:"run_id"`
	Products            int            `json:"products"`
	CategoriesChanged   int64          `json:"categories_changed"`
	CatchAllAssigned    int            `json:"catch_all_assigned"`
	AssociationsWritten int64          `json:"associations_written"`
	MatchesByRule       map[string]int `json:"matches_by_rule"`
	StartedAt           time.Time      `json:"started_at"`
	Duration            time.Duration  `json:"duration"`
}

// Service is the classification engine.
type Service struct {
	snapshots repository.SnapshotRepository
	products  repository.ProductRepository
	assocs    repository.AssociationRepository
	events    EventPublisher
	locker    Locker
	matcher   *fitment.Matcher
	cfg       Config
	logger    *slog.Logger
}

// NewService wires the classification engine. events may be nil.
func NewService(
	snapshots repository.SnapshotRepository,
	products repository.ProductRepository,
	assocs repository.AssociationRepository,
	events EventPublisher,
	locker Locker,
	vocab *fitment.Vocabulary,
	cfg Config,
	log *slog.Logger,
) *Service {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 8
	}
	if cfg.LockKey == "" {
		cfg.LockKey = DefaultLockKey
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 10 * time.Minute
	}
	if cfg.CatchAllSlug == "" {
		cfg.CatchAllSlug = domain.DefaultCatchAllSlug
	}
	return &Service{
		snapshots: snapshots,
		products:  products,
		assocs:    assocs,
		events:    events,
		locker:    locker,
		matcher:   fitment.NewMatcher(vocab, cfg.Fallback),
		cfg:       cfg,
		logger:    log,
	}
}

// RunPass executes one full classification pass. Only one pass runs at a
// time; a concurrent attempt fails fast with a conflict error instead of
// queueing.
func (s *Service) RunPass(ctx context.Context) (*RunSummary, error) {
	acquired, err := s.locker.Acquire(ctx, s.cfg.LockKey, s.cfg.LockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire pass lock: %w", err)
	}
	if !acquired {
		return nil, apperrors.PassInProgress()
	}
	defer func() {
		if err := s.locker.Release(context.WithoutCancel(ctx), s.cfg.LockKey); err != nil {
			s.logger.Warn("failed to release pass lock", slog.String("error", err.Error()))
		}
	}()

	runID := uuid.New().String()
	ctx = logger.WithRunID(ctx, runID)
	log := logger.WithContext(ctx, s.logger)
	started := time.Now()

	log.Info("classification pass started")

	categories, err := s.snapshots.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("load category snapshot: %w", err)
	}
	vehicles, err := s.snapshots.Vehicles(ctx)
	if err != nil {
		return nil, fmt.Errorf("load vehicle snapshot: %w", err)
	}
	products, err := s.snapshots.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("load product snapshot: %w", err)
	}

	index, err := taxonomy.Build(categories, s.cfg.CatchAllSlug)
	if err != nil {
		if !errors.Is(err, taxonomy.ErrNoCatchAll) {
			return nil, fmt.Errorf("build category index: %w", err)
		}
		log.Warn("no catch-all category in snapshot, unmatched products keep their category",
			slog.String("catch_all_slug", s.cfg.CatchAllSlug))
	}

	assignments, err := s.ClassifyCatalog(ctx, products, index)
	if err != nil {
		return nil, fmt.Errorf("classify catalog: %w", err)
	}

	links, ruleCounts, err := s.LinkCatalogToVehicles(ctx, products, vehicles)
	if err != nil {
		return nil, fmt.Errorf("link catalog to vehicles: %w", err)
	}

	changed, err := s.products.UpdateCategories(ctx, assignments)
	if err != nil {
		return nil, fmt.Errorf("write category assignments: %w", err)
	}

	written, err := s.assocs.Rewrite(ctx, links)
	if err != nil {
		return nil, fmt.Errorf("rewrite associations: %w", err)
	}

	summary := &RunSummary{
		RunID:               runID,
		Products:            len(products),
		CategoriesChanged:   changed,
		CatchAllAssigned:    countCatchAll(assignments, index.CatchAllID()),
		AssociationsWritten: written,
		MatchesByRule:       ruleCounts,
		StartedAt:           started.UTC(),
		Duration:            time.Since(started),
	}

	s.observe(summary, assignments, products)
	s.publish(ctx, log, summary, assignments, products)

	log.Info("classification pass completed",
		slog.Int("products", summary.Products),
		slog.Int64("categories_changed", summary.CategoriesChanged),
		slog.Int("catch_all_assigned", summary.CatchAllAssigned),
		slog.Int64("associations_written", summary.AssociationsWritten),
		slog.Duration("duration", summary.Duration),
	)

	return summary, nil
}

// ClassifyCatalog scores every product against the category index and
// returns product -> category assignments. A zero catch-all (degraded index)
// drops unmatched products from the result so they keep their current
// category.
func (s *Service) ClassifyCatalog(ctx context.Context, products []domain.Product, index *taxonomy.Index) (map[int64]int64, error) {
	scorer := taxonomy.NewScorer(index, s.cfg.Weights)
	results := make([]int64, len(products))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for i, p := range products {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = scorer.Assign(p.RawText(), p.FullText())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	assignments := make(map[int64]int64, len(products))
	for i, p := range products {
		if results[i] != 0 {
			assignments[p.ID] = results[i]
		}
	}
	return assignments, nil
}

// LinkCatalogToVehicles resolves vehicle compatibility for every product and
// returns product -> vehicle links plus per-rule decision counts.
func (s *Service) LinkCatalogToVehicles(ctx context.Context, products []domain.Product, universe []domain.Vehicle) (map[int64][]int64, map[string]int, error) {
	matches := make([]fitment.Match, len(products))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for i, p := range products {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			matches[i] = s.matcher.Match(p.RawText(), universe)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	links := make(map[int64][]int64, len(products))
	ruleCounts := make(map[string]int)
	for i, p := range products {
		links[p.ID] = matches[i].VehicleIDs
		ruleCounts[string(matches[i].Rule)]++
	}
	return links, ruleCounts, nil
}

// ResolveQuery extracts the vehicle intent and remaining part text from one
// conversational search query.
func (s *Service) ResolveQuery(query string) fitment.QueryIntent {
	return s.matcher.ResolveQuery(query)
}

// SearchParts resolves a conversational query and returns matching products,
// restricted to the resolved vehicles when the query names any.
func (s *Service) SearchParts(ctx context.Context, query string, limit int) (fitment.QueryIntent, []domain.Product, error) {
	intent := s.matcher.ResolveQuery(query)

	var vehicleIDs []int64
	if intent.HasVehicle() {
		universe, err := s.snapshots.Vehicles(ctx)
		if err != nil {
			return intent, nil, fmt.Errorf("load vehicle snapshot: %w", err)
		}
		vehicleIDs = vehiclesForIntent(intent, universe)
		if len(vehicleIDs) == 0 {
			// The query names a vehicle the catalog does not cover.
			return intent, []domain.Product{}, nil
		}
	}

	partText := intent.PartText
	if partText == "" {
		partText = query
	}

	products, err := s.products.SearchParts(ctx, partText, vehicleIDs, limit)
	if err != nil {
		return intent, nil, fmt.Errorf("search parts: %w", err)
	}
	return intent, products, nil
}

func vehiclesForIntent(intent fitment.QueryIntent, universe []domain.Vehicle) []int64 {
	var ids []int64
	for _, v := range universe {
		if intent.Make != nil && v.Make != *intent.Make {
			continue
		}
		if intent.Model != nil && !v.MatchesModel(*intent.Model) {
			continue
		}
		if intent.Year != nil && !v.InProductionDuring(*intent.Year) {
			continue
		}
		ids = append(ids, v.ID)
	}
	return ids
}

func countCatchAll(assignments map[int64]int64, catchAllID int64) int {
	if catchAllID == 0 {
		return 0
	}
	n := 0
	for _, cid := range assignments {
		if cid == catchAllID {
			n++
		}
	}
	return n
}

func (s *Service) observe(summary *RunSummary, assignments map[int64]int64, products []domain.Product) {
	assigned := 0
	for _, p := range products {
		newID, ok := assignments[p.ID]
		switch {
		case !ok:
			productsClassified.WithLabelValues("kept").Inc()
		case p.CategoryID != nil && *p.CategoryID == newID:
			productsClassified.WithLabelValues("unchanged").Inc()
		default:
			productsClassified.WithLabelValues("assigned").Inc()
			assigned++
		}
	}
	for rule, n := range summary.MatchesByRule {
		fitmentMatches.WithLabelValues(rule).Add(float64(n))
	}
	associationsWritten.Add(float64(summary.AssociationsWritten))
	passDuration.Observe(summary.Duration.Seconds())
}

// publish emits lifecycle events. Event failures never fail the pass.
func (s *Service) publish(ctx context.Context, log *slog.Logger, summary *RunSummary, assignments map[int64]int64, products []domain.Product) {
	if s.events == nil {
		return
	}

	data := event.PassCompletedData{
		RunID:               summary.RunID,
		Products:            summary.Products,
		CategoriesChanged:   summary.CategoriesChanged,
		AssociationsWritten: summary.AssociationsWritten,
		CatchAllAssigned:    summary.CatchAllAssigned,
		MatchesByRule:       summary.MatchesByRule,
		Duration:            summary.Duration,
		StartedAt:           summary.StartedAt,
	}
	if err := s.events.PublishPassCompleted(ctx, data); err != nil {
		log.Warn("failed to publish pass completed event", slog.String("error", err.Error()))
	}

	var once sync.Once
	for _, p := range products {
		newID, ok := assignments[p.ID]
		if !ok || (p.CategoryID != nil && *p.CategoryID == newID) {
			continue
		}
		err := s.events.PublishProductClassified(ctx, event.ProductClassifiedData{
			RunID:      summary.RunID,
			ProductID:  p.ID,
			CategoryID: newID,
		})
		if err != nil {
			once.Do(func() {
				log.Warn("failed to publish product classified events", slog.String("error", err.Error()))
			})
		}
	}
}
