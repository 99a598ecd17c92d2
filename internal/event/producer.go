// Package event publishes classification lifecycle events to Kafka so the
// surrounding storefront services can react to catalog changes.
package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ramusparts/catalog/pkg/kafka"
	"github.com/ramusparts/catalog/pkg/logger"
)

// Kafka topics owned by the classification engine.
const (
	TopicPassCompleted     = "catalog.pass.completed"
	TopicProductClassified = "catalog.product.classified"
)

const source = "catalog-engine"

// PassCompletedData is the payload of a pass completion event.
type PassCompletedData struct {
	RunID               string         `json:"run_id"`
	Products            int            `json:"products"`
	CategoriesChanged   int64          `json:"categories_changed"`
	AssociationsWritten int64          `json:"associations_written"`
	CatchAllAssigned    int            `json:"catch_all_assigned"`
	MatchesByRule       map[string]int `json:"matches_by_rule"`
	Duration            time.Duration  `json:"duration_ns"`
	StartedAt           time.Time      `json:"started_at"`
}

// ProductClassifiedData is the payload of a per-product reassignment event.
// Only products whose category actually changed are published.
type ProductClassifiedData struct {
	RunID      string `json:"run_id"`
	ProductID  int64  `json:"product_id"`
	CategoryID int64  `json:"category_id"`
}

// Publisher abstracts the Kafka producer for tests.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *kafka.Event) error
}

// Producer publishes classification events using the shared Kafka producer.
type Producer struct {
	publisher Publisher
	logger    *slog.Logger
}

// NewProducer creates a classification event producer.
func NewProducer(publisher Publisher, log *slog.Logger) *Producer {
	return &Producer{publisher: publisher, logger: log}
}

// PublishPassCompleted emits a pass completion event keyed by run ID.
func (p *Producer) PublishPassCompleted(ctx context.Context, data PassCompletedData) error {
	evt, err := kafka.NewEvent("catalog.pass.completed", data.RunID, "classification_pass", source, data)
	if err != nil {
		return fmt.Errorf("build pass completed event: %w", err)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		evt.WithCorrelationID(id)
	}
	return p.publisher.Publish(ctx, TopicPassCompleted, evt)
}

// PublishProductClassified emits a reassignment event keyed by product ID.
func (p *Producer) PublishProductClassified(ctx context.Context, data ProductClassifiedData) error {
	evt, err := kafka.NewEvent("catalog.product.classified", fmt.Sprintf("%d", data.ProductID), "product", source, data)
	if err != nil {
		return fmt.Errorf("build product classified event: %w", err)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		evt.WithCorrelationID(id)
	}
	return p.publisher.Publish(ctx, TopicProductClassified, evt)
}
