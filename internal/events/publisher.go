package events

import (
	"context"
	"encoding/json"
	"time"

	pubsubv2 "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"github.com/rg-retail/packsplit-backend/pkg/logger"
	"github.com/rg-retail/packsplit-backend/pkg/pubsub"
)

// Kind identifies what mutated the stock balance.
type Kind string

const (
	KindOpeningApplied Kind = "opening.applied"
	KindOpeningUndone  Kind = "opening.undone"
	KindStockOverride  Kind = "stock.override"
)

// StockEvent is the payload published after a committed stock mutation.
type StockEvent struct {
	EventID     string    `json:"event_id"`
	Kind        Kind      `json:"kind"`
	Barcode     string    `json:"barcode"`
	ClosedBoxes int       `json:"closed_boxes"`
	Singles     int       `json:"singles"`
	Sixpk       int       `json:"sixpk"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Publisher emits stock events after a mutation commits.
type Publisher interface {
	Emit(ctx context.Context, event StockEvent)
}

// NopPublisher drops events. Used when eventing is not configured.
type NopPublisher struct{}

func (NopPublisher) Emit(context.Context, StockEvent) {}

// PubSubPublisher publishes stock events to the configured topic. Publish
// failures are logged, never surfaced: the mutation already committed and the
// event stream is advisory.
type PubSubPublisher struct {
	publisher *pubsubv2.Publisher
	logg      *logger.Logger
}

// NewPubSubPublisher wires the stock topic publisher.
func NewPubSubPublisher(client *pubsub.Client, logg *logger.Logger) *PubSubPublisher {
	if client == nil {
		return nil
	}
	return &PubSubPublisher{publisher: client.StockPublisher(), logg: logg}
}

func (p *PubSubPublisher) Emit(ctx context.Context, event StockEvent) {
	if p == nil || p.publisher == nil {
		return
	}
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		if p.logg != nil {
			p.logg.Error(ctx, "marshal stock event", err)
		}
		return
	}

	result := p.publisher.Publish(ctx, &pubsubv2.Message{
		Data: payload,
		Attributes: map[string]string{
			"kind":    string(event.Kind),
			"barcode": event.Barcode,
		},
	})
	if _, err := result.Get(ctx); err != nil && p.logg != nil {
		p.logg.Error(ctx, "publish stock event", err)
	}
}
