package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mtljason322/freshcart/internal/domain"
)

type EventType string

const (
	ProductAdded   EventType = "product_added"
	ProductRemoved EventType = "product_removed"
)

// 인벤토리 변경 이벤트
type InventoryEvent struct {
	EventID    string      `json:"event_id"    dynamodbav:"event_id"`
	Type       EventType   `json:"type"        dynamodbav:"type"`
	SKU        string      `json:"sku"         dynamodbav:"sku"`
	Name       string      `json:"name"        dynamodbav:"name"`
	Kind       domain.Kind `json:"kind"        dynamodbav:"kind"`
	Price      float64     `json:"price"       dynamodbav:"price"`
	FinalPrice float64     `json:"final_price" dynamodbav:"final_price"`
	ExpiryDate string      `json:"expiry_date,omitempty" dynamodbav:"expiry_date,omitempty"`
	Timestamp  time.Time   `json:"timestamp"   dynamodbav:"timestamp"`
	RequestID  string      `json:"request_id,omitempty"  dynamodbav:"request_id,omitempty"`
}

// NewInventoryEvent snapshots item as it is at the time of the call.
func NewInventoryEvent(eventType EventType, item domain.Item, requestID string) InventoryEvent {
	event := InventoryEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		SKU:        item.SKU(),
		Name:       item.Name(),
		Kind:       item.Kind(),
		Price:      item.Price(),
		FinalPrice: item.FinalPrice(),
		Timestamp:  time.Now().UTC(),
		RequestID:  requestID,
	}
	if expiry, ok := item.Expiry(); ok {
		event.ExpiryDate = expiry.String()
	}
	return event
}

// Publisher delivers inventory events to a downstream sink.
type Publisher interface {
	Publish(ctx context.Context, event InventoryEvent) error
}

// Fanout publishes every event to all of its publishers. A failing
// publisher does not stop delivery to the others.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, event InventoryEvent) error {
	var errs error
	for _, p := range f {
		if err := p.Publish(ctx, event); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	return errs
}
