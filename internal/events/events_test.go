package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mtljason322/freshcart/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	events []InventoryEvent
	err    error
}

func (r *recordingPublisher) Publish(ctx context.Context, event InventoryEvent) error {
	r.events = append(r.events, event)
	return r.err
}

func TestNewInventoryEvent_Regular(t *testing.T) {
	p, err := domain.NewProduct("A1", "Coffee", 8.0)
	require.NoError(t, err)

	event := NewInventoryEvent(ProductAdded, p, "req-1")

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, ProductAdded, event.Type)
	assert.Equal(t, "A1", event.SKU)
	assert.Equal(t, "Coffee", event.Name)
	assert.Equal(t, domain.KindRegular, event.Kind)
	assert.Equal(t, 8.0, event.Price)
	assert.Equal(t, 8.0, event.FinalPrice)
	assert.Empty(t, event.ExpiryDate)
	assert.Equal(t, "req-1", event.RequestID)
	assert.WithinDuration(t, time.Now(), event.Timestamp, time.Minute)
}

func TestNewInventoryEvent_Perishable(t *testing.T) {
	today := domain.NewDate(2025, time.March, 10)
	p, err := domain.NewPerishableProduct("P2", "Milk", 4.0, today.AddDays(2), domain.WithClock(domain.FixedClock(today)))
	require.NoError(t, err)

	event := NewInventoryEvent(ProductRemoved, p, "")

	assert.Equal(t, domain.KindPerishable, event.Kind)
	assert.Equal(t, 4.0, event.Price)
	assert.Equal(t, 2.0, event.FinalPrice)
	assert.Equal(t, "2025-03-12", event.ExpiryDate)
}

func TestNewInventoryEvent_UniqueIDs(t *testing.T) {
	p, _ := domain.NewProduct("A1", "Coffee", 8.0)

	assert.NotEqual(t, NewInventoryEvent(ProductAdded, p, "").EventID, NewInventoryEvent(ProductAdded, p, "").EventID)
}

func TestFanout_DeliversToAll(t *testing.T) {
	failing := &recordingPublisher{err: errors.New("broker down")}
	ok := &recordingPublisher{}
	p, _ := domain.NewProduct("A1", "Coffee", 8.0)
	event := NewInventoryEvent(ProductAdded, p, "")

	err := Fanout{failing, ok}.Publish(context.Background(), event)

	assert.ErrorContains(t, err, "broker down")
	require.Len(t, ok.events, 1)
	assert.Equal(t, event.EventID, ok.events[0].EventID)
	assert.Len(t, failing.events, 1)
}

func TestFanout_Empty(t *testing.T) {
	p, _ := domain.NewProduct("A1", "Coffee", 8.0)

	assert.NoError(t, Fanout{}.Publish(context.Background(), NewInventoryEvent(ProductAdded, p, "")))
}

func TestSplitBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, splitBrokers(" a:9092, ,b:9092 "))
	assert.Empty(t, splitBrokers(""))
}

func TestNewKafkaProducer_NoBrokers(t *testing.T) {
	_, err := NewKafkaProducer(" , ", "inventory-events", nil)
	assert.Error(t, err)
}
