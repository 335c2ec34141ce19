package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"golang-food-storefront/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func newRecordingProducer() (*KafkaProducer, map[string]*recordingWriter) {
	created := make(map[string]*recordingWriter)
	kp := NewKafkaProducer([]string{"localhost:9092"})
	kp.newWriter = func(topic string) MessageWriter {
		w := &recordingWriter{}
		created[topic] = w
		return w
	}
	return kp, created
}

func TestGetWriterReusesPerTopic(t *testing.T) {
	kp, created := newRecordingProducer()

	a := kp.GetWriter("orders")
	b := kp.GetWriter("orders")
	c := kp.GetWriter("other")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Len(t, created, 2)
}

func TestPublishOrderPlaced(t *testing.T) {
	kp, created := newRecordingProducer()
	publisher := NewOrderEventPublisher(kp, "order_events")

	event := &models.OrderPlacedEvent{
		Type:       "order_placed",
		OrderID:    "o-1",
		SessionID:  "s-1",
		Items:      []models.LineItem{{ID: "p1", Name: "Pizza", Price: 10, Quantity: 2}},
		ItemCount:  2,
		TotalPrice: 20,
	}
	require.NoError(t, publisher.PublishOrderPlaced(context.Background(), event))

	w := created["order_events"]
	require.NotNil(t, w)
	require.Len(t, w.messages, 1)
	assert.Equal(t, "o-1", string(w.messages[0].Key))

	var decoded models.OrderPlacedEvent
	require.NoError(t, json.Unmarshal(w.messages[0].Value, &decoded))
	assert.Equal(t, event.Items, decoded.Items)
	assert.Equal(t, 20.0, decoded.TotalPrice)
}

func TestPublishOrderPlacedError(t *testing.T) {
	kp, _ := newRecordingProducer()
	kp.GetWriter("order_events").(*recordingWriter).err = errors.New("broker unavailable")

	err := NewOrderEventPublisher(kp, "order_events").PublishOrderPlaced(context.Background(), &models.OrderPlacedEvent{OrderID: "o-1"})
	assert.EqualError(t, err, "broker unavailable")
}

func TestCloseClosesWriters(t *testing.T) {
	kp, created := newRecordingProducer()
	kp.GetWriter("a")
	kp.GetWriter("b")

	require.NoError(t, kp.Close())
	for _, w := range created {
		assert.True(t, w.closed)
	}
}
