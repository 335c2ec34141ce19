package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"golang-food-storefront/internal/models"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of kafka.Writer the producer uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaProducer struct {
	brokers   []string
	newWriter func(topic string) MessageWriter

	mu      sync.Mutex
	writers map[string]MessageWriter
}

func NewKafkaProducer(brokers []string) *KafkaProducer {
	kp := &KafkaProducer{
		brokers: brokers,
		writers: make(map[string]MessageWriter),
	}
	kp.newWriter = kp.kafkaWriter
	return kp
}

func (kp *KafkaProducer) kafkaWriter(topic string) MessageWriter {
	return &kafka.Writer{
		Addr:         kafka.TCP(kp.brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: 10 * time.Second,
	}
}

// GetWriter returns the writer for topic, creating it on first use
func (kp *KafkaProducer) GetWriter(topic string) MessageWriter {
	kp.mu.Lock()
	defer kp.mu.Unlock()

	if writer, exists := kp.writers[topic]; exists {
		return writer
	}

	writer := kp.newWriter(topic)
	kp.writers[topic] = writer
	return writer
}

// SendMessage JSON-encodes value and writes it to topic under key
func (kp *KafkaProducer) SendMessage(ctx context.Context, topic string, key string, value interface{}) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}

	message := kafka.Message{
		Key:   []byte(key),
		Value: jsonData,
	}

	return kp.GetWriter(topic).WriteMessages(ctx, message)
}

func (kp *KafkaProducer) Close() error {
	kp.mu.Lock()
	defer kp.mu.Unlock()

	var errs []error
	for topic, writer := range kp.writers {
		if err := writer.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(kp.writers, topic)
	}
	return errors.Join(errs...)
}

// OrderEventPublisher publishes placed orders to the order topic, keyed by
// order id.
type OrderEventPublisher struct {
	producer *KafkaProducer
	topic    string
}

func NewOrderEventPublisher(producer *KafkaProducer, topic string) *OrderEventPublisher {
	return &OrderEventPublisher{
		producer: producer,
		topic:    topic,
	}
}

func (p *OrderEventPublisher) PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	return p.producer.SendMessage(ctx, p.topic, event.OrderID, event)
}
