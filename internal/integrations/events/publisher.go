package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
)

const DefaultTopic = "console-rental.events"

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// NewProducer синхронный продюсер, ожидающий подтверждения всех реплик
func NewProducer(brokers []string) (sarama.SyncProducer, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Return.Successes = true
	cfg.Producer.Partitioner = sarama.NewHashPartitioner

	return sarama.NewSyncProducer(brokers, cfg)
}

// Publisher публикует события аренды в Kafka
// Ключ сообщения ID консоли: события одной консоли попадают в одну партицию по порядку
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
	log      Logger
}

func NewPublisher(producer sarama.SyncProducer, topic string, log Logger) *Publisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Publisher{
		producer: producer,
		topic:    topic,
		log:      log,
	}
}

// Publish отправляет событие и ждет подтверждения брокера
func (p *Publisher) Publish(_ context.Context, event *domain.RentalEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMarshal, err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.ConsoleID),
		Value: sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.Type)},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("%w: type=%s console=%s: %v", ErrSend, event.Type, event.ConsoleID, err)
	}

	p.log.Info("Event published: type=%s, console_id=%s, partition=%d, offset=%d", event.Type, event.ConsoleID, partition, offset)
	return nil
}

// Close закрывает продюсер
func (p *Publisher) Close() error {
	return p.producer.Close()
}

// Nop заглушка для запуска без брокеров
type Nop struct{}

func (Nop) Publish(context.Context, *domain.RentalEvent) error { return nil }

func (Nop) Close() error { return nil }
