package eventsink

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/iov-one/tipjar/errors"
	"github.com/rabbitmq/amqp091-go"
	"github.com/segmentio/kafka-go"
)

// Publisher delivers a single record to a broker.
type Publisher interface {
	Publish(ctx context.Context, r Record) error
}

// NopPublisher accepts and drops every record.
type NopPublisher struct{}

var _ Publisher = NopPublisher{}

func (NopPublisher) Publish(context.Context, Record) error {
	return nil
}

// kafkaWriter is implemented by *kafka.Writer.
type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes records to a kafka topic. Records of the same jar
// share a message key and therefore a partition, which keeps them ordered.
type KafkaPublisher struct {
	writer kafkaWriter
}

var _ Publisher = (*KafkaPublisher)(nil)

// NewKafkaPublisher returns a publisher writing to given topic.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.Hash{},
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, r Record) error {
	data, err := json.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "marshal record")
	}
	msg := kafka.Message{
		Key:   []byte(hex.EncodeToString(r.JarID)),
		Value: data,
		Headers: []kafka.Header{
			{Key: "kind", Value: []byte(r.Kind)},
			{Key: "id", Value: []byte(r.ID.String())},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return errors.Wrapf(errors.ErrState, "kafka: %s", err)
	}
	return nil
}

// Close flushes and releases the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// amqpChannel is implemented by *amqp091.Channel.
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// AMQPPublisher publishes records to a durable topic exchange, using the
// event kind as the routing key.
type AMQPPublisher struct {
	conn     *amqp091.Connection
	channel  amqpChannel
	exchange string
	timeout  time.Duration
}

var _ Publisher = (*AMQPPublisher)(nil)

// NewAMQPPublisher connects to the broker and declares the exchange.
func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrState, "dial amqp: %s", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, errors.Wrapf(errors.ErrState, "open channel: %s", err)
	}
	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, errors.Wrapf(errors.ErrState, "declare exchange %q: %s", exchange, err)
	}
	return &AMQPPublisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		timeout:  5 * time.Second,
	}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, r Record) error {
	body, err := json.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "marshal record")
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange, // exchange
		r.Kind,     // routing key
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    r.ID.String(),
			Type:         r.Kind,
			Body:         body,
		},
	)
	if err != nil {
		return errors.Wrapf(errors.ErrState, "amqp: %s", err)
	}
	return nil
}

// Close releases the channel and the connection.
func (p *AMQPPublisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
