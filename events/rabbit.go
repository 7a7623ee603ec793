package events

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/streadway/amqp"

	"food-delivery/api/config"
)

// OrderQueue pushes newly created order ids onto a durable RabbitMQ queue so
// store-side consumers can pick them up.
type OrderQueue struct {
	conn      *amqp.Connection
	queueName string
}

// DialOrderQueue connects with retries, the broker tends to come up after us.
func DialOrderQueue(cfg config.RabbitMQConfig) (*OrderQueue, error) {
	var conn *amqp.Connection
	var err error
	for i := 0; i < 5; i++ {
		conn, err = amqp.Dial(cfg.URL)
		if err == nil {
			break
		}
		if i < 4 {
			log.Printf("Failed to connect to RabbitMQ: %v. Retrying in 5 seconds...", err)
			time.Sleep(5 * time.Second)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ after 5 attempts: %w", err)
	}
	return &OrderQueue{conn: conn, queueName: cfg.QueueName}, nil
}

func (q *OrderQueue) PublishNewOrder(orderID uint) error {
	ch, err := q.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(q.queueName, true, false, false, false, nil); err != nil {
		return err
	}

	return ch.Publish("", q.queueName, false, false, amqp.Publishing{
		ContentType: "text/plain",
		Body:        []byte(strconv.FormatUint(uint64(orderID), 10)),
	})
}

// Consume runs handler for every order id on the queue. Blocks until the
// channel closes.
func (q *OrderQueue) Consume(handler func(orderID string)) error {
	ch, err := q.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	queue, err := ch.QueueDeclare(q.queueName, true, false, false, false, nil)
	if err != nil {
		return err
	}

	msgs, err := ch.Consume(queue.Name, "", true, false, false, false, nil)
	if err != nil {
		return err
	}

	for msg := range msgs {
		handler(string(msg.Body))
	}
	return nil
}

func (q *OrderQueue) Close() error {
	return q.conn.Close()
}
