package kafka

import (
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/IBM/sarama"
	"github.com/shopspring/decimal"
)

const (
	TopicCheckoutCompleted = "payment.checkout.completed"
	TopicOrderReceipt      = "order.receipt"
	TopicCatalogUpdated    = "catalog.updated"
)

type Producer struct {
	producer sarama.SyncProducer
}

func NewProducer() *Producer {
	broker := os.Getenv("KAFKA_BROKER")
	if broker == "" {
		broker = "kafka:9092"
	}

	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll

	var producer sarama.SyncProducer
	var err error

	for i := 1; i <= 10; i++ {
		producer, err = sarama.NewSyncProducer([]string{broker}, config)
		if err == nil {
			log.Println("Kafka producer initialized")
			return &Producer{producer: producer}
		}

		log.Printf("Waiting for Kafka... (%d/10) Error: %v", i, err)
		time.Sleep(5 * time.Second)
	}

	log.Fatalf("Failed to start Kafka producer after retries: %v", err)
	return nil
}

func (p *Producer) publish(topic string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(data),
	}
	if _, _, err := p.producer.SendMessage(msg); err != nil {
		return err
	}
	log.Printf("📤 Published %s event: %s", topic, string(data))
	return nil
}

// PublishCatalogUpdatedEvent notifies the search indexer of a catalog write.
// Publish failures are logged and swallowed: search lag never fails an
// admin operation.
func (p *Producer) PublishCatalogUpdatedEvent(event interface{}) {
	if err := p.publish(TopicCatalogUpdated, event); err != nil {
		log.Printf("Failed to send catalog.updated Kafka message: %v", err)
	}
}

// SendReceipt publishes the receipt notification for a settled order.
func (p *Producer) SendReceipt(orderID uint, amount decimal.Decimal) error {
	return p.publish(TopicOrderReceipt, map[string]interface{}{
		"event_type": "order.receipt",
		"data": map[string]interface{}{
			"order_id": orderID,
			"amount":   amount,
			"sent_at":  time.Now().Format(time.RFC3339),
		},
	})
}
