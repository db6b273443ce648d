package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sellerdesk/crm-svc/internal/dal/rabbitmq"
	"github.com/sellerdesk/crm-svc/internal/service/models/order"
	"github.com/streadway/amqp"
	"golang.org/x/sync/errgroup"
)

type AuditRabbitMQRepository struct {
	client *rabbitmq.Client
	queue  amqp.Queue
}

func NewAuditRabbitMQRepository(client *rabbitmq.Client) *AuditRabbitMQRepository {
	queue, err := client.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:       "crm.order.created",
		Durable:    false,
		Exclusive:  false,
		AutoDelete: false,
	})
	if err != nil {
		panic(err)
	}

	return &AuditRabbitMQRepository{
		client: client,
		queue:  queue,
	}
}

// LogOrderCreated publishes one event per created order.
func (r *AuditRabbitMQRepository) LogOrderCreated(ctx context.Context, orders []order.Order) error {
	auditCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	g, _ := errgroup.WithContext(auditCtx)
	g.SetLimit(3)

	for _, ord := range orders {
		ord := ord
		g.Go(func() error {
			orderData, err := json.Marshal(ord)
			if err != nil {
				return err
			}

			return r.client.Channel().Publish(
				"",
				r.queue.Name,
				false,
				false,
				amqp.Publishing{
					MessageId:   uuid.NewString(),
					ContentType: "application/json",
					Body:        orderData,
				},
			)
		})
	}

	return g.Wait()
}
