package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fleetmaster/internal/domain/models"
	wrap "fleetmaster/pkg/logger/wrapper"
	"fleetmaster/pkg/metrics"
	"fleetmaster/pkg/rabbit"

	"github.com/rabbitmq/amqp091-go"
)

// FleetProducer publishes fleet lifecycle events to the fleet_topic
// exchange. Routing keys follow <area>.<entity>.<action>.
type FleetProducer struct {
	client *rabbit.RabbitMQ
}

func NewFleetProducer(client *rabbit.RabbitMQ) *FleetProducer {
	return &FleetProducer{
		client: client,
	}
}

const fleetExchange = "fleet_topic"

// Setup declares the exchange. Idempotent, called once at startup.
func (r *FleetProducer) Setup(ctx context.Context) error {
	const op = "FleetProducer.Setup"

	if err := r.client.EnsureConnection(ctx); err != nil {
		return fmt.Errorf("%s: ensure connection: %w", op, err)
	}

	if err := r.client.Channel.ExchangeDeclare(fleetExchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("%s: declare exchange: %w", op, err)
	}
	return nil
}

func (r *FleetProducer) PublishReportCreated(ctx context.Context, msg models.ReportEventMessage) error {
	const op = "FleetProducer.PublishReportCreated"
	return r.publish(ctx, op, "maintenance.report.created", msg)
}

func (r *FleetProducer) PublishReportDeleted(ctx context.Context, msg models.ReportEventMessage) error {
	const op = "FleetProducer.PublishReportDeleted"
	return r.publish(ctx, op, "maintenance.report.deleted", msg)
}

func (r *FleetProducer) PublishDriverCreated(ctx context.Context, msg models.DriverEventMessage) error {
	const op = "FleetProducer.PublishDriverCreated"
	return r.publish(ctx, op, "fleet.driver.created", msg)
}

func (r *FleetProducer) publish(ctx context.Context, op, key string, msg any) error {
	if err := r.client.EnsureConnection(ctx); err != nil {
		ctx = wrap.WithAction(ctx, "ensure_connection")
		return wrap.Error(ctx, fmt.Errorf("%s: ensure connection: %w", op, err))
	}

	body, err := json.Marshal(msg)
	if err != nil {
		ctx = wrap.WithAction(ctx, "marshal_event")
		return wrap.Error(ctx, fmt.Errorf("%s: failed to marshal message: %w", op, err))
	}

	err = r.client.Channel.PublishWithContext(
		ctx,
		fleetExchange, // exchange
		key,           // routing key
		false,         // mandatory
		false,         // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   time.Now(),
		},
	)
	metrics.RecordRabbitMQPublish(key, err)
	if err != nil {
		ctx = wrap.WithAction(ctx, "publish_event")
		return wrap.Error(ctx, fmt.Errorf("%s: failed to publish with context: %w", op, err))
	}

	return nil
}
