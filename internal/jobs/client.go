package jobs

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"

	"order-fulfilment-service/internal/logging"
)

const (
	TypeShortageNotification = "notification:shortage"
	DefaultQueue             = "default"
)

var (
	tracer       = otel.Tracer("order-fulfilment-service")
	jobsMeter    = otel.Meter("order-fulfilment-service")
	jobsEnqueued metric.Int64Counter
)

// ShortageNotificationPayload carries the composed notification messages to
// the worker that hands them to the Communication Orchestrator.
type ShortageNotificationPayload struct {
	OrderID      string            `json:"orderId"`
	LineID       int               `json:"lineId"`
	Action       string            `json:"action"`
	Messages     []string          `json:"messages"`
	TraceContext map[string]string `json:"traceContext"`
}

type Client struct {
	client *asynq.Client
}

func NewClient(redisAddr string) (*Client, error) {
	client := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})

	var err error
	jobsEnqueued, err = jobsMeter.Int64Counter(
		"jobs.enqueued",
		metric.WithDescription("Total number of jobs enqueued"),
	)
	if err != nil {
		logging.Logger().Error().Err(err).Msg("failed to create jobs enqueued counter")
	}

	return &Client{client: client}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// EnqueueShortageNotification schedules asynchronous delivery of the
// shortage notifications. The current trace context rides along in the
// payload so the worker span links back to the originating request.
func (c *Client) EnqueueShortageNotification(ctx context.Context, orderID string, lineID int, action string, messages []string) error {
	ctx, span := tracer.Start(ctx, "job.enqueue.shortage_notification")
	defer span.End()

	span.SetAttributes(
		attribute.String("order.id", orderID),
		attribute.Int("order.line_id", lineID),
		attribute.String("job.type", TypeShortageNotification),
	)

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	payload := ShortageNotificationPayload{
		OrderID:      orderID,
		LineID:       lineID,
		Action:       action,
		Messages:     messages,
		TraceContext: carrier,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TypeShortageNotification, payloadBytes)
	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		span.RecordError(err)
		return err
	}

	if jobsEnqueued != nil {
		jobsEnqueued.Add(ctx, 1, metric.WithAttributes(
			attribute.String("job.type", TypeShortageNotification),
		))
	}

	span.SetAttributes(
		attribute.String("job.id", info.ID),
		attribute.String("job.queue", info.Queue),
	)

	logging.Info(ctx).
		Str("job_id", info.ID).
		Str("job_type", TypeShortageNotification).
		Str("order_id", orderID).
		Int("line_id", lineID).
		Msg("job enqueued")

	return nil
}
