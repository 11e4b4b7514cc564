package shortage

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"order-fulfilment-service/internal/logging"
	"order-fulfilment-service/internal/models"
)

var (
	tracer = otel.Tracer("order-fulfilment-service")
	meter  = otel.Meter("order-fulfilment-service")
)

// OrderStore is the persistence collaborator for orders. Update runs fn
// against the order under an exclusive per-order lock and persists any
// mutation fn makes before returning; an error from fn rolls everything
// back. Both methods report a missing order as ErrOrderNotFound.
type OrderStore interface {
	Get(ctx context.Context, orderID string) (*models.Order, error)
	Update(ctx context.Context, orderID string, fn func(order *models.Order) error) error
}

// WarehouseStore is the read-only stock collaborator. Find returns
// (nil, nil) when no record exists for the line id; absence is not an error.
type WarehouseStore interface {
	Find(ctx context.Context, lineID int) (*models.WarehouseItem, error)
	FindBatch(ctx context.Context, lineIDs []int) ([]models.WarehouseItem, error)
}

// SubstitutionProvider suggests candidate line ids for a short item. It may
// be a remote service; the workflows treat it as opaque and synchronous.
type SubstitutionProvider interface {
	Suggest(ctx context.Context, lineID int, productCode string, qty decimal.Decimal, name *string) ([]int, error)
}

type Service struct {
	orders        OrderStore
	warehouse     WarehouseStore
	substitutions SubstitutionProvider

	shortagesRegistered metric.Int64Counter
	proactiveDecisions  metric.Int64Counter
	shortageQty         metric.Float64Histogram
}

func NewService(orders OrderStore, warehouse WarehouseStore, substitutions SubstitutionProvider) *Service {
	s := &Service{
		orders:        orders,
		warehouse:     warehouse,
		substitutions: substitutions,
	}

	var err error
	s.shortagesRegistered, err = meter.Int64Counter(
		"shortages.registered",
		metric.WithDescription("Total number of picker shortage events registered"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		logging.Logger().Error().Err(err).Msg("failed to create shortages registered counter")
	}

	s.proactiveDecisions, err = meter.Int64Counter(
		"shortages.proactive_decisions",
		metric.WithDescription("Total number of proactive shortage decisions computed"),
		metric.WithUnit("{decision}"),
	)
	if err != nil {
		logging.Logger().Error().Err(err).Msg("failed to create proactive decisions counter")
	}

	s.shortageQty, err = meter.Float64Histogram(
		"shortages.quantity",
		metric.WithDescription("Distribution of registered shortage quantities"),
		metric.WithExplicitBucketBoundaries(0, 1, 2, 5, 10, 25, 50, 100),
	)
	if err != nil {
		logging.Logger().Error().Err(err).Msg("failed to create shortage quantity histogram")
	}

	return s
}

// RegisterPickShortage handles a shortage reported by a picker. The targeted
// line is flagged short_pick inside an exclusive per-order transaction;
// substitution lookup, candidate resolution, the decision and the
// notifications are computed within the same unit of work, so either the
// mutation and the response are both produced or the whole call fails.
func (s *Service) RegisterPickShortage(ctx context.Context, event Event) (*PickShortageResult, error) {
	ctx, span := tracer.Start(ctx, "shortage.register_pick")
	defer span.End()

	span.SetAttributes(
		attribute.String("order.id", event.OrderID),
		attribute.Int("order.line_id", event.LineID),
		attribute.String("product.code", event.ProductCode),
	)

	var result *PickShortageResult
	err := s.orders.Update(ctx, event.OrderID, func(order *models.Order) error {
		line := order.Line(event.LineID)
		if line == nil {
			return fmt.Errorf("order %s does not contain line %d: %w", event.OrderID, event.LineID, ErrLineNotFound)
		}

		shortageQty := event.ExpectedQty.Sub(event.PickedQty)
		if shortageQty.Sign() < 0 {
			shortageQty = decimal.Zero
		}

		if !line.ShortPick {
			line.ShortPick = true
		}

		var suggested []int
		if shortageQty.Sign() > 0 {
			ids, err := s.substitutions.Suggest(ctx, event.LineID, event.ProductCode, shortageQty, nil)
			if err != nil {
				return fmt.Errorf("substitution suggestions for line %d: %w", event.LineID, err)
			}
			suggested = ids
		}

		replacements, err := s.resolveReplacements(ctx, suggested)
		if err != nil {
			return err
		}

		action := decidePickerAction(shortageQty, replacements)

		result = &PickShortageResult{
			OrderID:       event.OrderID,
			LineID:        event.LineID,
			ShortageQty:   shortageQty,
			Action:        action,
			Replacements:  replacements,
			Notifications: buildNotifications(event, shortageQty, action, replacements),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.String("shortage.action", string(result.Action)),
		attribute.Int("shortage.replacements", len(result.Replacements)),
	)

	if s.shortagesRegistered != nil {
		s.shortagesRegistered.Add(ctx, 1, metric.WithAttributes(
			attribute.String("action", string(result.Action)),
		))
	}
	if s.shortageQty != nil {
		s.shortageQty.Record(ctx, result.ShortageQty.InexactFloat64())
	}

	logging.Info(ctx).
		Str("order_id", event.OrderID).
		Int("line_id", event.LineID).
		Str("action", string(result.Action)).
		Int("replacements", len(result.Replacements)).
		Msg("shortage registered")

	return result, nil
}

// DecideShortages evaluates a batch of hypothetical substitutions without
// mutating any persisted state. Decisions come back in input order, one per
// item.
func (s *Service) DecideShortages(ctx context.Context, items []ProactiveItem) ([]Decision, error) {
	ctx, span := tracer.Start(ctx, "shortage.decide_proactive")
	defer span.End()

	span.SetAttributes(attribute.Int("shortage.items", len(items)))

	decisions := make([]Decision, 0, len(items))
	for _, item := range items {
		var replacement *models.WarehouseItem
		if item.To != nil {
			found, err := s.warehouse.Find(ctx, item.To.LineID)
			if err != nil {
				return nil, fmt.Errorf("warehouse lookup for line %d: %w", item.To.LineID, err)
			}
			replacement = found
		}
		decisions = append(decisions, decideProactive(item, replacement))
	}

	if s.proactiveDecisions != nil {
		s.proactiveDecisions.Add(ctx, int64(len(decisions)))
	}

	logging.Info(ctx).
		Int("decisions", len(decisions)).
		Msg("calculated shortage decisions")

	return decisions, nil
}

// GetOrder returns the order with its lines, or ErrOrderNotFound.
func (s *Service) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	return s.orders.Get(ctx, orderID)
}
