package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"order-fulfilment-service/internal/logging"
	"order-fulfilment-service/internal/shortage"
)

// NotificationEnqueuer schedules asynchronous delivery of shortage
// notifications. May be nil when no job backend is configured.
type NotificationEnqueuer interface {
	EnqueueShortageNotification(ctx context.Context, orderID string, lineID int, action string, messages []string) error
}

type OrderHandler struct {
	service *shortage.Service
	jobs    NotificationEnqueuer
}

func NewOrderHandler(service *shortage.Service, jobs NotificationEnqueuer) *OrderHandler {
	return &OrderHandler{service: service, jobs: jobs}
}

type PickShortageEventRequest struct {
	OrderID     string   `json:"orderId"`
	LineID      int      `json:"lineId"`
	ProductCode string   `json:"productCode"`
	ExpectedQty *float64 `json:"expectedQty"`
	PickedQty   *float64 `json:"pickedQty"`
	PickerID    *string  `json:"pickerId"`
	Comment     *string  `json:"comment"`
}

type ReplacementCandidateResponse struct {
	LineID       int     `json:"lineId"`
	ProductCode  string  `json:"productCode"`
	Name         string  `json:"name"`
	AvailableQty float64 `json:"availableQty"`
	Unit         string  `json:"unit"`
}

type PickShortageEventResponse struct {
	OrderID       string                         `json:"orderId"`
	LineID        int                            `json:"lineId"`
	ShortageQty   float64                        `json:"shortageQty"`
	Action        string                         `json:"action"`
	Replacements  []ReplacementCandidateResponse `json:"replacements"`
	Notifications []string                       `json:"notifications"`
}

// RegisterPickShortage is triggered when a picker detects a shortage during
// picking. Flags the order line, proposes replacements and notifies
// downstream services.
func (h *OrderHandler) RegisterPickShortage(c echo.Context) error {
	var req PickShortageEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if req.OrderID == "" {
		return fmt.Errorf("%w: orderId is required", shortage.ErrInvalidRequest)
	}
	if req.LineID <= 0 {
		return fmt.Errorf("%w: lineId is required", shortage.ErrInvalidRequest)
	}
	if req.ProductCode == "" {
		return fmt.Errorf("%w: productCode is required", shortage.ErrInvalidRequest)
	}
	if req.ExpectedQty == nil || req.PickedQty == nil {
		return fmt.Errorf("%w: expectedQty and pickedQty are required", shortage.ErrInvalidRequest)
	}
	if *req.ExpectedQty < 0 || *req.PickedQty < 0 {
		return fmt.Errorf("%w: quantities must be non-negative", shortage.ErrInvalidRequest)
	}

	event := shortage.Event{
		OrderID:     req.OrderID,
		LineID:      req.LineID,
		ProductCode: req.ProductCode,
		ExpectedQty: decimal.NewFromFloat(*req.ExpectedQty),
		PickedQty:   decimal.NewFromFloat(*req.PickedQty),
		PickerID:    req.PickerID,
		Comment:     req.Comment,
	}

	result, err := h.service.RegisterPickShortage(c.Request().Context(), event)
	if err != nil {
		return err
	}

	if h.jobs != nil {
		ctx := c.Request().Context()
		if err := h.jobs.EnqueueShortageNotification(ctx, result.OrderID, result.LineID, string(result.Action), result.Notifications); err != nil {
			logging.Error(ctx).Err(err).
				Str("order_id", result.OrderID).
				Int("line_id", result.LineID).
				Msg("failed to enqueue shortage notification")
		}
	}

	replacements := make([]ReplacementCandidateResponse, 0, len(result.Replacements))
	for _, r := range result.Replacements {
		replacements = append(replacements, ReplacementCandidateResponse{
			LineID:       r.LineID,
			ProductCode:  r.ProductCode,
			Name:         r.Name,
			AvailableQty: r.AvailableQty.InexactFloat64(),
			Unit:         r.Unit,
		})
	}

	return c.JSON(http.StatusOK, PickShortageEventResponse{
		OrderID:       result.OrderID,
		LineID:        result.LineID,
		ShortageQty:   result.ShortageQty.InexactFloat64(),
		Action:        string(result.Action),
		Replacements:  replacements,
		Notifications: result.Notifications,
	})
}

type ShortageProactiveRequest struct {
	Items []ProactiveItemRequest `json:"items"`
}

type ProactiveItemRequest struct {
	From *ProactiveLineRequest   `json:"from"`
	To   *ProactiveTargetRequest `json:"to"`
}

type ProactiveLineRequest struct {
	LineID int      `json:"lineId"`
	Qty    *float64 `json:"qty"`
}

type ProactiveTargetRequest struct {
	LineID int      `json:"lineId"`
	Qty    *float64 `json:"qty"`
}

type ShortageDecisionResponse struct {
	LineID         int      `json:"lineId"`
	Action         string   `json:"action"`
	ReplacementQty *float64 `json:"replacementQty,omitempty"`
}

type ShortageProactiveResponse struct {
	Decisions []ShortageDecisionResponse `json:"decisions"`
}

// ProactiveShortageDecisions evaluates hypothetical substitutions before a
// real picking event occurs. Produces KEEP / REPLACE / DELETE
// recommendations, one per item, in input order.
func (h *OrderHandler) ProactiveShortageDecisions(c echo.Context) error {
	var req ShortageProactiveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	items := make([]shortage.ProactiveItem, 0, len(req.Items))
	for i, item := range req.Items {
		if item.From == nil {
			return fmt.Errorf("%w: items[%d].from is required", shortage.ErrInvalidRequest, i)
		}
		if item.From.LineID <= 0 {
			return fmt.Errorf("%w: items[%d].from.lineId is required", shortage.ErrInvalidRequest, i)
		}
		if item.From.Qty == nil {
			return fmt.Errorf("%w: items[%d].from.qty is required", shortage.ErrInvalidRequest, i)
		}

		proactive := shortage.ProactiveItem{
			From: shortage.LineRef{
				LineID: item.From.LineID,
				Qty:    decimal.NewFromFloat(*item.From.Qty),
			},
		}
		if item.To != nil {
			if item.To.LineID <= 0 {
				return fmt.Errorf("%w: items[%d].to.lineId is required", shortage.ErrInvalidRequest, i)
			}
			target := shortage.TargetRef{LineID: item.To.LineID}
			if item.To.Qty != nil {
				qty := decimal.NewFromFloat(*item.To.Qty)
				target.Qty = &qty
			}
			proactive.To = &target
		}
		items = append(items, proactive)
	}

	decisions, err := h.service.DecideShortages(c.Request().Context(), items)
	if err != nil {
		return err
	}

	out := make([]ShortageDecisionResponse, 0, len(decisions))
	for _, d := range decisions {
		resp := ShortageDecisionResponse{
			LineID: d.LineID,
			Action: string(d.Action),
		}
		if d.ReplacementQty != nil {
			qty := d.ReplacementQty.InexactFloat64()
			resp.ReplacementQty = &qty
		}
		out = append(out, resp)
	}

	return c.JSON(http.StatusOK, ShortageProactiveResponse{Decisions: out})
}

// Get returns an order with its lines.
func (h *OrderHandler) Get(c echo.Context) error {
	order, err := h.service.GetOrder(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"order": order,
	})
}
