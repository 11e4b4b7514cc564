package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"order-fulfilment-service/internal/logging"
)

type CreateClaimRequest struct {
	OrderID       string   `json:"orderId"`
	CustomerID    string   `json:"customerId"`
	Channel       string   `json:"channel"`
	Description   string   `json:"description"`
	AttachmentIDs []string `json:"attachmentIds"`
}

// StubDescriptionResponse explains what a not-yet-implemented endpoint will
// eventually perform, so callers can tell "not implemented" apart from a
// genuine failure.
type StubDescriptionResponse struct {
	Endpoint    string   `json:"endpoint"`
	Status      string   `json:"status"`
	Description []string `json:"description"`
}

// CreateClaim is claim creation after delivery (invoked by the Communication
// Orchestrator or NLU). Still returns a stub payload describing the work to
// be implemented.
func (h *OrderHandler) CreateClaim(c echo.Context) error {
	var req CreateClaimRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	logging.Info(c.Request().Context()).
		Str("order_id", req.OrderID).
		Str("channel", req.Channel).
		Msg("claim creation requested on stub endpoint")

	description := []string{
		fmt.Sprintf("Persist the complaint context for order %s submitted via %s.", req.OrderID, req.Channel),
		"Request Multimodal Evidence Service to validate provided attachmentIds.",
		"Based on the evaluation, call Compensation and orchestrate follow-up back-office actions.",
	}

	return c.JSON(http.StatusNotImplemented, StubDescriptionResponse{
		Endpoint:    "/api/orders/claims/create",
		Status:      "NOT_IMPLEMENTED",
		Description: description,
	})
}
