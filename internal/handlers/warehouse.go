package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"order-fulfilment-service/internal/storage"
)

type WarehouseHandler struct {
	store *storage.WarehouseStore
}

func NewWarehouseHandler(store *storage.WarehouseStore) *WarehouseHandler {
	return &WarehouseHandler{store: store}
}

func (h *WarehouseHandler) List(c echo.Context) error {
	items, err := h.store.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch warehouse items")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"items": items,
	})
}
