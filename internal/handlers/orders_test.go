package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"order-fulfilment-service/internal/middleware"
	"order-fulfilment-service/internal/models"
	"order-fulfilment-service/internal/shortage"
)

type stubOrderStore struct {
	orders map[string]*models.Order
}

func (f *stubOrderStore) Get(ctx context.Context, orderID string) (*models.Order, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", orderID, shortage.ErrOrderNotFound)
	}
	return order, nil
}

func (f *stubOrderStore) Update(ctx context.Context, orderID string, fn func(order *models.Order) error) error {
	order, ok := f.orders[orderID]
	if !ok {
		return fmt.Errorf("order %s: %w", orderID, shortage.ErrOrderNotFound)
	}
	return fn(order)
}

type stubWarehouseStore struct {
	items map[int]models.WarehouseItem
}

func (f *stubWarehouseStore) Find(ctx context.Context, lineID int) (*models.WarehouseItem, error) {
	item, ok := f.items[lineID]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (f *stubWarehouseStore) FindBatch(ctx context.Context, lineIDs []int) ([]models.WarehouseItem, error) {
	out := make([]models.WarehouseItem, 0, len(lineIDs))
	for _, id := range lineIDs {
		if item, ok := f.items[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

type stubProvider struct {
	ids []int
}

func (f *stubProvider) Suggest(ctx context.Context, lineID int, productCode string, qty decimal.Decimal, name *string) ([]int, error) {
	return f.ids, nil
}

type recordingEnqueuer struct {
	calls    int
	action   string
	messages []string
}

func (r *recordingEnqueuer) EnqueueShortageNotification(ctx context.Context, orderID string, lineID int, action string, messages []string) error {
	r.calls++
	r.action = action
	r.messages = messages
	return nil
}

func newTestServer(jobs NotificationEnqueuer) *echo.Echo {
	orders := &stubOrderStore{orders: map[string]*models.Order{
		"ORD-1001": {
			ID:         "ORD-1001",
			CustomerID: "CUST-42",
			Lines: []models.OrderLine{
				{OrderID: "ORD-1001", LineID: 1, ProductCode: "MILK-1L", Name: "Whole milk 1l", Qty: decimal.NewFromInt(6), Unit: "pcs"},
			},
		},
	}}
	warehouse := &stubWarehouseStore{items: map[int]models.WarehouseItem{
		3: {LineID: 3, ProductCode: "OAT-1L", Name: "Oat drink 1l", Qty: decimal.NewFromInt(12), Unit: "pcs"},
	}}
	provider := &stubProvider{ids: []int{3}}

	service := shortage.NewService(orders, warehouse, provider)
	handler := NewOrderHandler(service, jobs)

	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler

	group := e.Group("/api/orders")
	group.POST("/events/pick-shortage", handler.RegisterPickShortage)
	group.POST("/shortage/proactive-call", handler.ProactiveShortageDecisions)
	group.POST("/claims/create", handler.CreateClaim)
	group.GET("/:id", handler.Get)

	return e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRegisterPickShortage_OK(t *testing.T) {
	enqueuer := &recordingEnqueuer{}
	e := newTestServer(enqueuer)

	rec := doJSON(e, http.MethodPost, "/api/orders/events/pick-shortage", `{
		"orderId": "ORD-1001",
		"lineId": 1,
		"productCode": "MILK-1L",
		"expectedQty": 6,
		"pickedQty": 2,
		"comment": "Shelf empty."
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp PickShortageEventResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.Equal(t, "ORD-1001", resp.OrderID)
	require.Equal(t, 1, resp.LineID)
	require.Equal(t, 4.0, resp.ShortageQty)
	require.Equal(t, "REPLACE", resp.Action)
	require.Len(t, resp.Replacements, 1)
	require.Equal(t, 3, resp.Replacements[0].LineID)
	require.Equal(t, "OAT-1L", resp.Replacements[0].ProductCode)
	require.NotEmpty(t, resp.Notifications)
	require.Contains(t, resp.Notifications[1], "Picker note: Shelf empty.")

	require.Equal(t, 1, enqueuer.calls)
	require.Equal(t, "REPLACE", enqueuer.action)
	require.Equal(t, resp.Notifications, enqueuer.messages)
}

func TestRegisterPickShortage_UnknownOrderIs404(t *testing.T) {
	e := newTestServer(nil)

	rec := doJSON(e, http.MethodPost, "/api/orders/events/pick-shortage", `{
		"orderId": "NOPE",
		"lineId": 1,
		"productCode": "MILK-1L",
		"expectedQty": 6,
		"pickedQty": 2
	}`)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Contains(t, resp.Error, "NOPE")
}

func TestRegisterPickShortage_MissingFieldsAre400(t *testing.T) {
	e := newTestServer(nil)

	cases := []struct {
		name string
		body string
	}{
		{"missing orderId", `{"lineId": 1, "productCode": "MILK-1L", "expectedQty": 6, "pickedQty": 2}`},
		{"missing lineId", `{"orderId": "ORD-1001", "productCode": "MILK-1L", "expectedQty": 6, "pickedQty": 2}`},
		{"missing productCode", `{"orderId": "ORD-1001", "lineId": 1, "expectedQty": 6, "pickedQty": 2}`},
		{"missing quantities", `{"orderId": "ORD-1001", "lineId": 1, "productCode": "MILK-1L"}`},
		{"negative quantity", `{"orderId": "ORD-1001", "lineId": 1, "productCode": "MILK-1L", "expectedQty": -1, "pickedQty": 0}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(e, http.MethodPost, "/api/orders/events/pick-shortage", tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestRegisterPickShortage_NilEnqueuerStillResponds(t *testing.T) {
	e := newTestServer(nil)

	rec := doJSON(e, http.MethodPost, "/api/orders/events/pick-shortage", `{
		"orderId": "ORD-1001",
		"lineId": 1,
		"productCode": "MILK-1L",
		"expectedQty": 6,
		"pickedQty": 6
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp PickShortageEventResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "KEEP", resp.Action)
	require.NotNil(t, resp.Replacements)
	require.Empty(t, resp.Replacements)
}

func TestProactiveShortageDecisions_OK(t *testing.T) {
	e := newTestServer(nil)

	rec := doJSON(e, http.MethodPost, "/api/orders/shortage/proactive-call", `{
		"items": [
			{"from": {"lineId": 1, "qty": 8}, "to": {"lineId": 3, "qty": 20}},
			{"from": {"lineId": 2, "qty": 0.5}}
		]
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ShortageProactiveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Decisions, 2)

	require.Equal(t, 1, resp.Decisions[0].LineID)
	require.Equal(t, "REPLACE", resp.Decisions[0].Action)
	require.NotNil(t, resp.Decisions[0].ReplacementQty)
	require.Equal(t, 12.0, *resp.Decisions[0].ReplacementQty)

	require.Equal(t, 2, resp.Decisions[1].LineID)
	require.Equal(t, "KEEP", resp.Decisions[1].Action)
	require.Nil(t, resp.Decisions[1].ReplacementQty)
}

func TestProactiveShortageDecisions_ValidationErrors(t *testing.T) {
	e := newTestServer(nil)

	cases := []struct {
		name string
		body string
	}{
		{"missing from", `{"items": [{"to": {"lineId": 3}}]}`},
		{"missing from qty", `{"items": [{"from": {"lineId": 1}}]}`},
		{"invalid to lineId", `{"items": [{"from": {"lineId": 1, "qty": 2}, "to": {"lineId": 0}}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(e, http.MethodPost, "/api/orders/shortage/proactive-call", tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestProactiveShortageDecisions_EmptyItems(t *testing.T) {
	e := newTestServer(nil)

	rec := doJSON(e, http.MethodPost, "/api/orders/shortage/proactive-call", `{"items": []}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ShortageProactiveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Empty(t, resp.Decisions)
}

func TestCreateClaim_NotImplemented(t *testing.T) {
	e := newTestServer(nil)

	rec := doJSON(e, http.MethodPost, "/api/orders/claims/create", `{
		"orderId": "ORD-1001",
		"customerId": "CUST-42",
		"channel": "voice",
		"description": "Milk carton arrived open."
	}`)
	require.Equal(t, http.StatusNotImplemented, rec.Code)

	var resp StubDescriptionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "/api/orders/claims/create", resp.Endpoint)
	require.Equal(t, "NOT_IMPLEMENTED", resp.Status)
	require.Len(t, resp.Description, 3)
	require.Contains(t, resp.Description[0], "ORD-1001")
}

func TestGetOrder_OK(t *testing.T) {
	e := newTestServer(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/ORD-1001", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Order models.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "ORD-1001", resp.Order.ID)
	require.Len(t, resp.Order.Lines, 1)
}

func TestGetOrder_UnknownIs404(t *testing.T) {
	e := newTestServer(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/NOPE", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
