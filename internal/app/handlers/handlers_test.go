package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/paperie/shop-backend/internal/app/handlers"
	"github.com/paperie/shop-backend/internal/domain/models"
	"github.com/paperie/shop-backend/internal/service"
	"github.com/paperie/shop-backend/internal/storage"
)

// fakeOrderService — фиктивная реализация для тестирования обработчиков.
type fakeOrderService struct {
	order  *models.Order
	orders []*models.Order
	err    error
}

var _ service.OrderService = (*fakeOrderService)(nil)

func (f *fakeOrderService) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	order.ID = 7
	order.TrackerCode = "A1B2C3D4"
	order.Status = models.StatusNew
	order.CreatedAt = time.Now()
	return order, nil
}

func (f *fakeOrderService) TrackByCode(ctx context.Context, code string) (*models.Order, error) {
	return f.order, f.err
}

func (f *fakeOrderService) AdminUpdateStatus(ctx context.Context, id int64, requested string) (*models.Order, error) {
	return f.order, f.err
}

func (f *fakeOrderService) DeliveryUpdateStatus(ctx context.Context, trackerCode, requested string) (*models.Order, error) {
	return f.order, f.err
}

func (f *fakeOrderService) List(ctx context.Context, limit, offset int) ([]*models.Order, error) {
	return f.orders, f.err
}

func (f *fakeOrderService) SearchByContact(ctx context.Context, query string, limit, offset int) ([]*models.Order, error) {
	return f.orders, f.err
}

func (f *fakeOrderService) Export(ctx context.Context) ([]*models.Order, error) {
	return f.orders, f.err
}

type fakeRatingService struct {
	rating  *models.Rating
	ratings []*models.Rating
	err     error
}

var _ service.RatingService = (*fakeRatingService)(nil)

func (f *fakeRatingService) Submit(ctx context.Context, rating *models.Rating) (*models.Rating, error) {
	if f.err != nil {
		return nil, f.err
	}
	rating.ID = 1
	rating.CreatedAt = time.Now()
	return rating, nil
}

func (f *fakeRatingService) ListByProduct(ctx context.Context, productName string, limit, offset int) ([]*models.Rating, error) {
	return f.ratings, f.err
}

func (f *fakeRatingService) List(ctx context.Context, limit, offset int) ([]*models.Rating, error) {
	return f.ratings, f.err
}

func (f *fakeRatingService) Export(ctx context.Context) ([]*models.Rating, error) {
	return f.ratings, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

// withURLParam подкладывает URL-параметр chi в контекст запроса.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

const validOrderBody = `{
	"customer": "Jane Doe",
	"email": "jane@example.com",
	"phone": "01234567890",
	"address": "12 Nile St, Cairo",
	"items": [{"id": 1, "name": "Classic Notebook", "quantity": 2, "price": 10}],
	"total": 80,
	"payment": "cod"
}`

func TestCreateOrderHandler_Success(t *testing.T) {
	fakeSvc := &fakeOrderService{}
	handler := handlers.CreateOrderHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("POST", "/orders", bytes.NewBufferString(validOrderBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code, "Expected status 201 Created")

	var resp map[string]any
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, "A1B2C3D4", resp["tracker_code"])
	assert.Equal(t, "New Order", resp["status"])
	// Внутренний id наружу не уходит
	_, hasID := resp["id"]
	assert.False(t, hasID, "internal id must not be exposed")
}

func TestCreateOrderHandler_InvalidJSON(t *testing.T) {
	handler := handlers.CreateOrderHandler(testLogger(), &fakeOrderService{})

	req := httptest.NewRequest("POST", "/orders", bytes.NewBufferString(`{"customer":`))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "Expected status 400 for invalid JSON")
}

func TestCreateOrderHandler_ValidationErrors(t *testing.T) {
	handler := handlers.CreateOrderHandler(testLogger(), &fakeOrderService{})

	cases := []struct {
		name string
		body string
	}{
		{"missing customer", `{"email": "jane@example.com", "phone": "01234567890", "address": "12 Nile St", "items": [{"id": 1, "name": "x", "quantity": 1}], "total": 70, "payment": "cod"}`},
		{"bad email", `{"customer": "Jane", "email": "not-an-email", "phone": "01234567890", "address": "12 Nile St", "items": [{"id": 1, "name": "x", "quantity": 1}], "total": 70, "payment": "cod"}`},
		{"short phone", `{"customer": "Jane", "email": "jane@example.com", "phone": "12345", "address": "12 Nile St", "items": [{"id": 1, "name": "x", "quantity": 1}], "total": 70, "payment": "cod"}`},
		{"empty items", `{"customer": "Jane", "email": "jane@example.com", "phone": "01234567890", "address": "12 Nile St", "items": [], "total": 70, "payment": "cod"}`},
		{"missing total", `{"customer": "Jane", "email": "jane@example.com", "phone": "01234567890", "address": "12 Nile St", "items": [{"id": 1, "name": "x", "quantity": 1}], "payment": "cod"}`},
		{"bad payment", `{"customer": "Jane", "email": "jane@example.com", "phone": "01234567890", "address": "12 Nile St", "items": [{"id": 1, "name": "x", "quantity": 1}], "total": 70, "payment": "paypal"}`},
		{"zero quantity", `{"customer": "Jane", "email": "jane@example.com", "phone": "01234567890", "address": "12 Nile St", "items": [{"id": 1, "name": "x", "quantity": 0}], "total": 70, "payment": "cod"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/orders", bytes.NewBufferString(tc.body))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			assert.Equal(t, http.StatusBadRequest, rr.Code)

			var resp handlers.ErrorResponse
			assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestCreateOrderHandler_ZeroTotalPasses(t *testing.T) {
	// total: 0 — валидное значение, required не должен его отбрасывать
	handler := handlers.CreateOrderHandler(testLogger(), &fakeOrderService{})

	body := `{"customer": "Jane Doe", "email": "jane@example.com", "phone": "01234567890", "address": "12 Nile St, Cairo", "items": [{"id": 1, "name": "x", "quantity": 1}], "total": 0, "payment": "cod"}`
	req := httptest.NewRequest("POST", "/orders", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusCreated, rr.Code, "total of 0 should pass validation")
}

func TestCreateOrderHandler_ServiceError(t *testing.T) {
	fakeSvc := &fakeOrderService{err: service.ErrUnsupportedPayment}
	handler := handlers.CreateOrderHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("POST", "/orders", bytes.NewBufferString(validOrderBody))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestTrackOrderHandler_Success(t *testing.T) {
	fakeSvc := &fakeOrderService{order: &models.Order{
		ID:          7,
		TrackerCode: "A1B2C3D4",
		Customer:    "Jane Doe",
		Status:      models.StatusShipped,
	}}
	handler := handlers.TrackOrderHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("GET", "/orders/track/A1B2C3D4", nil)
	req = withURLParam(req, "tracker_code", "A1B2C3D4")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]any
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "A1B2C3D4", resp["tracker_code"])
	assert.Equal(t, "Shipped", resp["status"])
	_, hasID := resp["id"]
	assert.False(t, hasID, "internal id must not be exposed")
}

func TestTrackOrderHandler_NotFound(t *testing.T) {
	fakeSvc := &fakeOrderService{err: storage.ErrOrderNotFound}
	handler := handlers.TrackOrderHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("GET", "/orders/track/MISSING1", nil)
	req = withURLParam(req, "tracker_code", "MISSING1")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code, "Expected 404 for unknown tracker code")
}

func TestOrderHistoryHandler_MissingQuery(t *testing.T) {
	handler := handlers.OrderHistoryHandler(testLogger(), &fakeOrderService{})

	req := httptest.NewRequest("GET", "/orders/history", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "Expected 400 when query is missing")
}

func TestOrderHistoryHandler_Success(t *testing.T) {
	fakeSvc := &fakeOrderService{orders: []*models.Order{
		{ID: 1, TrackerCode: "AAAA1111", Email: "jane@example.com"},
		{ID: 2, TrackerCode: "BBBB2222", Email: "jane@example.com"},
	}}
	handler := handlers.OrderHistoryHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("GET", "/orders/history?query=jane", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp []map[string]any
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Len(t, resp, 2)
	for _, item := range resp {
		_, hasID := item["id"]
		assert.False(t, hasID, "internal id must not be exposed in history")
	}
}

func TestAdminUpdateStatusHandler_Success(t *testing.T) {
	fakeSvc := &fakeOrderService{order: &models.Order{
		ID:          7,
		TrackerCode: "A1B2C3D4",
		Status:      models.StatusShipped,
	}}
	handler := handlers.AdminUpdateStatusHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("PATCH", "/orders/7", bytes.NewBufferString(`{"status": "Shipped"}`))
	req = withURLParam(req, "id", "7")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAdminUpdateStatusHandler_BadID(t *testing.T) {
	handler := handlers.AdminUpdateStatusHandler(testLogger(), &fakeOrderService{})

	req := httptest.NewRequest("PATCH", "/orders/abc", bytes.NewBufferString(`{"status": "Shipped"}`))
	req = withURLParam(req, "id", "abc")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAdminUpdateStatusHandler_MissingStatus(t *testing.T) {
	handler := handlers.AdminUpdateStatusHandler(testLogger(), &fakeOrderService{})

	req := httptest.NewRequest("PATCH", "/orders/7", bytes.NewBufferString(`{}`))
	req = withURLParam(req, "id", "7")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAdminUpdateStatusHandler_InvalidTransition(t *testing.T) {
	fakeSvc := &fakeOrderService{err: service.ErrInvalidTransition}
	handler := handlers.AdminUpdateStatusHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("PATCH", "/orders/7", bytes.NewBufferString(`{"status": "Completed"}`))
	req = withURLParam(req, "id", "7")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAdminUpdateStatusHandler_VersionConflict(t *testing.T) {
	fakeSvc := &fakeOrderService{err: storage.ErrVersionConflict}
	handler := handlers.AdminUpdateStatusHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("PATCH", "/orders/7", bytes.NewBufferString(`{"status": "Shipped"}`))
	req = withURLParam(req, "id", "7")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusConflict, rr.Code, "Expected 409 when retries are exhausted")
}

func TestDeliveryUpdateStatusHandler_MissingStatus(t *testing.T) {
	handler := handlers.DeliveryUpdateStatusHandler(testLogger(), &fakeOrderService{})

	req := httptest.NewRequest("PATCH", "/orders/update-status/A1B2C3D4", bytes.NewBufferString(`{}`))
	req = withURLParam(req, "tracker_code", "A1B2C3D4")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCompanyUpdateOrderHandler_Success(t *testing.T) {
	fakeSvc := &fakeOrderService{order: &models.Order{
		ID:          7,
		TrackerCode: "A1B2C3D4",
		Status:      models.StatusOutForDelivery,
	}}
	handler := handlers.CompanyUpdateOrderHandler(testLogger(), fakeSvc, "secret-key")

	body := `{"tracker_code": "A1B2C3D4", "status": "Out for Delivery", "apiKey": "secret-key"}`
	req := httptest.NewRequest("POST", "/company-api/update-order", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp handlers.CompanyUpdateResponse
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "order status updated by company", resp.Message)
	assert.Equal(t, "A1B2C3D4", resp.Order.TrackerCode)
}

func TestCompanyUpdateOrderHandler_WrongKey(t *testing.T) {
	handler := handlers.CompanyUpdateOrderHandler(testLogger(), &fakeOrderService{}, "secret-key")

	body := `{"tracker_code": "A1B2C3D4", "status": "Out for Delivery", "apiKey": "wrong"}`
	req := httptest.NewRequest("POST", "/company-api/update-order", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestSubmitRatingHandler_Success(t *testing.T) {
	handler := handlers.SubmitRatingHandler(testLogger(), &fakeRatingService{})

	body := `{"product_name": "Classic Notebook", "customer_name": "Jane", "rating": 5, "comment": "lovely paper"}`
	req := httptest.NewRequest("POST", "/ratings", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestSubmitRatingHandler_OutOfRange(t *testing.T) {
	handler := handlers.SubmitRatingHandler(testLogger(), &fakeRatingService{})

	body := `{"product_name": "Classic Notebook", "customer_name": "Jane", "rating": 9, "comment": "x"}`
	req := httptest.NewRequest("POST", "/ratings", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "rating above 5 should fail validation")
}

func TestListProductRatingsHandler_EmptyList(t *testing.T) {
	handler := handlers.ListProductRatingsHandler(testLogger(), &fakeRatingService{})

	req := httptest.NewRequest("GET", "/ratings/Classic%20Notebook", nil)
	req = withURLParam(req, "product_name", "Classic Notebook")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	// Пустой список сериализуется как [], а не null
	assert.Equal(t, "[]\n", rr.Body.String())
}

func TestAdminListOrdersHandler_EmptyList(t *testing.T) {
	handler := handlers.AdminListOrdersHandler(testLogger(), &fakeOrderService{})

	req := httptest.NewRequest("GET", "/orders", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]\n", rr.Body.String())
}

func TestOrdersCSVHandler_Success(t *testing.T) {
	fakeSvc := &fakeOrderService{orders: []*models.Order{
		{
			ID:          1,
			TrackerCode: "AAAA1111",
			Customer:    "Jane Doe",
			Email:       "jane@example.com",
			Phone:       "01234567890",
			Items:       []models.OrderItem{{ID: 1, Name: "Classic Notebook", Quantity: 2, Price: 10}},
			Total:       80,
			Payment:     "cod",
			Status:      models.StatusNew,
			CreatedAt:   time.Now(),
		},
	}}
	handler := handlers.OrdersCSVHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("GET", "/orders/export-csv", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, rr.Body.String(), "AAAA1111")
	assert.Contains(t, rr.Body.String(), "jane@example.com")
}

func TestRatingsCSVHandler_Success(t *testing.T) {
	fakeSvc := &fakeRatingService{ratings: []*models.Rating{
		{ID: 1, ProductName: "Classic Notebook", CustomerName: "Jane", Rating: 5, Comment: "lovely", CreatedAt: time.Now()},
	}}
	handler := handlers.RatingsCSVHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("GET", "/ratings/export-csv", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rr.Body.String(), "Classic Notebook")
}
