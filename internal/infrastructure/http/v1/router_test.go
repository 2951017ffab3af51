package v1_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HuyKhos/lamanh-shop-app/internal/app"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/apperror"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/numerator"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/debt"
	v1 "github.com/HuyKhos/lamanh-shop-app/internal/infrastructure/http/v1"
	"github.com/HuyKhos/lamanh-shop-app/internal/infrastructure/metrics"
	"github.com/HuyKhos/lamanh-shop-app/internal/infrastructure/storage/memory"
)

type api struct {
	t      *testing.T
	router *gin.Engine
	store  *memory.Store
}

func newAPI(t *testing.T) *api {
	t.Helper()

	store := memory.NewStore()
	backend := app.NewMemoryBackend(store, numerator.DefaultConfig())
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	router := v1.NewRouter(v1.RouterConfig{
		Services:    app.NewServices(backend, app.Observers{Movements: m, Payments: m}),
		Store:       backend,
		StorageName: backend.Name,
		Metrics:     m,
		Gatherer:    registry,
	})
	return &api{t: t, router: router, store: store}
}

func (a *api) do(method, path string, body any, headers ...string) (*httptest.ResponseRecorder, map[string]any) {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func (a *api) createProduct(name string, stock int64, price string, points int64) string {
	a.t.Helper()
	w, body := a.do(http.MethodPost, "/api/products", map[string]any{
		"name":          name,
		"unit":          "hộp",
		"export_price":  price,
		"import_price":  "1000",
		"gift_points":   points,
		"current_stock": stock,
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return body["id"].(string)
}

func (a *api) createPartner(name, typ string) string {
	a.t.Helper()
	w, body := a.do(http.MethodPost, "/api/partners", map[string]any{"name": name, "type": typ})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return body["id"].(string)
}

func (a *api) get(path string) map[string]any {
	a.t.Helper()
	w, body := a.do(http.MethodGet, path, nil)
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	return body
}

func TestHealth(t *testing.T) {
	a := newAPI(t)

	w, body := a.do(http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])

	w, body = a.do(http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"memory": "healthy"}, body["checks"])
}

func TestExportFlow(t *testing.T) {
	a := newAPI(t)
	productID := a.createProduct("Sữa tươi", 10, "20000", 2)
	customerID := a.createPartner("Chị Lan", "customer")

	w, body := a.do(http.MethodPost, "/api/exports", map[string]any{
		"customer_id": customerID,
		"details":     []map[string]any{{"product_id": productID, "quantity": 3}},
	}, "Idempotency-Key", "sale-1")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Xuất kho thành công!", body["message"])

	receipt := body["receipt"].(map[string]any)
	assert.Regexp(t, `^XK-\d{6}-001$`, receipt["code"])
	assert.Equal(t, "60000", receipt["total_amount"])
	assert.EqualValues(t, 0, receipt["points_before"])
	assert.EqualValues(t, 6, receipt["points_added"])
	assert.EqualValues(t, 6, receipt["points_after"])

	assert.EqualValues(t, 7, a.get("/api/products/" + productID)["current_stock"])
	customer := a.get("/api/partners/" + customerID)
	assert.Equal(t, "60000", customer["current_debt"])
	assert.EqualValues(t, 6, customer["saved_points"])

	// same key again: rejected, nothing changes
	w, body = a.do(http.MethodPost, "/api/exports", map[string]any{
		"customer_id":     customerID,
		"details":         []map[string]any{{"product_id": productID, "quantity": 3}},
		"idempotency_key": "sale-1",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apperror.CodeDuplicateSubmission, body["code"])
	assert.EqualValues(t, 7, a.get("/api/products/" + productID)["current_stock"])

	receiptID := receipt["id"].(string)
	w, _ = a.do(http.MethodDelete, "/api/exports/"+receiptID, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.EqualValues(t, 10, a.get("/api/products/" + productID)["current_stock"])
	customer = a.get("/api/partners/" + customerID)
	assert.Equal(t, "0", customer["current_debt"])
	assert.EqualValues(t, 0, customer["saved_points"])

	w, _ = a.do(http.MethodGet, "/api/exports/"+receiptID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExport_InsufficientStock(t *testing.T) {
	a := newAPI(t)
	productID := a.createProduct("Bánh quy", 2, "15000", 0)
	customerID := a.createPartner("Anh Minh", "customer")

	w, body := a.do(http.MethodPost, "/api/exports", map[string]any{
		"customer_id":     customerID,
		"details":         []map[string]any{{"product_id": productID, "quantity": 5}},
		"idempotency_key": "sale-2",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apperror.CodeInsufficientStock, body["code"])
	assert.EqualValues(t, 2, a.get("/api/products/" + productID)["current_stock"])

	list := a.get("/api/exports")
	assert.EqualValues(t, 0, list["totalCount"])
}

func TestExport_MissingIdempotencyKey(t *testing.T) {
	a := newAPI(t)
	productID := a.createProduct("Bánh quy", 2, "15000", 0)
	customerID := a.createPartner("Anh Minh", "customer")

	w, body := a.do(http.MethodPost, "/api/exports", map[string]any{
		"customer_id": customerID,
		"details":     []map[string]any{{"product_id": productID, "quantity": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperror.CodeValidation, body["code"])
}

func TestExport_UpdateHeaderOnly(t *testing.T) {
	a := newAPI(t)
	productID := a.createProduct("Nước mắm", 5, "30000", 0)
	customerID := a.createPartner("Cô Hoa", "customer")

	_, body := a.do(http.MethodPost, "/api/exports", map[string]any{
		"customer_id":     customerID,
		"details":         []map[string]any{{"product_id": productID, "quantity": 1}},
		"idempotency_key": "sale-3",
	})
	receiptID := body["receipt"].(map[string]any)["id"].(string)

	w, body := a.do(http.MethodPut, "/api/exports/"+receiptID, map[string]any{
		"note":       "giao buổi sáng",
		"hide_price": true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "giao buổi sáng", body["note"])
	assert.Equal(t, true, body["hide_price"])
	assert.Equal(t, "30000", body["total_amount"])
}

func TestNewCode_DoesNotConsume(t *testing.T) {
	a := newAPI(t)

	first := a.get("/api/imports/new-code")["code"]
	second := a.get("/api/imports/new-code")["code"]
	assert.Equal(t, first, second)
	assert.Regexp(t, `^NK-\d{6}-001$`, first)
}

func TestImportFlow(t *testing.T) {
	a := newAPI(t)
	productID := a.createProduct("Gạo", 0, "25000", 0)
	supplierID := a.createPartner("Công ty Minh Phát", "supplier")

	w, body := a.do(http.MethodPost, "/api/imports", map[string]any{
		"supplier_id":     supplierID,
		"details":         []map[string]any{{"product_id": productID, "quantity": 50, "import_price": "18000"}},
		"idempotency_key": "in-1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Nhập kho thành công!", body["message"])
	receipt := body["receipt"].(map[string]any)
	assert.Equal(t, "900000", receipt["total_amount"])

	assert.EqualValues(t, 50, a.get("/api/products/" + productID)["current_stock"])
	assert.Equal(t, "900000", a.get("/api/partners/" + supplierID)["current_debt"])

	debts := a.get("/api/debts?partner_type=supplier")
	assert.EqualValues(t, 1, debts["totalCount"])
}

func TestDebtPayment(t *testing.T) {
	a := newAPI(t)
	productID := a.createProduct("Dầu ăn", 10, "50000", 0)
	customerID := a.createPartner("Bác Tư", "customer")

	_, _ = a.do(http.MethodPost, "/api/exports", map[string]any{
		"customer_id":     customerID,
		"details":         []map[string]any{{"product_id": productID, "quantity": 2}},
		"idempotency_key": "sale-4",
	})

	debts := a.get("/api/debts?partner_id=" + customerID)
	require.EqualValues(t, 1, debts["totalCount"])
	record := debts["items"].([]any)[0].(map[string]any)
	recordID := record["id"].(string)
	assert.Equal(t, string(debt.StatusUnpaid), record["status"])

	w, body := a.do(http.MethodPut, "/api/debts/payment/"+recordID, map[string]any{"amount": "40000"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := body["data"].(map[string]any)
	assert.Equal(t, string(debt.StatusPartiallyPaid), data["status"])
	assert.Equal(t, "60000", data["remaining"])

	// garbage amount is a no-op payment
	w, body = a.do(http.MethodPut, "/api/debts/payment/"+recordID, map[string]any{"amount": "abc"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "60000", body["data"].(map[string]any)["remaining"])

	w, body = a.do(http.MethodPut, "/api/debts/payment/"+recordID, map[string]any{"amount": 60000})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(debt.StatusPaid), body["data"].(map[string]any)["status"])
	assert.Equal(t, "0", a.get("/api/partners/" + customerID)["current_debt"])

	w, body = a.do(http.MethodPut, "/api/debts/"+recordID, map[string]any{"note": "đã thu đủ"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "đã thu đủ", body["note"])
}

func TestDashboardNote(t *testing.T) {
	a := newAPI(t)

	assert.Equal(t, "", a.get("/api/dashboard/note")["note"])

	w, body := a.do(http.MethodPost, "/api/dashboard/note", map[string]any{"note": "Nhập thêm sữa"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])

	assert.Equal(t, "Nhập thêm sữa", a.get("/api/dashboard/note")["note"])
}

func TestPartners_DuplicatePhone(t *testing.T) {
	a := newAPI(t)

	w, _ := a.do(http.MethodPost, "/api/partners", map[string]any{"name": "A", "phone": "0909"})
	require.Equal(t, http.StatusCreated, w.Code)

	w, body := a.do(http.MethodPost, "/api/partners", map[string]any{"name": "B", "phone": " 0909 "})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apperror.CodeDuplicate, body["code"])

	list := a.get("/api/partners?keyword=a&type=customer")
	assert.EqualValues(t, 1, list["totalCount"])
}

func TestProducts_DeleteReferencedRejected(t *testing.T) {
	a := newAPI(t)
	productID := a.createProduct("Trà", 5, "10000", 0)
	customerID := a.createPartner("Khách lẻ", "customer")

	_, _ = a.do(http.MethodPost, "/api/exports", map[string]any{
		"customer_id":     customerID,
		"details":         []map[string]any{{"product_id": productID, "quantity": 1}},
		"idempotency_key": "sale-5",
	})

	w, body := a.do(http.MethodDelete, "/api/products/"+productID, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apperror.CodeConflict, body["code"])
}

func TestInvalidID(t *testing.T) {
	a := newAPI(t)

	w, body := a.do(http.MethodGet, "/api/products/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperror.CodeValidation, body["code"])
}

func TestMetricsEndpoint(t *testing.T) {
	a := newAPI(t)
	a.createProduct("Muối", 1, "5000", 0)

	w, _ := a.do(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "lamanh_http_request_duration_seconds")
}
