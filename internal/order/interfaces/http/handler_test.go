package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/annaylee/estore-apis/internal/order/application"
	"github.com/annaylee/estore-apis/internal/order/domain"
	"github.com/annaylee/estore-apis/pkg/middleware"
	"github.com/annaylee/estore-apis/pkg/token"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

// memOrderRepo 内存订单仓储
type memOrderRepo struct {
	orders map[string]*domain.Order
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: make(map[string]*domain.Order)}
}

func (r *memOrderRepo) Create(_ context.Context, order *domain.Order) error {
	cp := *order
	cp.CreatedAt = time.Now()
	r.orders[order.ID] = &cp
	return nil
}

func (r *memOrderRepo) Get(_ context.Context, id string) (*domain.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *order
	return &cp, nil
}

func (r *memOrderRepo) List(_ context.Context) ([]*domain.Order, error) {
	var result []*domain.Order
	for _, order := range r.orders {
		cp := *order
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *memOrderRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	all, _ := r.List(ctx)
	var result []*domain.Order
	for _, order := range all {
		if order.UserID == userID {
			result = append(result, order)
		}
	}
	return result, nil
}

func (r *memOrderRepo) UpdateStatus(_ context.Context, id, status string) error {
	if order, ok := r.orders[id]; ok {
		order.Status = status
	}
	return nil
}

func (r *memOrderRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := r.orders[id]; !ok {
		return false, nil
	}
	delete(r.orders, id)
	return true, nil
}

func (r *memOrderRepo) GetItem(_ context.Context, itemID string) (*domain.OrderItem, error) {
	for _, order := range r.orders {
		for _, it := range order.Items {
			if it.ID == itemID {
				cp := it
				return &cp, nil
			}
		}
	}
	return nil, nil
}

func (r *memOrderRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.orders)), nil
}

func (r *memOrderRepo) TotalSales(_ context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, order := range r.orders {
		total = total.Add(order.TotalPrice)
	}
	return total, nil
}

// memCatalog 内存商品快照
type memCatalog struct {
	products map[string]*domain.ProductInfo
}

func (c *memCatalog) GetProduct(_ context.Context, id string) (*domain.ProductInfo, error) {
	return c.products[id], nil
}

// memUsers 内存用户姓名
type memUsers struct {
	names map[string]string
}

func (u *memUsers) GetUserName(_ context.Context, id string) (string, error) {
	return u.names[id], nil
}

type fixture struct {
	router *gin.Engine
	repo   *memOrderRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := newMemOrderRepo()
	catalog := &memCatalog{products: map[string]*domain.ProductInfo{
		"p1": {ID: "p1", Name: "keyboard", Price: decimal.RequireFromString("10")},
		"p2": {ID: "p2", Name: "mouse", Price: decimal.RequireFromString("5")},
	}}
	users := &memUsers{names: map[string]string{"u1": "Anna", "admin-1": "Root"}}

	commands := application.NewOrderCommandService(repo, catalog, nil, nil, nil)
	queries := application.NewOrderQueryService(repo, catalog, users)
	handler := NewOrderHandler(commands, queries)

	router := gin.New()
	api := router.Group("/api/v1")
	authed := api.Group("", middleware.RequireAuth(testSecret))
	admin := api.Group("", middleware.RequireAuth(testSecret), middleware.RequireAdmin())
	handler.RegisterRoutes(authed, admin)

	return &fixture{router: router, repo: repo}
}

func bearerFor(t *testing.T, userID string, isAdmin bool) string {
	t.Helper()
	tok, err := token.Issue(testSecret, time.Hour, userID, isAdmin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func (f *fixture) do(t *testing.T, method, path, auth string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func orderBody(userID string) map[string]any {
	return map[string]any{
		"orderItems": []map[string]any{
			{"quantity": 2, "product": "p1"},
		},
		"shippingAddress1": "1 Main St",
		"city":             "Springfield",
		"zip":              "12345",
		"country":          "US",
		"phone":            "555-0100",
		"user":             userID,
	}
}

func TestCreateOrderReturnsCreatedEnvelope(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/orders", bearerFor(t, "u1", false), orderBody("u1"))
	require.Equal(t, http.StatusCreated, rec.Code)

	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, true, envelope["success"])
	data, ok := envelope["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "20", data["totalPrice"])
	assert.Equal(t, domain.StatusPending, data["status"])
	assert.NotEmpty(t, data["id"])
}

func TestCreateOrderForAnotherUserIsForbidden(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/orders", bearerFor(t, "u1", false), orderBody("someone-else"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// 管理员不受限
	rec = f.do(t, http.MethodPost, "/api/v1/orders", bearerFor(t, "admin-1", true), orderBody("u1"))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateOrderWithUnknownProductIsBadRequest(t *testing.T) {
	f := newFixture(t)

	body := orderBody("u1")
	body["orderItems"] = []map[string]any{{"quantity": 1, "product": "ghost"}}
	rec := f.do(t, http.MethodPost, "/api/v1/orders", bearerFor(t, "u1", false), body)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, false, envelope["success"])
	assert.NotEmpty(t, envelope["error"])
}

func TestCreateOrderRequiresAuth(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/api/v1/orders", "", orderBody("u1"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListOrdersRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/api/v1/orders", bearerFor(t, "u1", false), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestListOrdersEmptyReturnsMessage(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/orders", bearerFor(t, "admin-1", true), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, true, envelope["success"])
	assert.Equal(t, "no orders found", envelope["message"])
	data, ok := envelope["data"].([]any)
	require.True(t, ok, "data should be an empty array, got %T", envelope["data"])
	assert.Empty(t, data)
}

func TestGetOrderOwnerAndAdminAccess(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/orders", bearerFor(t, "u1", false), orderBody("u1"))
	require.Equal(t, http.StatusCreated, rec.Code)
	orderID := decodeEnvelope(t, rec)["data"].(map[string]any)["id"].(string)

	// 本人可读，且详情包含收货地址
	rec = f.do(t, http.MethodGet, "/api/v1/orders/"+orderID, bearerFor(t, "u1", false), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	assert.Equal(t, "1 Main St", data["shippingAddress1"])

	// 管理员可读
	rec = f.do(t, http.MethodGet, "/api/v1/orders/"+orderID, bearerFor(t, "admin-1", true), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// 其他用户不可读
	rec = f.do(t, http.MethodGet, "/api/v1/orders/"+orderID, bearerFor(t, "u2", false), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetOrderWithDeletedOwnerStaysProtected(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.repo.Create(context.Background(), &domain.Order{
		ID:               "o-orphan",
		ShippingAddress1: "1 Main St",
		Status:           domain.StatusPending,
		TotalPrice:       decimal.RequireFromString("5"),
		UserID:           "ghost-owner",
	}))

	// 归属用户记录已不存在，其他用户依旧不可读
	rec := f.do(t, http.MethodGet, "/api/v1/orders/o-orphan", bearerFor(t, "u2", false), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// 本人凭仍有效的 token 可读
	rec = f.do(t, http.MethodGet, "/api/v1/orders/o-orphan", bearerFor(t, "ghost-owner", false), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// 管理员可读，用户展开为 null，不影响访问控制
	rec = f.do(t, http.MethodGet, "/api/v1/orders/o-orphan", bearerFor(t, "admin-1", true), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	assert.Nil(t, data["user"])
	assert.Equal(t, "1 Main St", data["shippingAddress1"])
}

func TestGetMissingOrderIs404(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/api/v1/orders/ghost", bearerFor(t, "admin-1", true), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, false, envelope["success"])
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/orders", bearerFor(t, "u1", false), orderBody("u1"))
	require.Equal(t, http.StatusCreated, rec.Code)
	orderID := decodeEnvelope(t, rec)["data"].(map[string]any)["id"].(string)

	rec = f.do(t, http.MethodPut, "/api/v1/orders/"+orderID, bearerFor(t, "admin-1", true),
		map[string]any{"status": domain.StatusShipped})
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	assert.Equal(t, domain.StatusShipped, data["status"])

	// 不存在的订单归一为 404
	rec = f.do(t, http.MethodPut, "/api/v1/orders/ghost", bearerFor(t, "admin-1", true),
		map[string]any{"status": domain.StatusShipped})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteOrder(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/orders", bearerFor(t, "u1", false), orderBody("u1"))
	require.Equal(t, http.StatusCreated, rec.Code)
	orderID := decodeEnvelope(t, rec)["data"].(map[string]any)["id"].(string)

	rec = f.do(t, http.MethodDelete, "/api/v1/orders/"+orderID, bearerFor(t, "admin-1", true), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/v1/orders/"+orderID, bearerFor(t, "admin-1", true), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReportingEndpoints(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/orders/get/totalsales", bearerFor(t, "admin-1", true), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	assert.Equal(t, "0", data["totalsales"])

	f.do(t, http.MethodPost, "/api/v1/orders", bearerFor(t, "u1", false), orderBody("u1"))

	rec = f.do(t, http.MethodGet, "/api/v1/orders/get/count", bearerFor(t, "admin-1", true), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data = decodeEnvelope(t, rec)["data"].(map[string]any)
	assert.Equal(t, float64(1), data["count"])

	rec = f.do(t, http.MethodGet, "/api/v1/orders/get/totalsales", bearerFor(t, "admin-1", true), nil)
	data = decodeEnvelope(t, rec)["data"].(map[string]any)
	assert.Equal(t, "20", data["totalsales"])
}

func TestListByUserAccessControl(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/api/v1/orders", bearerFor(t, "u1", false), orderBody("u1"))

	// 本人可查
	rec := f.do(t, http.MethodGet, "/api/v1/orders/get/orders/u1", bearerFor(t, "u1", false), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data, ok := decodeEnvelope(t, rec)["data"].([]any)
	require.True(t, ok)
	assert.Len(t, data, 1)

	// 他人不可查
	rec = f.do(t, http.MethodGet, "/api/v1/orders/get/orders/u1", bearerFor(t, "u2", false), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// 管理员可查任意用户
	rec = f.do(t, http.MethodGet, "/api/v1/orders/get/orders/u1", bearerFor(t, "admin-1", true), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
