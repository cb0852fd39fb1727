package application

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/annaylee/estore-apis/internal/order/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedOrder(t *testing.T, repo *fakeOrderRepo, id, userID string, createdAt time.Time, total string, items ...domain.OrderItem) {
	t.Helper()
	err := repo.Create(context.Background(), &domain.Order{
		ID:               id,
		Items:            items,
		ShippingAddress1: "1 Main St",
		City:             "Springfield",
		Zip:              "12345",
		Country:          "US",
		Phone:            "555-0100",
		Status:           domain.StatusPending,
		TotalPrice:       decimal.RequireFromString(total),
		UserID:           userID,
		CreatedAt:        createdAt,
	})
	require.NoError(t, err)
}

func TestListExpandsItemsAndAttachesUserName(t *testing.T) {
	repo := newFakeOrderRepo()
	catalog := catalogWith(&domain.ProductInfo{
		ID:           "p1",
		Name:         "keyboard",
		Description:  "mechanical",
		Price:        decimal.RequireFromString("10"),
		CategoryID:   "c1",
		CategoryName: "peripherals",
	})
	users := &fakeUserReader{names: map[string]string{"u1": "Anna"}}
	queries := NewOrderQueryService(repo, catalog, users)

	seedOrder(t, repo, "o1", "u1", time.Now(), "10",
		domain.OrderItem{ID: "i1", OrderID: "o1", Quantity: 1, ProductID: "p1", Position: 0})

	result, err := queries.List(context.Background())
	require.NoError(t, err)
	require.Len(t, result, 1)

	summary := result[0]
	require.NotNil(t, summary.User)
	assert.Equal(t, "Anna", summary.User.Name)
	require.Len(t, summary.Items, 1)
	require.NotNil(t, summary.Items[0].Product)
	assert.Equal(t, "keyboard", summary.Items[0].Product.Name)
	require.NotNil(t, summary.Items[0].Product.Category)
	assert.Equal(t, "peripherals", summary.Items[0].Product.Category.Name)
}

func TestListOrdersNewestFirst(t *testing.T) {
	repo := newFakeOrderRepo()
	queries := NewOrderQueryService(repo, catalogWith(), &fakeUserReader{names: map[string]string{}})

	base := time.Now()
	seedOrder(t, repo, "old", "u1", base.Add(-time.Hour), "1")
	seedOrder(t, repo, "new", "u1", base, "1")

	result, err := queries.List(context.Background())
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "new", result[0].ID)
	assert.Equal(t, "old", result[1].ID)
}

func TestListSummaryOmitsShippingAddress(t *testing.T) {
	repo := newFakeOrderRepo()
	queries := NewOrderQueryService(repo, catalogWith(), &fakeUserReader{names: map[string]string{}})
	seedOrder(t, repo, "o1", "u1", time.Now(), "5")

	result, err := queries.List(context.Background())
	require.NoError(t, err)
	require.Len(t, result, 1)

	raw, err := json.Marshal(result[0])
	require.NoError(t, err)
	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.NotContains(t, fields, "shippingAddress1")
	assert.NotContains(t, fields, "city")
	assert.NotContains(t, fields, "phone")
}

func TestGetIncludesShippingAddress(t *testing.T) {
	repo := newFakeOrderRepo()
	queries := NewOrderQueryService(repo, catalogWith(), &fakeUserReader{names: map[string]string{}})
	seedOrder(t, repo, "o1", "u1", time.Now(), "5")

	detail, err := queries.Get(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, "1 Main St", detail.ShippingAddress1)
	assert.Equal(t, "Springfield", detail.City)
	assert.Equal(t, "555-0100", detail.Phone)
}

func TestGetAlwaysCarriesOwnerID(t *testing.T) {
	repo := newFakeOrderRepo()
	// 归属用户已被删除：User 展开为 null，OwnerID 仍来自订单记录
	queries := NewOrderQueryService(repo, catalogWith(), &fakeUserReader{names: map[string]string{}})
	seedOrder(t, repo, "o1", "gone-user", time.Now(), "5")

	detail, err := queries.Get(context.Background(), "o1")
	require.NoError(t, err)
	assert.Nil(t, detail.User)
	assert.Equal(t, "gone-user", detail.OwnerID)

	// OwnerID 不进入响应体
	raw, err := json.Marshal(detail)
	require.NoError(t, err)
	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.NotContains(t, fields, "OwnerID")
}

func TestGetMissingOrderIsNotFound(t *testing.T) {
	queries := NewOrderQueryService(newFakeOrderRepo(), catalogWith(), &fakeUserReader{names: map[string]string{}})
	_, err := queries.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExpansionToleratesDanglingReferences(t *testing.T) {
	repo := newFakeOrderRepo()
	// 商品与用户均已删除
	queries := NewOrderQueryService(repo, catalogWith(), &fakeUserReader{names: map[string]string{}})
	seedOrder(t, repo, "o1", "gone-user", time.Now(), "5",
		domain.OrderItem{ID: "i1", OrderID: "o1", Quantity: 1, ProductID: "gone-product", Position: 0})

	result, err := queries.List(context.Background())
	require.NoError(t, err)
	require.Len(t, result, 1)
	require.Len(t, result[0].Items, 1)
	assert.Nil(t, result[0].Items[0].Product)
	assert.Nil(t, result[0].User)
}

func TestTotalSalesIsZeroWithoutOrders(t *testing.T) {
	queries := NewOrderQueryService(newFakeOrderRepo(), catalogWith(), &fakeUserReader{names: map[string]string{}})

	total, err := queries.TotalSales(context.Background())
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.Zero))

	count, err := queries.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestTotalSalesSumsAllOrders(t *testing.T) {
	repo := newFakeOrderRepo()
	queries := NewOrderQueryService(repo, catalogWith(), &fakeUserReader{names: map[string]string{}})
	seedOrder(t, repo, "o1", "u1", time.Now(), "12.50")
	seedOrder(t, repo, "o2", "u2", time.Now(), "7.25")

	total, err := queries.TotalSales(context.Background())
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("19.75")))
}

func TestListByUserReturnsOnlyOwnOrders(t *testing.T) {
	repo := newFakeOrderRepo()
	queries := NewOrderQueryService(repo, catalogWith(), &fakeUserReader{names: map[string]string{}})
	base := time.Now()
	seedOrder(t, repo, "o1", "u1", base.Add(-time.Minute), "1")
	seedOrder(t, repo, "o2", "u2", base, "1")
	seedOrder(t, repo, "o3", "u1", base, "1")

	orders, err := queries.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "o3", orders[0].ID)
	assert.Equal(t, "o1", orders[1].ID)

	empty, err := queries.ListByUser(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
