package application

import (
	"context"
	"testing"

	categorydomain "github.com/annaylee/estore-apis/internal/category/domain"
	"github.com/annaylee/estore-apis/internal/product/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProductRepo 内存商品仓储
type fakeProductRepo struct {
	products map[string]*domain.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[string]*domain.Product)}
}

func (r *fakeProductRepo) Save(_ context.Context, product *domain.Product) error {
	cp := *product
	cp.Category = nil
	r.products[product.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Get(_ context.Context, id string) (*domain.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *product
	return &cp, nil
}

func (r *fakeProductRepo) List(_ context.Context, filter domain.ListFilter) ([]*domain.Product, int64, error) {
	var result []*domain.Product
	for _, product := range r.products {
		if len(filter.CategoryIDs) > 0 {
			match := false
			for _, id := range filter.CategoryIDs {
				if product.CategoryID == id {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		cp := *product
		result = append(result, &cp)
	}
	return result, int64(len(result)), nil
}

func (r *fakeProductRepo) Update(_ context.Context, product *domain.Product) error {
	cp := *product
	cp.Category = nil
	r.products[product.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := r.products[id]; !ok {
		return false, nil
	}
	delete(r.products, id)
	return true, nil
}

func (r *fakeProductRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.products)), nil
}

func (r *fakeProductRepo) Featured(_ context.Context, limit int) ([]*domain.Product, error) {
	var result []*domain.Product
	for _, product := range r.products {
		if product.IsFeatured {
			cp := *product
			result = append(result, &cp)
			if len(result) == limit {
				break
			}
		}
	}
	return result, nil
}

// fakeCategoryRepo 只读分类仓储
type fakeCategoryRepo struct {
	categories map[string]*categorydomain.Category
}

func (r *fakeCategoryRepo) Save(_ context.Context, _ *categorydomain.Category) error { return nil }

func (r *fakeCategoryRepo) Get(_ context.Context, id string) (*categorydomain.Category, error) {
	return r.categories[id], nil
}

func (r *fakeCategoryRepo) List(_ context.Context) ([]*categorydomain.Category, error) {
	return nil, nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, _ *categorydomain.Category) error { return nil }

func (r *fakeCategoryRepo) Delete(_ context.Context, _ string) (bool, error) { return false, nil }

func testServices() (*ProductCommandService, *ProductQueryService, *fakeProductRepo) {
	repo := newFakeProductRepo()
	categories := &fakeCategoryRepo{categories: map[string]*categorydomain.Category{
		"c1": {ID: "c1", Name: "peripherals"},
	}}
	commands := NewProductCommandService(repo, categories, nil)
	queries := NewProductQueryService(repo, nil)
	return commands, queries, repo
}

func validCreate() CreateProductCommand {
	return CreateProductCommand{
		Name:         "keyboard",
		Description:  "mechanical keyboard",
		Price:        decimal.RequireFromString("49.99"),
		CategoryID:   "c1",
		CountInStock: 10,
	}
}

func TestCreateProduct(t *testing.T) {
	commands, queries, _ := testServices()

	product, err := commands.Create(context.Background(), validCreate())
	require.NoError(t, err)
	assert.NotEmpty(t, product.ID)
	require.NotNil(t, product.Category)
	assert.Equal(t, "peripherals", product.Category.Name)

	fetched, err := queries.Get(context.Background(), product.ID)
	require.NoError(t, err)
	assert.True(t, fetched.Price.Equal(decimal.RequireFromString("49.99")))
}

func TestCreateProductRejectsUnknownCategory(t *testing.T) {
	commands, _, _ := testServices()

	cmd := validCreate()
	cmd.CategoryID = "ghost"
	_, err := commands.Create(context.Background(), cmd)
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestCreateProductValidation(t *testing.T) {
	commands, _, _ := testServices()

	cmd := validCreate()
	cmd.Name = ""
	_, err := commands.Create(context.Background(), cmd)
	assert.ErrorIs(t, err, ErrMissingFields)

	cmd = validCreate()
	cmd.Price = decimal.RequireFromString("-1")
	_, err = commands.Create(context.Background(), cmd)
	assert.ErrorIs(t, err, ErrNegativePrice)

	cmd = validCreate()
	cmd.CountInStock = domain.MaxCountInStock + 1
	_, err = commands.Create(context.Background(), cmd)
	assert.ErrorIs(t, err, ErrStockOutOfRange)
}

func TestSetGalleryKeepsOrder(t *testing.T) {
	commands, queries, _ := testServices()

	product, err := commands.Create(context.Background(), validCreate())
	require.NoError(t, err)

	uris := []string{"http://img/3.png", "http://img/1.png", "http://img/2.png"}
	_, err = commands.SetGallery(context.Background(), product.ID, uris)
	require.NoError(t, err)

	fetched, err := queries.Get(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, uris, fetched.Images)
}

func TestDeleteProduct(t *testing.T) {
	commands, queries, _ := testServices()

	product, err := commands.Create(context.Background(), validCreate())
	require.NoError(t, err)

	require.NoError(t, commands.Delete(context.Background(), product.ID))
	assert.ErrorIs(t, commands.Delete(context.Background(), product.ID), ErrNotFound)

	_, err = queries.Get(context.Background(), product.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFeaturedHonorsLimit(t *testing.T) {
	commands, queries, _ := testServices()

	for n := 0; n < 3; n++ {
		cmd := validCreate()
		cmd.IsFeatured = true
		_, err := commands.Create(context.Background(), cmd)
		require.NoError(t, err)
	}

	featured, err := queries.Featured(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, featured, 2)
}
