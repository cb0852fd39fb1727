package application

import (
	"context"
	"testing"

	"github.com/annaylee/estore-apis/internal/category/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCategoryRepo 内存分类仓储
type fakeCategoryRepo struct {
	categories map[string]*domain.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[string]*domain.Category)}
}

func (r *fakeCategoryRepo) Save(_ context.Context, category *domain.Category) error {
	cp := *category
	r.categories[category.ID] = &cp
	return nil
}

func (r *fakeCategoryRepo) Get(_ context.Context, id string) (*domain.Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, nil
	}
	cp := *category
	return &cp, nil
}

func (r *fakeCategoryRepo) List(_ context.Context) ([]*domain.Category, error) {
	result := make([]*domain.Category, 0, len(r.categories))
	for _, category := range r.categories {
		cp := *category
		result = append(result, &cp)
	}
	return result, nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, category *domain.Category) error {
	cp := *category
	r.categories[category.ID] = &cp
	return nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := r.categories[id]; !ok {
		return false, nil
	}
	delete(r.categories, id)
	return true, nil
}

func TestCreateCategoryAssignsID(t *testing.T) {
	svc := NewCategoryService(newFakeCategoryRepo())

	category, err := svc.Create(context.Background(), CreateCategoryCommand{Name: "books", Color: "#55879a", Icon: "book"})
	require.NoError(t, err)
	assert.NotEmpty(t, category.ID)
	assert.Equal(t, "books", category.Name)

	fetched, err := svc.Get(context.Background(), category.ID)
	require.NoError(t, err)
	assert.Equal(t, category.ID, fetched.ID)
}

func TestCreateCategoryRequiresName(t *testing.T) {
	svc := NewCategoryService(newFakeCategoryRepo())
	_, err := svc.Create(context.Background(), CreateCategoryCommand{Color: "#000"})
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestGetMissingCategoryIsNotFound(t *testing.T) {
	svc := NewCategoryService(newFakeCategoryRepo())
	_, err := svc.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateCategory(t *testing.T) {
	svc := NewCategoryService(newFakeCategoryRepo())
	category, err := svc.Create(context.Background(), CreateCategoryCommand{Name: "books"})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), UpdateCategoryCommand{ID: category.ID, Name: "ebooks", Color: "#fff"})
	require.NoError(t, err)
	assert.Equal(t, "ebooks", updated.Name)
	assert.Equal(t, "#fff", updated.Color)

	_, err = svc.Update(context.Background(), UpdateCategoryCommand{ID: "ghost", Name: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCategory(t *testing.T) {
	svc := NewCategoryService(newFakeCategoryRepo())
	category, err := svc.Create(context.Background(), CreateCategoryCommand{Name: "books"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), category.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), category.ID), ErrNotFound)
}
