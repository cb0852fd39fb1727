package application

import (
	"context"
	"errors"
	"fmt"

	categorydomain "github.com/annaylee/estore-apis/internal/category/domain"
	"github.com/annaylee/estore-apis/internal/product/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// 错误定义
var (
	ErrNotFound        = errors.New("product not found")
	ErrInvalidCategory = errors.New("referenced category not found")
	ErrNegativePrice   = errors.New("price must be non-negative")
	ErrStockOutOfRange = fmt.Errorf("countInStock must be between 0 and %d", domain.MaxCountInStock)
	ErrMissingFields   = errors.New("name and description are required")
)

// CreateProductCommand 创建商品命令
type CreateProductCommand struct {
	Name            string
	Description     string
	RichDescription string
	Image           string
	Brand           string
	Price           decimal.Decimal
	CategoryID      string
	CountInStock    int
	Rating          float64
	NumReviews      int
	IsFeatured      bool
}

// UpdateProductCommand 更新商品命令
type UpdateProductCommand struct {
	ID              string
	Name            string
	Description     string
	RichDescription string
	Image           string
	Brand           string
	Price           decimal.Decimal
	CategoryID      string
	CountInStock    int
	Rating          float64
	NumReviews      int
	IsFeatured      bool
}

// ProductCommandService 处理商品相关的命令操作
type ProductCommandService struct {
	repo         domain.ProductRepository
	categoryRepo categorydomain.CategoryRepository
	cache        *ReadCache
}

// NewProductCommandService 创建新的 ProductCommandService 实例
func NewProductCommandService(repo domain.ProductRepository, categoryRepo categorydomain.CategoryRepository, cache *ReadCache) *ProductCommandService {
	return &ProductCommandService{repo: repo, categoryRepo: categoryRepo, cache: cache}
}

// Create 创建商品
func (s *ProductCommandService) Create(ctx context.Context, cmd CreateProductCommand) (*domain.Product, error) {
	if err := validateProductFields(cmd.Name, cmd.Description, cmd.Price, cmd.CountInStock); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.Get(ctx, cmd.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrInvalidCategory
	}

	product := &domain.Product{
		ID:              uuid.New().String(),
		Name:            cmd.Name,
		Description:     cmd.Description,
		RichDescription: cmd.RichDescription,
		Image:           cmd.Image,
		Brand:           cmd.Brand,
		Price:           cmd.Price,
		CategoryID:      cmd.CategoryID,
		CountInStock:    cmd.CountInStock,
		Rating:          cmd.Rating,
		NumReviews:      cmd.NumReviews,
		IsFeatured:      cmd.IsFeatured,
	}
	if err := s.repo.Save(ctx, product); err != nil {
		return nil, err
	}
	product.Category = category
	return product, nil
}

// Update 更新商品
func (s *ProductCommandService) Update(ctx context.Context, cmd UpdateProductCommand) (*domain.Product, error) {
	if err := validateProductFields(cmd.Name, cmd.Description, cmd.Price, cmd.CountInStock); err != nil {
		return nil, err
	}

	product, err := s.repo.Get(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}

	category, err := s.categoryRepo.Get(ctx, cmd.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrInvalidCategory
	}

	product.Name = cmd.Name
	product.Description = cmd.Description
	product.RichDescription = cmd.RichDescription
	if cmd.Image != "" {
		product.Image = cmd.Image
	}
	product.Brand = cmd.Brand
	product.Price = cmd.Price
	product.CategoryID = cmd.CategoryID
	product.Category = category
	product.CountInStock = cmd.CountInStock
	product.Rating = cmd.Rating
	product.NumReviews = cmd.NumReviews
	product.IsFeatured = cmd.IsFeatured

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	s.invalidate(ctx, product.ID)
	return product, nil
}

// SetImage 更新商品主图 URI
func (s *ProductCommandService) SetImage(ctx context.Context, id, imageURI string) (*domain.Product, error) {
	product, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}

	product.Image = imageURI
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return product, nil
}

// SetGallery 替换商品图集 URI 列表，保持调用方给出的顺序
func (s *ProductCommandService) SetGallery(ctx context.Context, id string, imageURIs []string) (*domain.Product, error) {
	product, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}

	product.Images = imageURIs
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return product, nil
}

// Delete 删除商品
func (s *ProductCommandService) Delete(ctx context.Context, id string) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *ProductCommandService) invalidate(ctx context.Context, id string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, id)
	}
}

func validateProductFields(name, description string, price decimal.Decimal, countInStock int) error {
	if name == "" || description == "" {
		return ErrMissingFields
	}
	if price.IsNegative() {
		return ErrNegativePrice
	}
	if countInStock < 0 || countInStock > domain.MaxCountInStock {
		return ErrStockOutOfRange
	}
	return nil
}
