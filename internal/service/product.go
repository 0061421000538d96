package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/oskarn/go-storefront/internal/cache"
	"github.com/oskarn/go-storefront/internal/dto"
	"github.com/oskarn/go-storefront/internal/model"
	"github.com/oskarn/go-storefront/internal/repository"
)

var ErrProductNotFound = errors.New("product not found")

const latestProductCount = 5

// ProductService is the read-through layer for the catalog: cached reads go
// through the in-process store and fall back to Postgres on a miss, repopulating
// the cache; every mutation persists first and then invalidates.
type ProductService struct {
	productRepo repository.ProductRepository
	cache       *cache.Store
}

func NewProductService(productRepo repository.ProductRepository, store *cache.Store) *ProductService {
	return &ProductService{productRepo: productRepo, cache: store}
}

func (s *ProductService) Latest(ctx context.Context) ([]dto.ProductResponse, error) {
	if cached, ok := s.cache.Get(cache.KeyLatestProducts); ok {
		var resp []dto.ProductResponse
		if json.Unmarshal(cached, &resp) == nil {
			return resp, nil
		}
	}

	products, err := s.productRepo.Latest(ctx, latestProductCount)
	if err != nil {
		return nil, fmt.Errorf("latest products: %w", err)
	}

	resp := toProductResponses(products)
	s.fill(cache.KeyLatestProducts, resp)
	return resp, nil
}

func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	if cached, ok := s.cache.Get(cache.KeyCategories); ok {
		var categories []string
		if json.Unmarshal(cached, &categories) == nil {
			return categories, nil
		}
	}

	categories, err := s.productRepo.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	s.fill(cache.KeyCategories, categories)
	return categories, nil
}

// AdminList is the unpaginated admin view, cached whole.
func (s *ProductService) AdminList(ctx context.Context) ([]dto.ProductResponse, error) {
	if cached, ok := s.cache.Get(cache.KeyAllProducts); ok {
		var resp []dto.ProductResponse
		if json.Unmarshal(cached, &resp) == nil {
			return resp, nil
		}
	}

	products, err := s.productRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	resp := toProductResponses(products)
	s.fill(cache.KeyAllProducts, resp)
	return resp, nil
}

// Search is deliberately uncached: the parameter space is unbounded, so
// caching would never hit and only grow the store.
func (s *ProductService) Search(ctx context.Context, req dto.SearchProductsRequest) (*dto.ProductListResponse, error) {
	products, total, err := s.productRepo.Search(ctx, repository.SearchParams{
		Search:   req.Search,
		Category: strings.ToLower(req.Category),
		MaxPrice: req.Price,
		Sort:     req.Sort,
		Page:     req.Page,
		Limit:    req.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}

	totalPage := (total + req.Limit - 1) / req.Limit
	return &dto.ProductListResponse{
		Products:  toProductResponses(products),
		TotalPage: totalPage,
		Page:      req.Page,
	}, nil
}

func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	key := cache.ProductKey(id)
	if cached, ok := s.cache.Get(key); ok {
		var resp dto.ProductResponse
		if json.Unmarshal(cached, &resp) == nil {
			return &resp, nil
		}
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	resp := toProductResponse(product)
	s.fill(key, resp)
	return &resp, nil
}

func (s *ProductService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	product := &model.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    strings.ToLower(req.Category),
		Photos:      req.Photos,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.cache.Invalidate(cache.Invalidation{Product: true, Admin: true, ProductIDs: []uuid.UUID{product.ID}})

	resp := toProductResponse(product)
	return &resp, nil
}

func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.Category != nil {
		product.Category = strings.ToLower(*req.Category)
	}
	if req.Photos != nil {
		product.Photos = req.Photos
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.cache.Invalidate(cache.Invalidation{Product: true, Admin: true, ProductIDs: []uuid.UUID{id}})

	resp := toProductResponse(product)
	return &resp, nil
}

func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	s.cache.Invalidate(cache.Invalidation{Product: true, Admin: true, ProductIDs: []uuid.UUID{id}})
	return nil
}

// fill writes a computed view into the cache; encoding failures are
// swallowed because the cache is a recomputable projection, never the
// source of truth.
func (s *ProductService) fill(key string, v any) {
	if data, err := json.Marshal(v); err == nil {
		s.cache.Set(key, data)
	}
}

func toProductResponse(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		Stock:        p.Stock,
		Category:     p.Category,
		Photos:       p.Photos,
		Ratings:      p.Ratings,
		NumOfReviews: p.NumOfReviews,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func toProductResponses(products []model.Product) []dto.ProductResponse {
	var resp []dto.ProductResponse
	for i := range products {
		resp = append(resp, toProductResponse(&products[i]))
	}
	return resp
}
