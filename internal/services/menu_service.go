package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang-food-storefront/internal/models"
	"golang-food-storefront/internal/repositories"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrProductUnavailable = errors.New("product is unavailable")
)

const (
	defaultMenuLimit = 50
	maxMenuLimit     = 100

	menuCacheTTL    = 5 * time.Minute
	productCacheTTL = 10 * time.Minute
)

// Cache is the subset of pkg/cache.RedisCache the menu needs.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

type MenuService struct {
	productRepo repositories.ProductRepository
	cache       Cache
	log         logrus.FieldLogger
}

// NewMenuService builds the menu service. cache may be nil.
func NewMenuService(productRepo repositories.ProductRepository, cache Cache, log logrus.FieldLogger) *MenuService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &MenuService{
		productRepo: productRepo,
		cache:       cache,
		log:         log,
	}
}

func (s *MenuService) ListMenu(ctx context.Context, limit, offset int) ([]models.Product, error) {
	if limit <= 0 {
		limit = defaultMenuLimit
	}
	if limit > maxMenuLimit {
		limit = maxMenuLimit
	}
	if offset < 0 {
		offset = 0
	}

	cacheKey := fmt.Sprintf("menu:%d:%d", limit, offset)
	if s.cache != nil {
		var cached []models.Product
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	products, err := s.productRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if products == nil {
		products = []models.Product{}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, products, menuCacheTTL); err != nil {
			s.log.WithError(err).Warn("failed to cache menu")
		}
	}
	return products, nil
}

func (s *MenuService) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	id, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, ErrProductNotFound
	}

	cacheKey := "product:" + productID
	if s.cache != nil {
		var cached models.Product
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, product, productCacheTTL); err != nil {
			s.log.WithError(err).Warn("failed to cache product")
		}
	}
	return product, nil
}

// Descriptor returns what the cart needs to add productID. Products that are
// switched off on the menu cannot be added.
func (s *MenuService) Descriptor(ctx context.Context, productID string) (models.ProductDescriptor, error) {
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return models.ProductDescriptor{}, err
	}
	if !product.IsAvailable {
		return models.ProductDescriptor{}, ErrProductUnavailable
	}

	var image string
	if len(product.ImageUrls) > 0 {
		image = product.ImageUrls[0]
	}

	return models.ProductDescriptor{
		ID:    product.ID.Hex(),
		Name:  product.Name,
		Price: product.EffectivePrice(),
		Image: image,
	}, nil
}
