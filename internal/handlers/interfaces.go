package handlers

import (
	"context"

	"golang-food-storefront/internal/models"
	"golang-food-storefront/internal/services"
)

// CheckoutServiceInterface defines the contract for checkout service
type CheckoutServiceInterface interface {
	Checkout(ctx context.Context, sessionID string, req *services.CheckoutRequest) (*services.CheckoutResponse, error)
}

// MenuServiceInterface defines the contract for menu service
type MenuServiceInterface interface {
	ListMenu(ctx context.Context, limit, offset int) ([]models.Product, error)
	GetProduct(ctx context.Context, productID string) (*models.Product, error)
	Descriptor(ctx context.Context, productID string) (models.ProductDescriptor, error)
}
