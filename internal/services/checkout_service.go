package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang-food-storefront/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrEmptyCart = errors.New("cart is empty")

const (
	PaymentRazorpay = "razorpay"
	PaymentUPI      = "upi"
	PaymentCOD      = "cod"

	OrderPlacedEventType = "order_placed"
)

// OrderPublisher submits a placed order to the backend.
type OrderPublisher interface {
	PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error
}

type CheckoutRequest struct {
	Name          string `json:"name" binding:"required"`
	Phone         string `json:"phone" binding:"required"`
	Address       string `json:"address" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"omitempty,oneof=razorpay upi cod"`
}

type CheckoutResponse struct {
	OrderID       string  `json:"order_id"`
	ItemCount     int     `json:"item_count"`
	TotalPrice    float64 `json:"total_price"`
	PaymentMethod string  `json:"payment_method"`
	Status        string  `json:"status"`
}

type CheckoutService struct {
	sessions  *CartSessions
	publisher OrderPublisher
	log       logrus.FieldLogger
	now       func() time.Time
}

func NewCheckoutService(sessions *CartSessions, publisher OrderPublisher, log logrus.FieldLogger) *CheckoutService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CheckoutService{
		sessions:  sessions,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

func normalizeCheckout(req *CheckoutRequest) (models.Customer, string, error) {
	customer := models.Customer{
		Name:    strings.TrimSpace(req.Name),
		Phone:   strings.TrimSpace(req.Phone),
		Address: strings.TrimSpace(req.Address),
	}
	if customer.Name == "" || customer.Phone == "" || customer.Address == "" {
		return customer, "", fmt.Errorf("%w: name, phone and address are required", ErrInvalidArgument)
	}

	method := strings.ToLower(strings.TrimSpace(req.PaymentMethod))
	switch method {
	case "":
		method = PaymentRazorpay
	case PaymentRazorpay, PaymentUPI, PaymentCOD:
	default:
		return customer, "", fmt.Errorf("%w: unsupported payment method %q", ErrInvalidArgument, req.PaymentMethod)
	}
	return customer, method, nil
}

// Checkout submits the session's cart as an order and clears the cart once
// the order has been accepted. On any failure the cart is left as it was.
func (s *CheckoutService) Checkout(ctx context.Context, sessionID string, req *CheckoutRequest) (*CheckoutResponse, error) {
	customer, method, err := normalizeCheckout(req)
	if err != nil {
		return nil, err
	}

	var response *CheckoutResponse
	err = s.sessions.WithCart(ctx, sessionID, func(cart *CartManager) error {
		if cart.Len() == 0 {
			return ErrEmptyCart
		}

		totals := cart.Totals()
		event := &models.OrderPlacedEvent{
			Type:          OrderPlacedEventType,
			OrderID:       uuid.NewString(),
			SessionID:     sessionID,
			Customer:      customer,
			PaymentMethod: method,
			Items:         cart.Items(),
			ItemCount:     totals.ItemCount,
			TotalPrice:    totals.TotalPrice,
			PlacedAt:      s.now().UTC(),
		}

		if err := s.publisher.PublishOrderPlaced(ctx, event); err != nil {
			return fmt.Errorf("submit order: %w", err)
		}

		cart.ClearCart(ctx)

		response = &CheckoutResponse{
			OrderID:       event.OrderID,
			ItemCount:     totals.ItemCount,
			TotalPrice:    totals.TotalPrice,
			PaymentMethod: method,
			Status:        "placed",
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"session_id": sessionID,
		"order_id":   response.OrderID,
		"total":      response.TotalPrice,
	}).Info("order placed")

	return response, nil
}
