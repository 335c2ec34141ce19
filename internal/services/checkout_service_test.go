package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang-food-storefront/internal/models"
	"golang-food-storefront/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderPublisher struct {
	events []*models.OrderPlacedEvent
	err    error
}

func (f *fakeOrderPublisher) PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func newCheckoutFixture(t *testing.T) (*CheckoutService, *CartSessions, *fakeOrderPublisher) {
	t.Helper()
	sessions := NewCartSessions(repositories.NewMemoryCartStore(), quietLogger())
	publisher := &fakeOrderPublisher{}
	svc := NewCheckoutService(sessions, publisher, quietLogger())
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return svc, sessions, publisher
}

func fillCart(t *testing.T, sessions *CartSessions, sessionID string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, sessions.WithCart(ctx, sessionID, func(cart *CartManager) error {
		if _, err := cart.AddItem(ctx, product("a", 50)); err != nil {
			return err
		}
		cart.IncreaseQuantity(ctx, "a")
		_, err := cart.AddItem(ctx, product("b", 30))
		return err
	}))
}

func validCheckout() *CheckoutRequest {
	return &CheckoutRequest{Name: "Asha", Phone: "9876543210", Address: "12 MG Road"}
}

func cartLen(t *testing.T, sessions *CartSessions, sessionID string) int {
	t.Helper()
	n := -1
	require.NoError(t, sessions.WithCart(context.Background(), sessionID, func(cart *CartManager) error {
		n = cart.Len()
		return nil
	}))
	return n
}

func TestCheckoutPublishesAndClears(t *testing.T) {
	svc, sessions, publisher := newCheckoutFixture(t)
	fillCart(t, sessions, "s1")

	resp, err := svc.Checkout(context.Background(), "s1", validCheckout())
	require.NoError(t, err)

	assert.Equal(t, 3, resp.ItemCount)
	assert.Equal(t, 130.0, resp.TotalPrice)
	assert.Equal(t, PaymentRazorpay, resp.PaymentMethod)
	assert.Equal(t, "placed", resp.Status)
	assert.NotEmpty(t, resp.OrderID)

	require.Len(t, publisher.events, 1)
	event := publisher.events[0]
	assert.Equal(t, OrderPlacedEventType, event.Type)
	assert.Equal(t, resp.OrderID, event.OrderID)
	assert.Equal(t, "s1", event.SessionID)
	assert.Equal(t, "Asha", event.Customer.Name)
	assert.Len(t, event.Items, 2)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), event.PlacedAt)

	assert.Equal(t, 0, cartLen(t, sessions, "s1"))
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc, _, publisher := newCheckoutFixture(t)

	_, err := svc.Checkout(context.Background(), "s1", validCheckout())
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, publisher.events)
}

func TestCheckoutPublishFailureKeepsCart(t *testing.T) {
	svc, sessions, publisher := newCheckoutFixture(t)
	publisher.err = errors.New("broker down")
	fillCart(t, sessions, "s1")

	_, err := svc.Checkout(context.Background(), "s1", validCheckout())
	require.Error(t, err)
	assert.ErrorIs(t, err, publisher.err)

	assert.Equal(t, 2, cartLen(t, sessions, "s1"))
}

func TestCheckoutValidation(t *testing.T) {
	svc, sessions, publisher := newCheckoutFixture(t)
	fillCart(t, sessions, "s1")

	cases := map[string]*CheckoutRequest{
		"blank name":      {Name: " ", Phone: "1", Address: "x"},
		"missing phone":   {Name: "a", Address: "x"},
		"missing address": {Name: "a", Phone: "1"},
		"unknown payment": {Name: "a", Phone: "1", Address: "x", PaymentMethod: "bitcoin"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Checkout(context.Background(), "s1", req)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}

	assert.Empty(t, publisher.events)
	assert.Equal(t, 2, cartLen(t, sessions, "s1"))
}

func TestCheckoutPaymentMethodNormalized(t *testing.T) {
	svc, sessions, publisher := newCheckoutFixture(t)
	fillCart(t, sessions, "s1")

	req := validCheckout()
	req.PaymentMethod = " COD "
	resp, err := svc.Checkout(context.Background(), "s1", req)
	require.NoError(t, err)

	assert.Equal(t, PaymentCOD, resp.PaymentMethod)
	assert.Equal(t, PaymentCOD, publisher.events[0].PaymentMethod)
}
