package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang-food-storefront/internal/models"
	"golang-food-storefront/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// DefaultCartKey is the store key of a cart that is not tied to a session.
const DefaultCartKey = "cart"

// MaxQuantity caps a single line item. Totals stay far from int overflow
// for any cart that fits in memory.
const MaxQuantity = 1_000_000

// ErrInvalidArgument is returned when a caller breaks an input contract.
var ErrInvalidArgument = errors.New("invalid argument")

var productValidator = validator.New()

// CartManager owns one cart and mirrors it to a CartStore after every change.
// It does no locking: a manager belongs to a single session and the caller
// serializes access (see CartSessions).
type CartManager struct {
	store repositories.CartStore
	key   string
	log   logrus.FieldLogger
	items []models.LineItem
}

func NewCartManager(store repositories.CartStore, key string, log logrus.FieldLogger) *CartManager {
	if key == "" {
		key = DefaultCartKey
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CartManager{
		store: store,
		key:   key,
		log:   log.WithField("cart_key", key),
	}
}

// Load replaces the in-memory cart with the persisted one. Anything that
// cannot be trusted (missing key, bad JSON, invalid items) yields an empty cart.
func (m *CartManager) Load(ctx context.Context) {
	m.items = nil

	data, err := m.store.Get(ctx, m.key)
	if errors.Is(err, repositories.ErrNotFound) {
		return
	}
	if err != nil {
		m.log.WithError(err).Warn("could not read saved cart, starting empty")
		return
	}

	items, err := decodeCart(data)
	if err != nil {
		m.log.WithError(err).Warn("discarding malformed saved cart")
		return
	}
	m.items = items
}

func decodeCart(data []byte) ([]models.LineItem, error) {
	var items []models.LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		switch {
		case strings.TrimSpace(item.ID) == "":
			return nil, fmt.Errorf("item %d: empty id", i)
		case item.Quantity < 1:
			return nil, fmt.Errorf("item %s: quantity %d", item.ID, item.Quantity)
		case !(item.Price >= 0):
			return nil, fmt.Errorf("item %s: price %v", item.ID, item.Price)
		}
		if item.Quantity > MaxQuantity {
			items[i].Quantity = MaxQuantity
		}
		if _, dup := seen[item.ID]; dup {
			return nil, fmt.Errorf("item %s: duplicate id", item.ID)
		}
		seen[item.ID] = struct{}{}
	}
	return items, nil
}

func (m *CartManager) persist(ctx context.Context) {
	items := m.items
	if items == nil {
		items = []models.LineItem{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		m.log.WithError(err).Error("failed to encode cart")
		return
	}
	if err := m.store.Set(ctx, m.key, data); err != nil {
		m.log.WithError(err).Error("failed to persist cart")
	}
}

func (m *CartManager) index(id string) int {
	for i := range m.items {
		if m.items[i].ID == id {
			return i
		}
	}
	return -1
}

// AddItem puts one unit of p into the cart. A product already in the cart
// only gets its quantity bumped; its name, price and image are kept. At
// MaxQuantity the cart is left as is and false is returned.
func (m *CartManager) AddItem(ctx context.Context, p models.ProductDescriptor) (bool, error) {
	if err := productValidator.Struct(p); err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if strings.TrimSpace(p.ID) == "" {
		return false, fmt.Errorf("%w: blank product id", ErrInvalidArgument)
	}

	if i := m.index(p.ID); i >= 0 {
		if m.items[i].Quantity >= MaxQuantity {
			return false, nil
		}
		m.items[i].Quantity++
	} else {
		m.items = append(m.items, models.LineItem{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Image:    p.Image,
			Quantity: 1,
		})
	}

	m.persist(ctx)
	return true, nil
}

func (m *CartManager) RemoveItem(ctx context.Context, id string) bool {
	i := m.index(id)
	if i < 0 {
		return false
	}

	m.items = append(m.items[:i], m.items[i+1:]...)
	m.persist(ctx)
	return true
}

func (m *CartManager) IncreaseQuantity(ctx context.Context, id string) bool {
	i := m.index(id)
	if i < 0 || m.items[i].Quantity >= MaxQuantity {
		return false
	}

	m.items[i].Quantity++
	m.persist(ctx)
	return true
}

// DecreaseQuantity never goes below 1. Use RemoveItem to drop the item.
func (m *CartManager) DecreaseQuantity(ctx context.Context, id string) bool {
	i := m.index(id)
	if i < 0 || m.items[i].Quantity <= 1 {
		return false
	}

	m.items[i].Quantity--
	m.persist(ctx)
	return true
}

// SetQuantity sets the quantity of id, clamped to [1, MaxQuantity].
// Returns false when id is unknown or the quantity is already q.
func (m *CartManager) SetQuantity(ctx context.Context, id string, quantity int) bool {
	quantity = clampQuantity(quantity)

	i := m.index(id)
	if i < 0 || m.items[i].Quantity == quantity {
		return false
	}

	m.items[i].Quantity = quantity
	m.persist(ctx)
	return true
}

// ClearCart empties the cart. The empty cart is always written back.
func (m *CartManager) ClearCart(ctx context.Context) {
	m.items = nil
	m.persist(ctx)
}

// Items returns a copy of the line items in insertion order.
func (m *CartManager) Items() []models.LineItem {
	out := make([]models.LineItem, len(m.items))
	copy(out, m.items)
	return out
}

func (m *CartManager) Len() int {
	return len(m.items)
}

func (m *CartManager) Totals() models.CartTotals {
	var totals models.CartTotals
	for _, item := range m.items {
		totals.ItemCount += item.Quantity
		totals.TotalPrice += item.Price * float64(item.Quantity)
	}
	return totals
}

func (m *CartManager) View() models.CartView {
	return models.CartView{
		Items:  m.Items(),
		Totals: m.Totals(),
	}
}

func clampQuantity(q int) int {
	switch {
	case q < 1:
		return 1
	case q > MaxQuantity:
		return MaxQuantity
	}
	return q
}

// ParseQuantity turns raw user input into a quantity. Only the leading
// digits count, so "2.9" is 2 and "3abc" is 3; input without leading digits
// or below 1 becomes 1, and huge values stop at MaxQuantity.
func ParseQuantity(raw string) int {
	s := strings.TrimSpace(raw)

	negative := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		negative = s[0] == '-'
		s = s[1:]
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 || negative {
		return 1
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// only a range error is possible here
		return MaxQuantity
	}
	return clampQuantity(n)
}
