package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"trattoria-order-service/internal/catalog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Item is a dish placed in the cart. It serializes as the dish object plus
// a uniqueId field.
type Item struct {
	catalog.Dish
	UniqueID string `json:"uniqueId"`
}

type Service struct {
	storage Storage
	logger  *zap.Logger

	// guards read-modify-write cycles on a session's cart
	mu sync.Mutex
}

func NewService(storage Storage, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{storage: storage, logger: logger}
}

// Items returns the session's cart. Unreadable or undecodable payloads are
// logged and treated as an empty cart.
func (s *Service) Items(ctx context.Context, session string) []Item {
	raw, err := s.storage.Get(ctx, session, StorageKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("cart read failed", zap.String("session", session), zap.Error(err))
		}
		return []Item{}
	}

	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		s.logger.Warn("cart payload undecodable", zap.String("session", session), zap.Error(err))
		return []Item{}
	}
	if items == nil {
		items = []Item{}
	}
	return items
}

// Add appends a copy of dish under a fresh unique id.
func (s *Service) Add(ctx context.Context, session string, dish catalog.Dish) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := Item{Dish: dish.Clone(), UniqueID: uuid.NewString()}
	items := append(s.Items(ctx, session), item)
	if err := s.save(ctx, session, items); err != nil {
		return Item{}, err
	}
	return item, nil
}

// Remove drops the item with uniqueID. Other items, including duplicates of
// the same dish, are kept.
func (s *Service) Remove(ctx context.Context, session, uniqueID string) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.Items(ctx, session)
	kept := make([]Item, 0, len(current))
	for _, item := range current {
		if item.UniqueID != uniqueID {
			kept = append(kept, item)
		}
	}
	if err := s.save(ctx, session, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

func (s *Service) Clear(ctx context.Context, session string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storage.Delete(ctx, session, StorageKey)
}

func (s *Service) save(ctx context.Context, session string, items []Item) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.storage.Set(ctx, session, StorageKey, payload)
}

// Total sums item prices without rounding.
func Total(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(decimal.NewFromFloat(item.Price))
	}
	return total
}
