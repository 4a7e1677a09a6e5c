package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Source supplies the dish list the menu is built from.
type Source interface {
	FetchDishes(ctx context.Context) ([]Dish, error)
}

type StoreSource struct {
	Store Store
}

func (s StoreSource) FetchDishes(ctx context.Context) ([]Dish, error) {
	return s.Store.ListDishes(ctx)
}

// RemoteSource reads the all-with-relations feed of another catalog service.
type RemoteSource struct {
	URL    string
	Client *http.Client
}

func NewRemoteSource(url string, timeout time.Duration) *RemoteSource {
	return &RemoteSource{URL: strings.TrimSpace(url), Client: &http.Client{Timeout: timeout}}
}

func (s *RemoteSource) FetchDishes(ctx context.Context) ([]Dish, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog fetch: unexpected status %d", resp.StatusCode)
	}
	return decodeDishFeed(body)
}

// decodeDishFeed accepts either a bare JSON array or the {"success","data"}
// envelope served by this service.
func decodeDishFeed(body []byte) ([]Dish, error) {
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "[") {
		var dishes []Dish
		if err := json.Unmarshal(body, &dishes); err != nil {
			return nil, err
		}
		return dishes, nil
	}
	var envelope struct {
		Success bool   `json:"success"`
		Data    []Dish `json:"data"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, err
	}
	if !envelope.Success {
		return nil, fmt.Errorf("catalog fetch: %s", envelope.Message)
	}
	return envelope.Data, nil
}

// Menu is the read-only dish snapshot customers browse and add to carts from.
type Menu struct {
	source Source
	logger *zap.Logger

	mu       sync.RWMutex
	dishes   []Dish
	byID     map[int64]Dish
	loadedAt time.Time
}

func NewMenu(source Source, logger *zap.Logger) *Menu {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Menu{source: source, logger: logger, dishes: []Dish{}, byID: map[int64]Dish{}}
}

// Load replaces the snapshot. On failure the error is logged and the previous
// snapshot (empty on first load) is kept.
func (m *Menu) Load(ctx context.Context) error {
	dishes, err := m.source.FetchDishes(ctx)
	if err != nil {
		m.logger.Error("menu load failed", zap.Error(err))
		return err
	}

	byID := make(map[int64]Dish, len(dishes))
	snapshot := make([]Dish, 0, len(dishes))
	for _, d := range dishes {
		c := d.Clone()
		snapshot = append(snapshot, c)
		byID[c.ID] = c
	}

	m.mu.Lock()
	m.dishes = snapshot
	m.byID = byID
	m.loadedAt = time.Now()
	m.mu.Unlock()

	m.logger.Info("menu loaded", zap.Int("dishes", len(snapshot)))
	return nil
}

func (m *Menu) Dishes() []Dish {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Dish, 0, len(m.dishes))
	for _, d := range m.dishes {
		out = append(out, d.Clone())
	}
	return out
}

func (m *Menu) Dish(id int64) (Dish, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.byID[id]
	if !ok {
		return Dish{}, false
	}
	return d.Clone(), true
}

func (m *Menu) LoadedAt() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loadedAt
}
