package catalog

import (
	"context"
	"sort"
	"sync"
)

// Store persists dishes and ingredients. Dish reads always include the
// ingredient relation in its stored order.
type Store interface {
	ListDishes(ctx context.Context) ([]Dish, error)
	GetDish(ctx context.Context, id int64) (Dish, error)
	CreateDish(ctx context.Context, dish Dish) (Dish, error)
	UpdateDish(ctx context.Context, dish Dish) (Dish, error)
	DeleteDish(ctx context.Context, id int64) error
	SetDishImage(ctx context.Context, id int64, imageURL, thumbURL string) (Dish, error)

	ListIngredients(ctx context.Context) ([]Ingredient, error)
	GetIngredient(ctx context.Context, id int64) (Ingredient, error)
	CreateIngredient(ctx context.Context, ing Ingredient) (Ingredient, error)
	UpdateIngredient(ctx context.Context, ing Ingredient) (Ingredient, error)
	DeleteIngredient(ctx context.Context, id int64) error
	IngredientInUse(ctx context.Context, id int64) (bool, error)
}

type MemoryStore struct {
	mu               sync.RWMutex
	dishes           map[int64]Dish
	ingredients      map[int64]Ingredient
	nextDishID       int64
	nextIngredientID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		dishes:           make(map[int64]Dish),
		ingredients:      make(map[int64]Ingredient),
		nextDishID:       1,
		nextIngredientID: 1,
	}
}

func (s *MemoryStore) ListDishes(_ context.Context) ([]Dish, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Dish, 0, len(s.dishes))
	for _, d := range s.dishes {
		out = append(out, s.resolve(d))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetDish(_ context.Context, id int64) (Dish, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.dishes[id]
	if !ok {
		return Dish{}, notFound(ErrDishNotFound, "Dish not found")
	}
	return s.resolve(d), nil
}

// resolve refreshes ingredient rows so ingredient edits show up in dishes.
func (s *MemoryStore) resolve(d Dish) Dish {
	out := d.Clone()
	for i, ing := range out.Ingredients {
		if current, ok := s.ingredients[ing.ID]; ok {
			out.Ingredients[i] = current
		}
	}
	return out
}

func (s *MemoryStore) CreateDish(_ context.Context, dish Dish) (Dish, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dish.ID = s.nextDishID
	s.nextDishID++
	s.dishes[dish.ID] = dish.Clone()
	return s.resolve(dish), nil
}

func (s *MemoryStore) UpdateDish(_ context.Context, dish Dish) (Dish, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.dishes[dish.ID]; !ok {
		return Dish{}, notFound(ErrDishNotFound, "Dish not found")
	}
	s.dishes[dish.ID] = dish.Clone()
	return s.resolve(dish), nil
}

func (s *MemoryStore) DeleteDish(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.dishes[id]; !ok {
		return notFound(ErrDishNotFound, "Dish not found")
	}
	delete(s.dishes, id)
	return nil
}

func (s *MemoryStore) SetDishImage(_ context.Context, id int64, imageURL, thumbURL string) (Dish, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.dishes[id]
	if !ok {
		return Dish{}, notFound(ErrDishNotFound, "Dish not found")
	}
	d.ImageURL = &imageURL
	d.ImageThumbURL = &thumbURL
	s.dishes[id] = d.Clone()
	return s.resolve(d), nil
}

func (s *MemoryStore) ListIngredients(_ context.Context) ([]Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Ingredient, 0, len(s.ingredients))
	for _, ing := range s.ingredients {
		out = append(out, ing)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetIngredient(_ context.Context, id int64) (Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ing, ok := s.ingredients[id]
	if !ok {
		return Ingredient{}, notFound(ErrIngredientNotFound, "Ingredient not found")
	}
	return ing, nil
}

func (s *MemoryStore) CreateIngredient(_ context.Context, ing Ingredient) (Ingredient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ing.ID = s.nextIngredientID
	s.nextIngredientID++
	s.ingredients[ing.ID] = ing
	return ing, nil
}

func (s *MemoryStore) UpdateIngredient(_ context.Context, ing Ingredient) (Ingredient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ingredients[ing.ID]; !ok {
		return Ingredient{}, notFound(ErrIngredientNotFound, "Ingredient not found")
	}
	s.ingredients[ing.ID] = ing
	return ing, nil
}

func (s *MemoryStore) DeleteIngredient(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ingredients[id]; !ok {
		return notFound(ErrIngredientNotFound, "Ingredient not found")
	}
	delete(s.ingredients, id)
	return nil
}

func (s *MemoryStore) IngredientInUse(_ context.Context, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, d := range s.dishes {
		for _, ing := range d.Ingredients {
			if ing.ID == id {
				return true, nil
			}
		}
	}
	return false, nil
}
