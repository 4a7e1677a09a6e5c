package catalog

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"
)

// Service applies catalog validation on top of a Store.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Store() Store {
	return s.store
}

func (s *Service) ListDishes(ctx context.Context) ([]Dish, error) {
	return s.store.ListDishes(ctx)
}

// AllWithRelations is the menu feed; an empty catalog is reported as an error.
func (s *Service) AllWithRelations(ctx context.Context) ([]Dish, error) {
	dishes, err := s.store.ListDishes(ctx)
	if err != nil {
		return nil, err
	}
	if len(dishes) == 0 {
		return nil, notFound(ErrNoDishes, "No dishes found")
	}
	return dishes, nil
}

func (s *Service) GetDish(ctx context.Context, id int64) (Dish, error) {
	return s.store.GetDish(ctx, id)
}

func (s *Service) CreateDish(ctx context.Context, in DishInput) (Dish, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return Dish{}, invalid(ErrValidation, "Dish name is required")
	}
	if in.Price == nil {
		return Dish{}, invalid(ErrValidation, "Dish price is required")
	}
	if in.IngredientIDs == nil {
		return Dish{}, invalid(ErrValidation, "Ingredient IDs are required")
	}

	dish := Dish{}
	if err := applyDishInput(&dish, in); err != nil {
		return Dish{}, err
	}
	ings, err := s.resolveIngredients(ctx, in.IngredientIDs)
	if err != nil {
		return Dish{}, err
	}
	dish.Ingredients = ings
	return s.store.CreateDish(ctx, dish)
}

// UpdateDish applies only the fields present in the input.
func (s *Service) UpdateDish(ctx context.Context, id int64, in DishInput) (Dish, error) {
	dish, err := s.store.GetDish(ctx, id)
	if err != nil {
		return Dish{}, err
	}
	if err := applyDishInput(&dish, in); err != nil {
		return Dish{}, err
	}
	if len(in.IngredientIDs) > 0 {
		ings, err := s.resolveIngredients(ctx, in.IngredientIDs)
		if err != nil {
			return Dish{}, err
		}
		dish.Ingredients = ings
	}
	return s.store.UpdateDish(ctx, dish)
}

func (s *Service) DeleteDish(ctx context.Context, id int64) error {
	return s.store.DeleteDish(ctx, id)
}

func (s *Service) SetDishImage(ctx context.Context, id int64, imageURL, thumbURL string) (Dish, error) {
	return s.store.SetDishImage(ctx, id, imageURL, thumbURL)
}

func applyDishInput(dish *Dish, in DishInput) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return invalid(ErrValidation, "Dish name is required")
		}
		dish.Name = name
	}
	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		dish.Description = &desc
	}
	if in.Price != nil {
		if *in.Price < 0 || math.IsNaN(*in.Price) || math.IsInf(*in.Price, 0) {
			return invalid(ErrValidation, "Dish price must be a non-negative number")
		}
		dish.Price = *in.Price
	}
	if in.Discount != nil {
		if *in.Discount < 0 || math.IsNaN(*in.Discount) {
			return invalid(ErrValidation, "Dish discount must be a non-negative number")
		}
		discount := *in.Discount
		dish.Discount = &discount
	}
	return nil
}

func (s *Service) resolveIngredients(ctx context.Context, ids []int64) ([]Ingredient, error) {
	seen := make(map[int64]bool, len(ids))
	out := make([]Ingredient, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, invalid(ErrInvalidIngredients, "One or more Ingredient IDs are invalid")
		}
		seen[id] = true
		ing, err := s.store.GetIngredient(ctx, id)
		if err != nil {
			if IsNotFound(err) {
				return nil, invalid(ErrInvalidIngredients, "One or more Ingredient IDs are invalid")
			}
			return nil, err
		}
		out = append(out, ing)
	}
	if len(out) < minIngredientsPerDish {
		return nil, invalid(ErrTooFewIngredients, fmt.Sprintf("A dish must have at least %d ingredients", minIngredientsPerDish))
	}
	return out, nil
}

func (s *Service) ListIngredients(ctx context.Context) ([]Ingredient, error) {
	return s.store.ListIngredients(ctx)
}

func (s *Service) GetIngredient(ctx context.Context, id int64) (Ingredient, error) {
	return s.store.GetIngredient(ctx, id)
}

func (s *Service) CreateIngredient(ctx context.Context, in IngredientInput) (Ingredient, error) {
	if in.Name == nil || in.Amount == nil || in.Metric == nil {
		return Ingredient{}, invalid(ErrValidation, "Name, amount and metric are required")
	}
	ing := Ingredient{}
	if err := applyIngredientInput(&ing, in); err != nil {
		return Ingredient{}, err
	}
	return s.store.CreateIngredient(ctx, ing)
}

func (s *Service) UpdateIngredient(ctx context.Context, id int64, in IngredientInput) (Ingredient, error) {
	ing, err := s.store.GetIngredient(ctx, id)
	if err != nil {
		return Ingredient{}, err
	}
	if err := applyIngredientInput(&ing, in); err != nil {
		return Ingredient{}, err
	}
	return s.store.UpdateIngredient(ctx, ing)
}

// DeleteIngredient refuses to remove ingredients still referenced by a dish,
// since that could leave the dish below the ingredient minimum.
func (s *Service) DeleteIngredient(ctx context.Context, id int64) error {
	if _, err := s.store.GetIngredient(ctx, id); err != nil {
		return err
	}
	used, err := s.store.IngredientInUse(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return newError(ErrIngredientInUse, "Ingredient is used by at least one dish", http.StatusConflict)
	}
	return s.store.DeleteIngredient(ctx, id)
}

func applyIngredientInput(ing *Ingredient, in IngredientInput) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return invalid(ErrValidation, "Ingredient name is required")
		}
		ing.Name = name
	}
	if in.Amount != nil {
		if *in.Amount < 0 {
			return invalid(ErrValidation, "Ingredient amount must be non-negative")
		}
		ing.Amount = *in.Amount
	}
	if in.Metric != nil {
		metric, ok := ParseMetric(*in.Metric)
		if !ok {
			return invalid(ErrValidation, "Metric must be grams or milliliters")
		}
		ing.Metric = metric
	}
	return nil
}
