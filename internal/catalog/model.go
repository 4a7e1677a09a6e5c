package catalog

import "strings"

type Metric string

const (
	MetricGrams       Metric = "grams"
	MetricMilliliters Metric = "milliliters"
)

func ParseMetric(value string) (Metric, bool) {
	switch Metric(strings.ToLower(strings.TrimSpace(value))) {
	case MetricGrams:
		return MetricGrams, true
	case MetricMilliliters:
		return MetricMilliliters, true
	default:
		return "", false
	}
}

type Ingredient struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Amount int    `json:"amount"`
	Metric Metric `json:"metric"`
}

type Dish struct {
	ID            int64        `json:"id"`
	Name          string       `json:"name"`
	Description   *string      `json:"description"`
	Price         float64      `json:"price"`
	Discount      *float64     `json:"discount"`
	ImageURL      *string      `json:"imageUrl,omitempty"`
	ImageThumbURL *string      `json:"imageThumbUrl,omitempty"`
	Ingredients   []Ingredient `json:"ingredients"`
}

// Summary drops the ingredient relation, matching the plain dish listing.
func (d Dish) Summary() DishSummary {
	return DishSummary{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		Discount:    d.Discount,
		ImageURL:    d.ImageURL,
	}
}

// Clone returns a deep copy so callers cannot mutate stored dishes.
func (d Dish) Clone() Dish {
	out := d
	if d.Description != nil {
		v := *d.Description
		out.Description = &v
	}
	if d.Discount != nil {
		v := *d.Discount
		out.Discount = &v
	}
	if d.ImageURL != nil {
		v := *d.ImageURL
		out.ImageURL = &v
	}
	if d.ImageThumbURL != nil {
		v := *d.ImageThumbURL
		out.ImageThumbURL = &v
	}
	out.Ingredients = append([]Ingredient(nil), d.Ingredients...)
	if out.Ingredients == nil {
		out.Ingredients = []Ingredient{}
	}
	return out
}

type DishSummary struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Price       float64  `json:"price"`
	Discount    *float64 `json:"discount"`
	ImageURL    *string  `json:"imageUrl,omitempty"`
}

type DishInput struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price"`
	Discount      *float64 `json:"discount"`
	IngredientIDs []int64  `json:"ingredient_ids"`
}

type IngredientInput struct {
	Name   *string `json:"name"`
	Amount *int    `json:"amount"`
	Metric *string `json:"metric"`
}
