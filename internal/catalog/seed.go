package catalog

import "context"

type seedIngredient struct {
	name   string
	amount int
	metric Metric
}

type seedDish struct {
	name        string
	description string
	price       float64
	ingredients []string
}

var sampleIngredients = []seedIngredient{
	{"Mozzarella", 125, MetricGrams},
	{"Tomato sauce", 80, MetricMilliliters},
	{"Basil", 5, MetricGrams},
	{"Pasta sheets", 200, MetricGrams},
	{"Beef ragù", 150, MetricGrams},
	{"Béchamel", 100, MetricMilliliters},
	{"Spaghetti", 180, MetricGrams},
	{"Ham", 60, MetricGrams},
	{"Mushrooms", 50, MetricGrams},
	{"Pepperoni", 70, MetricGrams},
	{"Ricotta", 90, MetricGrams},
	{"Mascarpone", 120, MetricGrams},
	{"Espresso", 40, MetricMilliliters},
	{"Ladyfingers", 60, MetricGrams},
	{"Cannoli shells", 50, MetricGrams},
}

var sampleDishes = []seedDish{
	{"Pizza Margherita", "Tomato, mozzarella and fresh basil.", 32.00, []string{"Tomato sauce", "Mozzarella", "Basil"}},
	{"Pizza Capriciosa", "Tomato, mozzarella, ham and mushrooms.", 38.50, []string{"Tomato sauce", "Mozzarella", "Ham", "Mushrooms"}},
	{"Pizza Pepperoni", "Tomato, mozzarella and spicy pepperoni.", 39.90, []string{"Tomato sauce", "Mozzarella", "Pepperoni"}},
	{"Lasagna", "Layered pasta with ragù and béchamel.", 42.00, []string{"Pasta sheets", "Beef ragù", "Béchamel"}},
	{"Spaghetti Bolognese", "Spaghetti with slow-cooked beef ragù.", 36.00, []string{"Spaghetti", "Beef ragù"}},
	{"Ravioli", "Ricotta ravioli in tomato sauce.", 34.00, []string{"Pasta sheets", "Ricotta", "Tomato sauce"}},
	{"Tiramisu", "Mascarpone cream with espresso-soaked ladyfingers.", 22.00, []string{"Mascarpone", "Espresso", "Ladyfingers"}},
	{"Cannoli", "Crisp shells filled with sweet ricotta.", 18.00, []string{"Cannoli shells", "Ricotta"}},
}

// Seed fills an empty store with the sample Italian menu. Non-empty stores are
// left untouched.
func Seed(ctx context.Context, store Store) error {
	existing, err := store.ListDishes(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	byName := make(map[string]Ingredient, len(sampleIngredients))
	for _, si := range sampleIngredients {
		ing, err := store.CreateIngredient(ctx, Ingredient{Name: si.name, Amount: si.amount, Metric: si.metric})
		if err != nil {
			return err
		}
		byName[si.name] = ing
	}

	for _, sd := range sampleDishes {
		desc := sd.description
		dish := Dish{Name: sd.name, Description: &desc, Price: sd.price}
		for _, name := range sd.ingredients {
			dish.Ingredients = append(dish.Ingredients, byName[name])
		}
		if _, err := store.CreateDish(ctx, dish); err != nil {
			return err
		}
	}
	return nil
}
