package kitchen

// SampleOrders is the queue the board starts with after every restart.
func SampleOrders() []Order {
	return []Order{
		{ID: 1, Status: StatusPlaced, Dishes: []Dish{{Name: "Pizza Margherita", Quantity: 1}, {Name: "Lasagna", Quantity: 2}}},
		{ID: 2, Status: StatusNew, Dishes: []Dish{{Name: "Pizza Capriciosa", Quantity: 1}, {Name: "Spaghetti Bolognese", Quantity: 1}}},
		{ID: 3, Status: StatusReady, Dishes: []Dish{{Name: "Ravioli", Quantity: 3}, {Name: "Tiramisu", Quantity: 1}}},
		{ID: 4, Status: StatusPlaced, Dishes: []Dish{{Name: "Pizza Pepperoni", Quantity: 1}, {Name: "Cannoli", Quantity: 1}}},
	}
}
