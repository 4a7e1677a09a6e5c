package delivery

// SampleOrders is the queue the board starts with after every restart.
func SampleOrders() []Order {
	return []Order{
		{
			ID:     1,
			Status: StatusReady,
			Address: Address{
				Street:         "Ulica Włoska",
				BuildingNumber: "15",
				City:           "Kraków",
				PostalCode:     "30-001",
				Floor:          "2",
				Notes:          "Proszę zadzwonić przed dostawą.",
			},
			Client: Client{FirstName: "Jan", LastName: "Kowalski", Phone: "123-456-789"},
			Items:  []Item{{Name: "Pizza Margherita", Quantity: 1}, {Name: "Lasagna", Quantity: 1}},
		},
		{
			ID:     2,
			Status: StatusReady,
			Address: Address{
				Street:         "Via Italia",
				BuildingNumber: "8",
				City:           "Warszawa",
				PostalCode:     "00-001",
				Floor:          "4",
			},
			Client: Client{FirstName: "Anna", LastName: "Nowak", Phone: "987-654-321"},
			Items:  []Item{{Name: "Spaghetti Bolognese", Quantity: 2}},
		},
	}
}
