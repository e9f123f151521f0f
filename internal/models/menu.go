package models

// Size - вариант размера позиции меню (модификатор прибавляется к базовой цене)
type Size struct {
	Name          string  `json:"name"`
	PriceModifier float64 `json:"priceModifier"`
}

// Topping - добавка к позиции меню (цена прибавляется к базовой)
type Topping struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Category - категория меню для витрины
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// MenuItem - позиция каталога. Справочные данные: создаются при сборке,
// в рантайме ядром никогда не изменяются.
type MenuItem struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"` // базовая цена в рупиях
	Category     string    `json:"category"`
	Image        string    `json:"image,omitempty"`
	Customizable bool      `json:"customizable,omitempty"`
	Sizes        []Size    `json:"sizes,omitempty"`
	Toppings     []Topping `json:"toppings,omitempty"`
}

// Категории витрины
var Categories = []Category{
	{ID: "deals", Name: "Deal Boxes", Icon: "🔥"},
	{ID: "pizzas", Name: "Pizzas", Icon: "🍕"},
	{ID: "burgers", Name: "Burgers", Icon: "🍔"},
	{ID: "shawarma", Name: "Shawarma & Rolls", Icon: "🌯"},
	{ID: "pasta", Name: "Pasta", Icon: "🍝"},
	{ID: "fried-items", Name: "Fried Items", Icon: "🍗"},
	{ID: "fries", Name: "Fries", Icon: "🍟"},
}

// Размеры пицц (общие для всех кастомизируемых пицц)
var PizzaSizes = []Size{
	{Name: "Small", PriceModifier: 0},
	{Name: "Medium", PriceModifier: 840},
	{Name: "Large", PriceModifier: 1680},
}

// Топпинги пицц
var PizzaToppings = []Topping{
	{Name: "Extra Cheese", Price: 420},
	{Name: "Pepperoni", Price: 560},
	{Name: "Mushrooms", Price: 420},
	{Name: "Olives", Price: 280},
	{Name: "Jalapeños", Price: 280},
	{Name: "Onions", Price: 280},
	{Name: "Bell Peppers", Price: 420},
	{Name: "Chicken", Price: 700},
}

// Доступные позиции меню
var AvailableMenuItems = map[string]MenuItem{
	"deal-1": {
		ID:          "deal-1",
		Name:        "Deal 1",
		Description: "1 Small Pizza + 3 Wings + 1 Fries + 1 Regular Drink",
		Price:       649,
		Category:    "deals",
	},
	"deal-2": {
		ID:          "deal-2",
		Name:        "Deal 2",
		Description: "1 Medium Pizza + 1 Zinger Burger + Fries + 500ml Drink",
		Price:       1049,
		Category:    "deals",
	},
	"deal-4": {
		ID:          "deal-4",
		Name:        "Deal 4",
		Description: "1 Large Pizza + 1 Large Shawarma + 1 Fries + 1 Liter Drink",
		Price:       1249,
		Category:    "deals",
	},
	"pizza-1": {
		ID:           "pizza-1",
		Name:         "Chicken Tikka Pizza",
		Description:  "Spicy chicken tikka chunks with onions and signature sauce",
		Price:        500,
		Category:     "pizzas",
		Customizable: true,
		Sizes:        PizzaSizes,
		Toppings:     PizzaToppings,
	},
	"pizza-2": {
		ID:           "pizza-2",
		Name:         "Chicken Fajita Pizza",
		Description:  "Fajita chicken with bell peppers, onions and cheese blend",
		Price:        550,
		Category:     "pizzas",
		Customizable: true,
		Sizes:        PizzaSizes,
		Toppings:     PizzaToppings,
	},
	"pizza-3": {
		ID:           "pizza-3",
		Name:         "Cheese Lover Pizza",
		Description:  "Triple cheese blend on classic tomato base",
		Price:        450,
		Category:     "pizzas",
		Customizable: true,
		Sizes:        PizzaSizes,
		Toppings:     PizzaToppings,
	},
	"burger-1": {
		ID:          "burger-1",
		Name:        "Shami Burger",
		Description: "Traditional shami kebab patty with fresh vegetables and special sauce",
		Price:       150,
		Category:    "burgers",
	},
	"burger-4": {
		ID:          "burger-4",
		Name:        "Zinger Burger",
		Description: "Crispy fried chicken fillet with spicy coating and coleslaw",
		Price:       300,
		Category:    "burgers",
	},
	"burger-5": {
		ID:          "burger-5",
		Name:        "Zinger Cheese Burger",
		Description: "Zinger burger with melted cheese, lettuce and special mayo sauce",
		Price:       350,
		Category:    "burgers",
	},
	"shawarma-1": {
		ID:          "shawarma-1",
		Name:        "Shawarma Small",
		Description: "Marinated chicken shawarma wrapped in pita with garlic sauce and pickles",
		Price:       100,
		Category:    "shawarma",
	},
	"shawarma-2": {
		ID:          "shawarma-2",
		Name:        "Shawarma Large",
		Description: "Generous portion of marinated chicken shawarma with fresh vegetables",
		Price:       200,
		Category:    "shawarma",
	},
	"roll-1": {
		ID:          "roll-1",
		Name:        "Chicken Roll",
		Description: "Chicken filling wrapped in paratha with fresh vegetables and sauce",
		Price:       250,
		Category:    "shawarma",
	},
	"pasta-3": {
		ID:          "pasta-3",
		Name:        "Alfredo Pasta",
		Description: "Creamy alfredo pasta with parmesan and garlic butter sauce",
		Price:       450,
		Category:    "pasta",
	},
	"fried-1": {
		ID:          "fried-1",
		Name:        "Crispy Wings (6 pcs)",
		Description: "Six pieces of crispy fried chicken wings with special seasoning",
		Price:       399,
		Category:    "fried-items",
	},
	"fries-1": {
		ID:          "fries-1",
		Name:        "French Fries Small",
		Description: "Golden crispy french fries with sea salt",
		Price:       150,
		Category:    "fries",
	},
	"fries-2": {
		ID:          "fries-2",
		Name:        "French Fries Large",
		Description: "Generous portion of golden crispy french fries",
		Price:       250,
		Category:    "fries",
	},
}

// GetMenuItem получает позицию меню по ID
func GetMenuItem(id string) (MenuItem, bool) {
	item, ok := AvailableMenuItems[id]
	return item, ok
}

// GetAllMenuItems возвращает копию всех позиций меню (для итерации)
func GetAllMenuItems() map[string]MenuItem {
	result := make(map[string]MenuItem, len(AvailableMenuItems))
	for k, v := range AvailableMenuItems {
		result[k] = v
	}
	return result
}

// GetMenuByCategory возвращает позиции меню, сгруппированные по категориям
func GetMenuByCategory() map[string][]MenuItem {
	result := make(map[string][]MenuItem, len(Categories))
	for _, item := range AvailableMenuItems {
		result[item.Category] = append(result[item.Category], item)
	}
	return result
}
