package services

import "pizzapoint/server/internal/models"

// ComputeLineTotal считает итог строки корзины:
// (базовая цена + модификатор размера + сумма топпингов) * количество.
//
// Чистая функция: не трогает переданную позицию меню и детерминирована.
// Неизвестное имя размера или топпинга молча дает нулевой вклад - каталог
// здесь источник истины, а не валидатор (см. DESIGN.md).
// Округление - забота слоя представления, здесь его нет.
func ComputeLineTotal(item models.MenuItem, quantity int, size string, toppings []string) float64 {
	unitPrice := item.Price

	if size != "" && len(item.Sizes) > 0 {
		for _, s := range item.Sizes {
			if s.Name == size {
				unitPrice += s.PriceModifier
				break
			}
		}
	}

	for _, toppingName := range toppings {
		for _, t := range item.Toppings {
			if t.Name == toppingName {
				unitPrice += t.Price
				break
			}
		}
	}

	return unitPrice * float64(quantity)
}
