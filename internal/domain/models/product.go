package models

// Product — позиция каталога. Каталог справочный: наполняется миграциями,
// сервис по нему считает авторитетную цену заказа.
type Product struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	OriginalPrice float64 `json:"originalPrice"`
	Image         string  `json:"image"`
	Category      string  `json:"category"`
	BestSeller    bool    `json:"bestSeller"`
}
