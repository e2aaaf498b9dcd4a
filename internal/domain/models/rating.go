package models

import "time"

// Rating — оценка товара покупателем. Пара товар/покупатель может оценивать
// несколько раз, уникальность не требуется. Записи не изменяются и не удаляются.
type Rating struct {
	ID           int64     `json:"id"`
	ProductName  string    `json:"product_name"`
	CustomerName string    `json:"customer_name"`
	Rating       int       `json:"rating"` // 1–5
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"createdAt"`
}
