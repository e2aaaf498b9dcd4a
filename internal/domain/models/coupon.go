package models

// Coupon — купон на скидку. Таблица управляется извне (админка хостинга),
// сервис её только читает.
type Coupon struct {
	ID       int64  `json:"-"`
	Code     string `json:"code"`     // хранится в верхнем регистре
	Discount int    `json:"discount"` // процент, 0–100
	Active   bool   `json:"-"`
}
