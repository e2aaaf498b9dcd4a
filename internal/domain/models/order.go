package models

import "time"

// Способы оплаты. От способа зависит начальный статус заказа.
const (
	PaymentCOD      = "cod"
	PaymentInstapay = "instapay"
	PaymentVodafone = "vodafone"
)

// OrderItem — позиция заказа.
type OrderItem struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// StatusChange — запись в истории статусов. История только дополняется.
type StatusChange struct {
	Status    Status    `json:"status"`
	ChangedAt time.Time `json:"changedAt"`
}

// Order — заказ. Создаётся публичной формой один раз, дальше меняются только
// status и status_history, удаления нет.
type Order struct {
	ID               int64          `json:"id,omitempty"`
	TrackerCode      string         `json:"tracker_code"`
	Customer         string         `json:"customer"`
	Email            string         `json:"email"`
	Phone            string         `json:"phone"`
	Phone2           string         `json:"mobile2,omitempty"`
	Address          string         `json:"address"`
	Government       string         `json:"government,omitempty"`
	Country          string         `json:"country,omitempty"`
	Notes            string         `json:"notes,omitempty"`
	Items            []OrderItem    `json:"items"`
	Total            float64        `json:"total"`
	Payment          string         `json:"payment"`
	Status           Status         `json:"status"`
	StatusHistory    []StatusChange `json:"status_history"`
	TransactionImage string         `json:"transaction_image,omitempty"`
	Coupon           string         `json:"coupon,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
	Version          int64          `json:"-"` // счётчик для условного UPDATE
}

// Public возвращает копию заказа без внутреннего id: неаутентифицированным
// клиентам виден только tracker_code.
func (o Order) Public() Order {
	o.ID = 0
	return o
}
