package models

// Status — статус заказа. В БД хранится строковой меткой (она видна покупателю
// в трекере), но множество значений закрыто, а переходы проверяются явно на
// уровне сервиса.
type Status string

const (
	StatusNew            Status = "New Order"
	StatusPending        Status = "Pending"
	StatusApproved       Status = "Approved" // только как запрошенный статус, в БД не сохраняется
	StatusRejected       Status = "Rejected"
	StatusCancelled      Status = "Cancelled"
	StatusPreparing      Status = "Order Being Prepared"
	StatusReady          Status = "Order Ready"
	StatusOutForDelivery Status = "Out for Delivery"
	StatusOrderDelivered Status = "Order Delivered"
	StatusShipped        Status = "Shipped"
	StatusDelivered      Status = "Delivered"
	StatusCompleted      Status = "Completed"
)

var knownStatuses = map[Status]struct{}{
	StatusNew:            {},
	StatusPending:        {},
	StatusApproved:       {},
	StatusRejected:       {},
	StatusCancelled:      {},
	StatusPreparing:      {},
	StatusReady:          {},
	StatusOutForDelivery: {},
	StatusOrderDelivered: {},
	StatusShipped:        {},
	StatusDelivered:      {},
	StatusCompleted:      {},
}

// ParseStatus проверяет, что строка — известная метка статуса.
func ParseStatus(s string) (Status, bool) {
	st := Status(s)
	_, ok := knownStatuses[st]
	return st, ok
}

// transitions — таблица разрешённых переходов. Отсутствие статуса-предшественника
// в таблице означает терминальное состояние.
var transitions = map[Status][]Status{
	StatusPending:        {StatusNew, StatusRejected, StatusCancelled},
	StatusNew:            {StatusPreparing, StatusShipped, StatusOutForDelivery, StatusCancelled, StatusRejected},
	StatusPreparing:      {StatusReady, StatusCancelled},
	StatusReady:          {StatusOutForDelivery, StatusShipped, StatusCancelled},
	StatusShipped:        {StatusOutForDelivery, StatusOrderDelivered, StatusDelivered, StatusCancelled},
	StatusOutForDelivery: {StatusOrderDelivered, StatusDelivered, StatusCancelled},
	StatusOrderDelivered: {StatusCompleted},
	StatusDelivered:      {StatusCompleted},
}

// CanTransitionTo сообщает, разрешён ли переход из текущего статуса в next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal — есть ли из статуса хоть один разрешённый переход.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

func (s Status) String() string {
	return string(s)
}
