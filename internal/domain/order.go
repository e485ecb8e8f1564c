package domain

import "strings"

type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusConfirmed OrderStatus = "Confirmed"
	StatusShipped   OrderStatus = "Shipped"
	StatusDelivered OrderStatus = "Delivered"
	StatusCancelled OrderStatus = "Cancelled"
)

// Placeholder contact values written at checkout, replaced on confirmation.
const (
	PlaceholderAddress = "to be confirmed"
	PlaceholderPhone   = "to be confirmed"
)

var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered},
}

// Statuses lists every status in lifecycle order.
func Statuses() []OrderStatus {
	return []OrderStatus{StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled}
}

// ParseStatus accepts any casing of a known status.
func ParseStatus(s string) (OrderStatus, bool) {
	s = strings.TrimSpace(s)
	for _, st := range Statuses() {
		if strings.EqualFold(s, string(st)) {
			return st, true
		}
	}
	return "", false
}

func (s OrderStatus) CanTransition(to OrderStatus) bool {
	for _, t := range transitions[s] {
		if t == to {
			return true
		}
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

type Order struct {
	ID          int64       `db:"id" json:"id"`
	UserID      int64       `db:"user_id" json:"user_id"`
	OrderDate   string      `db:"order_date" json:"order_date"`
	TotalAmount int64       `db:"total_amount" json:"total_amount"`
	Status      OrderStatus `db:"status" json:"status"`
	Address     string      `db:"address" json:"address"`
	Phone       string      `db:"phone" json:"phone"`
}

// OrderItem holds the unit price copied from the product at checkout.
type OrderItem struct {
	ID        int64  `db:"id" json:"id"`
	OrderID   int64  `db:"order_id" json:"order_id"`
	ProductID int64  `db:"product_id" json:"product_id"`
	VoucherID *int64 `db:"voucher_id" json:"voucher_id,omitempty"`
	Quantity  int    `db:"quantity" json:"quantity"`
	UnitPrice int64  `db:"unit_price" json:"unit_price"`
}

type OrderLine struct {
	OrderItem
	ProductName string `db:"product_name" json:"product_name"`
}

func (l OrderLine) Subtotal() int64 { return l.UnitPrice * int64(l.Quantity) }

type OrderStats struct {
	Total    int                 `json:"total"`
	ByStatus map[OrderStatus]int `json:"by_status"`
	Revenue  int64               `json:"revenue"`
}
