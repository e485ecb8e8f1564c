package domain

type Cart struct {
	ID        int64  `db:"id" json:"id"`
	UserID    int64  `db:"user_id" json:"user_id"`
	CreatedAt string `db:"created_at" json:"created_at"`
}

type CartItem struct {
	ID        int64 `db:"id" json:"id"`
	CartID    int64 `db:"cart_id" json:"cart_id"`
	ProductID int64 `db:"product_id" json:"product_id"`
	Quantity  int   `db:"quantity" json:"quantity"`
}

// CartLine is a cart item joined with the live product row.
type CartLine struct {
	CartItem
	ProductName string `db:"product_name" json:"product_name"`
	Price       int64  `db:"price" json:"price"`
	Stock       int    `db:"stock" json:"stock"`
	Published   bool   `db:"published" json:"published"`
}

func (l CartLine) Subtotal() int64 { return l.Price * int64(l.Quantity) }

type CartSummary struct {
	TotalItems  int   `json:"total_items"`
	TotalAmount int64 `json:"total_amount"`
}

// Summarize folds lines into item count and amount.
func Summarize(lines []CartLine) CartSummary {
	var s CartSummary
	for _, l := range lines {
		s.TotalItems += l.Quantity
		s.TotalAmount += l.Subtotal()
	}
	return s
}
