package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is an immutable record of a completed checkout.
type Order struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	UserID     uint            `json:"user_id" gorm:"not null;index"`
	TotalPrice decimal.Decimal `json:"total_price" gorm:"type:decimal(20,2);not null"`
	CreatedAt  time.Time       `json:"created_at"`

	// Relations
	User  User        `json:"-" gorm:"foreignKey:UserID"`
	Items []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
}

// OrderItem snapshots one purchased product at its price at purchase time.
type OrderItem struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	OrderID     uint            `json:"order_id" gorm:"not null;index"`
	ProductID   uint            `json:"product_id" gorm:"not null;index"`
	ProductName string          `json:"product_name" gorm:"size:100;not null"`
	Quantity    int             `json:"quantity" gorm:"not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(20,2);not null"`

	// Relations
	Product Product `json:"-" gorm:"foreignKey:ProductID"`
}

// Subtotal is price times quantity.
func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ItemsTotal sums the line items. For any order written by checkout it equals
// TotalPrice.
func (o *Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].Subtotal())
	}
	return total
}
