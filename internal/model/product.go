package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a catalog entry owned by a seller (or the admin who created it).
type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"size:100;not null"`
	Description string          `json:"description" gorm:"type:text;not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(20,2);not null"`
	Stock       int             `json:"stock" gorm:"not null"`
	ImageURL    string          `json:"image_url,omitempty" gorm:"size:200"` // stored filename
	SellerID    uint            `json:"seller_id" gorm:"not null;index"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `json:"-" gorm:"index"`

	// Relations
	Seller User `json:"-" gorm:"foreignKey:SellerID"`
}

// OwnedBy reports whether userID is the product's seller.
func (p *Product) OwnedBy(userID uint) bool {
	return p.SellerID == userID
}
