package notify

import "storefront/internal/model"

// EventKind names a catalog mutation.
type EventKind string

const (
	ProductCreated EventKind = "product_created"
	ProductDeleted EventKind = "product_deleted"
)

// ProductPayload mirrors the public fields of a product.
type ProductPayload struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	ImageURL    *string `json:"image_url"`
	SellerID    uint    `json:"seller_id"`
}

// Event is one broadcast frame.
type Event struct {
	Kind EventKind      `json:"event"`
	Data ProductPayload `json:"data"`
}

// ImageURLFunc resolves a stored image filename to an absolute URL.
type ImageURLFunc func(filename string) string

// NewProductPayload builds the payload for p. imageURL may be nil.
func NewProductPayload(p *model.Product, imageURL ImageURLFunc) ProductPayload {
	payload := ProductPayload{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.InexactFloat64(),
		Stock:       p.Stock,
		SellerID:    p.SellerID,
	}
	if p.ImageURL != "" && imageURL != nil {
		u := imageURL(p.ImageURL)
		payload.ImageURL = &u
	}
	return payload
}
