package models

// Product represents a catalog product available in the storefront.
// Products are created and edited by an external admin process; the
// storefront only reads them.
type Product struct {
	ID          string  `json:"id" bson:"_id"`
	Name        string  `json:"name" bson:"name"`
	Description string  `json:"description" bson:"description"`
	Price       float64 `json:"price" bson:"price"`
	ImageURL    string  `json:"image_url" bson:"image_url"`
	Category    string  `json:"category" bson:"category"`
}
