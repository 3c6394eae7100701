package models

// Product is a structure for storing data for one product card of the storefront.
type Product struct {
	Image  string `json:"image,omitempty"`
	Title  string `json:"title"`
	Price  string `json:"price,omitempty"` // display form, currency tagged: "1.299,00 €"
	Link   string `json:"link,omitempty"`
	Rating string `json:"rating,omitempty"`
}

// Snapshot is the ordered result of one fetch cycle.
type Snapshot []Product
