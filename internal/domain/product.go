package domain

import "time"

type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Image struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Video       string          `json:"video"`
	Images      []Image         `json:"images"`
	CategoryID  int             `json:"categoryId"`
	Category    *Category       `json:"category,omitempty"`
	Details     []ProductDetail `json:"details"`
}

// CategoryRef resolves the category id whether the API sent it flat or nested.
func (p Product) CategoryRef() int {
	if p.Category != nil && p.Category.ID != 0 {
		return p.Category.ID
	}
	return p.CategoryID
}

func (p Product) CategoryName() string {
	if p.Category == nil || p.Category.Name == "" {
		return "N/A"
	}
	return p.Category.Name
}

func (p Product) Thumbnail() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].Path
}

func (p Product) TotalQuantity() int {
	total := 0
	for _, d := range p.Details {
		total += d.Quantities
	}
	return total
}

type ProductDetail struct {
	ID         int     `json:"id"`
	ProductID  int     `json:"productId"`
	Size       string  `json:"size"`
	Type       string  `json:"type"`
	Values     string  `json:"values"`
	Quantities int     `json:"quantities"`
	Images     []Image `json:"images"`
	IsActive   bool    `json:"isActive"`
}

type Price struct {
	ID              int        `json:"id"`
	ProductDetailID int        `json:"productDetailId"`
	BasePrice       float64    `json:"base_price"`
	DiscountPrice   float64    `json:"discount_price"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	EndDate         *time.Time `json:"end_date,omitempty"`
}

// Effective is the price a customer pays: the discount when one is set.
func (p Price) Effective() float64 {
	if p.DiscountPrice > 0 && p.DiscountPrice < p.BasePrice {
		return p.DiscountPrice
	}
	return p.BasePrice
}

type UpdateProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	CategoryID  int    `json:"categoryId,omitempty"`
}

type UpdateProductDetailRequest struct {
	Size     string `json:"size"`
	Type     string `json:"type"`
	Values   string `json:"values"`
	IsActive bool   `json:"isActive"`
}

type UpdatePriceRequest struct {
	BasePrice     float64    `json:"base_price"`
	DiscountPrice float64    `json:"discount_price"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	EndDate       *time.Time `json:"end_date,omitempty"`
}
