package domain

type CartItem struct {
	ID              int     `json:"id"`
	ProductDetailID int     `json:"productDetailId"`
	ProductName     string  `json:"productName"`
	Quantity        int     `json:"quantity"`
	UnitPrice       float64 `json:"unitPrice"`
	Image           string  `json:"image"`
}

func (i CartItem) LineTotal() float64 {
	return float64(i.Quantity) * i.UnitPrice
}

type Cart struct {
	ID     int        `json:"id"`
	UserID int        `json:"userId"`
	Items  []CartItem `json:"items"`
}

func (c Cart) ItemCount() int {
	n := 0
	for _, i := range c.Items {
		n += i.Quantity
	}
	return n
}

func (c Cart) Total() float64 {
	var total float64
	for _, i := range c.Items {
		total += i.LineTotal()
	}
	return total
}
