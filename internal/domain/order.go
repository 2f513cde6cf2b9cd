package domain

import "time"

type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusConfirmed OrderStatus = "CONFIRMED"
	StatusShipping  OrderStatus = "SHIPPING"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"

	StatusReturnRequested   OrderStatus = "RETURN_REQUESTED"
	StatusReturnApproved    OrderStatus = "RETURN_APPROVED"
	StatusReturnCompleted   OrderStatus = "RETURN_COMPLETED"
	StatusReturnRejected    OrderStatus = "RETURN_REJECTED"
	StatusExchangeRequested OrderStatus = "EXCHANGE_REQUESTED"
	StatusExchangeApproved  OrderStatus = "EXCHANGE_APPROVED"
	StatusExchangeCompleted OrderStatus = "EXCHANGE_COMPLETED"
	StatusExchangeRejected  OrderStatus = "EXCHANGE_REJECTED"
)

// ReturnExchangeStatuses lists the statuses shown on the returns/exchanges page, in display order.
var ReturnExchangeStatuses = []OrderStatus{
	StatusReturnRequested, StatusReturnApproved, StatusReturnCompleted, StatusReturnRejected,
	StatusExchangeRequested, StatusExchangeApproved, StatusExchangeCompleted, StatusExchangeRejected,
}

var returnExchangeTransitions = map[OrderStatus][]OrderStatus{
	StatusReturnRequested:   {StatusReturnApproved, StatusReturnRejected},
	StatusReturnApproved:    {StatusReturnCompleted},
	StatusExchangeRequested: {StatusExchangeApproved, StatusExchangeRejected},
	StatusExchangeApproved:  {StatusExchangeCompleted},
}

func IsReturnOrExchange(status OrderStatus) bool {
	for _, s := range ReturnExchangeStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// NextStatuses returns the actions the seller may take from the given status.
func NextStatuses(from OrderStatus) []OrderStatus {
	return returnExchangeTransitions[from]
}

func CanTransition(from, to OrderStatus) bool {
	for _, s := range returnExchangeTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type Order struct {
	ID            int         `json:"id"`
	UserID        int         `json:"userId"`
	User          *User       `json:"user,omitempty"`
	Status        OrderStatus `json:"status"`
	TotalQuantity int         `json:"totalQuantity"`
	TotalPrice    float64     `json:"totalPrice"`
	Address       string      `json:"address"`
	PaymentMethod string      `json:"paymentMethod"`
	Note          string      `json:"note"`
	ReturnReason  string      `json:"returnReason"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
	Items         []OrderItem `json:"items"`
}

func (o Order) CustomerName() string {
	if o.User == nil {
		return "N/A"
	}
	return o.User.FullName()
}

type OrderItem struct {
	ID              int     `json:"id"`
	ProductDetailID int     `json:"productDetailId"`
	ProductID       int     `json:"productId"`
	ProductName     string  `json:"productName"`
	Quantity        int     `json:"quantity"`
	UnitPrice       float64 `json:"unitPrice"`
	TotalPrice      float64 `json:"totalPrice"`

	// Detail is filled in by the admin detail page, never sent by the order endpoint.
	Detail *ProductDetail `json:"-"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status"`
}
