package dto

import (
	"time"

	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"github.com/shopspring/decimal"
)

type CartItemRequest struct {
	ProductID uint   `json:"product_id"`
	Colour    string `json:"colour"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

type CartItemDTO struct {
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Colour      string          `json:"colour,omitempty"`
	Size        string          `json:"size,omitempty"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

type CartDTO struct {
	SessionID  string          `json:"session_id"`
	Items      []CartItemDTO   `json:"items"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

func NewCartDTO(sessionID string, cart *model.Cart) CartDTO {
	items := make([]CartItemDTO, len(cart.Items))
	for i, item := range cart.Items {
		items[i] = CartItemDTO{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Price:       item.Price,
			Quantity:    item.Quantity,
			Colour:      string(item.Colour),
			Size:        string(item.Size),
			LineTotal:   item.LineTotal(),
		}
	}
	return CartDTO{
		SessionID:  sessionID,
		Items:      items,
		TotalItems: cart.TotalItems(),
		TotalPrice: cart.TotalPrice().Round(2),
	}
}

type CheckoutRequest struct {
	SessionID string `json:"session_id"`
	AddressID uint   `json:"address_id"`
}

type OrderItemDTO struct {
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Colour      string          `json:"colour,omitempty"`
	Size        string          `json:"size,omitempty"`
}

type OrderDTO struct {
	OrderID           uint            `json:"order_id"`
	UserID            uint            `json:"user_id"`
	ShippingAddressID *uint           `json:"shipping_address_id,omitempty"`
	Total             decimal.Decimal `json:"total"`
	OrderDate         time.Time       `json:"order_date"`
	Status            string          `json:"status"`
	Items             []OrderItemDTO  `json:"items"`
}

func NewOrderDTO(order *model.Order) OrderDTO {
	items := make([]OrderItemDTO, len(order.OrderItems))
	for i, item := range order.OrderItems {
		items[i] = OrderItemDTO{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Colour:    string(item.SelectedColour),
			Size:      string(item.SelectedSize),
		}
		if item.Product != nil {
			items[i].ProductName = item.Product.Name
		}
	}
	return OrderDTO{
		OrderID:           order.OrderID,
		UserID:            order.UserID,
		ShippingAddressID: order.ShippingAddressID,
		Total:             order.Total,
		OrderDate:         order.OrderDate,
		Status:            string(order.Status),
		Items:             items,
	}
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

type CancelOrderResponse struct {
	OrderID          uint   `json:"order_id"`
	Cancelled        bool   `json:"cancelled"`
	Restored         bool   `json:"restored"`
	FailedProductIDs []uint `json:"failed_product_ids,omitempty"`
}

type AddressRequest struct {
	FullName     string `json:"full_name"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city"`
	Region       string `json:"region"`
	PostalCode   string `json:"postal_code"`
	IsDefault    bool   `json:"is_default"`
}

func (r AddressRequest) ToModel(userID, addressID uint) *model.Address {
	return &model.Address{
		AddressID:    addressID,
		UserID:       userID,
		FullName:     r.FullName,
		AddressLine1: r.AddressLine1,
		AddressLine2: r.AddressLine2,
		City:         r.City,
		Region:       r.Region,
		PostalCode:   r.PostalCode,
		IsDefault:    r.IsDefault,
	}
}

type StockResponse struct {
	ProductID uint   `json:"product_id"`
	Colour    string `json:"colour,omitempty"`
	Size      string `json:"size,omitempty"`
	Stock     int    `json:"stock"`
}

type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CreateProductRequest struct {
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
}
