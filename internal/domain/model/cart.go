package model

import (
	"github.com/shopspring/decimal"
)

// CartItemKey 購物車合併/查找用的複合鍵
type CartItemKey struct {
	ProductID uint
	Colour    Colour
	Size      Size
}

// Price 為加入購物車當下的單價快照
type CartItem struct {
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Colour      Colour          `json:"colour,omitempty"`
	Size        Size            `json:"size,omitempty"`
}

func (i CartItem) Key() CartItemKey {
	return CartItemKey{ProductID: i.ProductID, Colour: i.Colour, Size: i.Size}
}

func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart 單一session擁有，不可跨session共用，本身不加鎖
type Cart struct {
	Items []CartItem `json:"items"`
}

func (c *Cart) indexOf(key CartItemKey) int {
	for i := range c.Items {
		if c.Items[i].Key() == key {
			return i
		}
	}
	return -1
}

// AddItem 相同 (product, colour, size) 合併數量，否則附加在最後
func (c *Cart) AddItem(item CartItem) {
	if i := c.indexOf(item.Key()); i >= 0 {
		c.Items[i].Quantity += item.Quantity
		return
	}
	c.Items = append(c.Items, item)
}

// RemoveItem 找不到時不做任何事
func (c *Cart) RemoveItem(productID uint, colour Colour, size Size) {
	i := c.indexOf(CartItemKey{ProductID: productID, Colour: colour, Size: size})
	if i < 0 {
		return
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
}

// UpdateQuantity quantity <= 0 等同 RemoveItem
func (c *Cart) UpdateQuantity(productID uint, colour Colour, size Size, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(productID, colour, size)
		return
	}
	if i := c.indexOf(CartItemKey{ProductID: productID, Colour: colour, Size: size}); i >= 0 {
		c.Items[i].Quantity = quantity
	}
}

func (c *Cart) Clear() {
	c.Items = nil
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) TotalItems() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}
