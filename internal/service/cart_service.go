package service

import (
	"context"
	"strings"
	"sync"

	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"github.com/RoyceAzure/lab/shop/internal/infra/repository/db"
	"github.com/rs/zerolog"
)

type CartRepository interface {
	GetCart(ctx context.Context, sessionID string) (*model.Cart, error)
	UpdateCart(ctx context.Context, sessionID string, mutate func(cart *model.Cart) error) (*model.Cart, error)
	DeleteCart(ctx context.Context, sessionID string) error
}

// CartListener 購物車變動後同步呼叫，cart 為副本
type CartListener func(sessionID string, cart model.Cart)

type listenerEntry struct {
	id uint64
	fn CartListener
}

// CartService 以 session 為單位的購物車
type CartService struct {
	cartRepo    CartRepository
	productRepo db.IProductRepository
	logger      zerolog.Logger

	mu        sync.RWMutex
	nextID    uint64
	listeners []listenerEntry
}

func NewCartService(cartRepo CartRepository, productRepo db.IProductRepository, logger zerolog.Logger) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger.With().Str("component", "cart").Logger(),
	}
}

// Subscribe 註冊變動通知，回傳取消函式
func (s *CartService) Subscribe(fn CartListener) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, l := range s.listeners {
				if l.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *CartService) notify(sessionID string, cart *model.Cart) {
	s.mu.RLock()
	listeners := make([]listenerEntry, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	for _, l := range listeners {
		snapshot := model.Cart{Items: append([]model.CartItem(nil), cart.Items...)}
		l.fn(sessionID, snapshot)
	}
}

func checkSession(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return ErrInvalidSession
	}
	return nil
}

func normalizeVariant(colour model.Colour, size model.Size) (model.Colour, model.Size, error) {
	c, err := model.ParseColour(string(colour))
	if err != nil {
		return "", "", err
	}
	sz, err := model.ParseSize(string(size))
	if err != nil {
		return "", "", err
	}
	return c, sz, nil
}

func (s *CartService) GetCart(ctx context.Context, sessionID string) (*model.Cart, error) {
	if err := checkSession(sessionID); err != nil {
		return nil, err
	}
	return s.cartRepo.GetCart(ctx, sessionID)
}

// AddItem 相同 (商品, 顏色, 尺寸) 合併數量
func (s *CartService) AddItem(ctx context.Context, sessionID string, item model.CartItem) (*model.Cart, error) {
	if err := checkSession(sessionID); err != nil {
		return nil, err
	}
	if item.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if item.Price.IsNegative() {
		return nil, ErrInvalidPrice
	}
	if item.ProductID == 0 {
		return nil, ErrInvalidProduct
	}
	colour, size, err := normalizeVariant(item.Colour, item.Size)
	if err != nil {
		return nil, err
	}
	item.Colour, item.Size = colour, size

	return s.mutate(ctx, sessionID, func(cart *model.Cart) error {
		cart.AddItem(item)
		return nil
	})
}

// AddProduct 以目前商品價格為快照加入購物車
func (s *CartService) AddProduct(ctx context.Context, sessionID string, productID uint, colour model.Colour, size model.Size, quantity int) (*model.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	product, err := s.productRepo.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.AddItem(ctx, sessionID, model.CartItem{
		ProductID:   product.ProductID,
		ProductName: product.Name,
		Price:       product.Price,
		Quantity:    quantity,
		Colour:      colour,
		Size:        size,
	})
}

// RemoveItem 找不到時不做事
func (s *CartService) RemoveItem(ctx context.Context, sessionID string, productID uint, colour model.Colour, size model.Size) (*model.Cart, error) {
	if err := checkSession(sessionID); err != nil {
		return nil, err
	}
	colour, size, err := normalizeVariant(colour, size)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, sessionID, func(cart *model.Cart) error {
		cart.RemoveItem(productID, colour, size)
		return nil
	})
}

// UpdateQuantity quantity <= 0 等同移除
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID string, productID uint, colour model.Colour, size model.Size, quantity int) (*model.Cart, error) {
	if err := checkSession(sessionID); err != nil {
		return nil, err
	}
	colour, size, err := normalizeVariant(colour, size)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, sessionID, func(cart *model.Cart) error {
		cart.UpdateQuantity(productID, colour, size, quantity)
		return nil
	})
}

func (s *CartService) Clear(ctx context.Context, sessionID string) error {
	if err := checkSession(sessionID); err != nil {
		return err
	}
	if err := s.cartRepo.DeleteCart(ctx, sessionID); err != nil {
		return err
	}
	s.notify(sessionID, &model.Cart{})
	return nil
}

func (s *CartService) mutate(ctx context.Context, sessionID string, fn func(cart *model.Cart) error) (*model.Cart, error) {
	cart, err := s.cartRepo.UpdateCart(ctx, sessionID, fn)
	if err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("update cart failed")
		return nil, err
	}
	s.notify(sessionID, cart)
	return cart, nil
}
