package redis_repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"github.com/redis/go-redis/v9"
)

const (
	cartKeyPrefix = "cart"
	// WATCH 衝突時的重試次數
	maxCartTxRetries = 3
	DefaultCartTTL   = 24 * time.Hour
)

// ErrCartConflict 同一個session的購物車被並發修改，重試後仍失敗
var ErrCartConflict = errors.New("cart modified concurrently")

// CartRepo 以session id 為key 的購物車儲存，每次存取都會延長TTL
type CartRepo struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCartRepo(client *redis.Client, ttl time.Duration) *CartRepo {
	if ttl <= 0 {
		ttl = DefaultCartTTL
	}
	return &CartRepo{client: client, ttl: ttl}
}

func cartKey(sessionID string) string {
	var builder strings.Builder
	builder.Grow(len(cartKeyPrefix) + 1 + len(sessionID))
	builder.WriteString(cartKeyPrefix)
	builder.WriteString(":")
	builder.WriteString(sessionID)
	return builder.String()
}

func decodeCart(data []byte) (*model.Cart, error) {
	var cart model.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("反序列化購物車失敗: %w", err)
	}
	return &cart, nil
}

// GetCart 取得購物車，不存在時回傳空購物車
func (s *CartRepo) GetCart(ctx context.Context, sessionID string) (*model.Cart, error) {
	key := cartKey(sessionID)
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return &model.Cart{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("獲取購物車失敗: %w", err)
	}
	if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("延長購物車TTL失敗: %w", err)
	}
	return decodeCart(data)
}

// UpdateCart 在WATCH transaction內 讀取->mutate->寫回
// mutate 回傳錯誤時不寫入；購物車清空後直接刪除key
func (s *CartRepo) UpdateCart(ctx context.Context, sessionID string, mutate func(cart *model.Cart) error) (*model.Cart, error) {
	key := cartKey(sessionID)
	var result *model.Cart

	txf := func(tx *redis.Tx) error {
		cart := &model.Cart{}
		data, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return fmt.Errorf("獲取購物車失敗: %w", err)
		default:
			if cart, err = decodeCart(data); err != nil {
				return err
			}
		}

		if err := mutate(cart); err != nil {
			return err
		}

		payload, err := json.Marshal(cart)
		if err != nil {
			return fmt.Errorf("序列化購物車失敗: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if cart.IsEmpty() {
				pipe.Del(ctx, key)
				return nil
			}
			pipe.Set(ctx, key, payload, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		result = cart
		return nil
	}

	for i := 0; i < maxCartTxRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, ErrCartConflict
}

// DeleteCart 刪除購物車，不存在不視為錯誤
func (s *CartRepo) DeleteCart(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("刪除購物車失敗: %w", err)
	}
	return nil
}
