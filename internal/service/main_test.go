package service

import (
	"context"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	mock_producer "github.com/RoyceAzure/lab/shop/internal/infra/producer/mock"
	"github.com/RoyceAzure/lab/shop/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/shop/internal/infra/repository/db/dbtest"
	"github.com/RoyceAzure/lab/shop/internal/infra/repository/redis_repo"
	"github.com/alicebob/miniredis/v2"
	"github.com/golang/mock/gomock"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// testEnv sqlite + miniredis + mock publisher 組成的完整服務
type testEnv struct {
	store     *db.UnifiedDBImpl
	publisher *mock_producer.MockOrderEventPublisher

	carts     *CartService
	addresses *AddressService
	inventory *InventoryService
	orders    *OrderService
	checkout  *CheckoutService
	users     *UserService
	products  *ProductService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctrl := gomock.NewController(t)

	store := dbtest.NewTestDB(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	logger := zerolog.Nop()
	publisher := mock_producer.NewMockOrderEventPublisher(ctrl)

	env := &testEnv{
		store:     store,
		publisher: publisher,
	}
	env.carts = NewCartService(redis_repo.NewCartRepo(client, time.Hour), store, logger)
	env.addresses = NewAddressService(store)
	env.inventory = NewInventoryService(store, logger)
	env.orders = NewOrderService(store, publisher, logger)
	env.users = NewUserService(store)
	env.products = NewProductService(store)
	env.checkout = NewCheckoutService(env.carts, env.addresses, env.inventory, env.orders, store, store, publisher, logger)
	return env
}

func (e *testEnv) stock(t *testing.T, productID uint) int {
	t.Helper()
	stock, err := e.store.GetProductStock(context.Background(), productID)
	require.NoError(t, err)
	return stock
}

func (e *testEnv) addAddress(t *testing.T, userID uint, line string, isDefault bool) *model.Address {
	t.Helper()
	address := &model.Address{
		UserID:       userID,
		FullName:     "Test User",
		AddressLine1: line,
		City:         "Taipei",
		PostalCode:   "100",
		IsDefault:    isDefault,
	}
	require.NoError(t, e.addresses.AddAddress(context.Background(), address))
	return address
}
