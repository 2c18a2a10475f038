package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/shop/internal/api/dto"
	"github.com/RoyceAzure/lab/shop/internal/api/handler"
	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"github.com/RoyceAzure/lab/shop/internal/infra/ratelimit"
	"github.com/RoyceAzure/lab/shop/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/shop/internal/infra/repository/db/dbtest"
	"github.com/RoyceAzure/lab/shop/internal/infra/repository/redis_repo"
	"github.com/RoyceAzure/lab/shop/internal/service"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type RouterTestSuite struct {
	suite.Suite
	router *chi.Mux
}

func newTestRouter(t *testing.T, limiter ratelimit.Limiter) *chi.Mux {
	t.Helper()
	return newTestRouterWithOrderRepo(t, limiter, nil)
}

// wrap 可替換訂單儲存層，模擬儲存錯誤
func newTestRouterWithOrderRepo(t *testing.T, limiter ratelimit.Limiter, wrap func(db.IOrderRepository) db.IOrderRepository) *chi.Mux {
	t.Helper()
	store := dbtest.NewTestDB(t)
	var orderRepo db.IOrderRepository = store
	if wrap != nil {
		orderRepo = wrap(store)
	}
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	logger := zerolog.Nop()
	carts := service.NewCartService(redis_repo.NewCartRepo(client, time.Hour), store, logger)
	addresses := service.NewAddressService(store)
	inventory := service.NewInventoryService(store, logger)
	orders := service.NewOrderService(orderRepo, nil, logger)
	checkout := service.NewCheckoutService(carts, addresses, inventory, orders, store, store, nil, logger)

	server := NewServer(
		handler.NewCartHandler(carts),
		handler.NewOrderHandler(orders, checkout),
		handler.NewAddressHandler(addresses),
		handler.NewProductHandler(service.NewProductService(store), inventory),
		handler.NewUserHandler(service.NewUserService(store)),
	)
	return SetupRouter(server, limiter, logger)
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func (suite *RouterTestSuite) SetupTest() {
	suite.router = newTestRouter(suite.T(), nil)
}

func do(router http.Handler, method, path string, body any) (int, envelope) {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec.Code, env
}

func (suite *RouterTestSuite) request(method, path string, body any, wantStatus int, out any) envelope {
	status, env := do(suite.router, method, path, body)
	suite.Require().Equal(wantStatus, status, "%s %s: %s", method, path, env.Message)
	if out != nil {
		suite.Require().NoError(json.Unmarshal(env.Data, out))
	}
	return env
}

func (suite *RouterTestSuite) createUser(email string) model.User {
	var user model.User
	suite.request(http.MethodPost, "/api/v1/users", dto.CreateUserRequest{Name: "Buyer", Email: email}, http.StatusCreated, &user)
	suite.Require().NotZero(user.UserID)
	return user
}

func (suite *RouterTestSuite) createProduct(name, price string, stock int) model.Product {
	var product model.Product
	suite.request(http.MethodPost, "/api/v1/products", dto.CreateProductRequest{
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: stock,
	}, http.StatusCreated, &product)
	suite.Require().NotZero(product.ProductID)
	return product
}

func (suite *RouterTestSuite) addAddress(userID uint, isDefault bool) model.Address {
	var address model.Address
	suite.request(http.MethodPost, fmt.Sprintf("/api/v1/users/%d/addresses", userID), dto.AddressRequest{
		FullName:     "Buyer",
		AddressLine1: "1 Main St",
		City:         "Taipei",
		PostalCode:   "100",
		IsDefault:    isDefault,
	}, http.StatusCreated, &address)
	return address
}

func (suite *RouterTestSuite) stock(productID uint) int {
	var res dto.StockResponse
	suite.request(http.MethodGet, fmt.Sprintf("/api/v1/products/%d/stock", productID), nil, http.StatusOK, &res)
	return res.Stock
}

func (suite *RouterTestSuite) TestCheckoutAndCancelFlow() {
	user := suite.createUser("flow@example.com")
	product := suite.createProduct("Shirt", "10.00", 5)
	address := suite.addAddress(user.UserID, true)

	var cart dto.CartDTO
	suite.request(http.MethodPost, "/api/v1/carts/s1/items", dto.CartItemRequest{
		ProductID: product.ProductID, Colour: "red", Size: "m", Quantity: 2,
	}, http.StatusOK, &cart)
	suite.Require().Equal(2, cart.TotalItems)
	suite.Require().Equal("Red", cart.Items[0].Colour)
	suite.Require().Equal("Shirt", cart.Items[0].ProductName)
	suite.Require().True(decimal.NewFromInt(20).Equal(cart.TotalPrice))

	var order dto.OrderDTO
	suite.request(http.MethodPost, fmt.Sprintf("/api/v1/users/%d/checkout", user.UserID), dto.CheckoutRequest{SessionID: "s1"}, http.StatusCreated, &order)
	suite.Require().Equal(string(model.OrderStatusProcessing), order.Status)
	suite.Require().True(decimal.NewFromInt(20).Equal(order.Total))
	suite.Require().NotNil(order.ShippingAddressID)
	suite.Require().Equal(address.AddressID, *order.ShippingAddressID)
	suite.Require().Len(order.Items, 1)
	suite.Require().Equal(3, suite.stock(product.ProductID))

	suite.request(http.MethodGet, "/api/v1/carts/s1", nil, http.StatusOK, &cart)
	suite.Require().Empty(cart.Items)

	var orders []dto.OrderDTO
	suite.request(http.MethodGet, fmt.Sprintf("/api/v1/users/%d/orders", user.UserID), nil, http.StatusOK, &orders)
	suite.Require().Len(orders, 1)

	var cancel dto.CancelOrderResponse
	suite.request(http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/cancel", order.OrderID), nil, http.StatusOK, &cancel)
	suite.Require().True(cancel.Cancelled)
	suite.Require().True(cancel.Restored)
	suite.Require().Empty(cancel.FailedProductIDs)
	suite.Require().Equal(5, suite.stock(product.ProductID))

	suite.request(http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/cancel", order.OrderID), nil, http.StatusConflict, nil)
	suite.Require().Equal(5, suite.stock(product.ProductID))

	var got dto.OrderDTO
	suite.request(http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", order.OrderID), nil, http.StatusOK, &got)
	suite.Require().Equal(string(model.OrderStatusCancelled), got.Status)
}

func (suite *RouterTestSuite) TestCheckoutErrors() {
	user := suite.createUser("err@example.com")
	product := suite.createProduct("Hat", "5.00", 1)
	path := fmt.Sprintf("/api/v1/users/%d/checkout", user.UserID)

	suite.request(http.MethodPost, path, dto.CheckoutRequest{SessionID: "empty"}, http.StatusUnprocessableEntity, nil)

	suite.request(http.MethodPost, "/api/v1/carts/s2/items", dto.CartItemRequest{ProductID: product.ProductID, Quantity: 2}, http.StatusOK, nil)
	suite.request(http.MethodPost, path, dto.CheckoutRequest{SessionID: "s2"}, http.StatusUnprocessableEntity, nil)

	suite.addAddress(user.UserID, true)
	suite.request(http.MethodPost, path, dto.CheckoutRequest{SessionID: "s2"}, http.StatusConflict, nil)
	suite.Require().Equal(1, suite.stock(product.ProductID))

	suite.request(http.MethodPost, "/api/v1/users/999/checkout", dto.CheckoutRequest{SessionID: "s2"}, http.StatusNotFound, nil)
	suite.request(http.MethodPost, "/api/v1/users/abc/checkout", dto.CheckoutRequest{SessionID: "s2"}, http.StatusBadRequest, nil)
}

func (suite *RouterTestSuite) TestCartEndpoints() {
	product := suite.createProduct("Sock", "2.50", 10)
	base := "/api/v1/carts/s3/items"

	suite.request(http.MethodPost, base, dto.CartItemRequest{ProductID: product.ProductID, Colour: "Blue", Quantity: 1}, http.StatusOK, nil)
	suite.request(http.MethodPost, base, dto.CartItemRequest{ProductID: product.ProductID, Colour: "blue", Quantity: 2}, http.StatusOK, nil)

	var cart dto.CartDTO
	suite.request(http.MethodPatch, base, dto.CartItemRequest{ProductID: product.ProductID, Colour: "Blue", Quantity: 4}, http.StatusOK, &cart)
	suite.Require().Len(cart.Items, 1)
	suite.Require().Equal(4, cart.TotalItems)

	suite.request(http.MethodPost, base, dto.CartItemRequest{ProductID: product.ProductID, Quantity: 0}, http.StatusUnprocessableEntity, nil)
	suite.request(http.MethodPost, base, dto.CartItemRequest{ProductID: product.ProductID, Colour: "Gold", Quantity: 1}, http.StatusUnprocessableEntity, nil)
	suite.request(http.MethodPost, base, dto.CartItemRequest{ProductID: 999, Quantity: 1}, http.StatusNotFound, nil)

	suite.request(http.MethodDelete, fmt.Sprintf("%s?product_id=%d&colour=Blue", base, product.ProductID), nil, http.StatusOK, &cart)
	suite.Require().Empty(cart.Items)
	suite.request(http.MethodDelete, base+"?product_id=x", nil, http.StatusBadRequest, nil)

	suite.request(http.MethodPost, base, dto.CartItemRequest{ProductID: product.ProductID, Quantity: 1}, http.StatusOK, nil)
	suite.request(http.MethodDelete, "/api/v1/carts/s3", nil, http.StatusNoContent, nil)
	suite.request(http.MethodGet, "/api/v1/carts/s3", nil, http.StatusOK, &cart)
	suite.Require().Empty(cart.Items)
}

func (suite *RouterTestSuite) TestAddressEndpoints() {
	user := suite.createUser("addr@example.com")
	first := suite.addAddress(user.UserID, true)
	second := suite.addAddress(user.UserID, true)

	var addresses []model.Address
	suite.request(http.MethodGet, fmt.Sprintf("/api/v1/users/%d/addresses", user.UserID), nil, http.StatusOK, &addresses)
	suite.Require().Len(addresses, 2)
	suite.Require().Equal(second.AddressID, addresses[0].AddressID)
	suite.Require().True(addresses[0].IsDefault)
	suite.Require().False(addresses[1].IsDefault)

	suite.request(http.MethodPut, fmt.Sprintf("/api/v1/addresses/%d", first.AddressID), dto.AddressRequest{
		FullName: "Buyer", AddressLine1: "2 Side St", City: "Tainan", PostalCode: "700", IsDefault: true,
	}, http.StatusOK, nil)
	suite.request(http.MethodGet, fmt.Sprintf("/api/v1/users/%d/addresses", user.UserID), nil, http.StatusOK, &addresses)
	suite.Require().Equal(first.AddressID, addresses[0].AddressID)
	suite.Require().Equal("Tainan", addresses[0].City)

	suite.request(http.MethodPut, "/api/v1/addresses/999", dto.AddressRequest{
		FullName: "Buyer", AddressLine1: "x", City: "y", PostalCode: "1",
	}, http.StatusNotFound, nil)
	suite.request(http.MethodPost, fmt.Sprintf("/api/v1/users/%d/addresses", user.UserID), dto.AddressRequest{}, http.StatusUnprocessableEntity, nil)

	suite.request(http.MethodDelete, fmt.Sprintf("/api/v1/addresses/%d", first.AddressID), nil, http.StatusNoContent, nil)
	suite.request(http.MethodGet, fmt.Sprintf("/api/v1/users/%d/addresses", user.UserID), nil, http.StatusOK, &addresses)
	suite.Require().Len(addresses, 1)
}

func (suite *RouterTestSuite) TestOrderStatusEndpoint() {
	user := suite.createUser("status@example.com")
	product := suite.createProduct("Cap", "1.00", 3)
	suite.addAddress(user.UserID, true)
	suite.request(http.MethodPost, "/api/v1/carts/s4/items", dto.CartItemRequest{ProductID: product.ProductID, Quantity: 1}, http.StatusOK, nil)

	var order dto.OrderDTO
	suite.request(http.MethodPost, fmt.Sprintf("/api/v1/users/%d/checkout", user.UserID), dto.CheckoutRequest{SessionID: "s4"}, http.StatusCreated, &order)

	path := fmt.Sprintf("/api/v1/orders/%d/status", order.OrderID)
	suite.request(http.MethodPut, path, dto.UpdateOrderStatusRequest{Status: "Lost"}, http.StatusUnprocessableEntity, nil)

	var updated dto.OrderDTO
	suite.request(http.MethodPut, path, dto.UpdateOrderStatusRequest{Status: string(model.OrderStatusShipped)}, http.StatusOK, &updated)
	suite.Require().Equal(string(model.OrderStatusShipped), updated.Status)

	// 已出貨不能取消，庫存不變
	suite.request(http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/cancel", order.OrderID), nil, http.StatusConflict, nil)
	suite.Require().Equal(2, suite.stock(product.ProductID))

	suite.request(http.MethodPut, "/api/v1/orders/999/status", dto.UpdateOrderStatusRequest{Status: string(model.OrderStatusShipped)}, http.StatusNotFound, nil)
	suite.request(http.MethodGet, "/api/v1/orders/999", nil, http.StatusNotFound, nil)

	var all []dto.OrderDTO
	suite.request(http.MethodGet, "/api/v1/orders", nil, http.StatusOK, &all)
	suite.Require().Len(all, 1)
	suite.Require().Equal(order.OrderID, all[0].OrderID)
	suite.Require().Equal(string(model.OrderStatusShipped), all[0].Status)
}

func (suite *RouterTestSuite) TestListOrdersEmpty() {
	var all []dto.OrderDTO
	suite.request(http.MethodGet, "/api/v1/orders", nil, http.StatusOK, &all)
	suite.Require().NotNil(all)
	suite.Require().Empty(all)
}

func (suite *RouterTestSuite) TestUserAndProductEndpoints() {
	user := suite.createUser("me@example.com")

	var got model.User
	suite.request(http.MethodGet, fmt.Sprintf("/api/v1/users/%d", user.UserID), nil, http.StatusOK, &got)
	suite.Require().Equal("me@example.com", got.Email)
	suite.request(http.MethodPost, "/api/v1/users", dto.CreateUserRequest{Name: "Dup", Email: "me@example.com"}, http.StatusConflict, nil)
	suite.request(http.MethodGet, "/api/v1/users/999", nil, http.StatusNotFound, nil)

	suite.createProduct("A", "1.00", 1)
	suite.createProduct("B", "2.00", 2)
	var products []model.Product
	suite.request(http.MethodGet, "/api/v1/products", nil, http.StatusOK, &products)
	suite.Require().Len(products, 2)

	suite.request(http.MethodPost, "/api/v1/products", dto.CreateProductRequest{Name: "C", Price: decimal.NewFromInt(-1)}, http.StatusUnprocessableEntity, nil)
	suite.request(http.MethodGet, "/api/v1/products/999", nil, http.StatusNotFound, nil)
	suite.Require().Equal(0, suite.stock(999))

	status, env := do(suite.router, http.MethodPost, "/api/v1/products", nil)
	suite.Require().Equal(http.StatusBadRequest, status)
	suite.Require().Equal("invalid request body", env.Message)

	status, _ = do(suite.router, http.MethodGet, "/api/v1/nope", nil)
	suite.Require().Equal(http.StatusNotFound, status)
}

type statusFaultOrderRepo struct {
	db.IOrderRepository
}

func (statusFaultOrderRepo) UpdateOrderStatus(ctx context.Context, id uint, status model.OrderStatus) (int64, error) {
	return 0, errors.New("connection reset")
}

func TestUpdateStatusStorageFault(t *testing.T) {
	router := newTestRouterWithOrderRepo(t, nil, func(repo db.IOrderRepository) db.IOrderRepository {
		return statusFaultOrderRepo{repo}
	})
	s := &RouterTestSuite{router: router}
	s.SetT(t)

	user := s.createUser("fault@example.com")
	product := s.createProduct("Cap", "1.00", 3)
	s.addAddress(user.UserID, true)
	s.request(http.MethodPost, "/api/v1/carts/s5/items", dto.CartItemRequest{ProductID: product.ProductID, Quantity: 1}, http.StatusOK, nil)

	var order dto.OrderDTO
	s.request(http.MethodPost, fmt.Sprintf("/api/v1/users/%d/checkout", user.UserID), dto.CheckoutRequest{SessionID: "s5"}, http.StatusCreated, &order)

	// 訂單存在但寫入失敗，不是 404
	env := s.request(http.MethodPut, fmt.Sprintf("/api/v1/orders/%d/status", order.OrderID),
		dto.UpdateOrderStatusRequest{Status: string(model.OrderStatusShipped)}, http.StatusInternalServerError, nil)
	s.Require().Equal("order status not updated", env.Message)

	s.request(http.MethodPut, "/api/v1/orders/999/status", dto.UpdateOrderStatusRequest{Status: string(model.OrderStatusShipped)}, http.StatusNotFound, nil)

	var got dto.OrderDTO
	s.request(http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", order.OrderID), nil, http.StatusOK, &got)
	s.Require().Equal(string(model.OrderStatusProcessing), got.Status)
}

func TestCheckoutRateLimit(t *testing.T) {
	limiter := ratelimit.NewTokenBucket(ratelimit.LimiterConfig{Capacity: 1, RatePS: 0.001})
	router := newTestRouter(t, limiter)

	status, _ := do(router, http.MethodPost, "/api/v1/users/1/checkout", dto.CheckoutRequest{SessionID: "s"})
	if status == http.StatusTooManyRequests {
		t.Fatalf("first request should not be limited")
	}
	status, _ = do(router, http.MethodPost, "/api/v1/users/1/checkout", dto.CheckoutRequest{SessionID: "s"})
	if status != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", status)
	}

	// 其他user不受影響
	status, _ = do(router, http.MethodPost, "/api/v1/users/2/checkout", dto.CheckoutRequest{SessionID: "s"})
	if status == http.StatusTooManyRequests {
		t.Fatalf("other user should not be limited")
	}
}
