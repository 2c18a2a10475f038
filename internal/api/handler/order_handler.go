package handler

import (
	"net/http"

	"github.com/RoyceAzure/lab/shop/internal/api"
	"github.com/RoyceAzure/lab/shop/internal/api/dto"
	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"github.com/RoyceAzure/lab/shop/internal/service"
)

type OrderHandler struct {
	orderService    *service.OrderService
	checkoutService *service.CheckoutService
}

func NewOrderHandler(orderService *service.OrderService, checkoutService *service.CheckoutService) *OrderHandler {
	if orderService == nil || checkoutService == nil {
		panic("orderService and checkoutService cannot be nil")
	}
	return &OrderHandler{
		orderService:    orderService,
		checkoutService: checkoutService,
	}
}

// POST /users/{userID}/checkout
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, err := uintParam(r, "userID")
	if err != nil {
		badParam(w, "userID")
		return
	}

	var req dto.CheckoutRequest
	if !decodeBody(w, r, &req) {
		return
	}

	order, err := h.checkoutService.Checkout(r.Context(), service.CheckoutRequest{
		UserID:    userID,
		SessionID: req.SessionID,
		AddressID: req.AddressID,
	})
	if err != nil {
		api.WriteError(w, err)
		return
	}
	api.CreatedJSON(w, dto.NewOrderDTO(order))
}

// GET /orders/{orderID}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := uintParam(r, "orderID")
	if err != nil {
		badParam(w, "orderID")
		return
	}

	order, ok := h.orderService.GetOrderByID(r.Context(), orderID)
	if !ok {
		api.WriteError(w, service.ErrOrderNotFound)
		return
	}
	api.SuccessJSON(w, dto.NewOrderDTO(order))
}

// GET /users/{userID}/orders
func (h *OrderHandler) GetUserOrders(w http.ResponseWriter, r *http.Request) {
	userID, err := uintParam(r, "userID")
	if err != nil {
		badParam(w, "userID")
		return
	}

	orders := h.orderService.GetUserOrders(r.Context(), userID)
	res := make([]dto.OrderDTO, len(orders))
	for i := range orders {
		res[i] = dto.NewOrderDTO(&orders[i])
	}
	api.SuccessJSON(w, res)
}

// GET /orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders := h.orderService.ListOrders(r.Context())
	res := make([]dto.OrderDTO, len(orders))
	for i := range orders {
		res[i] = dto.NewOrderDTO(&orders[i])
	}
	api.SuccessJSON(w, res)
}

// POST /orders/{orderID}/cancel
// 只有 Processing 狀態能取消，否則回 409
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := uintParam(r, "orderID")
	if err != nil {
		badParam(w, "orderID")
		return
	}

	result := h.checkoutService.CancelOrder(r.Context(), orderID)
	if !result.Cancelled {
		api.ErrorJSON(w, http.StatusConflict, "order cannot be cancelled")
		return
	}

	res := dto.CancelOrderResponse{
		OrderID:   orderID,
		Cancelled: true,
		Restored:  result.Restored,
	}
	for _, item := range result.FailedItems {
		res.FailedProductIDs = append(res.FailedProductIDs, item.ProductID)
	}
	api.SuccessJSON(w, res)
}

// PUT /orders/{orderID}/status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := uintParam(r, "orderID")
	if err != nil {
		badParam(w, "orderID")
		return
	}

	var req dto.UpdateOrderStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}

	status, err := model.ParseOrderStatus(req.Status)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	// 先確認訂單存在，之後更新失敗就是儲存層的問題
	if _, ok := h.orderService.GetOrderByID(r.Context(), orderID); !ok {
		api.WriteError(w, service.ErrOrderNotFound)
		return
	}

	if !h.orderService.UpdateOrderStatus(r.Context(), orderID, status) {
		api.ErrorJSON(w, http.StatusInternalServerError, "order status not updated")
		return
	}

	order, ok := h.orderService.GetOrderByID(r.Context(), orderID)
	if !ok {
		api.ErrorJSON(w, http.StatusInternalServerError, "order status not updated")
		return
	}
	api.SuccessJSON(w, dto.NewOrderDTO(order))
}
