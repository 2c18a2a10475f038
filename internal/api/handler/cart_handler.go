package handler

import (
	"net/http"

	"github.com/RoyceAzure/lab/shop/internal/api"
	"github.com/RoyceAzure/lab/shop/internal/api/dto"
	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"github.com/RoyceAzure/lab/shop/internal/service"
	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	cartService *service.CartService
}

func NewCartHandler(cartService *service.CartService) *CartHandler {
	if cartService == nil {
		panic("cartService cannot be nil")
	}
	return &CartHandler{cartService: cartService}
}

// GET /carts/{sessionID}
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	cart, err := h.cartService.GetCart(r.Context(), sessionID)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	api.SuccessJSON(w, dto.NewCartDTO(sessionID, cart))
}

// POST /carts/{sessionID}/items
// 名稱與價格以商品目前資料為準
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req dto.CartItemRequest
	if !decodeBody(w, r, &req) {
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	cart, err := h.cartService.AddProduct(r.Context(), sessionID, req.ProductID, model.Colour(req.Colour), model.Size(req.Size), req.Quantity)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	api.SuccessJSON(w, dto.NewCartDTO(sessionID, cart))
}

// PATCH /carts/{sessionID}/items
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req dto.CartItemRequest
	if !decodeBody(w, r, &req) {
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	cart, err := h.cartService.UpdateQuantity(r.Context(), sessionID, req.ProductID, model.Colour(req.Colour), model.Size(req.Size), req.Quantity)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	api.SuccessJSON(w, dto.NewCartDTO(sessionID, cart))
}

// DELETE /carts/{sessionID}/items?product_id=&colour=&size=
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, err := uintQuery(r, "product_id")
	if err != nil {
		badParam(w, "product_id")
		return
	}

	q := r.URL.Query()
	sessionID := chi.URLParam(r, "sessionID")
	cart, err := h.cartService.RemoveItem(r.Context(), sessionID, productID, model.Colour(q.Get("colour")), model.Size(q.Get("size")))
	if err != nil {
		api.WriteError(w, err)
		return
	}
	api.SuccessJSON(w, dto.NewCartDTO(sessionID, cart))
}

// DELETE /carts/{sessionID}
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.cartService.Clear(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		api.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
