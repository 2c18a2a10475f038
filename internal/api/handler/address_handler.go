package handler

import (
	"net/http"

	"github.com/RoyceAzure/lab/shop/internal/api"
	"github.com/RoyceAzure/lab/shop/internal/api/dto"
	"github.com/RoyceAzure/lab/shop/internal/service"
)

type AddressHandler struct {
	addressService *service.AddressService
}

func NewAddressHandler(addressService *service.AddressService) *AddressHandler {
	if addressService == nil {
		panic("addressService cannot be nil")
	}
	return &AddressHandler{addressService: addressService}
}

// GET /users/{userID}/addresses
func (h *AddressHandler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	userID, err := uintParam(r, "userID")
	if err != nil {
		badParam(w, "userID")
		return
	}

	addresses, err := h.addressService.GetUserAddresses(r.Context(), userID)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	api.SuccessJSON(w, addresses)
}

// POST /users/{userID}/addresses
func (h *AddressHandler) AddAddress(w http.ResponseWriter, r *http.Request) {
	userID, err := uintParam(r, "userID")
	if err != nil {
		badParam(w, "userID")
		return
	}

	var req dto.AddressRequest
	if !decodeBody(w, r, &req) {
		return
	}

	address := req.ToModel(userID, 0)
	if err := h.addressService.AddAddress(r.Context(), address); err != nil {
		api.WriteError(w, err)
		return
	}
	api.CreatedJSON(w, address)
}

// PUT /addresses/{addressID}
func (h *AddressHandler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	addressID, err := uintParam(r, "addressID")
	if err != nil {
		badParam(w, "addressID")
		return
	}

	var req dto.AddressRequest
	if !decodeBody(w, r, &req) {
		return
	}

	address := req.ToModel(0, addressID)
	if err := h.addressService.UpdateAddress(r.Context(), address); err != nil {
		api.WriteError(w, err)
		return
	}
	api.SuccessJSON(w, address)
}

// DELETE /addresses/{addressID}
func (h *AddressHandler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	addressID, err := uintParam(r, "addressID")
	if err != nil {
		badParam(w, "addressID")
		return
	}

	if err := h.addressService.DeleteAddress(r.Context(), addressID); err != nil {
		api.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
