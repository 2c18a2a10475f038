package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"github.com/RoyceAzure/lab/shop/internal/service"
)

type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func SuccessJSON(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Response{Code: http.StatusOK, Message: "success", Data: data})
}

func CreatedJSON(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, Response{Code: http.StatusCreated, Message: "created", Data: data})
}

func ErrorJSON(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Response{Code: status, Message: message})
}

// StatusOf sentinel error 對應 http status
func StatusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrConflictingVariants),
		errors.Is(err, service.ErrCartConflict),
		errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrAddressNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrInvalidSession),
		errors.Is(err, service.ErrInvalidAddress),
		errors.Is(err, service.ErrInvalidProduct),
		errors.Is(err, service.ErrInvalidUser),
		errors.Is(err, service.ErrEmptyOrder),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrNoShippingAddress),
		errors.Is(err, model.ErrInvalidColour),
		errors.Is(err, model.ErrInvalidSize),
		errors.Is(err, model.ErrInvalidOrderStatus):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// WriteError 500 不回傳內部錯誤內容
func WriteError(w http.ResponseWriter, err error) {
	status := StatusOf(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = http.StatusText(status)
		if errors.Is(err, service.ErrOrderNotPlaced) {
			message = service.ErrOrderNotPlaced.Error()
		}
	}
	ErrorJSON(w, status, message)
}
