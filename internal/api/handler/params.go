package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/RoyceAzure/lab/shop/internal/api"
	"github.com/go-chi/chi/v5"
)

var errBadParam = errors.New("invalid path parameter")

func uintParam(r *http.Request, name string) (uint, error) {
	v, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil || v == 0 {
		return 0, errBadParam
	}
	return uint(v), nil
}

func uintQuery(r *http.Request, name string) (uint, error) {
	v, err := strconv.ParseUint(r.URL.Query().Get(name), 10, 64)
	if err != nil || v == 0 {
		return 0, errBadParam
	}
	return uint(v), nil
}

// decodeBody 失敗時直接寫回 400
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func badParam(w http.ResponseWriter, name string) {
	api.ErrorJSON(w, http.StatusBadRequest, "invalid "+name)
}
