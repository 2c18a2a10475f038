package handler

import (
	"net/http"

	"github.com/RoyceAzure/lab/shop/internal/api"
	"github.com/RoyceAzure/lab/shop/internal/api/dto"
	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"github.com/RoyceAzure/lab/shop/internal/service"
)

type ProductHandler struct {
	productService   *service.ProductService
	inventoryService *service.InventoryService
}

func NewProductHandler(productService *service.ProductService, inventoryService *service.InventoryService) *ProductHandler {
	if productService == nil || inventoryService == nil {
		panic("productService and inventoryService cannot be nil")
	}
	return &ProductHandler{
		productService:   productService,
		inventoryService: inventoryService,
	}
}

// GET /products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.ListProducts(r.Context())
	if err != nil {
		api.WriteError(w, err)
		return
	}
	api.SuccessJSON(w, products)
}

// POST /products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateProductRequest
	if !decodeBody(w, r, &req) {
		return
	}

	product := &model.Product{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Stock:    req.Stock,
	}
	if err := h.productService.CreateProduct(r.Context(), product); err != nil {
		api.WriteError(w, err)
		return
	}
	api.CreatedJSON(w, product)
}

// GET /products/{productID}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := uintParam(r, "productID")
	if err != nil {
		badParam(w, "productID")
		return
	}

	product, err := h.productService.GetProduct(r.Context(), productID)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	api.SuccessJSON(w, product)
}

// GET /products/{productID}/stock?colour=&size=
// 商品不存在時庫存為 0
func (h *ProductHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	productID, err := uintParam(r, "productID")
	if err != nil {
		badParam(w, "productID")
		return
	}

	q := r.URL.Query()
	colour, size := q.Get("colour"), q.Get("size")
	stock := h.inventoryService.GetCurrentStock(r.Context(), productID, model.Colour(colour), model.Size(size))
	api.SuccessJSON(w, dto.StockResponse{
		ProductID: productID,
		Colour:    colour,
		Size:      size,
		Stock:     stock,
	})
}
