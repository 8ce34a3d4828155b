package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"bigmanbarber/internal/entities"
	"bigmanbarber/internal/repository"
	"bigmanbarber/internal/service"
)

type ShopHandler struct {
	Service *service.ShopService
}

func NewShopHandler(svc *service.ShopService) *ShopHandler {
	return &ShopHandler{Service: svc}
}

func (h *ShopHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Service.ListProducts()
	if err != nil {
		http.Error(w, "Could not list products", http.StatusInternalServerError)
		return
	}
	resp := []ProductResponse{}
	for _, p := range products {
		resp = append(resp, ProductResponse{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			Stock:       p.Stock,
			ImageURL:    p.ImageURL,
		})
	}
	writeJSON(w, resp)
}

func (h *ShopHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req entities.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	resp, err := h.Service.CreateOrder(&req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInsufficientStock):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, repository.ErrNotFound):
			http.Error(w, "Product not found", http.StatusNotFound)
		default:
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	}
	writeJSON(w, resp)
}
