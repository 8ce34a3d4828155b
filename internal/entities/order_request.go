package entities

type OrderItemRequest struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

type OrderRequest struct {
	CustomerName  string             `json:"name"`
	CustomerPhone string             `json:"phone"`
	Address       string             `json:"address"`
	Neighborhood  string             `json:"neighborhood"`
	City          string             `json:"city"`
	State         string             `json:"state"`
	ZipCode       string             `json:"zip_code"`
	PaymentMethod string             `json:"payment_method"` // "pix" or "delivery"
	Items         []OrderItemRequest `json:"items"`
}

type OrderResponse struct {
	Code    string  `json:"code"`
	Total   float64 `json:"total"`
	Message string  `json:"message"`
}
