package api

// Admin auth
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

// Admin appointment status change
type StatusUpdateRequest struct {
	Status string `json:"status"`
}

// Barber activation
type BarberActiveRequest struct {
	Active bool `json:"active"`
}

type BarberResponse struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty,omitempty"`
	Active    bool   `json:"active"`
}

type ServiceResponse struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type ProductResponse struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	ImageURL    string  `json:"image_url,omitempty"`
}
