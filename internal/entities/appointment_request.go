package entities

import "time"

type AppointmentRequest struct {
	UserName     string  `json:"name"`
	UserEmail    string  `json:"email"`
	UserPhone    string  `json:"phone"`
	ServiceID    int     `json:"service_id"`
	ServiceName  string  `json:"service_name"`
	ServicePrice float64 `json:"service_price"`
	BarberID     int     `json:"barber_id"`
	BarberName   string  `json:"barber_name"`
	LocationID   int     `json:"location_id"`
	Date         string  `json:"date"` // "2006-01-02"
	Time         string  `json:"time"` // "15:04"
}

type AppointmentResponse struct {
	Code         string    `json:"code"`
	UserName     string    `json:"user_name"`
	UserEmail    string    `json:"user_email"`
	UserPhone    string    `json:"user_phone"`
	ServiceID    int       `json:"service_id"`
	ServiceName  string    `json:"service_name"`
	ServicePrice float64   `json:"service_price"`
	BarberID     int       `json:"barber_id"`
	BarberName   string    `json:"barber_name,omitempty"`
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
