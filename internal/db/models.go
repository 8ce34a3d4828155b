package db

import "time"

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

type Barber struct {
	ID        int
	Name      string
	Specialty string
	Active    bool
}

type Service struct {
	ID    int
	Name  string
	Price float64
}

type Appointment struct {
	ID              int
	Code            string
	UserID          string
	UserName        string
	UserEmail       string
	UserPhone       string
	ServiceID       int
	ServiceName     string
	ServicePrice    float64
	BarberID        int
	BarberName      string
	LocationID      int
	AppointmentDate string // "2006-01-02"
	AppointmentTime string // "15:04", may carry seconds when read back
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Product struct {
	ID          int
	Name        string
	Description string
	Price       float64
	Stock       int
	ImageURL    string
}

type Order struct {
	ID            int
	Code          string
	CustomerName  string
	CustomerPhone string
	Address       string
	Neighborhood  string
	City          string
	State         string
	ZipCode       string
	PaymentMethod string
	Total         float64
	Status        string
	CreatedAt     time.Time
	Items         []OrderItem
}

type OrderItem struct {
	ProductID   int
	ProductName string
	UnitPrice   float64
	Quantity    int
}
