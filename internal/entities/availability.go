package entities

type AvailabilityRequest struct {
	BarberID int    `json:"barber_id"`
	Date     string `json:"date"` // "2006-01-02"
}

type AvailabilityResponse struct {
	BarberID int      `json:"barber_id"`
	Date     string   `json:"date"`
	Slots    []string `json:"slots"`
}
