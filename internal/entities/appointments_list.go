package entities

type AppointmentsList struct {
	Total        int                   `json:"total"`
	Appointments []AppointmentResponse `json:"appointments"`
}
