package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"bigmanbarber/internal/entities"
	"bigmanbarber/internal/repository"
	"bigmanbarber/internal/service"

	"github.com/gorilla/mux"
)

type BookingHandler struct {
	Service *service.AppointmentService
}

func NewBookingHandler(svc *service.AppointmentService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

func (h *BookingHandler) ListBarbers(w http.ResponseWriter, r *http.Request) {
	barbers, err := h.Service.ListBarbers()
	if err != nil {
		http.Error(w, "Could not list barbers", http.StatusInternalServerError)
		return
	}
	resp := []BarberResponse{}
	for _, b := range barbers {
		resp = append(resp, BarberResponse{ID: b.ID, Name: b.Name, Specialty: b.Specialty, Active: b.Active})
	}
	writeJSON(w, resp)
}

func (h *BookingHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.Service.ListServices()
	if err != nil {
		http.Error(w, "Could not list services", http.StatusInternalServerError)
		return
	}
	resp := []ServiceResponse{}
	for _, s := range services {
		resp = append(resp, ServiceResponse{ID: s.ID, Name: s.Name, Price: s.Price})
	}
	writeJSON(w, resp)
}

// CheckAvailability returns the bookable slots for a barber and date. A
// store failure is 503, never an empty slot list: the client must be able
// to tell "fully booked" from "could not check".
func (h *BookingHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	var req entities.AvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	availability, err := h.Service.Availability(req.BarberID, req.Date)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDate):
			http.Error(w, "Invalid date", http.StatusBadRequest)
		case errors.Is(err, service.ErrBarberUnavailable):
			http.Error(w, "Barber not available", http.StatusNotFound)
		default:
			http.Error(w, "Could not check availability, try again", http.StatusServiceUnavailable)
		}
		return
	}
	writeJSON(w, availability)
}

func (h *BookingHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req entities.AppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	resp, err := h.Service.Create(&req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSlotUnavailable):
			http.Error(w, "Slot no longer available, pick another time", http.StatusConflict)
		case errors.Is(err, service.ErrInvalidDate):
			http.Error(w, "Invalid date", http.StatusBadRequest)
		case errors.Is(err, service.ErrBarberUnavailable):
			http.Error(w, "Barber not available", http.StatusNotFound)
		case errors.Is(err, service.ErrAvailabilityCheck):
			http.Error(w, "Could not check availability, try again", http.StatusServiceUnavailable)
		default:
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	}
	writeJSON(w, map[string]interface{}{
		"appointment": resp,
		"message":     "Appointment created and pending confirmation.",
	})
}

func (h *BookingHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	email := r.URL.Query().Get("email")
	resp, err := h.Service.GetByCode(code, email)
	if err != nil {
		http.Error(w, "Appointment not found", http.StatusNotFound)
		return
	}
	writeJSON(w, resp)
}

func (h *BookingHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		http.Error(w, "email is required", http.StatusBadRequest)
		return
	}
	list, err := h.Service.ListByEmail(email)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, list)
}

func (h *BookingHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	email := r.URL.Query().Get("email")
	err := h.Service.CancelByCode(code, email)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			http.Error(w, "Appointment not found", http.StatusNotFound)
		case errors.Is(err, service.ErrInvalidTransition):
			http.Error(w, "Appointment can no longer be cancelled", http.StatusConflict)
		default:
			http.Error(w, "Could not cancel appointment", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, map[string]string{"message": "Appointment cancelled"})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
