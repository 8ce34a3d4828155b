package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"bigmanbarber/internal/repository"
	"bigmanbarber/internal/service"

	"github.com/gorilla/mux"
)

type AdminHandler struct {
	Service *service.AppointmentService
}

func NewAdminHandler(svc *service.AppointmentService) *AdminHandler {
	return &AdminHandler{Service: svc}
}

func (h *AdminHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	status := r.URL.Query().Get("status")
	barberID := 0
	if v := r.URL.Query().Get("barber_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "Invalid barber_id", http.StatusBadRequest)
			return
		}
		barberID = id
	}

	list, err := h.Service.List(date, barberID, status)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, list)
}

// UpdateAppointmentStatus drives the appointment state machine: confirm,
// cancel or complete. Terminal states are rejected with 409.
func (h *AdminHandler) UpdateAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	var req StatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	resp, err := h.Service.ChangeStatus(id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			http.Error(w, "Appointment not found", http.StatusNotFound)
		case errors.Is(err, service.ErrInvalidTransition):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, "Could not update appointment", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, resp)
}

func (h *AdminHandler) ListBarbers(w http.ResponseWriter, r *http.Request) {
	barbers, err := h.Service.ListAllBarbers()
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	resp := []BarberResponse{}
	for _, b := range barbers {
		resp = append(resp, BarberResponse{ID: b.ID, Name: b.Name, Specialty: b.Specialty, Active: b.Active})
	}
	writeJSON(w, resp)
}

func (h *AdminHandler) SetBarberActive(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	var req BarberActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if err := h.Service.SetBarberActive(id, req.Active); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "Barber not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Could not update barber", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"message": "Barber updated"})
}
