package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"bigmanbarber/internal/db"
	"bigmanbarber/internal/entities"
	"bigmanbarber/internal/repository"
	"bigmanbarber/internal/schedule"
)

var (
	// ErrAvailabilityCheck means the reservation store could not be queried.
	// Callers must not present it as "no slots left".
	ErrAvailabilityCheck = errors.New("could not check availability")

	// ErrSlotUnavailable means the chosen slot is booked, outside the
	// catalog, or already past the booking cutoff. The client should
	// re-query availability and pick again.
	ErrSlotUnavailable = errors.New("slot no longer available")

	ErrInvalidDate       = errors.New("invalid date")
	ErrBarberUnavailable = errors.New("barber not available for booking")
	ErrInvalidTransition = errors.New("invalid status transition")
)

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

type AppointmentStore interface {
	ActiveTimes(barberID int, date string) ([]string, error)
	Create(ap *db.Appointment) error
	GetByCode(code, email string) (*db.Appointment, error)
	GetByID(id int) (*db.Appointment, error)
	UpdateStatus(id int, from, to string) error
	List(date string, barberID int, status string) ([]db.Appointment, error)
	ListByEmail(email string) ([]db.Appointment, error)
}

type BarberStore interface {
	ListActive() ([]db.Barber, error)
	ListAll() ([]db.Barber, error)
	GetByID(id int) (*db.Barber, error)
	SetActive(id int, active bool) error
	ListServices() ([]db.Service, error)
}

type AppointmentService struct {
	store    AppointmentStore
	barbers  BarberStore
	engine   *schedule.Engine
	notifier Notifier
	clock    Clock
	loc      *time.Location
}

func NewAppointmentService(store AppointmentStore, barbers BarberStore, engine *schedule.Engine, notifier Notifier, clock Clock, loc *time.Location) *AppointmentService {
	if clock == nil {
		clock = RealClock{}
	}
	if loc == nil {
		loc = shopLocation()
	}
	return &AppointmentService{
		store:    store,
		barbers:  barbers,
		engine:   engine,
		notifier: notifier,
		clock:    clock,
		loc:      loc,
	}
}

func (s *AppointmentService) ListBarbers() ([]db.Barber, error) {
	return s.barbers.ListActive()
}

func (s *AppointmentService) ListAllBarbers() ([]db.Barber, error) {
	return s.barbers.ListAll()
}

func (s *AppointmentService) SetBarberActive(id int, active bool) error {
	return s.barbers.SetActive(id, active)
}

func (s *AppointmentService) ListServices() ([]db.Service, error) {
	return s.barbers.ListServices()
}

// Availability computes the bookable slots for a barber and date. The slot
// computation itself is pure (internal/schedule); this method fetches the
// active reservation times and injects the current wall-clock time.
func (s *AppointmentService) Availability(barberID int, dateStr string) (*entities.AvailabilityResponse, error) {
	date, err := time.ParseInLocation("2006-01-02", dateStr, s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, dateStr)
	}

	barber, err := s.barbers.GetByID(barberID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBarberUnavailable
		}
		return nil, fmt.Errorf("%w: %v", ErrAvailabilityCheck, err)
	}
	if !barber.Active {
		return nil, ErrBarberUnavailable
	}

	booked, err := s.store.ActiveTimes(barberID, dateStr)
	if err != nil {
		log.Printf("Error fetching active appointment times: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrAvailabilityCheck, err)
	}

	now := s.clock.Now().In(s.loc)
	slots := s.engine.Available(date, now, booked)

	resp := &entities.AvailabilityResponse{
		BarberID: barberID,
		Date:     dateStr,
		Slots:    []string{},
	}
	for _, slot := range slots {
		resp.Slots = append(resp.Slots, slot.String())
	}
	return resp, nil
}

// Create books a slot in pending state. The slot is re-checked against
// current availability, but the real double-booking guard is the store's
// unique index: a concurrent winner turns this insert into ErrSlotUnavailable.
func (s *AppointmentService) Create(req *entities.AppointmentRequest) (*entities.AppointmentResponse, error) {
	if req.UserName == "" || req.UserEmail == "" || req.UserPhone == "" {
		return nil, fmt.Errorf("name, email and phone are required")
	}
	slot, err := schedule.ParseTime(req.Time)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrSlotUnavailable, req.Time)
	}

	availability, err := s.Availability(req.BarberID, req.Date)
	if err != nil {
		return nil, err
	}
	offered := false
	for _, t := range availability.Slots {
		if t == slot.String() {
			offered = true
			break
		}
	}
	if !offered {
		return nil, ErrSlotUnavailable
	}

	now := s.clock.Now().In(s.loc)
	ap := &db.Appointment{
		Code:            fmt.Sprintf("%08X", now.UnixNano()%100000000),
		UserName:        req.UserName,
		UserEmail:       req.UserEmail,
		UserPhone:       req.UserPhone,
		ServiceID:       req.ServiceID,
		ServiceName:     req.ServiceName,
		ServicePrice:    req.ServicePrice,
		BarberID:        req.BarberID,
		BarberName:      req.BarberName,
		LocationID:      req.LocationID,
		AppointmentDate: req.Date,
		AppointmentTime: slot.String(),
		Status:          db.StatusPending,
		CreatedAt:       now.UTC(),
		UpdatedAt:       now.UTC(),
	}

	if err := s.store.Create(ap); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return nil, ErrSlotUnavailable
		}
		log.Printf("Error creating appointment in repository: %v", err)
		return nil, err
	}

	s.notifier.AppointmentReceived(ap)
	return toAppointmentResponse(ap), nil
}

func (s *AppointmentService) GetByCode(code, email string) (*entities.AppointmentResponse, error) {
	ap, err := s.store.GetByCode(code, email)
	if err != nil {
		return nil, err
	}
	return toAppointmentResponse(ap), nil
}

func (s *AppointmentService) ListByEmail(email string) (*entities.AppointmentsList, error) {
	appointments, err := s.store.ListByEmail(email)
	if err != nil {
		return nil, err
	}
	return toAppointmentsList(appointments), nil
}

func (s *AppointmentService) List(date string, barberID int, status string) (*entities.AppointmentsList, error) {
	appointments, err := s.store.List(date, barberID, status)
	if err != nil {
		return nil, err
	}
	return toAppointmentsList(appointments), nil
}

// CancelByCode is the customer-side cancellation: code plus the email used
// when booking.
func (s *AppointmentService) CancelByCode(code, email string) error {
	ap, err := s.store.GetByCode(code, email)
	if err != nil {
		return err
	}
	return s.transition(ap, db.StatusCancelled)
}

// ChangeStatus drives the admin-side state machine.
func (s *AppointmentService) ChangeStatus(id int, newStatus string) (*entities.AppointmentResponse, error) {
	ap, err := s.store.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.transition(ap, newStatus); err != nil {
		return nil, err
	}
	return toAppointmentResponse(ap), nil
}

// Allowed reservation status transitions. completed and cancelled are
// terminal.
var transitions = map[string][]string{
	db.StatusPending:   {db.StatusConfirmed, db.StatusCancelled},
	db.StatusConfirmed: {db.StatusCancelled, db.StatusCompleted},
}

func canTransition(from, to string) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (s *AppointmentService) transition(ap *db.Appointment, newStatus string) error {
	if !canTransition(ap.Status, newStatus) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, ap.Status, newStatus)
	}
	// The update is conditional on the status we read: if a concurrent
	// transition landed first, the row no longer matches and the store
	// reports the conflict instead of clobbering a terminal state.
	if err := s.store.UpdateStatus(ap.ID, ap.Status, newStatus); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return fmt.Errorf("%w: appointment is no longer %s", ErrInvalidTransition, ap.Status)
		}
		return err
	}
	ap.Status = newStatus

	// Completion is bookkeeping for an already-elapsed slot; no need to
	// ping the customer about it.
	if newStatus == db.StatusConfirmed || newStatus == db.StatusCancelled {
		s.notifier.AppointmentStatusChanged(ap, newStatus)
	}
	return nil
}

func toAppointmentResponse(ap *db.Appointment) *entities.AppointmentResponse {
	t := ap.AppointmentTime
	if slot, err := schedule.ParseTime(ap.AppointmentTime); err == nil {
		t = slot.String()
	}
	return &entities.AppointmentResponse{
		Code:         ap.Code,
		UserName:     ap.UserName,
		UserEmail:    ap.UserEmail,
		UserPhone:    ap.UserPhone,
		ServiceID:    ap.ServiceID,
		ServiceName:  ap.ServiceName,
		ServicePrice: ap.ServicePrice,
		BarberID:     ap.BarberID,
		BarberName:   ap.BarberName,
		Date:         ap.AppointmentDate,
		Time:         t,
		Status:       ap.Status,
		CreatedAt:    ap.CreatedAt,
		UpdatedAt:    ap.UpdatedAt,
	}
}

func toAppointmentsList(appointments []db.Appointment) *entities.AppointmentsList {
	list := &entities.AppointmentsList{
		Total:        len(appointments),
		Appointments: []entities.AppointmentResponse{},
	}
	for i := range appointments {
		list.Appointments = append(list.Appointments, *toAppointmentResponse(&appointments[i]))
	}
	return list
}
