package service

import (
	"errors"
	"testing"
	"time"

	"bigmanbarber/internal/db"
	"bigmanbarber/internal/entities"
	"bigmanbarber/internal/repository"
	"bigmanbarber/internal/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAppointmentStore struct {
	mock.Mock
}

func (m *MockAppointmentStore) ActiveTimes(barberID int, date string) ([]string, error) {
	args := m.Called(barberID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAppointmentStore) Create(ap *db.Appointment) error {
	return m.Called(ap).Error(0)
}

func (m *MockAppointmentStore) GetByCode(code, email string) (*db.Appointment, error) {
	args := m.Called(code, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db.Appointment), args.Error(1)
}

func (m *MockAppointmentStore) GetByID(id int) (*db.Appointment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db.Appointment), args.Error(1)
}

func (m *MockAppointmentStore) UpdateStatus(id int, from, to string) error {
	return m.Called(id, from, to).Error(0)
}

func (m *MockAppointmentStore) List(date string, barberID int, status string) ([]db.Appointment, error) {
	args := m.Called(date, barberID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]db.Appointment), args.Error(1)
}

func (m *MockAppointmentStore) ListByEmail(email string) ([]db.Appointment, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]db.Appointment), args.Error(1)
}

type MockBarberStore struct {
	mock.Mock
}

func (m *MockBarberStore) ListActive() ([]db.Barber, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]db.Barber), args.Error(1)
}

func (m *MockBarberStore) ListAll() ([]db.Barber, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]db.Barber), args.Error(1)
}

func (m *MockBarberStore) GetByID(id int) (*db.Barber, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db.Barber), args.Error(1)
}

func (m *MockBarberStore) SetActive(id int, active bool) error {
	return m.Called(id, active).Error(0)
}

func (m *MockBarberStore) ListServices() ([]db.Service, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]db.Service), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) AppointmentReceived(ap *db.Appointment) {
	m.Called(ap)
}

func (m *MockNotifier) AppointmentStatusChanged(ap *db.Appointment, status string) {
	m.Called(ap, status)
}

func (m *MockNotifier) OrderPlaced(order *db.Order) {
	m.Called(order)
}

type frozenClock struct {
	t time.Time
}

func (c frozenClock) Now() time.Time { return c.t }

func newTestService(store *MockAppointmentStore, barbers *MockBarberStore, notifier *MockNotifier, now time.Time) *AppointmentService {
	engine := schedule.NewEngine(schedule.DefaultConfig())
	return NewAppointmentService(store, barbers, engine, notifier, frozenClock{t: now}, time.UTC)
}

func activeBarber() *db.Barber {
	return &db.Barber{ID: 3, Name: "Carlos", Active: true}
}

func TestAvailability_ExcludesBookedSlots(t *testing.T) {
	store := &MockAppointmentStore{}
	barbers := &MockBarberStore{}
	notifier := &MockNotifier{}
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	svc := newTestService(store, barbers, notifier, now)

	barbers.On("GetByID", 3).Return(activeBarber(), nil).Once()
	store.On("ActiveTimes", 3, "2025-03-15").Return([]string{"10:00:00", "14:30:00"}, nil).Once()

	resp, err := svc.Availability(3, "2025-03-15")

	require.NoError(t, err)
	assert.NotContains(t, resp.Slots, "10:00")
	assert.NotContains(t, resp.Slots, "14:30")
	assert.Contains(t, resp.Slots, "09:00")
	assert.Len(t, resp.Slots, 21)
	store.AssertExpectations(t)
	barbers.AssertExpectations(t)
}

func TestAvailability_StoreFailureIsNotEmptyResult(t *testing.T) {
	store := &MockAppointmentStore{}
	barbers := &MockBarberStore{}
	notifier := &MockNotifier{}
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	svc := newTestService(store, barbers, notifier, now)

	barbers.On("GetByID", 3).Return(activeBarber(), nil).Once()
	store.On("ActiveTimes", 3, "2025-03-15").Return(nil, errors.New("connection refused")).Once()

	resp, err := svc.Availability(3, "2025-03-15")

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrAvailabilityCheck)
}

func TestAvailability_InvalidDate(t *testing.T) {
	svc := newTestService(&MockAppointmentStore{}, &MockBarberStore{}, &MockNotifier{}, time.Now())

	_, err := svc.Availability(3, "15/03/2025")

	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestAvailability_InactiveBarber(t *testing.T) {
	store := &MockAppointmentStore{}
	barbers := &MockBarberStore{}
	svc := newTestService(store, barbers, &MockNotifier{}, time.Now())

	barbers.On("GetByID", 7).Return(&db.Barber{ID: 7, Active: false}, nil).Once()

	_, err := svc.Availability(7, "2025-03-15")

	assert.ErrorIs(t, err, ErrBarberUnavailable)
	store.AssertNotCalled(t, "ActiveTimes", mock.Anything, mock.Anything)
}

func bookingRequest() *entities.AppointmentRequest {
	return &entities.AppointmentRequest{
		UserName:     "João",
		UserEmail:    "joao@example.com",
		UserPhone:    "(61) 99999-1234",
		ServiceID:    4,
		ServiceName:  "Corte degradê navalhado",
		ServicePrice: 40,
		BarberID:     3,
		BarberName:   "Carlos",
		LocationID:   1,
		Date:         "2025-03-15",
		Time:         "10:00",
	}
}

func TestCreateAppointment_Success(t *testing.T) {
	store := &MockAppointmentStore{}
	barbers := &MockBarberStore{}
	notifier := &MockNotifier{}
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	svc := newTestService(store, barbers, notifier, now)

	barbers.On("GetByID", 3).Return(activeBarber(), nil).Once()
	store.On("ActiveTimes", 3, "2025-03-15").Return([]string{}, nil).Once()
	store.On("Create", mock.AnythingOfType("*db.Appointment")).Return(nil).Once()
	notifier.On("AppointmentReceived", mock.AnythingOfType("*db.Appointment")).Return().Once()

	resp, err := svc.Create(bookingRequest())

	require.NoError(t, err)
	assert.Equal(t, db.StatusPending, resp.Status)
	assert.Equal(t, "10:00", resp.Time)
	assert.NotEmpty(t, resp.Code)
	store.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestCreateAppointment_SlotAlreadyBooked(t *testing.T) {
	store := &MockAppointmentStore{}
	barbers := &MockBarberStore{}
	notifier := &MockNotifier{}
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	svc := newTestService(store, barbers, notifier, now)

	barbers.On("GetByID", 3).Return(activeBarber(), nil).Once()
	store.On("ActiveTimes", 3, "2025-03-15").Return([]string{"10:00:00"}, nil).Once()

	_, err := svc.Create(bookingRequest())

	assert.ErrorIs(t, err, ErrSlotUnavailable)
	store.AssertNotCalled(t, "Create", mock.Anything)
	notifier.AssertNotCalled(t, "AppointmentReceived", mock.Anything)
}

func TestCreateAppointment_LosesCommitRace(t *testing.T) {
	// Availability said the slot was free, but a concurrent booking won the
	// insert: the unique index rejection surfaces as ErrSlotUnavailable.
	store := &MockAppointmentStore{}
	barbers := &MockBarberStore{}
	notifier := &MockNotifier{}
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	svc := newTestService(store, barbers, notifier, now)

	barbers.On("GetByID", 3).Return(activeBarber(), nil).Once()
	store.On("ActiveTimes", 3, "2025-03-15").Return([]string{}, nil).Once()
	store.On("Create", mock.AnythingOfType("*db.Appointment")).Return(repository.ErrSlotTaken).Once()

	_, err := svc.Create(bookingRequest())

	assert.ErrorIs(t, err, ErrSlotUnavailable)
	notifier.AssertNotCalled(t, "AppointmentReceived", mock.Anything)
}

func TestCreateAppointment_PastCutoffSlot(t *testing.T) {
	store := &MockAppointmentStore{}
	barbers := &MockBarberStore{}
	notifier := &MockNotifier{}
	// Same-day booking at 09:50 for a 10:00 slot: inside the 30-min buffer.
	now := time.Date(2025, time.March, 15, 9, 50, 0, 0, time.UTC)
	svc := newTestService(store, barbers, notifier, now)

	barbers.On("GetByID", 3).Return(activeBarber(), nil).Once()
	store.On("ActiveTimes", 3, "2025-03-15").Return([]string{}, nil).Once()

	_, err := svc.Create(bookingRequest())

	assert.ErrorIs(t, err, ErrSlotUnavailable)
	store.AssertNotCalled(t, "Create", mock.Anything)
}

func TestChangeStatus_PendingToConfirmed(t *testing.T) {
	store := &MockAppointmentStore{}
	notifier := &MockNotifier{}
	svc := newTestService(store, &MockBarberStore{}, notifier, time.Now())

	ap := &db.Appointment{ID: 12, Code: "AB12CD34", Status: db.StatusPending, AppointmentDate: "2025-03-15", AppointmentTime: "10:00:00"}
	store.On("GetByID", 12).Return(ap, nil).Once()
	store.On("UpdateStatus", 12, db.StatusPending, db.StatusConfirmed).Return(nil).Once()
	notifier.On("AppointmentStatusChanged", ap, db.StatusConfirmed).Return().Once()

	resp, err := svc.ChangeStatus(12, db.StatusConfirmed)

	require.NoError(t, err)
	assert.Equal(t, db.StatusConfirmed, resp.Status)
	store.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestChangeStatus_CompletionDoesNotNotify(t *testing.T) {
	store := &MockAppointmentStore{}
	notifier := &MockNotifier{}
	svc := newTestService(store, &MockBarberStore{}, notifier, time.Now())

	ap := &db.Appointment{ID: 12, Status: db.StatusConfirmed}
	store.On("GetByID", 12).Return(ap, nil).Once()
	store.On("UpdateStatus", 12, db.StatusConfirmed, db.StatusCompleted).Return(nil).Once()

	_, err := svc.ChangeStatus(12, db.StatusCompleted)

	require.NoError(t, err)
	notifier.AssertNotCalled(t, "AppointmentStatusChanged", mock.Anything, mock.Anything)
}

func TestChangeStatus_TerminalStatesRejected(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
	}{
		{name: "cancelled to confirmed", from: db.StatusCancelled, to: db.StatusConfirmed},
		{name: "completed to cancelled", from: db.StatusCompleted, to: db.StatusCancelled},
		{name: "pending to completed", from: db.StatusPending, to: db.StatusCompleted},
		{name: "unknown target", from: db.StatusPending, to: "archived"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &MockAppointmentStore{}
			svc := newTestService(store, &MockBarberStore{}, &MockNotifier{}, time.Now())

			store.On("GetByID", 5).Return(&db.Appointment{ID: 5, Status: tt.from}, nil).Once()

			_, err := svc.ChangeStatus(5, tt.to)

			assert.ErrorIs(t, err, ErrInvalidTransition)
			store.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestChangeStatus_LostTransitionRace(t *testing.T) {
	// A customer cancellation and an admin confirm read the same pending
	// snapshot. The cancel commits first, so the confirm's conditional
	// update matches no row: the cancelled appointment must stay cancelled
	// and the admin gets an invalid-transition error, not a silent win.
	store := &MockAppointmentStore{}
	notifier := &MockNotifier{}
	svc := newTestService(store, &MockBarberStore{}, notifier, time.Now())

	ap := &db.Appointment{ID: 12, Code: "AB12CD34", Status: db.StatusPending}
	store.On("GetByID", 12).Return(ap, nil).Once()
	store.On("UpdateStatus", 12, db.StatusPending, db.StatusConfirmed).
		Return(repository.ErrStaleStatus).Once()

	_, err := svc.ChangeStatus(12, db.StatusConfirmed)

	assert.ErrorIs(t, err, ErrInvalidTransition)
	notifier.AssertNotCalled(t, "AppointmentStatusChanged", mock.Anything, mock.Anything)
	store.AssertExpectations(t)
}

func TestCancelByCode(t *testing.T) {
	store := &MockAppointmentStore{}
	notifier := &MockNotifier{}
	svc := newTestService(store, &MockBarberStore{}, notifier, time.Now())

	ap := &db.Appointment{ID: 9, Code: "FFAA0011", Status: db.StatusConfirmed}
	store.On("GetByCode", "FFAA0011", "joao@example.com").Return(ap, nil).Once()
	store.On("UpdateStatus", 9, db.StatusConfirmed, db.StatusCancelled).Return(nil).Once()
	notifier.On("AppointmentStatusChanged", ap, db.StatusCancelled).Return().Once()

	err := svc.CancelByCode("FFAA0011", "joao@example.com")

	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestCancelByCode_AlreadyCancelled(t *testing.T) {
	store := &MockAppointmentStore{}
	svc := newTestService(store, &MockBarberStore{}, &MockNotifier{}, time.Now())

	store.On("GetByCode", "FFAA0011", "joao@example.com").
		Return(&db.Appointment{ID: 9, Status: db.StatusCancelled}, nil).Once()

	err := svc.CancelByCode("FFAA0011", "joao@example.com")

	assert.ErrorIs(t, err, ErrInvalidTransition)
}
