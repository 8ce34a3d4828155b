package service

import (
	"fmt"
	"log"
	"time"

	"bigmanbarber/internal/db"
)

// JobStore is the slice of the job repository the cron sweeps need.
type JobStore interface {
	GetConfirmedAppointmentIDsPastSlotEnd(localNow time.Time, slotLength time.Duration) ([]int, error)
	UpdateAppointmentStatuses(ids []int, newStatus string) error
	CancelPendingAppointmentsOlderThan(before time.Time) (int64, error)
}

type JobService struct {
	store JobStore
	clock Clock
	loc   *time.Location
}

func NewJobService(store JobStore, clock Clock, loc *time.Location) *JobService {
	if clock == nil {
		clock = RealClock{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &JobService{store: store, clock: clock, loc: loc}
}

// CompleteElapsedAppointments moves confirmed appointments whose slot has
// already passed into the terminal completed state. slotLength should match
// the schedule granularity. Slot columns hold shop-local wall time, so the
// comparison point is converted to the shop's timezone first.
func (s *JobService) CompleteElapsedAppointments(slotLength time.Duration) error {
	log.Println("Cron Job: Checking for appointments to mark as 'completed'...")

	ids, err := s.store.GetConfirmedAppointmentIDsPastSlotEnd(s.clock.Now().In(s.loc), slotLength)
	if err != nil {
		return fmt.Errorf("cron job: failed to get confirmed appointments past slot end: %w", err)
	}

	if len(ids) == 0 {
		log.Println("Cron Job: No confirmed appointments found past their slot.")
		return nil
	}

	log.Printf("Cron Job: Found %d appointments to mark as 'completed'. IDs: %v", len(ids), ids)

	if err := s.store.UpdateAppointmentStatuses(ids, db.StatusCompleted); err != nil {
		return fmt.Errorf("cron job: failed to update appointment statuses: %w", err)
	}
	return nil
}

// CancelStalePendingAppointments cancels pending appointments the admin never
// acted on within maxAge, so their slots go back on offer.
func (s *JobService) CancelStalePendingAppointments(maxAge time.Duration) (int64, error) {
	return s.store.CancelPendingAppointmentsOlderThan(s.clock.Now().Add(-maxAge))
}
