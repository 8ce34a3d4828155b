package repository

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{DB: db}
}

// GetConfirmedAppointmentIDsPastSlotEnd returns confirmed appointments whose
// slot has already elapsed. slotLength is how long after the slot start the
// appointment is considered over. localNow must already be in the shop's
// timezone: appointment_date and appointment_time are naive shop-local
// columns, so the cutoff is sent as a naive timestamp rather than a
// timestamptz Postgres would read as UTC.
func (r *JobRepository) GetConfirmedAppointmentIDsPastSlotEnd(localNow time.Time, slotLength time.Duration) ([]int, error) {
	query := `
		SELECT id FROM appointments
		WHERE status = 'confirmed'
		  AND (appointment_date + appointment_time + $2::interval) < $1::timestamp`
	rows, err := r.DB.Query(query, localNow.Format("2006-01-02 15:04:05"), fmt.Sprintf("%d minutes", int(slotLength.Minutes())))
	if err != nil {
		return nil, fmt.Errorf("error querying confirmed appointments past slot end: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning appointment ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return ids, nil
}

// UpdateAppointmentStatuses moves a batch of appointments to newStatus.
func (r *JobRepository) UpdateAppointmentStatuses(ids []int, newStatus string) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE appointments SET status = $1, updated_at = NOW() WHERE id = ANY($2)`
	result, err := r.DB.Exec(query, newStatus, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("error updating appointment statuses: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Printf("Could not get rows affected: %v", err)
	} else {
		log.Printf("Updated status for %d appointments to '%s'", rowsAffected, newStatus)
	}
	return nil
}

// CancelPendingAppointmentsOlderThan cancels pending appointments created
// before the given time that were never confirmed.
func (r *JobRepository) CancelPendingAppointmentsOlderThan(before time.Time) (int64, error) {
	result, err := r.DB.Exec(`
		UPDATE appointments SET status = 'cancelled', updated_at = NOW()
		WHERE status = 'pending' AND created_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("error cancelling stale pending appointments: %w", err)
	}
	return result.RowsAffected()
}
