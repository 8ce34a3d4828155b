package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"bigmanbarber/internal/db"

	"github.com/lib/pq"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrSlotTaken is returned when an insert hits the partial unique index
	// on (barber_id, appointment_date, appointment_time) for active
	// appointments. Two clients can both see a slot as free; the index is
	// what guarantees only one booking lands.
	ErrSlotTaken = errors.New("slot already booked")

	// ErrStaleStatus is returned when a status update finds the row no
	// longer in the expected state: a concurrent transition won.
	ErrStaleStatus = errors.New("appointment status changed")
)

type AppointmentRepository struct {
	DB *sql.DB
}

func NewAppointmentRepository(db *sql.DB) *AppointmentRepository {
	return &AppointmentRepository{DB: db}
}

// ActiveTimes returns the stored times of pending and confirmed appointments
// for one barber on one date. Times come back as "HH:MM:SS" text; the
// schedule engine normalizes them.
func (r *AppointmentRepository) ActiveTimes(barberID int, date string) ([]string, error) {
	query := `
		SELECT appointment_time::text
		FROM appointments
		WHERE barber_id = $1
		  AND appointment_date = $2
		  AND status IN ('pending', 'confirmed')
		ORDER BY appointment_time`

	rows, err := r.DB.Query(query, barberID, date)
	if err != nil {
		return nil, fmt.Errorf("error querying active appointment times: %w", err)
	}
	defer rows.Close()

	var times []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("error scanning appointment time: %w", err)
		}
		times = append(times, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating appointment times: %w", err)
	}
	return times, nil
}

func (r *AppointmentRepository) Create(ap *db.Appointment) error {
	query := `
		INSERT INTO appointments
		(code, user_id, user_name, user_email, user_phone, service_id, service_name, service_price,
		 barber_id, location_id, appointment_date, appointment_time, status, created_at, updated_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at, updated_at`
	err := r.DB.QueryRow(query,
		ap.Code,
		ap.UserID,
		ap.UserName,
		ap.UserEmail,
		ap.UserPhone,
		ap.ServiceID,
		ap.ServiceName,
		ap.ServicePrice,
		ap.BarberID,
		ap.LocationID,
		ap.AppointmentDate,
		ap.AppointmentTime,
		ap.Status,
		ap.CreatedAt,
		ap.UpdatedAt,
	).Scan(&ap.ID, &ap.CreatedAt, &ap.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return ErrSlotTaken
		}
		return fmt.Errorf("error inserting appointment: %w", err)
	}
	return nil
}

func (r *AppointmentRepository) GetByCode(code, email string) (*db.Appointment, error) {
	query := appointmentSelect + ` WHERE a.code = $1 AND a.user_email = $2`
	return r.scanOne(r.DB.QueryRow(query, code, email))
}

func (r *AppointmentRepository) GetByID(id int) (*db.Appointment, error) {
	query := appointmentSelect + ` WHERE a.id = $1`
	return r.scanOne(r.DB.QueryRow(query, id))
}

// UpdateStatus moves an appointment from the expected state to a new one.
// The WHERE clause makes the transition atomic: two concurrent transitions
// read the same snapshot, but only the first update matches; the loser gets
// ErrStaleStatus instead of overwriting a terminal state.
func (r *AppointmentRepository) UpdateStatus(id int, from, to string) error {
	res, err := r.DB.Exec(
		`UPDATE appointments SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`,
		to, id, from)
	if err != nil {
		return fmt.Errorf("error updating appointment status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return ErrStaleStatus
	}
	return nil
}

// List applies the admin filters that are set; empty values are skipped.
func (r *AppointmentRepository) List(date string, barberID int, status string) ([]db.Appointment, error) {
	query := appointmentSelect + ` WHERE 1=1`
	args := []interface{}{}
	idx := 1

	if date != "" {
		query += " AND a.appointment_date = $" + strconv.Itoa(idx)
		args = append(args, date)
		idx++
	}
	if barberID != 0 {
		query += " AND a.barber_id = $" + strconv.Itoa(idx)
		args = append(args, barberID)
		idx++
	}
	if status != "" {
		query += " AND a.status = $" + strconv.Itoa(idx)
		args = append(args, status)
		idx++
	}
	query += " ORDER BY a.appointment_date DESC, a.appointment_time"

	return r.queryMany(query, args...)
}

func (r *AppointmentRepository) ListByEmail(email string) ([]db.Appointment, error) {
	query := appointmentSelect + ` WHERE a.user_email = $1 ORDER BY a.appointment_date DESC, a.appointment_time`
	return r.queryMany(query, email)
}

const appointmentSelect = `
	SELECT
		a.id, a.code, COALESCE(a.user_id::text, ''), a.user_name, a.user_email, a.user_phone,
		a.service_id, a.service_name, a.service_price,
		a.barber_id, b.name AS barber_name, a.location_id,
		a.appointment_date::text, a.appointment_time::text, a.status, a.created_at, a.updated_at
	FROM appointments a
	JOIN barbers b ON b.id = a.barber_id`

func (r *AppointmentRepository) scanOne(row *sql.Row) (*db.Appointment, error) {
	var ap db.Appointment
	err := row.Scan(
		&ap.ID, &ap.Code, &ap.UserID, &ap.UserName, &ap.UserEmail, &ap.UserPhone,
		&ap.ServiceID, &ap.ServiceName, &ap.ServicePrice,
		&ap.BarberID, &ap.BarberName, &ap.LocationID,
		&ap.AppointmentDate, &ap.AppointmentTime, &ap.Status, &ap.CreatedAt, &ap.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error querying appointment: %w", err)
	}
	return &ap, nil
}

func (r *AppointmentRepository) queryMany(query string, args ...interface{}) ([]db.Appointment, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying appointments: %w", err)
	}
	defer rows.Close()

	var appointments []db.Appointment
	for rows.Next() {
		var ap db.Appointment
		err := rows.Scan(
			&ap.ID, &ap.Code, &ap.UserID, &ap.UserName, &ap.UserEmail, &ap.UserPhone,
			&ap.ServiceID, &ap.ServiceName, &ap.ServicePrice,
			&ap.BarberID, &ap.BarberName, &ap.LocationID,
			&ap.AppointmentDate, &ap.AppointmentTime, &ap.Status, &ap.CreatedAt, &ap.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning appointment: %w", err)
		}
		appointments = append(appointments, ap)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating appointments: %w", err)
	}
	return appointments, nil
}
