package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"bigmanbarber/internal/db"
)

type BarberRepository struct {
	DB *sql.DB
}

func NewBarberRepository(db *sql.DB) *BarberRepository {
	return &BarberRepository{DB: db}
}

// ListActive returns the barbers that can currently be booked.
func (r *BarberRepository) ListActive() ([]db.Barber, error) {
	return r.list(`SELECT id, name, COALESCE(specialty, ''), active FROM barbers WHERE active ORDER BY name`)
}

func (r *BarberRepository) ListAll() ([]db.Barber, error) {
	return r.list(`SELECT id, name, COALESCE(specialty, ''), active FROM barbers ORDER BY name`)
}

func (r *BarberRepository) GetByID(id int) (*db.Barber, error) {
	var b db.Barber
	err := r.DB.QueryRow(`SELECT id, name, COALESCE(specialty, ''), active FROM barbers WHERE id = $1`, id).
		Scan(&b.ID, &b.Name, &b.Specialty, &b.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error querying barber %d: %w", id, err)
	}
	return &b, nil
}

func (r *BarberRepository) SetActive(id int, active bool) error {
	res, err := r.DB.Exec(`UPDATE barbers SET active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("error updating barber %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BarberRepository) ListServices() ([]db.Service, error) {
	rows, err := r.DB.Query(`SELECT id, name, price FROM services ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error querying services: %w", err)
	}
	defer rows.Close()

	var services []db.Service
	for rows.Next() {
		var s db.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Price); err != nil {
			return nil, fmt.Errorf("error scanning service: %w", err)
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

func (r *BarberRepository) list(query string) ([]db.Barber, error) {
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("error querying barbers: %w", err)
	}
	defer rows.Close()

	var barbers []db.Barber
	for rows.Next() {
		var b db.Barber
		if err := rows.Scan(&b.ID, &b.Name, &b.Specialty, &b.Active); err != nil {
			return nil, fmt.Errorf("error scanning barber: %w", err)
		}
		barbers = append(barbers, b)
	}
	return barbers, rows.Err()
}
