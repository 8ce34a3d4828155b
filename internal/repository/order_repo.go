package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"bigmanbarber/internal/db"
)

// ErrInsufficientStock is returned when an order asks for more units than
// the shelf currently holds.
var ErrInsufficientStock = errors.New("insufficient stock")

type OrderRepository struct {
	DB *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

func (r *OrderRepository) ListProducts() ([]db.Product, error) {
	query := `SELECT id, name, COALESCE(description, ''), price, stock, COALESCE(image_url, '') FROM products ORDER BY name`
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("error querying products: %w", err)
	}
	defer rows.Close()

	var products []db.Product
	for rows.Next() {
		var p db.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.ImageURL); err != nil {
			return nil, fmt.Errorf("error scanning product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// CreateOrder checks and decrements stock for every item and inserts the
// order inside one transaction, so a checkout either fully reserves its
// units or touches nothing.
func (r *OrderRepository) CreateOrder(order *db.Order) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("error starting order transaction: %w", err)
	}
	defer tx.Rollback()

	order.Total = 0
	for i := range order.Items {
		item := &order.Items[i]

		var name string
		var price float64
		var stock int
		err := tx.QueryRow(`SELECT name, price, stock FROM products WHERE id = $1 FOR UPDATE`, item.ProductID).
			Scan(&name, &price, &stock)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("product %d: %w", item.ProductID, ErrNotFound)
			}
			return fmt.Errorf("error locking product %d: %w", item.ProductID, err)
		}
		if stock < item.Quantity {
			return fmt.Errorf("product %q has %d in stock, %d requested: %w", name, stock, item.Quantity, ErrInsufficientStock)
		}

		if _, err := tx.Exec(`UPDATE products SET stock = stock - $1 WHERE id = $2`, item.Quantity, item.ProductID); err != nil {
			return fmt.Errorf("error updating stock for product %d: %w", item.ProductID, err)
		}

		item.ProductName = name
		item.UnitPrice = price
		order.Total += price * float64(item.Quantity)
	}

	err = tx.QueryRow(`
		INSERT INTO orders
		(code, customer_name, customer_phone, address, neighborhood, city, state, zip_code, payment_method, total, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`,
		order.Code, order.CustomerName, order.CustomerPhone, order.Address, order.Neighborhood,
		order.City, order.State, order.ZipCode, order.PaymentMethod, order.Total, order.Status, order.CreatedAt,
	).Scan(&order.ID)
	if err != nil {
		return fmt.Errorf("error inserting order: %w", err)
	}

	for _, item := range order.Items {
		_, err := tx.Exec(`
			INSERT INTO order_items (order_id, product_id, product_name, unit_price, quantity)
			VALUES ($1, $2, $3, $4, $5)`,
			order.ID, item.ProductID, item.ProductName, item.UnitPrice, item.Quantity)
		if err != nil {
			return fmt.Errorf("error inserting order item: %w", err)
		}
	}

	return tx.Commit()
}
