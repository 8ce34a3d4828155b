package service

import (
	"fmt"

	"bigmanbarber/internal/db"
	"bigmanbarber/internal/entities"

	"github.com/google/uuid"
)

type OrderStore interface {
	ListProducts() ([]db.Product, error)
	CreateOrder(order *db.Order) error
}

type ShopService struct {
	store    OrderStore
	notifier Notifier
	clock    Clock
}

func NewShopService(store OrderStore, notifier Notifier, clock Clock) *ShopService {
	if clock == nil {
		clock = RealClock{}
	}
	return &ShopService{store: store, notifier: notifier, clock: clock}
}

func (s *ShopService) ListProducts() ([]db.Product, error) {
	return s.store.ListProducts()
}

// CreateOrder validates the checkout request and commits it. Stock checking
// and decrement happen inside the repository transaction. Payment is only
// recorded, never charged here.
func (s *ShopService) CreateOrder(req *entities.OrderRequest) (*entities.OrderResponse, error) {
	if req.CustomerName == "" || req.CustomerPhone == "" {
		return nil, fmt.Errorf("customer name and phone are required")
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("order has no items")
	}
	if req.PaymentMethod != "pix" && req.PaymentMethod != "delivery" {
		return nil, fmt.Errorf("unsupported payment method %q", req.PaymentMethod)
	}

	order := &db.Order{
		Code:          uuid.NewString(),
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Address:       req.Address,
		Neighborhood:  req.Neighborhood,
		City:          req.City,
		State:         req.State,
		ZipCode:       req.ZipCode,
		PaymentMethod: req.PaymentMethod,
		Status:        "received",
		CreatedAt:     s.clock.Now().UTC(),
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("invalid quantity %d for product %d", item.Quantity, item.ProductID)
		}
		order.Items = append(order.Items, db.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	if err := s.store.CreateOrder(order); err != nil {
		return nil, err
	}

	s.notifier.OrderPlaced(order)

	return &entities.OrderResponse{
		Code:    order.Code,
		Total:   order.Total,
		Message: "Order received.",
	}, nil
}
