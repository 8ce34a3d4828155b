package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"bigmanbarber/internal/api"
	"bigmanbarber/internal/auth"
	"bigmanbarber/internal/repository"
	"bigmanbarber/internal/schedule"
	"bigmanbarber/internal/service"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
)

func main() {
	godotenv.Load()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	loc, err := time.LoadLocation(envOr("SHOP_TIMEZONE", "America/Sao_Paulo"))
	if err != nil {
		log.Fatalf("Invalid SHOP_TIMEZONE: %v", err)
	}

	engine := schedule.NewEngine(scheduleConfig())

	appointmentRepo := repository.NewAppointmentRepository(db)
	barberRepo := repository.NewBarberRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	adminAuthRepo := repository.NewAdminAuthRepository(db)
	jobRepo := repository.NewJobRepository(db)

	notifier := service.NewSenderService(loc)
	appointmentSvc := service.NewAppointmentService(appointmentRepo, barberRepo, engine, notifier, service.RealClock{}, loc)
	shopSvc := service.NewShopService(orderRepo, notifier, service.RealClock{})
	adminAuthSvc := service.NewAdminAuthService(adminAuthRepo)
	if email := os.Getenv("BOOTSTRAP_ADMIN_EMAIL"); email != "" {
		existing, err := adminAuthRepo.GetByEmail(email)
		if err != nil {
			log.Fatalf("Failed to check bootstrap admin: %v", err)
		}
		if existing == nil {
			if err := adminAuthSvc.CreateAdmin(email, os.Getenv("BOOTSTRAP_ADMIN_PASSWORD")); err != nil {
				log.Fatalf("Failed to create bootstrap admin: %v", err)
			}
			log.Printf("Created bootstrap admin %s", email)
		}
	}
	jobSvc := service.NewJobService(jobRepo, service.RealClock{}, loc)

	bookingHandler := api.NewBookingHandler(appointmentSvc)
	shopHandler := api.NewShopHandler(shopSvc)
	adminHandler := api.NewAdminHandler(appointmentSvc)
	adminAuthHandler := api.NewAdminAuthHandler(adminAuthSvc)

	r := newRouter(bookingHandler, shopHandler, adminHandler, adminAuthHandler)

	c := cron.New()
	c.AddFunc("@every 10m", func() {
		if err := jobSvc.CompleteElapsedAppointments(engine.Config().Interval); err != nil {
			log.Printf("Cron Job error: %v", err)
		}
	})
	c.AddFunc("@daily", func() {
		maxAge := time.Duration(envInt("PENDING_MAX_AGE_DAYS", 2)) * 24 * time.Hour
		n, err := jobSvc.CancelStalePendingAppointments(maxAge)
		if err != nil {
			log.Printf("Cron Job error: %v", err)
			return
		}
		log.Printf("Cron Job: cancelled %d stale pending appointments", n)
	})
	c.Start()
	defer c.Stop()

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{envOr("CORS_ORIGIN", "*")}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
	)

	port := envOr("PORT", "8080")
	log.Printf("Server running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, cors(r)))
}

func newRouter(bookingHandler *api.BookingHandler, shopHandler *api.ShopHandler, adminHandler *api.AdminHandler, adminAuthHandler *api.AdminAuthHandler) *mux.Router {
	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/barbers", bookingHandler.ListBarbers).Methods("GET")
	r.HandleFunc("/api/services", bookingHandler.ListServices).Methods("GET")
	r.HandleFunc("/api/availability", bookingHandler.CheckAvailability).Methods("POST")
	r.HandleFunc("/api/appointments", bookingHandler.CreateAppointment).Methods("POST")
	r.HandleFunc("/api/appointments", bookingHandler.ListAppointments).Methods("GET")
	r.HandleFunc("/api/appointments/{code}", bookingHandler.GetAppointment).Methods("GET")
	r.HandleFunc("/api/appointments/{code}", bookingHandler.CancelAppointment).Methods("DELETE")
	r.HandleFunc("/api/products", shopHandler.ListProducts).Methods("GET")
	r.HandleFunc("/api/orders", shopHandler.CreateOrder).Methods("POST")

	// Admin endpoints. Login is the only open one; register requires a
	// logged-in admin, so the first account is created out-of-band.
	r.HandleFunc("/admin/login", adminAuthHandler.Login).Methods("POST")
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.AdminAuthMiddleware)
	admin.HandleFunc("/register", adminAuthHandler.Register).Methods("POST")
	admin.HandleFunc("/appointments", adminHandler.ListAppointments).Methods("GET")
	admin.HandleFunc("/appointments/{id}/status", adminHandler.UpdateAppointmentStatus).Methods("PUT")
	admin.HandleFunc("/barbers", adminHandler.ListBarbers).Methods("GET")
	admin.HandleFunc("/barbers/{id}/active", adminHandler.SetBarberActive).Methods("PUT")

	return r
}

func scheduleConfig() schedule.Config {
	cfg := schedule.DefaultConfig()
	if v := os.Getenv("SCHEDULE_OPEN"); v != "" {
		t, err := schedule.ParseTime(v)
		if err != nil {
			log.Fatalf("Invalid SCHEDULE_OPEN: %v", err)
		}
		cfg.DayStart = t
	}
	if v := os.Getenv("SCHEDULE_CLOSE"); v != "" {
		t, err := schedule.ParseTime(v)
		if err != nil {
			log.Fatalf("Invalid SCHEDULE_CLOSE: %v", err)
		}
		cfg.DayEnd = t
	}
	cfg.Interval = time.Duration(envInt("SLOT_INTERVAL_MIN", 30)) * time.Minute
	cfg.Buffer = time.Duration(envInt("BOOKING_BUFFER_MIN", 30)) * time.Minute
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return n
}
