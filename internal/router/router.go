package router

import (
	"database/sql"
	"net/http"

	mem "hotel-reservations/internal/adapters/storage/memory"
	pg "hotel-reservations/internal/adapters/storage/postgres"
	"hotel-reservations/internal/domain/cart"
	"hotel-reservations/internal/domain/confirmations"
	"hotel-reservations/internal/domain/imports"
	"hotel-reservations/internal/domain/occupancy"
	"hotel-reservations/internal/domain/pricing"
	"hotel-reservations/internal/domain/reservations"
	"hotel-reservations/internal/domain/vouchers"
	"hotel-reservations/internal/middleware"
	"hotel-reservations/internal/platform/httpclient"
	"hotel-reservations/internal/platform/logger"
	"hotel-reservations/internal/ports/auth"
	"hotel-reservations/internal/ports/notifications"

	_ "hotel-reservations/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Logger logger.Logger
	Prices *pricing.Table

	// Email y Events pueden ser nil: confirmaciones en modo demo / sin broker.
	Email           notifications.EmailSender
	Events          notifications.Publisher
	OperationsEmail string

	Voucher    vouchers.Config
	HTTPClient *httpclient.Client
}

// Services agrupa los servicios de dominio ya cableados (API y CLI los comparten).
type Services struct {
	Prices        *pricing.Table
	Reservations  *reservations.Service
	Occupancy     *occupancy.Service
	Vouchers      *vouchers.Builder
	Confirmations *confirmations.Service
	Imports       *imports.Service
	Cart          *cart.Service
}

func NewServices(opts Options) Services {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	prices := opts.Prices
	if prices == nil {
		prices = pricing.NewTable(nil)
	}
	client := opts.HTTPClient
	if client == nil {
		client = httpclient.New(vouchers.LogoTimeout)
	}

	var (
		resRepo reservations.Repository
		occRepo occupancy.Repository
	)
	if opts.DB != nil {
		resRepo = pg.NewReservationsRepo(opts.DB)
		occRepo = pg.NewOccupancyRepo(opts.DB)
	} else {
		resRepo = mem.NewReservationRepo()
		occRepo = mem.NewOccupancyRepo()
	}

	resSvc := reservations.NewService(resRepo, prices)
	occSvc := occupancy.NewService(occRepo, prices)
	builder := vouchers.NewBuilder(opts.Voucher, prices, client)
	confSvc := confirmations.NewService(builder, opts.Email, opts.Events, opts.OperationsEmail, log)

	return Services{
		Prices:        prices,
		Reservations:  resSvc,
		Occupancy:     occSvc,
		Vouchers:      builder,
		Confirmations: confSvc,
		Imports:       imports.NewService(resSvc, occSvc, confSvc, log),
		// El carrito vive en memoria aun con Postgres: es un borrador por sesión.
		Cart: cart.NewService(mem.NewCartStore(), resSvc, confSvc, log),
	}
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	opts.Logger = log
	svcs := NewServices(opts)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Rutas por módulo
	pricing.RegisterRoutes(r, svcs.Prices)
	reservations.RegisterRoutes(r, svcs.Reservations)
	confirmations.RegisterRoutes(r, svcs.Confirmations, svcs.Reservations)
	occupancy.RegisterRoutes(r, svcs.Occupancy)
	imports.RegisterRoutes(r, svcs.Imports)
	cart.RegisterRoutes(r, svcs.Cart)

	return r
}
