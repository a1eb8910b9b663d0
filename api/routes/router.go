package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dquinterov/mesacompras-backend/api/controllers"
	"github.com/dquinterov/mesacompras-backend/api/middleware"
	"github.com/dquinterov/mesacompras-backend/internal/auth"
	"github.com/dquinterov/mesacompras-backend/internal/catalog"
	"github.com/dquinterov/mesacompras-backend/internal/importer"
	"github.com/dquinterov/mesacompras-backend/internal/invoices"
	"github.com/dquinterov/mesacompras-backend/internal/mixbox"
	"github.com/dquinterov/mesacompras-backend/internal/orders"
	"github.com/dquinterov/mesacompras-backend/internal/parties"
	"github.com/dquinterov/mesacompras-backend/internal/weights"
	"github.com/dquinterov/mesacompras-backend/pkg/config"
	"github.com/dquinterov/mesacompras-backend/pkg/db"
	"github.com/dquinterov/mesacompras-backend/pkg/enums"
	"github.com/dquinterov/mesacompras-backend/pkg/logger"
	pkgredis "github.com/dquinterov/mesacompras-backend/pkg/redis"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Auth     auth.Service
	Catalog  catalog.Service
	Parties  parties.Service
	Invoices invoices.Service
	Orders   orders.Service
	Importer importer.Service
	Weights  weights.Service
	Mixbox   mixbox.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	// a typed nil must not reach the interface parameters
	var redisP pkgredis.Pinger
	var idemStore pkgredis.IdempotencyStore
	if redisClient != nil {
		redisP = redisClient
		idemStore = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(svcs.Auth, logg))
		r.Post("/login", controllers.AuthLogin(svcs.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idemStore, cfg.Import, logg))

		r.Route("/invoices", func(r chi.Router) {
			r.Post("/", controllers.InvoiceCreate(svcs.Invoices, logg))
			r.Get("/max-number", controllers.InvoiceMaxNumber(svcs.Invoices, logg))
			r.Get("/in-process", controllers.InvoiceListInProcess(svcs.Invoices, logg))
			r.Get("/with-details", controllers.InvoiceListWithDetails(svcs.Invoices, logg))
			r.Post("/assign-awb", controllers.InvoiceAssignAWB(svcs.Invoices, logg))

			r.Route("/details", func(r chi.Router) {
				r.Post("/confirm-purchase", controllers.DetailConfirmPurchase(svcs.Invoices, logg))
				r.Patch("/{detailId}", controllers.DetailUpdateField(svcs.Invoices, logg))
				r.Post("/{detailId}/decompose", controllers.DetailDecompose(svcs.Mixbox, logg))
			})

			r.Patch("/{invoiceId}", controllers.InvoiceUpdateField(svcs.Invoices, logg))
			r.Get("/{invoiceId}/details", controllers.InvoiceDetails(svcs.Invoices, logg))
			r.Post("/{invoiceId}/import", controllers.ImportGeneric(svcs.Importer, cfg.Import, logg))
			r.Post("/{invoiceId}/import-vilnius", controllers.ImportVilnius(svcs.Importer, cfg.Import, logg))
			r.Post("/{invoiceId}/recompute-weights", controllers.InvoiceRecomputeWeights(svcs.Weights, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(svcs.Orders, logg))
			r.Post("/", controllers.OrderCreate(svcs.Orders, logg))
			r.Patch("/{orderId}", controllers.OrderUpdateField(svcs.Orders, logg))
			r.Post("/batch-delete", controllers.OrderBatchDelete(svcs.Orders, logg))
		})

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", controllers.CatalogList(svcs.Catalog, logg))
			r.Post("/", controllers.CatalogCreate(svcs.Catalog, logg))
			r.Get("/categories", controllers.CatalogCategories())
			r.Get("/all", controllers.CatalogListAll(svcs.Catalog, logg))
			r.Patch("/{entryId}", controllers.CatalogUpdate(svcs.Catalog, logg))
			r.Delete("/{entryId}", controllers.CatalogDelete(svcs.Catalog, logg))
		})

		r.Route("/parties", func(r chi.Router) {
			r.Get("/", controllers.PartyList(svcs.Parties, logg))
			r.Post("/", controllers.PartyCreate(svcs.Parties, logg))
			r.Get("/clients", controllers.PartyListByType(svcs.Parties, enums.PartyTypeClient, logg))
			r.Get("/suppliers", controllers.PartyListByType(svcs.Parties, enums.PartyTypeSupplier, logg))
			r.Put("/{partyId}", controllers.PartyUpdate(svcs.Parties, logg))
		})
	})

	return r
}
