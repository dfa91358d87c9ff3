package routers

import (
	"fmt"

	"github.com/avelinsk/txmon/internal/di"
	"github.com/avelinsk/txmon/internal/infrastructure/api/handlers"
	"github.com/avelinsk/txmon/internal/infrastructure/api/middlewares"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(container *di.Container, jwtSecret string) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Get("/health", container.HealthHandler.Check)

	auth := middlewares.AuthMiddleware(container.UserInteractor, jwtSecret)

	router.Route("/transaction", func(r chi.Router) {
		r.Use(auth)

		th := container.TransactionHandler
		r.Post("/", th.Create)
		r.Get("/", th.Search)
		r.Get("/tags", th.Tags)
		r.Get("/user-id-list", th.UserIDList)
		r.Get("/amount-range", th.AmountRange)

		ah := container.AnalyticsHandler
		r.Get("/graph-data", ah.GraphData)
		r.Get("/aggregate-data", ah.AggregateData)

		eh := container.ExportHandler
		r.Get("/report", eh.Report)
		r.Get("/download-csv", eh.DownloadCSV)

		r.Post("/generator", container.GeneratorHandler.Control)

		// Registered last so the fixed paths above keep precedence.
		r.Get(fmt.Sprintf("/{%s}", handlers.TransactionIDParam), th.GetByID)
	})

	router.Route("/user", func(r chi.Router) {
		r.Use(auth)
		r.Get("/", container.UserHandler.Profile)
	})

	return router
}
