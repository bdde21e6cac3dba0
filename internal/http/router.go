package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type RouterConfig struct {
	CORSOrigins []string
	Logger      zerolog.Logger
}

func NewRouter(handler *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(cfg.Logger))
	r.Use(Recoverer(cfg.Logger))
	r.Use(Timeout)
	r.Use(CORS(cfg.CORSOrigins))

	r.Get("/healthz", handler.Health)

	// Plain record store, no derived figures.
	r.Route("/api/items", func(r chi.Router) {
		r.Get("/", handler.ListRawItems)
		r.Post("/", handler.CreateItem)
		r.Get("/{id}", handler.GetRawItem)
		r.Patch("/{id}", handler.PatchItem)
		r.Delete("/{id}", handler.DeleteItem)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/items", handler.ListItems)
		r.Post("/items", handler.CreateItem)
		r.Get("/items/dashboard", handler.ItemDashboard)
		r.Get("/items/groups", handler.GroupBurnRates)
		r.Get("/items/categories", handler.CategoryDistribution)
		r.Get("/items/options", handler.ItemOptions)
		r.Get("/items/export", handler.ExportItems)
		r.Post("/items/import-excel", handler.ImportItemsExcel)
		r.Get("/items/{id}", handler.GetItem)
		r.Patch("/items/{id}", handler.PatchItem)
		r.Delete("/items/{id}", handler.DeleteItem)

		r.Get("/fx/entries", handler.ListFXEntries)
		r.Post("/fx/entries", handler.CreateFXEntry)
		r.Patch("/fx/entries/{id}", handler.PatchFXEntry)
		r.Delete("/fx/entries/{id}", handler.DeleteFXEntry)
		r.Get("/fx/stats", handler.FXStats)
		r.Post("/fx/import-excel", handler.ImportFXExcel)

		r.Get("/weights", handler.ListWeights)
		r.Post("/weights", handler.CreateWeight)
		r.Delete("/weights/{id}", handler.DeleteWeight)
		r.Get("/weights/stats", handler.WeightStats)
		r.Post("/weights/import-excel", handler.ImportWeightsExcel)
	})

	return r
}
