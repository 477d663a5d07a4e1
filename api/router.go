package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	appMiddleware "github.com/prasetyowira/etiqueta/api/middleware"
	"github.com/prasetyowira/etiqueta/constant"
	appLogger "github.com/prasetyowira/etiqueta/infrastructure/logger"
)

// Router represents the application router
type Router struct {
	handler  *Handler
	router   *chi.Mux
	username string
	password string
}

// NewRouter creates a new router
func NewRouter(handler *Handler, username, password string) *Router {
	r := chi.NewRouter()

	// Middleware setup
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(appMiddleware.RequestLogger())

	return &Router{
		handler:  handler,
		router:   r,
		username: username,
		password: password,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() {
	appLogger.Info(constant.MsgSettingUpRoutes, appLogger.LoggerInfo{
		ContextFunction: constant.CtxRouter,
	})

	creds := map[string]string{
		r.username: r.password,
	}

	// Mutating routes require Basic Auth
	r.router.Group(func(g chi.Router) {
		g.Use(middleware.BasicAuth("etiqueta", creds))

		g.Post(constant.RouteProducts, r.handler.CreateProduct)
		g.Post(constant.RouteLocations, r.handler.AddLocation)
		g.Post(constant.RouteProductQR, r.handler.GenerateQR)
		g.Post(constant.RouteProductLabel, r.handler.GenerateLabel)
		g.Post(constant.RouteLabelPreview, r.handler.PreviewLabel)
		g.Post(constant.RouteBulkExport, r.handler.BulkExport)
	})

	// Read routes
	r.router.Get(constant.RouteProducts, r.handler.ListProducts)
	r.router.Get(constant.RouteProductByID, r.handler.GetProduct)
	r.router.Get(constant.RouteLocations, r.handler.ListLocations)
	r.router.Get(constant.RouteBarcode, r.handler.GetBarcode)
	r.router.Get(constant.RouteCatalogReport, r.handler.CatalogReport)

	// Healthcheck
	r.router.Get(constant.RouteHealthcheck, func(w http.ResponseWriter, r *http.Request) {
		appLogger.CtxDebug(r.Context(), constant.MsgHealthcheckRequest, appLogger.LoggerInfo{
			ContextFunction: constant.CtxRouter,
		})

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(constant.MsgHealthy))
	})
}

// ServeHTTP implements the http.Handler interface
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}
