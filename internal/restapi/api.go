// Package restapi exposes the tour-scheduling API over HTTP. Handlers
// decode and validate requests, call the domain services and wrap every
// reply in the common response envelope.
package restapi

import (
	"net/http"

	"github.com/Kaouthar-hr/Move2See-Project/internal/app"
	"github.com/Kaouthar-hr/Move2See-Project/internal/routes"
	"github.com/Kaouthar-hr/Move2See-Project/internal/sequence"
	"github.com/Kaouthar-hr/Move2See-Project/internal/tracking"
)

type RestAPI struct {
	*app.Application
	Sequence *sequence.Manager
	Routes   *routes.Service
	Tracking *tracking.Engine
}

func NewRestAPI(application *app.Application) *RestAPI {
	api := &RestAPI{Application: application}
	if application != nil && application.DB != nil {
		api.Sequence = sequence.NewManager(application.DB, application.Metrics, application.Logger)
		api.Routes = routes.NewService(application.DB, application.Clock, application.Logger)
		api.Tracking = tracking.NewEngine(
			application.DB,
			tracking.NewOwnerAuthorizer(application.DB),
			application.Clock,
			application.Metrics,
			application.Logger,
		)
	}
	return api
}

// Cache tiers for read endpoints. The catalog changes rarely, routes and
// traces are live data.
const (
	catalogCacheSeconds = 300
	clockCacheSeconds   = 30
	noCacheSeconds      = 0
)

// SetRoutes registers all handlers on mux. Read endpoints require a
// valid API key; endpoints that mutate the catalog require an admin key.
func (api *RestAPI) SetRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", api.healthHandler)
	mux.Handle("GET /api/current-time", cached(clockCacheSeconds, api.requireKey(api.currentTimeHandler)))

	mux.Handle("GET /api/pois", cached(catalogCacheSeconds, api.requireKey(api.listWaypointsHandler)))
	mux.Handle("GET /api/pois/{id}", cached(catalogCacheSeconds, api.requireKey(api.getWaypointHandler)))
	mux.HandleFunc("POST /api/pois", api.requireAdmin(api.createWaypointHandler))
	mux.HandleFunc("DELETE /api/pois/{id}", api.requireAdmin(api.deleteWaypointHandler))

	mux.Handle("GET /api/circuits", cached(catalogCacheSeconds, api.requireKey(api.listCircuitsHandler)))
	mux.Handle("GET /api/circuits/{id}", cached(catalogCacheSeconds, api.requireKey(api.getCircuitHandler)))
	mux.HandleFunc("POST /api/circuits", api.requireAdmin(api.createCircuitHandler))
	mux.HandleFunc("PUT /api/circuits/{id}", api.requireAdmin(api.updateCircuitHandler))
	mux.HandleFunc("DELETE /api/circuits/{id}", api.requireAdmin(api.deleteCircuitHandler))

	mux.HandleFunc("POST /api/circuits/poi/add", api.requireAdmin(api.addCircuitWaypointHandler))
	mux.HandleFunc("DELETE /api/circuits/poi/remove", api.requireAdmin(api.removeCircuitWaypointHandler))
	mux.HandleFunc("PUT /api/circuits/{id}/order", api.requireAdmin(api.rebuildCircuitOrderHandler))
	mux.Handle("GET /api/circuits/{id}/pois", cached(catalogCacheSeconds, api.requireKey(api.listCircuitWaypointsHandler)))

	mux.HandleFunc("POST /api/routes/create", api.requireKey(api.createRouteHandler))
	mux.Handle("GET /api/routes", cached(noCacheSeconds, api.requireKey(api.listRoutesHandler)))
	mux.Handle("GET /api/routes/{id}", cached(noCacheSeconds, api.requireKey(api.getRouteHandler)))
	mux.HandleFunc("PATCH /api/routes/{id}/{action}", api.requireKey(api.transitionRouteHandler))
	mux.Handle("GET /api/routes/{id}/progress", cached(noCacheSeconds, api.requireKey(api.routeProgressHandler)))

	mux.HandleFunc("POST /api/visited-traces/point", api.requireKey(api.ingestTracePointHandler))
	mux.HandleFunc("POST /api/visited-traces/batch", api.requireKey(api.ingestTraceBatchHandler))
	mux.Handle("GET /api/visited-traces/route/{routeId}", cached(noCacheSeconds, api.requireKey(api.listTracesHandler)))
	mux.Handle("GET /api/visited-traces/route/{routeId}/segment", cached(noCacheSeconds, api.requireKey(api.traceSegmentHandler)))
}

func cached(seconds int, next http.HandlerFunc) http.Handler {
	return CacheControlMiddleware(seconds, next)
}

func (api *RestAPI) requireKey(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAPIKey(r) {
			api.sendUnauthorized(w, r)
			return
		}
		next(w, r)
	}
}

func (api *RestAPI) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAPIKey(r) || !api.RequestHasAdminKey(r) {
			api.sendUnauthorized(w, r)
			return
		}
		next(w, r)
	}
}
