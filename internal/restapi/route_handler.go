package restapi

import (
	"net/http"

	"github.com/Kaouthar-hr/Move2See-Project/internal/lifecycle"
	"github.com/Kaouthar-hr/Move2See-Project/internal/models"
	"github.com/Kaouthar-hr/Move2See-Project/internal/routes"
)

type createRouteRequest struct {
	CircuitID string   `json:"circuitId" validate:"required"`
	VehicleID string   `json:"vehicleId"`
	DateStart int64    `json:"dateStart"`
	Hours     string   `json:"hours"`
	Price     *float64 `json:"price" validate:"omitempty,min=0"`
	Seats     *int64   `json:"seats" validate:"omitempty,min=1"`
}

func (api *RestAPI) createRouteHandler(w http.ResponseWriter, r *http.Request) {
	operatorID := api.OperatorID(r)
	if operatorID == "" {
		api.sendUnauthorized(w, r)
		return
	}

	var req createRouteRequest
	if err := decodeRequest(r, &req); err != nil {
		api.sendError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	route, err := api.Routes.Schedule(r.Context(), routes.ScheduleParams{
		CircuitID:  req.CircuitID,
		OperatorID: operatorID,
		VehicleID:  req.VehicleID,
		DateStart:  req.DateStart,
		Hours:      req.Hours,
		Price:      req.Price,
		Seats:      req.Seats,
	})
	if err != nil {
		api.faultResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewCreatedResponse(models.NewRoute(route), api.Clock))
}

func (api *RestAPI) getRouteHandler(w http.ResponseWriter, r *http.Request) {
	route, err := api.Routes.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		api.faultResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewOKResponse(models.NewRoute(route), api.Clock))
}

func (api *RestAPI) listRoutesHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := api.Routes.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		api.faultResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewOKResponse(models.NewRoutes(rows), api.Clock))
}

// transitionRouteHandler applies the lifecycle action named by the last
// path segment: start, pause, resume, end or cancel.
func (api *RestAPI) transitionRouteHandler(w http.ResponseWriter, r *http.Request) {
	action, err := lifecycle.ParseAction(r.PathValue("action"))
	if err != nil {
		api.sendError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	route, err := api.Routes.Transition(r.Context(), r.PathValue("id"), action)
	if err != nil {
		api.faultResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewOKResponse(models.NewRoute(route), api.Clock))
}

func (api *RestAPI) routeProgressHandler(w http.ResponseWriter, r *http.Request) {
	progress, err := api.Routes.Progress(r.Context(), r.PathValue("id"))
	if err != nil {
		api.faultResponse(w, r, err)
		return
	}

	stops := make([]models.RouteStop, len(progress.Stops))
	for i, stop := range progress.Stops {
		stops[i] = models.RouteStop{
			PoiID:  stop.WaypointID,
			Order:  stop.Position,
			Status: stop.Status,
		}
	}

	var tracking *models.TrackingStatus
	if progress.Route.Status == string(lifecycle.StatusOngoing) {
		freshness, err := api.Tracking.RouteFreshness(r.Context(), progress.Route.ID)
		if err != nil {
			api.faultResponse(w, r, err)
			return
		}
		tracking = &models.TrackingStatus{
			LastFixAt: freshness.LastFixAt,
			Stale:     freshness.Stale,
		}
	}

	api.sendResponse(w, r, models.NewOKResponse(models.RouteProgress{
		Route:    models.NewRoute(progress.Route),
		Stops:    stops,
		Visited:  progress.Visited,
		Total:    progress.Total,
		Percent:  progress.Percent,
		Tracking: tracking,
	}, api.Clock))
}
