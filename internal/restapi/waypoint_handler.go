package restapi

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/Kaouthar-hr/Move2See-Project/internal/models"
	"github.com/Kaouthar-hr/Move2See-Project/tourdb"
)

type createWaypointRequest struct {
	Name string  `json:"name" validate:"required"`
	Lat  float64 `json:"lat" validate:"min=-90,max=90"`
	Lng  float64 `json:"lng" validate:"min=-180,max=180"`
}

func (api *RestAPI) createWaypointHandler(w http.ResponseWriter, r *http.Request) {
	var req createWaypointRequest
	if err := decodeRequest(r, &req); err != nil {
		api.sendError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	now := api.Clock.Now().Unix()
	waypoint := tourdb.Waypoint{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Lat:       req.Lat,
		Lng:       req.Lng,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := api.DB.Queries.CreateWaypoint(r.Context(), tourdb.CreateWaypointParams{
		ID:        waypoint.ID,
		Name:      waypoint.Name,
		Lat:       waypoint.Lat,
		Lng:       waypoint.Lng,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewCreatedResponse(models.NewWaypoint(waypoint), api.Clock))
}

func (api *RestAPI) getWaypointHandler(w http.ResponseWriter, r *http.Request) {
	waypoint, err := api.DB.Queries.GetWaypoint(r.Context(), r.PathValue("id"))
	if errors.Is(err, sql.ErrNoRows) || (err == nil && waypoint.IsDeleted != 0) {
		api.sendNotFound(w, r)
		return
	} else if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewOKResponse(models.NewWaypoint(waypoint), api.Clock))
}

func (api *RestAPI) listWaypointsHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := api.DB.Queries.ListWaypoints(r.Context())
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	waypoints := make([]models.Waypoint, len(rows))
	for i, row := range rows {
		waypoints[i] = models.NewWaypoint(row)
	}
	api.sendResponse(w, r, models.NewOKResponse(waypoints, api.Clock))
}

func (api *RestAPI) deleteWaypointHandler(w http.ResponseWriter, r *http.Request) {
	affected, err := api.DB.Queries.SoftDeleteWaypoint(r.Context(), r.PathValue("id"), api.Clock.Now().Unix())
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
	if affected == 0 {
		api.sendNotFound(w, r)
		return
	}

	api.sendResponse(w, r, models.NewOKResponse(nil, api.Clock))
}
