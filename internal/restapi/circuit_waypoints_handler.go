package restapi

import (
	"net/http"

	"github.com/Kaouthar-hr/Move2See-Project/internal/models"
	"github.com/Kaouthar-hr/Move2See-Project/internal/sequence"
)

type addCircuitWaypointRequest struct {
	CircuitID string `json:"circuitId" validate:"required"`
	PoiID     string `json:"poiId" validate:"required"`
	Order     int64  `json:"order" validate:"min=1"`
}

func (api *RestAPI) addCircuitWaypointHandler(w http.ResponseWriter, r *http.Request) {
	var req addCircuitWaypointRequest
	if err := decodeRequest(r, &req); err != nil {
		api.sendError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	created, err := api.Sequence.Insert(r.Context(), req.CircuitID, req.PoiID, req.Order)
	if err != nil {
		api.faultResponse(w, r, err)
		return
	}

	entry := models.CircuitWaypointEntry{PoiID: created.WaypointID, Order: created.Position}
	api.sendResponse(w, r, models.NewCreatedResponse(entry, api.Clock))
}

type removeCircuitWaypointRequest struct {
	CircuitID string `json:"circuitId" validate:"required"`
	PoiID     string `json:"poiId" validate:"required"`
}

func (api *RestAPI) removeCircuitWaypointHandler(w http.ResponseWriter, r *http.Request) {
	var req removeCircuitWaypointRequest
	if err := decodeRequest(r, &req); err != nil {
		api.sendError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := api.Sequence.Remove(r.Context(), req.CircuitID, req.PoiID); err != nil {
		api.faultResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewOKResponse(nil, api.Clock))
}

type rebuildOrderRequest struct {
	PoiIdsOrdered []models.CircuitWaypointEntry `json:"poiIdsOrdered" validate:"required,min=1,dive"`
}

func (api *RestAPI) rebuildCircuitOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req rebuildOrderRequest
	if err := decodeRequest(r, &req); err != nil {
		api.sendError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	entries := make([]sequence.Entry, len(req.PoiIdsOrdered))
	for i, e := range req.PoiIdsOrdered {
		entries[i] = sequence.Entry{WaypointID: e.PoiID, Position: e.Order}
	}

	rebuilt, err := api.Sequence.Rebuild(r.Context(), r.PathValue("id"), entries)
	if err != nil {
		api.faultResponse(w, r, err)
		return
	}

	ordered := make([]models.CircuitWaypointEntry, len(rebuilt))
	for i, cw := range rebuilt {
		ordered[i] = models.CircuitWaypointEntry{PoiID: cw.WaypointID, Order: cw.Position}
	}
	api.sendResponse(w, r, models.NewOKResponse(ordered, api.Clock))
}

func (api *RestAPI) listCircuitWaypointsHandler(w http.ResponseWriter, r *http.Request) {
	stops, err := api.Sequence.List(r.Context(), r.PathValue("id"))
	if err != nil {
		api.faultResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewOKResponse(models.NewCircuitStops(stops), api.Clock))
}
