package restapi

import (
	"net/http"
	"strconv"

	"github.com/twpayne/go-polyline"

	"github.com/Kaouthar-hr/Move2See-Project/internal/models"
	"github.com/Kaouthar-hr/Move2See-Project/internal/tracking"
	"github.com/Kaouthar-hr/Move2See-Project/tourdb"
)

type tracePointRequest struct {
	RouteID    string  `json:"routeId" validate:"required"`
	Lat        float64 `json:"lat" validate:"min=-90,max=90"`
	Lng        float64 `json:"lng" validate:"min=-180,max=180"`
	RecordedAt int64   `json:"timestamp"`
}

// traceActor identifies the caller for ingestion. An admin key elevates
// the caller past the route-ownership check.
func (api *RestAPI) traceActor(r *http.Request) tracking.Actor {
	return tracking.Actor{
		OperatorID: api.OperatorID(r),
		Elevated:   api.RequestHasAdminKey(r),
	}
}

func (api *RestAPI) ingestTracePointHandler(w http.ResponseWriter, r *http.Request) {
	var req tracePointRequest
	if err := decodeRequest(r, &req); err != nil {
		api.sendError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	result, err := api.Tracking.IngestPoint(r.Context(), api.traceActor(r), req.RouteID, tracking.Sample{
		Lat:        req.Lat,
		Lng:        req.Lng,
		RecordedAt: req.RecordedAt,
	})
	if err != nil {
		api.faultResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewCreatedResponse(models.NewTracePoint(result.Trace), api.Clock))
}

type traceBatchRequest struct {
	RouteID string             `json:"routeId" validate:"required"`
	Samples []tracePointSample `json:"traceList" validate:"required,min=1,dive"`
}

type tracePointSample struct {
	Lat        float64 `json:"lat" validate:"min=-90,max=90"`
	Lng        float64 `json:"lng" validate:"min=-180,max=180"`
	RecordedAt int64   `json:"timestamp"`
}

func (api *RestAPI) ingestTraceBatchHandler(w http.ResponseWriter, r *http.Request) {
	var req traceBatchRequest
	if err := decodeRequest(r, &req); err != nil {
		api.sendError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	samples := make([]tracking.Sample, len(req.Samples))
	for i, s := range req.Samples {
		samples[i] = tracking.Sample{Lat: s.Lat, Lng: s.Lng, RecordedAt: s.RecordedAt}
	}

	result, err := api.Tracking.IngestBatch(r.Context(), api.traceActor(r), req.RouteID, samples)
	if err != nil {
		api.faultResponse(w, r, err)
		return
	}

	batch := models.BatchIngest{Results: result.Ingested}
	if result.Arrival != nil {
		batch.ReachedPoi = &result.Arrival.WaypointID
	}
	api.sendResponse(w, r, models.NewCreatedResponse(batch, api.Clock))
}

func (api *RestAPI) listTracesHandler(w http.ResponseWriter, r *http.Request) {
	traces, err := api.Tracking.Traces(r.Context(), r.PathValue("routeId"))
	if err != nil {
		api.faultResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewOKResponse(models.NewTraceList(traces, encodeTracePath(traces)), api.Clock))
}

func (api *RestAPI) traceSegmentHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	start, err := strconv.ParseInt(query.Get("startTime"), 10, 64)
	if err != nil {
		api.sendError(w, r, http.StatusBadRequest, "startTime must be a unix timestamp")
		return
	}
	end, err := strconv.ParseInt(query.Get("endTime"), 10, 64)
	if err != nil {
		api.sendError(w, r, http.StatusBadRequest, "endTime must be a unix timestamp")
		return
	}

	traces, err := api.Tracking.TraceSegment(r.Context(), r.PathValue("routeId"), start, end)
	if err != nil {
		api.faultResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewOKResponse(models.NewTraceList(traces, encodeTracePath(traces)), api.Clock))
}

// encodeTracePath renders the trace as a Google encoded polyline for map
// display. An empty trace yields an empty path.
func encodeTracePath(traces []tourdb.TracePoint) string {
	if len(traces) == 0 {
		return ""
	}
	coords := make([][]float64, len(traces))
	for i, tp := range traces {
		coords[i] = []float64{tp.Lat, tp.Lng}
	}
	return string(polyline.EncodeCoords(coords))
}
