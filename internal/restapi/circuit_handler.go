package restapi

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/Kaouthar-hr/Move2See-Project/internal/models"
	"github.com/Kaouthar-hr/Move2See-Project/tourdb"
)

type circuitRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"min=0"`
	Seats       int64   `json:"seats" validate:"min=1"`
}

func (api *RestAPI) createCircuitHandler(w http.ResponseWriter, r *http.Request) {
	var req circuitRequest
	if err := decodeRequest(r, &req); err != nil {
		api.sendError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	now := api.Clock.Now().Unix()
	circuit := tourdb.Circuit{
		ID:        uuid.NewString(),
		Title:     req.Title,
		Price:     req.Price,
		Seats:     req.Seats,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Description != "" {
		circuit.Description = sql.NullString{String: req.Description, Valid: true}
	}

	err := api.DB.Queries.CreateCircuit(r.Context(), tourdb.CreateCircuitParams{
		ID:          circuit.ID,
		Title:       circuit.Title,
		Description: circuit.Description,
		Price:       circuit.Price,
		Seats:       circuit.Seats,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewCreatedResponse(models.NewCircuit(circuit), api.Clock))
}

func (api *RestAPI) getCircuitHandler(w http.ResponseWriter, r *http.Request) {
	circuit, err := api.DB.Queries.GetCircuit(r.Context(), r.PathValue("id"))
	if errors.Is(err, sql.ErrNoRows) || (err == nil && circuit.IsDeleted != 0) {
		api.sendNotFound(w, r)
		return
	} else if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	stops, err := api.DB.Queries.ListCircuitStops(r.Context(), circuit.ID)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewOKResponse(models.NewCircuitWithStops(circuit, stops), api.Clock))
}

// listCircuitsHandler supports filtering with ?q= (keyword in title or
// description), ?minPrice=&maxPrice= and ?maxSeats=. Filters are
// mutually exclusive; keyword wins, then price range, then seats.
func (api *RestAPI) listCircuitsHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var rows []tourdb.Circuit
	var err error
	switch {
	case query.Get("q") != "":
		rows, err = api.DB.Queries.SearchCircuits(r.Context(), query.Get("q"))
	case query.Get("minPrice") != "" || query.Get("maxPrice") != "":
		minPrice, perr := parseFloatParam(query.Get("minPrice"), 0)
		if perr != nil {
			api.sendError(w, r, http.StatusBadRequest, "minPrice must be a number")
			return
		}
		maxPrice, perr := parseFloatParam(query.Get("maxPrice"), 1e12)
		if perr != nil {
			api.sendError(w, r, http.StatusBadRequest, "maxPrice must be a number")
			return
		}
		rows, err = api.DB.Queries.ListCircuitsByPriceRange(r.Context(), minPrice, maxPrice)
	case query.Get("maxSeats") != "":
		maxSeats, perr := strconv.ParseInt(query.Get("maxSeats"), 10, 64)
		if perr != nil {
			api.sendError(w, r, http.StatusBadRequest, "maxSeats must be an integer")
			return
		}
		rows, err = api.DB.Queries.ListCircuitsByMaxSeats(r.Context(), maxSeats)
	default:
		rows, err = api.DB.Queries.ListCircuits(r.Context())
	}
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	circuits := make([]models.Circuit, len(rows))
	for i, row := range rows {
		circuits[i] = models.NewCircuit(row)
	}
	api.sendResponse(w, r, models.NewOKResponse(circuits, api.Clock))
}

func (api *RestAPI) updateCircuitHandler(w http.ResponseWriter, r *http.Request) {
	var req circuitRequest
	if err := decodeRequest(r, &req); err != nil {
		api.sendError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var description sql.NullString
	if req.Description != "" {
		description = sql.NullString{String: req.Description, Valid: true}
	}

	affected, err := api.DB.Queries.UpdateCircuit(r.Context(), tourdb.UpdateCircuitParams{
		ID:          r.PathValue("id"),
		Title:       req.Title,
		Description: description,
		Price:       req.Price,
		Seats:       req.Seats,
		UpdatedAt:   api.Clock.Now().Unix(),
	})
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
	if affected == 0 {
		api.sendNotFound(w, r)
		return
	}

	circuit, err := api.DB.Queries.GetCircuit(r.Context(), r.PathValue("id"))
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
	api.sendResponse(w, r, models.NewOKResponse(models.NewCircuit(circuit), api.Clock))
}

func (api *RestAPI) deleteCircuitHandler(w http.ResponseWriter, r *http.Request) {
	circuitID := r.PathValue("id")

	// The waypoint associations die with the circuit, in the same
	// transaction so a failure leaves both intact.
	var affected int64
	err := api.DB.ExecTx(r.Context(), func(q *tourdb.Queries) error {
		n, err := q.SoftDeleteCircuit(r.Context(), circuitID, api.Clock.Now().Unix())
		if err != nil {
			return err
		}
		affected = n
		if n == 0 {
			return nil
		}
		return q.DeleteCircuitWaypoints(r.Context(), circuitID)
	})
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

func parseFloatParam(raw string, fallback float64) (float64, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(raw, 64)
}
