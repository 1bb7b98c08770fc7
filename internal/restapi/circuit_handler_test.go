package restapi

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kaouthar-hr/Move2See-Project/tourdb"
)

func TestCreateCircuit(t *testing.T) {
	api := createTestApi(t)

	resp, model := serveApiRequest(t, api, http.MethodPost, "/api/circuits?key=ADMIN",
		map[string]any{"title": "Medina Loop", "description": "old town walk", "price": 150.0, "seats": 12}, nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	circuit := dataAsMap(t, model)
	assert.Equal(t, "Medina Loop", circuit["title"])
	assert.Equal(t, float64(150), circuit["price"])
	assert.Equal(t, float64(12), circuit["seats"])
}

func TestCreateCircuitValidation(t *testing.T) {
	api := createTestApi(t)

	resp, _ := serveApiRequest(t, api, http.MethodPost, "/api/circuits?key=ADMIN",
		map[string]any{"title": "", "price": 150.0, "seats": 12}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = serveApiRequest(t, api, http.MethodPost, "/api/circuits?key=ADMIN",
		map[string]any{"title": "Loop", "price": 10.0, "seats": 0}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetCircuitIncludesOrderedPois(t *testing.T) {
	api := createTestApi(t)
	circuitID := seedTestCircuit(t, api, "Loop")
	a := seedTestWaypoint(t, api, "A", 34.0, -5.0)
	b := seedTestWaypoint(t, api, "B", 34.1, -5.1)

	for i, poi := range []string{a, b} {
		resp, _ := serveApiRequest(t, api, http.MethodPost, "/api/circuits/poi/add?key=ADMIN",
			addPoiBody(circuitID, poi, int64(i+1)), nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	_, model := serveApiAndRetrieveEndpoint(t, api, "/api/circuits/"+circuitID+"?key=TEST")
	circuit := dataAsMap(t, model)

	pois := circuit["poiIdsOrdered"].([]interface{})
	ids := collectAllIdsFromObjects(t, pois, "poiId")
	assert.Equal(t, []string{a, b}, ids)
}

func TestListCircuitsFilters(t *testing.T) {
	api := createTestApi(t)
	ctx := context.Background()

	seed := func(title string, price float64, seats int64) string {
		id := uuid.NewString()
		err := api.DB.Queries.CreateCircuit(ctx, tourdb.CreateCircuitParams{
			ID: id, Title: title, Price: price, Seats: seats,
		})
		require.NoError(t, err)
		return id
	}
	cheap := seed("Old Town Stroll", 50, 8)
	mid := seed("Medina Loop", 150, 12)
	big := seed("Grand Tour", 400, 40)

	t.Run("keyword", func(t *testing.T) {
		_, model := serveApiAndRetrieveEndpoint(t, api, "/api/circuits?key=TEST&q=Medina")
		ids := collectAllIdsFromObjects(t, dataAsList(t, model), "id")
		assert.Equal(t, []string{mid}, ids)
	})

	t.Run("price range", func(t *testing.T) {
		_, model := serveApiAndRetrieveEndpoint(t, api, "/api/circuits?key=TEST&minPrice=40&maxPrice=200")
		ids := collectAllIdsFromObjects(t, dataAsList(t, model), "id")
		assert.ElementsMatch(t, []string{cheap, mid}, ids)
	})

	t.Run("max seats", func(t *testing.T) {
		_, model := serveApiAndRetrieveEndpoint(t, api, "/api/circuits?key=TEST&maxSeats=12")
		ids := collectAllIdsFromObjects(t, dataAsList(t, model), "id")
		assert.ElementsMatch(t, []string{cheap, mid}, ids)
	})

	t.Run("no filter", func(t *testing.T) {
		_, model := serveApiAndRetrieveEndpoint(t, api, "/api/circuits?key=TEST")
		ids := collectAllIdsFromObjects(t, dataAsList(t, model), "id")
		assert.ElementsMatch(t, []string{cheap, mid, big}, ids)
	})

	t.Run("bad price", func(t *testing.T) {
		resp, _ := serveApiAndRetrieveEndpoint(t, api, "/api/circuits?key=TEST&minPrice=abc")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestUpdateCircuit(t *testing.T) {
	api := createTestApi(t)
	circuitID := seedTestCircuit(t, api, "Loop")

	resp, model := serveApiRequest(t, api, http.MethodPut, "/api/circuits/"+circuitID+"?key=ADMIN",
		map[string]any{"title": "Renamed Loop", "price": 175.0, "seats": 14}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	circuit := dataAsMap(t, model)
	assert.Equal(t, "Renamed Loop", circuit["title"])
	assert.Equal(t, float64(175), circuit["price"])
}

func TestDeleteCircuit(t *testing.T) {
	api := createTestApi(t)
	circuitID := seedTestCircuit(t, api, "Loop")

	resp, _ := serveApiRequest(t, api, http.MethodDelete, "/api/circuits/"+circuitID+"?key=ADMIN", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = serveApiAndRetrieveEndpoint(t, api, "/api/circuits/"+circuitID+"?key=TEST")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteCircuitRemovesPoiAssociations(t *testing.T) {
	api := createTestApi(t)
	circuitID := seedTestCircuit(t, api, "Loop")
	a := seedTestWaypoint(t, api, "A", 34.0, -5.0)
	b := seedTestWaypoint(t, api, "B", 34.1, -5.1)

	for i, poi := range []string{a, b} {
		resp, _ := serveApiRequest(t, api, http.MethodPost, "/api/circuits/poi/add?key=ADMIN",
			addPoiBody(circuitID, poi, int64(i+1)), nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, _ := serveApiRequest(t, api, http.MethodDelete, "/api/circuits/"+circuitID+"?key=ADMIN", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	stops, err := api.DB.Queries.ListCircuitWaypoints(context.Background(), circuitID)
	require.NoError(t, err)
	assert.Empty(t, stops)
}

func TestUpdateCircuitNotFound(t *testing.T) {
	api := createTestApi(t)

	resp, _ := serveApiRequest(t, api, http.MethodPut, "/api/circuits/"+uuid.NewString()+"?key=ADMIN",
		map[string]any{"title": "Ghost", "price": 1.0, "seats": 1}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
