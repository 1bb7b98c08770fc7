package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Kaouthar-hr/Move2See-Project/internal/app"
	"github.com/Kaouthar-hr/Move2See-Project/internal/appconf"
	"github.com/Kaouthar-hr/Move2See-Project/internal/clock"
	"github.com/Kaouthar-hr/Move2See-Project/internal/models"
	"github.com/Kaouthar-hr/Move2See-Project/tourdb"
)

func createTestApi(t *testing.T) *RestAPI {
	t.Helper()
	return createTestApiWithClock(t, clock.NewMockClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)))
}

func createTestApiWithClock(t *testing.T, clk clock.Clock) *RestAPI {
	t.Helper()

	client, err := tourdb.NewClient(tourdb.NewConfig(":memory:", appconf.Test, false))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	application := &app.Application{
		Config: appconf.Config{
			Name:      "move2see-test",
			Env:       appconf.Test,
			ApiKeys:   []string{"TEST"},
			AdminKeys: []string{"ADMIN"},
			RateLimit: 100,
		},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		DB:     client,
		Clock:  clk,
	}
	return NewRestAPI(application)
}

func serveApiAndRetrieveEndpoint(t *testing.T, api *RestAPI, endpoint string) (*http.Response, models.ResponseModel) {
	t.Helper()
	return serveApiRequest(t, api, http.MethodGet, endpoint, nil, nil)
}

// serveApiRequest runs one request against a fresh test server and
// decodes the envelope. body is marshalled as JSON when non-nil.
func serveApiRequest(t *testing.T, api *RestAPI, method, endpoint string, body any, headers map[string]string) (*http.Response, models.ResponseModel) {
	t.Helper()

	mux := http.NewServeMux()
	api.SetRoutes(mux)
	server := httptest.NewServer(mux)
	defer server.Close()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, server.URL+endpoint, reqBody)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var model models.ResponseModel
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&model))
	return resp, model
}

func operatorHeaders(operatorID string) map[string]string {
	return map[string]string{"X-Operator-ID": operatorID}
}

// seedTestWaypoint inserts a waypoint directly through the data layer.
func seedTestWaypoint(t *testing.T, api *RestAPI, name string, lat, lng float64) string {
	t.Helper()

	id := uuid.NewString()
	err := api.DB.Queries.CreateWaypoint(context.Background(), tourdb.CreateWaypointParams{
		ID:   id,
		Name: name,
		Lat:  lat,
		Lng:  lng,
	})
	require.NoError(t, err)
	return id
}

func seedTestCircuit(t *testing.T, api *RestAPI, title string) string {
	t.Helper()

	id := uuid.NewString()
	err := api.DB.Queries.CreateCircuit(context.Background(), tourdb.CreateCircuitParams{
		ID:    id,
		Title: title,
		Price: 100,
		Seats: 10,
	})
	require.NoError(t, err)
	return id
}

// dataAsMap casts the envelope's data field for structural assertions.
func dataAsMap(t *testing.T, model models.ResponseModel) map[string]interface{} {
	t.Helper()

	data, ok := model.Data.(map[string]interface{})
	require.True(t, ok, "could not cast data to map, got %T", model.Data)
	return data
}

func dataAsList(t *testing.T, model models.ResponseModel) []interface{} {
	t.Helper()

	data, ok := model.Data.([]interface{})
	require.True(t, ok, "could not cast data to list, got %T", model.Data)
	return data
}
