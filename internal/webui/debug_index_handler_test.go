package webui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kaouthar-hr/Move2See-Project/internal/app"
	"github.com/Kaouthar-hr/Move2See-Project/internal/appconf"
	"github.com/Kaouthar-hr/Move2See-Project/tourdb"
)

func newTestWebUI(t *testing.T, env appconf.Environment) *WebUI {
	t.Helper()

	client, err := tourdb.NewClient(tourdb.NewConfig(":memory:", appconf.Test, false))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewWebUI(&app.Application{
		Config: appconf.Config{Env: env},
		DB:     client,
	})
}

func TestDebugIndexHandler_ProductionReturns404(t *testing.T) {
	webUI := newTestWebUI(t, appconf.Production)

	req, _ := http.NewRequest("GET", "/debug?dataType=waypoints", nil)
	rr := httptest.NewRecorder()

	webUI.debugIndexHandler(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code, "Should return 404 in Production")
}

func TestDebugIndexHandler_DumpsWaypoints(t *testing.T) {
	webUI := newTestWebUI(t, appconf.Development)

	err := webUI.DB.Queries.CreateWaypoint(context.Background(), tourdb.CreateWaypointParams{
		ID:   uuid.NewString(),
		Name: "Bab Boujloud",
		Lat:  34.0181,
		Lng:  -5.0078,
	})
	require.NoError(t, err)

	req, _ := http.NewRequest("GET", "/debug?dataType=waypoints", nil)
	rr := httptest.NewRecorder()

	webUI.debugIndexHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Bab Boujloud")
}

func TestDebugIndexHandler_UnknownDataType(t *testing.T) {
	webUI := newTestWebUI(t, appconf.Development)

	req, _ := http.NewRequest("GET", "/debug?dataType=nonsense", nil)
	rr := httptest.NewRecorder()

	webUI.debugIndexHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Please use one of the following")
}

func TestDebugIndexHandler_TracesRequireRouteID(t *testing.T) {
	webUI := newTestWebUI(t, appconf.Development)

	req, _ := http.NewRequest("GET", "/debug?dataType=traces", nil)
	rr := httptest.NewRecorder()

	webUI.debugIndexHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "routeId")
}
