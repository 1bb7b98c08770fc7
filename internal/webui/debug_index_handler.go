package webui

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/davecgh/go-spew/spew"

	"github.com/Kaouthar-hr/Move2See-Project/internal/appconf"
)

//go:embed debug_index.html
var templateFS embed.FS

type debugData struct {
	Title string
	Pre   string
}

func writeDebugData(w http.ResponseWriter, title string, data interface{}) {
	content := spew.Sdump(data)
	w.Header().Set("Content-Type", "text/html")
	tmpl, err := template.ParseFS(templateFS, "debug_index.html")
	if err != nil {
		// Log the actual error server-side
		slog.Error("failed to parse debug template", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	dataStruct := debugData{
		Title: title,
		Pre:   content,
	}

	err = tmpl.Execute(w, dataStruct)
	if err != nil {
		slog.Error("failed to execute debug template", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	if webUI.Config.Env == appconf.Production {
		http.NotFound(w, r)
		return
	}
	dataType := r.URL.Query().Get("dataType")
	ctx := r.Context()

	var data interface{}
	var err error
	var title string

	switch dataType {
	case "waypoints":
		data, err = webUI.DB.Queries.ListWaypoints(ctx)
		title = "Catalog - Waypoints"
	case "circuits":
		data, err = webUI.DB.Queries.ListCircuits(ctx)
		title = "Catalog - Circuits"
	case "routes":
		data, err = webUI.DB.Queries.ListRoutes(ctx)
		title = "Scheduling - Routes"
	case "traces":
		routeID := r.URL.Query().Get("routeId")
		if routeID == "" {
			data = map[string]string{"error": "traces requires a routeId query parameter."}
			title = "Tracking - Traces"
			break
		}
		data, err = webUI.DB.Queries.ListTracePoints(ctx, routeID)
		title = "Tracking - Traces"
	default:
		data = map[string]string{
			"error": "Please use one of the following: waypoints, circuits, routes, traces.",
		}
		title = "Choose a data type"
	}
	if err != nil {
		slog.Error("failed to load debug data", "error", err, "dataType", dataType)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	writeDebugData(w, title, data)
}
