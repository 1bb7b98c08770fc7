// Package webui serves a small operator-facing debug surface. It is
// disabled in production.
package webui

import (
	"net/http"

	"github.com/Kaouthar-hr/Move2See-Project/internal/app"
)

type WebUI struct {
	*app.Application
}

func NewWebUI(application *app.Application) *WebUI {
	return &WebUI{Application: application}
}

func (webUI *WebUI) SetRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /debug", webUI.debugIndexHandler)
}
