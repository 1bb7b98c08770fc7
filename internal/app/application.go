package app

import (
	"log/slog"
	"net/http"

	"github.com/Kaouthar-hr/Move2See-Project/internal/appconf"
	"github.com/Kaouthar-hr/Move2See-Project/internal/clock"
	"github.com/Kaouthar-hr/Move2See-Project/internal/metrics"
	"github.com/Kaouthar-hr/Move2See-Project/tourdb"
)

// Application holds the dependencies for our HTTP handlers, helpers,
// and middleware.
type Application struct {
	Config  appconf.Config
	Logger  *slog.Logger
	DB      *tourdb.Client
	Clock   clock.Clock
	Metrics *metrics.Metrics
}

// OperatorID returns the caller identity attached by the upstream
// authentication layer, or the empty string.
func (app *Application) OperatorID(r *http.Request) string {
	return r.Header.Get("X-Operator-ID")
}
