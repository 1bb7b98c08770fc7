package app

import (
	"crypto/subtle"
	"net/http"
)

func (app *Application) RequestHasInvalidAPIKey(r *http.Request) bool {
	key := r.URL.Query().Get("key")
	return app.IsInvalidAPIKey(key)
}

// IsInvalidAPIKey reports whether key is unknown. Admin keys are a
// superset of valid API keys.
func (app *Application) IsInvalidAPIKey(key string) bool {
	if key == "" {
		return true
	}
	return !matchesAny(key, app.Config.ApiKeys) && !matchesAny(key, app.Config.AdminKeys)
}

// IsAdminKey reports whether key belongs to the elevated set allowed to
// mutate circuits, waypoints and sequences.
func (app *Application) IsAdminKey(key string) bool {
	return matchesAny(key, app.Config.AdminKeys)
}

func (app *Application) RequestHasAdminKey(r *http.Request) bool {
	return app.IsAdminKey(r.URL.Query().Get("key"))
}

func matchesAny(key string, validKeys []string) bool {
	for _, validKey := range validKeys {
		// Use constant-time comparison to prevent timing attacks
		if subtle.ConstantTimeCompare([]byte(key), []byte(validKey)) == 1 {
			return true
		}
	}
	return false
}
