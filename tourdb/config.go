package tourdb

import (
	"github.com/Kaouthar-hr/Move2See-Project/internal/appconf"
)

// Config holds the settings needed to open a tour database.
type Config struct {
	DBPath  string
	Env     appconf.Environment
	verbose bool
}

// NewConfig creates a Config for the given database path and environment.
func NewConfig(dbPath string, env appconf.Environment, verbose bool) Config {
	return Config{
		DBPath:  dbPath,
		Env:     env,
		verbose: verbose,
	}
}
