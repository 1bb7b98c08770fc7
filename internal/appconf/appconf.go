// Package appconf holds application-level configuration shared across the
// server, the data layer and the web UI.
package appconf

type Environment int

const (
	Test Environment = iota
	Development
	Production
)

func (e Environment) String() string {
	switch e {
	case Test:
		return "test"
	case Production:
		return "production"
	default:
		return "development"
	}
}

// EnvFlagToEnvironment maps the -env flag (or APP_ENV variable) to an
// Environment. Unknown values fall back to Development.
func EnvFlagToEnvironment(flag string) Environment {
	switch flag {
	case "test":
		return Test
	case "production":
		return Production
	default:
		return Development
	}
}

// Config is the top-level application configuration.
type Config struct {
	Name      string
	Port      int
	Env       Environment
	DBPath    string
	ApiKeys   []string
	AdminKeys []string
	RateLimit int
	Verbose   bool
}
