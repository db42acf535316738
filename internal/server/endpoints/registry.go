package endpoints

import (
	"github.com/jackzampolin/spellpane/internal/api"
)

// All returns all endpoint instances.
func All() []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&StatusEndpoint{},

		// Pane endpoints
		&ScanEndpoint{},
		&PaneEndpoint{},
		&ActionEndpoint{},

		// Document endpoints
		&DocumentEndpoint{},
		&SaveEndpoint{},

		// Static files (catch-all, must be last)
		&StaticEndpoint{},
	}
}
