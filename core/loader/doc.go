// Package loader provides the plugin-like feature loading system.
//
// Each feature implements the Feature interface, which defines its
// route registration logic.
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// The Manager holds the registry of available features and loads the
// enabled ones, in registration order, via LoadAll().
package loader
