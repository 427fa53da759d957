// Package loader mounts feature modules on the fiber app.
//
// A feature bundles a service, its handler and its routes behind three methods:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// Manager.LoadAll mounts features in registration order and skips disabled ones,
// so the start command can register the lore and integrity features unconditionally
// and let each decide from its own dependencies whether it is usable. Loaded lists
// what was mounted, for the startup log line.
package loader
