package rcol

import "github.com/meigma/reasset/rsz"

// Option configures Parse.
type Option func(*config)

type config struct {
	userData bool
	registry *rsz.Registry
}

// WithUserData decodes the embedded RSZ block and resolves every user data
// reference during Parse.
//
// Default: false (only the header of the block is validated).
func WithUserData(enabled bool) Option {
	return func(c *config) {
		c.userData = enabled
	}
}

// WithRegistry sets the registry used to decode user data.
//
// Default: the compiled-in class table from rsz/classes.
func WithRegistry(reg *rsz.Registry) Option {
	return func(c *config) {
		c.registry = reg
	}
}
