package rules

// Config bundles the rule tables a combat needs. It is built once at startup
// and passed explicitly into session and resolver constructors; there is no
// package-level mutable rule state, so parallel test scenarios can run with
// different tables.
type Config struct {
	Orders *Orders
}

// NewConfig builds a Config around the given order table.
//
// Precondition: orders must be non-nil.
func NewConfig(orders *Orders) *Config {
	if orders == nil {
		panic("rules: NewConfig precondition violated: orders must not be nil")
	}
	return &Config{Orders: orders}
}

// Default returns a Config with the built-in order table.
func Default() *Config {
	return NewConfig(DefaultOrders())
}
