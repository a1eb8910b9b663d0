// Package env reads raw process environment values that sit outside the
// envconfig-managed Config, such as logger bootstrap switches.
package env

import "os"

// Get returns the variable's value, or fallback when unset or empty.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
