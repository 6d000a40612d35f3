// Package env reads process environment variables with defaults.
package env

import "os"

// Get reads key from the environment, falling back when it is unset or empty.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
