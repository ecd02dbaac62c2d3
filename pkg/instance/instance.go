package instance

import "os"

// GetID returns the process instance identifier used in log fields.
// Heroku-style dynos expose DYNO; anything else is a local run.
func GetID() string {
	if id := os.Getenv("DYNO"); id != "" {
		return id
	}
	return "local"
}
