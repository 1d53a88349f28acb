// Package message holds the fixed strings the service greets callers with.
package message

const (
	// Welcome is returned to every caller of the root route.
	Welcome = "Welcome to IBM Cloud DevOps using Code Engine and Github Actions!"
	// Port prefixes the startup log line that reports the listen port.
	Port = "Application Running on port"
)

// WelcomeMessage returns the greeting served by the application.
func WelcomeMessage() string {
	return Welcome
}

// PortMessage returns the status text logged once the server is listening.
func PortMessage() string {
	return Port
}
