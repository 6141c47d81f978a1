// Package app wires the application together: configuration, logging,
// OpenTelemetry, file discovery, services, handlers and the chi router.
// The Application container owns the HTTP server lifecycle and shuts
// everything down in order on interrupt.
package app
