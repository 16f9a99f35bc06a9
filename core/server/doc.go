// Package server holds the HTTP server configuration.
//
// The start command builds the Fiber application; this package only defines
// the listen port, the API key protecting every non-public route and whether
// the prometheus endpoint is exposed.
package server
