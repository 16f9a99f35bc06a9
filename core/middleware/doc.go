// Package middleware contains HTTP middleware for the Fiber application.
//
//   - auth: API key validation protecting every non-public route.
//   - rayid: assigns each request a RayID, stored in the context and echoed
//     in the X-Ray-ID response header for tracing.
package middleware
