// Package middleware provides HTTP middleware for the interactive API.
//
// It includes:
//   - Request logging in W3C Extended Log Format through the logging package
//   - Prometheus request metrics labelled by route template
//   - gzip compression of JSON, CSV and text responses
package middleware
