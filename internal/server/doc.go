// Package server hosts the Fiber HTTP service: the middleware chain (panic
// recovery, request IDs, access logging, CORS), the JSON error renderer that
// maps repository and content errors to status codes, and the shared upstream
// HTTP client. Route handlers live in the routes subpackage and receive their
// dependencies explicitly.
package server
