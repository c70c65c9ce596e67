// Package server provides the HTTP server for the served file and its
// refresh event stream.
//
// This package is internal to autorefresh and handles all HTTP concerns:
//
//   - File serving: streams the configured file at "/"
//   - Server-Sent Events: refresh notifications at "/events"
//   - Viewer: embedded auto-reloading HTML page at "/view"
//
// The server supports graceful shutdown via context cancellation, with a
// 5-second timeout for in-flight requests.
//
// Users of the autorefresh library should not need to interact with this
// package directly. The server is started by AutoRefresh.Start.
package server
