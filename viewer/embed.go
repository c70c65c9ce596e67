// Package viewer provides the embedded auto-reloading viewer page.
//
// This package uses Go's embed directive to include the viewer HTML at
// compile time, enabling single-binary deployment without external asset
// files.
//
// The page frames the served file and listens on the event stream,
// reloading the frame whenever a refresh event arrives. It is served by
// the server package at /view. Users of the autorefresh library should
// not need to interact with this package directly.
package viewer

import "embed"

// Assets is an embedded filesystem containing the viewer page.
//
// The filesystem structure is:
//
//	assets/
//	  index.html    - Viewer page with inline CSS and JavaScript
//
// Assets is used by the server package to serve the viewer. The embed
// directive includes all files in the assets directory at compile time.
//
//go:embed assets/*
var Assets embed.FS
