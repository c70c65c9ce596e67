// Package autorefresh serves a single file over HTTP and pushes a refresh
// notification to every connected browser whenever the process receives a
// designated OS signal.
//
// It is built for file-watching build tools running in continuous-preview
// mode. Point the tool's "previewer updated" hook at this process's signal
// and the browser reloads by itself, no polling. For latexmk:
//
//	$pdf_previewer = "autorefresh serve %S";
//	$pdf_update_method = 2;     # via signal
//	$pdf_update_signal = 1;     # SIGHUP
//
// # Quick Start
//
// Create an AutoRefresh and start it with graceful shutdown:
//
//	ar, _ := autorefresh.New("out/main.pdf")
//
//	// Set up graceful shutdown on SIGINT/SIGTERM
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	ar.Start(ctx) // blocks until context is cancelled
//
// # Configuration
//
// autorefresh uses the functional options pattern for configuration:
//
//	ar, err := autorefresh.New("out/main.pdf",
//	    autorefresh.WithPort(9090),
//	    autorefresh.WithMIMEType("application/pdf"),
//	    autorefresh.WithSignal(syscall.SIGUSR1),
//	    autorefresh.WithKeepAlive(30 * time.Second),
//	)
//
// # HTTP surface
//
//   - GET /: the served file, with Cache-Control: no-store
//   - GET /events: a Server-Sent Events stream; each signal receipt is
//     delivered as one "refresh" event to every open stream
//   - GET /view: an embedded page that frames the file and reloads it on
//     each refresh event, reconnecting automatically if the stream drops
//
// # Architecture
//
// autorefresh consists of several internal packages (under internal/):
//
//   - internal/hub: subscriber registry with snapshot broadcast
//   - internal/trigger: OS signal to broadcast bridge
//   - internal/server: HTTP server, file and SSE endpoints
//   - viewer: embedded auto-reloading page
//
// The internal packages are not part of the public API and may change
// without notice. The library is designed for single-binary deployment
// using Go's embed directive for the viewer page.
package autorefresh
