// Package trigger translates OS signals into refresh broadcasts.
//
// This package is internal to autorefresh. A [Bridge] installs a handler
// for one designated signal (SIGHUP by default) and drains deliveries on
// an ordinary goroutine, calling the hub's broadcast for each. The signal
// delivery path itself only deposits into a channel, so no registry work
// ever runs in signal-handling context.
//
// Signals arriving faster than broadcasts complete are coalesced: the
// notify channel holds one pending delivery, which guarantees at least
// one broadcast per burst.
//
// Users of the autorefresh library should not need to interact with this
// package directly. The bridge is started by AutoRefresh.Start.
package trigger
