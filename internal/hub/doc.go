// Package hub provides the subscriber registry and broadcast mechanism for
// refresh notifications.
//
// This package is internal to autorefresh and tracks every currently
// connected event-stream client. Each connection registers a [Subscriber]
// on arrival and unregisters it on disconnect; the signal path calls
// [Hub.Broadcast] to wake every registered subscriber.
//
// The main components are:
//
//   - [Hub]: concurrency-safe registry with register/unregister/broadcast
//   - [Subscriber]: one client's handle, delivering events over a channel
//
// The hub is designed for concurrent access with proper synchronization.
// Event delivery is non-blocking: a subscriber whose channel buffer is
// already full has a refresh pending and needs no second one, so the
// send is dropped rather than blocking the broadcast to others.
//
// Users of the autorefresh library should not need to interact with this
// package directly. The hub is managed internally by AutoRefresh.
package hub
