// Package server provides HTTP routing, middleware, and handlers for previewing built blog assets.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Preview Handlers
//
// [MediaHandler] serves downloaded covers and placeholders from the media directory
// under the same /media/ paths the data file records, so a browser sees exactly
// what the deployed site would.
//
// [DataHandler] serves the music data JSON, re-read on every request so rebuilds
// show up without a restart. [HealthHandler] reports whether both exist.
//
// # Current Usage
//
// The serve command assembles these with [NewPreviewRouter] and runs a local
// HTTP server for checking build output before publishing.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
