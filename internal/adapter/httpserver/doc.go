// Package httpserver is the HTTP surface of the redirector.
//
// Routes: "/" (404), "/config" (redirect to the config artifact), "/sha" (publish the
// commit identifier, rate limited), a catch-all that rewrites encoded target URLs, plus
// health, version and metrics endpoints. Errors are rendered as plain text by a single
// error boundary middleware.
package httpserver
