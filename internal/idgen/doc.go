// Package idgen wraps the UUID generator used for task identifiers so that
// tests can stub it out. It lives under `internal` because callers should
// treat the generated identifiers as opaque strings rather than rely on
// their exact shape.
package idgen
