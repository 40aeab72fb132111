// Package central is an HTTP client for the repository publisher API.
//
// It uploads bundle archives and queries, promotes or drops the resulting
// deployments. The client never retries and never imposes its own timeout:
// callers bound every call through the context.
package central
