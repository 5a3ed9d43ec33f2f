// Package api exposes the user, poll and vote services over HTTP with chi.
//
// All routes live under /api/v1. Request bodies are JSON and are validated
// by the services; a validation failure answers 422 with the offending
// fields, a missing record 404, and a constraint violation 409.
package api
