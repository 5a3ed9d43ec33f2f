// Package dto holds the request and response shapes of the HTTP API and
// validates requests before anything is persisted.
package dto
