// Package app assembles the database, services and HTTP server from a
// config.Config.
package app
