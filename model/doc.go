// Package model defines the persisted record types: users, polls, poll
// options and votes. Keys are generated on insert and timestamps come from
// entity.Base; neither can be supplied through the Fields constructors.
package model
