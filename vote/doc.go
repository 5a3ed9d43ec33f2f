// Package vote records votes. Votes are not tallied.
package vote
