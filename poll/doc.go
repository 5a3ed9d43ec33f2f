// Package poll stores polls together with their options.
package poll
