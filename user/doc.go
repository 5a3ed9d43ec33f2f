// Package user stores and manages poll owners.
package user
