// Package pollbox is the root of a CRUD backend for polls: users own polls,
// polls own options, and votes are recorded on their own. It holds the
// generic Service used by resources without extra rules.
package pollbox
