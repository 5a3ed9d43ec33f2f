// Package repository provides a generic repository built on Bun: equality
// lookups, partial updates, deletes by key, fixed-size paging and
// transactional variants of every write.
package repository
