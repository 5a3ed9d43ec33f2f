// Package database provides connection management, health checks, versioned
// reversible migrations, foreign key handling, SQL seeding, driver error
// classification and query logging built on top of Bun.
package database
