/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
	"github.com/uptrace/bun/schema"
)

var ErrNotConnected = errors.New("database not connected")

const healthPingTimeout = 5 * time.Second

// drivers maps a database type to its database/sql driver and Bun dialect.
var drivers = map[string]struct {
	name    string
	dialect func() schema.Dialect
}{
	TypeMySQL:    {"mysql", func() schema.Dialect { return mysqldialect.New() }},
	TypePostgres: {"postgres", func() schema.Dialect { return pgdialect.New() }},
	TypeSQLite:   {sqliteshim.ShimName, func() schema.Dialect { return sqlitedialect.New() }},
}

type defaultDatabaseManager struct {
	config *ConnectionConfig
	logger Logger

	mu             sync.Mutex
	db             *bun.DB
	reconnectTries int
	stopHealth     context.CancelFunc
}

// NewDatabaseManager returns a manager for config; a nil config uses
// DefaultConnectionConfig.
func NewDatabaseManager(config *ConnectionConfig, logger Logger) AbstractDatabaseManager {
	if config == nil {
		config = DefaultConnectionConfig()
	}
	return &defaultDatabaseManager{config: config, logger: orNop(logger)}
}

// Connect opens and pings the database, then starts the health ticker when
// HealthCheckInterval is positive. Connecting twice is a no-op.
func (dm *defaultDatabaseManager) Connect(ctx context.Context) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	if dm.db != nil {
		return nil
	}
	if err := dm.open(ctx); err != nil {
		return err
	}
	dm.reconnectTries = 0
	if dm.config.HealthCheckInterval > 0 && dm.stopHealth == nil {
		dm.startHealthCheck()
	}
	dm.logger.Info("Database connected", "type", dm.config.Type, "host", dm.config.Host, "db", dm.config.DBName)
	return nil
}

// open must be called with dm.mu held.
func (dm *defaultDatabaseManager) open(ctx context.Context) error {
	if err := dm.config.Validate(); err != nil {
		return err
	}
	driver, ok := drivers[dm.config.Type]
	if !ok {
		return fmt.Errorf("unsupported database type: %s", dm.config.Type)
	}
	sqlDB, err := sql.Open(driver.name, dm.config.DSN())
	if err != nil {
		return fmt.Errorf("failed to create database connection: %w", err)
	}
	dm.configurePool(sqlDB)

	db := bun.NewDB(sqlDB, driver.dialect())
	dm.addQueryHooks(db)

	timeout := dm.config.ConnectTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return fmt.Errorf("database connection test failed: %w", err)
	}
	dm.db = db
	return nil
}

func (dm *defaultDatabaseManager) addQueryHooks(db *bun.DB) {
	if dm.config.EnableQueryLog {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true), bundebug.FromEnv("BUNDEBUG")))
	} else {
		db.AddQueryHook(NewErrorQueryHook(os.Stderr))
	}
	if dm.config.SlowQueryTime > 0 {
		db.AddQueryHook(&slowQueryHook{slowTime: dm.config.SlowQueryTime, logger: dm.logger})
	}
}

func (dm *defaultDatabaseManager) configurePool(sqlDB *sql.DB) {
	// sqlite serializes writers, and an in-memory database lives only as
	// long as one of its connections.
	if dm.config.Type == TypeSQLite {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		return
	}
	sqlDB.SetMaxIdleConns(dm.config.MaxIdleConns)
	sqlDB.SetMaxOpenConns(dm.config.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(dm.config.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(dm.config.ConnMaxIdleTime)
}

// Disconnect stops the health ticker and closes the connection.
func (dm *defaultDatabaseManager) Disconnect() error {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	if dm.stopHealth != nil {
		dm.stopHealth()
		dm.stopHealth = nil
	}
	return dm.close()
}

// close must be called with dm.mu held.
func (dm *defaultDatabaseManager) close() error {
	if dm.db == nil {
		return nil
	}
	err := dm.db.Close()
	dm.db = nil
	if err != nil {
		dm.logger.Error("Failed to close database connection", "error", err)
		return err
	}
	dm.logger.Info("Database connection closed")
	return nil
}

func (dm *defaultDatabaseManager) GetDB() *bun.DB {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	return dm.db
}

// HealthCheck pings the database and reports pool usage.
func (dm *defaultDatabaseManager) HealthCheck(ctx context.Context) *HealthStatus {
	db := dm.GetDB()
	start := time.Now()
	status := &HealthStatus{LastCheckTime: start}
	if db == nil {
		status.LastError = ErrNotConnected.Error()
		return status
	}

	pingCtx, cancel := context.WithTimeout(ctx, healthPingTimeout)
	defer cancel()
	err := db.PingContext(pingCtx)
	status.ResponseTime = time.Since(start)
	if err != nil {
		status.LastError = err.Error()
	} else {
		status.Healthy = true
		status.Connected = true
	}

	stats := db.DB.Stats()
	status.ActiveConns = stats.InUse
	status.IdleConns = stats.Idle
	status.MaxOpenConns = stats.MaxOpenConnections
	return status
}

// startHealthCheck must be called with dm.mu held.
func (dm *defaultDatabaseManager) startHealthCheck() {
	ctx, cancel := context.WithCancel(context.Background())
	dm.stopHealth = cancel

	go func() {
		ticker := time.NewTicker(dm.config.HealthCheckInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if status := dm.HealthCheck(ctx); !status.Healthy && dm.config.EnableReconnect {
					dm.reconnect(ctx)
				}
			}
		}
	}()
}

// reconnect reopens the connection after ReconnectInterval, giving up once
// MaxReconnectTries attempts have failed in a row.
func (dm *defaultDatabaseManager) reconnect(ctx context.Context) {
	dm.mu.Lock()
	tries := dm.reconnectTries
	dm.mu.Unlock()
	if tries >= dm.config.MaxReconnectTries {
		dm.logger.Error("Max reconnect attempts reached", "tries", tries)
		return
	}

	select {
	case <-time.After(dm.config.ReconnectInterval):
	case <-ctx.Done():
		return
	}

	dm.mu.Lock()
	defer dm.mu.Unlock()
	dm.reconnectTries++
	dm.logger.Info("Reconnecting to the database", "try", dm.reconnectTries)
	_ = dm.close()
	connectCtx, cancel := context.WithTimeout(ctx, dm.config.ConnectTimeout)
	defer cancel()
	if err := dm.open(connectCtx); err != nil {
		dm.logger.Error("Reconnect failed", "error", err, "try", dm.reconnectTries)
		return
	}
	dm.reconnectTries = 0
	dm.logger.Info("Reconnect succeeded")
}
