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
	"time"

	"github.com/uptrace/bun"
)

// AbstractDatabaseManager owns one Bun connection: opening it, probing
// it, and reopening it when health checks fail.
type AbstractDatabaseManager interface {
	Connect(ctx context.Context) error
	Disconnect() error
	HealthCheck(ctx context.Context) *HealthStatus
	GetDB() *bun.DB
}

// HealthStatus holds the result of a health check against the database.
type HealthStatus struct {
	Healthy       bool          `json:"healthy"`
	Connected     bool          `json:"connected"`
	ResponseTime  time.Duration `json:"response_time"`
	ActiveConns   int           `json:"active_conns"`
	IdleConns     int           `json:"idle_conns"`
	MaxOpenConns  int           `json:"max_open_conns"`
	LastError     string        `json:"last_error,omitempty"`
	LastCheckTime time.Time     `json:"last_check_time"`
}

// ConnectionConfig describes how to connect to a database and tune its pool.
// When URL is set it takes precedence over the individual fields.
type ConnectionConfig struct {
	URL                 string        `yaml:"url" env:"DATABASE_URL"`
	Type                string        `yaml:"type" env:"DB_TYPE"` // postgres, mysql, sqlite
	Host                string        `yaml:"host" env:"DB_HOST"`
	Port                int           `yaml:"port" env:"DB_PORT"`
	Username            string        `yaml:"username" env:"DB_USERNAME"`
	Password            string        `yaml:"password" env:"DB_PASSWORD"`
	DBName              string        `yaml:"dbname" env:"DB_NAME"`
	SSLMode             string        `yaml:"sslmode" env:"DB_SSLMODE"`
	MaxIdleConns        int           `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	MaxOpenConns        int           `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"100"`
	ConnMaxLifetime     time.Duration `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" env-default:"1h"`
	ConnMaxIdleTime     time.Duration `yaml:"conn_max_idle_time" env:"DB_CONN_MAX_IDLE_TIME" env-default:"30m"`
	ConnectTimeout      time.Duration `yaml:"connect_timeout" env:"DB_CONNECT_TIMEOUT" env-default:"10s"`
	ReadTimeout         time.Duration `yaml:"read_timeout" env:"DB_READ_TIMEOUT" env-default:"30s"`
	WriteTimeout        time.Duration `yaml:"write_timeout" env:"DB_WRITE_TIMEOUT" env-default:"30s"`
	EnableReconnect     bool          `yaml:"enable_reconnect" env:"DB_ENABLE_RECONNECT" env-default:"true"`
	ReconnectInterval   time.Duration `yaml:"reconnect_interval" env:"DB_RECONNECT_INTERVAL" env-default:"5s"`
	MaxReconnectTries   int           `yaml:"max_reconnect_tries" env:"DB_MAX_RECONNECT_TRIES" env-default:"3"`
	HealthCheckInterval time.Duration `yaml:"health_check_interval" env:"DB_HEALTH_CHECK_INTERVAL" env-default:"5m"`
	EnableQueryLog      bool          `yaml:"enable_query_log" env:"DB_ENABLE_QUERY_LOG"`
	SlowQueryTime       time.Duration `yaml:"slow_query_time" env:"DB_SLOW_QUERY_TIME" env-default:"2s"`
}

// MigrateConfig controls schema migration behavior.
type MigrateConfig struct {
	EnableMigrateOnStartup bool   `yaml:"enable_migrate_on_startup" env:"DB_MIGRATE_ON_STARTUP" env-default:"true"`
	EnableForeignKey       bool   `yaml:"enable_foreign_key" env:"DB_ENABLE_FOREIGN_KEY" env-default:"true"`
	ForeignKeyFile         string `yaml:"foreign_key_file" env:"DB_FOREIGN_KEY_FILE"`
	SeedOnMigration        bool   `yaml:"seed_on_migration" env:"DB_SEED_ON_MIGRATE"`
}

// SeedConfig controls SQL seed file discovery.
type SeedConfig struct {
	Filepath    string `yaml:"filepath" env:"DB_SEED_PATH" env-default:"configs/sql"`
	Environment string `yaml:"environment" env:"APP_ENV" env-default:"development"`
}

// Config aggregates connection, migration, and seeding settings.
type Config struct {
	Connection ConnectionConfig `yaml:"connection"`
	Migrate    MigrateConfig    `yaml:"migrate"`
	Seed       SeedConfig       `yaml:"seed"`
}

// DefaultConnectionConfig returns a connection config with sensible defaults.
func DefaultConnectionConfig() *ConnectionConfig {
	return &ConnectionConfig{
		MaxIdleConns:        10,
		MaxOpenConns:        100,
		ConnMaxLifetime:     time.Hour,
		ConnMaxIdleTime:     time.Minute * 30,
		ConnectTimeout:      time.Second * 10,
		ReadTimeout:         time.Second * 30,
		WriteTimeout:        time.Second * 30,
		EnableReconnect:     true,
		ReconnectInterval:   time.Second * 5,
		MaxReconnectTries:   3,
		HealthCheckInterval: time.Minute * 5,
		SlowQueryTime:       time.Second * 2,
	}
}
