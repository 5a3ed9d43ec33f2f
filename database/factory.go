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
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// BaseDatabaseFactory creates and manages a configured database manager and
// provides helpers for initialization, migrations and health checks.
type BaseDatabaseFactory struct {
	config      *Config
	manager     AbstractDatabaseManager
	logger      Logger
	models      ModelRegistry
	foreignKeys []ForeignKeyConstraint
}

// NewDatabaseFactory returns a factory for cfg. A nil logger discards output.
func NewDatabaseFactory(cfg *Config, logger Logger) *BaseDatabaseFactory {
	return &BaseDatabaseFactory{
		config: cfg,
		logger: orNop(logger),
		models: NewModelRegistry(),
	}
}

// CreateFromConfig resolves the connection URL, checks the database type and
// constructs the manager.
func (f *BaseDatabaseFactory) CreateFromConfig() (AbstractDatabaseManager, error) {
	if f.config == nil {
		return nil, fmt.Errorf("database configuration cannot be empty")
	}
	if err := f.config.Connection.Validate(); err != nil {
		return nil, err
	}
	f.manager = NewDatabaseManager(&f.config.Connection, f.logger)
	return f.manager, nil
}

// RegisterModels adds models that migrations create and Bun registers.
func (f *BaseDatabaseFactory) RegisterModels(models ...SQLModel) {
	for _, m := range models {
		f.models.Register(m)
	}
}

// SetForeignKeys sets the code-defined constraints used when no foreign key
// file is configured.
func (f *BaseDatabaseFactory) SetForeignKeys(constraints []ForeignKeyConstraint) {
	f.foreignKeys = constraints
}

// InitializeDatabase connects to the database and optionally runs migrations.
func (f *BaseDatabaseFactory) InitializeDatabase(ctx context.Context, runMigrations bool) error {
	if f.manager == nil {
		return fmt.Errorf("database manager not created")
	}
	if err := f.manager.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	f.manager.GetDB().RegisterModel(f.models.Instances()...)

	if runMigrations {
		if err := f.Migrator().RunMigrations(ctx); err != nil {
			return fmt.Errorf("failed to run database migrations: %w", err)
		}
	}
	f.logger.Info("Database initialization completed!")
	return nil
}

// Migrator returns a migration manager bound to the current connection.
func (f *BaseDatabaseFactory) Migrator() *MigrationManager {
	return NewMigrationManager(f.GetDB(), f.logger, MigrationOptions{
		Models:      f.models,
		ForeignKeys: f.foreignKeys,
		Migrate:     f.config.Migrate,
		Seed:        f.config.Seed,
	})
}

// GetDB returns the Bun database instance, or nil if not initialized.
func (f *BaseDatabaseFactory) GetDB() *bun.DB {
	if f.manager == nil {
		return nil
	}
	return f.manager.GetDB()
}

// Close closes the database connection managed by the factory.
func (f *BaseDatabaseFactory) Close() error {
	if f.manager == nil {
		return nil
	}
	return f.manager.Disconnect()
}

// GetHealthStatus returns the current database health status from the manager.
func (f *BaseDatabaseFactory) GetHealthStatus(ctx context.Context) *HealthStatus {
	if f.manager == nil {
		return &HealthStatus{
			LastError:     "Database manager not initialized",
			LastCheckTime: time.Now(),
		}
	}
	return f.manager.HealthCheck(ctx)
}
