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
)

// OpenOptions carries what Open registers before connecting.
type OpenOptions struct {
	Logger      Logger
	Models      []SQLModel
	ForeignKeys []ForeignKeyConstraint
	// RunMigrations overrides cfg.Migrate.EnableMigrateOnStartup when set.
	RunMigrations *bool
}

// Open builds a factory from cfg, connects and migrates. The caller owns
// the returned factory and must Close it.
func Open(ctx context.Context, cfg *Config, opts OpenOptions) (*BaseDatabaseFactory, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database configuration cannot be empty")
	}
	logger := opts.Logger
	if logger == nil {
		logger = NewLogger("DATABASE")
	}

	factory := NewDatabaseFactory(cfg, logger)
	factory.RegisterModels(opts.Models...)
	factory.SetForeignKeys(opts.ForeignKeys)
	if _, err := factory.CreateFromConfig(); err != nil {
		return nil, fmt.Errorf("failed to create database manager: %w", err)
	}

	migrate := cfg.Migrate.EnableMigrateOnStartup
	if opts.RunMigrations != nil {
		migrate = *opts.RunMigrations
	}
	if err := factory.InitializeDatabase(ctx, migrate); err != nil {
		_ = factory.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return factory, nil
}
