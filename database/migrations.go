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
	"errors"
	"fmt"
	"os"
	"reflect"
	"sort"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// ErrMigrationNotApplied is returned when rolling back a version that is
// not recorded in the migration log.
var ErrMigrationNotApplied = errors.New("migration not applied")

// Migration represents an applied migration record stored in the database.
type Migration struct {
	bun.BaseModel `bun:"table:bun_migration_log"`

	Version     string    `bun:"version,pk"`
	Name        string    `bun:"name"`
	AppliedAt   time.Time `bun:"applied_at"`
	Description string    `bun:"description"`
}

// MigrationFunc is a migration step executed within a transaction.
type MigrationFunc func(ctx context.Context, db bun.IDB) error

// MigrationItem describes a single migration version with up/down functions.
type MigrationItem struct {
	Version     string
	Name        string
	Description string
	Up          MigrationFunc
	Down        MigrationFunc
}

// MigrationOptions selects what the MigrationManager creates and seeds.
type MigrationOptions struct {
	Models      ModelRegistry
	ForeignKeys []ForeignKeyConstraint
	Migrate     MigrateConfig
	Seed        SeedConfig
}

// MigrationManager coordinates schema migrations and data initialization.
type MigrationManager struct {
	db      *bun.DB
	logger  Logger
	options MigrationOptions
}

// NewMigrationManager constructs a MigrationManager for the given database.
func NewMigrationManager(db *bun.DB, logger Logger, options MigrationOptions) *MigrationManager {
	if options.Models == nil {
		options.Models = NewModelRegistry()
	}
	if options.Seed.Environment == "" {
		options.Seed.Environment = "development"
	}
	return &MigrationManager{db: db, logger: orNop(logger), options: options}
}

// RunMigrations creates the migration log table if needed and executes all
// pending migrations in ascending version order.
func (mm *MigrationManager) RunMigrations(ctx context.Context) error {
	if mm.db == nil {
		return ErrNotConnected
	}
	if err := mm.createMigrationTable(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, migration := range mm.Migrations() {
		if err := mm.runMigration(ctx, migration); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", migration.Version, err)
		}
	}
	mm.logger.Info("Database migrations completed!")
	return nil
}

func (mm *MigrationManager) createMigrationTable(ctx context.Context) error {
	_, err := mm.db.NewCreateTable().
		Model((*Migration)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

// Migrations returns the migration set enabled by the options, sorted by
// version.
func (mm *MigrationManager) Migrations() []MigrationItem {
	migrations := []MigrationItem{
		{
			Version:     "001",
			Name:        "create_base_tables",
			Description: "Create base table structure",
			Up:          mm.createBaseTables,
			Down:        mm.dropBaseTables,
		},
	}
	if mm.options.Migrate.EnableForeignKey && mm.supportsAlterConstraint() {
		migrations = append(migrations, MigrationItem{
			Version:     "002",
			Name:        "add_foreign_keys",
			Description: "Add table foreign key constraints",
			Up:          mm.addForeignKeys,
			Down:        mm.dropForeignKeys,
		})
	}
	if mm.options.Migrate.SeedOnMigration {
		migrations = append(migrations, MigrationItem{
			Version:     "003",
			Name:        "seed_initial_data",
			Description: "Seed initial data",
			Up:          mm.seedInitialData,
			Down:        func(context.Context, bun.IDB) error { return nil },
		})
	}
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations
}

// sqlite cannot add constraints to an existing table.
func (mm *MigrationManager) supportsAlterConstraint() bool {
	return mm.db.Dialect().Name() != dialect.SQLite
}

func (mm *MigrationManager) runMigration(ctx context.Context, migration MigrationItem) error {
	exists, err := mm.db.NewSelect().
		Model((*Migration)(nil)).
		Where("version = ?", migration.Version).
		Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	err = mm.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := migration.Up(ctx, tx); err != nil {
			return err
		}
		_, err := tx.NewInsert().
			Model(&Migration{
				Version:     migration.Version,
				Name:        migration.Name,
				AppliedAt:   time.Now().UTC(),
				Description: migration.Description,
			}).
			Exec(ctx)
		return err
	})
	if err != nil {
		return err
	}
	mm.logger.Info("Migration executed successfully", "version", migration.Version, "name", migration.Name)
	return nil
}

// Rollback reverts one applied migration and removes its log record.
func (mm *MigrationManager) Rollback(ctx context.Context, version string) error {
	if mm.db == nil {
		return ErrNotConnected
	}
	var target *MigrationItem
	all := mm.allMigrations()
	for i := range all {
		if all[i].Version == version {
			target = &all[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("unknown migration version %q", version)
	}

	exists, err := mm.db.NewSelect().
		Model((*Migration)(nil)).
		Where("version = ?", version).
		Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrMigrationNotApplied, version)
	}

	err = mm.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if target.Down != nil {
			if err := target.Down(ctx, tx); err != nil {
				return err
			}
		}
		_, err := tx.NewDelete().
			Model((*Migration)(nil)).
			Where("version = ?", version).
			Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to roll back migration %s: %w", version, err)
	}
	mm.logger.Info("Migration rolled back", "version", version, "name", target.Name)
	return nil
}

// RollbackLast reverts the most recently applied migration. It returns the
// reverted version, or "" when nothing is applied.
func (mm *MigrationManager) RollbackLast(ctx context.Context) (string, error) {
	applied, err := mm.AppliedMigrations(ctx)
	if err != nil {
		return "", err
	}
	if len(applied) == 0 {
		return "", nil
	}
	last := applied[len(applied)-1].Version
	return last, mm.Rollback(ctx, last)
}

// allMigrations includes versions disabled by the current options so that
// records written under an earlier configuration can still be reverted.
func (mm *MigrationManager) allMigrations() []MigrationItem {
	saved := mm.options.Migrate
	mm.options.Migrate.EnableForeignKey = true
	mm.options.Migrate.SeedOnMigration = true
	defer func() { mm.options.Migrate = saved }()
	return mm.Migrations()
}

// AppliedMigrations returns migration records ordered by version.
func (mm *MigrationManager) AppliedMigrations(ctx context.Context) ([]Migration, error) {
	if mm.db == nil {
		return nil, ErrNotConnected
	}
	if err := mm.createMigrationTable(ctx); err != nil {
		return nil, err
	}
	var migrations []Migration
	err := mm.db.NewSelect().
		Model(&migrations).
		Order("version ASC").
		Scan(ctx)
	return migrations, err
}

func (mm *MigrationManager) createBaseTables(ctx context.Context, db bun.IDB) error {
	for _, model := range mm.options.Models.Instances() {
		_, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create table %s: %w", getModelName(model), err)
		}
	}
	return nil
}

func (mm *MigrationManager) dropBaseTables(ctx context.Context, db bun.IDB) error {
	models := mm.options.Models.Instances()
	for i := len(models) - 1; i >= 0; i-- {
		_, err := db.NewDropTable().
			Model(models[i]).
			IfExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to drop table %s: %w", getModelName(models[i]), err)
		}
	}
	return nil
}

func (mm *MigrationManager) foreignKeyManager() (*ForeignKeyManager, error) {
	fkm := NewForeignKeyManagerFromFile(mm.logger, mm.options.Migrate.ForeignKeyFile, mm.options.ForeignKeys)
	if errs := fkm.ValidateConstraints(); len(errs) > 0 {
		for _, err := range errs {
			mm.logger.Debug("Foreign key constraint validation failed", "error", err.Error())
		}
		return nil, fmt.Errorf("foreign key constraint validation failed, %d errors in total", len(errs))
	}
	return fkm, nil
}

func (mm *MigrationManager) addForeignKeys(ctx context.Context, db bun.IDB) error {
	fkm, err := mm.foreignKeyManager()
	if err != nil {
		return err
	}
	return fkm.AddAllForeignKeys(ctx, db)
}

func (mm *MigrationManager) dropForeignKeys(ctx context.Context, db bun.IDB) error {
	fkm, err := mm.foreignKeyManager()
	if err != nil {
		return err
	}
	return fkm.DropAllForeignKeys(ctx, db)
}

// InitData runs the SQL seed files outside the migration log.
func (mm *MigrationManager) InitData(ctx context.Context) error {
	if mm.db == nil {
		return ErrNotConnected
	}
	return mm.seedInitialData(ctx, mm.db)
}

func (mm *MigrationManager) seedInitialData(ctx context.Context, db bun.IDB) error {
	seeder := NewSQLInitManager(db, mm.logger, mm.options.Seed.Environment)
	if mm.options.Seed.Filepath != "" {
		seeder.SetSQLRootPath(mm.options.Seed.Filepath)
	}
	if _, err := os.Stat(seeder.SQLRootPath()); errors.Is(err, os.ErrNotExist) {
		mm.logger.Warn("Seed directory not found, skipping", "path", seeder.SQLRootPath())
		return nil
	}
	if err := seeder.ExecuteInitialization(ctx); err != nil {
		return fmt.Errorf("SQL file initialization failed: %w", err)
	}
	return nil
}

func getModelName(model interface{}) string {
	t := reflect.TypeOf(model)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
