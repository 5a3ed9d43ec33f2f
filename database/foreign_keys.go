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
	"os"
	"path/filepath"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"gopkg.in/yaml.v3"
)

var validFKActions = []string{"CASCADE", "RESTRICT", "SET NULL", "NO ACTION"}

// ForeignKeyConstraint describes a foreign key relationship between tables.
type ForeignKeyConstraint struct {
	Table           string `yaml:"table"`
	Column          string `yaml:"column"`
	ReferenceTable  string `yaml:"reference_table"`
	ReferenceColumn string `yaml:"reference_column"`
	OnDelete        string `yaml:"on_delete,omitempty"`
	OnUpdate        string `yaml:"on_update,omitempty"`
	ConstraintName  string `yaml:"constraint_name,omitempty"`
	Description     string `yaml:"description,omitempty"`
}

// ForeignKeyConfig is the YAML document listing foreign key constraints.
type ForeignKeyConfig struct {
	ForeignKeys []ForeignKeyConstraint `yaml:"foreign_keys"`
}

// GenerateConstraintName returns the explicit name or a derived name.
func (fk *ForeignKeyConstraint) GenerateConstraintName() string {
	if fk.ConstraintName != "" {
		return fk.ConstraintName
	}
	return fmt.Sprintf("fk_%s_%s", fk.Table, fk.Column)
}

// ForeignKeyManager adds, drops and validates foreign key constraints.
type ForeignKeyManager struct {
	constraints []ForeignKeyConstraint
	logger      Logger
}

// NewForeignKeyManager creates a manager for the given constraints.
func NewForeignKeyManager(logger Logger, constraints []ForeignKeyConstraint) *ForeignKeyManager {
	return &ForeignKeyManager{constraints: constraints, logger: orNop(logger)}
}

// NewForeignKeyManagerFromFile loads constraints from a YAML file, falling
// back to defaults when the file is missing or unreadable.
func NewForeignKeyManagerFromFile(logger Logger, path string, defaults []ForeignKeyConstraint) *ForeignKeyManager {
	logger = orNop(logger)
	constraints, err := LoadForeignKeyConfig(path)
	if err != nil {
		logger.Debug("Failed to load foreign key constraints from config, using code-defined defaults", "error", err.Error(), "config_path", path)
		constraints = defaults
	}
	return NewForeignKeyManager(logger, constraints)
}

// LoadForeignKeyConfig reads constraints from a YAML file.
func LoadForeignKeyConfig(path string) ([]ForeignKeyConstraint, error) {
	if path == "" {
		return nil, fmt.Errorf("foreign key config path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var config ForeignKeyConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config.ForeignKeys, nil
}

// ExportToConfig writes the current constraints into a YAML file,
// creating directories as needed.
func (fkm *ForeignKeyManager) ExportToConfig(outputPath string) error {
	out := ForeignKeyConfig{ForeignKeys: make([]ForeignKeyConstraint, 0, len(fkm.constraints))}
	for _, c := range fkm.constraints {
		if c.Description == "" {
			c.Description = fmt.Sprintf("%s.%s -> %s.%s", c.Table, c.Column, c.ReferenceTable, c.ReferenceColumn)
		}
		out.ForeignKeys = append(out.ForeignKeys, c)
	}

	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// AddAllForeignKeys adds every constraint; the first failure aborts.
func (fkm *ForeignKeyManager) AddAllForeignKeys(ctx context.Context, db bun.IDB) error {
	for _, c := range fkm.constraints {
		if err := fkm.addForeignKey(ctx, db, c); err != nil {
			return fmt.Errorf("failed to add foreign key %s: %w", c.GenerateConstraintName(), err)
		}
		fkm.logger.Debug("Successfully added foreign key constraint", "constraint", c.GenerateConstraintName())
	}
	return nil
}

// DropAllForeignKeys removes every constraint, in reverse order.
func (fkm *ForeignKeyManager) DropAllForeignKeys(ctx context.Context, db bun.IDB) error {
	for i := len(fkm.constraints) - 1; i >= 0; i-- {
		c := fkm.constraints[i]
		if err := fkm.RemoveForeignKey(ctx, db, c.Table, c.GenerateConstraintName()); err != nil {
			return fmt.Errorf("failed to drop foreign key %s: %w", c.GenerateConstraintName(), err)
		}
	}
	return nil
}

func (fkm *ForeignKeyManager) addForeignKey(ctx context.Context, db bun.IDB, c ForeignKeyConstraint) error {
	query := "ALTER TABLE ? ADD CONSTRAINT ? FOREIGN KEY (?) REFERENCES ? (?)"
	if c.OnDelete != "" {
		query += " ON DELETE " + strings.ToUpper(c.OnDelete)
	}
	if c.OnUpdate != "" {
		query += " ON UPDATE " + strings.ToUpper(c.OnUpdate)
	}
	_, err := db.ExecContext(ctx, query,
		bun.Ident(c.Table), bun.Ident(c.GenerateConstraintName()), bun.Ident(c.Column),
		bun.Ident(c.ReferenceTable), bun.Ident(c.ReferenceColumn))
	return err
}

// RemoveForeignKey drops a named foreign key from a table.
func (fkm *ForeignKeyManager) RemoveForeignKey(ctx context.Context, db bun.IDB, tableName, constraintName string) error {
	query := "ALTER TABLE ? DROP CONSTRAINT ?"
	if db.Dialect().Name() == dialect.MySQL {
		query = "ALTER TABLE ? DROP FOREIGN KEY ?"
	}
	_, err := db.ExecContext(ctx, query, bun.Ident(tableName), bun.Ident(constraintName))
	return err
}

// GetConstraintsByTable returns the constraints defined for a table.
func (fkm *ForeignKeyManager) GetConstraintsByTable(tableName string) []ForeignKeyConstraint {
	var result []ForeignKeyConstraint
	for _, c := range fkm.constraints {
		if strings.EqualFold(c.Table, tableName) {
			result = append(result, c)
		}
	}
	return result
}

// ListAllConstraints returns all configured constraints.
func (fkm *ForeignKeyManager) ListAllConstraints() []ForeignKeyConstraint {
	return fkm.constraints
}

// ValidateConstraints checks the configured constraints for common issues.
func (fkm *ForeignKeyManager) ValidateConstraints() []error {
	var errs []error
	for _, c := range fkm.constraints {
		if c.Table == "" {
			errs = append(errs, fmt.Errorf("table name cannot be empty"))
		}
		if c.Column == "" {
			errs = append(errs, fmt.Errorf("column name cannot be empty: %s", c.Table))
		}
		if c.ReferenceTable == "" {
			errs = append(errs, fmt.Errorf("reference table name cannot be empty: %s.%s", c.Table, c.Column))
		}
		if c.ReferenceColumn == "" {
			errs = append(errs, fmt.Errorf("reference column name cannot be empty: %s.%s -> %s", c.Table, c.Column, c.ReferenceTable))
		}
		if c.OnDelete != "" && !isValidFKAction(c.OnDelete) {
			errs = append(errs, fmt.Errorf("invalid delete policy: %s, constraint: %s", c.OnDelete, c.GenerateConstraintName()))
		}
		if c.OnUpdate != "" && !isValidFKAction(c.OnUpdate) {
			errs = append(errs, fmt.Errorf("invalid update policy: %s, constraint: %s", c.OnUpdate, c.GenerateConstraintName()))
		}
	}
	return errs
}

func isValidFKAction(action string) bool {
	for _, a := range validFKActions {
		if strings.EqualFold(action, a) {
			return true
		}
	}
	return false
}
