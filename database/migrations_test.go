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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

type testAuthor struct {
	bun.BaseModel `bun:"table:test_author"`

	ID   int64  `bun:"id,pk,autoincrement"`
	Name string `bun:"name,notnull"`
}

type testBook struct {
	bun.BaseModel `bun:"table:test_book"`

	ID       int64  `bun:"id,pk,autoincrement"`
	AuthorID int64  `bun:"author_id,notnull"`
	Title    string `bun:"title"`
}

func testModels() []SQLModel {
	return []SQLModel{
		NewModelAdapter((*testBook)(nil), 2),
		NewModelAdapter((*testAuthor)(nil), 1),
	}
}

func openTestDB(t *testing.T, cfg *Config) *BaseDatabaseFactory {
	t.Helper()
	if cfg.Connection.URL == "" {
		cfg.Connection = *DefaultConnectionConfig()
		cfg.Connection.URL = "file:" + t.Name() + "?mode=memory&cache=shared"
	}
	cfg.Connection.HealthCheckInterval = 0
	migrate := true
	factory, err := Open(context.Background(), cfg, OpenOptions{
		Logger:        NopLogger(),
		Models:        testModels(),
		ForeignKeys:   testConstraints[:1],
		RunMigrations: &migrate,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = factory.Close() })
	return factory
}

func appliedVersions(t *testing.T, mm *MigrationManager) []string {
	t.Helper()
	applied, err := mm.AppliedMigrations(context.Background())
	require.NoError(t, err)
	versions := make([]string, 0, len(applied))
	for _, m := range applied {
		versions = append(versions, m.Version)
	}
	return versions
}

func TestModelRegistryOrdersByPriority(t *testing.T) {
	registry := NewModelRegistry(testModels()...)
	instances := registry.Instances()
	require.Len(t, instances, 2)
	assert.IsType(t, (*testAuthor)(nil), instances[0])
	assert.IsType(t, (*testBook)(nil), instances[1])
}

func TestOpenRunsMigrations(t *testing.T) {
	cfg := &Config{Migrate: MigrateConfig{EnableForeignKey: true}}
	factory := openTestDB(t, cfg)
	ctx := context.Background()
	db := factory.GetDB()

	// sqlite has no ALTER TABLE ADD CONSTRAINT, so 002 is not part of the set.
	assert.Equal(t, []string{"001"}, appliedVersions(t, factory.Migrator()))

	_, err := db.NewInsert().Model(&testAuthor{Name: "Ada"}).Exec(ctx)
	require.NoError(t, err)
	n, err := db.NewSelect().Model((*testAuthor)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// second run is a no-op
	require.NoError(t, factory.Migrator().RunMigrations(ctx))
	assert.Equal(t, []string{"001"}, appliedVersions(t, factory.Migrator()))

	status := factory.GetHealthStatus(ctx)
	assert.True(t, status.Healthy)
	assert.True(t, status.Connected)
}

func TestRollbackLastDropsTables(t *testing.T) {
	factory := openTestDB(t, &Config{})
	ctx := context.Background()
	mm := factory.Migrator()

	version, err := mm.RollbackLast(ctx)
	require.NoError(t, err)
	assert.Equal(t, "001", version)
	assert.Empty(t, appliedVersions(t, mm))

	_, err = factory.GetDB().NewSelect().Model((*testAuthor)(nil)).Count(ctx)
	require.Error(t, err)
	is, kind := IsSqlError(err)
	assert.True(t, is)
	assert.Equal(t, NoTableErr, kind)

	version, err = mm.RollbackLast(ctx)
	require.NoError(t, err)
	assert.Empty(t, version)

	require.NoError(t, mm.RunMigrations(ctx))
	assert.Equal(t, []string{"001"}, appliedVersions(t, mm))
}

func TestRollbackErrors(t *testing.T) {
	factory := openTestDB(t, &Config{})
	ctx := context.Background()
	mm := factory.Migrator()

	assert.Error(t, mm.Rollback(ctx, "999"))
	assert.ErrorIs(t, mm.Rollback(ctx, "003"), ErrMigrationNotApplied)
}

func TestSeedMigration(t *testing.T) {
	dir := t.TempDir()
	writeSQL(t, filepath.Join(dir, "common", "001_authors.sql"),
		"-- authors\nINSERT INTO test_author (name) VALUES ('Ada');\nINSERT INTO test_author (name)\n  VALUES ('Grace');\n")
	writeSQL(t, filepath.Join(dir, "environments", "test", "001_books.sql"),
		"INSERT INTO test_book (author_id, title) VALUES (1, 'Notes')")
	writeSQL(t, filepath.Join(dir, "environments", "production", "001_books.sql"),
		"INSERT INTO test_book (author_id, title) VALUES (1, 'Prod only');")

	factory := openTestDB(t, &Config{
		Migrate: MigrateConfig{SeedOnMigration: true},
		Seed:    SeedConfig{Filepath: dir, Environment: "test"},
	})
	ctx := context.Background()
	db := factory.GetDB()

	assert.Equal(t, []string{"001", "003"}, appliedVersions(t, factory.Migrator()))

	authors, err := db.NewSelect().Model((*testAuthor)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, authors)

	var titles []string
	require.NoError(t, db.NewSelect().Model((*testBook)(nil)).Column("title").Scan(ctx, &titles))
	assert.Equal(t, []string{"Notes"}, titles)
}

func TestSeedMigrationMissingDirectory(t *testing.T) {
	factory := openTestDB(t, &Config{
		Migrate: MigrateConfig{SeedOnMigration: true},
		Seed:    SeedConfig{Filepath: filepath.Join(t.TempDir(), "none")},
	})
	assert.Equal(t, []string{"001", "003"}, appliedVersions(t, factory.Migrator()))
}

func TestFailedSeedRollsBackMigration(t *testing.T) {
	dir := t.TempDir()
	writeSQL(t, filepath.Join(dir, "common", "001_bad.sql"), "INSERT INTO nowhere (x) VALUES (1);")

	cfg := &Config{
		Migrate: MigrateConfig{SeedOnMigration: true},
		Seed:    SeedConfig{Filepath: dir},
	}
	cfg.Connection = *DefaultConnectionConfig()
	cfg.Connection.URL = "file:" + t.Name() + "?mode=memory&cache=shared"
	cfg.Connection.HealthCheckInterval = 0
	migrate := true
	_, err := Open(context.Background(), cfg, OpenOptions{
		Logger:        NopLogger(),
		Models:        testModels(),
		RunMigrations: &migrate,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "003")
}

func writeSQL(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
